package session

import "context"

type holderContextKey struct{}

// ContextWithHolder attaches the request's session holder to the context.
func ContextWithHolder(ctx context.Context, h *Holder) context.Context {
	if h == nil {
		return ctx
	}
	return context.WithValue(ctx, holderContextKey{}, h)
}

// HolderFromContext extracts the session holder from the context.
func HolderFromContext(ctx context.Context) (*Holder, bool) {
	if ctx == nil {
		return nil, false
	}
	h, ok := ctx.Value(holderContextKey{}).(*Holder)
	if !ok || h == nil {
		return nil, false
	}
	return h, true
}

// StateFromContext returns the session state for the request, or the zero
// (unauthenticated) state when no holder is attached.
func StateFromContext(ctx context.Context) State {
	h, ok := HolderFromContext(ctx)
	if !ok {
		return State{}
	}
	return h.State()
}
