package audit

import (
	"context"
	"errors"
	"strings"

	"go.uber.org/zap"

	"lifelink.org/internal/obs"
	"lifelink.org/internal/session"
)

// Event names emitted by the HTTP layer.
const (
	EventLogin        = "session.login"
	EventLoginIgnored = "session.login_ignored"
	EventLogout       = "session.logout"
	EventAction       = "dashboard.action"
)

type requestIDKey struct{}

// WithRequestID attaches the request identifier to the context for audit logging.
func WithRequestID(ctx context.Context, requestID string) context.Context {
	requestID = strings.TrimSpace(requestID)
	if requestID == "" {
		return ctx
	}
	return context.WithValue(ctx, requestIDKey{}, requestID)
}

// RequestIDFromContext returns the request id stored by WithRequestID.
func RequestIDFromContext(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	if v, ok := ctx.Value(requestIDKey{}).(string); ok {
		return v
	}
	return ""
}

// LogEvent writes an audit entry enriched with the request id and the
// session holder found in ctx. Credentials must never be passed as fields.
func LogEvent(ctx context.Context, event string, fields ...zap.Field) error {
	event = strings.TrimSpace(event)
	if event == "" {
		return errors.New("event name is required")
	}
	base := []zap.Field{
		zap.String("type", "audit"),
		zap.String("event", event),
	}
	if rid := RequestIDFromContext(ctx); rid != "" {
		base = append(base, zap.String("request_id", rid))
	}
	if h, ok := session.HolderFromContext(ctx); ok {
		base = append(base, zap.String("session_id", h.ID()))
		if st := h.State(); st.Authenticated {
			base = append(base, zap.String("role", st.Role.String()))
		}
	}
	obs.Logger().Info("audit", append(base, fields...)...)
	return nil
}
