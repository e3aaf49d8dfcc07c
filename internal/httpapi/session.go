package httpapi

import (
	"net/http"
	"slices"

	"lifelink.org/internal/session"
)

const sessionCookie = "lifelink_session"

// withSession resolves the session cookie to a holder and attaches it to the
// request context. A missing, forged, expired or evicted cookie simply means
// no session.
func (a *API) withSession(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if h, ok := a.holderFromCookie(r); ok {
			r = r.WithContext(session.ContextWithHolder(r.Context(), h))
		}
		next.ServeHTTP(w, r)
	})
}

func (a *API) holderFromCookie(r *http.Request) (*session.Holder, bool) {
	c, err := r.Cookie(sessionCookie)
	if err != nil {
		return nil, false
	}
	id, err := a.codec.Decode(c.Value)
	if err != nil {
		return nil, false
	}
	h, err := a.sessions.Get(id)
	if err != nil {
		return nil, false
	}
	return h, true
}

// holderFor returns the request's holder, opening one and setting the cookie
// when the visitor has none yet.
func (a *API) holderFor(w http.ResponseWriter, r *http.Request) (*session.Holder, *http.Request, error) {
	if h, ok := session.HolderFromContext(r.Context()); ok {
		return h, r, nil
	}
	h := a.sessions.Open()
	token, err := a.codec.Encode(h.ID())
	if err != nil {
		a.sessions.Close(h.ID())
		return nil, r, err
	}
	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookie,
		Value:    token,
		Path:     "/",
		MaxAge:   int(a.codec.TTL().Seconds()),
		HttpOnly: true,
		Secure:   a.cookieSecure,
		SameSite: http.SameSiteLaxMode,
	})
	return h, r.WithContext(session.ContextWithHolder(r.Context(), h)), nil
}

// teardown closes the request's holder and expires the cookie.
func (a *API) teardown(w http.ResponseWriter, r *http.Request) {
	if h, ok := session.HolderFromContext(r.Context()); ok {
		a.sessions.Close(h.ID())
	}
	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookie,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   a.cookieSecure,
		SameSite: http.SameSiteLaxMode,
	})
}

// RequireAuthenticated rejects requests without an authenticated session.
func (a *API) RequireAuthenticated(next http.Handler) http.Handler {
	return RequireRole(session.Roles()...)(next)
}

// RequireRole admits only authenticated sessions whose role is listed.
func RequireRole(roles ...session.Role) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			st := session.StateFromContext(r.Context())
			if !st.Authenticated {
				w.Header().Set("WWW-Authenticate", `Cookie realm="lifelink"`)
				writeError(w, r, http.StatusUnauthorized, "no active session")
				return
			}
			if !slices.Contains(roles, st.Role) {
				w.Header().Set("WWW-Authenticate", `Cookie realm="lifelink", error="insufficient_role"`)
				writeError(w, r, http.StatusForbidden, "role not permitted")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
