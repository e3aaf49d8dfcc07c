package httpapi

import (
	"errors"
	"net/http"

	"go.uber.org/zap"

	"lifelink.org/internal/audit"
	"lifelink.org/internal/dashboard"
	"lifelink.org/internal/gate"
	"lifelink.org/internal/obs"
	"lifelink.org/internal/session"
)

func newGatePage(identifier string) gatePage {
	p := gatePage{
		frame:      frame{Title: brandTitle},
		Subtitle:   brandSubtitle,
		Hint:       gate.DemoHint,
		Identifier: identifier,
	}
	for _, r := range session.Roles() {
		p.Roles = append(p.Roles, roleButton{Key: r.String(), Label: r.Title()})
	}
	return p
}

// handleShell renders the gate for visitors without an authenticated session
// and the dashboard of the session's role otherwise.
func (a *API) handleShell(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet && r.Method != http.MethodHead {
		methodNotAllowed(w, r, http.MethodGet, http.MethodHead)
		return
	}
	st := session.StateFromContext(r.Context())
	if !st.Authenticated {
		a.renderGate(w, r, http.StatusOK, "")
		return
	}
	view, err := dashboard.Build(r.Context(), st.Role, a.source)
	if err != nil {
		obs.Logger().Error("dashboard build failed",
			zap.String("request_id", RequestIDFromContext(r.Context())),
			zap.String("role", st.Role.String()),
			zap.Error(err),
		)
		http.Error(w, "dashboard unavailable", http.StatusInternalServerError)
		return
	}
	obs.ObserveDashboardRender(st.Role.String())
	if err := render(w, http.StatusOK, a.pages.dashboard, newDashboardPage(view, r.URL.Query().Get("tab"))); err != nil {
		a.renderFailed(w, r, err)
	}
}

func (a *API) renderGate(w http.ResponseWriter, r *http.Request, code int, identifier string) {
	if err := render(w, code, a.pages.gate, newGatePage(identifier)); err != nil {
		a.renderFailed(w, r, err)
	}
}

func (a *API) renderFailed(w http.ResponseWriter, r *http.Request, err error) {
	obs.Logger().Error("render failed",
		zap.String("request_id", RequestIDFromContext(r.Context())),
		zap.Error(err),
	)
	http.Error(w, "internal error", http.StatusInternalServerError)
}

// handleLogin processes the gate form. The clicked button supplies the role.
func (a *API) handleLogin(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		methodNotAllowed(w, r, http.MethodPost)
		return
	}
	if err := r.ParseForm(); err != nil {
		http.Error(w, "invalid form", http.StatusBadRequest)
		return
	}
	creds := gate.Credentials{
		Identifier: r.PostForm.Get("identifier"),
		Secret:     r.PostForm.Get("secret"),
	}
	role, err := session.ParseRole(r.PostForm.Get("role"))
	if err != nil {
		obs.ObserveGateSubmission("invalid", "rejected")
		http.Error(w, "invalid role", http.StatusBadRequest)
		return
	}

	out, r, err := a.submit(w, r, creds, role)
	if err != nil {
		if errors.Is(err, session.ErrInvalidRole) {
			http.Error(w, "invalid role", http.StatusBadRequest)
			return
		}
		a.renderFailed(w, r, err)
		return
	}
	if !out.Accepted {
		a.renderGate(w, r, http.StatusOK, creds.Identifier)
		return
	}
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

// submit runs the gate for the request's holder. Incomplete credentials
// never create a session.
func (a *API) submit(w http.ResponseWriter, r *http.Request, creds gate.Credentials, role session.Role) (gate.Outcome, *http.Request, error) {
	if !creds.Complete() {
		obs.ObserveGateSubmission(role.String(), "ignored")
		_ = audit.LogEvent(r.Context(), audit.EventLoginIgnored, zap.String("requested_role", role.String()))
		return gate.Outcome{}, r, nil
	}
	h, r, err := a.holderFor(w, r)
	if err != nil {
		return gate.Outcome{}, r, err
	}
	out, err := gate.Submit(h, creds, role)
	if err != nil {
		return out, r, err
	}
	obs.ObserveGateSubmission(role.String(), "accepted")
	_ = audit.LogEvent(r.Context(), audit.EventLogin)
	return out, r, nil
}

func (a *API) handleLogout(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		methodNotAllowed(w, r, http.MethodPost)
		return
	}
	a.logout(w, r)
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

func (a *API) logout(w http.ResponseWriter, r *http.Request) {
	if _, ok := session.HolderFromContext(r.Context()); ok {
		_ = audit.LogEvent(r.Context(), audit.EventLogout)
	}
	a.teardown(w, r)
}
