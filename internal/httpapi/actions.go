package httpapi

import (
	"context"
	"errors"
	"net/http"
	"net/url"

	"go.uber.org/zap"

	"lifelink.org/internal/audit"
	"lifelink.org/internal/dashboard"
	"lifelink.org/internal/session"
)

// errForeignAction marks an action that exists but belongs to another role.
var errForeignAction = errors.New("action not offered to this role")

// trigger acknowledges an inert dashboard action for the session in ctx.
func trigger(ctx context.Context, raw string) (dashboard.Action, error) {
	action, err := dashboard.ParseAction(raw)
	if err != nil {
		return "", err
	}
	st := session.StateFromContext(ctx)
	if action.Owner() != st.Role {
		return action, errForeignAction
	}
	_ = audit.LogEvent(ctx, audit.EventAction, zap.String("action", action.String()))
	return action, nil
}

type actionResponse struct {
	Action string `json:"action"`
	Status string `json:"status"`
}

func (a *API) handleAction(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		methodNotAllowed(w, r, http.MethodPost)
		return
	}
	action, err := trigger(r.Context(), r.PathValue("action"))
	switch {
	case errors.Is(err, errForeignAction):
		writeError(w, r, http.StatusForbidden, "action not offered to this role")
		return
	case err != nil:
		handleSessionError(w, r, err)
		return
	}
	writeJSON(w, http.StatusAccepted, actionResponse{Action: action.String(), Status: "noop"})
}

// handleShellAction is the form-post twin of handleAction; it returns the
// browser to the tab it came from.
func (a *API) handleShellAction(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		methodNotAllowed(w, r, http.MethodPost)
		return
	}
	if !session.StateFromContext(r.Context()).Authenticated {
		http.Redirect(w, r, "/", http.StatusSeeOther)
		return
	}
	_, err := trigger(r.Context(), r.PathValue("action"))
	switch {
	case errors.Is(err, errForeignAction):
		http.Error(w, "action not offered to this role", http.StatusForbidden)
		return
	case err != nil:
		http.Error(w, "unknown action", http.StatusNotFound)
		return
	}
	target := "/"
	if err := r.ParseForm(); err == nil {
		if tab := r.PostForm.Get("tab"); tab != "" {
			target = "/?" + url.Values{"tab": {tab}}.Encode()
		}
	}
	http.Redirect(w, r, target, http.StatusSeeOther)
}
