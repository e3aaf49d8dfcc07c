// Package gate implements the login form logic. It is not an authentication
// mechanism: any pair of non-empty strings is accepted for any role.
package gate

import (
	"errors"
	"fmt"

	"lifelink.org/internal/session"
)

// DemoHint is shown beneath the login form.
const DemoHint = "Demo Credentials: Email: demo@example.com Password: demo123"

// ErrNoHolder is returned when Submit is called without a session holder.
var ErrNoHolder = errors.New("gate: no session holder")

// Credentials are the two fields of the login form. They are neither
// validated nor stored.
type Credentials struct {
	Identifier string `json:"identifier"`
	Secret     string `json:"secret"`
}

// Complete reports whether both fields are non-empty. Whitespace counts as
// content.
func (c Credentials) Complete() bool {
	return c.Identifier != "" && c.Secret != ""
}

// Outcome describes what a submission did.
type Outcome struct {
	Accepted bool         `json:"accepted"`
	Role     session.Role `json:"role,omitempty"`
}

// Submit grants role to h when both credential fields are filled in. An
// incomplete form is a silent no-op: the holder is untouched and no error is
// returned.
func Submit(h *session.Holder, c Credentials, role session.Role) (Outcome, error) {
	if h == nil {
		return Outcome{}, ErrNoHolder
	}
	if !role.Valid() {
		return Outcome{}, fmt.Errorf("gate submit: %w: %q", session.ErrInvalidRole, string(role))
	}
	if !c.Complete() {
		return Outcome{}, nil
	}
	if err := h.Login(role); err != nil {
		return Outcome{}, fmt.Errorf("gate submit: %w", err)
	}
	return Outcome{Accepted: true, Role: role}, nil
}
