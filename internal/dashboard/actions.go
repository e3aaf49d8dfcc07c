package dashboard

import (
	"errors"
	"fmt"
	"strings"

	"lifelink.org/internal/session"
)

// ErrUnknownAction is returned for an action name no dashboard offers.
var ErrUnknownAction = errors.New("dashboard: unknown action")

// Action names a dashboard button. Every action is inert: triggering one is
// acknowledged and nothing else happens.
type Action string

const (
	ActionUpdateProfile    Action = "update-profile"
	ActionDownloadDocument Action = "download-document"
	ActionViewRequest      Action = "view-request"
	ActionRunMatching      Action = "run-matching"
	ActionManageUser       Action = "manage-user"
	ActionViewAuditLog     Action = "view-audit-log"
)

var actionOwners = map[Action]session.Role{
	ActionUpdateProfile:    session.RoleDonor,
	ActionDownloadDocument: session.RoleDonor,
	ActionViewRequest:      session.RoleHospital,
	ActionRunMatching:      session.RoleHospital,
	ActionManageUser:       session.RoleAdmin,
	ActionViewAuditLog:     session.RoleAdmin,
}

var actionLabels = map[Action]string{
	ActionUpdateProfile:    "Update Profile",
	ActionDownloadDocument: "Download",
	ActionViewRequest:      "View",
	ActionRunMatching:      "Run Matching Algorithm",
	ActionManageUser:       "Manage",
	ActionViewAuditLog:     "View Security Audit Log",
}

// ParseAction resolves a URL path segment to an Action.
func ParseAction(raw string) (Action, error) {
	a := Action(strings.ToLower(strings.TrimSpace(raw)))
	if _, ok := actionOwners[a]; !ok {
		return "", fmt.Errorf("%w: %q", ErrUnknownAction, raw)
	}
	return a, nil
}

// Owner is the role whose dashboard shows the action.
func (a Action) Owner() session.Role { return actionOwners[a] }

// Label is the button text.
func (a Action) Label() string { return actionLabels[a] }

func (a Action) String() string { return string(a) }

// Offers reports whether v shows action a.
func Offers(v View, a Action) bool {
	if v == nil {
		return false
	}
	for _, have := range v.Actions() {
		if have == a {
			return true
		}
	}
	return false
}
