package session

import (
	"fmt"
	"strings"
)

// Role selects which dashboard a session sees.
type Role string

const (
	RoleNone     Role = ""
	RoleDonor    Role = "donor"
	RoleHospital Role = "hospital"
	RoleAdmin    Role = "admin"
)

// Roles returns the selectable roles in the order the login form offers them.
func Roles() []Role {
	return []Role{RoleDonor, RoleHospital, RoleAdmin}
}

// ParseRole normalizes raw input into one of the three selectable roles.
func ParseRole(raw string) (Role, error) {
	r := Role(strings.ToLower(strings.TrimSpace(raw)))
	if !r.Valid() {
		return RoleNone, fmt.Errorf("%w: %q", ErrInvalidRole, raw)
	}
	return r, nil
}

// Valid reports whether r is donor, hospital or admin.
func (r Role) Valid() bool {
	switch r {
	case RoleDonor, RoleHospital, RoleAdmin:
		return true
	}
	return false
}

// Title is the label used on buttons and headings.
func (r Role) Title() string {
	switch r {
	case RoleDonor:
		return "Donor"
	case RoleHospital:
		return "Hospital"
	case RoleAdmin:
		return "Admin"
	}
	return ""
}

func (r Role) String() string { return string(r) }
