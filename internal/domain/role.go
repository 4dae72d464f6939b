package domain

import (
	"fmt"
	"strings"
)

// Role is the closed set of roles a user can hold.
type Role string

const (
	// RoleOwner has full control over todos and users and may invite others.
	RoleOwner Role = "Owner"

	// RoleGuest can read todos and toggle their completion.
	RoleGuest Role = "Guest"
)

// ParseRole converts a case-insensitive role name into a Role.
func ParseRole(s string) (Role, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "owner":
		return RoleOwner, nil
	case "guest":
		return RoleGuest, nil
	default:
		return "", fmt.Errorf("%w: unknown role %q", ErrValidation, s)
	}
}

// Valid reports whether r is one of the known roles.
func (r Role) Valid() bool {
	return r == RoleOwner || r == RoleGuest
}

// String implements fmt.Stringer.
func (r Role) String() string {
	return string(r)
}

// CanInvite reports whether a user with this role may invite new users.
func (r Role) CanInvite() bool {
	return r == RoleOwner
}

// CanManageTodos reports whether a user with this role may create, update
// and delete todo items.
func (r Role) CanManageTodos() bool {
	return r == RoleOwner
}

// CanManageUsers reports whether a user with this role may list, edit and
// delete other user accounts.
func (r Role) CanManageUsers() bool {
	return r == RoleOwner
}
