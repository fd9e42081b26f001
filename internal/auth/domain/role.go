package domain

import (
	"errors"
	"fmt"
)

// Role is the principal's role tag. It is a closed set: authorization
// correctness depends on exhaustive handling, so roles are not free-form
// strings.
type Role string

const (
	RoleUser  Role = "user"
	RoleAdmin Role = "admin"
)

// ErrUnknownRole reports a role tag outside the closed set.
var ErrUnknownRole = errors.New("domain: unknown role")

// ParseRole validates a stored or transmitted role tag.
func ParseRole(s string) (Role, error) {
	switch Role(s) {
	case RoleUser:
		return RoleUser, nil
	case RoleAdmin:
		return RoleAdmin, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownRole, s)
	}
}

// Valid reports whether r is a member of the closed role set.
func (r Role) Valid() bool {
	_, err := ParseRole(string(r))
	return err == nil
}

// String returns the canonical tag.
func (r Role) String() string { return string(r) }
