package session

import "fmt"

// Role is the closed set of helpdesk roles. Role checks fail closed:
// anything outside the set is rejected at the boundary instead of being
// compared as a free-form string.
type Role string

const (
	RoleAdmin Role = "admin"
	RoleAgent Role = "agent"
	RoleUser  Role = "user"
)

// ParseRole validates a role string coming from the backend or from
// persisted state.
func ParseRole(s string) (Role, error) {
	switch Role(s) {
	case RoleAdmin, RoleAgent, RoleUser:
		return Role(s), nil
	}
	return "", fmt.Errorf("unknown role %q (valid roles: %s, %s, %s)", s, RoleAdmin, RoleAgent, RoleUser)
}

// Valid reports whether r is one of the known roles.
func (r Role) Valid() bool {
	_, err := ParseRole(string(r))
	return err == nil
}
