package domain

import (
	"errors"
	"strings"
)

// Role is the single role a membership carries within a tenant.
type Role string

const (
	RoleAdmin Role = "admin"
	RoleUser  Role = "user"
)

var ErrInvalidRole = errors.New("domain: invalid role")

// AllRoles lists the assignable roles, most privileged first.
func AllRoles() []Role { return []Role{RoleAdmin, RoleUser} }

func (r Role) IsValid() bool {
	return r == RoleAdmin || r == RoleUser
}

func (r Role) String() string { return string(r) }

// ParseRole accepts a role name in any case with surrounding whitespace.
func ParseRole(s string) (Role, error) {
	r := Role(strings.ToLower(strings.TrimSpace(s)))
	if !r.IsValid() {
		return "", ErrInvalidRole
	}
	return r, nil
}
