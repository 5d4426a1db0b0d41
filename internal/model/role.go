package model

import (
	"errors"
	"fmt"
)

// Role is one of the fixed account roles. Values outside the enumeration are
// rejected by ParseRole and never reach authorization checks.
type Role string

const (
	RoleAdmin      Role = "admin"
	RoleStudent    Role = "student"
	RoleInstructor Role = "instructor"
	RolePortfolio  Role = "portfolio"
)

var ErrUnknownRole = errors.New("unknown role")

// Roles lists every valid role.
var Roles = []Role{RoleAdmin, RoleStudent, RoleInstructor, RolePortfolio}

// ParseRole converts an untrusted string into a Role.
func ParseRole(s string) (Role, error) {
	for _, r := range Roles {
		if string(r) == s {
			return r, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownRole, s)
}

func (r Role) Valid() bool {
	_, err := ParseRole(string(r))
	return err == nil
}

func (r Role) String() string {
	return string(r)
}
