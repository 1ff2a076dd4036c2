package domain

import (
	"fmt"
	"strings"
)

// Role identifies which of the three actor types a session belongs to.
// The role name doubles as the token prefix, so a token can never be
// mistaken for one issued to a different role.
type Role string

const (
	RoleAdmin    Role = "ADMIN"
	RoleCompany  Role = "COMPANY"
	RoleCustomer Role = "CUSTOMER"
)

// AdminID is the sentinel subject id for the administrator. The admin has no
// persisted record; the id is negative so it can never collide with a real id.
const AdminID int64 = -1

// ParseRole converts a login type string to a Role. Matching is
// case-insensitive; anything else fails with ErrInvalidLoginType.
func ParseRole(s string) (Role, error) {
	switch Role(strings.ToUpper(strings.TrimSpace(s))) {
	case RoleAdmin:
		return RoleAdmin, nil
	case RoleCompany:
		return RoleCompany, nil
	case RoleCustomer:
		return RoleCustomer, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrInvalidLoginType, s)
	}
}

func (r Role) String() string { return string(r) }
