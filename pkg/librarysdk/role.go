package librarysdk

import "strings"

// Role is the coarse permission class that decides which screens are reachable.
type Role string

const (
	RoleUnknown  Role = ""
	RoleCustomer Role = "customer"
	RoleEmployee Role = "employee"
)

// ParseRole maps stored or claimed role strings onto a Role. Anything it does
// not recognise is RoleUnknown.
func ParseRole(s string) Role {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "customer", "reader", "user":
		return RoleCustomer
	case "employee", "librarian", "staff":
		return RoleEmployee
	default:
		return RoleUnknown
	}
}

func (r Role) Valid() bool { return r == RoleCustomer || r == RoleEmployee }

func (r Role) String() string { return string(r) }

// Other returns the opposite role; RoleUnknown has no opposite.
func (r Role) Other() Role {
	switch r {
	case RoleCustomer:
		return RoleEmployee
	case RoleEmployee:
		return RoleCustomer
	default:
		return RoleUnknown
	}
}
