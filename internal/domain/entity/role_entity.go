package entity

import "sort"

// Role is an authorization role carried by an AuthIdentity.
type Role string

const (
	RoleUser  Role = "USER"
	RoleAdmin Role = "ADMIN"
)

// Roles is a set of role names. It is stored as a text array.
type Roles map[Role]struct{}

// DefaultRoles is the role set assigned on registration.
func DefaultRoles() Roles {
	return NewRoles(RoleUser)
}

func NewRoles(rs ...Role) Roles {
	out := make(Roles, len(rs))
	for _, r := range rs {
		out[r] = struct{}{}
	}
	return out
}

// RolesFromStrings builds a set from persisted values, dropping blanks.
func RolesFromStrings(ss []string) Roles {
	out := make(Roles, len(ss))
	for _, s := range ss {
		if s == "" {
			continue
		}
		out[Role(s)] = struct{}{}
	}
	return out
}

func (r Roles) Has(role Role) bool {
	_, ok := r[role]
	return ok
}

// Strings returns the roles sorted, ready for persistence.
func (r Roles) Strings() []string {
	out := make([]string, 0, len(r))
	for role := range r {
		out = append(out, string(role))
	}
	sort.Strings(out)
	return out
}
