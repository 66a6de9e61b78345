package auth

// Role is one of the predefined access levels.
type Role string

const (
	RoleUser    Role = "user"
	RoleManager Role = "manager"
	RoleAdmin   Role = "admin"
)

// roleRank encodes the partial order over roles: admin implies manager-level
// access, manager does not imply admin.
var roleRank = map[Role]int{
	RoleUser:    0,
	RoleManager: 1,
	RoleAdmin:   2,
}

// IsValid checks if the role is one of the predefined roles.
func (r Role) IsValid() bool {
	_, ok := roleRank[r]
	return ok
}

// Satisfies reports whether a holder of the given role set meets the
// required role. Unknown role strings are ignored.
func Satisfies(roles []string, required Role) bool {
	need, ok := roleRank[required]
	if !ok {
		return false
	}
	for _, raw := range roles {
		if rank, ok := roleRank[Role(raw)]; ok && rank >= need {
			return true
		}
	}
	return false
}

// ValidRoleSet reports whether every entry names a predefined role and the
// set is non-empty.
func ValidRoleSet(roles []string) bool {
	if len(roles) == 0 {
		return false
	}
	for _, raw := range roles {
		if !Role(raw).IsValid() {
			return false
		}
	}
	return true
}
