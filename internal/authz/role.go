package authz

// Role is the permission tier a user holds within one organisation. Tiers are
// ordered; every grant of a lower tier is also held by the tiers above it.
type Role string

const (
	RoleViewer           Role = "viewer"
	RoleAccountant       Role = "accountant"
	RoleExternalOperator Role = "external_operator"
	RoleOperator         Role = "operator"
	RoleManager          Role = "manager"
	RoleOwner            Role = "owner"
)

var roleRanks = map[Role]int{
	RoleViewer:           0,
	RoleAccountant:       1,
	RoleExternalOperator: 2,
	RoleOperator:         3,
	RoleManager:          4,
	RoleOwner:            5,
}

// Roles lists all roles in ascending rank order.
var Roles = []Role{
	RoleViewer,
	RoleAccountant,
	RoleExternalOperator,
	RoleOperator,
	RoleManager,
	RoleOwner,
}

// Rank returns the position of the role in the hierarchy, -1 for unknown
// roles.
func (r Role) Rank() int {
	rank, ok := roleRanks[r]
	if !ok {
		return -1
	}
	return rank
}

// Valid reports whether r is a known role.
func (r Role) Valid() bool {
	_, ok := roleRanks[r]
	return ok
}

func (r Role) String() string {
	return string(r)
}

// ParseRole converts a string into a Role, reporting whether it is known.
func ParseRole(s string) (Role, bool) {
	role := Role(s)
	return role, role.Valid()
}

// MaxRole returns the highest-ranked role of the given set, defaulting to
// viewer for an empty set.
func MaxRole(roles []Role) Role {
	max := RoleViewer
	for _, role := range roles {
		if role.Rank() > max.Rank() {
			max = role
		}
	}
	return max
}
