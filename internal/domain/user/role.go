package user

type Role string

const (
	RoleOwner    Role = "owner"    // Company owner - full access
	RoleManager  Role = "manager"  // Can record and correct attendance
	RoleEmployee Role = "employee" // Regular employee
	RolePending  Role = "pending"  // Still in onboarding
)

func (r Role) IsManagerOrOwner() bool {
	return r == RoleManager || r == RoleOwner
}
