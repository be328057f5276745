package domain

type Role string

const (
	// Regular customer: can purchase lockers and manage their own account.
	RoleUser Role = "user"
	// Pickup-point admin: a user with a terminal assigned to them.
	RolePupAdmin Role = "pup_admin"
	// Platform admin: full terminal/locker/user management.
	RoleAdmin Role = "admin"
)

func IsValidRole(r string) bool {
	return r == string(RoleUser) || r == string(RolePupAdmin) || r == string(RoleAdmin)
}

// RoleRank: bigger => higher privilege
func RoleRank(r string) int {
	switch r {
	case string(RoleUser):
		return 1
	case string(RolePupAdmin):
		return 2
	case string(RoleAdmin):
		return 3
	default:
		return 0
	}
}
