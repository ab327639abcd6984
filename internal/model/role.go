package model

// Role names form a closed enumeration. Accounts carry exactly one role.
const (
	RoleSuperAdmin        = "SuperAdmin"
	RoleSystemAdmin       = "SystemAdmin"
	RoleDepartmentManager = "DepartmentManager"
	RoleWarehouseStaff    = "WarehouseStaff"
	RoleEmployee          = "Employee"
)

// AllRoles lists every valid role name, highest rank first.
var AllRoles = []string{
	RoleSuperAdmin,
	RoleSystemAdmin,
	RoleDepartmentManager,
	RoleWarehouseStaff,
	RoleEmployee,
}

// RoleRank maps a role name to its rank in the approval hierarchy:
// SuperAdmin(4) > SystemAdmin(3) > DepartmentManager(2) > WarehouseStaff,
// Employee(1). Unknown roles rank lowest. Every approval guard compares
// ranks through this single function so the leave and order workflows can
// never drift apart.
func RoleRank(role string) int {
	switch role {
	case RoleSuperAdmin:
		return 4
	case RoleSystemAdmin:
		return 3
	case RoleDepartmentManager:
		return 2
	default:
		return 1
	}
}

// IsBoss reports whether a role carries approval authority.
func IsBoss(role string) bool {
	return RoleRank(role) >= 2
}

// IsValidRole reports whether the given name is part of the enumeration.
func IsValidRole(role string) bool {
	for _, r := range AllRoles {
		if r == role {
			return true
		}
	}
	return false
}
