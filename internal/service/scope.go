package service

import (
	"mobileopsconnect/internal/model"

	"github.com/google/uuid"
)

// Actor is the authenticated principal performing an operation.
type Actor struct {
	ID    uuid.UUID
	Email string
	Role  string
}

// Rank returns the actor's position in the approval hierarchy.
func (a Actor) Rank() int {
	return model.RoleRank(a.Role)
}

// CanManage reports whether the actor may view or manage the target
// account. The model is a strict two-tier delegated-admin scheme, not a
// plain "higher rank manages lower rank" rule:
//
//   - everyone manages their own account (role changes are refused by the
//     callers, not here)
//   - SuperAdmin manages ONLY SystemAdmin accounts
//   - SystemAdmin manages everything except SuperAdmin and SystemAdmin
//   - nobody else manages anyone
//
// The SuperAdmin restriction is intentional; do not widen it.
func CanManage(actor Actor, targetID uuid.UUID, targetRole string) bool {
	if actor.ID == targetID {
		return true
	}

	switch actor.Role {
	case model.RoleSuperAdmin:
		return targetRole == model.RoleSystemAdmin
	case model.RoleSystemAdmin:
		return targetRole != model.RoleSuperAdmin && targetRole != model.RoleSystemAdmin
	default:
		return false
	}
}

// AllowedRolesToAssign returns the set of roles the actor may hand out.
// When creating, SuperAdmin may only mint SystemAdmins; when editing
// another account it may additionally promote to SuperAdmin.
func AllowedRolesToAssign(actor Actor, editingOther bool) []string {
	switch actor.Role {
	case model.RoleSuperAdmin:
		if editingOther {
			return []string{model.RoleSystemAdmin, model.RoleSuperAdmin}
		}
		return []string{model.RoleSystemAdmin}
	case model.RoleSystemAdmin:
		return []string{model.RoleDepartmentManager, model.RoleWarehouseStaff, model.RoleEmployee}
	default:
		return nil
	}
}

// CanAssignRole reports whether the actor may assign the given role.
func CanAssignRole(actor Actor, editingOther bool, role string) bool {
	for _, allowed := range AllowedRolesToAssign(actor, editingOther) {
		if allowed == role {
			return true
		}
	}
	return false
}

// CanApprove applies the strict rank guard shared by the leave and order
// workflows: the approver must outrank the request owner. Equal rank (and
// therefore self-approval) is always refused.
func CanApprove(approver Actor, ownerRole string) bool {
	return approver.Rank() > model.RoleRank(ownerRole)
}
