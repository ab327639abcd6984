package service_test

import (
	"context"
	"testing"

	"mobileopsconnect/internal/apperr"
	"mobileopsconnect/internal/model"
	"mobileopsconnect/internal/service"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type userFixture struct {
	users *stubUserRepo
	audit *stubAuditSink
	svc   service.UserService

	superAdmin  service.Actor
	systemAdmin service.Actor
	manager     service.Actor
	employee    service.Actor
}

func newUserFixture(t *testing.T) *userFixture {
	t.Helper()
	f := &userFixture{
		users: newStubUserRepo(),
		audit: &stubAuditSink{},
	}
	f.svc = service.NewUserService(f.users, newStubLeaveRepo(), f.audit)

	f.superAdmin = actorWithRole(model.RoleSuperAdmin)
	f.systemAdmin = actorWithRole(model.RoleSystemAdmin)
	f.manager = actorWithRole(model.RoleDepartmentManager)
	f.employee = actorWithRole(model.RoleEmployee)
	for _, a := range []service.Actor{f.superAdmin, f.systemAdmin, f.manager, f.employee} {
		f.users.add(&model.User{ID: a.ID, Email: a.Email, Role: a.Role, Password: "x"})
	}
	return f
}

func TestUserCreateScope(t *testing.T) {
	f := newUserFixture(t)

	// SuperAdmin may only mint SystemAdmins
	created, err := f.svc.Create(context.Background(), f.superAdmin, service.CreateUserRequest{
		Email:    "new.sysadmin@mobileops.com",
		Password: "Password123!",
		Role:     model.RoleSystemAdmin,
	}, "10.0.0.1")
	require.NoError(t, err)
	assert.Equal(t, model.RoleSystemAdmin, created.Role)

	_, err = f.svc.Create(context.Background(), f.superAdmin, service.CreateUserRequest{
		Email:    "new.manager@mobileops.com",
		Password: "Password123!",
		Role:     model.RoleDepartmentManager,
	}, "10.0.0.1")
	assert.True(t, apperr.IsKind(err, apperr.KindAuthorization))

	// SystemAdmin mints the lower tiers but never another admin
	_, err = f.svc.Create(context.Background(), f.systemAdmin, service.CreateUserRequest{
		Email:    "new.employee@mobileops.com",
		Password: "Password123!",
		Role:     model.RoleEmployee,
	}, "10.0.0.1")
	require.NoError(t, err)

	_, err = f.svc.Create(context.Background(), f.systemAdmin, service.CreateUserRequest{
		Email:    "rogue.sysadmin@mobileops.com",
		Password: "Password123!",
		Role:     model.RoleSystemAdmin,
	}, "10.0.0.1")
	assert.True(t, apperr.IsKind(err, apperr.KindAuthorization))
}

func TestUserCreateDuplicateEmail(t *testing.T) {
	f := newUserFixture(t)

	_, err := f.svc.Create(context.Background(), f.systemAdmin, service.CreateUserRequest{
		Email:    f.employee.Email,
		Password: "Password123!",
		Role:     model.RoleEmployee,
	}, "10.0.0.1")
	assert.True(t, apperr.IsKind(err, apperr.KindConflict))
}

func TestUserUpdateRefusesOwnRoleChange(t *testing.T) {
	f := newUserFixture(t)

	_, err := f.svc.Update(context.Background(), f.systemAdmin, f.systemAdmin.ID.String(), service.UpdateUserRequest{
		Role: model.RoleEmployee,
	}, "10.0.0.1")
	assert.True(t, apperr.IsKind(err, apperr.KindAuthorization))
}

func TestUserUpdateOutOfScope(t *testing.T) {
	f := newUserFixture(t)

	// SuperAdmin cannot touch an employee account directly
	_, err := f.svc.Update(context.Background(), f.superAdmin, f.employee.ID.String(), service.UpdateUserRequest{
		Email: "renamed@mobileops.com",
	}, "10.0.0.1")
	assert.True(t, apperr.IsKind(err, apperr.KindAuthorization))

	// SystemAdmin cannot touch the SuperAdmin
	_, err = f.svc.Update(context.Background(), f.systemAdmin, f.superAdmin.ID.String(), service.UpdateUserRequest{
		Email: "renamed@mobileops.com",
	}, "10.0.0.1")
	assert.True(t, apperr.IsKind(err, apperr.KindAuthorization))
}

func TestUserDeleteGuards(t *testing.T) {
	f := newUserFixture(t)

	// Nobody deletes themselves
	err := f.svc.Delete(context.Background(), f.superAdmin, f.superAdmin.ID.String(), "10.0.0.1")
	assert.True(t, apperr.IsKind(err, apperr.KindAuthorization))

	// SystemAdmin can manage lower tiers but never delete them
	err = f.svc.Delete(context.Background(), f.systemAdmin, f.employee.ID.String(), "10.0.0.1")
	assert.True(t, apperr.IsKind(err, apperr.KindAuthorization))
	_, err = f.users.GetByID(context.Background(), f.employee.ID.String())
	require.NoError(t, err, "refused deletion must leave the account intact")

	// SuperAdmin deletes only SystemAdmins
	err = f.svc.Delete(context.Background(), f.superAdmin, f.manager.ID.String(), "10.0.0.1")
	assert.True(t, apperr.IsKind(err, apperr.KindAuthorization))

	err = f.svc.Delete(context.Background(), f.superAdmin, f.systemAdmin.ID.String(), "10.0.0.1")
	require.NoError(t, err)

	// Deletion lands in the audit trail as a critical record
	var critical bool
	for _, rec := range f.audit.records {
		if rec.Action == model.ActionDelete && rec.Critical {
			critical = true
		}
	}
	assert.True(t, critical)
}

func TestUserResetPasswordScope(t *testing.T) {
	f := newUserFixture(t)

	err := f.svc.ResetPassword(context.Background(), f.systemAdmin, f.employee.ID.String(), service.ResetPasswordRequest{
		NewPassword: "NewPassword123!",
	}, "10.0.0.1")
	require.NoError(t, err)

	err = f.svc.ResetPassword(context.Background(), f.systemAdmin, f.superAdmin.ID.String(), service.ResetPasswordRequest{
		NewPassword: "NewPassword123!",
	}, "10.0.0.1")
	assert.True(t, apperr.IsKind(err, apperr.KindAuthorization))
}

func TestUserListVisibleScoping(t *testing.T) {
	f := newUserFixture(t)

	// SuperAdmin sees themselves plus SystemAdmins
	visible, err := f.svc.ListVisible(context.Background(), f.superAdmin)
	require.NoError(t, err)
	assert.Len(t, visible, 2)

	// Department manager gets the whole roster read-only
	visible, err = f.svc.ListVisible(context.Background(), f.manager)
	require.NoError(t, err)
	assert.Len(t, visible, 4)

	// Employees see only themselves
	visible, err = f.svc.ListVisible(context.Background(), f.employee)
	require.NoError(t, err)
	require.Len(t, visible, 1)
	assert.Equal(t, f.employee.Email, visible[0].Email)
}

func TestUserEmployeeRecordsRequiresBoss(t *testing.T) {
	f := newUserFixture(t)

	_, err := f.svc.EmployeeRecords(context.Background(), f.employee)
	assert.True(t, apperr.IsKind(err, apperr.KindAuthorization))

	records, err := f.svc.EmployeeRecords(context.Background(), f.manager)
	require.NoError(t, err)
	assert.NotEmpty(t, records)
}
