package service_test

import (
	"context"
	"testing"
	"time"

	"mobileopsconnect/internal/apperr"
	"mobileopsconnect/internal/model"
	"mobileopsconnect/internal/service"
	ws "mobileopsconnect/internal/websocket"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type leaveFixture struct {
	repo     *stubLeaveRepo
	audit    *stubAuditSink
	notifier *stubNotifier
	svc      service.LeaveService

	employee service.Actor
	staff    service.Actor
	manager  service.Actor
	admin    service.Actor
}

func newLeaveFixture(t *testing.T) *leaveFixture {
	t.Helper()
	f := &leaveFixture{
		repo:     newStubLeaveRepo(),
		audit:    &stubAuditSink{},
		notifier: &stubNotifier{},
	}
	f.svc = service.NewLeaveService(f.repo, f.audit, f.notifier, ws.NewHub())

	f.employee = actorWithRole(model.RoleEmployee)
	f.staff = actorWithRole(model.RoleWarehouseStaff)
	f.manager = actorWithRole(model.RoleDepartmentManager)
	f.admin = actorWithRole(model.RoleSystemAdmin)
	for _, a := range []service.Actor{f.employee, f.staff, f.manager, f.admin} {
		f.repo.addUser(&model.User{ID: a.ID, Email: a.Email, Role: a.Role})
	}
	return f
}

func (f *leaveFixture) submit(t *testing.T, owner service.Actor) service.LeaveResponse {
	t.Helper()
	leave, err := f.svc.Create(context.Background(), owner, service.CreateLeaveRequest{
		LeaveType: "Vacation",
		StartDate: "2026-09-07",
		EndDate:   "2026-09-11",
		Reason:    "family trip",
	}, "10.0.0.1")
	require.NoError(t, err)
	return leave
}

func TestLeaveCreateStartsPending(t *testing.T) {
	f := newLeaveFixture(t)

	leave := f.submit(t, f.employee)

	assert.Equal(t, model.StatusPending, leave.Status)
	assert.Equal(t, f.employee.ID.String(), leave.OwnerID)
	assert.Nil(t, leave.ApproverID)
	assert.Nil(t, leave.ProcessedAt)
	assert.Contains(t, f.audit.actions(), model.ActionCreate)
	assert.NotEmpty(t, f.notifier.pushes, "approvers should be notified")
}

func TestLeaveCreateRejectsBadDates(t *testing.T) {
	f := newLeaveFixture(t)

	_, err := f.svc.Create(context.Background(), f.employee, service.CreateLeaveRequest{
		LeaveType: "Vacation",
		StartDate: "2026-09-11",
		EndDate:   "2026-09-07",
		Reason:    "backwards",
	}, "10.0.0.1")
	assert.True(t, apperr.IsKind(err, apperr.KindValidation))

	_, err = f.svc.Create(context.Background(), f.employee, service.CreateLeaveRequest{
		LeaveType: "Vacation",
		StartDate: "next week",
		EndDate:   "2026-09-07",
		Reason:    "unparseable",
	}, "10.0.0.1")
	assert.True(t, apperr.IsKind(err, apperr.KindValidation))
}

func TestLeaveApproveByHigherRank(t *testing.T) {
	f := newLeaveFixture(t)
	leave := f.submit(t, f.employee)

	approved, err := f.svc.Approve(context.Background(), f.manager, leave.ID, "10.0.0.2")
	require.NoError(t, err)

	assert.Equal(t, model.StatusApproved, approved.Status)
	require.NotNil(t, approved.ApproverID)
	assert.Equal(t, f.manager.ID.String(), *approved.ApproverID)
	assert.NotNil(t, approved.ProcessedAt)
	assert.Contains(t, f.audit.actions(), model.ActionApprove)
	assert.NotEmpty(t, f.notifier.emails, "owner should get an email")
}

func TestLeaveApproveRefusesEqualRank(t *testing.T) {
	f := newLeaveFixture(t)
	leave := f.submit(t, f.employee)

	// WarehouseStaff and Employee share the bottom rank
	_, err := f.svc.Approve(context.Background(), f.staff, leave.ID, "10.0.0.2")
	assert.True(t, apperr.IsKind(err, apperr.KindAuthorization))

	reloaded, err := f.svc.List(context.Background(), f.employee)
	require.NoError(t, err)
	require.Len(t, reloaded, 1)
	assert.Equal(t, model.StatusPending, reloaded[0].Status)
}

func TestLeaveSelfApprovalRefused(t *testing.T) {
	f := newLeaveFixture(t)
	leave := f.submit(t, f.manager)

	_, err := f.svc.Approve(context.Background(), f.manager, leave.ID, "10.0.0.2")
	assert.True(t, apperr.IsKind(err, apperr.KindAuthorization))
}

func TestLeaveDoubleResolveConflicts(t *testing.T) {
	f := newLeaveFixture(t)
	leave := f.submit(t, f.employee)

	_, err := f.svc.Approve(context.Background(), f.manager, leave.ID, "10.0.0.2")
	require.NoError(t, err)

	// A second resolution must fail and must not flip the outcome
	_, err = f.svc.Reject(context.Background(), f.admin, leave.ID, "10.0.0.3")
	assert.True(t, apperr.IsKind(err, apperr.KindConflict))

	all, err := f.svc.List(context.Background(), f.admin)
	require.NoError(t, err)
	require.Len(t, all, 1)
	assert.Equal(t, model.StatusApproved, all[0].Status)
}

func TestLeaveRejectFlow(t *testing.T) {
	f := newLeaveFixture(t)
	leave := f.submit(t, f.employee)

	rejected, err := f.svc.Reject(context.Background(), f.admin, leave.ID, "10.0.0.3")
	require.NoError(t, err)

	assert.Equal(t, model.StatusRejected, rejected.Status)
	assert.Contains(t, f.audit.actions(), model.ActionReject)
}

func TestLeaveUpdateOnlyOwnerWhilePending(t *testing.T) {
	f := newLeaveFixture(t)
	leave := f.submit(t, f.employee)

	// Someone else cannot edit, even an admin
	_, err := f.svc.Update(context.Background(), f.admin, leave.ID, service.UpdateLeaveRequest{
		LeaveType: "Sick",
		StartDate: "2026-09-07",
		EndDate:   "2026-09-08",
		Reason:    "changed",
	})
	assert.True(t, apperr.IsKind(err, apperr.KindAuthorization))

	// Owner can edit while pending
	updated, err := f.svc.Update(context.Background(), f.employee, leave.ID, service.UpdateLeaveRequest{
		LeaveType: "Sick",
		StartDate: "2026-09-07",
		EndDate:   "2026-09-08",
		Reason:    "changed",
	})
	require.NoError(t, err)
	assert.Equal(t, "Sick", updated.LeaveType)
	assert.Equal(t, model.StatusPending, updated.Status)

	// Once resolved, edits are refused
	_, err = f.svc.Approve(context.Background(), f.manager, leave.ID, "10.0.0.2")
	require.NoError(t, err)
	_, err = f.svc.Update(context.Background(), f.employee, leave.ID, service.UpdateLeaveRequest{
		LeaveType: "Vacation",
		StartDate: "2026-09-07",
		EndDate:   "2026-09-08",
		Reason:    "too late",
	})
	assert.True(t, apperr.IsKind(err, apperr.KindConflict))
}

func TestLeaveDeleteGuards(t *testing.T) {
	f := newLeaveFixture(t)
	leave := f.submit(t, f.employee)

	// A peer cannot delete someone else's request
	err := f.svc.Delete(context.Background(), f.staff, leave.ID, "10.0.0.4")
	assert.True(t, apperr.IsKind(err, apperr.KindAuthorization))

	// The owner can
	err = f.svc.Delete(context.Background(), f.employee, leave.ID, "10.0.0.4")
	require.NoError(t, err)

	_, err = f.svc.Approve(context.Background(), f.manager, leave.ID, "10.0.0.2")
	assert.True(t, apperr.IsKind(err, apperr.KindNotFound))
}

func TestLeaveListScoping(t *testing.T) {
	f := newLeaveFixture(t)
	f.submit(t, f.employee)
	f.submit(t, f.staff)

	// Non-boss sees only their own
	own, err := f.svc.List(context.Background(), f.employee)
	require.NoError(t, err)
	assert.Len(t, own, 1)

	// Bosses see everything
	all, err := f.svc.List(context.Background(), f.manager)
	require.NoError(t, err)
	assert.Len(t, all, 2)
}

func TestLeaveConcurrentApproversExactlyOneWins(t *testing.T) {
	f := newLeaveFixture(t)
	leave := f.submit(t, f.employee)

	results := make(chan error, 2)
	go func() {
		_, err := f.svc.Approve(context.Background(), f.manager, leave.ID, "10.0.0.2")
		results <- err
	}()
	go func() {
		_, err := f.svc.Reject(context.Background(), f.admin, leave.ID, "10.0.0.3")
		results <- err
	}()

	var failures int
	for i := 0; i < 2; i++ {
		select {
		case err := <-results:
			if err != nil {
				failures++
				assert.True(t, apperr.IsKind(err, apperr.KindConflict))
			}
		case <-time.After(5 * time.Second):
			t.Fatal("timed out waiting for approvers")
		}
	}
	assert.Equal(t, 1, failures, "exactly one approver should lose the race")
}
