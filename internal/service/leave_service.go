package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"mobileopsconnect/internal/apperr"
	"mobileopsconnect/internal/model"
	"mobileopsconnect/internal/repository"
	ws "mobileopsconnect/internal/websocket"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const dateLayout = "2006-01-02"

// --- DTOs ---

type CreateLeaveRequest struct {
	LeaveType string `json:"leave_type" binding:"required"`
	StartDate string `json:"start_date" binding:"required"` // YYYY-MM-DD
	EndDate   string `json:"end_date" binding:"required"`   // YYYY-MM-DD
	Reason    string `json:"reason" binding:"required"`
}

type UpdateLeaveRequest struct {
	LeaveType string `json:"leave_type" binding:"required"`
	StartDate string `json:"start_date" binding:"required"`
	EndDate   string `json:"end_date" binding:"required"`
	Reason    string `json:"reason" binding:"required"`
}

type LeaveResponse struct {
	ID            string  `json:"id"`
	OwnerID       string  `json:"owner_id"`
	OwnerEmail    string  `json:"owner_email"`
	LeaveType     string  `json:"leave_type"`
	StartDate     string  `json:"start_date"`
	EndDate       string  `json:"end_date"`
	Reason        string  `json:"reason"`
	Status        string  `json:"status"`
	ApproverID    *string `json:"approver_id"`
	ApproverEmail string  `json:"approver_email,omitempty"`
	RequestedAt   string  `json:"requested_at"`
	ProcessedAt   *string `json:"processed_at"`
}

// LeaveService implements the leave request workflow: Pending is the sole
// initial state, Approved and Rejected are terminal, and every transition
// is guarded by ownership or by strict rank.
type LeaveService interface {
	Create(ctx context.Context, actor Actor, req CreateLeaveRequest, ip string) (LeaveResponse, error)
	Approve(ctx context.Context, actor Actor, id, ip string) (LeaveResponse, error)
	Reject(ctx context.Context, actor Actor, id, ip string) (LeaveResponse, error)
	Update(ctx context.Context, actor Actor, id string, req UpdateLeaveRequest) (LeaveResponse, error)
	Delete(ctx context.Context, actor Actor, id, ip string) error
	List(ctx context.Context, actor Actor) ([]LeaveResponse, error)
}

type leaveService struct {
	leaves   repository.LeaveRepository
	audit    AuditService
	notifier NotificationService
	hub      *ws.Hub
}

// NewLeaveService creates a new LeaveService instance
func NewLeaveService(
	leaves repository.LeaveRepository,
	audit AuditService,
	notifier NotificationService,
	hub *ws.Hub,
) LeaveService {
	return &leaveService{
		leaves:   leaves,
		audit:    audit,
		notifier: notifier,
		hub:      hub,
	}
}

// --- Implementation ---

func (s *leaveService) Create(ctx context.Context, actor Actor, req CreateLeaveRequest, ip string) (LeaveResponse, error) {
	start, end, err := parseLeaveDates(req.StartDate, req.EndDate)
	if err != nil {
		return LeaveResponse{}, err
	}

	leave := model.LeaveRequest{
		OwnerID:     actor.ID,
		LeaveType:   req.LeaveType,
		StartDate:   start,
		EndDate:     end,
		Reason:      req.Reason,
		Status:      model.StatusPending,
		RequestedAt: time.Now(),
	}

	if err := s.leaves.Create(ctx, &leave); err != nil {
		return LeaveResponse{}, apperr.Unavailable(err, "failed to create leave request")
	}

	s.audit.Record(ctx, actor, model.ActionCreate,
		fmt.Sprintf("Submitted %s leave request %s (%s to %s).", req.LeaveType, leave.ID, req.StartDate, req.EndDate), ip)

	// Approvers get a heads-up; delivery is best-effort
	s.notifier.PushToRoles(
		"New Leave Request",
		fmt.Sprintf("%s requested %s leave from %s to %s.", actor.Email, req.LeaveType, req.StartDate, req.EndDate),
		model.RoleSuperAdmin, model.RoleSystemAdmin, model.RoleDepartmentManager,
	)

	loaded, err := s.leaves.GetByID(ctx, leave.ID.String())
	if err != nil {
		return LeaveResponse{}, apperr.Unavailable(err, "failed to reload leave request")
	}
	return toLeaveResponse(*loaded), nil
}

func (s *leaveService) Approve(ctx context.Context, actor Actor, id, ip string) (LeaveResponse, error) {
	return s.resolve(ctx, actor, id, ip, model.StatusApproved)
}

func (s *leaveService) Reject(ctx context.Context, actor Actor, id, ip string) (LeaveResponse, error) {
	return s.resolve(ctx, actor, id, ip, model.StatusRejected)
}

// resolve moves a Pending request into a terminal state. The guard is
// strict rank: the approver must outrank the owner, which also rules out
// self-approval and lateral approval. The transition itself is a
// conditional write so concurrent approvers race safely: exactly one wins.
func (s *leaveService) resolve(ctx context.Context, actor Actor, id, ip, to string) (LeaveResponse, error) {
	leave, err := s.getLeave(ctx, id)
	if err != nil {
		return LeaveResponse{}, err
	}

	ownerRole := model.RoleEmployee
	if leave.Owner != nil {
		ownerRole = leave.Owner.Role
	}
	if !CanApprove(actor, ownerRole) {
		return LeaveResponse{}, apperr.Authorization("approver must outrank the request owner")
	}
	if leave.Status != model.StatusPending {
		return LeaveResponse{}, apperr.Conflict("leave request has already been %s", leave.Status)
	}

	now := time.Now()
	ok, err := s.leaves.TransitionStatus(ctx, leave.ID, to, actor.ID, now)
	if err != nil {
		return LeaveResponse{}, apperr.Unavailable(err, "failed to update leave request")
	}
	if !ok {
		// Lost the race: someone else resolved it between our read and write
		return LeaveResponse{}, apperr.Conflict("leave request has already been processed")
	}

	action := model.ActionApprove
	pastTense := "approved"
	if to == model.StatusRejected {
		action = model.ActionReject
		pastTense = "rejected"
	}

	s.audit.Record(ctx, actor, action,
		fmt.Sprintf("%s leave request %s owned by %s.", capitalize(pastTense), leave.ID, ownerEmail(leave)), ip)

	if leave.Owner != nil {
		s.notifier.PushToUser(leave.OwnerID,
			"Leave Request "+capitalize(pastTense),
			fmt.Sprintf("Your %s leave request has been %s by %s.", leave.LeaveType, pastTense, actor.Email))
		s.notifier.Email(leave.Owner.Email,
			"Leave Request "+capitalize(pastTense),
			fmt.Sprintf("<p>Your %s leave request (%s to %s) has been <b>%s</b> by %s.</p>",
				leave.LeaveType, leave.StartDate.Format(dateLayout), leave.EndDate.Format(dateLayout), pastTense, actor.Email))
	}

	s.hub.Publish(ws.EventLeaveStatusChanged, map[string]interface{}{
		"leave_id": leave.ID.String(),
		"status":   to,
		"owner":    ownerEmail(leave),
	})

	loaded, err := s.leaves.GetByID(ctx, id)
	if err != nil {
		return LeaveResponse{}, apperr.Unavailable(err, "failed to reload leave request")
	}
	return toLeaveResponse(*loaded), nil
}

// Update edits a request in place. Only the owner may edit, only while the
// request is still Pending, and only the leave fields themselves; status
// and approver are untouchable here.
func (s *leaveService) Update(ctx context.Context, actor Actor, id string, req UpdateLeaveRequest) (LeaveResponse, error) {
	leave, err := s.getLeave(ctx, id)
	if err != nil {
		return LeaveResponse{}, err
	}

	if leave.OwnerID != actor.ID {
		return LeaveResponse{}, apperr.Authorization("only the owner may edit a leave request")
	}
	if leave.Status != model.StatusPending {
		return LeaveResponse{}, apperr.Conflict("only pending leave requests can be edited")
	}

	start, end, err := parseLeaveDates(req.StartDate, req.EndDate)
	if err != nil {
		return LeaveResponse{}, err
	}

	fields := map[string]interface{}{
		"leave_type": req.LeaveType,
		"start_date": start,
		"end_date":   end,
		"reason":     req.Reason,
	}
	if err := s.leaves.UpdateFields(ctx, leave.ID, fields); err != nil {
		return LeaveResponse{}, apperr.Unavailable(err, "failed to update leave request")
	}

	loaded, err := s.leaves.GetByID(ctx, id)
	if err != nil {
		return LeaveResponse{}, apperr.Unavailable(err, "failed to reload leave request")
	}
	return toLeaveResponse(*loaded), nil
}

// Delete removes a request. Permitted for the owner and for anyone whose
// scope covers the owner's account.
func (s *leaveService) Delete(ctx context.Context, actor Actor, id, ip string) error {
	leave, err := s.getLeave(ctx, id)
	if err != nil {
		return err
	}

	ownerRole := model.RoleEmployee
	if leave.Owner != nil {
		ownerRole = leave.Owner.Role
	}
	if leave.OwnerID != actor.ID && !CanManage(actor, leave.OwnerID, ownerRole) {
		return apperr.Authorization("not permitted to delete this leave request")
	}

	if err := s.leaves.Delete(ctx, leave.ID); err != nil {
		return apperr.Unavailable(err, "failed to delete leave request")
	}

	s.audit.Record(ctx, actor, model.ActionDelete,
		fmt.Sprintf("Deleted leave request %s owned by %s.", leave.ID, ownerEmail(leave)), ip)
	return nil
}

// List returns all requests for bosses and only the actor's own otherwise.
func (s *leaveService) List(ctx context.Context, actor Actor) ([]LeaveResponse, error) {
	var (
		leaves []model.LeaveRequest
		err    error
	)
	if model.IsBoss(actor.Role) {
		leaves, err = s.leaves.ListAll(ctx)
	} else {
		leaves, err = s.leaves.ListByOwner(ctx, actor.ID)
	}
	if err != nil {
		return nil, apperr.Unavailable(err, "failed to fetch leave requests")
	}

	res := make([]LeaveResponse, 0, len(leaves))
	for _, l := range leaves {
		res = append(res, toLeaveResponse(l))
	}
	return res, nil
}

// --- Helpers ---

func (s *leaveService) getLeave(ctx context.Context, id string) (*model.LeaveRequest, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, apperr.Validation("invalid leave request id")
	}
	leave, err := s.leaves.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound("leave request not found")
		}
		return nil, apperr.Unavailable(err, "failed to fetch leave request")
	}
	return leave, nil
}

func parseLeaveDates(startStr, endStr string) (time.Time, time.Time, error) {
	start, err := time.Parse(dateLayout, startStr)
	if err != nil {
		return time.Time{}, time.Time{}, apperr.Validation("invalid start date: expected YYYY-MM-DD")
	}
	end, err := time.Parse(dateLayout, endStr)
	if err != nil {
		return time.Time{}, time.Time{}, apperr.Validation("invalid end date: expected YYYY-MM-DD")
	}
	if end.Before(start) {
		return time.Time{}, time.Time{}, apperr.Validation("end date must not be before start date")
	}
	return start, end, nil
}

func ownerEmail(leave *model.LeaveRequest) string {
	if leave.Owner != nil {
		return leave.Owner.Email
	}
	return leave.OwnerID.String()
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return string(s[0]-'a'+'A') + s[1:]
}

func toLeaveResponse(l model.LeaveRequest) LeaveResponse {
	resp := LeaveResponse{
		ID:          l.ID.String(),
		OwnerID:     l.OwnerID.String(),
		LeaveType:   l.LeaveType,
		StartDate:   l.StartDate.Format(dateLayout),
		EndDate:     l.EndDate.Format(dateLayout),
		Reason:      l.Reason,
		Status:      l.Status,
		RequestedAt: l.RequestedAt.Format(time.RFC3339),
	}
	if l.Owner != nil {
		resp.OwnerEmail = l.Owner.Email
	}
	if l.ApproverID != nil {
		id := l.ApproverID.String()
		resp.ApproverID = &id
	}
	if l.Approver != nil {
		resp.ApproverEmail = l.Approver.Email
	}
	if l.ProcessedAt != nil {
		t := l.ProcessedAt.Format(time.RFC3339)
		resp.ProcessedAt = &t
	}
	return resp
}
