package service

import (
	"context"
	"log"

	"mobileopsconnect/internal/apperr"
	"mobileopsconnect/internal/model"
	"mobileopsconnect/internal/repository"
)

type AuditLogResponse struct {
	ID         string `json:"id"`
	ActorID    string `json:"actor_id"`
	ActorEmail string `json:"actor_email"`
	ActorRole  string `json:"actor_role"`
	Action     string `json:"action"`
	Details    string `json:"details"`
	IPAddress  string `json:"ip_address"`
	IsCritical bool   `json:"is_critical"`
	CreatedAt  string `json:"created_at"`
}

// AuditService appends and reads the audit trail. Record is best-effort:
// a failed write is logged and never fails the business operation it
// annotates.
type AuditService interface {
	Record(ctx context.Context, actor Actor, action, details, ip string)
	RecordCritical(ctx context.Context, actor Actor, action, details, ip string)
	List(ctx context.Context, reader Actor, page, limit int) ([]AuditLogResponse, int64, error)
}

type auditService struct {
	repo repository.AuditRepository
}

// NewAuditService creates a new AuditService instance
func NewAuditService(repo repository.AuditRepository) AuditService {
	return &auditService{repo: repo}
}

func (s *auditService) Record(ctx context.Context, actor Actor, action, details, ip string) {
	s.append(ctx, actor, action, details, ip, false)
}

// RecordCritical marks the entry as a security event hidden from every
// reader except SuperAdmin.
func (s *auditService) RecordCritical(ctx context.Context, actor Actor, action, details, ip string) {
	s.append(ctx, actor, action, details, ip, true)
}

func (s *auditService) append(ctx context.Context, actor Actor, action, details, ip string, critical bool) {
	actorID := actor.ID
	entry := model.AuditLog{
		ActorID:    &actorID,
		ActorEmail: actor.Email,
		ActorRole:  actor.Role,
		Action:     action,
		Details:    details,
		IPAddress:  ip,
		IsCritical: critical,
	}
	if err := s.repo.Create(ctx, &entry); err != nil {
		// Audit writes never roll back the operation they annotate
		log.Printf("audit: failed to record %s by %s: %v", action, actor.Email, err)
	}
}

// List returns newest-first audit entries readable by the given actor.
// Only bosses may read the trail at all; critical entries are visible to
// SuperAdmin alone.
func (s *auditService) List(ctx context.Context, reader Actor, page, limit int) ([]AuditLogResponse, int64, error) {
	if !model.IsBoss(reader.Role) {
		return nil, 0, apperr.Authorization("only administrative roles may read the audit trail")
	}

	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = 20
	}

	includeCritical := reader.Role == model.RoleSuperAdmin
	entries, total, err := s.repo.List(ctx, includeCritical, (page-1)*limit, limit)
	if err != nil {
		return nil, 0, apperr.Unavailable(err, "failed to fetch audit entries")
	}

	res := make([]AuditLogResponse, 0, len(entries))
	for _, e := range entries {
		actorID := ""
		if e.ActorID != nil {
			actorID = e.ActorID.String()
		}
		res = append(res, AuditLogResponse{
			ID:         e.ID.String(),
			ActorID:    actorID,
			ActorEmail: e.ActorEmail,
			ActorRole:  e.ActorRole,
			Action:     e.Action,
			Details:    e.Details,
			IPAddress:  e.IPAddress,
			IsCritical: e.IsCritical,
			CreatedAt:  e.CreatedAt.Format("2006-01-02 15:04:05"),
		})
	}

	return res, total, nil
}
