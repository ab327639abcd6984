package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"mobileopsconnect/internal/apperr"
	"mobileopsconnect/internal/model"
	"mobileopsconnect/internal/repository"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// DTOs for Request validation
type CreateUserRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=8"`
	Role     string `json:"role" binding:"required"`
}

type UpdateUserRequest struct {
	Email string `json:"email" binding:"omitempty,email"`
	Role  string `json:"role"`
}

type ResetPasswordRequest struct {
	NewPassword string `json:"new_password" binding:"required,min=8"`
}

// DTO for returning User without exposing sensitive data (e.g. password)
type UserResponse struct {
	ID        uuid.UUID `json:"id"`
	Email     string    `json:"email"`
	Role      string    `json:"role"`
	CreatedAt string    `json:"created_at"`
	UpdatedAt string    `json:"updated_at"`
}

// EmployeeRecord is a manager-facing roster row combining the account with
// its leave workload.
type EmployeeRecord struct {
	User           UserResponse `json:"user"`
	PendingLeaves  int64        `json:"pending_leaves"`
	ApprovedLeaves int64        `json:"approved_leaves"`
}

// UserService covers account administration. Every mutating operation is
// checked against the delegated-admin scope before it touches the store.
type UserService interface {
	Create(ctx context.Context, actor Actor, req CreateUserRequest, ip string) (*UserResponse, error)
	GetByID(ctx context.Context, actor Actor, id string) (*UserResponse, error)
	ListVisible(ctx context.Context, actor Actor) ([]UserResponse, error)
	Update(ctx context.Context, actor Actor, id string, req UpdateUserRequest, ip string) (*UserResponse, error)
	ResetPassword(ctx context.Context, actor Actor, id string, req ResetPasswordRequest, ip string) error
	Delete(ctx context.Context, actor Actor, id, ip string) error
	EmployeeRecords(ctx context.Context, actor Actor) ([]EmployeeRecord, error)
}

type userService struct {
	users  repository.UserRepository
	leaves repository.LeaveRepository
	audit  AuditService
}

// NewUserService returns a new instance of UserService
func NewUserService(users repository.UserRepository, leaves repository.LeaveRepository, audit AuditService) UserService {
	return &userService{users: users, leaves: leaves, audit: audit}
}

func toUserResponse(user model.User) UserResponse {
	return UserResponse{
		ID:        user.ID,
		Email:     user.Email,
		Role:      user.Role,
		CreatedAt: user.CreatedAt.Format(time.RFC3339),
		UpdatedAt: user.UpdatedAt.Format(time.RFC3339),
	}
}

func (s *userService) Create(ctx context.Context, actor Actor, req CreateUserRequest, ip string) (*UserResponse, error) {
	if !model.IsValidRole(req.Role) {
		return nil, apperr.Validation("unknown role %q", req.Role)
	}
	if !CanAssignRole(actor, false, req.Role) {
		return nil, apperr.Authorization("role %s is outside your administration scope", req.Role)
	}

	if _, err := s.users.GetByEmail(ctx, req.Email); err == nil {
		return nil, apperr.Conflict("email already exists")
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, apperr.Unavailable(err, "failed to hash password")
	}

	user := &model.User{
		Email:    req.Email,
		Password: string(hashed),
		Role:     req.Role,
	}
	if err := s.users.Create(ctx, user); err != nil {
		return nil, apperr.Unavailable(err, "failed to create user")
	}

	s.audit.Record(ctx, actor, model.ActionCreate,
		fmt.Sprintf("Created account %s with role %s.", user.Email, user.Role), ip)

	resp := toUserResponse(*user)
	return &resp, nil
}

func (s *userService) GetByID(ctx context.Context, actor Actor, id string) (*UserResponse, error) {
	user, err := s.getUser(ctx, id)
	if err != nil {
		return nil, err
	}
	if actor.ID != user.ID && !CanManage(actor, user.ID, user.Role) && !model.IsBoss(actor.Role) {
		return nil, apperr.Authorization("account is outside your scope")
	}
	resp := toUserResponse(*user)
	return &resp, nil
}

// ListVisible filters the directory down to what the actor's scope covers:
// admins see their manageable tier plus themselves, managers see the whole
// roster read-only, everyone else sees only themselves.
func (s *userService) ListVisible(ctx context.Context, actor Actor) ([]UserResponse, error) {
	users, err := s.users.List(ctx)
	if err != nil {
		return nil, apperr.Unavailable(err, "failed to list users")
	}

	var responses []UserResponse
	for _, u := range users {
		switch {
		case u.ID == actor.ID:
		case CanManage(actor, u.ID, u.Role):
		case actor.Role == model.RoleDepartmentManager:
		default:
			continue
		}
		responses = append(responses, toUserResponse(u))
	}
	return responses, nil
}

func (s *userService) Update(ctx context.Context, actor Actor, id string, req UpdateUserRequest, ip string) (*UserResponse, error) {
	user, err := s.getUser(ctx, id)
	if err != nil {
		return nil, err
	}

	if !CanManage(actor, user.ID, user.Role) {
		return nil, apperr.Authorization("account is outside your scope")
	}

	if req.Role != "" && req.Role != user.Role {
		if !model.IsValidRole(req.Role) {
			return nil, apperr.Validation("unknown role %q", req.Role)
		}
		// Nobody changes their own role, whatever their rank
		if user.ID == actor.ID {
			return nil, apperr.Authorization("cannot change your own role")
		}
		if !CanAssignRole(actor, true, req.Role) {
			return nil, apperr.Authorization("role %s is outside your administration scope", req.Role)
		}
		user.Role = req.Role
	}

	if req.Email != "" && req.Email != user.Email {
		if _, err := s.users.GetByEmail(ctx, req.Email); err == nil {
			return nil, apperr.Conflict("email already exists")
		}
		user.Email = req.Email
	}

	if err := s.users.Update(ctx, user); err != nil {
		return nil, apperr.Unavailable(err, "failed to update user")
	}

	s.audit.Record(ctx, actor, model.ActionUpdate,
		fmt.Sprintf("Updated account %s (role %s).", user.Email, user.Role), ip)

	resp := toUserResponse(*user)
	return &resp, nil
}

func (s *userService) ResetPassword(ctx context.Context, actor Actor, id string, req ResetPasswordRequest, ip string) error {
	user, err := s.getUser(ctx, id)
	if err != nil {
		return err
	}

	if !CanManage(actor, user.ID, user.Role) {
		return apperr.Authorization("account is outside your scope")
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(req.NewPassword), bcrypt.DefaultCost)
	if err != nil {
		return apperr.Unavailable(err, "failed to hash password")
	}
	user.Password = string(hashed)

	if err := s.users.Update(ctx, user); err != nil {
		return apperr.Unavailable(err, "failed to reset password")
	}

	s.audit.RecordCritical(ctx, actor, model.ActionUpdate,
		fmt.Sprintf("Reset password for account %s.", user.Email), ip)
	return nil
}

func (s *userService) Delete(ctx context.Context, actor Actor, id, ip string) error {
	user, err := s.getUser(ctx, id)
	if err != nil {
		return err
	}

	if user.ID == actor.ID {
		return apperr.Authorization("cannot delete your own account")
	}
	// Deletion is deliberately narrower than management scope: only the
	// super admin may delete, and only system admin accounts.
	if actor.Role != model.RoleSuperAdmin {
		return apperr.Authorization("only a super admin can delete accounts")
	}
	if user.Role != model.RoleSystemAdmin {
		return apperr.Authorization("only system admin accounts can be deleted")
	}

	if err := s.users.Delete(ctx, user.ID.String()); err != nil {
		return apperr.Unavailable(err, "failed to delete user")
	}

	s.audit.RecordCritical(ctx, actor, model.ActionDelete,
		fmt.Sprintf("Deleted account %s (role %s).", user.Email, user.Role), ip)
	return nil
}

// EmployeeRecords is the department manager's roster view. It is read-only
// and deliberately wider than the manager's write scope.
func (s *userService) EmployeeRecords(ctx context.Context, actor Actor) ([]EmployeeRecord, error) {
	if !model.IsBoss(actor.Role) {
		return nil, apperr.Authorization("roster requires a management role")
	}

	users, err := s.users.ListByRoles(ctx, model.RoleWarehouseStaff, model.RoleEmployee, model.RoleDepartmentManager)
	if err != nil {
		return nil, apperr.Unavailable(err, "failed to fetch roster")
	}

	records := make([]EmployeeRecord, 0, len(users))
	for _, u := range users {
		pending, err := s.leaves.CountByOwnerAndStatus(ctx, u.ID, model.StatusPending)
		if err != nil {
			return nil, apperr.Unavailable(err, "failed to count leave requests")
		}
		approved, err := s.leaves.CountByOwnerAndStatus(ctx, u.ID, model.StatusApproved)
		if err != nil {
			return nil, apperr.Unavailable(err, "failed to count leave requests")
		}
		records = append(records, EmployeeRecord{
			User:           toUserResponse(u),
			PendingLeaves:  pending,
			ApprovedLeaves: approved,
		})
	}
	return records, nil
}

func (s *userService) getUser(ctx context.Context, id string) (*model.User, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, apperr.Validation("invalid user id")
	}
	user, err := s.users.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound("user not found")
		}
		return nil, apperr.Unavailable(err, "failed to fetch user")
	}
	return user, nil
}
