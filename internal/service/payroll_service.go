package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"mobileopsconnect/internal/apperr"
	"mobileopsconnect/internal/model"
	"mobileopsconnect/internal/pdf"
	"mobileopsconnect/internal/repository"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// salaryBand holds the fixed monthly compensation figures for a role.
type salaryBand struct {
	basic      decimal.Decimal
	overtime   decimal.Decimal
	allowances decimal.Decimal
	tax        decimal.Decimal
}

func bandForRole(role string) salaryBand {
	switch role {
	case model.RoleSuperAdmin:
		return salaryBand{
			basic:      decimal.NewFromInt(150000),
			overtime:   decimal.Zero,
			allowances: decimal.NewFromInt(20000),
			tax:        decimal.NewFromInt(35000),
		}
	case model.RoleSystemAdmin:
		return salaryBand{
			basic:      decimal.NewFromInt(75000),
			overtime:   decimal.Zero,
			allowances: decimal.NewFromInt(5000),
			tax:        decimal.NewFromInt(12000),
		}
	case model.RoleDepartmentManager:
		return salaryBand{
			basic:      decimal.NewFromInt(55000),
			overtime:   decimal.Zero,
			allowances: decimal.NewFromInt(4000),
			tax:        decimal.NewFromInt(6500),
		}
	case model.RoleWarehouseStaff:
		return salaryBand{
			basic:      decimal.NewFromInt(26000),
			overtime:   decimal.NewFromInt(4500),
			allowances: decimal.NewFromInt(1500),
			tax:        decimal.NewFromInt(2200),
		}
	default:
		return salaryBand{
			basic:      decimal.NewFromInt(22000),
			overtime:   decimal.Zero,
			allowances: decimal.NewFromInt(2000),
			tax:        decimal.NewFromInt(1500),
		}
	}
}

// Statutory monthly contributions, flat across all bands.
var (
	contributionSSS        = decimal.NewFromInt(1350)
	contributionPhilHealth = decimal.NewFromInt(1125)
	contributionPagIbig    = decimal.NewFromInt(100)
)

type PayslipSummary struct {
	EmployeeName string `json:"employee_name"`
	Role         string `json:"role"`
	PayPeriod    string `json:"pay_period"`
	GrossPay     string `json:"gross_pay"`
	Deductions   string `json:"deductions"`
	NetPay       string `json:"net_pay"`
}

// PayrollService computes role-based monthly payslips and renders them as
// PDFs. Salaries are a fixed band per role rather than per-account figures.
type PayrollService interface {
	Payslip(ctx context.Context, actor Actor, userID string) (*PayslipSummary, error)
	PayslipPDF(ctx context.Context, actor Actor, userID string) ([]byte, string, error)
}

type payrollService struct {
	users    repository.UserRepository
	settings repository.SettingsRepository
	audit    AuditService
}

// NewPayrollService creates a new PayrollService instance
func NewPayrollService(users repository.UserRepository, settings repository.SettingsRepository, audit AuditService) PayrollService {
	return &payrollService{users: users, settings: settings, audit: audit}
}

func (s *payrollService) Payslip(ctx context.Context, actor Actor, userID string) (*PayslipSummary, error) {
	data, err := s.build(ctx, actor, userID)
	if err != nil {
		return nil, err
	}
	return &PayslipSummary{
		EmployeeName: data.EmployeeName,
		Role:         data.Role,
		PayPeriod:    data.PayPeriod,
		GrossPay:     data.GrossPay().StringFixed(2),
		Deductions:   data.TotalDeductions().StringFixed(2),
		NetPay:       data.NetPay().StringFixed(2),
	}, nil
}

func (s *payrollService) PayslipPDF(ctx context.Context, actor Actor, userID string) ([]byte, string, error) {
	data, err := s.build(ctx, actor, userID)
	if err != nil {
		return nil, "", err
	}

	doc, err := pdf.RenderPayslip(*data)
	if err != nil {
		return nil, "", apperr.Unavailable(err, "failed to render payslip")
	}

	filename := fmt.Sprintf("payslip-%s-%s.pdf", data.EmployeeEmail, time.Now().Format("2006-01"))
	return doc, filename, nil
}

// build resolves the target account, checks access and assembles the
// payslip figures. Employees see their own slip; managers and above may
// pull anyone's.
func (s *payrollService) build(ctx context.Context, actor Actor, userID string) (*pdf.PayslipData, error) {
	if _, err := uuid.Parse(userID); err != nil {
		return nil, apperr.Validation("invalid user id")
	}

	if actor.ID.String() != userID && !model.IsBoss(actor.Role) {
		return nil, apperr.Authorization("payslips of other accounts require a management role")
	}

	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound("user not found")
		}
		return nil, apperr.Unavailable(err, "failed to fetch user")
	}

	companyName := "MobileOps Hardware"
	if settings, err := s.settings.Get(ctx); err == nil {
		companyName = settings.CompanyName
	}

	band := bandForRole(user.Role)
	now := time.Now()

	return &pdf.PayslipData{
		EmployeeName:  user.Email,
		EmployeeEmail: user.Email,
		Role:          user.Role,
		CompanyName:   companyName,
		PayPeriod:     now.Format("January 2006"),
		PayDate:       now,
		BasicSalary:   band.basic,
		Overtime:      band.overtime,
		Allowances:    band.allowances,
		Tax:           band.tax,
		SSS:           contributionSSS,
		PhilHealth:    contributionPhilHealth,
		PagIbig:       contributionPagIbig,
	}, nil
}
