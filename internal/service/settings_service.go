package service

import (
	"context"
	"fmt"

	"mobileopsconnect/internal/apperr"
	"mobileopsconnect/internal/model"
	"mobileopsconnect/internal/repository"

	"github.com/shopspring/decimal"
)

// DTOs for Request validation
type UpdateSettingsRequest struct {
	CompanyName       string `json:"company_name"`
	SupportEmail      string `json:"support_email" binding:"omitempty,email"`
	LowStockThreshold *int   `json:"low_stock_threshold"`
	TaxRate           string `json:"tax_rate"`
}

type SettingsResponse struct {
	CompanyName       string `json:"company_name"`
	SupportEmail      string `json:"support_email"`
	LowStockThreshold int    `json:"low_stock_threshold"`
	TaxRate           string `json:"tax_rate"`
}

// SettingsService exposes the single system-wide configuration row.
type SettingsService interface {
	Get(ctx context.Context) (*SettingsResponse, error)
	Update(ctx context.Context, actor Actor, req UpdateSettingsRequest, ip string) (*SettingsResponse, error)
}

type settingsService struct {
	settings repository.SettingsRepository
	audit    AuditService
}

// NewSettingsService creates a new SettingsService instance
func NewSettingsService(settings repository.SettingsRepository, audit AuditService) SettingsService {
	return &settingsService{settings: settings, audit: audit}
}

func (s *settingsService) Get(ctx context.Context) (*SettingsResponse, error) {
	current, err := s.settings.Get(ctx)
	if err != nil {
		return nil, apperr.Unavailable(err, "failed to fetch settings")
	}
	resp := toSettingsResponse(*current)
	return &resp, nil
}

func (s *settingsService) Update(ctx context.Context, actor Actor, req UpdateSettingsRequest, ip string) (*SettingsResponse, error) {
	current, err := s.settings.Get(ctx)
	if err != nil {
		return nil, apperr.Unavailable(err, "failed to fetch settings")
	}

	if req.CompanyName != "" {
		current.CompanyName = req.CompanyName
	}
	if req.SupportEmail != "" {
		current.SupportEmail = req.SupportEmail
	}
	if req.LowStockThreshold != nil {
		if *req.LowStockThreshold < 0 {
			return nil, apperr.Validation("low stock threshold must not be negative")
		}
		current.LowStockThreshold = *req.LowStockThreshold
	}
	if req.TaxRate != "" {
		rate, err := decimal.NewFromString(req.TaxRate)
		if err != nil || rate.IsNegative() || rate.GreaterThan(decimal.NewFromInt(100)) {
			return nil, apperr.Validation("tax rate must be between 0 and 100")
		}
		current.TaxRate = rate
	}

	if err := s.settings.Update(ctx, current); err != nil {
		return nil, apperr.Unavailable(err, "failed to update settings")
	}

	s.audit.RecordCritical(ctx, actor, model.ActionUpdate,
		fmt.Sprintf("Updated system settings (threshold %d, tax rate %s).",
			current.LowStockThreshold, current.TaxRate.StringFixed(2)), ip)

	resp := toSettingsResponse(*current)
	return &resp, nil
}

func toSettingsResponse(s model.SystemSettings) SettingsResponse {
	return SettingsResponse{
		CompanyName:       s.CompanyName,
		SupportEmail:      s.SupportEmail,
		LowStockThreshold: s.LowStockThreshold,
		TaxRate:           s.TaxRate.StringFixed(2),
	}
}
