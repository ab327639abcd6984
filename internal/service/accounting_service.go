package service

import (
	"context"
	"fmt"
	"time"

	"mobileopsconnect/internal/apperr"
	"mobileopsconnect/internal/model"
	"mobileopsconnect/internal/repository"
	"mobileopsconnect/pkg/pagination"

	"github.com/shopspring/decimal"
)

// DTOs for Request validation
type CreateEntryRequest struct {
	TransactionDate string `json:"transaction_date" binding:"required"` // YYYY-MM-DD
	Type            string `json:"type" binding:"required"`
	Category        string `json:"category" binding:"required"`
	Description     string `json:"description"`
	Amount          string `json:"amount" binding:"required"`
	ReferenceNumber string `json:"reference_number"`
}

type EntryResponse struct {
	ID              string `json:"id"`
	TransactionDate string `json:"transaction_date"`
	Type            string `json:"type"`
	Category        string `json:"category"`
	Description     string `json:"description"`
	Amount          string `json:"amount"`
	ReferenceNumber string `json:"reference_number"`
	PurchaseOrderID string `json:"purchase_order_id,omitempty"`
	RecordedBy      string `json:"recorded_by,omitempty"`
	CreatedAt       string `json:"created_at"`
}

type FinancialSummary struct {
	TotalIncome   string `json:"total_income"`
	TotalExpenses string `json:"total_expenses"`
	NetBalance    string `json:"net_balance"`
}

// AccountingService keeps the ledger of income and expense entries.
// Approved purchase orders land here automatically; manual entries come
// through Create.
type AccountingService interface {
	Create(ctx context.Context, actor Actor, req CreateEntryRequest, ip string) (*EntryResponse, error)
	List(ctx context.Context, entryType string, p pagination.Params) ([]EntryResponse, int64, error)
	Summary(ctx context.Context) (*FinancialSummary, error)
}

type accountingService struct {
	entries repository.AccountingRepository
	audit   AuditService
}

// NewAccountingService creates a new AccountingService instance
func NewAccountingService(entries repository.AccountingRepository, audit AuditService) AccountingService {
	return &accountingService{entries: entries, audit: audit}
}

func (s *accountingService) Create(ctx context.Context, actor Actor, req CreateEntryRequest, ip string) (*EntryResponse, error) {
	if req.Type != model.EntryTypeIncome && req.Type != model.EntryTypeExpense {
		return nil, apperr.Validation("type must be %s or %s", model.EntryTypeIncome, model.EntryTypeExpense)
	}

	txDate, err := time.Parse(dateLayout, req.TransactionDate)
	if err != nil {
		return nil, apperr.Validation("invalid transaction date: expected YYYY-MM-DD")
	}

	amount, err := decimal.NewFromString(req.Amount)
	if err != nil || !amount.IsPositive() {
		return nil, apperr.Validation("amount must be a positive decimal")
	}

	entry := &model.AccountingEntry{
		TransactionDate: txDate,
		Type:            req.Type,
		Category:        req.Category,
		Description:     req.Description,
		Amount:          amount,
		ReferenceNumber: req.ReferenceNumber,
		RecordedByID:    actor.ID,
	}
	if err := s.entries.Create(ctx, entry); err != nil {
		return nil, apperr.Unavailable(err, "failed to record accounting entry")
	}

	s.audit.Record(ctx, actor, model.ActionCreate,
		fmt.Sprintf("Recorded %s entry of %s (%s).", entry.Type, entry.Amount.StringFixed(2), entry.Category), ip)

	resp := toEntryResponse(*entry)
	return &resp, nil
}

func (s *accountingService) List(ctx context.Context, entryType string, p pagination.Params) ([]EntryResponse, int64, error) {
	if entryType != "" && entryType != model.EntryTypeIncome && entryType != model.EntryTypeExpense {
		return nil, 0, apperr.Validation("type must be %s or %s", model.EntryTypeIncome, model.EntryTypeExpense)
	}

	entries, total, err := s.entries.List(ctx, entryType, p.Offset, p.Limit)
	if err != nil {
		return nil, 0, apperr.Unavailable(err, "failed to list accounting entries")
	}

	responses := make([]EntryResponse, 0, len(entries))
	for _, e := range entries {
		responses = append(responses, toEntryResponse(e))
	}
	return responses, total, nil
}

func (s *accountingService) Summary(ctx context.Context) (*FinancialSummary, error) {
	income, err := s.entries.SumByType(ctx, model.EntryTypeIncome)
	if err != nil {
		return nil, apperr.Unavailable(err, "failed to sum income")
	}
	expenses, err := s.entries.SumByType(ctx, model.EntryTypeExpense)
	if err != nil {
		return nil, apperr.Unavailable(err, "failed to sum expenses")
	}

	return &FinancialSummary{
		TotalIncome:   income.StringFixed(2),
		TotalExpenses: expenses.StringFixed(2),
		NetBalance:    income.Sub(expenses).StringFixed(2),
	}, nil
}

func toEntryResponse(e model.AccountingEntry) EntryResponse {
	resp := EntryResponse{
		ID:              e.ID.String(),
		TransactionDate: e.TransactionDate.Format(dateLayout),
		Type:            e.Type,
		Category:        e.Category,
		Description:     e.Description,
		Amount:          e.Amount.StringFixed(2),
		ReferenceNumber: e.ReferenceNumber,
		CreatedAt:       e.CreatedAt.Format(time.RFC3339),
	}
	if e.PurchaseOrderID != nil {
		resp.PurchaseOrderID = e.PurchaseOrderID.String()
	}
	if e.RecordedBy != nil {
		resp.RecordedBy = e.RecordedBy.Email
	}
	return resp
}
