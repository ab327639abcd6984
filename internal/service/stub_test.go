package service_test

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	"mobileopsconnect/internal/model"
	"mobileopsconnect/internal/service"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// ── In-memory repository stubs ──────────────────────────────────────────

type stubLeaveRepo struct {
	mu     sync.Mutex
	leaves map[uuid.UUID]*model.LeaveRequest
	users  map[uuid.UUID]*model.User
}

func newStubLeaveRepo() *stubLeaveRepo {
	return &stubLeaveRepo{
		leaves: make(map[uuid.UUID]*model.LeaveRequest),
		users:  make(map[uuid.UUID]*model.User),
	}
}

func (r *stubLeaveRepo) addUser(u *model.User) {
	r.users[u.ID] = u
}

func (r *stubLeaveRepo) Create(_ context.Context, req *model.LeaveRequest) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if req.ID == uuid.Nil {
		req.ID = uuid.New()
	}
	clone := *req
	r.leaves[req.ID] = &clone
	return nil
}

func (r *stubLeaveRepo) GetByID(_ context.Context, id string) (*model.LeaveRequest, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	parsed, err := uuid.Parse(id)
	if err != nil {
		return nil, gorm.ErrRecordNotFound
	}
	leave, ok := r.leaves[parsed]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	clone := *leave
	clone.Owner = r.users[leave.OwnerID]
	if leave.ApproverID != nil {
		clone.Approver = r.users[*leave.ApproverID]
	}
	return &clone, nil
}

func (r *stubLeaveRepo) ListAll(_ context.Context) ([]model.LeaveRequest, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]model.LeaveRequest, 0, len(r.leaves))
	for _, l := range r.leaves {
		clone := *l
		clone.Owner = r.users[l.OwnerID]
		out = append(out, clone)
	}
	return out, nil
}

func (r *stubLeaveRepo) ListByOwner(_ context.Context, ownerID uuid.UUID) ([]model.LeaveRequest, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []model.LeaveRequest
	for _, l := range r.leaves {
		if l.OwnerID == ownerID {
			clone := *l
			clone.Owner = r.users[l.OwnerID]
			out = append(out, clone)
		}
	}
	return out, nil
}

func (r *stubLeaveRepo) UpdateFields(_ context.Context, id uuid.UUID, fields map[string]interface{}) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	leave, ok := r.leaves[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	for k, v := range fields {
		switch k {
		case "leave_type":
			leave.LeaveType = v.(string)
		case "start_date":
			leave.StartDate = v.(time.Time)
		case "end_date":
			leave.EndDate = v.(time.Time)
		case "reason":
			leave.Reason = v.(string)
		}
	}
	return nil
}

func (r *stubLeaveRepo) Delete(_ context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.leaves, id)
	return nil
}

func (r *stubLeaveRepo) TransitionStatus(_ context.Context, id uuid.UUID, to string, approverID uuid.UUID, processedAt time.Time) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	leave, ok := r.leaves[id]
	if !ok || leave.Status != model.StatusPending {
		return false, nil
	}
	leave.Status = to
	leave.ApproverID = &approverID
	leave.ProcessedAt = &processedAt
	return true, nil
}

func (r *stubLeaveRepo) CountByOwnerAndStatus(_ context.Context, ownerID uuid.UUID, status string) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var n int64
	for _, l := range r.leaves {
		if l.OwnerID == ownerID && l.Status == status {
			n++
		}
	}
	return n, nil
}

func (r *stubLeaveRepo) CountOnLeave(_ context.Context, day time.Time) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var n int64
	for _, l := range r.leaves {
		if l.Status == model.StatusApproved && !day.Before(l.StartDate) && !day.After(l.EndDate.AddDate(0, 0, 1)) {
			n++
		}
	}
	return n, nil
}

func (r *stubLeaveRepo) CountByStatus(_ context.Context, status string) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var n int64
	for _, l := range r.leaves {
		if l.Status == status {
			n++
		}
	}
	return n, nil
}

type stubOrderRepo struct {
	mu     sync.Mutex
	orders map[uuid.UUID]*model.PurchaseOrder
	users  map[uuid.UUID]*model.User
}

func newStubOrderRepo() *stubOrderRepo {
	return &stubOrderRepo{
		orders: make(map[uuid.UUID]*model.PurchaseOrder),
		users:  make(map[uuid.UUID]*model.User),
	}
}

func (r *stubOrderRepo) addUser(u *model.User) {
	r.users[u.ID] = u
}

func (r *stubOrderRepo) Create(_ context.Context, order *model.PurchaseOrder) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if order.ID == uuid.Nil {
		order.ID = uuid.New()
	}
	clone := *order
	r.orders[order.ID] = &clone
	return nil
}

func (r *stubOrderRepo) GetByID(_ context.Context, id string) (*model.PurchaseOrder, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	parsed, err := uuid.Parse(id)
	if err != nil {
		return nil, gorm.ErrRecordNotFound
	}
	order, ok := r.orders[parsed]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	clone := *order
	clone.Requester = r.users[order.RequesterID]
	if order.ApproverID != nil {
		clone.Approver = r.users[*order.ApproverID]
	}
	return &clone, nil
}

func (r *stubOrderRepo) ListAll(_ context.Context) ([]model.PurchaseOrder, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]model.PurchaseOrder, 0, len(r.orders))
	for _, o := range r.orders {
		out = append(out, *o)
	}
	return out, nil
}

func (r *stubOrderRepo) ListByRequester(_ context.Context, requesterID uuid.UUID) ([]model.PurchaseOrder, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []model.PurchaseOrder
	for _, o := range r.orders {
		if o.RequesterID == requesterID {
			out = append(out, *o)
		}
	}
	return out, nil
}

func (r *stubOrderRepo) Delete(_ context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.orders, id)
	return nil
}

func (r *stubOrderRepo) TransitionStatus(_ context.Context, id uuid.UUID, to string, approverID uuid.UUID, processedAt time.Time) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	order, ok := r.orders[id]
	if !ok || order.Status != model.StatusPending {
		return false, nil
	}
	order.Status = to
	order.ApproverID = &approverID
	order.ProcessedAt = &processedAt
	return true, nil
}

func (r *stubOrderRepo) CountByStatus(_ context.Context, status string) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var n int64
	for _, o := range r.orders {
		if o.Status == status {
			n++
		}
	}
	return n, nil
}

type stubUserRepo struct {
	mu    sync.Mutex
	users map[uuid.UUID]*model.User
}

func newStubUserRepo() *stubUserRepo {
	return &stubUserRepo{users: make(map[uuid.UUID]*model.User)}
}

func (r *stubUserRepo) add(u *model.User) *model.User {
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	r.users[u.ID] = u
	return u
}

func (r *stubUserRepo) Create(_ context.Context, user *model.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if user.ID == uuid.Nil {
		user.ID = uuid.New()
	}
	r.users[user.ID] = user
	return nil
}

func (r *stubUserRepo) GetByID(_ context.Context, id string) (*model.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	parsed, err := uuid.Parse(id)
	if err != nil {
		return nil, gorm.ErrRecordNotFound
	}
	user, ok := r.users[parsed]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	clone := *user
	return &clone, nil
}

func (r *stubUserRepo) GetByEmail(_ context.Context, email string) (*model.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if strings.EqualFold(u.Email, email) {
			clone := *u
			return &clone, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *stubUserRepo) List(_ context.Context) ([]model.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]model.User, 0, len(r.users))
	for _, u := range r.users {
		out = append(out, *u)
	}
	return out, nil
}

func (r *stubUserRepo) ListByRoles(_ context.Context, roles ...string) ([]model.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []model.User
	for _, u := range r.users {
		for _, role := range roles {
			if u.Role == role {
				out = append(out, *u)
				break
			}
		}
	}
	return out, nil
}

func (r *stubUserRepo) Update(_ context.Context, user *model.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.users[user.ID]; !ok {
		return gorm.ErrRecordNotFound
	}
	clone := *user
	r.users[user.ID] = &clone
	return nil
}

func (r *stubUserRepo) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	parsed, err := uuid.Parse(id)
	if err != nil {
		return gorm.ErrRecordNotFound
	}
	delete(r.users, parsed)
	return nil
}

type stubProductRepo struct {
	mu       sync.Mutex
	products map[uuid.UUID]*model.Product
}

func newStubProductRepo() *stubProductRepo {
	return &stubProductRepo{products: make(map[uuid.UUID]*model.Product)}
}

func (r *stubProductRepo) add(p *model.Product) *model.Product {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	r.products[p.ID] = p
	return p
}

func (r *stubProductRepo) Create(_ context.Context, product *model.Product) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if product.ID == uuid.Nil {
		product.ID = uuid.New()
	}
	clone := *product
	r.products[product.ID] = &clone
	return nil
}

func (r *stubProductRepo) GetByID(_ context.Context, id string) (*model.Product, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	parsed, err := uuid.Parse(id)
	if err != nil {
		return nil, gorm.ErrRecordNotFound
	}
	product, ok := r.products[parsed]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	clone := *product
	return &clone, nil
}

func (r *stubProductRepo) List(_ context.Context, _ string) ([]model.Product, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]model.Product, 0, len(r.products))
	for _, p := range r.products {
		out = append(out, *p)
	}
	return out, nil
}

func (r *stubProductRepo) ListLowStock(_ context.Context, threshold int) ([]model.Product, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []model.Product
	for _, p := range r.products {
		if p.StockLevel <= threshold {
			out = append(out, *p)
		}
	}
	return out, nil
}

func (r *stubProductRepo) Update(_ context.Context, product *model.Product) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	clone := *product
	r.products[product.ID] = &clone
	return nil
}

func (r *stubProductRepo) Delete(_ context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.products, id)
	return nil
}

func (r *stubProductRepo) AdjustStock(_ context.Context, movement *model.StockMovement) (*model.Product, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	product, ok := r.products[movement.ProductID]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	delta := movement.Quantity
	if movement.Direction == model.StockOut {
		delta = -delta
	}
	if product.StockLevel+delta < 0 {
		return nil, errors.New("insufficient stock")
	}
	product.StockLevel += delta
	movement.StockAfter = product.StockLevel
	clone := *product
	return &clone, nil
}

func (r *stubProductRepo) CountLowStock(_ context.Context, threshold int) (int64, error) {
	low, _ := r.ListLowStock(context.Background(), threshold)
	return int64(len(low)), nil
}

type stubAccountingRepo struct {
	mu      sync.Mutex
	entries []model.AccountingEntry
}

func (r *stubAccountingRepo) Create(_ context.Context, entry *model.AccountingEntry) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if entry.ID == uuid.Nil {
		entry.ID = uuid.New()
	}
	r.entries = append(r.entries, *entry)
	return nil
}

func (r *stubAccountingRepo) List(_ context.Context, entryType string, _, _ int) ([]model.AccountingEntry, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []model.AccountingEntry
	for _, e := range r.entries {
		if entryType == "" || e.Type == entryType {
			out = append(out, e)
		}
	}
	return out, int64(len(out)), nil
}

func (r *stubAccountingRepo) SumByType(_ context.Context, entryType string) (decimal.Decimal, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	sum := decimal.Zero
	for _, e := range r.entries {
		if e.Type == entryType {
			sum = sum.Add(e.Amount)
		}
	}
	return sum, nil
}

// ── Side-effect recorders ───────────────────────────────────────────────

type recordedAudit struct {
	Action   string
	Details  string
	Critical bool
}

type stubAuditSink struct {
	mu      sync.Mutex
	records []recordedAudit
}

func (s *stubAuditSink) Record(_ context.Context, _ service.Actor, action, details, _ string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.records = append(s.records, recordedAudit{Action: action, Details: details})
}

func (s *stubAuditSink) RecordCritical(_ context.Context, _ service.Actor, action, details, _ string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.records = append(s.records, recordedAudit{Action: action, Details: details, Critical: true})
}

func (s *stubAuditSink) List(_ context.Context, _ service.Actor, _, _ int) ([]service.AuditLogResponse, int64, error) {
	return nil, 0, nil
}

func (s *stubAuditSink) actions() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]string, 0, len(s.records))
	for _, r := range s.records {
		out = append(out, r.Action)
	}
	return out
}

type pushedNotification struct {
	Title string
	Body  string
	To    string
}

type stubNotifier struct {
	mu     sync.Mutex
	pushes []pushedNotification
	emails []pushedNotification
}

func (s *stubNotifier) RegisterDevice(_ context.Context, _ service.Actor, _ string) error { return nil }

func (s *stubNotifier) PushToUser(userID uuid.UUID, title, body string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.pushes = append(s.pushes, pushedNotification{Title: title, Body: body, To: userID.String()})
}

func (s *stubNotifier) PushToRoles(title, body string, roles ...string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.pushes = append(s.pushes, pushedNotification{Title: title, Body: body, To: strings.Join(roles, ",")})
}

func (s *stubNotifier) PushToAll(title, body string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.pushes = append(s.pushes, pushedNotification{Title: title, Body: body, To: "all"})
}

func (s *stubNotifier) Email(to, subject, _ string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.emails = append(s.emails, pushedNotification{Title: subject, To: to})
}
