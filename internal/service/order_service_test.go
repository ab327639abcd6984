package service_test

import (
	"context"
	"testing"

	"mobileopsconnect/internal/apperr"
	"mobileopsconnect/internal/model"
	"mobileopsconnect/internal/service"
	ws "mobileopsconnect/internal/websocket"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type orderFixture struct {
	orders     *stubOrderRepo
	products   *stubProductRepo
	accounting *stubAccountingRepo
	audit      *stubAuditSink
	notifier   *stubNotifier
	svc        service.OrderService

	staff   service.Actor
	staff2  service.Actor
	manager service.Actor
	admin   service.Actor
	product *model.Product
}

func newOrderFixture(t *testing.T) *orderFixture {
	t.Helper()
	f := &orderFixture{
		orders:     newStubOrderRepo(),
		products:   newStubProductRepo(),
		accounting: &stubAccountingRepo{},
		audit:      &stubAuditSink{},
		notifier:   &stubNotifier{},
	}
	f.svc = service.NewOrderService(f.orders, f.products, f.accounting, f.audit, f.notifier, ws.NewHub())

	f.staff = actorWithRole(model.RoleWarehouseStaff)
	f.staff2 = actorWithRole(model.RoleWarehouseStaff)
	f.manager = actorWithRole(model.RoleDepartmentManager)
	f.admin = actorWithRole(model.RoleSystemAdmin)
	for _, a := range []service.Actor{f.staff, f.staff2, f.manager, f.admin} {
		f.orders.addUser(&model.User{ID: a.ID, Email: a.Email, Role: a.Role})
	}

	f.product = f.products.add(&model.Product{
		SKU:        "CBL-USB-C",
		Name:       "USB-C Cable",
		Price:      decimal.NewFromFloat(149.50),
		StockLevel: 3,
	})
	return f
}

func (f *orderFixture) raise(t *testing.T) service.OrderResponse {
	t.Helper()
	order, err := f.svc.Create(context.Background(), f.staff, service.CreateOrderRequest{
		ProductID: f.product.ID.String(),
		Quantity:  20,
		Notes:     "restock",
	}, "10.0.0.1")
	require.NoError(t, err)
	return order
}

func TestOrderCreateOnlyWarehouseStaff(t *testing.T) {
	f := newOrderFixture(t)

	for _, actor := range []service.Actor{f.manager, f.admin, actorWithRole(model.RoleEmployee)} {
		_, err := f.svc.Create(context.Background(), actor, service.CreateOrderRequest{
			ProductID: f.product.ID.String(),
			Quantity:  5,
		}, "10.0.0.1")
		assert.True(t, apperr.IsKind(err, apperr.KindAuthorization), "role %s", actor.Role)
	}
}

func TestOrderCreateSnapshotsCost(t *testing.T) {
	f := newOrderFixture(t)

	order := f.raise(t)

	assert.Equal(t, model.StatusPending, order.Status)
	assert.Equal(t, "2990.00", order.EstimatedCost, "20 x 149.50")
	assert.Contains(t, f.audit.actions(), model.ActionCreate)
}

func TestOrderCreateUnknownProduct(t *testing.T) {
	f := newOrderFixture(t)

	_, err := f.svc.Create(context.Background(), f.staff, service.CreateOrderRequest{
		ProductID: "2f1b9c54-0000-0000-0000-000000000000",
		Quantity:  5,
	}, "10.0.0.1")
	assert.True(t, apperr.IsKind(err, apperr.KindNotFound))
}

func TestOrderApproveRequiresHigherRank(t *testing.T) {
	f := newOrderFixture(t)
	order := f.raise(t)

	// A fellow warehouse staffer shares the requester's rank
	_, err := f.svc.Approve(context.Background(), f.staff2, order.ID, "10.0.0.2")
	assert.True(t, apperr.IsKind(err, apperr.KindAuthorization))

	// And the requester can never process their own order
	_, err = f.svc.Approve(context.Background(), f.staff, order.ID, "10.0.0.2")
	assert.True(t, apperr.IsKind(err, apperr.KindAuthorization))
}

func TestOrderApproveBooksExpense(t *testing.T) {
	f := newOrderFixture(t)
	order := f.raise(t)

	approved, err := f.svc.Approve(context.Background(), f.manager, order.ID, "10.0.0.2")
	require.NoError(t, err)

	assert.Equal(t, model.StatusApproved, approved.Status)
	require.Len(t, f.accounting.entries, 1)
	entry := f.accounting.entries[0]
	assert.Equal(t, model.EntryTypeExpense, entry.Type)
	assert.Equal(t, "Purchase Order", entry.Category)
	assert.True(t, entry.Amount.Equal(decimal.NewFromFloat(2990.00)))
	require.NotNil(t, entry.PurchaseOrderID)
	assert.Equal(t, order.ID, entry.PurchaseOrderID.String())
}

func TestOrderProcessingNotifiesEveryone(t *testing.T) {
	f := newOrderFixture(t)
	order := f.raise(t)

	_, err := f.svc.Approve(context.Background(), f.manager, order.ID, "10.0.0.2")
	require.NoError(t, err)

	var requester, everyone bool
	for _, push := range f.notifier.pushes {
		if push.Title != "Purchase Order Approved" {
			continue
		}
		switch push.To {
		case f.staff.ID.String():
			requester = true
		case "all":
			everyone = true
		}
	}
	assert.True(t, requester, "requester should hear the outcome")
	assert.True(t, everyone, "outcome should be broadcast to all users")
}

func TestOrderRejectBooksNothing(t *testing.T) {
	f := newOrderFixture(t)
	order := f.raise(t)

	rejected, err := f.svc.Reject(context.Background(), f.admin, order.ID, "10.0.0.2")
	require.NoError(t, err)

	assert.Equal(t, model.StatusRejected, rejected.Status)
	assert.Empty(t, f.accounting.entries)
	assert.Contains(t, f.audit.actions(), model.ActionReject)
}

func TestOrderDoubleProcessConflicts(t *testing.T) {
	f := newOrderFixture(t)
	order := f.raise(t)

	_, err := f.svc.Reject(context.Background(), f.manager, order.ID, "10.0.0.2")
	require.NoError(t, err)

	_, err = f.svc.Approve(context.Background(), f.admin, order.ID, "10.0.0.3")
	assert.True(t, apperr.IsKind(err, apperr.KindConflict))

	// The losing call must not have booked an expense either
	assert.Empty(t, f.accounting.entries)
}

func TestOrderListScoping(t *testing.T) {
	f := newOrderFixture(t)
	f.raise(t)

	other, err := f.svc.Create(context.Background(), f.staff2, service.CreateOrderRequest{
		ProductID: f.product.ID.String(),
		Quantity:  2,
	}, "10.0.0.1")
	require.NoError(t, err)

	// Warehouse staff see only their own orders
	own, err := f.svc.List(context.Background(), f.staff2)
	require.NoError(t, err)
	require.Len(t, own, 1)
	assert.Equal(t, other.ID, own[0].ID)

	// Management sees all of them
	all, err := f.svc.List(context.Background(), f.manager)
	require.NoError(t, err)
	assert.Len(t, all, 2)
}

func TestOrderDeleteGuards(t *testing.T) {
	f := newOrderFixture(t)
	order := f.raise(t)

	// A peer cannot delete someone else's order
	err := f.svc.Delete(context.Background(), f.staff2, order.ID, "10.0.0.4")
	assert.True(t, apperr.IsKind(err, apperr.KindAuthorization))

	// The requester can while it is pending
	err = f.svc.Delete(context.Background(), f.staff, order.ID, "10.0.0.4")
	require.NoError(t, err)
}
