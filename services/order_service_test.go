package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/Jaypurnwasi/RestaurantApp/apperr"
	"github.com/Jaypurnwasi/RestaurantApp/logger"
	"github.com/Jaypurnwasi/RestaurantApp/models"
	"github.com/Jaypurnwasi/RestaurantApp/otp"
	"github.com/Jaypurnwasi/RestaurantApp/pubsub"
	"github.com/Jaypurnwasi/RestaurantApp/store"
)

type checkoutFixture struct {
	e     *env
	admin context.Context
	cust  context.Context
	user  *models.User
	a, b  *models.MenuItem
	table *models.Table
}

func newCheckout(t *testing.T) *checkoutFixture {
	t.Helper()
	e := newEnv(t)
	admin, _ := e.as(t, models.RoleAdmin)
	cust, user := e.as(t, models.RoleCustomer)
	cat := e.category(t, admin, "Curries")
	return &checkoutFixture{
		e:     e,
		admin: admin,
		cust:  cust,
		user:  user,
		a:     e.menuItem(t, admin, cat.ID, "Paneer Butter Masala", 220),
		b:     e.menuItem(t, admin, cat.ID, "Chana Masala", 160),
		table: e.table(t, admin, "Table 7"),
	}
}

func TestCreateOrderFromCart(t *testing.T) {
	t.Parallel()
	f := newCheckout(t)
	ctx := context.Background()

	_, _ = f.e.svc.Cart.Add(f.cust, f.a.ID, 2)
	_, _ = f.e.svc.Cart.Add(f.cust, f.b.ID, 1)

	order, err := f.e.svc.Orders.Create(f.cust, CreateOrderInput{TableID: f.table.ID, Amount: 600, Success: true})
	if err != nil {
		t.Fatalf("create order: %v", err)
	}
	if order.Status != models.StatusPending {
		t.Fatalf("status = %s, want Pending", order.Status)
	}
	if len(order.Items) != 2 {
		t.Fatalf("items = %d, want 2", len(order.Items))
	}
	qty := map[string]int{}
	for _, it := range order.Items {
		qty[it.MenuItemID] = it.Quantity
	}
	if qty[f.a.ID] != 2 || qty[f.b.ID] != 1 {
		t.Fatalf("lines = %v, want A x2 and B x1", qty)
	}

	if _, err := f.e.store.Carts().GetByUser(ctx, f.user.ID); err == nil {
		t.Fatal("cart should be gone after checkout")
	}

	tx, err := f.e.store.Transactions().GetByOrder(ctx, order.ID)
	if err != nil {
		t.Fatalf("transaction: %v", err)
	}
	if !tx.Success || tx.Mode != models.ModeUpi || tx.Amount != 600 {
		t.Fatalf("transaction = %+v", tx)
	}

	hist, err := f.e.svc.Orders.History(f.cust, order.ID)
	if err != nil || len(hist) != 1 || hist[0].ToStatus != models.StatusPending {
		t.Fatalf("history = %+v, %v", hist, err)
	}
}

func TestCreateOrderFailedPayment(t *testing.T) {
	t.Parallel()
	f := newCheckout(t)
	_, _ = f.e.svc.Cart.Add(f.cust, f.a.ID, 1)

	order, err := f.e.svc.Orders.Create(f.cust, CreateOrderInput{TableID: f.table.ID, Amount: 220, Success: false})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if order.Status != models.StatusFailed {
		t.Fatalf("status = %s, want Failed", order.Status)
	}
}

func TestCreateOrderRejections(t *testing.T) {
	t.Parallel()
	f := newCheckout(t)
	ctx := context.Background()

	_, err := f.e.svc.Orders.Create(f.cust, CreateOrderInput{TableID: f.table.ID, Amount: 0, Success: true})
	wantCode(t, err, apperr.CodeBadRequest)
	if err.Error() != "Cart is empty" {
		t.Fatalf("message = %q, want Cart is empty", err.Error())
	}

	_, _ = f.e.svc.Cart.Add(f.cust, f.a.ID, 1)
	_, _ = f.e.svc.Cart.Add(f.cust, f.b.ID, 1)

	_, err = f.e.svc.Orders.Create(f.cust, CreateOrderInput{TableID: models.NewID(), Amount: 100, Success: true})
	wantCode(t, err, apperr.CodeBadRequest)

	_, err = f.e.svc.Orders.Create(f.cust, CreateOrderInput{TableID: f.table.ID, Amount: -5, Success: true})
	wantCode(t, err, apperr.CodeBadRequest)

	if _, err := f.e.svc.Menu.Delete(f.admin, f.b.ID); err != nil {
		t.Fatalf("delete item: %v", err)
	}
	_, err = f.e.svc.Orders.Create(f.cust, CreateOrderInput{TableID: f.table.ID, Amount: 380, Success: true})
	wantCode(t, err, apperr.CodeBadRequest)

	cart, err := f.e.store.Carts().GetByUser(ctx, f.user.ID)
	if err != nil || len(cart.Items) != 2 {
		t.Fatalf("failed checkout must leave the cart intact: %+v, %v", cart, err)
	}
	orders, _ := f.e.store.Orders().List(ctx, store.OrderFilter{})
	if len(orders) != 0 {
		t.Fatalf("no partial orders expected, found %d", len(orders))
	}
}

// brokenPayments fails every transaction write made inside Atomic, after
// the order row has already been inserted
type brokenPayments struct {
	store.Store
}

func (b brokenPayments) Atomic(ctx context.Context, fn func(tx store.Store) error) error {
	return b.Store.Atomic(ctx, func(tx store.Store) error {
		return fn(brokenPaymentsTx{tx})
	})
}

type brokenPaymentsTx struct {
	store.Store
}

func (b brokenPaymentsTx) Transactions() store.TransactionRepository {
	return failingTransactions{b.Store.Transactions()}
}

type failingTransactions struct {
	store.TransactionRepository
}

func (failingTransactions) Create(context.Context, *models.Transaction) error {
	return errors.New("disk I/O error")
}

func TestCreateOrderRollsBackLateFailure(t *testing.T) {
	t.Parallel()
	f := newCheckout(t)
	ctx := context.Background()
	_, _ = f.e.svc.Cart.Add(f.cust, f.a.ID, 2)

	orders := New(Deps{
		Store:  brokenPayments{f.e.store},
		Broker: f.e.broker,
		Tokens: f.e.tokens,
		OTP:    otp.New(time.Minute, time.Minute),
		Mailer: f.e.mail,
		Log:    logger.Discard(),
	}).Orders
	created := f.e.broker.Subscribe(ctx, pubsub.OrderCreated)

	_, err := orders.Create(f.cust, CreateOrderInput{TableID: f.table.ID, Amount: 440, Success: true})
	wantCode(t, err, apperr.CodeInternal)

	list, err := f.e.store.Orders().List(ctx, store.OrderFilter{})
	if err != nil || len(list) != 0 {
		t.Fatalf("order survived the rollback: %+v, %v", list, err)
	}
	cart, err := f.e.store.Carts().GetByUser(ctx, f.user.ID)
	if err != nil || len(cart.Items) != 1 || cart.Items[0].Quantity != 2 {
		t.Fatalf("cart changed by a failed checkout: %+v, %v", cart, err)
	}
	select {
	case ev := <-created:
		t.Fatalf("failed checkout published %+v", ev)
	default:
	}
}

func TestUpdateOrderStatus(t *testing.T) {
	t.Parallel()
	f := newCheckout(t)
	kitchen, _ := f.e.as(t, models.RoleKitchenStaff)

	_, _ = f.e.svc.Cart.Add(f.cust, f.a.ID, 1)
	order, err := f.e.svc.Orders.Create(f.cust, CreateOrderInput{TableID: f.table.ID, Amount: 220, Success: true})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	watch, cancel := context.WithCancel(context.Background())
	defer cancel()
	events := f.e.broker.Subscribe(watch, pubsub.OrderUpdated)

	_, err = f.e.svc.Orders.UpdateStatus(f.cust, UpdateOrderStatusInput{OrderID: order.ID, Status: models.StatusPrepared})
	wantCode(t, err, apperr.CodeForbidden)

	_, err = f.e.svc.Orders.UpdateStatus(kitchen, UpdateOrderStatusInput{OrderID: order.ID, Status: models.StatusCompleted})
	wantCode(t, err, apperr.CodeBadRequest)

	_, err = f.e.svc.Orders.UpdateStatus(kitchen, UpdateOrderStatusInput{OrderID: models.NewID(), Status: models.StatusPrepared})
	wantCode(t, err, apperr.CodeNotFound)

	for _, next := range []models.OrderStatus{models.StatusPrepared, models.StatusPrepared, models.StatusCompleted} {
		res, err := f.e.svc.Orders.UpdateStatus(kitchen, UpdateOrderStatusInput{OrderID: order.ID, Status: next})
		if err != nil {
			t.Fatalf("to %s: %v", next, err)
		}
		if !res.Success || res.UpdatedStatus != next || res.OrderID != order.ID {
			t.Fatalf("result = %+v", res)
		}
		select {
		case ev := <-events:
			if up, ok := ev.(*StatusUpdate); !ok || up.UpdatedStatus != next {
				t.Fatalf("event = %#v", ev)
			}
		case <-time.After(time.Second):
			t.Fatalf("no ORDER_UPDATED event for %s", next)
		}
	}

	_, err = f.e.svc.Orders.UpdateStatus(f.admin, UpdateOrderStatusInput{OrderID: order.ID, Status: models.StatusPending})
	wantCode(t, err, apperr.CodeBadRequest)

	hist, _ := f.e.svc.Orders.History(f.admin, order.ID)
	if len(hist) != 4 {
		t.Fatalf("history entries = %d, want 4", len(hist))
	}
}

func TestOrderVisibility(t *testing.T) {
	t.Parallel()
	f := newCheckout(t)
	other, _ := f.e.as(t, models.RoleCustomer)
	waiter, _ := f.e.as(t, models.RoleWaiter)

	_, _ = f.e.svc.Cart.Add(f.cust, f.a.ID, 1)
	mine, err := f.e.svc.Orders.Create(f.cust, CreateOrderInput{TableID: f.table.ID, Amount: 220, Success: true})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	_, _ = f.e.svc.Cart.Add(other, f.b.ID, 1)
	if _, err := f.e.svc.Orders.Create(other, CreateOrderInput{TableID: f.table.ID, Amount: 160, Success: false}); err != nil {
		t.Fatalf("create other: %v", err)
	}

	own, err := f.e.svc.Orders.List(f.cust, OrderQuery{})
	if err != nil || len(own) != 1 || own[0].ID != mine.ID {
		t.Fatalf("customer list = %+v, %v", own, err)
	}

	all, err := f.e.svc.Orders.List(waiter, OrderQuery{})
	if err != nil || len(all) != 2 {
		t.Fatalf("staff list = %d, %v", len(all), err)
	}
	failed := models.StatusFailed
	filtered, _ := f.e.svc.Orders.List(waiter, OrderQuery{Status: &failed})
	if len(filtered) != 1 {
		t.Fatalf("status filter = %d, want 1", len(filtered))
	}

	_, err = f.e.svc.Orders.Get(other, mine.ID)
	wantCode(t, err, apperr.CodeForbidden)
	if _, err := f.e.svc.Orders.Get(waiter, mine.ID); err != nil {
		t.Fatalf("staff get: %v", err)
	}
	_, err = f.e.svc.Orders.ByCustomer(other, f.user.ID)
	wantCode(t, err, apperr.CodeForbidden)

	stats, err := f.e.svc.Orders.Stats(f.admin)
	if err != nil {
		t.Fatalf("stats: %v", err)
	}
	if stats.TotalOrders != 2 || stats.ByStatus[models.StatusPending] != 1 || stats.ByStatus[models.StatusFailed] != 1 {
		t.Fatalf("stats = %+v", stats)
	}
	_, err = f.e.svc.Orders.Stats(waiter)
	wantCode(t, err, apperr.CodeForbidden)
}
