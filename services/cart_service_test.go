package services

import (
	"context"
	"testing"

	"github.com/Jaypurnwasi/RestaurantApp/apperr"
	"github.com/Jaypurnwasi/RestaurantApp/models"
)

func TestCartAddMergesLines(t *testing.T) {
	t.Parallel()
	e := newEnv(t)
	admin, _ := e.as(t, models.RoleAdmin)
	cust, _ := e.as(t, models.RoleCustomer)
	cat := e.category(t, admin, "Starters")
	a := e.menuItem(t, admin, cat.ID, "Samosa", 40)

	if line, err := e.svc.Cart.Add(cust, a.ID, 2); err != nil || line.Quantity != 2 {
		t.Fatalf("first add = %+v, %v", line, err)
	}
	line, err := e.svc.Cart.Add(cust, a.ID, 1)
	if err != nil {
		t.Fatalf("second add: %v", err)
	}
	if line.Quantity != 3 {
		t.Fatalf("quantity = %d, want 3", line.Quantity)
	}

	view, err := e.svc.Cart.Get(cust)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if len(view.Lines) != 1 {
		t.Fatalf("lines = %d, want a single merged line", len(view.Lines))
	}
	if view.Total() != 120 {
		t.Fatalf("total = %v, want 120", view.Total())
	}
}

func TestCartAddRejections(t *testing.T) {
	t.Parallel()
	e := newEnv(t)
	admin, _ := e.as(t, models.RoleAdmin)
	cust, _ := e.as(t, models.RoleCustomer)
	cat := e.category(t, admin, "Mains")
	m := e.menuItem(t, admin, cat.ID, "Dal Makhani", 180)

	_, err := e.svc.Cart.Add(context.Background(), m.ID, 1)
	wantCode(t, err, apperr.CodeUnauthenticated)

	_, err = e.svc.Cart.Add(cust, "not-an-id", 1)
	wantCode(t, err, apperr.CodeBadRequest)

	_, err = e.svc.Cart.Add(cust, m.ID, 0)
	wantCode(t, err, apperr.CodeBadRequest)

	_, err = e.svc.Cart.Add(cust, models.NewID(), 1)
	wantCode(t, err, apperr.CodeNotFound)

	if _, err := e.svc.Menu.Delete(admin, m.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	_, err = e.svc.Cart.Add(cust, m.ID, 1)
	wantCode(t, err, apperr.CodeNotFound)
}

func TestCartDecreaseAndRemove(t *testing.T) {
	t.Parallel()
	e := newEnv(t)
	admin, _ := e.as(t, models.RoleAdmin)
	cust, _ := e.as(t, models.RoleCustomer)
	cat := e.category(t, admin, "Breads")
	naan := e.menuItem(t, admin, cat.ID, "Butter Naan", 50)
	roti := e.menuItem(t, admin, cat.ID, "Tandoori Roti", 30)

	_, err := e.svc.Cart.Decrease(cust, naan.ID)
	wantCode(t, err, apperr.CodeNotFound)

	_, _ = e.svc.Cart.Add(cust, naan.ID, 2)
	line, err := e.svc.Cart.Decrease(cust, naan.ID)
	if err != nil || line.Quantity != 1 {
		t.Fatalf("decrease = %+v, %v", line, err)
	}
	line, err = e.svc.Cart.Decrease(cust, naan.ID)
	if err != nil || line.Quantity != 0 {
		t.Fatalf("decrease to zero = %+v, %v", line, err)
	}
	_, err = e.svc.Cart.Decrease(cust, naan.ID)
	wantCode(t, err, apperr.CodeBadRequest)

	_, _ = e.svc.Cart.Add(cust, roti.ID, 4)
	removed, err := e.svc.Cart.Remove(cust, roti.ID)
	if err != nil || removed.Quantity != 4 {
		t.Fatalf("remove = %+v, %v", removed, err)
	}
	_, err = e.svc.Cart.Remove(cust, roti.ID)
	wantCode(t, err, apperr.CodeBadRequest)
}

func TestCartClear(t *testing.T) {
	t.Parallel()
	e := newEnv(t)
	admin, _ := e.as(t, models.RoleAdmin)
	cust, _ := e.as(t, models.RoleCustomer)
	cat := e.category(t, admin, "Drinks")
	lassi := e.menuItem(t, admin, cat.ID, "Sweet Lassi", 60)

	_, err := e.svc.Cart.Clear(cust)
	wantCode(t, err, apperr.CodeNotFound)

	if view, err := e.svc.Cart.Get(cust); err != nil || view != nil {
		t.Fatalf("no cart should read as nil, got %+v, %v", view, err)
	}

	_, _ = e.svc.Cart.Add(cust, lassi.ID, 1)
	ok, err := e.svc.Cart.Clear(cust)
	if err != nil || !ok {
		t.Fatalf("clear = %v, %v", ok, err)
	}
	if view, _ := e.svc.Cart.Get(cust); view != nil {
		t.Fatal("cart still present after clear")
	}
}
