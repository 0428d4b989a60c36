package mongostore

import (
	"context"
	"errors"
	"os"
	"testing"

	"github.com/Jaypurnwasi/RestaurantApp/models"
	"github.com/Jaypurnwasi/RestaurantApp/store"
)

// openTestStore needs a reachable server, e.g. MONGO_TEST_URL=mongodb://localhost:27017
func openTestStore(t *testing.T) *Store {
	t.Helper()
	uri := os.Getenv("MONGO_TEST_URL")
	if uri == "" {
		t.Skip("MONGO_TEST_URL not set")
	}
	ctx := context.Background()
	db := "restaurant_test_" + models.NewID()
	s, err := Open(ctx, uri, db, false)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	t.Cleanup(func() {
		_ = s.db.Drop(context.Background())
		_ = s.Close(context.Background())
	})
	return s
}

func TestUsersAndDuplicates(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	u := &models.User{Name: "Meera", Email: "meera@example.com", Role: models.RoleAdmin}
	if err := s.Users().Create(ctx, u); err != nil {
		t.Fatalf("create: %v", err)
	}
	if err := s.Users().Create(ctx, &models.User{Email: "meera@example.com"}); !errors.Is(err, store.ErrDuplicate) {
		t.Fatalf("got %v, want ErrDuplicate", err)
	}

	n, err := s.Users().CountByRole(ctx, models.RoleAdmin)
	if err != nil || n != 1 {
		t.Fatalf("admins = %d, %v", n, err)
	}

	if err := s.Users().Delete(ctx, u.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, err := s.Users().GetByID(ctx, u.ID); !errors.Is(err, store.ErrNotFound) {
		t.Fatalf("got %v, want ErrNotFound", err)
	}
}

func TestCartUpsertAndOrderList(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	userID := models.NewID()
	cart := &models.Cart{UserID: userID, Items: []models.CartItem{{MenuItemID: models.NewID(), Quantity: 3}}}
	if err := s.Carts().Save(ctx, cart); err != nil {
		t.Fatalf("save: %v", err)
	}
	cart.Items[0].Quantity = 4
	if err := s.Carts().Save(ctx, cart); err != nil {
		t.Fatalf("resave: %v", err)
	}
	got, err := s.Carts().GetByUser(ctx, userID)
	if err != nil || len(got.Items) != 1 || got.Items[0].Quantity != 4 {
		t.Fatalf("cart = %+v, %v", got, err)
	}

	for i := 0; i < 2; i++ {
		o := &models.Order{TableID: "t1", CustomerID: userID, Amount: 10, Status: models.StatusPending}
		if err := s.Orders().Create(ctx, o); err != nil {
			t.Fatalf("create order: %v", err)
		}
	}
	orders, err := s.Orders().List(ctx, store.OrderFilter{CustomerID: userID})
	if err != nil || len(orders) != 2 {
		t.Fatalf("orders = %d, %v", len(orders), err)
	}
	if orders[0].CreatedAt.Before(orders[1].CreatedAt) {
		t.Fatal("orders should be newest first")
	}
}
