package auth

import (
	"context"
	"testing"
	"time"

	"github.com/Jaypurnwasi/RestaurantApp/apperr"
	"github.com/Jaypurnwasi/RestaurantApp/models"
)

func TestTokenRoundTrip(t *testing.T) {
	t.Parallel()

	tokens := NewTokens("test-secret", time.Hour)
	user := &models.User{ID: models.NewID(), Name: "Asha", Email: "asha@example.com", Role: models.RoleWaiter}

	raw, err := tokens.GenerateToken(user)
	if err != nil {
		t.Fatalf("GenerateToken: %v", err)
	}
	claims, err := tokens.ParseToken(raw)
	if err != nil {
		t.Fatalf("ParseToken: %v", err)
	}
	if claims.UserID != user.ID || claims.Role != models.RoleWaiter || claims.Email != user.Email {
		t.Fatalf("unexpected claims %+v", claims)
	}
}

func TestParseRejectsForeignAndExpiredTokens(t *testing.T) {
	t.Parallel()

	user := &models.User{ID: models.NewID(), Role: models.RoleCustomer}

	other, _ := NewTokens("other-secret", time.Hour).GenerateToken(user)
	if _, err := NewTokens("test-secret", time.Hour).ParseToken(other); err == nil {
		t.Fatal("token signed with another secret accepted")
	}

	expired, _ := NewTokens("test-secret", -time.Minute).GenerateToken(user)
	if _, err := NewTokens("test-secret", time.Hour).ParseToken(expired); err == nil {
		t.Fatal("expired token accepted")
	}

	if _, err := NewTokens("test-secret", time.Hour).ParseToken("garbage"); err == nil {
		t.Fatal("garbage accepted")
	}
}

func TestPasswords(t *testing.T) {
	t.Parallel()

	hash, err := HashPassword("secret1")
	if err != nil {
		t.Fatalf("HashPassword: %v", err)
	}
	if !CheckPassword(hash, "secret1") {
		t.Fatal("correct password rejected")
	}
	if CheckPassword(hash, "secret2") {
		t.Fatal("wrong password accepted")
	}
	if CheckPassword("", "") {
		t.Fatal("empty hash must never match")
	}
}

func TestAuthorize(t *testing.T) {
	t.Parallel()

	if _, err := Authorize(context.Background(), ActionUseCart); !apperr.Is(err, apperr.CodeUnauthenticated) {
		t.Fatalf("anonymous: got %v, want UNAUTHENTICATED", err)
	}

	customer := WithIdentity(context.Background(), &Identity{UserID: "c", Role: models.RoleCustomer})
	if _, err := Authorize(customer, ActionUseCart); err != nil {
		t.Fatalf("customer cart: %v", err)
	}
	if _, err := Authorize(customer, ActionUpdateOrderStatus); !apperr.Is(err, apperr.CodeForbidden) {
		t.Fatalf("customer status update: got %v, want FORBIDDEN", err)
	}

	kitchen := WithIdentity(context.Background(), &Identity{UserID: "k", Role: models.RoleKitchenStaff})
	if _, err := Authorize(kitchen, ActionUpdateOrderStatus); err != nil {
		t.Fatalf("kitchen status update: %v", err)
	}
	if _, err := Authorize(kitchen, ActionManageMenu); !apperr.Is(err, apperr.CodeForbidden) {
		t.Fatalf("kitchen menu: got %v, want FORBIDDEN", err)
	}

	if Allowed(models.RoleAdmin, Action("unknown")) {
		t.Fatal("unknown actions must be denied")
	}
}

type recordingSession struct{ token string }

func (r *recordingSession) SetToken(tok string) { r.token = tok }
func (r *recordingSession) ClearToken()         { r.token = "" }

func TestSessionHelpers(t *testing.T) {
	t.Parallel()

	// without a session these are no-ops
	SetToken(context.Background(), "x")
	ClearToken(context.Background())

	s := &recordingSession{}
	ctx := WithSession(context.Background(), s)
	SetToken(ctx, "abc")
	if s.token != "abc" {
		t.Fatalf("token = %q", s.token)
	}
	ClearToken(ctx)
	if s.token != "" {
		t.Fatal("token not cleared")
	}
}
