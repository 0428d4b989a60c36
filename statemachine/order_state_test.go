package statemachine

import (
	"strings"
	"testing"

	"github.com/Jaypurnwasi/RestaurantApp/models"
)

func TestCanTransition(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name  string
		from  models.OrderStatus
		to    models.OrderStatus
		actor models.UserRole
		ok    bool
	}{
		{"pending to prepared", models.StatusPending, models.StatusPrepared, models.RoleKitchenStaff, true},
		{"pending to failed", models.StatusPending, models.StatusFailed, models.RoleWaiter, true},
		{"pending self", models.StatusPending, models.StatusPending, models.RoleAdmin, true},
		{"pending skips prepared", models.StatusPending, models.StatusCompleted, models.RoleAdmin, false},
		{"prepared to completed", models.StatusPrepared, models.StatusCompleted, models.RoleWaiter, true},
		{"prepared self", models.StatusPrepared, models.StatusPrepared, models.RoleKitchenStaff, true},
		{"prepared back to pending", models.StatusPrepared, models.StatusPending, models.RoleAdmin, false},
		{"completed is terminal", models.StatusCompleted, models.StatusCompleted, models.RoleAdmin, false},
		{"failed is terminal", models.StatusFailed, models.StatusPending, models.RoleAdmin, false},
		{"customer cannot act", models.StatusPending, models.StatusPrepared, models.RoleCustomer, false},
	}

	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			err := CanTransition(tc.from, tc.to, tc.actor)
			if tc.ok && err != nil {
				t.Fatalf("expected transition allowed, got %v", err)
			}
			if !tc.ok && err == nil {
				t.Fatal("expected transition rejected")
			}
		})
	}
}

func TestValidTransitionsFrom(t *testing.T) {
	t.Parallel()

	got := ValidTransitionsFrom(models.StatusPending)
	want := []models.OrderStatus{models.StatusPending, models.StatusPrepared, models.StatusFailed}
	if len(got) != len(want) {
		t.Fatalf("got %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("got %v, want %v", got, want)
		}
	}

	if !IsTerminal(models.StatusCompleted) || !IsTerminal(models.StatusFailed) {
		t.Fatal("Completed and Failed should be terminal")
	}
	if IsTerminal(models.StatusPrepared) {
		t.Fatal("Prepared should not be terminal")
	}
}

func TestRejectionMentionsAllowedStates(t *testing.T) {
	t.Parallel()

	err := CanTransition(models.StatusCompleted, models.StatusPending, models.RoleAdmin)
	if err == nil || !strings.Contains(err.Error(), "terminal") {
		t.Fatalf("expected terminal-state message, got %v", err)
	}
}

func TestValidStatus(t *testing.T) {
	t.Parallel()

	if ValidStatus("Cancelled") {
		t.Fatal("unknown status accepted")
	}
	if !ValidStatus(models.StatusPrepared) {
		t.Fatal("Prepared rejected")
	}
}
