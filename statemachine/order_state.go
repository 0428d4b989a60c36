package statemachine

import (
	"fmt"
	"strings"

	"github.com/Jaypurnwasi/RestaurantApp/models"
)

// Transition defines a valid state change and who can perform it
type Transition struct {
	From  models.OrderStatus `json:"from"`
	To    models.OrderStatus `json:"to"`
	Actor models.UserRole    `json:"actor"`
}

// byStaff expands one edge into a row per staff role
func byStaff(from models.OrderStatus, to ...models.OrderStatus) []Transition {
	var out []Transition
	for _, t := range to {
		for _, r := range models.StaffRoles {
			out = append(out, Transition{From: from, To: t, Actor: r})
		}
	}
	return out
}

// validTransitions is the authoritative state machine definition.
// Re-applying the current status is accepted while the order is still open.
var validTransitions = func() []Transition {
	var all []Transition
	all = append(all, byStaff(models.StatusPending, models.StatusPending, models.StatusPrepared, models.StatusFailed)...)
	all = append(all, byStaff(models.StatusPrepared, models.StatusPrepared, models.StatusCompleted, models.StatusFailed)...)
	return all
}()

type transitionKey struct {
	From  models.OrderStatus
	To    models.OrderStatus
	Actor models.UserRole
}

var transitionMap = func() map[transitionKey]bool {
	m := make(map[transitionKey]bool)
	for _, t := range validTransitions {
		m[transitionKey{t.From, t.To, t.Actor}] = true
	}
	return m
}()

// ValidStatus reports whether s is a known order status
func ValidStatus(s models.OrderStatus) bool {
	switch s {
	case models.StatusPending, models.StatusPrepared, models.StatusCompleted, models.StatusFailed:
		return true
	}
	return false
}

// ValidTransitionsFrom returns all valid next states from a given state
func ValidTransitionsFrom(status models.OrderStatus) []models.OrderStatus {
	var nexts []models.OrderStatus
	seen := map[models.OrderStatus]bool{}
	for _, t := range validTransitions {
		if t.From == status && !seen[t.To] {
			nexts = append(nexts, t.To)
			seen[t.To] = true
		}
	}
	return nexts
}

// IsTerminal reports whether no transition leaves status
func IsTerminal(status models.OrderStatus) bool {
	return len(ValidTransitionsFrom(status)) == 0
}

// CanTransition checks if a given actor can move from one state to another
func CanTransition(from, to models.OrderStatus, actor models.UserRole) error {
	if transitionMap[transitionKey{From: from, To: to, Actor: actor}] {
		return nil
	}
	if !actor.IsStaff() {
		return fmt.Errorf("role %q cannot change order status", actor)
	}
	return fmt.Errorf("invalid status transition from %s to %s. Valid transitions from %s: %s",
		from, to, from, describeValidFrom(from))
}

func describeValidFrom(status models.OrderStatus) string {
	nexts := ValidTransitionsFrom(status)
	if len(nexts) == 0 {
		return "none (terminal state)"
	}
	names := make([]string, len(nexts))
	for i, s := range nexts {
		names[i] = string(s)
	}
	return strings.Join(names, ", ")
}

// GetAllTransitions returns the full state machine for documentation
func GetAllTransitions() []Transition {
	return validTransitions
}
