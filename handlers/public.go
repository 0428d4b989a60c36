package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/Jaypurnwasi/RestaurantApp/models"
	"github.com/Jaypurnwasi/RestaurantApp/statemachine"
)

// Pinger is anything whose liveness /health should report
type Pinger interface {
	Ping(ctx context.Context) error
}

// Health reports the service status and whether the store answers
func Health(db Pinger) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
		defer cancel()

		if err := db.Ping(ctx); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{
				"status":   "unhealthy",
				"database": "unreachable",
			})
			return
		}
		c.JSON(http.StatusOK, gin.H{
			"status":   "healthy",
			"service":  "Restaurant Ordering API",
			"database": "ok",
		})
	}
}

func Welcome(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"message": "Welcome to the Restaurant Ordering API",
		"graphql": "/graphql",
		"docs":    "/api/state-machine",
		"health":  "/health",
		"roles":   []models.UserRole{models.RoleAdmin, models.RoleKitchenStaff, models.RoleWaiter, models.RoleCustomer},
	})
}

// GetStateMachineInfo returns the order lifecycle as data
func GetStateMachineInfo(c *gin.Context) {
	statuses := []models.OrderStatus{models.StatusPending, models.StatusPrepared, models.StatusCompleted, models.StatusFailed}

	next := make(map[models.OrderStatus][]models.OrderStatus, len(statuses))
	var terminal []models.OrderStatus
	for _, s := range statuses {
		next[s] = statemachine.ValidTransitionsFrom(s)
		if statemachine.IsTerminal(s) {
			terminal = append(terminal, s)
		}
	}

	c.JSON(http.StatusOK, gin.H{
		"state_machine":   statemachine.GetAllTransitions(),
		"next_states":     next,
		"initial_states":  []models.OrderStatus{models.StatusPending, models.StatusFailed},
		"terminal_states": terminal,
		"description":     "Restaurant Order Lifecycle State Machine",
	})
}
