package auth

import (
	"context"
	"strings"

	"github.com/Jaypurnwasi/RestaurantApp/apperr"
	"github.com/Jaypurnwasi/RestaurantApp/models"
)

// Action names a protected operation
type Action string

const (
	ActionUseCart           Action = "cart:use"
	ActionPlaceOrder        Action = "order:place"
	ActionViewOrders        Action = "order:view"
	ActionViewAllOrders     Action = "order:view-all"
	ActionUpdateOrderStatus Action = "order:update-status"
	ActionWatchOrders       Action = "order:watch"
	ActionViewStats         Action = "order:stats"
	ActionViewCategories    Action = "category:view"
	ActionManageCategories  Action = "category:manage"
	ActionManageMenu        Action = "menu:manage"
	ActionExportMenu        Action = "menu:export"
	ActionManageTables      Action = "table:manage"
	ActionManageUsers       Action = "user:manage"
	ActionManageSelf        Action = "user:self"
)

var (
	anyRole   []models.UserRole
	adminOnly = []models.UserRole{models.RoleAdmin}
)

// policy maps each action to the roles allowed to run it. A nil entry admits any signed-in user.
var policy = map[Action][]models.UserRole{
	ActionUseCart:           anyRole,
	ActionPlaceOrder:        anyRole,
	ActionViewOrders:        anyRole,
	ActionViewCategories:    anyRole,
	ActionManageSelf:        anyRole,
	ActionViewAllOrders:     models.StaffRoles,
	ActionUpdateOrderStatus: models.StaffRoles,
	ActionWatchOrders:       models.StaffRoles,
	ActionViewStats:         adminOnly,
	ActionManageCategories:  adminOnly,
	ActionManageMenu:        adminOnly,
	ActionExportMenu:        adminOnly,
	ActionManageTables:      adminOnly,
	ActionManageUsers:       adminOnly,
}

// Allowed reports whether role may perform action
func Allowed(role models.UserRole, action Action) bool {
	roles, known := policy[action]
	if !known {
		return false
	}
	if roles == nil {
		return role.Valid()
	}
	for _, r := range roles {
		if r == role {
			return true
		}
	}
	return false
}

// Authorize returns the caller when it may perform action.
// No caller is UNAUTHENTICATED, a caller with the wrong role is FORBIDDEN.
func Authorize(ctx context.Context, action Action) (*Identity, error) {
	id, err := Require(ctx)
	if err != nil {
		return nil, err
	}
	if !Allowed(id.Role, action) {
		return nil, apperr.Forbidden("Access denied. Required role(s): " + rolesString(policy[action]))
	}
	return id, nil
}

func rolesString(roles []models.UserRole) string {
	names := make([]string, len(roles))
	for i, r := range roles {
		names[i] = string(r)
	}
	return strings.Join(names, ", ")
}
