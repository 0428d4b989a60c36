// Package store declares the persistence boundary. Implementations live in
// gormstore (SQL dialects) and mongostore.
package store

import (
	"context"
	"errors"
	"time"

	"github.com/Jaypurnwasi/RestaurantApp/models"
)

var (
	ErrNotFound  = errors.New("record not found")
	ErrDuplicate = errors.New("duplicate record")
)

// OpTimeout bounds every single repository call
const OpTimeout = 5 * time.Second

type Store interface {
	Users() UserRepository
	Categories() CategoryRepository
	MenuItems() MenuItemRepository
	Carts() CartRepository
	Orders() OrderRepository
	Transactions() TransactionRepository
	Tables() TableRepository

	// Atomic runs fn against a store whose writes commit or roll back together
	Atomic(ctx context.Context, fn func(tx Store) error) error
	Ping(ctx context.Context) error
	Close(ctx context.Context) error
}

type UserRepository interface {
	Create(ctx context.Context, u *models.User) error
	GetByID(ctx context.Context, id string) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	Update(ctx context.Context, u *models.User) error
	Delete(ctx context.Context, id string) error
	ListByRoles(ctx context.Context, roles ...models.UserRole) ([]models.User, error)
	CountByRole(ctx context.Context, role models.UserRole) (int64, error)
}

type CategoryRepository interface {
	Create(ctx context.Context, c *models.Category) error
	GetByID(ctx context.Context, id string) (*models.Category, error)
	GetByName(ctx context.Context, name string) (*models.Category, error)
	Update(ctx context.Context, c *models.Category) error
	Delete(ctx context.Context, id string) error
	List(ctx context.Context) ([]models.Category, error)
}

// MenuFilter narrows List; zero values mean "any"
type MenuFilter struct {
	IsVeg        *bool
	CategoryID   string
	NameContains string
	ActiveOnly   bool
}

type MenuItemRepository interface {
	Create(ctx context.Context, m *models.MenuItem) error
	GetByID(ctx context.Context, id string) (*models.MenuItem, error)
	GetByIDs(ctx context.Context, ids []string) ([]models.MenuItem, error)
	Update(ctx context.Context, m *models.MenuItem) error
	List(ctx context.Context, f MenuFilter) ([]models.MenuItem, error)
	// ActiveNameTaken ignores case and skips the item with excludeID
	ActiveNameTaken(ctx context.Context, categoryID, name, excludeID string) (bool, error)
	CountByCategory(ctx context.Context, categoryID string) (int64, error)
}

type CartRepository interface {
	GetByUser(ctx context.Context, userID string) (*models.Cart, error)
	// Save inserts or replaces the cart together with its lines
	Save(ctx context.Context, c *models.Cart) error
	DeleteByUser(ctx context.Context, userID string) error
}

type OrderFilter struct {
	Status     *models.OrderStatus
	TableID    string
	CustomerID string
}

type OrderRepository interface {
	Create(ctx context.Context, o *models.Order) error
	GetByID(ctx context.Context, id string) (*models.Order, error)
	UpdateStatus(ctx context.Context, id string, status models.OrderStatus) error
	// List returns newest first
	List(ctx context.Context, f OrderFilter) ([]models.Order, error)
	CountByTable(ctx context.Context, tableID string) (int64, error)
	AddHistory(ctx context.Context, h *models.OrderStatusHistory) error
	History(ctx context.Context, orderID string) ([]models.OrderStatusHistory, error)
}

type TransactionRepository interface {
	Create(ctx context.Context, t *models.Transaction) error
	GetByOrder(ctx context.Context, orderID string) (*models.Transaction, error)
}

type TableRepository interface {
	Create(ctx context.Context, t *models.Table) error
	GetByID(ctx context.Context, id string) (*models.Table, error)
	GetByName(ctx context.Context, name string) (*models.Table, error)
	List(ctx context.Context) ([]models.Table, error)
	Delete(ctx context.Context, id string) error
}
