// Package gormstore implements store.Store on gorm. SQLite is the default
// dialect; postgres and mysql are selected by driver name.
package gormstore

import (
	"context"
	"strings"

	"github.com/glebarez/sqlite"
	"github.com/pkg/errors"
	"gorm.io/driver/mysql"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/Jaypurnwasi/RestaurantApp/models"
	"github.com/Jaypurnwasi/RestaurantApp/store"
)

type Store struct {
	db *gorm.DB
}

var _ store.Store = (*Store)(nil)

// Open connects using the named driver ("sqlite", "postgres" or "mysql") and migrates the schema
func Open(driver, dsn string, level gormlogger.LogLevel) (*Store, error) {
	var dialector gorm.Dialector
	switch driver {
	case "", "sqlite":
		dialector = sqlite.Open(dsn)
	case "postgres":
		dialector = postgres.Open(dsn)
	case "mysql":
		dialector = mysql.Open(dsn)
	default:
		return nil, errors.Errorf("unsupported sql driver %q", driver)
	}

	db, err := gorm.Open(dialector, &gorm.Config{
		Logger:         gormlogger.Default.LogMode(level),
		TranslateError: true,
	})
	if err != nil {
		return nil, errors.Wrap(err, "open database")
	}

	if driver == "" || driver == "sqlite" {
		// a single connection keeps :memory: databases alive and avoids SQLITE_BUSY
		sqlDB, err := db.DB()
		if err != nil {
			return nil, errors.Wrap(err, "sqlite pool")
		}
		sqlDB.SetMaxOpenConns(1)
	}

	s := &Store{db: db}
	if err := s.Migrate(); err != nil {
		return nil, err
	}
	return s, nil
}

// Migrate creates or updates every table
func (s *Store) Migrate() error {
	err := s.db.AutoMigrate(
		&models.User{},
		&models.Category{},
		&models.MenuItem{},
		&models.Table{},
		&models.Cart{},
		&models.CartItem{},
		&models.Order{},
		&models.OrderItem{},
		&models.OrderStatusHistory{},
		&models.Transaction{},
	)
	return errors.Wrap(err, "migrate")
}

func (s *Store) Users() store.UserRepository               { return userRepo{s} }
func (s *Store) Categories() store.CategoryRepository      { return categoryRepo{s} }
func (s *Store) MenuItems() store.MenuItemRepository       { return menuItemRepo{s} }
func (s *Store) Carts() store.CartRepository               { return cartRepo{s} }
func (s *Store) Orders() store.OrderRepository             { return orderRepo{s} }
func (s *Store) Transactions() store.TransactionRepository { return transactionRepo{s} }
func (s *Store) Tables() store.TableRepository             { return tableRepo{s} }

func (s *Store) Atomic(ctx context.Context, fn func(tx store.Store) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&Store{db: tx})
	})
}

func (s *Store) Ping(ctx context.Context) error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	ctx, cancel := context.WithTimeout(ctx, store.OpTimeout)
	defer cancel()
	return sqlDB.PingContext(ctx)
}

func (s *Store) Close(context.Context) error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// conn returns a session bound to ctx with the per-call timeout applied
func (s *Store) conn(ctx context.Context) (*gorm.DB, context.CancelFunc) {
	ctx, cancel := context.WithTimeout(ctx, store.OpTimeout)
	return s.db.WithContext(ctx), cancel
}

// translate maps gorm errors onto the store sentinels and wraps the rest
func translate(err error, op string) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		return errors.Wrap(store.ErrNotFound, op)
	case errors.Is(err, gorm.ErrDuplicatedKey), isUniqueViolation(err):
		return errors.Wrap(store.ErrDuplicate, op)
	}
	return errors.Wrap(err, op)
}

func isUniqueViolation(err error) bool {
	msg := err.Error()
	return strings.Contains(msg, "UNIQUE constraint failed") ||
		strings.Contains(msg, "duplicate key") ||
		strings.Contains(msg, "Duplicate entry")
}

func affected(res *gorm.DB, op string) error {
	if res.Error != nil {
		return translate(res.Error, op)
	}
	if res.RowsAffected == 0 {
		return errors.Wrap(store.ErrNotFound, op)
	}
	return nil
}
