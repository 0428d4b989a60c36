// Package services holds the restaurant's business operations. Every method
// takes the caller identity from ctx and returns *apperr.Error values for
// anything the client should see.
package services

import (
	"context"
	"errors"

	"github.com/Jaypurnwasi/RestaurantApp/apperr"
	"github.com/Jaypurnwasi/RestaurantApp/auth"
	"github.com/Jaypurnwasi/RestaurantApp/logger"
	"github.com/Jaypurnwasi/RestaurantApp/mailer"
	"github.com/Jaypurnwasi/RestaurantApp/otp"
	"github.com/Jaypurnwasi/RestaurantApp/pubsub"
	"github.com/Jaypurnwasi/RestaurantApp/store"
)

type Deps struct {
	Store  store.Store
	Broker *pubsub.Broker
	Tokens *auth.Tokens
	OTP    *otp.Store
	Mailer mailer.Mailer
	Log    *logger.Logger
}

type Services struct {
	Auth       *AuthService
	Users      *UserService
	Categories *CategoryService
	Menu       *MenuService
	Cart       *CartService
	Orders     *OrderService
	Tables     *TableService
}

func New(d Deps) *Services {
	return &Services{
		Auth:       NewAuthService(d.Store, d.Tokens, d.OTP, d.Mailer, d.Log),
		Users:      NewUserService(d.Store, d.Tokens, d.Log),
		Categories: NewCategoryService(d.Store, d.Log),
		Menu:       NewMenuService(d.Store, d.Broker, d.Log),
		Cart:       NewCartService(d.Store, d.Log),
		Orders:     NewOrderService(d.Store, d.Broker, d.Log),
		Tables:     NewTableService(d.Store, d.Log),
	}
}

type base struct {
	store store.Store
	log   *logger.Logger
}

func newBase(s store.Store, log *logger.Logger, component string) base {
	return base{store: s, log: log.WithComponent(component)}
}

// fail logs a store failure and hides it behind INTERNAL_SERVER_ERROR
func (b base) fail(op string, err error) error {
	b.log.Error(op+" failed", "error", err)
	return apperr.Internal(err)
}

// reject logs a refused request at Warn and returns e
func (b base) reject(e *apperr.Error, args ...any) error {
	b.log.Warn(e.Message, args...)
	return e
}

func isNotFound(err error) bool {
	return errors.Is(err, store.ErrNotFound)
}

func isDuplicate(err error) bool {
	return errors.Is(err, store.ErrDuplicate)
}

// passthrough returns err unchanged when it is already an *apperr.Error
func (b base) passthrough(op string, err error) error {
	var e *apperr.Error
	if errors.As(err, &e) {
		b.log.Warn(e.Message, "op", op)
		return e
	}
	return b.fail(op, err)
}

func caller(ctx context.Context) (*auth.Identity, bool) {
	return auth.FromContext(ctx)
}
