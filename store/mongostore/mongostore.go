// Package mongostore implements store.Store on MongoDB. Documents use the
// application's hex ids as _id so records move between backends unchanged.
package mongostore

import (
	"context"
	"time"

	"github.com/pkg/errors"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/Jaypurnwasi/RestaurantApp/store"
)

const (
	colUsers        = "users"
	colCategories   = "categories"
	colMenuItems    = "menuitems"
	colCarts        = "carts"
	colOrders       = "orders"
	colOrderHistory = "orderhistory"
	colTransactions = "transactions"
	colTables       = "tables"
)

type Store struct {
	client *mongo.Client
	db     *mongo.Database
	// transactions needs a replica set; standalone servers run Atomic sequentially
	transactions bool
	// ctx carries the session context while inside Atomic
	sessCtx mongo.SessionContext
}

var _ store.Store = (*Store)(nil)

// Open connects, pings and ensures indexes
func Open(ctx context.Context, uri, database string, transactions bool) (*Store, error) {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, errors.Wrap(err, "mongo connect")
	}
	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, errors.Wrap(err, "mongo ping")
	}

	s := &Store{client: client, db: client.Database(database), transactions: transactions}
	if err := s.EnsureIndexes(ctx); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, err
	}
	return s, nil
}

// EnsureIndexes creates the unique and lookup indexes the repositories rely on
func (s *Store) EnsureIndexes(ctx context.Context) error {
	unique := options.Index().SetUnique(true)
	specs := map[string][]mongo.IndexModel{
		colUsers: {
			{Keys: bson.D{{Key: "email", Value: 1}}, Options: unique},
			{Keys: bson.D{{Key: "role", Value: 1}}},
		},
		colCategories: {{Keys: bson.D{{Key: "name", Value: 1}}, Options: unique}},
		colMenuItems: {
			{Keys: bson.D{{Key: "categoryId", Value: 1}, {Key: "isActive", Value: 1}}},
		},
		colCarts: {{Keys: bson.D{{Key: "userId", Value: 1}}, Options: unique}},
		colOrders: {
			{Keys: bson.D{{Key: "customerId", Value: 1}}},
			{Keys: bson.D{{Key: "tableId", Value: 1}}},
			{Keys: bson.D{{Key: "createdAt", Value: -1}}},
		},
		colOrderHistory: {{Keys: bson.D{{Key: "orderId", Value: 1}, {Key: "createdAt", Value: 1}}}},
		colTransactions: {{Keys: bson.D{{Key: "orderId", Value: 1}}, Options: unique}},
		colTables:       {{Keys: bson.D{{Key: "name", Value: 1}}, Options: unique}},
	}
	for col, idx := range specs {
		if _, err := s.db.Collection(col).Indexes().CreateMany(ctx, idx); err != nil {
			return errors.Wrapf(err, "create indexes on %s", col)
		}
	}
	return nil
}

func (s *Store) Users() store.UserRepository               { return userRepo{s} }
func (s *Store) Categories() store.CategoryRepository      { return categoryRepo{s} }
func (s *Store) MenuItems() store.MenuItemRepository       { return menuItemRepo{s} }
func (s *Store) Carts() store.CartRepository               { return cartRepo{s} }
func (s *Store) Orders() store.OrderRepository             { return orderRepo{s} }
func (s *Store) Transactions() store.TransactionRepository { return transactionRepo{s} }
func (s *Store) Tables() store.TableRepository             { return tableRepo{s} }

func (s *Store) Atomic(ctx context.Context, fn func(tx store.Store) error) error {
	if !s.transactions || s.sessCtx != nil {
		return fn(s)
	}
	sess, err := s.client.StartSession()
	if err != nil {
		return errors.Wrap(err, "start session")
	}
	defer sess.EndSession(context.Background())

	_, err = sess.WithTransaction(ctx, func(sc mongo.SessionContext) (interface{}, error) {
		tx := &Store{client: s.client, db: s.db, transactions: true, sessCtx: sc}
		return nil, fn(tx)
	})
	return err
}

func (s *Store) Ping(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, store.OpTimeout)
	defer cancel()
	return s.client.Ping(ctx, nil)
}

func (s *Store) Close(ctx context.Context) error {
	if s.sessCtx != nil {
		return nil
	}
	return s.client.Disconnect(ctx)
}

func (s *Store) col(name string) *mongo.Collection {
	return s.db.Collection(name)
}

// opCtx applies the per-call timeout and, inside Atomic, binds the call to the session
func (s *Store) opCtx(ctx context.Context) (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithTimeout(ctx, store.OpTimeout)
	if s.sessCtx != nil {
		return mongo.NewSessionContext(ctx, s.sessCtx), cancel
	}
	return ctx, cancel
}

func translate(err error, op string) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, mongo.ErrNoDocuments):
		return errors.Wrap(store.ErrNotFound, op)
	case mongo.IsDuplicateKeyError(err):
		return errors.Wrap(store.ErrDuplicate, op)
	}
	return errors.Wrap(err, op)
}

func matched(res *mongo.UpdateResult, err error, op string) error {
	if err != nil {
		return translate(err, op)
	}
	if res.MatchedCount == 0 {
		return errors.Wrap(store.ErrNotFound, op)
	}
	return nil
}

func deleted(res *mongo.DeleteResult, err error, op string) error {
	if err != nil {
		return translate(err, op)
	}
	if res.DeletedCount == 0 {
		return errors.Wrap(store.ErrNotFound, op)
	}
	return nil
}

func stamp(created *time.Time, updated *time.Time) {
	now := time.Now().UTC()
	if created != nil && created.IsZero() {
		*created = now
	}
	if updated != nil {
		*updated = now
	}
}
