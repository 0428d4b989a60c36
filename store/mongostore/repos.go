package mongostore

import (
	"context"
	"regexp"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/Jaypurnwasi/RestaurantApp/models"
	"github.com/Jaypurnwasi/RestaurantApp/store"
)

// exactFold matches s exactly, ignoring case
func exactFold(s string) primitive.Regex {
	return primitive.Regex{Pattern: "^" + regexp.QuoteMeta(s) + "$", Options: "i"}
}

func findOne[T any](ctx context.Context, s *Store, col string, filter bson.M, op string) (*T, error) {
	ctx, cancel := s.opCtx(ctx)
	defer cancel()
	var out T
	if err := s.col(col).FindOne(ctx, filter).Decode(&out); err != nil {
		return nil, translate(err, op)
	}
	return &out, nil
}

func findAll[T any](ctx context.Context, s *Store, col string, filter bson.M, opts *options.FindOptions, op string) ([]T, error) {
	ctx, cancel := s.opCtx(ctx)
	defer cancel()
	cur, err := s.col(col).Find(ctx, filter, opts)
	if err != nil {
		return nil, translate(err, op)
	}
	var out []T
	if err := cur.All(ctx, &out); err != nil {
		return nil, translate(err, op)
	}
	return out, nil
}

func insert(ctx context.Context, s *Store, col string, doc interface{}, op string) error {
	ctx, cancel := s.opCtx(ctx)
	defer cancel()
	_, err := s.col(col).InsertOne(ctx, doc)
	return translate(err, op)
}

func count(ctx context.Context, s *Store, col string, filter bson.M, op string) (int64, error) {
	ctx, cancel := s.opCtx(ctx)
	defer cancel()
	n, err := s.col(col).CountDocuments(ctx, filter)
	return n, translate(err, op)
}

func updateByID(ctx context.Context, s *Store, col, id string, set bson.M, op string) error {
	ctx, cancel := s.opCtx(ctx)
	defer cancel()
	set["updatedAt"] = time.Now().UTC()
	res, err := s.col(col).UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": set})
	return matched(res, err, op)
}

func deleteByID(ctx context.Context, s *Store, col, id string, op string) error {
	ctx, cancel := s.opCtx(ctx)
	defer cancel()
	res, err := s.col(col).DeleteOne(ctx, bson.M{"_id": id})
	return deleted(res, err, op)
}

type userRepo struct{ s *Store }

func (r userRepo) Create(ctx context.Context, u *models.User) error {
	if u.ID == "" {
		u.ID = models.NewID()
	}
	stamp(&u.CreatedAt, &u.UpdatedAt)
	return insert(ctx, r.s, colUsers, u, "create user")
}

func (r userRepo) GetByID(ctx context.Context, id string) (*models.User, error) {
	return findOne[models.User](ctx, r.s, colUsers, bson.M{"_id": id}, "get user")
}

func (r userRepo) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	return findOne[models.User](ctx, r.s, colUsers, bson.M{"email": email}, "get user by email")
}

func (r userRepo) Update(ctx context.Context, u *models.User) error {
	return updateByID(ctx, r.s, colUsers, u.ID, bson.M{
		"name":         u.Name,
		"email":        u.Email,
		"password":     u.PasswordHash,
		"profileImage": u.ProfileImage,
		"role":         u.Role,
	}, "update user")
}

func (r userRepo) Delete(ctx context.Context, id string) error {
	return deleteByID(ctx, r.s, colUsers, id, "delete user")
}

func (r userRepo) ListByRoles(ctx context.Context, roles ...models.UserRole) ([]models.User, error) {
	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: 1}})
	return findAll[models.User](ctx, r.s, colUsers, bson.M{"role": bson.M{"$in": roles}}, opts, "list users")
}

func (r userRepo) CountByRole(ctx context.Context, role models.UserRole) (int64, error) {
	return count(ctx, r.s, colUsers, bson.M{"role": role}, "count users")
}

type categoryRepo struct{ s *Store }

func (r categoryRepo) Create(ctx context.Context, c *models.Category) error {
	if c.ID == "" {
		c.ID = models.NewID()
	}
	stamp(&c.CreatedAt, &c.UpdatedAt)
	return insert(ctx, r.s, colCategories, c, "create category")
}

func (r categoryRepo) GetByID(ctx context.Context, id string) (*models.Category, error) {
	return findOne[models.Category](ctx, r.s, colCategories, bson.M{"_id": id}, "get category")
}

func (r categoryRepo) GetByName(ctx context.Context, name string) (*models.Category, error) {
	return findOne[models.Category](ctx, r.s, colCategories, bson.M{"name": exactFold(name)}, "get category by name")
}

func (r categoryRepo) Update(ctx context.Context, c *models.Category) error {
	return updateByID(ctx, r.s, colCategories, c.ID, bson.M{"name": c.Name}, "update category")
}

func (r categoryRepo) Delete(ctx context.Context, id string) error {
	return deleteByID(ctx, r.s, colCategories, id, "delete category")
}

func (r categoryRepo) List(ctx context.Context) ([]models.Category, error) {
	opts := options.Find().SetSort(bson.D{{Key: "name", Value: 1}})
	return findAll[models.Category](ctx, r.s, colCategories, bson.M{}, opts, "list categories")
}

type menuItemRepo struct{ s *Store }

func (r menuItemRepo) Create(ctx context.Context, m *models.MenuItem) error {
	if m.ID == "" {
		m.ID = models.NewID()
	}
	stamp(&m.CreatedAt, &m.UpdatedAt)
	return insert(ctx, r.s, colMenuItems, m, "create menu item")
}

func (r menuItemRepo) GetByID(ctx context.Context, id string) (*models.MenuItem, error) {
	return findOne[models.MenuItem](ctx, r.s, colMenuItems, bson.M{"_id": id}, "get menu item")
}

func (r menuItemRepo) GetByIDs(ctx context.Context, ids []string) ([]models.MenuItem, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	return findAll[models.MenuItem](ctx, r.s, colMenuItems, bson.M{"_id": bson.M{"$in": ids}}, nil, "get menu items")
}

func (r menuItemRepo) Update(ctx context.Context, m *models.MenuItem) error {
	return updateByID(ctx, r.s, colMenuItems, m.ID, bson.M{
		"name":        m.Name,
		"description": m.Description,
		"image":       m.Image,
		"price":       m.Price,
		"isVeg":       m.IsVeg,
		"categoryId":  m.CategoryID,
		"isActive":    m.IsActive,
	}, "update menu item")
}

func (r menuItemRepo) List(ctx context.Context, f store.MenuFilter) ([]models.MenuItem, error) {
	filter := bson.M{}
	if f.ActiveOnly {
		filter["isActive"] = true
	}
	if f.IsVeg != nil {
		filter["isVeg"] = *f.IsVeg
	}
	if f.CategoryID != "" {
		filter["categoryId"] = f.CategoryID
	}
	if f.NameContains != "" {
		filter["name"] = primitive.Regex{Pattern: regexp.QuoteMeta(f.NameContains), Options: "i"}
	}
	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: 1}})
	return findAll[models.MenuItem](ctx, r.s, colMenuItems, filter, opts, "list menu items")
}

func (r menuItemRepo) ActiveNameTaken(ctx context.Context, categoryID, name, excludeID string) (bool, error) {
	filter := bson.M{"categoryId": categoryID, "isActive": true, "name": exactFold(name)}
	if excludeID != "" {
		filter["_id"] = bson.M{"$ne": excludeID}
	}
	n, err := count(ctx, r.s, colMenuItems, filter, "check menu item name")
	return n > 0, err
}

func (r menuItemRepo) CountByCategory(ctx context.Context, categoryID string) (int64, error) {
	return count(ctx, r.s, colMenuItems, bson.M{"categoryId": categoryID}, "count menu items")
}

type cartRepo struct{ s *Store }

func (r cartRepo) GetByUser(ctx context.Context, userID string) (*models.Cart, error) {
	return findOne[models.Cart](ctx, r.s, colCarts, bson.M{"userId": userID}, "get cart")
}

func (r cartRepo) Save(ctx context.Context, c *models.Cart) error {
	if c.ID == "" {
		c.ID = models.NewID()
	}
	stamp(&c.CreatedAt, &c.UpdatedAt)
	if c.Items == nil {
		c.Items = []models.CartItem{}
	}
	ctx, cancel := r.s.opCtx(ctx)
	defer cancel()
	_, err := r.s.col(colCarts).ReplaceOne(ctx, bson.M{"_id": c.ID}, c, options.Replace().SetUpsert(true))
	return translate(err, "save cart")
}

func (r cartRepo) DeleteByUser(ctx context.Context, userID string) error {
	ctx, cancel := r.s.opCtx(ctx)
	defer cancel()
	res, err := r.s.col(colCarts).DeleteOne(ctx, bson.M{"userId": userID})
	return deleted(res, err, "delete cart")
}

type orderRepo struct{ s *Store }

func (r orderRepo) Create(ctx context.Context, o *models.Order) error {
	if o.ID == "" {
		o.ID = models.NewID()
	}
	stamp(&o.CreatedAt, &o.UpdatedAt)
	return insert(ctx, r.s, colOrders, o, "create order")
}

func (r orderRepo) GetByID(ctx context.Context, id string) (*models.Order, error) {
	return findOne[models.Order](ctx, r.s, colOrders, bson.M{"_id": id}, "get order")
}

func (r orderRepo) UpdateStatus(ctx context.Context, id string, status models.OrderStatus) error {
	return updateByID(ctx, r.s, colOrders, id, bson.M{"status": status}, "update order status")
}

func (r orderRepo) List(ctx context.Context, f store.OrderFilter) ([]models.Order, error) {
	filter := bson.M{}
	if f.Status != nil {
		filter["status"] = *f.Status
	}
	if f.TableID != "" {
		filter["tableId"] = f.TableID
	}
	if f.CustomerID != "" {
		filter["customerId"] = f.CustomerID
	}
	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}, {Key: "_id", Value: -1}})
	return findAll[models.Order](ctx, r.s, colOrders, filter, opts, "list orders")
}

func (r orderRepo) CountByTable(ctx context.Context, tableID string) (int64, error) {
	return count(ctx, r.s, colOrders, bson.M{"tableId": tableID}, "count orders")
}

func (r orderRepo) AddHistory(ctx context.Context, h *models.OrderStatusHistory) error {
	if h.ID == "" {
		h.ID = models.NewID()
	}
	stamp(&h.CreatedAt, nil)
	return insert(ctx, r.s, colOrderHistory, h, "add order history")
}

func (r orderRepo) History(ctx context.Context, orderID string) ([]models.OrderStatusHistory, error) {
	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: 1}, {Key: "_id", Value: 1}})
	return findAll[models.OrderStatusHistory](ctx, r.s, colOrderHistory, bson.M{"orderId": orderID}, opts, "order history")
}

type transactionRepo struct{ s *Store }

func (r transactionRepo) Create(ctx context.Context, t *models.Transaction) error {
	if t.ID == "" {
		t.ID = models.NewID()
	}
	stamp(&t.CreatedAt, &t.UpdatedAt)
	return insert(ctx, r.s, colTransactions, t, "create transaction")
}

func (r transactionRepo) GetByOrder(ctx context.Context, orderID string) (*models.Transaction, error) {
	return findOne[models.Transaction](ctx, r.s, colTransactions, bson.M{"orderId": orderID}, "get transaction")
}

type tableRepo struct{ s *Store }

func (r tableRepo) Create(ctx context.Context, t *models.Table) error {
	if t.ID == "" {
		t.ID = models.NewID()
	}
	stamp(&t.CreatedAt, &t.UpdatedAt)
	return insert(ctx, r.s, colTables, t, "create table")
}

func (r tableRepo) GetByID(ctx context.Context, id string) (*models.Table, error) {
	return findOne[models.Table](ctx, r.s, colTables, bson.M{"_id": id}, "get table")
}

func (r tableRepo) GetByName(ctx context.Context, name string) (*models.Table, error) {
	return findOne[models.Table](ctx, r.s, colTables, bson.M{"name": exactFold(name)}, "get table by name")
}

func (r tableRepo) List(ctx context.Context) ([]models.Table, error) {
	opts := options.Find().SetSort(bson.D{{Key: "name", Value: 1}})
	return findAll[models.Table](ctx, r.s, colTables, bson.M{}, opts, "list tables")
}

func (r tableRepo) Delete(ctx context.Context, id string) error {
	return deleteByID(ctx, r.s, colTables, id, "delete table")
}

