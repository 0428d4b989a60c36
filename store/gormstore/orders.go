package gormstore

import (
	"context"

	"gorm.io/gorm"

	"github.com/Jaypurnwasi/RestaurantApp/models"
	"github.com/Jaypurnwasi/RestaurantApp/store"
)

type cartRepo struct{ s *Store }

func (r cartRepo) GetByUser(ctx context.Context, userID string) (*models.Cart, error) {
	db, cancel := r.s.conn(ctx)
	defer cancel()
	var c models.Cart
	err := db.Preload("Items", func(db *gorm.DB) *gorm.DB { return db.Order("id") }).
		Where("user_id = ?", userID).First(&c).Error
	if err != nil {
		return nil, translate(err, "get cart")
	}
	return &c, nil
}

// Save writes the cart row then replaces its lines
func (r cartRepo) Save(ctx context.Context, c *models.Cart) error {
	db, cancel := r.s.conn(ctx)
	defer cancel()

	err := db.Transaction(func(tx *gorm.DB) error {
		if c.ID == "" {
			c.ID = models.NewID()
			if err := tx.Omit("Items").Create(c).Error; err != nil {
				return err
			}
		} else if err := tx.Omit("Items").Save(c).Error; err != nil {
			return err
		}

		if err := tx.Where("cart_id = ?", c.ID).Delete(&models.CartItem{}).Error; err != nil {
			return err
		}
		if len(c.Items) == 0 {
			return nil
		}
		for i := range c.Items {
			c.Items[i].ID = 0
			c.Items[i].CartID = c.ID
		}
		return tx.Create(&c.Items).Error
	})
	return translate(err, "save cart")
}

func (r cartRepo) DeleteByUser(ctx context.Context, userID string) error {
	db, cancel := r.s.conn(ctx)
	defer cancel()

	err := db.Transaction(func(tx *gorm.DB) error {
		var c models.Cart
		if err := tx.Where("user_id = ?", userID).First(&c).Error; err != nil {
			return err
		}
		if err := tx.Where("cart_id = ?", c.ID).Delete(&models.CartItem{}).Error; err != nil {
			return err
		}
		return tx.Delete(&c).Error
	})
	return translate(err, "delete cart")
}

type orderRepo struct{ s *Store }

func (r orderRepo) Create(ctx context.Context, o *models.Order) error {
	db, cancel := r.s.conn(ctx)
	defer cancel()
	if o.ID == "" {
		o.ID = models.NewID()
	}
	return translate(db.Create(o).Error, "create order")
}

func (r orderRepo) GetByID(ctx context.Context, id string) (*models.Order, error) {
	db, cancel := r.s.conn(ctx)
	defer cancel()
	var o models.Order
	err := db.Preload("Items", func(db *gorm.DB) *gorm.DB { return db.Order("id") }).
		Where("id = ?", id).First(&o).Error
	if err != nil {
		return nil, translate(err, "get order")
	}
	return &o, nil
}

func (r orderRepo) UpdateStatus(ctx context.Context, id string, status models.OrderStatus) error {
	db, cancel := r.s.conn(ctx)
	defer cancel()
	return affected(db.Model(&models.Order{}).Where("id = ?", id).Update("status", status), "update order status")
}

func (r orderRepo) List(ctx context.Context, f store.OrderFilter) ([]models.Order, error) {
	db, cancel := r.s.conn(ctx)
	defer cancel()

	q := db.Preload("Items", func(db *gorm.DB) *gorm.DB { return db.Order("id") })
	if f.Status != nil {
		q = q.Where("status = ?", *f.Status)
	}
	if f.TableID != "" {
		q = q.Where("table_id = ?", f.TableID)
	}
	if f.CustomerID != "" {
		q = q.Where("customer_id = ?", f.CustomerID)
	}

	var out []models.Order
	err := q.Order("created_at DESC, id DESC").Find(&out).Error
	return out, translate(err, "list orders")
}

func (r orderRepo) CountByTable(ctx context.Context, tableID string) (int64, error) {
	db, cancel := r.s.conn(ctx)
	defer cancel()
	var n int64
	err := db.Model(&models.Order{}).Where("table_id = ?", tableID).Count(&n).Error
	return n, translate(err, "count orders")
}

func (r orderRepo) AddHistory(ctx context.Context, h *models.OrderStatusHistory) error {
	db, cancel := r.s.conn(ctx)
	defer cancel()
	if h.ID == "" {
		h.ID = models.NewID()
	}
	return translate(db.Create(h).Error, "add order history")
}

func (r orderRepo) History(ctx context.Context, orderID string) ([]models.OrderStatusHistory, error) {
	db, cancel := r.s.conn(ctx)
	defer cancel()
	var out []models.OrderStatusHistory
	err := db.Where("order_id = ?", orderID).Order("created_at, id").Find(&out).Error
	return out, translate(err, "order history")
}

type transactionRepo struct{ s *Store }

func (r transactionRepo) Create(ctx context.Context, t *models.Transaction) error {
	db, cancel := r.s.conn(ctx)
	defer cancel()
	if t.ID == "" {
		t.ID = models.NewID()
	}
	return translate(db.Create(t).Error, "create transaction")
}

func (r transactionRepo) GetByOrder(ctx context.Context, orderID string) (*models.Transaction, error) {
	db, cancel := r.s.conn(ctx)
	defer cancel()
	var t models.Transaction
	if err := db.Where("order_id = ?", orderID).First(&t).Error; err != nil {
		return nil, translate(err, "get transaction")
	}
	return &t, nil
}
