package gormstore

import (
	"context"
	"strings"

	"github.com/Jaypurnwasi/RestaurantApp/models"
	"github.com/Jaypurnwasi/RestaurantApp/store"
)

type categoryRepo struct{ s *Store }

func (r categoryRepo) Create(ctx context.Context, c *models.Category) error {
	db, cancel := r.s.conn(ctx)
	defer cancel()
	if c.ID == "" {
		c.ID = models.NewID()
	}
	return translate(db.Create(c).Error, "create category")
}

func (r categoryRepo) GetByID(ctx context.Context, id string) (*models.Category, error) {
	db, cancel := r.s.conn(ctx)
	defer cancel()
	var c models.Category
	if err := db.Where("id = ?", id).First(&c).Error; err != nil {
		return nil, translate(err, "get category")
	}
	return &c, nil
}

func (r categoryRepo) GetByName(ctx context.Context, name string) (*models.Category, error) {
	db, cancel := r.s.conn(ctx)
	defer cancel()
	var c models.Category
	if err := db.Where("LOWER(name) = ?", strings.ToLower(name)).First(&c).Error; err != nil {
		return nil, translate(err, "get category by name")
	}
	return &c, nil
}

func (r categoryRepo) Update(ctx context.Context, c *models.Category) error {
	db, cancel := r.s.conn(ctx)
	defer cancel()
	return affected(db.Model(&models.Category{}).Where("id = ?", c.ID).Update("name", c.Name), "update category")
}

func (r categoryRepo) Delete(ctx context.Context, id string) error {
	db, cancel := r.s.conn(ctx)
	defer cancel()
	return affected(db.Where("id = ?", id).Delete(&models.Category{}), "delete category")
}

func (r categoryRepo) List(ctx context.Context) ([]models.Category, error) {
	db, cancel := r.s.conn(ctx)
	defer cancel()
	var out []models.Category
	err := db.Order("name").Find(&out).Error
	return out, translate(err, "list categories")
}

type menuItemRepo struct{ s *Store }

func (r menuItemRepo) Create(ctx context.Context, m *models.MenuItem) error {
	db, cancel := r.s.conn(ctx)
	defer cancel()
	if m.ID == "" {
		m.ID = models.NewID()
	}
	return translate(db.Create(m).Error, "create menu item")
}

func (r menuItemRepo) GetByID(ctx context.Context, id string) (*models.MenuItem, error) {
	db, cancel := r.s.conn(ctx)
	defer cancel()
	var m models.MenuItem
	if err := db.Where("id = ?", id).First(&m).Error; err != nil {
		return nil, translate(err, "get menu item")
	}
	return &m, nil
}

func (r menuItemRepo) GetByIDs(ctx context.Context, ids []string) ([]models.MenuItem, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	db, cancel := r.s.conn(ctx)
	defer cancel()
	var out []models.MenuItem
	err := db.Where("id IN ?", ids).Find(&out).Error
	return out, translate(err, "get menu items")
}

func (r menuItemRepo) Update(ctx context.Context, m *models.MenuItem) error {
	db, cancel := r.s.conn(ctx)
	defer cancel()
	return affected(db.Model(&models.MenuItem{}).Where("id = ?", m.ID).Updates(map[string]interface{}{
		"name":        m.Name,
		"description": m.Description,
		"image":       m.Image,
		"price":       m.Price,
		"is_veg":      m.IsVeg,
		"category_id": m.CategoryID,
		"is_active":   m.IsActive,
	}), "update menu item")
}

// likeEscaper quotes LIKE wildcards. '!' works as the escape character on
// sqlite, postgres and mysql alike, where a backslash does not.
var likeEscaper = strings.NewReplacer("!", "!!", "%", "!%", "_", "!_")

func (r menuItemRepo) List(ctx context.Context, f store.MenuFilter) ([]models.MenuItem, error) {
	db, cancel := r.s.conn(ctx)
	defer cancel()

	q := db.Model(&models.MenuItem{})
	if f.ActiveOnly {
		q = q.Where("is_active = ?", true)
	}
	if f.IsVeg != nil {
		q = q.Where("is_veg = ?", *f.IsVeg)
	}
	if f.CategoryID != "" {
		q = q.Where("category_id = ?", f.CategoryID)
	}
	if f.NameContains != "" {
		q = q.Where("LOWER(name) LIKE ? ESCAPE '!'", "%"+likeEscaper.Replace(strings.ToLower(f.NameContains))+"%")
	}

	var out []models.MenuItem
	err := q.Order("created_at").Find(&out).Error
	return out, translate(err, "list menu items")
}

func (r menuItemRepo) ActiveNameTaken(ctx context.Context, categoryID, name, excludeID string) (bool, error) {
	db, cancel := r.s.conn(ctx)
	defer cancel()
	q := db.Model(&models.MenuItem{}).
		Where("category_id = ? AND is_active = ? AND LOWER(name) = ?", categoryID, true, strings.ToLower(name))
	if excludeID != "" {
		q = q.Where("id <> ?", excludeID)
	}
	var n int64
	if err := q.Count(&n).Error; err != nil {
		return false, translate(err, "check menu item name")
	}
	return n > 0, nil
}

func (r menuItemRepo) CountByCategory(ctx context.Context, categoryID string) (int64, error) {
	db, cancel := r.s.conn(ctx)
	defer cancel()
	var n int64
	err := db.Model(&models.MenuItem{}).Where("category_id = ?", categoryID).Count(&n).Error
	return n, translate(err, "count menu items")
}

type tableRepo struct{ s *Store }

func (r tableRepo) Create(ctx context.Context, t *models.Table) error {
	db, cancel := r.s.conn(ctx)
	defer cancel()
	if t.ID == "" {
		t.ID = models.NewID()
	}
	return translate(db.Create(t).Error, "create table")
}

func (r tableRepo) GetByID(ctx context.Context, id string) (*models.Table, error) {
	db, cancel := r.s.conn(ctx)
	defer cancel()
	var t models.Table
	if err := db.Where("id = ?", id).First(&t).Error; err != nil {
		return nil, translate(err, "get table")
	}
	return &t, nil
}

func (r tableRepo) GetByName(ctx context.Context, name string) (*models.Table, error) {
	db, cancel := r.s.conn(ctx)
	defer cancel()
	var t models.Table
	if err := db.Where("LOWER(name) = ?", strings.ToLower(name)).First(&t).Error; err != nil {
		return nil, translate(err, "get table by name")
	}
	return &t, nil
}

func (r tableRepo) List(ctx context.Context) ([]models.Table, error) {
	db, cancel := r.s.conn(ctx)
	defer cancel()
	var out []models.Table
	err := db.Order("name").Find(&out).Error
	return out, translate(err, "list tables")
}

func (r tableRepo) Delete(ctx context.Context, id string) error {
	db, cancel := r.s.conn(ctx)
	defer cancel()
	return affected(db.Where("id = ?", id).Delete(&models.Table{}), "delete table")
}
