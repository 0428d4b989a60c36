package services

import (
	"context"
	"strings"

	"github.com/Jaypurnwasi/RestaurantApp/apperr"
	"github.com/Jaypurnwasi/RestaurantApp/auth"
	"github.com/Jaypurnwasi/RestaurantApp/logger"
	"github.com/Jaypurnwasi/RestaurantApp/models"
	"github.com/Jaypurnwasi/RestaurantApp/pubsub"
	"github.com/Jaypurnwasi/RestaurantApp/store"
)

// menuFields carries the editable attributes of a menu item and their rules
type menuFields struct {
	Name        string  `json:"name" validate:"required,min=3,max=50"`
	Description string  `json:"description" validate:"required,min=3,max=150"`
	Image       string  `json:"image" validate:"required,imageurl"`
	Price       float64 `json:"price" validate:"gt=0"`
	IsVeg       bool    `json:"isVeg"`
	CategoryID  string  `json:"categoryId" validate:"required,objectid"`
}

type AddMenuItemInput struct {
	Name        string
	Description string
	Image       string
	Price       float64
	IsVeg       bool
	CategoryID  string
}

type UpdateMenuItemInput struct {
	ID          string
	Name        *string
	Description *string
	Image       *string
	Price       *float64
	IsVeg       *bool
	CategoryID  *string
}

type MenuQuery struct {
	Name       string
	IsVeg      *bool
	CategoryID string
}

// ExportRow is one line of the menu spreadsheet
type ExportRow struct {
	Item         models.MenuItem
	CategoryName string
}

type MenuService struct {
	base
	broker *pubsub.Broker
}

func NewMenuService(s store.Store, broker *pubsub.Broker, log *logger.Logger) *MenuService {
	return &MenuService{base: newBase(s, log, "menu_service"), broker: broker}
}

// List returns active items, optionally narrowed by veg flag and category
func (s *MenuService) List(ctx context.Context, q MenuQuery) ([]models.MenuItem, error) {
	if q.CategoryID != "" && !models.ValidID(q.CategoryID) {
		return nil, s.reject(apperr.BadRequest("Invalid category ID"))
	}
	items, err := s.store.MenuItems().List(ctx, store.MenuFilter{
		ActiveOnly:   true,
		IsVeg:        q.IsVeg,
		CategoryID:   q.CategoryID,
		NameContains: strings.TrimSpace(q.Name),
	})
	if err != nil {
		return nil, s.fail("list menu items", err)
	}
	return items, nil
}

func (s *MenuService) Search(ctx context.Context, q MenuQuery) ([]models.MenuItem, error) {
	if strings.TrimSpace(q.Name) == "" {
		return nil, s.reject(apperr.BadRequest("Search name is required"))
	}
	return s.List(ctx, q)
}

func (s *MenuService) Get(ctx context.Context, id string) (*models.MenuItem, error) {
	if !models.ValidID(id) {
		return nil, s.reject(apperr.BadRequest("Invalid menu item ID"))
	}
	m, err := s.store.MenuItems().GetByID(ctx, id)
	if err != nil {
		if isNotFound(err) {
			return nil, s.reject(apperr.NotFound("Menu item not found"), "menu_item_id", id)
		}
		return nil, s.fail("get menu item", err)
	}
	return m, nil
}

// ByIDs resolves ids in one round trip; unknown ids are simply absent from the map
func (s *MenuService) ByIDs(ctx context.Context, ids []string) (map[string]*models.MenuItem, error) {
	items, err := s.store.MenuItems().GetByIDs(ctx, ids)
	if err != nil {
		return nil, s.fail("resolve menu items", err)
	}
	out := make(map[string]*models.MenuItem, len(items))
	for i := range items {
		out[items[i].ID] = &items[i]
	}
	return out, nil
}

// checkFields validates f, confirms its category exists and that no other active item in it has the name
func (s *MenuService) checkFields(ctx context.Context, f *menuFields, selfID string) error {
	f.Name = strings.TrimSpace(f.Name)
	f.Description = strings.TrimSpace(f.Description)
	f.Image = strings.TrimSpace(f.Image)
	if e := validateInput(*f); e != nil {
		return s.reject(e)
	}

	if _, err := s.store.Categories().GetByID(ctx, f.CategoryID); err != nil {
		if isNotFound(err) {
			return s.reject(apperr.BadRequest("Invalid category ID"), "category_id", f.CategoryID)
		}
		return s.fail("menu category lookup", err)
	}

	taken, err := s.store.MenuItems().ActiveNameTaken(ctx, f.CategoryID, f.Name, selfID)
	if err != nil {
		return s.fail("menu name lookup", err)
	}
	if taken {
		return s.reject(apperr.Conflict("A menu item with this name already exists in this category"), "name", f.Name)
	}
	return nil
}

func (s *MenuService) Add(ctx context.Context, in AddMenuItemInput) (*models.MenuItem, error) {
	if _, err := auth.Authorize(ctx, auth.ActionManageMenu); err != nil {
		return nil, s.reject(apperr.From(err))
	}
	f := menuFields(in)
	if err := s.checkFields(ctx, &f, ""); err != nil {
		return nil, err
	}

	m := &models.MenuItem{
		Name:        f.Name,
		Description: f.Description,
		Image:       f.Image,
		Price:       f.Price,
		IsVeg:       f.IsVeg,
		CategoryID:  f.CategoryID,
		IsActive:    true,
	}
	if err := s.store.MenuItems().Create(ctx, m); err != nil {
		return nil, s.fail("add menu item", err)
	}
	s.broker.Publish(pubsub.MenuItemAdded, m)
	s.log.Info("menu item added", "menu_item_id", m.ID, "name", m.Name)
	return m, nil
}

func (s *MenuService) Update(ctx context.Context, in UpdateMenuItemInput) (*models.MenuItem, error) {
	if _, err := auth.Authorize(ctx, auth.ActionManageMenu); err != nil {
		return nil, s.reject(apperr.From(err))
	}
	m, err := s.activeItem(ctx, in.ID)
	if err != nil {
		return nil, err
	}

	f := menuFields{
		Name:        m.Name,
		Description: m.Description,
		Image:       m.Image,
		Price:       m.Price,
		IsVeg:       m.IsVeg,
		CategoryID:  m.CategoryID,
	}
	if in.Name != nil {
		f.Name = *in.Name
	}
	if in.Description != nil {
		f.Description = *in.Description
	}
	if in.Image != nil {
		f.Image = *in.Image
	}
	if in.Price != nil {
		f.Price = *in.Price
	}
	if in.IsVeg != nil {
		f.IsVeg = *in.IsVeg
	}
	if in.CategoryID != nil {
		f.CategoryID = *in.CategoryID
	}
	if err := s.checkFields(ctx, &f, m.ID); err != nil {
		return nil, err
	}

	m.Name, m.Description, m.Image = f.Name, f.Description, f.Image
	m.Price, m.IsVeg, m.CategoryID = f.Price, f.IsVeg, f.CategoryID
	if err := s.store.MenuItems().Update(ctx, m); err != nil {
		if isNotFound(err) {
			return nil, s.reject(apperr.NotFound("Menu item not found"))
		}
		return nil, s.fail("update menu item", err)
	}
	s.broker.Publish(pubsub.MenuItemUpdated, m)
	s.log.Info("menu item updated", "menu_item_id", m.ID)
	return m, nil
}

// Delete hides the item; past orders keep pointing at it
func (s *MenuService) Delete(ctx context.Context, id string) (*models.MenuItem, error) {
	if _, err := auth.Authorize(ctx, auth.ActionManageMenu); err != nil {
		return nil, s.reject(apperr.From(err))
	}
	m, err := s.activeItem(ctx, id)
	if err != nil {
		return nil, err
	}
	m.IsActive = false
	if err := s.store.MenuItems().Update(ctx, m); err != nil {
		return nil, s.fail("delete menu item", err)
	}
	s.broker.Publish(pubsub.MenuItemDeleted, m)
	s.log.Info("menu item deleted", "menu_item_id", m.ID)
	return m, nil
}

func (s *MenuService) activeItem(ctx context.Context, id string) (*models.MenuItem, error) {
	m, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if !m.IsActive {
		return nil, s.reject(apperr.NotFound("Menu item not found"), "menu_item_id", id, "reason", "inactive")
	}
	return m, nil
}

// ExportRows lists every item, inactive ones included, with its category name
func (s *MenuService) ExportRows(ctx context.Context) ([]ExportRow, error) {
	if _, err := auth.Authorize(ctx, auth.ActionExportMenu); err != nil {
		return nil, s.reject(apperr.From(err))
	}
	items, err := s.store.MenuItems().List(ctx, store.MenuFilter{})
	if err != nil {
		return nil, s.fail("export menu items", err)
	}
	cats, err := s.store.Categories().List(ctx)
	if err != nil {
		return nil, s.fail("export categories", err)
	}
	names := make(map[string]string, len(cats))
	for _, c := range cats {
		names[c.ID] = c.Name
	}

	rows := make([]ExportRow, len(items))
	for i, it := range items {
		rows[i] = ExportRow{Item: it, CategoryName: names[it.CategoryID]}
	}
	s.log.Info("menu exported", "items", len(rows))
	return rows, nil
}
