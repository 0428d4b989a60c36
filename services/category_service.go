package services

import (
	"context"
	"strings"

	"github.com/Jaypurnwasi/RestaurantApp/apperr"
	"github.com/Jaypurnwasi/RestaurantApp/auth"
	"github.com/Jaypurnwasi/RestaurantApp/logger"
	"github.com/Jaypurnwasi/RestaurantApp/models"
	"github.com/Jaypurnwasi/RestaurantApp/store"
)

type categoryName struct {
	Name string `json:"name" validate:"required,min=3,max=50"`
}

type CategoryService struct {
	base
}

func NewCategoryService(s store.Store, log *logger.Logger) *CategoryService {
	return &CategoryService{base: newBase(s, log, "category_service")}
}

func (s *CategoryService) List(ctx context.Context) ([]models.Category, error) {
	if _, err := auth.Authorize(ctx, auth.ActionViewCategories); err != nil {
		return nil, s.reject(apperr.From(err))
	}
	out, err := s.store.Categories().List(ctx)
	if err != nil {
		return nil, s.fail("list categories", err)
	}
	return out, nil
}

func (s *CategoryService) Get(ctx context.Context, id string) (*models.Category, error) {
	if _, err := auth.Authorize(ctx, auth.ActionViewCategories); err != nil {
		return nil, s.reject(apperr.From(err))
	}
	return s.find(ctx, id)
}

// Lookup resolves the category shown next to a menu item. The menu is public, so this is too.
func (s *CategoryService) Lookup(ctx context.Context, id string) (*models.Category, error) {
	return s.find(ctx, id)
}

func (s *CategoryService) find(ctx context.Context, id string) (*models.Category, error) {
	if !models.ValidID(id) {
		return nil, s.reject(apperr.BadRequest("Invalid category ID"))
	}
	c, err := s.store.Categories().GetByID(ctx, id)
	if err != nil {
		if isNotFound(err) {
			return nil, s.reject(apperr.NotFound("Category not found"), "category_id", id)
		}
		return nil, s.fail("get category", err)
	}
	return c, nil
}

// checkName trims name and makes sure no other category already uses it
func (s *CategoryService) checkName(ctx context.Context, name, selfID string) (string, error) {
	in := categoryName{Name: strings.TrimSpace(name)}
	if e := validateInput(in); e != nil {
		return "", s.reject(apperr.BadRequest("Category name must be between 3 and 50 characters"), "name", name)
	}
	existing, err := s.store.Categories().GetByName(ctx, in.Name)
	if err == nil && existing.ID != selfID {
		return "", s.reject(apperr.Conflict("Category already exists"), "name", in.Name)
	}
	if err != nil && !isNotFound(err) {
		return "", s.fail("category name lookup", err)
	}
	return in.Name, nil
}

func (s *CategoryService) Add(ctx context.Context, name string) (*models.Category, error) {
	if _, err := auth.Authorize(ctx, auth.ActionManageCategories); err != nil {
		return nil, s.reject(apperr.From(err))
	}
	name, err := s.checkName(ctx, name, "")
	if err != nil {
		return nil, err
	}
	c := &models.Category{Name: name}
	if err := s.store.Categories().Create(ctx, c); err != nil {
		if isDuplicate(err) {
			return nil, s.reject(apperr.Conflict("Category already exists"))
		}
		return nil, s.fail("add category", err)
	}
	s.log.Info("category added", "category_id", c.ID, "name", c.Name)
	return c, nil
}

func (s *CategoryService) Update(ctx context.Context, id, name string) (*models.Category, error) {
	if _, err := auth.Authorize(ctx, auth.ActionManageCategories); err != nil {
		return nil, s.reject(apperr.From(err))
	}
	c, err := s.find(ctx, id)
	if err != nil {
		return nil, err
	}
	if c.Name, err = s.checkName(ctx, name, c.ID); err != nil {
		return nil, err
	}
	if err := s.store.Categories().Update(ctx, c); err != nil {
		if isDuplicate(err) {
			return nil, s.reject(apperr.Conflict("Category already exists"))
		}
		return nil, s.fail("update category", err)
	}
	s.log.Info("category updated", "category_id", c.ID, "name", c.Name)
	return c, nil
}

// Delete refuses while any menu item, active or not, still points at the category
func (s *CategoryService) Delete(ctx context.Context, id string) (*models.Category, error) {
	if _, err := auth.Authorize(ctx, auth.ActionManageCategories); err != nil {
		return nil, s.reject(apperr.From(err))
	}
	c, err := s.find(ctx, id)
	if err != nil {
		return nil, err
	}
	n, err := s.store.MenuItems().CountByCategory(ctx, c.ID)
	if err != nil {
		return nil, s.fail("count category items", err)
	}
	if n > 0 {
		return nil, s.reject(apperr.BadRequest("Cannot delete category with existing menu items. Remove menu items first."),
			"category_id", c.ID, "items", n)
	}
	if err := s.store.Categories().Delete(ctx, c.ID); err != nil {
		if isNotFound(err) {
			return nil, s.reject(apperr.NotFound("Category not found"))
		}
		return nil, s.fail("delete category", err)
	}
	s.log.Info("category deleted", "category_id", c.ID)
	return c, nil
}
