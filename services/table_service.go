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

type tableName struct {
	Name string `json:"name" validate:"required,min=3,max=30"`
}

type TableService struct {
	base
}

func NewTableService(s store.Store, log *logger.Logger) *TableService {
	return &TableService{base: newBase(s, log, "table_service")}
}

func (s *TableService) List(ctx context.Context) ([]models.Table, error) {
	out, err := s.store.Tables().List(ctx)
	if err != nil {
		return nil, s.fail("list tables", err)
	}
	return out, nil
}

func (s *TableService) Get(ctx context.Context, id string) (*models.Table, error) {
	if !models.ValidID(id) {
		return nil, s.reject(apperr.BadRequest("Invalid table ID"))
	}
	t, err := s.store.Tables().GetByID(ctx, id)
	if err != nil {
		if isNotFound(err) {
			return nil, s.reject(apperr.NotFound("Table not found"), "table_id", id)
		}
		return nil, s.fail("get table", err)
	}
	return t, nil
}

func (s *TableService) Add(ctx context.Context, name string) (*models.Table, error) {
	if _, err := auth.Authorize(ctx, auth.ActionManageTables); err != nil {
		return nil, s.reject(apperr.From(err))
	}
	in := tableName{Name: strings.TrimSpace(name)}
	if e := validateInput(in); e != nil {
		return nil, s.reject(apperr.BadRequest("Table name must be between 3 and 30 characters"))
	}

	if _, err := s.store.Tables().GetByName(ctx, in.Name); err == nil {
		return nil, s.reject(apperr.Conflict("Table already exists"), "name", in.Name)
	} else if !isNotFound(err) {
		return nil, s.fail("table name lookup", err)
	}

	t := &models.Table{Name: in.Name}
	if err := s.store.Tables().Create(ctx, t); err != nil {
		if isDuplicate(err) {
			return nil, s.reject(apperr.Conflict("Table already exists"))
		}
		return nil, s.fail("add table", err)
	}
	s.log.Info("table added", "table_id", t.ID, "name", t.Name)
	return t, nil
}

func (s *TableService) Delete(ctx context.Context, id string) (*models.Table, error) {
	if _, err := auth.Authorize(ctx, auth.ActionManageTables); err != nil {
		return nil, s.reject(apperr.From(err))
	}
	t, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	n, err := s.store.Orders().CountByTable(ctx, t.ID)
	if err != nil {
		return nil, s.fail("count table orders", err)
	}
	if n > 0 {
		return nil, s.reject(apperr.BadRequest("Cannot delete a table that has orders"), "table_id", t.ID, "orders", n)
	}
	if err := s.store.Tables().Delete(ctx, t.ID); err != nil {
		if isNotFound(err) {
			return nil, s.reject(apperr.NotFound("Table not found"))
		}
		return nil, s.fail("delete table", err)
	}
	s.log.Info("table deleted", "table_id", t.ID)
	return t, nil
}
