package graph

import (
	"context"
	"time"

	graphql "github.com/graph-gophers/graphql-go"

	"github.com/Jaypurnwasi/RestaurantApp/apperr"
	"github.com/Jaypurnwasi/RestaurantApp/models"
	"github.com/Jaypurnwasi/RestaurantApp/services"
)

func timestamp(t time.Time) string {
	return t.UTC().Format(time.RFC3339)
}

func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

type userResolver struct {
	u *models.User
}

func (r *userResolver) ID() graphql.ID        { return graphql.ID(r.u.ID) }
func (r *userResolver) Name() string          { return r.u.Name }
func (r *userResolver) Email() string         { return r.u.Email }
func (r *userResolver) Role() string          { return string(r.u.Role) }
func (r *userResolver) ProfileImage() *string { return optional(r.u.ProfileImage) }
func (r *userResolver) CreatedAt() string     { return timestamp(r.u.CreatedAt) }
func (r *userResolver) UpdatedAt() string     { return timestamp(r.u.UpdatedAt) }

func usersOf(list []models.User) *[]*userResolver {
	out := make([]*userResolver, len(list))
	for i := range list {
		out[i] = &userResolver{u: &list[i]}
	}
	return &out
}

type categoryResolver struct {
	c *models.Category
}

func (r *categoryResolver) ID() graphql.ID { return graphql.ID(r.c.ID) }
func (r *categoryResolver) Name() string   { return r.c.Name }

type menuItemResolver struct {
	m    *models.MenuItem
	root *Resolver
}

func (r *menuItemResolver) ID() graphql.ID         { return graphql.ID(r.m.ID) }
func (r *menuItemResolver) Name() string           { return r.m.Name }
func (r *menuItemResolver) Description() string    { return r.m.Description }
func (r *menuItemResolver) Image() string          { return r.m.Image }
func (r *menuItemResolver) Price() float64         { return r.m.Price }
func (r *menuItemResolver) IsVeg() bool            { return r.m.IsVeg }
func (r *menuItemResolver) CategoryID() graphql.ID { return graphql.ID(r.m.CategoryID) }
func (r *menuItemResolver) IsActive() bool         { return r.m.IsActive }

// Category is null when the item points at a category that has since gone away
func (r *menuItemResolver) Category(ctx context.Context) (*categoryResolver, error) {
	if r.m.CategoryID == "" {
		return nil, nil
	}
	c, err := r.root.svc.Categories.Lookup(ctx, r.m.CategoryID)
	if err != nil {
		if apperr.Is(err, apperr.CodeNotFound) {
			return nil, nil
		}
		return nil, fail(err)
	}
	return &categoryResolver{c: c}, nil
}

func (r *Resolver) menuItems(list []models.MenuItem) []*menuItemResolver {
	out := make([]*menuItemResolver, len(list))
	for i := range list {
		out[i] = &menuItemResolver{m: &list[i], root: r}
	}
	return out
}

type itemResolver struct {
	line *services.CartLine
}

func (r *itemResolver) MenuItemID() graphql.ID { return graphql.ID(r.line.MenuItemID) }
func (r *itemResolver) Quantity() int32        { return int32(r.line.Quantity) }

type cartItemResolver struct {
	line services.CartViewLine
	root *Resolver
}

func (r *cartItemResolver) MenuItem() *menuItemResolver {
	return &menuItemResolver{m: r.line.MenuItem, root: r.root}
}
func (r *cartItemResolver) Quantity() int32 { return int32(r.line.Quantity) }

type cartResolver struct {
	v    *services.CartView
	root *Resolver
}

func (r *cartResolver) ID() *graphql.ID {
	id := graphql.ID(r.v.Cart.ID)
	return &id
}

func (r *cartResolver) UserID() *graphql.ID {
	id := graphql.ID(r.v.Cart.UserID)
	return &id
}

func (r *cartResolver) Items() []*cartItemResolver {
	out := make([]*cartItemResolver, len(r.v.Lines))
	for i, l := range r.v.Lines {
		out[i] = &cartItemResolver{line: l, root: r.root}
	}
	return out
}

func (r *cartResolver) Total() float64 { return r.v.Total() }

type tableResolver struct {
	t *models.Table
}

func (r *tableResolver) ID() graphql.ID { return graphql.ID(r.t.ID) }
func (r *tableResolver) Name() string   { return r.t.Name }

type orderItemResolver struct {
	it   models.OrderItem
	menu map[string]*models.MenuItem
	root *Resolver
}

// MenuItem falls back to the checkout snapshot when the item row is gone
func (r *orderItemResolver) MenuItem() *menuItemResolver {
	if m, ok := r.menu[r.it.MenuItemID]; ok {
		return &menuItemResolver{m: m, root: r.root}
	}
	return &menuItemResolver{root: r.root, m: &models.MenuItem{
		ID:    r.it.MenuItemID,
		Name:  r.it.Name,
		Price: r.it.Price,
	}}
}
func (r *orderItemResolver) Quantity() int32 { return int32(r.it.Quantity) }
func (r *orderItemResolver) Name() string    { return r.it.Name }
func (r *orderItemResolver) Price() float64  { return r.it.Price }

type orderResolver struct {
	o    *models.Order
	menu map[string]*models.MenuItem
	root *Resolver
}

func (r *orderResolver) ID() graphql.ID         { return graphql.ID(r.o.ID) }
func (r *orderResolver) TableID() graphql.ID    { return graphql.ID(r.o.TableID) }
func (r *orderResolver) CustomerID() graphql.ID { return graphql.ID(r.o.CustomerID) }
func (r *orderResolver) Amount() float64        { return r.o.Amount }
func (r *orderResolver) Status() string         { return string(r.o.Status) }
func (r *orderResolver) CreatedAt() string      { return timestamp(r.o.CreatedAt) }
func (r *orderResolver) UpdatedAt() string      { return timestamp(r.o.UpdatedAt) }

func (r *orderResolver) Table(ctx context.Context) (*tableResolver, error) {
	t, err := r.root.svc.Tables.Get(ctx, r.o.TableID)
	if err != nil {
		if apperr.Is(err, apperr.CodeNotFound) {
			return nil, nil
		}
		return nil, fail(err)
	}
	return &tableResolver{t: t}, nil
}

func (r *orderResolver) Items() []*orderItemResolver {
	out := make([]*orderItemResolver, len(r.o.Items))
	for i, it := range r.o.Items {
		out[i] = &orderItemResolver{it: it, menu: r.menu, root: r.root}
	}
	return out
}

// orders wraps list and resolves every referenced menu item in one lookup
func (r *Resolver) orders(ctx context.Context, list []models.Order) ([]*orderResolver, error) {
	var ids []string
	seen := map[string]bool{}
	for _, o := range list {
		for _, it := range o.Items {
			if !seen[it.MenuItemID] {
				seen[it.MenuItemID] = true
				ids = append(ids, it.MenuItemID)
			}
		}
	}
	menu := map[string]*models.MenuItem{}
	if len(ids) > 0 {
		var err error
		if menu, err = r.svc.Menu.ByIDs(ctx, ids); err != nil {
			return nil, fail(err)
		}
	}
	out := make([]*orderResolver, len(list))
	for i := range list {
		out[i] = &orderResolver{o: &list[i], menu: menu, root: r}
	}
	return out, nil
}

func (r *Resolver) order(ctx context.Context, o *models.Order) (*orderResolver, error) {
	list, err := r.orders(ctx, []models.Order{*o})
	if err != nil {
		return nil, err
	}
	return list[0], nil
}

type transactionResolver struct {
	t *models.Transaction
}

func (r *transactionResolver) ID() graphql.ID      { return graphql.ID(r.t.ID) }
func (r *transactionResolver) Mode() string        { return string(r.t.Mode) }
func (r *transactionResolver) Amount() float64     { return r.t.Amount }
func (r *transactionResolver) Success() bool       { return r.t.Success }
func (r *transactionResolver) OrderID() graphql.ID { return graphql.ID(r.t.OrderID) }
func (r *transactionResolver) CreatedAt() string   { return timestamp(r.t.CreatedAt) }
func (r *transactionResolver) UpdatedAt() string   { return timestamp(r.t.UpdatedAt) }

type statusChangeResolver struct {
	h *models.OrderStatusHistory
}

func (r *statusChangeResolver) ID() graphql.ID      { return graphql.ID(r.h.ID) }
func (r *statusChangeResolver) OrderID() graphql.ID { return graphql.ID(r.h.OrderID) }
func (r *statusChangeResolver) ToStatus() string    { return string(r.h.ToStatus) }
func (r *statusChangeResolver) Note() *string       { return optional(r.h.Note) }
func (r *statusChangeResolver) CreatedAt() string   { return timestamp(r.h.CreatedAt) }

func (r *statusChangeResolver) FromStatus() *string {
	return optional(string(r.h.FromStatus))
}

func (r *statusChangeResolver) ChangedBy() *graphql.ID {
	if r.h.ChangedBy == "" {
		return nil
	}
	id := graphql.ID(r.h.ChangedBy)
	return &id
}

type updatedStatusResolver struct {
	u *services.StatusUpdate
}

func (r *updatedStatusResolver) Success() bool { return r.u.Success }

func (r *updatedStatusResolver) OrderID() *graphql.ID {
	id := graphql.ID(r.u.OrderID)
	return &id
}

func (r *updatedStatusResolver) UpdatedStatus() string { return string(r.u.UpdatedStatus) }

type statusCountResolver struct {
	status models.OrderStatus
	count  int
}

func (r *statusCountResolver) Status() string { return string(r.status) }
func (r *statusCountResolver) Count() int32   { return int32(r.count) }

type orderStatsResolver struct {
	s *services.OrderStats
}

func (r *orderStatsResolver) TotalOrders() int32 { return int32(r.s.TotalOrders) }

func (r *orderStatsResolver) Revenue() float64 {
	f, _ := r.s.Revenue.Round(2).Float64()
	return f
}

// ByStatus lists every status, in state machine order, including empty ones
func (r *orderStatsResolver) ByStatus() []*statusCountResolver {
	order := []models.OrderStatus{models.StatusPending, models.StatusPrepared, models.StatusCompleted, models.StatusFailed}
	out := make([]*statusCountResolver, len(order))
	for i, st := range order {
		out[i] = &statusCountResolver{status: st, count: r.s.ByStatus[st]}
	}
	return out
}
