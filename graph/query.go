package graph

import (
	"context"

	graphql "github.com/graph-gophers/graphql-go"

	"github.com/Jaypurnwasi/RestaurantApp/models"
	"github.com/Jaypurnwasi/RestaurantApp/services"
)

func (r *Resolver) Me(ctx context.Context) (*userResolver, error) {
	u, err := r.svc.Auth.Me(ctx)
	if err != nil || u == nil {
		return nil, fail(err)
	}
	return &userResolver{u: u}, nil
}

func (r *Resolver) GetAllStaffMembers(ctx context.Context) (*[]*userResolver, error) {
	list, err := r.svc.Users.ListStaff(ctx)
	if err != nil {
		return nil, fail(err)
	}
	return usersOf(list), nil
}

func (r *Resolver) GetAllCustomers(ctx context.Context) (*[]*userResolver, error) {
	list, err := r.svc.Users.ListCustomers(ctx)
	if err != nil {
		return nil, fail(err)
	}
	return usersOf(list), nil
}

func (r *Resolver) GetUserByID(ctx context.Context, args struct{ UserID *string }) (*userResolver, error) {
	var id string
	if args.UserID != nil {
		id = *args.UserID
	}
	u, err := r.svc.Users.GetUserByID(ctx, id)
	if err != nil {
		return nil, fail(err)
	}
	return &userResolver{u: u}, nil
}

func (r *Resolver) GetAllCategories(ctx context.Context) ([]*categoryResolver, error) {
	list, err := r.svc.Categories.List(ctx)
	if err != nil {
		return nil, fail(err)
	}
	out := make([]*categoryResolver, len(list))
	for i := range list {
		out[i] = &categoryResolver{c: &list[i]}
	}
	return out, nil
}

func (r *Resolver) GetCategoryByID(ctx context.Context, args struct{ ID graphql.ID }) (*categoryResolver, error) {
	c, err := r.svc.Categories.Get(ctx, string(args.ID))
	if err != nil {
		return nil, fail(err)
	}
	return &categoryResolver{c: c}, nil
}

func (r *Resolver) GetAllMenuItems(ctx context.Context, args struct {
	IsVeg      *bool
	CategoryID *graphql.ID
}) ([]*menuItemResolver, error) {
	q := services.MenuQuery{IsVeg: args.IsVeg}
	if args.CategoryID != nil {
		q.CategoryID = string(*args.CategoryID)
	}
	list, err := r.svc.Menu.List(ctx, q)
	if err != nil {
		return nil, fail(err)
	}
	return r.menuItems(list), nil
}

type searchMenuItemsInput struct {
	Name       string
	IsVeg      *bool
	CategoryID *graphql.ID
}

func (r *Resolver) SearchMenuItems(ctx context.Context, args struct{ Input searchMenuItemsInput }) ([]*menuItemResolver, error) {
	q := services.MenuQuery{Name: args.Input.Name, IsVeg: args.Input.IsVeg}
	if args.Input.CategoryID != nil {
		q.CategoryID = string(*args.Input.CategoryID)
	}
	list, err := r.svc.Menu.Search(ctx, q)
	if err != nil {
		return nil, fail(err)
	}
	return r.menuItems(list), nil
}

func (r *Resolver) GetMenuItemByID(ctx context.Context, args struct{ ID graphql.ID }) (*menuItemResolver, error) {
	m, err := r.svc.Menu.Get(ctx, string(args.ID))
	if err != nil {
		return nil, fail(err)
	}
	return &menuItemResolver{m: m, root: r}, nil
}

func (r *Resolver) GetAllCartItems(ctx context.Context) (*cartResolver, error) {
	v, err := r.svc.Cart.Get(ctx)
	if err != nil || v == nil {
		return nil, fail(err)
	}
	return &cartResolver{v: v, root: r}, nil
}

func (r *Resolver) GetAllOrders(ctx context.Context, args struct {
	Status  *string
	TableID *graphql.ID
}) ([]*orderResolver, error) {
	var q services.OrderQuery
	if args.Status != nil {
		st := models.OrderStatus(*args.Status)
		q.Status = &st
	}
	if args.TableID != nil {
		q.TableID = string(*args.TableID)
	}
	list, err := r.svc.Orders.List(ctx, q)
	if err != nil {
		return nil, fail(err)
	}
	return r.orders(ctx, list)
}

func (r *Resolver) GetOrdersByCustomer(ctx context.Context, args struct{ CustomerID graphql.ID }) ([]*orderResolver, error) {
	list, err := r.svc.Orders.ByCustomer(ctx, string(args.CustomerID))
	if err != nil {
		return nil, fail(err)
	}
	return r.orders(ctx, list)
}

func (r *Resolver) GetOrderByID(ctx context.Context, args struct{ OrderID graphql.ID }) (*orderResolver, error) {
	o, err := r.svc.Orders.Get(ctx, string(args.OrderID))
	if err != nil {
		return nil, fail(err)
	}
	return r.order(ctx, o)
}

func (r *Resolver) GetOrderHistory(ctx context.Context, args struct{ OrderID graphql.ID }) ([]*statusChangeResolver, error) {
	list, err := r.svc.Orders.History(ctx, string(args.OrderID))
	if err != nil {
		return nil, fail(err)
	}
	out := make([]*statusChangeResolver, len(list))
	for i := range list {
		out[i] = &statusChangeResolver{h: &list[i]}
	}
	return out, nil
}

func (r *Resolver) GetTransactionByOrder(ctx context.Context, args struct{ OrderID graphql.ID }) (*transactionResolver, error) {
	t, err := r.svc.Orders.Transaction(ctx, string(args.OrderID))
	if err != nil {
		return nil, fail(err)
	}
	return &transactionResolver{t: t}, nil
}

func (r *Resolver) OrderStats(ctx context.Context) (*orderStatsResolver, error) {
	st, err := r.svc.Orders.Stats(ctx)
	if err != nil {
		return nil, fail(err)
	}
	return &orderStatsResolver{s: st}, nil
}

func (r *Resolver) GetAllTables(ctx context.Context) ([]*tableResolver, error) {
	list, err := r.svc.Tables.List(ctx)
	if err != nil {
		return nil, fail(err)
	}
	out := make([]*tableResolver, len(list))
	for i := range list {
		out[i] = &tableResolver{t: &list[i]}
	}
	return out, nil
}

func (r *Resolver) GetTableByID(ctx context.Context, args struct{ ID graphql.ID }) (*tableResolver, error) {
	t, err := r.svc.Tables.Get(ctx, string(args.ID))
	if err != nil {
		return nil, fail(err)
	}
	return &tableResolver{t: t}, nil
}
