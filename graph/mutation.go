package graph

import (
	"context"

	graphql "github.com/graph-gophers/graphql-go"

	"github.com/Jaypurnwasi/RestaurantApp/models"
	"github.com/Jaypurnwasi/RestaurantApp/services"
)

func (r *Resolver) userResult(u *models.User, err error) (*userResolver, error) {
	if err != nil {
		return nil, fail(err)
	}
	return &userResolver{u: u}, nil
}

type createUserInput struct {
	Name         string
	Email        string
	Password     string
	Role         string
	ProfileImage *string
}

func (r *Resolver) CreateUser(ctx context.Context, args struct{ Input createUserInput }) (*userResolver, error) {
	in := args.Input
	return r.userResult(r.svc.Users.CreateUser(ctx, services.CreateUserInput{
		Name:         in.Name,
		Email:        in.Email,
		Password:     in.Password,
		Role:         models.UserRole(in.Role),
		ProfileImage: in.ProfileImage,
	}))
}

func (r *Resolver) Login(ctx context.Context, args struct{ Input services.LoginInput }) (*userResolver, error) {
	return r.userResult(r.svc.Auth.Login(ctx, args.Input))
}

func (r *Resolver) Signup(ctx context.Context, args struct{ Input services.SignupInput }) (*userResolver, error) {
	return r.userResult(r.svc.Auth.Signup(ctx, args.Input))
}

func (r *Resolver) RequestOTP(ctx context.Context, args struct{ Email string }) (bool, error) {
	ok, err := r.svc.Auth.RequestOTP(ctx, args.Email)
	return ok, fail(err)
}

func (r *Resolver) VerifyOTP(ctx context.Context, args struct{ Email, Otp string }) (bool, error) {
	ok, err := r.svc.Auth.VerifyOTP(ctx, args.Email, args.Otp)
	return ok, fail(err)
}

func (r *Resolver) SignIn(ctx context.Context, args struct{ Email string }) (*userResolver, error) {
	return r.userResult(r.svc.Auth.SignIn(ctx, args.Email))
}

func (r *Resolver) Logout(ctx context.Context) bool {
	return r.svc.Auth.Logout(ctx)
}

func (r *Resolver) RemoveUser(ctx context.Context, args struct{ Input struct{ UserID graphql.ID } }) (*userResolver, error) {
	return r.userResult(r.svc.Users.RemoveUser(ctx, string(args.Input.UserID)))
}

func (r *Resolver) DeleteAccount(ctx context.Context) (*userResolver, error) {
	return r.userResult(r.svc.Users.DeleteAccount(ctx))
}

func (r *Resolver) UpdateUser(ctx context.Context, args struct{ Input services.UpdateUserInput }) (*userResolver, error) {
	return r.userResult(r.svc.Users.UpdateUser(ctx, args.Input))
}

func (r *Resolver) UpdatePassword(ctx context.Context, args struct{ Input services.UpdatePasswordInput }) (bool, error) {
	ok, err := r.svc.Users.UpdatePassword(ctx, args.Input)
	return ok, fail(err)
}

func (r *Resolver) categoryResult(c *models.Category, err error) (*categoryResolver, error) {
	if err != nil {
		return nil, fail(err)
	}
	return &categoryResolver{c: c}, nil
}

func (r *Resolver) AddCategory(ctx context.Context, args struct{ Input struct{ Name string } }) (*categoryResolver, error) {
	return r.categoryResult(r.svc.Categories.Add(ctx, args.Input.Name))
}

func (r *Resolver) UpdateCategory(ctx context.Context, args struct {
	Input struct {
		ID   graphql.ID
		Name string
	}
}) (*categoryResolver, error) {
	return r.categoryResult(r.svc.Categories.Update(ctx, string(args.Input.ID), args.Input.Name))
}

func (r *Resolver) DeleteCategory(ctx context.Context, args struct{ Input struct{ ID graphql.ID } }) (*categoryResolver, error) {
	return r.categoryResult(r.svc.Categories.Delete(ctx, string(args.Input.ID)))
}

func (r *Resolver) menuItemResult(m *models.MenuItem, err error) (*menuItemResolver, error) {
	if err != nil {
		return nil, fail(err)
	}
	return &menuItemResolver{m: m, root: r}, nil
}

type addMenuItemInput struct {
	Name        string
	Description string
	Image       string
	Price       float64
	IsVeg       bool
	CategoryID  graphql.ID
}

func (r *Resolver) AddMenuItem(ctx context.Context, args struct{ Input addMenuItemInput }) (*menuItemResolver, error) {
	in := args.Input
	return r.menuItemResult(r.svc.Menu.Add(ctx, services.AddMenuItemInput{
		Name:        in.Name,
		Description: in.Description,
		Image:       in.Image,
		Price:       in.Price,
		IsVeg:       in.IsVeg,
		CategoryID:  string(in.CategoryID),
	}))
}

type updateMenuItemInput struct {
	ID          graphql.ID
	Name        *string
	Description *string
	Image       *string
	Price       *float64
	IsVeg       *bool
	CategoryID  *graphql.ID
}

func (r *Resolver) UpdateMenuItem(ctx context.Context, args struct{ Input updateMenuItemInput }) (*menuItemResolver, error) {
	in := args.Input
	upd := services.UpdateMenuItemInput{
		ID:          string(in.ID),
		Name:        in.Name,
		Description: in.Description,
		Image:       in.Image,
		Price:       in.Price,
		IsVeg:       in.IsVeg,
	}
	if in.CategoryID != nil {
		c := string(*in.CategoryID)
		upd.CategoryID = &c
	}
	return r.menuItemResult(r.svc.Menu.Update(ctx, upd))
}

func (r *Resolver) DeleteMenuItem(ctx context.Context, args struct{ ID graphql.ID }) (*menuItemResolver, error) {
	return r.menuItemResult(r.svc.Menu.Delete(ctx, string(args.ID)))
}

func (r *Resolver) itemResult(line *services.CartLine, err error) (*itemResolver, error) {
	if err != nil {
		return nil, fail(err)
	}
	return &itemResolver{line: line}, nil
}

func (r *Resolver) AddItemToCart(ctx context.Context, args struct {
	Input struct {
		MenuItemID graphql.ID
		Quantity   int32
	}
}) (*itemResolver, error) {
	return r.itemResult(r.svc.Cart.Add(ctx, string(args.Input.MenuItemID), int(args.Input.Quantity)))
}

func (r *Resolver) RemoveItemFromCart(ctx context.Context, args struct{ Input struct{ MenuItemID graphql.ID } }) (*itemResolver, error) {
	return r.itemResult(r.svc.Cart.Remove(ctx, string(args.Input.MenuItemID)))
}

func (r *Resolver) DecreaseItemQuantity(ctx context.Context, args struct{ Input struct{ MenuItemID graphql.ID } }) (*itemResolver, error) {
	return r.itemResult(r.svc.Cart.Decrease(ctx, string(args.Input.MenuItemID)))
}

func (r *Resolver) ClearCart(ctx context.Context) (bool, error) {
	ok, err := r.svc.Cart.Clear(ctx)
	return ok, fail(err)
}

func (r *Resolver) CreateOrder(ctx context.Context, args struct{ Input services.CreateOrderInput }) (*orderResolver, error) {
	o, err := r.svc.Orders.Create(ctx, args.Input)
	if err != nil {
		return nil, fail(err)
	}
	return r.order(ctx, o)
}

func (r *Resolver) UpdateOrderStatus(ctx context.Context, args struct {
	Input struct {
		OrderID graphql.ID
		Status  string
	}
}) (*updatedStatusResolver, error) {
	u, err := r.svc.Orders.UpdateStatus(ctx, services.UpdateOrderStatusInput{
		OrderID: string(args.Input.OrderID),
		Status:  models.OrderStatus(args.Input.Status),
	})
	if err != nil {
		return nil, fail(err)
	}
	return &updatedStatusResolver{u: u}, nil
}

func (r *Resolver) tableResult(t *models.Table, err error) (*tableResolver, error) {
	if err != nil {
		return nil, fail(err)
	}
	return &tableResolver{t: t}, nil
}

func (r *Resolver) AddTable(ctx context.Context, args struct{ Input struct{ Name string } }) (*tableResolver, error) {
	return r.tableResult(r.svc.Tables.Add(ctx, args.Input.Name))
}

func (r *Resolver) DeleteTable(ctx context.Context, args struct{ ID graphql.ID }) (*tableResolver, error) {
	return r.tableResult(r.svc.Tables.Delete(ctx, string(args.ID)))
}
