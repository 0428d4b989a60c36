package services

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/Jaypurnwasi/RestaurantApp/apperr"
	"github.com/Jaypurnwasi/RestaurantApp/auth"
	"github.com/Jaypurnwasi/RestaurantApp/logger"
	"github.com/Jaypurnwasi/RestaurantApp/models"
	"github.com/Jaypurnwasi/RestaurantApp/store"
)

// CartLine is what cart mutations return: the menu item and its resulting quantity
type CartLine struct {
	MenuItemID string
	Quantity   int
}

// CartView is a cart with each line's menu item resolved
type CartView struct {
	Cart  *models.Cart
	Lines []CartViewLine
}

type CartViewLine struct {
	MenuItem *models.MenuItem
	Quantity int
}

// Total sums price times quantity over the resolved lines
func (v *CartView) Total() float64 {
	sum := decimal.Zero
	for _, l := range v.Lines {
		sum = sum.Add(decimal.NewFromFloat(l.MenuItem.Price).Mul(decimal.NewFromInt(int64(l.Quantity))))
	}
	f, _ := sum.Round(2).Float64()
	return f
}

type CartService struct {
	base
}

func NewCartService(s store.Store, log *logger.Logger) *CartService {
	return &CartService{base: newBase(s, log, "cart_service")}
}

func (s *CartService) Add(ctx context.Context, menuItemID string, quantity int) (*CartLine, error) {
	id, err := auth.Authorize(ctx, auth.ActionUseCart)
	if err != nil {
		return nil, s.reject(apperr.From(err))
	}
	if !models.ValidID(menuItemID) {
		return nil, s.reject(apperr.BadRequest("Invalid menuItemId"))
	}
	if quantity < 1 {
		return nil, s.reject(apperr.BadRequest("Quantity must be at least 1"), "quantity", quantity)
	}

	m, err := s.store.MenuItems().GetByID(ctx, menuItemID)
	if err != nil && !isNotFound(err) {
		return nil, s.fail("cart menu lookup", err)
	}
	if err != nil || !m.IsActive {
		return nil, s.reject(apperr.NotFound("Menu item not found"), "menu_item_id", menuItemID)
	}

	cart, err := s.store.Carts().GetByUser(ctx, id.UserID)
	if err != nil {
		if !isNotFound(err) {
			return nil, s.fail("get cart", err)
		}
		cart = &models.Cart{UserID: id.UserID}
	}

	i := cart.Line(menuItemID)
	if i >= 0 {
		cart.Items[i].Quantity += quantity
	} else {
		cart.Items = append(cart.Items, models.CartItem{MenuItemID: menuItemID, Quantity: quantity})
		i = len(cart.Items) - 1
	}
	line := &CartLine{MenuItemID: menuItemID, Quantity: cart.Items[i].Quantity}

	if err := s.store.Carts().Save(ctx, cart); err != nil {
		return nil, s.fail("save cart", err)
	}
	s.log.Info("item added to cart", "user_id", id.UserID, "menu_item_id", menuItemID, "quantity", line.Quantity)
	return line, nil
}

// lineOf loads the caller's cart and the index of the line for menuItemID
func (s *CartService) lineOf(ctx context.Context, menuItemID string) (*models.Cart, int, error) {
	id, err := auth.Authorize(ctx, auth.ActionUseCart)
	if err != nil {
		return nil, 0, s.reject(apperr.From(err))
	}
	if !models.ValidID(menuItemID) {
		return nil, 0, s.reject(apperr.BadRequest("Invalid menuItemId format"))
	}
	cart, err := s.store.Carts().GetByUser(ctx, id.UserID)
	if err != nil {
		if isNotFound(err) {
			return nil, 0, s.reject(apperr.NotFound("Cart not found"), "user_id", id.UserID)
		}
		return nil, 0, s.fail("get cart", err)
	}
	i := cart.Line(menuItemID)
	if i < 0 {
		return nil, 0, s.reject(apperr.BadRequest("Item not found in cart"), "menu_item_id", menuItemID)
	}
	return cart, i, nil
}

func (s *CartService) Remove(ctx context.Context, menuItemID string) (*CartLine, error) {
	cart, i, err := s.lineOf(ctx, menuItemID)
	if err != nil {
		return nil, err
	}
	removed := &CartLine{MenuItemID: menuItemID, Quantity: cart.Items[i].Quantity}
	cart.Items = append(cart.Items[:i], cart.Items[i+1:]...)

	if err := s.store.Carts().Save(ctx, cart); err != nil {
		return nil, s.fail("save cart", err)
	}
	s.log.Info("item removed from cart", "user_id", cart.UserID, "menu_item_id", menuItemID)
	return removed, nil
}

// Decrease lowers the line by one; a line at 1 is removed and reported with quantity 0
func (s *CartService) Decrease(ctx context.Context, menuItemID string) (*CartLine, error) {
	cart, i, err := s.lineOf(ctx, menuItemID)
	if err != nil {
		return nil, err
	}
	line := &CartLine{MenuItemID: menuItemID}
	if cart.Items[i].Quantity <= 1 {
		cart.Items = append(cart.Items[:i], cart.Items[i+1:]...)
	} else {
		cart.Items[i].Quantity--
		line.Quantity = cart.Items[i].Quantity
	}

	if err := s.store.Carts().Save(ctx, cart); err != nil {
		return nil, s.fail("save cart", err)
	}
	s.log.Info("cart quantity decreased", "user_id", cart.UserID, "menu_item_id", menuItemID, "quantity", line.Quantity)
	return line, nil
}

func (s *CartService) Clear(ctx context.Context) (bool, error) {
	id, err := auth.Authorize(ctx, auth.ActionUseCart)
	if err != nil {
		return false, s.reject(apperr.From(err))
	}
	if err := s.store.Carts().DeleteByUser(ctx, id.UserID); err != nil {
		if isNotFound(err) {
			return false, s.reject(apperr.NotFound("Cart not found"), "user_id", id.UserID)
		}
		return false, s.fail("clear cart", err)
	}
	s.log.Info("cart cleared", "user_id", id.UserID)
	return true, nil
}

// Get returns nil when the caller has no cart
func (s *CartService) Get(ctx context.Context) (*CartView, error) {
	id, err := auth.Authorize(ctx, auth.ActionUseCart)
	if err != nil {
		return nil, s.reject(apperr.From(err))
	}
	cart, err := s.store.Carts().GetByUser(ctx, id.UserID)
	if err != nil {
		if isNotFound(err) {
			return nil, nil
		}
		return nil, s.fail("get cart", err)
	}

	ids := make([]string, len(cart.Items))
	for i, it := range cart.Items {
		ids[i] = it.MenuItemID
	}
	items, err := s.store.MenuItems().GetByIDs(ctx, ids)
	if err != nil {
		return nil, s.fail("resolve cart items", err)
	}
	byID := make(map[string]*models.MenuItem, len(items))
	for i := range items {
		byID[items[i].ID] = &items[i]
	}

	view := &CartView{Cart: cart, Lines: make([]CartViewLine, 0, len(cart.Items))}
	for _, it := range cart.Items {
		m, ok := byID[it.MenuItemID]
		if !ok {
			s.log.Warn("cart line points at unknown menu item", "menu_item_id", it.MenuItemID)
			continue
		}
		view.Lines = append(view.Lines, CartViewLine{MenuItem: m, Quantity: it.Quantity})
	}
	return view, nil
}
