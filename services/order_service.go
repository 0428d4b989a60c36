package services

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/Jaypurnwasi/RestaurantApp/apperr"
	"github.com/Jaypurnwasi/RestaurantApp/auth"
	"github.com/Jaypurnwasi/RestaurantApp/logger"
	"github.com/Jaypurnwasi/RestaurantApp/models"
	"github.com/Jaypurnwasi/RestaurantApp/pubsub"
	"github.com/Jaypurnwasi/RestaurantApp/statemachine"
	"github.com/Jaypurnwasi/RestaurantApp/store"
)

type CreateOrderInput struct {
	TableID string
	Amount  float64
	Success bool
}

type UpdateOrderStatusInput struct {
	OrderID string
	Status  models.OrderStatus
}

// StatusUpdate is both the mutation result and the ORDER_UPDATED payload
type StatusUpdate struct {
	OrderID       string
	UpdatedStatus models.OrderStatus
	Success       bool
}

type OrderQuery struct {
	Status  *models.OrderStatus
	TableID string
}

type OrderStats struct {
	TotalOrders int
	ByStatus    map[models.OrderStatus]int
	Revenue     decimal.Decimal
}

type OrderService struct {
	base
	broker *pubsub.Broker
}

func NewOrderService(s store.Store, broker *pubsub.Broker, log *logger.Logger) *OrderService {
	return &OrderService{base: newBase(s, log, "order_service"), broker: broker}
}

// Create turns the caller's cart into an order plus its payment transaction
// and empties the cart. Either everything is written or nothing is.
func (s *OrderService) Create(ctx context.Context, in CreateOrderInput) (*models.Order, error) {
	id, err := auth.Authorize(ctx, auth.ActionPlaceOrder)
	if err != nil {
		return nil, s.reject(apperr.From(err))
	}

	var order *models.Order
	err = s.store.Atomic(ctx, func(tx store.Store) error {
		cart, err := tx.Carts().GetByUser(ctx, id.UserID)
		if err != nil && !isNotFound(err) {
			return err
		}
		if err != nil || len(cart.Items) == 0 {
			return apperr.BadRequest("Cart is empty")
		}

		ids := make([]string, len(cart.Items))
		for i, it := range cart.Items {
			ids[i] = it.MenuItemID
		}
		found, err := tx.MenuItems().GetByIDs(ctx, ids)
		if err != nil {
			return err
		}
		menu := make(map[string]models.MenuItem, len(found))
		for _, m := range found {
			menu[m.ID] = m
		}

		items := make([]models.OrderItem, 0, len(cart.Items))
		for _, line := range cart.Items {
			m, ok := menu[line.MenuItemID]
			if !ok || !m.IsActive {
				return apperr.BadRequest(fmt.Sprintf("Menu item %s is no longer available", line.MenuItemID))
			}
			items = append(items, models.OrderItem{
				MenuItemID: m.ID,
				Quantity:   line.Quantity,
				Name:       m.Name,
				Price:      m.Price,
			})
		}

		if in.Amount <= 0 {
			return apperr.BadRequest("Amount must be greater than 0")
		}
		if !models.ValidID(in.TableID) {
			return apperr.BadRequest("Table does not exist")
		}
		if _, err := tx.Tables().GetByID(ctx, in.TableID); err != nil {
			if isNotFound(err) {
				return apperr.BadRequest("Table does not exist")
			}
			return err
		}

		status := models.StatusPending
		if !in.Success {
			status = models.StatusFailed
		}
		order = &models.Order{
			TableID:    in.TableID,
			CustomerID: id.UserID,
			Items:      items,
			Amount:     in.Amount,
			Status:     status,
		}
		if err := tx.Orders().Create(ctx, order); err != nil {
			return err
		}
		if err := tx.Transactions().Create(ctx, &models.Transaction{
			Mode:    models.ModeUpi,
			Amount:  in.Amount,
			Success: in.Success,
			OrderID: order.ID,
		}); err != nil {
			return err
		}
		if err := tx.Orders().AddHistory(ctx, &models.OrderStatusHistory{
			OrderID:   order.ID,
			ToStatus:  status,
			ChangedBy: id.UserID,
			Note:      "order placed",
		}); err != nil {
			return err
		}
		return tx.Carts().DeleteByUser(ctx, id.UserID)
	})
	if err != nil {
		return nil, s.passthrough("create order", err)
	}

	s.broker.Publish(pubsub.OrderCreated, order)
	s.log.Info("order created", "order_id", order.ID, "customer_id", id.UserID, "status", order.Status, "amount", order.Amount)
	return order, nil
}

func (s *OrderService) UpdateStatus(ctx context.Context, in UpdateOrderStatusInput) (*StatusUpdate, error) {
	id, err := auth.Authorize(ctx, auth.ActionUpdateOrderStatus)
	if err != nil {
		if apperr.Is(err, apperr.CodeForbidden) {
			return nil, s.reject(apperr.Forbidden("Forbidden: You do not have permission to update order status"))
		}
		return nil, s.reject(apperr.From(err))
	}
	if !statemachine.ValidStatus(in.Status) {
		return nil, s.reject(apperr.BadRequest(fmt.Sprintf("Unknown order status %q", in.Status)))
	}
	order, err := s.find(ctx, in.OrderID)
	if err != nil {
		return nil, err
	}
	if err := statemachine.CanTransition(order.Status, in.Status, id.Role); err != nil {
		return nil, s.reject(apperr.BadRequest(err.Error()), "order_id", order.ID)
	}

	err = s.store.Atomic(ctx, func(tx store.Store) error {
		if err := tx.Orders().UpdateStatus(ctx, order.ID, in.Status); err != nil {
			return err
		}
		return tx.Orders().AddHistory(ctx, &models.OrderStatusHistory{
			OrderID:    order.ID,
			FromStatus: order.Status,
			ToStatus:   in.Status,
			ChangedBy:  id.UserID,
		})
	})
	if err != nil {
		if isNotFound(err) {
			return nil, s.reject(apperr.NotFound("Order not found"))
		}
		return nil, s.fail("update order status", err)
	}

	update := &StatusUpdate{OrderID: order.ID, UpdatedStatus: in.Status, Success: true}
	s.broker.Publish(pubsub.OrderUpdated, update)
	s.log.Info("order status updated", "order_id", order.ID, "from", order.Status, "to", in.Status, "by", id.UserID)
	return update, nil
}

func (s *OrderService) find(ctx context.Context, orderID string) (*models.Order, error) {
	if !models.ValidID(orderID) {
		return nil, s.reject(apperr.NotFound("Order not found"), "order_id", orderID)
	}
	o, err := s.store.Orders().GetByID(ctx, orderID)
	if err != nil {
		if isNotFound(err) {
			return nil, s.reject(apperr.NotFound("Order not found"), "order_id", orderID)
		}
		return nil, s.fail("get order", err)
	}
	return o, nil
}

// visible loads an order the caller may see: staff see every order, customers their own
func (s *OrderService) visible(ctx context.Context, orderID string) (*models.Order, error) {
	id, err := auth.Authorize(ctx, auth.ActionViewOrders)
	if err != nil {
		return nil, s.reject(apperr.From(err))
	}
	o, err := s.find(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if !auth.Allowed(id.Role, auth.ActionViewAllOrders) && o.CustomerID != id.UserID {
		return nil, s.reject(apperr.Forbidden("Forbidden: You can only view your own orders"), "order_id", o.ID)
	}
	return o, nil
}

func (s *OrderService) Get(ctx context.Context, orderID string) (*models.Order, error) {
	return s.visible(ctx, orderID)
}

// List is newest first. Customers only ever see their own orders.
func (s *OrderService) List(ctx context.Context, q OrderQuery) ([]models.Order, error) {
	id, err := auth.Authorize(ctx, auth.ActionViewOrders)
	if err != nil {
		return nil, s.reject(apperr.From(err))
	}
	if q.Status != nil && !statemachine.ValidStatus(*q.Status) {
		return nil, s.reject(apperr.BadRequest(fmt.Sprintf("Unknown order status %q", *q.Status)))
	}
	f := store.OrderFilter{Status: q.Status, TableID: q.TableID}
	if !auth.Allowed(id.Role, auth.ActionViewAllOrders) {
		f.CustomerID = id.UserID
	}
	orders, err := s.store.Orders().List(ctx, f)
	if err != nil {
		return nil, s.fail("list orders", err)
	}
	return orders, nil
}

func (s *OrderService) ByCustomer(ctx context.Context, customerID string) ([]models.Order, error) {
	id, err := auth.Authorize(ctx, auth.ActionViewOrders)
	if err != nil {
		return nil, s.reject(apperr.From(err))
	}
	if customerID != id.UserID && !auth.Allowed(id.Role, auth.ActionViewAllOrders) {
		return nil, s.reject(apperr.Forbidden("Forbidden: You can only view your own orders"))
	}
	orders, err := s.store.Orders().List(ctx, store.OrderFilter{CustomerID: customerID})
	if err != nil {
		return nil, s.fail("list customer orders", err)
	}
	return orders, nil
}

func (s *OrderService) History(ctx context.Context, orderID string) ([]models.OrderStatusHistory, error) {
	o, err := s.visible(ctx, orderID)
	if err != nil {
		return nil, err
	}
	h, err := s.store.Orders().History(ctx, o.ID)
	if err != nil {
		return nil, s.fail("order history", err)
	}
	return h, nil
}

func (s *OrderService) Transaction(ctx context.Context, orderID string) (*models.Transaction, error) {
	o, err := s.visible(ctx, orderID)
	if err != nil {
		return nil, err
	}
	t, err := s.store.Transactions().GetByOrder(ctx, o.ID)
	if err != nil {
		if isNotFound(err) {
			return nil, s.reject(apperr.NotFound("Transaction not found"), "order_id", o.ID)
		}
		return nil, s.fail("get transaction", err)
	}
	return t, nil
}

// Stats counts orders per status; revenue only includes Completed orders
func (s *OrderService) Stats(ctx context.Context) (*OrderStats, error) {
	if _, err := auth.Authorize(ctx, auth.ActionViewStats); err != nil {
		return nil, s.reject(apperr.From(err))
	}
	orders, err := s.store.Orders().List(ctx, store.OrderFilter{})
	if err != nil {
		return nil, s.fail("order stats", err)
	}
	st := &OrderStats{
		TotalOrders: len(orders),
		ByStatus: map[models.OrderStatus]int{
			models.StatusPending:   0,
			models.StatusPrepared:  0,
			models.StatusCompleted: 0,
			models.StatusFailed:    0,
		},
		Revenue: decimal.Zero,
	}
	for _, o := range orders {
		st.ByStatus[o.Status]++
		if o.Status == models.StatusCompleted {
			st.Revenue = st.Revenue.Add(decimal.NewFromFloat(o.Amount))
		}
	}
	return st, nil
}
