package graph

import (
	"context"

	"github.com/Jaypurnwasi/RestaurantApp/auth"
	"github.com/Jaypurnwasi/RestaurantApp/models"
	"github.com/Jaypurnwasi/RestaurantApp/pubsub"
	"github.com/Jaypurnwasi/RestaurantApp/services"
)

// relay forwards payloads of type T from a broker subscription, wrapped for
// graphql-go. The output closes when the subscription ends.
func relay[T any, R any](ctx context.Context, in <-chan interface{}, wrap func(T) R) <-chan R {
	out := make(chan R)
	go func() {
		defer close(out)
		for v := range in {
			p, ok := v.(T)
			if !ok {
				continue
			}
			select {
			case out <- wrap(p):
			case <-ctx.Done():
				return
			}
		}
	}()
	return out
}

func (r *Resolver) OrderUpdated(ctx context.Context) (<-chan *updatedStatusResolver, error) {
	in := r.broker.Subscribe(ctx, pubsub.OrderUpdated)
	return relay(ctx, in, func(u *services.StatusUpdate) *updatedStatusResolver {
		return &updatedStatusResolver{u: u}
	}), nil
}

func (r *Resolver) OrderCreated(ctx context.Context) (<-chan *orderResolver, error) {
	id, err := auth.Authorize(ctx, auth.ActionWatchOrders)
	if err != nil {
		return nil, failSubscription(err)
	}
	r.log.Debug("order feed opened", "user_id", id.UserID)
	in := r.broker.Subscribe(ctx, pubsub.OrderCreated)
	return relay(ctx, in, func(o *models.Order) *orderResolver {
		res, err := r.order(ctx, o)
		if err != nil {
			r.log.Warn("order feed falling back to snapshots", "order_id", o.ID, "error", err)
			return &orderResolver{o: o, root: r}
		}
		return res
	}), nil
}

func (r *Resolver) menuFeed(ctx context.Context, topic pubsub.Topic) <-chan *menuItemResolver {
	in := r.broker.Subscribe(ctx, topic)
	return relay(ctx, in, func(m *models.MenuItem) *menuItemResolver {
		return &menuItemResolver{m: m, root: r}
	})
}

func (r *Resolver) MenuItemAdded(ctx context.Context) (<-chan *menuItemResolver, error) {
	return r.menuFeed(ctx, pubsub.MenuItemAdded), nil
}

func (r *Resolver) MenuItemUpdated(ctx context.Context) (<-chan *menuItemResolver, error) {
	return r.menuFeed(ctx, pubsub.MenuItemUpdated), nil
}

func (r *Resolver) MenuItemDeleted(ctx context.Context) (<-chan *menuItemResolver, error) {
	return r.menuFeed(ctx, pubsub.MenuItemDeleted), nil
}
