// Package pubsub is an in-process topic broker. Delivery is best effort: a
// subscriber whose buffer is full misses the event.
package pubsub

import (
	"context"
	"sync"

	"github.com/Jaypurnwasi/RestaurantApp/logger"
)

type Topic string

const (
	MenuItemAdded   Topic = "MENU_ITEM_ADDED"
	MenuItemUpdated Topic = "MENU_ITEM_UPDATED"
	MenuItemDeleted Topic = "MENU_ITEM_DELETED"
	OrderCreated    Topic = "ORDER_CREATED"
	OrderUpdated    Topic = "ORDER_UPDATED"
)

const DefaultBuffer = 16

type Broker struct {
	mu     sync.RWMutex
	subs   map[Topic]map[uint64]chan interface{}
	nextID uint64
	buffer int
	log    *logger.Logger
}

func New(buffer int, log *logger.Logger) *Broker {
	if buffer <= 0 {
		buffer = DefaultBuffer
	}
	return &Broker{
		subs:   make(map[Topic]map[uint64]chan interface{}),
		buffer: buffer,
		log:    log.WithComponent("pubsub"),
	}
}

// Subscribe returns a channel fed with payloads published on topic.
// The channel is closed once ctx is done.
func (b *Broker) Subscribe(ctx context.Context, topic Topic) <-chan interface{} {
	ch := make(chan interface{}, b.buffer)

	b.mu.Lock()
	id := b.nextID
	b.nextID++
	if b.subs[topic] == nil {
		b.subs[topic] = make(map[uint64]chan interface{})
	}
	b.subs[topic][id] = ch
	b.mu.Unlock()

	go func() {
		<-ctx.Done()
		b.mu.Lock()
		delete(b.subs[topic], id)
		if len(b.subs[topic]) == 0 {
			delete(b.subs, topic)
		}
		b.mu.Unlock()
		close(ch)
	}()
	return ch
}

// Publish never blocks and returns how many subscribers received the payload
func (b *Broker) Publish(topic Topic, payload interface{}) int {
	b.mu.RLock()
	defer b.mu.RUnlock()

	delivered := 0
	for id, ch := range b.subs[topic] {
		select {
		case ch <- payload:
			delivered++
		default:
			b.log.Warn("subscriber too slow, event dropped", "topic", topic, "subscriber", id)
		}
	}
	return delivered
}

// Subscribers reports the live subscriber count for topic
func (b *Broker) Subscribers(topic Topic) int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.subs[topic])
}
