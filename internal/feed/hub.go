package feed

import (
	"context"
	"sync"

	"fixo-backend/internal/domain"
)

// Hub is the in-process Feed used when no broker is configured. Updates
// published on one node are only visible to subscribers on that node.
type Hub struct {
	mu       sync.RWMutex
	nextID   int
	handlers map[string]map[int]Handler // bookingID -> subscriber id -> handler
	closed   bool
}

func NewHub() *Hub {
	return &Hub{handlers: make(map[string]map[int]Handler)}
}

func (h *Hub) Publish(ctx context.Context, loc domain.ProviderLocation) error {
	h.mu.RLock()
	subs := make([]Handler, 0, len(h.handlers[loc.BookingID]))
	for _, fn := range h.handlers[loc.BookingID] {
		subs = append(subs, fn)
	}
	h.mu.RUnlock()

	for _, fn := range subs {
		fn(loc)
	}
	return nil
}

func (h *Hub) Subscribe(bookingID string, fn Handler) (*Subscription, error) {
	h.mu.Lock()
	defer h.mu.Unlock()

	id := h.nextID
	h.nextID++
	if h.handlers[bookingID] == nil {
		h.handlers[bookingID] = make(map[int]Handler)
	}
	h.handlers[bookingID][id] = fn

	return newSubscription(func() {
		h.mu.Lock()
		defer h.mu.Unlock()
		delete(h.handlers[bookingID], id)
		if len(h.handlers[bookingID]) == 0 {
			delete(h.handlers, bookingID)
		}
	}), nil
}

func (h *Hub) Close() error {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.handlers = make(map[string]map[int]Handler)
	h.closed = true
	return nil
}
