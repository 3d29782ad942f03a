package feed

import (
	"context"
	"sync"

	"fixo-backend/internal/domain"
)

// Handler receives each inserted or updated location row for the booking
// it subscribed to. Handlers must not block; delivery is best-effort and
// a viewer may see the same logical state twice.
type Handler func(domain.ProviderLocation)

// Feed fans location updates out to subscribed viewers. Subscribing
// returns a handle the caller must release on teardown; unsubscribing is
// the only cancellation path.
type Feed interface {
	Publish(ctx context.Context, loc domain.ProviderLocation) error
	Subscribe(bookingID string, h Handler) (*Subscription, error)
	Close() error
}

// Subscription is the scoped handle returned by Subscribe. Unsubscribe is
// idempotent.
type Subscription struct {
	cancel func()
	once   sync.Once
}

func newSubscription(cancel func()) *Subscription {
	return &Subscription{cancel: cancel}
}

func (s *Subscription) Unsubscribe() {
	if s == nil {
		return
	}
	s.once.Do(s.cancel)
}
