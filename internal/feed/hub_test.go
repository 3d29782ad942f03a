package feed

import (
	"context"
	"testing"

	"fixo-backend/internal/domain"

	"github.com/stretchr/testify/assert"
)

func TestHub_PublishSubscribe(t *testing.T) {
	ctx := context.Background()

	t.Run("Delivery is scoped to the booking", func(t *testing.T) {
		hub := NewHub()
		var gotA, gotB []domain.ProviderLocation

		subA, err := hub.Subscribe("booking-a", func(loc domain.ProviderLocation) { gotA = append(gotA, loc) })
		assert.NoError(t, err)
		defer subA.Unsubscribe()
		subB, err := hub.Subscribe("booking-b", func(loc domain.ProviderLocation) { gotB = append(gotB, loc) })
		assert.NoError(t, err)
		defer subB.Unsubscribe()

		assert.NoError(t, hub.Publish(ctx, domain.ProviderLocation{BookingID: "booking-a", Latitude: 12.97}))
		assert.NoError(t, hub.Publish(ctx, domain.ProviderLocation{BookingID: "booking-a", Latitude: 12.98}))
		assert.NoError(t, hub.Publish(ctx, domain.ProviderLocation{BookingID: "booking-b", Latitude: 13.01}))

		assert.Len(t, gotA, 2)
		assert.Equal(t, 12.98, gotA[1].Latitude)
		assert.Len(t, gotB, 1)
	})

	t.Run("Multiple subscribers on one booking", func(t *testing.T) {
		hub := NewHub()
		var first, second int

		s1, _ := hub.Subscribe("booking-a", func(domain.ProviderLocation) { first++ })
		s2, _ := hub.Subscribe("booking-a", func(domain.ProviderLocation) { second++ })
		defer s1.Unsubscribe()
		defer s2.Unsubscribe()

		assert.NoError(t, hub.Publish(ctx, domain.ProviderLocation{BookingID: "booking-a"}))
		assert.Equal(t, 1, first)
		assert.Equal(t, 1, second)
	})

	t.Run("Publish with no subscribers is a no-op", func(t *testing.T) {
		hub := NewHub()
		assert.NoError(t, hub.Publish(ctx, domain.ProviderLocation{BookingID: "booking-x"}))
	})
}

func TestHub_Unsubscribe(t *testing.T) {
	ctx := context.Background()

	t.Run("No delivery after unsubscribe", func(t *testing.T) {
		hub := NewHub()
		var got int
		sub, _ := hub.Subscribe("booking-a", func(domain.ProviderLocation) { got++ })

		assert.NoError(t, hub.Publish(ctx, domain.ProviderLocation{BookingID: "booking-a"}))
		sub.Unsubscribe()
		assert.NoError(t, hub.Publish(ctx, domain.ProviderLocation{BookingID: "booking-a"}))

		assert.Equal(t, 1, got)
	})

	t.Run("Unsubscribe is idempotent and nil-safe", func(t *testing.T) {
		hub := NewHub()
		sub, _ := hub.Subscribe("booking-a", func(domain.ProviderLocation) {})
		sub.Unsubscribe()
		sub.Unsubscribe()

		var nilSub *Subscription
		nilSub.Unsubscribe()
	})
}

func TestHub_Close(t *testing.T) {
	hub := NewHub()
	var got int
	_, _ = hub.Subscribe("booking-a", func(domain.ProviderLocation) { got++ })

	assert.NoError(t, hub.Close())
	assert.NoError(t, hub.Publish(context.Background(), domain.ProviderLocation{BookingID: "booking-a"}))
	assert.Zero(t, got)
}
