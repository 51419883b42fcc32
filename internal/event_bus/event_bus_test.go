package event_bus

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEventBus_Publish(t *testing.T) {
	t.Run("should call handlers in registration order", func(t *testing.T) {
		bus := NewEventBus()
		var calls []int
		for i := 1; i <= 5; i++ {
			i := i
			bus.Subscribe(CatalogRefreshedType, func(Event) error {
				calls = append(calls, i)
				return nil
			})
		}

		err := bus.Publish(NewEvent(context.Background(), CatalogRefreshedType, nil))

		require.NoError(t, err)
		assert.Equal(t, []int{1, 2, 3, 4, 5}, calls)
	})

	t.Run("should collect handler errors and panics", func(t *testing.T) {
		bus := NewEventBus()
		called := false
		bus.Subscribe(CatalogRefreshedType, func(Event) error { return errors.New("boom") })
		bus.Subscribe(CatalogRefreshedType, func(Event) error { panic("kaboom") })
		bus.Subscribe(CatalogRefreshedType, func(Event) error {
			called = true
			return nil
		})

		err := bus.Publish(NewEvent(context.Background(), CatalogRefreshedType, nil))

		require.Error(t, err)
		assert.Contains(t, err.Error(), "2 handler(s) failed")
		assert.True(t, called)
	})

	t.Run("should not call handlers when context is cancelled", func(t *testing.T) {
		bus := NewEventBus()
		called := false
		bus.Subscribe(CatalogRefreshedType, func(Event) error {
			called = true
			return nil
		})
		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		err := bus.Publish(NewEvent(ctx, CatalogRefreshedType, nil))

		assert.ErrorIs(t, err, context.Canceled)
		assert.False(t, called)
	})

	t.Run("should stop calling unsubscribed handler", func(t *testing.T) {
		bus := NewEventBus()
		calls := 0
		unsubscribe := bus.Subscribe(CatalogRefreshedType, func(Event) error {
			calls++
			return nil
		})

		_ = bus.Publish(NewEvent(context.Background(), CatalogRefreshedType, nil))
		unsubscribe()
		_ = bus.Publish(NewEvent(context.Background(), CatalogRefreshedType, nil))

		assert.Equal(t, 1, calls)
	})
}

func TestSubscribeTyped(t *testing.T) {
	bus := NewEventBus()
	var received []CatalogRefreshed
	SubscribeTyped(bus, CatalogRefreshedType, func(e EventT[CatalogRefreshed]) error {
		received = append(received, e.Data)
		return nil
	})
	payload := CatalogRefreshed{FetchedAt: time.Now(), Accepted: 3, Rejected: 1}

	require.NoError(t, bus.Publish(NewEvent(context.Background(), CatalogRefreshedType, payload)))
	require.NoError(t, bus.Publish(NewEvent(context.Background(), CatalogRefreshedType, "not a payload")))

	require.Len(t, received, 1)
	assert.Equal(t, payload, received[0])
}
