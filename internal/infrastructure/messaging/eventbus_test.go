package messaging

import (
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/challenge-hub/challenge-hub-bot/internal/domain/shared"
)

func syncBus() *InMemoryEventBus {
	return NewInMemoryEventBus(InMemoryEventBusConfig{AsyncMode: false})
}

func TestPublishDeliversToTypeHandler(t *testing.T) {
	bus := syncBus()
	defer bus.Close()

	var received []shared.Event
	require.NoError(t, bus.Subscribe(shared.EventCompletionRecorded, func(e shared.Event) error {
		received = append(received, e)
		return nil
	}))

	event := shared.NewCompletionRecordedEvent(42, 3, 7, 10)
	require.NoError(t, bus.Publish(event))

	require.Len(t, received, 1)
	assert.Equal(t, shared.EventCompletionRecorded, received[0].EventType())
	assert.Equal(t, "user:42", received[0].AggregateID())
}

func TestPublishSkipsOtherTypes(t *testing.T) {
	bus := syncBus()
	defer bus.Close()

	var called bool
	require.NoError(t, bus.Subscribe(shared.EventStreakBroken, func(e shared.Event) error {
		called = true
		return nil
	}))

	require.NoError(t, bus.Publish(shared.NewXPGainedEvent(1, 10, 10, "manual")))
	assert.False(t, called)
}

func TestSubscribeAllReceivesEverything(t *testing.T) {
	bus := syncBus()
	defer bus.Close()

	var count int
	require.NoError(t, bus.SubscribeAll(func(e shared.Event) error {
		count++
		return nil
	}))

	require.NoError(t, bus.Publish(shared.NewXPGainedEvent(1, 5, 5, "manual")))
	require.NoError(t, bus.Publish(shared.NewSuggestionSubmittedEvent(1, "text", "Art", 2)))
	assert.Equal(t, 2, count)
}

func TestHandlerErrorDoesNotPropagate(t *testing.T) {
	bus := syncBus()
	defer bus.Close()

	require.NoError(t, bus.Subscribe(shared.EventXPGained, func(e shared.Event) error {
		return errors.New("handler broke")
	}))

	assert.NoError(t, bus.Publish(shared.NewXPGainedEvent(1, 5, 5, "manual")))
}

func TestHandlerPanicIsRecovered(t *testing.T) {
	bus := syncBus()
	defer bus.Close()

	require.NoError(t, bus.Subscribe(shared.EventXPGained, func(e shared.Event) error {
		panic("boom")
	}))

	assert.NoError(t, bus.Publish(shared.NewXPGainedEvent(1, 5, 5, "manual")))
	assert.Equal(t, int64(1), bus.Metrics().Snapshot().HandlerFailures)
}

func TestAsyncDeliveryCompletesBeforeClose(t *testing.T) {
	bus := NewInMemoryEventBus(InMemoryEventBusConfig{AsyncMode: true, WorkerPoolSize: 2})

	var mu sync.Mutex
	var count int
	require.NoError(t, bus.Subscribe(shared.EventXPGained, func(e shared.Event) error {
		time.Sleep(10 * time.Millisecond)
		mu.Lock()
		count++
		mu.Unlock()
		return nil
	}))

	for i := 0; i < 5; i++ {
		require.NoError(t, bus.Publish(shared.NewXPGainedEvent(int64(i), 5, 5, "manual")))
	}

	// Close waits for in-flight handlers.
	require.NoError(t, bus.Close())

	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, 5, count)
}

func TestClosedBusRejectsOperations(t *testing.T) {
	bus := syncBus()
	require.NoError(t, bus.Close())

	assert.ErrorIs(t, bus.Publish(shared.NewXPGainedEvent(1, 5, 5, "manual")), ErrEventBusClosed)
	assert.ErrorIs(t, bus.Subscribe(shared.EventXPGained, func(shared.Event) error { return nil }), ErrEventBusClosed)
}

func TestNilGuards(t *testing.T) {
	bus := syncBus()
	defer bus.Close()

	assert.ErrorIs(t, bus.Publish(nil), ErrNilEvent)
	assert.ErrorIs(t, bus.Subscribe(shared.EventXPGained, nil), ErrNilHandler)
	assert.ErrorIs(t, bus.SubscribeAll(nil), ErrNilHandler)
}
