package bus

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"main/internal/model"
	"main/pkg/exception"
)

func TestQueueTryPublishFull(t *testing.T) {
	queue := NewQueue(2)

	require.NoError(t, queue.TryPublish(model.Order{ID: "o1"}))
	require.NoError(t, queue.TryPublish(model.Order{ID: "o2"}))
	assert.ErrorIs(t, queue.TryPublish(model.Order{ID: "o3"}), exception.ErrOrderQueueFull)
	assert.Equal(t, 2, queue.Len())
}

func TestQueuePublishBackpressure(t *testing.T) {
	queue := NewQueue(1)
	require.NoError(t, queue.Publish(context.Background(), model.Order{ID: "o1"}))

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	err := queue.Publish(ctx, model.Order{ID: "o2"})
	assert.ErrorIs(t, err, context.DeadlineExceeded, "a full queue must stall the producer, not drop")
}

func TestQueueClosed(t *testing.T) {
	queue := NewQueue(4)
	queue.Close()
	queue.Close() // idempotent

	assert.ErrorIs(t, queue.TryPublish(model.Order{ID: "o1"}), exception.ErrOrderQueueClosed)
	assert.ErrorIs(t, queue.Publish(context.Background(), model.Order{ID: "o1"}), exception.ErrOrderQueueClosed)
}

func TestQueueRunDrainsThenReturns(t *testing.T) {
	queue := NewQueue(4)
	require.NoError(t, queue.TryPublish(model.Order{ID: "o1"}))
	require.NoError(t, queue.TryPublish(model.Order{ID: "o2"}))
	queue.Close()

	var got []string
	queue.Run(context.Background(), func(ord model.Order) {
		got = append(got, ord.ID)
	})

	assert.Equal(t, []string{"o1", "o2"}, got)
}

func TestQueueRunStopsOnContext(t *testing.T) {
	queue := NewQueue(4)
	ctx, cancel := context.WithCancel(context.Background())

	done := make(chan struct{})
	go func() {
		defer close(done)
		queue.Run(ctx, func(model.Order) {})
	}()

	cancel()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Run did not stop on context cancellation")
	}
}
