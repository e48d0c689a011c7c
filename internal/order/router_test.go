package order

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"main/internal/model"
	"main/internal/model/enum"
	"main/pkg/exception"
)

type stubDelegator struct {
	delay time.Duration
	err   error
	calls atomic.Int64
}

func (d *stubDelegator) Send(ctx context.Context, ord model.Order) (model.OrderResult, error) {
	d.calls.Add(1)
	if d.delay > 0 {
		select {
		case <-time.After(d.delay):
		case <-ctx.Done():
			return model.OrderResult{}, ctx.Err()
		}
	}
	if d.err != nil {
		return model.OrderResult{}, d.err
	}
	return model.OrderResult{
		OrderID:         ord.ID,
		ExchangeOrderID: "ex-" + ord.ID,
		Status:          model.StatusFilled,
		FilledQuantity:  ord.Quantity,
		AveragePrice:    ord.LimitPrice(),
	}, nil
}

type capturePublisher struct {
	mu      sync.Mutex
	results []model.OrderResult
	notify  chan model.OrderResult
}

func newCapturePublisher() *capturePublisher {
	return &capturePublisher{notify: make(chan model.OrderResult, 16)}
}

func (p *capturePublisher) Publish(_ context.Context, res model.OrderResult) error {
	p.mu.Lock()
	p.results = append(p.results, res)
	p.mu.Unlock()
	p.notify <- res
	return nil
}

func (p *capturePublisher) count() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.results)
}

func testOrder(id string, exchange enum.Exchange) model.Order {
	price := 50000.0
	return model.Order{
		ID:            id,
		BotID:         "bot-1",
		Exchange:      exchange,
		Symbol:        "BTCUSDT",
		Side:          enum.OrderSideBuy,
		OrderType:     enum.OrderTypeLimit,
		Quantity:      1.5,
		Price:         &price,
		ClientOrderID: "cli-" + id,
		CreatedAt:     time.Now().UTC(),
	}
}

func TestExecuteSuccess(t *testing.T) {
	delegator := &stubDelegator{delay: 20 * time.Millisecond}
	router := NewRouter(Config{}, delegator, &stubDelegator{}, newCapturePublisher())

	res, err := router.execute(context.Background(), testOrder("o1", enum.ExchangeBinance))
	require.NoError(t, err)

	assert.Equal(t, "o1", res.OrderID)
	assert.Equal(t, model.StatusFilled, res.Status)
	assert.Equal(t, 1.5, res.FilledQuantity)
	assert.Equal(t, 50000.0, res.AveragePrice)
	assert.NotEmpty(t, res.ExchangeOrderID)
	assert.False(t, res.Timestamp.IsZero())

	// wall clock, bounded below by the stub delay
	assert.GreaterOrEqual(t, res.LatencyMs, uint64(20))
	assert.Less(t, res.LatencyMs, uint64(5000))

	assert.Zero(t, router.Pending(), "pending entry must be cleared on success")
	assert.Equal(t, uint64(1), router.Stats().TotalOrders)
}

func TestExecuteRoutesByExchange(t *testing.T) {
	binanceStub := &stubDelegator{}
	bybitStub := &stubDelegator{}
	router := NewRouter(Config{}, binanceStub, bybitStub, newCapturePublisher())

	_, err := router.execute(context.Background(), testOrder("o1", enum.ExchangeBybit))
	require.NoError(t, err)

	assert.Zero(t, binanceStub.calls.Load())
	assert.Equal(t, int64(1), bybitStub.calls.Load())
}

func TestExecuteUnsupportedExchange(t *testing.T) {
	router := NewRouter(Config{}, &stubDelegator{}, &stubDelegator{}, newCapturePublisher())

	_, err := router.execute(context.Background(), testOrder("o1", enum.ExchangeUnknown))
	require.ErrorIs(t, err, exception.ErrOrderUnsupportedExchange)

	assert.Zero(t, router.Pending(), "pending entry must be cleared on the failure path too")
	assert.Zero(t, router.Stats().TotalOrders)
}

func TestExecuteDelegatorError(t *testing.T) {
	sendErr := errors.New("rejected by exchange")
	router := NewRouter(Config{}, &stubDelegator{err: sendErr}, &stubDelegator{}, newCapturePublisher())

	_, err := router.execute(context.Background(), testOrder("o1", enum.ExchangeBinance))
	require.ErrorIs(t, err, sendErr)

	assert.Zero(t, router.Pending())
	assert.Zero(t, router.Stats().TotalOrders, "failed executions must not touch latency stats")
}

func TestExecuteDuplicateID(t *testing.T) {
	router := NewRouter(Config{}, &stubDelegator{}, &stubDelegator{}, newCapturePublisher())
	ord := testOrder("o1", enum.ExchangeBinance)
	require.True(t, router.pending.Insert(ord))

	_, err := router.execute(context.Background(), ord)
	require.ErrorIs(t, err, exception.ErrOrderDuplicateID)

	assert.True(t, router.pending.Has("o1"), "the original in-flight entry must survive a duplicate")
}

func TestStatsIdempotent(t *testing.T) {
	router := NewRouter(Config{}, &stubDelegator{delay: 5 * time.Millisecond}, &stubDelegator{}, newCapturePublisher())

	_, err := router.execute(context.Background(), testOrder("o1", enum.ExchangeBinance))
	require.NoError(t, err)

	first := router.Stats()
	second := router.Stats()
	assert.Equal(t, first, second)
}

func TestRouterEndToEnd(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	publisher := newCapturePublisher()
	router := NewRouter(Config{QueueCapacity: 16}, &stubDelegator{}, &stubDelegator{}, publisher)
	go router.Run(ctx)

	require.NoError(t, router.Handle(ctx, testOrder("o1", enum.ExchangeBinance)))
	require.NoError(t, router.Handle(ctx, testOrder("o2", enum.ExchangeBybit)))

	for i := 0; i < 2; i++ {
		select {
		case res := <-publisher.notify:
			assert.Equal(t, model.StatusFilled, res.Status)
		case <-time.After(2 * time.Second):
			t.Fatal("timeout waiting for published result")
		}
	}

	assert.Equal(t, uint64(2), router.Stats().TotalOrders)
	assert.Zero(t, router.Pending())
}

func TestRouterEndToEndUnsupportedExchange(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	publisher := newCapturePublisher()
	router := NewRouter(Config{QueueCapacity: 16}, &stubDelegator{}, &stubDelegator{}, publisher)
	go router.Run(ctx)

	require.NoError(t, router.Handle(ctx, testOrder("o1", enum.ExchangeUnknown)))

	// the order must terminate without a result or a stats update
	assert.Eventually(t, func() bool {
		return router.Pending() == 0 && router.queue.Len() == 0
	}, 2*time.Second, 10*time.Millisecond)
	time.Sleep(50 * time.Millisecond)

	assert.Zero(t, publisher.count())
	assert.Zero(t, router.Stats().TotalOrders)
}

func TestRouterSlowExchangeDoesNotBlockFast(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	publisher := newCapturePublisher()
	slow := &stubDelegator{delay: 500 * time.Millisecond}
	fast := &stubDelegator{}
	router := NewRouter(Config{QueueCapacity: 16}, slow, fast, publisher)
	go router.Run(ctx)

	require.NoError(t, router.Handle(ctx, testOrder("slow", enum.ExchangeBinance)))
	require.NoError(t, router.Handle(ctx, testOrder("fast", enum.ExchangeBybit)))

	select {
	case res := <-publisher.notify:
		assert.Equal(t, "fast", res.OrderID, "a slow exchange call must not delay other exchanges")
	case <-time.After(2 * time.Second):
		t.Fatal("timeout waiting for published result")
	}
}
