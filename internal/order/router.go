package order

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/yanun0323/errors"
	"github.com/yanun0323/logs"

	"main/internal/bus"
	"main/internal/model"
	"main/internal/model/enum"
	"main/internal/obs"
	"main/pkg/exception"
	"main/pkg/ratelimit"
)

// Delegator executes an order on one exchange. Implementations must be safe
// for concurrent Send calls; the router adds no synchronization around them.
type Delegator interface {
	Send(ctx context.Context, ord model.Order) (model.OrderResult, error)
}

// ResultPublisher emits a completed-order outcome downstream.
type ResultPublisher interface {
	Publish(ctx context.Context, res model.OrderResult) error
}

// DefaultMaxInFlight caps concurrent executions when the config does not.
const DefaultMaxInFlight = 256

// Config carries the router knobs.
type Config struct {
	QueueCapacity int // bounded ingest queue; <=0 uses bus.DefaultCapacity
	MaxInFlight   int // concurrent execution cap; <=0 uses DefaultMaxInFlight
	MaxOrderRate  int // orders per second admitted to dispatch; <=0 disables
}

// Router owns the pending table and the latency aggregator for its lifetime
// and drives the dispatch loop: one goroutine per dequeued order, capped by
// a semaphore so a burst degrades per exchange instead of exhausting the
// process.
type Router struct {
	binanceDelegator Delegator
	bybitDelegator   Delegator
	publisher        ResultPublisher

	queue   *bus.Queue
	pending *PendingTable
	latency *obs.LatencyStats
	limiter *ratelimit.Limiter

	maxInFlight int
	running     atomic.Bool
}

// NewRouter wires a router. Each call builds fresh pending/latency state.
func NewRouter(cfg Config, binanceDelegator, bybitDelegator Delegator, publisher ResultPublisher) *Router {
	maxInFlight := cfg.MaxInFlight
	if maxInFlight <= 0 {
		maxInFlight = DefaultMaxInFlight
	}

	var limiter *ratelimit.Limiter
	if cfg.MaxOrderRate > 0 {
		limiter = ratelimit.New(float64(cfg.MaxOrderRate), float64(cfg.MaxOrderRate)*2)
	}

	return &Router{
		binanceDelegator: binanceDelegator,
		bybitDelegator:   bybitDelegator,
		publisher:        publisher,
		queue:            bus.NewQueue(cfg.QueueCapacity),
		pending:          NewPendingTable(),
		latency:          &obs.LatencyStats{},
		limiter:          limiter,
		maxInFlight:      maxInFlight,
	}
}

// Handle enqueues a deserialized order for processing. It blocks when the
// queue is full so the caller backpressures instead of dropping.
func (r *Router) Handle(ctx context.Context, ord model.Order) error {
	return r.queue.Publish(ctx, ord)
}

// Close stops the ingest queue. In-flight executions finish on their own.
func (r *Router) Close() {
	r.queue.Close()
}

// Pending reports the number of orders currently in flight.
func (r *Router) Pending() int {
	return r.pending.Size()
}

// Run consumes the queue until the context ends, then waits for spawned
// executions to drain. One slow exchange call never blocks the loop.
func (r *Router) Run(ctx context.Context) {
	if r.running.Swap(true) {
		return
	}
	logs.Info("order processor started")

	sem := make(chan struct{}, r.maxInFlight)
	var wg sync.WaitGroup

	r.queue.Run(ctx, func(ord model.Order) {
		if r.limiter != nil {
			if err := r.limiter.Wait(ctx); err != nil {
				return
			}
		}
		select {
		case sem <- struct{}{}:
		case <-ctx.Done():
			return
		}

		wg.Add(1)
		go func() {
			defer wg.Done()
			defer func() { <-sem }()
			r.dispatch(ctx, ord)
		}()
	})

	wg.Wait()
}

func (r *Router) dispatch(ctx context.Context, ord model.Order) {
	res, err := r.execute(ctx, ord)
	if err != nil {
		obs.OrdersExecuted.WithLabelValues(ord.Exchange.String(), "failed").Inc()
		logs.Errorf("order execution failed: %s, err: %+v", ord.ID, err)
		return
	}

	obs.OrdersExecuted.WithLabelValues(ord.Exchange.String(), "success").Inc()
	obs.OrderExecutionLatency.WithLabelValues(ord.Exchange.String()).Observe(float64(res.LatencyMs))
	logs.Infof("order executed: %s, status: %s, latency: %dms", ord.ID, res.Status, res.LatencyMs)

	if err := r.publisher.Publish(ctx, res); err != nil {
		// at-most-once delivery: log and drop, the execution still counts
		obs.ResultPublishFailures.Inc()
		logs.Errorf("publish order result: %s, err: %+v", res.OrderID, err)
		return
	}
	obs.ResultsPublished.Inc()
}

// execute runs one order end to end. The pending entry is removed on every
// exit path after a successful insert, failure or success alike.
func (r *Router) execute(ctx context.Context, ord model.Order) (model.OrderResult, error) {
	start := time.Now()

	if !r.pending.Insert(ord) {
		return model.OrderResult{}, errors.Wrap(exception.ErrOrderDuplicateID, "insert pending").With("order_id", ord.ID)
	}
	obs.PendingOrders.Inc()
	defer func() {
		if r.pending.Remove(ord.ID) {
			obs.PendingOrders.Dec()
		}
	}()

	delegator, err := r.delegatorFor(ord.Exchange)
	if err != nil {
		return model.OrderResult{}, err
	}

	res, err := delegator.Send(ctx, ord)
	if err != nil {
		return model.OrderResult{}, errors.Wrap(err, "delegate order").With("order_id", ord.ID)
	}

	elapsed := time.Since(start)
	r.latency.Observe(elapsed)

	res.OrderID = ord.ID
	res.LatencyMs = uint64(elapsed.Milliseconds())
	res.Timestamp = time.Now().UTC()
	return res, nil
}

// delegatorFor is the closed dispatch over supported exchanges. Adding an
// exchange means a new enum variant and a new case here.
func (r *Router) delegatorFor(exchange enum.Exchange) (Delegator, error) {
	switch exchange {
	case enum.ExchangeBinance:
		return r.binanceDelegator, nil
	case enum.ExchangeBybit:
		return r.bybitDelegator, nil
	default:
		return nil, errors.Wrap(exception.ErrOrderUnsupportedExchange, exchange.String())
	}
}

// Stats is the read-only aggregate exposed for reporting.
type Stats struct {
	TotalOrders  uint64
	AvgLatencyMs float64
	MinLatencyMs uint64
	MaxLatencyMs uint64
}

// Stats snapshots the latency aggregate. Only successful executions count.
func (r *Router) Stats() Stats {
	snap := r.latency.Snapshot()
	return Stats{
		TotalOrders:  snap.Count,
		AvgLatencyMs: float64(snap.Avg.Nanoseconds()) / float64(time.Millisecond),
		MinLatencyMs: uint64(snap.Min.Milliseconds()),
		MaxLatencyMs: uint64(snap.Max.Milliseconds()),
	}
}
