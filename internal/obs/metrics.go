package obs

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Prometheus metrics for the /metrics endpoint. The router's own
// LatencyStats remains the source of truth for the stats query surface;
// these exist for scraping and alerting.

// OrdersExecuted counts processed orders by exchange and outcome.
var OrdersExecuted = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: "xor",
		Subsystem: "executor",
		Name:      "orders_executed_total",
		Help:      "Orders processed by the router, by exchange and outcome",
	},
	[]string{"exchange", "status"},
)

// OrderExecutionLatency - wall-clock round trip from dispatch to result.
var OrderExecutionLatency = promauto.NewHistogramVec(
	prometheus.HistogramOpts{
		Namespace: "xor",
		Subsystem: "executor",
		Name:      "order_execution_latency_ms",
		Help:      "Round-trip order execution latency in milliseconds",
		Buckets:   []float64{1, 2, 5, 10, 25, 50, 100, 250, 500, 1000, 2500},
	},
	[]string{"exchange"},
)

// PendingOrders gauges the in-flight table size.
var PendingOrders = promauto.NewGauge(
	prometheus.GaugeOpts{
		Namespace: "xor",
		Subsystem: "executor",
		Name:      "pending_orders",
		Help:      "Orders currently in flight",
	},
)

// IngestDropped counts inbound messages discarded at the listener boundary.
var IngestDropped = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: "xor",
		Subsystem: "executor",
		Name:      "ingest_dropped_total",
		Help:      "Inbound messages dropped as malformed before routing",
	},
)

// ResultsPublished counts outcomes delivered to the result channel.
var ResultsPublished = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: "xor",
		Subsystem: "executor",
		Name:      "results_published_total",
		Help:      "Order results published to the outbound channel",
	},
)

// ResultPublishFailures counts dropped results. Delivery is at most once;
// these are never requeued.
var ResultPublishFailures = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: "xor",
		Subsystem: "executor",
		Name:      "result_publish_failures_total",
		Help:      "Order results dropped because the outbound publish failed",
	},
)
