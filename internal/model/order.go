package model

import (
	"time"

	"main/internal/model/enum"
	"main/pkg/exception"
)

// Order is the immutable intent record received from the strategy side.
// Price and StopPrice stay nil when absent; whether they are required for a
// given order type is the delegator's concern, not the router's.
type Order struct {
	ID            string         `json:"id"`
	BotID         string         `json:"bot_id"`
	Exchange      enum.Exchange  `json:"exchange"`
	Symbol        string         `json:"symbol"`
	Side          enum.OrderSide `json:"side"`
	OrderType     enum.OrderType `json:"order_type"`
	Quantity      float64        `json:"quantity"`
	Price         *float64       `json:"price"`
	StopPrice     *float64       `json:"stop_price"`
	ReduceOnly    bool           `json:"reduce_only"`
	ClientOrderID string         `json:"client_order_id"`
	CreatedAt     time.Time      `json:"created_at"`
}

// Validate covers what decoding alone does not guarantee. An unknown exchange
// passes here on purpose: it is rejected at routing time, where the failure
// can be logged against the order id.
func (o Order) Validate() error {
	if o.ID == "" {
		return exception.ErrOrderEmptyID
	}
	if o.Quantity <= 0 {
		return exception.ErrOrderInvalidQuantity
	}
	return nil
}

// LimitPrice returns the order price, or 0 when absent.
func (o Order) LimitPrice() float64 {
	if o.Price == nil {
		return 0
	}
	return *o.Price
}

const StatusFilled = "filled"

// OrderResult is produced exactly once per successfully dispatched order.
// LatencyMs and Timestamp are always overwritten by the router so that every
// exchange reports latency on the same wall clock.
type OrderResult struct {
	OrderID         string    `json:"order_id"`
	ExchangeOrderID string    `json:"exchange_order_id"`
	Status          string    `json:"status"`
	FilledQuantity  float64   `json:"filled_quantity"`
	AveragePrice    float64   `json:"average_price"`
	LatencyMs       uint64    `json:"latency_ms"`
	Timestamp       time.Time `json:"timestamp"`
}
