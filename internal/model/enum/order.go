package enum

import (
	"encoding/json"
	"fmt"
)

// OrderSide buy, sell
type OrderSide uint8

const (
	_order_side_beg OrderSide = iota
	OrderSideBuy
	OrderSideSell
	_order_side_end
)

func (s OrderSide) IsAvailable() bool {
	return s > _order_side_beg && s < _order_side_end
}

func (s OrderSide) String() string {
	switch s {
	case OrderSideBuy:
		return "Buy"
	case OrderSideSell:
		return "Sell"
	default:
		return "unknown"
	}
}

func (s OrderSide) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.String())
}

func (s *OrderSide) UnmarshalJSON(data []byte) error {
	var raw string
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	switch raw {
	case "Buy":
		*s = OrderSideBuy
	case "Sell":
		*s = OrderSideSell
	default:
		return fmt.Errorf("unknown order side: %q", raw)
	}
	return nil
}

// OrderType market, limit, stop market, stop limit
type OrderType uint8

const (
	_order_type_beg OrderType = iota
	OrderTypeMarket
	OrderTypeLimit
	OrderTypeStopMarket
	OrderTypeStopLimit
	_order_type_end
)

func (t OrderType) IsAvailable() bool {
	return t > _order_type_beg && t < _order_type_end
}

func (t OrderType) String() string {
	switch t {
	case OrderTypeMarket:
		return "Market"
	case OrderTypeLimit:
		return "Limit"
	case OrderTypeStopMarket:
		return "StopMarket"
	case OrderTypeStopLimit:
		return "StopLimit"
	default:
		return "unknown"
	}
}

func (t OrderType) MarshalJSON() ([]byte, error) {
	return json.Marshal(t.String())
}

func (t *OrderType) UnmarshalJSON(data []byte) error {
	var raw string
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	switch raw {
	case "Market":
		*t = OrderTypeMarket
	case "Limit":
		*t = OrderTypeLimit
	case "StopMarket":
		*t = OrderTypeStopMarket
	case "StopLimit":
		*t = OrderTypeStopLimit
	default:
		return fmt.Errorf("unknown order type: %q", raw)
	}
	return nil
}
