package enum

import (
	"encoding/json"
	"strings"
)

// Exchange binance, bybit
type Exchange uint8

const (
	ExchangeUnknown Exchange = iota
	ExchangeBinance
	ExchangeBybit
	_exchange_end
)

func (e Exchange) IsAvailable() bool {
	return e > ExchangeUnknown && e < _exchange_end
}

func (e Exchange) String() string {
	switch e {
	case ExchangeBinance:
		return "binance"
	case ExchangeBybit:
		return "bybit"
	default:
		return "unknown"
	}
}

func ParseExchange(s string) Exchange {
	switch strings.ToLower(s) {
	case "binance":
		return ExchangeBinance
	case "bybit":
		return ExchangeBybit
	default:
		return ExchangeUnknown
	}
}

func (e Exchange) MarshalJSON() ([]byte, error) {
	return json.Marshal(e.String())
}

// Unknown exchange names decode to ExchangeUnknown instead of failing, so
// routing can reject them with the order id attached.
func (e *Exchange) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	*e = ParseExchange(s)
	return nil
}
