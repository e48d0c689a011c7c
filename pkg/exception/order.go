package exception

import "errors"

var (
	ErrOrderUnsupportedExchange = errors.New("order: unsupported exchange")
	ErrOrderDuplicateID         = errors.New("order: duplicate in-flight id")
	ErrOrderEmptyID             = errors.New("order: empty id")
	ErrOrderInvalidQuantity     = errors.New("order: quantity must be positive")
	ErrOrderQueueFull           = errors.New("order: queue full")
	ErrOrderQueueClosed         = errors.New("order: queue closed")
)
