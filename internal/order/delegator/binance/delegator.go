package binance

import (
	"context"
	"net/http"
	"time"

	"github.com/google/uuid"

	"main/internal/model"
)

const (
	_binanceBaseUrl    = "https://fapi.binance.com"
	_binanceBaseUrlDev = "https://testnet.binancefuture.com"
)

// Credentials is the API key pair. Empty values mean the delegator cannot
// authenticate once the signed REST path lands; simulated fills ignore them.
type Credentials struct {
	Key    string
	Secret string
}

type Delegator struct {
	client  *http.Client
	creds   Credentials
	testnet bool
}

func NewDelegator(client *http.Client, creds Credentials, testnet bool) *Delegator {
	if client == nil {
		client = &http.Client{Timeout: 15 * time.Second}
	}
	return &Delegator{
		client:  client,
		creds:   creds,
		testnet: testnet,
	}
}

func (d *Delegator) baseUrl() string {
	if d.testnet {
		return _binanceBaseUrlDev
	}
	return _binanceBaseUrl
}

// Send places the order on Binance futures.
// TODO: wire the signed REST call against baseUrl; until then orders fill
// immediately so the pipeline runs end to end.
func (d *Delegator) Send(ctx context.Context, ord model.Order) (model.OrderResult, error) {
	select {
	case <-ctx.Done():
		return model.OrderResult{}, ctx.Err()
	default:
	}

	return model.OrderResult{
		OrderID:         ord.ID,
		ExchangeOrderID: uuid.NewString(),
		Status:          model.StatusFilled,
		FilledQuantity:  ord.Quantity,
		AveragePrice:    ord.LimitPrice(),
		Timestamp:       time.Now().UTC(),
	}, nil
}
