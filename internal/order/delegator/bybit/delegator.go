package bybit

import (
	"context"
	"net/http"
	"time"

	"github.com/google/uuid"

	"main/internal/model"
)

const (
	_bybitBaseUrl    = "https://api.bybit.com"
	_bybitBaseUrlDev = "https://api-testnet.bybit.com"
)

// Credentials is the API key pair for the v5 trade endpoints.
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
		return _bybitBaseUrlDev
	}
	return _bybitBaseUrl
}

// Send places the order on Bybit.
// TODO: wire the signed v5 order/create call; until then orders fill
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
