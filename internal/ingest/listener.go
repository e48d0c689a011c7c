package ingest

import (
	"context"

	"github.com/bytedance/sonic"
	"github.com/redis/go-redis/v9"
	"github.com/yanun0323/errors"
	"github.com/yanun0323/logs"

	"main/internal/model"
	"main/internal/obs"
	"main/pkg/exception"
)

// Handler receives each decoded order. It may block to apply backpressure.
type Handler func(ctx context.Context, ord model.Order) error

// Listener bridges the inbound pub/sub channel into the router. Malformed
// messages die here; the router only ever sees orders that decoded and
// validated.
type Listener struct {
	rdb     redis.UniversalClient
	channel string
	handler Handler
}

func NewListener(rdb redis.UniversalClient, channel string, handler Handler) *Listener {
	return &Listener{
		rdb:     rdb,
		channel: channel,
		handler: handler,
	}
}

// Run subscribes and forwards until the context ends. Losing the
// subscription is fatal to ingestion; there is no retry at this layer.
func (l *Listener) Run(ctx context.Context) error {
	pubsub := l.rdb.Subscribe(ctx, l.channel)
	defer pubsub.Close()

	if _, err := pubsub.Receive(ctx); err != nil {
		return errors.Wrap(err, "subscribe order channel").With("channel", l.channel)
	}
	logs.Infof("subscribed to order execution channel: %s", l.channel)

	ch := pubsub.Channel()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case msg, ok := <-ch:
			if !ok {
				return exception.ErrIngestSubscriptionClosed
			}

			ord, err := decodeOrder([]byte(msg.Payload))
			if err != nil {
				obs.IngestDropped.Inc()
				continue
			}
			if err := l.handler(ctx, ord); err != nil {
				logs.Errorf("forward order: %s, err: %+v", ord.ID, err)
			}
		}
	}
}

// decodeOrder parses and validates one inbound payload.
func decodeOrder(payload []byte) (model.Order, error) {
	var ord model.Order
	if err := sonic.ConfigFastest.Unmarshal(payload, &ord); err != nil {
		return model.Order{}, err
	}
	if err := ord.Validate(); err != nil {
		return model.Order{}, err
	}
	return ord, nil
}
