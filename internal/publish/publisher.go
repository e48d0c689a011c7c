package publish

import (
	"context"

	"github.com/bytedance/sonic"
	"github.com/redis/go-redis/v9"
	"github.com/yanun0323/errors"

	"main/internal/model"
)

// Publisher emits completed-order outcomes on the result channel. Delivery
// is at most once; a failed publish is the caller's to log and drop.
type Publisher struct {
	rdb     redis.UniversalClient
	channel string
}

func NewPublisher(rdb redis.UniversalClient, channel string) *Publisher {
	return &Publisher{
		rdb:     rdb,
		channel: channel,
	}
}

func (p *Publisher) Publish(ctx context.Context, res model.OrderResult) error {
	payload, err := encodeResult(res)
	if err != nil {
		return errors.Wrap(err, "encode order result").With("order_id", res.OrderID)
	}
	if err := p.rdb.Publish(ctx, p.channel, payload).Err(); err != nil {
		return errors.Wrap(err, "publish order result").With("order_id", res.OrderID)
	}
	return nil
}

func encodeResult(res model.OrderResult) ([]byte, error) {
	return sonic.ConfigFastest.Marshal(res)
}
