package conn

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	defaultRedisHost = "localhost"
	defaultRedisPort = 6379

	pingTimeout = 5 * time.Second
)

// Option defines connection options for Redis.
type Option struct {
	Host     string
	Port     int
	Password string
	DB       int
	URL      string // takes precedence when set, e.g. redis://localhost:6379
}

// Client wraps a Redis connection pool. The pool is safe for concurrent use
// by many publishing and subscribing goroutines.
type Client struct {
	opt Option
	rdb *redis.Client
}

// New creates a Redis client from the provided options and verifies the
// connection.
func New(ctx context.Context, option Option) (*Client, error) {
	opts, err := option.options()
	if err != nil {
		return nil, err
	}

	rdb := redis.NewClient(opts)

	pingCtx, cancel := context.WithTimeout(ctx, pingTimeout)
	defer cancel()
	if err := rdb.Ping(pingCtx).Err(); err != nil {
		_ = rdb.Close()
		return nil, err
	}

	return &Client{opt: option, rdb: rdb}, nil
}

// Redis returns the underlying client.
func (c *Client) Redis() *redis.Client {
	if c == nil {
		return nil
	}
	return c.rdb
}

// Close closes the underlying connection pool.
func (c *Client) Close() error {
	if c == nil || c.rdb == nil {
		return nil
	}
	return c.rdb.Close()
}

func (opt Option) options() (*redis.Options, error) {
	if opt.URL != "" {
		return redis.ParseURL(opt.URL)
	}

	host := opt.Host
	if host == "" {
		host = defaultRedisHost
	}

	port := opt.Port
	if port == 0 {
		port = defaultRedisPort
	}

	return &redis.Options{
		Addr:     fmt.Sprintf("%s:%d", host, port),
		Password: opt.Password,
		DB:       opt.DB,
	}, nil
}
