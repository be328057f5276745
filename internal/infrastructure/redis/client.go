// Package redis wraps go-redis behind the small surface the rate
// limiter and the bootstrap probe need.
package redis

import (
	"context"
	"time"

	goredis "github.com/redis/go-redis/v9"
)

const probeTimeout = 2 * time.Second

type Client struct {
	rdb *goredis.Client
}

// New does not dial; go-redis connects lazily on first use. Bootstrap
// calls Ping right after to verify the address.
func New(addr, password string, db int) *Client {
	return &Client{
		rdb: goredis.NewClient(&goredis.Options{
			Addr:     addr,
			Password: password,
			DB:       db,
		}),
	}
}

func (c *Client) Ping(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, probeTimeout)
	defer cancel()
	return c.rdb.Ping(ctx).Err()
}

func (c *Client) Close() error {
	return c.rdb.Close()
}
