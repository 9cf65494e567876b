package infra

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
)

// redisPingTimeout bounds the startup connectivity check; the workers block
// on BRPOP later, so a dead Redis must fail the boot, not the first job.
const redisPingTimeout = 5 * time.Second

// NewRedis connects the shared client used for the dashboard cache, reset
// tokens, alert dedup and the job queues.
func NewRedis(redisURL string) (*redis.Client, error) {
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, err
	}
	// The worker pool holds one blocking connection per worker on top of
	// the request-path traffic.
	opts.MinIdleConns = 2

	rdb := redis.NewClient(opts)

	ctx, cancel := context.WithTimeout(context.Background(), redisPingTimeout)
	defer cancel()
	if err := rdb.Ping(ctx).Err(); err != nil {
		return nil, err
	}
	return rdb, nil
}
