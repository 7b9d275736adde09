package usage

import (
	"context"
	"encoding/json"
	"time"

	redis "github.com/redis/go-redis/v9"
)

const DefaultStream = "signoff:usage"

type redisQueue struct {
	cli    *redis.Client
	stream string
	maxLen int64
}

// NewRedis publishes records onto a Redis Stream, trimmed approximately
// at maxLen so the stream cannot grow unbounded when no worker runs.
func NewRedis(url, stream string, maxLen int64) (Queue, error) {
	opt, err := redis.ParseURL(url)
	if err != nil {
		return nil, err
	}
	if stream == "" {
		stream = DefaultStream
	}
	if maxLen <= 0 {
		maxLen = 1_000_000
	}
	return &redisQueue{cli: redis.NewClient(opt), stream: stream, maxLen: maxLen}, nil
}

func (q *redisQueue) Publish(rec Record) error {
	b, err := json.Marshal(rec)
	if err != nil {
		return err
	}
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	return q.cli.XAdd(ctx, &redis.XAddArgs{
		Stream: q.stream,
		MaxLen: q.maxLen,
		Approx: true,
		Values: map[string]any{"data": string(b)},
	}).Err()
}

func (q *redisQueue) Close() error { return q.cli.Close() }
