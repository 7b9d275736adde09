package cache

import (
    "context"
    "errors"
    "time"

    redis "github.com/redis/go-redis/v9"
)

// Redis backs the cache with a shared redis instance.
type Redis struct {
    cli *redis.Client
}

func NewRedis(url string) (*Redis, error) {
    opt, err := redis.ParseURL(url)
    if err != nil {
        return nil, err
    }
    return &Redis{cli: redis.NewClient(opt)}, nil
}

func NewRedisFromClient(cli *redis.Client) *Redis { return &Redis{cli: cli} }

func (r *Redis) Close() error { return r.cli.Close() }

func (r *Redis) Get(ctx context.Context, key string) ([]byte, bool, error) {
    b, err := r.cli.Get(ctx, key).Bytes()
    if errors.Is(err, redis.Nil) {
        return nil, false, nil
    }
    if err != nil {
        return nil, false, err
    }
    return b, true, nil
}

func (r *Redis) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
    return r.cli.Set(ctx, key, value, ttl).Err()
}

func (r *Redis) Delete(ctx context.Context, keys ...string) error {
    if len(keys) == 0 {
        return nil
    }
    return r.cli.Del(ctx, keys...).Err()
}

// DeletePrefix scans instead of KEYS so large keyspaces don't block redis.
func (r *Redis) DeletePrefix(ctx context.Context, prefix string) error {
    iter := r.cli.Scan(ctx, 0, prefix+"*", 256).Iterator()
    var batch []string
    for iter.Next(ctx) {
        batch = append(batch, iter.Val())
        if len(batch) >= 256 {
            if err := r.cli.Del(ctx, batch...).Err(); err != nil {
                return err
            }
            batch = batch[:0]
        }
    }
    if err := iter.Err(); err != nil {
        return err
    }
    if len(batch) > 0 {
        return r.cli.Del(ctx, batch...).Err()
    }
    return nil
}
