package events

import (
    "context"
    "encoding/json"
    "time"

    redis "github.com/redis/go-redis/v9"
)

// RedisBroadcaster publishes websocket.broadcast envelopes on a redis
// pub/sub channel so every process instance can fan them out to its own
// websocket listeners.
type RedisBroadcaster struct {
    cli     *redis.Client
    channel string
}

func NewRedisBroadcaster(cli *redis.Client, channel string) *RedisBroadcaster {
    if channel == "" {
        channel = "signoff:broadcast"
    }
    return &RedisBroadcaster{cli: cli, channel: channel}
}

func (b *RedisBroadcaster) Handle(ctx context.Context, e Event) error {
    bc, ok := e.(Broadcast)
    if !ok {
        return nil
    }
    payload, err := json.Marshal(bc)
    if err != nil {
        return err
    }
    pctx, cancel := context.WithTimeout(ctx, 2*time.Second)
    defer cancel()
    return b.cli.Publish(pctx, b.channel, payload).Err()
}
