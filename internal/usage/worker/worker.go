// Package worker drains the usage stream into ClickHouse. Raw actions
// land in signoff.actions; per-day counts aggregate in memory and flush
// into signoff.daily_actions on a ticker.
package worker

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	clickhouse "github.com/ClickHouse/clickhouse-go/v2"
	redis "github.com/redis/go-redis/v9"

	"github.com/signoffhq/signoff/internal/usage"
)

type Config struct {
	RedisURL      string        `mapstructure:"redis-url"`
	Stream        string        `mapstructure:"stream"`
	Group         string        `mapstructure:"group"`
	Consumer      string        `mapstructure:"consumer"`
	ClickhouseDSN string        `mapstructure:"clickhouse-dsn"`
	FlushInterval time.Duration `mapstructure:"flush-interval"`
}

type Worker struct {
	rdb      *redis.Client
	ch       clickhouse.Conn
	stream   string
	group    string
	consumer string
	flushEvy time.Duration

	// org|day|action -> count, flushed periodically
	mu     sync.Mutex
	counts map[string]uint64
}

func New(c Config) (*Worker, error) {
	if c.RedisURL == "" {
		c.RedisURL = "redis://localhost:6379/0"
	}
	opt, err := redis.ParseURL(c.RedisURL)
	if err != nil {
		return nil, fmt.Errorf("redis: %w", err)
	}
	if c.Stream == "" {
		c.Stream = usage.DefaultStream
	}
	if c.Group == "" {
		c.Group = "usage-worker"
	}
	if c.Consumer == "" {
		c.Consumer = fmt.Sprintf("c-%d", time.Now().UnixNano())
	}
	if c.FlushInterval <= 0 {
		c.FlushInterval = 15 * time.Second
	}
	dsn := c.ClickhouseDSN
	if dsn == "" {
		dsn = "clickhouse://localhost:9000/signoff"
	}
	addr := strings.TrimPrefix(dsn, "clickhouse://")
	if i := strings.Index(addr, "/"); i >= 0 {
		addr = addr[:i]
	}
	ch, err := clickhouse.Open(&clickhouse.Options{Addr: []string{addr}})
	if err != nil {
		return nil, fmt.Errorf("clickhouse: %w", err)
	}
	return &Worker{
		rdb:      redis.NewClient(opt),
		ch:       ch,
		stream:   c.Stream,
		group:    c.Group,
		consumer: c.Consumer,
		flushEvy: c.FlushInterval,
		counts:   map[string]uint64{},
	}, nil
}

func (w *Worker) Run(ctx context.Context) error {
	_ = w.rdb.XGroupCreateMkStream(ctx, w.stream, w.group, "$").Err()

	go func() {
		tk := time.NewTicker(w.flushEvy)
		defer tk.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-tk.C:
				if err := w.flush(ctx); err != nil {
					slog.Warn("usage flush", "err", err)
				}
			}
		}
	}()

	for {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		res, err := w.rdb.XReadGroup(ctx, &redis.XReadGroupArgs{
			Group:    w.group,
			Consumer: w.consumer,
			Streams:  []string{w.stream, ">"},
			Count:    200,
			Block:    2 * time.Second,
		}).Result()
		if err != nil && err != redis.Nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			slog.Warn("usage xreadgroup", "err", err)
			continue
		}
		for _, str := range res {
			for _, msg := range str.Messages {
				w.consume(ctx, msg)
				_ = w.rdb.XAck(ctx, str.Stream, w.group, msg.ID).Err()
			}
		}
	}
}

func (w *Worker) consume(ctx context.Context, msg redis.XMessage) {
	data, _ := msg.Values["data"].(string)
	if data == "" {
		return
	}
	var rec usage.Record
	if err := json.Unmarshal([]byte(data), &rec); err != nil {
		slog.Warn("usage decode", "id", msg.ID, "err", err)
		return
	}
	if err := w.insert(ctx, rec); err != nil {
		slog.Warn("usage insert", "approval", rec.ApprovalID, "err", err)
	}
	w.touch(rec)
}

func (w *Worker) insert(ctx context.Context, rec usage.Record) error {
	batch, err := w.ch.PrepareBatch(ctx,
		"INSERT INTO signoff.actions (ts, org_id, branch_id, approval_id, reference, type, action, from_status, to_status, actor_id, actor_role, amount, currency)")
	if err != nil {
		return err
	}
	t := rec.Time
	if t.IsZero() {
		t = time.Now()
	}
	if err := batch.Append(t, rec.OrgID, rec.BranchID, rec.ApprovalID, rec.Reference,
		rec.Type, rec.Action, rec.FromStatus, rec.ToStatus, rec.ActorID, rec.ActorRole,
		rec.Amount, rec.Currency); err != nil {
		return err
	}
	return batch.Send()
}

func (w *Worker) touch(rec usage.Record) {
	t := rec.Time
	if t.IsZero() {
		t = time.Now()
	}
	key := fmt.Sprintf("%s|%s|%s", rec.OrgID, t.Format("2006-01-02"), rec.Action)
	w.mu.Lock()
	w.counts[key]++
	w.mu.Unlock()
}

func (w *Worker) flush(ctx context.Context) error {
	w.mu.Lock()
	pending := w.counts
	w.counts = map[string]uint64{}
	w.mu.Unlock()
	if len(pending) == 0 {
		return nil
	}
	batch, err := w.ch.PrepareBatch(ctx,
		"INSERT INTO signoff.daily_actions (d, org_id, action, total, version)")
	if err != nil {
		return err
	}
	ver := uint64(time.Now().Unix())
	for key, n := range pending {
		parts := strings.SplitN(key, "|", 3)
		if len(parts) != 3 {
			continue
		}
		d, err := time.Parse("2006-01-02", parts[1])
		if err != nil {
			continue
		}
		if err := batch.Append(d, parts[0], parts[2], n, ver); err != nil {
			return err
		}
	}
	return batch.Send()
}

func (w *Worker) Close() error {
	_ = w.rdb.Close()
	return w.ch.Close()
}
