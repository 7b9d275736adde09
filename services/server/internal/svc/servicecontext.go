// Code scaffolded by goctl. Safe to edit.
// goctl 1.9.2

package svc

import (
	"context"
	"fmt"
	"time"

	redis "github.com/redis/go-redis/v9"
	"github.com/zeromicro/go-zero/core/logx"

	auditchain "github.com/signoffhq/signoff/internal/audit/chain"
	"github.com/signoffhq/signoff/internal/auth/rbac"
	"github.com/signoffhq/signoff/internal/auth/seed"
	"github.com/signoffhq/signoff/internal/auth/token"
	"github.com/signoffhq/signoff/internal/cache"
	"github.com/signoffhq/signoff/internal/db"
	"github.com/signoffhq/signoff/internal/events"
	"github.com/signoffhq/signoff/internal/notify"
	"github.com/signoffhq/signoff/internal/objstore"
	approvalsgorm "github.com/signoffhq/signoff/internal/repo/gorm/approvals"
	usersgorm "github.com/signoffhq/signoff/internal/repo/gorm/users"
	"github.com/signoffhq/signoff/internal/routing"
	"github.com/signoffhq/signoff/internal/service/approvals"
	"github.com/signoffhq/signoff/internal/telemetry"
	"github.com/signoffhq/signoff/internal/usage"
	"github.com/signoffhq/signoff/internal/validation"
	"github.com/signoffhq/signoff/services/server/internal/config"
)

type ServiceContext struct {
	Config config.Config

	Approvals *approvals.Service
	Users     *usersgorm.Repo
	Tokens    *token.Manager
	Rbac      *rbac.Enforcer
	Schemas   *validation.Schemas

	stopWatch func()
	closers   []func() error
}

func NewServiceContext(c config.Config) (*ServiceContext, error) {
	ctx := context.Background()
	s := &ServiceContext{Config: c}

	tel, err := telemetry.NewProvider(ctx, telemetry.Config{
		ServiceName:   c.Name,
		Environment:   c.Telemetry.Environment,
		CollectorURL:  c.Telemetry.CollectorURL,
		SamplingRatio: c.Telemetry.SamplingRatio,
	})
	if err != nil {
		return nil, fmt.Errorf("telemetry: %w", err)
	}
	if tel != nil {
		s.closers = append(s.closers, func() error {
			sctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			return tel.Shutdown(sctx)
		})
	}

	gdb, err := db.Open(c.Database.DSN)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	if err := approvalsgorm.AutoMigrate(gdb); err != nil {
		return nil, fmt.Errorf("migrate approvals: %w", err)
	}
	if err := usersgorm.AutoMigrate(gdb); err != nil {
		return nil, fmt.Errorf("migrate users: %w", err)
	}
	repo := approvalsgorm.New(gdb)
	s.Users = usersgorm.New(gdb)

	if c.Seed.UsersPath != "" {
		if err := seed.Apply(ctx, s.Users, c.Seed.UsersPath); err != nil {
			return nil, err
		}
	}

	var rcli *redis.Client
	if c.Redis.URL != "" {
		opt, err := redis.ParseURL(c.Redis.URL)
		if err != nil {
			return nil, fmt.Errorf("redis url: %w", err)
		}
		rcli = redis.NewClient(opt)
		s.closers = append(s.closers, rcli.Close)
	}

	var store cache.Cache
	switch c.Cache.Driver {
	case "redis":
		if rcli == nil {
			return nil, fmt.Errorf("cache driver redis requires redis.url")
		}
		store = cache.NewRedisFromClient(rcli)
	default:
		store = cache.NewMemory()
	}

	bus := events.NewBus()
	if len(c.Events.KafkaBrokers) > 0 {
		pub := events.NewKafkaPublisher(c.Events.KafkaBrokers, c.Events.KafkaTopic)
		bus.SubscribeAll(pub)
		s.closers = append(s.closers, pub.Close)
	}
	if rcli != nil {
		bus.Subscribe(events.KindBroadcast, events.NewRedisBroadcaster(rcli, c.Events.BroadcastChannel))
	}
	bus.SubscribeAll(notify.NewEventHandler(notify.LogDispatcher{}))

	if c.Usage.Type != "" {
		q, err := usage.New(usage.Config{
			Type:     c.Usage.Type,
			RedisURL: c.Redis.URL,
			Stream:   c.Usage.Stream,
			Brokers:  c.Usage.Brokers,
			Topic:    c.Usage.Topic,
		})
		if err != nil {
			return nil, fmt.Errorf("usage queue: %w", err)
		}
		usage.Attach(bus, q)
		s.closers = append(s.closers, q.Close)
	}

	th := routing.DefaultThresholds
	if c.Routing.ThresholdsPath != "" {
		if th, err = routing.LoadThresholds(c.Routing.ThresholdsPath); err != nil {
			return nil, fmt.Errorf("load thresholds: %w", err)
		}
	}
	engine := routing.NewEngine(s.Users, th)
	if c.Routing.ThresholdsPath != "" {
		stop, err := routing.Watch(c.Routing.ThresholdsPath, engine)
		if err != nil {
			logx.Infof("thresholds watch disabled: %v", err)
		} else {
			s.stopWatch = stop
		}
	}

	opts := approvals.Options{
		HighPriorityAmount: c.Routing.HighPriorityAmount,
		CacheTTL:           time.Duration(c.Cache.TTLSeconds) * time.Second,
	}
	if c.Audit.Path != "" {
		w, err := auditchain.NewWriter(c.Audit.Path)
		if err != nil {
			return nil, fmt.Errorf("audit writer: %w", err)
		}
		opts.Audit = w
		s.closers = append(s.closers, w.Close)
	}
	if c.Storage.Driver != "" {
		blob, err := objstore.Open(ctx, objstore.Config{
			Driver:    c.Storage.Driver,
			Bucket:    c.Storage.Bucket,
			Region:    c.Storage.Region,
			Endpoint:  c.Storage.Endpoint,
			AccessKey: c.Storage.AccessKey,
			SecretKey: c.Storage.SecretKey,
			BaseDir:   c.Storage.BaseDir,
			PathStyle: c.Storage.PathStyle,
		})
		if err != nil {
			return nil, fmt.Errorf("object store: %w", err)
		}
		opts.Store = blob
	}

	s.Approvals = approvals.NewService(repo, s.Users, store, bus, engine, opts)

	ttl := time.Duration(c.Auth.TTLHours) * time.Hour
	s.Tokens = token.NewManager(c.Auth.Secret, ttl)

	if s.Rbac, err = rbac.New(c.Rbac.ModelPath, c.Rbac.PolicyPath); err != nil {
		return nil, fmt.Errorf("rbac: %w", err)
	}
	if s.Schemas, err = validation.NewSchemas(); err != nil {
		return nil, err
	}
	return s, nil
}

// Close releases watchers and broker connections.
func (s *ServiceContext) Close() {
	if s.stopWatch != nil {
		s.stopWatch()
	}
	for _, fn := range s.closers {
		if err := fn(); err != nil {
			logx.Errorf("close: %v", err)
		}
	}
}
