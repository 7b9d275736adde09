package workercmd

import (
	"fmt"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/signoffhq/signoff/internal/cli/common"
	"github.com/signoffhq/signoff/internal/usage/worker"
)

// New returns the usage-worker command. It drains the usage stream from
// Redis and materializes per-org action counts into ClickHouse.
func New() *cobra.Command {
	v := viper.New()
	v.SetEnvPrefix("SIGNOFF_WORKER")
	v.AutomaticEnv()

	cmd := &cobra.Command{
		Use:   "usage-worker",
		Short: "Run the usage aggregation worker",
		RunE: func(cmd *cobra.Command, args []string) error {
			common.SetupLoggerWithFile(v.GetString("log-level"), v.GetString("log-format"), "", 0, 0, 0, false)

			if err := common.ValidateWorkerConfig(v); err != nil {
				return fmt.Errorf("invalid worker config: %w", err)
			}
			var cfg worker.Config
			if err := v.Unmarshal(&cfg); err != nil {
				return fmt.Errorf("decode worker config: %w", err)
			}

			w, err := worker.New(cfg)
			if err != nil {
				return fmt.Errorf("start worker: %w", err)
			}
			defer w.Close()

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()
			return w.Run(ctx)
		},
	}

	flags := cmd.Flags()
	flags.String("redis-url", "redis://127.0.0.1:6379/0", "redis connection url")
	flags.String("stream", "", "usage stream name (default signoff:usage)")
	flags.String("group", "signoff-usage", "consumer group name")
	flags.String("consumer", "", "consumer name (defaults to a generated id)")
	flags.String("clickhouse-dsn", "", "clickhouse dsn, e.g. clickhouse://127.0.0.1:9000/signoff")
	flags.Duration("flush-interval", 15*time.Second, "how often to flush daily rollups")
	flags.String("log-level", "info", "log level")
	flags.String("log-format", "json", "log format (json or text)")
	for _, key := range []string{"redis-url", "stream", "group", "consumer", "clickhouse-dsn", "flush-interval", "log-level", "log-format"} {
		_ = v.BindPFlag(key, flags.Lookup(key))
	}

	return cmd
}
