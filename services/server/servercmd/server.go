// Package servercmd hosts the `signoff server` command.
package servercmd

import (
	"fmt"
	"log"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"github.com/zeromicro/go-zero/core/conf"
	"github.com/zeromicro/go-zero/rest"

	common "github.com/signoffhq/signoff/internal/cli/common"
	"github.com/signoffhq/signoff/services/server/internal/config"
	"github.com/signoffhq/signoff/services/server/internal/handler"
	"github.com/signoffhq/signoff/services/server/internal/svc"
)

// New returns the `signoff server` command.
func New() *cobra.Command {
	var cfgFile, profile string
	var includes []string
	cmd := &cobra.Command{
		Use:   "server",
		Short: "Run the signoff API server",
		RunE: func(cmd *cobra.Command, args []string) error {
			v, err := common.LoadWithIncludes(cfgFile, includes)
			if err != nil {
				log.Printf("[warn] read config: %v", err)
				v = viper.New()
			} else {
				log.Printf("[config] using %s", cfgFile)
			}
			if profile != "" {
				v, err = common.ApplyProfile(v, profile)
				if err != nil {
					return fmt.Errorf("apply profile: %w", err)
				}
			}
			v.SetEnvPrefix("SIGNOFF_SERVER")
			v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
			v.AutomaticEnv()

			common.MergeLogSection(v)
			common.SetupLoggerWithFile(
				v.GetString("log.level"), v.GetString("log.format"),
				v.GetString("log.file"), v.GetInt("log.max_size"),
				v.GetInt("log.max_backups"), v.GetInt("log.max_age"),
				v.GetBool("log.compress"),
			)

			var c config.Config
			conf.MustLoad(cfgFile, &c)
			if err := common.ValidateServerConfig(v, false); err != nil {
				return fmt.Errorf("config invalid: %w", err)
			}

			server := rest.MustNewServer(c.RestConf)
			defer server.Stop()

			ctx, err := svc.NewServiceContext(c)
			if err != nil {
				return fmt.Errorf("init service context: %w", err)
			}
			defer ctx.Close()
			handler.RegisterHandlers(server, ctx)

			log.Printf("listening on %s:%d", c.Host, c.Port)
			server.Start()
			return nil
		},
	}
	cmd.Flags().StringVar(&cfgFile, "config", "etc/server.yaml", "config file path")
	cmd.Flags().StringSliceVar(&includes, "include", nil, "additional config files merged over the base")
	cmd.Flags().StringVar(&profile, "profile", "", "overlay profiles.<name> from the config")
	return cmd
}
