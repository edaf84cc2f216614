package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/matzehuels/flowlayout/internal/server"
	"github.com/matzehuels/flowlayout/pkg/cache"
	"github.com/matzehuels/flowlayout/pkg/layout"
	"github.com/matzehuels/flowlayout/pkg/pipeline"
)

// keyPrefix namespaces solver cache keys in a shared redis.
const keyPrefix = appName + ":"

// serveCommand creates the serve command that runs the HTTP API.
func (c *CLI) serveCommand() *cobra.Command {
	var (
		addr       string
		redisAddr  string
		redisPass  string
		redisDB    int
		configPath string
		solverName string
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP layout API",
		Long: `Run the HTTP layout API.

Without --redis-addr solver results are cached in the local cache directory.
With it, every instance behind the same redis shares one cache.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			logger := loggerFromContext(ctx)

			if err := pipeline.ValidateSolver(solverName); err != nil {
				return err
			}
			cfg := layout.DefaultConfig()
			if configPath != "" {
				loaded, err := layout.LoadConfig(configPath)
				if err != nil {
					return err
				}
				cfg = loaded
			}

			var runner *pipeline.Runner
			if redisAddr != "" {
				rc, err := cache.NewRedisCache(ctx, cache.RedisConfig{Addr: redisAddr, Password: redisPass, DB: redisDB})
				if err != nil {
					return fmt.Errorf("connect cache: %w", err)
				}
				runner = pipeline.NewRunner(rc, logger)
				runner.Keyer = cache.NewScopedKeyer(nil, keyPrefix)
				logger.Info("using redis cache", "addr", redisAddr, "db", redisDB)
			} else {
				var err error
				if runner, err = c.newRunner(false); err != nil {
					return fmt.Errorf("initialize runner: %w", err)
				}
			}
			defer runner.Close()

			srv := server.New(runner, logger, server.WithConfig(cfg), server.WithSolver(solverName))
			return srv.ListenAndServe(ctx, addr)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", ":8080", "listen address")
	cmd.Flags().StringVar(&redisAddr, "redis-addr", "", "redis address for a shared solver cache")
	cmd.Flags().StringVar(&redisPass, "redis-password", "", "redis password")
	cmd.Flags().IntVar(&redisDB, "redis-db", 0, "redis database number")
	cmd.Flags().StringVar(&configPath, "config", "", "layout config file (TOML)")
	cmd.Flags().StringVar(&solverName, "solver", pipeline.DefaultSolver, "default layout solver: layered, graphviz")

	return cmd
}
