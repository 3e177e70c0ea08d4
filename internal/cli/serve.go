package cli

import (
	"context"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/spf13/cobra"

	"github.com/matzehuels/wordstream/internal/server"
	"github.com/matzehuels/wordstream/pkg/cache"
	"github.com/matzehuels/wordstream/pkg/config"
	"github.com/matzehuels/wordstream/pkg/metrics"
	"github.com/matzehuels/wordstream/pkg/pipeline"
	"github.com/matzehuels/wordstream/pkg/session"
)

// serveCommand creates the serve command.
func (c *CLI) serveCommand() *cobra.Command {
	var (
		addr      string
		redisAddr string
		noMetrics bool
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		Long: `Serve the cloud and stream pipelines over HTTP.

Cloud sessions live in memory unless a redis address is configured, in which
case sessions and the artifact cache are shared through redis.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := c.loadConfig()
			if err != nil {
				return err
			}
			if addr != "" {
				cfg.Addr = addr
			}
			if redisAddr != "" {
				cfg.RedisAddr = redisAddr
			}
			return c.runServe(cmd.Context(), cfg, !noMetrics)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "listen address (default from config, :8080)")
	cmd.Flags().StringVar(&redisAddr, "redis", "", "redis address for shared cache and sessions")
	cmd.Flags().BoolVar(&noMetrics, "no-metrics", false, "do not expose /metrics")

	return cmd
}

func (c *CLI) runServe(ctx context.Context, cfg *config.Config, withMetrics bool) error {
	runner, sessions, err := c.serverBackends(ctx, cfg)
	if err != nil {
		return err
	}
	defer runner.Close()
	defer sessions.Close()

	srvCfg := server.Config{
		Runner:     runner,
		Sessions:   sessions,
		SessionTTL: cfg.SessionTTL,
		Logger:     c.Logger,
	}
	if withMetrics {
		reg := prometheus.NewRegistry()
		reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
		m := metrics.New(reg)
		m.Register()
		srvCfg.Metrics = m.Handler()
	}

	c.Logger.Info("starting server", "addr", cfg.Addr, "redis", cfg.RedisAddr != "", "metrics", withMetrics)
	return server.New(srvCfg).ListenAndServe(ctx, cfg.Addr)
}

// serverBackends picks redis for both the cache and sessions when
// configured, otherwise the file cache and in-memory sessions.
func (c *CLI) serverBackends(ctx context.Context, cfg *config.Config) (*pipeline.Runner, session.Store, error) {
	if cfg.RedisAddr == "" {
		runner, err := c.newRunner(cfg, false)
		if err != nil {
			return nil, nil, err
		}
		return runner, session.NewMemoryStore(), nil
	}
	rc, err := cache.NewRedisCache(ctx, cache.RedisConfig{Addr: cfg.RedisAddr})
	if err != nil {
		return nil, nil, err
	}
	keyer := cache.NewScopedKeyer(nil, appName+":")
	runner := pipeline.NewRunner(rc, keyer, c.Logger)
	// the runner closes the shared client
	return runner, session.NewRedisStore(rc.Client()), nil
}
