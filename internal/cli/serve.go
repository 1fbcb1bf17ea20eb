package cli

import (
	"context"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/matzehuels/kintree/internal/server"
	"github.com/matzehuels/kintree/pkg/cache"
	"github.com/matzehuels/kintree/pkg/observability"
	"github.com/matzehuels/kintree/pkg/pipeline"
)

func (c *CLI) serveCommand() *cobra.Command {
	var (
		addr        string
		proximityKm float64
		noCache     bool
	)

	cmd := &cobra.Command{
		Use:   "serve [family]",
		Short: "Serve a family over HTTP",
		Long: `Serve a family over HTTP.

The family is loaded once and kept in memory; POST /api/reload re-reads the
file. Layouts are cached per family content in the configured cache, and
Prometheus metrics are exposed on /metrics.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if addr == "" {
				addr = c.Config.Server.Addr
			}
			if proximityKm < 0 {
				proximityKm = c.Config.Map.ProximityKm
			}
			return c.runServe(cmd.Context(), args[0], addr, proximityKm, noCache)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "listen address (default from config, :8080)")
	cmd.Flags().Float64Var(&proximityKm, "proximity", -1, "connect members within this many km for routes (0 connects all)")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable layout caching")
	return cmd
}

func (c *CLI) runServe(ctx context.Context, source, addr string, proximityKm float64, noCache bool) error {
	backend, err := c.newCache(ctx, noCache)
	if err != nil {
		return err
	}
	abs, err := filepath.Abs(source)
	if err != nil {
		abs = source
	}
	keyer := cache.NewScopedKeyer(nil, "serve:"+cache.Hash([]byte(abs))[:12]+":")
	runner := pipeline.NewRunner(backend, keyer, c.Logger)
	defer runner.Close()

	var defaults pipeline.Options
	c.applyConfig(&defaults)
	defaults.Logger = c.Logger

	metrics := server.NewMetrics()
	metrics.Register()
	defer observability.Reset()

	srv, err := server.New(server.Options{
		Source:      source,
		Defaults:    defaults,
		ProximityKm: proximityKm,
		Runner:      runner,
		Metrics:     metrics,
		Logger:      c.Logger,
	})
	if err != nil {
		return err
	}
	return srv.ListenAndServe(ctx, addr, c.Config.Server.ReadTimeout.Duration, c.Config.Server.WriteTimeout.Duration)
}
