package cli

import (
	"context"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/matzehuels/kintree/internal/config"
	"github.com/matzehuels/kintree/pkg/buildinfo"
	"github.com/matzehuels/kintree/pkg/cache"
	"github.com/matzehuels/kintree/pkg/pipeline"
	"github.com/matzehuels/kintree/pkg/store"
)

// Log levels exported for use in main.go.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
)

// CLI carries the logger and configuration every command reads.
type CLI struct {
	Logger *log.Logger
	Config *config.Config

	out        io.Writer
	configPath string
}

// New returns a CLI logging to w at level. Command output goes to stdout
// until a command runs, then to the command's output stream.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{
		Logger: newLogger(w, level),
		Config: config.Default(),
		out:    os.Stdout,
	}
}

func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// RootCommand builds the kintree command tree.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:   "kintree",
		Short: "Kintree lays out and measures family trees",
		Long: `Kintree loads a family from a TOML definition or a JSON/YAML record list,
draws it as a generational tree, a Graphviz node-link diagram or a map,
and answers distance questions about where its members live.`,
		Version:      buildinfo.Version,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			c.out = cmd.OutOrStdout()
			cfg, err := config.Load(c.configPath)
			if err != nil {
				return err
			}
			c.Config = cfg
			if cfg.Path != "" {
				c.Logger.Debug("loaded config", "path", cfg.Path)
			}
			return nil
		},
	}

	root.SetVersionTemplate(buildinfo.Template())
	root.PersistentFlags().StringVar(&c.configPath, "config", "", "config file (default: $XDG_CONFIG_HOME/kintree/config.toml)")

	for _, sub := range []*cobra.Command{
		c.renderCommand(), c.mapCommand(),
		c.statsCommand(), c.distancesCommand(), c.routeCommand(),
		c.exportCommand(), c.importCommand(),
		c.pushCommand(), c.pullCommand(), c.datasetsCommand(),
		c.serveCommand(), c.cacheCommand(), c.completionCommand(),
	} {
		if strings.Contains(sub.Use, "[family]") || strings.Contains(sub.Use, "[records]") {
			sub.ValidArgsFunction = completeFamilyFile
		}
		root.AddCommand(sub)
	}

	return root
}

// newRunner returns a runner over the configured cache.
func (c *CLI) newRunner(ctx context.Context, noCache bool) (*pipeline.Runner, error) {
	backend, err := c.newCache(ctx, noCache)
	if err != nil {
		return nil, err
	}
	r := pipeline.NewRunner(backend, nil, c.Logger)
	r.ArtifactTTL = c.Config.CacheTTL(cache.TTLArtifact)
	return r, nil
}

// newCache picks Redis when an address is configured, otherwise the file
// cache. A cache directory that cannot be resolved disables caching.
func (c *CLI) newCache(ctx context.Context, noCache bool) (cache.Cache, error) {
	if noCache || c.Config.Cache.Disabled {
		return cache.NewNullCache(), nil
	}
	if addr := c.Config.Cache.RedisAddr; addr != "" {
		rc, err := cache.NewRedisCache(ctx, addr, c.Config.Cache.RedisPassword, c.Config.Cache.RedisDB)
		if err != nil {
			return nil, err
		}
		c.Logger.Debug("using redis cache", "addr", addr)
		return rc, nil
	}
	dir, err := c.Config.CacheDir()
	if err != nil {
		c.Logger.Warn("no cache directory, caching disabled", "err", err)
		return cache.NewNullCache(), nil
	}
	return cache.NewFileCache(dir)
}

func (c *CLI) openStore(ctx context.Context) (store.Store, error) {
	cfg := c.Config.Store
	if cfg.Backend == config.BackendMongo {
		return store.NewMongoStore(ctx, cfg.MongoURI, cfg.Database, cfg.Collection)
	}
	dir, err := c.Config.StoreDir()
	if err != nil {
		return nil, err
	}
	return store.NewFileStore(dir)
}

// applyConfig fills options the flags left unset from the config file, then
// the pipeline defaults.
func (c *CLI) applyConfig(opts *pipeline.Options) {
	c.Config.Apply(opts)
	opts.SetLayoutDefaults()
	opts.SetRenderDefaults()
}

// parseFormats splits a --format value. Empty means svg.
func parseFormats(s string) []string {
	if s == "" {
		return []string{pipeline.FormatSVG}
	}
	return strings.Split(s, ",")
}
