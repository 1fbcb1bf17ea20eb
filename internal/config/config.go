// Package config loads kintree's TOML configuration.
//
// The file is optional. Without --config the CLI looks for
// $XDG_CONFIG_HOME/kintree/config.toml (or ~/.config/kintree/config.toml)
// and falls back to defaults when it does not exist. Command-line flags
// override file values.
//
//	[layout]
//	node_width = 120
//	vertical_gap = 140
//
//	[map]
//	width = 1200
//	height = 600
//	proximity_km = 500
//
//	[render]
//	style = "light"
//
//	[cache]
//	redis_addr = "localhost:6379"
//	ttl = "48h"
//
//	[store]
//	backend = "mongo"
//	mongo_uri = "mongodb://localhost:27017"
//
//	[server]
//	addr = ":8080"
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/BurntSushi/toml"

	"github.com/matzehuels/kintree/pkg/errors"
	"github.com/matzehuels/kintree/pkg/pipeline"
)

// AppName names the configuration, cache and data directories.
const AppName = "kintree"

// Store backends.
const (
	BackendFile  = "file"
	BackendMongo = "mongo"
)

// Config is the decoded configuration file.
type Config struct {
	Layout LayoutConfig `toml:"layout"`
	Map    MapConfig    `toml:"map"`
	Render RenderConfig `toml:"render"`
	Cache  CacheConfig  `toml:"cache"`
	Store  StoreConfig  `toml:"store"`
	Server ServerConfig `toml:"server"`

	// Path is the file the configuration was read from, if any.
	Path string `toml:"-"`
}

// LayoutConfig sets tree layout sizes. Zero means the layout default.
type LayoutConfig struct {
	NodeWidth   float64 `toml:"node_width"`
	NodeHeight  float64 `toml:"node_height"`
	VerticalGap float64 `toml:"vertical_gap"`
	SiblingGap  float64 `toml:"sibling_gap"`
	CoupleGap   float64 `toml:"couple_gap"`
}

// MapConfig sets the map canvas and the proximity graph used for network
// distances and routes.
type MapConfig struct {
	Width  float64 `toml:"width"`
	Height float64 `toml:"height"`
	// ProximityKm drops proximity edges longer than this. Zero connects
	// every pair.
	ProximityKm float64 `toml:"proximity_km"`
}

// RenderConfig sets rendering defaults.
type RenderConfig struct {
	Style string  `toml:"style"`
	Scale float64 `toml:"scale"`
}

// CacheConfig selects the artifact cache. A Redis address takes precedence
// over the file cache directory.
type CacheConfig struct {
	Disabled      bool     `toml:"disabled"`
	Dir           string   `toml:"dir"`
	RedisAddr     string   `toml:"redis_addr"`
	RedisPassword string   `toml:"redis_password"`
	RedisDB       int      `toml:"redis_db"`
	TTL           Duration `toml:"ttl"`
}

// StoreConfig selects where push and pull keep record lists.
type StoreConfig struct {
	Backend    string `toml:"backend"`
	Dir        string `toml:"dir"`
	MongoURI   string `toml:"mongo_uri"`
	Database   string `toml:"database"`
	Collection string `toml:"collection"`
}

// ServerConfig configures the serve command.
type ServerConfig struct {
	Addr         string   `toml:"addr"`
	ReadTimeout  Duration `toml:"read_timeout"`
	WriteTimeout Duration `toml:"write_timeout"`
}

// Duration is a time.Duration written as a string such as "90s".
type Duration struct {
	time.Duration
}

// UnmarshalText parses a duration string.
func (d *Duration) UnmarshalText(text []byte) error {
	v, err := time.ParseDuration(string(text))
	if err != nil {
		return errors.Wrap(errors.ErrCodeInvalidInput, err, "invalid duration %q", text)
	}
	d.Duration = v
	return nil
}

// MarshalText formats the duration.
func (d Duration) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}

// Default returns the configuration used when no file exists.
func Default() *Config {
	return &Config{
		Render: RenderConfig{Style: pipeline.DefaultStyle},
		Store:  StoreConfig{Backend: BackendFile},
		Server: ServerConfig{
			Addr:         ":8080",
			ReadTimeout:  Duration{15 * time.Second},
			WriteTimeout: Duration{60 * time.Second},
		},
	}
}

// Load reads the configuration at path. An empty path means [DefaultPath],
// which may be missing; an explicit path must exist. Unknown keys are
// rejected so typos do not pass silently.
func Load(path string) (*Config, error) {
	explicit := path != ""
	if !explicit {
		p, err := DefaultPath()
		if err != nil {
			return Default(), nil
		}
		path = p
	}

	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		if explicit {
			return nil, errors.Wrap(errors.ErrCodeFileNotFound, err, "config %s", path)
		}
		return Default(), nil
	}
	if err != nil {
		return nil, fmt.Errorf("read config %s: %w", path, err)
	}

	cfg := Default()
	md, err := toml.Decode(string(data), cfg)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidFormat, err, "decode config %s", path)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		return nil, errors.New(errors.ErrCodeInvalidInput, "config %s: unknown key %q", path, undecoded[0].String())
	}
	cfg.Path = path

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks value ranges and names.
func (c *Config) Validate() error {
	if c.Render.Style != "" {
		if err := pipeline.ValidateStyle(c.Render.Style); err != nil {
			return err
		}
	}
	sizes := map[string]float64{
		"layout.node_width":   c.Layout.NodeWidth,
		"layout.node_height":  c.Layout.NodeHeight,
		"layout.vertical_gap": c.Layout.VerticalGap,
		"layout.sibling_gap":  c.Layout.SiblingGap,
		"layout.couple_gap":   c.Layout.CoupleGap,
		"map.width":           c.Map.Width,
		"map.height":          c.Map.Height,
		"map.proximity_km":    c.Map.ProximityKm,
		"render.scale":        c.Render.Scale,
	}
	for name, v := range sizes {
		if v < 0 {
			return errors.New(errors.ErrCodeInvalidInput, "%s must not be negative", name)
		}
	}
	switch c.Store.Backend {
	case "", BackendFile:
	case BackendMongo:
		if c.Store.MongoURI == "" {
			return errors.New(errors.ErrCodeInvalidInput, "store.mongo_uri is required for the mongo backend")
		}
	default:
		return errors.New(errors.ErrCodeInvalidInput, "unknown store backend %q (must be file or mongo)", c.Store.Backend)
	}
	return nil
}

// Apply copies configured values into opts where opts leaves them unset.
func (c *Config) Apply(opts *pipeline.Options) {
	setDefault(&opts.NodeWidth, c.Layout.NodeWidth)
	setDefault(&opts.NodeHeight, c.Layout.NodeHeight)
	setDefault(&opts.VerticalGap, c.Layout.VerticalGap)
	setDefault(&opts.SiblingGap, c.Layout.SiblingGap)
	setDefault(&opts.CoupleGap, c.Layout.CoupleGap)
	setDefault(&opts.MapWidth, c.Map.Width)
	setDefault(&opts.MapHeight, c.Map.Height)
	setDefault(&opts.Scale, c.Render.Scale)
	if opts.Style == "" {
		opts.Style = c.Render.Style
	}
}

func setDefault(dst *float64, v float64) {
	if *dst == 0 {
		*dst = v
	}
}

// CacheTTL returns the configured artifact TTL, or fallback when unset.
func (c *Config) CacheTTL(fallback time.Duration) time.Duration {
	if c.Cache.TTL.Duration > 0 {
		return c.Cache.TTL.Duration
	}
	return fallback
}

// CacheDir returns the file cache directory.
func (c *Config) CacheDir() (string, error) {
	if c.Cache.Dir != "" {
		return c.Cache.Dir, nil
	}
	return CacheDir()
}

// StoreDir returns the file store directory.
func (c *Config) StoreDir() (string, error) {
	if c.Store.Dir != "" {
		return c.Store.Dir, nil
	}
	return DataDir()
}

// =============================================================================
// Paths
// =============================================================================

// DefaultPath returns $XDG_CONFIG_HOME/kintree/config.toml, or
// ~/.config/kintree/config.toml.
func DefaultPath() (string, error) {
	dir, err := xdgDir("XDG_CONFIG_HOME", ".config")
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.toml"), nil
}

// CacheDir returns the cache directory using XDG standard (~/.cache/kintree/).
func CacheDir() (string, error) {
	return xdgDir("XDG_CACHE_HOME", ".cache")
}

// DataDir returns the dataset directory (~/.local/share/kintree/datasets).
func DataDir() (string, error) {
	dir, err := xdgDir("XDG_DATA_HOME", filepath.Join(".local", "share"))
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "datasets"), nil
}

func xdgDir(env, fallback string) (string, error) {
	if base := os.Getenv(env); base != "" {
		return filepath.Join(base, AppName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, fallback, AppName), nil
}
