package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/matzehuels/kintree/pkg/errors"
	"github.com/matzehuels/kintree/pkg/pipeline"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoad(t *testing.T) {
	path := writeConfig(t, `
[layout]
node_width = 120

[map]
width = 1200
proximity_km = 500

[render]
style = "light"

[cache]
redis_addr = "localhost:6379"
ttl = "48h"

[server]
addr = ":9090"
`)
	cfg, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Path != path {
		t.Errorf("Path = %q", cfg.Path)
	}
	if cfg.Layout.NodeWidth != 120 || cfg.Map.Width != 1200 || cfg.Map.ProximityKm != 500 {
		t.Errorf("sizes not decoded: %+v %+v", cfg.Layout, cfg.Map)
	}
	if cfg.Render.Style != "light" {
		t.Errorf("Style = %q", cfg.Render.Style)
	}
	if cfg.Cache.TTL.Duration != 48*time.Hour {
		t.Errorf("TTL = %v", cfg.Cache.TTL)
	}
	if cfg.Server.Addr != ":9090" {
		t.Errorf("Addr = %q", cfg.Server.Addr)
	}
	// Defaults survive for keys the file does not set.
	if cfg.Server.ReadTimeout.Duration != 15*time.Second || cfg.Store.Backend != BackendFile {
		t.Errorf("defaults lost: %+v %+v", cfg.Server, cfg.Store)
	}
}

func TestLoadErrors(t *testing.T) {
	tests := []struct {
		name    string
		content string
		code    errors.Code
	}{
		{"Syntax", "[layout\n", errors.ErrCodeInvalidFormat},
		{"UnknownKey", "[layout]\nnode_widht = 3\n", errors.ErrCodeInvalidInput},
		{"BadStyle", "[render]\nstyle = \"neon\"\n", errors.ErrCodeInvalidStyle},
		{"Negative", "[map]\nwidth = -1\n", errors.ErrCodeInvalidInput},
		{"BadDuration", "[cache]\nttl = \"soon\"\n", errors.ErrCodeInvalidFormat},
		{"MongoWithoutURI", "[store]\nbackend = \"mongo\"\n", errors.ErrCodeInvalidInput},
		{"UnknownBackend", "[store]\nbackend = \"s3\"\n", errors.ErrCodeInvalidInput},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(writeConfig(t, tt.content))
			if !errors.Is(err, tt.code) {
				t.Errorf("err = %v, want %s", err, tt.code)
			}
		})
	}
}

func TestLoadMissing(t *testing.T) {
	missing := filepath.Join(t.TempDir(), "nope.toml")
	if _, err := Load(missing); !errors.Is(err, errors.ErrCodeFileNotFound) {
		t.Errorf("explicit missing path = %v, want FILE_NOT_FOUND", err)
	}

	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("missing default config should not fail: %v", err)
	}
	if cfg.Path != "" || cfg.Render.Style != pipeline.DefaultStyle {
		t.Errorf("expected defaults, got %+v", cfg)
	}
}

func TestApply(t *testing.T) {
	cfg := Default()
	cfg.Layout.NodeWidth = 120
	cfg.Map.Height = 700
	cfg.Render.Style = "light"

	opts := pipeline.Options{NodeHeight: 90}
	cfg.Apply(&opts)
	if opts.NodeWidth != 120 || opts.MapHeight != 700 || opts.Style != "light" {
		t.Errorf("config not applied: %+v", opts)
	}
	if opts.NodeHeight != 90 {
		t.Error("explicit option overridden")
	}

	opts = pipeline.Options{Style: "dark"}
	cfg.Apply(&opts)
	if opts.Style != "dark" {
		t.Error("flag style should win over config")
	}
}

func TestCacheTTL(t *testing.T) {
	cfg := Default()
	if got := cfg.CacheTTL(time.Hour); got != time.Hour {
		t.Errorf("fallback = %v", got)
	}
	cfg.Cache.TTL = Duration{2 * time.Hour}
	if got := cfg.CacheTTL(time.Hour); got != 2*time.Hour {
		t.Errorf("configured = %v", got)
	}
}

func TestDirs(t *testing.T) {
	t.Setenv("XDG_CACHE_HOME", "/tmp/custom-cache")
	t.Setenv("XDG_DATA_HOME", "/tmp/custom-data")
	t.Setenv("XDG_CONFIG_HOME", "/tmp/custom-config")

	cfg := Default()
	if dir, _ := cfg.CacheDir(); dir != filepath.Join("/tmp/custom-cache", AppName) {
		t.Errorf("CacheDir = %q", dir)
	}
	if dir, _ := cfg.StoreDir(); dir != filepath.Join("/tmp/custom-data", AppName, "datasets") {
		t.Errorf("StoreDir = %q", dir)
	}
	if p, _ := DefaultPath(); p != filepath.Join("/tmp/custom-config", AppName, "config.toml") {
		t.Errorf("DefaultPath = %q", p)
	}

	cfg.Cache.Dir = "/srv/cache"
	if dir, _ := cfg.CacheDir(); dir != "/srv/cache" {
		t.Errorf("configured CacheDir = %q", dir)
	}
}

func TestCacheDirHome(t *testing.T) {
	t.Setenv("XDG_CACHE_HOME", "")
	dir, err := CacheDir()
	if err != nil {
		t.Fatal(err)
	}
	home, _ := os.UserHomeDir()
	if dir != filepath.Join(home, ".cache", AppName) {
		t.Errorf("CacheDir = %q", dir)
	}
	if !strings.HasSuffix(dir, AppName) {
		t.Errorf("CacheDir = %q, should end with %q", dir, AppName)
	}
}
