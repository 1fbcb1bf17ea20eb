package cache

import (
	"context"
	"time"
)

// ScopedKeyer wraps a Keyer with a prefix so several consumers can share one
// backend without collisions.
//
// Example usage:
//
//	// One namespace per served family file
//	keyer := NewScopedKeyer(NewDefaultKeyer(), "serve:"+Hash([]byte(path))[:12]+":")
type ScopedKeyer struct {
	inner  Keyer
	prefix string
}

// NewScopedKeyer creates a keyer with a prefix.
// A nil inner keyer means [DefaultKeyer].
func NewScopedKeyer(inner Keyer, prefix string) Keyer {
	if inner == nil {
		inner = NewDefaultKeyer()
	}
	return &ScopedKeyer{
		inner:  inner,
		prefix: prefix,
	}
}

// LayoutKey generates a prefixed key for layout caching.
func (k *ScopedKeyer) LayoutKey(familyHash string, opts LayoutKeyOpts) string {
	return k.prefix + k.inner.LayoutKey(familyHash, opts)
}

// ArtifactKey generates a prefixed key for artifact caching.
func (k *ScopedKeyer) ArtifactKey(sourceHash string, opts ArtifactKeyOpts) string {
	return k.prefix + k.inner.ArtifactKey(sourceHash, opts)
}

// ScopedCache prefixes every key before passing it to the wrapped cache.
type ScopedCache struct {
	inner  Cache
	prefix string
}

// NewScopedCache wraps inner so all keys live under prefix.
func NewScopedCache(inner Cache, prefix string) *ScopedCache {
	return &ScopedCache{inner: inner, prefix: prefix}
}

func (c *ScopedCache) Get(ctx context.Context, key string) ([]byte, bool, error) {
	return c.inner.Get(ctx, c.prefix+key)
}

func (c *ScopedCache) Set(ctx context.Context, key string, data []byte, ttl time.Duration) error {
	return c.inner.Set(ctx, c.prefix+key, data, ttl)
}

func (c *ScopedCache) Delete(ctx context.Context, key string) error {
	return c.inner.Delete(ctx, c.prefix+key)
}

// Close closes the wrapped cache.
func (c *ScopedCache) Close() error { return c.inner.Close() }

var _ Cache = (*ScopedCache)(nil)
