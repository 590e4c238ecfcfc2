// Package cache provides result caching for computed layouts.
//
// Layout computation is deterministic for a given request, so responses are
// cached under a hash of the canonical request JSON. Three backends exist:
// a no-op cache (caching disabled), a file cache for single-instance
// deployments, and a redis cache for shared deployments. Cache failures are
// never fatal; callers fall through to recomputing the layout.
package cache

import (
	"context"
	"time"
)

// TTLLayout is how long computed layouts stay cached. Layouts are pure
// functions of the request, so the TTL only bounds storage growth.
const TTLLayout = 24 * time.Hour

// Cache is the storage interface shared by all backends.
type Cache interface {
	// Get retrieves a value. The bool reports whether the key was found.
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Set stores a value with a time-to-live. A ttl of 0 means no expiry.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error

	// Delete removes a value. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	// Close releases resources held by the backend.
	Close() error
}

// Keyer generates cache keys.
type Keyer interface {
	// LayoutKey generates a key for a computed layout from the hash of the
	// canonical request JSON.
	LayoutKey(graphHash string) string
}

// DefaultKeyer is the standard key scheme.
type DefaultKeyer struct{}

// NewDefaultKeyer creates the standard keyer.
func NewDefaultKeyer() Keyer {
	return &DefaultKeyer{}
}

// LayoutKey implements [Keyer].
func (k *DefaultKeyer) LayoutKey(graphHash string) string {
	return hashKey("layout", graphHash)
}

// ScopedKeyer wraps a Keyer with a prefix, giving callers (e.g. different
// deployments sharing one redis) separate namespaces.
type ScopedKeyer struct {
	inner  Keyer
	prefix string
}

// NewScopedKeyer creates a keyer with a prefix.
// The prefix is prepended to all generated keys.
func NewScopedKeyer(inner Keyer, prefix string) Keyer {
	if inner == nil {
		inner = NewDefaultKeyer()
	}
	return &ScopedKeyer{
		inner:  inner,
		prefix: prefix,
	}
}

// LayoutKey generates a prefixed key for a computed layout.
func (k *ScopedKeyer) LayoutKey(graphHash string) string {
	return k.prefix + k.inner.LayoutKey(graphHash)
}
