// Package cache stores solver results so repeated layouts of an unchanged
// graph skip the solver call.
//
// Three backends implement [Cache]: [FileCache] for the CLI, [RedisCache] for
// the HTTP server, and [NullCache] when caching is disabled. Keys come from a
// [Keyer]; [ScopedKeyer] adds a namespace prefix.
package cache

import (
	"context"
	"time"
)

// Cache is a byte-oriented key/value store with optional expiry.
//
// Get reports a miss as (nil, false, nil). Implementations must be safe for
// concurrent use.
type Cache interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
	Close() error
}

// SolveKeyOpts are the solver settings that change a solver result for the
// same input graph.
type SolveKeyOpts struct {
	Solver    string
	Direction string
	Options   map[string]string
}

// Keyer derives cache keys.
type Keyer interface {
	// SolveKey returns the key for a solver result of the graph whose
	// canonical encoding hashes to graphHash.
	SolveKey(graphHash string, opts SolveKeyOpts) string
}

// DefaultKeyer produces keys of the form "solve:<sha256>".
type DefaultKeyer struct{}

// NewDefaultKeyer returns the default keyer.
func NewDefaultKeyer() Keyer { return DefaultKeyer{} }

// SolveKey implements [Keyer].
func (DefaultKeyer) SolveKey(graphHash string, opts SolveKeyOpts) string {
	return hashKey("solve", graphHash, opts.Solver, opts.Direction, opts.Options)
}
