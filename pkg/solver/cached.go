package solver

import (
	"context"
	"encoding/json"
	"io"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/flowlayout/pkg/cache"
	"github.com/matzehuels/flowlayout/pkg/observability"
)

// DefaultCacheTTL is how long cached solver results stay valid.
const DefaultCacheTTL = 7 * 24 * time.Hour

const cacheKeyType = "solve"

// Cached memoizes a Solver in a cache.Cache, keyed by the SHA-256 of the
// encoded input tree and options. Cache failures are logged and never fail
// a layout.
type Cached struct {
	Solver Solver
	Name   string
	Cache  cache.Cache
	Keyer  cache.Keyer
	TTL    time.Duration
	Logger *log.Logger
}

// NewCached wraps s. name distinguishes solvers sharing one cache.
func NewCached(s Solver, name string, c cache.Cache, logger *log.Logger) *Cached {
	if c == nil {
		c = cache.NewNullCache()
	}
	if logger == nil {
		logger = log.New(io.Discard)
	}
	return &Cached{
		Solver: s,
		Name:   name,
		Cache:  c,
		Keyer:  cache.NewDefaultKeyer(),
		TTL:    DefaultCacheTTL,
		Logger: logger,
	}
}

// Layout implements Solver.
func (c *Cached) Layout(ctx context.Context, root *Node, opts Options) (*Node, error) {
	key, err := c.key(root, opts)
	if err != nil {
		c.Logger.Warn("solver cache key", "err", err)
		return c.Solver.Layout(ctx, root, opts)
	}

	data, hit, err := c.Cache.Get(ctx, key)
	switch {
	case err != nil:
		c.Logger.Warn("solver cache read", "err", err)
	case hit:
		var out Node
		if err := json.Unmarshal(data, &out); err == nil {
			observability.Cache().OnCacheHit(ctx, cacheKeyType)
			c.Logger.Debug("solver cache hit", "solver", c.Name)
			return &out, nil
		}
		c.Logger.Warn("solver cache entry corrupt, discarding", "key", key)
		_ = c.Cache.Delete(ctx, key)
	}
	observability.Cache().OnCacheMiss(ctx, cacheKeyType)

	out, err := c.Solver.Layout(ctx, root, opts)
	if err != nil {
		return nil, err
	}
	if data, err := json.Marshal(out); err != nil {
		c.Logger.Warn("solver cache encode", "err", err)
	} else if err := c.Cache.Set(ctx, key, data, c.TTL); err != nil {
		c.Logger.Warn("solver cache write", "err", err)
	} else {
		observability.Cache().OnCacheSet(ctx, cacheKeyType, len(data))
	}
	return out, nil
}

func (c *Cached) key(root *Node, opts Options) (string, error) {
	hash, err := cache.HashJSON(root)
	if err != nil {
		return "", err
	}
	return c.Keyer.SolveKey(hash, cache.SolveKeyOpts{
		Solver:    c.Name,
		Direction: string(opts.Direction),
		Options:   opts.Map(),
	}), nil
}
