package trace

import (
	"sync"

	"go.uber.org/zap"

	"github.com/Faultbox/tilenav/internal/graph"
	"github.com/Faultbox/tilenav/pkg/movement"
)

// DefaultCacheSize bounds the number of profiles a Cache keeps per room.
const DefaultCacheSize = 8

// CacheObserver receives cache lookup outcomes.
type CacheObserver interface {
	RecordCacheLookup(hit bool)
}

// Cache shares dynamic graphs between agents with identical profiles.
// Entries are evicted oldest first once the cache is full.
type Cache struct {
	mu     sync.Mutex
	static *graph.Static
	opts   []Option
	log    *zap.Logger
	obs    CacheObserver

	max     int
	entries map[movement.Profile]*Graph
	order   []movement.Profile
}

// NewCache returns an empty cache over static. A non-positive max selects
// DefaultCacheSize. opts are passed to every graph the cache creates.
func NewCache(static *graph.Static, max int, obs CacheObserver, opts ...Option) *Cache {
	if max <= 0 {
		max = DefaultCacheSize
	}
	return &Cache{
		static:  static,
		opts:    opts,
		log:     newOptions(opts).log,
		obs:     obs,
		max:     max,
		entries: make(map[movement.Profile]*Graph),
	}
}

// Get returns the dynamic graph for profile, creating it on first use.
func (c *Cache) Get(profile movement.Profile) *Graph {
	c.mu.Lock()
	defer c.mu.Unlock()

	if g, ok := c.entries[profile]; ok {
		c.record(true)
		return g
	}
	c.record(false)

	if len(c.order) >= c.max {
		oldest := c.order[0]
		c.order = c.order[1:]
		delete(c.entries, oldest)
		c.log.Debug("evicted dynamic graph", zap.String("profile", oldest.Name))
	}

	g := New(c.static, profile, c.opts...)
	c.entries[profile] = g
	c.order = append(c.order, profile)
	return g
}

// Invalidate drops every cached graph and rebinds the cache to static,
// typically after the room layout changed.
func (c *Cache) Invalidate(static *graph.Static) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.static = static
	c.entries = make(map[movement.Profile]*Graph)
	c.order = nil
}

// Len returns the number of cached graphs.
func (c *Cache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}

func (c *Cache) record(hit bool) {
	if c.obs != nil {
		c.obs.RecordCacheLookup(hit)
	}
}
