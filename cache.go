package gravelpress

import (
	"database/sql"
	"sync"
	"time"

	"github.com/eringen/gravelpress/content"
)

// ErrNotFound is returned when a requested route does not exist.
var ErrNotFound = sql.ErrNoRows

// RouteCache is an in-memory cache of published routes and areas with TTL.
type RouteCache struct {
	mu      sync.RWMutex
	routes  []content.RouteDescription
	areas   []content.Area
	fetched time.Time
	ttl     time.Duration
	store   *Store
}

// NewRouteCache creates a RouteCache backed by the given Store.
func NewRouteCache(s *Store, ttl time.Duration) *RouteCache {
	return &RouteCache{store: s, ttl: ttl}
}

func (c *RouteCache) valid() bool {
	return c.routes != nil && time.Since(c.fetched) < c.ttl
}

// Invalidate clears the cache so the next read triggers a fresh load.
func (c *RouteCache) Invalidate() {
	c.mu.Lock()
	c.routes = nil
	c.areas = nil
	c.mu.Unlock()
}

func (c *RouteCache) load() error {
	if c.valid() {
		return nil
	}
	routes, err := c.store.ListRoutes("")
	if err != nil {
		return err
	}
	areas, err := c.store.ListAreas()
	if err != nil {
		return err
	}
	c.routes = routes
	c.areas = areas
	c.fetched = time.Now()
	return nil
}

// ensureLoaded returns cached routes and areas after ensuring the cache is
// fresh. It tries a read lock first; only takes a write lock if a reload is
// needed.
func (c *RouteCache) ensureLoaded() ([]content.RouteDescription, []content.Area, error) {
	c.mu.RLock()
	if c.valid() {
		routes, areas := c.routes, c.areas
		c.mu.RUnlock()
		return routes, areas, nil
	}
	c.mu.RUnlock()

	c.mu.Lock()
	defer c.mu.Unlock()
	if err := c.load(); err != nil {
		return nil, nil, err
	}
	return c.routes, c.areas, nil
}

// ListRoutes returns published routes, optionally filtered by area.
func (c *RouteCache) ListRoutes(area string) ([]content.RouteDescription, error) {
	routes, _, err := c.ensureLoaded()
	if err != nil {
		return nil, err
	}
	if area == "" {
		return routes, nil
	}
	var filtered []content.RouteDescription
	for _, r := range routes {
		if r.Area == area {
			filtered = append(filtered, r)
		}
	}
	return filtered, nil
}

// ListAreas returns all areas with at least one published route.
func (c *RouteCache) ListAreas() ([]content.Area, error) {
	_, areas, err := c.ensureLoaded()
	return areas, err
}

// GetArea returns a single area by slug.
func (c *RouteCache) GetArea(slug string) (content.Area, error) {
	_, areas, err := c.ensureLoaded()
	if err != nil {
		return content.Area{}, err
	}
	for _, a := range areas {
		if a.Slug == slug {
			return a, nil
		}
	}
	return content.Area{}, ErrNotFound
}

// GetRoute returns a single published route by slug from the cache.
func (c *RouteCache) GetRoute(slug string) (content.RouteDescription, error) {
	routes, _, err := c.ensureLoaded()
	if err != nil {
		return content.RouteDescription{}, err
	}
	for _, r := range routes {
		if r.Slug == slug {
			return r, nil
		}
	}
	return content.RouteDescription{}, ErrNotFound
}
