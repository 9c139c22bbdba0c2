package gravelpress

import (
	"testing"
	"time"
)

func setupTestCache(t *testing.T) (*RouteCache, *Store, func()) {
	t.Helper()
	s, cleanup := setupTestStore(t)

	first := testRoute()
	second := testRoute()
	second.Slug = "sjorundan"
	second.Title = "Sjörundan"
	second.Area = "siljansnas"
	if err := s.SaveRoute(first); err != nil {
		t.Fatalf("SaveRoute failed: %v", err)
	}
	if err := s.SaveRoute(second); err != nil {
		t.Fatalf("SaveRoute failed: %v", err)
	}

	return NewRouteCache(s, time.Minute), s, cleanup
}

func TestCacheListRoutes(t *testing.T) {
	c, _, cleanup := setupTestCache(t)
	defer cleanup()

	all, err := c.ListRoutes("")
	if err != nil {
		t.Fatalf("ListRoutes failed: %v", err)
	}
	if len(all) != 2 {
		t.Fatalf("expected 2 routes, got %d", len(all))
	}

	filtered, err := c.ListRoutes("siljansnas")
	if err != nil {
		t.Fatalf("ListRoutes filtered failed: %v", err)
	}
	if len(filtered) != 1 || filtered[0].Slug != "sjorundan" {
		t.Errorf("expected only sjorundan, got %v", filtered)
	}
}

func TestCacheGetRouteAndArea(t *testing.T) {
	c, _, cleanup := setupTestCache(t)
	defer cleanup()

	r, err := c.GetRoute("kvarnberget-runt")
	if err != nil {
		t.Fatalf("GetRoute failed: %v", err)
	}
	if r.Title != "Kvarnberget runt" {
		t.Errorf("unexpected route: %+v", r)
	}

	if _, err := c.GetRoute("missing"); err != ErrNotFound {
		t.Errorf("expected ErrNotFound, got %v", err)
	}

	a, err := c.GetArea("fryksas")
	if err != nil {
		t.Fatalf("GetArea failed: %v", err)
	}
	if a.Name != "Fryksas" {
		t.Errorf("unexpected area: %+v", a)
	}

	if _, err := c.GetArea("missing"); err != ErrNotFound {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestCacheServesStaleUntilInvalidated(t *testing.T) {
	c, s, cleanup := setupTestCache(t)
	defer cleanup()

	if _, err := c.ListRoutes(""); err != nil {
		t.Fatalf("ListRoutes failed: %v", err)
	}

	extra := testRoute()
	extra.Slug = "ny-runda"
	extra.Title = "Ny runda"
	if err := s.SaveRoute(extra); err != nil {
		t.Fatalf("SaveRoute failed: %v", err)
	}

	// Within the TTL the cache keeps serving the loaded snapshot.
	routes, err := c.ListRoutes("")
	if err != nil {
		t.Fatalf("ListRoutes failed: %v", err)
	}
	if len(routes) != 2 {
		t.Fatalf("expected cached snapshot of 2 routes, got %d", len(routes))
	}

	c.Invalidate()
	routes, err = c.ListRoutes("")
	if err != nil {
		t.Fatalf("ListRoutes after invalidate failed: %v", err)
	}
	if len(routes) != 3 {
		t.Errorf("expected 3 routes after invalidate, got %d", len(routes))
	}
}

func TestCacheExpiresAfterTTL(t *testing.T) {
	_, s, cleanup := setupTestCache(t)
	defer cleanup()

	c := NewRouteCache(s, 50*time.Millisecond)
	if _, err := c.ListRoutes(""); err != nil {
		t.Fatalf("ListRoutes failed: %v", err)
	}

	extra := testRoute()
	extra.Slug = "ny-runda"
	extra.Title = "Ny runda"
	if err := s.SaveRoute(extra); err != nil {
		t.Fatalf("SaveRoute failed: %v", err)
	}

	time.Sleep(80 * time.Millisecond)
	routes, err := c.ListRoutes("")
	if err != nil {
		t.Fatalf("ListRoutes after expiry failed: %v", err)
	}
	if len(routes) != 3 {
		t.Errorf("expected reload after TTL, got %d routes", len(routes))
	}
}
