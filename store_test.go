package gravelpress

import (
	"path/filepath"
	"testing"

	_ "modernc.org/sqlite"

	"github.com/eringen/gravelpress/content"
)

func setupTestStore(t *testing.T) (*Store, func()) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "test_routes.db")

	s, err := NewStore(path)
	if err != nil {
		t.Fatalf("failed to create store: %v", err)
	}

	cleanup := func() {
		s.Close()
	}

	return s, cleanup
}

func testRoute() content.RouteDescription {
	asphalt := 35.0
	gravel := 65.0
	return content.RouteDescription{
		Area:       "fryksas",
		Title:      "Kvarnberget runt",
		Slug:       "kvarnberget-runt",
		DistanceKm: 42,
		ElevationM: 610,
		AsphaltPct: &asphalt,
		GravelPct:  &gravel,
		GPXFile:    "kvarnberget-runt.gpx",
		StravaLink: "https://www.strava.com/routes/123",
		Thumbnail:  "kvarnberget.jpg",
		Photos:     []string{"a.jpg", "b.jpg"},
		Description: "En blandad runda med fin grusvag.",
		Published:  true,
	}
}

func TestSaveAndGetRoute(t *testing.T) {
	s, cleanup := setupTestStore(t)
	defer cleanup()

	route := testRoute()
	if err := s.SaveRoute(route); err != nil {
		t.Fatalf("SaveRoute failed: %v", err)
	}

	got, err := s.GetRoute(route.Slug)
	if err != nil {
		t.Fatalf("GetRoute failed: %v", err)
	}

	if got.Title != route.Title {
		t.Errorf("expected title %q, got %q", route.Title, got.Title)
	}
	if got.Area != route.Area {
		t.Errorf("expected area %q, got %q", route.Area, got.Area)
	}
	if got.DistanceKm != route.DistanceKm {
		t.Errorf("expected distance %v, got %v", route.DistanceKm, got.DistanceKm)
	}
	if got.ElevationM != route.ElevationM {
		t.Errorf("expected elevation %v, got %v", route.ElevationM, got.ElevationM)
	}
	if got.AsphaltPct == nil || *got.AsphaltPct != *route.AsphaltPct {
		t.Errorf("expected asphalt pct %v, got %v", *route.AsphaltPct, got.AsphaltPct)
	}
	if got.GravelPct == nil || *got.GravelPct != *route.GravelPct {
		t.Errorf("expected gravel pct %v, got %v", *route.GravelPct, got.GravelPct)
	}
	if got.GPXFile != route.GPXFile {
		t.Errorf("expected gpx file %q, got %q", route.GPXFile, got.GPXFile)
	}
	if len(got.Photos) != 2 || got.Photos[0] != "a.jpg" || got.Photos[1] != "b.jpg" {
		t.Errorf("expected photos [a.jpg b.jpg] in order, got %v", got.Photos)
	}
	if !got.Published {
		t.Error("expected route to be published")
	}
}

func TestSaveRouteWithoutSurfaceShares(t *testing.T) {
	s, cleanup := setupTestStore(t)
	defer cleanup()

	route := testRoute()
	route.AsphaltPct = nil
	route.GravelPct = nil
	if err := s.SaveRoute(route); err != nil {
		t.Fatalf("SaveRoute failed: %v", err)
	}

	got, err := s.GetRoute(route.Slug)
	if err != nil {
		t.Fatalf("GetRoute failed: %v", err)
	}
	if got.AsphaltPct != nil {
		t.Errorf("expected nil asphalt pct, got %v", *got.AsphaltPct)
	}
	if got.GravelPct != nil {
		t.Errorf("expected nil gravel pct, got %v", *got.GravelPct)
	}
}

func TestSaveRouteUpdatesExisting(t *testing.T) {
	s, cleanup := setupTestStore(t)
	defer cleanup()

	route := testRoute()
	if err := s.SaveRoute(route); err != nil {
		t.Fatalf("SaveRoute failed: %v", err)
	}

	route.Title = "Kvarnberget runt (uppdaterad)"
	route.DistanceKm = 45
	if err := s.SaveRoute(route); err != nil {
		t.Fatalf("SaveRoute update failed: %v", err)
	}

	got, err := s.GetRoute(route.Slug)
	if err != nil {
		t.Fatalf("GetRoute failed: %v", err)
	}
	if got.Title != route.Title {
		t.Errorf("expected updated title %q, got %q", route.Title, got.Title)
	}
	if got.DistanceKm != 45 {
		t.Errorf("expected updated distance 45, got %v", got.DistanceKm)
	}

	routes, err := s.ListAllRoutes()
	if err != nil {
		t.Fatalf("ListAllRoutes failed: %v", err)
	}
	if len(routes) != 1 {
		t.Errorf("expected 1 route after update, got %d", len(routes))
	}
}

func TestGetRouteNotFound(t *testing.T) {
	s, cleanup := setupTestStore(t)
	defer cleanup()

	if _, err := s.GetRoute("does-not-exist"); err == nil {
		t.Error("expected error for missing route")
	}
}

func TestGetRouteSkipsDrafts(t *testing.T) {
	s, cleanup := setupTestStore(t)
	defer cleanup()

	route := testRoute()
	route.Published = false
	if err := s.SaveRoute(route); err != nil {
		t.Fatalf("SaveRoute failed: %v", err)
	}

	if _, err := s.GetRoute(route.Slug); err == nil {
		t.Error("expected draft to be invisible via GetRoute")
	}

	got, err := s.GetRouteAny(route.Slug)
	if err != nil {
		t.Fatalf("GetRouteAny failed: %v", err)
	}
	if got.Published {
		t.Error("expected draft to stay unpublished")
	}
}

func TestListRoutesByArea(t *testing.T) {
	s, cleanup := setupTestStore(t)
	defer cleanup()

	first := testRoute()
	second := testRoute()
	second.Slug = "sjorundan"
	second.Title = "Sjörundan"
	second.Area = "siljansnas"
	third := testRoute()
	third.Slug = "draft-route"
	third.Title = "Utkast"
	third.Published = false

	for _, r := range []content.RouteDescription{first, second, third} {
		if err := s.SaveRoute(r); err != nil {
			t.Fatalf("SaveRoute failed: %v", err)
		}
	}

	routes, err := s.ListRoutes("fryksas")
	if err != nil {
		t.Fatalf("ListRoutes failed: %v", err)
	}
	if len(routes) != 1 {
		t.Fatalf("expected 1 published route in fryksas, got %d", len(routes))
	}
	if routes[0].Slug != first.Slug {
		t.Errorf("expected slug %q, got %q", first.Slug, routes[0].Slug)
	}

	all, err := s.ListRoutes("")
	if err != nil {
		t.Fatalf("ListRoutes all failed: %v", err)
	}
	if len(all) != 2 {
		t.Errorf("expected 2 published routes, got %d", len(all))
	}

	areas, err := s.ListAreas()
	if err != nil {
		t.Fatalf("ListAreas failed: %v", err)
	}
	if len(areas) != 2 {
		t.Fatalf("expected 2 areas, got %d", len(areas))
	}
	if areas[0].Slug != "fryksas" || areas[0].Name != "Fryksas" {
		t.Errorf("unexpected first area: %+v", areas[0])
	}
}

func TestDeleteRoute(t *testing.T) {
	s, cleanup := setupTestStore(t)
	defer cleanup()

	route := testRoute()
	if err := s.SaveRoute(route); err != nil {
		t.Fatalf("SaveRoute failed: %v", err)
	}
	if err := s.DeleteRoute(route.Slug); err != nil {
		t.Fatalf("DeleteRoute failed: %v", err)
	}
	if _, err := s.GetRouteAny(route.Slug); err == nil {
		t.Error("expected route to be gone after delete")
	}
}

func TestRecordViewAndViewCounts(t *testing.T) {
	s, cleanup := setupTestStore(t)
	defer cleanup()

	for i := 0; i < 3; i++ {
		if err := s.RecordView("kvarnberget-runt"); err != nil {
			t.Fatalf("RecordView failed: %v", err)
		}
	}
	if err := s.RecordView("sjorundan"); err != nil {
		t.Fatalf("RecordView failed: %v", err)
	}

	counts, err := s.ViewCounts()
	if err != nil {
		t.Fatalf("ViewCounts failed: %v", err)
	}
	if counts["kvarnberget-runt"] != 3 {
		t.Errorf("expected 3 views, got %d", counts["kvarnberget-runt"])
	}
	if counts["sjorundan"] != 1 {
		t.Errorf("expected 1 view, got %d", counts["sjorundan"])
	}
}

func TestSaveAndListPhotos(t *testing.T) {
	s, cleanup := setupTestStore(t)
	defer cleanup()

	photos := []Photo{
		{Filename: "older.jpg", OriginalName: "Older.JPG", Width: 1200, Height: 800, Size: 1024, UploadedAt: "2026-03-01T10:00:00Z"},
		{Filename: "newer.jpg", OriginalName: "Newer.JPG", Width: 1200, Height: 900, Size: 2048, UploadedAt: "2026-03-02T10:00:00Z"},
	}
	for _, p := range photos {
		if err := s.SavePhoto(p); err != nil {
			t.Fatalf("SavePhoto failed: %v", err)
		}
	}

	got, err := s.ListPhotos()
	if err != nil {
		t.Fatalf("ListPhotos failed: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("expected 2 photos, got %d", len(got))
	}
	if got[0].Filename != "newer.jpg" {
		t.Errorf("expected newest photo first, got %q", got[0].Filename)
	}

	if err := s.DeletePhoto("older.jpg"); err != nil {
		t.Fatalf("DeletePhoto failed: %v", err)
	}
	got, err = s.ListPhotos()
	if err != nil {
		t.Fatalf("ListPhotos failed: %v", err)
	}
	if len(got) != 1 {
		t.Errorf("expected 1 photo after delete, got %d", len(got))
	}
}

func TestEncodeDecodePhotos(t *testing.T) {
	tests := []struct {
		name    string
		photos  []string
		encoded string
	}{
		{"empty", nil, ""},
		{"single", []string{"a.jpg"}, ",a.jpg,"},
		{"ordered", []string{"b.jpg", "a.jpg", "c.jpg"}, ",b.jpg,a.jpg,c.jpg,"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			enc := EncodePhotos(tt.photos)
			if enc != tt.encoded {
				t.Errorf("EncodePhotos(%v) = %q, want %q", tt.photos, enc, tt.encoded)
			}
			dec := DecodePhotos(enc)
			if len(dec) != len(tt.photos) {
				t.Fatalf("DecodePhotos(%q) = %v, want %v", enc, dec, tt.photos)
			}
			for i := range dec {
				if dec[i] != tt.photos[i] {
					t.Errorf("DecodePhotos(%q)[%d] = %q, want %q", enc, i, dec[i], tt.photos[i])
				}
			}
		})
	}
}
