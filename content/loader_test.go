package content

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func writeRouteDoc(t *testing.T, root, area, name, doc string) {
	t.Helper()
	dir := filepath.Join(root, area, "metadata")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if err := os.WriteFile(filepath.Join(dir, name), []byte(doc), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
}

func routeDoc(title, slug string) string {
	return "---\ntitle: " + title + "\nslug: " + slug + "\ndistance_km: 10\nelevation_m: 100\n---\n\nEn runda.\n"
}

func TestLoadAreas(t *testing.T) {
	root := t.TempDir()
	writeRouteDoc(t, root, "fryksas", "b-route.md", routeDoc("B", "b-route"))
	writeRouteDoc(t, root, "fryksas", "a-route.md", routeDoc("A", "a-route"))
	writeRouteDoc(t, root, "north-valley", "c-route.md", routeDoc("C", "c-route"))

	col, err := LoadAreas(root)
	if err != nil {
		t.Fatalf("LoadAreas failed: %v", err)
	}

	if len(col.Areas) != 2 {
		t.Fatalf("expected 2 areas, got %d", len(col.Areas))
	}
	if col.Areas[1].Name != "North Valley" {
		t.Errorf("expected display name North Valley, got %q", col.Areas[1].Name)
	}

	if len(col.Routes) != 3 {
		t.Fatalf("expected 3 routes, got %d", len(col.Routes))
	}
	// Within an area, documents load in filename order.
	if col.Routes[0].Slug != "a-route" || col.Routes[1].Slug != "b-route" {
		t.Errorf("expected filename order a-route, b-route; got %q, %q",
			col.Routes[0].Slug, col.Routes[1].Slug)
	}
	if col.Routes[0].Area != "fryksas" {
		t.Errorf("expected area fryksas, got %q", col.Routes[0].Area)
	}
	if col.Routes[2].Area != "north-valley" {
		t.Errorf("expected area north-valley, got %q", col.Routes[2].Area)
	}
}

func TestLoadAreasRejectsDuplicateSlug(t *testing.T) {
	root := t.TempDir()
	writeRouteDoc(t, root, "fryksas", "one.md", routeDoc("One", "same-slug"))
	writeRouteDoc(t, root, "siljansnas", "two.md", routeDoc("Two", "same-slug"))

	_, err := LoadAreas(root)
	if err == nil {
		t.Fatal("expected duplicate slug error")
	}
	if !strings.Contains(err.Error(), "same-slug") {
		t.Errorf("expected error to name the slug, got %v", err)
	}
}

func TestLoadAreasWrapsParseErrors(t *testing.T) {
	root := t.TempDir()
	writeRouteDoc(t, root, "fryksas", "broken.md", "title: Broken\n")

	_, err := LoadAreas(root)
	if err == nil {
		t.Fatal("expected parse error")
	}
	if !strings.Contains(err.Error(), "broken.md") {
		t.Errorf("expected error to name the file, got %v", err)
	}
}

func TestLoadAreasCollectsWarnings(t *testing.T) {
	root := t.TempDir()
	doc := "---\ntitle: Mix\nslug: mix-route\ndistance_km: 10\nelevation_m: 100\nasphalt_pct: 40\ngravel_pct: 50\n---\n\nEn runda.\n"
	writeRouteDoc(t, root, "fryksas", "mix.md", doc)

	col, err := LoadAreas(root)
	if err != nil {
		t.Fatalf("LoadAreas failed: %v", err)
	}
	if len(col.Warnings) != 1 {
		t.Fatalf("expected 1 warning, got %v", col.Warnings)
	}
	if len(col.Routes) != 1 {
		t.Errorf("expected route to load despite warning, got %d routes", len(col.Routes))
	}
}

func TestLoadAreaSkipsNonRouteFiles(t *testing.T) {
	root := t.TempDir()
	writeRouteDoc(t, root, "fryksas", "real.md", routeDoc("Real", "real-route"))
	writeRouteDoc(t, root, "fryksas", "notes.txt", "not a route")

	routes, err := LoadArea(filepath.Join(root, "fryksas"))
	if err != nil {
		t.Fatalf("LoadArea failed: %v", err)
	}
	if len(routes) != 1 {
		t.Errorf("expected only .md files to load, got %d routes", len(routes))
	}
}

func TestLoadAreaMissingMetadataDir(t *testing.T) {
	root := t.TempDir()
	if err := os.MkdirAll(filepath.Join(root, "empty-area"), 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}

	routes, err := LoadArea(filepath.Join(root, "empty-area"))
	if err != nil {
		t.Fatalf("expected missing metadata dir to be tolerated, got %v", err)
	}
	if routes != nil {
		t.Errorf("expected no routes, got %v", routes)
	}
}

func TestAreaName(t *testing.T) {
	tests := []struct {
		slug string
		want string
	}{
		{"fryksas", "Fryksas"},
		{"north-valley", "North Valley"},
		{"a", "A"},
	}

	for _, tt := range tests {
		if got := AreaName(tt.slug); got != tt.want {
			t.Errorf("AreaName(%q) = %q, want %q", tt.slug, got, tt.want)
		}
	}
}
