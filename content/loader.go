package content

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// Collection is the result of loading a content tree: every area with its
// routes in filename order, plus advisory warnings gathered along the way.
type Collection struct {
	Areas    []Area
	Routes   []RouteDescription
	Warnings []string
}

// LoadAreas reads every area directory under root. Each subdirectory of root
// is an area; its route documents live in <area>/metadata/*.md. Slugs must
// be unique across the whole collection.
func LoadAreas(root string) (*Collection, error) {
	entries, err := os.ReadDir(root)
	if err != nil {
		return nil, fmt.Errorf("read content dir %s: %w", root, err)
	}

	col := &Collection{}
	seen := make(map[string]string) // slug -> file that claimed it
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		area := Area{Slug: entry.Name(), Name: AreaName(entry.Name())}
		routes, err := LoadArea(filepath.Join(root, entry.Name()))
		if err != nil {
			return nil, err
		}
		for _, r := range routes {
			if prev, dup := seen[r.Slug]; dup {
				return nil, fmt.Errorf("duplicate slug %q: already used by %s", r.Slug, prev)
			}
			seen[r.Slug] = filepath.Join(entry.Name(), r.Slug+".md")
			col.Warnings = append(col.Warnings, r.Warnings()...)
		}
		col.Areas = append(col.Areas, area)
		col.Routes = append(col.Routes, routes...)
	}
	return col, nil
}

// LoadArea reads all route documents for one area directory. Files are
// processed in sorted name order so listings are stable across loads.
func LoadArea(dir string) ([]RouteDescription, error) {
	metaDir := filepath.Join(dir, "metadata")
	entries, err := os.ReadDir(metaDir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("read metadata dir %s: %w", metaDir, err)
	}

	var names []string
	for _, e := range entries {
		if !e.IsDir() && strings.HasSuffix(e.Name(), ".md") {
			names = append(names, e.Name())
		}
	}
	sort.Strings(names)

	area := filepath.Base(dir)
	var routes []RouteDescription
	for _, name := range names {
		path := filepath.Join(metaDir, name)
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read %s: %w", path, err)
		}
		r, err := Parse(data)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", path, err)
		}
		r.Area = area
		routes = append(routes, r)
	}
	return routes, nil
}

// AreaName derives a display name from an area directory slug,
// e.g. "fryksas" -> "Fryksas", "north-valley" -> "North Valley".
func AreaName(slug string) string {
	parts := strings.Split(slug, "-")
	for i, p := range parts {
		if len(p) > 0 {
			parts[i] = strings.ToUpper(p[:1]) + p[1:]
		}
	}
	return strings.Join(parts, " ")
}
