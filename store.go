package gravelpress

import (
	"database/sql"
	"os"
	"path/filepath"
	"strings"

	"github.com/eringen/gravelpress/content"
)

// Store wraps a SQLite database and provides CRUD operations for routes,
// uploaded photos, and per-route view counters.
type Store struct {
	db *sql.DB
}

// NewStore opens (or creates) the SQLite database at path, ensures the data
// directory exists, and runs schema migrations.
func NewStore(path string) (*Store, error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	// Enable WAL mode for concurrent read/write access, set a busy timeout
	// so writers wait instead of returning SQLITE_BUSY immediately, and tune
	// performance: synchronous=NORMAL is safe with WAL and avoids an fsync
	// per transaction; larger cache and mmap reduce disk I/O.
	if _, err := db.Exec(`
		PRAGMA journal_mode=WAL;
		PRAGMA busy_timeout=5000;
		PRAGMA synchronous=NORMAL;
		PRAGMA cache_size=-8000;
		PRAGMA mmap_size=268435456;
	`); err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(4)
	db.SetMaxIdleConns(4)
	s := &Store{db: db}
	if err := s.ensureSchema(); err != nil {
		return nil, err
	}
	return s, nil
}

// Close closes the underlying database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) ensureSchema() error {
	_, err := s.db.Exec(`
CREATE TABLE IF NOT EXISTS routes (
    slug TEXT PRIMARY KEY,
    area TEXT NOT NULL,
    title TEXT NOT NULL,
    distance_km REAL NOT NULL,
    elevation_m REAL NOT NULL,
    asphalt_pct REAL,
    gravel_pct REAL,
    gpx_file TEXT NOT NULL DEFAULT '',
    strava_link TEXT NOT NULL DEFAULT '',
    thumbnail TEXT NOT NULL DEFAULT '',
    photos TEXT NOT NULL DEFAULT '',
    description TEXT NOT NULL,
    published INTEGER NOT NULL DEFAULT 1
);

CREATE INDEX IF NOT EXISTS idx_routes_area ON routes(area);

CREATE TABLE IF NOT EXISTS photos (
    filename TEXT PRIMARY KEY,
    original_name TEXT NOT NULL,
    width INTEGER NOT NULL,
    height INTEGER NOT NULL,
    size INTEGER NOT NULL,
    uploaded_at TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS route_views (
    slug TEXT PRIMARY KEY,
    views INTEGER NOT NULL DEFAULT 0
);
`)
	return err
}

const routeColumns = `slug, area, title, distance_km, elevation_m, asphalt_pct, gravel_pct, gpx_file, strava_link, thumbnail, photos, description, published`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanRoute(row rowScanner) (content.RouteDescription, error) {
	var r content.RouteDescription
	var asphalt, gravel sql.NullFloat64
	var photos string
	var published int
	err := row.Scan(&r.Slug, &r.Area, &r.Title, &r.DistanceKm, &r.ElevationM,
		&asphalt, &gravel, &r.GPXFile, &r.StravaLink, &r.Thumbnail,
		&photos, &r.Description, &published)
	if err != nil {
		return content.RouteDescription{}, err
	}
	if asphalt.Valid {
		r.AsphaltPct = &asphalt.Float64
	}
	if gravel.Valid {
		r.GravelPct = &gravel.Float64
	}
	r.Photos = DecodePhotos(photos)
	r.Published = published == 1
	return r, nil
}

// ListRoutes returns all published routes ordered by title.
// If area is non-empty, results are filtered to that area.
func (s *Store) ListRoutes(area string) ([]content.RouteDescription, error) {
	var rows *sql.Rows
	var err error
	if area == "" {
		rows, err = s.db.Query(`SELECT ` + routeColumns + ` FROM routes WHERE published = 1 ORDER BY title COLLATE NOCASE`)
	} else {
		rows, err = s.db.Query(`SELECT `+routeColumns+` FROM routes WHERE published = 1 AND area = ? ORDER BY title COLLATE NOCASE`, area)
	}
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var routes []content.RouteDescription
	for rows.Next() {
		r, err := scanRoute(rows)
		if err != nil {
			return nil, err
		}
		routes = append(routes, r)
	}
	return routes, rows.Err()
}

// ListAllRoutes returns every route (published and drafts) ordered by area then title.
func (s *Store) ListAllRoutes() ([]content.RouteDescription, error) {
	rows, err := s.db.Query(`SELECT ` + routeColumns + ` FROM routes ORDER BY area, title COLLATE NOCASE`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var routes []content.RouteDescription
	for rows.Next() {
		r, err := scanRoute(rows)
		if err != nil {
			return nil, err
		}
		routes = append(routes, r)
	}
	return routes, rows.Err()
}

// ListAreas returns every area that has at least one published route.
func (s *Store) ListAreas() ([]content.Area, error) {
	rows, err := s.db.Query(`SELECT DISTINCT area FROM routes WHERE published = 1 ORDER BY area`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var areas []content.Area
	for rows.Next() {
		var slug string
		if err := rows.Scan(&slug); err != nil {
			return nil, err
		}
		areas = append(areas, content.Area{Slug: slug, Name: content.AreaName(slug)})
	}
	return areas, rows.Err()
}

// GetRoute returns a single published route by slug.
func (s *Store) GetRoute(slug string) (content.RouteDescription, error) {
	row := s.db.QueryRow(`SELECT `+routeColumns+` FROM routes WHERE slug = ? AND published = 1`, slug)
	return scanRoute(row)
}

// GetRouteAny returns a route by slug regardless of published status (for admin).
func (s *Store) GetRouteAny(slug string) (content.RouteDescription, error) {
	row := s.db.QueryRow(`SELECT `+routeColumns+` FROM routes WHERE slug = ?`, slug)
	return scanRoute(row)
}

// SaveRoute upserts a route.
func (s *Store) SaveRoute(r content.RouteDescription) error {
	published := 0
	if r.Published {
		published = 1
	}
	var asphalt, gravel any
	if r.AsphaltPct != nil {
		asphalt = *r.AsphaltPct
	}
	if r.GravelPct != nil {
		gravel = *r.GravelPct
	}
	_, err := s.db.Exec(`INSERT OR REPLACE INTO routes (`+routeColumns+`) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		r.Slug, r.Area, r.Title, r.DistanceKm, r.ElevationM, asphalt, gravel,
		r.GPXFile, r.StravaLink, r.Thumbnail, EncodePhotos(r.Photos), r.Description, published)
	return err
}

// DeleteRoute removes a route by slug.
func (s *Store) DeleteRoute(slug string) error {
	_, err := s.db.Exec(`DELETE FROM routes WHERE slug = ?`, slug)
	return err
}

// SavePhoto upserts uploaded photo metadata.
func (s *Store) SavePhoto(p Photo) error {
	_, err := s.db.Exec(`INSERT OR REPLACE INTO photos (filename, original_name, width, height, size, uploaded_at) VALUES (?, ?, ?, ?, ?, ?)`,
		p.Filename, p.OriginalName, p.Width, p.Height, p.Size, p.UploadedAt)
	return err
}

// ListPhotos returns all uploaded photos, newest first.
func (s *Store) ListPhotos() ([]Photo, error) {
	rows, err := s.db.Query(`SELECT filename, original_name, width, height, size, uploaded_at FROM photos ORDER BY uploaded_at DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var photos []Photo
	for rows.Next() {
		var p Photo
		if err := rows.Scan(&p.Filename, &p.OriginalName, &p.Width, &p.Height, &p.Size, &p.UploadedAt); err != nil {
			return nil, err
		}
		photos = append(photos, p)
	}
	return photos, rows.Err()
}

// DeletePhoto removes photo metadata by filename.
func (s *Store) DeletePhoto(filename string) error {
	_, err := s.db.Exec(`DELETE FROM photos WHERE filename = ?`, filename)
	return err
}

// RecordView increments the view counter for a route.
func (s *Store) RecordView(slug string) error {
	_, err := s.db.Exec(`INSERT INTO route_views (slug, views) VALUES (?, 1)
		ON CONFLICT(slug) DO UPDATE SET views = views + 1`, slug)
	return err
}

// ViewCounts returns the view counter for every route that has been viewed.
func (s *Store) ViewCounts() (map[string]int64, error) {
	rows, err := s.db.Query(`SELECT slug, views FROM route_views`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	counts := make(map[string]int64)
	for rows.Next() {
		var slug string
		var n int64
		if err := rows.Scan(&slug, &n); err != nil {
			return nil, err
		}
		counts[slug] = n
	}
	return counts, rows.Err()
}

// EncodePhotos joins photo filenames into the stored comma-delimited form
// with sentinel commas. Order is preserved.
func EncodePhotos(photos []string) string {
	if len(photos) == 0 {
		return ""
	}
	return "," + strings.Join(photos, ",") + ","
}

// DecodePhotos splits the stored photo string (e.g. ",a.jpg,b.jpg,") back
// into an ordered slice.
func DecodePhotos(stored string) []string {
	stored = strings.Trim(stored, ",")
	if stored == "" {
		return nil
	}
	parts := strings.Split(stored, ",")
	for i := range parts {
		parts[i] = strings.TrimSpace(parts[i])
	}
	return parts
}
