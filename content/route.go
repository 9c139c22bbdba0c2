// Package content defines the route document format: a YAML front-matter
// block describing a cycling route (distance, climbing, surface mix, media
// references) followed by a free-text narrative. Documents are authored by
// hand under areas/<area>/metadata/ and loaded into the serving index.
package content

import (
	"fmt"
	"regexp"
)

// RouteDescription is a single route document. Media fields (GPXFile,
// Thumbnail, Photos) are opaque references into the site's file store and
// are never verified against it. Photo order is display order.
type RouteDescription struct {
	Area        string   `yaml:"-"`
	Title       string   `yaml:"title"`
	Slug        string   `yaml:"slug"`
	DistanceKm  float64  `yaml:"distance_km"`
	ElevationM  float64  `yaml:"elevation_m"`
	AsphaltPct  *float64 `yaml:"asphalt_pct,omitempty"`
	GravelPct   *float64 `yaml:"gravel_pct,omitempty"`
	GPXFile     string   `yaml:"gpx_file,omitempty"`
	StravaLink  string   `yaml:"strava_link,omitempty"`
	Thumbnail   string   `yaml:"thumbnail,omitempty"`
	Photos      []string `yaml:"photos,omitempty"`
	Description string   `yaml:"-"`
	Published   bool     `yaml:"-"`
}

// Link returns the canonical site path for the route.
func (r RouteDescription) Link() string {
	return "/areas/" + r.Area + "/routes/" + r.Slug
}

// Area groups routes that share a content directory.
type Area struct {
	Slug string
	Name string
}

// MissingFieldError reports a required front-matter key that is absent.
type MissingFieldError struct {
	Field string
}

func (e *MissingFieldError) Error() string {
	return fmt.Sprintf("missing required field %q", e.Field)
}

// TypeMismatchError reports a front-matter value of the wrong type,
// e.g. non-numeric text in distance_km.
type TypeMismatchError struct {
	Field string
	Value any
}

func (e *TypeMismatchError) Error() string {
	return fmt.Sprintf("field %q: cannot use %v (%T)", e.Field, e.Value, e.Value)
}

var slugPattern = regexp.MustCompile(`^[a-z0-9]+(-[a-z0-9]+)*$`)

// ValidSlug reports whether s is a URL-safe slug: lowercase letters, digits
// and single interior hyphens.
func ValidSlug(s string) bool {
	return slugPattern.MatchString(s)
}

// Validate checks required fields and numeric ranges. It returns the first
// violation found, or nil for a well-formed route.
func (r RouteDescription) Validate() error {
	switch {
	case r.Title == "":
		return &MissingFieldError{Field: "title"}
	case r.Slug == "":
		return &MissingFieldError{Field: "slug"}
	case r.Description == "":
		return &MissingFieldError{Field: "description"}
	}
	if !ValidSlug(r.Slug) {
		return fmt.Errorf("slug %q is not URL-safe", r.Slug)
	}
	if r.DistanceKm <= 0 {
		return fmt.Errorf("distance_km must be positive, got %v", r.DistanceKm)
	}
	if r.ElevationM < 0 {
		return fmt.Errorf("elevation_m must be non-negative, got %v", r.ElevationM)
	}
	if r.AsphaltPct != nil && (*r.AsphaltPct < 0 || *r.AsphaltPct > 100) {
		return fmt.Errorf("asphalt_pct out of range: %v", *r.AsphaltPct)
	}
	if r.GravelPct != nil && (*r.GravelPct < 0 || *r.GravelPct > 100) {
		return fmt.Errorf("gravel_pct out of range: %v", *r.GravelPct)
	}
	return nil
}

// Warnings returns advisory findings that do not make the document invalid.
// The source format never enforced the surface-mix sum, so a mismatch is
// surfaced to the author instead of rejecting the route.
func (r RouteDescription) Warnings() []string {
	var warns []string
	if r.AsphaltPct != nil && r.GravelPct != nil {
		if sum := *r.AsphaltPct + *r.GravelPct; sum != 100 {
			warns = append(warns, fmt.Sprintf("route %q: asphalt_pct + gravel_pct = %v, expected 100", r.Slug, sum))
		}
	}
	return warns
}
