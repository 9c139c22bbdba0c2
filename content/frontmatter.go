package content

import (
	"bytes"
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"
)

const delimiter = "---"

// Parse decodes a route document. The document is a YAML front-matter block,
// optionally wrapped in --- delimiters, with the narrative either in a
// `description` key (the original authoring convention) or as free text
// after the closing delimiter. The parsed route is validated before return.
func Parse(data []byte) (RouteDescription, error) {
	meta, body := splitDocument(string(data))

	var raw map[string]any
	if err := yaml.Unmarshal([]byte(meta), &raw); err != nil {
		return RouteDescription{}, fmt.Errorf("parse front matter: %w", err)
	}
	if raw == nil {
		return RouteDescription{}, &MissingFieldError{Field: "title"}
	}

	var r RouteDescription
	var err error
	if r.Title, err = requiredString(raw, "title"); err != nil {
		return RouteDescription{}, err
	}
	if r.Slug, err = requiredString(raw, "slug"); err != nil {
		return RouteDescription{}, err
	}
	if r.DistanceKm, err = requiredNumber(raw, "distance_km"); err != nil {
		return RouteDescription{}, err
	}
	if r.ElevationM, err = requiredNumber(raw, "elevation_m"); err != nil {
		return RouteDescription{}, err
	}
	if r.AsphaltPct, err = optionalNumber(raw, "asphalt_pct"); err != nil {
		return RouteDescription{}, err
	}
	if r.GravelPct, err = optionalNumber(raw, "gravel_pct"); err != nil {
		return RouteDescription{}, err
	}
	if r.GPXFile, err = optionalString(raw, "gpx_file"); err != nil {
		return RouteDescription{}, err
	}
	if r.StravaLink, err = optionalString(raw, "strava_link"); err != nil {
		return RouteDescription{}, err
	}
	if r.Thumbnail, err = optionalString(raw, "thumbnail"); err != nil {
		return RouteDescription{}, err
	}
	if r.Photos, err = optionalStringList(raw, "photos"); err != nil {
		return RouteDescription{}, err
	}

	inline, err := optionalString(raw, "description")
	if err != nil {
		return RouteDescription{}, err
	}
	inline = strings.TrimSpace(inline)
	if inline != "" && body != "" {
		return RouteDescription{}, fmt.Errorf("description given both as front-matter key and document body")
	}
	r.Description = inline
	if body != "" {
		r.Description = body
	}
	r.Published = true

	if err := r.Validate(); err != nil {
		return RouteDescription{}, err
	}
	return r, nil
}

// MarshalDocument serializes the route back to the on-disk format: delimited
// front matter followed by the narrative body. Parse(MarshalDocument(r))
// yields a route equal to r.
func (r RouteDescription) MarshalDocument() ([]byte, error) {
	meta, err := yaml.Marshal(r)
	if err != nil {
		return nil, fmt.Errorf("marshal front matter: %w", err)
	}
	var buf bytes.Buffer
	buf.WriteString(delimiter + "\n")
	buf.Write(meta)
	buf.WriteString(delimiter + "\n\n")
	buf.WriteString(strings.TrimSpace(r.Description))
	buf.WriteString("\n")
	return buf.Bytes(), nil
}

// splitDocument separates front matter from the narrative body. Both the
// delimited form and a bare YAML document are accepted.
func splitDocument(doc string) (meta, body string) {
	doc = strings.ReplaceAll(doc, "\r\n", "\n")
	trimmed := strings.TrimLeft(doc, "\n ")
	if !strings.HasPrefix(trimmed, delimiter) {
		return doc, ""
	}
	rest := trimmed[len(delimiter):]
	rest = strings.TrimPrefix(rest, "\n")
	if idx := strings.Index(rest, "\n"+delimiter); idx >= 0 {
		meta = rest[:idx]
		body = rest[idx+len(delimiter)+1:]
		// Drop the remainder of the delimiter line.
		if nl := strings.Index(body, "\n"); nl >= 0 {
			body = body[nl+1:]
		} else {
			body = ""
		}
		return meta, strings.TrimSpace(body)
	}
	// Opening delimiter without a closing one: the whole rest is YAML,
	// matching how the original generator stripped dashes.
	return strings.TrimRight(strings.TrimSpace(rest), "-"), ""
}

func requiredString(raw map[string]any, key string) (string, error) {
	v, ok := raw[key]
	if !ok || v == nil {
		return "", &MissingFieldError{Field: key}
	}
	s, ok := v.(string)
	if !ok {
		return "", &TypeMismatchError{Field: key, Value: v}
	}
	return s, nil
}

func optionalString(raw map[string]any, key string) (string, error) {
	v, ok := raw[key]
	if !ok || v == nil {
		return "", nil
	}
	s, ok := v.(string)
	if !ok {
		return "", &TypeMismatchError{Field: key, Value: v}
	}
	return s, nil
}

func requiredNumber(raw map[string]any, key string) (float64, error) {
	v, ok := raw[key]
	if !ok || v == nil {
		return 0, &MissingFieldError{Field: key}
	}
	return asNumber(key, v)
}

func optionalNumber(raw map[string]any, key string) (*float64, error) {
	v, ok := raw[key]
	if !ok || v == nil {
		return nil, nil
	}
	n, err := asNumber(key, v)
	if err != nil {
		return nil, err
	}
	return &n, nil
}

// asNumber accepts the numeric types the YAML decoder produces. Quoted
// numbers arrive as strings and are rejected: numeric fields must expose
// numeric values.
func asNumber(key string, v any) (float64, error) {
	switch n := v.(type) {
	case int:
		return float64(n), nil
	case int64:
		return float64(n), nil
	case float64:
		return n, nil
	default:
		return 0, &TypeMismatchError{Field: key, Value: v}
	}
}

func optionalStringList(raw map[string]any, key string) ([]string, error) {
	v, ok := raw[key]
	if !ok || v == nil {
		return nil, nil
	}
	list, ok := v.([]any)
	if !ok {
		return nil, &TypeMismatchError{Field: key, Value: v}
	}
	out := make([]string, 0, len(list))
	for _, item := range list {
		s, ok := item.(string)
		if !ok {
			return nil, &TypeMismatchError{Field: key, Value: item}
		}
		out = append(out, s)
	}
	return out, nil
}
