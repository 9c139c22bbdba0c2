package content

import (
	"errors"
	"strings"
	"testing"
)

const validDoc = `---
title: Kvarnberget runt
slug: kvarnberget-runt
distance_km: 42
elevation_m: 610.5
asphalt_pct: 35
gravel_pct: 65
gpx_file: kvarnberget-runt.gpx
strava_link: https://www.strava.com/routes/123
thumbnail: kvarnberget.jpg
photos:
  - climb.jpg
  - lake.jpg
---

En blandad runda med fin grusväg längs sjön.

## Vägbeskrivning

Starta vid kyrkan.
`

func TestParseValidDocument(t *testing.T) {
	r, err := Parse([]byte(validDoc))
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}

	if r.Title != "Kvarnberget runt" {
		t.Errorf("expected title %q, got %q", "Kvarnberget runt", r.Title)
	}
	if r.Slug != "kvarnberget-runt" {
		t.Errorf("expected slug %q, got %q", "kvarnberget-runt", r.Slug)
	}
	if r.DistanceKm != 42 {
		t.Errorf("expected distance 42, got %v", r.DistanceKm)
	}
	if r.ElevationM != 610.5 {
		t.Errorf("expected elevation 610.5, got %v", r.ElevationM)
	}
	if r.AsphaltPct == nil || *r.AsphaltPct != 35 {
		t.Errorf("expected asphalt pct 35, got %v", r.AsphaltPct)
	}
	if r.GravelPct == nil || *r.GravelPct != 65 {
		t.Errorf("expected gravel pct 65, got %v", r.GravelPct)
	}
	if r.GPXFile != "kvarnberget-runt.gpx" {
		t.Errorf("expected gpx file, got %q", r.GPXFile)
	}
	if len(r.Photos) != 2 || r.Photos[0] != "climb.jpg" || r.Photos[1] != "lake.jpg" {
		t.Errorf("expected photos in authored order, got %v", r.Photos)
	}
	if !strings.HasPrefix(r.Description, "En blandad runda") {
		t.Errorf("expected narrative body as description, got %q", r.Description)
	}
	if !strings.Contains(r.Description, "## Vägbeskrivning") {
		t.Errorf("expected narrative to keep markdown, got %q", r.Description)
	}
	if !r.Published {
		t.Error("expected parsed route to be published")
	}
}

func TestParseBareDocument(t *testing.T) {
	// The authoring convention before delimiters: plain YAML with an inline
	// description key.
	doc := `title: Sjörundan
slug: sjorundan
distance_km: 28.5
elevation_m: 120
description: Platt och snabb runda runt sjön.
`
	r, err := Parse([]byte(doc))
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	if r.Description != "Platt och snabb runda runt sjön." {
		t.Errorf("expected inline description, got %q", r.Description)
	}
	if r.AsphaltPct != nil || r.GravelPct != nil {
		t.Error("expected absent surface shares to stay nil")
	}
}

func TestParseMissingFields(t *testing.T) {
	tests := []struct {
		name  string
		doc   string
		field string
	}{
		{"empty document", "", "title"},
		{"missing title", "slug: x-y\ndistance_km: 10\nelevation_m: 5\ndescription: d\n", "title"},
		{"missing slug", "title: T\ndistance_km: 10\nelevation_m: 5\ndescription: d\n", "slug"},
		{"missing distance", "title: T\nslug: x-y\nelevation_m: 5\ndescription: d\n", "distance_km"},
		{"missing elevation", "title: T\nslug: x-y\ndistance_km: 10\ndescription: d\n", "elevation_m"},
		{"missing description", "title: T\nslug: x-y\ndistance_km: 10\nelevation_m: 5\n", "description"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.doc))
			var missing *MissingFieldError
			if !errors.As(err, &missing) {
				t.Fatalf("expected MissingFieldError, got %v", err)
			}
			if missing.Field != tt.field {
				t.Errorf("expected field %q, got %q", tt.field, missing.Field)
			}
		})
	}
}

func TestParseTypeMismatch(t *testing.T) {
	tests := []struct {
		name  string
		doc   string
		field string
	}{
		{"quoted distance", "title: T\nslug: x-y\ndistance_km: \"42\"\nelevation_m: 5\ndescription: d\n", "distance_km"},
		{"text elevation", "title: T\nslug: x-y\ndistance_km: 10\nelevation_m: hög\ndescription: d\n", "elevation_m"},
		{"numeric title", "title: 42\nslug: x-y\ndistance_km: 10\nelevation_m: 5\ndescription: d\n", "title"},
		{"scalar photos", "title: T\nslug: x-y\ndistance_km: 10\nelevation_m: 5\nphotos: a.jpg\ndescription: d\n", "photos"},
		{"quoted asphalt", "title: T\nslug: x-y\ndistance_km: 10\nelevation_m: 5\nasphalt_pct: \"35\"\ndescription: d\n", "asphalt_pct"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.doc))
			var mismatch *TypeMismatchError
			if !errors.As(err, &mismatch) {
				t.Fatalf("expected TypeMismatchError, got %v", err)
			}
			if mismatch.Field != tt.field {
				t.Errorf("expected field %q, got %q", tt.field, mismatch.Field)
			}
		})
	}
}

func TestParseRejectsDoubleDescription(t *testing.T) {
	doc := `---
title: T
slug: x-y
distance_km: 10
elevation_m: 5
description: inline
---

Body text too.
`
	if _, err := Parse([]byte(doc)); err == nil {
		t.Error("expected error when description appears both inline and as body")
	}
}

func TestParseValidatesRoute(t *testing.T) {
	doc := "title: T\nslug: Not A Slug\ndistance_km: 10\nelevation_m: 5\ndescription: d\n"
	if _, err := Parse([]byte(doc)); err == nil {
		t.Error("expected validation error for bad slug")
	}

	doc = "title: T\nslug: x-y\ndistance_km: 0\nelevation_m: 5\ndescription: d\n"
	if _, err := Parse([]byte(doc)); err == nil {
		t.Error("expected validation error for zero distance")
	}
}

func TestMarshalDocumentRoundTrip(t *testing.T) {
	r, err := Parse([]byte(validDoc))
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}

	data, err := r.MarshalDocument()
	if err != nil {
		t.Fatalf("MarshalDocument failed: %v", err)
	}

	again, err := Parse(data)
	if err != nil {
		t.Fatalf("re-Parse failed: %v", err)
	}
	// Area is assigned by the loader, not carried in the document.
	r.Area = ""

	if again.Title != r.Title || again.Slug != r.Slug {
		t.Errorf("round trip changed identity: %+v vs %+v", again, r)
	}
	if again.DistanceKm != r.DistanceKm || again.ElevationM != r.ElevationM {
		t.Errorf("round trip changed numbers: %+v vs %+v", again, r)
	}
	if *again.AsphaltPct != *r.AsphaltPct || *again.GravelPct != *r.GravelPct {
		t.Error("round trip changed surface shares")
	}
	if len(again.Photos) != len(r.Photos) {
		t.Fatalf("round trip changed photos: %v vs %v", again.Photos, r.Photos)
	}
	for i := range again.Photos {
		if again.Photos[i] != r.Photos[i] {
			t.Errorf("round trip reordered photos: %v vs %v", again.Photos, r.Photos)
		}
	}
	if again.Description != strings.TrimSpace(r.Description) {
		t.Errorf("round trip changed description: %q vs %q", again.Description, r.Description)
	}

	// Idempotence: marshalling the re-parsed route yields identical bytes.
	data2, err := again.MarshalDocument()
	if err != nil {
		t.Fatalf("second MarshalDocument failed: %v", err)
	}
	if string(data) != string(data2) {
		t.Errorf("marshal not stable:\n%s\nvs\n%s", data, data2)
	}
}
