package gravelpress

import "embed"

// EmbeddedAssets contains static assets shipped with the framework:
// routefilter.js (client-side distance/elevation filtering on area indexes).
//
//go:embed embedded/*
var EmbeddedAssets embed.FS
