// Package gravelpress is a publishing engine for cycling-route sites, built
// with Go, Echo, and templ. Routes are authored as front-matter documents
// under areas/<area>/metadata/, ingested into SQLite, and served as area
// indexes, route pages with map and photo gallery, GPX downloads, RSS, and
// a sitemap, with an admin dashboard for edits and photo uploads.
//
// Users provide their own templ components via the ViewFuncs struct, and
// gravelpress handles the handler logic, middleware, ingest, and database
// operations.
package gravelpress

import (
	"fmt"
	"io/fs"
	"log"
	"net/http"
	"os"
	"time"

	"github.com/a-h/templ"
	"github.com/labstack/echo/v4"

	"github.com/eringen/gravelpress/content"
)

// ViewFuncs holds user-provided templ components that the framework calls
// when rendering pages. This is the inversion-of-control mechanism that
// lets users own and customize all templates.
type ViewFuncs struct {
	Home             func(areas []content.Area, routes []content.RouteDescription, siteURL string) templ.Component
	AreaIndex        func(area content.Area, routes []content.RouteDescription, siteURL string) templ.Component
	Route            func(route content.RouteDescription, related []content.RouteDescription, siteURL string) templ.Component
	AdminLogin       func(showError bool, csrfToken string) templ.Component
	AdminDashboard   func(routes []content.RouteDescription, viewCounts map[string]int64, message string, csrfToken string) templ.Component
	AdminFormPartial func(route content.RouteDescription, csrfToken string) templ.Component
	AdminPhotos      func(photos []Photo, csrfToken string) templ.Component
	NotFound         func() templ.Component
	ServerError      func() templ.Component
}

// App is the central gravelpress application. It wires together the store,
// cache, handlers, middleware, and user-provided templates.
type App struct {
	Config SiteConfig
	Echo   *echo.Echo
	Store  *Store
	Cache  *RouteCache
	Views  ViewFuncs

	loginLimiter *LoginLimiter
	customRoutes []func(*App)
	staticDir    string
}

// New creates a new gravelpress App with the given configuration and view functions.
func New(cfg SiteConfig, views ViewFuncs, opts ...Option) *App {
	cfg.setDefaults()

	a := &App{
		Config:    cfg,
		Echo:      echo.New(),
		Views:     views,
		staticDir: "public",
	}

	for _, opt := range opts {
		opt(a)
	}

	return a
}

// Start initializes the database, ingests the content tree, sets up
// middleware and routes, and starts the server.
func (a *App) Start() error {
	// Validate required config
	if a.Config.AdminPassword == "" {
		return fmt.Errorf("gravelpress: AdminPassword is required")
	}
	if a.Config.SessionSecret == "" {
		return fmt.Errorf("gravelpress: SessionSecret is required")
	}

	// Initialize store
	store, err := NewStore(a.Config.DatabasePath)
	if err != nil {
		return fmt.Errorf("gravelpress: init store: %w", err)
	}
	a.Store = store

	// Ingest route documents from the content tree
	if a.Config.ContentDir != "" {
		report, err := SyncContent(a.Store, a.Config.ContentDir)
		if err != nil {
			return fmt.Errorf("gravelpress: sync content: %w", err)
		}
		for _, w := range report.Warnings {
			a.Echo.Logger.Warnf("content: %s", w)
		}
		a.Echo.Logger.Infof("content: loaded %d routes in %d areas", report.Routes, report.Areas)
	}

	// Initialize cache
	a.Cache = NewRouteCache(a.Store, a.Config.RouteCacheTTL)

	// Initialize login limiter
	a.loginLimiter = NewLoginLimiter(5, time.Minute)

	// Setup middleware
	a.setupMiddleware()

	// Setup routes
	a.setupRoutes()

	// Apply custom routes
	for _, fn := range a.customRoutes {
		fn(a)
	}

	// Start server
	if err := a.Echo.Start(a.Config.Addr); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

func (a *App) setupRoutes() {
	e := a.Echo

	// Serve embedded framework assets under /public/, falling through to the
	// user's static dir for everything else.
	embeddedFS, _ := fs.Sub(EmbeddedAssets, "embedded")
	embeddedHandler := http.FileServer(http.FS(embeddedFS))
	e.GET("/public/routefilter.js", echo.WrapHandler(http.StripPrefix("/public/", embeddedHandler)))

	// User's static assets
	e.Static("/public", a.staticDir)
	e.GET("/favicon.svg", a.handleFavicon)
	e.GET("/robots.txt", a.handleRobots)

	// Public routes
	e.GET("/sitemap.xml", a.handleSitemap)
	e.GET("/feed.xml", a.handleFeed)
	e.GET("/", a.handleHome)
	e.GET("/areas/:area/", a.handleAreaIndex)
	e.GET("/areas/:area/routes/:slug/", a.handleRoute)
	e.GET("/gpx/:filename", a.handleGPXDownload)

	// Admin routes
	e.GET("/admin/", a.handleAdmin)
	e.POST("/admin/login/", a.handleAdminLogin)
	e.POST("/admin/logout/", handleAdminLogout)
	e.GET("/admin/route/:slug/", a.handleAdminRoute)
	e.POST("/admin/save/", a.handleAdminSave)
	e.DELETE("/admin/route/:slug/", a.handleAdminDelete)
	e.POST("/admin/sync/", a.handleAdminSync)
	e.GET("/admin/photos/", a.handlePhotoList)
	e.POST("/admin/photos/upload/", a.handlePhotoUpload)
	e.DELETE("/admin/photos/:filename/", a.handlePhotoDelete)
}

// Close cleans up resources. Call this when the app is shutting down.
func (a *App) Close() error {
	if a.Store != nil {
		a.Store.Close()
	}
	return nil
}

// EnvOr returns the value of the environment variable key, or fallback if empty.
// This is a convenience function for use in scaffolded main.go files.
func EnvOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// MustEnv returns the value of the environment variable key, or fatally exits if empty.
func MustEnv(key string) string {
	v := os.Getenv(key)
	if v == "" {
		log.Fatalf("gravelpress: required environment variable %s is not set", key)
	}
	return v
}
