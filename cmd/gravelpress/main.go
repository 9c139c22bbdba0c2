// Command gravelpress serves a cycling-route site from the current
// directory: route documents under areas/, GPX tracks under gpx/, static
// assets under public/. Site branding comes from environment variables.
package main

import (
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/a-h/templ"
	"github.com/joho/godotenv"
	_ "modernc.org/sqlite"

	"github.com/eringen/gravelpress"
	"github.com/eringen/gravelpress/content"
	"github.com/eringen/gravelpress/views"
)

// version is set at build time via ldflags.
var version = "dev"

func main() {
	cmd := "serve"
	if len(os.Args) > 1 {
		cmd = os.Args[1]
	}

	switch cmd {
	case "serve":
		if err := runServe(); err != nil {
			log.Fatal(err)
		}
	case "sync":
		if err := runSync(); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
	case "new":
		if len(os.Args) < 3 {
			fmt.Fprintln(os.Stderr, "Usage: gravelpress new <site-name>")
			os.Exit(1)
		}
		if err := runNew(os.Args[2]); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
	case "version":
		fmt.Printf("gravelpress %s\n", version)
	case "help", "-h", "--help":
		printUsage()
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n\n", cmd)
		printUsage()
		os.Exit(1)
	}
}

func runServe() error {
	// .env is optional; environment variables win either way.
	_ = godotenv.Load()

	cfg := siteConfig()
	vcfg := viewConfig(cfg)

	app := gravelpress.New(cfg, viewFuncs(vcfg))
	defer app.Close()
	return app.Start()
}

func runSync() error {
	_ = godotenv.Load()

	store, err := gravelpress.NewStore(gravelpress.EnvOr("DATABASE_PATH", "data/routes.db"))
	if err != nil {
		return err
	}
	defer store.Close()

	report, err := gravelpress.SyncContent(store, gravelpress.EnvOr("CONTENT_DIR", "areas"))
	if err != nil {
		return err
	}
	for _, w := range report.Warnings {
		fmt.Fprintf(os.Stderr, "warning: %s\n", w)
	}
	fmt.Printf("Synced %d routes in %d areas.\n", report.Routes, report.Areas)
	return nil
}

func siteConfig() gravelpress.SiteConfig {
	return gravelpress.SiteConfig{
		Name:          gravelpress.EnvOr("SITE_NAME", "Gravelrutter"),
		URL:           strings.TrimSuffix(gravelpress.EnvOr("SITE_URL", "http://localhost:3000"), "/"),
		Description:   os.Getenv("SITE_DESCRIPTION"),
		Author:        os.Getenv("SITE_AUTHOR"),
		Addr:          gravelpress.EnvOr("ADDR", ":3000"),
		DatabasePath:  gravelpress.EnvOr("DATABASE_PATH", "data/routes.db"),
		ContentDir:    gravelpress.EnvOr("CONTENT_DIR", "areas"),
		GPXDir:        gravelpress.EnvOr("GPX_DIR", "gpx"),
		AdminPassword: gravelpress.MustEnv("ADMIN_PASSWORD"),
		SessionSecret: gravelpress.MustEnv("ADMIN_SESSION_SECRET"),
		CookieSecure:  strings.EqualFold(os.Getenv("COOKIE_SECURE"), "true"),
	}
}

func viewConfig(cfg gravelpress.SiteConfig) views.SiteConfig {
	return views.SiteConfig{
		Name:        cfg.Name,
		URL:         cfg.URL,
		Description: cfg.Description,
		Author:      cfg.Author,
	}
}

// viewFuncs wires the stock views package into the framework. Sites that
// want their own templates swap individual entries out.
func viewFuncs(vcfg views.SiteConfig) gravelpress.ViewFuncs {
	return gravelpress.ViewFuncs{
		Home: func(areas []content.Area, routes []content.RouteDescription, _ string) templ.Component {
			return views.Home(vcfg, areas, routes)
		},
		AreaIndex: func(area content.Area, routes []content.RouteDescription, _ string) templ.Component {
			return views.AreaIndex(vcfg, area, routes)
		},
		Route: func(route content.RouteDescription, related []content.RouteDescription, _ string) templ.Component {
			return views.Route(vcfg, route, related)
		},
		AdminLogin: func(showError bool, csrfToken string) templ.Component {
			return views.AdminLogin(vcfg, showError, csrfToken)
		},
		AdminDashboard: func(routes []content.RouteDescription, viewCounts map[string]int64, message, csrfToken string) templ.Component {
			return views.AdminDashboard(vcfg, routes, viewCounts, message, csrfToken)
		},
		AdminFormPartial: func(route content.RouteDescription, csrfToken string) templ.Component {
			return views.AdminFormPartial(vcfg, route, csrfToken)
		},
		AdminPhotos: func(photos []gravelpress.Photo, csrfToken string) templ.Component {
			return views.AdminPhotos(vcfg, photos, csrfToken)
		},
		NotFound: func() templ.Component {
			return views.NotFound(vcfg)
		},
		ServerError: func() templ.Component {
			return views.ServerError(vcfg)
		},
	}
}

func printUsage() {
	fmt.Println(`gravelpress - A publishing engine for cycling-route sites

Usage:
  gravelpress <command> [arguments]

Commands:
  serve         Start the site server (default)
  sync          Ingest route documents into the database and exit
  new <name>    Create a new site directory with sample content
  version       Print the gravelpress version
  help          Show this help message

Examples:
  gravelpress new myroutes
  cd myroutes && gravelpress`)
}
