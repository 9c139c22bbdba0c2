package gravelpress

import (
	"fmt"
	"net/http"
	"path/filepath"

	"github.com/labstack/echo/v4"
)

func (a *App) handleHome(c echo.Context) error {
	areas, err := a.Cache.ListAreas()
	if err != nil {
		return err
	}
	routes, err := a.Cache.ListRoutes("")
	if err != nil {
		return err
	}
	return Render(c, a.Views.Home(areas, routes, a.Config.URL))
}

func (a *App) handleAreaIndex(c echo.Context) error {
	area, err := a.Cache.GetArea(c.Param("area"))
	if err != nil {
		if err == ErrNotFound {
			return RenderStatus(c, http.StatusNotFound, a.Views.NotFound())
		}
		return err
	}
	routes, err := a.Cache.ListRoutes(area.Slug)
	if err != nil {
		return err
	}
	return Render(c, a.Views.AreaIndex(area, routes, a.Config.URL))
}

func (a *App) handleRoute(c echo.Context) error {
	route, err := a.Cache.GetRoute(c.Param("slug"))
	if err != nil || route.Area != c.Param("area") {
		if err == nil || err == ErrNotFound {
			return RenderStatus(c, http.StatusNotFound, a.Views.NotFound())
		}
		return err
	}
	related, err := a.Cache.ListRoutes(route.Area)
	if err != nil {
		return err
	}
	// Best-effort view counter; a failed write never breaks the page.
	if err := a.Store.RecordView(route.Slug); err != nil {
		c.Logger().Warnf("record view for %s: %v", route.Slug, err)
	}
	return Render(c, a.Views.Route(route, related, a.Config.URL))
}

// handleGPXDownload serves a GPX track as an attachment. Track files are
// opaque references named by route documents; they are streamed as-is and
// never parsed.
func (a *App) handleGPXDownload(c echo.Context) error {
	filename := filepath.Base(c.Param("filename"))
	if filename == "" || filename == "." || filename == ".." || filepath.Ext(filename) != ".gpx" {
		return echo.NewHTTPError(http.StatusNotFound)
	}
	path := filepath.Join(a.Config.GPXDir, filename)
	c.Response().Header().Set(echo.HeaderContentType, "application/gpx+xml")
	return c.Attachment(path, filename)
}

func (a *App) handleSitemap(c echo.Context) error {
	areas, err := a.Cache.ListAreas()
	if err != nil {
		return err
	}
	routes, err := a.Cache.ListRoutes("")
	if err != nil {
		return err
	}
	return a.renderSitemap(c, areas, routes)
}

func (a *App) handleFeed(c echo.Context) error {
	routes, err := a.Cache.ListRoutes("")
	if err != nil {
		return err
	}
	return a.renderRSS(c, routes)
}

func (a *App) handleFavicon(c echo.Context) error {
	return c.File(a.staticDir + "/favicon.svg")
}

// handleRobots generates robots.txt dynamically from the configured site URL.
func (a *App) handleRobots(c echo.Context) error {
	body := fmt.Sprintf("User-agent: *\nAllow: /\nDisallow: /admin/\n\nSitemap: %s/sitemap.xml\n", a.Config.URL)
	return c.String(http.StatusOK, body)
}

func (a *App) httpErrorHandler(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}
	he, ok := err.(*echo.HTTPError)
	if ok && he.Code == http.StatusNotFound {
		_ = RenderStatus(c, http.StatusNotFound, a.Views.NotFound())
		return
	}
	code := http.StatusInternalServerError
	if ok {
		code = he.Code
	}
	if code >= 500 {
		c.Logger().Errorf("server error: %v", err)
		_ = RenderStatus(c, code, a.Views.ServerError())
		return
	}
	a.Echo.DefaultHTTPErrorHandler(err, c)
}
