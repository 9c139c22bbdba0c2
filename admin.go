package gravelpress

import (
	"crypto/subtle"
	"database/sql"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/eringen/gravelpress/content"
)

func (a *App) handleAdmin(c echo.Context) error {
	if !IsAdmin(c) {
		return Render(c, a.Views.AdminLogin(false, CsrfToken(c)))
	}
	return a.renderAdminDashboard(c, c.QueryParam("msg"))
}

func (a *App) handleAdminRoute(c echo.Context) error {
	if !IsAdmin(c) {
		return c.Redirect(http.StatusSeeOther, "/admin/")
	}
	slug := c.Param("slug")
	route, err := a.Store.GetRouteAny(slug)
	if err != nil {
		if err == sql.ErrNoRows {
			return c.NoContent(http.StatusNotFound)
		}
		return err
	}
	return Render(c, a.Views.AdminFormPartial(route, CsrfToken(c)))
}

func (a *App) handleAdminLogin(c echo.Context) error {
	if !a.loginLimiter.Check(c.RealIP()) {
		return c.String(http.StatusTooManyRequests, "Too many login attempts. Try again later.")
	}
	pass := c.FormValue("password")
	if subtle.ConstantTimeCompare([]byte(pass), []byte(a.Config.AdminPassword)) == 1 {
		if err := setAdminSession(c); err != nil {
			return err
		}
		return c.Redirect(http.StatusSeeOther, "/admin/")
	}
	a.loginLimiter.Record(c.RealIP())
	return Render(c, a.Views.AdminLogin(true, CsrfToken(c)))
}

func handleAdminLogout(c echo.Context) error {
	if err := clearAdminSession(c); err != nil {
		return err
	}
	return c.Redirect(http.StatusSeeOther, "/admin/")
}

func (a *App) handleAdminSave(c echo.Context) error {
	if !IsAdmin(c) {
		return c.Redirect(http.StatusSeeOther, "/admin/")
	}
	if err := c.Request().ParseForm(); err != nil {
		return err
	}
	title := strings.TrimSpace(c.FormValue("title"))
	slug := strings.TrimSpace(c.FormValue("slug"))
	if slug == "" {
		slug = Slugify(title)
	}
	if slug == "" {
		return adminRedirect(c, "Slug is required. Add a title or slug.")
	}
	area := strings.TrimSpace(c.FormValue("area"))
	if area == "" {
		return adminRedirect(c, "Area is required.")
	}

	distance, err := parseFormNumber(c, "distance_km")
	if err != nil {
		return adminRedirect(c, "Distance must be a number.")
	}
	elevation, err := parseFormNumber(c, "elevation_m")
	if err != nil {
		return adminRedirect(c, "Elevation must be a number.")
	}
	asphalt, err := parseOptionalFormNumber(c, "asphalt_pct")
	if err != nil {
		return adminRedirect(c, "Asphalt share must be a number.")
	}
	gravel, err := parseOptionalFormNumber(c, "gravel_pct")
	if err != nil {
		return adminRedirect(c, "Gravel share must be a number.")
	}

	photos := FilterEmpty(strings.Split(c.FormValue("photos"), "\n"))
	for i := range photos {
		photos[i] = strings.TrimSpace(photos[i])
	}

	route := content.RouteDescription{
		Slug:        slug,
		Area:        Slugify(area),
		Title:       title,
		DistanceKm:  distance,
		ElevationM:  elevation,
		AsphaltPct:  asphalt,
		GravelPct:   gravel,
		GPXFile:     strings.TrimSpace(c.FormValue("gpx_file")),
		StravaLink:  strings.TrimSpace(c.FormValue("strava_link")),
		Thumbnail:   strings.TrimSpace(c.FormValue("thumbnail")),
		Photos:      photos,
		Description: c.FormValue("description"),
		Published:   c.FormValue("published") != "",
	}
	if err := route.Validate(); err != nil {
		return adminRedirect(c, err.Error())
	}
	if err := a.Store.SaveRoute(route); err != nil {
		return err
	}
	a.Cache.Invalidate()
	return a.renderAdminDashboard(c, "saved")
}

func (a *App) handleAdminDelete(c echo.Context) error {
	if !IsAdmin(c) {
		return c.Redirect(http.StatusSeeOther, "/admin/")
	}
	slug := c.Param("slug")
	if err := a.Store.DeleteRoute(slug); err != nil {
		return err
	}
	a.Cache.Invalidate()
	return a.renderAdminDashboard(c, "deleted")
}

// handleAdminSync re-ingests the content tree on demand, so file edits show
// up without a restart.
func (a *App) handleAdminSync(c echo.Context) error {
	if !IsAdmin(c) {
		return c.Redirect(http.StatusSeeOther, "/admin/")
	}
	report, err := SyncContent(a.Store, a.Config.ContentDir)
	if err != nil {
		return adminRedirect(c, "Sync failed: "+err.Error())
	}
	a.Cache.Invalidate()
	msg := "synced " + strconv.Itoa(report.Routes) + " routes"
	if len(report.Warnings) > 0 {
		msg += " (" + strconv.Itoa(len(report.Warnings)) + " warnings, see log)"
		for _, w := range report.Warnings {
			c.Logger().Warnf("content: %s", w)
		}
	}
	return a.renderAdminDashboard(c, msg)
}

func (a *App) renderAdminDashboard(c echo.Context, msg string) error {
	routes, err := a.Store.ListAllRoutes()
	if err != nil {
		return err
	}
	counts, err := a.Store.ViewCounts()
	if err != nil {
		return err
	}
	return Render(c, a.Views.AdminDashboard(routes, counts, msg, CsrfToken(c)))
}

func adminRedirect(c echo.Context, msg string) error {
	return c.Redirect(http.StatusSeeOther, "/admin/?msg="+url.QueryEscape(msg))
}

func parseFormNumber(c echo.Context, field string) (float64, error) {
	return strconv.ParseFloat(strings.TrimSpace(c.FormValue(field)), 64)
}

func parseOptionalFormNumber(c echo.Context, field string) (*float64, error) {
	v := strings.TrimSpace(c.FormValue(field))
	if v == "" {
		return nil, nil
	}
	n, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return nil, err
	}
	return &n, nil
}
