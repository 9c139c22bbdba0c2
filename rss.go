package gravelpress

import (
	"encoding/xml"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/eringen/gravelpress/content"
)

type rssXML struct {
	XMLName xml.Name   `xml:"rss"`
	Version string     `xml:"version,attr"`
	Channel rssChannel `xml:"channel"`
}

type rssChannel struct {
	Title       string    `xml:"title"`
	Link        string    `xml:"link"`
	Description string    `xml:"description"`
	Items       []rssItem `xml:"item"`
}

type rssItem struct {
	Title       string `xml:"title"`
	Link        string `xml:"link"`
	Description string `xml:"description"`
	GUID        string `xml:"guid"`
}

func (a *App) renderRSS(c echo.Context, routes []content.RouteDescription) error {
	base := a.Config.URL
	items := make([]rssItem, 0, len(routes))
	for _, r := range routes {
		routeURL := BuildURL(base, "areas", r.Area, "routes", r.Slug)
		items = append(items, rssItem{
			Title:       r.Title,
			Link:        routeURL,
			Description: RouteSummary(r),
			GUID:        routeURL,
		})
	}
	feed := rssXML{
		Version: "2.0",
		Channel: rssChannel{
			Title:       a.Config.Name,
			Link:        base,
			Description: a.Config.Description,
			Items:       items,
		},
	}
	c.Response().Header().Set(echo.HeaderContentType, "application/rss+xml; charset=utf-8")
	c.Response().WriteHeader(http.StatusOK)
	c.Response().Write([]byte(xml.Header))
	return xml.NewEncoder(c.Response()).Encode(feed)
}

// RouteSummary renders the route facts as a one-line feed description.
// Route documents carry no separate summary field, so the numbers stand in.
func RouteSummary(r content.RouteDescription) string {
	s := fmt.Sprintf("%s km, %s m climb", FormatNumber(r.DistanceKm), FormatNumber(r.ElevationM))
	if r.AsphaltPct != nil && r.GravelPct != nil {
		s += fmt.Sprintf(" (%s%% asphalt, %s%% gravel)", FormatNumber(*r.AsphaltPct), FormatNumber(*r.GravelPct))
	}
	return s
}
