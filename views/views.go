// Package views provides the templ components for a gravelpress site:
// public route pages in Swedish (matching the site the engine grew out of)
// and the admin dashboard. Components are built with templ.ComponentFunc so
// sites can swap any of them out through gravelpress.ViewFuncs.
package views

import (
	"context"
	"html"
	"io"
	"strconv"
	"strings"

	"github.com/a-h/templ"

	"github.com/eringen/gravelpress/content"
	"github.com/eringen/gravelpress/markdown"
)

func esc(s string) string {
	return html.EscapeString(s)
}

// page wraps body HTML in the site layout.
func page(cfg SiteConfig, meta PageMeta, extraHead string, body func(b *strings.Builder)) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		var b strings.Builder
		b.WriteString("<!DOCTYPE html><html lang=\"sv\"><head><meta charset=\"utf-8\">")
		b.WriteString("<meta name=\"viewport\" content=\"width=device-width, initial-scale=1\">")
		b.WriteString("<title>" + esc(meta.Title) + "</title>")
		if meta.Description != "" {
			b.WriteString("<meta name=\"description\" content=\"" + esc(meta.Description) + "\">")
		}
		if meta.URL != "" {
			b.WriteString("<link rel=\"canonical\" href=\"" + esc(meta.URL) + "\">")
			b.WriteString("<meta property=\"og:url\" content=\"" + esc(meta.URL) + "\">")
		}
		b.WriteString("<meta property=\"og:title\" content=\"" + esc(meta.Title) + "\">")
		if meta.OGType != "" {
			b.WriteString("<meta property=\"og:type\" content=\"" + meta.OGType + "\">")
		}
		b.WriteString("<link rel=\"stylesheet\" href=\"/public/style.css\">")
		b.WriteString(extraHead)
		b.WriteString("</head><body>")
		body(&b)
		b.WriteString("</body></html>")
		_, err := io.WriteString(w, b.String())
		return err
	})
}

func header(b *strings.Builder, title string, nav string) {
	b.WriteString("<header class=\"header\"><h1>" + esc(title) + "</h1>")
	if nav != "" {
		b.WriteString("<nav>" + nav + "</nav>")
	}
	b.WriteString("</header>")
}

// Home renders the root index: one card per area plus the full route count.
func Home(cfg SiteConfig, areas []content.Area, routes []content.RouteDescription) templ.Component {
	meta := PageMeta{
		Title:       cfg.Name,
		Description: cfg.Description,
		URL:         buildURL(cfg.URL),
		OGType:      "website",
	}
	return page(cfg, meta, jsonLDTag(WebsiteJsonLD(cfg)), func(b *strings.Builder) {
		header(b, cfg.Name, "")
		b.WriteString("<section><p>Välj område:</p><ul class=\"area-list\">")
		for _, a := range areas {
			count := 0
			for _, r := range routes {
				if r.Area == a.Slug {
					count++
				}
			}
			b.WriteString("<li><a href=\"/areas/" + PathEscape(a.Slug) + "/\">" + esc(a.Name) + "</a>")
			b.WriteString(" <span class=\"route-count\">(" + strconv.Itoa(count) + " rutter)</span></li>")
		}
		b.WriteString("</ul></section>")
	})
}

// AreaIndex renders an area listing with client-side distance/elevation
// filtering. Route facts ride along as data attributes for routefilter.js.
func AreaIndex(cfg SiteConfig, area content.Area, routes []content.RouteDescription) templ.Component {
	meta := PageMeta{
		Title:       "Gravelrutter i " + area.Name + " – " + cfg.Name,
		Description: cfg.Description,
		URL:         buildURL(cfg.URL, "areas", area.Slug),
		OGType:      "website",
	}
	return page(cfg, meta, "", func(b *strings.Builder) {
		header(b, "Gravelrutter i "+area.Name, "<a href=\"/\">Till startsidan</a>")
		b.WriteString("<section class=\"filter\">")
		b.WriteString("<label>Max distans (km): <input id=\"maxDist\" type=\"number\" min=\"0\" step=\"1\" placeholder=\"Alla\"></label>")
		b.WriteString("<label>Max höjdmeter: <input id=\"maxElev\" type=\"number\" min=\"0\" step=\"50\" placeholder=\"Alla\"></label>")
		b.WriteString("<button id=\"applyFilters\">Filtrera</button>")
		b.WriteString("<button id=\"resetFilters\">Återställ</button>")
		b.WriteString("</section>")
		b.WriteString("<section id=\"routeList\">")
		for _, r := range routes {
			writeRouteCard(b, r)
		}
		b.WriteString("</section>")
		b.WriteString("<p id=\"noRoutes\" style=\"display:none\">Inga rutter matchar filtren.</p>")
		b.WriteString("<script src=\"/public/routefilter.js\" defer></script>")
	})
}

func writeRouteCard(b *strings.Builder, r content.RouteDescription) {
	b.WriteString("<div class=\"route-card\" data-distance=\"" + num(r.DistanceKm) + "\" data-elevation=\"" + num(r.ElevationM) + "\">")
	if r.Thumbnail != "" {
		b.WriteString("<img class=\"route-thumb\" src=\"/public/photos/" + PathEscape(r.Thumbnail) + "\" alt=\"" + esc(r.Title) + "\" loading=\"lazy\">")
	}
	b.WriteString("<h2><a href=\"" + esc(r.Link()) + "/\">" + esc(r.Title) + "</a></h2>")
	b.WriteString("<p><strong>Distans:</strong> " + num(r.DistanceKm) + " km<br>")
	b.WriteString("<strong>Höjdmeter:</strong> " + num(r.ElevationM) + " m")
	if r.AsphaltPct != nil {
		b.WriteString("<br><strong>Asfalt:</strong> " + num(*r.AsphaltPct) + " %")
	}
	if r.GravelPct != nil {
		b.WriteString("<br><strong>Grus:</strong> " + num(*r.GravelPct) + " %")
	}
	b.WriteString("</p></div>")
}

const leafletHead = `<script src="https://cdn.jsdelivr.net/npm/leaflet@1.9.4/dist/leaflet.js"></script>` +
	`<script src="https://cdnjs.cloudflare.com/ajax/libs/leaflet.gpx/1.7.0/gpx.min.js"></script>` +
	`<link rel="stylesheet" href="https://cdn.jsdelivr.net/npm/leaflet@1.9.4/dist/leaflet.css" />`

// Route renders a single route page: facts, map with the GPX track, the
// narrative, the photo gallery, and the download link.
func Route(cfg SiteConfig, r content.RouteDescription, related []content.RouteDescription) templ.Component {
	extraHead := jsonLDTag(RouteJsonLD(cfg, r))
	if r.GPXFile != "" {
		extraHead = leafletHead + extraHead
	}
	meta := PageMeta{
		Title:       r.Title + " – " + cfg.Name,
		Description: num(r.DistanceKm) + " km, " + num(r.ElevationM) + " m höjdmeter",
		URL:         buildURL(cfg.URL, "areas", r.Area, "routes", r.Slug),
		OGType:      "article",
	}
	return page(cfg, meta, extraHead, func(b *strings.Builder) {
		header(b, r.Title,
			"<a href=\"/areas/"+PathEscape(r.Area)+"/\">Tillbaka till ruttlistan</a> | <a href=\"/\">Startsida</a>")
		b.WriteString("<section class=\"route-content\">")

		b.WriteString("<div class=\"route-facts\">")
		b.WriteString("<p><strong>Distans:</strong> " + num(r.DistanceKm) + " km</p>")
		b.WriteString("<p><strong>Höjdmeter:</strong> " + num(r.ElevationM) + " m</p>")
		if r.AsphaltPct != nil {
			b.WriteString("<p><strong>Andel asfalt:</strong> " + num(*r.AsphaltPct) + " %</p>")
		}
		if r.GravelPct != nil {
			b.WriteString("<p><strong>Andel grus:</strong> " + num(*r.GravelPct) + " %</p>")
		}
		if r.StravaLink != "" {
			if safe := markdown.SafeURL(r.StravaLink); safe != "" {
				b.WriteString("<p><a href=\"" + safe + "\" target=\"_blank\" rel=\"noopener noreferrer\">Se rutten på Strava</a></p>")
			}
		}
		b.WriteString("</div>")

		if r.GPXFile != "" {
			b.WriteString("<div id=\"map\" style=\"height:400px; margin-bottom:1em;\"></div>")
			writeMapScript(b, r.GPXFile)
		}

		b.WriteString("<article class=\"description\">")
		var buf strings.Builder
		_ = markdown.Narrative(r.Description).Render(context.Background(), &buf)
		b.WriteString(buf.String())
		b.WriteString("</article>")

		if len(r.Photos) > 0 {
			b.WriteString("<section class=\"photos\"><h2>Bilder</h2><ul class=\"photo-gallery\">")
			for _, img := range r.Photos {
				b.WriteString("<li><img src=\"/public/photos/" + PathEscape(img) + "\" alt=\"Foto " + esc(r.Title) + "\" loading=\"lazy\"></li>")
			}
			b.WriteString("</ul></section>")
		}

		if r.GPXFile != "" {
			b.WriteString("<p><a href=\"/gpx/" + PathEscape(r.GPXFile) + "\">Ladda ned GPX-fil</a></p>")
		}

		writeRelated(b, r, related)
		b.WriteString("</section>")
	})
}

// writeMapScript emits the leaflet map with the GPX track overlaid. The GPX
// path is percent-escaped into a JS string literal; filenames never contain
// quotes after that.
func writeMapScript(b *strings.Builder, gpxFile string) {
	b.WriteString(`<script>
      const map = L.map('map');
      L.tileLayer('https://{s}.tile.openstreetmap.org/{z}/{x}/{y}.png', {
        attribution: 'Map data © <a href="https://openstreetmap.org">OpenStreetMap</a> contributors'
      }).addTo(map);
      const gpxPath = '/gpx/` + PathEscape(gpxFile) + `';
      new L.GPX(gpxPath, {
        async: true,
        marker_options: {
          startIconUrl: 'https://cdnjs.cloudflare.com/ajax/libs/leaflet.gpx/1.7.0/pin-icon-start.png',
          endIconUrl: 'https://cdnjs.cloudflare.com/ajax/libs/leaflet.gpx/1.7.0/pin-icon-end.png',
          shadowUrl: 'https://cdnjs.cloudflare.com/ajax/libs/leaflet.gpx/1.7.0/pin-shadow.png'
        }
      }).on('loaded', function(e) {
        map.fitBounds(e.target.getBounds());
      }).addTo(map);
    </script>`)
}

func writeRelated(b *strings.Builder, current content.RouteDescription, related []content.RouteDescription) {
	var others []content.RouteDescription
	for _, r := range related {
		if r.Slug != current.Slug {
			others = append(others, r)
		}
	}
	if len(others) == 0 {
		return
	}
	b.WriteString("<section class=\"related\"><h2>Fler rutter i området</h2><ul>")
	for _, r := range others {
		b.WriteString("<li><a href=\"" + esc(r.Link()) + "/\">" + esc(r.Title) + "</a> (" + num(r.DistanceKm) + " km)</li>")
	}
	b.WriteString("</ul></section>")
}

// NotFound renders the 404 page.
func NotFound(cfg SiteConfig) templ.Component {
	return page(cfg, PageMeta{Title: "Sidan finns inte – " + cfg.Name}, "", func(b *strings.Builder) {
		header(b, "404", "<a href=\"/\">Startsida</a>")
		b.WriteString("<section><p>Sidan du letar efter finns inte.</p></section>")
	})
}

// ServerError renders the 500 page.
func ServerError(cfg SiteConfig) templ.Component {
	return page(cfg, PageMeta{Title: "Serverfel – " + cfg.Name}, "", func(b *strings.Builder) {
		header(b, "Serverfel", "<a href=\"/\">Startsida</a>")
		b.WriteString("<section><p>Något gick fel. Försök igen om en stund.</p></section>")
	})
}

func jsonLDTag(data string) string {
	return "<script type=\"application/ld+json\">" + data + "</script>"
}
