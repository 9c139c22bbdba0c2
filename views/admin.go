package views

import (
	"strconv"
	"strings"

	"github.com/a-h/templ"

	"github.com/eringen/gravelpress"
	"github.com/eringen/gravelpress/content"
)

// AdminLogin renders the password form.
func AdminLogin(cfg SiteConfig, showError bool, csrfToken string) templ.Component {
	return page(cfg, PageMeta{Title: "Admin – " + cfg.Name}, "", func(b *strings.Builder) {
		header(b, "Admin", "<a href=\"/\">Startsida</a>")
		b.WriteString("<section class=\"admin-login\">")
		if showError {
			b.WriteString("<p class=\"error\">Fel lösenord.</p>")
		}
		b.WriteString("<form method=\"post\" action=\"/admin/login/\">")
		b.WriteString(csrfField(csrfToken))
		b.WriteString("<label>Lösenord: <input type=\"password\" name=\"password\" autofocus></label>")
		b.WriteString("<button type=\"submit\">Logga in</button>")
		b.WriteString("</form></section>")
	})
}

// AdminDashboard renders the route table with view counters, the sync
// button, and a blank form for new routes.
func AdminDashboard(cfg SiteConfig, routes []content.RouteDescription, viewCounts map[string]int64, message, csrfToken string) templ.Component {
	return page(cfg, PageMeta{Title: "Admin – " + cfg.Name}, "", func(b *strings.Builder) {
		header(b, "Admin",
			"<a href=\"/admin/photos/\">Bilder</a> | <a href=\"/\">Startsida</a>")
		if message != "" {
			b.WriteString("<p class=\"message\">" + esc(message) + "</p>")
		}

		b.WriteString("<section class=\"admin-actions\">")
		b.WriteString("<form method=\"post\" action=\"/admin/sync/\" style=\"display:inline\">")
		b.WriteString(csrfField(csrfToken))
		b.WriteString("<button type=\"submit\">Läs in ruttfiler på nytt</button></form> ")
		b.WriteString("<form method=\"post\" action=\"/admin/logout/\" style=\"display:inline\">")
		b.WriteString(csrfField(csrfToken))
		b.WriteString("<button type=\"submit\">Logga ut</button></form>")
		b.WriteString("</section>")

		b.WriteString("<table class=\"admin-table\"><thead><tr>")
		b.WriteString("<th>Rutt</th><th>Område</th><th>Distans</th><th>Publicerad</th><th>Visningar</th><th></th>")
		b.WriteString("</tr></thead><tbody>")
		for _, r := range routes {
			b.WriteString("<tr><td><a href=\"/admin/route/" + PathEscape(r.Slug) + "/\">" + esc(r.Title) + "</a></td>")
			b.WriteString("<td>" + esc(r.Area) + "</td>")
			b.WriteString("<td>" + num(r.DistanceKm) + " km</td>")
			if r.Published {
				b.WriteString("<td>ja</td>")
			} else {
				b.WriteString("<td>utkast</td>")
			}
			b.WriteString("<td>" + strconv.FormatInt(viewCounts[r.Slug], 10) + "</td>")
			b.WriteString("<td><button class=\"delete\" data-slug=\"" + esc(r.Slug) + "\">Ta bort</button></td></tr>")
		}
		b.WriteString("</tbody></table>")

		b.WriteString("<h2>Ny rutt</h2>")
		writeRouteForm(b, content.RouteDescription{Published: true}, csrfToken)

		// Delete buttons go through fetch so the DELETE route works without
		// extra client libraries.
		b.WriteString(`<script>
      document.querySelectorAll('button.delete').forEach(function (btn) {
        btn.addEventListener('click', function () {
          if (!confirm('Ta bort rutten ' + btn.dataset.slug + '?')) return;
          fetch('/admin/route/' + encodeURIComponent(btn.dataset.slug) + '/', {
            method: 'DELETE',
            headers: {'X-CSRF-Token': '` + esc(csrfToken) + `'}
          }).then(function () { location.reload(); });
        });
      });
    </script>`)
	})
}

// AdminFormPartial renders the edit form for an existing route.
func AdminFormPartial(cfg SiteConfig, r content.RouteDescription, csrfToken string) templ.Component {
	return page(cfg, PageMeta{Title: "Redigera " + r.Title + " – " + cfg.Name}, "", func(b *strings.Builder) {
		header(b, "Redigera rutt", "<a href=\"/admin/\">Tillbaka</a>")
		writeRouteForm(b, r, csrfToken)
	})
}

func writeRouteForm(b *strings.Builder, r content.RouteDescription, csrfToken string) {
	b.WriteString("<form method=\"post\" action=\"/admin/save/\" class=\"route-form\">")
	b.WriteString(csrfField(csrfToken))
	textField(b, "Titel", "title", r.Title)
	textField(b, "Slug", "slug", r.Slug)
	textField(b, "Område", "area", r.Area)
	textField(b, "Distans (km)", "distance_km", numOrEmpty(r.DistanceKm))
	textField(b, "Höjdmeter (m)", "elevation_m", numOrEmpty(r.ElevationM))
	textField(b, "Andel asfalt (%)", "asphalt_pct", optNum(r.AsphaltPct))
	textField(b, "Andel grus (%)", "gravel_pct", optNum(r.GravelPct))
	textField(b, "GPX-fil", "gpx_file", r.GPXFile)
	textField(b, "Strava-länk", "strava_link", r.StravaLink)
	textField(b, "Miniatyrbild", "thumbnail", r.Thumbnail)
	b.WriteString("<label>Bilder (en per rad)<br><textarea name=\"photos\" rows=\"4\">" + esc(strings.Join(r.Photos, "\n")) + "</textarea></label><br>")
	b.WriteString("<label>Beskrivning<br><textarea name=\"description\" rows=\"14\">" + esc(r.Description) + "</textarea></label><br>")
	b.WriteString("<label><input type=\"checkbox\" name=\"published\" value=\"1\"")
	if r.Published {
		b.WriteString(" checked")
	}
	b.WriteString("> Publicerad</label><br>")
	b.WriteString("<button type=\"submit\">Spara</button>")
	b.WriteString("</form>")
}

// AdminPhotos renders the photo gallery manager.
func AdminPhotos(cfg SiteConfig, photos []gravelpress.Photo, csrfToken string) templ.Component {
	return page(cfg, PageMeta{Title: "Bilder – " + cfg.Name}, "", func(b *strings.Builder) {
		header(b, "Bilder", "<a href=\"/admin/\">Tillbaka</a>")

		b.WriteString("<form method=\"post\" action=\"/admin/photos/upload/\" enctype=\"multipart/form-data\">")
		b.WriteString(csrfField(csrfToken))
		b.WriteString("<label>Ladda upp bild: <input type=\"file\" name=\"photo\" accept=\"image/*\"></label>")
		b.WriteString("<button type=\"submit\">Ladda upp</button></form>")

		b.WriteString("<ul class=\"photo-admin\">")
		for _, p := range photos {
			b.WriteString("<li><img src=\"/public/photos/" + PathEscape(p.Filename) + "\" alt=\"" + esc(p.OriginalName) + "\" width=\"200\">")
			b.WriteString("<br><code>" + esc(p.Filename) + "</code> (" + strconv.Itoa(p.Width) + "×" + strconv.Itoa(p.Height) + ")")
			b.WriteString(" <button class=\"delete\" data-filename=\"" + esc(p.Filename) + "\">Ta bort</button></li>")
		}
		b.WriteString("</ul>")

		b.WriteString(`<script>
      document.querySelectorAll('button.delete').forEach(function (btn) {
        btn.addEventListener('click', function () {
          if (!confirm('Ta bort bilden ' + btn.dataset.filename + '?')) return;
          fetch('/admin/photos/' + encodeURIComponent(btn.dataset.filename) + '/', {
            method: 'DELETE',
            headers: {'X-CSRF-Token': '` + esc(csrfToken) + `'}
          }).then(function () { location.reload(); });
        });
      });
    </script>`)
	})
}

func csrfField(token string) string {
	return "<input type=\"hidden\" name=\"_csrf\" value=\"" + esc(token) + "\">"
}

func textField(b *strings.Builder, label, name, value string) {
	b.WriteString("<label>" + esc(label) + " <input type=\"text\" name=\"" + name + "\" value=\"" + esc(value) + "\"></label><br>")
}

func numOrEmpty(v float64) string {
	if v == 0 {
		return ""
	}
	return num(v)
}

func optNum(v *float64) string {
	if v == nil {
		return ""
	}
	return num(*v)
}
