// README: Embedded page templates and static assets for the planner front end.
package web

import (
	"embed"
	"html/template"
	"io/fs"
	"net/http"

	"github.com/samber/lo"
)

//go:embed templates/*.html
var templateFS embed.FS

//go:embed static
var staticFS embed.FS

// TravelOptions are the decorative tiles above the feed.
var TravelOptions = []string{"Destinations", "Adventures", "Group Travel", "Culinary Tours"}

func Templates() (*template.Template, error) {
	return template.New("nomad").Funcs(template.FuncMap{
		"lines":    RenderLines,
		"contains": func(list []string, v string) bool { return lo.Contains(list, v) },
		"add":      func(a, b int) int { return a + b },
	}).ParseFS(templateFS, "templates/*.html")
}

// Static serves the files under static/ at the mount point root.
func Static() http.FileSystem {
	sub, err := fs.Sub(staticFS, "static")
	if err != nil {
		panic(err)
	}
	return http.FS(sub)
}
