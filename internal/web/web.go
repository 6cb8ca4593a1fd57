// Package web holds the dashboard templates and static assets.
package web

import (
	"embed"
	"fmt"
	"html/template"
	"io/fs"
	"net/http"

	"github.com/jengzang/subscriber-insights-go/internal/models"
)

//go:embed templates/*.html
var templateFS embed.FS

//go:embed static
var staticFS embed.FS

type rsrpTable struct {
	ID   string
	Rows []models.RSRPRecord
}

var funcs = template.FuncMap{
	"percent": func(v float64) string { return fmt.Sprintf("%.1f%%", v) },
	"rsrpTable": func(id string, rows []models.RSRPRecord) rsrpTable {
		return rsrpTable{ID: id, Rows: rows}
	},
}

// Templates parses every page template
func Templates() (*template.Template, error) {
	return template.New("").Funcs(funcs).ParseFS(templateFS, "templates/*.html")
}

// Static serves the files under static/
func Static() http.FileSystem {
	sub, err := fs.Sub(staticFS, "static")
	if err != nil {
		panic(err)
	}
	return http.FS(sub)
}
