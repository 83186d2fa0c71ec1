package http

import (
	"embed"
	"fmt"
	"html/template"
	"strings"

	"github.com/fathomscience/fischcast-qc/internal/domain"
)

//go:embed templates/*
var templateFS embed.FS

// newTemplates parses the page templates with their helper functions.
func newTemplates() *template.Template {
	funcs := template.FuncMap{
		"regionName": domain.FormatRegionName,
		"upper":      strings.ToUpper,
		"fixed": func(f float64) string {
			return fmt.Sprintf("%.3f", f)
		},
		"trendIcon": func(t domain.Trend) string {
			switch t {
			case domain.TrendUp:
				return "▲"
			case domain.TrendDown:
				return "▼"
			default:
				return "■"
			}
		},
	}
	return template.Must(template.New("").Funcs(funcs).ParseFS(templateFS, "templates/*.html"))
}
