package pages

import (
	"embed"
	"fmt"
	"html/template"

	"github.com/akeren/event-rsvp/internal/rsvp"
)

//go:embed templates/*.html
var templateFS embed.FS

const (
	indexTemplate = "index.html"
	adminTemplate = "admin.html"
)

// ParseTemplates loads the embedded page templates. Counts render with formatter's digit grouping.
func ParseTemplates(formatter *rsvp.Formatter) (*template.Template, error) {
	if formatter == nil {
		var err error
		if formatter, err = rsvp.NewFormatter("en-US", nil); err != nil {
			return nil, err
		}
	}

	funcs := template.FuncMap{
		"count": formatter.Count,
	}

	templates, err := template.New("pages").Funcs(funcs).ParseFS(templateFS, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("parse page templates: %w", err)
	}
	return templates, nil
}
