package views

import (
	"embed"
	"fmt"
	"html/template"
	"strings"
	"time"

	"github.com/mamadbah2/stockdesk/internal/domain/models"
)

//go:embed templates/*.html
var files embed.FS

// Parse loads every page template. Pages are addressed by file name.
func Parse() (*template.Template, error) {
	tmpl, err := template.New("").Funcs(Funcs()).ParseFS(files, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("parse templates: %w", err)
	}
	return tmpl, nil
}

// Funcs are the helpers available to templates.
func Funcs() template.FuncMap {
	return template.FuncMap{
		"money": func(v float64) string {
			return fmt.Sprintf("%.2f", v)
		},
		"moneyPtr": func(v *float64) string {
			if v == nil {
				return "-"
			}
			return fmt.Sprintf("%.2f", *v)
		},
		"datetime": func(t time.Time) string {
			if t.IsZero() {
				return "-"
			}
			return t.Local().Format("2006-01-02 15:04")
		},
		"orderDate": func(t *time.Time) string {
			if t == nil || t.IsZero() {
				return "-"
			}
			return t.Format("2006-01-02")
		},
		"statusClass": func(status models.OrderStatus) string {
			return strings.ToLower(strings.ReplaceAll(string(status), "_", "-"))
		},
		"humanize": func(v string) string {
			return strings.ReplaceAll(v, "_", " ")
		},
		"percent": func(part, total int) int {
			if total <= 0 {
				return 0
			}
			return part * 100 / total
		},
	}
}
