package web

import (
	"embed"
	"html/template"
	"time"

	"github.com/Veraticus/pulse/internal/model"
	"github.com/shopspring/decimal"
)

//go:embed templates/*.html
var templateFS embed.FS

var templateFuncs = template.FuncMap{
	"money": func(d decimal.Decimal) string {
		return "$" + d.StringFixed(2)
	},
	"ts": func(t time.Time) string {
		if t.IsZero() {
			return ""
		}
		return t.Format(model.TimestampLayout)
	},
	"date": func(t time.Time) string {
		return t.Format("2006-01-02")
	},
}
