package renderer

import (
	"embed"
	"html/template"
	"time"

	"github.com/Rakhulsr/mini-pos/app/utils/format"
	"github.com/shopspring/decimal"
	"github.com/unrolled/render"
)

// New builds the HTML renderer over the embedded templates. With reload set
// templates are recompiled on every request, which is only useful while
// editing them.
func New(templates embed.FS, reload bool) *render.Render {
	return render.New(render.Options{
		Directory:     "templates",
		FileSystem:    &render.EmbedFileSystem{FS: templates},
		Layout:        "layout",
		Extensions:    []string{".html"},
		IsDevelopment: reload,
		Funcs:         []template.FuncMap{Funcs()},
	})
}

func Funcs() template.FuncMap {
	return template.FuncMap{
		"rupiah":  format.Rupiah,
		"percent": format.Percent,
		"until": func(count int) []int {
			items := make([]int, count)
			for i := 0; i < count; i++ {
				items[i] = i
			}
			return items
		},
		"add": func(a, b int) int { return a + b },
		"sub": func(a, b int) int { return a - b },
		"min": func(a, b int) int {
			if a < b {
				return a
			}
			return b
		},
		"max": func(a, b int) int {
			if a > b {
				return a
			}
			return b
		},
		"date":     func(t time.Time) string { return t.Format("02/01/2006") },
		"datetime": func(t time.Time) string { return t.Format("02/01/2006 15:04") },
		"dateISO":  func(t time.Time) string { return t.Format("2006-01-02") },
		"share":    Share,
	}
}

// Share is part as a whole-number percentage of whole, used for bar widths.
func Share(part, whole decimal.Decimal) int {
	if !whole.IsPositive() {
		return 0
	}
	return int(part.Mul(decimal.NewFromInt(100)).Div(whole).Round(0).IntPart())
}
