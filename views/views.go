// Package views embeds the storefront's HTML templates and static assets.
package views

import (
	"embed"
	"html/template"
	"io/fs"
	"net/http"
	"time"

	"github.com/shopspring/decimal"
	"github.com/yeremiapane/burger-storefront/content"
	"github.com/yeremiapane/burger-storefront/models"
	"github.com/yeremiapane/burger-storefront/utils"
)

// ShortDescriptionLength is the grid card description limit, in runes.
const ShortDescriptionLength = 50

//go:embed templates/*.tmpl
var templateFS embed.FS

//go:embed static
var staticFS embed.FS

// Funcs are the template helpers bound to a content store.
func Funcs(store *content.Store) template.FuncMap {
	currency := store.Constants.Currency
	return template.FuncMap{
		"text": store.Text,
		"price": func(v float64) string {
			return utils.FormatPrice(v, currency)
		},
		"money": func(d decimal.Decimal) string {
			return utils.FormatDecimal(d, currency)
		},
		"lineTotal": func(it models.LineItem) string {
			return utils.FormatDecimal(it.LineTotal(), currency)
		},
		"short": func(p models.MenuProduct) string {
			return p.ShortDescription(ShortDescriptionLength)
		},
		"stars": Stars,
		"image": func(src string) string {
			if src == "" {
				return content.PlaceholderImage
			}
			return src
		},
		"ms": func(d time.Duration) int64 {
			return d.Milliseconds()
		},
		"add": func(a, b int) int { return a + b },
		"sub": func(a, b int) int { return a - b },
	}
}

// Stars lists "full" and "half" markers for a product rating.
func Stars(p models.MenuProduct) []string {
	full, half := p.RatingStars()
	out := make([]string, 0, full+1)
	for i := 0; i < full; i++ {
		out = append(out, "full")
	}
	if half {
		out = append(out, "half")
	}
	return out
}

// New parses every page template.
func New(store *content.Store) (*template.Template, error) {
	return template.New("").Funcs(Funcs(store)).ParseFS(templateFS, "templates/*.tmpl")
}

// Static serves the embedded /static tree.
func Static() http.FileSystem {
	sub, err := fs.Sub(staticFS, "static")
	if err != nil {
		panic(err)
	}
	return http.FS(sub)
}
