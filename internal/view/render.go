package view

import (
	"embed"
	"fmt"
	"html/template"
	"io"
	"math"
	"strconv"

	"github.com/dynamic-shelf-pricer/console/internal/model"
	"github.com/shopspring/decimal"
)

const (
	DefaultTitle         = "Dynamic Shelf Pricer"
	DefaultCurrencyLabel = "RM"
	// EmptyCell is shown for products without a recommendation yet.
	EmptyCell = "-"
)

//go:embed templates/page.html
var templateFS embed.FS

var pageTemplate = template.Must(template.ParseFS(templateFS, "templates/page.html"))

// RenderOptions tunes presentation only.
type RenderOptions struct {
	Title         string
	CurrencyLabel string
}

func (o RenderOptions) withDefaults() RenderOptions {
	if o.Title == "" {
		o.Title = DefaultTitle
	}
	if o.CurrencyLabel == "" {
		o.CurrencyLabel = DefaultCurrencyLabel
	}
	return o
}

// Row is one table row, already formatted for display.
type Row struct {
	ID        string
	Name      string
	BasePrice string
	Cost      string
	TTLDays   int
	Cell      string
}

// Page is the data the page template renders.
type Page struct {
	Title string
	Form  model.ContextForm
	Rows  []Row
}

// exactDigits is enough fractional digits to print any float64 exactly.
const exactDigits = 1074

// Money formats v with exactly two decimals the way toFixed(2) does: the
// exact binary value is rounded, so 1.005 prints as "1.00".
func Money(v float64) string {
	switch {
	case math.IsNaN(v):
		return "NaN"
	case v < 0:
		return "-" + Money(-v)
	case math.IsInf(v, 1):
		return "Infinity"
	case v >= 1e21:
		return formatNumber(v)
	}
	return decimal.RequireFromString(strconv.FormatFloat(v, 'f', exactDigits, 64)).StringFixed(2)
}

// RecommendationCell is the text of the recommendation column for one product.
func RecommendationCell(rec model.Recommendation, ok bool, currencyLabel string) string {
	if !ok {
		return EmptyCell
	}
	return fmt.Sprintf("%s %s\n%s", currencyLabel, formatNumber(rec.RecommendedPrice), rec.Explanation)
}

// Rows formats every product in catalog order.
func Rows(s State, opts RenderOptions) []Row {
	opts = opts.withDefaults()
	rows := make([]Row, 0, len(s.Products))
	for _, p := range s.Products {
		rec, ok := s.Recommendation(p.ID)
		rows = append(rows, Row{
			ID:        p.ID,
			Name:      p.Name,
			BasePrice: Money(p.BasePrice),
			Cost:      Money(p.Cost),
			TTLDays:   p.TTLDays,
			Cell:      RecommendationCell(rec, ok, opts.CurrencyLabel),
		})
	}
	return rows
}

// NewPage builds the template data for s.
func NewPage(s State, opts RenderOptions) Page {
	opts = opts.withDefaults()
	return Page{
		Title: opts.Title,
		Form:  s.Form,
		Rows:  Rows(s, opts),
	}
}

// Render writes the full HTML page for s.
func Render(w io.Writer, s State, opts RenderOptions) error {
	return pageTemplate.Execute(w, NewPage(s, opts))
}
