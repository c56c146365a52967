package view

import (
	"errors"
	"strings"

	errx "github.com/dynamic-shelf-pricer/console/internal/core/error"
	"github.com/dynamic-shelf-pricer/console/internal/model"
)

// State is everything one session's page shows. Values are replaced, never
// mutated: every With* function returns a new State and leaves its receiver
// untouched, so a State read by one request is never changed under it.
// CatalogRequested is set once the single catalog fetch has been started.
type State struct {
	Products         []model.Product                 `json:"products"`
	CatalogRequested bool                            `json:"catalog_requested"`
	Form             model.ContextForm               `json:"form"`
	Recommendations  map[string]model.Recommendation `json:"recommendations"`
}

var errUnknownField = errors.New("unknown context field")

// NewState is the state of a page that has just been opened.
func NewState() State {
	return State{
		Form:            model.DefaultContextForm(),
		Recommendations: map[string]model.Recommendation{},
	}
}

// WithProducts replaces the product list.
func (s State) WithProducts(products []model.Product) State {
	s.Products = append([]model.Product(nil), products...)
	return s
}

// WithCatalogRequested marks the catalog fetch as started.
func (s State) WithCatalogRequested() State {
	s.CatalogRequested = true
	return s
}

// WithField merges a single form field. Checkbox values accept the usual
// HTML spellings ("on", "true", "1"); anything else clears the flag.
func (s State) WithField(name, value string) (State, error) {
	switch name {
	case model.FieldDaysToExpiry:
		s.Form.DaysToExpiry = value
	case model.FieldInventory:
		s.Form.Inventory = value
	case model.FieldCompetitorPrice:
		s.Form.CompetitorPrice = value
	case model.FieldWeatherScore:
		s.Form.WeatherScore = value
	case model.FieldPromoFlag:
		s.Form.PromoFlag = parseCheckbox(value)
	default:
		return s, errx.Validation(name, errUnknownField)
	}
	return s, nil
}

// WithFields merges several fields. Any unknown name rejects the whole merge
// and returns the receiver unchanged.
func (s State) WithFields(fields map[string]string) (State, error) {
	for name := range fields {
		if !isContextField(name) {
			return s, errx.Validation(name, errUnknownField)
		}
	}
	next := s
	for _, name := range model.ContextFields {
		value, ok := fields[name]
		if !ok {
			continue
		}
		var err error
		if next, err = next.WithField(name, value); err != nil {
			return s, err
		}
	}
	return next, nil
}

// WithRecommendation stores rec for productID, keeping every other entry.
func (s State) WithRecommendation(productID string, rec model.Recommendation) State {
	next := make(map[string]model.Recommendation, len(s.Recommendations)+1)
	for k, v := range s.Recommendations {
		next[k] = v
	}
	next[productID] = rec
	s.Recommendations = next
	return s
}

// Recommendation returns the last recommendation received for productID.
func (s State) Recommendation(productID string) (model.Recommendation, bool) {
	rec, ok := s.Recommendations[productID]
	return rec, ok
}

func isContextField(name string) bool {
	for _, f := range model.ContextFields {
		if f == name {
			return true
		}
	}
	return false
}

func parseCheckbox(v string) bool {
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "on", "true", "1", "yes":
		return true
	default:
		return false
	}
}
