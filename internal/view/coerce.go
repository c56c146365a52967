package view

import (
	errx "github.com/dynamic-shelf-pricer/console/internal/core/error"
	"github.com/dynamic-shelf-pricer/console/internal/model"
)

// BuildContext coerces the form into the wire context. An empty competitor
// price becomes an explicit null; every other numeric field follows Number().
func BuildContext(form model.ContextForm) (model.PricingContext, error) {
	days, err := parseNumber(form.DaysToExpiry)
	if err != nil {
		return model.PricingContext{}, errx.Validation(model.FieldDaysToExpiry, err)
	}
	inventory, err := parseNumber(form.Inventory)
	if err != nil {
		return model.PricingContext{}, errx.Validation(model.FieldInventory, err)
	}

	var competitor *float64
	if form.CompetitorPrice != "" {
		v, err := parseNumber(form.CompetitorPrice)
		if err != nil {
			return model.PricingContext{}, errx.Validation(model.FieldCompetitorPrice, err)
		}
		competitor = &v
	}

	weather := 0.0
	if form.WeatherScore != "" {
		weather, err = parseNumber(form.WeatherScore)
		if err != nil {
			return model.PricingContext{}, errx.Validation(model.FieldWeatherScore, err)
		}
	}

	return model.PricingContext{
		DaysToExpiry:    days,
		Inventory:       inventory,
		CompetitorPrice: competitor,
		PromoFlag:       form.PromoFlag,
		WeatherScore:    weather,
	}, nil
}
