package model

// ContextForm is the editable form state shared by every row of the table.
// Numeric inputs are kept as typed so the form always shows what the user
// entered; coercion happens when a recommendation is requested.
type ContextForm struct {
	DaysToExpiry    string `json:"days_to_expiry"`
	Inventory       string `json:"inventory"`
	CompetitorPrice string `json:"competitor_price"`
	PromoFlag       bool   `json:"promo_flag"`
	WeatherScore    string `json:"weather_score"`
}

// Form field names, as used in HTML inputs and JSON.
const (
	FieldDaysToExpiry    = "days_to_expiry"
	FieldInventory       = "inventory"
	FieldCompetitorPrice = "competitor_price"
	FieldPromoFlag       = "promo_flag"
	FieldWeatherScore    = "weather_score"
)

// ContextFields lists the form fields in display order.
var ContextFields = []string{
	FieldDaysToExpiry,
	FieldInventory,
	FieldCompetitorPrice,
	FieldPromoFlag,
	FieldWeatherScore,
}

// DefaultContextForm is the form state a new session starts with.
func DefaultContextForm() ContextForm {
	return ContextForm{
		DaysToExpiry:    "2",
		Inventory:       "40",
		CompetitorPrice: "",
		PromoFlag:       false,
		WeatherScore:    "0",
	}
}

// PricingContext is the coerced context sent with POST /api/recommend.
// CompetitorPrice is nil when the form field was empty and encodes as null.
type PricingContext struct {
	DaysToExpiry    float64  `json:"days_to_expiry"`
	Inventory       float64  `json:"inventory"`
	CompetitorPrice *float64 `json:"competitor_price"`
	PromoFlag       bool     `json:"promo_flag"`
	WeatherScore    float64  `json:"weather_score"`
}

// RecommendRequest is the body of POST /api/recommend.
type RecommendRequest struct {
	ProductID string         `json:"product_id"`
	Context   PricingContext `json:"context"`
}
