package model

import (
	"encoding/json"
	"errors"
)

// Recommendation is the backend's answer for one product. Only
// RecommendedPrice and Explanation are guaranteed; the rest is whatever the
// backend chose to include.
type Recommendation struct {
	ProductID            string          `json:"product_id,omitempty"`
	RecommendedPrice     float64         `json:"recommended_price"`
	Explanation          string          `json:"explanation"`
	ExpectedDemand       *float64        `json:"expected_demand,omitempty"`
	ExpectedRevenue      *float64        `json:"expected_revenue,omitempty"`
	ExpectedSpoilageCost *float64        `json:"expected_spoilage_cost,omitempty"`
	Guardrails           *Guardrails     `json:"guardrails,omitempty"`
	Inputs               json.RawMessage `json:"inputs,omitempty"`
}

// Guardrails are the price bounds the backend searched within.
type Guardrails struct {
	Floor        float64 `json:"floor"`
	Ceiling      float64 `json:"ceiling"`
	MinMarginPct float64 `json:"min_margin_pct"`
}

var (
	ErrMissingRecommendedPrice = errors.New("recommended_price is missing")
	ErrMissingExplanation      = errors.New("explanation is missing")
)

// UnmarshalJSON rejects bodies that lack the two fields the table renders,
// so error payloads such as {"detail": "..."} never pass as a recommendation.
func (r *Recommendation) UnmarshalJSON(data []byte) error {
	type alias Recommendation
	var probe struct {
		alias
		RecommendedPrice *float64        `json:"recommended_price"`
		Explanation      *string         `json:"explanation"`
		ProductID        json.RawMessage `json:"product_id"`
	}
	if err := json.Unmarshal(data, &probe); err != nil {
		return err
	}
	if probe.RecommendedPrice == nil {
		return ErrMissingRecommendedPrice
	}
	if probe.Explanation == nil {
		return ErrMissingExplanation
	}

	*r = Recommendation(probe.alias)
	r.RecommendedPrice = *probe.RecommendedPrice
	r.Explanation = *probe.Explanation
	if !isAbsent(probe.ProductID) {
		id, err := decodeID(probe.ProductID)
		if err != nil {
			return err
		}
		r.ProductID = id
	}
	return nil
}
