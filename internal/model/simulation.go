package model

import "fmt"

// Simulation policies understood by POST /api/simulate.
const (
	PolicyDynamic = "dynamic"
	PolicyStatic  = "static"
)

// SimulationRequest asks the backend to replay a number of days for every product.
type SimulationRequest struct {
	Days   int    `json:"days"`
	Policy string `json:"policy"`
}

// Validate mirrors the bounds the backend enforces so obvious mistakes fail
// before the round trip.
func (r SimulationRequest) Validate() error {
	if r.Days < 1 || r.Days > 60 {
		return fmt.Errorf("days must be between 1 and 60, got %d", r.Days)
	}
	if r.Policy != PolicyDynamic && r.Policy != PolicyStatic {
		return fmt.Errorf("policy must be %q or %q, got %q", PolicyDynamic, PolicyStatic, r.Policy)
	}
	return nil
}

type SimulationResult struct {
	Results []SimulationOutcome `json:"results"`
}

type SimulationOutcome struct {
	ProductID    string  `json:"product_id"`
	Policy       string  `json:"policy"`
	Days         int     `json:"days"`
	Revenue      float64 `json:"revenue"`
	SpoilageCost float64 `json:"spoilage_cost"`
}

// Health is the body of GET /health.
type Health struct {
	Status string `json:"status"`
}
