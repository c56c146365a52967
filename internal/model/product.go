package model

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Product is a catalog entry as served by GET /api/products.
type Product struct {
	ID        string  `json:"id"`
	Name      string  `json:"name"`
	BasePrice float64 `json:"base_price"`
	Cost      float64 `json:"cost"`
	TTLDays   int     `json:"ttl_days"`
}

type rawProduct struct {
	ID        json.RawMessage `json:"id"`
	Name      *string         `json:"name"`
	BasePrice json.RawMessage `json:"base_price"`
	Cost      json.RawMessage `json:"cost"`
	TTLDays   json.RawMessage `json:"ttl_days"`
}

// UnmarshalJSON accepts numeric fields either as JSON numbers or as numeric
// strings, since CSV-backed catalogs serve every column as text. Ids may be
// numbers or strings.
func (p *Product) UnmarshalJSON(data []byte) error {
	var raw rawProduct
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	id, err := decodeID(raw.ID)
	if err != nil {
		return fmt.Errorf("product id: %w", err)
	}
	if raw.Name == nil {
		return fmt.Errorf("product %s: name is missing", id)
	}
	basePrice, err := decodeFloat(raw.BasePrice)
	if err != nil {
		return fmt.Errorf("product %s base_price: %w", id, err)
	}
	cost, err := decodeFloat(raw.Cost)
	if err != nil {
		return fmt.Errorf("product %s cost: %w", id, err)
	}
	ttl, err := decodeFloat(raw.TTLDays)
	if err != nil {
		return fmt.Errorf("product %s ttl_days: %w", id, err)
	}
	if ttl != math.Trunc(ttl) {
		return fmt.Errorf("product %s ttl_days: %v is not a whole number", id, ttl)
	}

	*p = Product{
		ID:        id,
		Name:      *raw.Name,
		BasePrice: basePrice,
		Cost:      cost,
		TTLDays:   int(ttl),
	}
	return nil
}

var errMissing = errors.New("field is missing")

func isAbsent(raw json.RawMessage) bool {
	return len(raw) == 0 || bytes.Equal(bytes.TrimSpace(raw), []byte("null"))
}

func decodeID(raw json.RawMessage) (string, error) {
	if isAbsent(raw) {
		return "", errMissing
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		if s == "" {
			return "", errors.New("id is empty")
		}
		return s, nil
	}
	var n json.Number
	if err := json.Unmarshal(raw, &n); err != nil {
		return "", fmt.Errorf("id must be a string or number, got %s", raw)
	}
	return n.String(), nil
}

func decodeFloat(raw json.RawMessage) (float64, error) {
	if isAbsent(raw) {
		return 0, errMissing
	}
	var f float64
	if err := json.Unmarshal(raw, &f); err == nil {
		return f, nil
	}
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return 0, fmt.Errorf("expected a number, got %s", raw)
	}
	f, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, fmt.Errorf("expected a number, got %q", s)
	}
	return f, nil
}
