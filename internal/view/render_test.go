package view

import (
	"bytes"
	"strings"
	"testing"

	"github.com/dynamic-shelf-pricer/console/internal/model"
)

func milkState() State {
	return NewState().WithProducts([]model.Product{
		{ID: "1", Name: "Milk", BasePrice: 5.5, Cost: 3.2, TTLDays: 3},
	})
}

func TestRows_NoRecommendation(t *testing.T) {
	rows := Rows(milkState(), RenderOptions{})
	if len(rows) != 1 {
		t.Fatalf("Rows() len = %d, want 1", len(rows))
	}

	want := Row{ID: "1", Name: "Milk", BasePrice: "5.50", Cost: "3.20", TTLDays: 3, Cell: "-"}
	if rows[0] != want {
		t.Errorf("Rows()[0] = %+v, want %+v", rows[0], want)
	}
}

func TestRows_WithRecommendation(t *testing.T) {
	s := milkState().WithRecommendation("1", model.Recommendation{RecommendedPrice: 5.2, Explanation: "near expiry"})

	rows := Rows(s, RenderOptions{})
	if rows[0].Cell != "RM 5.2\nnear expiry" {
		t.Errorf("Rows()[0].Cell = %q, want %q", rows[0].Cell, "RM 5.2\nnear expiry")
	}

	rows = Rows(s, RenderOptions{CurrencyLabel: "USD"})
	if !strings.HasPrefix(rows[0].Cell, "USD 5.2\n") {
		t.Errorf("Rows() with label = %q", rows[0].Cell)
	}
}

func TestMoney(t *testing.T) {
	tests := []struct {
		in   float64
		want string
	}{
		{5.5, "5.50"},
		{3.2, "3.20"},
		{0, "0.00"},
		{12, "12.00"},
		{2.345, "2.35"},
		{1.005, "1.00"},
		{2.675, "2.67"},
		{1.045, "1.04"},
		{0.125, "0.13"},
		{-1.005, "-1.00"},
		{-0.001, "-0.00"},
		{1e21, "1e+21"},
	}
	for _, tt := range tests {
		if got := Money(tt.in); got != tt.want {
			t.Errorf("Money(%v) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestRender(t *testing.T) {
	s := milkState().WithRecommendation("1", model.Recommendation{
		RecommendedPrice: 5.2,
		Explanation:      "near expiry\n<b>bold</b>",
	})

	var buf bytes.Buffer
	if err := Render(&buf, s, RenderOptions{}); err != nil {
		t.Fatalf("Render() error: %v", err)
	}
	html := buf.String()

	for _, want := range []string{
		"<h1>Dynamic Shelf Pricer</h1>",
		"<td>Milk</td>",
		"<td>5.50</td>",
		"<td>3.20</td>",
		"<td>3</td>",
		`formaction="/recommend/1"`,
		"white-space: pre-wrap",
		"RM 5.2\nnear expiry\n&lt;b&gt;bold&lt;/b&gt;",
		`name="days_to_expiry" value="2"`,
		`name="inventory" value="40"`,
	} {
		if !strings.Contains(html, want) {
			t.Errorf("Render() output missing %q", want)
		}
	}
	if strings.Contains(html, " checked") {
		t.Error("Render() promo checkbox checked, want unchecked")
	}
}

func TestRender_PromoChecked(t *testing.T) {
	s, _ := NewState().WithField(model.FieldPromoFlag, "on")

	var buf bytes.Buffer
	if err := Render(&buf, s, RenderOptions{Title: "Shelf"}); err != nil {
		t.Fatalf("Render() error: %v", err)
	}
	if !strings.Contains(buf.String(), `value="on" checked`) {
		t.Error("Render() promo checkbox not checked")
	}
	if !strings.Contains(buf.String(), "<title>Shelf</title>") {
		t.Error("Render() title not applied")
	}
}
