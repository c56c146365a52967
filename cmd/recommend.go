package cmd

import (
	"fmt"

	"github.com/dynamic-shelf-pricer/console/internal/model"
	"github.com/dynamic-shelf-pricer/console/internal/view"
	"github.com/spf13/cobra"
)

var recommendForm = model.DefaultContextForm()

var recommendCmd = &cobra.Command{
	Use:   "recommend <product-id>",
	Short: "Ask the backend for a price recommendation",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		pricingCtx, err := view.BuildContext(recommendForm)
		if err != nil {
			return err
		}
		rec, err := newClient().RecommendPrice(cmd.Context(), model.RecommendRequest{
			ProductID: args[0],
			Context:   pricingCtx,
		})
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		fmt.Fprintln(out, view.RecommendationCell(rec, true, appCfg.HTTP.CurrencyLabel))
		if rec.ExpectedDemand != nil {
			fmt.Fprintf(out, "expected demand:        %.1f\n", *rec.ExpectedDemand)
		}
		if rec.ExpectedRevenue != nil {
			fmt.Fprintf(out, "expected revenue:       %s\n", view.Money(*rec.ExpectedRevenue))
		}
		if rec.ExpectedSpoilageCost != nil {
			fmt.Fprintf(out, "expected spoilage cost: %s\n", view.Money(*rec.ExpectedSpoilageCost))
		}
		if g := rec.Guardrails; g != nil {
			fmt.Fprintf(out, "guardrails:             %s .. %s (min margin %.0f%%)\n", view.Money(g.Floor), view.Money(g.Ceiling), g.MinMarginPct*100)
		}
		return nil
	},
}

func init() {
	f := recommendCmd.Flags()
	f.StringVar(&recommendForm.DaysToExpiry, "days-to-expiry", recommendForm.DaysToExpiry, "days until the product expires")
	f.StringVar(&recommendForm.Inventory, "inventory", recommendForm.Inventory, "units on the shelf")
	f.StringVar(&recommendForm.CompetitorPrice, "competitor-price", recommendForm.CompetitorPrice, "competitor price; empty means unknown")
	f.BoolVar(&recommendForm.PromoFlag, "promo", recommendForm.PromoFlag, "a promotion is running")
	f.StringVar(&recommendForm.WeatherScore, "weather-score", recommendForm.WeatherScore, "weather score, 0..1 by convention")
}
