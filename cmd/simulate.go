package cmd

import (
	"fmt"
	"text/tabwriter"

	"github.com/dynamic-shelf-pricer/console/internal/model"
	"github.com/dynamic-shelf-pricer/console/internal/view"
	"github.com/spf13/cobra"
)

var simulateReq = model.SimulationRequest{Days: 7, Policy: model.PolicyDynamic}

var simulateCmd = &cobra.Command{
	Use:   "simulate",
	Short: "Replay a pricing policy over several days on the backend",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		res, err := newClient().Simulate(cmd.Context(), simulateReq)
		if err != nil {
			return err
		}

		w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
		fmt.Fprintln(w, "PRODUCT\tPOLICY\tDAYS\tREVENUE\tSPOILAGE COST")
		for _, r := range res.Results {
			fmt.Fprintf(w, "%s\t%s\t%d\t%s\t%s\n", r.ProductID, r.Policy, r.Days, view.Money(r.Revenue), view.Money(r.SpoilageCost))
		}
		return w.Flush()
	},
}

func init() {
	simulateCmd.Flags().IntVar(&simulateReq.Days, "days", simulateReq.Days, "number of days to replay (1..60)")
	simulateCmd.Flags().StringVar(&simulateReq.Policy, "policy", simulateReq.Policy, "dynamic or static")
}
