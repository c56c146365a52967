package cmd

import (
	"fmt"
	"text/tabwriter"

	"github.com/dynamic-shelf-pricer/console/internal/view"
	"github.com/spf13/cobra"
)

var productsCmd = &cobra.Command{
	Use:   "products",
	Short: "List the product catalog",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		products, err := newClient().FetchProducts(cmd.Context())
		if err != nil {
			return err
		}

		w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
		fmt.Fprintln(w, "ID\tPRODUCT\tBASE PRICE\tCOST\tTTL (DAYS)")
		for _, p := range products {
			fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%d\n", p.ID, p.Name, view.Money(p.BasePrice), view.Money(p.Cost), p.TTLDays)
		}
		return w.Flush()
	},
}
