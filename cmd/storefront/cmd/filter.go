package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	domain "github.com/closetlabs/storefront/pkg/types"
)

func filterCmd() *cobra.Command {
	var (
		pricing  []string
		minPrice float64
		maxPrice float64
	)

	cmd := &cobra.Command{
		Use:   "filter",
		Short: "Filter the catalog",
		Long: "Filters the catalog by pricing option and price bounds. The first\n" +
			"feed page is loaded beforehand so that results degrade to an\n" +
			"in-memory match when the server filter endpoint is unavailable.",
		Example: `  storefront filter --pricing paid
  storefront filter --pricing paid --pricing free --max-price 50`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			filters := domain.ProductFilters{}
			for _, name := range pricing {
				opt, err := domain.ParsePricingOption(name)
				if err != nil {
					return err
				}
				filters.PricingOptions = append(filters.PricingOptions, opt)
			}
			if cmd.Flags().Changed("min-price") {
				filters.MinPrice = &minPrice
			}
			if cmd.Flags().Changed("max-price") {
				filters.MaxPrice = &maxPrice
			}

			_, store, _, err := bootstrap()
			if err != nil {
				return err
			}

			ctx := cmd.Context()
			if err := store.FetchProducts(ctx); err != nil {
				return err
			}
			if err := store.FetchFilteredProducts(ctx, filters); err != nil {
				return err
			}

			st := store.Snapshot()
			if jsonOutput() {
				return outputJSON(st.Products)
			}
			if len(st.Products) == 0 {
				fmt.Println("No products match the filter.")
				return nil
			}
			fmt.Printf("%d product(s) match\n\n", len(st.Products))
			return printProductsTable(st.Products)
		},
	}
	cmd.Flags().StringArrayVar(&pricing, "pricing", nil, "pricing option (paid, free, view_only); repeatable")
	cmd.Flags().Float64Var(&minPrice, "min-price", 0, "minimum price")
	cmd.Flags().Float64Var(&maxPrice, "max-price", 0, "maximum price")

	return cmd
}
