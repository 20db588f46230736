package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

func searchCmd() *cobra.Command {
	var noPrefetch bool

	cmd := &cobra.Command{
		Use:   "search <term>",
		Short: "Search the catalog by keyword",
		Long: "Searches product titles and creator names. The first feed page is\n" +
			"loaded beforehand so that results degrade to an in-memory match\n" +
			"when the server search endpoint is unavailable.",
		Example: `  storefront search "denim jacket"
  storefront search hoodie --no-prefetch`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			_, store, _, err := bootstrap()
			if err != nil {
				return err
			}

			ctx := cmd.Context()
			if !noPrefetch {
				if err := store.FetchProducts(ctx); err != nil {
					return err
				}
			}

			term := args[0]
			store.SetSearchedItem(term)
			if err := store.FetchSearchedItem(ctx, term); err != nil {
				return err
			}

			st := store.Snapshot()
			if jsonOutput() {
				return outputJSON(st.Products)
			}
			if len(st.Products) == 0 {
				fmt.Printf("No products match %q.\n", term)
				return nil
			}
			fmt.Printf("%d product(s) match %q\n\n", len(st.Products), term)
			return printProductsTable(st.Products)
		},
	}
	cmd.Flags().BoolVar(&noPrefetch, "no-prefetch", false, "skip loading the feed before searching")

	return cmd
}
