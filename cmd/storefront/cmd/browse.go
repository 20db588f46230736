package cmd

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/closetlabs/storefront/internal/catalog"
	"github.com/closetlabs/storefront/internal/scroll"
	"github.com/closetlabs/storefront/internal/sdk"
)

// Rendered geometry used to simulate a reader scrolling the list.
const (
	cardHeightPx = 320
	viewportPx   = 900
)

func browseCmd() *cobra.Command {
	var pages int

	cmd := &cobra.Command{
		Use:   "browse",
		Short: "Browse the product feed",
		Long: "Fetches the product feed page by page, the way the storefront's\n" +
			"infinite scroll does, and prints the accumulated list.",
		Example: `  storefront browse
  storefront browse --pages 3`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, store, _, err := bootstrap()
			if err != nil {
				return err
			}

			ctx := cmd.Context()
			if err := store.FetchProducts(ctx); err != nil {
				return err
			}

			// Additional pages go through the scroll trigger, so the
			// throttle and has-more gating behave as they would under a
			// real scrolling session.
			var loadErr error
			trigger := scroll.New(func() {
				loadErr = store.LoadMoreProducts(ctx)
			}, scroll.Options{
				Threshold:   cfg.Scroll.Threshold,
				MinInterval: cfg.Scroll.MinInterval,
				IsLoading:   func() bool { return store.Snapshot().LoadingMore },
				HasMore:     func() bool { return store.Snapshot().HasMore },
			})
			defer trigger.Close()

			for page := 1; page < pages; {
				st := store.Snapshot()
				if !st.HasMore {
					break
				}
				content := float64(len(st.Products)) * cardHeightPx
				fired := trigger.OnScroll(scroll.Position{
					ScrollTop:      content - viewportPx,
					ViewportHeight: viewportPx,
					ContentHeight:  content,
				})
				if !fired {
					// Throttled; wait out the interval and scroll again.
					time.Sleep(cfg.Scroll.MinInterval)
					continue
				}
				if loadErr != nil {
					return loadErr
				}
				page++
			}

			st := store.Snapshot()
			if jsonOutput() {
				return outputJSON(st.Products)
			}
			if len(st.Products) == 0 {
				fmt.Println("No products found.")
				return nil
			}
			fmt.Printf("Showing %d products (%d page(s))\n\n", len(st.Products), st.CurrentPage)
			return printProductsTable(st.Products)
		},
	}
	cmd.Flags().IntVar(&pages, "pages", 1, "number of feed pages to load")

	return cmd
}

func productCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "product <id>",
		Short:   "Show product details",
		Example: `  storefront product abc123`,
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			log := newLogger(cfg)
			client, _, err := newSDKClient(cfg, log)
			if err != nil {
				return err
			}

			item, err := sdk.NewProductService(client, log).GetProduct(cmd.Context(), args[0])
			if err != nil {
				return err
			}

			p := catalog.Transform(*item, 0)
			if jsonOutput() {
				return outputJSON(p)
			}
			return printProductDetail(&p)
		},
	}
}

func featuredCmd() *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:     "featured",
		Short:   "Show featured products",
		Example: `  storefront featured --limit 5`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			log := newLogger(cfg)
			client, _, err := newSDKClient(cfg, log)
			if err != nil {
				return err
			}

			items, err := sdk.NewProductService(client, log).FeaturedProducts(cmd.Context(), limit)
			if err != nil {
				return err
			}

			products := catalog.TransformPage(items, 1)
			if jsonOutput() {
				return outputJSON(products)
			}
			if len(products) == 0 {
				fmt.Println("No featured products.")
				return nil
			}
			return printProductsTable(products)
		},
	}
	cmd.Flags().IntVar(&limit, "limit", 10, "maximum number of results")

	return cmd
}

func categoriesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "categories",
		Short: "List catalog categories and the price range",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			log := newLogger(cfg)
			client, _, err := newSDKClient(cfg, log)
			if err != nil {
				return err
			}

			svc := sdk.NewProductService(client, log)
			categories := svc.Categories(cmd.Context())
			priceRange := svc.PriceRange(cmd.Context())

			if jsonOutput() {
				return outputJSON(map[string]any{
					"categories": categories,
					"priceRange": priceRange,
				})
			}

			if len(categories) == 0 {
				fmt.Println("No categories available.")
			}
			for _, c := range categories {
				fmt.Println(c)
			}
			fmt.Printf("\nPrice range: $%.2f - $%.2f\n", priceRange.Min, priceRange.Max)
			return nil
		},
	}
}
