package cmd

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/closetlabs/storefront/internal/sdk"
	domain "github.com/closetlabs/storefront/pkg/types"
)

func cartCmd() *cobra.Command {
	cartRoot := &cobra.Command{
		Use:   "cart",
		Short: "Manage the shopping cart",
		Long:  "View and modify the authenticated user's shopping cart.",
	}

	cartRoot.AddCommand(
		cartShowCmd(),
		cartAddCmd(),
		cartUpdateCmd(),
		cartRemoveCmd(),
		cartClearCmd(),
		cartCouponCmd(),
	)

	return cartRoot
}

func newCartService() (*sdk.CartService, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, err
	}
	log := newLogger(cfg)
	client, _, err := newSDKClient(cfg, log)
	if err != nil {
		return nil, err
	}
	return sdk.NewCartService(client, log), nil
}

func printCart(c *domain.Cart) error {
	if jsonOutput() {
		return outputJSON(c)
	}
	if len(c.Items) == 0 {
		fmt.Println("Cart is empty.")
		return nil
	}
	return printCartDetail(c)
}

func cartShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Show the cart contents",
		RunE: func(cmd *cobra.Command, _ []string) error {
			svc, err := newCartService()
			if err != nil {
				return err
			}
			cart, err := svc.Get(cmd.Context())
			if err != nil {
				return err
			}
			return printCart(cart)
		},
	}
}

func cartAddCmd() *cobra.Command {
	var quantity int

	cmd := &cobra.Command{
		Use:     "add <product-id>",
		Short:   "Add a product to the cart",
		Example: `  storefront cart add abc123 --quantity 2`,
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := newCartService()
			if err != nil {
				return err
			}
			cart, err := svc.AddItem(cmd.Context(), args[0], quantity)
			if err != nil {
				return err
			}
			return printCart(cart)
		},
	}
	cmd.Flags().IntVar(&quantity, "quantity", 1, "quantity to add")

	return cmd
}

func cartUpdateCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "update <product-id> <quantity>",
		Short:   "Set the quantity of a cart line",
		Example: `  storefront cart update abc123 5`,
		Args:    cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			quantity, err := strconv.Atoi(args[1])
			if err != nil {
				return fmt.Errorf("invalid quantity %q", args[1])
			}

			svc, err := newCartService()
			if err != nil {
				return err
			}
			cart, err := svc.UpdateItem(cmd.Context(), args[0], quantity)
			if err != nil {
				return err
			}
			return printCart(cart)
		},
	}
}

func cartRemoveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "remove <product-id>",
		Short: "Remove a product from the cart",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := newCartService()
			if err != nil {
				return err
			}
			cart, err := svc.RemoveItem(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			return printCart(cart)
		},
	}
}

func cartClearCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "clear",
		Short: "Empty the cart",
		RunE: func(cmd *cobra.Command, _ []string) error {
			svc, err := newCartService()
			if err != nil {
				return err
			}
			if err := svc.Clear(cmd.Context()); err != nil {
				return err
			}
			fmt.Println("Cart cleared.")
			return nil
		},
	}
}

func cartCouponCmd() *cobra.Command {
	var remove bool

	cmd := &cobra.Command{
		Use:     "coupon [code]",
		Short:   "Apply or remove a coupon",
		Example: `  storefront cart coupon SAVE10
  storefront cart coupon --remove`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := newCartService()
			if err != nil {
				return err
			}

			if remove {
				cart, err := svc.RemoveCoupon(cmd.Context())
				if err != nil {
					return err
				}
				return printCart(cart)
			}

			if len(args) != 1 {
				return fmt.Errorf("coupon code required unless --remove is set")
			}
			cart, err := svc.ApplyCoupon(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			return printCart(cart)
		},
	}
	cmd.Flags().BoolVar(&remove, "remove", false, "remove the applied coupon")

	return cmd
}
