package cli

import (
	"fmt"
	"io"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/roach88/storefront/internal/cart"
)

// CartSummary is the output of cart list.
type CartSummary struct {
	Items          []cart.Item `json:"items"`
	TotalPrice     float64     `json:"total_price"`
	TotalItems     int         `json:"total_items"`
	LotteryTickets int         `json:"lottery_tickets"`
}

// NewCartCommand creates the cart command group.
func NewCartCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cart",
		Short: "Manage the shopping cart",
	}
	cmd.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "Show cart lines and totals",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withSession(cmd, rootOpts, printCart)
		},
	})
	cmd.AddCommand(newCartAddCommand(rootOpts))
	cmd.AddCommand(&cobra.Command{
		Use:   "update <product-id> <quantity>",
		Short: "Set a line's quantity; 0 removes it",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			qty, err := strconv.Atoi(args[1])
			if err != nil {
				return newFormatter(cmd, rootOpts).Fail(ExitCommandError, ErrCodeInvalidInput,
					fmt.Sprintf("invalid quantity %q", args[1]), nil)
			}
			return withSession(cmd, rootOpts, func(s *session) error {
				if !s.app.Cart.UpdateQuantity(s.ctx, args[0], qty) {
					return s.out.Fail(ExitFailure, ErrCodeNotFound, fmt.Sprintf("product %s not in cart", args[0]), nil)
				}
				return printCart(s)
			})
		},
	})
	cmd.AddCommand(&cobra.Command{
		Use:   "remove <product-id>",
		Short: "Remove a line",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withSession(cmd, rootOpts, func(s *session) error {
				if !s.app.Cart.RemoveFromCart(s.ctx, args[0]) {
					return s.out.Fail(ExitFailure, ErrCodeNotFound, fmt.Sprintf("product %s not in cart", args[0]), nil)
				}
				return printCart(s)
			})
		},
	})
	cmd.AddCommand(&cobra.Command{
		Use:   "clear",
		Short: "Empty the cart",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withSession(cmd, rootOpts, func(s *session) error {
				s.app.Cart.ClearCart(s.ctx)
				return printCart(s)
			})
		},
	})
	return cmd
}

func newCartAddCommand(rootOpts *RootOptions) *cobra.Command {
	var (
		pf  productFlags
		qty int
	)
	cmd := &cobra.Command{
		Use:   "add",
		Short: "Add a product; the line never exceeds its stock",
		Long: `Add a product to the cart. The resulting quantity is capped at --stock.

Example:
  storefront cart add --id sku-1 --name Mug --price 12.5 --stock 5 --tickets 1 --qty 2`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := pf.product()
			if err != nil {
				return newFormatter(cmd, rootOpts).Fail(ExitCommandError, ErrCodeInvalidInput, err.Error(), nil)
			}
			return withSession(cmd, rootOpts, func(s *session) error {
				s.app.Cart.AddToCart(s.ctx, p, qty)
				return printCart(s)
			})
		},
	}
	pf.register(cmd)
	cmd.Flags().IntVar(&qty, "qty", 1, "quantity to add")
	return cmd
}

func printCart(s *session) error {
	sum := CartSummary{
		Items:          s.app.Cart.Items(),
		TotalPrice:     s.app.Cart.TotalPrice(),
		TotalItems:     s.app.Cart.TotalItems(),
		LotteryTickets: s.app.Cart.TotalLotteryTickets(),
	}
	return s.out.Success(sum, func(w io.Writer) {
		if len(sum.Items) == 0 {
			fmt.Fprintln(w, "Cart is empty.")
			return
		}
		for _, it := range sum.Items {
			fmt.Fprintf(w, "%-12s %3d x %8.2f  %s\n", it.Product.ID, it.Quantity, it.Product.Price, it.Product.Name)
		}
		fmt.Fprintf(w, "Items: %d  Total: %.2f  Lottery tickets: %d\n", sum.TotalItems, sum.TotalPrice, sum.LotteryTickets)
	})
}
