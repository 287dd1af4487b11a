package cli

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/roach88/storefront/internal/catalog"
	"github.com/roach88/storefront/internal/shelf"
)

// NewWishlistCommand creates the wishlist command group.
func NewWishlistCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "wishlist",
		Short: "Manage the wishlist",
	}
	cmd.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "List saved products",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withSession(cmd, rootOpts, func(s *session) error {
				return printProducts(s, s.app.Wishlist.Items(), "Wishlist is empty.")
			})
		},
	})

	var add productFlags
	addCmd := &cobra.Command{
		Use:   "add",
		Short: "Save a product; saving it twice is a no-op",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := add.product()
			if err != nil {
				return newFormatter(cmd, rootOpts).Fail(ExitCommandError, ErrCodeInvalidInput, err.Error(), nil)
			}
			return withSession(cmd, rootOpts, func(s *session) error {
				s.app.Wishlist.Add(s.ctx, p)
				return printProducts(s, s.app.Wishlist.Items(), "Wishlist is empty.")
			})
		},
	}
	add.register(addCmd)
	cmd.AddCommand(addCmd)

	var toggle productFlags
	toggleCmd := &cobra.Command{
		Use:   "toggle",
		Short: "Save a product if absent, remove it otherwise",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := toggle.product()
			if err != nil {
				return newFormatter(cmd, rootOpts).Fail(ExitCommandError, ErrCodeInvalidInput, err.Error(), nil)
			}
			return withSession(cmd, rootOpts, func(s *session) error {
				saved := s.app.Wishlist.Toggle(s.ctx, p)
				return s.out.Success(map[string]bool{"saved": saved}, func(w io.Writer) {
					if saved {
						fmt.Fprintf(w, "Saved %s\n", p.ID)
					} else {
						fmt.Fprintf(w, "Removed %s\n", p.ID)
					}
				})
			})
		},
	}
	toggle.register(toggleCmd)
	cmd.AddCommand(toggleCmd)

	cmd.AddCommand(&cobra.Command{
		Use:   "remove <product-id>",
		Short: "Remove a saved product",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withSession(cmd, rootOpts, func(s *session) error {
				if !s.app.Wishlist.Remove(s.ctx, args[0]) {
					return s.out.Fail(ExitFailure, ErrCodeNotFound, fmt.Sprintf("product %s not in wishlist", args[0]), nil)
				}
				return printProducts(s, s.app.Wishlist.Items(), "Wishlist is empty.")
			})
		},
	})
	cmd.AddCommand(&cobra.Command{
		Use:   "clear",
		Short: "Empty the wishlist",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withSession(cmd, rootOpts, func(s *session) error {
				s.app.Wishlist.Clear(s.ctx)
				return printProducts(s, s.app.Wishlist.Items(), "Wishlist is empty.")
			})
		},
	})
	return cmd
}

// NewCompareCommand creates the compare command group.
func NewCompareCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "compare",
		Short: fmt.Sprintf("Manage the comparison list (up to %d products)", shelf.MaxCompare),
	}
	cmd.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "List compared products",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withSession(cmd, rootOpts, func(s *session) error {
				return printProducts(s, s.app.Compare.Items(), "Comparison list is empty.")
			})
		},
	})

	var add productFlags
	addCmd := &cobra.Command{
		Use:   "add",
		Short: "Add a product to compare",
		Long:  fmt.Sprintf("Add a product to compare. Exits 1 when the list already holds %d products or the product.", shelf.MaxCompare),
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := add.product()
			if err != nil {
				return newFormatter(cmd, rootOpts).Fail(ExitCommandError, ErrCodeInvalidInput, err.Error(), nil)
			}
			return withSession(cmd, rootOpts, func(s *session) error {
				if !s.app.Compare.Add(s.ctx, p) {
					msg := fmt.Sprintf("product %s already in comparison", p.ID)
					if s.app.Compare.Full() && !s.app.Compare.Contains(p.ID) {
						msg = fmt.Sprintf("comparison list is full (%d products)", shelf.MaxCompare)
					}
					return s.out.Fail(ExitFailure, ErrCodeListFull, msg, nil)
				}
				return printProducts(s, s.app.Compare.Items(), "Comparison list is empty.")
			})
		},
	}
	add.register(addCmd)
	cmd.AddCommand(addCmd)

	cmd.AddCommand(&cobra.Command{
		Use:   "remove <product-id>",
		Short: "Remove a compared product",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withSession(cmd, rootOpts, func(s *session) error {
				if !s.app.Compare.Remove(s.ctx, args[0]) {
					return s.out.Fail(ExitFailure, ErrCodeNotFound, fmt.Sprintf("product %s not in comparison", args[0]), nil)
				}
				return printProducts(s, s.app.Compare.Items(), "Comparison list is empty.")
			})
		},
	})
	cmd.AddCommand(&cobra.Command{
		Use:   "clear",
		Short: "Empty the comparison list",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withSession(cmd, rootOpts, func(s *session) error {
				s.app.Compare.Clear(s.ctx)
				return printProducts(s, s.app.Compare.Items(), "Comparison list is empty.")
			})
		},
	})
	return cmd
}

func printProducts(s *session, items []catalog.Product, empty string) error {
	return s.out.Success(items, func(w io.Writer) {
		if len(items) == 0 {
			fmt.Fprintln(w, empty)
			return
		}
		for _, p := range items {
			fmt.Fprintf(w, "%-12s %8.2f  %s\n", p.ID, p.Price, p.Name)
		}
	})
}
