package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/roach88/storefront/internal/catalog"
)

// productFlags describes a product on the command line. The catalog is
// external, so commands that add a product take its fields as flags.
type productFlags struct {
	id      string
	name    string
	price   float64
	stock   int
	tickets int
	images  []string
}

func (f *productFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.id, "id", "", "product id (required)")
	cmd.Flags().StringVar(&f.name, "name", "", "product name")
	cmd.Flags().Float64Var(&f.price, "price", 0, "unit price")
	cmd.Flags().IntVar(&f.stock, "stock", 0, "units in stock")
	cmd.Flags().IntVar(&f.tickets, "tickets", 0, "lottery tickets per unit")
	cmd.Flags().StringSliceVar(&f.images, "image", nil, "image URL (repeatable)")
	_ = cmd.MarkFlagRequired("id")
}

func (f *productFlags) product() (catalog.Product, error) {
	if f.price < 0 || f.stock < 0 || f.tickets < 0 {
		return catalog.Product{}, fmt.Errorf("price, stock and tickets must not be negative")
	}
	name := f.name
	if name == "" {
		name = f.id
	}
	return catalog.Product{
		ID:             f.id,
		Name:           name,
		Price:          f.price,
		Images:         f.images,
		Stock:          f.stock,
		LotteryTickets: f.tickets,
	}, nil
}
