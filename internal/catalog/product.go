// Package catalog holds the Product entity supplied by the external catalog.
// The stores only reference products; they never mutate them.
package catalog

// Product is a purchasable item. Stock bounds cart quantities and
// LotteryTickets is the number of draw entries granted per unit.
type Product struct {
	ID             string   `json:"id"`
	Name           string   `json:"name"`
	Price          float64  `json:"price"`
	Images         []string `json:"images"`
	Stock          int      `json:"stock"`
	LotteryTickets int      `json:"lottery_tickets"`
}

// Index returns the position of the product with id in items, or -1.
func Index(items []Product, id string) int {
	for i, p := range items {
		if p.ID == id {
			return i
		}
	}
	return -1
}

// Clone copies a product list, including the image slices.
func Clone(items []Product) []Product {
	out := make([]Product, len(items))
	for i, p := range items {
		out[i] = p
		if p.Images != nil {
			out[i].Images = append([]string(nil), p.Images...)
		}
	}
	return out
}
