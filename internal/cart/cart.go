// Package cart implements the shopping cart. Line quantities are clamped to
// the product's stock on every write.
package cart

import (
	"context"
	"log/slog"
	"sync"

	"github.com/roach88/storefront/internal/catalog"
	"github.com/roach88/storefront/internal/kv"
	"github.com/roach88/storefront/internal/persist"
)

// Item is one cart line.
type Item struct {
	Product  catalog.Product `json:"product"`
	Quantity int             `json:"quantity"`
}

// Store is the cart.
type Store struct {
	mu    sync.Mutex
	items []Item
	rec   *persist.Record[[]Item]
	opts  persist.Options
}

// New creates a cart over gw. Call Load before use.
func New(gw kv.Gateway, opts persist.Options) *Store {
	return &Store{
		items: []Item{},
		rec:   persist.NewRecord(gw, kv.KeyCart, persist.JSON[[]Item]()),
		opts:  opts.WithDefaults(),
	}
}

// Load hydrates the cart. A new cart is empty, seeded or not.
func (s *Store) Load(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()
	items := persist.Hydrate(ctx, s.rec, s.opts, nil, func() []Item { return []Item{} })
	if items == nil {
		items = []Item{}
	}
	s.items = items
	slog.Debug("cart loaded", "lines", len(s.items))
}

// Items returns a copy of the cart lines.
func (s *Store) Items() []Item {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshot()
}

// Quantity returns the quantity of productID in the cart, or 0.
func (s *Store) Quantity(productID string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	if i := s.index(productID); i >= 0 {
		return s.items[i].Quantity
	}
	return 0
}

// AddToCart adds quantity units of p, never exceeding p.Stock. A product
// already in the cart has its stock snapshot refreshed from p.
func (s *Store) AddToCart(ctx context.Context, p catalog.Product, quantity int) {
	if quantity <= 0 {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	p = catalog.Clone([]catalog.Product{p})[0]
	if i := s.index(p.ID); i >= 0 {
		s.items[i].Product = p
		s.items[i].Quantity = min(s.items[i].Quantity+quantity, p.Stock)
		if s.items[i].Quantity <= 0 {
			s.items = append(s.items[:i], s.items[i+1:]...)
		}
	} else {
		q := min(quantity, p.Stock)
		if q <= 0 {
			slog.Debug("product out of stock, not added", "product", p.ID)
			return
		}
		s.items = append(s.items, Item{Product: p, Quantity: q})
	}
	s.commit(ctx)
}

// UpdateQuantity sets the quantity of productID, clamped to its stock.
// A quantity of zero or less removes the line.
func (s *Store) UpdateQuantity(ctx context.Context, productID string, quantity int) bool {
	if quantity <= 0 {
		return s.RemoveFromCart(ctx, productID)
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.index(productID)
	if i < 0 {
		return false
	}
	s.items[i].Quantity = min(quantity, s.items[i].Product.Stock)
	if s.items[i].Quantity <= 0 {
		s.items = append(s.items[:i], s.items[i+1:]...)
	}
	s.commit(ctx)
	return true
}

// RemoveFromCart deletes the line for productID.
func (s *Store) RemoveFromCart(ctx context.Context, productID string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.index(productID)
	if i < 0 {
		return false
	}
	s.items = append(s.items[:i], s.items[i+1:]...)
	s.commit(ctx)
	return true
}

// ClearCart empties the cart.
func (s *Store) ClearCart(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.items = []Item{}
	s.commit(ctx)
}

// TotalPrice sums price times quantity over every line.
func (s *Store) TotalPrice() float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	var total float64
	for _, it := range s.items {
		total += it.Product.Price * float64(it.Quantity)
	}
	return total
}

// TotalItems sums the quantities.
func (s *Store) TotalItems() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := 0
	for _, it := range s.items {
		n += it.Quantity
	}
	return n
}

// TotalLotteryTickets sums the draw entries the cart would earn.
func (s *Store) TotalLotteryTickets() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := 0
	for _, it := range s.items {
		n += it.Product.LotteryTickets * it.Quantity
	}
	return n
}

func (s *Store) index(productID string) int {
	for i, it := range s.items {
		if it.Product.ID == productID {
			return i
		}
	}
	return -1
}

func (s *Store) snapshot() []Item {
	out := make([]Item, len(s.items))
	for i, it := range s.items {
		out[i] = it
		out[i].Product = catalog.Clone([]catalog.Product{it.Product})[0]
	}
	return out
}

func (s *Store) commit(ctx context.Context) {
	persist.Commit(ctx, s.rec, s.snapshot(), s.opts)
}
