// Package shelf holds the product membership lists: the wishlist and the
// bounded comparison list.
package shelf

import (
	"context"
	"log/slog"
	"sync"

	"github.com/roach88/storefront/internal/catalog"
	"github.com/roach88/storefront/internal/kv"
	"github.com/roach88/storefront/internal/persist"
)

// MaxCompare is the capacity of the comparison list.
const MaxCompare = 4

// list is a product-id membership set persisted under one key.
type list struct {
	mu    sync.Mutex
	name  string
	items []catalog.Product
	rec   *persist.Record[[]catalog.Product]
	opts  persist.Options
}

func newList(gw kv.Gateway, key, name string, opts persist.Options) *list {
	return &list{
		name:  name,
		items: []catalog.Product{},
		rec:   persist.NewRecord(gw, key, persist.JSON[[]catalog.Product]()),
		opts:  opts.WithDefaults(),
	}
}

func (l *list) load(ctx context.Context) {
	l.mu.Lock()
	defer l.mu.Unlock()
	items := persist.Hydrate(ctx, l.rec, l.opts, nil, func() []catalog.Product { return []catalog.Product{} })
	if items == nil {
		items = []catalog.Product{}
	}
	l.items = items
	slog.Debug("list loaded", "list", l.name, "count", len(l.items))
}

// Items returns a copy of the products in insertion order.
func (l *list) Items() []catalog.Product {
	l.mu.Lock()
	defer l.mu.Unlock()
	return catalog.Clone(l.items)
}

// Len returns the number of products.
func (l *list) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.items)
}

// Contains reports whether productID is in the list.
func (l *list) Contains(productID string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return catalog.Index(l.items, productID) >= 0
}

// Remove deletes productID from the list.
func (l *list) Remove(ctx context.Context, productID string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	i := catalog.Index(l.items, productID)
	if i < 0 {
		return false
	}
	l.items = append(l.items[:i], l.items[i+1:]...)
	l.commit(ctx)
	return true
}

// Clear empties the list.
func (l *list) Clear(ctx context.Context) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.items = []catalog.Product{}
	l.commit(ctx)
}

// add appends p unless it is present or the list holds limit products.
// A limit of 0 means unbounded. Callers hold l.mu.
func (l *list) add(ctx context.Context, p catalog.Product, limit int) bool {
	if catalog.Index(l.items, p.ID) >= 0 {
		return false
	}
	if limit > 0 && len(l.items) >= limit {
		slog.Debug("list full", "list", l.name, "limit", limit)
		return false
	}
	l.items = append(l.items, catalog.Clone([]catalog.Product{p})[0])
	l.commit(ctx)
	return true
}

func (l *list) commit(ctx context.Context) {
	persist.Commit(ctx, l.rec, catalog.Clone(l.items), l.opts)
}

// Wishlist is an unbounded set of saved products.
type Wishlist struct {
	*list
}

// NewWishlist creates a wishlist over gw. Call Load before use.
func NewWishlist(gw kv.Gateway, opts persist.Options) *Wishlist {
	return &Wishlist{list: newList(gw, kv.KeyWishlist, "wishlist", opts)}
}

// Load hydrates the wishlist. A new wishlist is empty.
func (w *Wishlist) Load(ctx context.Context) {
	w.load(ctx)
}

// Add saves p. Adding a product already present is a no-op.
func (w *Wishlist) Add(ctx context.Context, p catalog.Product) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.add(ctx, p, 0)
}

// Toggle adds p if absent and removes it otherwise. It returns whether p
// is in the wishlist afterwards.
func (w *Wishlist) Toggle(ctx context.Context, p catalog.Product) bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	if i := catalog.Index(w.items, p.ID); i >= 0 {
		w.items = append(w.items[:i], w.items[i+1:]...)
		w.commit(ctx)
		return false
	}
	return w.add(ctx, p, 0)
}

// Compare is the comparison list, holding at most MaxCompare products.
type Compare struct {
	*list
}

// NewCompare creates a comparison list over gw. Call Load before use.
func NewCompare(gw kv.Gateway, opts persist.Options) *Compare {
	return &Compare{list: newList(gw, kv.KeyCompareList, "compare", opts)}
}

// Load hydrates the comparison list. A new list is empty.
func (c *Compare) Load(ctx context.Context) {
	c.load(ctx)
}

// Add appends p. It returns false, changing nothing, when p is already
// present or the list is full.
func (c *Compare) Add(ctx context.Context, p catalog.Product) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.add(ctx, p, MaxCompare)
}

// Full reports whether the list is at capacity.
func (c *Compare) Full() bool {
	return c.Len() >= MaxCompare
}
