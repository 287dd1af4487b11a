// Package address implements the address book: shipping and billing
// addresses with one default per overlap partition.
package address

import (
	"context"
	_ "embed"
	"fmt"
	"log/slog"
	"sync"

	"gopkg.in/yaml.v3"

	"github.com/roach88/storefront/internal/kv"
	"github.com/roach88/storefront/internal/persist"
)

//go:embed seed.yaml
var seedYAML []byte

// Book is the address book. Every mutation is written through to the
// "addresses" key before the method returns.
type Book struct {
	mu    sync.Mutex
	items []Address
	rec   *persist.Record[[]Address]
	opts  persist.Options
}

// New creates an address book over gw. Call Load before use.
func New(gw kv.Gateway, opts persist.Options) *Book {
	return &Book{
		items: []Address{},
		rec:   persist.NewRecord(gw, kv.KeyAddresses, persist.JSON[[]Address]()),
		opts:  opts.WithDefaults(),
	}
}

// Load hydrates the book from the gateway, seeding sample addresses when
// the key is absent.
func (b *Book) Load(ctx context.Context) {
	b.mu.Lock()
	defer b.mu.Unlock()
	items := persist.Hydrate(ctx, b.rec, b.opts, Seed, func() []Address { return []Address{} })
	if items == nil {
		items = []Address{}
	}
	b.items = items
	slog.Debug("address book loaded", "count", len(b.items))
}

// List returns a copy of all addresses in insertion order.
func (b *Book) List() []Address {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]Address(nil), b.items...)
}

// Get returns the address with id.
func (b *Book) Get(id string) (Address, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if i := b.index(id); i >= 0 {
		return b.items[i], true
	}
	return Address{}, false
}

// Add stores a new address under a fresh id and returns it.
//
// The first address, or one marked default, becomes the default of its
// partition and every overlapping address loses its default flag.
func (b *Book) Add(ctx context.Context, a Address) Address {
	b.mu.Lock()
	defer b.mu.Unlock()

	a.ID = b.opts.IDs.Generate()
	normalize(&a)
	if len(b.items) == 0 || a.IsDefault {
		b.clearDefaults(a.Type, "")
		a.IsDefault = true
	} else {
		a.IsDefault = false
	}
	b.items = append(b.items, a)
	b.commit(ctx)
	return a
}

// Update applies p to the address with id.
//
// When p sets IsDefault, other addresses overlapping the address's type
// as it was before this update lose their default flag.
func (b *Book) Update(ctx context.Context, id string, p Patch) (Address, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()

	i := b.index(id)
	if i < 0 {
		return Address{}, false
	}
	previous := b.items[i].Type
	p.apply(&b.items[i])
	normalize(&b.items[i])
	if p.IsDefault != nil && *p.IsDefault {
		b.clearDefaults(previous, id)
	}
	updated := b.items[i]
	b.commit(ctx)
	return updated, true
}

// Remove deletes the address with id. If it was a default, the first
// remaining address in its partition that can take the flag without
// clashing with another default is promoted.
func (b *Book) Remove(ctx context.Context, id string) bool {
	b.mu.Lock()
	defer b.mu.Unlock()

	i := b.index(id)
	if i < 0 {
		return false
	}
	removed := b.items[i]
	b.items = append(b.items[:i], b.items[i+1:]...)

	if removed.IsDefault {
		for j := range b.items {
			if Overlaps(b.items[j].Type, removed.Type) && !b.hasOtherDefault(b.items[j].Type, b.items[j].ID) {
				b.items[j].IsDefault = true
				break
			}
		}
	}
	b.commit(ctx)
	return true
}

// Default returns the default address usable as t. An empty t matches any
// default; otherwise the default's type must equal t or be Both.
func (b *Book) Default(t Type) (Address, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	for _, a := range b.items {
		if !a.IsDefault {
			continue
		}
		if t == "" || a.Type == t || a.Type == Both {
			return a, true
		}
	}
	return Address{}, false
}

// SetDefault makes id the default of its partition.
func (b *Book) SetDefault(ctx context.Context, id string) bool {
	b.mu.Lock()
	defer b.mu.Unlock()

	i := b.index(id)
	if i < 0 {
		return false
	}
	b.clearDefaults(b.items[i].Type, id)
	b.items[i].IsDefault = true
	b.commit(ctx)
	return true
}

// clearDefaults unsets the default flag on every address overlapping t,
// except the one with id keep.
func (b *Book) clearDefaults(t Type, keep string) {
	for j := range b.items {
		if b.items[j].ID != keep && Overlaps(b.items[j].Type, t) {
			b.items[j].IsDefault = false
		}
	}
}

func (b *Book) hasOtherDefault(t Type, except string) bool {
	for _, a := range b.items {
		if a.ID != except && a.IsDefault && Overlaps(a.Type, t) {
			return true
		}
	}
	return false
}

func (b *Book) index(id string) int {
	for i, a := range b.items {
		if a.ID == id {
			return i
		}
	}
	return -1
}

func (b *Book) commit(ctx context.Context) {
	persist.Commit(ctx, b.rec, append([]Address(nil), b.items...), b.opts)
}

// Seed returns the sample address book written on first start.
func Seed() []Address {
	var items []Address
	if err := yaml.Unmarshal(seedYAML, &items); err != nil {
		panic(fmt.Sprintf("address: invalid embedded seed: %v", err))
	}
	return items
}
