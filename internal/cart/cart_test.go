package cart

import (
	"context"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/storefront/internal/catalog"
	"github.com/roach88/storefront/internal/kv"
	"github.com/roach88/storefront/internal/persist"
)

func newTestStore(t *testing.T) (*Store, *kv.Memory) {
	t.Helper()
	mem := kv.NewMemory()
	s := New(mem, persist.Options{Seed: true})
	s.Load(context.Background())
	return s, mem
}

func product(id string, price float64, stock, tickets int) catalog.Product {
	return catalog.Product{ID: id, Name: "Product " + id, Price: price, Stock: stock, LotteryTickets: tickets}
}

func TestLoad_SeedIsEmpty(t *testing.T) {
	s, mem := newTestStore(t)
	assert.Empty(t, s.Items())
	raw, ok := mem.Raw(kv.KeyCart)
	require.True(t, ok)
	assert.Equal(t, "[]", raw)
}

func TestAddToCart_ClampLaw(t *testing.T) {
	s, _ := newTestStore(t)
	ctx := context.Background()
	p := product("p1", 10, 5, 0)

	s.AddToCart(ctx, p, 3)
	assert.Equal(t, 3, s.Quantity("p1"))
	s.AddToCart(ctx, p, 10)
	assert.Equal(t, 5, s.Quantity("p1"))
	assert.Len(t, s.Items(), 1)
}

func TestAddToCart_NewLineClamped(t *testing.T) {
	s, _ := newTestStore(t)
	s.AddToCart(context.Background(), product("p1", 1, 2, 0), 9)
	assert.Equal(t, 2, s.Quantity("p1"))
}

func TestAddToCart_ZeroStockStoresNothing(t *testing.T) {
	s, mem := newTestStore(t)
	writes := mem.Writes()

	s.AddToCart(context.Background(), product("p1", 1, 0, 0), 1)
	assert.Empty(t, s.Items())
	assert.Equal(t, writes, mem.Writes())
}

func TestAddToCart_NonPositiveQuantityIgnored(t *testing.T) {
	s, _ := newTestStore(t)
	s.AddToCart(context.Background(), product("p1", 1, 5, 0), 0)
	s.AddToCart(context.Background(), product("p1", 1, 5, 0), -2)
	assert.Empty(t, s.Items())
}

func TestUpdateQuantity(t *testing.T) {
	s, _ := newTestStore(t)
	ctx := context.Background()
	s.AddToCart(ctx, product("p1", 1, 4, 0), 1)

	require.True(t, s.UpdateQuantity(ctx, "p1", 3))
	assert.Equal(t, 3, s.Quantity("p1"))

	require.True(t, s.UpdateQuantity(ctx, "p1", 40))
	assert.Equal(t, 4, s.Quantity("p1"))

	require.True(t, s.UpdateQuantity(ctx, "p1", 0))
	assert.Empty(t, s.Items())

	assert.False(t, s.UpdateQuantity(ctx, "missing", 2))
}

func TestRemoveAndClear(t *testing.T) {
	s, mem := newTestStore(t)
	ctx := context.Background()
	s.AddToCart(ctx, product("p1", 1, 4, 0), 1)
	s.AddToCart(ctx, product("p2", 1, 4, 0), 1)

	require.True(t, s.RemoveFromCart(ctx, "p1"))
	assert.False(t, s.RemoveFromCart(ctx, "p1"))
	assert.Equal(t, 0, s.Quantity("p1"))

	s.ClearCart(ctx)
	assert.Empty(t, s.Items())
	raw, _ := mem.Raw(kv.KeyCart)
	assert.Equal(t, "[]", raw)
}

func TestTotals(t *testing.T) {
	s, _ := newTestStore(t)
	ctx := context.Background()
	s.AddToCart(ctx, product("p1", 2.5, 10, 1), 2)
	s.AddToCart(ctx, product("p2", 10, 10, 3), 3)

	assert.InDelta(t, 35.0, s.TotalPrice(), 1e-9)
	assert.Equal(t, 5, s.TotalItems())
	assert.Equal(t, 11, s.TotalLotteryTickets())
}

func TestPersistsEveryMutation(t *testing.T) {
	s, mem := newTestStore(t)
	ctx := context.Background()
	s.AddToCart(ctx, catalog.Product{ID: "p1", Name: "Mug", Price: 4.5, Images: []string{"a.png"}, Stock: 3, LotteryTickets: 1}, 2)

	raw, _ := mem.Raw(kv.KeyCart)
	assert.Equal(t, `[{"product":{"id":"p1","name":"Mug","price":4.5,"images":["a.png"],"stock":3,"lottery_tickets":1},"quantity":2}]`, raw)
}

func TestItems_ReturnsCopy(t *testing.T) {
	s, _ := newTestStore(t)
	ctx := context.Background()
	s.AddToCart(ctx, catalog.Product{ID: "p1", Images: []string{"a.png"}, Stock: 3}, 1)

	items := s.Items()
	items[0].Quantity = 99
	items[0].Product.Images[0] = "changed"
	assert.Equal(t, 1, s.Quantity("p1"))
	assert.Equal(t, "a.png", s.Items()[0].Product.Images[0])
}

func TestAddToCart_DoesNotAliasCallerProduct(t *testing.T) {
	s, mem := newTestStore(t)
	ctx := context.Background()

	p1 := catalog.Product{ID: "p1", Images: []string{"a"}, Stock: 3}
	s.AddToCart(ctx, p1, 1)
	p1.Images[0] = "changed"

	p2 := catalog.Product{ID: "p2", Images: []string{"b"}, Stock: 3}
	s.AddToCart(ctx, p2, 1)
	p2.Images[0] = "changed"

	items := s.Items()
	require.Len(t, items, 2)
	assert.Equal(t, "a", items[0].Product.Images[0], "new line")
	assert.Equal(t, "b", items[1].Product.Images[0], "new line")

	// Refreshing an existing line must not alias either.
	p3 := catalog.Product{ID: "p1", Images: []string{"c"}, Stock: 3}
	s.AddToCart(ctx, p3, 1)
	p3.Images[0] = "changed"
	assert.Equal(t, "c", s.Items()[0].Product.Images[0])

	s.AddToCart(ctx, catalog.Product{ID: "p3", Stock: 1}, 1)
	raw, _ := mem.Raw(kv.KeyCart)
	assert.NotContains(t, raw, "changed")
}

func TestWriteFailureNotRolledBack(t *testing.T) {
	s, mem := newTestStore(t)
	var reported []error
	s.opts.OnPersistError = func(err error) { reported = append(reported, err) }
	mem.FailWrites(true)

	s.AddToCart(context.Background(), product("p1", 1, 5, 0), 2)
	assert.Equal(t, 2, s.Quantity("p1"))
	require.Len(t, reported, 1)
	assert.True(t, persist.IsWriteError(reported[0]))
}

func TestRoundTrip(t *testing.T) {
	s, mem := newTestStore(t)
	ctx := context.Background()
	s.AddToCart(ctx, product("p1", 2.5, 10, 1), 2)
	s.AddToCart(ctx, product("p2", 10, 10, 3), 3)

	reloaded := New(mem, persist.Options{})
	reloaded.Load(ctx)
	if diff := cmp.Diff(s.Items(), reloaded.Items()); diff != "" {
		t.Errorf("round trip mismatch (-want +got):\n%s", diff)
	}
}
