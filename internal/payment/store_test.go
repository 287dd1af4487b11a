package payment

import (
	"context"
	"math/rand"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/storefront/internal/ids"
	"github.com/roach88/storefront/internal/kv"
	"github.com/roach88/storefront/internal/persist"
)

var testNow = time.Date(2026, 10, 16, 9, 0, 0, 0, time.UTC)

func newTestStore(t *testing.T) (*Store, *kv.Memory) {
	t.Helper()
	mem := kv.NewMemory()
	s := New(mem, persist.Options{
		IDs:   ids.NewSequenceGenerator("pm"),
		Clock: ids.NewFixedClock(testNow),
	})
	s.Load(context.Background())
	return s, mem
}

func card(isDefault bool) Method {
	return Method{Type: CreditCard, CardBrand: Visa, Last4: "1111", HolderName: "Jo", IsDefault: isDefault}
}

func countDefaults(methods []Method) int {
	n := 0
	for _, m := range methods {
		if m.IsDefault {
			n++
		}
	}
	return n
}

func TestAdd_FirstIsDefault(t *testing.T) {
	s, _ := newTestStore(t)

	m := s.Add(context.Background(), card(false))
	assert.Equal(t, "pm_000001", m.ID)
	assert.True(t, m.IsDefault)
	assert.Equal(t, testNow, m.CreatedAt)
}

func TestAdd_DefaultIsGlobal(t *testing.T) {
	s, _ := newTestStore(t)
	ctx := context.Background()

	visa := s.Add(ctx, card(true))
	pp := s.Add(ctx, Method{Type: PayPal, PayPalEmail: "jo@example.com", IsDefault: true})

	got, _ := s.Get(visa.ID)
	assert.False(t, got.IsDefault, "a default of another type still clears it")
	def, ok := s.Default()
	require.True(t, ok)
	assert.Equal(t, pp.ID, def.ID)
}

func TestAdd_NonDefaultAppended(t *testing.T) {
	s, _ := newTestStore(t)
	ctx := context.Background()

	first := s.Add(ctx, card(false))
	second := s.Add(ctx, card(false))
	assert.False(t, second.IsDefault)
	def, _ := s.Default()
	assert.Equal(t, first.ID, def.ID)
}

func TestRemove_PromotesFirstRemaining(t *testing.T) {
	s, _ := newTestStore(t)
	ctx := context.Background()

	a := s.Add(ctx, card(false))
	b := s.Add(ctx, Method{Type: PayPal, PayPalEmail: "x@example.com"})
	c := s.Add(ctx, card(true))

	require.True(t, s.Remove(ctx, c.ID))
	def, ok := s.Default()
	require.True(t, ok)
	assert.Equal(t, a.ID, def.ID)

	require.True(t, s.Remove(ctx, a.ID))
	def, _ = s.Default()
	assert.Equal(t, b.ID, def.ID)

	require.True(t, s.Remove(ctx, b.ID))
	_, ok = s.Default()
	assert.False(t, ok)
	assert.False(t, s.Remove(ctx, b.ID))
}

func TestSetDefault(t *testing.T) {
	s, _ := newTestStore(t)
	ctx := context.Background()

	s.Add(ctx, card(false))
	b := s.Add(ctx, card(false))

	require.True(t, s.SetDefault(ctx, b.ID))
	def, _ := s.Default()
	assert.Equal(t, b.ID, def.ID)
	assert.Equal(t, 1, countDefaults(s.List()))
	assert.False(t, s.SetDefault(ctx, "missing"))
}

func TestGlobalDefault_RandomSequence(t *testing.T) {
	s, _ := newTestStore(t)
	ctx := context.Background()
	rng := rand.New(rand.NewSource(7))
	types := []MethodType{CreditCard, DebitCard, PayPal, WalletMethod}

	for step := 0; step < 400; step++ {
		methods := s.List()
		switch op := rng.Intn(3); {
		case op == 0 || len(methods) == 0:
			s.Add(ctx, Method{Type: types[rng.Intn(len(types))], IsDefault: rng.Intn(2) == 0})
		case op == 1:
			s.Remove(ctx, methods[rng.Intn(len(methods))].ID)
		default:
			s.SetDefault(ctx, methods[rng.Intn(len(methods))].ID)
		}
		methods = s.List()
		require.LessOrEqual(t, countDefaults(methods), 1, "step %d", step)
		if len(methods) > 0 {
			require.Equal(t, 1, countDefaults(methods), "non-empty list keeps a default at step %d", step)
		}
	}
}

func TestWallet_TopUpAndDeduct(t *testing.T) {
	s, mem := newTestStore(t)
	ctx := context.Background()

	assert.Equal(t, 0.0, s.Balance())
	require.True(t, s.TopUpWallet(ctx, 100))
	require.True(t, s.DeductFromWallet(ctx, 30.5))
	assert.Equal(t, 69.5, s.Balance())

	raw, _ := mem.Raw(kv.KeyWalletBalance)
	assert.Equal(t, "69.5", raw)
}

func TestWallet_InsufficientBalance(t *testing.T) {
	s, mem := newTestStore(t)
	ctx := context.Background()
	s.TopUpWallet(ctx, 10)
	writes := mem.Writes()

	assert.False(t, s.DeductFromWallet(ctx, 10.01))
	assert.Equal(t, 10.0, s.Balance())
	assert.Equal(t, writes, mem.Writes(), "refused deduction writes nothing")

	assert.True(t, s.DeductFromWallet(ctx, 10))
	assert.Equal(t, 0.0, s.Balance())
}

func TestWallet_RejectsBadAmounts(t *testing.T) {
	s, _ := newTestStore(t)
	ctx := context.Background()

	assert.False(t, s.TopUpWallet(ctx, 0))
	assert.False(t, s.TopUpWallet(ctx, -5))
	assert.False(t, s.DeductFromWallet(ctx, -5))
	assert.Equal(t, 0.0, s.Balance())
}

func TestWallet_CentRounding(t *testing.T) {
	s, mem := newTestStore(t)
	ctx := context.Background()

	s.TopUpWallet(ctx, 0.1)
	s.TopUpWallet(ctx, 0.2)
	assert.Equal(t, 0.3, s.Balance())
	raw, _ := mem.Raw(kv.KeyWalletBalance)
	assert.Equal(t, "0.3", raw)
}

func TestWallet_PersistedIndependently(t *testing.T) {
	s, mem := newTestStore(t)
	ctx := context.Background()
	s.Add(ctx, card(false))
	before, _ := mem.Raw(kv.KeyPaymentMethods)

	s.TopUpWallet(ctx, 5)
	after, _ := mem.Raw(kv.KeyPaymentMethods)
	assert.Equal(t, before, after)
}

func TestWallet_WriteFailureNotRolledBack(t *testing.T) {
	s, mem := newTestStore(t)
	ctx := context.Background()
	mem.FailWrites(true)

	assert.True(t, s.TopUpWallet(ctx, 20))
	assert.Equal(t, 20.0, s.Balance())
	raw, _ := mem.Raw(kv.KeyWalletBalance)
	assert.Equal(t, "0", raw)
}

func TestLoad_Seed(t *testing.T) {
	mem := kv.NewMemory()
	s := New(mem, persist.Options{Seed: true})
	s.Load(context.Background())

	methods := s.List()
	require.Len(t, methods, 2)
	assert.Equal(t, "pm-sample-visa", methods[0].ID)
	assert.True(t, methods[0].IsDefault)
	assert.True(t, methods[0].CreatedAt.Equal(time.Date(2026, 1, 5, 10, 0, 0, 0, time.UTC)))
	assert.Equal(t, PayPal, methods[1].Type)
	assert.Equal(t, 0.0, s.Balance())

	raw, ok := mem.Raw(kv.KeyWalletBalance)
	require.True(t, ok)
	assert.Equal(t, "0", raw)
}

func TestLoad_ExistingBalance(t *testing.T) {
	mem := kv.NewMemory()
	mem.Put(kv.KeyWalletBalance, "42.75")
	mem.Put(kv.KeyPaymentMethods, "[]")
	s := New(mem, persist.Options{Seed: true})
	s.Load(context.Background())

	assert.Equal(t, 42.75, s.Balance())
	assert.Empty(t, s.List())
}

func TestLoad_CorruptBalanceFallsBack(t *testing.T) {
	mem := kv.NewMemory()
	mem.Put(kv.KeyWalletBalance, "lots")
	var reported []error
	s := New(mem, persist.Options{OnPersistError: func(err error) { reported = append(reported, err) }})
	s.Load(context.Background())

	assert.Equal(t, 0.0, s.Balance())
	require.Len(t, reported, 1)
	assert.True(t, persist.IsReadError(reported[0]))
}

func TestRoundTrip(t *testing.T) {
	s, mem := newTestStore(t)
	ctx := context.Background()
	s.Add(ctx, card(true))
	s.Add(ctx, Method{Type: PayPal, PayPalEmail: "jo@example.com"})
	s.TopUpWallet(ctx, 12.34)

	reloaded := New(mem, persist.Options{})
	reloaded.Load(ctx)
	if diff := cmp.Diff(s.List(), reloaded.List()); diff != "" {
		t.Errorf("round trip mismatch (-want +got):\n%s", diff)
	}
	assert.Equal(t, 12.34, reloaded.Balance())
}
