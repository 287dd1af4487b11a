// Package payment holds the saved payment methods, the wallet balance and
// the stateless card validators.
//
// Unlike addresses, the default payment method is global: at most one
// method in the whole list is default, whatever its type.
package payment

import (
	"context"
	_ "embed"
	"fmt"
	"log/slog"
	"math"
	"sync"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/roach88/storefront/internal/kv"
	"github.com/roach88/storefront/internal/persist"
)

//go:embed seed.yaml
var seedYAML []byte

// MethodType is the kind of payment instrument.
type MethodType string

const (
	CreditCard   MethodType = "credit_card"
	DebitCard    MethodType = "debit_card"
	PayPal       MethodType = "paypal"
	WalletMethod MethodType = "wallet"
)

// Method is a saved payment instrument. Card fields are set for card
// types, PayPalEmail for PayPal.
type Method struct {
	ID          string     `json:"id" yaml:"id"`
	Type        MethodType `json:"type" yaml:"type"`
	IsDefault   bool       `json:"isDefault" yaml:"isDefault"`
	CreatedAt   time.Time  `json:"createdAt" yaml:"createdAt"`
	CardBrand   Brand      `json:"cardBrand,omitempty" yaml:"cardBrand"`
	Last4       string     `json:"last4,omitempty" yaml:"last4"`
	HolderName  string     `json:"holderName,omitempty" yaml:"holderName"`
	ExpiryMonth int        `json:"expiryMonth,omitempty" yaml:"expiryMonth"`
	ExpiryYear  int        `json:"expiryYear,omitempty" yaml:"expiryYear"`
	PayPalEmail string     `json:"paypalEmail,omitempty" yaml:"paypalEmail"`
}

// Store holds payment methods and the wallet balance. The two live under
// separate keys and are written independently.
type Store struct {
	mu      sync.Mutex
	methods []Method
	balance float64

	methodsRec *persist.Record[[]Method]
	walletRec  *persist.Record[float64]
	opts       persist.Options
}

// New creates a payment store over gw. Call Load before use.
func New(gw kv.Gateway, opts persist.Options) *Store {
	return &Store{
		methods:    []Method{},
		methodsRec: persist.NewRecord(gw, kv.KeyPaymentMethods, persist.JSON[[]Method]()),
		walletRec:  persist.NewRecord(gw, kv.KeyWalletBalance, persist.Float()),
		opts:       opts.WithDefaults(),
	}
}

// Load hydrates payment methods and the wallet balance.
func (s *Store) Load(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()

	methods := persist.Hydrate(ctx, s.methodsRec, s.opts, Seed, func() []Method { return []Method{} })
	if methods == nil {
		methods = []Method{}
	}
	s.methods = methods

	balance := persist.Hydrate(ctx, s.walletRec, s.opts, nil, func() float64 { return 0 })
	if balance < 0 {
		slog.Warn("stored wallet balance is negative, clamping to zero", "balance", balance)
		balance = 0
	}
	s.balance = balance
	slog.Debug("payment store loaded", "methods", len(s.methods), "balance", s.balance)
}

// List returns a copy of all payment methods.
func (s *Store) List() []Method {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]Method(nil), s.methods...)
}

// Get returns the method with id.
func (s *Store) Get(id string) (Method, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if i := s.index(id); i >= 0 {
		return s.methods[i], true
	}
	return Method{}, false
}

// Add stores m under a fresh id and creation time. The first method, or
// one marked default, becomes the single default.
func (s *Store) Add(ctx context.Context, m Method) Method {
	s.mu.Lock()
	defer s.mu.Unlock()

	m.ID = s.opts.IDs.Generate()
	m.CreatedAt = s.opts.Clock.Now()
	if len(s.methods) == 0 || m.IsDefault {
		for i := range s.methods {
			s.methods[i].IsDefault = false
		}
		m.IsDefault = true
	} else {
		m.IsDefault = false
	}
	s.methods = append(s.methods, m)
	s.commitMethods(ctx)
	return m
}

// Remove deletes the method with id. If it was the default, the first
// remaining method becomes default.
func (s *Store) Remove(ctx context.Context, id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.index(id)
	if i < 0 {
		return false
	}
	wasDefault := s.methods[i].IsDefault
	s.methods = append(s.methods[:i], s.methods[i+1:]...)
	if wasDefault && len(s.methods) > 0 {
		s.methods[0].IsDefault = true
	}
	s.commitMethods(ctx)
	return true
}

// SetDefault makes id the only default method.
func (s *Store) SetDefault(ctx context.Context, id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.index(id) < 0 {
		return false
	}
	for i := range s.methods {
		s.methods[i].IsDefault = s.methods[i].ID == id
	}
	s.commitMethods(ctx)
	return true
}

// Default returns the default method, if any.
func (s *Store) Default() (Method, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, m := range s.methods {
		if m.IsDefault {
			return m, true
		}
	}
	return Method{}, false
}

// Balance returns the wallet balance.
func (s *Store) Balance() float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.balance
}

// TopUpWallet credits amount to the wallet. Non-positive amounts are
// rejected without mutation.
func (s *Store) TopUpWallet(ctx context.Context, amount float64) bool {
	if !(amount > 0) || math.IsInf(amount, 0) {
		return false
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	s.balance = roundCents(s.balance + amount)
	persist.Commit(ctx, s.walletRec, s.balance, s.opts)
	return true
}

// DeductFromWallet debits amount if the balance covers it. On false the
// balance is untouched; it never goes negative.
func (s *Store) DeductFromWallet(ctx context.Context, amount float64) bool {
	if amount < 0 || math.IsNaN(amount) {
		return false
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.balance < amount {
		slog.Debug("wallet deduction refused", "balance", s.balance, "amount", amount)
		return false
	}
	s.balance = roundCents(s.balance - amount)
	persist.Commit(ctx, s.walletRec, s.balance, s.opts)
	return true
}

func (s *Store) index(id string) int {
	for i, m := range s.methods {
		if m.ID == id {
			return i
		}
	}
	return -1
}

func (s *Store) commitMethods(ctx context.Context) {
	persist.Commit(ctx, s.methodsRec, append([]Method(nil), s.methods...), s.opts)
}

// roundCents keeps the balance on whole cents so repeated float arithmetic
// does not drift.
func roundCents(v float64) float64 {
	r := math.Round(v*100) / 100
	if r <= 0 {
		return 0
	}
	return r
}

// Seed returns the sample payment methods written on first start.
func Seed() []Method {
	var items []Method
	if err := yaml.Unmarshal(seedYAML, &items); err != nil {
		panic(fmt.Sprintf("payment: invalid embedded seed: %v", err))
	}
	return items
}
