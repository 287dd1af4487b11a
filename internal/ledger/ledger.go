// Package ledger is the append-only record of money movements. Entries are
// kept newest first and never modified after creation.
package ledger

import (
	"context"
	_ "embed"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"golang.org/x/text/currency"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"gopkg.in/yaml.v3"

	"github.com/roach88/storefront/internal/kv"
	"github.com/roach88/storefront/internal/persist"
)

//go:embed seed.yaml
var seedYAML []byte

// DefaultCurrency is used when a transaction carries no valid ISO 4217 code.
const DefaultCurrency = "USD"

// Type classifies a transaction.
type Type string

const (
	Purchase    Type = "purchase"
	Refund      Type = "refund"
	WalletTopUp Type = "wallet_topup"
	LotteryWin  Type = "lottery_win"
	Withdrawal  Type = "withdrawal"
)

// Valid reports whether t is a known transaction type.
func (t Type) Valid() bool {
	switch t {
	case Purchase, Refund, WalletTopUp, LotteryWin, Withdrawal:
		return true
	}
	return false
}

// Status is the settlement state of a transaction.
type Status string

const (
	Pending   Status = "pending"
	Completed Status = "completed"
	Failed    Status = "failed"
	Cancelled Status = "cancelled"
)

// Valid reports whether s is a known status.
func (s Status) Valid() bool {
	switch s {
	case Pending, Completed, Failed, Cancelled:
		return true
	}
	return false
}

// Transaction is one ledger entry. The metadata fields are optional and
// depend on Type.
type Transaction struct {
	ID            string    `json:"id" yaml:"id"`
	Type          Type      `json:"type" yaml:"type"`
	Status        Status    `json:"status" yaml:"status"`
	Amount        float64   `json:"amount" yaml:"amount"`
	Currency      string    `json:"currency" yaml:"currency"`
	Description   string    `json:"description" yaml:"description"`
	CreatedAt     time.Time `json:"createdAt" yaml:"createdAt"`
	PaymentMethod string    `json:"paymentMethod,omitempty" yaml:"paymentMethod"`
	OrderID       string    `json:"orderId,omitempty" yaml:"orderId"`
	LotteryID     string    `json:"lotteryId,omitempty" yaml:"lotteryId"`
	RefundReason  string    `json:"refundReason,omitempty" yaml:"refundReason"`
}

// Ledger holds the transaction history.
type Ledger struct {
	mu    sync.Mutex
	items []Transaction
	rec   *persist.Record[[]Transaction]
	opts  persist.Options
}

// New creates a ledger over gw. Call Load before use.
func New(gw kv.Gateway, opts persist.Options) *Ledger {
	return &Ledger{
		items: []Transaction{},
		rec:   persist.NewRecord(gw, kv.KeyTransactions, persist.JSON[[]Transaction]()),
		opts:  opts.WithDefaults(),
	}
}

// Load hydrates the ledger, seeding sample transactions when the key is
// absent.
func (l *Ledger) Load(ctx context.Context) {
	l.mu.Lock()
	defer l.mu.Unlock()
	items := persist.Hydrate(ctx, l.rec, l.opts, Seed, func() []Transaction { return []Transaction{} })
	if items == nil {
		items = []Transaction{}
	}
	l.items = items
	slog.Debug("ledger loaded", "count", len(l.items))
}

// Refresh re-reads the persisted ledger. There is no remote source; this
// only picks up writes made through another handle on the same gateway.
func (l *Ledger) Refresh(ctx context.Context) {
	l.Load(ctx)
}

// AddTransaction records t under a fresh id and creation time and returns
// the stored entry. An invalid currency falls back to DefaultCurrency and
// an empty status to Pending.
func (l *Ledger) AddTransaction(ctx context.Context, t Transaction) Transaction {
	l.mu.Lock()
	defer l.mu.Unlock()

	t.ID = l.opts.IDs.Generate()
	t.CreatedAt = l.opts.Clock.Now()
	t.Currency = normalizeCurrency(t.Currency)
	if t.Status == "" {
		t.Status = Pending
	}
	if !t.Type.Valid() {
		slog.Warn("recording transaction with unknown type", "type", t.Type, "id", t.ID)
	}
	l.items = append([]Transaction{t}, l.items...)
	persist.Commit(ctx, l.rec, append([]Transaction(nil), l.items...), l.opts)
	return t
}

// List returns all transactions, newest first.
func (l *Ledger) List() []Transaction {
	l.mu.Lock()
	defer l.mu.Unlock()
	return append([]Transaction(nil), l.items...)
}

// GetByID returns the transaction with id.
func (l *Ledger) GetByID(id string) (Transaction, bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	for _, t := range l.items {
		if t.ID == id {
			return t, true
		}
	}
	return Transaction{}, false
}

// ByType returns the transactions of type t, newest first.
func (l *Ledger) ByType(t Type) []Transaction {
	return l.filter(func(x Transaction) bool { return x.Type == t })
}

// ByStatus returns the transactions with status s, newest first.
func (l *Ledger) ByStatus(s Status) []Transaction {
	return l.filter(func(x Transaction) bool { return x.Status == s })
}

// TotalSpent sums completed purchases.
func (l *Ledger) TotalSpent() float64 { return l.completedTotal(Purchase) }

// TotalRefunded sums completed refunds.
func (l *Ledger) TotalRefunded() float64 { return l.completedTotal(Refund) }

// TotalWalletTopUps sums completed wallet top-ups.
func (l *Ledger) TotalWalletTopUps() float64 { return l.completedTotal(WalletTopUp) }

// TotalLotteryWins sums completed lottery wins.
func (l *Ledger) TotalLotteryWins() float64 { return l.completedTotal(LotteryWin) }

func (l *Ledger) completedTotal(t Type) float64 {
	var sum float64
	for _, x := range l.filter(func(x Transaction) bool { return x.Type == t && x.Status == Completed }) {
		sum += x.Amount
	}
	return sum
}

func (l *Ledger) filter(keep func(Transaction) bool) []Transaction {
	l.mu.Lock()
	defer l.mu.Unlock()
	out := []Transaction{}
	for _, t := range l.items {
		if keep(t) {
			out = append(out, t)
		}
	}
	return out
}

func normalizeCurrency(code string) string {
	if code == "" {
		return DefaultCurrency
	}
	unit, err := currency.ParseISO(strings.TrimSpace(code))
	if err != nil {
		slog.Warn("invalid currency code, using default", "currency", code, "default", DefaultCurrency)
		return DefaultCurrency
	}
	return unit.String()
}

// FormatAmount renders the transaction amount with its currency symbol
// and the currency's standard number of decimals, e.g. "$89.97".
func FormatAmount(t Transaction, tag language.Tag) string {
	unit, err := currency.ParseISO(t.Currency)
	if err != nil {
		unit = currency.USD
	}
	scale, _ := currency.Standard.Rounding(unit)
	p := message.NewPrinter(tag)
	sym := p.Sprint(currency.Symbol(unit))
	return sym + p.Sprintf(fmt.Sprintf("%%.%df", scale), t.Amount)
}

// Seed returns the sample transactions written on first start.
func Seed() []Transaction {
	var items []Transaction
	if err := yaml.Unmarshal(seedYAML, &items); err != nil {
		panic(fmt.Sprintf("ledger: invalid embedded seed: %v", err))
	}
	return items
}
