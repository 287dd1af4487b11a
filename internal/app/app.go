// Package app constructs every store over one persistence gateway and
// hydrates them together.
package app

import (
	"context"
	"fmt"
	"log/slog"

	"golang.org/x/sync/errgroup"

	"github.com/roach88/storefront/internal/address"
	"github.com/roach88/storefront/internal/cart"
	"github.com/roach88/storefront/internal/config"
	"github.com/roach88/storefront/internal/kv"
	"github.com/roach88/storefront/internal/ledger"
	"github.com/roach88/storefront/internal/loyalty"
	"github.com/roach88/storefront/internal/payment"
	"github.com/roach88/storefront/internal/persist"
	"github.com/roach88/storefront/internal/shelf"
)

// App holds the stores. Stores never reference each other; anything that
// spans several of them is the caller's sequence of independent calls.
type App struct {
	Addresses *address.Book
	Payments  *payment.Store
	Loyalty   *loyalty.Engine
	Cart      *cart.Store
	Wishlist  *shelf.Wishlist
	Compare   *shelf.Compare
	Ledger    *ledger.Ledger

	gw      kv.Gateway
	metrics *kv.Instrumented
}

// New constructs every store over gw with shared options. Nothing is
// loaded until Hydrate.
func New(gw kv.Gateway, opts persist.Options) *App {
	a := &App{
		Addresses: address.New(gw, opts),
		Payments:  payment.New(gw, opts),
		Loyalty:   loyalty.New(gw, opts),
		Cart:      cart.New(gw, opts),
		Wishlist:  shelf.NewWishlist(gw, opts),
		Compare:   shelf.NewCompare(gw, opts),
		Ledger:    ledger.New(gw, opts),
		gw:        gw,
	}
	if m, ok := gw.(*kv.Instrumented); ok {
		a.metrics = m
	}
	return a
}

// Open builds the gateway selected by cfg, wraps it with metrics and
// constructs the stores. The caller must Close the returned App.
func Open(ctx context.Context, cfg *config.Config, opts persist.Options) (*App, error) {
	base, err := OpenGateway(ctx, cfg)
	if err != nil {
		return nil, err
	}
	opts.Seed = cfg.Seed
	return New(kv.NewInstrumented(base), opts), nil
}

// OpenGateway opens the backend named by cfg.Backend.
func OpenGateway(ctx context.Context, cfg *config.Config) (kv.Gateway, error) {
	switch cfg.Backend {
	case config.BackendSQLite:
		gw, err := kv.OpenSQLite(cfg.DBPath)
		if err != nil {
			return nil, fmt.Errorf("open sqlite gateway: %w", err)
		}
		slog.Debug("opened sqlite gateway", "path", cfg.DBPath)
		return gw, nil
	case config.BackendRedis:
		gw, err := kv.OpenRedis(ctx, kv.RedisOptions{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
			Prefix:   cfg.Redis.Prefix,
		})
		if err != nil {
			return nil, fmt.Errorf("open redis gateway: %w", err)
		}
		slog.Debug("opened redis gateway", "addr", cfg.Redis.Addr, "prefix", cfg.Redis.Prefix)
		return gw, nil
	case config.BackendMemory:
		return kv.NewMemory(), nil
	}
	return nil, fmt.Errorf("unknown backend %q", cfg.Backend)
}

// Hydrate loads every store concurrently. Store loads are best-effort and
// never fail; the only error is a context cancelled before or during the
// fan-out.
func (a *App) Hydrate(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	loaders := []interface{ Load(context.Context) }{
		a.Addresses, a.Payments, a.Loyalty, a.Cart, a.Wishlist, a.Compare, a.Ledger,
	}
	g, gctx := errgroup.WithContext(ctx)
	for _, l := range loaders {
		g.Go(func() error {
			l.Load(gctx)
			return gctx.Err()
		})
	}
	if err := g.Wait(); err != nil {
		return fmt.Errorf("hydrate stores: %w", err)
	}
	slog.Debug("stores hydrated", "count", len(loaders))
	return nil
}

// Gateway returns the gateway the stores write through.
func (a *App) Gateway() kv.Gateway {
	return a.gw
}

// Metrics returns the instrumented gateway, or nil when the App was built
// over a bare gateway.
func (a *App) Metrics() *kv.Instrumented {
	return a.metrics
}

// Close closes the gateway.
func (a *App) Close() error {
	return a.gw.Close()
}
