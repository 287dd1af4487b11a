package kv

import (
	"context"
	"errors"
)

// Keys claimed by the stores. Each store writes only its own key(s).
const (
	KeyAddresses           = "addresses"
	KeyPaymentMethods      = "paymentMethods"
	KeyWalletBalance       = "walletBalance"
	KeyLoyaltyPoints       = "loyalty_points"
	KeyLoyaltyTransactions = "loyalty_transactions"
	KeyCart                = "cart"
	KeyWishlist            = "wishlist"
	KeyCompareList         = "compare_list"
	KeyTransactions        = "transactions"
)

// AllKeys lists every key in a stable order.
var AllKeys = []string{
	KeyAddresses,
	KeyPaymentMethods,
	KeyWalletBalance,
	KeyLoyaltyPoints,
	KeyLoyaltyTransactions,
	KeyCart,
	KeyWishlist,
	KeyCompareList,
	KeyTransactions,
}

// ErrClosed is returned by operations on a closed gateway.
var ErrClosed = errors.New("kv: gateway closed")

// Gateway is a string key/value substrate.
//
// Get reports absence with ok=false and a nil error; an error always means
// the backend could not answer.
type Gateway interface {
	Get(ctx context.Context, key string) (value string, ok bool, err error)
	Set(ctx context.Context, key, value string) error
	Close() error
}

// Lister is implemented by gateways that can enumerate their keys.
type Lister interface {
	Keys(ctx context.Context) ([]string, error)
}
