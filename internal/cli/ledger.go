package cli

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"
	"golang.org/x/text/language"

	"github.com/roach88/storefront/internal/ledger"
)

// LedgerTotals is the output of ledger totals.
type LedgerTotals struct {
	Spent        float64 `json:"spent"`
	Refunded     float64 `json:"refunded"`
	WalletTopUps float64 `json:"wallet_topups"`
	LotteryWins  float64 `json:"lottery_wins"`
}

// NewLedgerCommand creates the ledger command group.
func NewLedgerCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "ledger",
		Short: "Inspect and append to the transaction ledger",
	}
	cmd.AddCommand(newLedgerListCommand(rootOpts))
	cmd.AddCommand(newLedgerShowCommand(rootOpts))
	cmd.AddCommand(newLedgerTotalsCommand(rootOpts))
	cmd.AddCommand(newLedgerAddCommand(rootOpts))
	return cmd
}

func newLedgerListCommand(rootOpts *RootOptions) *cobra.Command {
	var typ, status string
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List transactions, newest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withSession(cmd, rootOpts, func(s *session) error {
				var items []ledger.Transaction
				switch {
				case typ != "":
					items = s.app.Ledger.ByType(ledger.Type(typ))
				case status != "":
					items = s.app.Ledger.ByStatus(ledger.Status(status))
				default:
					items = s.app.Ledger.List()
				}
				if typ != "" && status != "" {
					filtered := items[:0]
					for _, t := range items {
						if t.Status == ledger.Status(status) {
							filtered = append(filtered, t)
						}
					}
					items = filtered
				}
				return s.out.Success(items, func(w io.Writer) {
					if len(items) == 0 {
						fmt.Fprintln(w, "No transactions.")
						return
					}
					for _, t := range items {
						printTransaction(w, t)
					}
				})
			})
		},
	}
	cmd.Flags().StringVar(&typ, "type", "", "only this type (purchase, refund, wallet_topup, lottery_win, withdrawal)")
	cmd.Flags().StringVar(&status, "status", "", "only this status (pending, completed, failed, cancelled)")
	return cmd
}

func newLedgerShowCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "show <id>",
		Short: "Show one transaction",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withSession(cmd, rootOpts, func(s *session) error {
				t, ok := s.app.Ledger.GetByID(args[0])
				if !ok {
					return s.out.Fail(ExitFailure, ErrCodeNotFound, fmt.Sprintf("transaction %s not found", args[0]), nil)
				}
				return s.out.Success(t, func(w io.Writer) {
					printTransaction(w, t)
				})
			})
		},
	}
}

func newLedgerTotalsCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "totals",
		Short: "Sum completed transactions by kind",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withSession(cmd, rootOpts, func(s *session) error {
				totals := LedgerTotals{
					Spent:        s.app.Ledger.TotalSpent(),
					Refunded:     s.app.Ledger.TotalRefunded(),
					WalletTopUps: s.app.Ledger.TotalWalletTopUps(),
					LotteryWins:  s.app.Ledger.TotalLotteryWins(),
				}
				return s.out.Success(totals, func(w io.Writer) {
					fmt.Fprintf(w, "Spent:         %.2f\n", totals.Spent)
					fmt.Fprintf(w, "Refunded:      %.2f\n", totals.Refunded)
					fmt.Fprintf(w, "Wallet top-ups: %.2f\n", totals.WalletTopUps)
					fmt.Fprintf(w, "Lottery wins:  %.2f\n", totals.LotteryWins)
				})
			})
		},
	}
}

func newLedgerAddCommand(rootOpts *RootOptions) *cobra.Command {
	var (
		t           ledger.Transaction
		typ, status string
	)
	cmd := &cobra.Command{
		Use:   "add",
		Short: "Append a transaction",
		Long: `Append a transaction. The id and creation time are assigned here; an
unknown currency code is recorded as USD.

Example:
  storefront ledger add --type purchase --status completed --amount 42.50 --order order-1001`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			t.Type = ledger.Type(typ)
			t.Status = ledger.Status(status)
			if !t.Type.Valid() || !t.Status.Valid() {
				return newFormatter(cmd, rootOpts).Fail(ExitCommandError, ErrCodeInvalidInput,
					fmt.Sprintf("invalid type %q or status %q", typ, status), nil)
			}
			return withSession(cmd, rootOpts, func(s *session) error {
				added := s.app.Ledger.AddTransaction(s.ctx, t)
				return s.out.Success(added, func(w io.Writer) {
					printTransaction(w, added)
				})
			})
		},
	}
	cmd.Flags().StringVar(&typ, "type", "", "purchase, refund, wallet_topup, lottery_win or withdrawal")
	cmd.Flags().StringVar(&status, "status", string(ledger.Pending), "pending, completed, failed or cancelled")
	cmd.Flags().Float64Var(&t.Amount, "amount", 0, "amount")
	cmd.Flags().StringVar(&t.Currency, "currency", ledger.DefaultCurrency, "ISO 4217 currency code")
	cmd.Flags().StringVar(&t.Description, "description", "", "description")
	cmd.Flags().StringVar(&t.PaymentMethod, "payment-method", "", "payment method id")
	cmd.Flags().StringVar(&t.OrderID, "order", "", "order id")
	cmd.Flags().StringVar(&t.LotteryID, "lottery", "", "lottery draw id")
	cmd.Flags().StringVar(&t.RefundReason, "refund-reason", "", "refund reason")
	_ = cmd.MarkFlagRequired("type")
	return cmd
}

func printTransaction(w io.Writer, t ledger.Transaction) {
	fmt.Fprintf(w, "%s  %-12s %-10s %10s  %s  %s\n",
		t.CreatedAt.Format("2006-01-02 15:04"), t.Type, t.Status,
		ledger.FormatAmount(t, language.English), t.ID, t.Description)
}
