package cli

import (
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"github.com/roach88/storefront/internal/payment"
)

// NewPaymentCommand creates the payment command group.
func NewPaymentCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "payment",
		Short: "Manage saved payment methods",
	}
	cmd.AddCommand(newPaymentListCommand(rootOpts))
	cmd.AddCommand(newPaymentAddCardCommand(rootOpts))
	cmd.AddCommand(newPaymentAddPayPalCommand(rootOpts))
	cmd.AddCommand(newPaymentRemoveCommand(rootOpts))
	cmd.AddCommand(newPaymentDefaultCommand(rootOpts))
	return cmd
}

func newPaymentListCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List payment methods",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withSession(cmd, rootOpts, func(s *session) error {
				methods := s.app.Payments.List()
				return s.out.Success(methods, func(w io.Writer) {
					if len(methods) == 0 {
						fmt.Fprintln(w, "No payment methods.")
						return
					}
					for _, m := range methods {
						printMethod(w, m)
					}
				})
			})
		},
	}
}

func newPaymentAddCardCommand(rootOpts *RootOptions) *cobra.Command {
	var (
		form      payment.CardForm
		debit     bool
		isDefault bool
	)
	cmd := &cobra.Command{
		Use:   "add-card",
		Short: "Add a credit or debit card",
		Long: `Validate a card and save it. Only the brand and the last four digits
of the number are stored; the security code is checked and discarded.

Example:
  storefront payment add-card --number "4111 1111 1111 1111" \
    --holder "Alex Morgan" --month 12 --year 30 --cvv 123`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if problems := payment.ValidateCardForm(form, time.Now()); len(problems) > 0 {
				return newFormatter(cmd, rootOpts).Fail(ExitFailure, ErrCodeInvalidInput, "invalid card", problems)
			}
			t := payment.CreditCard
			if debit {
				t = payment.DebitCard
			}
			return withSession(cmd, rootOpts, func(s *session) error {
				m := s.app.Payments.Add(s.ctx, payment.NewCardMethod(form, t, isDefault))
				return s.out.Success(m, func(w io.Writer) {
					fmt.Fprintf(w, "Added %s %s\n", m.CardBrand, payment.MaskCardNumber(m.Last4))
				})
			})
		},
	}
	cmd.Flags().StringVar(&form.Number, "number", "", "card number")
	cmd.Flags().StringVar(&form.HolderName, "holder", "", "cardholder name")
	cmd.Flags().IntVar(&form.ExpiryMonth, "month", 0, "expiry month (1-12)")
	cmd.Flags().IntVar(&form.ExpiryYear, "year", 0, "expiry year (YY or YYYY)")
	cmd.Flags().StringVar(&form.CVV, "cvv", "", "security code")
	cmd.Flags().BoolVar(&debit, "debit", false, "save as a debit card")
	cmd.Flags().BoolVar(&isDefault, "default", false, "make this the default payment method")
	return cmd
}

func newPaymentAddPayPalCommand(rootOpts *RootOptions) *cobra.Command {
	var isDefault bool
	cmd := &cobra.Command{
		Use:   "add-paypal <email>",
		Short: "Add a PayPal account",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			m, ok := payment.NewPayPalMethod(args[0], isDefault)
			if !ok {
				return newFormatter(cmd, rootOpts).Fail(ExitFailure, ErrCodeInvalidInput,
					fmt.Sprintf("invalid email %q", args[0]), nil)
			}
			return withSession(cmd, rootOpts, func(s *session) error {
				m = s.app.Payments.Add(s.ctx, m)
				return s.out.Success(m, func(w io.Writer) {
					fmt.Fprintf(w, "Added paypal %s\n", m.PayPalEmail)
				})
			})
		},
	}
	cmd.Flags().BoolVar(&isDefault, "default", false, "make this the default payment method")
	return cmd
}

func newPaymentRemoveCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "remove <id>",
		Short: "Remove a payment method",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withSession(cmd, rootOpts, func(s *session) error {
				if !s.app.Payments.Remove(s.ctx, args[0]) {
					return s.out.Fail(ExitFailure, ErrCodeNotFound, fmt.Sprintf("payment method %s not found", args[0]), nil)
				}
				return s.out.Success(map[string]string{"removed": args[0]}, func(w io.Writer) {
					fmt.Fprintf(w, "Removed payment method %s\n", args[0])
				})
			})
		},
	}
}

func newPaymentDefaultCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "default [id]",
		Short: "Show or set the default payment method",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withSession(cmd, rootOpts, func(s *session) error {
				if len(args) == 1 && !s.app.Payments.SetDefault(s.ctx, args[0]) {
					return s.out.Fail(ExitFailure, ErrCodeNotFound, fmt.Sprintf("payment method %s not found", args[0]), nil)
				}
				def, ok := s.app.Payments.Default()
				if !ok {
					return s.out.Fail(ExitFailure, ErrCodeNotFound, "no default payment method", nil)
				}
				return s.out.Success(def, func(w io.Writer) {
					printMethod(w, def)
				})
			})
		},
	}
}

func printMethod(w io.Writer, m payment.Method) {
	marker := " "
	if m.IsDefault {
		marker = "*"
	}
	switch m.Type {
	case payment.CreditCard, payment.DebitCard:
		fmt.Fprintf(w, "%s %s [%s] %s %s %s exp %02d/%d\n",
			marker, m.ID, m.Type, m.CardBrand, payment.MaskCardNumber(m.Last4), m.HolderName, m.ExpiryMonth, m.ExpiryYear)
	case payment.PayPal:
		fmt.Fprintf(w, "%s %s [%s] %s\n", marker, m.ID, m.Type, m.PayPalEmail)
	default:
		fmt.Fprintf(w, "%s %s [%s]\n", marker, m.ID, m.Type)
	}
}

// NewWalletCommand creates the wallet command group.
func NewWalletCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "wallet",
		Short: "Show and change the wallet balance",
	}
	cmd.AddCommand(&cobra.Command{
		Use:   "balance",
		Short: "Show the wallet balance",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withSession(cmd, rootOpts, func(s *session) error {
				return printBalance(s, s.app.Payments.Balance())
			})
		},
	})
	cmd.AddCommand(&cobra.Command{
		Use:   "topup <amount>",
		Short: "Add money to the wallet",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			amount, err := parseAmount(cmd, rootOpts, args[0])
			if err != nil {
				return err
			}
			return withSession(cmd, rootOpts, func(s *session) error {
				if !s.app.Payments.TopUpWallet(s.ctx, amount) {
					return s.out.Fail(ExitFailure, ErrCodeInvalidInput, "top-up amount must be positive", nil)
				}
				return printBalance(s, s.app.Payments.Balance())
			})
		},
	})
	cmd.AddCommand(&cobra.Command{
		Use:   "deduct <amount>",
		Short: "Take money from the wallet",
		Long:  "Take money from the wallet. Fails without changing the balance when it does not cover the amount.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			amount, err := parseAmount(cmd, rootOpts, args[0])
			if err != nil {
				return err
			}
			return withSession(cmd, rootOpts, func(s *session) error {
				if !s.app.Payments.DeductFromWallet(s.ctx, amount) {
					return s.out.Fail(ExitFailure, ErrCodeInsufficient, "insufficient wallet balance",
						map[string]float64{"balance": s.app.Payments.Balance(), "amount": amount})
				}
				return printBalance(s, s.app.Payments.Balance())
			})
		},
	})
	return cmd
}

func printBalance(s *session, balance float64) error {
	return s.out.Success(map[string]float64{"balance": balance}, func(w io.Writer) {
		fmt.Fprintf(w, "Wallet balance: %.2f\n", balance)
	})
}

func parseAmount(cmd *cobra.Command, rootOpts *RootOptions, raw string) (float64, error) {
	amount, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, newFormatter(cmd, rootOpts).Fail(ExitCommandError, ErrCodeInvalidInput,
			fmt.Sprintf("invalid amount %q", raw), nil)
	}
	return amount, nil
}
