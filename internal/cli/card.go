package cli

import (
	"fmt"
	"io"
	"time"

	"github.com/spf13/cobra"

	"github.com/roach88/storefront/internal/payment"
)

// CardCheck is the result of card validate.
type CardCheck struct {
	Number string        `json:"number"`
	Brand  payment.Brand `json:"brand"`
	Valid  bool          `json:"valid"`
	Expiry *bool         `json:"expiry_valid,omitempty"`
	CVV    *bool         `json:"cvv_valid,omitempty"`
}

// NewCardCommand creates the card command group. These commands are pure
// and never open the store.
func NewCardCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "card",
		Short: "Card number utilities",
	}
	cmd.AddCommand(newCardValidateCommand(rootOpts))

	cmd.AddCommand(&cobra.Command{
		Use:   "brand <number>",
		Short: "Detect the card network from the number prefix",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			brand := payment.DetectCardBrand(args[0])
			return newFormatter(cmd, rootOpts).Success(map[string]payment.Brand{"brand": brand}, func(w io.Writer) {
				fmt.Fprintln(w, brand)
			})
		},
	})
	cmd.AddCommand(&cobra.Command{
		Use:   "format <number>",
		Short: "Group the digits in blocks of four",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			formatted := payment.FormatCardNumber(args[0])
			return newFormatter(cmd, rootOpts).Success(map[string]string{"formatted": formatted}, func(w io.Writer) {
				fmt.Fprintln(w, formatted)
			})
		},
	})
	cmd.AddCommand(&cobra.Command{
		Use:   "mask <last4>",
		Short: "Render a masked card number",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			masked := payment.MaskCardNumber(args[0])
			return newFormatter(cmd, rootOpts).Success(map[string]string{"masked": masked}, func(w io.Writer) {
				fmt.Fprintln(w, masked)
			})
		},
	})
	return cmd
}

func newCardValidateCommand(rootOpts *RootOptions) *cobra.Command {
	var (
		month, year int
		cvv         string
	)
	cmd := &cobra.Command{
		Use:   "validate <number>",
		Short: "Check a card number, and optionally expiry and CVV",
		Long: `Check the number's length and Luhn checksum. With --month and --year
the expiry is checked against the current month; with --cvv the security
code is checked against the detected brand. Exits 1 if any check fails.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			out := newFormatter(cmd, rootOpts)
			res := CardCheck{
				Number: payment.FormatCardNumber(args[0]),
				Brand:  payment.DetectCardBrand(args[0]),
				Valid:  payment.ValidateCardNumber(args[0]),
			}
			ok := res.Valid
			if cmd.Flags().Changed("month") || cmd.Flags().Changed("year") {
				v := payment.ValidateExpiryDateAt(month, year, time.Now())
				res.Expiry = &v
				ok = ok && v
			}
			if cmd.Flags().Changed("cvv") {
				v := payment.ValidateCVV(cvv, res.Brand)
				res.CVV = &v
				ok = ok && v
			}
			if err := out.Success(res, func(w io.Writer) {
				fmt.Fprintf(w, "%s (%s): %s\n", res.Number, res.Brand, verdict(res.Valid))
				if res.Expiry != nil {
					fmt.Fprintf(w, "expiry: %s\n", verdict(*res.Expiry))
				}
				if res.CVV != nil {
					fmt.Fprintf(w, "cvv: %s\n", verdict(*res.CVV))
				}
			}); err != nil {
				return err
			}
			if !ok {
				return NewExitError(ExitFailure, "card failed validation")
			}
			return nil
		},
	}
	cmd.Flags().IntVar(&month, "month", 0, "expiry month (1-12)")
	cmd.Flags().IntVar(&year, "year", 0, "expiry year (YY or YYYY)")
	cmd.Flags().StringVar(&cvv, "cvv", "", "security code")
	return cmd
}

func verdict(ok bool) string {
	if ok {
		return "valid"
	}
	return "invalid"
}
