package cli

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/roach88/storefront/internal/address"
)

// NewAddressCommand creates the address command group.
func NewAddressCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "address",
		Short: "Manage shipping and billing addresses",
	}
	cmd.AddCommand(newAddressListCommand(rootOpts))
	cmd.AddCommand(newAddressAddCommand(rootOpts))
	cmd.AddCommand(newAddressUpdateCommand(rootOpts))
	cmd.AddCommand(newAddressRemoveCommand(rootOpts))
	cmd.AddCommand(newAddressDefaultCommand(rootOpts))
	return cmd
}

func newAddressListCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List saved addresses",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withSession(cmd, rootOpts, func(s *session) error {
				items := s.app.Addresses.List()
				return s.out.Success(items, func(w io.Writer) {
					if len(items) == 0 {
						fmt.Fprintln(w, "No addresses.")
						return
					}
					for _, a := range items {
						printAddress(w, a)
					}
				})
			})
		},
	}
}

type addressFlags struct {
	fullName, phone, line1, line2, city, state, zip, country, typ string
	isDefault                                                   bool
}

func (f *addressFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.fullName, "name", "", "full name")
	cmd.Flags().StringVar(&f.phone, "phone", "", "phone number")
	cmd.Flags().StringVar(&f.line1, "line1", "", "address line 1")
	cmd.Flags().StringVar(&f.line2, "line2", "", "address line 2")
	cmd.Flags().StringVar(&f.city, "city", "", "city")
	cmd.Flags().StringVar(&f.state, "state", "", "state or region")
	cmd.Flags().StringVar(&f.zip, "zip", "", "postal code")
	cmd.Flags().StringVar(&f.country, "country", "", "country")
	cmd.Flags().StringVar(&f.typ, "type", string(address.Shipping), "shipping, billing or both")
	cmd.Flags().BoolVar(&f.isDefault, "default", false, "make this the default of its type")
}

func newAddressAddCommand(rootOpts *RootOptions) *cobra.Command {
	f := &addressFlags{}
	cmd := &cobra.Command{
		Use:   "add",
		Short: "Add an address",
		Long: `Add an address. The first address, or one added with --default,
becomes the default for every address type it overlaps.

Example:
  storefront address add --name "Alex Morgan" --phone "+1 415 555 0100" \
    --line1 "1 Market Street" --city "San Francisco" --state CA \
    --zip 94105 --country "United States" --type both --default`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a := address.Address{
				FullName:     f.fullName,
				Phone:        f.phone,
				AddressLine1: f.line1,
				AddressLine2: f.line2,
				City:         f.city,
				State:        f.state,
				ZipCode:      f.zip,
				Country:      f.country,
				Type:         address.Type(f.typ),
				IsDefault:    f.isDefault,
			}
			if problems := address.Validate(a); len(problems) > 0 {
				out := newFormatter(cmd, rootOpts)
				return out.Fail(ExitCommandError, ErrCodeInvalidInput, "invalid address", problems)
			}
			return withSession(cmd, rootOpts, func(s *session) error {
				added := s.app.Addresses.Add(s.ctx, a)
				return s.out.Success(added, func(w io.Writer) {
					fmt.Fprintf(w, "Added address %s\n", added.ID)
				})
			})
		},
	}
	f.register(cmd)
	return cmd
}

func newAddressUpdateCommand(rootOpts *RootOptions) *cobra.Command {
	f := &addressFlags{}
	cmd := &cobra.Command{
		Use:   "update <id>",
		Short: "Change fields of an address",
		Long: `Change fields of an address. Only flags that are given are applied.

--default clears the default flag on addresses that overlap the address's
type as it was before this update.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			p := address.Patch{}
			strFlags := map[string]**string{
				"name": &p.FullName, "phone": &p.Phone, "line1": &p.AddressLine1,
				"line2": &p.AddressLine2, "city": &p.City, "state": &p.State,
				"zip": &p.ZipCode, "country": &p.Country,
			}
			values := map[string]string{
				"name": f.fullName, "phone": f.phone, "line1": f.line1,
				"line2": f.line2, "city": f.city, "state": f.state,
				"zip": f.zip, "country": f.country,
			}
			for name, dst := range strFlags {
				if cmd.Flags().Changed(name) {
					v := values[name]
					*dst = &v
				}
			}
			if cmd.Flags().Changed("type") {
				t := address.Type(f.typ)
				if !t.Valid() {
					return newFormatter(cmd, rootOpts).Fail(ExitCommandError, ErrCodeInvalidInput,
						fmt.Sprintf("invalid type %q", f.typ), nil)
				}
				p.Type = &t
			}
			if cmd.Flags().Changed("default") {
				p.IsDefault = &f.isDefault
			}
			return withSession(cmd, rootOpts, func(s *session) error {
				updated, ok := s.app.Addresses.Update(s.ctx, args[0], p)
				if !ok {
					return s.out.Fail(ExitFailure, ErrCodeNotFound, fmt.Sprintf("address %s not found", args[0]), nil)
				}
				return s.out.Success(updated, func(w io.Writer) {
					printAddress(w, updated)
				})
			})
		},
	}
	f.register(cmd)
	return cmd
}

func newAddressRemoveCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "remove <id>",
		Short: "Remove an address",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withSession(cmd, rootOpts, func(s *session) error {
				if !s.app.Addresses.Remove(s.ctx, args[0]) {
					return s.out.Fail(ExitFailure, ErrCodeNotFound, fmt.Sprintf("address %s not found", args[0]), nil)
				}
				return s.out.Success(map[string]string{"removed": args[0]}, func(w io.Writer) {
					fmt.Fprintf(w, "Removed address %s\n", args[0])
				})
			})
		},
	}
}

func newAddressDefaultCommand(rootOpts *RootOptions) *cobra.Command {
	var typ string
	cmd := &cobra.Command{
		Use:   "default [id]",
		Short: "Show or set the default address",
		Long: `With an id, make that address the default of its type. Without one,
show the default address, optionally for --type.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withSession(cmd, rootOpts, func(s *session) error {
				if len(args) == 1 {
					if !s.app.Addresses.SetDefault(s.ctx, args[0]) {
						return s.out.Fail(ExitFailure, ErrCodeNotFound, fmt.Sprintf("address %s not found", args[0]), nil)
					}
				}
				def, ok := s.app.Addresses.Default(address.Type(typ))
				if !ok {
					return s.out.Fail(ExitFailure, ErrCodeNotFound, "no default address", nil)
				}
				return s.out.Success(def, func(w io.Writer) {
					printAddress(w, def)
				})
			})
		},
	}
	cmd.Flags().StringVar(&typ, "type", "", "shipping, billing or both")
	return cmd
}

func printAddress(w io.Writer, a address.Address) {
	marker := " "
	if a.IsDefault {
		marker = "*"
	}
	line := a.AddressLine1
	if a.AddressLine2 != "" {
		line += ", " + a.AddressLine2
	}
	fmt.Fprintf(w, "%s %s [%s] %s, %s, %s, %s %s, %s\n",
		marker, a.ID, a.Type, a.FullName, line, a.City, a.State, a.ZipCode, a.Country)
}
