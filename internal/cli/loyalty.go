package cli

import (
	"fmt"
	"io"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/roach88/storefront/internal/loyalty"
)

// LoyaltyStatus is the output of loyalty status.
type LoyaltyStatus struct {
	Points           int           `json:"points"`
	Tier             loyalty.Tier  `json:"tier"`
	NextTier         *loyalty.Tier `json:"next_tier,omitempty"`
	PointsToNextTier int           `json:"points_to_next_tier"`
}

// NewLoyaltyCommand creates the loyalty command group.
func NewLoyaltyCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "loyalty",
		Short: "Loyalty points, tiers and rewards",
	}
	cmd.AddCommand(newLoyaltyStatusCommand(rootOpts))
	cmd.AddCommand(newLoyaltyEarnCommand(rootOpts))
	cmd.AddCommand(newLoyaltyPreviewCommand(rootOpts))
	cmd.AddCommand(newLoyaltyRedeemCommand(rootOpts))
	cmd.AddCommand(newLoyaltyRewardsCommand(rootOpts))
	cmd.AddCommand(newLoyaltyHistoryCommand(rootOpts))
	return cmd
}

func newLoyaltyStatusCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show points and tier",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withSession(cmd, rootOpts, func(s *session) error {
				st := LoyaltyStatus{
					Points:           s.app.Loyalty.Points(),
					Tier:             s.app.Loyalty.CurrentTier(),
					PointsToNextTier: s.app.Loyalty.PointsToNextTier(),
				}
				if next, ok := s.app.Loyalty.NextTier(); ok {
					st.NextTier = &next
				}
				return s.out.Success(st, func(w io.Writer) {
					fmt.Fprintf(w, "Points: %d\n", st.Points)
					fmt.Fprintf(w, "Tier:   %s (x%g)\n", st.Tier.Name, st.Tier.Multiplier)
					if st.NextTier != nil {
						fmt.Fprintf(w, "Next:   %s in %d points\n", st.NextTier.Name, st.PointsToNextTier)
					}
				})
			})
		},
	}
}

func newLoyaltyEarnCommand(rootOpts *RootOptions) *cobra.Command {
	var description string
	cmd := &cobra.Command{
		Use:   "earn <base-points>",
		Short: "Credit points at the current tier's multiplier",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			base, err := strconv.Atoi(args[0])
			if err != nil || base <= 0 {
				return newFormatter(cmd, rootOpts).Fail(ExitCommandError, ErrCodeInvalidInput,
					fmt.Sprintf("invalid points %q: must be a positive integer", args[0]), nil)
			}
			return withSession(cmd, rootOpts, func(s *session) error {
				credited := s.app.Loyalty.AddPoints(s.ctx, base, description)
				points := s.app.Loyalty.Points()
				return s.out.Success(map[string]int{"credited": credited, "points": points}, func(w io.Writer) {
					fmt.Fprintf(w, "Credited %d points, balance %d\n", credited, points)
				})
			})
		},
	}
	cmd.Flags().StringVar(&description, "description", "Manual credit", "history entry description")
	return cmd
}

func newLoyaltyPreviewCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "preview <purchase-amount>",
		Short: "Show the points a purchase would earn, without crediting them",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			amount, err := parseAmount(cmd, rootOpts, args[0])
			if err != nil {
				return err
			}
			return withSession(cmd, rootOpts, func(s *session) error {
				pts := s.app.Loyalty.PointsForPurchase(amount)
				return s.out.Success(map[string]int{"points": pts}, func(w io.Writer) {
					fmt.Fprintf(w, "A purchase of %.2f earns %d points\n", amount, pts)
				})
			})
		},
	}
}

func newLoyaltyRedeemCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "redeem <reward-id>",
		Short: "Spend points on a reward",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			r, ok := loyalty.RewardByID(args[0])
			if !ok {
				return newFormatter(cmd, rootOpts).Fail(ExitFailure, ErrCodeNotFound,
					fmt.Sprintf("reward %s not found", args[0]), nil)
			}
			return withSession(cmd, rootOpts, func(s *session) error {
				if !s.app.Loyalty.RedeemReward(s.ctx, r) {
					return s.out.Fail(ExitFailure, ErrCodeInsufficient, "not enough points",
						map[string]int{"points": s.app.Loyalty.Points(), "required": r.PointsRequired})
				}
				points := s.app.Loyalty.Points()
				return s.out.Success(map[string]interface{}{"reward": r, "points": points}, func(w io.Writer) {
					fmt.Fprintf(w, "Redeemed %s, balance %d\n", r.Name, points)
				})
			})
		},
	}
}

func newLoyaltyRewardsCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "rewards",
		Short: "List the reward catalog",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			rewards := loyalty.Rewards()
			return newFormatter(cmd, rootOpts).Success(rewards, func(w io.Writer) {
				printRewards(w, rewards)
			})
		},
	}
}

func printRewards(w io.Writer, rewards []loyalty.Reward) {
	for _, r := range rewards {
		fmt.Fprintf(w, "%-22s %5d  %s\n", r.ID, r.PointsRequired, r.Name)
	}
}

func newLoyaltyHistoryCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "history",
		Short: "List point transactions, newest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withSession(cmd, rootOpts, func(s *session) error {
				history := s.app.Loyalty.Transactions()
				return s.out.Success(history, func(w io.Writer) {
					if len(history) == 0 {
						fmt.Fprintln(w, "No point transactions.")
						return
					}
					for _, t := range history {
						sign := "+"
						if t.Type == loyalty.Redeem {
							sign = "-"
						}
						fmt.Fprintf(w, "%s %s%d %s\n", t.Timestamp.Format("2006-01-02 15:04"), sign, t.Points, t.Description)
					}
				})
			})
		},
	}
}
