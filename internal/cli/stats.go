package cli

import (
	"fmt"
	"io"
	"sort"

	"github.com/spf13/cobra"

	"github.com/roach88/storefront/internal/kv"
)

// KeyStat describes one stored key.
type KeyStat struct {
	Key   string `json:"key"`
	Bytes int    `json:"bytes"`
}

// Stats is the output of the stats command.
type Stats struct {
	Keys    []KeyStat          `json:"keys"`
	Metrics map[string]float64 `json:"metrics"`
}

// NewStatsCommand creates the stats command.
func NewStatsCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Show stored keys and gateway metrics for this run",
		Long: `List every key present in the gateway with the size of its value, and
the gateway counters collected while hydrating the stores for this command.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withSession(cmd, rootOpts, func(s *session) error {
				st := Stats{Keys: []KeyStat{}, Metrics: map[string]float64{}}

				gw := s.app.Gateway()
				keys := kv.AllKeys
				if l, ok := gw.(kv.Lister); ok {
					listed, err := l.Keys(s.ctx)
					if err != nil {
						return WrapExitError(ExitCommandError, "list keys", err)
					}
					if listed != nil {
						keys = listed
					}
				}
				for _, k := range keys {
					v, ok, err := gw.Get(s.ctx, k)
					if err != nil {
						return WrapExitError(ExitCommandError, "read key "+k, err)
					}
					if ok {
						st.Keys = append(st.Keys, KeyStat{Key: k, Bytes: len(v)})
					}
				}

				if m := s.app.Metrics(); m != nil {
					families, err := m.Registry().Gather()
					if err != nil {
						return WrapExitError(ExitCommandError, "gather metrics", err)
					}
					for _, mf := range families {
						for _, metric := range mf.GetMetric() {
							switch {
							case metric.GetCounter() != nil:
								st.Metrics[mf.GetName()] += metric.GetCounter().GetValue()
							case metric.GetHistogram() != nil:
								st.Metrics[mf.GetName()+"_count"] += float64(metric.GetHistogram().GetSampleCount())
							}
						}
					}
				}

				return s.out.Success(st, func(w io.Writer) {
					for _, k := range st.Keys {
						fmt.Fprintf(w, "%-22s %8d bytes\n", k.Key, k.Bytes)
					}
					names := make([]string, 0, len(st.Metrics))
					for name := range st.Metrics {
						names = append(names, name)
					}
					sort.Strings(names)
					for _, name := range names {
						fmt.Fprintf(w, "%s %g\n", name, st.Metrics[name])
					}
				})
			})
		},
	}
}
