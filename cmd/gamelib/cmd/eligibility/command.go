// Package eligibility provides the eligibility command, which shows how each
// subscription title is treated without building the library.
package eligibility

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/agentstation/gamelib/internal/appcontext"
	"github.com/agentstation/gamelib/internal/cmd/output"
	"github.com/agentstation/gamelib/internal/snapshot"
	"github.com/agentstation/gamelib/pkg/subscription"
)

// NewCommand creates the eligibility command.
func NewCommand(app appcontext.Interface) *cobra.Command {
	var (
		records     string
		unavailable bool
		write       bool
	)

	cmd := &cobra.Command{
		Use:     "eligibility",
		GroupID: "core",
		Short:   "Show which subscription titles would be synced",
		Long: `Eligibility applies the subscription rules to the current snapshots:
owned titles are re-tagged, wanted titles in the catalog are synced, and
wanted or previously played titles missing from the catalog are reported
as unavailable.`,
		Example: `  gamelib eligibility                 # Per-title decisions
  gamelib eligibility --unavailable   # The unavailable report
  gamelib eligibility --write         # Save the unavailable report`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			paths := app.Paths()
			if records != "" {
				paths.Records = records
			}
			set, err := snapshot.Load(paths)
			if err != nil {
				return err
			}

			result := subscription.Resolve(subscription.Input{
				Records:          set.Records,
				Catalog:          set.Catalog,
				Owned:            set.Owned,
				Interest:         set.Interest,
				PriorUnavailable: set.PriorUnavailable,
				Now:              app.Now(),
			})
			for _, title := range result.Returned {
				fmt.Fprintf(cmd.ErrOrStderr(), "returned to catalog: %s\n", title)
			}

			if write {
				if err := snapshot.SaveUnavailable(paths.Unavailable, result.Unavailable); err != nil {
					return err
				}
				app.Logger().Info().Str("path", paths.Unavailable).Int("entries", len(result.Unavailable)).Msg("Saved unavailable report")
			}

			format := output.DetectFormat(app.OutputFormat())
			if unavailable {
				return output.Render(cmd.OutOrStdout(), format, result.Unavailable, func(bool) output.Data {
					return output.UnavailableToTableData(result.Unavailable)
				})
			}
			return output.Render(cmd.OutOrStdout(), format, result.Decisions, func(bool) output.Data {
				return output.DecisionsToTableData(result.Decisions)
			})
		},
	}

	cmd.Flags().StringVar(&records, "records", "", "records file or directory (default <data-dir>/records.json)")
	cmd.Flags().BoolVar(&unavailable, "unavailable", false, "print the unavailable report instead of decisions")
	cmd.Flags().BoolVarP(&write, "write", "w", false, "save the unavailable report")
	return cmd
}
