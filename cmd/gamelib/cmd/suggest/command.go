// Package suggest provides the suggest command, which lists near-miss title
// pairs that may deserve a forced-merge rule.
package suggest

import (
	"github.com/spf13/cobra"

	"github.com/agentstation/gamelib/internal/appcontext"
	"github.com/agentstation/gamelib/internal/cmd/output"
	"github.com/agentstation/gamelib/internal/snapshot"
	"github.com/agentstation/gamelib/pkg/suggest"
)

// NewCommand creates the suggest command.
func NewCommand(app appcontext.Interface) *cobra.Command {
	var records string

	cmd := &cobra.Command{
		Use:     "suggest",
		GroupID: "core",
		Short:   "List titles from different sources that look like the same game",
		Long: `Suggest compares every pair of raw records from different sources and
lists pairs whose normalized titles are similar but not identical. The
report is advisory: add a forceMerge rule to the overrides file to act on
a suggestion.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			path := app.Paths().Records
			if records != "" {
				path = records
			}
			recs, err := snapshot.LoadRecords(path)
			if err != nil {
				return err
			}

			suggestions := suggest.Suggest(recs)
			app.Logger().Debug().Int("records", len(recs)).Int("suggestions", len(suggestions)).Msg("Computed suggestions")

			format := output.DetectFormat(app.OutputFormat())
			return output.Render(cmd.OutOrStdout(), format, suggestions, func(bool) output.Data {
				return output.SuggestionsToTableData(suggestions)
			})
		},
	}

	cmd.Flags().StringVar(&records, "records", "", "records file or directory (default <data-dir>/records.json)")
	return cmd
}
