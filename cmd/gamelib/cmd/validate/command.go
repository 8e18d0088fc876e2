// Package validate provides the validate command, which checks the records
// and overrides files without reconciling.
package validate

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/agentstation/gamelib/internal/appcontext"
	"github.com/agentstation/gamelib/internal/snapshot"
	"github.com/agentstation/gamelib/pkg/reconciler"
)

// NewCommand creates the validate command.
func NewCommand(app appcontext.Interface) *cobra.Command {
	var records string

	cmd := &cobra.Command{
		Use:     "validate",
		GroupID: "tools",
		Short:   "Check records and override rules",
		Long: `Validate parses the records snapshot and the overrides file. Records
must name a known source and must not report negative playtime. The
overrides file is checked against its schema.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			paths := app.Paths()
			if records != "" {
				paths.Records = records
			}

			recs, err := snapshot.LoadRecords(paths.Records)
			if err != nil {
				return err
			}
			warnings, err := reconciler.Validate(recs)
			if err != nil {
				return err
			}

			resolver, err := app.Overrides()
			if err != nil {
				return err
			}
			rules := resolver.Rules()

			out := cmd.OutOrStdout()
			for _, w := range warnings {
				fmt.Fprintf(out, "warning: %s\n", w)
			}
			fmt.Fprintf(out, "✓ %d records valid\n", len(recs))
			fmt.Fprintf(out, "✓ %d forced-merge rules, %d property overrides\n",
				len(rules.ForceMerge), len(rules.PropertyOverrides))
			return nil
		},
	}

	cmd.Flags().StringVar(&records, "records", "", "records file or directory (default <data-dir>/records.json)")
	return cmd
}
