// Package reconcile provides the reconcile command, which builds the
// canonical library from raw source records.
package reconcile

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/agentstation/gamelib/internal/appcontext"
	"github.com/agentstation/gamelib/internal/cmd/output"
	"github.com/agentstation/gamelib/internal/report"
	"github.com/agentstation/gamelib/internal/snapshot"
	"github.com/agentstation/gamelib/pkg/constants"
	"github.com/agentstation/gamelib/pkg/differ"
	"github.com/agentstation/gamelib/pkg/errors"
	"github.com/agentstation/gamelib/pkg/provenance"
	"github.com/agentstation/gamelib/pkg/reconciler"
)

// Flags holds reconcile command flags.
type Flags struct {
	Records       string
	Write         bool
	Provenance    bool
	NoSuggestions bool
	Diff          bool
	Report        string
}

// NewCommand creates the reconcile command.
func NewCommand(app appcontext.Interface) *cobra.Command {
	flags := &Flags{}

	cmd := &cobra.Command{
		Use:     "reconcile",
		GroupID: "core",
		Short:   "Build the canonical library from source records",
		Long: `Reconcile merges raw records from every storefront into one canonical
library. Records are grouped by native ID or normalized title, forced-merge
rules are applied, and subscription titles are filtered by ownership,
interest and catalog availability.

The library is printed to stdout. With --write, the library and the
unavailable report are saved to the data directory.`,
		Example: `  gamelib reconcile                          # Print the library
  gamelib reconcile --records ./exports      # Read records from a directory
  gamelib reconcile --write --provenance     # Save library, report and provenance
  gamelib reconcile --diff                   # Show changes against the saved library
  gamelib reconcile --report review.md       # Also write a Markdown report`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return run(cmd, app, flags)
		},
	}

	cmd.Flags().StringVar(&flags.Records, "records", "", "records file or directory (default <data-dir>/records.json)")
	cmd.Flags().BoolVarP(&flags.Write, "write", "w", false, "save the library and unavailable report")
	cmd.Flags().BoolVar(&flags.Provenance, "provenance", false, "track field provenance and save it with --write")
	cmd.Flags().BoolVar(&flags.NoSuggestions, "no-suggestions", false, "skip the merge-suggestion report")
	cmd.Flags().BoolVar(&flags.Diff, "diff", false, "print changes against the saved library instead of the library")
	cmd.Flags().StringVar(&flags.Report, "report", "", "write a Markdown report to this file")

	return cmd
}

func run(cmd *cobra.Command, app appcontext.Interface, flags *Flags) error {
	logger := app.Logger()
	paths := app.Paths()
	if flags.Records != "" {
		paths.Records = flags.Records
	}

	set, err := snapshot.Load(paths)
	if err != nil {
		return err
	}
	resolver, err := app.Overrides()
	if err != nil {
		return err
	}

	r, err := reconciler.New(
		reconciler.WithOverrides(resolver),
		reconciler.WithProvenance(flags.Provenance),
		reconciler.WithSuggestions(!flags.NoSuggestions),
		reconciler.WithBaseline(set.Baseline),
	)
	if err != nil {
		return err
	}

	result, err := r.Reconcile(cmd.Context(), reconciler.Input{
		Records:          set.Records,
		Catalog:          set.Catalog,
		Owned:            set.Owned,
		Interest:         set.Interest,
		PriorUnavailable: set.PriorUnavailable,
		Now:              app.Now(),
	})
	if err != nil {
		return err
	}

	if flags.Write {
		if err := write(paths, result, flags.Provenance); err != nil {
			return err
		}
		logger.Info().Str("path", paths.Library).Int("games", len(result.Library)).Msg("Saved library")
	}

	if flags.Report != "" {
		if err := writeReport(flags.Report, result); err != nil {
			return err
		}
		logger.Info().Str("path", flags.Report).Msg("Wrote report")
	}

	printSummary(cmd.ErrOrStderr(), result)

	if flags.Diff {
		changes := result.Changeset
		if changes == nil {
			changes = differ.Diff(nil, result.Library)
		}
		changes.Print(cmd.OutOrStdout())
		return nil
	}

	format := output.DetectFormat(app.OutputFormat())
	return output.Render(cmd.OutOrStdout(), format, result.Library, func(wide bool) output.Data {
		return output.LibraryToTableData(result.Library, wide)
	})
}

func write(paths snapshot.Paths, result *reconciler.Result, withProvenance bool) error {
	if err := snapshot.SaveLibrary(paths.Library, result.Library); err != nil {
		return err
	}
	if err := snapshot.SaveUnavailable(paths.Unavailable, result.Unavailable); err != nil {
		return err
	}
	if withProvenance {
		path := filepath.Join(filepath.Dir(paths.Library), constants.ProvenanceFile)
		if err := provenance.Save(path, result.Provenance); err != nil {
			return err
		}
	}
	return nil
}

func writeReport(path string, result *reconciler.Result) error {
	f, err := os.Create(path) //nolint:gosec // path comes from a flag
	if err != nil {
		return errors.WrapIO("create", path, err)
	}
	if err := report.Write(f, result); err != nil {
		_ = f.Close()
		return errors.WrapIO("write", path, err)
	}
	return errors.WrapIO("close", path, f.Close())
}

func printSummary(w io.Writer, result *reconciler.Result) {
	fmt.Fprintln(w, result.Summary())
	for _, warning := range result.Warnings {
		fmt.Fprintf(w, "warning: %s\n", warning)
	}
	for _, title := range result.Returned {
		fmt.Fprintf(w, "returned to catalog: %s\n", title)
	}
	if result.Changeset != nil {
		fmt.Fprintln(w, result.Changeset.String())
	}
}
