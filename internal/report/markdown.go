// Package report renders a reconciliation result as a Markdown document
// for review outside the terminal.
package report

import (
	"fmt"
	"io"
	"strconv"

	md "github.com/nao1215/markdown"

	"github.com/agentstation/gamelib/internal/cmd/output"
	"github.com/agentstation/gamelib/pkg/reconciler"
)

// Builder wraps the markdown package with section helpers for
// reconciliation reports.
type Builder struct {
	md *md.Markdown
}

// NewBuilder creates a builder writing to w. Nothing is written until Build.
func NewBuilder(w io.Writer) *Builder {
	return &Builder{md: md.NewMarkdown(w)}
}

// Build flushes the document to the underlying writer.
func (b *Builder) Build() error {
	return b.md.Build()
}

// Table adds a table from pre-shaped output data. Empty tables become a
// placeholder line.
func (b *Builder) Table(data output.Data, empty string) *Builder {
	if len(data.Rows) == 0 {
		b.md.PlainText(md.Italic(empty)).LF()
		return b
	}
	b.md.Table(md.TableSet{Header: data.Headers, Rows: data.Rows})
	return b
}

// Write renders result as Markdown to w.
func Write(w io.Writer, result *reconciler.Result) error {
	b := NewBuilder(w)
	stats := result.Metadata.Stats

	b.md.H1("Game Library Reconciliation")
	b.md.PlainText(result.Summary()).LF()
	b.md.BulletList(
		"Raw records: "+md.Bold(strconv.Itoa(stats.RawRecords)),
		"Canonical games: "+md.Bold(strconv.Itoa(len(result.Library))),
		fmt.Sprintf("Total hours: %s", md.Bold(strconv.FormatFloat(result.Library.TotalHours(), 'f', 1, 64))),
		"Subscription titles withheld: "+strconv.Itoa(stats.Withheld),
	)

	if len(result.Warnings) > 0 {
		b.md.H2("Warnings")
		b.md.BulletList(result.Warnings...)
	}

	b.md.H2("Library")
	b.Table(output.LibraryToTableData(result.Library, false), "No games.")

	b.md.H2("Unavailable")
	b.Table(output.UnavailableToTableData(result.Unavailable), "Nothing unavailable.")
	if len(result.Returned) > 0 {
		b.md.H3("Returned to catalog")
		b.md.BulletList(result.Returned...)
	}

	b.md.H2("Merge Suggestions")
	b.md.PlainText("Pairs below were kept apart. Add a " + md.Code("forceMerge") + " rule to combine them.").LF()
	b.Table(output.SuggestionsToTableData(result.Suggestions), "No suggestions.")

	if result.Changeset != nil {
		b.md.H2("Changes")
		b.md.PlainText(result.Changeset.String()).LF()
		items := make([]string, 0, len(result.Changeset.Added)+len(result.Changeset.Updated)+len(result.Changeset.Removed))
		for _, rec := range result.Changeset.Added {
			items = append(items, "added "+md.Code(rec.CanonicalID)+" "+rec.Title)
		}
		for _, u := range result.Changeset.Updated {
			items = append(items, fmt.Sprintf("updated %s (%d fields)", md.Code(u.ID), len(u.Changes)))
		}
		for _, rec := range result.Changeset.Removed {
			items = append(items, "removed "+md.Code(rec.CanonicalID)+" "+rec.Title)
		}
		if len(items) > 0 {
			b.md.BulletList(items...)
		}
	}

	return b.Build()
}
