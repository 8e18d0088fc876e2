package output

import (
	"io"
	"strconv"
	"strings"

	"github.com/agentstation/gamelib/pkg/library"
	"github.com/agentstation/gamelib/pkg/sources"
	"github.com/agentstation/gamelib/pkg/subscription"
	"github.com/agentstation/gamelib/pkg/suggest"
)

// LibraryToTableData converts canonical records to table format. Wide output
// adds the native ID, last-played date and contributor IDs.
func LibraryToTableData(lib []library.CanonicalRecord, wide bool) Data {
	headers := []string{"ID", "Title", "Primary", "Sources", "Hours"}
	align := []Align{AlignLeft, AlignLeft, AlignLeft, AlignLeft, AlignRight}
	if wide {
		headers = append(headers, "Native ID", "Last Played", "Contributors")
		align = append(align, AlignRight, AlignLeft, AlignLeft)
	}

	rows := make([][]string, 0, len(lib))
	for _, rec := range lib {
		row := []string{
			rec.CanonicalID,
			rec.Title,
			rec.PrimarySource.String(),
			joinSources(rec.OwnedSources),
			FormatHours(rec.TotalHours),
		}
		if wide {
			native := "-"
			if rec.NativeNumericID != nil {
				native = strconv.FormatInt(*rec.NativeNumericID, 10)
			}
			lastPlayed := "-"
			if rec.LastPlayedAt != nil {
				lastPlayed = rec.LastPlayedAt.Time.Format("2006-01-02")
			}
			contributors := make([]string, len(rec.Contributors))
			for i, c := range rec.Contributors {
				contributors[i] = c.Source.String() + ":" + c.ExternalID
			}
			row = append(row, native, lastPlayed, strings.Join(contributors, ", "))
		}
		rows = append(rows, row)
	}

	return Data{Headers: headers, Rows: rows, ColumnAlignment: align}
}

// SuggestionsToTableData converts near-miss suggestions to table format.
func SuggestionsToTableData(suggestions []suggest.Suggestion) Data {
	rows := make([][]string, 0, len(suggestions))
	for _, s := range suggestions {
		rows = append(rows, []string{
			s.Titles[0] + " (" + s.Sources[0].String() + ")",
			s.Titles[1] + " (" + s.Sources[1].String() + ")",
			strconv.FormatFloat(s.Similarity, 'f', 3, 64),
			s.Reason,
		})
	}
	return Data{
		Headers:         []string{"Title", "Candidate", "Similarity", "Reason"},
		Rows:            rows,
		ColumnAlignment: []Align{AlignLeft, AlignLeft, AlignRight, AlignLeft},
	}
}

// UnavailableToTableData converts the unavailable report to table format.
func UnavailableToTableData(entries []subscription.UnavailableEntry) Data {
	rows := make([][]string, 0, len(entries))
	for _, e := range entries {
		played := "no"
		if e.WasPlayed {
			played = "yes"
		}
		firstSeen := "-"
		if e.FirstSeenUnavailable != nil {
			firstSeen = e.FirstSeenUnavailable.Time.Format("2006-01-02")
		}
		rows = append(rows, []string{e.Title, e.Reason, played, FormatHours(e.HoursPlayed), firstSeen})
	}
	return Data{
		Headers:         []string{"Title", "Reason", "Played", "Hours", "First Seen"},
		Rows:            rows,
		ColumnAlignment: []Align{AlignLeft, AlignLeft, AlignCenter, AlignRight, AlignLeft},
	}
}

// DecisionsToTableData converts subscription decisions to table format.
func DecisionsToTableData(decisions []subscription.Decision) Data {
	rows := make([][]string, 0, len(decisions))
	for _, d := range decisions {
		rows = append(rows, []string{d.Title, d.Source.String(), d.State.String()})
	}
	return Data{Headers: []string{"Title", "Source", "State"}, Rows: rows}
}

// FormatHours renders optional playtime, "-" when absent.
func FormatHours(hours *float64) string {
	if hours == nil {
		return "-"
	}
	return strconv.FormatFloat(*hours, 'f', 1, 64)
}

func joinSources(srcs []sources.Type) string {
	names := make([]string, len(srcs))
	for i, s := range srcs {
		names[i] = s.String()
	}
	return strings.Join(names, ", ")
}

// Render writes raw in format. Table formats render the result of toTable
// instead; a nil toTable falls back to reflection.
func Render(w io.Writer, format Format, raw any, toTable func(wide bool) Data) error {
	if format.IsTable() && toTable != nil {
		return NewFormatter(format).Format(w, toTable(format == FormatWide))
	}
	return NewFormatter(format).Format(w, raw)
}
