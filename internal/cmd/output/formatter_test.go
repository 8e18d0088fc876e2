package output

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agentstation/gamelib/internal/utils/ptr"
	"github.com/agentstation/gamelib/pkg/errors"
	"github.com/agentstation/gamelib/pkg/library"
	"github.com/agentstation/gamelib/pkg/sources"
	"github.com/agentstation/gamelib/pkg/subscription"
	"github.com/agentstation/gamelib/pkg/suggest"
)

func TestParseFormat(t *testing.T) {
	tests := []struct {
		input   string
		want    Format
		wantErr bool
	}{
		{"table", FormatTable, false},
		{"JSON", FormatJSON, false},
		{"yaml", FormatYAML, false},
		{"wide", FormatWide, false},
		{"", "", false},
		{"xml", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseFormat(tt.input)
			if tt.wantErr {
				require.Error(t, err)
				assert.True(t, errors.IsValidationError(err))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestDetectFormatExplicit(t *testing.T) {
	assert.Equal(t, FormatYAML, DetectFormat("YAML"))
}

func TestFormatIsTable(t *testing.T) {
	assert.True(t, FormatTable.IsTable())
	assert.True(t, FormatWide.IsTable())
	assert.True(t, Format("").IsTable())
	assert.False(t, FormatJSON.IsTable())
}

func TestJSONFormatter(t *testing.T) {
	var buf bytes.Buffer
	rec := library.CanonicalRecord{
		CanonicalID:   "hades",
		Title:         "Hades",
		PrimarySource: sources.Epic,
		OwnedSources:  []sources.Type{sources.Epic},
	}
	require.NoError(t, NewFormatter(FormatJSON).Format(&buf, rec))

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &decoded))
	assert.Equal(t, "epic", decoded["primarySource"])
	assert.Contains(t, buf.String(), "\n  \"title\": \"Hades\"")
}

func TestYAMLFormatter(t *testing.T) {
	var buf bytes.Buffer
	data := map[string]any{"titles": []string{"Celeste", "Hades"}}
	require.NoError(t, NewFormatter(FormatYAML).Format(&buf, data))
	assert.Equal(t, "titles:\n- Celeste\n- Hades\n", buf.String())
}

func TestTableFormatterData(t *testing.T) {
	var buf bytes.Buffer
	data := Data{
		Headers: []string{"Title", "Hours"},
		Rows:    [][]string{{"Celeste", "12.0"}},
	}
	require.NoError(t, NewFormatter(FormatTable).Format(&buf, data))
	assert.Contains(t, buf.String(), "Celeste")
	assert.Contains(t, buf.String(), "12.0")
}

func TestTableFormatterReflection(t *testing.T) {
	type row struct {
		CanonicalID string   `json:"canonicalId"`
		Hours       *float64 `json:"hours,omitempty"`
		Hidden      string   `json:"-"`
	}

	t.Run("slice", func(t *testing.T) {
		data := toTableData([]row{{CanonicalID: "celeste", Hours: ptr.Float64(2.5)}, {CanonicalID: "hades"}})
		require.NotNil(t, data)
		assert.Equal(t, []string{"Canonical Id", "Hours"}, data.Headers)
		assert.Equal(t, [][]string{{"celeste", "2.5"}, {"hades", "-"}}, data.Rows)
	})

	t.Run("single struct", func(t *testing.T) {
		data := toTableData(row{CanonicalID: "celeste"})
		require.NotNil(t, data)
		assert.Equal(t, []string{"Property", "Value"}, data.Headers)
		assert.Equal(t, [][]string{{"Canonical Id", "celeste"}, {"Hours", "-"}}, data.Rows)
	})

	t.Run("non struct falls back to json", func(t *testing.T) {
		assert.Nil(t, toTableData([]string{"a"}))
		var buf bytes.Buffer
		require.NoError(t, NewFormatter(FormatTable).Format(&buf, []string{"a"}))
		assert.JSONEq(t, `["a"]`, buf.String())
	})
}

func TestCellValue(t *testing.T) {
	type cells struct {
		Source  sources.Type
		Sources []sources.Type
		Float   float64
	}
	data := toTableData(cells{Source: sources.GOG, Sources: []sources.Type{sources.Steam, sources.Epic}, Float: 0.875})
	require.NotNil(t, data)
	assert.Equal(t, [][]string{
		{"Source", "gog"},
		{"Sources", "steam, epic"},
		{"Float", "0.875"},
	}, data.Rows)
}

func TestLibraryToTableData(t *testing.T) {
	lib := []library.CanonicalRecord{{
		CanonicalID:     "620",
		Title:           "Portal 2",
		PrimarySource:   sources.Steam,
		OwnedSources:    []sources.Type{sources.Steam, sources.GOG},
		NativeNumericID: ptr.Int64(620),
		TotalHours:      ptr.Float64(12.5),
		Contributors: []library.Contributor{
			{Source: sources.Steam, ExternalID: "620"},
			{Source: sources.GOG, ExternalID: "g-1"},
		},
	}}

	narrow := LibraryToTableData(lib, false)
	assert.Len(t, narrow.Headers, 5)
	assert.Equal(t, []string{"620", "Portal 2", "steam", "steam, gog", "12.5"}, narrow.Rows[0])

	wide := LibraryToTableData(lib, true)
	assert.Len(t, wide.Headers, 8)
	assert.Equal(t, []string{"620", "-", "steam:620, gog:g-1"}, wide.Rows[0][5:])
	assert.Len(t, wide.ColumnAlignment, len(wide.Headers))
}

func TestReportTables(t *testing.T) {
	sugg := SuggestionsToTableData([]suggest.Suggestion{{
		Titles:     [2]string{"Terraria 2", "Terraria 3"},
		Sources:    [2]sources.Type{sources.Steam, sources.GOG},
		Similarity: 0.9,
		Reason:     "very high similarity / minor variation",
	}})
	assert.Equal(t, []string{"Terraria 2 (steam)", "Terraria 3 (gog)", "0.900", "very high similarity / minor variation"}, sugg.Rows[0])

	unavail := UnavailableToTableData([]subscription.UnavailableEntry{
		{Title: "Outer Wilds", Reason: "left-catalog", WasPlayed: true, HoursPlayed: ptr.Float64(22)},
	})
	assert.Equal(t, []string{"Outer Wilds", "left-catalog", "yes", "22.0", "-"}, unavail.Rows[0])

	decisions := DecisionsToTableData([]subscription.Decision{
		{Title: "Starfield", Source: sources.GamePass, State: subscription.Eligible},
	})
	assert.Equal(t, []string{"Starfield", "gamepass", "eligible"}, decisions.Rows[0])
}
