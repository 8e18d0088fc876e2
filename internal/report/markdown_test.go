package report_test

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agentstation/gamelib/internal/report"
	"github.com/agentstation/gamelib/internal/utils/ptr"
	"github.com/agentstation/gamelib/pkg/library"
	"github.com/agentstation/gamelib/pkg/reconciler"
	"github.com/agentstation/gamelib/pkg/sources"
)

func reconcile(t *testing.T, opts ...reconciler.Option) *reconciler.Result {
	t.Helper()
	r, err := reconciler.New(opts...)
	require.NoError(t, err)
	result, err := r.Reconcile(context.Background(), reconciler.Input{
		Records: []library.RawRecord{
			{Source: sources.Steam, ExternalID: "1", Title: "Terraria 2", HoursPlayed: ptr.Float64(3)},
			{Source: sources.GOG, ExternalID: "2", Title: "Terraria 3"},
			{Source: sources.GamePass, ExternalID: "3", Title: "Outer Wilds", HoursPlayed: ptr.Float64(9)},
		},
	})
	require.NoError(t, err)
	return result
}

func TestWrite(t *testing.T) {
	var sb strings.Builder
	require.NoError(t, report.Write(&sb, reconcile(t)))
	doc := sb.String()

	assert.True(t, strings.HasPrefix(doc, "# Game Library Reconciliation"))
	assert.Contains(t, doc, "## Library")
	assert.Contains(t, doc, "terraria-2")
	assert.Contains(t, doc, "## Unavailable")
	assert.Contains(t, doc, "Outer Wilds")
	assert.Contains(t, doc, "## Merge Suggestions")
	assert.Contains(t, doc, "Terraria 3 (gog)")
	assert.NotContains(t, doc, "## Changes")
}

func TestWriteWithBaseline(t *testing.T) {
	var sb strings.Builder
	result := reconcile(t, reconciler.WithBaseline([]library.CanonicalRecord{}), reconciler.WithSuggestions(false))
	require.NoError(t, report.Write(&sb, result))
	doc := sb.String()

	assert.Contains(t, doc, "## Changes")
	assert.Contains(t, doc, "added `terraria-2` Terraria 2")
	assert.Contains(t, doc, "No suggestions.")
}
