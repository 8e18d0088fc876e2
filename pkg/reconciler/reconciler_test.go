package reconciler_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agentstation/gamelib/internal/utils/ptr"
	"github.com/agentstation/gamelib/pkg/constants"
	"github.com/agentstation/gamelib/pkg/errors"
	"github.com/agentstation/gamelib/pkg/library"
	"github.com/agentstation/gamelib/pkg/logging"
	"github.com/agentstation/gamelib/pkg/overrides"
	"github.com/agentstation/gamelib/pkg/reconciler"
	"github.com/agentstation/gamelib/pkg/sources"
	"github.com/agentstation/gamelib/pkg/subscription"
)

func fixtureRecords() []library.RawRecord {
	return []library.RawRecord{
		{Source: sources.Steam, ExternalID: "400", Title: "Portal", NativeNumericID: ptr.Int64(400), HoursPlayed: ptr.Float64(4)},
		{Source: sources.Steam, ExternalID: "400-r", Title: "Portal® Redux", NativeNumericID: ptr.Int64(400), HoursPlayed: ptr.Float64(1)},
		{Source: sources.Xbox, ExternalID: "x-sf", Title: "Starfield", HoursPlayed: ptr.Float64(30)},
		{Source: sources.GamePass, ExternalID: "gp-sf", Title: "Starfield", HoursPlayed: ptr.Float64(2)},
		{Source: sources.GamePass, ExternalID: "gp-pent", Title: "Pentiment"},
		{Source: sources.GamePass, ExternalID: "gp-scorn", Title: "Scorn", HoursPlayed: ptr.Float64(3)},
		{Source: sources.Epic, ExternalID: "e-t2", Title: "Terraria 2"},
		{Source: sources.GOG, ExternalID: "g-t3", Title: "Terraria 3"},
		{Source: sources.Epic, ExternalID: "e-hades", Title: "Hades", Genres: []string{"Action"}},
		{Source: sources.GOG, ExternalID: "g-hades", Title: "HADES"},
	}
}

func fixtureInput() reconciler.Input {
	return reconciler.Input{
		Records:  fixtureRecords(),
		Catalog:  []subscription.CatalogEntry{{Title: "Pentiment", Available: true}, {Title: "Starfield", Available: true}},
		Owned:    []string{"Starfield"},
		Interest: []string{"Pentiment"},
		PriorUnavailable: []subscription.UnavailableEntry{
			{Title: "Pentiment", Reason: constants.ReasonInterestUnavailable},
		},
	}
}

func ids(lib library.Library) []string {
	out := make([]string, 0, len(lib))
	for _, rec := range lib {
		out = append(out, rec.CanonicalID)
	}
	return out
}

func TestReconcile(t *testing.T) {
	resolver := overrides.NewResolver(overrides.Rules{
		PropertyOverrides: []overrides.PropertyOverride{
			{Match: "hades", Properties: map[string]any{"genres": []any{"Roguelike"}}},
		},
	})

	r, err := reconciler.New(reconciler.WithOverrides(resolver), reconciler.WithProvenance(true))
	require.NoError(t, err)

	result, err := r.Reconcile(context.Background(), fixtureInput())
	require.NoError(t, err)

	assert.Equal(t, []string{"steam:400", "starfield", "pentiment", "terraria-2", "terraria-3", "hades"}, ids(result.Library))

	index := result.Library.ByID()
	portal := index["steam:400"]
	assert.Equal(t, 5.0, portal.Hours())

	starfield := index["starfield"]
	assert.Equal(t, []sources.Type{sources.Xbox}, starfield.OwnedSources)
	assert.Equal(t, 32.0, starfield.Hours(), "owned subscription hours fold into the owned record")

	assert.Equal(t, []sources.Type{sources.GamePass}, index["pentiment"].OwnedSources)
	assert.Equal(t, []string{"Roguelike"}, index["hades"].Genres)

	require.Len(t, result.Unavailable, 1)
	assert.Equal(t, "Scorn", result.Unavailable[0].Title)
	assert.Equal(t, constants.ReasonLeftCatalog, result.Unavailable[0].Reason)
	assert.Equal(t, []string{"Pentiment"}, result.Returned)

	require.Len(t, result.Suggestions, 1)
	assert.Equal(t, [2]string{"Terraria 2", "Terraria 3"}, result.Suggestions[0].Titles)

	assert.Nil(t, result.Changeset)
	assert.NotEmpty(t, result.Provenance)

	stats := result.Metadata.Stats
	assert.Equal(t, 10, stats.RawRecords)
	assert.Equal(t, 9, stats.Eligible)
	assert.Equal(t, 6, stats.Groups)
	assert.Equal(t, 3, stats.Merged)
	assert.Equal(t, 1, stats.Withheld)
	assert.Contains(t, result.Summary(), "10 records → 6 games")
}

func TestReconcileBaseline(t *testing.T) {
	first, err := reconciler.New()
	require.NoError(t, err)
	prev, err := first.Reconcile(context.Background(), fixtureInput())
	require.NoError(t, err)

	in := fixtureInput()
	in.Records = append(in.Records, library.RawRecord{Source: sources.Amazon, ExternalID: "a-c", Title: "Celeste"})
	in.Records[0].HoursPlayed = ptr.Float64(10)

	second, err := reconciler.New(reconciler.WithBaseline(prev.Library), reconciler.WithSuggestions(false))
	require.NoError(t, err)
	result, err := second.Reconcile(context.Background(), in)
	require.NoError(t, err)

	require.NotNil(t, result.Changeset)
	assert.True(t, result.HasChanges())
	assert.Equal(t, 1, result.Changeset.Summary.Added)
	assert.Equal(t, 1, result.Changeset.Summary.Updated)
	assert.Empty(t, result.Suggestions)
	assert.Nil(t, result.Provenance)
}

func TestReconcileValidation(t *testing.T) {
	r, err := reconciler.New()
	require.NoError(t, err)

	_, err = r.Reconcile(context.Background(), reconciler.Input{
		Records: []library.RawRecord{{Title: "No Source"}},
	})
	assert.True(t, errors.IsValidationError(err))

	_, err = r.Reconcile(context.Background(), reconciler.Input{
		Records: []library.RawRecord{{Source: sources.Steam, Title: "x", HoursPlayed: ptr.Float64(-1)}},
	})
	assert.True(t, errors.IsValidationError(err))

	_, err = reconciler.New(reconciler.WithOverrides(nil))
	assert.True(t, errors.IsValidationError(err))
}

func TestReconcileWarnings(t *testing.T) {
	testLogger := logging.NewTestLogger(t)
	ctx := logging.WithLogger(context.Background(), testLogger.Logger)

	r, err := reconciler.New()
	require.NoError(t, err)

	result, err := r.Reconcile(ctx, reconciler.Input{
		Records: []library.RawRecord{
			{Source: sources.Steam, ExternalID: "1", Title: ""},
			{Source: sources.Steam, ExternalID: "2", Title: "Hades!"},
			{Source: sources.Epic, ExternalID: "3", Title: "Hades?"},
		},
	})
	require.NoError(t, err)

	assert.Len(t, result.Warnings, 2)
	assert.Equal(t, 1, result.Metadata.Stats.DuplicateIDs)
	testLogger.AssertContains(t, "Duplicate canonical id")
	testLogger.AssertContains(t, `"operation":"reconcile"`)
	testLogger.AssertContains(t, "Reconciliation complete")
}
