package suggest_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agentstation/gamelib/pkg/constants"
	"github.com/agentstation/gamelib/pkg/library"
	"github.com/agentstation/gamelib/pkg/sources"
	"github.com/agentstation/gamelib/pkg/suggest"
)

func raw(src sources.Type, title string) library.RawRecord {
	return library.RawRecord{Source: src, Title: title}
}

func TestSuggestVeryHighSimilarity(t *testing.T) {
	got := suggest.Suggest([]library.RawRecord{
		raw(sources.Epic, "Terraria 2"),
		raw(sources.GOG, "Terraria 3"),
	})

	require.Len(t, got, 1)
	assert.Equal(t, [2]string{"Terraria 2", "Terraria 3"}, got[0].Titles)
	assert.Equal(t, [2]sources.Type{sources.Epic, sources.GOG}, got[0].Sources)
	assert.InDelta(t, 0.90, got[0].Similarity, 1e-9)
	assert.Contains(t, got[0].Reason, "very high similarity")
}

func TestSuggestBandsAndOrder(t *testing.T) {
	got := suggest.Suggest([]library.RawRecord{
		raw(sources.Steam, "Rayman 3"),
		raw(sources.Xbox, "Rayman 4"),
		raw(sources.Epic, "Disco Elysium"),
		raw(sources.GOG, "Disco Elysium - The Final Cut"),
		raw(sources.Amazon, "Terraria 2"),
		raw(sources.Manual, "Terraria 3"),
	})

	require.Len(t, got, 3)
	assert.Equal(t, constants.ReasonEditionVariant, got[0].Reason)
	assert.InDelta(t, 0.95, got[0].Similarity, 1e-9)
	assert.Equal(t, constants.ReasonMinorVariation, got[1].Reason)
	assert.Equal(t, constants.ReasonPossiblyRelated, got[2].Reason)
	assert.InDelta(t, 0.875, got[2].Similarity, 1e-9)
}

func TestSuggestExclusions(t *testing.T) {
	tests := []struct {
		name    string
		records []library.RawRecord
	}{
		{"same source", []library.RawRecord{raw(sources.Steam, "Terraria 2"), raw(sources.Steam, "Terraria 3")}},
		{"exact match", []library.RawRecord{raw(sources.Steam, "The Witcher 3"), raw(sources.GOG, "Witcher 3 GOTY")}},
		{"below threshold", []library.RawRecord{raw(sources.Steam, "Celeste"), raw(sources.GOG, "Factorio")}},
		{"single record", []library.RawRecord{raw(sources.Steam, "Celeste")}},
		{"empty", nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Empty(t, suggest.Suggest(tt.records))
		})
	}
}

func TestSuggestGreedyPairing(t *testing.T) {
	got := suggest.Suggest([]library.RawRecord{
		raw(sources.Steam, "Terraria 2"),
		raw(sources.Epic, "Terraria 3"),
		raw(sources.GOG, "Terraria 4"),
	})

	require.Len(t, got, 1, "each record pairs at most once")
	assert.Equal(t, [2]string{"Terraria 2", "Terraria 3"}, got[0].Titles)
}

func TestReason(t *testing.T) {
	assert.Equal(t, constants.ReasonEditionVariant, suggest.Reason(0.95))
	assert.Equal(t, constants.ReasonMinorVariation, suggest.Reason(0.9))
	assert.Equal(t, constants.ReasonPossiblyRelated, suggest.Reason(0.85))
}
