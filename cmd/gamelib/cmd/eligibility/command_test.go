package eligibility

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agentstation/gamelib/internal/appcontext"
	"github.com/agentstation/gamelib/internal/snapshot"
	"github.com/agentstation/gamelib/pkg/subscription"
)

func TestEligibilityCommand(t *testing.T) {
	dir := t.TempDir()
	files := map[string]string{
		"records.json": `[
  {"source": "gamepass", "externalId": "gp-1", "title": "Starfield", "hoursPlayed": 4},
  {"source": "gamepass", "externalId": "gp-2", "title": "Hi-Fi Rush"},
  {"source": "gamepass", "externalId": "gp-3", "title": "Halo Infinite"}
]`,
		"gamepass-catalog.json": `["Hi-Fi Rush", "Halo Infinite"]`,
		"owned.json":            `["Halo Infinite"]`,
		"interest.json":         `["Hi-Fi Rush"]`,
	}
	for name, content := range files {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0o600))
	}
	app := &appcontext.Mock{PathsFunc: func() snapshot.Paths { return snapshot.DefaultPaths(dir) }}

	t.Run("decisions", func(t *testing.T) {
		cmd := NewCommand(app)
		var out bytes.Buffer
		cmd.SetOut(&out)
		cmd.SetArgs([]string{})
		require.NoError(t, cmd.Execute())

		var decisions []map[string]string
		require.NoError(t, json.Unmarshal(out.Bytes(), &decisions))
		states := map[string]string{}
		for _, d := range decisions {
			states[d["title"]] = d["state"]
		}
		assert.Equal(t, map[string]string{
			"Starfield":     "left-catalog",
			"Hi-Fi Rush":    "eligible",
			"Halo Infinite": "owned",
		}, states)
	})

	t.Run("unavailable report written", func(t *testing.T) {
		cmd := NewCommand(app)
		var out bytes.Buffer
		cmd.SetOut(&out)
		cmd.SetArgs([]string{"--unavailable", "--write"})
		require.NoError(t, cmd.Execute())

		var printed []subscription.UnavailableEntry
		require.NoError(t, json.Unmarshal(out.Bytes(), &printed))
		require.Len(t, printed, 1)
		assert.Equal(t, "Starfield", printed[0].Title)

		saved, err := snapshot.LoadUnavailable(filepath.Join(dir, "unavailable.json"))
		require.NoError(t, err)
		assert.Equal(t, printed, saved)
	})
}
