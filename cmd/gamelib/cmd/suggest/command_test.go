package suggest

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
	"github.com/agentstation/gamelib/pkg/suggest"
)

func TestSuggestCommand(t *testing.T) {
	dir := t.TempDir()
	records := `[
  {"source": "steam", "externalId": "1", "title": "Terraria 2"},
  {"source": "gog", "externalId": "2", "title": "Terraria 3"},
  {"source": "epic", "externalId": "3", "title": "Hades"}
]`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "records.json"), []byte(records), 0o600))
	app := &appcontext.Mock{PathsFunc: func() snapshot.Paths { return snapshot.DefaultPaths(dir) }}

	cmd := NewCommand(app)
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetArgs([]string{})
	require.NoError(t, cmd.Execute())

	var got []suggest.Suggestion
	require.NoError(t, json.Unmarshal(out.Bytes(), &got))
	require.Len(t, got, 1)
	assert.Equal(t, [2]string{"Terraria 2", "Terraria 3"}, got[0].Titles)
	assert.InDelta(t, 0.9, got[0].Similarity, 1e-9)
}
