package reconcile

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/agentstation/utc"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agentstation/gamelib/internal/appcontext"
	"github.com/agentstation/gamelib/internal/snapshot"
	"github.com/agentstation/gamelib/pkg/library"
)

const records = `[
  {"source": "steam", "externalId": "620", "title": "Portal 2", "hoursPlayed": 10},
  {"source": "gog", "externalId": "g-1", "title": "Portal 2", "hoursPlayed": 2.5},
  {"source": "gamepass", "externalId": "gp-1", "title": "Starfield", "hoursPlayed": 4},
  {"source": "epic", "externalId": "e-1", "title": "Hades"}
]`

func setup(t *testing.T) (string, *appcontext.Mock) {
	t.Helper()
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "records.json"), []byte(records), 0o600))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "gamepass-catalog.json"), []byte(`[]`), 0o600))

	now := utc.New(time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC))
	app := &appcontext.Mock{
		PathsFunc: func() snapshot.Paths { return snapshot.DefaultPaths(dir) },
		NowFunc:   func() utc.Time { return now },
	}
	return dir, app
}

func execute(t *testing.T, app appcontext.Interface, args ...string) (string, string, error) {
	t.Helper()
	cmd := NewCommand(app)
	var stdout, stderr bytes.Buffer
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	cmd.SetArgs(args)
	err := cmd.ExecuteContext(context.Background())
	return stdout.String(), stderr.String(), err
}

func TestReconcileCommand(t *testing.T) {
	dir, app := setup(t)

	stdout, stderr, err := execute(t, app)
	require.NoError(t, err)

	var lib []library.CanonicalRecord
	require.NoError(t, json.Unmarshal([]byte(stdout), &lib))
	require.Len(t, lib, 2)
	assert.Equal(t, "portal-2", lib[0].CanonicalID)
	assert.Equal(t, 12.5, lib[0].Hours())
	assert.Equal(t, "hades", lib[1].CanonicalID)
	assert.Contains(t, stderr, "4 records")

	_, err = os.Stat(filepath.Join(dir, "library.json"))
	assert.True(t, os.IsNotExist(err), "library written without --write")
}

func TestReconcileCommandWrite(t *testing.T) {
	dir, app := setup(t)

	_, _, err := execute(t, app, "--write", "--provenance")
	require.NoError(t, err)

	saved, err := snapshot.LoadLibrary(filepath.Join(dir, "library.json"))
	require.NoError(t, err)
	assert.Len(t, saved, 2)

	unavailable, err := snapshot.LoadUnavailable(filepath.Join(dir, "unavailable.json"))
	require.NoError(t, err)
	require.Len(t, unavailable, 1)
	assert.Equal(t, "Starfield", unavailable[0].Title)
	assert.Equal(t, "left-catalog", unavailable[0].Reason)

	_, err = os.Stat(filepath.Join(dir, "provenance.yaml"))
	assert.NoError(t, err)

	// A second run compares against the saved library.
	stdout, _, err := execute(t, app, "--diff")
	require.NoError(t, err)
	assert.Contains(t, stdout, "No changes")
}

func TestReconcileCommandRecordsFlag(t *testing.T) {
	_, app := setup(t)
	other := filepath.Join(t.TempDir(), "other.yaml")
	require.NoError(t, os.WriteFile(other, []byte("- source: manual\n  externalId: m-1\n  title: Celeste\n"), 0o600))

	stdout, _, err := execute(t, app, "--records", other)
	require.NoError(t, err)
	assert.Contains(t, stdout, `"celeste"`)
}

func TestReconcileCommandReport(t *testing.T) {
	_, app := setup(t)
	path := filepath.Join(t.TempDir(), "review.md")

	_, _, err := execute(t, app, "--report", path)
	require.NoError(t, err)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "# Game Library Reconciliation")
	assert.Contains(t, string(data), "Starfield")
}
