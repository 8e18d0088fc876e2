package validate

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agentstation/gamelib/internal/appcontext"
	"github.com/agentstation/gamelib/internal/snapshot"
	"github.com/agentstation/gamelib/pkg/errors"
)

func run(t *testing.T, files map[string]string) (string, error) {
	t.Helper()
	dir := t.TempDir()
	for name, content := range files {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0o600))
	}
	app := &appcontext.Mock{PathsFunc: func() snapshot.Paths { return snapshot.DefaultPaths(dir) }}

	cmd := NewCommand(app)
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs([]string{})
	err := cmd.Execute()
	return out.String(), err
}

func TestValidateCommand(t *testing.T) {
	t.Run("valid", func(t *testing.T) {
		out, err := run(t, map[string]string{
			"records.json":   `[{"source": "steam", "externalId": "1", "title": "Celeste"}, {"source": "gog", "externalId": "2", "title": ""}]`,
			"overrides.yaml": "forceMerge:\n  - titles: [\"Celeste\", \"Celeste Classic\"]\n",
		})
		require.NoError(t, err)
		assert.Contains(t, out, "2 records valid")
		assert.Contains(t, out, "1 forced-merge rules, 0 property overrides")
		assert.Contains(t, out, "warning: record gog:2 has no title")
	})

	t.Run("negative hours", func(t *testing.T) {
		_, err := run(t, map[string]string{
			"records.json": `[{"source": "steam", "externalId": "1", "title": "Celeste", "hoursPlayed": -1}]`,
		})
		require.Error(t, err)
		assert.True(t, errors.IsValidationError(err))
	})

	t.Run("invalid overrides", func(t *testing.T) {
		_, err := run(t, map[string]string{
			"records.json":   `[]`,
			"overrides.yaml": "forceMerge:\n  - canonicalName: Missing titles\n",
		})
		require.Error(t, err)
		assert.True(t, errors.IsValidationError(err))
	})
}
