package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/happyhackingspace/wordrec/recognizer"
)

func writeConfig(t *testing.T, dir, body string) string {
	t.Helper()
	path := filepath.Join(dir, FileName)
	require.NoError(t, os.WriteFile(path, []byte(body), 0644))
	return path
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	path := writeConfig(t, dir, `
models = "trained/models.json"
test_set = "https://example.org/test.json"

[evaluate]
length_policy = "pad"

[load]
jobs = 3

[history]
enabled = false
path = "runs.db"
`)

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "trained", "models.json"), cfg.Models)
	assert.Equal(t, "https://example.org/test.json", cfg.TestSet)
	assert.Equal(t, 3, cfg.Load.Jobs)
	assert.False(t, cfg.History.Enabled)
	assert.Equal(t, filepath.Join(dir, "runs.db"), cfg.History.Path)
	assert.Equal(t, path, cfg.Path)

	policy, err := cfg.Policy()
	require.NoError(t, err)
	assert.Equal(t, recognizer.LengthPad, policy)
}

func TestLoadKeepsDefaults(t *testing.T) {
	path := writeConfig(t, t.TempDir(), `models = "m"`)

	cfg, err := Load(path)
	require.NoError(t, err)
	def := Default()
	assert.Equal(t, def.TestSet, cfg.TestSet)
	assert.Equal(t, def.History, cfg.History)
	assert.Equal(t, "strict", cfg.Evaluate.LengthPolicy)
}

func TestLoadErrors(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"bad toml", `models = `},
		{"bad policy", "[evaluate]\nlength_policy = \"truncate\""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(writeConfig(t, t.TempDir(), tt.body))
			require.Error(t, err)
		})
	}
}

func TestFind(t *testing.T) {
	root := t.TempDir()
	nested := filepath.Join(root, "a", "b")
	require.NoError(t, os.MkdirAll(nested, 0755))

	_, ok, err := Find(nested)
	require.NoError(t, err)
	assert.False(t, ok)

	want := writeConfig(t, root, `models = "m"`)
	got, ok, err := Find(nested)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, want, got)
}

func TestFindStopsAtModuleRoot(t *testing.T) {
	root := t.TempDir()
	writeConfig(t, root, `models = "m"`)
	mod := filepath.Join(root, "mod")
	require.NoError(t, os.MkdirAll(mod, 0755))
	require.NoError(t, os.WriteFile(filepath.Join(mod, "go.mod"), []byte("module x\n"), 0644))

	_, ok, err := Find(mod)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestDiscoverDefaults(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "go.mod"), []byte("module x\n"), 0644))

	cfg, err := Discover(dir)
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestDataDirXDG(t *testing.T) {
	t.Setenv("XDG_DATA_HOME", "/tmp/xdg")
	assert.Equal(t, filepath.Join("/tmp/xdg", "wordrec"), DataDir())
}
