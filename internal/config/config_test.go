package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadFallsBackToBuiltinDefaults(t *testing.T) {
	dir := t.TempDir()
	d := Load(dir)
	assert.Equal(t, builtin.MinRunSize, d.MinRunSize)
	assert.Equal(t, builtin.PageWidth, d.PageWidth)
	assert.Equal(t, builtin.Threshold, d.Threshold)
}

func TestLoadMergesProjectFileOverBuiltin(t *testing.T) {
	dir := t.TempDir()
	yaml := "min_run_size: 12\nexclude:\n  - \"*.min.js\"\n"
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".simtext.yaml"), []byte(yaml), 0o644))

	d := Load(dir)
	assert.Equal(t, 12, d.MinRunSize)
	assert.Equal(t, builtin.PageWidth, d.PageWidth)
	assert.Equal(t, []string{"*.min.js"}, d.Exclude)
}

func TestLoadEnvironmentOverridesProjectFile(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".simtext.yaml"), []byte("min_run_size: 12\n"), 0o644))

	t.Setenv("SIMTEXT_MIN_RUN", "30")
	d := Load(dir)
	assert.Equal(t, 30, d.MinRunSize)
}

func TestEnvIntIgnoresUnparsableValue(t *testing.T) {
	t.Setenv("SIMTEXT_THRESHOLD", "not-a-number")
	assert.Equal(t, 5, envInt("SIMTEXT_THRESHOLD", 5))
}
