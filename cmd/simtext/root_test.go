package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRootCmdDefaultRunFindsDuplicateRun(t *testing.T) {
	dir := t.TempDir()
	a := filepath.Join(dir, "a.go")
	b := filepath.Join(dir, "b.go")
	shared := "alpha beta gamma delta epsilon zeta"
	require.NoError(t, os.WriteFile(a, []byte(shared), 0o644))
	require.NoError(t, os.WriteFile(b, []byte(shared), 0o644))

	cmd := newRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetArgs([]string{"-r", "6", "-T", a, b})

	require.NoError(t, cmd.Execute())
	assert.Contains(t, out.String(), "6 "+a)
}

func TestRootCmdRejectsIncompatibleOutputFlags(t *testing.T) {
	cmd := newRootCmd()
	cmd.SetOut(new(bytes.Buffer))
	cmd.SetArgs([]string{"-d", "-T", "a.go"})
	err := cmd.Execute()
	assert.Error(t, err)
}

func TestRootCmdShowsVersion(t *testing.T) {
	cmd := newRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetArgs([]string{"-v"})
	require.NoError(t, cmd.Execute())
}
