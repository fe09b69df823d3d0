package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/aretw0/strand"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetArgs(args)
	err := rootCmd.Execute()
	return out.String(), err
}

func TestVersionCommand(t *testing.T) {
	out, err := execute(t, "version")
	require.NoError(t, err)
	assert.Equal(t, "strand version "+strings.TrimSpace(strand.Version)+"\n", out)
}

func TestCompileCommand(t *testing.T) {
	t.Chdir(t.TempDir())
	require.NoError(t, os.WriteFile("edit.yaml", []byte(`
parts:
  - id: backbone
    sequence: atcg
  - id: site
    sequence: gg
designs:
  - id: edited
    insert: {into: backbone, part: site, at: 2}
`), 0644))

	out, err := execute(t, "compile", "edit.yaml", "--store", "sqlite", "--quiet")
	require.NoError(t, err)
	assert.Contains(t, out, "aggtcg")
	assert.FileExists(t, filepath.Join(".strand", "strand.db"))

	out, err = execute(t, "list", "--store", "sqlite")
	require.NoError(t, err)
	assert.Contains(t, out, "default")
}

func TestValidateCommand_Fails(t *testing.T) {
	t.Chdir(t.TempDir())
	require.NoError(t, os.WriteFile("bad.yaml", []byte("designs:\n  - id: d\n    assemble: [ghost]\n"), 0644))

	_, err := execute(t, "validate", "bad.yaml")
	assert.Error(t, err)
}
