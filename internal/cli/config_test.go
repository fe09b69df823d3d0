package cli

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestLoadConfig(t *testing.T) {
	path := writeFile(t, t.TempDir(), "strand.yaml", `
homespace: https://igem.org
version: "2"
library: ./parts
log:
  level: debug
  format: json
store:
  backend: redis
  redis:
    addr: redis:6379
    prefix: "lab:"
    ttl: 24h
`)
	cfg, err := LoadConfig(path)
	require.NoError(t, err)

	assert.Equal(t, "https://igem.org", cfg.Homespace)
	assert.Equal(t, "./parts", cfg.Library)
	assert.Equal(t, "json", cfg.Log.Format)
	assert.Equal(t, BackendRedis, cfg.Store.Backend)
	assert.Equal(t, "lab:", cfg.Store.Redis.Prefix)

	ns, err := cfg.Namespace()
	require.NoError(t, err)
	assert.Equal(t, "2", ns.Version)
}

func TestLoadConfig_Defaults(t *testing.T) {
	t.Chdir(t.TempDir())

	cfg, err := LoadConfig("")
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig(), cfg)
}

func TestLoadConfig_Errors(t *testing.T) {
	dir := t.TempDir()
	tests := []struct {
		name    string
		content string
	}{
		{"unknown backend", "store:\n  backend: cassandra\n"},
		{"unknown key", "homspace: https://typo.org\n"},
		{"bad ttl", "store:\n  backend: redis\n  redis:\n    ttl: forever\n"},
		{"empty homespace", "homespace: \"/\"\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := LoadConfig(writeFile(t, dir, "strand.yaml", tt.content))
			assert.Error(t, err)
		})
	}

	_, err := LoadConfig(filepath.Join(dir, "missing.yaml"))
	assert.Error(t, err, "an explicit config file must exist")
}

func TestSetup_Overrides(t *testing.T) {
	path := writeFile(t, t.TempDir(), "strand.yaml", "store:\n  backend: file\n")

	cfg, logger, err := Setup(Options{ConfigPath: path, Store: BackendMemory, Debug: true, Library: "lib"})
	require.NoError(t, err)
	require.NotNil(t, logger)
	assert.Equal(t, BackendMemory, cfg.Store.Backend)
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, "lib", cfg.Library)

	_, _, err = Setup(Options{ConfigPath: path, Store: "tape"})
	assert.Error(t, err)
}
