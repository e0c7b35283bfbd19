package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleYAML = `
bind: 0.0.0.0:11212
target: warm.internal:11211
pool_max_conns: 16
routes:
  - pattern: "^echo/(?P<word>.+)$"
    source: echo1
sources:
  echo1:
    type: echo
    args:
      template: "{word}"
`

func TestLoadParsesYAML(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "platypus.yaml")
	require.NoError(t, os.WriteFile(path, []byte(sampleYAML), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "0.0.0.0:11212", cfg.Bind)
	assert.Equal(t, "warm.internal:11211", cfg.Target)
	assert.Equal(t, int32(16), cfg.PoolMaxConns)
	assert.Equal(t, 32, cfg.Shards, "unset fields keep Default()'s value")
	require.Len(t, cfg.Routes, 1)
	assert.Equal(t, "echo1", cfg.Routes[0].Source)
}

func TestApplyEnvOverridesFields(t *testing.T) {
	t.Setenv("PLATYPUS_BIND", "10.0.0.1:9999")
	t.Setenv("PLATYPUS_SHARDS", "64")

	cfg := Default().ApplyEnv()

	assert.Equal(t, "10.0.0.1:9999", cfg.Bind)
	assert.Equal(t, 64, cfg.Shards)
}

func TestLoadMissingFileErrors(t *testing.T) {
	_, err := Load("/nonexistent/platypus.yaml")
	assert.Error(t, err)
}
