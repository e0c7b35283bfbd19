package source

import (
	"context"
	"os"
	"path/filepath"
	"regexp"
	"testing"

	"github.com/pior/platypus"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFileReadsContents(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "widget.txt")
	require.NoError(t, os.WriteFile(path, []byte("test content"), 0o644))

	file := NewFile(filepath.Join(dir, "{$key}.txt"), zerolog.Nop())
	resp := file.Call(context.Background(), platypus.NewRequest("widget"))

	value, ok := resp.Value()
	require.True(t, ok)
	assert.Equal(t, "test content", value)
}

func TestFileMissingReturnsNoValue(t *testing.T) {
	file := NewFile("/nonexistent/path/{$key}.txt", zerolog.Nop())
	resp := file.Call(context.Background(), platypus.NewRequest("widget"))

	_, ok := resp.Value()
	assert.False(t, ok)
}

func TestFileBuildPathWithCaptures(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "prod", "api"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "prod", "api", "config.json"), []byte(`{"k":"v"}`), 0o644))

	file := NewFile(filepath.Join(dir, "{environment}", "{service}", "{key}.json"), zerolog.Nop())

	req, ok := platypus.MatchRegex(regexp.MustCompile(`^(?P<environment>[^/]+)/(?P<service>[^/]+)/(?P<key>.+)$`), "prod/api/config")
	require.True(t, ok)

	resp := file.Call(context.Background(), req)
	value, ok := resp.Value()
	require.True(t, ok)
	assert.JSONEq(t, `{"k":"v"}`, value)
}
