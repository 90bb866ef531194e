package logger

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew_WritesToFileAndCreatesDir(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "sync_logs.txt")

	l, err := New(Config{Level: "debug", OutputPaths: []string{path}})
	require.NoError(t, err)

	l.With(String("run", "1")).Info("sync started", Int("entries", 3))
	_ = l.Sync()

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "sync started")
	assert.Contains(t, string(data), `"entries":3`)
	assert.Contains(t, string(data), `"run":"1"`)
}

func TestParseLevel_DefaultsToInfo(t *testing.T) {
	assert.Equal(t, "info", parseLevel("bogus").String())
	assert.Equal(t, "warn", parseLevel("WARNING").String())
}

func TestOrNop(t *testing.T) {
	assert.IsType(t, &NoOpLogger{}, OrNop(nil))
	l := NewNop()
	assert.Same(t, l, OrNop(l))
}
