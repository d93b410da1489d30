package logger

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew_WritesRotatedFile(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "logs")

	log, err := New(dir, false)
	require.NoError(t, err)

	log.Info("hello")
	_ = log.Sync()

	data, err := os.ReadFile(filepath.Join(dir, fileName))
	require.NoError(t, err)
	assert.Contains(t, string(data), `"msg":"hello"`)
}

func TestNew_StdoutOnly(t *testing.T) {
	log, err := New("", true)
	require.NoError(t, err)
	assert.True(t, log.Core().Enabled(-1))
}
