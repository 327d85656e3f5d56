package paths

import (
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultHomeDir(t *testing.T) {
	assert.True(t, strings.HasSuffix(DefaultHomeDir(), DefaultHomeDirName))
}

func TestHomePaths(t *testing.T) {
	home := filepath.Join("/tmp", "jw")
	assert.Equal(t, filepath.Join(home, "config.toml"), ConfigPath(home))
	assert.Equal(t, filepath.Join(home, ".env"), EnvFilePath(home))
	assert.Equal(t, filepath.Join(home, "history"), HistoryPath(home))
}

func TestEnsureDir(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "a", "b")
	assert.False(t, Exists(dir))
	require.NoError(t, EnsureDir(dir))
	assert.True(t, Exists(dir))
	assert.True(t, IsDir(dir))
	assert.False(t, IsDir(filepath.Join(dir, "missing")))
}
