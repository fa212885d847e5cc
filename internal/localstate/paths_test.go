package localstate

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDataDir_Override(t *testing.T) {
	want := filepath.Join(t.TempDir(), "nested", "state")
	t.Setenv(EnvDataDir, want)

	dir, err := DataDir()
	require.NoError(t, err)
	assert.Equal(t, want, dir)
	assert.DirExists(t, dir)
}

func TestDataDir_DefaultsUnderHome(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)
	t.Setenv(EnvDataDir, "")

	dir, err := DataDir()
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(home, ".memo-board"), dir)

	info, err := os.Stat(dir)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o700), info.Mode().Perm())
}

func TestDBPath(t *testing.T) {
	tmp := t.TempDir()
	t.Setenv(EnvDataDir, tmp)

	p, err := DBPath()
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(tmp, "memos.db"), p)
}

func TestDataDir_Unwritable(t *testing.T) {
	blocker := filepath.Join(t.TempDir(), "file")
	require.NoError(t, os.WriteFile(blocker, nil, 0o600))
	t.Setenv(EnvDataDir, filepath.Join(blocker, "sub"))

	_, err := DataDir()
	assert.ErrorContains(t, err, "create data dir")
}
