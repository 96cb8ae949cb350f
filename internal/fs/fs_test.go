package fs

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLocalFS(t *testing.T) {
	tmp := t.TempDir()
	lfs := LocalFS{}

	dir := filepath.Join(tmp, "a", "b")
	require.NoError(t, lfs.MkdirAll(dir))

	path := filepath.Join(dir, "file.tmp")
	f, err := lfs.Create(path)
	require.NoError(t, err)
	assert.Equal(t, path, f.Name())
	_, err = f.Write([]byte("hello"))
	require.NoError(t, err)
	require.NoError(t, f.Sync())
	require.NoError(t, f.Close())

	_, err = lfs.Create(path)
	assert.ErrorIs(t, err, os.ErrExist)

	final := filepath.Join(dir, "file")
	require.NoError(t, lfs.Rename(path, final))
	data, err := os.ReadFile(final)
	require.NoError(t, err)
	assert.Equal(t, "hello", string(data))

	require.NoError(t, lfs.Remove(final))
	_, err = os.Stat(final)
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestFaultyFSWriteLimit(t *testing.T) {
	ffs := NewFaultyFS(nil)
	ffs.AddRule("limited", Fault{FailAfterBytes: 5})

	f, err := ffs.Create(filepath.Join(t.TempDir(), "limited.tmp"))
	require.NoError(t, err)
	defer f.Close()

	n, err := f.Write([]byte("hello"))
	require.NoError(t, err)
	assert.Equal(t, 5, n)

	_, err = f.Write([]byte("!"))
	assert.ErrorIs(t, err, ErrInjected)
	assert.Equal(t, int64(5), ffs.Written())
}

func TestFaultyFSRules(t *testing.T) {
	custom := errors.New("disk on fire")
	ffs := NewFaultyFS(LocalFS{})
	ffs.AddRule("sync", Fault{FailAfterBytes: -1, FailOnSync: true})
	ffs.AddRule("close", Fault{FailAfterBytes: -1, FailOnClose: true, Err: custom})
	ffs.AddRule("target", Fault{FailAfterBytes: -1, FailOnRename: true})
	dir := t.TempDir()

	f, err := ffs.Create(filepath.Join(dir, "sync"))
	require.NoError(t, err)
	assert.ErrorIs(t, f.Sync(), ErrInjected)
	require.NoError(t, f.Close())

	f, err = ffs.Create(filepath.Join(dir, "close"))
	require.NoError(t, err)
	assert.ErrorIs(t, f.Close(), custom)

	src := filepath.Join(dir, "plain")
	f, err = ffs.Create(src)
	require.NoError(t, err)
	require.NoError(t, f.Close())
	assert.ErrorIs(t, ffs.Rename(src, filepath.Join(dir, "target")), ErrInjected)
	assert.NoError(t, ffs.Rename(src, filepath.Join(dir, "other")))
}
