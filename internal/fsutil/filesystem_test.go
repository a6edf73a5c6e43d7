package fsutil

import (
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOSFileSystem_Exists(t *testing.T) {
	fs := OSFileSystem{}

	if !fs.Exists("filesystem.go") {
		t.Error("expected filesystem.go to exist")
	}
	if fs.Exists("nonexistent_file_xyz.go") {
		t.Error("expected nonexistent file to not exist")
	}
}

func TestOSFileSystem_WriteCreateRead(t *testing.T) {
	fs := OSFileSystem{}
	dir := filepath.Join(t.TempDir(), "a", "b")
	require.NoError(t, fs.MkdirAll(dir, 0o755))

	p := filepath.Join(dir, "x.txt")
	require.NoError(t, fs.WriteFile(p, []byte("one"), 0o644))
	data, err := fs.ReadFile(p)
	require.NoError(t, err)
	assert.Equal(t, "one", string(data))

	w, err := fs.Create(p)
	require.NoError(t, err)
	_, err = io.WriteString(w, "two")
	require.NoError(t, err)
	require.NoError(t, w.Close())
	data, err = os.ReadFile(p)
	require.NoError(t, err)
	assert.Equal(t, "two", string(data))
}

func TestMemoryFileSystem_WriteAndRead(t *testing.T) {
	mfs := NewMemoryFileSystem()

	require.NoError(t, mfs.WriteFile("/test.txt", []byte("hello, world"), 0o644))
	data, err := mfs.ReadFile("test.txt")
	require.NoError(t, err)
	assert.Equal(t, "hello, world", string(data))

	info, err := mfs.Stat("/test.txt")
	require.NoError(t, err)
	assert.Equal(t, int64(12), info.Size())
	assert.False(t, info.IsDir())
}

func TestMemoryFileSystem_WriteCopiesData(t *testing.T) {
	mfs := NewMemoryFileSystem()
	buf := []byte("abc")
	require.NoError(t, mfs.WriteFile("/f", buf, 0o644))
	buf[0] = 'z'
	data, err := mfs.ReadFile("/f")
	require.NoError(t, err)
	assert.Equal(t, "abc", string(data))
}

func TestMemoryFileSystem_Create(t *testing.T) {
	mfs := NewMemoryFileSystem()
	w, err := mfs.Create("/out/model.stl")
	require.NoError(t, err)
	assert.True(t, mfs.Exists("/out/model.stl"))

	_, err = w.Write([]byte("solid"))
	require.NoError(t, err)
	require.NoError(t, w.Close())

	data, err := mfs.ReadFile("/out/model.stl")
	require.NoError(t, err)
	assert.Equal(t, "solid", string(data))
}

func TestMemoryFileSystem_MkdirAll(t *testing.T) {
	mfs := NewMemoryFileSystem()
	require.NoError(t, mfs.MkdirAll("/a/b/c", 0o755))

	for _, p := range []string{"/a", "/a/b", "/a/b/c"} {
		info, err := mfs.Stat(p)
		require.NoError(t, err, p)
		assert.True(t, info.IsDir(), p)
	}
	assert.False(t, mfs.Exists("/a/b/c/d"))
}

func TestMemoryFileSystem_OpenMissing(t *testing.T) {
	mfs := NewMemoryFileSystem()
	_, err := mfs.Open("/missing")
	assert.ErrorIs(t, err, os.ErrNotExist)
	_, err = mfs.ReadFile("/missing")
	assert.ErrorIs(t, err, os.ErrNotExist)
}
