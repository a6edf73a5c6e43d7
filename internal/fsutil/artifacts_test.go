package fsutil

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWithExtension(t *testing.T) {
	tests := []struct{ in, ext, want string }{
		{"model.scad", ScadExt, "model.scad"},
		{"model.SCAD", ScadExt, "model.SCAD"},
		{"model.txt", ScadExt, "model.scad"},
		{"model", ScadExt, "model.scad"},
		{"dir.v2/model", StlExt, "dir.v2/model.stl"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, WithExtension(tt.in, tt.ext), tt.in)
	}
}

func TestOutputPath(t *testing.T) {
	assert.Equal(t, filepath.Join("photos", "cat.scad"), OutputPath(filepath.Join("photos", "cat.jpg"), "", ScadExt))
	assert.Equal(t, filepath.Join("out", "cat.stl"), OutputPath(filepath.Join("photos", "cat.jpg"), "out", StlExt))
}

func TestSaveScript_ForcesExtension(t *testing.T) {
	mfs := NewMemoryFileSystem()
	got, err := SaveScript(mfs, "/out/relief.txt", "cube(1);\n")
	require.NoError(t, err)
	assert.Equal(t, "/out/relief.scad", got)

	data, err := mfs.ReadFile(got)
	require.NoError(t, err)
	assert.Equal(t, "cube(1);\n", string(data))
	assert.False(t, mfs.Exists("/out/relief.txt"))
}

func TestSaveScript_OnDisk(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "nested", "model")
	require.NoError(t, EnsureParentDir(OSFileSystem{}, path))
	got, err := SaveScript(OSFileSystem{}, path, "x = 1;\n")
	require.NoError(t, err)
	assert.Equal(t, path+".scad", got)
	assert.FileExists(t, got)
}

func TestSaveScript_MissingDirectory(t *testing.T) {
	_, err := SaveScript(OSFileSystem{}, filepath.Join(t.TempDir(), "absent", "m.scad"), "x;")
	assert.Error(t, err)
}

func TestEnsureParentDir_CurrentDir(t *testing.T) {
	assert.NoError(t, EnsureParentDir(NewMemoryFileSystem(), "model.scad"))
}
