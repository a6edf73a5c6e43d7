package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadRuntime_Defaults(t *testing.T) {
	rt, err := LoadRuntime("")
	require.NoError(t, err)
	assert.Equal(t, "info", rt.LogLevel)
	assert.Equal(t, "console", rt.LogFormat)
	assert.Equal(t, 5*time.Minute, rt.OpenSCAD.Timeout)
	assert.Equal(t, 1024, rt.Image.MaxDimension)
	assert.Empty(t, rt.History.Path)
	assert.Empty(t, rt.Depth.Command)
}

func TestLoadRuntime_MissingFileIsFine(t *testing.T) {
	rt, err := LoadRuntime(t.TempDir())
	require.NoError(t, err)
	assert.Equal(t, "info", rt.LogLevel)
}

func TestLoadRuntime_File(t *testing.T) {
	dir := t.TempDir()
	body := `{
  "logLevel": "debug",
  "openscad": {"path": "/opt/openscad", "timeout": "30s"},
  "history": {"path": "runs.db"},
  "image": {"maxDimension": 512},
  "preview": {"dir": "previews"}
}`
	require.NoError(t, os.WriteFile(filepath.Join(dir, RuntimeConfigName), []byte(body), 0o644))

	rt, err := LoadRuntime(dir)
	require.NoError(t, err)
	assert.Equal(t, "debug", rt.LogLevel)
	assert.Equal(t, "console", rt.LogFormat)
	assert.Equal(t, "/opt/openscad", rt.OpenSCAD.Path)
	assert.Equal(t, 30*time.Second, rt.OpenSCAD.Timeout)
	assert.Equal(t, "runs.db", rt.History.Path)
	assert.Equal(t, 512, rt.Image.MaxDimension)
	assert.Equal(t, "previews", rt.Preview.Dir)
}

func TestLoadRuntime_EnvOverrides(t *testing.T) {
	t.Setenv("RELIEF_LOGFORMAT", "json")
	t.Setenv("RELIEF_DEPTH_COMMAND", "midas {input} {output}")

	rt, err := LoadRuntime("")
	require.NoError(t, err)
	assert.Equal(t, "json", rt.LogFormat)
	assert.Equal(t, "midas {input} {output}", rt.Depth.Command)
}

func TestLoadRuntime_Invalid(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, RuntimeConfigName), []byte(`{"image": {"maxDimension": 8}}`), 0o644))
	_, err := LoadRuntime(dir)
	assert.Error(t, err)

	require.NoError(t, os.WriteFile(filepath.Join(dir, RuntimeConfigName), []byte(`{"logLevel": `), 0o644))
	_, err = LoadRuntime(dir)
	assert.Error(t, err)
}
