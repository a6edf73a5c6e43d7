package fsutil

import (
	"fmt"
	"path/filepath"
	"strings"
)

// Artifact extensions.
const (
	ScadExt = ".scad"
	StlExt  = ".stl"
)

// WithExtension replaces path's extension with ext unless it already
// matches case-insensitively.
func WithExtension(path, ext string) string {
	cur := filepath.Ext(path)
	if strings.EqualFold(cur, ext) {
		return path
	}
	return strings.TrimSuffix(path, cur) + ext
}

// OutputPath derives an artifact path from the input image path. When
// outDir is empty the artifact is placed next to the input.
func OutputPath(inputPath, outDir, ext string) string {
	base := strings.TrimSuffix(filepath.Base(inputPath), filepath.Ext(inputPath))
	dir := outDir
	if dir == "" {
		dir = filepath.Dir(inputPath)
	}
	return filepath.Join(dir, base+ext)
}

// SaveScript writes an OpenSCAD program verbatim, forcing the .scad
// extension. The parent directory must already exist. It returns the path
// actually written.
func SaveScript(fsys FileSystem, path, content string) (string, error) {
	path = WithExtension(path, ScadExt)
	if err := fsys.WriteFile(path, []byte(content), 0o644); err != nil {
		return "", fmt.Errorf("failed to write script %s: %w", path, err)
	}
	return path, nil
}

// EnsureParentDir creates the directory that will hold path.
func EnsureParentDir(fsys FileSystem, path string) error {
	dir := filepath.Dir(path)
	if dir == "." || dir == "" {
		return nil
	}
	if err := fsys.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("failed to create directory %s: %w", dir, err)
	}
	return nil
}
