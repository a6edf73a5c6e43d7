package preview

import (
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/banshee-data/relief/internal/fsutil"
	"github.com/banshee-data/relief/internal/relief"
	"github.com/banshee-data/relief/internal/security"
)

// Preview file extensions.
const (
	PNGExt  = ".png"
	HTMLExt = ".html"
)

// SavePNG writes the PNG heatmap of hf to path on fsys.
func SavePNG(fsys fsutil.FileSystem, path string, hf *relief.HeightField, title string) error {
	return save(fsys, path, func(w io.Writer) error { return WritePNG(w, hf, title) })
}

// SaveHTML writes the interactive heatmap of hf to path on fsys.
func SaveHTML(fsys fsutil.FileSystem, path string, hf *relief.HeightField, title string) error {
	return save(fsys, path, func(w io.Writer) error { return WriteHTML(w, hf, title) })
}

// SaveAll writes both previews of hf into dir, named after base, and
// returns the paths written. base is reduced to a safe file stem first.
func SaveAll(fsys fsutil.FileSystem, dir, base string, hf *relief.HeightField) ([]string, error) {
	base = security.SanitizeFilename(strings.TrimSuffix(filepath.Base(base), filepath.Ext(base)))
	if err := fsys.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create preview directory %s: %w", dir, err)
	}
	title := base + " height field"
	pngPath := filepath.Join(dir, base+PNGExt)
	if err := SavePNG(fsys, pngPath, hf, title); err != nil {
		return nil, err
	}
	htmlPath := filepath.Join(dir, base+HTMLExt)
	if err := SaveHTML(fsys, htmlPath, hf, title); err != nil {
		return []string{pngPath}, err
	}
	return []string{pngPath, htmlPath}, nil
}

func save(fsys fsutil.FileSystem, path string, write func(io.Writer) error) error {
	f, err := fsys.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}
	if err := write(f); err != nil {
		f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("failed to close %s: %w", path, err)
	}
	return nil
}
