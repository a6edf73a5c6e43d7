// Package imageio loads photographs into the RGB rasters depth sources
// consume. Images are validated, flattened onto white and scaled down so
// depth estimation runs on a bounded number of pixels.
package imageio

import (
	"image"
	"path/filepath"
	"strings"

	"github.com/disintegration/imaging"
	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"

	"github.com/banshee-data/relief/internal/fsutil"
	"github.com/banshee-data/relief/internal/relief"
)

// Size limits in pixels.
const (
	MinDimension        = 64
	LargeDimension      = 4096
	DefaultMaxDimension = 1024
)

var supportedExtensions = map[string]bool{
	".jpg":  true,
	".jpeg": true,
	".png":  true,
	".webp": true,
	".bmp":  true,
	".tiff": true,
	".tif":  true,
}

// Supported reports whether path has an image extension the loader decodes.
func Supported(path string) bool {
	return supportedExtensions[strings.ToLower(filepath.Ext(path))]
}

// Loader reads and prepares input images.
type Loader struct {
	fs     fsutil.FileSystem
	maxDim int
}

// Option configures a Loader.
type Option func(*Loader)

// WithFileSystem sets the filesystem images are read from.
func WithFileSystem(fs fsutil.FileSystem) Option {
	return func(l *Loader) { l.fs = fs }
}

// WithMaxDimension bounds the longer side of loaded rasters. Zero or
// negative disables resizing.
func WithMaxDimension(px int) Option {
	return func(l *Loader) { l.maxDim = px }
}

// NewLoader returns a Loader reading from the OS filesystem.
func NewLoader(opts ...Option) *Loader {
	l := &Loader{fs: fsutil.OSFileSystem{}, maxDim: DefaultMaxDimension}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Load decodes the image at path and prepares it with Prepare.
func (l *Loader) Load(path string) (*Raster, error) {
	const op = "imageio.Load"
	if !Supported(path) {
		return nil, relief.InputError(op, "unsupported image format %q", filepath.Ext(path))
	}
	if !l.fs.Exists(path) {
		return nil, relief.InputError(op, "image file not found: %s", path)
	}
	f, err := l.fs.Open(path)
	if err != nil {
		return nil, relief.Wrap(relief.KindInput, op, err)
	}
	defer f.Close()

	img, err := imaging.Decode(f, imaging.AutoOrientation(true))
	if err != nil {
		return nil, &relief.Error{Kind: relief.KindInput, Op: op, Msg: "failed to decode " + path, Err: err}
	}
	return l.Prepare(img)
}

// Prepare validates img, composites any transparency over white and
// scales it so neither side exceeds the configured maximum.
func (l *Loader) Prepare(img image.Image) (*Raster, error) {
	const op = "imageio.Prepare"
	if img == nil {
		return nil, relief.InputError(op, "image is nil")
	}
	b := img.Bounds()
	w, h := b.Dx(), b.Dy()
	if w < MinDimension || h < MinDimension {
		return nil, relief.InputError(op, "image too small: %dx%d, minimum is %dx%d", w, h, MinDimension, MinDimension)
	}
	if w > LargeDimension || h > LargeDimension {
		opsf("large image %dx%d will be downscaled", w, h)
	}

	flat := flatten(img)
	if l.maxDim > 0 && (w > l.maxDim || h > l.maxDim) {
		flat = imaging.Fit(flat, l.maxDim, l.maxDim, imaging.Lanczos)
		diagf("resized %dx%d -> %dx%d", w, h, flat.Bounds().Dx(), flat.Bounds().Dy())
	}
	return &Raster{img: flat}, nil
}
