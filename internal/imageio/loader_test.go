package imageio

import (
	"bytes"
	"image"
	"image/color"
	"path/filepath"
	"testing"

	"github.com/disintegration/imaging"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/banshee-data/relief/internal/fsutil"
	"github.com/banshee-data/relief/internal/relief"
)

func gradient(w, h int) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			v := uint8(x * 255 / (w - 1))
			img.SetNRGBA(x, y, color.NRGBA{R: v, G: v, B: v, A: 255})
		}
	}
	return img
}

func TestSupported(t *testing.T) {
	for _, p := range []string{"a.jpg", "a.JPEG", "a.png", "a.webp", "a.bmp", "a.tif", "a.TIFF"} {
		assert.True(t, Supported(p), p)
	}
	for _, p := range []string{"a.gif", "a", "a.scad"} {
		assert.False(t, Supported(p), p)
	}
}

func TestLoad_PNGFromDisk(t *testing.T) {
	path := filepath.Join(t.TempDir(), "g.png")
	require.NoError(t, imaging.Save(gradient(100, 80), path))

	r, err := NewLoader().Load(path)
	require.NoError(t, err)
	assert.Equal(t, 100, r.Width())
	assert.Equal(t, 80, r.Height())
	red, _, _ := r.RGB(99, 0)
	assert.Equal(t, uint8(255), red)
}

func TestLoad_FromMemoryFileSystem(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, imaging.Encode(&buf, gradient(64, 64), imaging.PNG))
	mfs := fsutil.NewMemoryFileSystem()
	require.NoError(t, mfs.WriteFile("/in/photo.png", buf.Bytes(), 0o644))

	r, err := NewLoader(WithFileSystem(mfs)).Load("/in/photo.png")
	require.NoError(t, err)
	assert.Equal(t, 64, r.Width())
}

func TestLoad_Errors(t *testing.T) {
	mfs := fsutil.NewMemoryFileSystem()
	require.NoError(t, mfs.WriteFile("/bad.png", []byte("not a png"), 0o644))
	l := NewLoader(WithFileSystem(mfs))

	_, err := l.Load("/photo.gif")
	assert.ErrorIs(t, err, relief.ErrInput)

	_, err = l.Load("/missing.png")
	assert.ErrorIs(t, err, relief.ErrInput)

	_, err = l.Load("/bad.png")
	assert.ErrorIs(t, err, relief.ErrInput)
}

func TestPrepare_TooSmall(t *testing.T) {
	_, err := NewLoader().Prepare(gradient(63, 200))
	assert.ErrorIs(t, err, relief.ErrInput)
	_, err = NewLoader().Prepare(nil)
	assert.ErrorIs(t, err, relief.ErrInput)
}

func TestPrepare_ResizesKeepingAspect(t *testing.T) {
	r, err := NewLoader(WithMaxDimension(100)).Prepare(gradient(400, 200))
	require.NoError(t, err)
	assert.Equal(t, 100, r.Width())
	assert.Equal(t, 50, r.Height())

	r, err = NewLoader(WithMaxDimension(0)).Prepare(gradient(400, 200))
	require.NoError(t, err)
	assert.Equal(t, 400, r.Width())
}

func TestPrepare_TransparentBecomesWhite(t *testing.T) {
	img := image.NewNRGBA(image.Rect(0, 0, 64, 64))
	img.SetNRGBA(5, 5, color.NRGBA{R: 0, G: 0, B: 0, A: 255})

	r, err := NewLoader().Prepare(img)
	require.NoError(t, err)
	rr, gg, bb := r.RGB(0, 0)
	assert.Equal(t, [3]uint8{255, 255, 255}, [3]uint8{rr, gg, bb})
	rr, gg, bb = r.RGB(5, 5)
	assert.Equal(t, [3]uint8{0, 0, 0}, [3]uint8{rr, gg, bb})
}
