package imageio

import (
	"image"
	"image/color"

	"github.com/disintegration/imaging"
)

// Raster is an opaque 8-bit RGB image with its origin at (0, 0).
type Raster struct {
	img *image.NRGBA
}

// NewRaster composites img over white without resizing or size checks.
func NewRaster(img image.Image) *Raster {
	return &Raster{img: flatten(img)}
}

func flatten(img image.Image) *image.NRGBA {
	b := img.Bounds()
	return imaging.Overlay(imaging.New(b.Dx(), b.Dy(), color.White), img, image.Pt(0, 0), 1.0)
}

// Width in pixels.
func (r *Raster) Width() int { return r.img.Bounds().Dx() }

// Height in pixels.
func (r *Raster) Height() int { return r.img.Bounds().Dy() }

// RGB returns the colour at (x, y).
func (r *Raster) RGB(x, y int) (uint8, uint8, uint8) {
	i := r.img.PixOffset(x, y)
	p := r.img.Pix[i : i+3 : i+3]
	return p[0], p[1], p[2]
}

// Image exposes the raster as an image.Image.
func (r *Raster) Image() image.Image { return r.img }
