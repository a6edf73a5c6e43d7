// Package preview renders height fields as images for quick inspection:
// a static PNG heatmap through gonum/plot and an interactive HTML heatmap
// through go-echarts.
package preview

import (
	"fmt"
	"io"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/palette"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"

	"github.com/banshee-data/relief/internal/relief"
)

// heightGrid adapts a HeightField to plotter.GridXYZ in millimetres with
// Y increasing away from the viewer, matching the mesh layout.
type heightGrid struct {
	hf       *relief.HeightField
	dx, dy   float64
	min, max float64
}

func newHeightGrid(hf *relief.HeightField) *heightGrid {
	lo, hi := hf.Grid().MinMax()
	if hi-lo < 1e-9 {
		// A flat field would give the palette a zero-width range.
		hi = lo + 1
	}
	g := &heightGrid{hf: hf, min: lo, max: hi}
	if hf.Cols() > 1 {
		g.dx = hf.WidthMm() / float64(hf.Cols()-1)
	}
	if hf.Rows() > 1 {
		g.dy = hf.HeightMm() / float64(hf.Rows()-1)
	}
	return g
}

func (g *heightGrid) Dims() (c, r int)   { return g.hf.Cols(), g.hf.Rows() }
func (g *heightGrid) Z(c, r int) float64 { return g.hf.At(g.hf.Rows()-1-r, c) }
func (g *heightGrid) X(c int) float64    { return float64(c) * g.dx }
func (g *heightGrid) Y(r int) float64    { return float64(r) * g.dy }
func (g *heightGrid) Min() float64       { return g.min }
func (g *heightGrid) Max() float64       { return g.max }

// PNG size of the preview image.
const (
	pngWidth  = 6 * vg.Inch
	pngHeight = 6 * vg.Inch
)

// WritePNG draws hf as a top-down heatmap and writes a PNG to w.
func WritePNG(w io.Writer, hf *relief.HeightField, title string) error {
	if hf == nil {
		return relief.InputError("preview.WritePNG", "height field is nil")
	}
	p := plot.New()
	p.Title.Text = title
	p.X.Label.Text = "X (mm)"
	p.Y.Label.Text = "Y (mm)"

	hm := plotter.NewHeatMap(newHeightGrid(hf), palette.Heat(16, 1))
	hm.Rasterized = true
	p.Add(hm)

	height := pngHeight
	if hf.WidthMm() > 0 {
		height = vg.Length(float64(pngWidth) * hf.HeightMm() / hf.WidthMm())
	}
	wt, err := p.WriterTo(pngWidth, height, "png")
	if err != nil {
		return fmt.Errorf("failed to render preview: %w", err)
	}
	if _, err := wt.WriteTo(w); err != nil {
		return fmt.Errorf("failed to write preview: %w", err)
	}
	return nil
}
