package depth

import (
	"context"

	"github.com/banshee-data/relief/internal/imageio"
	"github.com/banshee-data/relief/internal/relief"
)

// Luminance treats brighter pixels as nearer. It needs no model and gives
// plausible reliefs for lit subjects on dark backgrounds, which makes it
// the default when no external estimator is configured.
type Luminance struct{}

// Estimate returns Rec. 601 luma in [0, 1].
func (Luminance) Estimate(ctx context.Context, r *imageio.Raster) (*relief.Grid, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	g := relief.NewGrid(r.Height(), r.Width())
	for y := 0; y < g.Rows; y++ {
		row := g.Row(y)
		for x := range row {
			red, green, blue := r.RGB(x, y)
			row[x] = (0.299*float64(red) + 0.587*float64(green) + 0.114*float64(blue)) / 255
		}
	}
	return g, nil
}
