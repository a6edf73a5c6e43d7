package preview

import (
	"fmt"
	"io"
	"math"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/opts"

	"github.com/banshee-data/relief/internal/relief"
)

// maxHTMLCells bounds the samples per axis in the HTML heatmap; larger
// grids are strided.
const maxHTMLCells = 160

// viridis is the colour ramp used for height in interactive charts.
var viridis = []string{"#440154", "#482777", "#3e4989", "#31688e", "#26828e", "#1f9e89", "#35b779", "#6ece58", "#b5de2b", "#fde725"}

// WriteHTML renders hf as an interactive heatmap page.
func WriteHTML(w io.Writer, hf *relief.HeightField, title string) error {
	if hf == nil {
		return relief.InputError("preview.WriteHTML", "height field is nil")
	}
	rows, cols := hf.Rows(), hf.Cols()
	stride := 1
	for rows/stride > maxHTMLCells || cols/stride > maxHTMLCells {
		stride++
	}

	var xs, ys []string
	for c := 0; c < cols; c += stride {
		xs = append(xs, fmt.Sprintf("%.1f", float64(c)*hf.WidthMm()/float64(max(cols-1, 1))))
	}
	// Category Y axes grow upward, so the last image row comes first.
	for r := rows - 1; r >= 0; r -= stride {
		ys = append(ys, fmt.Sprintf("%.1f", float64(rows-1-r)*hf.HeightMm()/float64(max(rows-1, 1))))
	}

	data := make([]opts.HeatMapData, 0, len(xs)*len(ys))
	for yi, r := 0, rows-1; r >= 0; yi, r = yi+1, r-stride {
		for xi, c := 0, 0; c < cols; xi, c = xi+1, c+stride {
			data = append(data, opts.HeatMapData{Value: [3]interface{}{xi, yi, round2(hf.At(r, c))}})
		}
	}

	lo, hi := hf.Grid().MinMax()
	hm := charts.NewHeatMap()
	hm.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{PageTitle: title, Width: "900px", Height: "900px"}),
		charts.WithTitleOpts(opts.Title{Title: title, Subtitle: fmt.Sprintf("%dx%d samples, %.1fx%.1f mm, stride %d", cols, rows, hf.WidthMm(), hf.HeightMm(), stride)}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true)}),
		charts.WithXAxisOpts(opts.XAxis{Type: "category", Name: "X (mm)", Data: xs}),
		charts.WithYAxisOpts(opts.YAxis{Type: "category", Name: "Y (mm)", Data: ys}),
		charts.WithVisualMapOpts(opts.VisualMap{
			Show:       opts.Bool(true),
			Calculable: opts.Bool(true),
			Min:        float32(lo),
			Max:        float32(hi),
			InRange:    &opts.VisualMapInRange{Color: viridis},
		}),
	)
	hm.SetXAxis(xs).AddSeries("height (mm)", data)

	if err := hm.Render(w); err != nil {
		return fmt.Errorf("failed to render HTML preview: %w", err)
	}
	return nil
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
