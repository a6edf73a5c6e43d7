package heightfield

import (
	"github.com/banshee-data/relief/internal/relief"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// Stats summarises a grid. Std is the population standard deviation.
type Stats struct {
	Min  float64 `json:"min"`
	Max  float64 `json:"max"`
	Mean float64 `json:"mean"`
	Std  float64 `json:"std"`
	Rows int     `json:"rows"`
	Cols int     `json:"cols"`
}

// Statistics reports the extent and distribution of g's samples. An empty
// grid yields zero statistics.
func Statistics(g *relief.Grid) Stats {
	if g == nil || len(g.Data) == 0 {
		return Stats{}
	}
	mean, std := stat.PopMeanStdDev(g.Data, nil)
	return Stats{
		Min:  floats.Min(g.Data),
		Max:  floats.Max(g.Data),
		Mean: mean,
		Std:  std,
		Rows: g.Rows,
		Cols: g.Cols,
	}
}
