package heightfield

import (
	"math"

	"github.com/banshee-data/relief/internal/relief"
)

// gaussianSigma derives sigma from the kernel width the same way common
// image libraries do when sigma is left unspecified.
func gaussianSigma(ksize int) float64 {
	return 0.3*(float64(ksize-1)*0.5-1) + 0.8
}

// gaussianKernel returns normalised 1D weights of width ksize.
func gaussianKernel(ksize int) []float64 {
	sigma := gaussianSigma(ksize)
	half := ksize / 2
	k := make([]float64, ksize)
	var sum float64
	for i := range k {
		x := float64(i - half)
		k[i] = math.Exp(-x * x / (2 * sigma * sigma))
		sum += k[i]
	}
	for i := range k {
		k[i] /= sum
	}
	return k
}

// reflect101 folds an out-of-range index back into [0, n) without
// repeating the edge sample (dcb|abcd|cba).
func reflect101(i, n int) int {
	if n == 1 {
		return 0
	}
	for i < 0 || i >= n {
		if i < 0 {
			i = -i
		}
		if i >= n {
			i = 2*n - 2 - i
		}
	}
	return i
}

// smooth applies a separable Gaussian blur of width ksize and returns a new grid.
func smooth(g *relief.Grid, ksize int) *relief.Grid {
	if ksize%2 == 0 {
		ksize++
	}
	kernel := gaussianKernel(ksize)
	half := ksize / 2

	tmp := relief.NewGrid(g.Rows, g.Cols)
	for r := 0; r < g.Rows; r++ {
		src := g.Row(r)
		dst := tmp.Row(r)
		for c := range dst {
			var acc float64
			for k, w := range kernel {
				acc += w * src[reflect101(c+k-half, g.Cols)]
			}
			dst[c] = acc
		}
	}

	out := relief.NewGrid(g.Rows, g.Cols)
	for c := 0; c < g.Cols; c++ {
		for r := 0; r < g.Rows; r++ {
			var acc float64
			for k, w := range kernel {
				acc += w * tmp.At(reflect101(r+k-half, g.Rows), c)
			}
			out.Set(r, c, acc)
		}
	}
	return out
}
