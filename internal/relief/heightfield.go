package relief

// HeightField is a normalised height grid in millimetres plus its physical
// footprint. It is not modified after creation.
type HeightField struct {
	grid     *Grid
	widthMm  float64
	heightMm float64
}

// NewHeightField wraps g with a footprint of widthMm along X; the Y extent
// follows the grid's aspect ratio.
func NewHeightField(g *Grid, widthMm float64) (*HeightField, error) {
	if err := g.Validate(); err != nil {
		return nil, err
	}
	if widthMm <= 0 {
		return nil, InputError("relief.NewHeightField", "width must be positive, got %f", widthMm)
	}
	return &HeightField{
		grid:     g,
		widthMm:  widthMm,
		heightMm: widthMm * float64(g.Rows) / float64(g.Cols),
	}, nil
}

// Grid returns the underlying heights. Callers must not modify it.
func (h *HeightField) Grid() *Grid { return h.grid }

// WidthMm is the X extent.
func (h *HeightField) WidthMm() float64 { return h.widthMm }

// HeightMm is the Y extent.
func (h *HeightField) HeightMm() float64 { return h.heightMm }

// Rows is the number of grid rows.
func (h *HeightField) Rows() int { return h.grid.Rows }

// Cols is the number of grid columns.
func (h *HeightField) Cols() int { return h.grid.Cols }

// At returns the height at (r, c).
func (h *HeightField) At(r, c int) float64 { return h.grid.At(r, c) }
