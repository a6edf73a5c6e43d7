// Package depth produces raw depth grids from photographs.
//
// A Source maps an RGB raster to a grid of the same height and width where
// larger values are nearer the camera. Real estimators are external models;
// this package wraps them behind Source and adds Handle, which loads a
// model lazily and releases it on demand so it can be reused across
// conversions.
package depth

import (
	"context"
	"errors"
	"io"
	"sync"

	"github.com/banshee-data/relief/internal/imageio"
	"github.com/banshee-data/relief/internal/relief"
)

// Source estimates per-pixel depth.
type Source interface {
	Estimate(ctx context.Context, r *imageio.Raster) (*relief.Grid, error)
}

// Loader constructs a Source, typically by loading model weights.
type Loader func(ctx context.Context) (Source, error)

// Handle owns a lazily loaded Source. It is safe for concurrent use; the
// model is loaded at most once until Release is called.
type Handle struct {
	mu   sync.Mutex
	load Loader
	src  Source
}

// NewHandle returns a Handle that calls load on first use.
func NewHandle(load Loader) *Handle {
	return &Handle{load: load}
}

// Static returns a Handle that always uses src.
func Static(src Source) *Handle {
	return NewHandle(func(context.Context) (Source, error) { return src, nil })
}

// Acquire returns the loaded Source, loading it if needed.
func (h *Handle) Acquire(ctx context.Context) (Source, error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.src != nil {
		return h.src, nil
	}
	if h.load == nil {
		return nil, relief.EstimationError("depth.Acquire", nil, "no model loader configured")
	}
	src, err := h.load(ctx)
	if err != nil {
		return nil, relief.EstimationError("depth.Acquire", err, "failed to load depth model")
	}
	if src == nil {
		return nil, relief.EstimationError("depth.Acquire", nil, "model loader returned no source")
	}
	h.src = src
	diagf("depth model loaded")
	return src, nil
}

// IsLoaded reports whether a Source is currently held.
func (h *Handle) IsLoaded() bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.src != nil
}

// Release drops the loaded Source, closing it when it implements
// io.Closer. The next Acquire loads it again.
func (h *Handle) Release() error {
	h.mu.Lock()
	src := h.src
	h.src = nil
	h.mu.Unlock()

	if src == nil {
		return nil
	}
	diagf("depth model released")
	if c, ok := src.(io.Closer); ok {
		return c.Close()
	}
	return nil
}

// Estimate acquires the model and runs it on r. Failures are reported as
// estimation errors; the returned grid always matches r's dimensions.
func (h *Handle) Estimate(ctx context.Context, r *imageio.Raster) (*relief.Grid, error) {
	const op = "depth.Estimate"
	if r == nil {
		return nil, relief.InputError(op, "raster is nil")
	}
	src, err := h.Acquire(ctx)
	if err != nil {
		return nil, err
	}
	g, err := src.Estimate(ctx, r)
	if err != nil {
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			return nil, err
		}
		return nil, relief.Wrap(relief.KindEstimation, op, err)
	}
	if g == nil {
		return nil, relief.EstimationError(op, nil, "depth source returned no grid")
	}
	if g.Rows != r.Height() || g.Cols != r.Width() {
		return nil, relief.EstimationError(op, nil, "depth map is %dx%d, image is %dx%d", g.Cols, g.Rows, r.Width(), r.Height())
	}
	if err := g.Validate(); err != nil {
		return nil, relief.EstimationError(op, err, "depth source returned an invalid grid")
	}
	return g, nil
}
