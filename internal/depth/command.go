package depth

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"image/color"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/disintegration/imaging"

	"github.com/banshee-data/relief/internal/imageio"
	"github.com/banshee-data/relief/internal/relief"
)

// Placeholders substituted in Command arguments.
const (
	InputPlaceholder  = "{input}"
	OutputPlaceholder = "{output}"
)

// Command runs an external depth model. The raster is written as a PNG to
// {input}; the model must write a grayscale PNG (8 or 16 bit) of the same
// size to {output}, brighter meaning nearer.
type Command struct {
	Path string
	Args []string
}

// ParseCommand splits a command line on whitespace. When neither
// placeholder appears, "{input} {output}" is appended.
func ParseCommand(line string) (*Command, error) {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return nil, relief.ConfigurationError("depth.ParseCommand", "depth command is empty")
	}
	args := fields[1:]
	if !strings.Contains(line, InputPlaceholder) && !strings.Contains(line, OutputPlaceholder) {
		args = append(args, InputPlaceholder, OutputPlaceholder)
	}
	return &Command{Path: fields[0], Args: args}, nil
}

// Estimate runs the command in a temporary directory.
func (c *Command) Estimate(ctx context.Context, r *imageio.Raster) (*relief.Grid, error) {
	const op = "depth.Command"
	dir, err := os.MkdirTemp("", "relief-depth-")
	if err != nil {
		return nil, relief.EstimationError(op, err, "failed to create work directory")
	}
	defer os.RemoveAll(dir)

	in := filepath.Join(dir, "input.png")
	out := filepath.Join(dir, "depth.png")
	if err := imaging.Save(r.Image(), in); err != nil {
		return nil, relief.EstimationError(op, err, "failed to write model input")
	}

	args := make([]string, len(c.Args))
	for i, a := range c.Args {
		a = strings.ReplaceAll(a, InputPlaceholder, in)
		args[i] = strings.ReplaceAll(a, OutputPlaceholder, out)
	}

	diagf("running depth command: %s %s", c.Path, strings.Join(args, " "))
	cmd := exec.CommandContext(ctx, c.Path, args...)
	var stderr bytes.Buffer
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return nil, relief.EstimationError(op, err, "depth command failed: %s", strings.TrimSpace(stderr.String()))
	}

	if _, err := os.Stat(out); err != nil {
		return nil, relief.EstimationError(op, err, "depth command produced no output")
	}
	img, err := imaging.Open(out)
	if err != nil {
		return nil, relief.EstimationError(op, err, "failed to decode depth output")
	}
	return gridFromImage(img), nil
}

// gridFromImage reads img as 16-bit gray scaled to [0, 1].
func gridFromImage(img image.Image) *relief.Grid {
	b := img.Bounds()
	g := relief.NewGrid(b.Dy(), b.Dx())
	for y := 0; y < g.Rows; y++ {
		row := g.Row(y)
		for x := range row {
			v := color.Gray16Model.Convert(img.At(b.Min.X+x, b.Min.Y+y)).(color.Gray16)
			row[x] = float64(v.Y) / 0xffff
		}
	}
	return g
}

func (c *Command) String() string {
	return fmt.Sprintf("%s %s", c.Path, strings.Join(c.Args, " "))
}
