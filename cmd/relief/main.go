// Command relief converts a photograph into an OpenSCAD relief model.
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog"

	"github.com/banshee-data/relief/internal/depth"
	"github.com/banshee-data/relief/internal/heightfield"
	"github.com/banshee-data/relief/internal/imageio"
	"github.com/banshee-data/relief/internal/mesh"
	"github.com/banshee-data/relief/internal/pipeline"
	"github.com/banshee-data/relief/internal/renderer"
	"github.com/banshee-data/relief/internal/scad"
	"github.com/banshee-data/relief/internal/version"
)

// Exit codes.
const (
	exitOK          = 0
	exitError       = 1
	exitInterrupted = 130
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	code := run(ctx, os.Args[1:], os.Stdout, os.Stderr)
	stop()
	os.Exit(code)
}

// run dispatches to a subcommand and returns the process exit code.
// Arguments that do not start with a known command are treated as
// "convert" arguments.
func run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	if len(args) == 0 {
		printUsage(stderr)
		return exitError
	}
	switch args[0] {
	case "convert":
		return runConvert(ctx, args[1:], stdout, stderr)
	case "history":
		return runHistory(ctx, args[1:], stdout, stderr)
	case "version", "--version", "-version":
		fmt.Fprintln(stdout, version.String())
		return exitOK
	case "help", "-h", "--help":
		printUsage(stdout)
		return exitOK
	default:
		return runConvert(ctx, args, stdout, stderr)
	}
}

func printUsage(w io.Writer) {
	fmt.Fprint(w, `relief - turn a photograph into a 3D-printable relief

Usage:
  relief [convert] <image> [options]
  relief history <list|show|serve|migrate> [options]
  relief version

Commands:
  convert    Convert an image to an OpenSCAD script (default)
  history    Inspect recorded conversion runs
  version    Show version information
  help       Show this help message

Run "relief convert -h" for conversion options.

Examples:
  relief photo.jpg
  relief photo.jpg -o model.scad --stl
  relief photo.jpg --max-height 20 --width 150 --detail 1.5
  relief history serve --db runs.db --listen localhost:8090
`)
}

// exitCode maps a command error to an exit status.
func exitCode(ctx context.Context, err error) int {
	if err == nil {
		return exitOK
	}
	if ctx.Err() != nil || errors.Is(err, context.Canceled) {
		return exitInterrupted
	}
	return exitError
}

// configureLoggers points every library package at l.
func configureLoggers(l zerolog.Logger) {
	imageio.SetLogger(l)
	depth.SetLogger(l)
	heightfield.SetLogger(l)
	mesh.SetLogger(l)
	scad.SetLogger(l)
	renderer.SetLogger(l)
	pipeline.SetLogger(l)
}
