package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"net/http"
	"text/tabwriter"
	"time"

	"github.com/banshee-data/relief/internal/config"
	"github.com/banshee-data/relief/internal/db"
	"github.com/banshee-data/relief/internal/monitoring"
)

func printHistoryUsage(w io.Writer) {
	fmt.Fprint(w, `Usage: relief history <command> [options]

Commands:
  list       List recent runs (--limit N, --json)
  show <id>  Show one run as JSON
  serve      Serve the SQL admin UI (--listen addr)
  migrate    Apply (up), roll back (down) or report (status) schema migrations

Common Flags:
  --db <path>  History database (default: history.path from runtime config)
`)
}

func runHistory(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	if len(args) == 0 {
		printHistoryUsage(stderr)
		return exitError
	}
	action := args[0]
	if action == "help" || action == "-h" || action == "--help" {
		printHistoryUsage(stdout)
		return exitOK
	}

	fs := flag.NewFlagSet("history "+action, flag.ContinueOnError)
	fs.SetOutput(stderr)
	dbPath := fs.String("db", "", "History database path")
	runtimeDir := fs.String("runtime-dir", ".", "Directory searched for "+config.RuntimeConfigName)
	limit := fs.Int("limit", 20, "Maximum runs to list (0 for all)")
	asJSON := fs.Bool("json", false, "Print runs as JSON")
	listen := fs.String("listen", "localhost:8090", "Listen address for serve")
	positional, err := parseInterleaved(fs, args[1:])
	if errors.Is(err, flag.ErrHelp) {
		return exitOK
	}
	if err != nil {
		return exitError
	}

	err = func() error {
		rt, err := config.LoadRuntime(*runtimeDir)
		if err != nil {
			return err
		}
		level, err := monitoring.ParseLevel(rt.LogLevel)
		if err != nil {
			return err
		}
		if _, err := monitoring.Setup(stderr, level, rt.LogFormat); err != nil {
			return err
		}
		path := firstNonEmpty(*dbPath, rt.History.Path)
		if path == "" {
			return errors.New("no history database: pass --db or set history.path")
		}

		if action == "migrate" {
			return historyMigrate(path, positional, stdout)
		}
		store, err := db.NewDB(path)
		if err != nil {
			return fmt.Errorf("failed to open history database: %w", err)
		}
		defer store.Close()

		switch action {
		case "list":
			return historyList(store, *limit, *asJSON, stdout)
		case "show":
			if len(positional) != 1 {
				return errors.New("usage: relief history show <run-id>")
			}
			run, err := store.GetRun(positional[0])
			if err != nil {
				return err
			}
			return writeJSON(stdout, run)
		case "serve":
			return historyServe(ctx, store, *listen, stdout)
		default:
			printHistoryUsage(stderr)
			return fmt.Errorf("unknown history command: %s", action)
		}
	}()
	if err != nil {
		code := exitCode(ctx, err)
		if code != exitInterrupted {
			fmt.Fprintf(stderr, "Error: %v\n", err)
		}
		return code
	}
	return exitOK
}

func historyList(store *db.DB, limit int, asJSON bool, w io.Writer) error {
	runs, err := store.ListRuns(limit)
	if err != nil {
		return err
	}
	if asJSON {
		if runs == nil {
			runs = []db.Run{}
		}
		return writeJSON(w, runs)
	}
	if len(runs) == 0 {
		fmt.Fprintln(w, "No runs recorded.")
		return nil
	}
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "RUN ID\tSTARTED\tSTATUS\tGRID\tFACES\tDURATION\tINPUT")
	for _, r := range runs {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%dx%d\t%d\t%s\t%s\n",
			r.ID, r.StartedAt.Local().Format(time.DateTime), r.Status,
			r.Cols, r.Rows, r.Faces, r.Duration.Round(time.Millisecond), r.Input)
	}
	return tw.Flush()
}

func historyMigrate(path string, args []string, w io.Writer) error {
	store, err := db.OpenDB(path)
	if err != nil {
		return err
	}
	defer store.Close()

	action := "status"
	if len(args) > 0 {
		action = args[0]
	}
	switch action {
	case "up":
		if err := store.MigrateUp(); err != nil {
			return err
		}
	case "down":
		if err := store.MigrateDown(); err != nil {
			return err
		}
	case "status":
	default:
		return fmt.Errorf("unknown migrate action: %s", action)
	}

	current, dirty, err := store.MigrateVersion()
	if err != nil {
		return err
	}
	latest, err := db.LatestMigrationVersion()
	if err != nil {
		return err
	}
	fmt.Fprintf(w, "Current version: %d (latest %d, dirty: %v)\n", current, latest, dirty)
	return nil
}

func historyServe(ctx context.Context, store *db.DB, addr string, w io.Writer) error {
	mux := http.NewServeMux()
	if err := store.AttachAdminRoutes(mux); err != nil {
		return err
	}
	server := &http.Server{Addr: addr, Handler: mux, ReadHeaderTimeout: 10 * time.Second}

	errCh := make(chan error, 1)
	go func() {
		fmt.Fprintf(w, "Serving history admin on http://%s/debug/\n", addr)
		errCh <- server.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("failed to shut down server: %w", err)
		}
		return nil
	}
}

func writeJSON(w io.Writer, v interface{}) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
