package main

import (
	"context"
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"dada/internal/diag"
	"dada/internal/driver"
	"dada/internal/observ"
	"dada/internal/trace"
	"dada/internal/ui"
)

func newCheckCmd(a *app) *cobra.Command {
	var (
		progress  bool
		parseOnly bool
	)
	cmd := &cobra.Command{
		Use:   "check [paths...]",
		Short: "Check Dada sources and report diagnostics",
		Long:  `check lexes, parses and validates every .dada file under the given paths (default: .)`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 0 {
				args = []string{"."}
			}
			mode := driver.ModeFull
			if parseOnly {
				mode = driver.ModeParseOnly
			}
			return runCheck(cmd, a, args, mode, progress)
		},
	}
	cmd.Flags().BoolVar(&progress, "progress", false, "show a progress view when stdout is a terminal")
	cmd.Flags().BoolVar(&parseOnly, "parse-only", false, "stop after parsing, skip validation")
	return cmd
}

func runCheck(cmd *cobra.Command, a *app, paths []string, mode driver.Mode, progress bool) error {
	ctx := cmd.Context()
	cfg := a.cfg
	out, errOut := cmd.OutOrStdout(), cmd.ErrOrStderr()
	tm := observ.NewTimer()
	db := driver.New(trace.FromContext(ctx))

	var files []string
	err := db.Phase(tm, "discover", func() (string, error) {
		for _, p := range paths {
			found, err := driver.Discover(ctx, p, driver.DiscoverOptions{Include: cfg.Include, Exclude: cfg.Exclude})
			if err != nil {
				return "", err
			}
			files = append(files, found...)
		}
		return fmt.Sprintf("%d files", len(files)), nil
	})
	if err != nil {
		return err
	}

	var names []string
	loadFailed := false
	_ = db.Phase(tm, "load", func() (string, error) {
		loaded, failed := driver.LoadFiles(db, files)
		for _, f := range loaded {
			names = append(names, f.Path)
		}
		for _, lerr := range failed {
			fmt.Fprintf(errOut, "%s: %s\n", diag.IOLoadFileError.ID(), lerr)
		}
		loadFailed = len(failed) > 0
		return fmt.Sprintf("%d loaded, %d failed", len(loaded), len(failed)), nil
	})

	opts := driver.CheckOptions{Mode: mode, Jobs: cfg.Jobs}
	if cfg.Cache {
		cache, err := driver.OpenDiskCache("dada", cfg.CacheDir)
		if err != nil {
			return err
		}
		opts.Cache = cache
	}

	var results []driver.FileResult
	err = db.Phase(tm, "check", func() (string, error) {
		var err error
		if progress && isTerminal(out) {
			results, err = checkWithUI(ctx, db, names, opts)
		} else {
			results, err = driver.CheckAll(ctx, db, names, opts)
		}
		cached := 0
		for _, r := range results {
			if r.Cached {
				cached++
			}
		}
		return fmt.Sprintf("%d files, %d cached", len(results), cached), err
	})
	if err != nil {
		return err
	}

	all := gather(results)
	err = db.Phase(tm, "render", func() (string, error) {
		return fmt.Sprintf("%d diagnostics", len(all)), renderDiagnostics(out, all, db, cfg)
	})
	if err != nil {
		return err
	}

	if a.timings {
		if err := printTimings(errOut, tm, cfg); err != nil {
			return err
		}
	}
	if diag.HasErrors(all) || loadFailed {
		return errHasErrors
	}
	return nil
}

type checkOutcome struct {
	results []driver.FileResult
	err     error
}

// checkWithUI runs CheckAll while a Bubble Tea view follows its events.
func checkWithUI(ctx context.Context, db *driver.DB, names []string, opts driver.CheckOptions) ([]driver.FileResult, error) {
	events := make(chan driver.Event, 256)
	outcomeCh := make(chan checkOutcome, 1)

	go func() {
		opts.Events = events
		res, err := driver.CheckAll(ctx, db, names, opts)
		outcomeCh <- checkOutcome{results: res, err: err}
		close(events)
	}()

	model := ui.NewProgressModel("checking", names, events)
	program := tea.NewProgram(model, tea.WithOutput(os.Stdout), tea.WithContext(ctx))
	_, uiErr := program.Run()
	// вид мог закрыться раньше: дочитываем события, чтобы CheckAll не встал
	go func() {
		for range events {
		}
	}()
	outcome := <-outcomeCh
	if uiErr != nil {
		return outcome.results, uiErr
	}
	return outcome.results, outcome.err
}
