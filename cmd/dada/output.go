package main

import (
	"encoding/json"
	"fmt"
	"io"

	"dada/internal/config"
	"dada/internal/diag"
	"dada/internal/diagfmt"
	"dada/internal/driver"
	"dada/internal/observ"
)

// gather merges per-file results into one list ordered by file and position.
func gather(results []driver.FileResult) []diag.Diagnostic {
	bag := diag.NewBag(0)
	for _, r := range results {
		bag.AddAll(r.Diagnostics)
	}
	bag.Sort()
	bag.Dedup()
	return bag.Items()
}

func pathMode(cfg *config.Config) diagfmt.PathMode {
	// значение уже проверено config.Validate
	mode, _ := diagfmt.ParsePathMode(cfg.PathMode)
	return mode
}

// renderDiagnostics prints diags in the configured format; pretty output ends with a summary.
func renderDiagnostics(w io.Writer, diags []diag.Diagnostic, src diagfmt.Sources, cfg *config.Config) error {
	if cfg.Format == config.FormatJSON {
		return diagfmt.JSON(w, diags, src, diagfmt.JSONOpts{
			IncludePositions: true,
			PathMode:         pathMode(cfg),
			Max:              cfg.MaxDiagnostics,
		})
	}
	if len(diags) == 0 {
		return nil
	}
	opts := diagfmt.PrettyOpts{
		Color:    cfg.UseColor(isTerminal(w)),
		Context:  1,
		PathMode: pathMode(cfg),
		Max:      cfg.MaxDiagnostics,
	}
	if err := diagfmt.Pretty(w, diags, src, opts); err != nil {
		return err
	}
	return diagfmt.Summary(w, diags)
}

func printTimings(w io.Writer, tm *observ.Timer, cfg *config.Config) error {
	if cfg.Format == config.FormatJSON {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(tm.Report())
	}
	_, err := fmt.Fprint(w, tm.Summary())
	return err
}
