package main

import (
	"encoding/json"

	"github.com/spf13/cobra"

	"dada/internal/config"
	"dada/internal/diag"
	"dada/internal/diagfmt"
)

type itemJSON struct {
	Kind  string `json:"kind"`
	Name  string `json:"name"`
	Start uint32 `json:"start_offset"`
	End   uint32 `json:"end_offset"`
}

func newParseCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "parse [flags] file.dada",
		Short: "Parse a Dada source file and print its syntax tree",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			db, name, err := loadOne(cmd, args[0])
			if err != nil {
				return err
			}
			diags, err := db.ParseDiagnostics(name)
			if err != nil {
				return err
			}
			if err := renderDiagnostics(cmd.ErrOrStderr(), diags, db, a.cfg); err != nil {
				return err
			}

			if a.cfg.Format == config.FormatJSON {
				items, err := db.Items(name)
				if err != nil {
					return err
				}
				out := make([]itemJSON, 0, len(items))
				for _, it := range items {
					out = append(out, itemJSON{Kind: it.Kind.String(), Name: it.Name, Start: uint32(it.Span.Start), End: uint32(it.Span.End)})
				}
				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")
				if err := enc.Encode(out); err != nil {
					return err
				}
			} else {
				file, err := db.Parse(name)
				if err != nil {
					return err
				}
				if err := diagfmt.FormatTree(cmd.OutOrStdout(), file, db.Words()); err != nil {
					return err
				}
			}
			if diag.HasErrors(diags) {
				return errHasErrors
			}
			return nil
		},
	}
}
