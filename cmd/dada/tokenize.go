package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"dada/internal/config"
	"dada/internal/diagfmt"
	"dada/internal/driver"
	"dada/internal/trace"
)

// loadOne reads a single file into a fresh database.
func loadOne(cmd *cobra.Command, path string) (*driver.DB, string, error) {
	db := driver.New(trace.FromContext(cmd.Context()))
	loaded, failed := driver.LoadFiles(db, []string{path})
	if len(failed) > 0 {
		return nil, "", failed[0]
	}
	return db, loaded[0].Path, nil
}

func newTokenizeCmd(a *app) *cobra.Command {
	var whitespace bool
	cmd := &cobra.Command{
		Use:   "tokenize [flags] file.dada",
		Short: "Tokenize a Dada source file",
		Long:  `Tokenize prints the token trees of a file; nested trees are indented`,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			db, name, err := loadOne(cmd, args[0])
			if err != nil {
				return err
			}
			root, err := db.Lex(name)
			if err != nil {
				return err
			}
			text, err := db.FileSource(name)
			if err != nil {
				return err
			}
			switch a.cfg.Format {
			case config.FormatJSON:
				return diagfmt.FormatTokensJSON(cmd.OutOrStdout(), root, db.Words(), text, whitespace)
			case config.FormatPretty:
				return diagfmt.FormatTokensPretty(cmd.OutOrStdout(), root, db.Words(), text, whitespace)
			default:
				return fmt.Errorf("unknown format: %s", a.cfg.Format)
			}
		},
	}
	cmd.Flags().BoolVar(&whitespace, "whitespace", false, "include whitespace tokens")
	return cmd
}
