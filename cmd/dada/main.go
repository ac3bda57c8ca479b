package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"dada/internal/config"
	"dada/internal/version"
)

// errHasErrors: диагностики уже напечатаны, остаётся только код выхода.
var errHasErrors = errors.New("errors found")

// app holds what PersistentPreRunE prepares for the subcommands.
type app struct {
	cfg     *config.Config
	timings bool
	trace   traceFlags
	cleanup func()
}

func newRootCmd() (*cobra.Command, *app) {
	a := &app{cleanup: func() {}}
	root := &cobra.Command{
		Use:           "dada",
		Short:         "Dada language front end",
		Long:          `dada checks Dada sources incrementally: lexing, parsing and validation`,
		Version:       version.Version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			ctx, cleanup, err := setupTracing(cmd.Context(), &a.trace, cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			cmd.SetContext(ctx)
			a.cleanup = cleanup

			cfg, err := config.Load(config.LoadOptions{Flags: cmd.Flags()})
			if err != nil {
				return err
			}
			a.cfg = cfg
			return nil
		},
	}

	pf := root.PersistentFlags()
	config.BindFlags(pf)
	pf.BoolVar(&a.timings, "timings", false, "show timing information")
	a.trace.bind(pf)

	root.AddCommand(
		newCheckCmd(a),
		newTokenizeCmd(a),
		newParseCmd(a),
		newWatchCmd(a),
		newReplCmd(a),
		newVersionCmd(a),
	)
	return root, a
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	code := run(ctx, os.Args[1:], os.Stdout, os.Stderr)
	stop()
	os.Exit(code)
}

func run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	root, a := newRootCmd()
	root.SetArgs(args)
	root.SetOut(stdout)
	root.SetErr(stderr)
	err := root.ExecuteContext(ctx)
	a.cleanup()
	switch {
	case err == nil:
		return 0
	case errors.Is(err, errHasErrors):
		return 1
	default:
		fmt.Fprintf(stderr, "error: %v\n", err)
		return 2
	}
}

// isTerminal проверяет, является ли writer терминалом
func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd())) //nolint:gosec // fd fits in int
}
