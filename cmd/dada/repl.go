package main

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/chzyer/readline"
	"github.com/spf13/cobra"

	"dada/internal/config"
	"dada/internal/diag"
	"dada/internal/diagfmt"
	"dada/internal/driver"
	"dada/internal/lexer"
	"dada/internal/source"
	"dada/internal/trace"
)

// replFile is the virtual file that accumulates accepted input.
const replFile = "<repl-input>"

const (
	replPrompt         = "dada> "
	replContinuePrompt = "... "
)

// replAction says what the loop should do after one line.
type replAction uint8

const (
	replSkip     replAction = iota // пустая строка
	replContinue                   // открытое дерево, нужна ещё строка
	replChecked                    // ввод проверен, Diagnostics заполнены
	replReset
	replDropped // :skip выбросил недописанный ввод
	replExit
	replUnknown
)

type replResult struct {
	Action      replAction
	Diagnostics []diag.Diagnostic
	// Text is the checked file text, for rendering Diagnostics.
	Text string
}

// replSession keeps the items accepted so far and any pending continuation lines.
type replSession struct {
	db       *driver.DB
	accepted string
	pending  []string
}

func newReplSession(db *driver.DB) *replSession {
	db.UpdateFile(replFile, "")
	return &replSession{db: db}
}

func (s *replSession) prompt() string {
	if len(s.pending) > 0 {
		return replContinuePrompt
	}
	return replPrompt
}

// Handle classifies one input line and, when the input is complete, checks it.
func (s *replSession) Handle(line string) replResult {
	trimmed := strings.TrimSpace(line)
	if strings.HasPrefix(trimmed, ":") {
		switch trimmed {
		case ":exit", ":quit":
			return replResult{Action: replExit}
		case ":reset":
			s.accepted, s.pending = "", nil
			s.db.UpdateFile(replFile, "")
			return replResult{Action: replReset}
		case ":skip":
			s.pending = nil
			return replResult{Action: replDropped}
		default:
			return replResult{Action: replUnknown}
		}
	}
	if trimmed == "" && len(s.pending) == 0 {
		return replResult{Action: replSkip}
	}

	s.pending = append(s.pending, line)
	input := strings.Join(s.pending, "\n") + "\n"
	if lexer.Lex(source.NewInterner(), input).HasOpenTree() {
		return replResult{Action: replContinue}
	}
	s.pending = nil

	text := s.accepted + input
	s.db.UpdateFile(replFile, text)
	diags, err := s.db.Diagnostics(replFile)
	if err != nil {
		// replFile добавлен в newReplSession
		panic(err)
	}
	if diag.HasErrors(diags) {
		// ошибочный ввод не сохраняем
		s.db.UpdateFile(replFile, s.accepted)
	} else {
		s.accepted = text
	}
	return replResult{Action: replChecked, Diagnostics: diags, Text: text}
}

func newReplCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "repl",
		Short: "Interactively check Dada items",
		Long:  `repl reads items line by line, asks for more input while a delimiter is open, and checks each complete input. Commands: :exit, :reset, :skip`,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			rl, err := readline.NewEx(&readline.Config{
				Prompt:          replPrompt,
				InterruptPrompt: "^C",
				EOFPrompt:       ":exit",
				Stdout:          cmd.OutOrStdout(),
				Stderr:          cmd.ErrOrStderr(),
			})
			if err != nil {
				return fmt.Errorf("failed to initialize REPL: %w", err)
			}
			defer func() { _ = rl.Close() }()

			s := newReplSession(driver.New(trace.FromContext(cmd.Context())))
			return replLoop(rl, s, cmd.OutOrStdout(), a.cfg)
		},
	}
}

// lineReader is the part of *readline.Instance the loop uses.
type lineReader interface {
	Readline() (string, error)
	SetPrompt(p string)
}

func replLoop(rl lineReader, s *replSession, out io.Writer, cfg *config.Config) error {
	for {
		rl.SetPrompt(s.prompt())
		line, err := rl.Readline()
		if errors.Is(err, readline.ErrInterrupt) {
			s.pending = nil
			continue
		}
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return err
		}

		res := s.Handle(line)
		switch res.Action {
		case replExit:
			return nil
		case replReset:
			fmt.Fprintln(out, "reset")
		case replDropped:
			fmt.Fprintln(out, "input dropped")
		case replUnknown:
			fmt.Fprintln(out, "unknown command (try :exit, :reset, :skip)")
		case replChecked:
			if len(res.Diagnostics) == 0 {
				fmt.Fprintln(out, "ok")
				continue
			}
			src := diagfmt.MapSources{replFile: res.Text}
			if err := renderDiagnostics(out, res.Diagnostics, src, cfg); err != nil {
				return err
			}
		}
	}
}
