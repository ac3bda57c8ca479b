package trace

import (
	"fmt"
	"io"
	"os"
	"strings"
)

// Tracer receives events. Implementations must be safe for concurrent use.
type Tracer interface {
	Emit(ev *Event)
	Level() Level
	// Close flushes buffered output and releases the sink.
	Close() error
}

// Enabled reports whether t keeps events of scope.
func Enabled(t Tracer, scope Scope) bool {
	return t != nil && t.Level().ShouldEmit(scope)
}

type nopTracer struct{}

func (nopTracer) Emit(*Event)  {}
func (nopTracer) Level() Level { return LevelOff }
func (nopTracer) Close() error { return nil }

// Nop drops everything.
var Nop Tracer = nopTracer{}

// StorageMode selects where events go.
type StorageMode uint8

const (
	ModeStream StorageMode = iota + 1 // written as they happen
	ModeRing                          // last N kept in memory, dumped on Close
)

var modeNames = [...]string{ModeStream: "stream", ModeRing: "ring"}

func (m StorageMode) String() string {
	if int(m) < len(modeNames) && modeNames[m] != "" {
		return modeNames[m]
	}
	return "unknown"
}

// ParseMode accepts stream or ring.
func ParseMode(s string) (StorageMode, error) {
	for i, name := range modeNames {
		if name != "" && strings.EqualFold(s, name) {
			return StorageMode(i), nil
		}
	}
	return 0, fmt.Errorf("invalid trace mode %q (expected stream|ring)", s)
}

// Config describes a tracer built by New.
type Config struct {
	Level      Level
	Mode       StorageMode
	Format     Format    // FormatAuto picks by the OutputPath extension
	Output     io.Writer // takes precedence over OutputPath
	OutputPath string    // "" or "-" means stderr
	RingSize   int       // default 4096
}

// New builds a tracer. LevelOff always yields Nop.
func New(cfg Config) (Tracer, error) {
	if cfg.Level == LevelOff {
		return Nop, nil
	}
	if cfg.RingSize <= 0 {
		cfg.RingSize = defaultRingSize
	}
	format := cfg.Format
	if format == FormatAuto {
		format = formatForPath(cfg.OutputPath)
	}
	w, err := openOutput(cfg)
	if err != nil {
		return nil, err
	}

	switch cfg.Mode {
	case ModeStream:
		return NewStreamTracer(w, cfg.Level, format), nil
	case ModeRing:
		ring := NewRingTracer(cfg.RingSize, cfg.Level)
		ring.dumpTo(w, format)
		return ring, nil
	}
	return nil, fmt.Errorf("unknown trace mode %v", cfg.Mode)
}

func openOutput(cfg Config) (io.Writer, error) {
	if cfg.Output != nil {
		return cfg.Output, nil
	}
	if cfg.OutputPath == "" || cfg.OutputPath == "-" {
		return unclosable{os.Stderr}, nil
	}
	f, err := os.Create(cfg.OutputPath)
	if err != nil {
		return nil, fmt.Errorf("open trace output: %w", err)
	}
	return f, nil
}

// unclosable hides the Close method of stderr.
type unclosable struct{ io.Writer }
