package main

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/spf13/pflag"

	"dada/internal/trace"
)

type traceFlags struct {
	output    string
	level     string
	format    string
	mode      string
	ringSize  int
	heartbeat time.Duration
}

func (f *traceFlags) bind(fs *pflag.FlagSet) {
	fs.StringVar(&f.output, "trace", "", "write trace events to file (- for stderr)")
	fs.StringVar(&f.level, "trace-level", "off", "trace level (off|error|phase|detail|debug)")
	fs.StringVar(&f.format, "trace-format", "auto", "trace format (auto|text|ndjson|chrome)")
	fs.StringVar(&f.mode, "trace-mode", "stream", "trace storage (stream|ring)")
	fs.IntVar(&f.ringSize, "trace-ring-size", 4096, "events kept in ring mode")
	fs.DurationVar(&f.heartbeat, "trace-heartbeat", 0, "emit heartbeat events at this interval")
}

// setupTracing builds the tracer described by the flags and attaches it to ctx.
// The returned cleanup stops the heartbeat and closes the tracer.
func setupTracing(ctx context.Context, f *traceFlags, errOut io.Writer) (context.Context, func(), error) {
	level, err := trace.ParseLevel(f.level)
	if err != nil {
		return ctx, nil, err
	}
	if level == trace.LevelOff && f.output == "" {
		return trace.WithTracer(ctx, trace.Nop), func() {}, nil
	}
	if level == trace.LevelOff {
		// --trace без уровня означает фазы
		level = trace.LevelPhase
	}
	mode, err := trace.ParseMode(f.mode)
	if err != nil {
		return ctx, nil, err
	}
	format, err := trace.ParseFormat(f.format)
	if err != nil {
		return ctx, nil, err
	}

	tracer, err := trace.New(trace.Config{
		Level:      level,
		Mode:       mode,
		Format:     format,
		OutputPath: f.output,
		RingSize:   f.ringSize,
	})
	if err != nil {
		return ctx, nil, err
	}

	stopHeartbeat := trace.StartHeartbeat(ctx, tracer, f.heartbeat)
	cleanup := func() {
		stopHeartbeat()
		if err := tracer.Close(); err != nil {
			fmt.Fprintf(errOut, "trace: %v\n", err)
		}
	}
	return trace.WithTracer(ctx, tracer), cleanup, nil
}
