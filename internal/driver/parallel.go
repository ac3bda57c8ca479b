package driver

import (
	"context"
	"runtime"
	"time"

	"golang.org/x/sync/errgroup"

	"dada/internal/diag"
	"dada/internal/trace"
)

// Status is the state of one file in a batch check.
type Status uint8

const (
	StatusQueued Status = iota
	StatusChecking
	StatusDone
	StatusCached
)

func (s Status) String() string {
	switch s {
	case StatusQueued:
		return "queued"
	case StatusChecking:
		return "checking"
	case StatusDone:
		return "done"
	case StatusCached:
		return "cached"
	default:
		return "?"
	}
}

// Event reports progress of CheckAll. Errors is set with StatusDone and StatusCached.
type Event struct {
	File   string
	Status Status
	Errors int
}

// CheckOptions configure CheckAll.
type CheckOptions struct {
	Mode  Mode
	Jobs  int
	Cache *DiskCache
	// Events, when set, receives progress; CheckAll never closes it.
	Events chan<- Event
}

// FileResult is the outcome for one file.
type FileResult struct {
	Name        string
	Diagnostics []diag.Diagnostic
	Cached      bool
	Elapsed     time.Duration
}

// CheckAll checks files in parallel. Every worker reads through its own
// snapshot; results come back in the order of names.
func CheckAll(ctx context.Context, db *DB, names []string, opts CheckOptions) ([]FileResult, error) {
	for _, name := range names {
		if err := db.known(name); err != nil {
			return nil, err
		}
	}
	jobs := opts.Jobs
	if jobs <= 0 {
		jobs = runtime.GOMAXPROCS(0)
	}

	span := trace.Begin(db.q.Tracer(), trace.ScopeDriver, "check_all", 0)
	defer span.End("")

	emit := func(ev Event) {
		if opts.Events == nil {
			return
		}
		select {
		case opts.Events <- ev:
		case <-ctx.Done():
		}
	}
	for _, name := range names {
		emit(Event{File: name, Status: StatusQueued})
	}

	// Результаты (индексы уникальны для каждой горутины, мьютекс не нужен)
	results := make([]FileResult, len(names))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(max(1, min(jobs, len(names))))

	for i, name := range names {
		g.Go(func() error {
			select {
			case <-gctx.Done():
				return gctx.Err()
			default:
			}
			emit(Event{File: name, Status: StatusChecking})

			view := db.Snapshot()
			defer view.Close()

			res, err := checkOne(view, name, opts)
			if err != nil {
				return err
			}
			results[i] = res

			status := StatusDone
			if res.Cached {
				status = StatusCached
			}
			emit(Event{File: name, Status: status, Errors: countErrors(res.Diagnostics)})
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return results, err
	}
	return results, nil
}

func checkOne(view *View, name string, opts CheckOptions) (FileResult, error) {
	start := time.Now()
	text, err := view.FileSource(name)
	if err != nil {
		return FileResult{}, err
	}

	key := ContentKey(opts.Mode, name, text)
	var payload DiskPayload
	if hit, cacheErr := opts.Cache.Get(key, &payload); cacheErr == nil && hit {
		return FileResult{Name: name, Diagnostics: payload.Diagnostics, Cached: true, Elapsed: time.Since(start)}, nil
	}

	var diags []diag.Diagnostic
	switch opts.Mode {
	case ModeParseOnly:
		diags, err = view.ParseDiagnostics(name)
	default:
		diags, err = view.Diagnostics(name)
	}
	if err != nil {
		return FileResult{}, err
	}

	if opts.Cache != nil {
		payload = DiskPayload{Name: name, Mode: opts.Mode, ContentHash: key, Diagnostics: diags}
		// ошибку записи в кэш не поднимаем
		_ = opts.Cache.Put(key, &payload)
	}
	return FileResult{Name: name, Diagnostics: diags, Elapsed: time.Since(start)}, nil
}

func countErrors(ds []diag.Diagnostic) int {
	n := 0
	for _, d := range ds {
		if d.Severity == diag.SevError {
			n++
		}
	}
	return n
}
