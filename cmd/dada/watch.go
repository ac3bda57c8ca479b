package main

import (
	"context"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"

	"dada/internal/config"
	"dada/internal/driver"
	"dada/internal/source"
	"dada/internal/trace"
)

const watchDebounce = 100 * time.Millisecond

func newWatchCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "watch [paths...]",
		Short: "Recheck sources whenever they change",
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 0 {
				args = []string{"."}
			}
			w := &watcher{
				cfg:    a.cfg,
				db:     driver.New(trace.FromContext(cmd.Context())),
				out:    cmd.OutOrStdout(),
				errOut: cmd.ErrOrStderr(),
			}
			return w.run(cmd.Context(), args)
		},
	}
}

type watcher struct {
	cfg    *config.Config
	db     *driver.DB
	out    io.Writer
	errOut io.Writer
}

func (w *watcher) run(ctx context.Context, roots []string) error {
	var files []string
	for _, root := range roots {
		found, err := driver.Discover(ctx, root, driver.DiscoverOptions{Include: w.cfg.Include, Exclude: w.cfg.Exclude})
		if err != nil {
			return err
		}
		files = append(files, found...)
	}
	_, failed := driver.LoadFiles(w.db, files)
	for _, lerr := range failed {
		fmt.Fprintln(w.errOut, lerr)
	}
	if err := w.recheck(ctx); err != nil {
		return err
	}

	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create watcher: %w", err)
	}
	defer func() { _ = fw.Close() }()
	for _, root := range roots {
		if err := watchDir(fw, root); err != nil {
			return fmt.Errorf("failed to watch %s: %w", root, err)
		}
	}
	fmt.Fprintln(w.errOut, "watching for changes, press Ctrl+C to stop")

	changed := make(map[string]struct{})
	var debounce <-chan time.Time
	for {
		select {
		case <-ctx.Done():
			return nil
		case ev, ok := <-fw.Events:
			if !ok {
				return nil
			}
			if ev.Op.Has(fsnotify.Create) {
				if info, err := os.Stat(ev.Name); err == nil && info.IsDir() {
					_ = watchDir(fw, ev.Name)
					continue
				}
			}
			if !strings.HasSuffix(ev.Name, driver.SourceExt) {
				continue
			}
			changed[ev.Name] = struct{}{}
			debounce = time.After(watchDebounce)
		case err, ok := <-fw.Errors:
			if !ok {
				return nil
			}
			fmt.Fprintf(w.errOut, "watcher error: %v\n", err)
		case <-debounce:
			debounce = nil
			w.reload(changed)
			clear(changed)
			if err := w.recheck(ctx); err != nil {
				return err
			}
		}
	}
}

// reload pushes new texts into the database; a vanished file becomes empty.
func (w *watcher) reload(changed map[string]struct{}) {
	for path := range changed {
		f, err := source.Load(path)
		if err != nil {
			w.db.UpdateFile(filepath.ToSlash(filepath.Clean(path)), "")
			continue
		}
		w.db.UpdateFile(f.Path, string(f.Content))
	}
}

func (w *watcher) recheck(ctx context.Context) error {
	before := w.db.Query().Executions()
	results, err := driver.CheckAll(ctx, w.db, w.db.Files(), driver.CheckOptions{Jobs: w.cfg.Jobs})
	if err != nil {
		return err
	}
	all := gather(results)
	if err := renderDiagnostics(w.out, all, w.db, w.cfg); err != nil {
		return err
	}
	fmt.Fprintf(w.errOut, "revision %d: %d files, %d query bodies executed\n",
		w.db.Revision(), len(results), w.db.Query().Executions()-before)
	return nil
}

// watchDir recursively adds a directory to the watcher.
func watchDir(fw *fsnotify.Watcher, root string) error {
	info, err := os.Stat(root)
	if err != nil {
		return err
	}
	if !info.IsDir() {
		return fw.Add(filepath.Dir(root))
	}
	return filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() {
			return nil
		}
		if path != root && strings.HasPrefix(d.Name(), ".") {
			return filepath.SkipDir
		}
		return fw.Add(path)
	})
}
