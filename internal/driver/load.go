package driver

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	gitignore "github.com/sabhiram/go-gitignore"

	"dada/internal/source"
)

// SourceExt is the extension of Dada source files.
const SourceExt = ".dada"

// DiscoverOptions filters the files found under a root.
type DiscoverOptions struct {
	// Include globs, matched against the slash path relative to the root.
	// Empty means every *.dada file.
	Include []string
	// Exclude globs, applied after Include.
	Exclude []string
	// NoGitignore disables .gitignore handling.
	NoGitignore bool
}

// Discover returns the sorted list of source files under root. A plain file
// is returned as is.
func Discover(ctx context.Context, root string, opts DiscoverOptions) ([]string, error) {
	info, err := os.Stat(root)
	if err != nil {
		return nil, err
	}
	if !info.IsDir() {
		return []string{root}, nil
	}

	var ignore *gitignore.GitIgnore
	if !opts.NoGitignore {
		gitignorePath := filepath.Join(root, ".gitignore")
		if _, statErr := os.Stat(gitignorePath); statErr == nil {
			ignore, err = gitignore.CompileIgnoreFile(gitignorePath)
			if err != nil {
				return nil, fmt.Errorf("read %s: %w", gitignorePath, err)
			}
		}
	}

	var files []string
	err = filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		rel, err := filepath.Rel(root, path)
		if err != nil {
			return err
		}
		if rel == "." {
			return nil
		}
		rel = filepath.ToSlash(rel)

		if d.IsDir() {
			if strings.HasPrefix(d.Name(), ".") {
				return filepath.SkipDir
			}
			if ignore != nil && ignore.MatchesPath(rel+"/") {
				return filepath.SkipDir
			}
			return nil
		}
		if !strings.HasSuffix(path, SourceExt) {
			return nil
		}
		if ignore != nil && ignore.MatchesPath(rel) {
			return nil
		}
		if !selected(rel, opts) {
			return nil
		}
		files = append(files, path)
		return nil
	})
	if err != nil {
		return nil, err
	}

	// Сортируем для детерминированного порядка
	sort.Strings(files)
	return files, nil
}

func selected(rel string, opts DiscoverOptions) bool {
	if len(opts.Include) > 0 && !matchAny(opts.Include, rel) {
		return false
	}
	return !matchAny(opts.Exclude, rel)
}

// matchAny matches the whole relative path and its base name.
func matchAny(globs []string, rel string) bool {
	base := rel[strings.LastIndex(rel, "/")+1:]
	for _, g := range globs {
		if ok, _ := filepath.Match(g, rel); ok {
			return true
		}
		if ok, _ := filepath.Match(g, base); ok {
			return true
		}
	}
	return false
}

// LoadError is a file that could not be read.
type LoadError struct {
	Path string
	Err  error
}

func (e *LoadError) Error() string {
	return fmt.Sprintf("failed to load %s: %v", e.Path, e.Err)
}

func (e *LoadError) Unwrap() error { return e.Err }

// LoadFiles reads files and puts them into db. Files that fail to load are
// returned separately; the rest are loaded regardless.
func LoadFiles(db *DB, paths []string) ([]source.File, []*LoadError) {
	var (
		loaded []source.File
		failed []*LoadError
	)
	for _, path := range paths {
		f, err := source.Load(path)
		if err != nil {
			failed = append(failed, &LoadError{Path: path, Err: err})
			continue
		}
		db.UpdateFile(f.Path, string(f.Content))
		loaded = append(loaded, f)
	}
	return loaded, failed
}
