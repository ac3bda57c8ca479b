package diagfmt

import (
	"fmt"

	"dada/internal/source"
)

// PathMode specifies how file paths are displayed.
type PathMode uint8

const (
	// PathModeAuto chooses relative or absolute path automatically.
	PathModeAuto PathMode = iota
	// PathModeAbsolute always uses absolute paths.
	PathModeAbsolute
	PathModeRelative
	PathModeBasename
	// PathModeAsIs prints the name the file was registered under.
	PathModeAsIs
)

func (m PathMode) String() string {
	switch m {
	case PathModeAuto:
		return "auto"
	case PathModeAbsolute:
		return "absolute"
	case PathModeRelative:
		return "relative"
	case PathModeBasename:
		return "basename"
	default:
		return "as-is"
	}
}

// ParsePathMode is the inverse of PathMode.String.
func ParsePathMode(s string) (PathMode, error) {
	switch s {
	case "auto", "":
		return PathModeAuto, nil
	case "absolute":
		return PathModeAbsolute, nil
	case "relative":
		return PathModeRelative, nil
	case "basename":
		return PathModeBasename, nil
	case "as-is":
		return PathModeAsIs, nil
	}
	return PathModeAuto, fmt.Errorf("unknown path mode %q", s)
}

// PrettyOpts configures pretty-printing of diagnostics.
type PrettyOpts struct {
	Color    bool
	Context  int // строк контекста перед строкой диагностики; <0: без фрагмента
	PathMode PathMode
	BaseDir  string
	Max      int // 0: без ограничения
}

// JSONOpts configures JSON output of diagnostics.
type JSONOpts struct {
	IncludePositions bool // добавить line/col
	PathMode         PathMode
	BaseDir          string
	Max              int // обрезка вывода
}

// Sources gives the renderers access to file text. *driver.View implements it.
type Sources interface {
	FileSource(name string) (string, error)
}

// MapSources is an in-memory Sources, keyed by file name.
type MapSources map[string]string

func (m MapSources) FileSource(name string) (string, error) {
	text, ok := m[name]
	if !ok {
		return "", fmt.Errorf("no source for %s", name)
	}
	return text, nil
}

// fileCache resolves line/column once per file.
type fileCache struct {
	src   Sources
	files map[string]*cachedFile
}

type cachedFile struct {
	text  string
	lines source.LineIndex
	err   error
}

func newFileCache(src Sources) *fileCache {
	return &fileCache{src: src, files: make(map[string]*cachedFile)}
}

func (c *fileCache) get(name string) *cachedFile {
	if f, ok := c.files[name]; ok {
		return f
	}
	f := &cachedFile{}
	if c.src == nil {
		f.err = fmt.Errorf("no sources")
	} else if f.text, f.err = c.src.FileSource(name); f.err == nil {
		f.lines = source.NewLineIndex(f.text)
	}
	c.files[name] = f
	return f
}

func displayPath(name string, mode PathMode, baseDir string) string {
	if mode == PathModeAsIs {
		return name
	}
	return source.DisplayPath(name, mode.String(), baseDir)
}
