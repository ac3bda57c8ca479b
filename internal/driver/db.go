package driver

import (
	"errors"
	"fmt"
	"slices"
	"sync"

	"dada/internal/ast"
	"dada/internal/check"
	"dada/internal/diag"
	"dada/internal/lexer"
	"dada/internal/manifest"
	"dada/internal/parser"
	"dada/internal/query"
	"dada/internal/source"
	"dada/internal/token"
	"dada/internal/trace"
)

// ErrUnknownFile is returned for a filename that was never given to UpdateFile.
var ErrUnknownFile = errors.New("unknown file")

// fileSet: известные имена файлов в порядке первого добавления.
type fileSet struct {
	mu    sync.RWMutex
	names []string
	index map[string]struct{}
}

func newFileSet() *fileSet {
	return &fileSet{index: make(map[string]struct{})}
}

func (s *fileSet) add(name string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.index[name]; ok {
		return
	}
	s.index[name] = struct{}{}
	s.names = append(s.names, name)
}

func (s *fileSet) has(name string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.index[name]
	return ok
}

func (s *fileSet) list() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return slices.Clone(s.names)
}

func (s *fileSet) clone() *fileSet {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := &fileSet{names: slices.Clone(s.names), index: make(map[string]struct{}, len(s.index))}
	for name := range s.index {
		out.index[name] = struct{}{}
	}
	return out
}

// View is the read API of the front end over one reader: either the live
// database or a snapshot of it.
type View struct {
	r     query.Reader
	files *fileSet
	snap  *query.Snapshot
}

// DB is the writer: it owns the query database and the set of known files.
// Reads through DB see the latest revision; use Snapshot for parallel reads.
type DB struct {
	View
	q *query.Database
}

// New creates an empty database.
func New(tracer trace.Tracer) *DB {
	q := query.New(query.WithTracer(tracer))
	return &DB{
		View: View{r: q, files: newFileSet()},
		q:    q,
	}
}

// Query exposes the underlying database for tooling and tests.
func (db *DB) Query() *query.Database {
	return db.q
}

// UpdateFile sets the text of a file, creating it if needed.
// It waits until every open snapshot has been closed.
func (db *DB) UpdateFile(name, text string) {
	db.files.add(name)
	manifest.SetSourceText(db.q, name, text)
}

// Snapshot returns a read-only view pinned to the current revision.
// The caller must Close it; UpdateFile blocks while it is open.
func (db *DB) Snapshot() *View {
	snap := db.q.Snapshot()
	return &View{r: snap, files: db.files.clone(), snap: snap}
}

// Close releases a snapshot view. It is a no-op for the live view.
func (v *View) Close() {
	if v.snap != nil {
		v.snap.Close()
	}
}

// Revision is the revision the view reads at.
func (v *View) Revision() query.Revision {
	return v.r.Revision()
}

// Words is the interner shared by every file.
func (v *View) Words() *source.Interner {
	return v.r.Interner()
}

// Files lists the known files in the order they were added.
func (v *View) Files() []string {
	return v.files.list()
}

func (v *View) known(name string) error {
	if !v.files.has(name) {
		return fmt.Errorf("%w: %s", ErrUnknownFile, name)
	}
	return nil
}

// FileSource returns the current text of a file.
func (v *View) FileSource(name string) (string, error) {
	if err := v.known(name); err != nil {
		return "", err
	}
	return manifest.SourceText.Get(v.r, name), nil
}

// Lex returns the root token tree of a file.
func (v *View) Lex(name string) (token.Tree, error) {
	if err := v.known(name); err != nil {
		return token.Tree{}, err
	}
	return lexer.File.Get(v.r, name), nil
}

// Parse returns the syntax of a file.
func (v *View) Parse(name string) (*ast.File, error) {
	if err := v.known(name); err != nil {
		return nil, err
	}
	return parser.File.Get(v.r, name), nil
}

// Diagnostics runs the full check of a file.
func (v *View) Diagnostics(name string) ([]diag.Diagnostic, error) {
	if err := v.known(name); err != nil {
		return nil, err
	}
	return check.Diagnostics(v.r, name), nil
}

// ParseDiagnostics runs only lexing and parsing.
func (v *View) ParseDiagnostics(name string) ([]diag.Diagnostic, error) {
	if err := v.known(name); err != nil {
		return nil, err
	}
	return check.ParseDiagnostics(v.r, name), nil
}

// Item is a summary of one top-level declaration.
type Item struct {
	Kind ast.ItemKind
	Name string
	Span source.FileSpan
}

// Items lists the top-level items of a file in source order.
func (v *View) Items(name string) ([]Item, error) {
	file, err := v.Parse(name)
	if err != nil {
		return nil, err
	}
	out := make([]Item, 0, len(file.Items))
	for _, id := range file.Items {
		item := file.Nodes.Item(id)
		w, _ := file.Nodes.Name(id)
		out = append(out, Item{
			Kind: item.Kind,
			Name: v.Words().MustLookup(w),
			Span: item.Span.InFile(name),
		})
	}
	return out, nil
}

// FunctionNamed finds a function by name, using the item index of the full check.
func (v *View) FunctionNamed(name, fn string) (*ast.Function, bool, error) {
	if err := v.known(name); err != nil {
		return nil, false, err
	}
	res := check.File.Get(v.r, name)
	id, ok := res.Index.Lookup(fn)
	if !ok {
		return nil, false, nil
	}
	f, ok := res.File.Nodes.Function(id)
	return f, ok, nil
}

// LineColumn converts an offset into a 1-based line/column.
func (v *View) LineColumn(name string, off source.Offset) (source.LineColumn, error) {
	if err := v.known(name); err != nil {
		return source.LineColumn{}, err
	}
	return manifest.LineColumn(v.r, name, off), nil
}

// LineColumns converts both ends of a span.
func (v *View) LineColumns(sp source.FileSpan) (start, end source.LineColumn, err error) {
	if err = v.known(sp.File); err != nil {
		return start, end, err
	}
	lines := manifest.Lines.Get(v.r, sp.File)
	return lines.Locate(sp.Start), lines.Locate(sp.End), nil
}
