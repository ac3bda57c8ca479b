// Package validate runs the checks that need a whole parsed file but no types:
// name clashes between items, parameters and generic parameters, and
// identifiers that are not in Unicode NFC.
package validate

import (
	"fmt"

	"golang.org/x/text/unicode/norm"

	"dada/internal/ast"
	"dada/internal/diag"
	"dada/internal/source"
)

// Options configure a validation pass over a file.
type Options struct {
	File     string
	Words    *source.Interner
	Reporter diag.Reporter
}

// Result is the item index of a file: the first definition of every name.
type Result struct {
	Names  []string
	ByName map[string]ast.ItemID
}

// Lookup finds the first item declared with name.
func (r Result) Lookup(name string) (ast.ItemID, bool) {
	id, ok := r.ByName[name]
	return id, ok
}

// Check validates a parsed file and reports through opts.Reporter.
func Check(file *ast.File, opts Options) Result {
	res := Result{ByName: make(map[string]ast.ItemID)}
	if file == nil {
		return res
	}
	v := validator{
		file:   file,
		opts:   opts,
		result: &res,
	}
	v.run()
	return res
}

type validator struct {
	file   *ast.File
	opts   Options
	result *Result
}

// firstSeen remembers where each name of one scope was declared.
type firstSeen map[source.Word]source.Span

func (v *validator) run() {
	items := make(firstSeen, len(v.file.Items))
	for _, id := range v.file.Items {
		name, nameSpan := v.file.Nodes.Name(id)
		v.checkIdent(name, nameSpan)
		if first, dup := items[name]; dup {
			v.duplicate(diag.SemaDuplicateItem, name, nameSpan, first)
		} else {
			items[name] = nameSpan
			text := v.word(name)
			v.result.Names = append(v.result.Names, text)
			v.result.ByName[text] = id
		}

		generics, params := v.file.Nodes.Signature(id)
		v.checkGenerics(generics)
		v.checkParams(params)
		if fn, ok := v.file.Nodes.Function(id); ok && fn.ReturnTy.IsValid() {
			v.checkTy(fn.ReturnTy)
		}
	}
}

func (v *validator) checkGenerics(generics []ast.GenericID) {
	seen := make(firstSeen, len(generics))
	for _, id := range generics {
		g := v.file.Nodes.Generic(id)
		v.checkIdent(g.Name, g.NameSpan)
		if first, dup := seen[g.Name]; dup {
			v.duplicate(diag.SemaDuplicateGeneric, g.Name, g.NameSpan, first)
			continue
		}
		seen[g.Name] = g.NameSpan
	}
}

func (v *validator) checkParams(params []ast.ParamID) {
	seen := make(firstSeen, len(params))
	for _, id := range params {
		p := v.file.Nodes.Param(id)
		v.checkIdent(p.Name, p.NameSpan)
		if p.Ty.IsValid() {
			v.checkTy(p.Ty)
		}
		if first, dup := seen[p.Name]; dup {
			v.duplicate(diag.SemaDuplicateParam, p.Name, p.NameSpan, first)
			continue
		}
		seen[p.Name] = p.NameSpan
	}
}

func (v *validator) checkTy(id ast.TyID) {
	ty := v.file.Nodes.Ty(id)
	v.checkIdent(ty.Name, ty.NameSpan)
	for _, arg := range ty.Args {
		v.checkTy(arg)
	}
}

func (v *validator) duplicate(code diag.Code, name source.Word, at, first source.Span) {
	what := "item"
	switch code {
	case diag.SemaDuplicateParam:
		what = "parameter"
	case diag.SemaDuplicateGeneric:
		what = "generic parameter"
	}
	diag.ReportError(v.opts.Reporter, code, at.InFile(v.opts.File),
		fmt.Sprintf("%s `%s` is defined more than once", what, v.word(name))).
		WithLabel(first.InFile(v.opts.File), "first defined here").
		Emit()
}

// checkIdent warns about identifiers that differ from their NFC form:
// two such spellings look the same but intern to different words.
func (v *validator) checkIdent(name source.Word, at source.Span) {
	text := v.word(name)
	if norm.NFC.IsNormalString(text) {
		return
	}
	diag.ReportWarning(v.opts.Reporter, diag.SemaNonNormalIdent, at.InFile(v.opts.File),
		fmt.Sprintf("identifier `%s` is not in Unicode normal form C (expected `%s`)", text, norm.NFC.String(text))).
		Emit()
}

func (v *validator) word(w source.Word) string {
	return v.opts.Words.MustLookup(w)
}
