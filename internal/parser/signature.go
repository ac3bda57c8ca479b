package parser

import (
	"fmt"

	"dada/internal/ast"
	"dada/internal/diag"
	"dada/internal/source"
)

// parseGenericParameters parses an optional `[...]` list.
func (p *Parser) parseGenericParameters() ([]ast.GenericID, bool) {
	tree, _, ok := p.delimited('[')
	if !ok {
		return nil, false
	}
	return p.sub(tree).parseOnlyGenericParameters(), true
}

func (p *Parser) parseOnlyGenericParameters() []ast.GenericID {
	params := parseList(p, (*Parser).parseGenericParameter)
	p.emitErrorIfMoreTokens("extra tokens after generic parameters")
	return params
}

func (p *Parser) parseGenericParameter() (ast.GenericID, bool) {
	if name, nameSpan, ok := p.parseName(); ok {
		return p.sh.nodes.NewGeneric(ast.GenericParameter{
			Kind:     ast.GenericType,
			Name:     name,
			NameSpan: nameSpan,
			Span:     nameSpan,
		}), true
	}
	perm, permSpan, ok := p.parsePerm()
	if !ok {
		return ast.NoGenericID, false
	}
	name, nameSpan, ok := p.expectName(diag.SynExpectGenericName, "expected name after permission")
	if !ok {
		return ast.NoGenericID, false
	}
	return p.sh.nodes.NewGeneric(ast.GenericParameter{
		Kind:     ast.GenericPermission,
		Perm:     perm,
		PermSpan: permSpan,
		Name:     name,
		NameSpan: nameSpan,
		Span:     permSpan.Cover(nameSpan),
	}), true
}

// parseParameterList parses a `(...)` list; absent when there is no `(`.
func (p *Parser) parseParameterList() ([]ast.ParamID, source.Span, bool) {
	tree, span, ok := p.delimited('(')
	if !ok {
		return nil, source.Span{}, false
	}
	return p.sub(tree).parseOnlyParameters(), span, true
}

func (p *Parser) parseOnlyParameters() []ast.ParamID {
	params := parseList(p, (*Parser).parseParameter)
	p.emitErrorIfMoreTokens("extra tokens after parameters")
	return params
}

func (p *Parser) parseParameter() (ast.ParamID, bool) {
	atomicSpan, atomic := p.eatKeyword("atomic")

	// без имени параметра нет; если был atomic, это ошибка, иначе просто конец списка
	name, nameSpan, ok := p.parseName()
	if !ok {
		if atomic {
			p.errorAtCurrentToken(diag.SynExpectParamName, "expected parameter name after `atomic`").
				WithLabel(p.fileSpan(atomicSpan), "`atomic` specified here").
				Emit()
		}
		return ast.NoParamID, false
	}

	ty, _ := p.parseColonTy()

	// спан = объединение присутствующих частей: `x:` без типа не включает `:`
	span := nameSpan
	if atomic {
		span = atomicSpan.Cover(span)
	}
	if ty.IsValid() {
		span = span.Cover(p.sh.nodes.Ty(ty).Span)
	}
	return p.sh.nodes.NewParam(ast.Param{
		Atomic:     atomic,
		AtomicSpan: atomicSpan,
		Name:       name,
		NameSpan:   nameSpan,
		Ty:         ty,
		Span:       span,
	}), true
}

// parseColonTy parses an optional `: ty`.
func (p *Parser) parseColonTy() (ast.TyID, bool) {
	if _, ok := p.eatOp(':'); !ok {
		return ast.NoTyID, false
	}
	ty, ok := p.parseTy()
	return orReportError(p, ty, ok, diag.SynExpectType, "expected type after `:`")
}

func (p *Parser) parsePerm() (ast.Perm, source.Span, bool) {
	tok, ok := p.peek()
	if !ok {
		return ast.PermNone, source.Span{}, false
	}
	w, isWord := tok.Alphabetic()
	if !isWord {
		return ast.PermNone, source.Span{}, false
	}
	perm, ok := ast.PermFromString(p.word(w))
	if !ok {
		return ast.PermNone, source.Span{}, false
	}
	return perm, p.bump(), true
}

// parseTy parses `perm? name [args]?`.
func (p *Parser) parseTy() (ast.TyID, bool) {
	perm, permSpan, hasPerm := p.parsePerm()
	name, nameSpan, ok := p.parseName()
	if !ok {
		if hasPerm {
			p.errorAtCurrentToken(diag.SynExpectType, fmt.Sprintf("expected type after `%s`", perm)).
				WithLabel(p.fileSpan(permSpan), "permission specified here").
				Emit()
		}
		return ast.NoTyID, false
	}

	ty := ast.Ty{
		Perm:     perm,
		PermSpan: permSpan,
		Name:     name,
		NameSpan: nameSpan,
	}
	ty.Span = nameSpan
	if hasPerm {
		ty.Span = permSpan.Cover(nameSpan)
	}
	if tree, argsSpan, ok := p.delimited('['); ok {
		sub := p.sub(tree)
		ty.Args = parseList(sub, (*Parser).parseTy)
		sub.emitErrorIfMoreTokens("extra tokens after type arguments")
		// скобки аргументов входят в спан типа
		ty.Span = ty.Span.Cover(argsSpan)
	}
	return p.sh.nodes.NewTy(ty), true
}
