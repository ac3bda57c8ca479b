package testkit

import (
	"fmt"

	"dada/internal/ast"
	"dada/internal/source"
)

// CheckSpanInvariants runs the span invariants on a parsed file:
// 1) file.Span lies within the text
// 2) every item span is non-empty, inside file.Span, after the previous item
// 3) every node span has start <= end and is the union of its present parts
func CheckSpanInvariants(f *ast.File, text string) error {
	if f == nil {
		return fmt.Errorf("nil file")
	}
	textLen := source.OffsetOf(len(text))
	if f.Span.Start > f.Span.End || f.Span.End > textLen {
		return fmt.Errorf("file span %v is outside text of %d bytes", f.Span, textLen)
	}

	var prev source.Span
	for i, id := range f.Items {
		item := f.Nodes.Item(id)
		if item == nil {
			return fmt.Errorf("nil item for id=%d", id)
		}
		sp := item.Span
		if sp.Empty() {
			return fmt.Errorf("empty item span: %v", sp)
		}
		if !f.Span.Contains(sp) {
			return fmt.Errorf("item span %v is outside file span %v", sp, f.Span)
		}
		if i > 0 && sp.Start < prev.End {
			return fmt.Errorf("item span %v overlaps previous %v", sp, prev)
		}
		prev = sp

		var err error
		switch item.Kind {
		case ast.ItemFunction:
			fn, _ := f.Nodes.Function(id)
			err = checkFunction(f.Nodes, fn)
		case ast.ItemClass:
			c, _ := f.Nodes.Class(id)
			err = checkClass(f.Nodes, c)
		}
		if err != nil {
			return fmt.Errorf("item %d: %w", i, err)
		}
	}
	return nil
}

// covered tracks the union of the parts seen so far.
type covered struct {
	span source.Span
	any  bool
}

func (c *covered) add(sp source.Span) {
	if !c.any {
		c.span, c.any = sp, true
		return
	}
	c.span = c.span.Cover(sp)
}

func (c *covered) check(what string, got source.Span) error {
	if got.Start > got.End {
		return fmt.Errorf("%s span %v is reversed", what, got)
	}
	if c.any && c.span != got {
		return fmt.Errorf("%s span %v, union of parts is %v", what, got, c.span)
	}
	return nil
}

func checkFunction(n *ast.Nodes, fn *ast.Function) error {
	var u covered
	if fn.Effect != ast.EffectDefault {
		u.add(fn.EffectSpan)
	}
	if fn.HasParams {
		if err := checkParams(n, fn.Params, fn.ParamsSpan); err != nil {
			return err
		}
		u.add(fn.ParamsSpan)
	}
	if err := checkGenerics(n, fn.Generics, fn.Span); err != nil {
		return err
	}
	if fn.ReturnTy.IsValid() {
		if err := checkTy(n, fn.ReturnTy); err != nil {
			return err
		}
		u.add(n.Ty(fn.ReturnTy).Span)
	}
	if fn.HasBody() {
		u.add(fn.BodySpan)
	}
	// `fn` сам не узел: объединение частей может начинаться позже
	if !fn.Span.Contains(fn.NameSpan) || (u.any && !fn.Span.Contains(u.span)) {
		return fmt.Errorf("fn span %v does not contain its parts", fn.Span)
	}
	if fn.HasBody() && fn.BodySpan.End != fn.Span.End {
		return fmt.Errorf("fn span %v ends apart from its body %v", fn.Span, fn.BodySpan)
	}
	return nil
}

func checkClass(n *ast.Nodes, c *ast.Class) error {
	if !c.Span.Contains(c.NameSpan) {
		return fmt.Errorf("class span %v does not contain its name %v", c.Span, c.NameSpan)
	}
	if err := checkGenerics(n, c.Generics, c.Span); err != nil {
		return err
	}
	if c.HasParams {
		if !c.Span.Contains(c.ParamsSpan) {
			return fmt.Errorf("class span %v does not contain fields %v", c.Span, c.ParamsSpan)
		}
		if err := checkParams(n, c.Params, c.ParamsSpan); err != nil {
			return err
		}
	}
	if c.HasBody() && !c.Span.Contains(c.BodySpan) {
		return fmt.Errorf("class span %v does not contain body %v", c.Span, c.BodySpan)
	}
	return nil
}

func checkParams(n *ast.Nodes, params []ast.ParamID, outer source.Span) error {
	for _, id := range params {
		p := n.Param(id)
		var u covered
		if p.Atomic {
			u.add(p.AtomicSpan)
		}
		u.add(p.NameSpan)
		if p.Ty.IsValid() {
			if err := checkTy(n, p.Ty); err != nil {
				return err
			}
			u.add(n.Ty(p.Ty).Span)
		}
		if err := u.check("param", p.Span); err != nil {
			return err
		}
		if !outer.Contains(p.Span) {
			return fmt.Errorf("param span %v is outside list %v", p.Span, outer)
		}
	}
	return nil
}

func checkGenerics(n *ast.Nodes, generics []ast.GenericID, outer source.Span) error {
	for _, id := range generics {
		g := n.Generic(id)
		var u covered
		if g.Kind == ast.GenericPermission {
			u.add(g.PermSpan)
		}
		u.add(g.NameSpan)
		if err := u.check("generic", g.Span); err != nil {
			return err
		}
		if !outer.Contains(g.Span) {
			return fmt.Errorf("generic span %v is outside %v", g.Span, outer)
		}
	}
	return nil
}

func checkTy(n *ast.Nodes, id ast.TyID) error {
	ty := n.Ty(id)
	if ty == nil {
		return fmt.Errorf("nil ty for id=%d", id)
	}
	var u covered
	if ty.Perm != ast.PermNone {
		u.add(ty.PermSpan)
	}
	u.add(ty.NameSpan)
	for _, arg := range ty.Args {
		if err := checkTy(n, arg); err != nil {
			return err
		}
		if !ty.Span.Contains(n.Ty(arg).Span) {
			return fmt.Errorf("type argument %v is outside %v", n.Ty(arg).Span, ty.Span)
		}
	}
	if len(ty.Args) == 0 {
		return u.check("type", ty.Span)
	}
	// аргументы в скобках: скобки входят в спан, но не являются узлами
	if ty.Span.Start != u.span.Start || ty.Span.End < u.span.End {
		return fmt.Errorf("type span %v does not start at %v", ty.Span, u.span)
	}
	return nil
}
