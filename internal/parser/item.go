package parser

import (
	"fmt"

	"dada/internal/ast"
	"dada/internal/diag"
	"dada/internal/source"
)

// parseItems: основной цикл верхнего уровня. Мусор между items репортится
// один раз на каждый непрерывный кусок.
func (p *Parser) parseItems(file *ast.File) {
	inGarbage := false
	for !p.eof() {
		id, started := p.parseItem()
		switch {
		case id.IsValid():
			file.PushItem(id)
			inGarbage = false
		case started:
			// item начался, но сломался: ошибка уже есть
			inGarbage = true
		default:
			if !inGarbage {
				p.errorAtCurrentToken(diag.SynExpectItem, "expected an item").Emit()
				inGarbage = true
			}
			p.bump()
		}
	}
}

// parseItem выбирает распознаватель по первому слову. started сообщает, были ли
// съедены токены; при started && !id.IsValid() диагностика уже выдана.
func (p *Parser) parseItem() (id ast.ItemID, started bool) {
	start := p.pos
	if id, ok := p.parseFunction(); ok {
		return id, true
	}
	if p.pos != start {
		return ast.NoItemID, true
	}
	if id, ok := p.parseClass(); ok {
		return id, true
	}
	return ast.NoItemID, p.pos != start
}

func (p *Parser) parseEffect() (ast.Effect, source.Span, bool) {
	if sp, ok := p.eatKeyword("atomic"); ok {
		return ast.EffectAtomic, sp, true
	}
	if sp, ok := p.eatKeyword("async"); ok {
		return ast.EffectAsync, sp, true
	}
	return ast.EffectDefault, source.Span{}, false
}

func (p *Parser) parseFunction() (ast.ItemID, bool) {
	effect, effectSpan, hasEffect := p.parseEffect()
	fnSpan, ok := p.eatKeyword("fn")
	if !ok {
		if hasEffect {
			p.errorAtCurrentToken(diag.SynUnexpectedToken, fmt.Sprintf("expected `fn` after `%s`", effect)).
				WithLabel(p.fileSpan(effectSpan), fmt.Sprintf("`%s` specified here", effect)).
				Emit()
		}
		return ast.NoItemID, false
	}
	start := fnSpan
	if hasEffect {
		start = effectSpan
	}

	name, nameSpan, ok := p.expectName(diag.SynExpectName, "expected function name")
	if !ok {
		return ast.NoItemID, false
	}

	fn := ast.Function{
		Effect:     effect,
		EffectSpan: effectSpan,
		Name:       name,
		NameSpan:   nameSpan,
	}
	fn.Generics, _ = p.parseGenericParameters()

	params, paramsSpan, ok := p.parseParameterList()
	if ok {
		fn.Params, fn.HasParams, fn.ParamsSpan = params, true, paramsSpan
	} else {
		p.errorAtCurrentToken(diag.SynExpectParams, fmt.Sprintf("expected parameters for `%s`", p.word(name))).
			WithLabel(p.fileSpan(nameSpan), "function declared here").
			Emit()
	}

	if arrow, ok := p.eatOp2('-', '>'); ok {
		ty, ok := p.parseTy()
		if ok {
			fn.ReturnTy = ty
		} else {
			p.errorAtCurrentToken(diag.SynExpectType, "expected return type after `->`").
				WithLabel(p.fileSpan(arrow), "`->` here").
				Emit()
		}
	}

	if body, bodySpan, ok := p.delimited('{'); ok {
		fn.Body, fn.BodySpan = body, bodySpan
	} else {
		p.errorAtCurrentToken(diag.SynExpectBody, fmt.Sprintf("expected a body for `%s`", p.word(name))).Emit()
	}

	fn.Span = p.spanSince(start)
	return p.sh.nodes.NewFunction(fn), true
}

func (p *Parser) parseClass() (ast.ItemID, bool) {
	start, ok := p.eatKeyword("class")
	if !ok {
		return ast.NoItemID, false
	}
	name, nameSpan, ok := p.expectName(diag.SynExpectName, "expected class name")
	if !ok {
		return ast.NoItemID, false
	}

	c := ast.Class{Name: name, NameSpan: nameSpan}
	c.Generics, _ = p.parseGenericParameters()
	if params, paramsSpan, ok := p.parseParameterList(); ok {
		c.Params, c.HasParams, c.ParamsSpan = params, true, paramsSpan
	}
	if body, bodySpan, ok := p.delimited('{'); ok {
		c.Body, c.BodySpan = body, bodySpan
	}

	c.Span = p.spanSince(start)
	return p.sh.nodes.NewClass(c), true
}

// expectName is parseName for places where a name is mandatory.
func (p *Parser) expectName(code diag.Code, msg string) (source.Word, source.Span, bool) {
	w, sp, ok := p.parseName()
	if !ok {
		p.errorAtCurrentToken(code, msg).Emit()
	}
	return w, sp, ok
}
