package ast

import (
	"dada/internal/source"
	"dada/internal/token"
)

// Effect is the optional keyword in front of `fn`.
type Effect uint8

const (
	EffectDefault Effect = iota
	EffectAsync
	EffectAtomic
)

func (e Effect) String() string {
	switch e {
	case EffectAsync:
		return "async"
	case EffectAtomic:
		return "atomic"
	default:
		return ""
	}
}

// Function is `effect? fn name [generics] (params) -> ty { body }`.
// The body stays a token tree; nothing parses statements yet.
type Function struct {
	Effect     Effect
	EffectSpan source.Span
	Name       source.Word
	NameSpan   source.Span
	Generics   []GenericID
	Params     []ParamID
	HasParams  bool
	ParamsSpan source.Span
	ReturnTy   TyID
	Body       token.Tree
	BodySpan   source.Span
	Span       source.Span
}

// HasBody reports whether the `{...}` tree was present.
func (f *Function) HasBody() bool {
	return !f.Body.IsZero()
}

// Class is `class name [generics] (fields) { body }`.
type Class struct {
	Name       source.Word
	NameSpan   source.Span
	Generics   []GenericID
	Params     []ParamID
	HasParams  bool
	ParamsSpan source.Span
	Body       token.Tree
	BodySpan   source.Span
	Span       source.Span
}

func (c *Class) HasBody() bool {
	return !c.Body.IsZero()
}
