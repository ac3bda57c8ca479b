package ast

import (
	"dada/internal/source"
)

// ItemKind is the closed set of top-level declarations.
type ItemKind uint8

const (
	ItemFunction ItemKind = iota
	ItemClass
)

func (k ItemKind) String() string {
	switch k {
	case ItemFunction:
		return "fn"
	case ItemClass:
		return "class"
	default:
		return "item(?)"
	}
}

// Item is a tagged reference: Payload indexes Functions or Classes depending on Kind.
type Item struct {
	Kind    ItemKind
	Span    source.Span
	Payload PayloadID
}

// Nodes holds the per-kind arenas of one parsed file.
type Nodes struct {
	Items     *Arena[Item]
	Functions *Arena[Function]
	Classes   *Arena[Class]
	Params    *Arena[Param]
	Generics  *Arena[GenericParameter]
	Tys       *Arena[Ty]
}

// NewNodes creates arenas with the given capacity hint.
// If capHint is 0, a default of 1<<4 is used.
func NewNodes(capHint uint) *Nodes {
	if capHint == 0 {
		capHint = 1 << 4
	}
	return &Nodes{
		Items:     NewArena[Item](capHint),
		Functions: NewArena[Function](capHint),
		Classes:   NewArena[Class](capHint),
		Params:    NewArena[Param](capHint * 2),
		Generics:  NewArena[GenericParameter](capHint),
		Tys:       NewArena[Ty](capHint * 2),
	}
}

func (n *Nodes) Item(id ItemID) *Item {
	return n.Items.Get(uint32(id))
}

// Function returns the payload of a function item.
func (n *Nodes) Function(id ItemID) (*Function, bool) {
	item := n.Item(id)
	if item == nil || item.Kind != ItemFunction {
		return nil, false
	}
	return n.Functions.Get(uint32(item.Payload)), true
}

// Class returns the payload of a class item.
func (n *Nodes) Class(id ItemID) (*Class, bool) {
	item := n.Item(id)
	if item == nil || item.Kind != ItemClass {
		return nil, false
	}
	return n.Classes.Get(uint32(item.Payload)), true
}

func (n *Nodes) NewFunction(fn Function) ItemID {
	payload := PayloadID(n.Functions.Allocate(fn))
	return ItemID(n.Items.Allocate(Item{Kind: ItemFunction, Span: fn.Span, Payload: payload}))
}

func (n *Nodes) NewClass(c Class) ItemID {
	payload := PayloadID(n.Classes.Allocate(c))
	return ItemID(n.Items.Allocate(Item{Kind: ItemClass, Span: c.Span, Payload: payload}))
}

// Name returns the declared name of any item kind.
func (n *Nodes) Name(id ItemID) (source.Word, source.Span) {
	item := n.Item(id)
	if item == nil {
		return source.NoWord, source.Span{}
	}
	switch item.Kind {
	case ItemFunction:
		fn := n.Functions.Get(uint32(item.Payload))
		return fn.Name, fn.NameSpan
	case ItemClass:
		c := n.Classes.Get(uint32(item.Payload))
		return c.Name, c.NameSpan
	}
	return source.NoWord, source.Span{}
}

// Signature returns the generics and parameters shared by both item kinds.
func (n *Nodes) Signature(id ItemID) (generics []GenericID, params []ParamID) {
	item := n.Item(id)
	if item == nil {
		return nil, nil
	}
	switch item.Kind {
	case ItemFunction:
		fn := n.Functions.Get(uint32(item.Payload))
		return fn.Generics, fn.Params
	case ItemClass:
		c := n.Classes.Get(uint32(item.Payload))
		return c.Generics, c.Params
	}
	return nil, nil
}
