package ast

import (
	"dada/internal/source"
)

// Perm is a permission keyword.
type Perm uint8

const (
	PermNone Perm = iota
	PermMy
	PermOur
	PermLeased
	PermShared
)

var permNames = [...]string{
	PermNone:   "",
	PermMy:     "my",
	PermOur:    "our",
	PermLeased: "leased",
	PermShared: "shared",
}

func (p Perm) String() string {
	if int(p) < len(permNames) {
		return permNames[p]
	}
	return "perm(?)"
}

// PermFromString maps a keyword to its permission.
func PermFromString(s string) (Perm, bool) {
	for i, name := range permNames {
		if i != int(PermNone) && name == s {
			return Perm(i), true //nolint:gosec // bounded by len(permNames)
		}
	}
	return PermNone, false
}

// Param is `atomic? name (: ty)?`.
type Param struct {
	Atomic     bool
	AtomicSpan source.Span
	Name       source.Word
	NameSpan   source.Span
	Ty         TyID
	Span       source.Span
}

// GenericKind distinguishes the two generic parameter forms.
type GenericKind uint8

const (
	GenericType GenericKind = iota
	GenericPermission
)

func (k GenericKind) String() string {
	if k == GenericPermission {
		return "Permission"
	}
	return "Type"
}

// GenericParameter is either `T` or `perm T`.
type GenericParameter struct {
	Kind     GenericKind
	Perm     Perm
	PermSpan source.Span
	Name     source.Word
	NameSpan source.Span
	Span     source.Span
}

// Ty is `perm? name [args]?`.
type Ty struct {
	Perm     Perm
	PermSpan source.Span
	Name     source.Word
	NameSpan source.Span
	Args     []TyID
	Span     source.Span
}

func (n *Nodes) Param(id ParamID) *Param {
	return n.Params.Get(uint32(id))
}

func (n *Nodes) Generic(id GenericID) *GenericParameter {
	return n.Generics.Get(uint32(id))
}

func (n *Nodes) Ty(id TyID) *Ty {
	return n.Tys.Get(uint32(id))
}

func (n *Nodes) NewParam(p Param) ParamID {
	return ParamID(n.Params.Allocate(p))
}

func (n *Nodes) NewGeneric(g GenericParameter) GenericID {
	return GenericID(n.Generics.Allocate(g))
}

func (n *Nodes) NewTy(t Ty) TyID {
	return TyID(n.Tys.Allocate(t))
}
