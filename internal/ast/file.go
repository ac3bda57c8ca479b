package ast

import (
	"dada/internal/source"
)

// File is the syntax of one source file: the top-level items in order and
// the arenas they live in. Copying a File copies only the handles.
type File struct {
	Name  string
	Span  source.Span
	Items []ItemID
	Nodes *Nodes
}

func NewFile(name string, sp source.Span) *File {
	return &File{
		Name:  name,
		Span:  sp,
		Items: make([]ItemID, 0),
		Nodes: NewNodes(0),
	}
}

// PushItem appends a top-level item.
func (f *File) PushItem(id ItemID) {
	f.Items = append(f.Items, id)
}

// FunctionNamed finds the first function with the given name.
func (f *File) FunctionNamed(name source.Word) (ItemID, *Function, bool) {
	for _, id := range f.Items {
		fn, ok := f.Nodes.Function(id)
		if ok && fn.Name == name {
			return id, fn, true
		}
	}
	return NoItemID, nil, false
}
