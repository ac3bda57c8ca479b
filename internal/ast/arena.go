package ast

import (
	"fmt"

	"fortio.org/safecast"
)

// Arena stores nodes of one kind; ids are 1-based, 0 means absent.
type Arena[T any] struct {
	Data []T
}

// NewArena creates and returns an *Arena[T] whose internal slice is allocated with a capacity of capHint.
// capHint is a hint for the initial capacity of the arena's underlying storage; zero is allowed.
func NewArena[T any](capHint uint) *Arena[T] {
	return &Arena[T]{
		Data: make([]T, 0, capHint),
	}
}

// Возвращает индекс нового элемента (1-based).
func (a *Arena[T]) Allocate(value T) uint32 {
	a.Data = append(a.Data, value)
	return a.Len()
}

func (a *Arena[T]) Get(index uint32) *T {
	if index == 0 || int(index) > len(a.Data) {
		return nil
	}
	return &a.Data[index-1]
}

// READONLY
func (a *Arena[T]) Slice() []T {
	return a.Data
}

func (a *Arena[T]) Len() uint32 {
	n, err := safecast.Conv[uint32](len(a.Data))
	if err != nil {
		panic(fmt.Errorf("arena overflow: %w", err))
	}
	return n
}
