package source

import (
	"fmt"
	"strconv"

	"fortio.org/safecast"
)

// Offset is a 0-based byte position inside a file.
type Offset uint32

// OffsetOf converts an int index into an Offset, panicking on overflow.
func OffsetOf(n int) Offset {
	v, err := safecast.Conv[uint32](n)
	if err != nil {
		panic(fmt.Errorf("offset overflow: %w", err))
	}
	return Offset(v)
}

// Add сдвигает позицию вперёд на n байт.
func (o Offset) Add(n uint32) Offset {
	sum := uint64(o) + uint64(n)
	v, err := safecast.Conv[uint32](sum)
	if err != nil {
		panic(fmt.Errorf("offset overflow: %w", err))
	}
	return Offset(v)
}

// AddInt сдвигает позицию на n байт (n >= 0).
func (o Offset) AddInt(n int) Offset {
	v, err := safecast.Conv[uint32](n)
	if err != nil {
		panic(fmt.Errorf("offset delta overflow: %w", err))
	}
	return o.Add(v)
}

// Sub returns the distance o - other. other must not be past o.
func (o Offset) Sub(other Offset) uint32 {
	if other > o {
		panic(fmt.Errorf("offset underflow: %d - %d", o, other))
	}
	return uint32(o - other)
}

// Int returns the offset as an index into the file text.
func (o Offset) Int() int {
	return int(o)
}

func (o Offset) String() string {
	return strconv.FormatUint(uint64(o), 10)
}
