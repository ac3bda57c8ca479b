package source

import (
	"fmt"
	"slices"
	"sync"

	"fortio.org/safecast"
)

// Word is an interned string handle. Equal words have equal handles within one Interner.
type Word uint32

// NoWord is the handle of the empty string.
const NoWord Word = 0

// Interner maps strings to Words. One interner is owned by one query database
// and is shared by all of its snapshots, so it is safe for concurrent use.
type Interner struct {
	mu    sync.RWMutex
	byID  []string        // индекс -> строка (byID[0] = "" для NoWord)
	index map[string]Word // строка -> ID
}

func NewInterner() *Interner {
	return &Interner{
		byID:  []string{""},
		index: map[string]Word{"": NoWord},
	}
}

// Intern вставляет строку и возвращает её Word.
// Если строка уже есть, возвращает существующий Word.
func (i *Interner) Intern(s string) Word {
	i.mu.RLock()
	id, ok := i.index[s]
	i.mu.RUnlock()
	if ok {
		return id
	}

	i.mu.Lock()
	defer i.mu.Unlock()
	if id, ok := i.index[s]; ok {
		return id
	}
	// Собственная копия, чтобы не держать исходный буфер.
	cpy := string([]byte(s))
	n, err := safecast.Conv[uint32](len(i.byID))
	if err != nil {
		panic(fmt.Errorf("interner overflow: %w", err))
	}
	id = Word(n)
	i.byID = append(i.byID, cpy)
	i.index[cpy] = id
	return id
}

// Lookup возвращает строку по Word.
// Если Word не валиден, возвращает пустую строку и false.
func (i *Interner) Lookup(w Word) (string, bool) {
	i.mu.RLock()
	defer i.mu.RUnlock()
	if int(w) >= len(i.byID) {
		return "", false
	}
	return i.byID[w], true
}

// MustLookup паникует на невалидном Word.
func (i *Interner) MustLookup(w Word) string {
	s, ok := i.Lookup(w)
	if !ok {
		panic(fmt.Errorf("invalid word %d", w))
	}
	return s
}

// Len возвращает количество строк, включая пустую.
func (i *Interner) Len() int {
	i.mu.RLock()
	defer i.mu.RUnlock()
	return len(i.byID)
}

// Snapshot возвращает копию всех строк.
func (i *Interner) Snapshot() []string {
	i.mu.RLock()
	defer i.mu.RUnlock()
	return slices.Clone(i.byID)
}
