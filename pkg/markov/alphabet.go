package markov

import (
	"fmt"
)

// BoundaryText is the rendering of the Boundary slot in dumps and logs.
const BoundaryText = "∅"

// Slot is a single position of a context window. It holds either a symbol of
// the table's alphabet or the Boundary sentinel.
type Slot[T comparable] struct {
	Symbol   T
	Boundary bool
}

// Sym returns a Slot holding the symbol s.
func Sym[T comparable](s T) Slot[T] {
	return Slot[T]{Symbol: s}
}

// Boundary returns the Boundary slot.
func Boundary[T comparable]() Slot[T] {
	return Slot[T]{Boundary: true}
}

// String renders the slot, using BoundaryText for the Boundary.
func (s Slot[T]) String() string {
	if s.Boundary {
		return BoundaryText
	}
	return fmt.Sprint(s.Symbol)
}

// Alphabet is an ordered, duplicate-free list of symbols. The position of a
// symbol is its digit in the table's indexing scheme, and the order is also
// the order in which generation accumulates counts.
type Alphabet[T comparable] struct {
	symbols []T
	digits  map[T]int
}

// NewAlphabet builds an Alphabet from symbols, in the given order. It fails
// with ErrConstruction if the list is empty or holds a duplicate.
func NewAlphabet[T comparable](symbols ...T) (*Alphabet[T], error) {
	if len(symbols) == 0 {
		return nil, fmt.Errorf("%w: alphabet is empty", ErrConstruction)
	}
	digits := make(map[T]int, len(symbols))
	for i, s := range symbols {
		if _, ok := digits[s]; ok {
			return nil, fmt.Errorf("%w: duplicate symbol %v at position %d", ErrConstruction, s, i)
		}
		digits[s] = i
	}
	owned := make([]T, len(symbols))
	copy(owned, symbols)
	return &Alphabet[T]{symbols: owned, digits: digits}, nil
}

// RuneAlphabet builds an Alphabet from the runes of letters, in order.
func RuneAlphabet(letters string) (*Alphabet[rune], error) {
	return NewAlphabet([]rune(letters)...)
}

// Size returns the number of symbols, not counting the Boundary.
func (a *Alphabet[T]) Size() int {
	return len(a.symbols)
}

// Symbol returns the symbol with the given digit.
func (a *Alphabet[T]) Symbol(digit int) T {
	return a.symbols[digit]
}

// Symbols returns a copy of the symbols in alphabet order.
func (a *Alphabet[T]) Symbols() []T {
	out := make([]T, len(a.symbols))
	copy(out, a.symbols)
	return out
}

// Contains reports whether s belongs to the alphabet.
func (a *Alphabet[T]) Contains(s T) bool {
	_, ok := a.digits[s]
	return ok
}

// Digit returns the digit of a slot: the symbol's position for a symbol, or
// Size() for the Boundary. The boolean is false for an unknown symbol.
func (a *Alphabet[T]) Digit(slot Slot[T]) (int, bool) {
	if slot.Boundary {
		return len(a.symbols), true
	}
	d, ok := a.digits[slot.Symbol]
	return d, ok
}

// slot converts a digit back to its Slot.
func (a *Alphabet[T]) slot(digit int) Slot[T] {
	if digit == len(a.symbols) {
		return Boundary[T]()
	}
	return Sym(a.symbols[digit])
}
