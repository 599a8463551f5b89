package markov

import (
	"fmt"
	"io"
	"log/slog"
	"math/rand/v2"
	"time"
)

// MaxTableSize is the exclusive upper bound on the number of cells of a Table,
// that is on (alphabet size + 1)^chainLength.
const MaxTableSize = 1<<28 - 1

// Source provides the uniform draws used during generation. *rand.Rand from
// math/rand/v2 satisfies it.
type Source interface {
	// IntN returns a uniform integer in [0, n). n is always > 0.
	IntN(n int) int
}

// tableOptions holds the construction-time settings of a Table.
type tableOptions struct {
	source    Source
	maxLength int
	logger    *slog.Logger
}

// Option configures a Table at construction. It's used as a variadic argument
// to New and NewRuneTable.
type Option func(*tableOptions)

// WithSource sets the random source used by generation. By default each table
// owns a PCG generator seeded from the clock.
func WithSource(src Source) Option {
	return func(o *tableOptions) { o.source = src }
}

// WithSeed seeds the table's own PCG generator, making generation reproducible.
func WithSeed(seed uint64) Option {
	return func(o *tableOptions) { o.source = rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15)) }
}

// WithMaxLength caps the number of symbols a single generation may emit.
// A value of 0 or less disables the cap, which is the default.
func WithMaxLength(n int) Option {
	return func(o *tableOptions) { o.maxLength = n }
}

// WithLogger sets the logger used for generation diagnostics. By default all
// logs are discarded.
func WithLogger(logger *slog.Logger) Option {
	return func(o *tableOptions) {
		if logger != nil {
			o.logger = logger
		}
	}
}

// Table is a dense Markov frequency table. It maps every context window of
// chainLength slots to a non-negative count.
type Table[T comparable] struct {
	chainLength int
	alphabet    *Alphabet[T]
	radix       int
	cells       []int
	samples     int
	rng         Source
	maxLength   int
	logger      *slog.Logger
}

// New creates a zeroed Table for the given chain length and alphabet. It fails
// with ErrConstruction when chainLength is not positive or when the table
// would reach MaxTableSize cells.
func New[T comparable](chainLength int, alphabet *Alphabet[T], opts ...Option) (*Table[T], error) {
	if chainLength <= 0 {
		return nil, fmt.Errorf("%w: chain length must be greater than 0, got %d", ErrConstruction, chainLength)
	}
	if alphabet == nil || alphabet.Size() == 0 {
		return nil, fmt.Errorf("%w: alphabet is empty", ErrConstruction)
	}

	radix := alphabet.Size() + 1
	size, err := IntPow(int64(radix), chainLength)
	if err != nil {
		return nil, fmt.Errorf("%w: table size %d^%d is too large: %w", ErrConstruction, radix, chainLength, err)
	}
	if size >= MaxTableSize {
		return nil, fmt.Errorf("%w: table size %d^%d = %d is too large", ErrConstruction, radix, chainLength, size)
	}

	options := &tableOptions{
		logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(options)
	}
	if options.source == nil {
		now := uint64(time.Now().UnixNano())
		options.source = rand.New(rand.NewPCG(now, now*uint64(time.Now().UnixMilli())))
	}

	return &Table[T]{
		chainLength: chainLength,
		alphabet:    alphabet,
		radix:       radix,
		cells:       make([]int, size),
		rng:         options.source,
		maxLength:   options.maxLength,
		logger:      options.logger,
	}, nil
}

// NewRuneTable is a convenience wrapper around New for character models over
// the runes of letters.
func NewRuneTable(chainLength int, letters string, opts ...Option) (*Table[rune], error) {
	alphabet, err := RuneAlphabet(letters)
	if err != nil {
		return nil, err
	}
	return New(chainLength, alphabet, opts...)
}

// SetLogger sets the logger for the Table. By default, all logs are discarded.
func (t *Table[T]) SetLogger(logger *slog.Logger) {
	if logger != nil {
		t.logger = logger
	}
}

// ChainLength returns the width of the table's context windows.
func (t *Table[T]) ChainLength() int {
	return t.chainLength
}

// Alphabet returns the table's alphabet.
func (t *Table[T]) Alphabet() *Alphabet[T] {
	return t.alphabet
}

// Size returns the number of cells, (alphabet size + 1)^chainLength.
func (t *Table[T]) Size() int {
	return len(t.cells)
}

// Index maps a window of exactly ChainLength slots to its cell index in
// [0, Size()). The window is read as a base (alphabet size + 1) number, most
// significant slot first, with the Boundary as the highest digit.
func (t *Table[T]) Index(window ...Slot[T]) (int, error) {
	if len(window) != t.chainLength {
		return 0, fmt.Errorf("%w: window has %d slots, want %d", ErrInvalidArgument, len(window), t.chainLength)
	}
	index := 0
	for _, slot := range window {
		d, ok := t.alphabet.Digit(slot)
		if !ok {
			return 0, fmt.Errorf("%w: symbol %v is not in the alphabet", ErrInvalidState, slot.Symbol)
		}
		index = index*t.radix + d
	}
	return index, nil
}

// Count returns the count stored for the given window.
func (t *Table[T]) Count(window ...Slot[T]) (int, error) {
	index, err := t.Index(window...)
	if err != nil {
		return 0, err
	}
	return t.cells[index], nil
}

// indexDigits is Index over an already-resolved window of digits.
func (t *Table[T]) indexDigits(digits []int) int {
	index := 0
	for _, d := range digits {
		index = index*t.radix + d
	}
	return index
}

// boundaryDigit is the digit of the Boundary slot.
func (t *Table[T]) boundaryDigit() int {
	return t.radix - 1
}

// newWindow returns an all-Boundary window of digits.
func (t *Table[T]) newWindow() []int {
	window := make([]int, t.chainLength)
	for i := range window {
		window[i] = t.boundaryDigit()
	}
	return window
}

// shiftLeftAndInsert drops the oldest slot of window and appends digit.
func shiftLeftAndInsert(window []int, digit int) {
	copy(window, window[1:])
	window[len(window)-1] = digit
}
