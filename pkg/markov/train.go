package markov

import (
	"fmt"
)

const (
	// ReinforceWeight is the weight applied by Train.
	ReinforceWeight = 1
	// RejectWeight is the weight applied by Reject.
	RejectWeight = -1
)

// Sample adds weight to the cell addressed by window, flooring the result at
// 0 so that no cell ever becomes negative. The window must hold exactly
// ChainLength slots.
func (t *Table[T]) Sample(weight int, window ...Slot[T]) error {
	index, err := t.Index(window...)
	if err != nil {
		return fmt.Errorf("could not sample window: %w", err)
	}
	t.addAt(index, weight)
	return nil
}

// addAt applies a clamped update to a single cell.
func (t *Table[T]) addAt(index, weight int) {
	t.cells[index] = max(t.cells[index]+weight, 0)
	t.samples++
}

// AnalyzeSequence trains the table on one sequence. The sequence is padded with
// Boundary slots on both sides: starting from an all-Boundary window, each
// symbol is shifted in and the window sampled, then ChainLength-1 Boundary
// slots are shifted in the same way so that the table learns how sequences
// end. A sequence of length L therefore produces L+ChainLength-1 samples, each
// with weight -1 when reject is set and +1 otherwise.
//
// Every symbol is resolved before the table is touched, so a sequence holding
// a symbol outside the alphabet fails with ErrInvalidState and leaves the
// table unchanged.
func (t *Table[T]) AnalyzeSequence(sequence []T, reject bool) error {
	digits := make([]int, len(sequence))
	for i, s := range sequence {
		d, ok := t.alphabet.Digit(Sym(s))
		if !ok {
			return fmt.Errorf("%w: symbol %v at position %d is not in the alphabet", ErrInvalidState, s, i)
		}
		digits[i] = d
	}

	weight := ReinforceWeight
	if reject {
		weight = RejectWeight
	}

	window := t.newWindow()
	for _, d := range digits {
		shiftLeftAndInsert(window, d)
		t.addAt(t.indexDigits(window), weight)
	}
	for i := 1; i < t.chainLength; i++ {
		shiftLeftAndInsert(window, t.boundaryDigit())
		t.addAt(t.indexDigits(window), weight)
	}
	return nil
}

// Train reinforces the table with sequence.
func (t *Table[T]) Train(sequence []T) error {
	return t.AnalyzeSequence(sequence, false)
}

// Reject down-weights a previously learned sequence.
func (t *Table[T]) Reject(sequence []T) error {
	return t.AnalyzeSequence(sequence, true)
}

// TrainAll trains the table on every sequence in order, stopping at the first
// failure.
func (t *Table[T]) TrainAll(sequences [][]T) error {
	for i, seq := range sequences {
		if err := t.Train(seq); err != nil {
			return fmt.Errorf("could not train sequence %d: %w", i, err)
		}
	}
	return nil
}
