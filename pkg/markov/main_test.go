package markov

import (
	"testing"
)

const testLetters = "abcdefghijklmnopqrstuvwxyz"

// minSource always draws the smallest value, so generation takes the first
// option whose cumulative count reaches 1.
type minSource struct{}

func (minSource) IntN(int) int { return 0 }

// maxSource always draws the largest value.
type maxSource struct{}

func (maxSource) IntN(n int) int { return n - 1 }

// brokenSource draws outside [0, n), forcing the cumulative sum to fall short.
type brokenSource struct{}

func (brokenSource) IntN(n int) int { return n }

// newTestTable creates a rune table over letters and fails the test on error.
func newTestTable(t *testing.T, chainLength int, letters string, opts ...Option) *Table[rune] {
	t.Helper()
	table, err := NewRuneTable(chainLength, letters, opts...)
	if err != nil {
		t.Fatalf("NewRuneTable(%d, %q) error = %v", chainLength, letters, err)
	}
	return table
}

// newTrainedTable creates a rune table and trains it on words.
func newTrainedTable(t *testing.T, chainLength int, letters string, words []string, opts ...Option) *Table[rune] {
	t.Helper()
	table := newTestTable(t, chainLength, letters, opts...)
	for _, w := range words {
		if err := table.Train([]rune(w)); err != nil {
			t.Fatalf("setup: Train(%q) failed: %v", w, err)
		}
	}
	return table
}

// window builds a rune window where '.' stands for the Boundary.
func window(s string) []Slot[rune] {
	out := make([]Slot[rune], 0, len(s))
	for _, r := range s {
		if r == '.' {
			out = append(out, Boundary[rune]())
		} else {
			out = append(out, Sym(r))
		}
	}
	return out
}

// mustCount reads a cell and fails the test on error.
func mustCount(t *testing.T, table *Table[rune], w string) int {
	t.Helper()
	v, err := table.Count(window(w)...)
	if err != nil {
		t.Fatalf("Count(%q) error = %v", w, err)
	}
	return v
}
