package markov

import (
	"iter"
	"log/slog"
	"strings"
)

// StopReason tells why a Generation ended.
type StopReason int

const (
	// StopNone means the generation has not ended yet.
	StopNone StopReason = iota
	// StopBoundary means the Boundary was drawn as the next slot.
	StopBoundary
	// StopDeadEnd means no continuation of the current context was ever
	// observed.
	StopDeadEnd
	// StopInconsistent means the per-slot counts did not add up to the total
	// drawn against. It indicates a data anomaly and is logged as a warning.
	StopInconsistent
	// StopMaxLength means the table's WithMaxLength cap was reached.
	StopMaxLength
)

func (r StopReason) String() string {
	switch r {
	case StopNone:
		return "none"
	case StopBoundary:
		return "boundary"
	case StopDeadEnd:
		return "dead_end"
	case StopInconsistent:
		return "inconsistent"
	case StopMaxLength:
		return "max_length"
	default:
		return "unknown"
	}
}

// Generation is a single, one-shot walk through a Table. Each call to Next
// produces the next symbol until the walk ends; an ended Generation cannot be
// restarted. Generations draw from their table's random source and must not
// be used concurrently with training the same table.
type Generation[T comparable] struct {
	table   *Table[T]
	window  []int
	emitted int
	reason  StopReason
}

// Generate starts a new generation from an all-Boundary context.
func (t *Table[T]) Generate() *Generation[T] {
	return &Generation[T]{
		table:  t,
		window: t.newWindow(),
	}
}

// GenerateSequence runs a full generation and returns the emitted symbols.
func (t *Table[T]) GenerateSequence() []T {
	return t.Generate().Collect()
}

// Next returns the next generated symbol. The boolean is false once the
// generation has ended, after which Next keeps returning false.
func (g *Generation[T]) Next() (T, bool) {
	var zero T
	if g.reason != StopNone {
		return zero, false
	}
	t := g.table
	if t.maxLength > 0 && g.emitted >= t.maxLength {
		g.stop(StopMaxLength, 0, 0)
		return zero, false
	}

	last := t.chainLength - 1
	shiftLeftAndInsert(g.window, t.boundaryDigit())

	total := t.continuations(g.window)
	if total == 0 {
		g.stop(StopDeadEnd, 0, 0)
		return zero, false
	}

	x := 1
	if total > 1 {
		x = t.rng.IntN(total) + 1
	}

	g.window[last] = t.boundaryDigit()
	sum := t.cells[t.indexDigits(g.window)]
	if sum >= x {
		g.stop(StopBoundary, sum, x)
		return zero, false
	}

	for d := 0; d < t.alphabet.Size(); d++ {
		g.window[last] = d
		sum += t.cells[t.indexDigits(g.window)]
		if sum >= x {
			g.emitted++
			return t.alphabet.Symbol(d), true
		}
	}

	g.window[last] = t.boundaryDigit()
	g.stop(StopInconsistent, sum, x)
	return zero, false
}

// continuations returns the summed counts of every possible last slot of
// window, Boundary included. The last slot of window is left unchanged.
func (t *Table[T]) continuations(window []int) int {
	last := len(window) - 1
	saved := window[last]
	total := 0
	for d := 0; d < t.radix; d++ {
		window[last] = d
		total += t.cells[t.indexDigits(window)]
	}
	window[last] = saved
	return total
}

func (g *Generation[T]) stop(reason StopReason, sum, x int) {
	g.reason = reason
	t := g.table
	switch reason {
	case StopInconsistent:
		t.logger.Warn("Generation terminated by inconsistent counts",
			slog.String("window", t.windowString(g.window)),
			slog.Int("sum", sum),
			slog.Int("draw", x),
			slog.Int("generated_length", g.emitted),
		)
	case StopDeadEnd:
		t.logger.Debug("Generation terminated due to dead-end",
			slog.String("window", t.windowString(g.window)),
			slog.Int("generated_length", g.emitted),
		)
	case StopBoundary:
		t.logger.Debug("Generation terminated by boundary",
			slog.String("window", t.windowString(g.window)),
			slog.Int("sum", sum),
			slog.Int("draw", x),
			slog.Int("generated_length", g.emitted),
		)
	case StopMaxLength:
		t.logger.Debug("Generation terminated by reaching maxLength",
			slog.Int("max_length", t.maxLength),
			slog.Int("generated_length", g.emitted),
		)
	}
}

// Reason returns why the generation ended, or StopNone while it is running.
func (g *Generation[T]) Reason() StopReason {
	return g.reason
}

// Len returns the number of symbols emitted so far.
func (g *Generation[T]) Len() int {
	return g.emitted
}

// All returns an iterator over the remaining symbols of the generation.
func (g *Generation[T]) All() iter.Seq[T] {
	return func(yield func(T) bool) {
		for {
			s, ok := g.Next()
			if !ok || !yield(s) {
				return
			}
		}
	}
}

// Collect drains the generation and returns the remaining symbols.
func (g *Generation[T]) Collect() []T {
	var out []T
	for s := range g.All() {
		out = append(out, s)
	}
	return out
}

// windowString renders a window of digits for diagnostics.
func (t *Table[T]) windowString(window []int) string {
	var sb strings.Builder
	for _, d := range window {
		sb.WriteString(t.alphabet.slot(d).String())
	}
	return sb.String()
}
