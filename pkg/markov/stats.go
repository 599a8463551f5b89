package markov

// TableStats holds aggregated statistics for a Table.
type TableStats struct {
	Size           int // The number of cells, (alphabet size + 1)^chainLength.
	NonZeroCells   int // The number of windows with a positive count.
	TotalFrequency int // The sum of all counts.
	StartingSlots  int // The number of distinct first symbols seen after an all-Boundary context.
	Samples        int // The number of cell updates applied since construction.
}

// Stats returns a snapshot of statistics for the table.
func (t *Table[T]) Stats() TableStats {
	stats := TableStats{
		Size:    len(t.cells),
		Samples: t.samples,
	}
	for _, v := range t.cells {
		if v > 0 {
			stats.NonZeroCells++
			stats.TotalFrequency += v
		}
	}

	window := t.newWindow()
	last := t.chainLength - 1
	for d := 0; d < t.alphabet.Size(); d++ {
		window[last] = d
		if t.cells[t.indexDigits(window)] > 0 {
			stats.StartingSlots++
		}
	}
	return stats
}
