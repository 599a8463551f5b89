package markov

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"
)

// DumpFormat selects the rendering used by Dump.
type DumpFormat string

const (
	// FormatCSV renders a "#,<symbols...>,∅" header followed by one line per
	// context prefix.
	FormatCSV DumpFormat = "csv"
	// FormatJSON renders an ExportedTable document.
	FormatJSON DumpFormat = "json"
)

// DumpRow holds the counts of every possible next slot after one context
// prefix of ChainLength-1 slots. Counts are in column order: symbols in
// alphabet order, then the Boundary.
type DumpRow[T comparable] struct {
	Prefix []Slot[T]
	Counts []int
	Total  int
}

// Label renders the prefix as the concatenation of its slots.
func (r DumpRow[T]) Label() string {
	var sb strings.Builder
	for _, s := range r.Prefix {
		sb.WriteString(s.String())
	}
	return sb.String()
}

// ExportedTable is the JSON representation of a dump.
type ExportedTable struct {
	ChainLength int           `json:"chain_length"`
	Columns     []string      `json:"columns"`
	Rows        []ExportedRow `json:"rows"`
}

// ExportedRow is a single row of an ExportedTable.
type ExportedRow struct {
	Prefix string `json:"prefix"`
	Counts []int  `json:"counts"`
}

// dumpOptions holds the settings of a Dump call.
type dumpOptions struct {
	ignoreEmptyRows bool
	format          DumpFormat
}

// DumpOption configures a Dump call.
type DumpOption func(*dumpOptions)

// WithIgnoreEmptyRows sets whether rows whose counts are all zero are left
// out. Default: true
func WithIgnoreEmptyRows(ignore bool) DumpOption {
	return func(o *dumpOptions) { o.ignoreEmptyRows = ignore }
}

// WithFormat sets the dump format. Default: FormatCSV
func WithFormat(format DumpFormat) DumpOption {
	return func(o *dumpOptions) { o.format = format }
}

// Columns returns the column headings of a dump: the symbols in alphabet
// order followed by the Boundary.
func (t *Table[T]) Columns() []Slot[T] {
	cols := make([]Slot[T], 0, t.radix)
	for d := 0; d < t.radix; d++ {
		cols = append(cols, t.alphabet.slot(d))
	}
	return cols
}

// Rows returns the table as a grid. Rows enumerate every context prefix of
// ChainLength-1 slots, each position going through the symbols in alphabet
// order and then the Boundary, with the leftmost position varying slowest.
func (t *Table[T]) Rows(ignoreEmpty bool) []DumpRow[T] {
	width := t.chainLength - 1
	prefix := make([]int, width)
	window := make([]int, t.chainLength)

	var rows []DumpRow[T]
	for {
		copy(window, prefix)
		row := DumpRow[T]{
			Prefix: make([]Slot[T], width),
			Counts: make([]int, t.radix),
		}
		for i, d := range prefix {
			row.Prefix[i] = t.alphabet.slot(d)
		}
		for d := 0; d < t.radix; d++ {
			window[width] = d
			v := t.cells[t.indexDigits(window)]
			row.Counts[d] = v
			row.Total += v
		}
		if row.Total > 0 || !ignoreEmpty {
			rows = append(rows, row)
		}

		// Advance the prefix like an odometer, rightmost position fastest.
		i := width - 1
		for ; i >= 0; i-- {
			prefix[i]++
			if prefix[i] < t.radix {
				break
			}
			prefix[i] = 0
		}
		if i < 0 {
			return rows
		}
	}
}

// Dump writes a human-readable grid of the table to w. It fails with
// ErrUnsupported for an unknown format.
func (t *Table[T]) Dump(w io.Writer, opts ...DumpOption) error {
	options := &dumpOptions{
		ignoreEmptyRows: true,
		format:          FormatCSV,
	}
	for _, opt := range opts {
		opt(options)
	}

	switch options.format {
	case FormatCSV:
		return t.dumpCSV(w, options.ignoreEmptyRows)
	case FormatJSON:
		return t.dumpJSON(w, options.ignoreEmptyRows)
	default:
		return fmt.Errorf("%w: dump format %q", ErrUnsupported, options.format)
	}
}

func (t *Table[T]) dumpCSV(w io.Writer, ignoreEmpty bool) error {
	cw := csv.NewWriter(w)

	header := []string{"#"}
	for _, c := range t.Columns() {
		header = append(header, c.String())
	}
	if err := cw.Write(header); err != nil {
		return fmt.Errorf("could not write dump header: %w", err)
	}

	record := make([]string, 0, t.radix+1)
	for _, row := range t.Rows(ignoreEmpty) {
		record = append(record[:0], row.Label())
		for _, v := range row.Counts {
			record = append(record, strconv.Itoa(v))
		}
		if err := cw.Write(record); err != nil {
			return fmt.Errorf("could not write dump row %q: %w", row.Label(), err)
		}
	}

	cw.Flush()
	return cw.Error()
}

func (t *Table[T]) dumpJSON(w io.Writer, ignoreEmpty bool) error {
	exported := ExportedTable{
		ChainLength: t.chainLength,
		Rows:        []ExportedRow{},
	}
	for _, c := range t.Columns() {
		exported.Columns = append(exported.Columns, c.String())
	}
	for _, row := range t.Rows(ignoreEmpty) {
		exported.Rows = append(exported.Rows, ExportedRow{Prefix: row.Label(), Counts: row.Counts})
	}

	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(exported)
}
