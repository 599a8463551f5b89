package lexicon

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
)

// WordEntry is a word of a dictionary together with the number of times it
// was imported.
type WordEntry struct {
	Text      string
	Frequency int
}

// Entries returns every word of a dictionary in ascending order.
func (s *Store) Entries(ctx context.Context, dict DictionaryInfo) ([]WordEntry, error) {
	rows, err := s.stmtGetWords.QueryContext(ctx, dict.Id)
	if err != nil {
		return nil, err
	}
	defer func(rows *sql.Rows) {
		_ = rows.Close()
	}(rows)

	var entries []WordEntry
	for rows.Next() {
		var e WordEntry
		if err = rows.Scan(&e.Text, &e.Frequency); err != nil {
			return nil, err
		}
		entries = append(entries, e)
	}
	if err = rows.Err(); err != nil {
		return nil, err
	}
	return entries, nil
}

// Words returns the distinct words of a dictionary in ascending order.
func (s *Store) Words(ctx context.Context, dict DictionaryInfo) ([]string, error) {
	entries, err := s.Entries(ctx, dict)
	if err != nil {
		return nil, err
	}
	words := make([]string, len(entries))
	for i, e := range entries {
		words[i] = e.Text
	}
	return words, nil
}

// Contains reports whether word belongs to the dictionary.
func (s *Store) Contains(ctx context.Context, dict DictionaryInfo, word string) (bool, error) {
	var count int
	if err := s.stmtContainsWord.QueryRowContext(ctx, dict.Id, word).Scan(&count); err != nil {
		return false, fmt.Errorf("could not look up word '%s': %w", word, err)
	}
	return count > 0, nil
}

// RecordVerdict stores a reviewer's decision on a generated word, replacing
// any earlier decision on the same word.
func (s *Store) RecordVerdict(ctx context.Context, dict DictionaryInfo, word string, accepted bool) error {
	if _, err := s.stmtPutVerdict.ExecContext(ctx, dict.Id, word, accepted); err != nil {
		return fmt.Errorf("could not record verdict for '%s': %w", word, err)
	}
	s.logger.DebugContext(ctx, "Verdict recorded",
		slog.String("dictionary_name", dict.Name),
		slog.String("word", word),
		slog.Bool("accepted", accepted),
	)
	return nil
}

// Accepted returns the words accepted by a reviewer, in ascending order.
func (s *Store) Accepted(ctx context.Context, dict DictionaryInfo) ([]string, error) {
	return s.verdicts(ctx, dict, true)
}

// Rejected returns the words rejected by a reviewer, in ascending order.
func (s *Store) Rejected(ctx context.Context, dict DictionaryInfo) ([]string, error) {
	return s.verdicts(ctx, dict, false)
}

func (s *Store) verdicts(ctx context.Context, dict DictionaryInfo, accepted bool) ([]string, error) {
	rows, err := s.stmtGetVerdicts.QueryContext(ctx, dict.Id, accepted)
	if err != nil {
		return nil, err
	}
	defer func(rows *sql.Rows) {
		_ = rows.Close()
	}(rows)

	var words []string
	for rows.Next() {
		var w string
		if err = rows.Scan(&w); err != nil {
			return nil, err
		}
		words = append(words, w)
	}
	if err = rows.Err(); err != nil {
		return nil, err
	}
	return words, nil
}
