package lexicon

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io"
	"log/slog"
)

// ImportResult summarises a word list import.
type ImportResult struct {
	Added      int // Words new to the dictionary.
	Duplicates int // Words already present, whose frequency was incremented.
	Skipped    int // Words rejected by the normalizer.
}

// Import reads a word list from r, normalizes each word with norm and adds the
// accepted ones to the dictionary. Inserts are buffered and written in
// batches, and the entire operation runs within a single transaction. A nil
// norm uses NewNormalizer() defaults.
func (s *Store) Import(ctx context.Context, dict DictionaryInfo, r io.Reader, norm *Normalizer) (ImportResult, error) {
	// wordBatchSize determines how many words are buffered before being written.
	const wordBatchSize = 1000

	if norm == nil {
		norm = NewNormalizer()
	}

	var result ImportResult

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return result, err
	}
	defer func(tx *sql.Tx) {
		_ = tx.Rollback()
	}(tx)

	stmtInsertWord, err := tx.PrepareContext(ctx, `INSERT INTO lexicon_words (dictionary_id, word_text, frequency) VALUES (?, ?, 1) ON CONFLICT(dictionary_id, word_text) DO UPDATE SET frequency = frequency + 1 RETURNING frequency;`)
	if err != nil {
		return result, fmt.Errorf("failed to prepare word insert statement: %w", err)
	}
	defer func(stmt *sql.Stmt) {
		_ = stmt.Close()
	}(stmtInsertWord)

	batch := make([]string, 0, wordBatchSize)
	commitBatch := func() error {
		for _, word := range batch {
			var freq int
			if err := stmtInsertWord.QueryRowContext(ctx, dict.Id, word).Scan(&freq); err != nil {
				return fmt.Errorf("failed during batch insert of word '%s': %w", word, err)
			}
			if freq == 1 {
				result.Added++
			} else {
				result.Duplicates++
			}
		}
		batch = batch[:0]
		return nil
	}

	reader := NewWordReader(r)
	for {
		raw, err := reader.Next()
		if err != nil {
			if errors.Is(err, io.EOF) {
				break
			}
			return result, fmt.Errorf("word reader error: %w", err)
		}

		word, ok := norm.Normalize(raw)
		if !ok {
			result.Skipped++
			s.logger.DebugContext(ctx, "Word skipped by normalizer", slog.String("word", raw))
			continue
		}
		batch = append(batch, word)
		if len(batch) >= wordBatchSize {
			if err := commitBatch(); err != nil {
				return result, err
			}
		}
	}
	if err := commitBatch(); err != nil {
		return result, err
	}

	s.logger.InfoContext(ctx, "Import completed",
		slog.String("dictionary_name", dict.Name),
		slog.Int("dictionary_id", dict.Id),
		slog.Int("words_added", result.Added),
		slog.Int("words_duplicate", result.Duplicates),
		slog.Int("words_skipped", result.Skipped),
	)

	return result, tx.Commit()
}
