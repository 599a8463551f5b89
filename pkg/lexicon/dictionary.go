package lexicon

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
)

// DictionaryInfo holds the metadata of a named word list.
type DictionaryInfo struct {
	Id   int
	Name string
}

// ExportedDictionary is the serializable representation of a dictionary and
// its verdicts, used for JSON-based import and export.
type ExportedDictionary struct {
	Name     string            `json:"name"`
	Words    []ExportedWord    `json:"words"`
	Verdicts []ExportedVerdict `json:"verdicts"`
}

// ExportedWord is a single word of an ExportedDictionary.
type ExportedWord struct {
	Text      string `json:"text"`
	Frequency int    `json:"frequency"`
}

// ExportedVerdict is a single reviewer verdict of an ExportedDictionary.
type ExportedVerdict struct {
	Text     string `json:"text"`
	Accepted bool   `json:"accepted"`
}

// GetDictionaryInfos retrieves metadata for all dictionaries in the database,
// returning them in a map keyed by name.
func (s *Store) GetDictionaryInfos(ctx context.Context) (map[string]DictionaryInfo, error) {
	rows, err := s.stmtListDictionaries.QueryContext(ctx)
	if err != nil {
		return nil, err
	}
	defer func(rows *sql.Rows) {
		_ = rows.Close()
	}(rows)

	dictionaries := make(map[string]DictionaryInfo)
	for rows.Next() {
		var info DictionaryInfo
		if err = rows.Scan(&info.Id, &info.Name); err != nil {
			return nil, err
		}
		dictionaries[info.Name] = info
	}
	if err = rows.Err(); err != nil {
		return nil, err
	}
	return dictionaries, nil
}

// GetDictionaryInfo retrieves the metadata of a single dictionary by name. It
// returns sql.ErrNoRows if there is none.
func (s *Store) GetDictionaryInfo(ctx context.Context, name string) (DictionaryInfo, error) {
	var id int
	if err := s.stmtGetDictionary.QueryRowContext(ctx, name).Scan(&id); err != nil {
		return DictionaryInfo{}, err
	}
	return DictionaryInfo{Id: id, Name: name}, nil
}

// InsertDictionary creates a new, empty dictionary and returns its metadata.
func (s *Store) InsertDictionary(ctx context.Context, name string) (DictionaryInfo, error) {
	res, err := s.stmtAddDictionary.ExecContext(ctx, name)
	if err != nil {
		return DictionaryInfo{}, fmt.Errorf("could not insert dictionary '%s': %w", name, err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return DictionaryInfo{}, err
	}
	return DictionaryInfo{Id: int(id), Name: name}, nil
}

// GetOrInsertDictionary returns the dictionary with the given name, creating
// it if needed.
func (s *Store) GetOrInsertDictionary(ctx context.Context, name string) (DictionaryInfo, error) {
	info, err := s.GetDictionaryInfo(ctx, name)
	if errors.Is(err, sql.ErrNoRows) {
		return s.InsertDictionary(ctx, name)
	}
	return info, err
}

// RemoveDictionary deletes a dictionary with all of its words and verdicts.
// The operation is performed within a transaction.
func (s *Store) RemoveDictionary(ctx context.Context, dict DictionaryInfo) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func(tx *sql.Tx) {
		_ = tx.Rollback()
	}(tx)

	if _, err = tx.ExecContext(ctx, "DELETE FROM lexicon_words WHERE dictionary_id = ?", dict.Id); err != nil {
		return fmt.Errorf("failed to remove words for dictionary %d: %w", dict.Id, err)
	}
	if _, err = tx.ExecContext(ctx, "DELETE FROM lexicon_verdicts WHERE dictionary_id = ?", dict.Id); err != nil {
		return fmt.Errorf("failed to remove verdicts for dictionary %d: %w", dict.Id, err)
	}
	if _, err = tx.ExecContext(ctx, "DELETE FROM lexicon_dictionaries WHERE dictionary_id = ?", dict.Id); err != nil {
		return fmt.Errorf("failed to remove dictionary %d: %w", dict.Id, err)
	}

	s.logger.InfoContext(ctx, "Dictionary removed successfully",
		slog.String("dictionary_name", dict.Name),
		slog.Int("dictionary_id", dict.Id),
	)

	return tx.Commit()
}

// ExportDictionary serializes a dictionary and its verdicts as JSON to w.
func (s *Store) ExportDictionary(ctx context.Context, dict DictionaryInfo, w io.Writer) error {
	entries, err := s.Entries(ctx, dict)
	if err != nil {
		return fmt.Errorf("could not query words for export: %w", err)
	}

	exported := ExportedDictionary{
		Name:     dict.Name,
		Words:    make([]ExportedWord, 0, len(entries)),
		Verdicts: []ExportedVerdict{},
	}
	for _, e := range entries {
		exported.Words = append(exported.Words, ExportedWord{Text: e.Text, Frequency: e.Frequency})
	}

	rows, err := s.db.QueryContext(ctx, "SELECT word_text, accepted FROM lexicon_verdicts WHERE dictionary_id = ? ORDER BY word_text", dict.Id)
	if err != nil {
		return fmt.Errorf("could not query verdicts for export: %w", err)
	}
	defer func(rows *sql.Rows) {
		_ = rows.Close()
	}(rows)
	for rows.Next() {
		var v ExportedVerdict
		if err := rows.Scan(&v.Text, &v.Accepted); err != nil {
			return err
		}
		exported.Verdicts = append(exported.Verdicts, v)
	}
	if err := rows.Err(); err != nil {
		return err
	}

	s.logger.InfoContext(ctx, "Dictionary exported",
		slog.String("dictionary_name", dict.Name),
		slog.Int("dictionary_id", dict.Id),
		slog.Int("words_exported", len(exported.Words)),
		slog.Int("verdicts_exported", len(exported.Verdicts)),
	)

	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(exported)
}

// ImportDictionary reads a JSON dictionary from r and merges it into the
// database. Word frequencies are added to any existing ones and verdicts
// overwrite existing verdicts for the same word. Words and verdicts go through
// norm like a word list import and are dropped when it rejects them; a nil norm
// uses NewNormalizer() defaults. The dictionary is created if needed. The
// entire operation is transactional.
func (s *Store) ImportDictionary(ctx context.Context, r io.Reader, norm *Normalizer) (DictionaryInfo, error) {
	if norm == nil {
		norm = NewNormalizer()
	}
	var imported ExportedDictionary
	if err := json.NewDecoder(r).Decode(&imported); err != nil {
		return DictionaryInfo{}, fmt.Errorf("failed to decode json dictionary: %w", err)
	}
	if imported.Name == "" {
		return DictionaryInfo{}, errors.New("imported dictionary has no name")
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return DictionaryInfo{}, fmt.Errorf("could not begin transaction for import: %w", err)
	}
	defer func(tx *sql.Tx) {
		_ = tx.Rollback()
	}(tx)

	var dictID int
	err = tx.QueryRowContext(ctx, "SELECT dictionary_id FROM lexicon_dictionaries WHERE dictionary_name = ?", imported.Name).Scan(&dictID)
	if errors.Is(err, sql.ErrNoRows) {
		res, err := tx.ExecContext(ctx, "INSERT INTO lexicon_dictionaries (dictionary_name) VALUES (?)", imported.Name)
		if err != nil {
			return DictionaryInfo{}, fmt.Errorf("failed to insert new dictionary '%s': %w", imported.Name, err)
		}
		newID, _ := res.LastInsertId()
		dictID = int(newID)
	} else if err != nil {
		return DictionaryInfo{}, fmt.Errorf("failed to query for dictionary '%s': %w", imported.Name, err)
	}

	stmtMergeWord, err := tx.PrepareContext(ctx, `
		INSERT INTO lexicon_words (dictionary_id, word_text, frequency) VALUES (?, ?, ?)
		ON CONFLICT(dictionary_id, word_text) DO UPDATE SET frequency = frequency + excluded.frequency;
	`)
	if err != nil {
		return DictionaryInfo{}, fmt.Errorf("failed to prepare word merge statement: %w", err)
	}
	defer func(stmt *sql.Stmt) {
		_ = stmt.Close()
	}(stmtMergeWord)

	skipped := 0
	for _, w := range imported.Words {
		if w.Frequency <= 0 {
			continue
		}
		text, ok := norm.Normalize(w.Text)
		if !ok {
			skipped++
			continue
		}
		if _, err = stmtMergeWord.ExecContext(ctx, dictID, text, w.Frequency); err != nil {
			return DictionaryInfo{}, fmt.Errorf("failed to merge word '%s': %w", text, err)
		}
	}

	stmtPutVerdict := tx.StmtContext(ctx, s.stmtPutVerdict)
	for _, v := range imported.Verdicts {
		text, ok := norm.Normalize(v.Text)
		if !ok {
			skipped++
			continue
		}
		if _, err = stmtPutVerdict.ExecContext(ctx, dictID, text, v.Accepted); err != nil {
			return DictionaryInfo{}, fmt.Errorf("failed to merge verdict for '%s': %w", text, err)
		}
	}

	s.logger.InfoContext(ctx, "Dictionary imported successfully",
		slog.String("dictionary_name", imported.Name),
		slog.Int("target_dictionary_id", dictID),
		slog.Int("words_merged", len(imported.Words)),
		slog.Int("verdicts_merged", len(imported.Verdicts)),
		slog.Int("skipped", skipped),
	)

	if err = tx.Commit(); err != nil {
		return DictionaryInfo{}, err
	}
	return DictionaryInfo{Id: dictID, Name: imported.Name}, nil
}
