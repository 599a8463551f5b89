package lexicon

import (
	"database/sql"
	"fmt"
	"io"
	"log/slog"
)

// SetupSchema initializes the tables used by the Store. It should be called
// once on a new database before any other operation, and is idempotent.
func SetupSchema(db *sql.DB) error {

	const (
		schemaDictionaries = `
CREATE TABLE IF NOT EXISTS lexicon_dictionaries (
    dictionary_id INTEGER PRIMARY KEY,
    dictionary_name TEXT NOT NULL UNIQUE
);
`
		schemaWords = `
CREATE TABLE IF NOT EXISTS lexicon_words (
    dictionary_id INTEGER NOT NULL,
    word_text TEXT NOT NULL,
    frequency INTEGER NOT NULL DEFAULT 1,
    PRIMARY KEY (dictionary_id, word_text)
);
`
		schemaVerdicts = `
CREATE TABLE IF NOT EXISTS lexicon_verdicts (
    dictionary_id INTEGER NOT NULL,
    word_text TEXT NOT NULL,
    accepted INTEGER NOT NULL,
    PRIMARY KEY (dictionary_id, word_text)
);
`
	)

	tx, err := db.Begin()
	if err != nil {
		return fmt.Errorf("could not begin transaction: %w", err)
	}
	defer func(tx *sql.Tx) {
		_ = tx.Rollback()
	}(tx)

	if _, err = tx.Exec(schemaDictionaries); err != nil {
		return fmt.Errorf("could not create dictionaries schema: %w", err)
	}
	if _, err = tx.Exec(schemaWords); err != nil {
		return fmt.Errorf("could not create words schema: %w", err)
	}
	if _, err = tx.Exec(schemaVerdicts); err != nil {
		return fmt.Errorf("could not create verdicts schema: %w", err)
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("could not commit transaction: %w", err)
	}
	return nil
}

// Store is the entry point for reading and writing dictionaries. It holds the
// database connection and the prepared statements used by its methods.
type Store struct {
	db                   *sql.DB
	stmtGetDictionary    *sql.Stmt
	stmtListDictionaries *sql.Stmt
	stmtAddDictionary    *sql.Stmt
	stmtGetWords         *sql.Stmt
	stmtContainsWord     *sql.Stmt
	stmtPutVerdict       *sql.Stmt
	stmtGetVerdicts      *sql.Stmt
	stmtWordCounts       *sql.Stmt
	stmtVerdictCounts    *sql.Stmt
	logger               *slog.Logger
}

// NewStore creates a Store over db, whose schema must already be set up. It
// returns an error if any statement fails to prepare.
func NewStore(db *sql.DB) (*Store, error) {
	s := &Store{
		db:     db,
		logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
	}

	statements := []struct {
		dst   **sql.Stmt
		query string
	}{
		{&s.stmtGetDictionary, `SELECT dictionary_id FROM lexicon_dictionaries WHERE dictionary_name = ?;`},
		{&s.stmtListDictionaries, `SELECT dictionary_id, dictionary_name FROM lexicon_dictionaries ORDER BY dictionary_name;`},
		{&s.stmtAddDictionary, `INSERT INTO lexicon_dictionaries (dictionary_name) VALUES (?);`},
		{&s.stmtGetWords, `SELECT word_text, frequency FROM lexicon_words WHERE dictionary_id = ? ORDER BY word_text;`},
		{&s.stmtContainsWord, `SELECT COUNT(*) FROM lexicon_words WHERE dictionary_id = ? AND word_text = ?;`},
		{&s.stmtPutVerdict, `INSERT INTO lexicon_verdicts (dictionary_id, word_text, accepted) VALUES (?, ?, ?) ON CONFLICT(dictionary_id, word_text) DO UPDATE SET accepted = excluded.accepted;`},
		{&s.stmtGetVerdicts, `SELECT word_text FROM lexicon_verdicts WHERE dictionary_id = ? AND accepted = ? ORDER BY word_text;`},
		{&s.stmtWordCounts, `SELECT COUNT(*), coalesce(SUM(frequency), 0) FROM lexicon_words WHERE dictionary_id = ?;`},
		{&s.stmtVerdictCounts, `SELECT coalesce(SUM(accepted), 0), coalesce(SUM(1 - accepted), 0) FROM lexicon_verdicts WHERE dictionary_id = ?;`},
	}

	for _, st := range statements {
		stmt, err := db.Prepare(st.query)
		if err != nil {
			s.Close()
			return nil, fmt.Errorf("could not prepare statement %q: %w", st.query, err)
		}
		*st.dst = stmt
	}
	return s, nil
}

// Close releases all prepared statements held by the Store.
func (s *Store) Close() {
	for _, stmt := range []*sql.Stmt{
		s.stmtGetDictionary,
		s.stmtListDictionaries,
		s.stmtAddDictionary,
		s.stmtGetWords,
		s.stmtContainsWord,
		s.stmtPutVerdict,
		s.stmtGetVerdicts,
		s.stmtWordCounts,
		s.stmtVerdictCounts,
	} {
		if stmt != nil {
			_ = stmt.Close()
		}
	}
}

// SetLogger sets the logger for the Store. By default, all logs are discarded.
func (s *Store) SetLogger(logger *slog.Logger) {
	if logger != nil {
		s.logger = logger
	}
}
