package lexicon

import (
	"context"
	"database/sql"
	"path/filepath"
	"strings"
	"testing"

	_ "github.com/mattn/go-sqlite3"
)

// setupTestDB creates a new SQLite database file and a Store for testing or
// benchmarking. It uses Cleanup to ensure resources are released.
func setupTestDB(t testing.TB) (*sql.DB, *Store) {
	dbFile := filepath.Join(t.TempDir(), "test.db")
	db, err := sql.Open("sqlite3", dbFile+"?_journal_mode=WAL&_synchronous=NORMAL&_cache_size=-4000")
	if err != nil {
		t.Fatalf("failed to open database: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	if err := SetupSchema(db); err != nil {
		t.Fatalf("failed to set up schema: %v", err)
	}

	s, err := NewStore(db)
	if err != nil {
		t.Fatalf("NewStore() error = %v", err)
	}
	t.Cleanup(s.Close)

	return db, s
}

// setupTestDBWithWords is a convenience helper that also imports a default
// dictionary.
func setupTestDBWithWords(t *testing.T) (context.Context, *Store, DictionaryInfo) {
	_, s := setupTestDB(t)
	ctx := context.Background()

	dict, err := s.InsertDictionary(ctx, "test_names")
	if err != nil {
		t.Fatalf("setup: InsertDictionary() failed: %v", err)
	}
	wordList := "Anna\nhannah\nbanana\nanna\nsavannah\n"
	if _, err := s.Import(ctx, dict, strings.NewReader(wordList), nil); err != nil {
		t.Fatalf("setup: Import() failed: %v", err)
	}
	return ctx, s, dict
}
