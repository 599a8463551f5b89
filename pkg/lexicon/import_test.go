package lexicon

import (
	"context"
	"fmt"
	"reflect"
	"strings"
	"testing"

	"github.com/CTAG07/glossa/pkg/markov"
)

func TestImport(t *testing.T) {
	_, s := setupTestDB(t)
	ctx := context.Background()
	dict, _ := s.InsertDictionary(ctx, "import_test")

	alphabet, err := markov.RuneAlphabet("abcdefghijklmnopqrstuvwxyz")
	if err != nil {
		t.Fatalf("RuneAlphabet() error = %v", err)
	}
	norm := NewNormalizer(WithAlphabet(alphabet))

	wordList := "Zoe\nzoe\n\nchloé\no'brien\nmax\n  Ada  \n"
	result, err := s.Import(ctx, dict, strings.NewReader(wordList), norm)
	if err != nil {
		t.Fatalf("Import() failed: %v", err)
	}

	expected := ImportResult{Added: 3, Duplicates: 1, Skipped: 2}
	if result != expected {
		t.Errorf("Import() = %+v, want %+v", result, expected)
	}

	entries, err := s.Entries(ctx, dict)
	if err != nil {
		t.Fatalf("Entries() failed: %v", err)
	}
	want := []WordEntry{{"ada", 1}, {"max", 1}, {"zoe", 2}}
	if !reflect.DeepEqual(entries, want) {
		t.Errorf("Entries() = %+v, want %+v", entries, want)
	}

	ok, err := s.Contains(ctx, dict, "zoe")
	if err != nil || !ok {
		t.Errorf("Contains(zoe) = %v, %v; want true, nil", ok, err)
	}
	ok, _ = s.Contains(ctx, dict, "chloé")
	if ok {
		t.Error("expected skipped word not to be stored")
	}
}

func TestImportLargeList(t *testing.T) {
	_, s := setupTestDB(t)
	ctx := context.Background()
	dict, _ := s.InsertDictionary(ctx, "large")

	// More than one batch worth of words, with every word repeated once.
	var sb strings.Builder
	for i := 0; i < 1500; i++ {
		fmt.Fprintf(&sb, "w%04d\nw%04d\n", i, i)
	}
	result, err := s.Import(ctx, dict, strings.NewReader(sb.String()), nil)
	if err != nil {
		t.Fatalf("Import() failed: %v", err)
	}
	if result.Added != 1500 || result.Duplicates != 1500 {
		t.Errorf("Import() = %+v, want 1500 added and 1500 duplicates", result)
	}
}

func BenchmarkImport(b *testing.B) {
	var sb strings.Builder
	for i := 0; i < 5000; i++ {
		fmt.Fprintf(&sb, "word%d\n", i)
	}
	corpus := sb.String()
	ctx := context.Background()

	_, s := setupTestDB(b)

	b.SetBytes(int64(len(corpus)))
	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		dict, err := s.InsertDictionary(ctx, fmt.Sprintf("bench_%d", i))
		if err != nil {
			b.Fatalf("InsertDictionary() failed: %v", err)
		}
		if _, err := s.Import(ctx, dict, strings.NewReader(corpus), nil); err != nil {
			b.Fatalf("Import() failed: %v", err)
		}
	}
}
