package lexicon

import (
	"bytes"
	"context"
	"database/sql"
	"errors"
	"reflect"
	"strings"
	"testing"

	"github.com/CTAG07/glossa/pkg/markov"
)

func TestSetupSchemaIsIdempotent(t *testing.T) {
	db, _ := setupTestDB(t)
	if err := SetupSchema(db); err != nil {
		t.Fatalf("second SetupSchema() failed: %v", err)
	}
}

func TestInsertAndGetDictionaryInfo(t *testing.T) {
	_, s := setupTestDB(t)
	ctx := context.Background()

	inserted, err := s.InsertDictionary(ctx, "first_names")
	if err != nil {
		t.Fatalf("InsertDictionary() failed: %v", err)
	}

	d, err := s.GetDictionaryInfo(ctx, "first_names")
	if err != nil {
		t.Fatalf("GetDictionaryInfo: expected no error, got %v", err)
	}
	if d != inserted {
		t.Errorf("got %+v, want %+v", d, inserted)
	}

	_, err = s.GetDictionaryInfo(ctx, "nonexistent")
	if !errors.Is(err, sql.ErrNoRows) {
		t.Errorf("expected sql.ErrNoRows for nonexistent dictionary, got %v", err)
	}

	if _, err = s.InsertDictionary(ctx, "first_names"); err == nil {
		t.Error("expected an error when inserting a duplicate dictionary name, but got nil")
	}

	again, err := s.GetOrInsertDictionary(ctx, "first_names")
	if err != nil || again != inserted {
		t.Errorf("GetOrInsertDictionary() = %+v, %v; want %+v, nil", again, err, inserted)
	}
	created, err := s.GetOrInsertDictionary(ctx, "last_names")
	if err != nil || created.Id == inserted.Id {
		t.Errorf("GetOrInsertDictionary() for a new name = %+v, %v", created, err)
	}
}

func TestGetDictionaryInfos(t *testing.T) {
	_, s := setupTestDB(t)
	ctx := context.Background()

	_, _ = s.InsertDictionary(ctx, "first_names")
	_, _ = s.InsertDictionary(ctx, "last_names")

	infos, err := s.GetDictionaryInfos(ctx)
	if err != nil {
		t.Fatalf("GetDictionaryInfos() failed: %v", err)
	}
	if len(infos) != 2 {
		t.Errorf("expected 2 dictionaries, got %d", len(infos))
	}
	for _, name := range []string{"first_names", "last_names"} {
		if _, ok := infos[name]; !ok {
			t.Errorf("expected to find '%s'", name)
		}
	}
}

func TestRemoveDictionary(t *testing.T) {
	db, s := setupTestDB(t)
	ctx := context.Background()

	d1, _ := s.InsertDictionary(ctx, "to_delete")
	d2, _ := s.InsertDictionary(ctx, "to_keep")
	_, _ = s.Import(ctx, d1, strings.NewReader("delete\nthese\n"), nil)
	_, _ = s.Import(ctx, d2, strings.NewReader("keep\nthese\n"), nil)
	_ = s.RecordVerdict(ctx, d1, "thesa", false)

	if err := s.RemoveDictionary(ctx, d1); err != nil {
		t.Fatalf("RemoveDictionary() failed: %v", err)
	}

	if _, err := s.GetDictionaryInfo(ctx, d1.Name); !errors.Is(err, sql.ErrNoRows) {
		t.Errorf("expected ErrNoRows for deleted dictionary, got %v", err)
	}

	var count int
	_ = db.QueryRowContext(ctx, "SELECT COUNT(*) FROM lexicon_words WHERE dictionary_id = ?", d1.Id).Scan(&count)
	if count != 0 {
		t.Errorf("expected 0 words for deleted dictionary, found %d", count)
	}
	_ = db.QueryRowContext(ctx, "SELECT COUNT(*) FROM lexicon_verdicts WHERE dictionary_id = ?", d1.Id).Scan(&count)
	if count != 0 {
		t.Errorf("expected 0 verdicts for deleted dictionary, found %d", count)
	}

	words, err := s.Words(ctx, d2)
	if err != nil {
		t.Fatalf("Words() failed: %v", err)
	}
	if !reflect.DeepEqual(words, []string{"keep", "these"}) {
		t.Errorf("expected kept dictionary to be intact, got %v", words)
	}
}

func TestVerdicts(t *testing.T) {
	ctx, s, dict := setupTestDBWithWords(t)

	_ = s.RecordVerdict(ctx, dict, "hanna", true)
	_ = s.RecordVerdict(ctx, dict, "bannah", false)
	_ = s.RecordVerdict(ctx, dict, "sanna", false)
	// A later verdict replaces an earlier one.
	if err := s.RecordVerdict(ctx, dict, "sanna", true); err != nil {
		t.Fatalf("RecordVerdict() failed: %v", err)
	}

	accepted, err := s.Accepted(ctx, dict)
	if err != nil {
		t.Fatalf("Accepted() failed: %v", err)
	}
	if !reflect.DeepEqual(accepted, []string{"hanna", "sanna"}) {
		t.Errorf("Accepted() = %v", accepted)
	}

	rejected, err := s.Rejected(ctx, dict)
	if err != nil {
		t.Fatalf("Rejected() failed: %v", err)
	}
	if !reflect.DeepEqual(rejected, []string{"bannah"}) {
		t.Errorf("Rejected() = %v", rejected)
	}
}

func TestGetStats(t *testing.T) {
	ctx, s, dict := setupTestDBWithWords(t)
	_, _ = s.InsertDictionary(ctx, "empty")
	_ = s.RecordVerdict(ctx, dict, "hanna", true)
	_ = s.RecordVerdict(ctx, dict, "bannah", false)

	stats, err := s.GetStats(ctx)
	if err != nil {
		t.Fatalf("GetStats() failed: %v", err)
	}
	if len(stats.Dictionaries) != 2 || stats.Dictionaries[0].Name != "empty" {
		t.Fatalf("unexpected dictionaries %+v", stats.Dictionaries)
	}

	expected := DictionaryStats{DistinctWords: 4, TotalWords: 5, Accepted: 1, Rejected: 1}
	if got := stats.Stats[dict.Id]; got != expected {
		t.Errorf("stats = %+v, want %+v", got, expected)
	}
	if got := stats.Stats[stats.Dictionaries[0].Id]; got != (DictionaryStats{}) {
		t.Errorf("expected empty stats for an empty dictionary, got %+v", got)
	}
}

func TestExportImportRoundTrip(t *testing.T) {
	ctx, s, dict := setupTestDBWithWords(t)
	_ = s.RecordVerdict(ctx, dict, "hanna", true)
	_ = s.RecordVerdict(ctx, dict, "bannah", false)

	var buf bytes.Buffer
	if err := s.ExportDictionary(ctx, dict, &buf); err != nil {
		t.Fatalf("ExportDictionary() failed: %v", err)
	}
	exported := buf.String()

	_, s2 := setupTestDB(t)
	imported, err := s2.ImportDictionary(ctx, strings.NewReader(exported), nil)
	if err != nil {
		t.Fatalf("ImportDictionary() failed: %v", err)
	}
	if imported.Name != dict.Name {
		t.Errorf("imported name = %q, want %q", imported.Name, dict.Name)
	}

	original, _ := s.Entries(ctx, dict)
	copied, err := s2.Entries(ctx, imported)
	if err != nil {
		t.Fatalf("Entries() failed: %v", err)
	}
	if !reflect.DeepEqual(original, copied) {
		t.Errorf("entries differ after round trip:\n got %+v\nwant %+v", copied, original)
	}
	rejected, _ := s2.Rejected(ctx, imported)
	if !reflect.DeepEqual(rejected, []string{"bannah"}) {
		t.Errorf("Rejected() after import = %v", rejected)
	}

	// Importing again merges frequencies.
	if _, err := s2.ImportDictionary(ctx, strings.NewReader(exported), nil); err != nil {
		t.Fatalf("second ImportDictionary() failed: %v", err)
	}
	merged, _ := s2.Entries(ctx, imported)
	for i := range merged {
		if merged[i].Frequency != 2*original[i].Frequency {
			t.Errorf("word %q frequency = %d, want %d", merged[i].Text, merged[i].Frequency, 2*original[i].Frequency)
		}
	}
}

func TestImportDictionaryRejectsBadInput(t *testing.T) {
	_, s := setupTestDB(t)
	ctx := context.Background()

	if _, err := s.ImportDictionary(ctx, strings.NewReader("{not json"), nil); err == nil {
		t.Error("expected an error for malformed json")
	}
	if _, err := s.ImportDictionary(ctx, strings.NewReader(`{"words": []}`), nil); err == nil {
		t.Error("expected an error for a dictionary without a name")
	}
}

func TestImportDictionaryNormalizesWords(t *testing.T) {
	_, s := setupTestDB(t)
	ctx := context.Background()

	alphabet, err := markov.RuneAlphabet("abcdefghijklmnopqrstuvwxyz")
	if err != nil {
		t.Fatal(err)
	}
	norm := NewNormalizer(WithAlphabet(alphabet))

	input := `{
		"name": "mixed",
		"words": [
			{"text": "Zebra", "frequency": 1},
			{"text": "apple", "frequency": 2},
			{"text": "APPLE", "frequency": 1},
			{"text": "don't", "frequency": 1}
		],
		"verdicts": [
			{"text": "Zeb", "accepted": false},
			{"text": "x-ray", "accepted": true}
		]
	}`
	dict, err := s.ImportDictionary(ctx, strings.NewReader(input), norm)
	if err != nil {
		t.Fatalf("ImportDictionary() failed: %v", err)
	}

	entries, err := s.Entries(ctx, dict)
	if err != nil {
		t.Fatalf("Entries() failed: %v", err)
	}
	want := []WordEntry{{Text: "apple", Frequency: 3}, {Text: "zebra", Frequency: 1}}
	if !reflect.DeepEqual(entries, want) {
		t.Errorf("Entries() = %+v, want %+v", entries, want)
	}
	rejected, _ := s.Rejected(ctx, dict)
	if !reflect.DeepEqual(rejected, []string{"zeb"}) {
		t.Errorf("Rejected() = %v, want [zeb]", rejected)
	}
	accepted, _ := s.Accepted(ctx, dict)
	if len(accepted) != 0 {
		t.Errorf("Accepted() = %v, want none", accepted)
	}

	// Normalized words keep the dictionary usable by FilterNovel.
	words, _ := s.Words(ctx, dict)
	if got := FilterNovel([]string{"apple", "zebra", "zed"}, words); !reflect.DeepEqual(got, []string{"zed"}) {
		t.Errorf("FilterNovel() = %v, want [zed]", got)
	}
}
