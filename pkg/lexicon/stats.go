package lexicon

import (
	"context"
	"slices"
	"strings"
)

// DBStats holds aggregated statistics for every dictionary in the database.
type DBStats struct {
	Dictionaries []DictionaryInfo        // Dictionaries, sorted by name
	Stats        map[int]DictionaryStats // A mapping of dictionary ids to their stats
}

// DictionaryStats holds aggregated statistics for a single dictionary.
type DictionaryStats struct {
	DistinctWords int // The number of unique words.
	TotalWords    int // The sum of word frequencies; the number of imported lines.
	Accepted      int // The number of generated words accepted by a reviewer.
	Rejected      int // The number of generated words rejected by a reviewer.
}

// GetStats returns a snapshot of statistics for every dictionary.
func (s *Store) GetStats(ctx context.Context) (*DBStats, error) {
	infos, err := s.GetDictionaryInfos(ctx)
	if err != nil {
		return nil, err
	}

	stats := &DBStats{
		Dictionaries: make([]DictionaryInfo, 0, len(infos)),
		Stats:        make(map[int]DictionaryStats, len(infos)),
	}
	for _, info := range infos {
		var ds DictionaryStats
		if err = s.stmtWordCounts.QueryRowContext(ctx, info.Id).Scan(&ds.DistinctWords, &ds.TotalWords); err != nil {
			return nil, err
		}
		if err = s.stmtVerdictCounts.QueryRowContext(ctx, info.Id).Scan(&ds.Accepted, &ds.Rejected); err != nil {
			return nil, err
		}
		stats.Dictionaries = append(stats.Dictionaries, info)
		stats.Stats[info.Id] = ds
	}
	slices.SortFunc(stats.Dictionaries, func(a, b DictionaryInfo) int {
		return strings.Compare(a.Name, b.Name)
	})
	return stats, nil
}
