package main

import (
	"context"
	"fmt"
	"log/slog"
	"slices"

	"github.com/CTAG07/glossa/pkg/lexicon"
	"github.com/CTAG07/glossa/pkg/markov"
)

// buildTable creates a table from the model config and trains it on a
// dictionary. Each word is learned as many times as it was imported, accepted
// verdicts are learned once more when configured to, and rejected verdicts are
// unlearned last.
func (a *App) buildTable(ctx context.Context, dict lexicon.DictionaryInfo) (*markov.Table[rune], error) {
	if err := a.config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	cfg := a.config.Model

	opts := []markov.Option{
		markov.WithMaxLength(cfg.MaxLength),
		markov.WithLogger(a.logger),
	}
	if cfg.Seed != 0 {
		opts = append(opts, markov.WithSeed(cfg.Seed))
	}
	table, err := markov.NewRuneTable(cfg.ChainLength, cfg.Alphabet, opts...)
	if err != nil {
		return nil, fmt.Errorf("could not create table: %w", err)
	}

	entries, err := a.store.Entries(ctx, dict)
	if err != nil {
		return nil, fmt.Errorf("could not load words of '%s': %w", dict.Name, err)
	}
	skipped := 0
	for _, e := range entries {
		word := []rune(e.Text)
		for i := 0; i < e.Frequency; i++ {
			if err := table.Train(word); err != nil {
				// Words imported before the alphabet changed may not fit anymore.
				a.logger.DebugContext(ctx, "Word not trainable", slog.String("word", e.Text), slog.Any("error", err))
				skipped++
				break
			}
		}
	}

	if cfg.TrainAccepted {
		accepted, err := a.store.Accepted(ctx, dict)
		if err != nil {
			return nil, fmt.Errorf("could not load accepted words: %w", err)
		}
		for _, w := range accepted {
			if err := table.Train([]rune(w)); err != nil {
				a.logger.DebugContext(ctx, "Accepted word not trainable", slog.String("word", w), slog.Any("error", err))
				skipped++
			}
		}
	}

	rejected, err := a.store.Rejected(ctx, dict)
	if err != nil {
		return nil, fmt.Errorf("could not load rejected words: %w", err)
	}
	for _, w := range rejected {
		if err := table.Reject([]rune(w)); err != nil {
			a.logger.DebugContext(ctx, "Rejected word not trainable", slog.String("word", w), slog.Any("error", err))
			skipped++
		}
	}

	stats := table.Stats()
	a.logger.InfoContext(ctx, "Table trained",
		slog.String("dictionary_name", dict.Name),
		slog.Int("chain_length", cfg.ChainLength),
		slog.Int("words", len(entries)),
		slog.Int("skipped", skipped),
		slog.Int("rejected", len(rejected)),
		slog.Int("non_zero_cells", stats.NonZeroCells),
		slog.Int("total_frequency", stats.TotalFrequency),
	)
	return table, nil
}

// generateWords draws count words from the table and returns the non-empty
// ones in ascending order.
func generateWords(table *markov.Table[rune], count int) []string {
	words := make([]string, 0, count)
	for i := 0; i < count; i++ {
		if w := string(table.GenerateSequence()); w != "" {
			words = append(words, w)
		}
	}
	slices.Sort(words)
	return words
}

// novelWords generates words and keeps those missing from the dictionary.
func (a *App) novelWords(ctx context.Context, dict lexicon.DictionaryInfo, table *markov.Table[rune]) ([]string, error) {
	dictionary, err := a.store.Words(ctx, dict)
	if err != nil {
		return nil, fmt.Errorf("could not load words of '%s': %w", dict.Name, err)
	}
	generated := generateWords(table, a.config.Model.GeneratedCount)
	novel := lexicon.FilterNovel(generated, dictionary)

	a.logger.InfoContext(ctx, "Words generated",
		slog.String("dictionary_name", dict.Name),
		slog.Int("generated", len(generated)),
		slog.Int("novel", len(novel)),
	)
	return novel, nil
}
