package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/CTAG07/glossa/pkg/lexicon"
	"github.com/CTAG07/glossa/pkg/markov"
)

// reviewSummary counts the decisions taken during a review.
type reviewSummary struct {
	Rounds   int
	Accepted int
	Rejected int
	Skipped  int
}

// review asks the user about generated words and records the answers. It runs
// up to review_rounds rounds, each drawing fresh candidates from table. A
// rejected word is unlearned from table straight away, and an accepted one is
// learned again when train_accepted is set, so later rounds sample from the
// updated counts. Words that already have a verdict are not asked again.
func (a *App) review(ctx context.Context, dict lexicon.DictionaryInfo, table *markov.Table[rune]) (reviewSummary, error) {
	var summary reviewSummary

	known := make(map[string]struct{})
	for _, list := range []func(context.Context, lexicon.DictionaryInfo) ([]string, error){a.store.Accepted, a.store.Rejected} {
		decided, err := list(ctx, dict)
		if err != nil {
			return summary, err
		}
		for _, w := range decided {
			known[w] = struct{}{}
		}
	}

	rounds := max(a.config.Model.ReviewRounds, 1)
	in := bufio.NewReader(a.stdin)
	for summary.Rounds < rounds {
		words, err := a.novelWords(ctx, dict, table)
		if err != nil {
			return summary, err
		}
		var candidates []string
		for _, w := range words {
			if _, ok := known[w]; !ok {
				candidates = append(candidates, w)
				known[w] = struct{}{}
			}
		}
		if len(candidates) == 0 {
			break
		}
		summary.Rounds++

		done, err := a.reviewRound(ctx, dict, table, in, candidates, &summary)
		if err != nil || done {
			return summary, err
		}
	}
	return summary, nil
}

// reviewRound prompts for each candidate. It reports done when the user quits
// or the input ends.
func (a *App) reviewRound(ctx context.Context, dict lexicon.DictionaryInfo, table *markov.Table[rune], in *bufio.Reader, candidates []string, summary *reviewSummary) (bool, error) {
	for _, word := range candidates {
		choice, err := getChoice(in, a.stdout, fmt.Sprintf("Keep %q? [y/n/q] ", word))
		if err != nil {
			if errors.Is(err, io.EOF) {
				return true, nil
			}
			return true, err
		}

		switch choice {
		case "y", "yes":
			if err := a.store.RecordVerdict(ctx, dict, word, true); err != nil {
				return true, err
			}
			if a.config.Model.TrainAccepted {
				if err := table.Train([]rune(word)); err != nil {
					a.logger.WarnContext(ctx, "Could not learn accepted word", slog.String("word", word), slog.Any("error", err))
				}
			}
			summary.Accepted++
		case "n", "no":
			if err := a.store.RecordVerdict(ctx, dict, word, false); err != nil {
				return true, err
			}
			if err := table.Reject([]rune(word)); err != nil {
				a.logger.WarnContext(ctx, "Could not unlearn rejected word", slog.String("word", word), slog.Any("error", err))
			}
			summary.Rejected++
		case "q", "quit":
			return true, nil
		default:
			summary.Skipped++
		}
	}
	return false, nil
}

// getChoice prints msg and reads a single trimmed, lower-cased answer line.
func getChoice(in *bufio.Reader, out io.Writer, msg string) (string, error) {
	if _, err := fmt.Fprint(out, msg); err != nil {
		return "", err
	}
	line, err := in.ReadString('\n')
	if err != nil && (!errors.Is(err, io.EOF) || line == "") {
		return "", err
	}
	return strings.ToLower(strings.TrimSpace(line)), nil
}
