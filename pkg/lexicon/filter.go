package lexicon

import (
	"strings"
)

// FilterNovel returns the generated words that do not appear in dictionary,
// comparing case-insensitively. Both slices must be sorted in ascending
// lower-case order; the result keeps the order and duplicates of generated.
func FilterNovel(generated, dictionary []string) []string {
	var result []string

	i, j := 0, 0
	for i < len(generated) && j < len(dictionary) {
		comp := strings.Compare(strings.ToLower(generated[i]), strings.ToLower(dictionary[j]))
		switch {
		case comp < 0:
			result = append(result, generated[i])
			i++
		case comp == 0:
			i++
		default:
			j++
		}
	}
	// Whatever sorts after the last dictionary word is novel too.
	return append(result, generated[i:]...)
}
