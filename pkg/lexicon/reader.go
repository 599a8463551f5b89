package lexicon

import (
	"bufio"
	"errors"
	"io"
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/CTAG07/glossa/pkg/markov"
)

// defaultWordRegex splits a line into runs of non-space characters.
var defaultWordRegex = regexp.MustCompile(`\S+`)

// ReaderOption configures a WordReader.
type ReaderOption func(*WordReader)

// WithWordRegex sets the regex used to find words within a line.
// Default: `\S+`
func WithWordRegex(expr string) ReaderOption {
	return func(r *WordReader) {
		r.wordRegex = regexp.MustCompile(expr)
	}
}

// WithCommentPrefix makes the reader ignore lines starting with prefix, after
// leading spaces. An empty prefix disables comments, which is the default.
func WithCommentPrefix(prefix string) ReaderOption {
	return func(r *WordReader) {
		r.commentPrefix = prefix
	}
}

// WordReader streams the words of a word list, one or more per line.
type WordReader struct {
	scanner       *bufio.Scanner
	buffer        []string
	wordRegex     *regexp.Regexp
	commentPrefix string
}

// NewWordReader returns a WordReader over r.
func NewWordReader(r io.Reader, opts ...ReaderOption) *WordReader {
	wr := &WordReader{
		scanner:   bufio.NewScanner(r),
		wordRegex: defaultWordRegex,
	}
	for _, opt := range opts {
		opt(wr)
	}
	return wr
}

// Next returns the next word of the stream. When the stream is exhausted it
// returns io.EOF. Any other error comes from the underlying reader.
func (r *WordReader) Next() (string, error) {
	for len(r.buffer) == 0 {
		if !r.scanner.Scan() {
			if err := r.scanner.Err(); err != nil {
				return "", err
			}
			return "", io.EOF
		}
		line := r.scanner.Text()
		if r.commentPrefix != "" && strings.HasPrefix(strings.TrimSpace(line), r.commentPrefix) {
			continue
		}
		r.buffer = r.wordRegex.FindAllString(line, -1)
	}

	word := r.buffer[0]
	r.buffer = r.buffer[1:]
	return word, nil
}

// ReadAll drains the reader and returns every remaining word.
func (r *WordReader) ReadAll() ([]string, error) {
	var words []string
	for {
		w, err := r.Next()
		if errors.Is(err, io.EOF) {
			return words, nil
		}
		if err != nil {
			return words, err
		}
		words = append(words, w)
	}
}

// NormalizerOption configures a Normalizer.
type NormalizerOption func(*Normalizer)

// WithLowercase sets whether words are lower-cased. Default: true
func WithLowercase(lower bool) NormalizerOption {
	return func(n *Normalizer) { n.lowercase = lower }
}

// WithAlphabet restricts accepted words to those made only of the alphabet's
// symbols. By default any rune is accepted.
func WithAlphabet(alphabet *markov.Alphabet[rune]) NormalizerOption {
	return func(n *Normalizer) { n.alphabet = alphabet }
}

// WithLengthRange restricts accepted words to between minLen and maxLen
// runes. A maxLen of 0 or less means no upper bound.
func WithLengthRange(minLen, maxLen int) NormalizerOption {
	return func(n *Normalizer) {
		n.minLength = minLen
		n.maxLength = maxLen
	}
}

// Normalizer turns raw words into the form stored in a dictionary and used to
// train a table, rejecting those that cannot be represented.
type Normalizer struct {
	lowercase bool
	alphabet  *markov.Alphabet[rune]
	minLength int
	maxLength int
}

// NewNormalizer creates a Normalizer with default settings, which can be
// overridden by providing one or more NormalizerOption functions.
func NewNormalizer(opts ...NormalizerOption) *Normalizer {
	n := &Normalizer{
		lowercase: true,
		minLength: 1,
	}
	for _, opt := range opts {
		opt(n)
	}
	return n
}

// Normalize trims and optionally lower-cases word. The boolean is false when
// the result is outside the length range or holds a rune missing from the
// alphabet.
func (n *Normalizer) Normalize(word string) (string, bool) {
	word = strings.TrimSpace(word)
	if n.lowercase {
		word = strings.ToLower(word)
	}

	length := utf8.RuneCountInString(word)
	if length < n.minLength || (n.maxLength > 0 && length > n.maxLength) {
		return "", false
	}
	if n.alphabet != nil {
		for _, r := range word {
			if !n.alphabet.Contains(r) {
				return "", false
			}
		}
	}
	return word, true
}
