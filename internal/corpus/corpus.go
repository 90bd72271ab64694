// Package corpus reads time-sliced, sentence-per-line corpus files for
// the extraction step.
package corpus

import (
	"bufio"
	"compress/gzip"
	"fmt"
	"io"
	"os"
	"regexp"
	"strings"
)

// maxSentenceBytes bounds the line scanner; corpus sentences beyond this
// are almost certainly concatenation artifacts.
const maxSentenceBytes = 1 << 20

// ReadSentences reads one sentence per line from path, decompressing
// transparently when the file ends in .gz. Blank lines are skipped.
func ReadSentences(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening corpus: %w", err)
	}
	defer f.Close()

	var r io.Reader = f
	if strings.HasSuffix(path, ".gz") {
		gz, err := gzip.NewReader(f)
		if err != nil {
			return nil, fmt.Errorf("opening gzip corpus: %w", err)
		}
		defer gz.Close()
		r = gz
	}

	var sentences []string
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 64*1024), maxSentenceBytes)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		sentences = append(sentences, line)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("reading corpus: %w", err)
	}
	return sentences, nil
}

// WholeWordMatcher compiles a matcher for word bounded by non-word runes
// on both sides. RE2's \b is ASCII-only, which would reject words with
// non-ASCII edge letters ("må", "größe"), so the boundaries are spelled
// out over Unicode letter, digit and underscore classes.
func WholeWordMatcher(word string) (*regexp.Regexp, error) {
	return regexp.Compile(`(?:^|[^\p{L}\p{N}_])` + regexp.QuoteMeta(word) + `(?:$|[^\p{L}\p{N}_])`)
}

// FindOccurrences returns the sentences containing word as a whole word,
// one entry per matching sentence.
func FindOccurrences(sentences []string, word string) ([]string, error) {
	matcher, err := WholeWordMatcher(word)
	if err != nil {
		return nil, fmt.Errorf("building matcher for %q: %w", word, err)
	}
	var hits []string
	for _, s := range sentences {
		if matcher.MatchString(s) {
			hits = append(hits, s)
		}
	}
	return hits, nil
}

// ReadWordList reads a target-word list, one word per line, ignoring
// blanks and #-comments.
func ReadWordList(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening word list: %w", err)
	}
	defer f.Close()

	var words []string
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		words = append(words, line)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("reading word list: %w", err)
	}
	return words, nil
}
