package change

import (
	"errors"
	"fmt"
	"io"
	"regexp"
	"strings"

	"github.com/lexdrift/lexdrift/internal/cluster"
	"github.com/lexdrift/lexdrift/internal/corpus"
)

const (
	// DefaultPreference is the affinity propagation preference used for
	// every word, fixed so cluster granularity is comparable across words.
	DefaultPreference = -430

	// kmeansSeed fixes k-means initialization for reproducible runs.
	kmeansSeed = 0
)

// ErrEmptySlice reports that a time slice has no surviving occurrences
// after filtering, leaving centroids and clusters undefined for the word.
var ErrEmptySlice = errors.New("no occurrences survived filtering")

// posSuffixes are part-of-speech tags appended to SemEval-style target
// words (e.g. "plane_nn"); they are stripped before sentence matching.
var posSuffixes = []string{"_nn", "_vb"}

// Analyzer runs the per-word semantic-change pipeline. Zero value is not
// usable; construct with NewAnalyzer.
type Analyzer struct {
	preference     float64
	onePerSentence bool
	runDBSCAN      bool
	verbose        io.Writer
}

// Option configures an Analyzer.
type Option func(*Analyzer)

// WithPreference overrides the affinity propagation preference.
func WithPreference(p float64) Option {
	return func(a *Analyzer) { a.preference = p }
}

// WithOneEmbeddingPerSentence keeps only the first occurrence per distinct
// sentence within each time slice.
func WithOneEmbeddingPerSentence(on bool) Option {
	return func(a *Analyzer) { a.onePerSentence = on }
}

// WithDBSCAN additionally runs density-based clustering. Its labels are
// recorded but its divergence never enters the ranked results table.
func WithDBSCAN(on bool) Option {
	return func(a *Analyzer) { a.runDBSCAN = on }
}

// WithVerbose writes per-word diagnostics (occurrence counts, cluster
// counts, mean pairwise distance) to w.
func WithVerbose(w io.Writer) Option {
	return func(a *Analyzer) { a.verbose = w }
}

// NewAnalyzer creates an Analyzer with the default fixed preference.
func NewAnalyzer(opts ...Option) *Analyzer {
	a := &Analyzer{preference: DefaultPreference}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// AnalyzeWord runs the full pipeline for one word: filter, dedupe, pool,
// cluster with every enabled strategy, and score. Errors are local to the
// word; callers skip the word and continue with the rest.
func (a *Analyzer) AnalyzeWord(word string, rec WordRecord) (*WordResult, error) {
	matcher, err := wordMatcher(word)
	if err != nil {
		return nil, fmt.Errorf("building matcher for %q: %w", word, err)
	}

	t1, zeros1 := a.filterSlice(rec.T1, matcher)
	t2, zeros2 := a.filterSlice(rec.T2, matcher)
	if len(t1) == 0 {
		return nil, fmt.Errorf("%s slice of %q: %w", SliceT1, word, ErrEmptySlice)
	}
	if len(t2) == 0 {
		return nil, fmt.Errorf("%s slice of %q: %w", SliceT2, word, ErrEmptySlice)
	}

	vecs1, sents1 := splitOccurrences(t1)
	vecs2, sents2 := splitOccurrences(t2)

	a.logf("%s: %d t1 occurrences, %d t2 occurrences", word, len(vecs1), len(vecs2))
	if a.verbose != nil {
		if mean, err := MeanPairwiseCosineDistance(vecs1, vecs2); err == nil {
			a.logf("%s: mean pairwise cosine distance %.4f", word, mean)
		}
	}

	averaging, err := AveragedEmbeddingDistance(vecs1, vecs2)
	if err != nil {
		return nil, fmt.Errorf("averaged distance for %q: %w", word, err)
	}

	pooled := PooledSet{
		Vectors: append(append([][]float32{}, vecs1...), vecs2...),
		Split:   len(vecs1),
	}

	res := &WordResult{
		Word:        word,
		Divergences: make(map[string]float64),
		Labels:      make(map[string]SliceLabels),
		Centroids:   make(map[string][][]float32),
		Averaging:   averaging,
		Sentences:   SliceSentences{T1: sents1, T2: sents2},
		ZeroDropped: zeros1 + zeros2,
	}

	apLabels, apExemplars, err := cluster.AffinityPropagation(pooled.Vectors, cluster.WithPreference(a.preference))
	if err != nil {
		return nil, fmt.Errorf("affinity propagation for %q: %w", word, err)
	}
	res.AffPropClusters = DistinctLabels(apLabels)
	a.logf("%s: affinity propagation found %d clusters", word, res.AffPropClusters)
	a.record(res, StrategyAffProp, pooled, apLabels, apExemplars)

	for _, k := range []int{5, 7} {
		name := StrategyKMeans5
		if k == 7 {
			name = StrategyKMeans7
		}
		labels, centroids, err := cluster.KMeans(pooled.Vectors, k, kmeansSeed)
		if err != nil {
			return nil, fmt.Errorf("k-means k=%d for %q: %w", k, word, err)
		}
		a.record(res, name, pooled, labels, centroids)
	}

	if a.runDBSCAN {
		labels, err := cluster.DBSCAN(pooled.Vectors, cluster.DefaultEps, cluster.DefaultMinPoints)
		if err != nil {
			return nil, fmt.Errorf("dbscan for %q: %w", word, err)
		}
		a.logf("%s: dbscan found %d clusters", word, DistinctLabels(labels))
		a.record(res, StrategyDBSCAN, pooled, labels, nil)
	}

	return res, nil
}

// record splits a strategy's pooled labels by time slice, stores them, and
// computes the strategy's divergence.
func (a *Analyzer) record(res *WordResult, strategy string, pooled PooledSet, labels []int, centroids [][]float32) {
	l1, l2 := pooled.SplitLabels(labels)
	res.Labels[strategy] = SliceLabels{
		T1: append([]int(nil), l1...),
		T2: append([]int(nil), l2...),
	}
	if centroids != nil {
		res.Centroids[strategy] = centroids
	}
	jsd := DivergenceFromLabels(l1, l2)
	res.Divergences[strategy] = jsd
	a.logf("%s: %s JSD %.4f", res.Word, strategy, jsd)
}

// filterSlice keeps occurrences whose sentence contains the target word
// as a whole word, drops all-zero vectors (cosine math is undefined on
// them), and applies the per-sentence dedupe when enabled. Zero-vector
// occurrences do not count as seen, so a later valid duplicate of the
// same sentence still survives. Returns the survivors and the count of
// zero-vector drops.
func (a *Analyzer) filterSlice(occs []Occurrence, matcher *regexp.Regexp) ([]Occurrence, int) {
	var kept []Occurrence
	var zeros int
	seen := make(map[string]struct{})
	for _, occ := range occs {
		if !matcher.MatchString(occ.Sentence) {
			continue
		}
		if isZeroVector(occ.Vector) {
			zeros++
			continue
		}
		if a.onePerSentence {
			if _, dup := seen[occ.Sentence]; dup {
				continue
			}
			seen[occ.Sentence] = struct{}{}
		}
		kept = append(kept, occ)
	}
	return kept, zeros
}

// BaseWord strips any part-of-speech suffix from a target word, mapping
// "plane_nn" to "plane".
func BaseWord(word string) string {
	for _, suffix := range posSuffixes {
		word = strings.TrimSuffix(word, suffix)
	}
	return word
}

// wordMatcher builds a whole-word matcher for the target word with any
// part-of-speech suffix stripped, so "plane_nn" matches "the plane landed"
// but not "airplane noise".
func wordMatcher(word string) (*regexp.Regexp, error) {
	return corpus.WholeWordMatcher(BaseWord(word))
}

func (a *Analyzer) logf(format string, args ...interface{}) {
	if a.verbose != nil {
		fmt.Fprintf(a.verbose, format+"\n", args...)
	}
}

func splitOccurrences(occs []Occurrence) ([][]float32, []string) {
	vecs := make([][]float32, len(occs))
	sents := make([]string, len(occs))
	for i, occ := range occs {
		vecs[i] = occ.Vector
		sents[i] = occ.Sentence
	}
	return vecs, sents
}
