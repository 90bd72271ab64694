// Package results accumulates per-word semantic-change scores and
// persists them incrementally: after every word the full sorted score
// table and the label/centroid/sentence maps are rewritten whole, so
// every on-disk snapshot is a complete, correctly sorted view of the run
// so far.
package results

import (
	"fmt"
	"sort"

	"github.com/lexdrift/lexdrift/internal/change"
)

// Row is one line of the score table.
type Row struct {
	Word            string  `json:"word"`
	AffProp         float64 `json:"aff_prop"`
	KMeans5         float64 `json:"kmeans_5"`
	KMeans7         float64 `json:"kmeans_7"`
	Averaging       float64 `json:"averaging"`
	AffPropClusters int     `json:"aff_prop_clusters"`
}

// SkippedWord records a word that failed analysis, with the reason.
type SkippedWord struct {
	Word   string `json:"word"`
	Reason string `json:"reason"`
}

// Aggregator owns the in-memory run state: the score rows and the
// per-strategy label/centroid maps keyed by word. Its lifetime is one
// run; the driver passes it explicitly to the processing loop.
type Aggregator struct {
	dir  string
	lang string
	db   *DB

	rows      []Row
	labels    map[string]map[string]change.SliceLabels
	centroids map[string]map[string][][]float32
	sentences map[string]change.SliceSentences
	skipped   []SkippedWord
}

// NewAggregator creates an aggregator writing artifacts for one language
// under dir. The sqlite mirror is opened eagerly so startup fails fast on
// an unwritable output location.
func NewAggregator(dir, lang string) (*Aggregator, error) {
	db, err := OpenDB(ScoresDBPath(dir, lang))
	if err != nil {
		return nil, fmt.Errorf("opening scores database: %w", err)
	}
	return &Aggregator{
		dir:       dir,
		lang:      lang,
		db:        db,
		labels:    make(map[string]map[string]change.SliceLabels),
		centroids: make(map[string]map[string][][]float32),
		sentences: make(map[string]change.SliceSentences),
	}, nil
}

// Close releases the sqlite mirror.
func (a *Aggregator) Close() error {
	return a.db.Close()
}

// RecordWord adds one analyzed word to the accumulator.
func (a *Aggregator) RecordWord(res *change.WordResult) {
	a.rows = append(a.rows, Row{
		Word:            res.Word,
		AffProp:         res.Divergences[change.StrategyAffProp],
		KMeans5:         res.Divergences[change.StrategyKMeans5],
		KMeans7:         res.Divergences[change.StrategyKMeans7],
		Averaging:       res.Averaging,
		AffPropClusters: res.AffPropClusters,
	})

	for strategy, labels := range res.Labels {
		if a.labels[strategy] == nil {
			a.labels[strategy] = make(map[string]change.SliceLabels)
		}
		a.labels[strategy][res.Word] = labels
	}
	for strategy, centroids := range res.Centroids {
		if a.centroids[strategy] == nil {
			a.centroids[strategy] = make(map[string][][]float32)
		}
		a.centroids[strategy][res.Word] = centroids
	}
	a.sentences[res.Word] = res.Sentences
}

// RecordSkip notes a word that could not be analyzed. Skips are persisted
// alongside the results so a run always accounts for every input word.
func (a *Aggregator) RecordSkip(word string, reason error) {
	a.skipped = append(a.skipped, SkippedWord{Word: word, Reason: reason.Error()})
}

// Rows returns the accumulated score rows sorted descending by the
// affinity propagation divergence, the ranking strategy for the table.
func (a *Aggregator) Rows() []Row {
	sorted := append([]Row(nil), a.rows...)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].AffProp > sorted[j].AffProp
	})
	return sorted
}

// Skipped returns the recorded skips in processing order.
func (a *Aggregator) Skipped() []SkippedWord {
	return append([]SkippedWord(nil), a.skipped...)
}

// Flush rewrites every output artifact from the accumulator: the sorted
// TSV score table, the per-strategy label and centroid maps, the sentence
// map, the skip log, and the sqlite mirror. Called after every word so an
// interrupted run leaves complete output up to the last finished word.
func (a *Aggregator) Flush() error {
	rows := a.Rows()

	if err := writeScoreTable(ScoreTablePath(a.dir, a.lang), rows); err != nil {
		return fmt.Errorf("writing score table: %w", err)
	}

	for strategy, byWord := range a.labels {
		if err := writeGob(LabelsPath(a.dir, a.lang, strategy), byWord); err != nil {
			return fmt.Errorf("writing %s labels: %w", strategy, err)
		}
	}
	for strategy, byWord := range a.centroids {
		if err := writeGob(CentroidsPath(a.dir, a.lang, strategy), byWord); err != nil {
			return fmt.Errorf("writing %s centroids: %w", strategy, err)
		}
	}
	if err := writeGob(SentencesPath(a.dir, a.lang), a.sentences); err != nil {
		return fmt.Errorf("writing sentences: %w", err)
	}

	if len(a.skipped) > 0 {
		if err := writeSkipTable(SkippedPath(a.dir, a.lang), a.skipped); err != nil {
			return fmt.Errorf("writing skip log: %w", err)
		}
	}

	if err := a.db.UpsertRows(rows); err != nil {
		return fmt.Errorf("updating scores database: %w", err)
	}

	return nil
}
