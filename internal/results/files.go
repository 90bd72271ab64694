package results

import (
	"encoding/gob"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/lexdrift/lexdrift/internal/change"
)

// Artifact path helpers. Every output file carries the language so runs
// for different languages can share one results directory.

// ScoreTablePath returns the path of the TSV score table.
func ScoreTablePath(dir, lang string) string {
	return filepath.Join(dir, "results_"+lang+".tsv")
}

// LabelsPath returns the path of one strategy's cluster-label map.
func LabelsPath(dir, lang, strategy string) string {
	return filepath.Join(dir, strategy+"_labels_"+lang+".gob")
}

// CentroidsPath returns the path of one strategy's centroid map.
func CentroidsPath(dir, lang, strategy string) string {
	return filepath.Join(dir, strategy+"_centroids_"+lang+".gob")
}

// SentencesPath returns the path of the filtered-sentences map.
func SentencesPath(dir, lang string) string {
	return filepath.Join(dir, "sents_"+lang+".gob")
}

// SkippedPath returns the path of the skipped-words log.
func SkippedPath(dir, lang string) string {
	return filepath.Join(dir, "skipped_"+lang+".tsv")
}

// ScoresDBPath returns the path of the sqlite scores mirror.
func ScoresDBPath(dir, lang string) string {
	return filepath.Join(dir, "scores_"+lang+".db")
}

// writeAtomic writes data to path via a temp file and rename, so readers
// never observe a partially written artifact.
func writeAtomic(path string, write func(f *os.File) error) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("creating results directory: %w", err)
	}

	tempPath := path + ".tmp"
	f, err := os.Create(tempPath)
	if err != nil {
		return fmt.Errorf("creating temp file: %w", err)
	}

	if err := write(f); err != nil {
		f.Close()
		os.Remove(tempPath)
		return err
	}

	if err := f.Close(); err != nil {
		os.Remove(tempPath)
		return fmt.Errorf("closing file: %w", err)
	}

	if err := os.Rename(tempPath, path); err != nil {
		os.Remove(tempPath)
		return fmt.Errorf("renaming temp file: %w", err)
	}

	return nil
}

// writeScoreTable writes the rows (already sorted) as a tab-separated
// table with a header line.
func writeScoreTable(path string, rows []Row) error {
	return writeAtomic(path, func(f *os.File) error {
		var b strings.Builder
		b.WriteString("word\taff_prop\tkmeans_5\tkmeans_7\taveraging\taff_prop_clusters\n")
		for _, r := range rows {
			fmt.Fprintf(&b, "%s\t%.6f\t%.6f\t%.6f\t%.6f\t%d\n",
				r.Word, r.AffProp, r.KMeans5, r.KMeans7, r.Averaging, r.AffPropClusters)
		}
		if _, err := f.WriteString(b.String()); err != nil {
			return fmt.Errorf("writing table: %w", err)
		}
		return nil
	})
}

// writeSkipTable writes the skipped-word log as word<TAB>reason lines.
func writeSkipTable(path string, skipped []SkippedWord) error {
	return writeAtomic(path, func(f *os.File) error {
		var b strings.Builder
		b.WriteString("word\treason\n")
		for _, s := range skipped {
			fmt.Fprintf(&b, "%s\t%s\n", s.Word, s.Reason)
		}
		if _, err := f.WriteString(b.String()); err != nil {
			return fmt.Errorf("writing skip log: %w", err)
		}
		return nil
	})
}

// writeGob writes any value GOB-encoded.
func writeGob(path string, v interface{}) error {
	return writeAtomic(path, func(f *os.File) error {
		if err := gob.NewEncoder(f).Encode(v); err != nil {
			return fmt.Errorf("encoding: %w", err)
		}
		return nil
	})
}

func readGob(path string, v interface{}) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("opening %s: %w", filepath.Base(path), err)
	}
	defer f.Close()
	if err := gob.NewDecoder(f).Decode(v); err != nil {
		return fmt.Errorf("decoding %s: %w", filepath.Base(path), err)
	}
	return nil
}

// LoadLabels reads back a persisted strategy label map.
func LoadLabels(dir, lang, strategy string) (map[string]change.SliceLabels, error) {
	var m map[string]change.SliceLabels
	if err := readGob(LabelsPath(dir, lang, strategy), &m); err != nil {
		return nil, err
	}
	return m, nil
}

// LoadCentroids reads back a persisted strategy centroid map.
func LoadCentroids(dir, lang, strategy string) (map[string][][]float32, error) {
	var m map[string][][]float32
	if err := readGob(CentroidsPath(dir, lang, strategy), &m); err != nil {
		return nil, err
	}
	return m, nil
}

// LoadSentences reads back the persisted filtered-sentences map.
func LoadSentences(dir, lang string) (map[string]change.SliceSentences, error) {
	var m map[string]change.SliceSentences
	if err := readGob(SentencesPath(dir, lang), &m); err != nil {
		return nil, err
	}
	return m, nil
}
