package wordvec

import (
	"encoding/gob"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// Save persists the store to path using GOB encoding, writing to a temp
// file and renaming for atomicity.
func (s *Store) Save(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("creating output directory: %w", err)
	}

	tempPath := path + ".tmp"
	f, err := os.Create(tempPath)
	if err != nil {
		return fmt.Errorf("creating temp file: %w", err)
	}

	enc := gob.NewEncoder(f)
	if err := enc.Encode(s); err != nil {
		f.Close()
		os.Remove(tempPath)
		return fmt.Errorf("encoding store: %w", err)
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

// Load reads a GOB-encoded store and validates its invariants. Malformed
// input is fatal to the run, so every violation surfaces as an error here
// rather than during analysis.
func Load(path string) (*Store, error) {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrStoreNotFound
		}
		return nil, fmt.Errorf("opening embeddings store: %w", err)
	}
	defer f.Close()

	var s Store
	dec := gob.NewDecoder(f)
	if err := dec.Decode(&s); err != nil {
		return nil, fmt.Errorf("decoding embeddings store: %w", err)
	}

	if s.Version != CurrentStoreVersion {
		return nil, fmt.Errorf("%w: got %d, want %d (re-run 'lexdrift extract')",
			ErrUnsupportedVersion, s.Version, CurrentStoreVersion)
	}
	if err := s.validate(); err != nil {
		return nil, fmt.Errorf("malformed embeddings store: %w", err)
	}

	return &s, nil
}

// jsonStore mirrors Store for JSON interchange with external extractors.
// Word order follows the words list order.
type jsonStore struct {
	ModelName  string     `json:"model_name"`
	Dimensions int        `json:"dimensions"`
	Words      []jsonWord `json:"words"`
}

type jsonWord struct {
	Word string        `json:"word"`
	T1   jsonSliceData `json:"t1"`
	T2   jsonSliceData `json:"t2"`
}

type jsonSliceData struct {
	Vectors   [][]float32 `json:"vectors"`
	Sentences []string    `json:"sentences"`
}

// LoadJSON reads a store produced by an external extractor as JSON. The
// same validation applies as for the native format.
func LoadJSON(path string) (*Store, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrStoreNotFound
		}
		return nil, fmt.Errorf("reading embeddings file: %w", err)
	}

	var js jsonStore
	if err := json.Unmarshal(data, &js); err != nil {
		return nil, fmt.Errorf("parsing embeddings file: %w", err)
	}
	if js.Dimensions == 0 {
		js.Dimensions = inferDimensions(js.Words)
	}

	s := NewStore(js.ModelName, js.Dimensions)
	for _, w := range js.Words {
		data := WordData{
			T1: SliceData{Vectors: w.T1.Vectors, Sentences: w.T1.Sentences},
			T2: SliceData{Vectors: w.T2.Vectors, Sentences: w.T2.Sentences},
		}
		if err := s.AddWord(w.Word, data); err != nil {
			return nil, fmt.Errorf("malformed embeddings file: %w", err)
		}
	}
	return s, nil
}

// inferDimensions returns the length of the first vector found in any
// word's slices, or 0 when the store holds no vectors at all.
func inferDimensions(words []jsonWord) int {
	for _, w := range words {
		for _, vecs := range [][][]float32{w.T1.Vectors, w.T2.Vectors} {
			if len(vecs) > 0 {
				return len(vecs[0])
			}
		}
	}
	return 0
}
