// Package wordvec stores the bulk input to the analysis: for every target
// word, the contextual embedding vectors and source sentences extracted
// from each time slice.
package wordvec

import (
	"errors"
	"fmt"
	"time"
)

// Errors returned by store operations.
var (
	ErrStoreNotFound      = errors.New("embeddings store not found")
	ErrUnsupportedVersion = errors.New("unsupported store version")
	ErrWordNotFound       = errors.New("word not in embeddings store")
)

// CurrentStoreVersion is the format version for compatibility checking.
// Increment on breaking changes to the store layout.
const CurrentStoreVersion = 1

// SliceData holds one time slice's occurrences for a word: parallel lists
// of embedding vectors and the sentences they were extracted from.
type SliceData struct {
	Vectors   [][]float32
	Sentences []string
}

// WordData holds both time slices for one target word.
type WordData struct {
	T1 SliceData
	T2 SliceData
}

// Store is the bulk word-embeddings file: every target word's occurrences
// in both slices, loaded into memory in full for a run.
type Store struct {
	Version    int
	ModelName  string
	Dimensions int
	CreatedAt  time.Time

	// WordOrder preserves insertion order so analysis runs process words
	// in a stable, reproducible sequence.
	WordOrder []string
	Words     map[string]WordData
}

// NewStore creates an empty store for the given embedding model.
func NewStore(modelName string, dimensions int) *Store {
	return &Store{
		Version:    CurrentStoreVersion,
		ModelName:  modelName,
		Dimensions: dimensions,
		CreatedAt:  time.Now(),
		Words:      make(map[string]WordData),
	}
}

// AddWord records a word's slice data, validating the parallel-list
// invariant and vector dimensions. Adding the same word twice replaces
// the earlier data without duplicating its order entry.
func (s *Store) AddWord(word string, data WordData) error {
	if err := s.checkSlice(word, "t1", data.T1); err != nil {
		return err
	}
	if err := s.checkSlice(word, "t2", data.T2); err != nil {
		return err
	}
	if _, exists := s.Words[word]; !exists {
		s.WordOrder = append(s.WordOrder, word)
	}
	s.Words[word] = data
	return nil
}

// Get returns a word's data or ErrWordNotFound.
func (s *Store) Get(word string) (WordData, error) {
	data, ok := s.Words[word]
	if !ok {
		return WordData{}, fmt.Errorf("%w: %q", ErrWordNotFound, word)
	}
	return data, nil
}

// Len returns the number of stored words.
func (s *Store) Len() int { return len(s.Words) }

func (s *Store) checkSlice(word, tag string, data SliceData) error {
	if len(data.Vectors) != len(data.Sentences) {
		return fmt.Errorf("word %q slice %s: %d vectors but %d sentences",
			word, tag, len(data.Vectors), len(data.Sentences))
	}
	for i, v := range data.Vectors {
		if len(v) != s.Dimensions {
			return fmt.Errorf("word %q slice %s vector %d: dimension %d, want %d",
				word, tag, i, len(v), s.Dimensions)
		}
	}
	return nil
}

// validate re-checks every invariant after loading from disk, since the
// file may have been produced by an external extractor.
func (s *Store) validate() error {
	if len(s.WordOrder) != len(s.Words) {
		return fmt.Errorf("word order lists %d words but store holds %d",
			len(s.WordOrder), len(s.Words))
	}
	for _, word := range s.WordOrder {
		data, ok := s.Words[word]
		if !ok {
			return fmt.Errorf("word %q in order list but missing from store", word)
		}
		if err := s.checkSlice(word, "t1", data.T1); err != nil {
			return err
		}
		if err := s.checkSlice(word, "t2", data.T2); err != nil {
			return err
		}
	}
	return nil
}
