package corpus

import (
	"compress/gzip"
	"os"
	"path/filepath"
	"testing"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("writing %s: %v", name, err)
	}
	return path
}

func TestReadSentences(t *testing.T) {
	path := writeFile(t, "corpus.txt", "a plane flew\n\n  the plane landed  \nairplane noise\n")
	sentences, err := ReadSentences(path)
	if err != nil {
		t.Fatalf("ReadSentences: %v", err)
	}
	want := []string{"a plane flew", "the plane landed", "airplane noise"}
	if len(sentences) != len(want) {
		t.Fatalf("sentences = %v, want %v", sentences, want)
	}
	for i := range want {
		if sentences[i] != want[i] {
			t.Errorf("sentences[%d] = %q, want %q", i, sentences[i], want[i])
		}
	}
}

func TestReadSentencesGzip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "corpus.txt.gz")
	f, err := os.Create(path)
	if err != nil {
		t.Fatalf("creating gzip fixture: %v", err)
	}
	gz := gzip.NewWriter(f)
	if _, err := gz.Write([]byte("first sentence\nsecond sentence\n")); err != nil {
		t.Fatalf("writing gzip fixture: %v", err)
	}
	if err := gz.Close(); err != nil {
		t.Fatalf("closing gzip writer: %v", err)
	}
	if err := f.Close(); err != nil {
		t.Fatalf("closing fixture: %v", err)
	}

	sentences, err := ReadSentences(path)
	if err != nil {
		t.Fatalf("ReadSentences: %v", err)
	}
	if len(sentences) != 2 || sentences[0] != "first sentence" {
		t.Errorf("sentences = %v", sentences)
	}
}

func TestReadSentencesMissing(t *testing.T) {
	if _, err := ReadSentences(filepath.Join(t.TempDir(), "nope.txt")); err == nil {
		t.Error("ReadSentences accepted missing file")
	}
}

func TestFindOccurrences(t *testing.T) {
	sentences := []string{"a plane flew", "airplane noise", "the plane landed"}
	hits, err := FindOccurrences(sentences, "plane")
	if err != nil {
		t.Fatalf("FindOccurrences: %v", err)
	}
	if len(hits) != 2 {
		t.Fatalf("hits = %v, want whole-word matches only", hits)
	}
	if hits[0] != "a plane flew" || hits[1] != "the plane landed" {
		t.Errorf("hits = %v", hits)
	}
}

func TestFindOccurrencesNonASCII(t *testing.T) {
	sentences := []string{
		"hon kommer att må bra",
		"han sprang mot målet",
		"må väl",
		"die größe wurde gemessen",
	}
	hits, err := FindOccurrences(sentences, "må")
	if err != nil {
		t.Fatalf("FindOccurrences: %v", err)
	}
	if len(hits) != 2 || hits[0] != "hon kommer att må bra" || hits[1] != "må väl" {
		t.Errorf("hits = %v, want the two whole-word må sentences", hits)
	}

	hits, err = FindOccurrences(sentences, "größe")
	if err != nil {
		t.Fatalf("FindOccurrences: %v", err)
	}
	if len(hits) != 1 || hits[0] != "die größe wurde gemessen" {
		t.Errorf("hits = %v, want the größe sentence", hits)
	}
}

func TestReadWordList(t *testing.T) {
	path := writeFile(t, "words.txt", "# SemEval targets\nplane_nn\n\nwalk_vb\n")
	words, err := ReadWordList(path)
	if err != nil {
		t.Fatalf("ReadWordList: %v", err)
	}
	if len(words) != 2 || words[0] != "plane_nn" || words[1] != "walk_vb" {
		t.Errorf("words = %v", words)
	}
}
