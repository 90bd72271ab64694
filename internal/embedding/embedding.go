// Package embedding provides contextual vector embedding generation for
// sentences, used by the extraction step that builds the bulk input store.
package embedding

// Embedding represents a vector embedding of text.
type Embedding struct {
	Vector []float32 // The embedding vector (e.g., 768 dimensions for BERT-sized models)
}

// Dimensions returns the dimensionality of the embedding.
func (e Embedding) Dimensions() int {
	return len(e.Vector)
}
