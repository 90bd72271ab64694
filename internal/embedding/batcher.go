package embedding

import (
	"context"
	"fmt"

	"golang.org/x/time/rate"
)

// DefaultRequestsPerSecond caps embedding requests so extraction does not
// saturate a shared inference endpoint.
const DefaultRequestsPerSecond = 20

// Batcher embeds batches of sentences through a Provider under a rate
// limit.
type Batcher struct {
	provider Provider
	limiter  *rate.Limiter
}

// NewBatcher creates a Batcher. requestsPerSecond <= 0 uses the default.
func NewBatcher(provider Provider, requestsPerSecond float64) *Batcher {
	if requestsPerSecond <= 0 {
		requestsPerSecond = DefaultRequestsPerSecond
	}
	return &Batcher{
		provider: provider,
		limiter:  rate.NewLimiter(rate.Limit(requestsPerSecond), 1),
	}
}

// EmbedAll embeds every sentence in order. The context cancels both the
// rate-limit wait and in-flight requests. Progress, when non-nil, is
// called after each sentence.
func (b *Batcher) EmbedAll(ctx context.Context, sentences []string, progress func(done, total int)) ([][]float32, error) {
	vectors := make([][]float32, 0, len(sentences))
	for i, sentence := range sentences {
		if err := b.limiter.Wait(ctx); err != nil {
			return nil, fmt.Errorf("rate limit wait: %w", err)
		}
		emb, err := b.provider.Embed(ctx, sentence)
		if err != nil {
			return nil, fmt.Errorf("embedding sentence %d: %w", i, err)
		}
		vectors = append(vectors, emb.Vector)
		if progress != nil {
			progress(i+1, len(sentences))
		}
	}
	return vectors, nil
}
