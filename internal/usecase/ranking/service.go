// Package ranking scores candidate texts against a query text by embedding
// dot product.
package ranking

import (
	"context"
	"fmt"
	"sort"

	"github.com/aditya0072001/text-similarity-detection-api/internal/domain"
)

// Service ranks candidate texts by similarity to a query.
type Service struct {
	embed Embedder
}

// New creates a ranking service.
func New(embed Embedder) *Service {
	return &Service{embed: embed}
}

// Rank embeds the query once and all candidates in one batch, scores each
// candidate by dot product, and returns the pairs sorted by score
// descending. The output always has one pair per candidate; ties keep
// input order.
func (s *Service) Rank(ctx context.Context, query string, candidates []string) ([]domain.ScoredPair, error) {
	if len(candidates) == 0 {
		return []domain.ScoredPair{}, nil
	}

	queryRes, err := s.embed.Embed(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("embed query: %w", err)
	}

	candRes, err := s.embed.BatchEmbed(ctx, candidates)
	if err != nil {
		return nil, fmt.Errorf("embed candidates: %w", err)
	}
	if len(candRes.Embeddings) != len(candidates) {
		return nil, fmt.Errorf("got %d embeddings for %d candidates: %w",
			len(candRes.Embeddings), len(candidates), domain.ErrEmbeddingProvider)
	}

	pairs := make([]domain.ScoredPair, len(candidates))
	for i, text := range candidates {
		pairs[i] = domain.ScoredPair{
			Text:  text,
			Score: dotProduct(queryRes.Embedding, candRes.Embeddings[i]),
		}
	}

	sort.SliceStable(pairs, func(i, j int) bool {
		return pairs[i].Score > pairs[j].Score
	})

	return pairs, nil
}

// dotProduct accumulates in float64 to keep scores order-stable across
// vector dimensions.
func dotProduct(a, b []float32) float64 {
	n := len(a)
	if len(b) < n {
		n = len(b)
	}
	var sum float64
	for i := 0; i < n; i++ {
		sum += float64(a[i]) * float64(b[i])
	}
	return sum
}
