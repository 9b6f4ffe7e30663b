package comparison

import (
	"context"

	"github.com/aditya0072001/text-similarity-detection-api/internal/domain"
)

// Ranker scores candidates against a query text.
type Ranker interface {
	Rank(ctx context.Context, query string, candidates []string) ([]domain.ScoredPair, error)
}

// Repository is the dedup cache over persisted records.
type Repository interface {
	Lookup(ctx context.Context, text string) (domain.Record, bool, error)
	Insert(ctx context.Context, rec domain.Record) (domain.Record, bool, error)
}

// Extractor turns an uploaded document into plain text.
type Extractor interface {
	Extract(data []byte, filename string) (string, error)
}
