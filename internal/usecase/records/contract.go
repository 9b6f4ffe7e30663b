package records

import (
	"context"

	"github.com/aditya0072001/text-similarity-detection-api/internal/domain"
)

// Repository reads persisted comparison records.
type Repository interface {
	List(ctx context.Context) ([]domain.Record, error)
	Get(ctx context.Context, id string) (domain.Record, error)
}
