// Package records exposes read access to persisted comparison records.
package records

import (
	"context"
	"fmt"
	"sort"

	"github.com/aditya0072001/text-similarity-detection-api/internal/domain"
)

// Service reads persisted records.
type Service struct {
	repo Repository
}

// New creates a records service.
func New(repo Repository) *Service {
	return &Service{repo: repo}
}

// List returns all records, newest first.
func (s *Service) List(ctx context.Context) ([]domain.Record, error) {
	recs, err := s.repo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list records: %w", err)
	}
	sort.SliceStable(recs, func(i, j int) bool {
		return recs[i].CreatedAt.After(recs[j].CreatedAt)
	})
	return recs, nil
}

// Get returns one record by ID.
func (s *Service) Get(ctx context.Context, id string) (domain.Record, error) {
	if id == "" {
		return domain.Record{}, fmt.Errorf("empty record id: %w", domain.ErrValidation)
	}
	rec, err := s.repo.Get(ctx, id)
	if err != nil {
		return domain.Record{}, fmt.Errorf("get record: %w", err)
	}
	return rec, nil
}
