// Package comparison orchestrates the dedup-then-rank pipeline for single
// texts and multi-file batches.
package comparison

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/aditya0072001/text-similarity-detection-api/internal/domain"
	"github.com/aditya0072001/text-similarity-detection-api/internal/metrics"
	"github.com/aditya0072001/text-similarity-detection-api/internal/textnorm"
)

// Result is the pipeline outcome. CacheHit means the record came from a
// previous identical submission (dedup hit or a lost insert race).
// Persisted=false means ranking was computed but the store write failed;
// the result is served anyway and recomputed on the next submission.
type Result struct {
	Record    domain.Record
	Persisted bool
	CacheHit  bool
}

// Options tune pipeline behavior.
type Options struct {
	// AnchorLast picks the last document of a batch as the dedup anchor
	// instead of the first, for compatibility with records created by
	// deployments that anchored on the last document.
	AnchorLast bool
	// EmbedTimeout bounds the embedding work of one request. Zero means
	// no bound beyond the request context.
	EmbedTimeout time.Duration
}

// Service runs comparison requests end to end.
type Service struct {
	ranker  Ranker
	records Repository
	extract Extractor
	opts    Options
	logger  *zap.Logger
}

// New creates a comparison service.
func New(ranker Ranker, records Repository, extract Extractor, opts Options, logger *zap.Logger) *Service {
	return &Service{
		ranker:  ranker,
		records: records,
		extract: extract,
		opts:    opts,
		logger:  logger,
	}
}

// CompareText ranks candidates against the original text, serving a cached
// record when the same normalized text was submitted before.
func (s *Service) CompareText(ctx context.Context, originalText string, candidates []string) (Result, error) {
	original := textnorm.Normalize(originalText)
	if original == "" {
		return Result{}, fmt.Errorf("original text is empty: %w", domain.ErrValidation)
	}
	if len(candidates) == 0 {
		return Result{}, fmt.Errorf("no candidate texts: %w", domain.ErrValidation)
	}

	normalized := make([]string, len(candidates))
	for i, c := range candidates {
		normalized[i] = textnorm.Normalize(c)
		if normalized[i] == "" {
			return Result{}, fmt.Errorf("candidate %d is empty: %w", i, domain.ErrValidation)
		}
	}

	if res, hit, err := s.lookup(ctx, original); err != nil {
		return Result{}, err
	} else if hit {
		return res, nil
	}

	pairs, err := s.rank(ctx, original, normalized)
	if err != nil {
		return Result{}, err
	}

	return s.persist(ctx, domain.Record{
		OriginalText: original,
		SimilarTexts: pairs,
	}), nil
}

// CompareFiles extracts every document, anchors the batch on one document's
// normalized text, and ranks each document against the anchor. A dedup hit
// on the anchor short-circuits the whole batch.
func (s *Service) CompareFiles(ctx context.Context, docs []domain.Document) (Result, error) {
	if len(docs) == 0 {
		return Result{}, fmt.Errorf("no documents uploaded: %w", domain.ErrValidation)
	}

	texts := make([]string, len(docs))
	for i, doc := range docs {
		if len(doc.Data) == 0 {
			return Result{}, fmt.Errorf("document %q is empty: %w", doc.SourceName, domain.ErrValidation)
		}
		text, err := s.extract.Extract(doc.Data, doc.SourceName)
		if err != nil {
			return Result{}, fmt.Errorf("extract %q: %w", doc.SourceName, err)
		}
		texts[i] = textnorm.Normalize(text)
		if texts[i] == "" {
			return Result{}, fmt.Errorf("document %q has no text: %w", doc.SourceName, domain.ErrValidation)
		}
	}

	anchor := texts[0]
	if s.opts.AnchorLast {
		anchor = texts[len(texts)-1]
	}

	if res, hit, err := s.lookup(ctx, anchor); err != nil {
		return Result{}, err
	} else if hit {
		return res, nil
	}

	fileResults := make(map[string][]domain.ScoredPair, len(docs))
	for i, doc := range docs {
		pairs, err := s.rank(ctx, anchor, []string{texts[i]})
		if err != nil {
			return Result{}, err
		}
		fileResults[doc.SourceName] = pairs
	}

	return s.persist(ctx, domain.Record{
		OriginalText: anchor,
		FileResults:  fileResults,
	}), nil
}

func (s *Service) lookup(ctx context.Context, text string) (Result, bool, error) {
	rec, found, err := s.records.Lookup(ctx, text)
	if err != nil {
		return Result{}, false, fmt.Errorf("dedup lookup: %w", err)
	}
	if !found {
		metrics.DedupLookupsTotal.WithLabelValues("miss").Inc()
		return Result{}, false, nil
	}
	metrics.DedupLookupsTotal.WithLabelValues("hit").Inc()
	return Result{Record: rec, Persisted: true, CacheHit: true}, true, nil
}

// rank runs the ranker under the embedding deadline.
func (s *Service) rank(ctx context.Context, query string, candidates []string) ([]domain.ScoredPair, error) {
	if s.opts.EmbedTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.opts.EmbedTimeout)
		defer cancel()
	}

	pairs, err := s.ranker.Rank(ctx, query, candidates)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return nil, fmt.Errorf("rank: %w", domain.ErrEmbeddingTimeout)
		}
		return nil, fmt.Errorf("rank: %w", err)
	}
	return pairs, nil
}

// persist stores the computed record. A store failure here does not fail
// the request: the ranking is already computed and is returned unpersisted.
func (s *Service) persist(ctx context.Context, rec domain.Record) Result {
	stored, inserted, err := s.records.Insert(ctx, rec)
	if err != nil {
		s.logger.Error("Failed to persist comparison record",
			zap.Error(err))
		return Result{Record: rec, Persisted: false}
	}
	// Lost insert race: another writer's record, same semantics as a hit.
	return Result{Record: stored, Persisted: true, CacheHit: !inserted}
}
