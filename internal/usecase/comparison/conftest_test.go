package comparison

import (
	"context"
	"sync"
	"testing"

	"go.uber.org/zap"

	"github.com/aditya0072001/text-similarity-detection-api/internal/domain"
)

// mockRanker implements Ranker for tests.
type mockRanker struct {
	rankFn func(ctx context.Context, query string, candidates []string) ([]domain.ScoredPair, error)
	calls  int
	mu     sync.Mutex
}

func (m *mockRanker) Rank(ctx context.Context, query string, candidates []string) ([]domain.ScoredPair, error) {
	m.mu.Lock()
	m.calls++
	m.mu.Unlock()
	if m.rankFn != nil {
		return m.rankFn(ctx, query, candidates)
	}
	pairs := make([]domain.ScoredPair, len(candidates))
	for i, c := range candidates {
		pairs[i] = domain.ScoredPair{Text: c, Score: 0.5}
	}
	return pairs, nil
}

func (m *mockRanker) callCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls
}

// mockRepo implements Repository for tests.
type mockRepo struct {
	lookupFn func(ctx context.Context, text string) (domain.Record, bool, error)
	insertFn func(ctx context.Context, rec domain.Record) (domain.Record, bool, error)
	inserts  int
}

func (m *mockRepo) Lookup(ctx context.Context, text string) (domain.Record, bool, error) {
	if m.lookupFn != nil {
		return m.lookupFn(ctx, text)
	}
	return domain.Record{}, false, nil
}

func (m *mockRepo) Insert(ctx context.Context, rec domain.Record) (domain.Record, bool, error) {
	m.inserts++
	if m.insertFn != nil {
		return m.insertFn(ctx, rec)
	}
	rec.ID = "rec-1"
	return rec, true, nil
}

// mockExtractor returns the document bytes as text.
type mockExtractor struct {
	extractFn func(data []byte, filename string) (string, error)
}

func (m *mockExtractor) Extract(data []byte, filename string) (string, error) {
	if m.extractFn != nil {
		return m.extractFn(data, filename)
	}
	return string(data), nil
}

// memRepo is a dedup repository with real first-writer-wins semantics, for
// the concurrency test.
type memRepo struct {
	mu     sync.Mutex
	byText map[string]domain.Record
	nextID int
}

func newMemRepo() *memRepo {
	return &memRepo{byText: make(map[string]domain.Record)}
}

func (m *memRepo) Lookup(_ context.Context, text string) (domain.Record, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	rec, ok := m.byText[text]
	return rec, ok, nil
}

func (m *memRepo) Insert(_ context.Context, rec domain.Record) (domain.Record, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if winner, ok := m.byText[rec.OriginalText]; ok {
		return winner, false, nil
	}
	m.nextID++
	rec.ID = string(rune('a' + m.nextID))
	m.byText[rec.OriginalText] = rec
	return rec, true, nil
}

func newTestService(t *testing.T, opts Options) (*Service, *mockRanker, *mockRepo) {
	t.Helper()
	ranker := &mockRanker{}
	repo := &mockRepo{}
	svc := New(ranker, repo, &mockExtractor{}, opts, zap.NewNop())
	return svc, ranker, repo
}
