package chi

import (
	"bytes"
	"context"
	"fmt"
	"mime/multipart"
	"net/http"
	"testing"

	chirouter "github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/aditya0072001/text-similarity-detection-api/internal/domain"
	comparisonuc "github.com/aditya0072001/text-similarity-detection-api/internal/usecase/comparison"
	healthuc "github.com/aditya0072001/text-similarity-detection-api/internal/usecase/health"
	recordsuc "github.com/aditya0072001/text-similarity-detection-api/internal/usecase/records"
)

// fakeRanker scores every candidate 0.5.
type fakeRanker struct {
	err error
}

func (f *fakeRanker) Rank(_ context.Context, _ string, candidates []string) ([]domain.ScoredPair, error) {
	if f.err != nil {
		return nil, f.err
	}
	pairs := make([]domain.ScoredPair, len(candidates))
	for i, c := range candidates {
		pairs[i] = domain.ScoredPair{Text: c, Score: 0.5}
	}
	return pairs, nil
}

// fakeCompareRepo is an in-memory dedup repository.
type fakeCompareRepo struct {
	byText    map[string]domain.Record
	insertErr error
	nextID    int
}

func newFakeCompareRepo() *fakeCompareRepo {
	return &fakeCompareRepo{byText: make(map[string]domain.Record)}
}

func (f *fakeCompareRepo) Lookup(_ context.Context, text string) (domain.Record, bool, error) {
	rec, ok := f.byText[text]
	return rec, ok, nil
}

func (f *fakeCompareRepo) Insert(_ context.Context, rec domain.Record) (domain.Record, bool, error) {
	if f.insertErr != nil {
		return domain.Record{}, false, f.insertErr
	}
	if winner, ok := f.byText[rec.OriginalText]; ok {
		return winner, false, nil
	}
	f.nextID++
	rec.ID = fmt.Sprintf("rec-%d", f.nextID)
	f.byText[rec.OriginalText] = rec
	return rec, true, nil
}

// fakeExtractor treats document bytes as plain text.
type fakeExtractor struct {
	err error
}

func (f *fakeExtractor) Extract(data []byte, _ string) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	return string(data), nil
}

// fakeRecordsRepo serves the records read path.
type fakeRecordsRepo struct {
	recs    []domain.Record
	listErr error
}

func (f *fakeRecordsRepo) List(_ context.Context) ([]domain.Record, error) {
	if f.listErr != nil {
		return nil, f.listErr
	}
	return f.recs, nil
}

func (f *fakeRecordsRepo) Get(_ context.Context, id string) (domain.Record, error) {
	for _, rec := range f.recs {
		if rec.ID == id {
			return rec, nil
		}
	}
	return domain.Record{}, domain.ErrNotFound
}

type fakePinger struct{ err error }

func (f *fakePinger) Ping(_ context.Context) error { return f.err }

type fakeChecker struct{ err error }

func (f *fakeChecker) HealthCheck(_ context.Context) error { return f.err }

// testEnv bundles the server with its fakes so tests can tweak behavior.
type testEnv struct {
	router      http.Handler
	ranker      *fakeRanker
	compareRepo *fakeCompareRepo
	pdfExtract  *fakeExtractor
	fileExtract *fakeExtractor
	recordsRepo *fakeRecordsRepo
	pinger      *fakePinger
	checker     *fakeChecker
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	env := &testEnv{
		ranker:      &fakeRanker{},
		compareRepo: newFakeCompareRepo(),
		pdfExtract:  &fakeExtractor{},
		fileExtract: &fakeExtractor{},
		recordsRepo: &fakeRecordsRepo{},
		pinger:      &fakePinger{},
		checker:     &fakeChecker{},
	}

	logger := zap.NewNop()
	pdfBatch := comparisonuc.New(env.ranker, env.compareRepo, env.pdfExtract, comparisonuc.Options{}, logger)
	fileBatch := comparisonuc.New(env.ranker, env.compareRepo, env.fileExtract, comparisonuc.Options{}, logger)

	server := NewServer(
		pdfBatch,
		fileBatch,
		recordsuc.New(env.recordsRepo),
		healthuc.New(env.pinger, env.checker),
		Limits{MaxBatchFiles: 5, MaxUploadBytes: 1 << 20},
		logger,
	)

	r := chirouter.NewRouter()
	server.Register(r)
	env.router = r
	return env
}

// multipartBody builds a multipart form with one file part per entry.
func multipartBody(t *testing.T, field string, files map[string]string, order []string) (*bytes.Buffer, string) {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	for _, name := range order {
		part, err := mw.CreateFormFile(field, name)
		if err != nil {
			t.Fatalf("create form file: %v", err)
		}
		if _, err := part.Write([]byte(files[name])); err != nil {
			t.Fatalf("write form file: %v", err)
		}
	}
	if err := mw.Close(); err != nil {
		t.Fatalf("close multipart writer: %v", err)
	}
	return &buf, mw.FormDataContentType()
}
