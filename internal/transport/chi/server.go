// Package chi exposes the comparison pipeline over HTTP.
package chi

import (
	"encoding/json"
	"errors"
	"io"
	"mime/multipart"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/aditya0072001/text-similarity-detection-api/internal/domain"
	"github.com/aditya0072001/text-similarity-detection-api/internal/logger"
	comparisonuc "github.com/aditya0072001/text-similarity-detection-api/internal/usecase/comparison"
	healthuc "github.com/aditya0072001/text-similarity-detection-api/internal/usecase/health"
	recordsuc "github.com/aditya0072001/text-similarity-detection-api/internal/usecase/records"
)

// multipartField is the form field that carries uploaded documents.
const multipartField = "files"

// errorHandler tries to handle a domain error. Returns true if handled.
type errorHandler func(w http.ResponseWriter, err error, msg string) bool

// Limits bound incoming batch requests.
type Limits struct {
	MaxBatchFiles  int
	MaxUploadBytes int64
}

// Server hosts the HTTP API.
type Server struct {
	pdfBatch      *comparisonuc.Service
	fileBatch     *comparisonuc.Service
	records       *recordsuc.Service
	health        *healthuc.Service
	limits        Limits
	logger        *zap.Logger
	errorHandlers []errorHandler
}

// NewServer creates an HTTP API server. pdfBatch and fileBatch run the same
// pipeline with different extraction registries.
func NewServer(
	pdfBatch *comparisonuc.Service,
	fileBatch *comparisonuc.Service,
	records *recordsuc.Service,
	health *healthuc.Service,
	limits Limits,
	logger *zap.Logger,
) *Server {
	s := &Server{
		pdfBatch:  pdfBatch,
		fileBatch: fileBatch,
		records:   records,
		health:    health,
		limits:    limits,
		logger:    logger,
	}
	s.errorHandlers = []errorHandler{
		sentinelHandler(domain.ErrValidation, http.StatusBadRequest, codeValidationFailed),
		sentinelHandler(domain.ErrNotFound, http.StatusNotFound, codeNotFound),
		sentinelHandler(domain.ErrExtraction, http.StatusUnprocessableEntity, codeExtractionFailed),
		sentinelHandler(domain.ErrEmbeddingTimeout, http.StatusBadGateway, codeEmbeddingTimeout),
		sentinelHandler(domain.ErrEmbeddingProvider, http.StatusBadGateway, codeEmbeddingProvider),
		sentinelHandler(domain.ErrStore, http.StatusServiceUnavailable, codeStoreUnavailable),
	}
	return s
}

// Register mounts all routes on the router.
func (s *Server) Register(r chi.Router) {
	r.Get("/", s.Root)
	r.Get("/health", s.HealthCheck)
	r.Get("/metrics", s.Metrics)
	r.Route("/api/v1", func(r chi.Router) {
		r.Post("/comparisons/text", s.CompareText)
		r.Post("/comparisons/pdf", s.ComparePDFBatch)
		r.Post("/comparisons/files", s.CompareFileBatch)
		r.Get("/records", s.ListRecords)
		r.Get("/records/{id}", s.GetRecord)
	})
}

// Root handles GET /.
func (s *Server) Root(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"message": "text similarity detection API",
	})
}

// CompareText handles POST /api/v1/comparisons/text.
func (s *Server) CompareText(w http.ResponseWriter, r *http.Request) {
	var req compareTextRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, codeBadRequest, "Invalid request body: "+err.Error())
		return
	}

	res, err := s.fileBatch.CompareText(r.Context(), req.OriginalText, req.CandidateTexts)
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}

	s.writeComparison(w, res)
}

// ComparePDFBatch handles POST /api/v1/comparisons/pdf (PDF uploads only).
func (s *Server) ComparePDFBatch(w http.ResponseWriter, r *http.Request) {
	s.compareBatch(w, r, s.pdfBatch)
}

// CompareFileBatch handles POST /api/v1/comparisons/files (any extractable format).
func (s *Server) CompareFileBatch(w http.ResponseWriter, r *http.Request) {
	s.compareBatch(w, r, s.fileBatch)
}

func (s *Server) compareBatch(w http.ResponseWriter, r *http.Request, svc *comparisonuc.Service) {
	docs, ok := s.readMultipart(w, r)
	if !ok {
		return
	}

	res, err := svc.CompareFiles(r.Context(), docs)
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}

	s.writeComparison(w, res)
}

// readMultipart parses uploaded documents from the "files" form field,
// preserving upload order. Writes the error response itself on failure.
func (s *Server) readMultipart(w http.ResponseWriter, r *http.Request) ([]domain.Document, bool) {
	if err := r.ParseMultipartForm(s.limits.MaxUploadBytes); err != nil {
		s.logger.Debug("multipart parse failed", zap.Error(err))
		writeError(w, http.StatusBadRequest, codeBadRequest, "Invalid multipart form: "+err.Error())
		return nil, false
	}
	defer func() { _ = r.MultipartForm.RemoveAll() }()

	headers := r.MultipartForm.File[multipartField]
	if len(headers) == 0 {
		writeError(w, http.StatusBadRequest, codeValidationFailed,
			"no files uploaded in field "+multipartField)
		return nil, false
	}
	if s.limits.MaxBatchFiles > 0 && len(headers) > s.limits.MaxBatchFiles {
		writeError(w, http.StatusBadRequest, codeValidationFailed, "too many files in batch")
		return nil, false
	}

	docs := make([]domain.Document, 0, len(headers))
	for _, fh := range headers {
		data, err := readFilePart(fh)
		if err != nil {
			writeError(w, http.StatusBadRequest, codeBadRequest,
				"read uploaded file "+fh.Filename+": "+err.Error())
			return nil, false
		}
		docs = append(docs, domain.Document{SourceName: fh.Filename, Data: data})
	}
	return docs, true
}

func readFilePart(fh *multipart.FileHeader) ([]byte, error) {
	f, err := fh.Open()
	if err != nil {
		return nil, err
	}
	defer func() { _ = f.Close() }()
	return io.ReadAll(f)
}

// writeComparison picks 201 for a freshly persisted record, 200 for cache
// hits and unpersisted results.
func (s *Server) writeComparison(w http.ResponseWriter, res comparisonuc.Result) {
	status := http.StatusOK
	if res.Persisted && !res.CacheHit {
		status = http.StatusCreated
	}
	writeJSON(w, status, comparisonToResponse(res))
}

// ListRecords handles GET /api/v1/records.
func (s *Server) ListRecords(w http.ResponseWriter, r *http.Request) {
	recs, err := s.records.List(r.Context())
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}

	items := make([]recordResponse, len(recs))
	for i, rec := range recs {
		items[i] = recordToResponse(rec)
	}
	writeJSON(w, http.StatusOK, recordListResponse{Items: items, Total: len(items)})
}

// GetRecord handles GET /api/v1/records/{id}.
func (s *Server) GetRecord(w http.ResponseWriter, r *http.Request) {
	rec, err := s.records.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, recordToResponse(rec))
}

// HealthCheck handles GET /health.
func (s *Server) HealthCheck(w http.ResponseWriter, r *http.Request) {
	report := s.health.Check(r.Context())

	httpStatus := http.StatusOK
	if report.Status != healthuc.Healthy {
		httpStatus = http.StatusServiceUnavailable
	}

	writeJSON(w, httpStatus, map[string]any{
		"status": report.Status,
		"checks": report.Checks,
	})
}

// Metrics handles GET /metrics.
func (s *Server) Metrics(w http.ResponseWriter, r *http.Request) {
	promhttp.Handler().ServeHTTP(w, r)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code, message string) {
	writeJSON(w, status, errorResponse{
		Code:    code,
		Message: message,
	})
}

// safeDomainMessage returns a sentinel error message for the client without
// exposing internals.
func safeDomainMessage(err error) string {
	sentinels := []error{
		domain.ErrValidation,
		domain.ErrNotFound,
		domain.ErrExtraction,
		domain.ErrEmbeddingTimeout,
		domain.ErrEmbeddingProvider,
		domain.ErrStore,
	}
	for _, s := range sentinels {
		if errors.Is(err, s) {
			return s.Error()
		}
	}
	return "internal error"
}

// sentinelHandler returns an errorHandler that matches a single sentinel error.
func sentinelHandler(sentinel error, status int, code string) errorHandler {
	return func(w http.ResponseWriter, err error, msg string) bool {
		if !errors.Is(err, sentinel) {
			return false
		}
		writeError(w, status, code, msg)
		return true
	}
}

func (s *Server) handleDomainError(w http.ResponseWriter, r *http.Request, err error) {
	log := logger.FromContext(r.Context())
	log.Warn("domain error", zap.Error(err))
	msg := safeDomainMessage(err)
	for _, h := range s.errorHandlers {
		if h(w, err, msg) {
			return
		}
	}
	log.Error("internal error", zap.Error(err))
	writeError(w, http.StatusInternalServerError, codeInternalError, "internal error")
}
