package chi

import (
	"time"

	"github.com/aditya0072001/text-similarity-detection-api/internal/domain"
	comparisonuc "github.com/aditya0072001/text-similarity-detection-api/internal/usecase/comparison"
)

// Error response codes.
const (
	codeBadRequest        = "bad_request"
	codeValidationFailed  = "validation_failed"
	codeNotFound          = "record_not_found"
	codeExtractionFailed  = "extraction_failed"
	codeEmbeddingProvider = "embedding_provider_error"
	codeEmbeddingTimeout  = "embedding_timeout"
	codeStoreUnavailable  = "store_unavailable"
	codeUnauthorized      = "unauthorized"
	codeInternalError     = "internal_error"
)

type errorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

type compareTextRequest struct {
	OriginalText   string   `json:"original_text"`
	CandidateTexts []string `json:"candidate_texts"`
}

type scoredPairResponse struct {
	Text  string  `json:"text"`
	Score float64 `json:"score"`
}

type recordResponse struct {
	ID           string                          `json:"id"`
	OriginalText string                          `json:"original_text"`
	SimilarTexts []scoredPairResponse            `json:"similar_texts,omitempty"`
	FileResults  map[string][]scoredPairResponse `json:"file_results,omitempty"`
	CreatedAt    time.Time                       `json:"created_at"`
}

type comparisonResponse struct {
	recordResponse
	Cached    bool `json:"cached"`
	Persisted bool `json:"persisted"`
}

type recordListResponse struct {
	Items []recordResponse `json:"items"`
	Total int              `json:"total"`
}

func recordToResponse(rec domain.Record) recordResponse {
	resp := recordResponse{
		ID:           rec.ID,
		OriginalText: rec.OriginalText,
		SimilarTexts: pairsToResponse(rec.SimilarTexts),
		CreatedAt:    rec.CreatedAt,
	}
	if rec.FileResults != nil {
		resp.FileResults = make(map[string][]scoredPairResponse, len(rec.FileResults))
		for name, pairs := range rec.FileResults {
			resp.FileResults[name] = pairsToResponse(pairs)
		}
	}
	return resp
}

func comparisonToResponse(res comparisonuc.Result) comparisonResponse {
	return comparisonResponse{
		recordResponse: recordToResponse(res.Record),
		Cached:         res.CacheHit,
		Persisted:      res.Persisted,
	}
}

func pairsToResponse(pairs []domain.ScoredPair) []scoredPairResponse {
	if pairs == nil {
		return nil
	}
	out := make([]scoredPairResponse, len(pairs))
	for i, p := range pairs {
		out[i] = scoredPairResponse{Text: p.Text, Score: p.Score}
	}
	return out
}
