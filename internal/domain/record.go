package domain

import "time"

// ScoredPair is a candidate text paired with its dot-product similarity
// score relative to the query text. Scores are unbounded in sign; higher
// means more similar.
type ScoredPair struct {
	Text  string
	Score float64
}

// Record is the persisted outcome of one comparison. Exactly one of
// SimilarTexts (single-text requests) or FileResults (multi-file batches)
// is populated. Records are immutable after creation; OriginalText is the
// application-level dedup key.
type Record struct {
	ID           string
	OriginalText string
	SimilarTexts []ScoredPair
	FileResults  map[string][]ScoredPair
	CreatedAt    time.Time
}

// Document is one uploaded file within a batch request. Transient; it
// exists only for the duration of the request.
type Document struct {
	SourceName string
	Data       []byte
}
