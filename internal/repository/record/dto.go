package record

import (
	"encoding/json"
	"time"

	"github.com/aditya0072001/text-similarity-detection-api/internal/domain"
)

// recordDoc is the stored JSON shape of a record.
type recordDoc struct {
	ID           string                     `json:"id"`
	OriginalText string                     `json:"original_text"`
	SimilarTexts []scoredPairDoc            `json:"similar_texts,omitempty"`
	FileResults  map[string][]scoredPairDoc `json:"file_results,omitempty"`
	CreatedAt    time.Time                  `json:"created_at"`
}

type scoredPairDoc struct {
	Text  string  `json:"text"`
	Score float64 `json:"score"`
}

func marshalRecord(rec domain.Record) ([]byte, error) {
	doc := recordDoc{
		ID:           rec.ID,
		OriginalText: rec.OriginalText,
		SimilarTexts: pairsToDoc(rec.SimilarTexts),
		CreatedAt:    rec.CreatedAt,
	}
	if rec.FileResults != nil {
		doc.FileResults = make(map[string][]scoredPairDoc, len(rec.FileResults))
		for name, pairs := range rec.FileResults {
			doc.FileResults[name] = pairsToDoc(pairs)
		}
	}
	return json.Marshal(doc)
}

func unmarshalRecord(data []byte) (domain.Record, error) {
	var doc recordDoc
	if err := json.Unmarshal(data, &doc); err != nil {
		return domain.Record{}, err
	}

	rec := domain.Record{
		ID:           doc.ID,
		OriginalText: doc.OriginalText,
		SimilarTexts: pairsFromDoc(doc.SimilarTexts),
		CreatedAt:    doc.CreatedAt,
	}
	if doc.FileResults != nil {
		rec.FileResults = make(map[string][]domain.ScoredPair, len(doc.FileResults))
		for name, pairs := range doc.FileResults {
			rec.FileResults[name] = pairsFromDoc(pairs)
		}
	}
	return rec, nil
}

func pairsToDoc(pairs []domain.ScoredPair) []scoredPairDoc {
	if pairs == nil {
		return nil
	}
	out := make([]scoredPairDoc, len(pairs))
	for i, p := range pairs {
		out[i] = scoredPairDoc{Text: p.Text, Score: p.Score}
	}
	return out
}

func pairsFromDoc(pairs []scoredPairDoc) []domain.ScoredPair {
	if pairs == nil {
		return nil
	}
	out := make([]domain.ScoredPair, len(pairs))
	for i, p := range pairs {
		out[i] = domain.ScoredPair{Text: p.Text, Score: p.Score}
	}
	return out
}
