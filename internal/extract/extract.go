// Package extract turns uploaded binary documents into plain text.
package extract

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/aditya0072001/text-similarity-detection-api/internal/domain"
)

// Extractor converts one document format into plain text.
type Extractor interface {
	Extract(data []byte, filename string) (string, error)
	Supports(filename string) bool
}

// Registry dispatches extraction to the first extractor that supports the
// file, by extension.
type Registry struct {
	extractors []Extractor
}

// NewRegistry creates a registry with all built-in extractors.
func NewRegistry() *Registry {
	return &Registry{
		extractors: []Extractor{
			&PDFExtractor{},
			&WordExtractor{},
			&ExcelExtractor{},
			&PlainExtractor{},
		},
	}
}

// NewPDFRegistry creates a registry that accepts PDF documents only.
func NewPDFRegistry() *Registry {
	return &Registry{extractors: []Extractor{&PDFExtractor{}}}
}

// Extract dispatches to the matching extractor. All failures, including an
// unsupported format, wrap domain.ErrExtraction.
func (r *Registry) Extract(data []byte, filename string) (string, error) {
	for _, e := range r.extractors {
		if e.Supports(filename) {
			text, err := e.Extract(data, filename)
			if err != nil {
				return "", fmt.Errorf("%w: %s: %w", domain.ErrExtraction, filename, err)
			}
			return text, nil
		}
	}
	return "", fmt.Errorf("%w: unsupported format %q (supported: %s)",
		domain.ErrExtraction, filepath.Ext(filename), strings.Join(r.SupportedExtensions(), ", "))
}

// SupportedExtensions lists the extensions the registry accepts.
func (r *Registry) SupportedExtensions() []string {
	var exts []string
	for _, e := range r.extractors {
		switch e.(type) {
		case *PDFExtractor:
			exts = append(exts, ".pdf")
		case *WordExtractor:
			exts = append(exts, ".docx")
		case *ExcelExtractor:
			exts = append(exts, ".xlsx")
		case *PlainExtractor:
			exts = append(exts, ".txt", ".md")
		}
	}
	return exts
}

func hasExt(filename string, exts ...string) bool {
	ext := strings.ToLower(filepath.Ext(filename))
	for _, e := range exts {
		if ext == e {
			return true
		}
	}
	return false
}
