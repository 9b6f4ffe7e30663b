package extract

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/unidoc/unipdf/v3/extractor"
	"github.com/unidoc/unipdf/v3/model"
)

// PDFExtractor extracts text from PDF documents page by page.
type PDFExtractor struct{}

// Supports reports whether the file looks like a PDF.
func (p *PDFExtractor) Supports(filename string) bool {
	return hasExt(filename, ".pdf")
}

// Extract concatenates the text of every page. A page that cannot be read
// fails the whole document: a partially extracted text would silently
// change the dedup key.
func (p *PDFExtractor) Extract(data []byte, filename string) (string, error) {
	reader, err := model.NewPdfReader(bytes.NewReader(data))
	if err != nil {
		return "", fmt.Errorf("parse pdf: %w", err)
	}

	numPages, err := reader.GetNumPages()
	if err != nil {
		return "", fmt.Errorf("page count: %w", err)
	}

	var b strings.Builder
	for i := 1; i <= numPages; i++ {
		page, err := reader.GetPage(i)
		if err != nil {
			return "", fmt.Errorf("page %d: %w", i, err)
		}

		ex, err := extractor.New(page)
		if err != nil {
			return "", fmt.Errorf("extractor page %d: %w", i, err)
		}

		text, err := ex.ExtractText()
		if err != nil {
			return "", fmt.Errorf("extract page %d: %w", i, err)
		}

		b.WriteString(text)
		b.WriteString("\n")
	}

	return b.String(), nil
}
