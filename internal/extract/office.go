package extract

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/unidoc/unioffice/document"
	"github.com/unidoc/unioffice/spreadsheet"
)

// WordExtractor extracts paragraph text from DOCX documents.
type WordExtractor struct{}

// Supports reports whether the file is a DOCX document.
func (w *WordExtractor) Supports(filename string) bool {
	return hasExt(filename, ".docx")
}

// Extract joins the runs of every paragraph, one paragraph per line.
func (w *WordExtractor) Extract(data []byte, filename string) (string, error) {
	doc, err := document.Read(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", fmt.Errorf("parse docx: %w", err)
	}
	defer doc.Close()

	var b strings.Builder
	for _, para := range doc.Paragraphs() {
		for _, run := range para.Runs() {
			b.WriteString(run.Text())
		}
		b.WriteString("\n")
	}

	return b.String(), nil
}

// ExcelExtractor extracts cell text from XLSX spreadsheets.
type ExcelExtractor struct{}

// Supports reports whether the file is an XLSX spreadsheet.
func (e *ExcelExtractor) Supports(filename string) bool {
	return hasExt(filename, ".xlsx")
}

// Extract renders each sheet as tab-separated rows.
func (e *ExcelExtractor) Extract(data []byte, filename string) (string, error) {
	ss, err := spreadsheet.Read(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", fmt.Errorf("parse xlsx: %w", err)
	}
	defer ss.Close()

	var b strings.Builder
	for _, sheet := range ss.Sheets() {
		for _, row := range sheet.Rows() {
			cells := row.Cells()
			values := make([]string, 0, len(cells))
			for _, cell := range cells {
				values = append(values, cell.GetString())
			}
			if len(values) > 0 {
				b.WriteString(strings.Join(values, "\t"))
				b.WriteString("\n")
			}
		}
		b.WriteString("\n")
	}

	return b.String(), nil
}
