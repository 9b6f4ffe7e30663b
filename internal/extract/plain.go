package extract

import (
	"fmt"
	"unicode/utf8"
)

// PlainExtractor passes through UTF-8 text files.
type PlainExtractor struct{}

// Supports reports whether the file is a plain text or markdown file.
func (p *PlainExtractor) Supports(filename string) bool {
	return hasExt(filename, ".txt", ".md", ".markdown")
}

// Extract returns the bytes as a string, rejecting invalid UTF-8.
func (p *PlainExtractor) Extract(data []byte, filename string) (string, error) {
	if !utf8.Valid(data) {
		return "", fmt.Errorf("not valid utf-8")
	}
	return string(data), nil
}
