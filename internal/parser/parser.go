// Package parser turns source documents into an ordered array of page texts.
package parser

import (
	"fmt"
	"io"
	"path/filepath"
	"strings"
)

// Parser converts raw document bytes into pages.
type Parser interface {
	Parse(r io.Reader, filename string) ([]string, error)
}

// supportedExtensions lists file extensions this service can handle.
var supportedExtensions = map[string]bool{
	".txt":      true,
	".md":       true,
	".markdown": true,
	".csv":      true,
	".html":     true,
	".htm":      true,
	".pdf":      true,
	".docx":     true,
}

// Options tune the parsers returned by ForFile.
type Options struct {
	PageChars         int  // Page size for formats without native pages.
	FallbackPdftotext bool // Retry PDFs with the pdftotext binary.
	AllowFileScheme   bool // Let the extractor read file:// URLs from local disk.
}

// ForFile returns the appropriate parser for a filename.
func ForFile(filename string, opts Options) (Parser, error) {
	pageChars := opts.PageChars
	if pageChars <= 0 {
		pageChars = DefaultPageChars
	}
	ext := strings.ToLower(filepath.Ext(filename))
	switch ext {
	case ".txt":
		return &TextParser{PageChars: pageChars}, nil
	case ".md", ".markdown":
		return &MarkdownParser{PageChars: pageChars}, nil
	case ".csv":
		return &CSVParser{PageChars: pageChars}, nil
	case ".html", ".htm":
		return &HTMLParser{PageChars: pageChars}, nil
	case ".pdf":
		return &PDFParser{FallbackPdftotext: opts.FallbackPdftotext}, nil
	case ".docx":
		return &DOCXParser{PageChars: pageChars}, nil
	default:
		return nil, fmt.Errorf("unsupported file extension: %q", ext)
	}
}

// IsSupportedExtension checks if a file extension is supported.
func IsSupportedExtension(filename string) bool {
	ext := strings.ToLower(filepath.Ext(filename))
	return supportedExtensions[ext]
}
