// Package structure recovers a document's coarse layout from its page text:
// table-of-contents detection, the diagnostic page-numbering offset, and
// segmentation into sections.
package structure

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/dgallion1/docmap/internal/document"
)

// DefaultMaxTOCPages is how many leading pages are scanned for TOC lines.
const DefaultMaxTOCPages = 50

// tocLine matches "Chapter 1 .... 3", "Section 2.3 Methods 12", "PART iv - 40".
// The page reference is the last integer on the line.
var tocLine = regexp.MustCompile(`(?i)\b(chapter|section|part)\s+([\w.\-]+)\D.*?(\d+)\D*$`)

// DetectIndex scans the first maxTOCPages pages line by line and returns one
// entry per TOC-style line, in page-major then line-major order. An empty
// result means no TOC was detected.
func DetectIndex(pages []string, maxTOCPages int) []document.IndexEntry {
	if maxTOCPages <= 0 {
		maxTOCPages = DefaultMaxTOCPages
	}
	limit := min(maxTOCPages, len(pages))

	var index []document.IndexEntry
	for i := range limit {
		for _, line := range strings.Split(pages[i], "\n") {
			entry, ok := parseTOCLine(line)
			if !ok {
				continue
			}
			entry.TOCPage = i + 1
			index = append(index, entry)
		}
	}
	return index
}

func parseTOCLine(line string) (document.IndexEntry, bool) {
	m := tocLine.FindStringSubmatch(line)
	if m == nil {
		return document.IndexEntry{}, false
	}
	ref, err := strconv.Atoi(m[3])
	if err != nil {
		// Longer than an int; not a page number.
		return document.IndexEntry{}, false
	}
	return document.IndexEntry{
		Title:   m[1] + " " + strings.TrimRight(m[2], ".-"),
		PageRef: ref,
		Line:    line,
	}, true
}
