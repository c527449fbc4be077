package structure

import (
	"strings"

	"github.com/dgallion1/docmap/internal/document"
)

// FirstContentPage returns the index of the first page with non-blank text,
// or 0 when every page is blank.
func FirstContentPage(pages []string) int {
	for i, p := range pages {
		if strings.TrimSpace(p) != "" {
			return i
		}
	}
	return 0
}

// CalculatePageOffset returns actualFirstPage - index[0].PageRef, or 0 for an
// empty index. Segmentation does not use it unless the caller opts in via
// ApplyPageOffset.
func CalculatePageOffset(index []document.IndexEntry, actualFirstPage int) int {
	if len(index) == 0 {
		return 0
	}
	return actualFirstPage - index[0].PageRef
}

// ApplyPageOffset returns a copy of index with offset added to every PageRef.
func ApplyPageOffset(index []document.IndexEntry, offset int) []document.IndexEntry {
	if len(index) == 0 {
		return index
	}
	out := make([]document.IndexEntry, len(index))
	for i, e := range index {
		e.PageRef += offset
		out[i] = e
	}
	return out
}
