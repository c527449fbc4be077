package structure

import (
	"fmt"

	"github.com/dgallion1/docmap/internal/document"
)

// minFallbackSection is the smallest section size used when no TOC exists.
const minFallbackSection = 5

// Segment turns the detected index into ordered sections. Section i spans
// [index[i].PageRef, index[i+1].PageRef) and the last one runs to
// totalPages. Page references are taken as-is: a non-monotonic or
// out-of-range TOC yields inverted or out-of-range sections, which
// downstream stages must tolerate.
//
// With an empty index the document is split uniformly into sections of
// max(5, totalPages/10) pages, the last truncated to totalPages.
func Segment(index []document.IndexEntry, totalPages int) []document.Section {
	if len(index) > 0 {
		sections := make([]document.Section, 0, len(index))
		for i, entry := range index {
			end := totalPages
			if i+1 < len(index) {
				end = index[i+1].PageRef
			}
			sections = append(sections, document.Section{
				Title:     entry.Title,
				StartPage: entry.PageRef,
				EndPage:   end,
			})
		}
		return sections
	}

	if totalPages <= 0 {
		return nil
	}
	n := max(minFallbackSection, totalPages/10)
	count := (totalPages + n - 1) / n
	sections := make([]document.Section, 0, count)
	for i := range count {
		sections = append(sections, document.Section{
			Title:     fmt.Sprintf("Section %d", i+1),
			StartPage: i * n,
			EndPage:   min((i+1)*n, totalPages),
		})
	}
	return sections
}
