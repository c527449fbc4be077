package chunker

import (
	"sort"
	"strings"

	"github.com/dgallion1/docmap/internal/document"
)

// ChapterText reconstructs a section's text by joining pages
// [StartPage, EndPage) with newlines. Out-of-range bounds are clamped.
func ChapterText(pages []string, sec document.Section) string {
	lo, hi := clampRange(sec, len(pages))
	return strings.Join(pages[lo:hi], "\n")
}

// ChapterPages is ChapterText plus a PageMap from offsets in the returned
// text to absolute page indices.
func ChapterPages(pages []string, sec document.Section) (string, *PageMap) {
	lo, hi := clampRange(sec, len(pages))
	var sb strings.Builder
	starts := make([]int, 0, hi-lo)
	for i := lo; i < hi; i++ {
		if i > lo {
			sb.WriteByte('\n')
		}
		starts = append(starts, sb.Len())
		sb.WriteString(pages[i])
	}
	return sb.String(), NewPageMap(starts, lo, sb.Len())
}

func clampRange(sec document.Section, n int) (int, int) {
	lo := min(max(sec.StartPage, 0), n)
	hi := min(max(sec.EndPage, 0), n)
	if hi < lo {
		hi = lo
	}
	return lo, hi
}

// PageMap maps byte offsets of a chapter's text to page indices.
type PageMap struct {
	starts []int // offset where each page begins, ascending
	pages  []int
	length int
}

// NewPageMap builds a map from ascending page start offsets; the page at
// starts[i] is firstPage+i and the text is length bytes long.
func NewPageMap(starts []int, firstPage, length int) *PageMap {
	m := &PageMap{starts: append([]int(nil), starts...), length: length}
	m.pages = make([]int, len(starts))
	for i := range starts {
		m.pages[i] = firstPage + i
	}
	return m
}

// PageAt returns the page containing offset.
func (m *PageMap) PageAt(offset int) (int, bool) {
	if m == nil || len(m.starts) == 0 || offset < 0 || offset >= m.length {
		return 0, false
	}
	i := sort.SearchInts(m.starts, offset+1) - 1
	if i < 0 {
		return 0, false
	}
	return m.pages[i], true
}
