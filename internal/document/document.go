// Package document holds the types shared by the ingestion and query
// pipelines: detected index entries, sections, knowledge-map entries,
// chunks and citations.
package document

// IndexEntry is one table-of-contents line found in the leading pages.
type IndexEntry struct {
	Title   string `json:"title"`    // Keyword plus label, e.g. "Chapter 3"
	PageRef int    `json:"page_ref"` // Page number as printed in the document's TOC
	Line    string `json:"line"`     // Full source line
	TOCPage int    `json:"toc_page"` // 1-based page where the line was found
}

// Section is a contiguous page range [StartPage, EndPage).
type Section struct {
	Title     string `json:"title"`
	StartPage int    `json:"start_page"`
	EndPage   int    `json:"end_page"`
}

// Pages returns the number of pages the section spans (negative for an
// inverted range coming from a malformed TOC).
func (s Section) Pages() int {
	return s.EndPage - s.StartPage
}

// KnowledgeMapEntry is the persisted summary of one section.
type KnowledgeMapEntry struct {
	ChapterName string `json:"chapter_name"`
	StartPage   int    `json:"start_page"`
	EndPage     int    `json:"end_page"`
	Summary     string `json:"summary"`
}

// Section returns the page range this entry summarizes.
func (e KnowledgeMapEntry) Section() Section {
	return Section{Title: e.ChapterName, StartPage: e.StartPage, EndPage: e.EndPage}
}

// ScoredSection is a relevance rating for the knowledge-map entry at Index.
type ScoredSection struct {
	Score float64 `json:"score"`
	Index int     `json:"index"`
}

// Chunk is a bounded span of section text. Text == source[StartOffset:EndOffset].
type Chunk struct {
	Text        string `json:"chunk"`
	StartOffset int    `json:"start_offset"`
	EndOffset   int    `json:"end_offset"`
	StartPage   *int   `json:"start_page"`
	EndPage     *int   `json:"end_page"`
}

// Len returns the chunk length in bytes.
func (c Chunk) Len() int {
	return c.EndOffset - c.StartOffset
}

// Reference is a citation returned alongside an answer. StartPage and
// EndPage bound the section; the chunk bounds are set when known.
type Reference struct {
	Chunk          string `json:"chunk"`
	Chapter        string `json:"chapter"`
	StartPage      int    `json:"start_page"`
	EndPage        int    `json:"end_page"`
	ChunkStartPage *int   `json:"chunk_start_page,omitempty"`
	ChunkEndPage   *int   `json:"chunk_end_page,omitempty"`
}
