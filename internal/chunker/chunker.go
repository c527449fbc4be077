package chunker

import (
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/dgallion1/docmap/internal/document"
)

// Config controls chunking behavior. Sizes are in bytes of UTF-8 text.
type Config struct {
	ChunkSize    int // Maximum chunk length.
	ChunkOverlap int // Overlap between consecutive windows of an oversized chunk.
}

// DefaultConfig returns sensible defaults.
func DefaultConfig() Config {
	return Config{
		ChunkSize:    1000,
		ChunkOverlap: 200,
	}
}

func (c Config) normalize() Config {
	if c.ChunkSize <= 0 {
		c.ChunkSize = 1000
	}
	if c.ChunkOverlap < 0 {
		c.ChunkOverlap = 0
	}
	if c.ChunkOverlap >= c.ChunkSize {
		c.ChunkOverlap = c.ChunkSize / 5
	}
	return c
}

// headerLine matches lines opening with chapter/section/part, or all-caps
// lines of at least nine characters.
var headerLine = regexp.MustCompile(`(?m)^(?:(?i:chapter|section|part)\b|[A-Z][A-Z \t0-9:\-]{8,}$)`)

const paragraphSep = "\n\n"

type span struct {
	start, end int
}

// Chunk splits text into ordered chunks. Header-delimited spans are used when
// at least two headers are present, otherwise blank-line paragraphs are packed
// greedily up to cfg.ChunkSize. Any chunk still over the limit is cut into
// overlapping windows. When pages is non-nil each chunk is annotated with the
// pages its first and last byte fall on.
func Chunk(text string, cfg Config, pages *PageMap) []document.Chunk {
	cfg = cfg.normalize()

	var spans []span
	if starts := headerStarts(text); len(starts) > 1 {
		spans = headerSpans(text, starts)
	} else {
		spans = paragraphSpans(text, cfg.ChunkSize)
	}

	var chunks []document.Chunk
	for _, sp := range spans {
		chunks = append(chunks, enforceSize(text, sp, cfg)...)
	}

	if pages != nil {
		for i := range chunks {
			if p, ok := pages.PageAt(chunks[i].StartOffset); ok {
				chunks[i].StartPage = &p
			}
			if p, ok := pages.PageAt(chunks[i].EndOffset - 1); ok {
				chunks[i].EndPage = &p
			}
		}
	}
	return chunks
}

func headerStarts(text string) []int {
	locs := headerLine.FindAllStringIndex(text, -1)
	starts := make([]int, len(locs))
	for i, loc := range locs {
		starts[i] = loc[0]
	}
	return starts
}

// headerSpans cuts text at every header start. Text ahead of the first header
// becomes its own span so nothing is dropped.
func headerSpans(text string, starts []int) []span {
	bounds := starts
	if starts[0] > 0 {
		bounds = append([]int{0}, starts...)
	}
	var spans []span
	for i, start := range bounds {
		end := len(text)
		if i+1 < len(bounds) {
			end = bounds[i+1]
		}
		if sp, ok := trimSpan(text, start, end); ok {
			spans = append(spans, sp)
		}
	}
	return spans
}

// paragraphSpans packs blank-line separated paragraphs into spans whose
// joined length stays within maxSize. Paragraph offsets come from a cursor
// that only moves forward, so repeated paragraph text keeps distinct offsets.
func paragraphSpans(text string, maxSize int) []span {
	var (
		spans  []span
		cur    span
		curLen int
		open   bool
		cursor int
	)
	for _, piece := range strings.Split(text, paragraphSep) {
		pieceStart := cursor
		cursor += len(piece) + len(paragraphSep)

		para, ok := trimSpan(text, pieceStart, pieceStart+len(piece))
		if !ok {
			continue
		}
		paraLen := para.end - para.start

		if curLen+paraLen+len(paragraphSep) <= maxSize {
			if !open {
				cur.start = para.start
				open = true
			}
			cur.end = para.end
			curLen += paraLen + len(paragraphSep)
			continue
		}
		if open {
			spans = append(spans, cur)
		}
		cur = para
		curLen = paraLen + len(paragraphSep)
		open = true
	}
	if open {
		spans = append(spans, cur)
	}
	return spans
}

// enforceSize passes spans within the limit through and cuts larger ones into
// windows of cfg.ChunkSize stepping by ChunkSize-ChunkOverlap. A window cut
// short at a rune boundary pulls the next start back with it, so consecutive
// windows never leave a gap.
func enforceSize(text string, sp span, cfg Config) []document.Chunk {
	if sp.end-sp.start <= cfg.ChunkSize {
		return []document.Chunk{newChunk(text, sp.start, sp.end)}
	}
	step := cfg.ChunkSize - cfg.ChunkOverlap
	var out []document.Chunk
	for start := sp.start; start < sp.end; {
		end := min(start+cfg.ChunkSize, sp.end)
		next := start + step
		if end < sp.end {
			end = runeFloor(text, end, start+1)
			next = min(next, end-cfg.ChunkOverlap)
		}
		out = append(out, newChunk(text, start, end))

		next = runeFloor(text, next, sp.start)
		if next <= start {
			next = end
		}
		start = next
	}
	return out
}

func newChunk(text string, start, end int) document.Chunk {
	return document.Chunk{Text: text[start:end], StartOffset: start, EndOffset: end}
}

// trimSpan shrinks [start,end) past surrounding whitespace. It reports false
// when nothing but whitespace remains.
func trimSpan(text string, start, end int) (span, bool) {
	seg := text[start:end]
	left := strings.TrimLeftFunc(seg, unicode.IsSpace)
	trimmed := strings.TrimRightFunc(left, unicode.IsSpace)
	if trimmed == "" {
		return span{}, false
	}
	s := start + len(seg) - len(left)
	return span{start: s, end: s + len(trimmed)}, true
}

// runeFloor moves i back to the start of the rune containing it, never
// below floor.
func runeFloor(text string, i, floor int) int {
	for i > floor && i < len(text) && !utf8.RuneStart(text[i]) {
		i--
	}
	return i
}
