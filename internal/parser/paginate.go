package parser

import (
	"strings"
	"unicode/utf8"
)

// DefaultPageChars is the page size used for formats that have no pages of
// their own.
const DefaultPageChars = 3000

const blockSep = "\n\n"

// Paginate packs text blocks into pages of at most limit bytes, breaking only
// between blocks. A block longer than limit is cut at line breaks, or hard
// cut when a single line is too long.
func Paginate(blocks []string, limit int) []string {
	if limit <= 0 {
		limit = DefaultPageChars
	}
	var (
		pages []string
		cur   strings.Builder
	)
	flush := func() {
		if cur.Len() > 0 {
			pages = append(pages, cur.String())
			cur.Reset()
		}
	}
	add := func(b string) {
		if cur.Len() > 0 && cur.Len()+len(blockSep)+len(b) > limit {
			flush()
		}
		if cur.Len() > 0 {
			cur.WriteString(blockSep)
		}
		cur.WriteString(b)
	}

	for _, block := range blocks {
		block = strings.TrimSpace(block)
		if block == "" {
			continue
		}
		if len(block) <= limit {
			add(block)
			continue
		}
		for _, piece := range splitOversized(block, limit) {
			add(piece)
		}
	}
	flush()
	return pages
}

// splitOversized cuts a block into pieces of at most limit bytes, preferring
// line breaks.
func splitOversized(block string, limit int) []string {
	var (
		out []string
		cur strings.Builder
	)
	for _, line := range strings.Split(block, "\n") {
		for len(line) > limit {
			if cur.Len() > 0 {
				out = append(out, cur.String())
				cur.Reset()
			}
			cut := limit
			for cut > 0 && !utf8.RuneStart(line[cut]) {
				cut--
			}
			if cut == 0 {
				cut = limit
			}
			out = append(out, line[:cut])
			line = line[cut:]
		}
		if cur.Len() > 0 && cur.Len()+1+len(line) > limit {
			out = append(out, cur.String())
			cur.Reset()
		}
		if cur.Len() > 0 {
			cur.WriteByte('\n')
		}
		cur.WriteString(line)
	}
	if cur.Len() > 0 {
		out = append(out, cur.String())
	}
	return out
}

// blocks collects document blocks. A heading is held until the next
// paragraph and emitted with it, so pagination never strands a heading at
// the bottom of a page.
type blocks struct {
	out     []string
	heading string
}

func (b *blocks) addHeading(text string) {
	if text == "" {
		return
	}
	if b.heading != "" {
		b.out = append(b.out, b.heading)
	}
	b.heading = text
}

func (b *blocks) addParagraph(text string) {
	if text == "" {
		return
	}
	if b.heading != "" {
		text = b.heading + "\n" + text
		b.heading = ""
	}
	b.out = append(b.out, text)
}

func (b *blocks) list() []string {
	if b.heading != "" {
		b.out = append(b.out, b.heading)
		b.heading = ""
	}
	return b.out
}
