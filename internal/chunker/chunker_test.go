package chunker

import (
	"strings"
	"testing"
	"unicode"

	"github.com/dgallion1/docmap/internal/document"
)

func assertSourceSlices(t *testing.T, text string, chunks []document.Chunk) {
	t.Helper()
	for i, c := range chunks {
		if c.StartOffset >= c.EndOffset {
			t.Errorf("chunk %d: empty span [%d,%d)", i, c.StartOffset, c.EndOffset)
			continue
		}
		if got := text[c.StartOffset:c.EndOffset]; got != c.Text {
			t.Errorf("chunk %d: text does not match source span: %q vs %q", i, c.Text, got)
		}
	}
}

func TestChunk_HeaderDelimited(t *testing.T) {
	text := "Preface text here.\nCHAPTER ONE BEGINS\nIt was cold.\n\nSECTION 2 notes\nIt was warm.\n"
	chunks := Chunk(text, DefaultConfig(), nil)

	want := []string{
		"Preface text here.",
		"CHAPTER ONE BEGINS\nIt was cold.",
		"SECTION 2 notes\nIt was warm.",
	}
	if len(chunks) != len(want) {
		t.Fatalf("expected %d chunks, got %d: %+v", len(want), len(chunks), chunks)
	}
	for i, w := range want {
		if chunks[i].Text != w {
			t.Errorf("chunk %d: expected %q, got %q", i, w, chunks[i].Text)
		}
		if chunks[i].StartPage != nil || chunks[i].EndPage != nil {
			t.Errorf("chunk %d: expected no page annotation without a page map", i)
		}
	}
	assertSourceSlices(t, text, chunks)
}

func TestChunk_AllCapsHeadings(t *testing.T) {
	text := "INTRODUCTION TO GO\nFirst part.\nCONCURRENCY PATTERNS\nSecond part."
	chunks := Chunk(text, DefaultConfig(), nil)
	if len(chunks) != 2 {
		t.Fatalf("expected 2 chunks, got %d", len(chunks))
	}
	if !strings.HasPrefix(chunks[1].Text, "CONCURRENCY PATTERNS") {
		t.Errorf("expected second chunk to start at the heading, got %q", chunks[1].Text)
	}
}

func TestChunk_ShortCapsAndMidLineKeywordsAreNotHeaders(t *testing.T) {
	text := "TABLE 1\nWe discuss the chapter in part.\n\nANOTHER\nA section follows."
	starts := headerStarts(text)
	if len(starts) != 0 {
		t.Errorf("expected no headers, got starts %v", starts)
	}
}

func TestChunk_SingleHeaderFallsBackToParagraphs(t *testing.T) {
	text := "Chapter 1\n\nalpha beta\n\ngamma delta"
	chunks := Chunk(text, Config{ChunkSize: 1000, ChunkOverlap: 200}, nil)
	if len(chunks) != 1 {
		t.Fatalf("expected 1 packed chunk, got %d", len(chunks))
	}
	if chunks[0].Text != text {
		t.Errorf("expected whole text in one chunk, got %q", chunks[0].Text)
	}
}

func TestChunk_ParagraphPacking(t *testing.T) {
	text := "alpha beta\n\ngamma delta\n\nepsilon zeta eta theta"
	chunks := Chunk(text, Config{ChunkSize: 30, ChunkOverlap: 5}, nil)

	want := []struct {
		text       string
		start, end int
	}{
		{"alpha beta\n\ngamma delta", 0, 23},
		{"epsilon zeta eta theta", 25, 47},
	}
	if len(chunks) != len(want) {
		t.Fatalf("expected %d chunks, got %d: %+v", len(want), len(chunks), chunks)
	}
	for i, w := range want {
		c := chunks[i]
		if c.Text != w.text || c.StartOffset != w.start || c.EndOffset != w.end {
			t.Errorf("chunk %d: expected %q [%d,%d), got %q [%d,%d)",
				i, w.text, w.start, w.end, c.Text, c.StartOffset, c.EndOffset)
		}
	}
}

func TestChunk_RepeatedParagraphsKeepDistinctOffsets(t *testing.T) {
	text := "same paragraph\n\nsame paragraph\n\nsame paragraph"
	chunks := Chunk(text, Config{ChunkSize: 20, ChunkOverlap: 4}, nil)
	if len(chunks) != 3 {
		t.Fatalf("expected 3 chunks, got %d", len(chunks))
	}
	wantStarts := []int{0, 16, 32}
	for i, c := range chunks {
		if c.StartOffset != wantStarts[i] {
			t.Errorf("chunk %d: expected start %d, got %d", i, wantStarts[i], c.StartOffset)
		}
	}
	assertSourceSlices(t, text, chunks)
}

func TestChunk_OversizedWindows(t *testing.T) {
	text := strings.Repeat("abcdefghij", 250)
	cfg := Config{ChunkSize: 1000, ChunkOverlap: 200}
	chunks := Chunk(text, cfg, nil)

	wantStarts := []int{0, 800, 1600, 2400}
	wantLens := []int{1000, 1000, 900, 100}
	if len(chunks) != len(wantStarts) {
		t.Fatalf("expected %d windows, got %d", len(wantStarts), len(chunks))
	}
	for i, c := range chunks {
		if c.StartOffset != wantStarts[i] {
			t.Errorf("window %d: expected start %d, got %d", i, wantStarts[i], c.StartOffset)
		}
		if c.Len() != wantLens[i] {
			t.Errorf("window %d: expected length %d, got %d", i, wantLens[i], c.Len())
		}
		if i > 0 {
			prev := chunks[i-1]
			if c.StartOffset-prev.StartOffset != cfg.ChunkSize-cfg.ChunkOverlap {
				t.Errorf("window %d: expected start delta %d, got %d", i, cfg.ChunkSize-cfg.ChunkOverlap, c.StartOffset-prev.StartOffset)
			}
			shared := prev.EndOffset - c.StartOffset
			if i < len(chunks)-1 && shared != cfg.ChunkOverlap {
				t.Errorf("window %d: expected %d shared bytes, got %d", i, cfg.ChunkOverlap, shared)
			}
		}
	}
	assertSourceSlices(t, text, chunks)
}

func TestChunk_MaxSizeHolds(t *testing.T) {
	var sb strings.Builder
	for i := range 40 {
		sb.WriteString(strings.Repeat("word ", 10+i*7))
		sb.WriteString("\n\n")
	}
	text := sb.String()
	cfg := Config{ChunkSize: 300, ChunkOverlap: 50}
	chunks := Chunk(text, cfg, nil)
	if len(chunks) == 0 {
		t.Fatal("expected chunks")
	}
	for i, c := range chunks {
		if c.Len() > cfg.ChunkSize {
			t.Errorf("chunk %d: length %d exceeds %d", i, c.Len(), cfg.ChunkSize)
		}
	}
	assertSourceSlices(t, text, chunks)
}

func TestChunk_SpansCoverAllText(t *testing.T) {
	inputs := map[string]string{
		"paragraphs": "one two\n\n\n\nthree four five\n\n  six  \n\nseven",
		"headers":    "intro words\nCHAPTER A\nbody a\nPART B\nbody b\n\n\nmore b",
	}
	for name, text := range inputs {
		t.Run(name, func(t *testing.T) {
			var spans []span
			if starts := headerStarts(text); len(starts) > 1 {
				spans = headerSpans(text, starts)
			} else {
				spans = paragraphSpans(text, 12)
			}
			covered := make([]bool, len(text))
			for _, sp := range spans {
				for i := sp.start; i < sp.end; i++ {
					covered[i] = true
				}
			}
			for i, r := range text {
				if !unicode.IsSpace(r) && !covered[i] {
					t.Errorf("byte %d (%q) not covered by any span", i, r)
				}
			}
		})
	}
}

func TestChunk_EmptyAndBlank(t *testing.T) {
	for _, text := range []string{"", "   \n\n \t\n"} {
		if got := Chunk(text, DefaultConfig(), nil); len(got) != 0 {
			t.Errorf("expected no chunks for %q, got %+v", text, got)
		}
	}
}

func TestChunk_MultibyteWindowsStayValid(t *testing.T) {
	text := strings.Repeat("héllo wörld ", 30)
	chunks := Chunk(text, Config{ChunkSize: 50, ChunkOverlap: 10}, nil)
	for i, c := range chunks {
		if !strings.ContainsRune(c.Text, 'l') {
			t.Errorf("chunk %d: unexpected content %q", i, c.Text)
		}
		if c.Len() > 50 {
			t.Errorf("chunk %d: length %d exceeds 50", i, c.Len())
		}
		for _, r := range c.Text {
			if r == unicode.ReplacementChar {
				t.Errorf("chunk %d: split a multibyte rune", i)
			}
		}
	}
	assertSourceSlices(t, text, chunks)
}

func TestChunk_MultibyteWindowsWithoutOverlapLoseNothing(t *testing.T) {
	text := "é日本語part two"
	chunks := Chunk(text, Config{ChunkSize: 10, ChunkOverlap: 0}, nil)

	want := [][2]int{{0, 8}, {8, 18}, {18, 19}}
	if len(chunks) != len(want) {
		t.Fatalf("expected %d windows, got %+v", len(want), chunks)
	}
	for i, c := range chunks {
		if c.StartOffset != want[i][0] || c.EndOffset != want[i][1] {
			t.Errorf("window %d: expected [%d,%d), got [%d,%d)", i, want[i][0], want[i][1], c.StartOffset, c.EndOffset)
		}
	}
	assertSourceSlices(t, text, chunks)
}

func TestChunk_WindowsCoverEveryByte(t *testing.T) {
	texts := []string{
		strings.Repeat("日本語のテキスト", 40),
		strings.Repeat("aé日€😀", 60),
		strings.Repeat("ñandú ", 90),
	}
	for _, overlap := range []int{0, 1, 2, 3, 7} {
		for _, text := range texts {
			cfg := Config{ChunkSize: 13, ChunkOverlap: overlap}
			chunks := Chunk(text, cfg, nil)
			covered := make([]bool, len(text))
			for _, c := range chunks {
				if c.Len() > cfg.ChunkSize {
					t.Errorf("overlap %d: chunk length %d exceeds %d", overlap, c.Len(), cfg.ChunkSize)
				}
				for i := c.StartOffset; i < c.EndOffset; i++ {
					covered[i] = true
				}
			}
			for i, r := range text {
				if !unicode.IsSpace(r) && !covered[i] {
					t.Errorf("overlap %d: byte %d (%q) not covered", overlap, i, r)
				}
			}
			assertSourceSlices(t, text, chunks)
		}
	}
}

func TestConfigNormalize(t *testing.T) {
	tests := []struct {
		name string
		in   Config
		want Config
	}{
		{"zero value", Config{}, Config{ChunkSize: 1000, ChunkOverlap: 0}},
		{"negative overlap", Config{ChunkSize: 500, ChunkOverlap: -1}, Config{ChunkSize: 500, ChunkOverlap: 0}},
		{"overlap too large", Config{ChunkSize: 500, ChunkOverlap: 500}, Config{ChunkSize: 500, ChunkOverlap: 100}},
		{"valid", Config{ChunkSize: 800, ChunkOverlap: 100}, Config{ChunkSize: 800, ChunkOverlap: 100}},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := tc.in.normalize(); got != tc.want {
				t.Errorf("expected %+v, got %+v", tc.want, got)
			}
		})
	}
}
