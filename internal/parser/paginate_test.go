package parser

import (
	"slices"
	"strings"
	"testing"
)

func TestPaginate(t *testing.T) {
	tests := []struct {
		name   string
		blocks []string
		limit  int
		want   []string
	}{
		{
			name:   "fits one page",
			blocks: []string{"a", "b"},
			limit:  100,
			want:   []string{"a\n\nb"},
		},
		{
			name:   "breaks between blocks",
			blocks: []string{"12345", "67890", "abc"},
			limit:  12,
			want:   []string{"12345\n\n67890", "abc"},
		},
		{
			name:   "skips blank blocks",
			blocks: []string{"  ", "x", ""},
			limit:  10,
			want:   []string{"x"},
		},
		{
			name:   "oversized block splits at lines",
			blocks: []string{"line one\nline two\nline three"},
			limit:  10,
			want:   []string{"line one", "line two", "line three"},
		},
		{
			name:   "oversized line hard cut",
			blocks: []string{strings.Repeat("x", 25)},
			limit:  10,
			want:   []string{strings.Repeat("x", 10), strings.Repeat("x", 10), strings.Repeat("x", 5)},
		},
		{
			name:   "no blocks",
			blocks: nil,
			limit:  10,
			want:   nil,
		},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := Paginate(tc.blocks, tc.limit)
			if !slices.Equal(got, tc.want) {
				t.Errorf("expected %q, got %q", tc.want, got)
			}
			for i, p := range got {
				if len(p) > tc.limit {
					t.Errorf("page %d: length %d exceeds %d", i, len(p), tc.limit)
				}
			}
		})
	}
}

func TestPaginate_MultibyteHardCut(t *testing.T) {
	got := Paginate([]string{strings.Repeat("é", 10)}, 5)
	for i, p := range got {
		if !strings.HasPrefix(p, "é") || strings.ContainsRune(p, '�') {
			t.Errorf("page %d: split inside a rune: %q", i, p)
		}
	}
	if strings.Join(got, "") != strings.Repeat("é", 10) {
		t.Errorf("expected pages to reassemble the input, got %q", got)
	}
}

func TestBlocks_HeadingsStickToNextParagraph(t *testing.T) {
	var b blocks
	b.addHeading("Part One")
	b.addHeading("Chapter 1")
	b.addParagraph("It begins.")
	b.addParagraph("")
	b.addHeading("Appendix")

	want := []string{"Part One", "Chapter 1\nIt begins.", "Appendix"}
	if got := b.list(); !slices.Equal(got, want) {
		t.Errorf("expected %q, got %q", want, got)
	}
}
