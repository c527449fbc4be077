package parser

import (
	"slices"
	"strings"
	"testing"
)

func TestTextParser_SinglePage(t *testing.T) {
	input := "First paragraph line one.\nFirst paragraph line two.\n\nSecond paragraph.\n\n\n\nThird paragraph."
	p := &TextParser{}
	pages, err := p.Parse(strings.NewReader(input), "notes.txt")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	want := []string{"First paragraph line one.\nFirst paragraph line two.\n\nSecond paragraph.\n\nThird paragraph."}
	if !slices.Equal(pages, want) {
		t.Errorf("expected %q, got %q", want, pages)
	}
}

func TestTextParser_FormFeedsArePageBreaks(t *testing.T) {
	input := "Cover\fContents\nChapter 1 .... 3\f\fBody text"
	pages, err := (&TextParser{}).Parse(strings.NewReader(input), "book.txt")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	want := []string{"Cover", "Contents\nChapter 1 .... 3", "", "Body text"}
	if !slices.Equal(pages, want) {
		t.Errorf("expected %q, got %q", want, pages)
	}
}

func TestTextParser_PacksParagraphsIntoPages(t *testing.T) {
	input := "aaaa aaaa\n\nbbbb bbbb\n\ncccc"
	pages, err := (&TextParser{PageChars: 20}).Parse(strings.NewReader(input), "a.txt")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	want := []string{"aaaa aaaa\n\nbbbb bbbb", "cccc"}
	if !slices.Equal(pages, want) {
		t.Errorf("expected %q, got %q", want, pages)
	}
}

func TestTextParser_EmptyInput(t *testing.T) {
	for _, input := range []string{"", "  \n\n\t"} {
		pages, err := (&TextParser{}).Parse(strings.NewReader(input), "empty.txt")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(pages) != 0 {
			t.Errorf("expected no pages for %q, got %q", input, pages)
		}
	}
}
