package parser

import (
	"bufio"
	"io"
	"strings"
)

// TextParser handles plain text files. Form feeds are hard page breaks;
// otherwise paragraphs are packed into pages of PageChars.
type TextParser struct {
	PageChars int
}

func (p *TextParser) Parse(r io.Reader, filename string) ([]string, error) {
	src, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	if strings.TrimSpace(string(src)) == "" {
		return nil, nil
	}

	var pages []string
	for _, segment := range strings.Split(string(src), "\f") {
		paragraphs, err := splitParagraphs(strings.NewReader(segment))
		if err != nil {
			return nil, err
		}
		segPages := Paginate(paragraphs, p.PageChars)
		if len(segPages) == 0 {
			// Keep blank pages so page indices match the source.
			segPages = []string{""}
		}
		pages = append(pages, segPages...)
	}
	return pages, nil
}

// splitParagraphs returns blank-line separated paragraphs.
func splitParagraphs(r io.Reader) ([]string, error) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	var paragraphs []string
	var current strings.Builder

	for scanner.Scan() {
		line := scanner.Text()
		if strings.TrimSpace(line) == "" {
			if current.Len() > 0 {
				paragraphs = append(paragraphs, current.String())
				current.Reset()
			}
			continue
		}
		if current.Len() > 0 {
			current.WriteString("\n")
		}
		current.WriteString(line)
	}
	if current.Len() > 0 {
		paragraphs = append(paragraphs, current.String())
	}
	return paragraphs, scanner.Err()
}
