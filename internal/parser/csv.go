package parser

import (
	"encoding/csv"
	"fmt"
	"io"
	"strings"
)

// CSVParser handles CSV files. Every data row becomes a block labelled with
// its header names.
type CSVParser struct {
	PageChars int
}

func (p *CSVParser) Parse(r io.Reader, filename string) ([]string, error) {
	reader := csv.NewReader(r)
	reader.LazyQuotes = true
	reader.TrimLeadingSpace = true
	reader.FieldsPerRecord = -1

	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("parse csv: %w", err)
	}
	if len(records) == 0 {
		return nil, nil
	}

	headers := records[0]
	rows := make([]string, 0, len(records)-1)
	for _, row := range records[1:] {
		var text strings.Builder
		for j, cell := range row {
			if j > 0 {
				text.WriteString(", ")
			}
			if j < len(headers) {
				text.WriteString(headers[j] + ": " + cell)
			} else {
				text.WriteString(cell)
			}
		}
		rows = append(rows, text.String())
	}

	// Rows are packed one per line; pages break between rows.
	limit := p.PageChars
	if limit <= 0 {
		limit = DefaultPageChars
	}
	var pages []string
	var cur strings.Builder
	for _, row := range rows {
		if cur.Len() > 0 && cur.Len()+1+len(row) > limit {
			pages = append(pages, cur.String())
			cur.Reset()
		}
		if cur.Len() == 0 {
			cur.WriteString("Headers: " + strings.Join(headers, ", ") + "\n")
		}
		cur.WriteString(row + "\n")
	}
	if cur.Len() > 0 {
		pages = append(pages, cur.String())
	}
	return pages, nil
}
