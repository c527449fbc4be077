package pipeline

import (
	"context"
	"fmt"
	"strings"

	"github.com/dgallion1/docmap/internal/chunker"
	"github.com/dgallion1/docmap/internal/document"
	"github.com/dgallion1/docmap/internal/vectorindex"
)

// ChunkID is the vector index key of a chunk. Re-indexing the same chunk
// yields the same key, so upserts overwrite.
func ChunkID(docName string, sec document.Section, chunkStart int) string {
	return fmt.Sprintf("%s_%d_%d_%d", docName, sec.StartPage, sec.EndPage, chunkStart)
}

// indexSections chunks, embeds and upserts every chunk of the given sections.
func (q *QueryEngine) indexSections(ctx context.Context, docName string, pages []string, sections []document.KnowledgeMapEntry) error {
	for _, entry := range sections {
		sec := entry.Section()
		text, pageMap := chunker.ChapterPages(pages, sec)
		chunks := chunker.Chunk(text, q.cfg.Chunk, pageMap)
		q.log.Debug("section chunked", "doc", docName, "section", entry.ChapterName, "chunks", len(chunks))

		for _, c := range chunks {
			vec, err := q.model.Embed(ctx, c.Text)
			if err != nil {
				return fmt.Errorf("embed chunk: %w", err)
			}
			err = q.index.Upsert(ctx, vectorindex.Document{
				ID:             ChunkID(docName, sec, c.StartOffset),
				DocID:          docName,
				Chunk:          c.Text,
				Chapter:        entry.ChapterName,
				StartPage:      entry.StartPage,
				EndPage:        entry.EndPage,
				ChunkStartPage: c.StartPage,
				ChunkEndPage:   c.EndPage,
				Embedding:      vec,
			})
			if err != nil {
				return fmt.Errorf("index chunk: %w", err)
			}
		}
	}
	return nil
}

// search embeds the question and fetches the top-K chunks of this document.
func (q *QueryEngine) search(ctx context.Context, docName, query string) ([]vectorindex.Document, error) {
	vec, err := q.model.Embed(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("embed query: %w", err)
	}
	hits, err := q.index.Search(ctx, vectorindex.Query{Vector: vec, K: q.cfg.TopK, DocID: docName})
	if err != nil {
		return nil, fmt.Errorf("search: %w", err)
	}
	return hits, nil
}

// assemble joins hit texts in result order and builds one citation per hit.
func assemble(hits []vectorindex.Document) (string, []document.Reference) {
	texts := make([]string, len(hits))
	refs := make([]document.Reference, len(hits))
	for i, h := range hits {
		texts[i] = h.Chunk
		refs[i] = document.Reference{
			Chunk:          h.Chunk,
			Chapter:        h.Chapter,
			StartPage:      h.StartPage,
			EndPage:        h.EndPage,
			ChunkStartPage: h.ChunkStartPage,
			ChunkEndPage:   h.ChunkEndPage,
		}
	}
	return strings.Join(texts, "\n"), refs
}
