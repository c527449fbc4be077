// Package pipeline runs document ingestion and question answering as
// synchronous, single-request pipelines over the storage, model and index
// collaborators.
package pipeline

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/dgallion1/docmap/internal/blobstore"
	"github.com/dgallion1/docmap/internal/document"
	"github.com/dgallion1/docmap/internal/knowledge"
	"github.com/dgallion1/docmap/internal/structure"
)

// PageExtractor downloads a document and returns its page texts.
type PageExtractor interface {
	ExtractPages(ctx context.Context, url string) ([]string, error)
}

// IngestRequest names the document to ingest by URL, blob name, or both.
type IngestRequest struct {
	BlobURL  string `json:"blob_url"`
	BlobName string `json:"blob_name"`
}

// IngestResult describes what was persisted.
type IngestResult struct {
	FileName         string                       `json:"file_name"`
	PDFURL           string                       `json:"pdf_url"`
	KnowledgeMapBlob string                       `json:"knowledge_map_blob"`
	PagesBlob        string                       `json:"pages_blob"`
	KnowledgeMap     []document.KnowledgeMapEntry `json:"knowledge_map"`
	PageOffset       int                          `json:"page_offset"`
}

// IngestConfig holds the ingestion settings.
type IngestConfig struct {
	BlobAccountURL  string
	BlobContainer   string
	MaxTOCPages     int
	ApplyPageOffset bool // shift detected page references by the computed offset
}

// Ingestor extracts, segments and summarizes a document, then persists its
// pages and knowledge map.
type Ingestor struct {
	extractor PageExtractor
	store     blobstore.Store
	builder   *knowledge.Builder
	cfg       IngestConfig
	log       *slog.Logger
}

func NewIngestor(extractor PageExtractor, store blobstore.Store, builder *knowledge.Builder, cfg IngestConfig, log *slog.Logger) *Ingestor {
	if cfg.MaxTOCPages <= 0 {
		cfg.MaxTOCPages = structure.DefaultMaxTOCPages
	}
	return &Ingestor{
		extractor: extractor,
		store:     store,
		builder:   builder,
		cfg:       cfg,
		log:       log,
	}
}

// Ingest runs the full ingestion. Nothing is written unless every section
// was summarized.
func (in *Ingestor) Ingest(ctx context.Context, req IngestRequest) (*IngestResult, error) {
	ref, ok := resolveDoc(req.BlobURL, req.BlobName, in.cfg.BlobAccountURL, in.cfg.BlobContainer)
	if !ok {
		return nil, &ValidationError{Message: "Must provide either 'blob_url' or 'blob_name' in payload."}
	}
	log := in.log.With("doc", ref.Name)

	pages, err := in.extractor.ExtractPages(ctx, ref.URL)
	if err != nil {
		return nil, fmt.Errorf("extract pages: %w", err)
	}
	if pages == nil {
		pages = []string{}
	}

	index := structure.DetectIndex(pages, in.cfg.MaxTOCPages)
	firstPage := structure.FirstContentPage(pages)
	offset := structure.CalculatePageOffset(index, firstPage)
	if in.cfg.ApplyPageOffset && offset != 0 {
		index = structure.ApplyPageOffset(index, offset)
	}
	sections := structure.Segment(index, len(pages))
	log.Info("document segmented",
		"pages", len(pages),
		"index_entries", len(index),
		"sections", len(sections),
		"first_content_page", firstPage,
		"page_offset", offset,
		"offset_applied", in.cfg.ApplyPageOffset)

	kmap, err := in.builder.Build(ctx, sections, pages)
	if err != nil {
		return nil, fmt.Errorf("build knowledge map: %w", err)
	}

	res := &IngestResult{
		FileName:         ref.Name,
		PDFURL:           ref.URL,
		KnowledgeMapBlob: blobstore.KnowledgeMapBlob(ref.Name),
		PagesBlob:        blobstore.PagesBlob(ref.Name),
		KnowledgeMap:     kmap,
		PageOffset:       offset,
	}
	if err := putJSON(ctx, in.store, res.KnowledgeMapBlob, kmap); err != nil {
		return nil, err
	}
	if err := putJSON(ctx, in.store, res.PagesBlob, pages); err != nil {
		return nil, err
	}

	log.Info("document ingested", "knowledge_map_blob", res.KnowledgeMapBlob, "pages_blob", res.PagesBlob)
	return res, nil
}

func putJSON(ctx context.Context, store blobstore.Store, name string, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("marshal %s: %w", name, err)
	}
	if err := store.Put(ctx, name, data); err != nil {
		return fmt.Errorf("store %s: %w", name, err)
	}
	return nil
}

func getJSON(ctx context.Context, store blobstore.Store, name string, v any) error {
	data, err := store.Get(ctx, name)
	if err != nil {
		return fmt.Errorf("load %s: %w", name, err)
	}
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("decode %s: %w", name, err)
	}
	return nil
}
