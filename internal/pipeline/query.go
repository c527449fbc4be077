package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/dgallion1/docmap/internal/blobstore"
	"github.com/dgallion1/docmap/internal/chunker"
	"github.com/dgallion1/docmap/internal/document"
	"github.com/dgallion1/docmap/internal/knowledge"
	"github.com/dgallion1/docmap/internal/llm"
	"github.com/dgallion1/docmap/internal/vectorindex"
)

// DefaultTopK is the number of chunks retrieved as answer context.
const DefaultTopK = 3

// QueryRequest is a question about a previously ingested document.
type QueryRequest struct {
	Query    string `json:"query"`
	BlobURL  string `json:"blob_url"`
	BlobName string `json:"blob_name"`
}

// Answer is the model's reply with the passages it was grounded on.
type Answer struct {
	Answer          string               `json:"answer"`
	References      []document.Reference `json:"references"`
	ContextSections []string             `json:"context_sections"`
}

// QueryConfig holds the query settings.
type QueryConfig struct {
	BlobAccountURL string
	BlobContainer  string
	Chunk          chunker.Config
	ScoreThreshold float64
	TopK           int
}

// QueryEngine answers questions from a document's stored knowledge map and
// pages.
type QueryEngine struct {
	store  blobstore.Store
	model  llm.Model
	index  vectorindex.Index
	scorer *knowledge.Scorer
	cfg    QueryConfig
	log    *slog.Logger
}

func NewQueryEngine(store blobstore.Store, model llm.Model, index vectorindex.Index, cfg QueryConfig, log *slog.Logger) *QueryEngine {
	if cfg.ScoreThreshold <= 0 {
		cfg.ScoreThreshold = knowledge.DefaultThreshold
	}
	if cfg.TopK <= 0 {
		cfg.TopK = DefaultTopK
	}
	return &QueryEngine{
		store:  store,
		model:  model,
		index:  index,
		scorer: knowledge.NewScorer(model, log),
		cfg:    cfg,
		log:    log,
	}
}

// Answer scores sections, retrieves passages from the relevant ones and asks
// the model. With no relevant section the model answers without context.
func (q *QueryEngine) Answer(ctx context.Context, req QueryRequest) (*Answer, error) {
	ref, ok := resolveDoc(req.BlobURL, req.BlobName, q.cfg.BlobAccountURL, q.cfg.BlobContainer)
	if strings.TrimSpace(req.Query) == "" || !ok {
		return nil, &ValidationError{Message: "Must provide 'query' and either 'blob_url' or 'blob_name' in payload."}
	}
	log := q.log.With("doc", ref.Name)

	var kmap []document.KnowledgeMapEntry
	if err := getJSON(ctx, q.store, blobstore.KnowledgeMapBlob(ref.Name), &kmap); err != nil {
		return nil, err
	}
	var pages []string
	if err := getJSON(ctx, q.store, blobstore.PagesBlob(ref.Name), &pages); err != nil {
		return nil, err
	}

	ranked, err := q.scorer.Score(ctx, req.Query, kmap)
	if err != nil {
		return nil, err
	}
	selected := knowledge.Select(ranked, q.cfg.ScoreThreshold)
	log.Info("sections scored", "sections", len(kmap), "selected", len(selected))

	if len(selected) == 0 {
		reply, err := q.model.Complete(ctx, []llm.Message{
			llm.System(knowledge.AnswerIdentity),
			llm.User(req.Query),
		})
		if err != nil {
			return nil, fmt.Errorf("answer: %w", err)
		}
		return &Answer{
			Answer:          reply,
			References:      []document.Reference{},
			ContextSections: []string{},
		}, nil
	}

	sections := make([]document.KnowledgeMapEntry, len(selected))
	for i, idx := range selected {
		sections[i] = kmap[idx]
	}

	if err := q.indexSections(ctx, ref.Name, pages, sections); err != nil {
		return nil, err
	}
	hits, err := q.search(ctx, ref.Name, req.Query)
	if err != nil {
		return nil, err
	}
	contextText, refs := assemble(hits)
	log.Info("passages retrieved", "hits", len(hits))

	reply, err := q.model.Complete(ctx, []llm.Message{
		llm.System(knowledge.AnswerIdentity),
		llm.User(knowledge.AnswerPrompt(contextText, req.Query)),
	})
	if err != nil {
		return nil, fmt.Errorf("answer: %w", err)
	}

	names := make([]string, len(sections))
	for i, s := range sections {
		names[i] = s.ChapterName
	}
	return &Answer{
		Answer:          reply,
		References:      refs,
		ContextSections: names,
	}, nil
}
