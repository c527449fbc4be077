// Package app wires the configured collaborators into the ingestion and
// query pipelines. It is shared by the server and the CLI.
package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/dgallion1/docmap/internal/blobstore"
	"github.com/dgallion1/docmap/internal/chunker"
	"github.com/dgallion1/docmap/internal/config"
	"github.com/dgallion1/docmap/internal/knowledge"
	"github.com/dgallion1/docmap/internal/llm"
	"github.com/dgallion1/docmap/internal/parser"
	"github.com/dgallion1/docmap/internal/pipeline"
	"github.com/dgallion1/docmap/internal/vectorindex"
)

// App holds the wired pipelines and the resources behind them.
type App struct {
	Ingestor  *pipeline.Ingestor
	Engine    *pipeline.QueryEngine
	Stats     *llm.LLMStats
	ModelName string

	localFiles bool
	closers    []func() error
}

// Option configures New.
type Option func(*App)

// WithLocalFiles lets ingestion read file:// URLs. Only local tools should
// enable it; the HTTP server never does.
func WithLocalFiles() Option {
	return func(a *App) { a.localFiles = true }
}

// New opens storage and the vector index and builds the model clients. The
// caller must Close the returned App.
func New(ctx context.Context, cfg config.Config, log *slog.Logger, opts ...Option) (*App, error) {
	a := &App{Stats: llm.NewLLMStats(time.Hour)}
	for _, opt := range opts {
		opt(a)
	}

	store, err := a.openStore(ctx, cfg)
	if err != nil {
		a.Close()
		return nil, err
	}

	index, err := vectorindex.OpenSQLite(ctx, cfg.IndexPath)
	if err != nil {
		a.Close()
		return nil, fmt.Errorf("open vector index: %w", err)
	}
	a.closers = append(a.closers, index.Close)

	model := a.buildModel(cfg)

	extractor := parser.NewExtractor(cfg.MaxUploadBytes, parser.Options{
		PageChars:         cfg.PageChars,
		FallbackPdftotext: cfg.PDFFallbackPdftotext,
		AllowFileScheme:   a.localFiles,
	})
	a.closers = append(a.closers, func() error { extractor.Close(); return nil })

	builder := knowledge.NewBuilder(model, log, knowledge.WithSampleSize(cfg.SampleSize))
	a.Ingestor = pipeline.NewIngestor(extractor, store, builder, pipeline.IngestConfig{
		BlobAccountURL:  cfg.BlobAccountURL,
		BlobContainer:   cfg.BlobContainer,
		MaxTOCPages:     cfg.MaxTOCPages,
		ApplyPageOffset: cfg.ApplyPageOffset,
	}, log)
	a.Engine = pipeline.NewQueryEngine(store, model, index, pipeline.QueryConfig{
		BlobAccountURL: cfg.BlobAccountURL,
		BlobContainer:  cfg.BlobContainer,
		Chunk:          chunker.Config{ChunkSize: cfg.ChunkSize, ChunkOverlap: cfg.ChunkOverlap},
		ScoreThreshold: cfg.ScoreThreshold,
		TopK:           cfg.TopK,
	}, log)
	return a, nil
}

func (a *App) openStore(ctx context.Context, cfg config.Config) (blobstore.Store, error) {
	switch cfg.StoreBackend {
	case config.StoreHTTP:
		s := blobstore.NewHTTPStore(cfg.BlobBaseURL, cfg.BlobContainer, cfg.BlobAPIKey)
		a.closers = append(a.closers, func() error { s.Close(); return nil })
		return s, nil
	case config.StoreSQLite:
		s, err := blobstore.OpenSQLite(ctx, cfg.SQLitePath)
		if err != nil {
			return nil, fmt.Errorf("open blob store: %w", err)
		}
		a.closers = append(a.closers, s.Close)
		return s, nil
	default:
		return nil, fmt.Errorf("unsupported store backend %q", cfg.StoreBackend)
	}
}

func (a *App) buildModel(cfg config.Config) llm.Model {
	opts := []llm.Option{llm.WithStats(a.Stats), llm.WithRateLimit(cfg.LLMRateLimit)}

	var openai *llm.OpenAIClient
	if cfg.OpenAIAPIKey != "" {
		openaiOpts := opts
		if cfg.OpenAIBaseURL != "" {
			openaiOpts = append(openaiOpts, llm.WithBaseURL(cfg.OpenAIBaseURL))
		}
		openai = llm.NewOpenAIClient(cfg.OpenAIAPIKey, cfg.ChatModel, cfg.EmbeddingModel, openaiOpts...)
		a.closers = append(a.closers, func() error { openai.Close(); return nil })
	}

	if cfg.LLMProvider != config.ProviderClaude {
		a.ModelName = cfg.ChatModel
		return openai
	}

	claude := llm.NewClaudeClient(cfg.AnthropicAPIKey, cfg.AnthropicModel, opts...)
	a.closers = append(a.closers, func() error { claude.Close(); return nil })
	a.ModelName = cfg.AnthropicModel

	// Claude has no embeddings endpoint; prefer a local Ollama server when
	// one is configured.
	var embedder llm.Embedder = openai
	if cfg.OllamaURL != "" || openai == nil {
		ollamaOpts := opts
		if cfg.OllamaURL != "" {
			ollamaOpts = append(ollamaOpts, llm.WithBaseURL(cfg.OllamaURL))
		}
		ollama := llm.NewOllamaEmbedder(cfg.OllamaModel, ollamaOpts...)
		a.closers = append(a.closers, func() error { ollama.Close(); return nil })
		embedder = ollama
	}
	return llm.Compose(claude, embedder)
}

// Close releases every opened resource in reverse order.
func (a *App) Close() error {
	var errs []error
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i](); err != nil {
			errs = append(errs, err)
		}
	}
	a.closers = nil
	return errors.Join(errs...)
}
