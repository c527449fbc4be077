package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Storage backends.
const (
	StoreSQLite = "sqlite"
	StoreHTTP   = "http"
)

// LLM providers.
const (
	ProviderOpenAI = "openai"
	ProviderClaude = "claude"
)

type Config struct {
	Port string `yaml:"port"`

	// Blob storage
	StoreBackend   string `yaml:"store_backend"`
	SQLitePath     string `yaml:"sqlite_path"`
	BlobBaseURL    string `yaml:"blob_base_url"`
	BlobAPIKey     string `yaml:"blob_api_key"`
	BlobContainer  string `yaml:"blob_container"`
	BlobAccountURL string `yaml:"blob_account_url"`

	// Vector index
	IndexPath string `yaml:"index_path"`

	// Language model
	LLMProvider     string  `yaml:"llm_provider"`
	OpenAIAPIKey    string  `yaml:"openai_api_key"`
	OpenAIBaseURL   string  `yaml:"openai_base_url"`
	ChatModel       string  `yaml:"chat_model"`
	EmbeddingModel  string  `yaml:"embedding_model"`
	AnthropicAPIKey string  `yaml:"anthropic_api_key"`
	AnthropicModel  string  `yaml:"anthropic_model"`
	OllamaURL       string  `yaml:"ollama_url"`
	OllamaModel     string  `yaml:"ollama_model"`
	LLMRateLimit    float64 `yaml:"llm_rate_limit"` // requests per second, 0 = unlimited

	// Document analysis
	MaxTOCPages     int  `yaml:"max_toc_pages"`
	SampleSize      int  `yaml:"sample_size"`
	ApplyPageOffset bool `yaml:"apply_page_offset"`

	// Retrieval
	ChunkSize      int     `yaml:"chunk_size"`
	ChunkOverlap   int     `yaml:"chunk_overlap"`
	ScoreThreshold float64 `yaml:"score_threshold"`
	TopK           int     `yaml:"top_k"`

	// Extraction
	MaxUploadBytes       int64 `yaml:"max_upload_bytes"`
	PageChars            int   `yaml:"page_chars"`
	PDFFallbackPdftotext bool  `yaml:"pdf_fallback_pdftotext"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Port: "8090",

		StoreBackend:  StoreSQLite,
		SQLitePath:    "data/docmap.db",
		BlobContainer: "docmap-docs",

		IndexPath: "data/index.db",

		LLMProvider:    ProviderOpenAI,
		OpenAIBaseURL:  "https://api.openai.com/v1",
		ChatModel:      "gpt-4o",
		EmbeddingModel: "text-embedding-3-small",
		AnthropicModel: "claude-sonnet-4-5-20250929",

		MaxTOCPages: 50,
		SampleSize:  3,

		ChunkSize:      1000,
		ChunkOverlap:   200,
		ScoreThreshold: 3,
		TopK:           3,

		MaxUploadBytes:       104857600, // 100MB
		PageChars:            3000,
		PDFFallbackPdftotext: true,
	}
}

// Load builds the configuration from defaults, an optional YAML file named
// by DOCMAP_CONFIG, and environment variables, in increasing precedence. A
// .env file in the working directory is loaded first if present.
func Load() (Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return Config{}, fmt.Errorf("load .env: %w", err)
	}

	cfg := Default()
	if path := os.Getenv("DOCMAP_CONFIG"); path != "" {
		if err := cfg.loadFile(path); err != nil {
			return Config{}, err
		}
	}
	cfg.applyEnv()
	return cfg, nil
}

func (c *Config) loadFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("parse config %s: %w", path, err)
	}
	return nil
}

func (c *Config) applyEnv() {
	c.Port = envOr("PORT", c.Port)

	c.StoreBackend = envOr("STORE_BACKEND", c.StoreBackend)
	c.SQLitePath = envOr("SQLITE_PATH", c.SQLitePath)
	c.BlobBaseURL = envOr("BLOB_BASE_URL", c.BlobBaseURL)
	c.BlobAPIKey = envOr("BLOB_API_KEY", c.BlobAPIKey)
	c.BlobContainer = envOr("BLOB_CONTAINER", c.BlobContainer)
	c.BlobAccountURL = envOr("BLOB_ACCOUNT_URL", c.BlobAccountURL)

	c.IndexPath = envOr("INDEX_PATH", c.IndexPath)

	c.LLMProvider = envOr("LLM_PROVIDER", c.LLMProvider)
	c.OpenAIAPIKey = envOr("OPENAI_API_KEY", c.OpenAIAPIKey)
	c.OpenAIBaseURL = envOr("OPENAI_BASE_URL", c.OpenAIBaseURL)
	c.ChatModel = envOr("CHAT_MODEL", c.ChatModel)
	c.EmbeddingModel = envOr("EMBEDDING_MODEL", c.EmbeddingModel)
	c.AnthropicAPIKey = envOr("ANTHROPIC_API_KEY", c.AnthropicAPIKey)
	c.AnthropicModel = envOr("ANTHROPIC_MODEL", c.AnthropicModel)
	c.OllamaURL = envOr("OLLAMA_URL", c.OllamaURL)
	c.OllamaModel = envOr("OLLAMA_MODEL", c.OllamaModel)
	c.LLMRateLimit = envFloat("LLM_RATE_LIMIT", c.LLMRateLimit)

	c.MaxTOCPages = envInt("MAX_TOC_PAGES", c.MaxTOCPages)
	c.SampleSize = envInt("SAMPLE_SIZE", c.SampleSize)
	c.ApplyPageOffset = envBool("APPLY_PAGE_OFFSET", c.ApplyPageOffset)

	c.ChunkSize = envInt("CHUNK_SIZE", c.ChunkSize)
	c.ChunkOverlap = envInt("CHUNK_OVERLAP", c.ChunkOverlap)
	c.ScoreThreshold = envFloat("SCORE_THRESHOLD", c.ScoreThreshold)
	c.TopK = envInt("TOP_K", c.TopK)

	c.MaxUploadBytes = envInt64("MAX_UPLOAD_BYTES", c.MaxUploadBytes)
	c.PageChars = envInt("PAGE_CHARS", c.PageChars)
	c.PDFFallbackPdftotext = envBool("PDF_FALLBACK_PDFTOTEXT", c.PDFFallbackPdftotext)
}

// Validate checks that required fields are present and values are sane.
func (c Config) Validate() error {
	switch c.StoreBackend {
	case StoreSQLite:
		if c.SQLitePath == "" {
			return fmt.Errorf("SQLITE_PATH is required for the sqlite store")
		}
	case StoreHTTP:
		if c.BlobBaseURL == "" {
			return fmt.Errorf("BLOB_BASE_URL is required for the http store")
		}
		if c.BlobContainer == "" {
			return fmt.Errorf("BLOB_CONTAINER is required for the http store")
		}
	default:
		return fmt.Errorf("unsupported STORE_BACKEND %q (use sqlite or http)", c.StoreBackend)
	}
	if c.IndexPath == "" {
		return fmt.Errorf("INDEX_PATH is required")
	}

	switch c.LLMProvider {
	case ProviderOpenAI:
		if c.OpenAIAPIKey == "" {
			return fmt.Errorf("OPENAI_API_KEY is required")
		}
	case ProviderClaude:
		if c.AnthropicAPIKey == "" {
			return fmt.Errorf("ANTHROPIC_API_KEY is required")
		}
		// Claude has no embeddings endpoint.
		if c.OpenAIAPIKey == "" && c.OllamaURL == "" {
			return fmt.Errorf("OPENAI_API_KEY or OLLAMA_URL is required for embeddings with the claude provider")
		}
	default:
		return fmt.Errorf("unsupported LLM_PROVIDER %q (use openai or claude)", c.LLMProvider)
	}

	if c.ChunkSize <= 0 {
		return fmt.Errorf("CHUNK_SIZE must be > 0")
	}
	if c.ChunkOverlap < 0 || c.ChunkOverlap >= c.ChunkSize {
		return fmt.Errorf("CHUNK_OVERLAP must be in [0, CHUNK_SIZE)")
	}
	if c.ScoreThreshold < 1 || c.ScoreThreshold > 5 {
		return fmt.Errorf("SCORE_THRESHOLD must be in [1, 5]")
	}
	if c.TopK <= 0 {
		return fmt.Errorf("TOP_K must be > 0")
	}
	if c.MaxTOCPages <= 0 {
		return fmt.Errorf("MAX_TOC_PAGES must be > 0")
	}
	if c.SampleSize <= 0 {
		return fmt.Errorf("SAMPLE_SIZE must be > 0")
	}
	if c.MaxUploadBytes <= 0 {
		return fmt.Errorf("MAX_UPLOAD_BYTES must be > 0")
	}
	return nil
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

func envInt64(key string, fallback int64) int64 {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.ParseInt(v, 10, 64); err == nil {
			return n
		}
	}
	return fallback
}

func envFloat(key string, fallback float64) float64 {
	if v := os.Getenv(key); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
	}
	return fallback
}

func envBool(key string, fallback bool) bool {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return fallback
}
