package parser

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"path"
	"strings"
	"time"
)

// DefaultMaxBytes caps a downloaded document.
const DefaultMaxBytes = 100 << 20

// Extractor downloads a document and splits it into pages.
type Extractor struct {
	httpClient *http.Client
	maxBytes   int64
	opts       Options
}

func NewExtractor(maxBytes int64, opts Options) *Extractor {
	if maxBytes <= 0 {
		maxBytes = DefaultMaxBytes
	}
	return &Extractor{
		httpClient: &http.Client{Timeout: 5 * time.Minute},
		maxBytes:   maxBytes,
		opts:       opts,
	}
}

// ExtractPages fetches rawURL and parses it by the extension of its last path
// segment. file:// URLs are read only when Options.AllowFileScheme is set.
func (e *Extractor) ExtractPages(ctx context.Context, rawURL string) ([]string, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return nil, fmt.Errorf("parse url: %w", err)
	}
	filename := path.Base(u.Path)
	if !IsSupportedExtension(filename) {
		return nil, fmt.Errorf("unsupported file extension: %q", strings.ToLower(path.Ext(filename)))
	}

	p, err := ForFile(filename, e.opts)
	if err != nil {
		return nil, err
	}

	data, err := e.fetch(ctx, u)
	if err != nil {
		return nil, err
	}

	pages, err := p.Parse(bytes.NewReader(data), filename)
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", filename, err)
	}
	return pages, nil
}

func (e *Extractor) fetch(ctx context.Context, u *url.URL) ([]byte, error) {
	var body io.ReadCloser
	switch u.Scheme {
	case "file":
		if !e.opts.AllowFileScheme {
			return nil, fmt.Errorf("file urls are not allowed")
		}
		f, err := os.Open(u.Path)
		if err != nil {
			return nil, fmt.Errorf("open document: %w", err)
		}
		body = f
	case "http", "https":
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
		if err != nil {
			return nil, fmt.Errorf("create request: %w", err)
		}
		resp, err := e.httpClient.Do(req)
		if err != nil {
			return nil, fmt.Errorf("download document: %w", err)
		}
		if resp.StatusCode != http.StatusOK {
			resp.Body.Close()
			return nil, fmt.Errorf("download %s: status %d", u.Redacted(), resp.StatusCode)
		}
		body = resp.Body
	default:
		return nil, fmt.Errorf("unsupported url scheme %q", u.Scheme)
	}
	defer body.Close()

	data, err := io.ReadAll(io.LimitReader(body, e.maxBytes+1))
	if err != nil {
		return nil, fmt.Errorf("read document: %w", err)
	}
	if int64(len(data)) > e.maxBytes {
		return nil, fmt.Errorf("document exceeds %d bytes", e.maxBytes)
	}
	return data, nil
}

// Close releases idle connections.
func (e *Extractor) Close() {
	e.httpClient.CloseIdleConnections()
}
