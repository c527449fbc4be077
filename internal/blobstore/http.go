package blobstore

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"
)

// HTTPStore talks to a REST blob service laid out as
// {baseURL}/{container}/{name}.
type HTTPStore struct {
	baseURL    string
	container  string
	apiKey     string
	httpClient *http.Client
}

func NewHTTPStore(baseURL, container, apiKey string) *HTTPStore {
	return &HTTPStore{
		baseURL:   baseURL,
		container: container,
		apiKey:    apiKey,
		httpClient: &http.Client{
			Timeout: 60 * time.Second,
		},
	}
}

func (s *HTTPStore) blobURL(name string) string {
	return s.baseURL + "/" + url.PathEscape(s.container) + "/" + url.PathEscape(name)
}

func (s *HTTPStore) authorize(req *http.Request) {
	if s.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+s.apiKey)
	}
}

// Put uploads data, replacing any existing blob.
func (s *HTTPStore) Put(ctx context.Context, name string, data []byte) error {
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPut, s.blobURL(name), bytes.NewReader(data))
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/octet-stream")
	s.authorize(httpReq)

	resp, err := s.httpClient.Do(httpReq)
	if err != nil {
		return fmt.Errorf("put blob: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated && resp.StatusCode != http.StatusNoContent {
		respBody, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return fmt.Errorf("put blob %s: status %d: %s", name, resp.StatusCode, string(respBody))
	}
	return nil
}

// Get downloads a blob. A 404 maps to ErrNotFound.
func (s *HTTPStore) Get(ctx context.Context, name string) ([]byte, error) {
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, s.blobURL(name), nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	s.authorize(httpReq)

	resp, err := s.httpClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("get blob: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode == http.StatusNotFound {
		return nil, fmt.Errorf("get blob %s: %w", name, ErrNotFound)
	}
	if resp.StatusCode != http.StatusOK {
		respBody, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return nil, fmt.Errorf("get blob %s: status %d: %s", name, resp.StatusCode, string(respBody))
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read blob %s: %w", name, err)
	}
	return data, nil
}

// Close releases idle connections.
func (s *HTTPStore) Close() {
	s.httpClient.CloseIdleConnections()
}
