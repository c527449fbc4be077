package blobstore

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/dgallion1/docmap/internal/sqlitedb"
)

func TestBlobNames(t *testing.T) {
	if got := KnowledgeMapBlob("book.pdf"); got != "book.pdf.knowledge_map.json" {
		t.Errorf("expected book.pdf.knowledge_map.json, got %s", got)
	}
	if got := PagesBlob("book.pdf"); got != "book.pdf.pages.json" {
		t.Errorf("expected book.pdf.pages.json, got %s", got)
	}
}

// exerciseStore runs the shared Store contract against s.
func exerciseStore(t *testing.T, s Store) {
	t.Helper()
	ctx := context.Background()

	if _, err := s.Get(ctx, "missing.json"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}

	if err := s.Put(ctx, "doc.pages.json", []byte(`["a","b"]`)); err != nil {
		t.Fatalf("put: %v", err)
	}
	got, err := s.Get(ctx, "doc.pages.json")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if string(got) != `["a","b"]` {
		t.Errorf("expected stored data back, got %s", got)
	}

	if err := s.Put(ctx, "doc.pages.json", []byte(`["c"]`)); err != nil {
		t.Fatalf("overwrite: %v", err)
	}
	got, _ = s.Get(ctx, "doc.pages.json")
	if string(got) != `["c"]` {
		t.Errorf("expected overwritten data, got %s", got)
	}
}

func TestSQLiteStore(t *testing.T) {
	s, err := OpenSQLite(context.Background(), sqlitedb.Memory)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer s.Close()
	exerciseStore(t, s)
}

func TestSQLiteStore_PersistsAcrossOpen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "blobs.db")
	ctx := context.Background()

	s, err := OpenSQLite(ctx, path)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	if err := s.Put(ctx, "x", []byte("y")); err != nil {
		t.Fatalf("put: %v", err)
	}
	s.Close()

	s, err = OpenSQLite(ctx, path)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer s.Close()
	got, err := s.Get(ctx, "x")
	if err != nil || string(got) != "y" {
		t.Errorf("expected y after reopen, got %q (%v)", got, err)
	}
}

// memBlobServer mimics a REST blob service for one container.
func memBlobServer(t *testing.T, container, apiKey string) *httptest.Server {
	t.Helper()
	var mu sync.Mutex
	blobs := map[string][]byte{}
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "Bearer "+apiKey {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}
		name, ok := strings.CutPrefix(r.URL.Path, "/"+container+"/")
		if !ok {
			http.NotFound(w, r)
			return
		}
		mu.Lock()
		defer mu.Unlock()
		switch r.Method {
		case http.MethodPut:
			data, _ := io.ReadAll(r.Body)
			blobs[name] = data
			w.WriteHeader(http.StatusCreated)
		case http.MethodGet:
			data, ok := blobs[name]
			if !ok {
				http.NotFound(w, r)
				return
			}
			w.Write(data)
		default:
			w.WriteHeader(http.StatusMethodNotAllowed)
		}
	}))
}

func TestHTTPStore(t *testing.T) {
	srv := memBlobServer(t, "docs", "secret")
	defer srv.Close()

	s := NewHTTPStore(srv.URL, "docs", "secret")
	defer s.Close()
	exerciseStore(t, s)
}

func TestHTTPStore_ServerError(t *testing.T) {
	srv := memBlobServer(t, "docs", "secret")
	defer srv.Close()

	s := NewHTTPStore(srv.URL, "docs", "wrong")
	err := s.Put(context.Background(), "a", []byte("b"))
	if err == nil || !strings.Contains(err.Error(), "status 401") {
		t.Fatalf("expected status 401 error, got %v", err)
	}
	if _, err := s.Get(context.Background(), "a"); err == nil || errors.Is(err, ErrNotFound) {
		t.Fatalf("expected non-NotFound error, got %v", err)
	}
}
