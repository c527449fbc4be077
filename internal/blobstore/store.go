// Package blobstore persists named blobs: the pages and knowledge map of
// every ingested document.
package blobstore

import (
	"context"
	"errors"
)

// ErrNotFound is returned by Get when no blob has the given name.
var ErrNotFound = errors.New("blob not found")

// Store reads and writes whole blobs by name. Put overwrites.
type Store interface {
	Get(ctx context.Context, name string) ([]byte, error)
	Put(ctx context.Context, name string, data []byte) error
}

// KnowledgeMapBlob names the knowledge map blob of a document.
func KnowledgeMapBlob(docName string) string {
	return docName + ".knowledge_map.json"
}

// PagesBlob names the extracted pages blob of a document.
func PagesBlob(docName string) string {
	return docName + ".pages.json"
}
