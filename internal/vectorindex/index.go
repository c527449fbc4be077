// Package vectorindex stores chunk embeddings and answers nearest-neighbour
// queries over them.
package vectorindex

import (
	"context"
	"encoding/binary"
	"math"
)

// Document is one indexed chunk.
type Document struct {
	ID             string    `json:"id"`
	DocID          string    `json:"doc_id"`
	Chunk          string    `json:"chunk"`
	Chapter        string    `json:"chapter"`
	StartPage      int       `json:"start_page"`
	EndPage        int       `json:"end_page"`
	ChunkStartPage *int      `json:"chunk_start_page,omitempty"`
	ChunkEndPage   *int      `json:"chunk_end_page,omitempty"`
	Embedding      []float32 `json:"-"`
}

// Query is a top-K similarity search. An empty DocID searches every document.
type Query struct {
	Vector []float32
	K      int
	DocID  string
}

// Index is an upsert/search vector store. Upsert replaces any document with
// the same ID.
type Index interface {
	Upsert(ctx context.Context, doc Document) error
	Search(ctx context.Context, q Query) ([]Document, error)
}

// encodeVector converts a float32 slice to little-endian bytes.
func encodeVector(vec []float32) []byte {
	buf := make([]byte, len(vec)*4)
	for i, v := range vec {
		binary.LittleEndian.PutUint32(buf[i*4:], math.Float32bits(v))
	}
	return buf
}

func decodeVector(blob []byte) []float32 {
	vec := make([]float32, len(blob)/4)
	for i := range vec {
		vec[i] = math.Float32frombits(binary.LittleEndian.Uint32(blob[i*4:]))
	}
	return vec
}

func norm(vec []float32) float64 {
	var sum float64
	for _, v := range vec {
		sum += float64(v) * float64(v)
	}
	return math.Sqrt(sum)
}

// cosineSimilarity returns 0 for mismatched lengths or zero vectors.
func cosineSimilarity(a, b []float32) float64 {
	return cosineWithNorms(a, b, norm(a), norm(b))
}

func cosineWithNorms(a, b []float32, normA, normB float64) float64 {
	if len(a) != len(b) || normA == 0 || normB == 0 {
		return 0
	}
	var dot float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
	}
	return dot / (normA * normB)
}
