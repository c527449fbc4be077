package vectorindex

import (
	"context"
	"math"
	"testing"

	"github.com/dgallion1/docmap/internal/sqlitedb"
)

func openTestIndex(t *testing.T) *SQLiteIndex {
	t.Helper()
	x, err := OpenSQLite(context.Background(), sqlitedb.Memory)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	t.Cleanup(func() { x.Close() })
	return x
}

func TestCosineSimilarity(t *testing.T) {
	tests := []struct {
		name string
		a, b []float32
		want float64
	}{
		{"identical", []float32{1, 2, 3}, []float32{1, 2, 3}, 1},
		{"orthogonal", []float32{1, 0}, []float32{0, 1}, 0},
		{"opposite", []float32{1, 0}, []float32{-1, 0}, -1},
		{"length mismatch", []float32{1, 0}, []float32{1}, 0},
		{"zero vector", []float32{0, 0}, []float32{1, 1}, 0},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := cosineSimilarity(tc.a, tc.b); math.Abs(got-tc.want) > 1e-9 {
				t.Errorf("expected %f, got %f", tc.want, got)
			}
		})
	}
}

func TestVectorRoundTrip(t *testing.T) {
	in := []float32{0, -1.5, 3.25, float32(math.Pi)}
	out := decodeVector(encodeVector(in))
	if len(out) != len(in) {
		t.Fatalf("expected %d values, got %d", len(in), len(out))
	}
	for i := range in {
		if out[i] != in[i] {
			t.Errorf("index %d: expected %v, got %v", i, in[i], out[i])
		}
	}
}

func TestUpsert_IsIdempotent(t *testing.T) {
	x := openTestIndex(t)
	ctx := context.Background()
	doc := Document{
		ID: "book_3_5_0", DocID: "book", Chunk: "text", Chapter: "Chapter 1",
		StartPage: 3, EndPage: 5, Embedding: []float32{1, 0},
	}

	for range 2 {
		if err := x.Upsert(ctx, doc); err != nil {
			t.Fatalf("upsert: %v", err)
		}
	}
	n, err := x.Count(ctx)
	if err != nil {
		t.Fatalf("count: %v", err)
	}
	if n != 1 {
		t.Errorf("expected 1 document after re-upsert, got %d", n)
	}

	doc.Chunk = "updated"
	if err := x.Upsert(ctx, doc); err != nil {
		t.Fatalf("upsert: %v", err)
	}
	got, _ := x.Search(ctx, Query{Vector: []float32{1, 0}, K: 3})
	if len(got) != 1 || got[0].Chunk != "updated" {
		t.Errorf("expected overwritten chunk, got %+v", got)
	}
}

func TestUpsert_Rejects(t *testing.T) {
	x := openTestIndex(t)
	if err := x.Upsert(context.Background(), Document{Embedding: []float32{1}}); err == nil {
		t.Error("expected error for empty id")
	}
	if err := x.Upsert(context.Background(), Document{ID: "a"}); err == nil {
		t.Error("expected error for empty embedding")
	}
}

func TestSearch_RanksAndFilters(t *testing.T) {
	x := openTestIndex(t)
	ctx := context.Background()
	page := 4
	docs := []Document{
		{ID: "a", DocID: "book", Chunk: "east", Embedding: []float32{1, 0}},
		{ID: "b", DocID: "book", Chunk: "north", Embedding: []float32{0, 1}, ChunkStartPage: &page, ChunkEndPage: &page},
		{ID: "c", DocID: "book", Chunk: "northeast", Embedding: []float32{1, 1}},
		{ID: "d", DocID: "other", Chunk: "north too", Embedding: []float32{0, 2}},
		{ID: "e", DocID: "book", Chunk: "north again", Embedding: []float32{0, 3}},
	}
	for _, d := range docs {
		if err := x.Upsert(ctx, d); err != nil {
			t.Fatalf("upsert %s: %v", d.ID, err)
		}
	}

	got, err := x.Search(ctx, Query{Vector: []float32{0, 1}, K: 3, DocID: "book"})
	if err != nil {
		t.Fatalf("search: %v", err)
	}
	wantIDs := []string{"b", "e", "c"}
	if len(got) != len(wantIDs) {
		t.Fatalf("expected %d results, got %d", len(wantIDs), len(got))
	}
	for i, id := range wantIDs {
		if got[i].ID != id {
			t.Errorf("result %d: expected %s, got %s", i, id, got[i].ID)
		}
	}
	if got[0].ChunkStartPage == nil || *got[0].ChunkStartPage != 4 {
		t.Errorf("expected chunk page bounds to round-trip, got %v", got[0].ChunkStartPage)
	}
	if got[1].ChunkStartPage != nil {
		t.Errorf("expected nil chunk page for unannotated chunk, got %v", *got[1].ChunkStartPage)
	}

	all, err := x.Search(ctx, Query{Vector: []float32{0, 1}, K: 10})
	if err != nil {
		t.Fatalf("search: %v", err)
	}
	if len(all) != 5 {
		t.Errorf("expected unfiltered search to see all 5 documents, got %d", len(all))
	}
}

func TestSearch_NonPositiveK(t *testing.T) {
	x := openTestIndex(t)
	got, err := x.Search(context.Background(), Query{Vector: []float32{1}, K: 0})
	if err != nil || got != nil {
		t.Errorf("expected nil, nil; got %v, %v", got, err)
	}
}
