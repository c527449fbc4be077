package vectorindex

import (
	"cmp"
	"context"
	"database/sql"
	"fmt"
	"slices"

	"github.com/dgallion1/docmap/internal/sqlitedb"
)

const indexSchema = `
CREATE TABLE IF NOT EXISTS chunks (
	id               TEXT PRIMARY KEY,
	doc_id           TEXT NOT NULL,
	chunk            TEXT NOT NULL,
	chapter          TEXT NOT NULL,
	start_page       INTEGER NOT NULL,
	end_page         INTEGER NOT NULL,
	chunk_start_page INTEGER,
	chunk_end_page   INTEGER,
	embedding        BLOB NOT NULL,
	norm             REAL NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_chunks_doc ON chunks(doc_id);`

// SQLiteIndex keeps embeddings in SQLite and scores them by brute-force
// cosine similarity.
type SQLiteIndex struct {
	db *sql.DB
}

// OpenSQLite opens the index at path; use sqlitedb.Memory for tests.
func OpenSQLite(ctx context.Context, path string) (*SQLiteIndex, error) {
	db, err := sqlitedb.Open(ctx, path, indexSchema)
	if err != nil {
		return nil, fmt.Errorf("vectorindex: %w", err)
	}
	return &SQLiteIndex{db: db}, nil
}

func (x *SQLiteIndex) Upsert(ctx context.Context, doc Document) error {
	if doc.ID == "" {
		return fmt.Errorf("upsert: empty document id")
	}
	if len(doc.Embedding) == 0 {
		return fmt.Errorf("upsert %s: empty embedding", doc.ID)
	}
	_, err := x.db.ExecContext(ctx, `
		INSERT OR REPLACE INTO chunks
			(id, doc_id, chunk, chapter, start_page, end_page, chunk_start_page, chunk_end_page, embedding, norm)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		doc.ID, doc.DocID, doc.Chunk, doc.Chapter, doc.StartPage, doc.EndPage,
		nullableInt(doc.ChunkStartPage), nullableInt(doc.ChunkEndPage),
		encodeVector(doc.Embedding), norm(doc.Embedding))
	if err != nil {
		return fmt.Errorf("upsert %s: %w", doc.ID, err)
	}
	return nil
}

type scored struct {
	doc   Document
	score float64
}

// Search returns up to q.K documents ordered by similarity, ties by id.
func (x *SQLiteIndex) Search(ctx context.Context, q Query) ([]Document, error) {
	if q.K <= 0 {
		return nil, nil
	}

	query := `SELECT id, doc_id, chunk, chapter, start_page, end_page, chunk_start_page, chunk_end_page, embedding, norm FROM chunks`
	var args []any
	if q.DocID != "" {
		query += ` WHERE doc_id = ?`
		args = append(args, q.DocID)
	}
	rows, err := x.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("search: %w", err)
	}
	defer rows.Close()

	qNorm := norm(q.Vector)
	var hits []scored
	for rows.Next() {
		var (
			d          Document
			chunkStart sql.NullInt64
			chunkEnd   sql.NullInt64
			blob       []byte
			docNorm    float64
		)
		if err := rows.Scan(&d.ID, &d.DocID, &d.Chunk, &d.Chapter, &d.StartPage, &d.EndPage,
			&chunkStart, &chunkEnd, &blob, &docNorm); err != nil {
			return nil, fmt.Errorf("scan chunk: %w", err)
		}
		d.ChunkStartPage = intPtr(chunkStart)
		d.ChunkEndPage = intPtr(chunkEnd)
		d.Embedding = decodeVector(blob)
		hits = append(hits, scored{doc: d, score: cosineWithNorms(q.Vector, d.Embedding, qNorm, docNorm)})
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate chunks: %w", err)
	}

	slices.SortFunc(hits, func(a, b scored) int {
		if c := cmp.Compare(b.score, a.score); c != 0 {
			return c
		}
		return cmp.Compare(a.doc.ID, b.doc.ID)
	})

	out := make([]Document, 0, min(q.K, len(hits)))
	for _, h := range hits[:min(q.K, len(hits))] {
		out = append(out, h.doc)
	}
	return out, nil
}

// Count returns the number of indexed documents.
func (x *SQLiteIndex) Count(ctx context.Context) (int, error) {
	var n int
	if err := x.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM chunks`).Scan(&n); err != nil {
		return 0, fmt.Errorf("count chunks: %w", err)
	}
	return n, nil
}

func (x *SQLiteIndex) Close() error {
	return x.db.Close()
}

func nullableInt(p *int) sql.NullInt64 {
	if p == nil {
		return sql.NullInt64{}
	}
	return sql.NullInt64{Int64: int64(*p), Valid: true}
}

func intPtr(n sql.NullInt64) *int {
	if !n.Valid {
		return nil
	}
	v := int(n.Int64)
	return &v
}
