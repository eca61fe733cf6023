// Package indexstore is the on-disk, Postgres-backed document index
// (spec §4.I): symbol/file/edge/import tables, full-text search over
// names/doc-comments/signatures, an optional pgvector embedding column,
// and the FileId↔path bijection with content-SHA bookkeeping. The index
// never interprets module_path, signature, or doc_comment — it treats
// them as opaque searchable strings.
package indexstore

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Store wraps a pgxpool.Pool with the schema and queries indexstore
// needs. Mirrors the teacher's store.Store{*postgres.Queries, pool}
// shape, collapsed into one package since lattice has no sqlc-generated
// layer to embed separately.
type Store struct {
	pool *pgxpool.Pool
}

// Open connects to Postgres at dsn and ensures the schema exists.
func Open(ctx context.Context, dsn string) (*Store, error) {
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return nil, fmt.Errorf("indexstore: connect: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("indexstore: ping: %w", err)
	}
	s := &Store{pool: pool}
	if err := s.ensureSchema(ctx); err != nil {
		pool.Close()
		return nil, err
	}
	return s, nil
}

// Close releases the underlying connection pool.
func (s *Store) Close() {
	s.pool.Close()
}

// Pool exposes the underlying pool for callers that need a raw
// transaction (e.g. the indexer's per-run invalidation sweep).
func (s *Store) Pool() *pgxpool.Pool {
	return s.pool
}

// WithTx runs fn inside a transaction, committing on success and
// rolling back on error or panic.
func (s *Store) WithTx(ctx context.Context, fn func(pgx.Tx) error) error {
	tx, err := s.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return fmt.Errorf("indexstore: begin tx: %w", err)
	}
	defer tx.Rollback(ctx)

	if err := fn(tx); err != nil {
		return err
	}
	return tx.Commit(ctx)
}

const schemaSQL = `
CREATE EXTENSION IF NOT EXISTS vector;

CREATE TABLE IF NOT EXISTS files (
	id            BIGINT PRIMARY KEY,
	absolute_path TEXT NOT NULL UNIQUE,
	content_sha   TEXT NOT NULL,
	language      TEXT NOT NULL,
	mtime_unix    BIGINT NOT NULL
);

CREATE TABLE IF NOT EXISTS symbols (
	id            BIGINT PRIMARY KEY,
	file_id       BIGINT NOT NULL REFERENCES files(id) ON DELETE CASCADE,
	name          TEXT NOT NULL,
	module_path   TEXT NOT NULL DEFAULT '',
	kind          TEXT NOT NULL,
	language      TEXT NOT NULL,
	visibility    TEXT NOT NULL DEFAULT '',
	signature     TEXT NOT NULL DEFAULT '',
	doc_comment   TEXT NOT NULL DEFAULT '',
	scope_kind    TEXT NOT NULL DEFAULT '',
	start_line    INT NOT NULL,
	start_col     INT NOT NULL,
	end_line      INT NOT NULL,
	end_col       INT NOT NULL,
	embedding     vector(1024),
	search_vector TSVECTOR GENERATED ALWAYS AS (
		setweight(to_tsvector('simple', coalesce(name, '')), 'A') ||
		setweight(to_tsvector('simple', coalesce(module_path, '')), 'B') ||
		setweight(to_tsvector('simple', coalesce(signature, '')), 'C') ||
		setweight(to_tsvector('english', coalesce(doc_comment, '')), 'D')
	) STORED
);

CREATE INDEX IF NOT EXISTS idx_symbols_file_id ON symbols(file_id);
CREATE INDEX IF NOT EXISTS idx_symbols_name ON symbols(name);
CREATE INDEX IF NOT EXISTS idx_symbols_search ON symbols USING GIN(search_vector);

CREATE TABLE IF NOT EXISTS imports (
	file_id      BIGINT NOT NULL REFERENCES files(id) ON DELETE CASCADE,
	path         TEXT NOT NULL,
	alias        TEXT NOT NULL DEFAULT '',
	is_glob      BOOLEAN NOT NULL DEFAULT false,
	is_type_only BOOLEAN NOT NULL DEFAULT false
);

CREATE INDEX IF NOT EXISTS idx_imports_file_id ON imports(file_id);

CREATE TABLE IF NOT EXISTS edges (
	from_symbol BIGINT NOT NULL REFERENCES symbols(id) ON DELETE CASCADE,
	to_symbol   BIGINT NOT NULL REFERENCES symbols(id) ON DELETE CASCADE,
	kind        TEXT NOT NULL,
	metadata    TEXT NOT NULL DEFAULT '',
	PRIMARY KEY (from_symbol, to_symbol, kind)
);

CREATE INDEX IF NOT EXISTS idx_edges_to ON edges(to_symbol, kind);
CREATE INDEX IF NOT EXISTS idx_edges_from ON edges(from_symbol, kind);
`

func (s *Store) ensureSchema(ctx context.Context) error {
	if _, err := s.pool.Exec(ctx, schemaSQL); err != nil {
		return fmt.Errorf("indexstore: ensure schema: %w", err)
	}
	return nil
}
