package indexstore

import (
	"context"
	"fmt"

	"github.com/latticecode/lattice/internal/ids"
	"github.com/latticecode/lattice/internal/symstore"
)

// UpsertFile persists f, replacing any existing row for the same id. The
// absolute_path unique constraint is what makes the FileId↔path mapping
// a true bijection.
func (s *Store) UpsertFile(ctx context.Context, f symstore.File) error {
	_, err := s.pool.Exec(ctx, `
		INSERT INTO files (id, absolute_path, content_sha, language, mtime_unix)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (id) DO UPDATE SET
			absolute_path = $2, content_sha = $3, language = $4, mtime_unix = $5
	`, f.ID, f.AbsolutePath, f.ContentSHA, string(f.Language), f.MTimeUnix)
	if err != nil {
		return fmt.Errorf("indexstore: upsert file %s: %w", f.AbsolutePath, err)
	}
	return nil
}

// FileByPath resolves the absolute path side of the bijection.
func (s *Store) FileByPath(ctx context.Context, absolutePath string) (symstore.File, bool, error) {
	row := s.pool.QueryRow(ctx, `
		SELECT id, absolute_path, content_sha, language, mtime_unix
		FROM files WHERE absolute_path = $1
	`, absolutePath)
	var f symstore.File
	var lang string
	if err := row.Scan(&f.ID, &f.AbsolutePath, &f.ContentSHA, &lang, &f.MTimeUnix); err != nil {
		if isNoRows(err) {
			return symstore.File{}, false, nil
		}
		return symstore.File{}, false, fmt.Errorf("indexstore: file by path %s: %w", absolutePath, err)
	}
	f.Language = ids.LanguageId(lang)
	return f, true, nil
}

// FileByID resolves the FileId side of the bijection.
func (s *Store) FileByID(ctx context.Context, id ids.FileId) (symstore.File, bool, error) {
	row := s.pool.QueryRow(ctx, `
		SELECT id, absolute_path, content_sha, language, mtime_unix
		FROM files WHERE id = $1
	`, id)
	var f symstore.File
	var lang string
	if err := row.Scan(&f.ID, &f.AbsolutePath, &f.ContentSHA, &lang, &f.MTimeUnix); err != nil {
		if isNoRows(err) {
			return symstore.File{}, false, nil
		}
		return symstore.File{}, false, fmt.Errorf("indexstore: file by id %d: %w", id, err)
	}
	f.Language = ids.LanguageId(lang)
	return f, true, nil
}

// DeleteFile removes a file and, via ON DELETE CASCADE, every symbol,
// import, and edge that referenced it — the mechanism behind the
// indexer's SHA-diff invalidation.
func (s *Store) DeleteFile(ctx context.Context, id ids.FileId) error {
	if _, err := s.pool.Exec(ctx, `DELETE FROM files WHERE id = $1`, id); err != nil {
		return fmt.Errorf("indexstore: delete file %d: %w", id, err)
	}
	return nil
}

// AllFileSHAs returns every known file's content SHA, keyed by absolute
// path — the baseline the indexer diffs a fresh filesystem walk against.
func (s *Store) AllFileSHAs(ctx context.Context) (map[string]string, error) {
	rows, err := s.pool.Query(ctx, `SELECT absolute_path, content_sha FROM files`)
	if err != nil {
		return nil, fmt.Errorf("indexstore: all file shas: %w", err)
	}
	defer rows.Close()

	out := make(map[string]string)
	for rows.Next() {
		var path, sha string
		if err := rows.Scan(&path, &sha); err != nil {
			return nil, fmt.Errorf("indexstore: scan file sha: %w", err)
		}
		out[path] = sha
	}
	return out, rows.Err()
}
