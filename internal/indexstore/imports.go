package indexstore

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/latticecode/lattice/internal/ids"
	"github.com/latticecode/lattice/internal/symstore"
)

// ReplaceImports deletes fileID's previously-recorded imports and
// inserts the current set in one transaction, so a re-parsed file never
// accumulates stale import rows.
func (s *Store) ReplaceImports(ctx context.Context, fileID ids.FileId, imports []symstore.Import) error {
	return s.WithTx(ctx, func(tx pgx.Tx) error {
		if _, err := tx.Exec(ctx, `DELETE FROM imports WHERE file_id = $1`, fileID); err != nil {
			return fmt.Errorf("indexstore: clear imports for file %d: %w", fileID, err)
		}
		for _, imp := range imports {
			_, err := tx.Exec(ctx, `
				INSERT INTO imports (file_id, path, alias, is_glob, is_type_only)
				VALUES ($1, $2, $3, $4, $5)
			`, fileID, imp.Path, imp.Alias, imp.IsGlob, imp.IsTypeOnly)
			if err != nil {
				return fmt.Errorf("indexstore: insert import %q for file %d: %w", imp.Path, fileID, err)
			}
		}
		return nil
	})
}

// ImportsByFile returns every import specifier recorded for fileID.
func (s *Store) ImportsByFile(ctx context.Context, fileID ids.FileId) ([]symstore.Import, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT path, alias, is_glob, is_type_only FROM imports WHERE file_id = $1
	`, fileID)
	if err != nil {
		return nil, fmt.Errorf("indexstore: imports by file %d: %w", fileID, err)
	}
	defer rows.Close()

	var out []symstore.Import
	for rows.Next() {
		imp := symstore.Import{FileID: fileID}
		if err := rows.Scan(&imp.Path, &imp.Alias, &imp.IsGlob, &imp.IsTypeOnly); err != nil {
			return nil, fmt.Errorf("indexstore: scan import: %w", err)
		}
		out = append(out, imp)
	}
	return out, rows.Err()
}
