package indexstore

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/latticecode/lattice/internal/ids"
	"github.com/latticecode/lattice/internal/symstore"
)

// symbolBatchSize caps how many upserts ride in one pipelined pgx.Batch,
// matching the teacher's UpsertSymbolEmbeddingsBatch pattern of batching
// writes instead of issuing one round-trip per row.
const symbolBatchSize = 500

const upsertSymbolSQL = `
INSERT INTO symbols (
	id, file_id, name, module_path, kind, language, visibility,
	signature, doc_comment, scope_kind, start_line, start_col, end_line, end_col
) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14)
ON CONFLICT (id) DO UPDATE SET
	file_id = $2, name = $3, module_path = $4, kind = $5, language = $6,
	visibility = $7, signature = $8, doc_comment = $9, scope_kind = $10,
	start_line = $11, start_col = $12, end_line = $13, end_col = $14
`

// UpsertSymbolsBatch persists syms using pipelined batches so a file with
// hundreds of symbols costs a handful of network round-trips, not one
// per symbol.
func (s *Store) UpsertSymbolsBatch(ctx context.Context, syms []symstore.Symbol) error {
	for start := 0; start < len(syms); start += symbolBatchSize {
		end := min(start+symbolBatchSize, len(syms))

		batch := &pgx.Batch{}
		for i := start; i < end; i++ {
			sym := syms[i]
			batch.Queue(upsertSymbolSQL,
				sym.ID, sym.FileID, sym.Name, sym.ModulePath, string(sym.Kind), string(sym.Language),
				string(sym.Visibility), sym.Signature, sym.DocComment, string(sym.ScopeContext.Kind),
				sym.Range.StartLine, sym.Range.StartCol, sym.Range.EndLine, sym.Range.EndCol,
			)
		}

		results := s.pool.SendBatch(ctx, batch)
		for i := start; i < end; i++ {
			if _, err := results.Exec(); err != nil {
				results.Close()
				return fmt.Errorf("indexstore: upsert symbol %d: %w", i, err)
			}
		}
		if err := results.Close(); err != nil {
			return fmt.Errorf("indexstore: close symbol batch: %w", err)
		}
	}
	return nil
}

func scanSymbol(row pgx.Row) (symstore.Symbol, error) {
	var sym symstore.Symbol
	var kind, language, visibility, scopeKind string
	err := row.Scan(
		&sym.ID, &sym.FileID, &sym.Name, &sym.ModulePath, &kind, &language, &visibility,
		&sym.Signature, &sym.DocComment, &scopeKind,
		&sym.Range.StartLine, &sym.Range.StartCol, &sym.Range.EndLine, &sym.Range.EndCol,
	)
	if err != nil {
		return symstore.Symbol{}, err
	}
	sym.Kind = symstore.Kind(kind)
	sym.Language = ids.LanguageId(language)
	sym.Visibility = symstore.Visibility(visibility)
	sym.ScopeContext = symstore.ScopeContext{Kind: symstore.ScopeKind(scopeKind)}
	return sym, nil
}

const symbolColumns = `id, file_id, name, module_path, kind, language, visibility,
	signature, doc_comment, scope_kind, start_line, start_col, end_line, end_col`

// CountSymbols returns the total number of symbols currently indexed,
// the `symbol_count` field of index.meta.
func (s *Store) CountSymbols(ctx context.Context) (int, error) {
	var n int
	if err := s.pool.QueryRow(ctx, `SELECT count(*) FROM symbols`).Scan(&n); err != nil {
		return 0, fmt.Errorf("indexstore: count symbols: %w", err)
	}
	return n, nil
}

// SymbolByID returns one symbol by id, false if it doesn't exist.
func (s *Store) SymbolByID(ctx context.Context, id ids.SymbolId) (symstore.Symbol, bool, error) {
	row := s.pool.QueryRow(ctx, `SELECT `+symbolColumns+` FROM symbols WHERE id = $1`, id)
	sym, err := scanSymbol(row)
	if err != nil {
		if isNoRows(err) {
			return symstore.Symbol{}, false, nil
		}
		return symstore.Symbol{}, false, fmt.Errorf("indexstore: symbol by id %d: %w", id, err)
	}
	return sym, true, nil
}

// FindSymbolsByFile returns every symbol defined in fileID.
func (s *Store) FindSymbolsByFile(ctx context.Context, fileID ids.FileId) ([]symstore.Symbol, error) {
	rows, err := s.pool.Query(ctx, `SELECT `+symbolColumns+` FROM symbols WHERE file_id = $1 ORDER BY start_line`, fileID)
	if err != nil {
		return nil, fmt.Errorf("indexstore: find symbols by file %d: %w", fileID, err)
	}
	defer rows.Close()
	return collectSymbols(rows)
}

// FindSymbolsByName returns every symbol named exactly name, optionally
// restricted to one language.
func (s *Store) FindSymbolsByName(ctx context.Context, name string, language ids.LanguageId) ([]symstore.Symbol, error) {
	var rows pgx.Rows
	var err error
	if language == "" {
		rows, err = s.pool.Query(ctx, `SELECT `+symbolColumns+` FROM symbols WHERE name = $1`, name)
	} else {
		rows, err = s.pool.Query(ctx, `SELECT `+symbolColumns+` FROM symbols WHERE name = $1 AND language = $2`, name, string(language))
	}
	if err != nil {
		return nil, fmt.Errorf("indexstore: find symbols by name %q: %w", name, err)
	}
	defer rows.Close()
	return collectSymbols(rows)
}

// SearchFilter narrows a full-text search by kind, language, and
// visibility; a zero value on any field means "unfiltered".
type SearchFilter struct {
	Kind       symstore.Kind
	Language   ids.LanguageId
	Visibility symstore.Visibility
	Limit      int
	// ScoreThreshold discards matches below this ts_rank score.
	ScoreThreshold float64
}

// searchRow pairs a symbol with its match score.
type searchRow struct {
	Symbol symstore.Symbol
	Score  float64
}

// Search runs a full-text query over name/module_path/signature/doc_comment
// (search_vector, spec §4.I), applying filter and returning results
// ordered by descending rank.
func (s *Store) Search(ctx context.Context, query string, filter SearchFilter) ([]symstore.Symbol, error) {
	limit := filter.Limit
	if limit <= 0 {
		limit = 50
	}

	sql := `
		SELECT ` + symbolColumns + `, ts_rank(search_vector, plainto_tsquery('simple', $1)) AS score
		FROM symbols
		WHERE search_vector @@ plainto_tsquery('simple', $1)
	`
	args := []any{query}
	argN := 2

	if filter.Kind != "" {
		sql += fmt.Sprintf(" AND kind = $%d", argN)
		args = append(args, string(filter.Kind))
		argN++
	}
	if filter.Language != "" {
		sql += fmt.Sprintf(" AND language = $%d", argN)
		args = append(args, string(filter.Language))
		argN++
	}
	if filter.Visibility != "" {
		sql += fmt.Sprintf(" AND visibility = $%d", argN)
		args = append(args, string(filter.Visibility))
		argN++
	}
	if filter.ScoreThreshold > 0 {
		sql += fmt.Sprintf(" AND ts_rank(search_vector, plainto_tsquery('simple', $1)) >= $%d", argN)
		args = append(args, filter.ScoreThreshold)
		argN++
	}
	sql += fmt.Sprintf(" ORDER BY score DESC LIMIT $%d", argN)
	args = append(args, limit)

	rows, err := s.pool.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("indexstore: search %q: %w", query, err)
	}
	defer rows.Close()

	var out []symstore.Symbol
	for rows.Next() {
		var sym symstore.Symbol
		var kind, language, visibility, scopeKind string
		var score float64
		if err := rows.Scan(
			&sym.ID, &sym.FileID, &sym.Name, &sym.ModulePath, &kind, &language, &visibility,
			&sym.Signature, &sym.DocComment, &scopeKind,
			&sym.Range.StartLine, &sym.Range.StartCol, &sym.Range.EndLine, &sym.Range.EndCol,
			&score,
		); err != nil {
			return nil, fmt.Errorf("indexstore: scan search row: %w", err)
		}
		sym.Kind = symstore.Kind(kind)
		sym.Language = ids.LanguageId(language)
		sym.Visibility = symstore.Visibility(visibility)
		sym.ScopeContext = symstore.ScopeContext{Kind: symstore.ScopeKind(scopeKind)}
		out = append(out, sym)
	}
	return out, rows.Err()
}

func collectSymbols(rows pgx.Rows) ([]symstore.Symbol, error) {
	var out []symstore.Symbol
	for rows.Next() {
		sym, err := scanSymbol(rows)
		if err != nil {
			return nil, fmt.Errorf("indexstore: scan symbol: %w", err)
		}
		out = append(out, sym)
	}
	return out, rows.Err()
}
