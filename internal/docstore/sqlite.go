// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package docstore

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	sq "github.com/Masterminds/squirrel"
	_ "github.com/mattn/go-sqlite3"

	"github.com/pdiddy/paperlink/pkg/types"
)

const defaultDBPath = "paperlink.db"

// SQLite is a Store backed by a single documents table holding each
// document as a JSON text column. Field filters use json_extract.
type SQLite struct {
	db *sql.DB
}

// OpenSQLite opens or creates the database at cfg.Path and creates the
// schema if it does not exist.
func OpenSQLite(cfg types.StoreConfig) (*SQLite, error) {
	path := cfg.Path
	if path == "" {
		path = defaultDBPath
	}
	if path != ":memory:" {
		if dir := filepath.Dir(path); dir != "." {
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return nil, fmt.Errorf("creating database directory: %w", err)
			}
		}
	}

	db, err := sql.Open("sqlite3", path+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}
	// A single connection serialises writers and keeps :memory: databases
	// shared across calls.
	db.SetMaxOpenConns(1)

	s := &SQLite{db: db}
	if err := s.createSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}
	return s, nil
}

// Close releases the database connection.
func (s *SQLite) Close() error {
	return s.db.Close()
}

func (s *SQLite) createSchema() error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS documents (
			seq INTEGER PRIMARY KEY AUTOINCREMENT,
			collection TEXT NOT NULL,
			id TEXT NOT NULL,
			data TEXT NOT NULL,
			UNIQUE(collection, id)
		)`,
		`CREATE INDEX IF NOT EXISTS idx_documents_collection ON documents(collection)`,
	}
	for _, stmt := range statements {
		if _, err := s.db.Exec(stmt); err != nil {
			return fmt.Errorf("executing schema statement: %w", err)
		}
	}
	return nil
}

// Set stores data under collection/id, replacing an existing document.
func (s *SQLite) Set(ctx context.Context, collection, id string, data any) error {
	obj, err := toObject(data)
	if err != nil {
		return fmt.Errorf("setting %s/%s: %w", collection, id, err)
	}
	b, err := json.Marshal(obj)
	if err != nil {
		return fmt.Errorf("encoding %s/%s: %w", collection, id, err)
	}

	query, args, err := sq.Insert("documents").
		Columns("collection", "id", "data").
		Values(collection, id, string(b)).
		Suffix("ON CONFLICT(collection, id) DO UPDATE SET data = excluded.data").
		ToSql()
	if err != nil {
		return fmt.Errorf("building insert: %w", err)
	}
	if _, err := s.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("setting %s/%s: %w", collection, id, err)
	}
	return nil
}

// Delete removes collection/id. Deleting a missing document is not an error.
func (s *SQLite) Delete(ctx context.Context, collection, id string) error {
	query, args, err := sq.Delete("documents").
		Where(sq.Eq{"collection": collection, "id": id}).
		ToSql()
	if err != nil {
		return fmt.Errorf("building delete: %w", err)
	}
	if _, err := s.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("deleting %s/%s: %w", collection, id, err)
	}
	return nil
}

// Get implements Store.
func (s *SQLite) Get(ctx context.Context, collection, id string) (Document, error) {
	query, args, err := sq.Select("data").
		From("documents").
		Where(sq.Eq{"collection": collection, "id": id}).
		ToSql()
	if err != nil {
		return Document{}, fmt.Errorf("building select: %w", err)
	}

	var raw string
	err = s.db.QueryRowContext(ctx, query, args...).Scan(&raw)
	if errors.Is(err, sql.ErrNoRows) {
		return Document{}, fmt.Errorf("%s/%s: %w", collection, id, ErrNotFound)
	}
	if err != nil {
		return Document{}, fmt.Errorf("reading %s/%s: %w", collection, id, err)
	}
	return decodeRow(id, raw)
}

// QueryWhere implements Store.
func (s *SQLite) QueryWhere(ctx context.Context, collection, field string, op Op, value any) ([]Document, error) {
	sqlOp, ok := sqlOperators[op]
	if !ok {
		return nil, fmt.Errorf("unsupported operator %q", op)
	}
	want, err := toPlain(value)
	if err != nil {
		return nil, err
	}

	builder := sq.Select("id", "data").
		From("documents").
		Where(sq.Eq{"collection": collection}).
		Where(sq.Expr("json_extract(data, ?) "+sqlOp+" ?", jsonPath(field), want)).
		OrderBy("seq")
	return s.queryDocuments(ctx, builder)
}

// QueryWhereIn implements Store.
func (s *SQLite) QueryWhereIn(ctx context.Context, collection, keyField string, values []string) ([]Document, error) {
	if err := checkInValues(values); err != nil {
		return nil, err
	}
	if len(values) == 0 {
		return nil, nil
	}

	builder := sq.Select("id", "data").
		From("documents").
		Where(sq.Eq{"collection": collection}).
		OrderBy("seq")
	if keyField == DocumentID {
		builder = builder.Where(sq.Eq{"id": values})
	} else {
		args := make([]any, 0, len(values)+1)
		args = append(args, jsonPath(keyField))
		for _, v := range values {
			args = append(args, v)
		}
		builder = builder.Where(sq.Expr(
			"json_extract(data, ?) IN ("+sq.Placeholders(len(values))+")", args...))
	}
	return s.queryDocuments(ctx, builder)
}

// AppendToArray implements Store. The read and write share one
// transaction.
func (s *SQLite) AppendToArray(ctx context.Context, collection, id, field string, value any) error {
	plain, err := toPlain(value)
	if err != nil {
		return err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	query, args, err := sq.Select("data").
		From("documents").
		Where(sq.Eq{"collection": collection, "id": id}).
		ToSql()
	if err != nil {
		return fmt.Errorf("building select: %w", err)
	}
	var raw string
	err = tx.QueryRowContext(ctx, query, args...).Scan(&raw)
	if errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("%s/%s: %w", collection, id, ErrNotFound)
	}
	if err != nil {
		return fmt.Errorf("reading %s/%s: %w", collection, id, err)
	}

	doc, err := decodeRow(id, raw)
	if err != nil {
		return err
	}
	if err := appendAt(doc.Data, field, plain); err != nil {
		return fmt.Errorf("appending to %s/%s: %w", collection, id, err)
	}
	b, err := json.Marshal(doc.Data)
	if err != nil {
		return fmt.Errorf("encoding %s/%s: %w", collection, id, err)
	}

	query, args, err = sq.Update("documents").
		Set("data", string(b)).
		Where(sq.Eq{"collection": collection, "id": id}).
		ToSql()
	if err != nil {
		return fmt.Errorf("building update: %w", err)
	}
	if _, err := tx.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("updating %s/%s: %w", collection, id, err)
	}
	return tx.Commit()
}

// Collections returns the number of documents per collection.
func (s *SQLite) Collections(ctx context.Context) (map[string]int, error) {
	query, args, err := sq.Select("collection", "count(*)").
		From("documents").
		GroupBy("collection").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("building select: %w", err)
	}
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("counting documents: %w", err)
	}
	defer rows.Close()

	counts := map[string]int{}
	for rows.Next() {
		var name string
		var n int
		if err := rows.Scan(&name, &n); err != nil {
			return nil, fmt.Errorf("scanning count: %w", err)
		}
		counts[name] = n
	}
	return counts, rows.Err()
}

func (s *SQLite) queryDocuments(ctx context.Context, builder sq.SelectBuilder) ([]Document, error) {
	query, args, err := builder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("building select: %w", err)
	}
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying documents: %w", err)
	}
	defer rows.Close()

	var out []Document
	for rows.Next() {
		var id, raw string
		if err := rows.Scan(&id, &raw); err != nil {
			return nil, fmt.Errorf("scanning document: %w", err)
		}
		doc, err := decodeRow(id, raw)
		if err != nil {
			return nil, err
		}
		out = append(out, doc)
	}
	return out, rows.Err()
}

var sqlOperators = map[Op]string{
	OpEq: "=",
	OpNe: "!=",
	OpLt: "<",
	OpLe: "<=",
	OpGt: ">",
	OpGe: ">=",
}

func jsonPath(field string) string {
	return "$." + field
}

func decodeRow(id, raw string) (Document, error) {
	var data map[string]any
	if err := json.Unmarshal([]byte(raw), &data); err != nil {
		return Document{}, fmt.Errorf("decoding document %s: %w", id, err)
	}
	if data == nil {
		data = map[string]any{}
	}
	return Document{ID: id, Data: data}, nil
}
