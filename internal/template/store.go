package template

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	_ "modernc.org/sqlite"

	"github.com/hatauchi-tech/Yoshimura-AI-ocr/internal/common"
)

// Store persists the template catalog in a local sqlite database. Field
// schemas are stored as a JSON column; the catalog is small and always read
// as a whole, ordered snapshot.
type Store struct {
	db     *sql.DB
	logger *slog.Logger
}

const schemaSQL = `
CREATE TABLE IF NOT EXISTS templates (
	id          TEXT PRIMARY KEY,
	name        TEXT NOT NULL,
	description TEXT NOT NULL DEFAULT '',
	fields      TEXT NOT NULL,
	position    INTEGER NOT NULL,
	created_at  TIMESTAMP NOT NULL,
	updated_at  TIMESTAMP NOT NULL
);`

// OpenStore opens (creating if needed) the catalog database at path and
// seeds it with the default templates when empty.
func OpenStore(ctx context.Context, path string, logger *slog.Logger) (*Store, error) {
	if logger == nil {
		logger = slog.Default()
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open catalog db: %w", err)
	}
	if _, err := db.ExecContext(ctx, schemaSQL); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("create catalog schema: %w", err)
	}

	s := &Store{db: db, logger: logger}

	var count int
	if err := db.QueryRowContext(ctx, `SELECT COUNT(*) FROM templates`).Scan(&count); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("count templates: %w", err)
	}
	if count == 0 {
		for _, t := range DefaultCatalog() {
			if err := s.Save(ctx, t); err != nil {
				_ = db.Close()
				return nil, common.WrapError(err, "seed default templates")
			}
		}
		logger.Info("catalog.seeded", "templates", len(DefaultCatalog()))
	}
	return s, nil
}

func (s *Store) Close() error { return s.db.Close() }

// List returns the full catalog in insertion order.
func (s *Store) List(ctx context.Context) (Catalog, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, name, description, fields FROM templates ORDER BY position, id`)
	if err != nil {
		return nil, fmt.Errorf("list templates: %w", err)
	}
	defer rows.Close()

	var out Catalog
	for rows.Next() {
		var t Template
		var fields string
		if err := rows.Scan(&t.ID, &t.Name, &t.Description, &fields); err != nil {
			return nil, fmt.Errorf("scan template: %w", err)
		}
		if err := json.Unmarshal([]byte(fields), &t.Fields); err != nil {
			return nil, fmt.Errorf("decode fields for %s: %w", t.ID, err)
		}
		out = append(out, t)
	}
	return out, rows.Err()
}

// Get returns one template by id.
func (s *Store) Get(ctx context.Context, id string) (*Template, error) {
	var t Template
	var fields string
	err := s.db.QueryRowContext(ctx,
		`SELECT id, name, description, fields FROM templates WHERE id = ?`, id).
		Scan(&t.ID, &t.Name, &t.Description, &fields)
	if err == sql.ErrNoRows {
		return nil, common.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get template %s: %w", id, err)
	}
	if err := json.Unmarshal([]byte(fields), &t.Fields); err != nil {
		return nil, fmt.Errorf("decode fields for %s: %w", id, err)
	}
	return &t, nil
}

// Save inserts or replaces a template, validating it first. New templates
// are appended at the end of the catalog order.
func (s *Store) Save(ctx context.Context, t Template) error {
	if err := t.Validate(); err != nil {
		return err
	}
	fields, err := json.Marshal(t.Fields)
	if err != nil {
		return fmt.Errorf("encode fields: %w", err)
	}
	now := time.Now().UTC()
	_, err = s.db.ExecContext(ctx, `
		INSERT INTO templates (id, name, description, fields, position, created_at, updated_at)
		VALUES (?, ?, ?, ?, (SELECT COALESCE(MAX(position), 0) + 1 FROM templates), ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			name = excluded.name,
			description = excluded.description,
			fields = excluded.fields,
			updated_at = excluded.updated_at`,
		t.ID, t.Name, t.Description, string(fields), now, now)
	if err != nil {
		return fmt.Errorf("save template %s: %w", t.ID, err)
	}
	s.logger.Info("catalog.saved", "template_id", t.ID, "name", t.Name)
	return nil
}

// Delete removes a template. Documents that still reference the id keep it
// as an unresolved reference; readers handle that case explicitly.
func (s *Store) Delete(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM templates WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete template %s: %w", id, err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return common.ErrNotFound
	}
	s.logger.Info("catalog.deleted", "template_id", id)
	return nil
}
