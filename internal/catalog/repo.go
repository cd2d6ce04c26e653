package catalog

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/starford/runespec/internal/apperr"
)

// ComponentRow represents a row in the components table.
type ComponentRow struct {
	Path        string
	Name        string
	Kind        string
	Description string
	Events      []string
	Warnings    []string
	Checksum    string
	UpdatedAt   time.Time
}

// SearchResult represents one search hit.
type SearchResult struct {
	Path    string
	Name    string
	Snippet string
}

// UpsertComponent inserts or replaces a component and its FTS entry within
// a transaction.
func (db *DB) UpsertComponent(c ComponentRow, body string) error {
	tx, err := db.conn.Begin()
	if err != nil {
		return fmt.Errorf("catalog: begin tx: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck // best-effort on failure path

	eventsJSON, _ := json.Marshal(c.Events)
	warningsJSON, _ := json.Marshal(c.Warnings)

	_, err = tx.Exec(`
		INSERT INTO components (path, name, kind, description, events, warnings, checksum, body, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(path) DO UPDATE SET
			name        = excluded.name,
			kind        = excluded.kind,
			description = excluded.description,
			events      = excluded.events,
			warnings    = excluded.warnings,
			checksum    = excluded.checksum,
			body        = excluded.body,
			updated_at  = excluded.updated_at
	`, c.Path, c.Name, c.Kind, c.Description, string(eventsJSON), string(warningsJSON), c.Checksum, body, c.UpdatedAt)
	if err != nil {
		return fmt.Errorf("catalog: upsert component: %w", err)
	}

	// FTS upsert (no-op when FTS5 tag is absent).
	if err := ftsUpsert(tx, c.Path, c.Name, c.Description, body); err != nil {
		return err
	}

	return tx.Commit()
}

// DeleteComponent removes a component and its FTS entry.
func (db *DB) DeleteComponent(path string) error {
	tx, err := db.conn.Begin()
	if err != nil {
		return fmt.Errorf("catalog: begin tx: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck

	ftsDelete(tx, path)
	_, _ = tx.Exec(`DELETE FROM components WHERE path = ?`, path)

	return tx.Commit()
}

// GetChecksum returns the stored checksum for a component, or empty string
// if not found.
func (db *DB) GetChecksum(path string) (string, error) {
	var cs string
	err := db.conn.QueryRow(`SELECT checksum FROM components WHERE path = ?`, path).Scan(&cs)
	if errors.Is(err, sql.ErrNoRows) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("catalog: get checksum: %w", err)
	}
	return cs, nil
}

// GetComponent looks a component up by name.
func (db *DB) GetComponent(name string) (*ComponentRow, error) {
	row := db.conn.QueryRow(`
		SELECT path, name, kind, description, events, warnings, checksum, updated_at
		FROM components
		WHERE name = ?
		ORDER BY path
		LIMIT 1
	`, name)

	c, err := scanComponent(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("catalog: component %s: %w", name, apperr.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("catalog: get component: %w", err)
	}
	return c, nil
}

// ListComponents returns a page of components plus the total count. Kind
// filters when non-empty; sort is "name" (default) or "updated".
func (db *DB) ListComponents(limit, offset int, kind, sort string) ([]ComponentRow, int, error) {
	if limit <= 0 {
		limit = 50
	}
	if offset < 0 {
		offset = 0
	}

	where := ""
	args := []any{}
	if kind != "" {
		where = "WHERE kind = ?"
		args = append(args, kind)
	}

	var total int
	if err := db.conn.QueryRow(`SELECT COUNT(*) FROM components `+where, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("catalog: count: %w", err)
	}

	order := "ORDER BY name"
	if sort == "updated" {
		order = "ORDER BY updated_at DESC"
	}

	query := fmt.Sprintf(`
		SELECT path, name, kind, description, events, warnings, checksum, updated_at
		FROM components %s %s LIMIT ? OFFSET ?
	`, where, order)
	rows, err := db.conn.Query(query, append(args, limit, offset)...)
	if err != nil {
		return nil, 0, fmt.Errorf("catalog: list: %w", err)
	}
	defer rows.Close()

	var out []ComponentRow
	for rows.Next() {
		c, err := scanComponent(rows)
		if err != nil {
			return nil, 0, err
		}
		out = append(out, *c)
	}
	return out, total, rows.Err()
}

// AllPaths returns every indexed component path.
func (db *DB) AllPaths() (map[string]struct{}, error) {
	rows, err := db.conn.Query(`SELECT path FROM components`)
	if err != nil {
		return nil, fmt.Errorf("catalog: all paths: %w", err)
	}
	defer rows.Close()
	out := make(map[string]struct{})
	for rows.Next() {
		var p string
		if err := rows.Scan(&p); err != nil {
			return nil, err
		}
		out[p] = struct{}{}
	}
	return out, rows.Err()
}

// AllChecksums returns a path to checksum map for every indexed component.
func (db *DB) AllChecksums() (map[string]string, error) {
	rows, err := db.conn.Query(`SELECT path, checksum FROM components`)
	if err != nil {
		return nil, fmt.Errorf("catalog: all checksums: %w", err)
	}
	defer rows.Close()
	out := make(map[string]string)
	for rows.Next() {
		var p, cs string
		if err := rows.Scan(&p, &cs); err != nil {
			return nil, err
		}
		out[p] = cs
	}
	return out, rows.Err()
}

type scanner interface {
	Scan(dest ...any) error
}

func scanComponent(s scanner) (*ComponentRow, error) {
	var c ComponentRow
	var events, warnings string
	if err := s.Scan(&c.Path, &c.Name, &c.Kind, &c.Description, &events, &warnings, &c.Checksum, &c.UpdatedAt); err != nil {
		return nil, err
	}
	_ = json.Unmarshal([]byte(events), &c.Events)
	_ = json.Unmarshal([]byte(warnings), &c.Warnings)
	return &c, nil
}
