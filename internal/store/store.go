// Package store keeps a local SQLite index of events imported from a
// document, so the event wall can be served without re-reading the source.
package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"highsport/internal/model"

	_ "modernc.org/sqlite"
)

const (
	DefaultFileName = "highsport.db"
	schemaVersion   = 2
)

type Store struct {
	Path string
}

// DefaultPath is the index location used when none is configured.
func DefaultPath() string {
	if dir, err := os.UserCacheDir(); err == nil && strings.TrimSpace(dir) != "" {
		return filepath.Join(dir, "highsport", DefaultFileName)
	}
	return DefaultFileName
}

func (s Store) path() string {
	if p := strings.TrimSpace(s.Path); p != "" {
		return filepath.Clean(p)
	}
	return DefaultPath()
}

func (s Store) Ensure() error {
	dir := filepath.Dir(s.path())
	if dir == "" || dir == "." {
		return nil
	}
	return os.MkdirAll(dir, 0o755)
}

// openExisting opens the index for reading. A missing file is reported as
// os.ErrNotExist and is never created.
func (s Store) openExisting(ctx context.Context) (*sql.DB, error) {
	if _, err := os.Stat(s.path()); err != nil {
		return nil, fmt.Errorf("store: %w", err)
	}
	return s.openSQLite(ctx)
}

func (s Store) openSQLite(ctx context.Context) (*sql.DB, error) {
	if err := s.Ensure(); err != nil {
		return nil, err
	}
	// modernc.org/sqlite driver name is "sqlite".
	db, err := sql.Open("sqlite", s.path())
	if err != nil {
		return nil, err
	}
	// WAL lets the web server read while an import writes.
	pragmas := []string{
		"PRAGMA journal_mode=WAL;",
		"PRAGMA synchronous=NORMAL;",
		"PRAGMA busy_timeout=5000;",
	}
	for _, p := range pragmas {
		if _, err := db.ExecContext(ctx, p); err != nil {
			_ = db.Close()
			return nil, err
		}
	}
	if err := migrateSQLite(ctx, db); err != nil {
		_ = db.Close()
		return nil, err
	}
	return db, nil
}

func migrateSQLite(ctx context.Context, db *sql.DB) error {
	if _, err := db.ExecContext(ctx, `CREATE TABLE IF NOT EXISTS meta (
		k TEXT PRIMARY KEY,
		v TEXT NOT NULL
	);`); err != nil {
		return err
	}

	version := 0
	var raw string
	err := db.QueryRowContext(ctx, `SELECT v FROM meta WHERE k = 'schema_version'`).Scan(&raw)
	switch {
	case errors.Is(err, sql.ErrNoRows):
	case err != nil:
		return err
	default:
		version, _ = strconv.Atoi(raw)
	}

	var stmts []string
	if version > 0 && version < schemaVersion {
		// v1 keyed events by id; the index is rebuilt by the next import.
		stmts = append(stmts,
			`DROP INDEX IF EXISTS events_position;`,
			`DROP TABLE IF EXISTS events;`,
		)
	}
	stmts = append(stmts,
		`CREATE TABLE IF NOT EXISTS events (
			position INTEGER PRIMARY KEY,
			id TEXT NOT NULL,
			type TEXT NOT NULL,
			title TEXT NOT NULL,
			date TEXT NOT NULL,
			description TEXT NOT NULL,
			image TEXT NOT NULL DEFAULT ''
		);`,
		`CREATE UNIQUE INDEX IF NOT EXISTS events_id ON events(id) WHERE id <> '';`,
	)
	for _, stmt := range stmts {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return err
		}
	}
	_, err = db.ExecContext(ctx, `INSERT OR REPLACE INTO meta(k, v) VALUES('schema_version', ?)`, strconv.Itoa(schemaVersion))
	return err
}

// ReplaceEvents swaps the whole index for events in a single transaction.
// Events keep their order and their ids verbatim, including empty ones; a
// duplicate non-empty id fails the import and leaves the previous index
// untouched.
func (s Store) ReplaceEvents(ctx context.Context, events []model.Event, origin string) error {
	db, err := s.openSQLite(ctx)
	if err != nil {
		return err
	}
	defer db.Close()

	tx, err := db.BeginTx(ctx, &sql.TxOptions{})
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, `DELETE FROM events`); err != nil {
		return err
	}
	stmt, err := tx.PrepareContext(ctx, `INSERT INTO events(position, id, type, title, date, description, image) VALUES(?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for i, ev := range events {
		if _, err := stmt.ExecContext(ctx, i, ev.ID, ev.Category, ev.Title, ev.Date, ev.Description, ev.Image); err != nil {
			return fmt.Errorf("insert event %d (id %q): %w", i, ev.ID, err)
		}
	}

	meta := map[string]string{
		"imported_at": strconv.FormatInt(time.Now().UTC().UnixMilli(), 10),
		"origin":      strings.TrimSpace(origin),
		"count":       strconv.Itoa(len(events)),
	}
	for k, v := range meta {
		if _, err := tx.ExecContext(ctx, `INSERT OR REPLACE INTO meta(k, v) VALUES(?, ?)`, k, v); err != nil {
			return err
		}
	}
	return tx.Commit()
}

// ListEvents returns the indexed events in import order. It fails with an
// error wrapping os.ErrNotExist when nothing has been imported at Path.
func (s Store) ListEvents(ctx context.Context) ([]model.Event, error) {
	db, err := s.openExisting(ctx)
	if err != nil {
		return nil, err
	}
	defer db.Close()

	rows, err := db.QueryContext(ctx, `SELECT id, type, title, date, description, image FROM events ORDER BY position ASC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []model.Event{}
	for rows.Next() {
		var ev model.Event
		if err := rows.Scan(&ev.ID, &ev.Category, &ev.Title, &ev.Date, &ev.Description, &ev.Image); err != nil {
			return nil, err
		}
		out = append(out, ev)
	}
	return out, rows.Err()
}

// ImportInfo describes the last import.
type ImportInfo struct {
	Origin     string
	Count      int
	ImportedAt time.Time
}

var ErrNeverImported = errors.New("store: no events imported yet")

func (s Store) LastImport(ctx context.Context) (ImportInfo, error) {
	db, err := s.openExisting(ctx)
	if errors.Is(err, os.ErrNotExist) {
		return ImportInfo{}, fmt.Errorf("%w: %w", ErrNeverImported, err)
	}
	if err != nil {
		return ImportInfo{}, err
	}
	defer db.Close()

	rows, err := db.QueryContext(ctx, `SELECT k, v FROM meta WHERE k IN ('imported_at', 'origin', 'count')`)
	if err != nil {
		return ImportInfo{}, err
	}
	defer rows.Close()

	var info ImportInfo
	seen := false
	for rows.Next() {
		var k, v string
		if err := rows.Scan(&k, &v); err != nil {
			return ImportInfo{}, err
		}
		switch k {
		case "imported_at":
			ms, err := strconv.ParseInt(v, 10, 64)
			if err != nil {
				return ImportInfo{}, fmt.Errorf("meta imported_at: %w", err)
			}
			info.ImportedAt = time.UnixMilli(ms).UTC()
			seen = true
		case "origin":
			info.Origin = v
		case "count":
			info.Count, _ = strconv.Atoi(v)
		}
	}
	if err := rows.Err(); err != nil {
		return ImportInfo{}, err
	}
	if !seen {
		return ImportInfo{}, ErrNeverImported
	}
	return info, nil
}
