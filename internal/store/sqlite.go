package store

import (
	"database/sql"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	_ "modernc.org/sqlite" // pure go sqlite driver

	"github.com/hupe1980/facetfilter/internal/filter"
)

const sqliteSchema = `
CREATE TABLE IF NOT EXISTS categories (
	position INTEGER PRIMARY KEY,
	name     TEXT NOT NULL UNIQUE
);
CREATE TABLE IF NOT EXISTS entries (
	category TEXT    NOT NULL REFERENCES categories(name),
	position INTEGER NOT NULL,
	value    TEXT    NOT NULL,
	active   INTEGER NOT NULL,
	PRIMARY KEY (category, position)
);`

// SQLiteBackend stores the filter state in a SQLite database. Categories
// and their entries live in two tables keyed by position so that order
// survives a round trip. Every Save replaces the stored state in one
// transaction.
type SQLiteBackend struct {
	path   string
	logger *slog.Logger
}

// NewSQLiteBackend returns a backend for the database at path. The file
// is created on first save.
func NewSQLiteBackend(path string, logger *slog.Logger) *SQLiteBackend {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	return &SQLiteBackend{path: path, logger: logger}
}

// Path returns the database path.
func (b *SQLiteBackend) Path() string {
	return b.path
}

// Load reads the stored state. A missing database yields an empty state.
func (b *SQLiteBackend) Load() (filter.ActiveSet, error) {
	if _, err := os.Stat(b.path); errors.Is(err, os.ErrNotExist) {
		b.logger.Debug("no state database yet, starting empty", slog.String("path", b.path))
		return filter.NewActiveSet(), nil
	}

	db, err := b.open()
	if err != nil {
		return filter.ActiveSet{}, err
	}
	defer func() { _ = db.Close() }()

	rows, err := db.Query(`SELECT c.name, e.value, e.active
		FROM categories c LEFT JOIN entries e ON e.category = c.name
		ORDER BY c.position, e.position`)
	if err != nil {
		return filter.ActiveSet{}, fmt.Errorf("select state: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var (
		order   []string
		entries = map[string][]filter.Entry{}
	)

	for rows.Next() {
		var (
			name   string
			value  sql.NullString
			active sql.NullBool
		)

		if err := rows.Scan(&name, &value, &active); err != nil {
			return filter.ActiveSet{}, fmt.Errorf("scan: %w", err)
		}

		if _, ok := entries[name]; !ok {
			order = append(order, name)
			entries[name] = nil
		}

		if value.Valid {
			entries[name] = append(entries[name], filter.Entry{Value: value.String, Active: active.Bool})
		}
	}

	if err := rows.Err(); err != nil {
		return filter.ActiveSet{}, fmt.Errorf("select state: %w", err)
	}

	state := filter.NewActiveSet()
	for _, name := range order {
		state = state.WithEntries(name, entries[name])
	}

	return state, nil
}

// Save replaces the stored state with state.
func (b *SQLiteBackend) Save(state filter.ActiveSet) (retErr error) {
	if err := os.MkdirAll(filepath.Dir(b.path), 0o750); err != nil {
		return fmt.Errorf("create dirs: %w", err)
	}

	db, err := b.open()
	if err != nil {
		return err
	}
	defer func() { _ = db.Close() }()

	tx, err := db.Begin()
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}

	defer func() {
		if retErr != nil {
			_ = tx.Rollback()
		}
	}()

	if _, err := tx.Exec(`DELETE FROM entries; DELETE FROM categories;`); err != nil {
		return fmt.Errorf("clear state: %w", err)
	}

	for i, name := range state.Categories() {
		if _, err := tx.Exec(`INSERT INTO categories(position, name) VALUES(?, ?)`, i, name); err != nil {
			return fmt.Errorf("insert category %s: %w", name, err)
		}

		for j, e := range state.Entries(name) {
			if _, err := tx.Exec(`INSERT INTO entries(category, position, value, active) VALUES(?, ?, ?, ?)`,
				name, j, e.Value, e.Active); err != nil {
				return fmt.Errorf("insert entry %s/%s: %w", name, e.Value, err)
			}
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}

	b.logger.Debug("state saved", slog.String("path", b.path), slog.Int("categories", len(state.Categories())))

	return nil
}

func (b *SQLiteBackend) open() (*sql.DB, error) {
	db, err := sql.Open("sqlite", b.path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}

	if _, err := db.Exec(sqliteSchema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("create state tables: %w", err)
	}

	return db, nil
}

// PathBackend is a Backend bound to a location.
type PathBackend interface {
	Backend
	Path() string
}

// OpenBackend picks the backend for path by its extension: ".db",
// ".sqlite" and ".sqlite3" select SQLite, anything else a YAML state file.
func OpenBackend(path string, logger *slog.Logger) PathBackend {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".db", ".sqlite", ".sqlite3":
		return NewSQLiteBackend(path, logger)
	default:
		return NewFileBackend(path, logger)
	}
}
