// Package store persists a cross-referenced code map to SQLite so queries
// can run without re-indexing. The persisted form is a full snapshot:
// saving replaces everything, loading rebuilds the map with identities,
// structural links and dependency edges intact.
package store

import (
	"database/sql"
	"fmt"
	"sort"

	_ "github.com/mattn/go-sqlite3"

	"github.com/jward/codemap/internal/editing"
	"github.com/jward/codemap/internal/graph"
)

// Store is the SQLite data access layer for a persisted code map.
type Store struct {
	db *sql.DB
}

// NewStore opens a SQLite database at dbPath with WAL mode enabled.
func NewStore(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite3", dbPath+"?_journal_mode=WAL&_foreign_keys=ON&_busy_timeout=30000")
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}
	return &Store{db: db}, nil
}

// Close closes the underlying database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// DB returns the underlying *sql.DB for use in transactions.
func (s *Store) DB() *sql.DB {
	return s.db
}

// Migrate creates the tables and indexes. Idempotent.
func (s *Store) Migrate() error {
	_, err := s.db.Exec(schemaDDL)
	if err != nil {
		return fmt.Errorf("migrate: %w", err)
	}
	return nil
}

const schemaDDL = `
CREATE TABLE IF NOT EXISTS metadata (
  key             TEXT PRIMARY KEY,
  value           TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS sources (
  path            TEXT PRIMARY KEY,
  content         TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS symbols (
  id              TEXT PRIMARY KEY,
  path            TEXT NOT NULL REFERENCES sources(path),
  begin_line      INTEGER NOT NULL,
  end_line        INTEGER NOT NULL,
  category        TEXT NOT NULL,
  name            TEXT NOT NULL,
  parent_id       TEXT
);

CREATE TABLE IF NOT EXISTS symbol_edges (
  from_id         TEXT NOT NULL REFERENCES symbols(id),
  to_id           TEXT NOT NULL REFERENCES symbols(id),
  PRIMARY KEY (from_id, to_id)
);

CREATE INDEX IF NOT EXISTS idx_symbols_path ON symbols(path);
CREATE INDEX IF NOT EXISTS idx_symbols_category ON symbols(category);
CREATE INDEX IF NOT EXISTS idx_symbols_name ON symbols(name);
CREATE INDEX IF NOT EXISTS idx_symbols_parent ON symbols(parent_id);
CREATE INDEX IF NOT EXISTS idx_symbol_edges_to ON symbol_edges(to_id);
`

const schemaVersion = "1"

// Save writes the full map, replacing any previous snapshot.
func (s *Store) Save(m *graph.CodeMap) error {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback()

	for _, q := range []string{
		"DELETE FROM symbol_edges",
		"DELETE FROM symbols",
		"DELETE FROM sources",
		"DELETE FROM metadata",
	} {
		if _, err := tx.Exec(q); err != nil {
			return fmt.Errorf("clear previous snapshot: %w", err)
		}
	}

	for key, value := range map[string]string{
		"schema_version": schemaVersion,
		"hashed_ids":     fmt.Sprintf("%t", m.HashedIDs()),
	} {
		if _, err := tx.Exec("INSERT INTO metadata (key, value) VALUES (?, ?)", key, value); err != nil {
			return fmt.Errorf("insert metadata %s: %w", key, err)
		}
	}

	paths := make([]string, 0, len(m.Sources))
	for path := range m.Sources {
		paths = append(paths, path)
	}
	sort.Strings(paths)
	for _, path := range paths {
		if _, err := tx.Exec("INSERT INTO sources (path, content) VALUES (?, ?)", path, m.Sources[path].Text()); err != nil {
			return fmt.Errorf("insert source %s: %w", path, err)
		}
	}

	ids := make([]string, 0, len(m.Symbols))
	for id := range m.Symbols {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	for _, id := range ids {
		sym := m.Symbols[id]
		parent := sql.NullString{String: sym.Parent, Valid: sym.Parent != ""}
		_, err := tx.Exec(
			"INSERT INTO symbols (id, path, begin_line, end_line, category, name, parent_id) VALUES (?, ?, ?, ?, ?, ?, ?)",
			id, sym.Path, sym.Block.Begin, sym.Block.End, string(sym.Category), sym.Name, parent,
		)
		if err != nil {
			return fmt.Errorf("insert symbol %s: %w", id, err)
		}
	}

	for _, id := range ids {
		sym := m.Symbols[id]
		targets := make([]string, 0, len(sym.Dependencies))
		for to := range sym.Dependencies {
			targets = append(targets, to)
		}
		sort.Strings(targets)
		for _, to := range targets {
			if _, err := tx.Exec("INSERT INTO symbol_edges (from_id, to_id) VALUES (?, ?)", id, to); err != nil {
				return fmt.Errorf("insert edge %s -> %s: %w", id, to, err)
			}
		}
	}

	return tx.Commit()
}

// Load rebuilds the persisted map. Returns an error when no snapshot has
// been saved.
func (s *Store) Load() (*graph.CodeMap, error) {
	var hashed string
	err := s.db.QueryRow("SELECT value FROM metadata WHERE key = 'hashed_ids'").Scan(&hashed)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("no snapshot in database")
	}
	if err != nil {
		return nil, fmt.Errorf("read metadata: %w", err)
	}

	m := graph.New(hashed == "true")

	rows, err := s.db.Query("SELECT path, content FROM sources ORDER BY path")
	if err != nil {
		return nil, fmt.Errorf("query sources: %w", err)
	}
	for rows.Next() {
		var path, content string
		if err := rows.Scan(&path, &content); err != nil {
			rows.Close()
			return nil, fmt.Errorf("scan source: %w", err)
		}
		m.Sources[path] = editing.NewDocument(path, content)
	}
	if err := rows.Close(); err != nil {
		return nil, fmt.Errorf("read sources: %w", err)
	}

	rows, err = s.db.Query("SELECT id, path, begin_line, end_line, category, name, parent_id FROM symbols ORDER BY id")
	if err != nil {
		return nil, fmt.Errorf("query symbols: %w", err)
	}
	parents := make(map[string]string)
	for rows.Next() {
		var id, path, category, name string
		var begin, end int
		var parent sql.NullString
		if err := rows.Scan(&id, &path, &begin, &end, &category, &name, &parent); err != nil {
			rows.Close()
			return nil, fmt.Errorf("scan symbol: %w", err)
		}
		block := editing.Block{Begin: begin, End: end}
		sym := m.PutSymbol(path, block, graph.Category(category), name)
		if sym.ID() != id {
			rows.Close()
			return nil, fmt.Errorf("identity mismatch for %s: derived %s", id, sym.ID())
		}
		if parent.Valid {
			parents[id] = parent.String
		}
	}
	if err := rows.Close(); err != nil {
		return nil, fmt.Errorf("read symbols: %w", err)
	}

	for id, parentID := range parents {
		child, ok := m.Get(id)
		if !ok {
			continue
		}
		parent, ok := m.Get(parentID)
		if !ok {
			return nil, fmt.Errorf("missing parent %s of %s", parentID, id)
		}
		child.Parent = parentID
		parent.Children[id] = true
	}

	rows, err = s.db.Query("SELECT from_id, to_id FROM symbol_edges ORDER BY from_id, to_id")
	if err != nil {
		return nil, fmt.Errorf("query edges: %w", err)
	}
	for rows.Next() {
		var fromID, toID string
		if err := rows.Scan(&fromID, &toID); err != nil {
			rows.Close()
			return nil, fmt.Errorf("scan edge: %w", err)
		}
		from, okFrom := m.Get(fromID)
		to, okTo := m.Get(toID)
		if !okFrom || !okTo {
			rows.Close()
			return nil, fmt.Errorf("edge %s -> %s references missing symbol", fromID, toID)
		}
		from.Uses(to)
	}
	if err := rows.Close(); err != nil {
		return nil, fmt.Errorf("read edges: %w", err)
	}

	return m, nil
}
