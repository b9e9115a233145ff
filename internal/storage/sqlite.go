package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"docnav/internal/sidebar"

	_ "github.com/mattn/go-sqlite3"
)

type SQLiteStore struct {
	db  *sql.DB
	now func() time.Time
}

var _ Store = (*SQLiteStore)(nil)

// NewSQLiteStore creates or opens a SQLite database.
func NewSQLiteStore(path string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite3", path+"?_foreign_keys=on")
	if err != nil {
		return nil, err
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, err
	}

	s := &SQLiteStore{db: db, now: time.Now}
	if err := s.initSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to init schema: %w", err)
	}

	return s, nil
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

func (s *SQLiteStore) initSchema() error {
	queries := []string{
		`CREATE TABLE IF NOT EXISTS sidebars (
			name TEXT PRIMARY KEY,
			position INTEGER NOT NULL
		);`,
		`CREATE TABLE IF NOT EXISTS sections (
			sidebar TEXT NOT NULL REFERENCES sidebars(name) ON DELETE CASCADE,
			label TEXT NOT NULL,
			position INTEGER NOT NULL,
			PRIMARY KEY (sidebar, label)
		);`,
		`CREATE TABLE IF NOT EXISTS docs (
			sidebar TEXT NOT NULL,
			section TEXT NOT NULL,
			ref TEXT NOT NULL,
			position INTEGER NOT NULL,
			PRIMARY KEY (sidebar, section, position),
			FOREIGN KEY (sidebar, section) REFERENCES sections(sidebar, label) ON DELETE CASCADE
		);`,
		`CREATE TABLE IF NOT EXISTS snapshot (
			id INTEGER PRIMARY KEY CHECK (id = 1),
			source TEXT NOT NULL,
			saved_at INTEGER NOT NULL
		);`,
		`CREATE INDEX IF NOT EXISTS idx_docs_ref ON docs(ref);`,
	}

	for _, q := range queries {
		if _, err := s.db.Exec(q); err != nil {
			return err
		}
	}
	return nil
}

// SaveTree writes t as the current snapshot. The previous snapshot is removed
// in the same transaction.
func (s *SQLiteStore) SaveTree(ctx context.Context, t *sidebar.Tree, source string) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	for _, q := range []string{"DELETE FROM docs", "DELETE FROM sections", "DELETE FROM sidebars"} {
		if _, err := tx.ExecContext(ctx, q); err != nil {
			return fmt.Errorf("failed to clear snapshot: %w", err)
		}
	}

	sbStmt, err := tx.PrepareContext(ctx, `INSERT INTO sidebars (name, position) VALUES (?, ?)`)
	if err != nil {
		return err
	}
	defer sbStmt.Close()

	secStmt, err := tx.PrepareContext(ctx, `INSERT INTO sections (sidebar, label, position) VALUES (?, ?, ?)`)
	if err != nil {
		return err
	}
	defer secStmt.Close()

	docStmt, err := tx.PrepareContext(ctx, `INSERT INTO docs (sidebar, section, ref, position) VALUES (?, ?, ?, ?)`)
	if err != nil {
		return err
	}
	defer docStmt.Close()

	for i, sb := range t.Sidebars() {
		if _, err := sbStmt.ExecContext(ctx, sb.Name, i); err != nil {
			return fmt.Errorf("failed to save sidebar %q: %w", sb.Name, err)
		}
		for j, sec := range sb.Sections {
			if _, err := secStmt.ExecContext(ctx, sb.Name, sec.Label, j); err != nil {
				return fmt.Errorf("failed to save section %q: %w", sec.Label, err)
			}
			for k, ref := range sec.Docs {
				if _, err := docStmt.ExecContext(ctx, sb.Name, sec.Label, ref, k); err != nil {
					return fmt.Errorf("failed to save doc %q: %w", ref, err)
				}
			}
		}
	}

	if _, err := tx.ExecContext(ctx, `
		INSERT INTO snapshot (id, source, saved_at) VALUES (1, ?, ?)
		ON CONFLICT(id) DO UPDATE SET source=excluded.source, saved_at=excluded.saved_at
	`, source, s.now().UTC().UnixMilli()); err != nil {
		return fmt.Errorf("failed to record snapshot: %w", err)
	}

	return tx.Commit()
}

func (s *SQLiteStore) LoadTree(ctx context.Context) (*sidebar.Tree, error) {
	var one int
	err := s.db.QueryRowContext(ctx, "SELECT 1 FROM snapshot WHERE id = 1").Scan(&one)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("snapshot: %w", ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query snapshot: %w", err)
	}

	var sidebars []sidebar.Sidebar
	index := make(map[string]int)

	// 1. Sidebars
	rows, err := s.db.QueryContext(ctx, "SELECT name FROM sidebars ORDER BY position")
	if err != nil {
		return nil, fmt.Errorf("failed to query sidebars: %w", err)
	}
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			rows.Close()
			return nil, fmt.Errorf("failed to scan sidebar: %w", err)
		}
		index[name] = len(sidebars)
		sidebars = append(sidebars, sidebar.Sidebar{Name: name, Sections: []sidebar.Section{}})
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, err
	}

	// 2. Sections
	secRows, err := s.db.QueryContext(ctx, "SELECT sidebar, label FROM sections ORDER BY sidebar, position")
	if err != nil {
		return nil, fmt.Errorf("failed to query sections: %w", err)
	}
	sectionAt := make(map[[2]string]int)
	for secRows.Next() {
		var sb, label string
		if err := secRows.Scan(&sb, &label); err != nil {
			secRows.Close()
			return nil, fmt.Errorf("failed to scan section: %w", err)
		}
		i := index[sb]
		sectionAt[[2]string{sb, label}] = len(sidebars[i].Sections)
		sidebars[i].Sections = append(sidebars[i].Sections, sidebar.Section{Label: label, Docs: []string{}})
	}
	secRows.Close()
	if err := secRows.Err(); err != nil {
		return nil, err
	}

	// 3. Docs
	docRows, err := s.db.QueryContext(ctx, "SELECT sidebar, section, ref FROM docs ORDER BY sidebar, section, position")
	if err != nil {
		return nil, fmt.Errorf("failed to query docs: %w", err)
	}
	defer docRows.Close()
	for docRows.Next() {
		var sb, label, ref string
		if err := docRows.Scan(&sb, &label, &ref); err != nil {
			return nil, fmt.Errorf("failed to scan doc: %w", err)
		}
		sec := &sidebars[index[sb]].Sections[sectionAt[[2]string{sb, label}]]
		sec.Docs = append(sec.Docs, ref)
	}
	if err := docRows.Err(); err != nil {
		return nil, err
	}

	return sidebar.New(sidebars...)
}

func (s *SQLiteStore) Lookup(ctx context.Context, sidebarName, label string) ([]string, error) {
	var exists int
	err := s.db.QueryRowContext(ctx, "SELECT 1 FROM sections WHERE sidebar = ? AND label = ?", sidebarName, label).Scan(&exists)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("section %q in sidebar %q: %w", label, sidebarName, ErrNotFound)
	}
	if err != nil {
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx, "SELECT ref FROM docs WHERE sidebar = ? AND section = ? ORDER BY position", sidebarName, label)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	docs := []string{}
	for rows.Next() {
		var ref string
		if err := rows.Scan(&ref); err != nil {
			return nil, err
		}
		docs = append(docs, ref)
	}
	return docs, rows.Err()
}

func (s *SQLiteStore) Info(ctx context.Context) (Snapshot, error) {
	var (
		snap    Snapshot
		savedAt int64
	)
	err := s.db.QueryRowContext(ctx, "SELECT source, saved_at FROM snapshot WHERE id = 1").Scan(&snap.Source, &savedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return Snapshot{}, fmt.Errorf("snapshot: %w", ErrNotFound)
	}
	if err != nil {
		return Snapshot{}, err
	}
	snap.SavedAt = time.UnixMilli(savedAt).UTC()

	err = s.db.QueryRowContext(ctx, `
		SELECT
			(SELECT COUNT(*) FROM sidebars),
			(SELECT COUNT(*) FROM sections),
			(SELECT COUNT(*) FROM docs)
	`).Scan(&snap.Sidebars, &snap.Sections, &snap.Docs)
	if err != nil {
		return Snapshot{}, err
	}
	return snap, nil
}
