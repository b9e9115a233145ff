package storage

import (
	"context"
	"errors"
	"time"

	"docnav/internal/sidebar"
)

var ErrNotFound = errors.New("not found")

// Store persists one snapshot of a sidebar tree.
type Store interface {
	// SaveTree replaces the stored snapshot with t.
	SaveTree(ctx context.Context, t *sidebar.Tree, source string) error

	// LoadTree rebuilds the stored tree in its original order. It returns
	// ErrNotFound when no snapshot has been saved.
	LoadTree(ctx context.Context) (*sidebar.Tree, error)

	// Lookup returns the ordered document references of one section.
	Lookup(ctx context.Context, sidebarName, label string) ([]string, error)

	// Info describes the stored snapshot.
	Info(ctx context.Context) (Snapshot, error)

	Close() error
}

// Snapshot describes what SaveTree last stored.
type Snapshot struct {
	Source   string
	SavedAt  time.Time
	Sidebars int
	Sections int
	Docs     int
}
