package discover

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"docnav/internal/format"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func touch(t *testing.T, root string, rel string) {
	t.Helper()
	path := filepath.Join(root, rel)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte("{}"), 0o644))
}

func TestCrawler_ScanProject(t *testing.T) {
	root := t.TempDir()
	touch(t, root, "website/sidebars.js")
	touch(t, root, "website/i18n/sidebars.json")
	touch(t, root, "nav/Sidebars.yml")
	touch(t, root, "website/node_modules/pkg/sidebars.js")
	touch(t, root, ".docusaurus/sidebars.js")
	touch(t, root, "website/sidebars.toml")
	touch(t, root, "website/docusaurus.config.js")

	var found []Found
	err := NewCrawler().ScanProject(context.Background(), root, func(f Found) error {
		rel, err := filepath.Rel(root, f.Path)
		require.NoError(t, err)
		found = append(found, Found{Path: filepath.ToSlash(rel), Format: f.Format})
		return nil
	})
	require.NoError(t, err)

	assert.ElementsMatch(t, []Found{
		{Path: "website/sidebars.js", Format: format.JS},
		{Path: "website/i18n/sidebars.json", Format: format.JSON},
		{Path: "nav/Sidebars.yml", Format: format.YAML},
	}, found)
}

func TestCrawler_StopsOnCallbackError(t *testing.T) {
	root := t.TempDir()
	touch(t, root, "a/sidebars.js")
	touch(t, root, "b/sidebars.js")

	stop := errors.New("stop")
	calls := 0
	err := NewCrawler().ScanProject(context.Background(), root, func(Found) error {
		calls++
		return stop
	})
	assert.ErrorIs(t, err, stop)
	assert.Equal(t, 1, calls)
}

func TestCrawler_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := NewCrawler().ScanProject(ctx, t.TempDir(), func(Found) error { return nil })
	assert.ErrorIs(t, err, context.Canceled)
}
