// Package discover finds sidebar definition files in a site source tree.
package discover

import (
	"context"
	"io/fs"
	"path/filepath"
	"strings"

	"docnav/internal/format"
)

// Found is a sidebar file located by a scan.
type Found struct {
	Path   string
	Format format.Format
}

// Crawler scans a directory for sidebar files.
type Crawler struct {
	ignored []string
	stems   []string
}

// NewCrawler creates a crawler that matches files named sidebars.<ext> with
// a supported extension.
func NewCrawler() *Crawler {
	return &Crawler{
		ignored: []string{".git", "vendor", "node_modules", "build", ".docusaurus"},
		stems:   []string{"sidebars"},
	}
}

// ScanProject walks root and streams every sidebar file to onFile.
func (c *Crawler) ScanProject(ctx context.Context, root string, onFile func(Found) error) error {
	return filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if err := ctx.Err(); err != nil {
			return err
		}

		// Skip ignored directories
		if d.IsDir() {
			if path != root {
				for _, ign := range c.ignored {
					if d.Name() == ign {
						return filepath.SkipDir
					}
				}
			}
			return nil
		}

		name := d.Name()
		stem := strings.TrimSuffix(name, filepath.Ext(name))
		if !c.matches(stem) {
			return nil
		}
		f, err := format.Detect(name)
		if err != nil {
			return nil
		}
		return onFile(Found{Path: path, Format: f})
	})
}

func (c *Crawler) matches(stem string) bool {
	for _, s := range c.stems {
		if strings.EqualFold(stem, s) {
			return true
		}
	}
	return false
}
