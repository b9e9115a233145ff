// Package site holds the navigation tree of the Earthstar documentation site.
package site

import (
	_ "embed"
	"encoding/json"
	"fmt"
	"sync"

	"docnav/internal/sidebar"
)

// DefaultSidebar is the sidebar the site generator renders for the docs section.
const DefaultSidebar = "docs"

//go:embed sidebars.json
var sidebarsJSON []byte

var load = sync.OnceValues(func() (*sidebar.Tree, error) {
	var t sidebar.Tree
	if err := json.Unmarshal(sidebarsJSON, &t); err != nil {
		return nil, fmt.Errorf("decode embedded sidebars: %w", err)
	}
	if err := t.Validate(); err != nil {
		return nil, fmt.Errorf("embedded sidebars: %w", err)
	}
	return &t, nil
})

// Default returns the site's sidebar tree. The embedded data is checked at
// first use; a broken copy is a build defect and panics.
func Default() *sidebar.Tree {
	t, err := load()
	if err != nil {
		panic(err)
	}
	return t
}

// Raw returns the embedded JSON as shipped.
func Raw() []byte {
	return append([]byte(nil), sidebarsJSON...)
}
