// Package sidebar models the navigation tree of a documentation site: named
// sidebars, each an ordered list of labelled sections of document references.
//
// Every ordering in the tree is display order, so all codecs in this package
// keep it intact.
package sidebar

import (
	"errors"
	"fmt"
)

// Tree is an ordered set of sidebars. It is read-only once built.
type Tree struct {
	sidebars []Sidebar
	index    map[string]int
}

// New builds a tree from sidebars in the given order. Sidebar names must be
// unique, as must section labels within a sidebar.
func New(sidebars ...Sidebar) (*Tree, error) {
	t := &Tree{
		sidebars: make([]Sidebar, 0, len(sidebars)),
		index:    make(map[string]int, len(sidebars)),
	}
	for _, sb := range sidebars {
		if _, ok := t.index[sb.Name]; ok {
			return nil, fmt.Errorf("%w: %q", ErrDuplicateSidebar, sb.Name)
		}
		seen := make(map[string]struct{}, len(sb.Sections))
		for _, sec := range sb.Sections {
			if _, ok := seen[sec.Label]; ok {
				return nil, fmt.Errorf("%w: %q in sidebar %q", ErrDuplicateSection, sec.Label, sb.Name)
			}
			seen[sec.Label] = struct{}{}
		}
		t.index[sb.Name] = len(t.sidebars)
		t.sidebars = append(t.sidebars, sb.clone())
	}
	return t, nil
}

// Names returns the sidebar names in order.
func (t *Tree) Names() []string {
	names := make([]string, 0, len(t.sidebars))
	for _, sb := range t.sidebars {
		names = append(names, sb.Name)
	}
	return names
}

// Len returns the number of sidebars.
func (t *Tree) Len() int {
	return len(t.sidebars)
}

// Sidebar returns a copy of the named sidebar.
func (t *Tree) Sidebar(name string) (Sidebar, bool) {
	i, ok := t.index[name]
	if !ok {
		return Sidebar{}, false
	}
	return t.sidebars[i].clone(), true
}

// Sidebars returns copies of all sidebars in order.
func (t *Tree) Sidebars() []Sidebar {
	out := make([]Sidebar, len(t.sidebars))
	for i, sb := range t.sidebars {
		out[i] = sb.clone()
	}
	return out
}

// Lookup returns the ordered document references of a section.
func (t *Tree) Lookup(sidebar, label string) ([]string, bool) {
	i, ok := t.index[sidebar]
	if !ok {
		return nil, false
	}
	return t.sidebars[i].Lookup(label)
}

// Refs returns all document references across the tree in display order.
func (t *Tree) Refs() []string {
	var refs []string
	for _, sb := range t.sidebars {
		refs = append(refs, sb.Refs()...)
	}
	return refs
}

// Validate reports violations of the tree's data invariants: it must hold at
// least one sidebar, and every reference must be a well-formed category/slug
// that appears only once. Duplicate names and labels are already rejected by New.
func (t *Tree) Validate() error {
	if len(t.sidebars) == 0 {
		return ErrEmptyTree
	}

	var errs []error
	where := make(map[string]string)
	for _, sb := range t.sidebars {
		for _, sec := range sb.Sections {
			for _, ref := range sec.Docs {
				loc := sb.Name + " > " + sec.Label
				if _, err := ParseRef(ref); err != nil {
					errs = append(errs, fmt.Errorf("%s: %w", loc, err))
					continue
				}
				if prev, ok := where[ref]; ok {
					errs = append(errs, fmt.Errorf("%w: %q in %s (first seen in %s)", ErrDuplicateRef, ref, loc, prev))
					continue
				}
				where[ref] = loc
			}
		}
	}
	return errors.Join(errs...)
}
