package sidebar

import (
	"errors"
	"fmt"
	"strings"
	"unicode"
)

var (
	ErrEmptyTree        = errors.New("sidebar tree has no sidebars")
	ErrDuplicateSidebar = errors.New("duplicate sidebar name")
	ErrDuplicateSection = errors.New("duplicate section label")
	ErrDuplicateRef     = errors.New("duplicate document reference")
	ErrInvalidRef       = errors.New("invalid document reference")
)

// Section is a labelled, ordered group of document references.
type Section struct {
	Label string
	Docs  []string
}

// Sidebar is a named, ordered list of sections.
type Sidebar struct {
	Name     string
	Sections []Section
}

// Ref is a document reference split into its `category/slug` parts.
type Ref struct {
	Category string
	Slug     string
}

func (r Ref) String() string {
	return r.Category + "/" + r.Slug
}

// ParseRef splits a document reference at the first slash.
func ParseRef(s string) (Ref, error) {
	if strings.IndexFunc(s, unicode.IsSpace) >= 0 {
		return Ref{}, fmt.Errorf("%w: %q contains whitespace", ErrInvalidRef, s)
	}
	category, slug, ok := strings.Cut(s, "/")
	if !ok || category == "" || slug == "" {
		return Ref{}, fmt.Errorf("%w: %q is not category/slug", ErrInvalidRef, s)
	}
	return Ref{Category: category, Slug: slug}, nil
}

// Labels returns the section labels in display order.
func (s Sidebar) Labels() []string {
	labels := make([]string, 0, len(s.Sections))
	for _, sec := range s.Sections {
		labels = append(labels, sec.Label)
	}
	return labels
}

// Lookup returns a copy of the document references under label.
func (s Sidebar) Lookup(label string) ([]string, bool) {
	for _, sec := range s.Sections {
		if sec.Label == label {
			return append([]string(nil), sec.Docs...), true
		}
	}
	return nil, false
}

// Refs returns every document reference in the sidebar in display order.
func (s Sidebar) Refs() []string {
	var refs []string
	for _, sec := range s.Sections {
		refs = append(refs, sec.Docs...)
	}
	return refs
}

func (s Sidebar) clone() Sidebar {
	out := Sidebar{Name: s.Name, Sections: make([]Section, len(s.Sections))}
	for i, sec := range s.Sections {
		out.Sections[i] = Section{Label: sec.Label, Docs: append([]string(nil), sec.Docs...)}
	}
	return out
}
