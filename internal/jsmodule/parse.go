// Package jsmodule reads and writes the CommonJS sidebar file consumed by the
// documentation site generator (`sidebars.js`).
package jsmodule

import (
	"context"
	"errors"
	"fmt"

	"docnav/internal/sidebar"

	sitter "github.com/smacker/go-tree-sitter"
	"github.com/smacker/go-tree-sitter/javascript"
)

var (
	ErrNoExport    = errors.New("no sidebar export found")
	ErrUnsupported = errors.New("unsupported sidebar construct")
	ErrSyntax      = errors.New("javascript syntax error")
)

// Parse extracts the sidebar tree from a sidebars.js source. Recognised forms:
//
//	module.exports = { ... };
//	const sidebars = { ... }; module.exports = sidebars;
//	export default { ... };
//
// Sidebar values are either label -> [doc ids] objects or arrays of
// {type: 'category', label, items} objects.
func Parse(ctx context.Context, src []byte) (*sidebar.Tree, error) {
	parser := sitter.NewParser()
	parser.SetLanguage(javascript.GetLanguage())
	tree, err := parser.ParseCtx(ctx, nil, src)
	if err != nil {
		return nil, fmt.Errorf("parse sidebars: %w", err)
	}

	root := tree.RootNode()
	if root.HasError() {
		if bad := firstError(root); bad != nil {
			return nil, fmt.Errorf("%w at line %d", ErrSyntax, bad.StartPoint().Row+1)
		}
		return nil, ErrSyntax
	}

	p := &parseState{src: src, vars: make(map[string]*sitter.Node)}
	exported := p.findExport(root)
	if exported == nil {
		return nil, ErrNoExport
	}
	return p.tree(exported)
}

type parseState struct {
	src  []byte
	vars map[string]*sitter.Node
}

// findExport collects top-level variable initialisers and returns the
// expression assigned to module.exports (or export default). The last export wins.
func (p *parseState) findExport(root *sitter.Node) *sitter.Node {
	var exported *sitter.Node
	for i := 0; i < int(root.NamedChildCount()); i++ {
		stmt := root.NamedChild(i)
		switch stmt.Type() {
		case "lexical_declaration", "variable_declaration":
			for j := 0; j < int(stmt.NamedChildCount()); j++ {
				decl := stmt.NamedChild(j)
				if decl.Type() != "variable_declarator" {
					continue
				}
				name, value := decl.ChildByFieldName("name"), decl.ChildByFieldName("value")
				if name != nil && value != nil && name.Type() == "identifier" {
					p.vars[name.Content(p.src)] = value
				}
			}
		case "expression_statement":
			expr := stmt.NamedChild(0)
			if expr == nil || expr.Type() != "assignment_expression" {
				continue
			}
			left := expr.ChildByFieldName("left")
			if left != nil && left.Type() == "member_expression" && left.Content(p.src) == "module.exports" {
				exported = expr.ChildByFieldName("right")
			}
		case "export_statement":
			if value := stmt.ChildByFieldName("value"); value != nil {
				exported = value
			}
		}
	}
	return exported
}

// deref follows identifiers to their top-level initialiser and unwraps parentheses.
func (p *parseState) deref(n *sitter.Node) (*sitter.Node, error) {
	hops := 0
	for {
		switch n.Type() {
		case "identifier":
			v, ok := p.vars[n.Content(p.src)]
			if !ok {
				return nil, fmt.Errorf("%w: undefined identifier %q at line %d", ErrUnsupported, n.Content(p.src), line(n))
			}
			if hops++; hops > len(p.vars) {
				return nil, fmt.Errorf("%w: circular reference at line %d", ErrUnsupported, line(n))
			}
			n = v
		case "parenthesized_expression":
			n = n.NamedChild(0)
		default:
			return n, nil
		}
	}
}

func (p *parseState) tree(n *sitter.Node) (*sidebar.Tree, error) {
	obj, err := p.deref(n)
	if err != nil {
		return nil, err
	}
	pairs, err := p.pairs(obj)
	if err != nil {
		return nil, err
	}

	sidebars := make([]sidebar.Sidebar, 0, len(pairs))
	for _, kv := range pairs {
		sections, err := p.sections(kv.value)
		if err != nil {
			return nil, fmt.Errorf("sidebar %q: %w", kv.key, err)
		}
		sidebars = append(sidebars, sidebar.Sidebar{Name: kv.key, Sections: sections})
	}
	return sidebar.New(sidebars...)
}

func (p *parseState) sections(n *sitter.Node) ([]sidebar.Section, error) {
	n, err := p.deref(n)
	if err != nil {
		return nil, err
	}

	switch n.Type() {
	case "object":
		pairs, err := p.pairs(n)
		if err != nil {
			return nil, err
		}
		sections := make([]sidebar.Section, 0, len(pairs))
		for _, kv := range pairs {
			docs, err := p.strings(kv.value)
			if err != nil {
				return nil, fmt.Errorf("section %q: %w", kv.key, err)
			}
			sections = append(sections, sidebar.Section{Label: kv.key, Docs: docs})
		}
		return sections, nil
	case "array":
		var sections []sidebar.Section
		for _, item := range namedItems(n) {
			sec, err := p.category(item)
			if err != nil {
				return nil, err
			}
			sections = append(sections, sec)
		}
		return sections, nil
	default:
		return nil, fmt.Errorf("%w: %s at line %d", ErrUnsupported, n.Type(), line(n))
	}
}

// category reads a {type: 'category', label: ..., items: [...]} entry.
func (p *parseState) category(n *sitter.Node) (sidebar.Section, error) {
	n, err := p.deref(n)
	if err != nil {
		return sidebar.Section{}, err
	}
	if n.Type() != "object" {
		return sidebar.Section{}, fmt.Errorf("%w: bare %s item at line %d, only categories are supported", ErrUnsupported, n.Type(), line(n))
	}
	pairs, err := p.pairs(n)
	if err != nil {
		return sidebar.Section{}, err
	}

	var (
		sec      sidebar.Section
		hasLabel bool
		hasItems bool
	)
	for _, kv := range pairs {
		switch kv.key {
		case "type":
			kind, err := p.str(kv.value)
			if err != nil {
				return sidebar.Section{}, err
			}
			if kind != "category" {
				return sidebar.Section{}, fmt.Errorf("%w: item type %q at line %d", ErrUnsupported, kind, line(kv.value))
			}
		case "label":
			if sec.Label, err = p.str(kv.value); err != nil {
				return sidebar.Section{}, err
			}
			hasLabel = true
		case "items":
			if sec.Docs, err = p.strings(kv.value); err != nil {
				return sidebar.Section{}, err
			}
			hasItems = true
		}
	}
	if !hasLabel || !hasItems {
		return sidebar.Section{}, fmt.Errorf("%w: category at line %d needs label and items", ErrUnsupported, line(n))
	}
	return sec, nil
}

type pair struct {
	key   string
	value *sitter.Node
}

func (p *parseState) pairs(n *sitter.Node) ([]pair, error) {
	if n.Type() != "object" {
		return nil, fmt.Errorf("%w: expected object, got %s at line %d", ErrUnsupported, n.Type(), line(n))
	}
	var out []pair
	for _, child := range namedItems(n) {
		if child.Type() != "pair" {
			return nil, fmt.Errorf("%w: %s at line %d", ErrUnsupported, child.Type(), line(child))
		}
		keyNode := child.ChildByFieldName("key")
		var key string
		switch keyNode.Type() {
		case "property_identifier", "number":
			key = keyNode.Content(p.src)
		case "string":
			k, err := p.str(keyNode)
			if err != nil {
				return nil, err
			}
			key = k
		default:
			return nil, fmt.Errorf("%w: %s key at line %d", ErrUnsupported, keyNode.Type(), line(keyNode))
		}
		out = append(out, pair{key: key, value: child.ChildByFieldName("value")})
	}
	return out, nil
}

func (p *parseState) strings(n *sitter.Node) ([]string, error) {
	n, err := p.deref(n)
	if err != nil {
		return nil, err
	}
	if n.Type() != "array" {
		return nil, fmt.Errorf("%w: expected array, got %s at line %d", ErrUnsupported, n.Type(), line(n))
	}
	out := []string{}
	for _, item := range namedItems(n) {
		s, err := p.str(item)
		if err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, nil
}

func (p *parseState) str(n *sitter.Node) (string, error) {
	n, err := p.deref(n)
	if err != nil {
		return "", err
	}
	switch n.Type() {
	case "string":
		return unquote(n.Content(p.src))
	case "template_string":
		for i := 0; i < int(n.NamedChildCount()); i++ {
			if n.NamedChild(i).Type() == "template_substitution" {
				return "", fmt.Errorf("%w: template substitution at line %d", ErrUnsupported, line(n))
			}
		}
		return unquote(n.Content(p.src))
	default:
		return "", fmt.Errorf("%w: expected string literal, got %s at line %d", ErrUnsupported, n.Type(), line(n))
	}
}

// namedItems returns the named children of n, skipping comments.
func namedItems(n *sitter.Node) []*sitter.Node {
	var out []*sitter.Node
	for i := 0; i < int(n.NamedChildCount()); i++ {
		child := n.NamedChild(i)
		if child.Type() == "comment" {
			continue
		}
		out = append(out, child)
	}
	return out
}

func firstError(n *sitter.Node) *sitter.Node {
	if n.IsError() || n.IsMissing() {
		return n
	}
	for i := 0; i < int(n.ChildCount()); i++ {
		if bad := firstError(n.Child(i)); bad != nil {
			return bad
		}
	}
	return nil
}

func line(n *sitter.Node) int {
	return int(n.StartPoint().Row) + 1
}
