package sidebar

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"

	"gopkg.in/yaml.v3"
)

// MarshalJSON encodes the tree as nested JSON objects whose key order follows
// the tree order.
func (t *Tree) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, sb := range t.sidebars {
		if i > 0 {
			buf.WriteByte(',')
		}
		if err := writeJSONString(&buf, sb.Name); err != nil {
			return nil, err
		}
		buf.WriteString(":{")
		for j, sec := range sb.Sections {
			if j > 0 {
				buf.WriteByte(',')
			}
			if err := writeJSONString(&buf, sec.Label); err != nil {
				return nil, err
			}
			buf.WriteByte(':')
			docs := sec.Docs
			if docs == nil {
				docs = []string{}
			}
			b, err := json.Marshal(docs)
			if err != nil {
				return nil, err
			}
			buf.Write(b)
		}
		buf.WriteByte('}')
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

func writeJSONString(buf *bytes.Buffer, s string) error {
	b, err := json.Marshal(s)
	if err != nil {
		return err
	}
	buf.Write(b)
	return nil
}

// UnmarshalJSON decodes nested JSON objects token by token so that key order
// is kept. Duplicate keys are rejected.
func (t *Tree) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	if err := expectDelim(dec, '{'); err != nil {
		return err
	}

	var sidebars []Sidebar
	for dec.More() {
		name, err := stringToken(dec)
		if err != nil {
			return err
		}
		sb := Sidebar{Name: name}
		if err := expectDelim(dec, '{'); err != nil {
			return fmt.Errorf("sidebar %q: %w", name, err)
		}
		for dec.More() {
			label, err := stringToken(dec)
			if err != nil {
				return fmt.Errorf("sidebar %q: %w", name, err)
			}
			docs, err := decodeDocs(dec)
			if err != nil {
				return fmt.Errorf("section %q: %w", label, err)
			}
			sb.Sections = append(sb.Sections, Section{Label: label, Docs: docs})
		}
		if err := expectDelim(dec, '}'); err != nil {
			return err
		}
		sidebars = append(sidebars, sb)
	}
	if err := expectDelim(dec, '}'); err != nil {
		return err
	}
	if _, err := dec.Token(); err != io.EOF {
		return fmt.Errorf("unexpected data after sidebar tree")
	}

	built, err := New(sidebars...)
	if err != nil {
		return err
	}
	*t = *built
	return nil
}

func decodeDocs(dec *json.Decoder) ([]string, error) {
	tok, err := dec.Token()
	if err != nil {
		return nil, err
	}
	if tok == nil {
		return []string{}, nil
	}
	if d, ok := tok.(json.Delim); !ok || d != '[' {
		return nil, fmt.Errorf("expected array of document references, got %v", tok)
	}
	docs := []string{}
	for dec.More() {
		ref, err := stringToken(dec)
		if err != nil {
			return nil, err
		}
		docs = append(docs, ref)
	}
	if err := expectDelim(dec, ']'); err != nil {
		return nil, err
	}
	return docs, nil
}

func expectDelim(dec *json.Decoder, want json.Delim) error {
	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if d, ok := tok.(json.Delim); !ok || d != want {
		return fmt.Errorf("expected %q, got %v", want, tok)
	}
	return nil
}

func stringToken(dec *json.Decoder) (string, error) {
	tok, err := dec.Token()
	if err != nil {
		return "", err
	}
	s, ok := tok.(string)
	if !ok {
		return "", fmt.Errorf("expected string, got %v", tok)
	}
	return s, nil
}

// MarshalYAML encodes the tree as nested YAML mappings in tree order.
func (t *Tree) MarshalYAML() (interface{}, error) {
	root := &yaml.Node{Kind: yaml.MappingNode, Tag: "!!map"}
	for _, sb := range t.sidebars {
		sections := &yaml.Node{Kind: yaml.MappingNode, Tag: "!!map"}
		for _, sec := range sb.Sections {
			docs := &yaml.Node{Kind: yaml.SequenceNode, Tag: "!!seq"}
			for _, ref := range sec.Docs {
				docs.Content = append(docs.Content, strNode(ref))
			}
			if len(sec.Docs) == 0 {
				docs.Style = yaml.FlowStyle
			}
			sections.Content = append(sections.Content, strNode(sec.Label), docs)
		}
		root.Content = append(root.Content, strNode(sb.Name), sections)
	}
	return root, nil
}

func strNode(s string) *yaml.Node {
	return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: s}
}

// UnmarshalYAML decodes nested YAML mappings, keeping their order.
func (t *Tree) UnmarshalYAML(value *yaml.Node) error {
	root := resolve(value)
	if root.Kind == yaml.DocumentNode && len(root.Content) == 1 {
		root = resolve(root.Content[0])
	}
	if root.Kind != yaml.MappingNode {
		return fmt.Errorf("line %d: sidebar tree must be a mapping", root.Line)
	}

	var sidebars []Sidebar
	for i := 0; i+1 < len(root.Content); i += 2 {
		key, val := resolve(root.Content[i]), resolve(root.Content[i+1])
		if key.Kind != yaml.ScalarNode {
			return fmt.Errorf("line %d: sidebar name must be a scalar", key.Line)
		}
		if val.Kind != yaml.MappingNode {
			return fmt.Errorf("line %d: sidebar %q must be a mapping", val.Line, key.Value)
		}
		sb := Sidebar{Name: key.Value}
		for j := 0; j+1 < len(val.Content); j += 2 {
			label, items := resolve(val.Content[j]), resolve(val.Content[j+1])
			if label.Kind != yaml.ScalarNode {
				return fmt.Errorf("line %d: section label must be a scalar", label.Line)
			}
			docs, err := yamlDocs(items)
			if err != nil {
				return fmt.Errorf("section %q: %w", label.Value, err)
			}
			sb.Sections = append(sb.Sections, Section{Label: label.Value, Docs: docs})
		}
		sidebars = append(sidebars, sb)
	}

	built, err := New(sidebars...)
	if err != nil {
		return err
	}
	*t = *built
	return nil
}

func yamlDocs(n *yaml.Node) ([]string, error) {
	if n.Kind == yaml.ScalarNode && n.ShortTag() == "!!null" {
		return []string{}, nil
	}
	if n.Kind != yaml.SequenceNode {
		return nil, fmt.Errorf("line %d: expected a sequence of document references", n.Line)
	}
	docs := make([]string, 0, len(n.Content))
	for _, item := range n.Content {
		item = resolve(item)
		if item.Kind != yaml.ScalarNode {
			return nil, fmt.Errorf("line %d: document reference must be a scalar", item.Line)
		}
		docs = append(docs, item.Value)
	}
	return docs, nil
}

func resolve(n *yaml.Node) *yaml.Node {
	for n.Kind == yaml.AliasNode && n.Alias != nil {
		n = n.Alias
	}
	return n
}
