package roadmap

import (
	"bytes"
	"encoding/json"

	"gopkg.in/yaml.v3"
)

// MarshalJSON writes the tree as a JSON object whose keys keep sibling order.
func (t Tree) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	if err := writeJSON(&buf, t); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func writeJSON(buf *bytes.Buffer, t Tree) error {
	buf.WriteByte('{')
	for i, c := range t {
		if i > 0 {
			buf.WriteByte(',')
		}
		if err := writeString(buf, c.Label); err != nil {
			return err
		}
		buf.WriteString(":[")
		for j, e := range c.Entries {
			if j > 0 {
				buf.WriteByte(',')
			}
			switch e := e.(type) {
			case Leaf:
				if err := writeString(buf, e.Topic); err != nil {
					return err
				}
			case Branch:
				if err := writeJSON(buf, e.Tree); err != nil {
					return err
				}
			}
		}
		buf.WriteByte(']')
	}
	buf.WriteByte('}')
	return nil
}

// writeString appends s as a JSON string without HTML escaping, so labels
// such as "Limits & Continuity" stay readable.
func writeString(buf *bytes.Buffer, s string) error {
	var tmp bytes.Buffer
	enc := json.NewEncoder(&tmp)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(s); err != nil {
		return err
	}
	buf.Write(bytes.TrimSuffix(tmp.Bytes(), []byte("\n")))
	return nil
}

// UnmarshalJSON accepts the same nested mapping-of-sequences shape that
// Parse accepts, without payload isolation.
func (t *Tree) UnmarshalJSON(data []byte) error {
	tree, err := decode(data)
	if err != nil {
		return err
	}
	*t = tree
	return nil
}

// MarshalYAML emits an ordered mapping node.
func (t Tree) MarshalYAML() (any, error) {
	return t.yamlNode(), nil
}

func (t Tree) yamlNode() *yaml.Node {
	m := &yaml.Node{Kind: yaml.MappingNode}
	for _, c := range t {
		seq := &yaml.Node{Kind: yaml.SequenceNode}
		for _, e := range c.Entries {
			switch e := e.(type) {
			case Leaf:
				seq.Content = append(seq.Content, strNode(e.Topic))
			case Branch:
				seq.Content = append(seq.Content, e.Tree.yamlNode())
			}
		}
		m.Content = append(m.Content, strNode(c.Label), seq)
	}
	return m
}

func strNode(s string) *yaml.Node {
	return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: s}
}
