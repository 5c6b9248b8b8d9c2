package metadata

import "gopkg.in/yaml.v3"

// Text is a documentation field such as a description or an owner. It keeps
// the literal YAML value and whether that value counts as filled in.
//
// null, false, numeric zero, the empty string and empty sequences or
// mappings are empty. A missing key or a null value leaves the zero Text,
// which is empty.
type Text struct {
	Value  string
	filled bool
}

// IsEmpty reports whether the field is missing or holds an empty value.
func (t Text) IsEmpty() bool {
	return !t.filled
}

func (t Text) String() string {
	return t.Value
}

// UnmarshalYAML implements yaml.Unmarshaler.
func (t *Text) UnmarshalYAML(node *yaml.Node) error {
	for node.Kind == yaml.AliasNode && node.Alias != nil {
		node = node.Alias
	}

	// yaml.v3 does not call UnmarshalYAML for null, so the field stays zero.
	*t = Text{}
	switch node.Kind {
	case yaml.ScalarNode:
		return t.decodeScalar(node)
	case yaml.SequenceNode, yaml.MappingNode:
		t.filled = len(node.Content) > 0
	}
	return nil
}

func (t *Text) decodeScalar(node *yaml.Node) error {
	switch node.ShortTag() {
	case "!!null":
		return nil
	case "!!bool":
		var b bool
		if err := node.Decode(&b); err != nil {
			return err
		}
		t.Value, t.filled = node.Value, b
	case "!!int", "!!float":
		var f float64
		if err := node.Decode(&f); err != nil {
			return err
		}
		t.Value, t.filled = node.Value, f != 0
	default:
		t.Value, t.filled = node.Value, node.Value != ""
	}
	return nil
}
