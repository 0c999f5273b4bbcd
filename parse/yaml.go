package parse

import (
	"fmt"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/reoring/llmshape/errs"
	"github.com/reoring/llmshape/value"
)

// YAMLParser lifts a safe subset of YAML into a Value: no custom tags, no
// cross-document aliases. Booleans/nulls resolve per the YAML 1.2 core
// schema rather than yaml.v3's broader 1.1 resolver.
type YAMLParser struct{}

func (YAMLParser) FormatName() string { return "yaml" }

func (p YAMLParser) Parse(data []byte) (value.Value, error) {
	var root yaml.Node
	if err := yaml.Unmarshal(data, &root); err != nil {
		return value.Null(), &errs.ParseError{Format: "yaml", ByteOffset: -1, Message: err.Error()}
	}
	if root.Kind == 0 {
		return value.Null(), nil
	}
	doc := &root
	if root.Kind == yaml.DocumentNode {
		if len(root.Content) == 0 {
			return value.Null(), nil
		}
		doc = root.Content[0]
	}
	v, err := nodeToValue(doc)
	if err != nil {
		return value.Null(), &errs.ParseError{Format: "yaml", ByteOffset: -1, Message: err.Error()}
	}
	return v, nil
}

func nodeToValue(n *yaml.Node) (value.Value, error) {
	switch n.Kind {
	case yaml.ScalarNode:
		return scalarToValue(n)
	case yaml.MappingNode:
		obj := value.NewObject()
		for i := 0; i+1 < len(n.Content); i += 2 {
			keyNode := n.Content[i]
			valNode := n.Content[i+1]
			key, err := scalarKey(keyNode)
			if err != nil {
				return value.Null(), err
			}
			v, err := nodeToValue(valNode)
			if err != nil {
				return value.Null(), err
			}
			obj.Set(key, v) // last wins, original position preserved
		}
		return value.FromObject(obj), nil
	case yaml.SequenceNode:
		elems := make([]value.Value, 0, len(n.Content))
		for _, c := range n.Content {
			v, err := nodeToValue(c)
			if err != nil {
				return value.Null(), err
			}
			elems = append(elems, v)
		}
		return value.Array(elems), nil
	case yaml.AliasNode:
		return nodeToValue(n.Alias)
	default:
		return value.Null(), fmt.Errorf("unsupported yaml node kind %d", n.Kind)
	}
}

func scalarKey(n *yaml.Node) (string, error) {
	if n.Kind != yaml.ScalarNode {
		return "", fmt.Errorf("mapping key at line %d is not a scalar", n.Line)
	}
	return n.Value, nil
}

// scalarToValue resolves a YAML scalar per the core schema: true/false/
// null (case-insensitive) are keywords; everything else that parses as an
// integer or float is a Number; the rest is a String.
func scalarToValue(n *yaml.Node) (value.Value, error) {
	if n.Tag == "!!str" {
		return value.String(n.Value), nil
	}
	s := n.Value
	lower := strings.ToLower(s)
	switch lower {
	case "null", "~", "":
		return value.Null(), nil
	case "true":
		return value.Bool(true), nil
	case "false":
		return value.Bool(false), nil
	}
	if i, err := strconv.ParseInt(s, 10, 64); err == nil {
		return value.Int(i), nil
	}
	if f, err := strconv.ParseFloat(s, 64); err == nil {
		return value.Float(f), nil
	}
	return value.String(s), nil
}
