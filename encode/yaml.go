package encode

import (
	"bytes"
	"regexp"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/reoring/llmshape/value"
)

// YAMLEncoder emits block-style YAML, two-space indentation, minimal
// quoting, keys in insertion order (spec §4.3). It builds yaml.Node
// trees by hand rather than marshaling a generic any, so the quoting
// rule below is pinned exactly rather than deferring to yaml.v3's own
// (broader, 1.1-flavored) heuristics.
type YAMLEncoder struct{}

func (YAMLEncoder) FormatName() string { return "yaml" }

func (e YAMLEncoder) Encode(v value.Value) (string, *Metadata, error) {
	node := valueToYAMLNode(v)
	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(node); err != nil {
		return "", nil, err
	}
	if err := enc.Close(); err != nil {
		return "", nil, err
	}
	return strings.TrimSuffix(buf.String(), "\n"), &Metadata{}, nil
}

func valueToYAMLNode(v value.Value) *yaml.Node {
	switch v.Kind() {
	case value.KindNull:
		return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!null", Value: "null"}
	case value.KindBool:
		s := "false"
		if v.Bool() {
			s = "true"
		}
		return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!bool", Value: s}
	case value.KindInt:
		return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!int", Value: strconv.FormatInt(v.Int(), 10)}
	case value.KindFloat:
		return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!float", Value: formatFloat(v.Float())}
	case value.KindString:
		return stringYAMLNode(v.Str())
	case value.KindArray:
		items := v.Items()
		n := &yaml.Node{Kind: yaml.SequenceNode, Tag: "!!seq"}
		for _, it := range items {
			n.Content = append(n.Content, valueToYAMLNode(it))
		}
		return n
	case value.KindObject:
		n := &yaml.Node{Kind: yaml.MappingNode, Tag: "!!map"}
		v.Obj().Range(func(key string, child value.Value) bool {
			n.Content = append(n.Content, stringYAMLNode(key), valueToYAMLNode(child))
			return true
		})
		return n
	default:
		return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!null", Value: "null"}
	}
}

var yamlNumberLike = regexp.MustCompile(`^[-+]?(\.[0-9]+|[0-9]+(\.[0-9]*)?)([eE][-+]?[0-9]+)?$`)

// stringYAMLNode decides whether s needs quoting per spec §4.3's YAML
// encoder rule, and picks the literal block style for multi-line
// strings.
func stringYAMLNode(s string) *yaml.Node {
	if strings.Contains(s, "\n") {
		return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: s, Style: yaml.LiteralStyle}
	}
	if needsYAMLQuoting(s) {
		return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: s, Style: yaml.DoubleQuotedStyle}
	}
	return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: s}
}

func needsYAMLQuoting(s string) bool {
	if s == "" {
		return true
	}
	lower := strings.ToLower(s)
	switch lower {
	case "true", "false", "null", "yes", "no", "on", "off", "~":
		return true
	}
	if yamlNumberLike.MatchString(s) {
		return true
	}
	for _, r := range s {
		if r < 0x20 {
			return true
		}
	}
	if strings.TrimSpace(s) != s {
		return true
	}
	if strings.ContainsAny(s[:1], "&*!|>%@") {
		return true
	}
	if strings.Contains(s, ": ") || strings.Contains(s, " #") {
		return true
	}
	return false
}
