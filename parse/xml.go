package parse

import (
	"bytes"
	"encoding/xml"
	"errors"
	"io"
	"strings"

	"github.com/reoring/llmshape/errs"
	"github.com/reoring/llmshape/value"
)

// XMLOptions configures the XML parser.
type XMLOptions struct {
	// PreserveNamespaces keeps the "prefix:local" form of element and
	// attribute names instead of stripping the namespace prefix (default
	// behavior: strip).
	PreserveNamespaces bool
}

// XMLParser lifts XML into a Value: elements become Objects, attributes
// become keys prefixed with "@", text content becomes a "#text" key,
// repeated sibling elements with the same tag collapse into an Array, and
// CDATA is treated as ordinary text.
type XMLParser struct {
	Options XMLOptions
}

func (XMLParser) FormatName() string { return "xml" }

func (p XMLParser) Parse(data []byte) (value.Value, error) {
	dec := xml.NewDecoder(bytes.NewReader(data))
	var root *xmlElem
	var stack []*xmlElem
	for {
		tok, err := dec.Token()
		if err != nil {
			if errors.Is(err, io.EOF) {
				break
			}
			return value.Null(), &errs.ParseError{Format: "xml", ByteOffset: int64(dec.InputOffset()), Message: err.Error()}
		}
		switch t := tok.(type) {
		case xml.StartElement:
			el := &xmlElem{name: p.elemName(t.Name)}
			for _, a := range t.Attr {
				el.attrs = append(el.attrs, xmlAttr{key: "@" + p.elemName(a.Name), val: a.Value})
			}
			if len(stack) > 0 {
				parent := stack[len(stack)-1]
				parent.children = append(parent.children, el)
			} else {
				root = el
			}
			stack = append(stack, el)
		case xml.EndElement:
			if len(stack) > 0 {
				stack = stack[:len(stack)-1]
			}
		case xml.CharData:
			if len(stack) > 0 {
				stack[len(stack)-1].text += string(t)
			}
		}
	}
	if root == nil {
		return value.Null(), &errs.ParseError{Format: "xml", ByteOffset: -1, Message: "no root element"}
	}
	return elemToValue(root), nil
}

func (p XMLParser) elemName(n xml.Name) string {
	if p.Options.PreserveNamespaces && n.Space != "" {
		return n.Space + ":" + n.Local
	}
	return n.Local
}

type xmlAttr struct {
	key string
	val string
}

type xmlElem struct {
	name     string
	attrs    []xmlAttr
	children []*xmlElem
	text     string
}

func elemToValue(el *xmlElem) value.Value {
	obj := value.NewObject()
	for _, a := range el.attrs {
		obj.Set(a.key, value.String(a.val))
	}
	// Group children by tag to detect repeated siblings.
	order := make([]string, 0, len(el.children))
	groups := make(map[string][]value.Value)
	for _, c := range el.children {
		if _, seen := groups[c.name]; !seen {
			order = append(order, c.name)
		}
		groups[c.name] = append(groups[c.name], elemToValue(c))
	}
	for _, name := range order {
		vals := groups[name]
		if len(vals) == 1 {
			obj.Set(name, vals[0])
		} else {
			obj.Set(name, value.Array(vals))
		}
	}
	if text := strings.TrimSpace(el.text); text != "" {
		obj.Set("#text", value.String(text))
	}
	return value.FromObject(obj)
}
