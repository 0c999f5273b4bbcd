package encode

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/reoring/llmshape/value"
)

// TOONEncoder emits Token-Oriented Object Notation (spec §4.3): a
// line-oriented, indentation-based format whose headline feature is a
// single-header tabular row form for uniform arrays of primitive-valued
// objects. This is the hand-written centerpiece of the project; no
// third-party TOON implementation is wired in even though one is visible
// in the wild, because writing it is the reason the project exists.
type TOONEncoder struct{}

func (TOONEncoder) FormatName() string { return "toon" }

func (TOONEncoder) Encode(v value.Value) (string, *Metadata, error) {
	var b strings.Builder
	writeRoot(&b, v)
	return strings.TrimSuffix(b.String(), "\n"), &Metadata{}, nil
}

const indentUnit = "  "

// writeRoot handles the one asymmetry in the grammar: a root Object does
// not get its own "{k1,...}:" header — its fields are written directly
// at indent 0 (spec §4.3(6), "users[2]{id,name,role}:" with no enclosing
// "{users}:" line in S1). Every other Object, anywhere nested, gets the
// full "{k1,...}:" header treatment (§4.3(2)).
func writeRoot(b *strings.Builder, v value.Value) {
	if v.Kind() == value.KindObject && v.Obj().Len() > 0 {
		v.Obj().Range(func(key string, child value.Value) bool {
			writeNode(b, 0, key, child)
			return true
		})
		return
	}
	writeNode(b, 0, "", v)
}

// writeNode writes one node of the tree at the given indent level. key is
// "" for an unkeyed node (the root, or an array element).
func writeNode(b *strings.Builder, indent int, key string, v value.Value) {
	prefix := strings.Repeat(indentUnit, indent)
	switch v.Kind() {
	case value.KindArray:
		items := v.Items()
		if len(items) == 0 {
			writeLine(b, prefix, key, "[]")
			return
		}
		if tabularEligible(items) {
			writeTabularArray(b, indent, key, items)
			return
		}
		b.WriteString(prefix)
		b.WriteString(key)
		b.WriteString("[")
		b.WriteString(strconv.Itoa(len(items)))
		b.WriteString("]:\n")
		for _, elem := range items {
			writeNode(b, indent+1, "", elem)
		}
	case value.KindObject:
		if v.Obj().Len() == 0 {
			writeLine(b, prefix, key, "{}")
			return
		}
		if key != "" {
			b.WriteString(prefix)
			b.WriteString(key)
			b.WriteString(":\n")
			writeNode(b, indent+1, "", v)
			return
		}
		b.WriteString(prefix)
		b.WriteString("{")
		b.WriteString(strings.Join(v.Obj().Keys(), ","))
		b.WriteString("}:\n")
		v.Obj().Range(func(k string, child value.Value) bool {
			writeNode(b, indent+1, k, child)
			return true
		})
	default:
		writeLine(b, prefix, key, encodeScalar(v))
	}
}

func writeLine(b *strings.Builder, prefix, key, rendered string) {
	b.WriteString(prefix)
	if key != "" {
		b.WriteString(key)
		b.WriteString(": ")
	}
	b.WriteString(rendered)
	b.WriteByte('\n')
}

// tabularEligible implements spec §4.3(3): A is non-empty (checked by
// caller), every element is an Object, every element has the same key
// set in the same order, and every value in every element is primitive.
func tabularEligible(items []value.Value) bool {
	if len(items) == 0 {
		return false
	}
	if items[0].Kind() != value.KindObject {
		return false
	}
	header := items[0].Obj().Keys()
	for _, it := range items {
		if it.Kind() != value.KindObject {
			return false
		}
		keys := it.Obj().Keys()
		if len(keys) != len(header) {
			return false
		}
		for i, k := range keys {
			if k != header[i] {
				return false
			}
		}
		allPrimitive := true
		it.Obj().Range(func(_ string, child value.Value) bool {
			if !child.IsPrimitive() {
				allPrimitive = false
				return false
			}
			return true
		})
		if !allPrimitive {
			return false
		}
	}
	return true
}

func writeTabularArray(b *strings.Builder, indent int, key string, items []value.Value) {
	header := items[0].Obj().Keys()
	prefix := strings.Repeat(indentUnit, indent)
	b.WriteString(prefix)
	if key != "" {
		b.WriteString(key)
	}
	b.WriteString("[")
	b.WriteString(strconv.Itoa(len(items)))
	b.WriteString("]{")
	b.WriteString(strings.Join(header, ","))
	b.WriteString("}:\n")
	rowPrefix := strings.Repeat(indentUnit, indent+1)
	for _, it := range items {
		cells := make([]string, len(header))
		for i, k := range header {
			child, _ := it.Obj().Get(k)
			cells[i] = encodeScalar(child)
		}
		b.WriteString(rowPrefix)
		b.WriteString(strings.Join(cells, ","))
		b.WriteByte('\n')
	}
}

// encodeScalar renders a primitive value per spec §4.3(1).
func encodeScalar(v value.Value) string {
	switch v.Kind() {
	case value.KindNull:
		return "null"
	case value.KindBool:
		if v.Bool() {
			return "true"
		}
		return "false"
	case value.KindInt:
		return strconv.FormatInt(v.Int(), 10)
	case value.KindFloat:
		return formatFloat(v.Float())
	case value.KindString:
		return encodeTOONString(v.Str())
	default:
		return ""
	}
}

var toonNumberLike = regexp.MustCompile(`^[-+]?(\d+\.?\d*|\.\d+)([eE][-+]?\d+)?$`)

func encodeTOONString(s string) string {
	if requiresTOONQuoting(s) {
		return quoteTOONString(s)
	}
	return s
}

func requiresTOONQuoting(s string) bool {
	if s == "" {
		return false
	}
	if strings.ContainsAny(s, ",\t\n\r\"'") {
		return true
	}
	if strings.ContainsAny(s[:1], "{[\"'") {
		return true
	}
	switch s {
	case "true", "false", "null":
		return true
	}
	if toonNumberLike.MatchString(s) {
		return true
	}
	if strings.TrimSpace(s) != s {
		return true
	}
	return false
}

func quoteTOONString(s string) string {
	var b strings.Builder
	b.WriteByte('"')
	for _, r := range s {
		switch r {
		case '"':
			b.WriteString(`\"`)
		case '\\':
			b.WriteString(`\\`)
		case '\n':
			b.WriteString(`\n`)
		case '\r':
			b.WriteString(`\r`)
		case '\t':
			b.WriteString(`\t`)
		default:
			b.WriteRune(r)
		}
	}
	b.WriteByte('"')
	return b.String()
}
