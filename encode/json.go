// Package encode turns a value.Value into text: compact JSON, YAML, TSV,
// CSV, and the TOON tabular notation (spec §4.3).
package encode

import (
	"strconv"
	"strings"

	"github.com/reoring/llmshape/value"
)

// JSONEncoder emits RFC 8259 JSON with no whitespace. Object keys are
// emitted in insertion order.
type JSONEncoder struct{}

func (JSONEncoder) FormatName() string { return "json" }

func (e JSONEncoder) Encode(v value.Value) (string, *Metadata, error) {
	var b strings.Builder
	b.Grow(estimateJSONSize(v))
	writeJSON(&b, v)
	return b.String(), &Metadata{}, nil
}

func estimateJSONSize(v value.Value) int {
	switch v.Kind() {
	case value.KindString:
		return len(v.Str()) + 2
	case value.KindArray:
		return len(v.Items()) * 8
	case value.KindObject:
		return v.Obj().Len() * 16
	default:
		return 8
	}
}

func writeJSON(b *strings.Builder, v value.Value) {
	switch v.Kind() {
	case value.KindNull:
		b.WriteString("null")
	case value.KindBool:
		if v.Bool() {
			b.WriteString("true")
		} else {
			b.WriteString("false")
		}
	case value.KindInt:
		b.WriteString(strconv.FormatInt(v.Int(), 10))
	case value.KindFloat:
		b.WriteString(formatFloat(v.Float()))
	case value.KindString:
		writeJSONString(b, v.Str())
	case value.KindArray:
		b.WriteByte('[')
		for i, elem := range v.Items() {
			if i > 0 {
				b.WriteByte(',')
			}
			writeJSON(b, elem)
		}
		b.WriteByte(']')
	case value.KindObject:
		b.WriteByte('{')
		first := true
		v.Obj().Range(func(key string, child value.Value) bool {
			if !first {
				b.WriteByte(',')
			}
			first = false
			writeJSONString(b, key)
			b.WriteByte(':')
			writeJSON(b, child)
			return true
		})
		b.WriteByte('}')
	}
}

// formatFloat renders a float using the shortest round-trip decimal form
// (strconv's 'g' with bit size 64 is Go's Ryu-class shortest formatter),
// always including a decimal point or exponent so the output is
// unambiguously a float when re-parsed.
func formatFloat(f float64) string {
	s := strconv.FormatFloat(f, 'g', -1, 64)
	if !strings.ContainsAny(s, ".eE") && !strings.Contains(s, "Inf") && !strings.Contains(s, "NaN") {
		s += ".0"
	}
	return s
}

func writeJSONString(b *strings.Builder, s string) {
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
			if r < 0x20 {
				b.WriteString("\\u")
				const hex = "0123456789abcdef"
				b.WriteByte(hex[(r>>12)&0xf])
				b.WriteByte(hex[(r>>8)&0xf])
				b.WriteByte(hex[(r>>4)&0xf])
				b.WriteByte(hex[r&0xf])
			} else {
				b.WriteRune(r)
			}
		}
	}
	b.WriteByte('"')
}
