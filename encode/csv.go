package encode

import (
	"strconv"
	"strings"

	"github.com/reoring/llmshape/errs"
	"github.com/reoring/llmshape/value"
)

// CSVEncoder emits CSV (Delimiter ',') or, with Delimiter '\t', TSV. The
// root must be an Array of Objects (preferred) or an Array of Arrays;
// anything else is NotTabularError (spec §4.3).
type CSVEncoder struct {
	Delimiter byte
}

func (e CSVEncoder) FormatName() string {
	if e.Delimiter == '\t' {
		return "tsv"
	}
	return "csv"
}

func (e CSVEncoder) Encode(v value.Value) (string, *Metadata, error) {
	if v.Kind() != value.KindArray {
		return "", nil, &errs.NotTabularError{Encoder: e.FormatName()}
	}
	items := v.Items()
	if len(items) == 0 {
		return "", &Metadata{}, nil
	}
	if allObjects(items) {
		return e.encodeObjectRows(items)
	}
	if allArrays(items) {
		return e.encodeArrayRows(items)
	}
	return "", nil, &errs.NotTabularError{Encoder: e.FormatName()}
}

func allObjects(items []value.Value) bool {
	for _, it := range items {
		if it.Kind() != value.KindObject {
			return false
		}
	}
	return true
}

func allArrays(items []value.Value) bool {
	for _, it := range items {
		if it.Kind() != value.KindArray {
			return false
		}
	}
	return true
}

func (e CSVEncoder) encodeObjectRows(items []value.Value) (string, *Metadata, error) {
	var header []string
	seen := map[string]bool{}
	for _, it := range items {
		it.Obj().Range(func(key string, _ value.Value) bool {
			if !seen[key] {
				seen[key] = true
				header = append(header, key)
			}
			return true
		})
	}
	md := &Metadata{}
	var b strings.Builder
	writeRow(&b, header, e.Delimiter)
	for _, it := range items {
		row := make([]string, len(header))
		for i, key := range header {
			if child, ok := it.Obj().Get(key); ok {
				row[i] = cellString(child, e.FormatName(), md)
			}
		}
		writeRow(&b, row, e.Delimiter)
	}
	return strings.TrimSuffix(b.String(), "\n"), md, nil
}

func (e CSVEncoder) encodeArrayRows(items []value.Value) (string, *Metadata, error) {
	md := &Metadata{}
	var b strings.Builder
	for _, it := range items {
		elems := it.Items()
		row := make([]string, len(elems))
		for i, c := range elems {
			row[i] = cellString(c, e.FormatName(), md)
		}
		writeRow(&b, row, e.Delimiter)
	}
	return strings.TrimSuffix(b.String(), "\n"), md, nil
}

func cellString(v value.Value, encoderName string, md *Metadata) string {
	switch v.Kind() {
	case value.KindNull:
		return ""
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
		return v.Str()
	default:
		md.Warnings = append(md.Warnings, encoderName+": stringified non-primitive cell via compact JSON")
		return fallbackStringify(v)
	}
}

func writeRow(b *strings.Builder, cells []string, delim byte) {
	for i, c := range cells {
		if i > 0 {
			b.WriteByte(delim)
		}
		if delim == '\t' {
			b.WriteString(escapeTSVCell(c))
		} else {
			b.WriteString(escapeCSVCell(c, delim))
		}
	}
	b.WriteByte('\n')
}

// escapeCSVCell quotes per RFC 4180: quoted iff the cell contains the
// delimiter, '"', '\r' or '\n'; embedded '"' is doubled.
func escapeCSVCell(s string, delim byte) string {
	if strings.ContainsRune(s, rune(delim)) || strings.ContainsAny(s, "\"\r\n") {
		return `"` + strings.ReplaceAll(s, `"`, `""`) + `"`
	}
	return s
}

// escapeTSVCell replaces literal tabs and newlines with the two-character
// escapes \t and \n; no quoting mechanism is used (spec §4.3).
func escapeTSVCell(s string) string {
	s = strings.ReplaceAll(s, "\t", "\\t")
	s = strings.ReplaceAll(s, "\r\n", "\\n")
	s = strings.ReplaceAll(s, "\n", "\\n")
	s = strings.ReplaceAll(s, "\r", "\\n")
	return s
}
