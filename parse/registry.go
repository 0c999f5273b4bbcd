// Package parse lifts bytes in JSON, YAML, XML, CSV or TSV into a
// value.Value, plus format auto-detection (spec §4.1).
package parse

import (
	"bytes"
	"path/filepath"
	"strings"
	"unicode"

	"github.com/reoring/llmshape/value"
)

// Parser lifts bytes into a Value and reports its own format tag.
type Parser interface {
	Parse(data []byte) (value.Value, error)
	FormatName() string
}

// Registry maps a format tag to a Parser.
var Registry = map[string]Parser{
	"json": JSONParser{},
	"yaml": YAMLParser{},
	"yml":  YAMLParser{},
	"xml":  XMLParser{},
	"csv":  CSVParser{Delimiter: ','},
	"tsv":  CSVParser{Delimiter: '\t'},
}

// extByFormat maps a recognized filename extension to a format tag.
var extByFormat = map[string]string{
	".json": "json",
	".yaml": "yaml",
	".yml":  "yml",
	".xml":  "xml",
	".csv":  "csv",
	".tsv":  "tsv",
}

// Lookup resolves a format tag (case-insensitive) to a Parser.
func Lookup(tag string) (Parser, bool) {
	p, ok := Registry[strings.ToLower(tag)]
	return p, ok
}

// Detect auto-detects the input format per spec §4.1. filename may be
// empty; when non-empty and its extension is recognized, the extension
// wins outright.
func Detect(data []byte, filename string) string {
	if filename != "" {
		ext := strings.ToLower(filepath.Ext(filename))
		if tag, ok := extByFormat[ext]; ok {
			return tag
		}
	}

	trimmed := skipLeadingWhitespace(data)
	if len(trimmed) > 0 {
		switch trimmed[0] {
		case '{', '[':
			return "json"
		case '<':
			return "xml"
		}
	}
	if bytes.HasPrefix(trimmed, []byte("<?xml")) {
		return "xml"
	}

	if tag := detectDelimited(data); tag != "" {
		return tag
	}

	return "yaml" // fallback: superset of JSON, tolerates indented text
}

func skipLeadingWhitespace(data []byte) []byte {
	i := 0
	for i < len(data) && unicode.IsSpace(rune(data[i])) {
		i++
	}
	return data[i:]
}

// detectDelimited implements the TSV/CSV heuristic: the first line
// contains the delimiter and every subsequent non-empty line has the same
// delimiter count, with at least two lines total.
func detectDelimited(data []byte) string {
	lines := splitLines(string(data))
	nonEmpty := make([]string, 0, len(lines))
	for _, l := range lines {
		if strings.TrimSpace(l) != "" {
			nonEmpty = append(nonEmpty, l)
		}
	}
	if len(nonEmpty) < 2 {
		return ""
	}
	if tag := detectWithDelimiter(nonEmpty, '\t', "tsv"); tag != "" {
		return tag
	}
	if tag := detectWithDelimiter(nonEmpty, ',', "csv"); tag != "" {
		return tag
	}
	return ""
}

func detectWithDelimiter(lines []string, delim byte, tag string) string {
	first := strings.Count(lines[0], string(delim))
	if first == 0 {
		return ""
	}
	for _, l := range lines[1:] {
		if strings.Count(l, string(delim)) != first {
			return ""
		}
	}
	return tag
}

func splitLines(s string) []string {
	s = strings.ReplaceAll(s, "\r\n", "\n")
	return strings.Split(s, "\n")
}
