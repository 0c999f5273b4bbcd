package encode

import (
	"strings"

	"github.com/reoring/llmshape/value"
)

// Metadata accompanies a successful Encode call. Warnings records any
// fallback-stringification events (spec §4.3 preamble): "if a format
// cannot faithfully represent a Value ... the encoder stringifies the
// offender using the compact-JSON encoder and records a warning."
type Metadata struct {
	Warnings []string
}

// Encoder turns a Value into text. Encoders are total: no encoder panics
// on any legal Value.
type Encoder interface {
	Encode(v value.Value) (string, *Metadata, error)
	FormatName() string
}

// Registry maps a format tag to an Encoder.
var Registry = map[string]Encoder{
	"json": JSONEncoder{},
	"yaml": YAMLEncoder{},
	"yml":  YAMLEncoder{},
	"csv":  CSVEncoder{Delimiter: ','},
	"tsv":  CSVEncoder{Delimiter: '\t'},
	"toon": TOONEncoder{},
}

// Lookup resolves a format tag (case-insensitive) to an Encoder.
func Lookup(tag string) (Encoder, bool) {
	e, ok := Registry[strings.ToLower(tag)]
	return e, ok
}

// fallbackStringify renders v with the compact JSON encoder, for
// encoders whose target format cannot faithfully represent v.
func fallbackStringify(v value.Value) string {
	s, _, _ := JSONEncoder{}.Encode(v)
	return s
}
