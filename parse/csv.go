package parse

import (
	"encoding/csv"
	"fmt"
	"strings"

	"github.com/reoring/llmshape/errs"
	"github.com/reoring/llmshape/value"
)

// CSVOptions configures the CSV/TSV parser.
type CSVOptions struct {
	// NoHeader treats row 0 as data and synthesizes col0..colN keys
	// instead of using it as the header row.
	NoHeader bool
	// Delimiter overrides the format's default separator byte. Zero value
	// means "use the format default" (',' for CSV, '\t' for TSV).
	Delimiter rune
}

// CSVParser lifts CSV (or, with Delimiter set to '\t', TSV) into a Value.
// All cell values are Strings; RFC 4180 quoting is honored by
// encoding/csv, including embedded newlines inside quoted fields.
type CSVParser struct {
	Delimiter rune // ',' for CSV, '\t' for TSV
	Options   CSVOptions
}

func (p CSVParser) FormatName() string {
	if p.Delimiter == '\t' {
		return "tsv"
	}
	return "csv"
}

func (p CSVParser) Parse(data []byte) (value.Value, error) {
	delim := p.Delimiter
	if p.Options.Delimiter != 0 {
		delim = p.Options.Delimiter
	}
	if delim == 0 {
		delim = ','
	}
	r := csv.NewReader(strings.NewReader(string(data)))
	r.Comma = delim
	r.LazyQuotes = false
	rows, err := r.ReadAll()
	if err != nil {
		return value.Null(), &errs.ParseError{Format: p.FormatName(), ByteOffset: -1, Message: err.Error()}
	}
	if len(rows) == 0 {
		return value.Array(nil), nil
	}

	var header []string
	dataRows := rows
	if p.Options.NoHeader {
		header = make([]string, len(rows[0]))
		for i := range rows[0] {
			header[i] = fmt.Sprintf("col%d", i)
		}
	} else {
		header = rows[0]
		dataRows = rows[1:]
	}

	elems := make([]value.Value, 0, len(dataRows))
	for _, row := range dataRows {
		obj := value.NewObject()
		for i, col := range header {
			if i < len(row) {
				obj.Set(col, value.String(row[i]))
			} else {
				obj.Set(col, value.String(""))
			}
		}
		elems = append(elems, value.FromObject(obj))
	}
	return value.Array(elems), nil
}
