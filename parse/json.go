package parse

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"strconv"

	gojson "github.com/goccy/go-json"

	"github.com/reoring/llmshape/errs"
	"github.com/reoring/llmshape/value"
)

// JSONParser lifts RFC 8259 JSON bytes into a Value. Object key order is
// the order of first occurrence; a later duplicate key replaces the value
// but keeps the earlier key's position.
type JSONParser struct{}

func (JSONParser) FormatName() string { return "json" }

func (p JSONParser) Parse(data []byte) (value.Value, error) {
	dec := gojson.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	v, err := parseJSONValue(dec)
	if err != nil {
		return value.Null(), &errs.ParseError{Format: "json", ByteOffset: dec.InputOffset(), Message: err.Error()}
	}
	// Reject trailing garbage after the first value.
	if _, terr := dec.Token(); !errors.Is(terr, io.EOF) {
		return value.Null(), &errs.ParseError{Format: "json", ByteOffset: dec.InputOffset(), Message: "trailing data after top-level value"}
	}
	return v, nil
}

func parseJSONValue(dec *gojson.Decoder) (value.Value, error) {
	tok, err := dec.Token()
	if err != nil {
		return value.Null(), err
	}
	return parseJSONToken(dec, tok)
}

func parseJSONToken(dec *gojson.Decoder, tok gojson.Token) (value.Value, error) {
	switch t := tok.(type) {
	case gojson.Delim:
		switch t {
		case '{':
			return parseJSONObject(dec)
		case '[':
			return parseJSONArray(dec)
		default:
			return value.Null(), fmt.Errorf("unexpected delimiter %q", t)
		}
	case nil:
		return value.Null(), nil
	case bool:
		return value.Bool(t), nil
	case gojson.Number:
		return numberToValue(t)
	case string:
		return value.String(t), nil
	default:
		return value.Null(), fmt.Errorf("unexpected token %T", t)
	}
}

func numberToValue(n gojson.Number) (value.Value, error) {
	s := n.String()
	if i, err := strconv.ParseInt(s, 10, 64); err == nil {
		return value.Int(i), nil
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return value.Null(), fmt.Errorf("invalid number %q: %w", s, err)
	}
	return value.Float(f), nil
}

func parseJSONObject(dec *gojson.Decoder) (value.Value, error) {
	obj := value.NewObject()
	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return value.Null(), err
		}
		key, ok := keyTok.(string)
		if !ok {
			return value.Null(), fmt.Errorf("expected object key, got %T", keyTok)
		}
		val, err := parseJSONValue(dec)
		if err != nil {
			return value.Null(), err
		}
		obj.Set(key, val) // last wins, original position preserved
	}
	if _, err := dec.Token(); err != nil { // consume '}'
		return value.Null(), err
	}
	return value.FromObject(obj), nil
}

func parseJSONArray(dec *gojson.Decoder) (value.Value, error) {
	var elems []value.Value
	for dec.More() {
		val, err := parseJSONValue(dec)
		if err != nil {
			return value.Null(), err
		}
		elems = append(elems, val)
	}
	if _, err := dec.Token(); err != nil { // consume ']'
		return value.Null(), err
	}
	return value.Array(elems), nil
}
