package encode

import (
	"strings"
	"testing"

	"github.com/reoring/llmshape/parse"
	"github.com/reoring/llmshape/value"
)

func mustParseJSON(t *testing.T, s string) value.Value {
	t.Helper()
	v, err := parse.JSONParser{}.Parse([]byte(s))
	if err != nil {
		t.Fatalf("parse %q: %v", s, err)
	}
	return v
}

func TestJSONEncodePreservesOrderAndCompact(t *testing.T) {
	v := mustParseJSON(t, `{"b":1,"a":2}`)
	out, _, err := JSONEncoder{}.Encode(v)
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	if out != `{"b":1,"a":2}` {
		t.Fatalf("expected insertion-order compact JSON, got %q", out)
	}
}

func TestJSONRoundTrip(t *testing.T) {
	v := mustParseJSON(t, `{"a":1,"b":1.5,"c":"x","d":[1,2],"e":null,"f":true}`)
	out, _, err := JSONEncoder{}.Encode(v)
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	roundTripped, err := parse.JSONParser{}.Parse([]byte(out))
	if err != nil {
		t.Fatalf("re-parse: %v", err)
	}
	if !value.Equal(v, roundTripped) {
		t.Fatalf("round trip mismatch: %v != %v", v, roundTripped)
	}
}

func TestTOONTabularArray(t *testing.T) {
	v := mustParseJSON(t, `{"users":[{"id":1,"name":"Alice","role":"admin"},{"id":2,"name":"Bob","role":"user"}]}`)
	out, _, err := TOONEncoder{}.Encode(v)
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	want := "users[2]{id,name,role}:\n  1,Alice,admin\n  2,Bob,user"
	if out != want {
		t.Fatalf("got:\n%s\nwant:\n%s", out, want)
	}
}

func TestTOONNonTabularBecauseOfNestedValue(t *testing.T) {
	v := mustParseJSON(t, `[{"id":1,"tags":["a"]},{"id":2,"tags":["b"]}]`)
	out, _, err := TOONEncoder{}.Encode(v)
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	if strings.Contains(out, "[2]{id,tags}:") {
		t.Fatalf("expected no tabular header for array with nested values, got:\n%s", out)
	}
}

func TestTOONEmptyArrayAndObject(t *testing.T) {
	out, _, err := TOONEncoder{}.Encode(mustParseJSON(t, `{"a":[],"b":{}}`))
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	if !strings.Contains(out, "a: []") || !strings.Contains(out, "b: {}") {
		t.Fatalf("expected empty placeholders, got:\n%s", out)
	}
}

func TestCSVQuoting(t *testing.T) {
	v := mustParseJSON(t, `[{"a":"hello, world","b":"line1\nline2"}]`)
	out, _, err := CSVEncoder{Delimiter: ','}.Encode(v)
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	want := "a,b\n\"hello, world\",\"line1\nline2\""
	if out != want {
		t.Fatalf("got:\n%q\nwant:\n%q", out, want)
	}
}

func TestCSVNotTabularOnNonArrayRoot(t *testing.T) {
	_, _, err := CSVEncoder{Delimiter: ','}.Encode(mustParseJSON(t, `{"a":1}`))
	if err == nil {
		t.Fatalf("expected NotTabularError for an Object root")
	}
}

func TestTSVEscapesTabsAndNewlines(t *testing.T) {
	v := mustParseJSON(t, `[{"a":"x\ty","b":"m\nn"}]`)
	out, _, err := CSVEncoder{Delimiter: '\t'}.Encode(v)
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	if !strings.Contains(out, `x\ty`) || !strings.Contains(out, `m\nn`) {
		t.Fatalf("expected escaped tab/newline, got %q", out)
	}
}

func TestYAMLQuotesAmbiguousScalars(t *testing.T) {
	v := mustParseJSON(t, `{"a":"true","b":"123","c":"plain"}`)
	out, _, err := YAMLEncoder{}.Encode(v)
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	if !strings.Contains(out, `a: "true"`) {
		t.Fatalf(`expected a to be quoted, got:\n%s`, out)
	}
	if !strings.Contains(out, `b: "123"`) {
		t.Fatalf(`expected b to be quoted, got:\n%s`, out)
	}
	if strings.Contains(out, `c: "plain"`) {
		t.Fatalf("expected c to stay unquoted, got:\n%s", out)
	}
}

func TestFallbackStringifyRecordsWarning(t *testing.T) {
	v := mustParseJSON(t, `[{"a":[1,2]}]`)
	_, md, err := CSVEncoder{Delimiter: ','}.Encode(v)
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	if len(md.Warnings) == 0 {
		t.Fatalf("expected a fallback-stringification warning")
	}
}
