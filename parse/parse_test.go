package parse

import (
	"testing"

	"github.com/reoring/llmshape/value"
)

func TestJSONParserDistinguishesIntFromFloat(t *testing.T) {
	v, err := JSONParser{}.Parse([]byte(`{"a":1,"b":1.5}`))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	a, _ := v.Obj().Get("a")
	b, _ := v.Obj().Get("b")
	if a.Kind() != value.KindInt || a.Int() != 1 {
		t.Fatalf("expected a to be Int(1), got %v", a)
	}
	if b.Kind() != value.KindFloat || b.Float() != 1.5 {
		t.Fatalf("expected b to be Float(1.5), got %v", b)
	}
}

func TestJSONParserDuplicateKeyLastWinsOriginalPosition(t *testing.T) {
	v, err := JSONParser{}.Parse([]byte(`{"a":1,"b":2,"a":3}`))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	keys := v.Obj().Keys()
	if len(keys) != 2 || keys[0] != "a" || keys[1] != "b" {
		t.Fatalf("expected order [a b], got %v", keys)
	}
	a, _ := v.Obj().Get("a")
	if a.Int() != 3 {
		t.Fatalf("expected last-wins value 3, got %d", a.Int())
	}
}

func TestJSONParserRejectsTrailingGarbage(t *testing.T) {
	if _, err := (JSONParser{}).Parse([]byte(`{"a":1} garbage`)); err == nil {
		t.Fatalf("expected trailing-garbage error")
	}
}

func TestYAMLParserCoreSchemaScalars(t *testing.T) {
	v, err := YAMLParser{}.Parse([]byte("a: true\nb: Null\nc: 1\nd: 1.5\ne: yes\n"))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	a, _ := v.Obj().Get("a")
	b, _ := v.Obj().Get("b")
	c, _ := v.Obj().Get("c")
	d, _ := v.Obj().Get("d")
	e, _ := v.Obj().Get("e")
	if a.Kind() != value.KindBool || !a.Bool() {
		t.Fatalf("a: expected Bool(true), got %v", a)
	}
	if b.Kind() != value.KindNull {
		t.Fatalf("b: expected Null, got %v", b)
	}
	if c.Kind() != value.KindInt || c.Int() != 1 {
		t.Fatalf("c: expected Int(1), got %v", c)
	}
	if d.Kind() != value.KindFloat || d.Float() != 1.5 {
		t.Fatalf("d: expected Float(1.5), got %v", d)
	}
	// "yes" is not a core-schema keyword (1.2), so it stays a string.
	if e.Kind() != value.KindString || e.Str() != "yes" {
		t.Fatalf(`e: expected String("yes"), got %v`, e)
	}
}

func TestXMLParserAttributesAndRepeatedSiblings(t *testing.T) {
	v, err := XMLParser{}.Parse([]byte(`<root id="1"><item>a</item><item>b</item></root>`))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	id, ok := v.Obj().Get("@id")
	if !ok || id.Str() != "1" {
		t.Fatalf("expected @id=1, got %v", id)
	}
	items, ok := v.Obj().Get("item")
	if !ok || items.Kind() != value.KindArray || len(items.Items()) != 2 {
		t.Fatalf("expected item to collapse into a 2-element array, got %v", items)
	}
}

func TestCSVParserHeaderRow(t *testing.T) {
	v, err := CSVParser{Delimiter: ','}.Parse([]byte("a,b\n1,2\n3,4\n"))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	items := v.Items()
	if len(items) != 2 {
		t.Fatalf("expected 2 rows, got %d", len(items))
	}
	a, _ := items[0].Obj().Get("a")
	if a.Str() != "1" {
		t.Fatalf("expected a=1, got %v", a)
	}
}

func TestDetectPrefersExtension(t *testing.T) {
	if got := Detect([]byte("1,2\n3,4\n"), "data.json"); got != "json" {
		t.Fatalf("expected extension to win, got %s", got)
	}
}

func TestDetectSniffsJSON(t *testing.T) {
	if got := Detect([]byte(`  {"a":1}`), ""); got != "json" {
		t.Fatalf("expected json, got %s", got)
	}
}

func TestDetectSniffsXML(t *testing.T) {
	if got := Detect([]byte(`<?xml version="1.0"?><a/>`), ""); got != "xml" {
		t.Fatalf("expected xml, got %s", got)
	}
}

func TestDetectFallsBackToYAML(t *testing.T) {
	if got := Detect([]byte("key: value\nlist:\n  - 1\n  - 2\n"), ""); got != "yaml" {
		t.Fatalf("expected yaml fallback, got %s", got)
	}
}

func TestDetectSniffsTSVOverCSV(t *testing.T) {
	if got := Detect([]byte("a\tb\n1\t2\n3\t4\n"), ""); got != "tsv" {
		t.Fatalf("expected tsv, got %s", got)
	}
}
