package shape

import (
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

func TestClassifyUniformArray(t *testing.T) {
	v := mustParseJSON(t, `[{"id":1,"name":"A"},{"id":2,"name":"B"}]`)
	r := Analyze(v)
	if r.Tag != TagUniformArray {
		t.Fatalf("expected UniformArray, got %s", r.Tag)
	}
	if Recommend(r) != "tsv" {
		t.Fatalf("expected tsv recommendation, got %s", Recommend(r))
	}
}

func TestClassifySparseArray(t *testing.T) {
	v := mustParseJSON(t, `[{"id":1,"name":"A"},{"id":2}]`)
	r := Analyze(v)
	if r.Tag != TagSparseArray {
		t.Fatalf("expected SparseArray, got %s", r.Tag)
	}
	if Recommend(r) != "toon" {
		t.Fatalf("expected toon recommendation, got %s", Recommend(r))
	}
}

func TestClassifyTabularData(t *testing.T) {
	v := mustParseJSON(t, `[[1,2,3],[4,5,6]]`)
	r := Analyze(v)
	if r.Tag != TagTabularData {
		t.Fatalf("expected TabularData, got %s", r.Tag)
	}
}

func TestClassifyFlatObject(t *testing.T) {
	v := mustParseJSON(t, `{"a":1,"b":"x"}`)
	r := Analyze(v)
	if r.Tag != TagFlatObject {
		t.Fatalf("expected FlatObject, got %s", r.Tag)
	}
	if Recommend(r) != "yaml" {
		t.Fatalf("expected yaml recommendation, got %s", Recommend(r))
	}
}

func TestClassifyNestedObjectByDepth(t *testing.T) {
	shallow := Analyze(mustParseJSON(t, `{"a":{"b":1}}`))
	if Recommend(shallow) != "yaml" {
		t.Fatalf("expected yaml for shallow nesting, got %s", Recommend(shallow))
	}
	deep := Analyze(mustParseJSON(t, `{"a":{"b":{"c":{"d":1}}}}`))
	if Recommend(deep) != "json" {
		t.Fatalf("expected json for deep nesting, got %s", Recommend(deep))
	}
}

func TestClassifyEmpty(t *testing.T) {
	for _, s := range []string{`null`, `{}`, `[]`} {
		r := Analyze(mustParseJSON(t, s))
		if r.Tag != TagEmpty {
			t.Fatalf("expected Empty for %q, got %s", s, r.Tag)
		}
	}
}

func TestMaxDepthExact(t *testing.T) {
	r := Analyze(mustParseJSON(t, `{"a":{"b":{"c":1}}}`))
	if r.MaxDepth != 3 {
		t.Fatalf("expected max depth 3, got %d", r.MaxDepth)
	}
}
