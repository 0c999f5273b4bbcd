package llmshape

import (
	"errors"
	"testing"
)

func TestS1TOONTabular(t *testing.T) {
	pipeline, err := NewPipelineBuilder().Input("json").Output("toon").Build()
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	out, err := pipeline.Run([]byte(`{"users":[{"id":1,"name":"Alice","role":"admin"},{"id":2,"name":"Bob","role":"user"}]}`))
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	want := "users[2]{id,name,role}:\n  1,Alice,admin\n  2,Bob,user"
	if out != want {
		t.Fatalf("got:\n%s\nwant:\n%s", out, want)
	}
}

func TestS3DepthLimitPlaceholder(t *testing.T) {
	out, err := Convert([]byte(`{"a":{"b":{"c":{"d":1}}}}`), ConvertOptions{
		InputFormat:  "json",
		OutputFormat: "json",
		Filters: []FilterSpec{
			{MaxDepth: &MaxDepthSpec{Depth: 2}},
		},
	})
	if err != nil {
		t.Fatalf("convert: %v", err)
	}
	want := `{"a":{"b":"{…1 keys}"}}`
	if out != want {
		t.Fatalf("got %q want %q", out, want)
	}
}

func TestS4PathSelection(t *testing.T) {
	out, err := Convert([]byte(`{"users":[{"id":1,"name":"A"},{"id":2,"name":"B"}],"meta":{"page":1}}`), ConvertOptions{
		InputFormat:  "json",
		OutputFormat: "json",
		Filters: []FilterSpec{
			{Include: &IncludeSpec{Path: "users[*].name"}},
		},
	})
	if err != nil {
		t.Fatalf("convert: %v", err)
	}
	if out != `["A","B"]` {
		t.Fatalf(`got %q want ["A","B"]`, out)
	}
}

func TestS5CSVQuoting(t *testing.T) {
	out, err := Convert([]byte(`[{"a":"hello, world","b":"line1\nline2"}]`), ConvertOptions{
		InputFormat:  "json",
		OutputFormat: "csv",
	})
	if err != nil {
		t.Fatalf("convert: %v", err)
	}
	want := "a,b\n\"hello, world\",\"line1\nline2\""
	if out != want {
		t.Fatalf("got:\n%q\nwant:\n%q", out, want)
	}
}

func TestS6AutoDetectYAMLFallback(t *testing.T) {
	out, err := Convert([]byte("key: value\nlist:\n  - 1\n  - 2\n"), ConvertOptions{
		OutputFormat: "json",
	})
	if err != nil {
		t.Fatalf("convert: %v", err)
	}
	if out != `{"key":"value","list":[1,2]}` {
		t.Fatalf("got %q", out)
	}
}

func TestBuildRejectsUnknownFormat(t *testing.T) {
	_, err := NewPipelineBuilder().Input("bogus").Output("json").Build()
	var unknown *UnknownFormatError
	if !errors.As(err, &unknown) {
		t.Fatalf("expected UnknownFormatError, got %v", err)
	}
}

func TestRunWrapsStageInPipelineError(t *testing.T) {
	pipeline, err := NewPipelineBuilder().Input("json").Output("csv").Build()
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	_, err = pipeline.Run([]byte(`{"a":1}`))
	var pe *PipelineError
	if !errors.As(err, &pe) {
		t.Fatalf("expected PipelineError, got %v", err)
	}
	if pe.Stage != StageEncode {
		t.Fatalf("expected encode-stage error, got %s", pe.Stage)
	}
}

func TestAnalyzeRecommendationMatchesDetectShape(t *testing.T) {
	data := []byte(`[{"id":1,"name":"A"},{"id":2,"name":"B"}]`)
	report, err := Analyze(data, "json")
	if err != nil {
		t.Fatalf("analyze: %v", err)
	}
	tag, err := DetectShape(data, "json")
	if err != nil {
		t.Fatalf("detect shape: %v", err)
	}
	if report.Shape != tag {
		t.Fatalf("analyze shape %s != detect_shape %s", report.Shape, tag)
	}
	if report.RecommendedEncoder != "tsv" {
		t.Fatalf("expected tsv recommendation, got %s", report.RecommendedEncoder)
	}
}

func TestAnalyzeReportsFailedEncoderWithoutError(t *testing.T) {
	report, err := Analyze([]byte(`{"a":1}`), "json")
	if err != nil {
		t.Fatalf("analyze: %v", err)
	}
	outcome, ok := report.PerEncoder["csv"]
	if !ok {
		t.Fatalf("expected a csv outcome in the report")
	}
	if outcome.FailureReason == "" {
		t.Fatalf("expected csv to fail on a non-tabular root")
	}
}

func TestConvertAutoRecommendsOutputFormat(t *testing.T) {
	out, err := Convert([]byte(`{"a":1,"b":"x"}`), ConvertOptions{InputFormat: "json"})
	if err != nil {
		t.Fatalf("convert: %v", err)
	}
	if out != "a: 1\nb: x" {
		t.Fatalf("expected yaml recommendation output, got %q", out)
	}
}

func TestDescribeNamesWiredComponents(t *testing.T) {
	pipeline, err := NewPipelineBuilder().
		Input("json").
		Output("toon").
		Filter(FilterSpec{MaxDepth: &MaxDepthSpec{Depth: 1}}).
		Build()
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	got := pipeline.Describe()
	want := "json -> filter -> toon"
	if got != want {
		t.Fatalf("got %q want %q", got, want)
	}
}
