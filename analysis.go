package llmshape

import (
	"github.com/reoring/llmshape/encode"
	"github.com/reoring/llmshape/errs"
	"github.com/reoring/llmshape/parse"
	"github.com/reoring/llmshape/shape"
	"github.com/reoring/llmshape/tokens"
	"github.com/reoring/llmshape/value"
)

// ShapeTag mirrors shape.Tag at the public API boundary.
type ShapeTag = shape.Tag

const (
	TagUniformArray = shape.TagUniformArray
	TagSparseArray  = shape.TagSparseArray
	TagTabularData  = shape.TagTabularData
	TagFlatObject   = shape.TagFlatObject
	TagNestedObject = shape.TagNestedObject
	TagPrimitive    = shape.TagPrimitive
	TagEmpty        = shape.TagEmpty
	TagMixed        = shape.TagMixed
)

// EncoderOutcome is one encoder's result in an AnalysisReport, keyed by
// format tag in PerEncoder. A failed encoder (e.g. TSV on a non-tabular
// Value) has EncodedTokens 0 and a non-empty FailureReason rather than
// propagating as an error — analyze tolerates per-encoder failure.
type EncoderOutcome struct {
	EncodedTokens  int
	SavingsVsInput float64
	FailureReason  string
}

// AnalysisReport is the result of Analyze (spec §4.6).
type AnalysisReport struct {
	Shape             ShapeTag
	RecommendedEncoder string
	PerEncoder        map[string]EncoderOutcome
	ArrayLen          int
	FieldCount        int
	MaxDepth          int
	SampleKeys        []string

	// Surfaces the raw input size alongside the per-encoder comparison.
	InputBytes  int
	InputTokens int
}

// Analyze parses data once, classifies the resulting Value, encodes it
// with every registered encoder, and measures estimated tokens on each
// output (spec §4.6).
func Analyze(data []byte, inputFormat string) (AnalysisReport, error) {
	v, _, err := parseForAnalysis(data, inputFormat)
	if err != nil {
		return AnalysisReport{}, err
	}

	report := shape.Analyze(v)
	recommended := shape.Recommend(report)

	perEncoder := map[string]EncoderOutcome{}
	inputTokens := tokens.Estimate(string(data))
	for name, enc := range encode.Registry {
		out, _, err := enc.Encode(v)
		if err != nil {
			perEncoder[name] = EncoderOutcome{FailureReason: err.Error()}
			continue
		}
		encTokens := tokens.Estimate(out)
		perEncoder[name] = EncoderOutcome{
			EncodedTokens:  encTokens,
			SavingsVsInput: tokens.Savings(string(data), out),
		}
	}

	return AnalysisReport{
		Shape:              report.Tag,
		RecommendedEncoder: recommended,
		PerEncoder:         perEncoder,
		ArrayLen:           report.ArrayLen,
		FieldCount:         report.FieldCount,
		MaxDepth:           report.MaxDepth,
		SampleKeys:         report.SampleKeys,
		InputBytes:         len(data),
		InputTokens:        inputTokens,
	}, nil
}

// DetectShape parses data and returns the analyzer's classification
// without encoding anything (spec §6).
func DetectShape(data []byte, inputFormat string) (ShapeTag, error) {
	v, _, err := parseForAnalysis(data, inputFormat)
	if err != nil {
		return shape.TagMixed, err
	}
	return shape.Analyze(v).Tag, nil
}

func parseForAnalysis(data []byte, inputFormat string) (value.Value, string, error) {
	tag := inputFormat
	if tag == "" {
		tag = parse.Detect(data, "")
	}
	parser, ok := parse.Lookup(tag)
	if !ok {
		return value.Null(), tag, &errs.UnknownFormatError{Tag: tag}
	}
	v, err := parser.Parse(data)
	if err != nil {
		return value.Null(), tag, &errs.PipelineError{Stage: errs.StageParse, Err: err}
	}
	return v, tag, nil
}

// recommendedEncoderFor is Convert's "no OutputFormat" fallback: run the
// shape analyzer and use its table lookup.
func recommendedEncoderFor(v value.Value) string {
	return shape.Recommend(shape.Analyze(v))
}
