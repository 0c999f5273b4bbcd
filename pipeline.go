// Package llmshape wires a parser, an ordered filter chain and an encoder
// into a single synchronous conversion, and exposes the shape analyzer and
// token estimator as standalone operations (spec §4.6, §6).
package llmshape

import (
	"strings"

	"github.com/reoring/llmshape/encode"
	"github.com/reoring/llmshape/errs"
	"github.com/reoring/llmshape/filter"
	"github.com/reoring/llmshape/parse"
)

// Re-exported error taxonomy: callers depend only on this package, never on
// the internal errs leaf package that parse/filter/encode share to avoid an
// import cycle with this one.
type (
	ParseError                = errs.ParseError
	InvalidPathError          = errs.InvalidPathError
	LimitExceededError        = errs.LimitExceededError
	NotTabularError           = errs.NotTabularError
	UnrepresentableValueError = errs.UnrepresentableValueError
	UnknownFormatError        = errs.UnknownFormatError
	PipelineError             = errs.PipelineError
	PipelineStage             = errs.PipelineStage
)

const (
	StageParse  = errs.StageParse
	StageFilter = errs.StageFilter
	StageEncode = errs.StageEncode
)

// Pipeline holds one parser, an ordered list of filters, and one encoder.
type Pipeline struct {
	parser  parse.Parser
	filters []filter.Filter
	encoder encode.Encoder
}

// Run executes parse, then the filter chain in order, then encode,
// wrapping any stage's error into a PipelineError tagged with the stage
// that produced it.
func (p *Pipeline) Run(data []byte) (string, error) {
	v, err := p.parser.Parse(data)
	if err != nil {
		return "", &errs.PipelineError{Stage: errs.StageParse, Err: err}
	}
	for _, f := range p.filters {
		v, err = f.Apply(v)
		if err != nil {
			return "", &errs.PipelineError{Stage: errs.StageFilter, Err: err}
		}
	}
	out, _, err := p.encoder.Encode(v)
	if err != nil {
		return "", &errs.PipelineError{Stage: errs.StageEncode, Err: err}
	}
	return out, nil
}

// Describe reports the parser, filter count and encoder wired into p. It
// is a diagnostic surface, used by tests, never by Run itself.
func (p *Pipeline) Describe() string {
	var b strings.Builder
	b.WriteString(p.parser.FormatName())
	b.WriteString(" -> ")
	b.WriteString(strings.Repeat("filter -> ", len(p.filters)))
	b.WriteString(p.encoder.FormatName())
	return b.String()
}

// PipelineBuilder constructs a Pipeline from format tags and filter
// descriptions, rejecting unknown tags up front so Run never fails lazily
// on a construction mistake.
type PipelineBuilder struct {
	inputTag  string
	outputTag string
	filters   []filter.Filter
	err       error
}

// NewPipelineBuilder starts a fluent builder.
func NewPipelineBuilder() *PipelineBuilder {
	return &PipelineBuilder{}
}

// Input pins the input format tag.
func (b *PipelineBuilder) Input(tag string) *PipelineBuilder {
	b.inputTag = tag
	return b
}

// Output pins the output format tag.
func (b *PipelineBuilder) Output(tag string) *PipelineBuilder {
	b.outputTag = tag
	return b
}

// Filter appends one compiled FilterSpec to the chain, in call order.
func (b *PipelineBuilder) Filter(spec FilterSpec) *PipelineBuilder {
	if b.err != nil {
		return b
	}
	f, err := spec.compile()
	if err != nil {
		b.err = err
		return b
	}
	b.filters = append(b.filters, f)
	return b
}

// Build validates both format tags and returns the assembled Pipeline.
func (b *PipelineBuilder) Build() (*Pipeline, error) {
	if b.err != nil {
		return nil, b.err
	}
	parser, ok := parse.Lookup(b.inputTag)
	if !ok {
		return nil, &errs.UnknownFormatError{Tag: b.inputTag}
	}
	enc, ok := encode.Lookup(b.outputTag)
	if !ok {
		return nil, &errs.UnknownFormatError{Tag: b.outputTag}
	}
	return &Pipeline{parser: parser, filters: b.filters, encoder: enc}, nil
}

// FilterSpec is a tagged description of one filter-chain step (spec §6).
// Exactly one of its Include/Exclude/MaxDepth/Truncate fields should be
// set; compile uses whichever is non-nil, checked in that order.
type FilterSpec struct {
	Include  *IncludeSpec
	Exclude  *ExcludeSpec
	MaxDepth *MaxDepthSpec
	Truncate *TruncateSpec
}

// IncludeSpec selects a sub-tree with a path expression.
type IncludeSpec struct {
	Path string
}

// ExcludeSpec removes a sub-tree with a path expression, leaving the rest
// of the tree untouched.
type ExcludeSpec struct {
	Path string
}

// MaxDepthSpec collapses the tree below Depth into summary placeholders.
type MaxDepthSpec struct {
	Depth uint32
}

// TruncateStrategy mirrors filter.TruncateStrategy at the public API
// boundary so callers never need to import the filter package directly.
type TruncateStrategy = filter.TruncateStrategy

const (
	StrategyHead     = filter.StrategyHead
	StrategyTail     = filter.StrategyTail
	StrategyBalanced = filter.StrategyBalanced
	StrategySample   = filter.StrategySample
)

// TruncateSpec bounds array length and string length.
type TruncateSpec struct {
	MaxItems        *uint32
	MaxStringLength *uint32
	Strategy        TruncateStrategy
	Preserve        []string
	Seed            uint64
	Strict          bool
}

func (s FilterSpec) compile() (filter.Filter, error) {
	switch {
	case s.Include != nil:
		return filter.NewInclude(s.Include.Path)
	case s.Exclude != nil:
		return filter.NewExclude(s.Exclude.Path)
	case s.MaxDepth != nil:
		return filter.MaxDepth{Depth: s.MaxDepth.Depth}, nil
	case s.Truncate != nil:
		t := s.Truncate
		return filter.NewTruncate(t.MaxItems, t.MaxStringLength, t.Strategy, t.Preserve, t.Seed, t.Strict)
	default:
		return nil, &errs.InvalidPathError{Expression: "", Message: "empty FilterSpec"}
	}
}

// ConvertOptions configures Convert (spec §6).
type ConvertOptions struct {
	InputFormat  string // empty means auto-detect
	OutputFormat string // empty means use the shape analyzer's recommendation
	Filters      []FilterSpec
	Strict       bool
	Filename     string // optional, aids auto-detection
}

// Convert parses data, applies Filters in order, and encodes the result.
// An empty InputFormat triggers auto-detection; an empty OutputFormat runs
// the shape analyzer on the filtered Value and uses its recommendation.
func Convert(data []byte, opts ConvertOptions) (string, error) {
	inputTag := opts.InputFormat
	if inputTag == "" {
		inputTag = parse.Detect(data, opts.Filename)
	}
	parser, ok := parse.Lookup(inputTag)
	if !ok {
		return "", &errs.UnknownFormatError{Tag: inputTag}
	}
	v, err := parser.Parse(data)
	if err != nil {
		return "", &errs.PipelineError{Stage: errs.StageParse, Err: err}
	}

	for _, spec := range opts.Filters {
		if opts.Strict && spec.Truncate != nil {
			t := *spec.Truncate
			t.Strict = true
			spec.Truncate = &t
		}
		f, err := spec.compile()
		if err != nil {
			return "", &errs.PipelineError{Stage: errs.StageFilter, Err: err}
		}
		v, err = f.Apply(v)
		if err != nil {
			return "", &errs.PipelineError{Stage: errs.StageFilter, Err: err}
		}
	}

	outputTag := opts.OutputFormat
	if outputTag == "" {
		outputTag = recommendedEncoderFor(v)
	}
	enc, ok := encode.Lookup(outputTag)
	if !ok {
		return "", &errs.UnknownFormatError{Tag: outputTag}
	}
	out, _, err := enc.Encode(v)
	if err != nil {
		return "", &errs.PipelineError{Stage: errs.StageEncode, Err: err}
	}
	return out, nil
}
