// Package errs holds the error taxonomy shared by every stage of the
// conversion pipeline (spec §7). It is a leaf package so that parse,
// filter, encode and the root package can all depend on it without a
// cycle; the root package re-exports these types under its own names.
package errs

import "fmt"

// ParseError is returned when a parser cannot lift bytes into a Value. No
// partial Value is ever returned alongside it.
type ParseError struct {
	Format     string
	ByteOffset int64 // -1 when unknown
	Message    string
}

func (e *ParseError) Error() string {
	if e.ByteOffset >= 0 {
		return fmt.Sprintf("%s parse error at byte %d: %s", e.Format, e.ByteOffset, e.Message)
	}
	return fmt.Sprintf("%s parse error: %s", e.Format, e.Message)
}

// InvalidPathError reports a malformed path expression.
type InvalidPathError struct {
	Expression string
	Message    string
}

func (e *InvalidPathError) Error() string {
	return fmt.Sprintf("invalid path %q: %s", e.Expression, e.Message)
}

// LimitExceededError is returned by the Truncate filter in strict mode
// instead of silently truncating.
type LimitExceededError struct {
	Kind     string // "items" | "string_length"
	AtPath   string
	Observed int
	Limit    int
}

func (e *LimitExceededError) Error() string {
	return fmt.Sprintf("limit exceeded (%s) at %s: observed %d, limit %d", e.Kind, e.AtPath, e.Observed, e.Limit)
}

// NotTabularError is returned by CSV/TSV encoders when the root Value
// cannot be laid out as rows.
type NotTabularError struct {
	Encoder string
}

func (e *NotTabularError) Error() string {
	return fmt.Sprintf("%s: root value is not tabular", e.Encoder)
}

// UnrepresentableValueError is returned only when an encoder cannot
// stringify an offending value and no fallback exists.
type UnrepresentableValueError struct {
	Encoder string
	AtPath  string
}

func (e *UnrepresentableValueError) Error() string {
	return fmt.Sprintf("%s: value at %s cannot be represented", e.Encoder, e.AtPath)
}

// UnknownFormatError is raised at pipeline construction time for an
// unrecognized format tag.
type UnknownFormatError struct {
	Tag string
}

func (e *UnknownFormatError) Error() string {
	return fmt.Sprintf("unknown format %q", e.Tag)
}

// PipelineStage identifies which stage of a Pipeline produced an error.
type PipelineStage int

const (
	StageParse PipelineStage = iota
	StageFilter
	StageEncode
)

func (s PipelineStage) String() string {
	switch s {
	case StageParse:
		return "parse"
	case StageFilter:
		return "filter"
	case StageEncode:
		return "encode"
	default:
		return "unknown"
	}
}

// PipelineError wraps the inner stage error with the stage tag that
// produced it. Unwrap exposes the inner error to errors.As/errors.Is.
type PipelineError struct {
	Stage PipelineStage
	Err   error
}

func (e *PipelineError) Error() string {
	return fmt.Sprintf("pipeline %s stage: %v", e.Stage, e.Err)
}

func (e *PipelineError) Unwrap() error { return e.Err }
