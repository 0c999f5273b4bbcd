// Package filter implements the Value -> Value rewrites composed into a
// Pipeline's filter chain: path selection (Include/Exclude), depth
// limiting, and truncation (spec §4.2).
package filter

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/expr-lang/expr"

	"github.com/reoring/llmshape/errs"
	"github.com/reoring/llmshape/value"
)

// segKind discriminates one step of a parsed path expression.
type segKind int

const (
	segMember segKind = iota
	segIndex
	segWildcard
	segPredicate
)

type segment struct {
	kind segKind
	name string // segMember
	idx  int    // segIndex
	expr string // segPredicate: the raw "key op literal" text
}

// Path is a compiled path expression (spec §4.2's dot-and-bracket
// grammar): name, a.b.c, [n], [*], [?predicate].
type Path struct {
	expression string
	segments   []segment
}

// CompilePath parses a path expression. The grammar is normative per
// spec's Open Question: dot-and-bracket, never slash-delimited.
func CompilePath(expression string) (*Path, error) {
	segs, err := parsePathSegments(expression)
	if err != nil {
		return nil, &errs.InvalidPathError{Expression: expression, Message: err.Error()}
	}
	return &Path{expression: expression, segments: segs}, nil
}

func parsePathSegments(expression string) ([]segment, error) {
	var segs []segment
	i := 0
	n := len(expression)
	expectDot := false
	for i < n {
		switch {
		case expression[i] == '.':
			if !expectDot {
				return nil, fmt.Errorf("unexpected '.' at offset %d", i)
			}
			i++
			expectDot = false
		case expression[i] == '[':
			j := strings.IndexByte(expression[i:], ']')
			if j < 0 {
				return nil, fmt.Errorf("unterminated '[' at offset %d", i)
			}
			inner := expression[i+1 : i+j]
			seg, err := parseBracket(inner)
			if err != nil {
				return nil, err
			}
			segs = append(segs, seg)
			i += j + 1
			expectDot = true
		default:
			j := i
			for j < n && expression[j] != '.' && expression[j] != '[' {
				j++
			}
			name := expression[i:j]
			if name == "" {
				return nil, fmt.Errorf("empty member name at offset %d", i)
			}
			segs = append(segs, segment{kind: segMember, name: name})
			i = j
			expectDot = true
		}
	}
	return segs, nil
}

func parseBracket(inner string) (segment, error) {
	switch {
	case inner == "*":
		return segment{kind: segWildcard}, nil
	case strings.HasPrefix(inner, "?"):
		return segment{kind: segPredicate, expr: inner[1:]}, nil
	default:
		idx, err := strconv.Atoi(inner)
		if err != nil {
			return segment{}, fmt.Errorf("invalid index %q: %w", inner, err)
		}
		return segment{kind: segIndex, idx: idx}, nil
	}
}

// Eval evaluates the path against root. A path that selects nothing
// returns Null.
func (p *Path) Eval(root value.Value) (value.Value, error) {
	return evalSegments(root, p.segments)
}

func evalSegments(v value.Value, segs []segment) (value.Value, error) {
	if len(segs) == 0 {
		return v, nil
	}
	seg := segs[0]
	rest := segs[1:]
	switch seg.kind {
	case segMember:
		if v.Kind() != value.KindObject {
			return value.Null(), nil
		}
		child, ok := v.Obj().Get(seg.name)
		if !ok {
			return value.Null(), nil
		}
		return evalSegments(child, rest)
	case segIndex:
		if v.Kind() != value.KindArray {
			return value.Null(), nil
		}
		items := v.Items()
		idx := seg.idx
		if idx < 0 {
			idx += len(items)
		}
		if idx < 0 || idx >= len(items) {
			return value.Null(), nil
		}
		return evalSegments(items[idx], rest)
	case segWildcard:
		if v.Kind() != value.KindArray {
			return value.Null(), nil
		}
		out := make([]value.Value, 0, len(v.Items()))
		for _, elem := range v.Items() {
			r, err := evalSegments(elem, rest)
			if err != nil {
				return value.Null(), err
			}
			out = append(out, r)
		}
		return value.Array(out), nil
	case segPredicate:
		if v.Kind() != value.KindArray {
			return value.Null(), nil
		}
		var kept []value.Value
		for _, elem := range v.Items() {
			ok, err := evalPredicate(seg.expr, elem)
			if err != nil {
				return value.Null(), err
			}
			if ok {
				kept = append(kept, elem)
			}
		}
		if len(rest) == 0 {
			return value.Array(kept), nil
		}
		out := make([]value.Value, 0, len(kept))
		for _, elem := range kept {
			r, err := evalSegments(elem, rest)
			if err != nil {
				return value.Null(), err
			}
			out = append(out, r)
		}
		return value.Array(out), nil
	default:
		return value.Null(), fmt.Errorf("unknown path segment kind")
	}
}

// evalPredicate compiles and runs a "key op literal" expression (spec's
// grammar, a strict subset of expr-lang's own boolean expression
// language) against elem's primitive fields.
func evalPredicate(exprText string, elem value.Value) (bool, error) {
	env := predicateEnv(elem)
	program, err := expr.Compile(exprText, expr.Env(env), expr.AllowUndefinedVariables())
	if err != nil {
		return false, &errs.InvalidPathError{Expression: exprText, Message: err.Error()}
	}
	out, err := expr.Run(program, env)
	if err != nil {
		return false, nil // undefined key on this element: predicate doesn't hold
	}
	b, ok := out.(bool)
	if !ok {
		return false, &errs.InvalidPathError{Expression: exprText, Message: "predicate did not evaluate to a boolean"}
	}
	return b, nil
}

func predicateEnv(elem value.Value) map[string]any {
	env := map[string]any{}
	if elem.Kind() != value.KindObject {
		return env
	}
	elem.Obj().Range(func(key string, v value.Value) bool {
		if v.IsPrimitive() {
			env[key] = toNative(v)
		}
		return true
	})
	return env
}

func toNative(v value.Value) any {
	switch v.Kind() {
	case value.KindNull:
		return nil
	case value.KindBool:
		return v.Bool()
	case value.KindInt:
		return v.Int()
	case value.KindFloat:
		return v.Float()
	case value.KindString:
		return v.Str()
	default:
		return nil
	}
}
