package filter

import "github.com/reoring/llmshape/value"

// Filter rewrites a Value into another Value. Filters are composed by
// position in a Pipeline's filter chain; the chain short-circuits on the
// first error.
type Filter interface {
	Apply(v value.Value) (value.Value, error)
}

// Include selects a sub-tree using a path expression (spec §4.2). A path
// that selects nothing returns Null; the chain carries the Null forward.
type Include struct {
	path *Path
}

// NewInclude compiles an Include filter from a path expression.
func NewInclude(pathExpr string) (*Include, error) {
	p, err := CompilePath(pathExpr)
	if err != nil {
		return nil, err
	}
	return &Include{path: p}, nil
}

func (f *Include) Apply(v value.Value) (value.Value, error) {
	return f.path.Eval(v)
}

// Exclude removes the subtree(s) matched by a path expression, leaving
// everything else untouched — the set-complement of Include. Unlike
// Include, a non-match leaves the root unchanged.
type Exclude struct {
	path *Path
}

// NewExclude compiles an Exclude filter from a path expression. Only
// plain member/index paths are supported (no trailing wildcard or
// predicate as the final segment, since there is no single subtree to
// remove in that case).
func NewExclude(pathExpr string) (*Exclude, error) {
	p, err := CompilePath(pathExpr)
	if err != nil {
		return nil, err
	}
	return &Exclude{path: p}, nil
}

func (f *Exclude) Apply(v value.Value) (value.Value, error) {
	if len(f.path.segments) == 0 {
		return v, nil
	}
	clone := v.Clone()
	removeAt(clone, f.path.segments)
	return clone, nil
}

// removeAt walks segs against v in place, deleting the final segment's
// target from its parent container.
func removeAt(v value.Value, segs []segment) {
	if len(segs) == 0 {
		return
	}
	seg := segs[0]
	rest := segs[1:]
	switch seg.kind {
	case segMember:
		if v.Kind() != value.KindObject {
			return
		}
		if len(rest) == 0 {
			v.Obj().Delete(seg.name)
			return
		}
		child, ok := v.Obj().Get(seg.name)
		if !ok {
			return
		}
		removeAt(child, rest)
	case segIndex:
		if v.Kind() != value.KindArray {
			return
		}
		items := v.Items()
		idx := seg.idx
		if idx < 0 {
			idx += len(items)
		}
		if idx < 0 || idx >= len(items) {
			return
		}
		if len(rest) == 0 {
			// Arrays are fixed-size backing slices; represent removal as
			// Null in place rather than resizing, matching Include's
			// "selects nothing returns Null" carry-forward semantics for
			// the removed element's position.
			items[idx] = value.Null()
			return
		}
		removeAt(items[idx], rest)
	case segWildcard:
		if v.Kind() != value.KindArray {
			return
		}
		for _, elem := range v.Items() {
			removeAt(elem, rest)
		}
	case segPredicate:
		if v.Kind() != value.KindArray {
			return
		}
		for _, elem := range v.Items() {
			ok, err := evalPredicate(seg.expr, elem)
			if err == nil && ok {
				removeAt(elem, rest)
			}
		}
	}
}
