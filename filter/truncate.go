package filter

import (
	"math/rand"
	"unicode/utf8"

	"github.com/reoring/llmshape/errs"
	"github.com/reoring/llmshape/value"
)

// TruncateStrategy selects how an oversized array is cut down.
type TruncateStrategy int

const (
	StrategyHead TruncateStrategy = iota
	StrategyTail
	StrategyBalanced
	StrategySample
)

// TruncateSummary accompanies a Truncate filter's output: counts of
// arrays truncated, items removed, strings truncated, and scalars
// removed (spec §4.2).
type TruncateSummary struct {
	ArraysTruncated  int
	ItemsRemoved     int
	StringsTruncated int
	ScalarsRemoved   int
}

// Truncate bounds array length and string length, recursively. In Strict
// mode, any truncation-eligible event raises LimitExceededError instead
// of truncating.
type Truncate struct {
	MaxItems        *uint32
	MaxStringLength *uint32
	Strategy        TruncateStrategy
	Preserve        []*Path
	Seed            uint64
	Strict          bool

	// Summary is populated after a successful (non-strict) Apply call.
	Summary TruncateSummary
}

// NewTruncate builds a Truncate filter, compiling its preserve path
// expressions up front.
func NewTruncate(maxItems, maxStringLength *uint32, strategy TruncateStrategy, preserve []string, seed uint64, strict bool) (*Truncate, error) {
	t := &Truncate{MaxItems: maxItems, MaxStringLength: maxStringLength, Strategy: strategy, Seed: seed, Strict: strict}
	for _, p := range preserve {
		cp, err := CompilePath(p)
		if err != nil {
			return nil, err
		}
		t.Preserve = append(t.Preserve, cp)
	}
	return t, nil
}

func (t *Truncate) Apply(v value.Value) (value.Value, error) {
	t.Summary = TruncateSummary{}
	preserved := t.preservedSet(v)
	return t.walk(v, "", preserved)
}

// preservedSet evaluates every preserve path against the root and
// collects the concrete path strings of the matched subtrees. Values have
// no identity to match on, so walk looks up each node's own path string
// in this set instead.
func (t *Truncate) preservedSet(root value.Value) map[string]bool {
	set := map[string]bool{}
	for _, p := range t.Preserve {
		markPreserved(root, p.segments, "", set)
	}
	return set
}

// markPreserved records, in set, the concrete paths (root-relative,
// using the same dotted/bracket spelling as Truncate.walk produces) that
// a preserve expression resolves to.
func markPreserved(v value.Value, segs []segment, path string, set map[string]bool) {
	if len(segs) == 0 {
		set[path] = true
		return
	}
	seg := segs[0]
	rest := segs[1:]
	switch seg.kind {
	case segMember:
		if v.Kind() != value.KindObject {
			return
		}
		child, ok := v.Obj().Get(seg.name)
		if !ok {
			return
		}
		markPreserved(child, rest, joinPath(path, seg.name), set)
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
		markPreserved(items[idx], rest, indexPath(path, idx), set)
	case segWildcard:
		if v.Kind() != value.KindArray {
			return
		}
		for i, elem := range v.Items() {
			markPreserved(elem, rest, indexPath(path, i), set)
		}
	case segPredicate:
		if v.Kind() != value.KindArray {
			return
		}
		for i, elem := range v.Items() {
			if ok, err := evalPredicate(seg.expr, elem); err == nil && ok {
				markPreserved(elem, rest, indexPath(path, i), set)
			}
		}
	}
}

func joinPath(base, name string) string {
	if base == "" {
		return name
	}
	return base + "." + name
}

func indexPath(base string, idx int) string {
	return base + "[" + itoa(idx) + "]"
}

func itoa(i int) string {
	if i == 0 {
		return "0"
	}
	neg := i < 0
	if neg {
		i = -i
	}
	var buf [20]byte
	pos := len(buf)
	for i > 0 {
		pos--
		buf[pos] = byte('0' + i%10)
		i /= 10
	}
	if neg {
		pos--
		buf[pos] = '-'
	}
	return string(buf[pos:])
}

func (t *Truncate) walk(v value.Value, path string, preserved map[string]bool) (value.Value, error) {
	if preserved[path] {
		return v, nil
	}
	switch v.Kind() {
	case value.KindString:
		return t.truncateString(v, path)
	case value.KindArray:
		return t.truncateArray(v, path, preserved)
	case value.KindObject:
		out := value.NewObject()
		var err error
		v.Obj().Range(func(key string, child value.Value) bool {
			var nv value.Value
			nv, err = t.walk(child, joinPath(path, key), preserved)
			if err != nil {
				return false
			}
			out.Set(key, nv)
			return true
		})
		if err != nil {
			return value.Null(), err
		}
		return value.FromObject(out), nil
	default:
		return v, nil
	}
}

func (t *Truncate) truncateString(v value.Value, path string) (value.Value, error) {
	if t.MaxStringLength == nil {
		return v, nil
	}
	max := int(*t.MaxStringLength)
	s := v.Str()
	length := utf8.RuneCountInString(s)
	if length <= max {
		return v, nil
	}
	if t.Strict {
		return value.Null(), &errs.LimitExceededError{Kind: "string_length", AtPath: path, Observed: length, Limit: max}
	}
	t.Summary.StringsTruncated++
	t.Summary.ScalarsRemoved += length - max
	cut := runeSlice(s, 0, max)
	const suffix = "…"
	if max >= utf8.RuneCountInString(suffix) {
		cut = runeSlice(s, 0, max-utf8.RuneCountInString(suffix)) + suffix
	}
	return value.String(cut), nil
}

func runeSlice(s string, start, end int) string {
	if start == 0 && end >= utf8.RuneCountInString(s) {
		return s
	}
	runes := []rune(s)
	if end > len(runes) {
		end = len(runes)
	}
	if start > end {
		start = end
	}
	return string(runes[start:end])
}

func (t *Truncate) truncateArray(v value.Value, path string, preserved map[string]bool) (value.Value, error) {
	items := v.Items()

	// Recurse into elements first (order independent of selection below).
	recursed := make([]value.Value, len(items))
	for i, it := range items {
		nv, err := t.walk(it, indexPath(path, i), preserved)
		if err != nil {
			return value.Null(), err
		}
		recursed[i] = nv
	}

	if t.MaxItems == nil || len(recursed) <= int(*t.MaxItems) {
		return value.Array(recursed), nil
	}
	max := int(*t.MaxItems)
	if t.Strict {
		return value.Null(), &errs.LimitExceededError{Kind: "items", AtPath: path, Observed: len(recursed), Limit: max}
	}
	t.Summary.ArraysTruncated++
	t.Summary.ItemsRemoved += len(recursed) - max
	kept := t.selectItems(recursed, max)
	return value.Array(kept), nil
}

func (t *Truncate) selectItems(items []value.Value, max int) []value.Value {
	switch t.Strategy {
	case StrategyTail:
		return items[len(items)-max:]
	case StrategyBalanced:
		head := (max + 1) / 2
		tail := max / 2
		out := make([]value.Value, 0, max)
		out = append(out, items[:head]...)
		out = append(out, items[len(items)-tail:]...)
		return out
	case StrategySample:
		return sampleItems(items, max, t.Seed)
	default: // StrategyHead
		return items[:max]
	}
}

// sampleItems draws max elements without replacement using a
// deterministic PRNG seeded from seed (spec §4.2), preserving the
// relative order of the drawn elements.
func sampleItems(items []value.Value, max int, seed uint64) []value.Value {
	n := len(items)
	idx := make([]int, n)
	for i := range idx {
		idx[i] = i
	}
	rng := rand.New(rand.NewSource(int64(seed)))
	rng.Shuffle(n, func(i, j int) { idx[i], idx[j] = idx[j], idx[i] })
	chosen := idx[:max]
	// Restore ascending order so the sample reads like a sub-sequence.
	sortInts(chosen)
	out := make([]value.Value, max)
	for i, ci := range chosen {
		out[i] = items[ci]
	}
	return out
}

func sortInts(s []int) {
	for i := 1; i < len(s); i++ {
		for j := i; j > 0 && s[j-1] > s[j]; j-- {
			s[j-1], s[j] = s[j], s[j-1]
		}
	}
}

