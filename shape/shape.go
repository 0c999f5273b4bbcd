// Package shape classifies a Value into a coarse shape and recommends
// the encoder predicted to produce the fewest tokens for it (spec §4.4).
package shape

import "github.com/reoring/llmshape/value"

// Tag is the analyzer's classification of a Value.
type Tag int

const (
	TagUniformArray Tag = iota
	TagSparseArray
	TagTabularData
	TagFlatObject
	TagNestedObject
	TagPrimitive
	TagEmpty
	TagMixed
)

func (t Tag) String() string {
	switch t {
	case TagUniformArray:
		return "UniformArray"
	case TagSparseArray:
		return "SparseArray"
	case TagTabularData:
		return "TabularData"
	case TagFlatObject:
		return "FlatObject"
	case TagNestedObject:
		return "NestedObject"
	case TagPrimitive:
		return "Primitive"
	case TagEmpty:
		return "Empty"
	case TagMixed:
		return "Mixed"
	default:
		return "Unknown"
	}
}

// sampleLimit bounds how many array elements are inspected for
// uniformity; arrays longer than this are sampled from the front.
const sampleLimit = 100

// Report carries the analyzer's findings about a Value.
type Report struct {
	Tag        Tag
	ArrayLen   int
	FieldCount int
	MaxDepth   int
	SampleKeys []string
}

// Analyze classifies v and measures its shape.
func Analyze(v value.Value) Report {
	r := Report{MaxDepth: maxDepth(v, 0)}
	r.Tag, r.ArrayLen, r.FieldCount, r.SampleKeys = classify(v)
	return r
}

func classify(v value.Value) (Tag, int, int, []string) {
	switch v.Kind() {
	case value.KindNull:
		return TagEmpty, 0, 0, nil
	case value.KindBool, value.KindInt, value.KindFloat, value.KindString:
		return TagPrimitive, 0, 0, nil
	case value.KindObject:
		return classifyObject(v.Obj())
	case value.KindArray:
		return classifyArray(v.Items())
	default:
		return TagMixed, 0, 0, nil
	}
}

func classifyObject(obj *value.Object) (Tag, int, int, []string) {
	if obj.Len() == 0 {
		return TagEmpty, 0, 0, nil
	}
	keys := obj.Keys()
	sample := keys
	if len(sample) > 5 {
		sample = sample[:5]
	}
	allPrimitive := true
	obj.Range(func(_ string, v value.Value) bool {
		if !v.IsPrimitive() {
			allPrimitive = false
			return false
		}
		return true
	})
	if allPrimitive {
		return TagFlatObject, 0, obj.Len(), sample
	}
	return TagNestedObject, 0, obj.Len(), sample
}

func classifyArray(items []value.Value) (Tag, int, int, []string) {
	n := len(items)
	if n == 0 {
		return TagEmpty, 0, 0, nil
	}
	window := items
	if len(window) > sampleLimit {
		window = window[:sampleLimit]
	}

	allObjects := true
	allArraysOfPrimitives := true
	rowLen := -1
	var header []string
	uniform := true
	sparseButObjects := true

	for i, it := range window {
		if it.Kind() != value.KindObject {
			allObjects = false
			sparseButObjects = false
		}
		if it.Kind() != value.KindArray {
			allArraysOfPrimitives = false
		} else {
			if !allPrimitiveItems(it.Items()) {
				allArraysOfPrimitives = false
			}
			if rowLen == -1 {
				rowLen = len(it.Items())
			} else if rowLen != len(it.Items()) {
				allArraysOfPrimitives = false
			}
		}
		if it.Kind() == value.KindObject {
			keys := it.Obj().Keys()
			if i == 0 {
				header = keys
			} else if !sameKeys(header, keys) {
				uniform = false
			}
			if !objectAllPrimitive(it.Obj()) {
				uniform = false
			}
		}
	}

	var sample []string
	if header != nil {
		sample = header
		if len(sample) > 5 {
			sample = sample[:5]
		}
	}

	switch {
	case allObjects && uniform:
		return TagUniformArray, n, len(header), sample
	case allArraysOfPrimitives && rowLen >= 0:
		return TagTabularData, n, rowLen, nil
	case allObjects && sparseButObjects:
		return TagSparseArray, n, 0, sample
	default:
		return TagMixed, n, 0, nil
	}
}

func allPrimitiveItems(items []value.Value) bool {
	for _, it := range items {
		if !it.IsPrimitive() {
			return false
		}
	}
	return true
}

func objectAllPrimitive(obj *value.Object) bool {
	ok := true
	obj.Range(func(_ string, v value.Value) bool {
		if !v.IsPrimitive() {
			ok = false
			return false
		}
		return true
	})
	return ok
}

func sameKeys(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

// maxDepth measures the exact maximum nesting depth of v (cheap enough
// to measure exactly, per spec §4.4).
func maxDepth(v value.Value, current int) int {
	switch v.Kind() {
	case value.KindArray:
		max := current
		for _, it := range v.Items() {
			if d := maxDepth(it, current+1); d > max {
				max = d
			}
		}
		return max
	case value.KindObject:
		max := current
		v.Obj().Range(func(_ string, child value.Value) bool {
			if d := maxDepth(child, current+1); d > max {
				max = d
			}
			return true
		})
		return max
	default:
		return current
	}
}

// Recommend maps a Report's Tag (and, where the table distinguishes on
// it, MaxDepth) to the encoder format tag predicted to produce the
// fewest tokens (spec §4.4's table).
func Recommend(r Report) string {
	switch r.Tag {
	case TagUniformArray:
		return "tsv"
	case TagTabularData:
		return "tsv"
	case TagSparseArray:
		return "toon"
	case TagFlatObject:
		return "yaml"
	case TagNestedObject:
		if r.MaxDepth <= 2 {
			return "yaml"
		}
		return "json"
	default: // TagPrimitive, TagEmpty, TagMixed
		return "json"
	}
}
