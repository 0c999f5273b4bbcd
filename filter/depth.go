package filter

import "github.com/reoring/llmshape/value"

// MaxDepth replaces Objects/Arrays at or past depth with a visible summary
// Value ("{…N keys}" / "[…N items]") instead of dropping them (spec §4.2).
// Depth 0 means "root only." Primitives are always preserved.
type MaxDepth struct {
	Depth uint32
}

func (f MaxDepth) Apply(v value.Value) (value.Value, error) {
	return applyDepth(v, int(f.Depth)), nil
}

func applyDepth(v value.Value, remaining int) value.Value {
	if !v.IsPrimitive() && remaining <= 0 {
		return value.String(value.SummaryString(v))
	}
	switch v.Kind() {
	case value.KindArray:
		items := v.Items()
		out := make([]value.Value, len(items))
		for i, it := range items {
			out[i] = applyDepth(it, remaining-1)
		}
		return value.Array(out)
	case value.KindObject:
		out := value.NewObject()
		v.Obj().Range(func(key string, child value.Value) bool {
			out.Set(key, applyDepth(child, remaining-1))
			return true
		})
		return value.FromObject(out)
	default:
		return v
	}
}
