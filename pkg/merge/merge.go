// Package merge implements the recursive preference merge and the
// template-scoped export pick.
package merge

import "github.com/vivtool/vivtool/pkg/types"

// Merge deep-merges override into base and returns a new document. Neither
// input is mutated.
//
// For each key in override: when both sides hold objects the merge recurses;
// otherwise the override value wins verbatim. Arrays and scalars replace
// wholesale, never element-wise. Keys only in base are preserved unchanged.
func Merge(base, override types.Document) types.Document {
	out := base.Copy()
	for key, overrideVal := range override {
		baseVal, exists := out[key]
		if !exists {
			out[key] = types.CopyValue(overrideVal)
			continue
		}
		baseObj, baseIsObj := asObject(baseVal)
		overrideObj, overrideIsObj := asObject(overrideVal)
		if baseIsObj && overrideIsObj {
			out[key] = map[string]interface{}(Merge(baseObj, overrideObj))
			continue
		}
		out[key] = types.CopyValue(overrideVal)
	}
	return out
}

func asObject(v interface{}) (types.Document, bool) {
	switch obj := v.(type) {
	case map[string]interface{}:
		return types.Document(obj), true
	case types.Document:
		return obj, true
	}
	return nil, false
}
