package merge

import "github.com/vivtool/vivtool/pkg/types"

// Pick extracts from live the values at key paths defined by template,
// mirroring the template's shape intersected with live's availability.
//
// Template keys absent from live are omitted from the output entirely;
// they do not fall back to the template's own value. This matches the
// long-standing export behavior and must not be changed silently.
func Pick(live, template types.Document) types.Document {
	out := make(types.Document)
	for key, templateVal := range template {
		liveVal, exists := live[key]
		if !exists {
			continue
		}
		templateObj, templateIsObj := asObject(templateVal)
		if !templateIsObj {
			// Template leaf: the live value wins verbatim, whatever its type
			out[key] = types.CopyValue(liveVal)
			continue
		}
		liveObj, liveIsObj := asObject(liveVal)
		if !liveIsObj {
			// Shape mismatch: template expects an object, live holds a leaf.
			// The live value still wins.
			out[key] = types.CopyValue(liveVal)
			continue
		}
		out[key] = map[string]interface{}(Pick(liveObj, templateObj))
	}
	return out
}
