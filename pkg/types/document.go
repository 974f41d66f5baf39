package types

// Document is an arbitrarily nested preference document. Keys are opaque;
// values are the usual JSON shapes (objects, arrays, scalars).
type Document map[string]interface{}

// Copy returns a deep copy of the document. Merge and pick operations never
// mutate their inputs, so every result starts from a copy.
func (d Document) Copy() Document {
	out := make(Document, len(d))
	for k, v := range d {
		out[k] = CopyValue(v)
	}
	return out
}

// CopyValue deep-copies one JSON value of any shape
func CopyValue(v interface{}) interface{} {
	switch val := v.(type) {
	case map[string]interface{}:
		out := make(map[string]interface{}, len(val))
		for k, inner := range val {
			out[k] = CopyValue(inner)
		}
		return out
	case Document:
		out := make(map[string]interface{}, len(val))
		for k, inner := range val {
			out[k] = CopyValue(inner)
		}
		return out
	case []interface{}:
		out := make([]interface{}, len(val))
		for i, inner := range val {
			out[i] = CopyValue(inner)
		}
		return out
	default:
		return val
	}
}
