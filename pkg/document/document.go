// Package document is the JSON codec for preference documents: parsing,
// rendering, and the canonical (sorted-key) form used for comparison.
package document

import (
	"bytes"
	"encoding/json"
	"reflect"

	"github.com/vivtool/vivtool/pkg/errors"
	"github.com/vivtool/vivtool/pkg/types"
)

// Parse decodes raw bytes into a Document. The root must be a JSON object.
func Parse(data []byte) (types.Document, error) {
	var doc types.Document
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, errors.Wrap(err, errors.ErrMalformedInput, "document is not valid JSON")
	}
	if doc == nil {
		return nil, errors.New(errors.ErrMalformedInput, "document root must be a JSON object")
	}
	return doc, nil
}

// Render serializes a document with 2-space indentation and a trailing
// newline. encoding/json emits map keys in sorted order, so rendered
// output is deterministic.
func Render(doc types.Document) ([]byte, error) {
	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrMalformedInput, "document cannot be serialized")
	}
	return append(data, '\n'), nil
}

// Canonical re-serializes raw bytes into the canonical form: recursively
// sorted keys, stable whitespace. Two semantically equal documents have
// byte-identical canonical forms regardless of key order or formatting.
func Canonical(data []byte) ([]byte, error) {
	doc, err := Parse(data)
	if err != nil {
		return nil, err
	}
	return Render(doc)
}

// Equal reports deep semantic equality of two documents
func Equal(a, b types.Document) bool {
	return reflect.DeepEqual(map[string]interface{}(a), map[string]interface{}(b))
}

// EqualBytes reports whether two raw serializations are semantically equal,
// comparing canonical forms.
func EqualBytes(a, b []byte) (bool, error) {
	ca, err := Canonical(a)
	if err != nil {
		return false, err
	}
	cb, err := Canonical(b)
	if err != nil {
		return false, err
	}
	return bytes.Equal(ca, cb), nil
}
