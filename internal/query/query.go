// Package query implements read-only extraction over JSON documents.
//
// Both extractions report absence through their boolean result: false means
// the path matched nothing, which is different from matching a JSON null.
package query

import (
	"github.com/jacoelho/jsonops/internal/jsonpath"
	"github.com/jacoelho/jsonops/internal/value"
)

// ExtractStructured returns the value addressed by expr with its shape intact.
// Several matches, possible with lax modes or wildcards, are returned as one
// array in traversal order.
func ExtractStructured(doc value.Value, expr string) (value.Value, bool, error) {
	p, err := jsonpath.Compile(expr)
	if err != nil {
		return value.Value{}, false, err
	}
	return Structured(doc, p)
}

// Structured is ExtractStructured for a compiled path.
func Structured(doc value.Value, p jsonpath.Path) (value.Value, bool, error) {
	matches, err := p.Evaluate(doc)
	if err != nil {
		return value.Value{}, false, err
	}

	switch len(matches) {
	case 0:
		return value.Value{}, false, nil
	case 1:
		return matches[0], true, nil
	}
	return value.Array(matches...), true, nil
}

// ExtractScalar is ExtractStructured restricted to scalar results: a match that
// is an object or an array is reported as absent. Use value.Text for the plain
// unquoted rendering of the result.
func ExtractScalar(doc value.Value, expr string) (value.Value, bool, error) {
	p, err := jsonpath.Compile(expr)
	if err != nil {
		return value.Value{}, false, err
	}
	return Scalar(doc, p)
}

// Scalar is ExtractScalar for a compiled path.
func Scalar(doc value.Value, p jsonpath.Path) (value.Value, bool, error) {
	v, ok, err := Structured(doc, p)
	if err != nil || !ok {
		return value.Value{}, false, err
	}
	if v.IsContainer() {
		return value.Value{}, false, nil
	}
	return v, true, nil
}
