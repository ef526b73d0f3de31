// Package mutate implements pure structural updates of JSON documents.
//
// Every operation takes a document and returns a new one; the input is never
// modified and unchanged subtrees are shared with the result. Operations that
// accept several paths apply them left to right, each one seeing the result of
// the previous. All paths are compiled before the first update, so a malformed
// path fails the whole call and no partially updated document is returned.
//
// Locations are always resolved strictly, whatever mode prefix a path carries.
// A location that does not exist, or has the wrong type for the update, leaves
// the document unchanged without an error.
package mutate

import (
	"errors"
	"fmt"

	"github.com/jacoelho/jsonops/internal/jsonpath"
	"github.com/jacoelho/jsonops/internal/value"
)

// ErrDisallowedOperation indicates an update that has no valid result, such as
// removing the document root.
var ErrDisallowedOperation = errors.New("mutate: disallowed operation")

// Assignment pairs a path expression with the value an update uses at it.
type Assignment struct {
	Path  string
	Value value.Value
}

type compiledAssignment struct {
	path  jsonpath.Path
	value value.Value
}

// compileLocation compiles expr and rejects paths that may name several
// locations.
func compileLocation(expr string) (jsonpath.Path, error) {
	p, err := jsonpath.Compile(expr)
	if err != nil {
		return jsonpath.Path{}, err
	}
	if !p.Concrete() {
		return jsonpath.Path{}, fmt.Errorf("%w: %q: updates need a single location, wildcards are not allowed", jsonpath.ErrInvalidPath, expr)
	}
	return p, nil
}

func compileAssignments(pairs []Assignment) ([]compiledAssignment, error) {
	compiled := make([]compiledAssignment, 0, len(pairs))
	for _, pair := range pairs {
		p, err := compileLocation(pair.Path)
		if err != nil {
			return nil, err
		}
		compiled = append(compiled, compiledAssignment{path: p, value: pair.Value})
	}
	return compiled, nil
}

// outcome is what an action decides for the value found at a location.
type outcome struct {
	value   value.Value
	remove  bool
	changed bool
}

func keep() outcome {
	return outcome{}
}

func replaceWith(v value.Value) outcome {
	return outcome{value: v, changed: true}
}

func removal() outcome {
	return outcome{remove: true, changed: true}
}

type action func(current value.Value) (outcome, error)

// edit walks node along steps and applies act to the value found at the end.
// Missing locations leave node unchanged. steps must not be empty.
func edit(node value.Value, steps []jsonpath.Step, depth int, act action) (value.Value, bool, error) {
	if err := value.CheckDepth(depth); err != nil {
		return value.Value{}, false, err
	}

	step := steps[0]
	child, ok := childAt(node, step)
	if !ok {
		return node, false, nil
	}

	if len(steps) == 1 {
		out, err := act(child)
		if err != nil || !out.changed {
			return node, false, err
		}
		if out.remove {
			return withoutChild(node, step), true, nil
		}
		return withChild(node, step, out.value), true, nil
	}

	updated, changed, err := edit(child, steps[1:], depth+1, act)
	if err != nil || !changed {
		return node, false, err
	}
	return withChild(node, step, updated), true, nil
}

// editRoot is edit that also accepts the root path. Removing the root is not
// possible and is reported as ErrDisallowedOperation.
func editRoot(doc value.Value, p jsonpath.Path, act action) (value.Value, error) {
	if !p.IsRoot() {
		updated, _, err := edit(doc, p.Steps, 1, act)
		return updated, err
	}

	out, err := act(doc)
	if err != nil {
		return value.Value{}, err
	}
	switch {
	case !out.changed:
		return doc, nil
	case out.remove:
		return value.Value{}, fmt.Errorf("%w: cannot remove the document root", ErrDisallowedOperation)
	}
	return out.value, nil
}

func childAt(node value.Value, step jsonpath.Step) (value.Value, bool) {
	switch step.Kind {
	case jsonpath.StepKey:
		return node.Get(step.Key)
	case jsonpath.StepIndex:
		return node.Index(step.Index)
	}
	return value.Value{}, false
}

func withChild(node value.Value, step jsonpath.Step, child value.Value) value.Value {
	switch step.Kind {
	case jsonpath.StepKey:
		return node.WithKey(step.Key, child)
	case jsonpath.StepIndex:
		return node.WithIndex(step.Index, child)
	}
	return node
}

func withoutChild(node value.Value, step jsonpath.Step) value.Value {
	switch step.Kind {
	case jsonpath.StepKey:
		return node.WithoutKey(step.Key)
	case jsonpath.StepIndex:
		return node.WithoutIndex(step.Index)
	}
	return node
}
