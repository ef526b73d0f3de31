package mutate

import (
	"github.com/jacoelho/jsonops/internal/jsonpath"
	"github.com/jacoelho/jsonops/internal/value"
)

// Set writes each assignment's value at its path, in order.
//
// An existing location is replaced. A missing one is created when
// createIfMissing is true: missing intermediate objects and arrays are built
// along the way, arrays are padded with nulls up to a new index, and a null met
// on the way is replaced by the container the next step needs. With
// createIfMissing false a missing location skips that assignment.
func Set(doc value.Value, createIfMissing bool, pairs ...Assignment) (value.Value, error) {
	compiled, err := compileAssignments(pairs)
	if err != nil {
		return value.Value{}, err
	}

	for _, pair := range compiled {
		doc, _, err = setAt(doc, pair.path.Steps, pair.value, createIfMissing, 1)
		if err != nil {
			return value.Value{}, err
		}
	}
	return doc, nil
}

func setAt(node value.Value, steps []jsonpath.Step, x value.Value, create bool, depth int) (value.Value, bool, error) {
	if len(steps) == 0 {
		return x, true, nil
	}
	if err := value.CheckDepth(depth); err != nil {
		return value.Value{}, false, err
	}

	step := steps[0]
	if create && node.IsNull() {
		node = containerFor(step)
	}

	switch {
	case step.Kind == jsonpath.StepKey && node.Kind() == value.KindObject:
	case step.Kind == jsonpath.StepIndex && node.Kind() == value.KindArray:
	default:
		return node, false, nil
	}

	child, found := childAt(node, step)
	if !found && !create {
		return node, false, nil
	}

	updated, changed, err := setAt(child, steps[1:], x, create, depth+1)
	if err != nil || !changed {
		return node, false, err
	}
	return withChild(node, step, updated), true, nil
}

// containerFor returns the empty container a step can descend into.
func containerFor(step jsonpath.Step) value.Value {
	if step.Kind == jsonpath.StepIndex {
		return value.Array()
	}
	return value.Object()
}
