package jsonpath

import (
	"github.com/jacoelho/jsonops/internal/value"
)

// unwrapPolicy hands every node a step applies to. node is the value the
// previous step produced.
type unwrapPolicy func(node value.Value, depth int, yield func(value.Value)) error

var policies = [...]unwrapPolicy{
	Strict:       unwrapNone,
	Lax:          unwrapOnce,
	LaxRecursive: unwrapAll,
}

// unwrapNone applies the step to the node exactly as written.
func unwrapNone(node value.Value, _ int, yield func(value.Value)) error {
	yield(node)
	return nil
}

// unwrapOnce applies the step to each element of an array node. Elements that
// are arrays themselves are passed on untouched.
func unwrapOnce(node value.Value, _ int, yield func(value.Value)) error {
	if node.Kind() != value.KindArray {
		yield(node)
		return nil
	}
	for _, elem := range node.Elements() {
		yield(elem)
	}
	return nil
}

// unwrapAll flattens arrays nested at any depth.
func unwrapAll(node value.Value, depth int, yield func(value.Value)) error {
	if node.Kind() != value.KindArray {
		yield(node)
		return nil
	}
	if err := value.CheckDepth(depth); err != nil {
		return err
	}
	for _, elem := range node.Elements() {
		if err := unwrapAll(elem, depth+1, yield); err != nil {
			return err
		}
	}
	return nil
}

// visit applies step to node under mode m. Only name steps unwrap arrays:
// index steps and wildcards address arrays directly.
func (m Mode) visit(step Step, node value.Value, depth int, yield func(value.Value)) error {
	if step.Kind != StepKey {
		selectChildren(step, node, yield)
		return nil
	}
	policy := unwrapNone
	if int(m) < len(policies) {
		policy = policies[m]
	}
	return policy(node, depth, func(candidate value.Value) {
		selectChildren(step, candidate, yield)
	})
}

// selectChildren yields the children of node that step selects.
func selectChildren(step Step, node value.Value, yield func(value.Value)) {
	switch step.Kind {
	case StepKey:
		if child, ok := node.Get(step.Key); ok {
			yield(child)
		}
	case StepIndex:
		if child, ok := node.Index(step.Index); ok {
			yield(child)
		}
	case StepWildcard:
		switch node.Kind() {
		case value.KindArray:
			for _, elem := range node.Elements() {
				yield(elem)
			}
		case value.KindObject:
			for _, member := range node.Members() {
				yield(member)
			}
		}
	}
}
