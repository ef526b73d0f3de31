package jsonpath

import (
	"github.com/jacoelho/jsonops/internal/value"
)

// Compile parses a path expression with an optional leading mode.
// Malformed expressions fail with an error wrapping ErrInvalidPath.
func Compile(expr string) (Path, error) {
	return compile(expr)
}

// MustCompile is like Compile but panics if the expression cannot be parsed.
func MustCompile(expr string) Path {
	p, err := compile(expr)
	if err != nil {
		panic(err)
	}
	return p
}

// Evaluate walks doc along p and returns every match in traversal order.
// Without wildcards a strict path yields at most one match; lax modes may yield
// several. A path that does not resolve yields no matches and no error.
func (p Path) Evaluate(doc value.Value) ([]value.Value, error) {
	current := []value.Value{doc}

	for depth, step := range p.Steps {
		if err := value.CheckDepth(depth + 1); err != nil {
			return nil, err
		}

		var next []value.Value
		emit := func(v value.Value) {
			next = append(next, v)
		}

		for _, node := range current {
			if err := p.Mode.visit(step, node, depth+1, emit); err != nil {
				return nil, err
			}
		}

		if len(next) == 0 {
			return nil, nil
		}
		current = next
	}

	return current, nil
}
