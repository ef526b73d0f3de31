package mutate

import (
	"fmt"

	"github.com/jacoelho/jsonops/internal/jsonpath"
	"github.com/jacoelho/jsonops/internal/value"
)

// Remove deletes the location named by each path, in order. Array elements
// after a removed index shift down, so removing the same index twice deletes
// two elements. Missing locations are ignored. Removing the root returns
// ErrDisallowedOperation.
func Remove(doc value.Value, paths ...string) (value.Value, error) {
	compiled := make([]jsonpath.Path, 0, len(paths))
	for _, expr := range paths {
		p, err := compileLocation(expr)
		if err != nil {
			return value.Value{}, err
		}
		if p.IsRoot() {
			return value.Value{}, fmt.Errorf("%w: cannot remove the document root", ErrDisallowedOperation)
		}
		compiled = append(compiled, p)
	}

	for _, p := range compiled {
		var err error
		doc, err = editRoot(doc, p, func(value.Value) (outcome, error) {
			return removal(), nil
		})
		if err != nil {
			return value.Value{}, err
		}
	}
	return doc, nil
}
