package mutate

import (
	"fmt"

	"github.com/jacoelho/jsonops/internal/jsonpath"
	"github.com/jacoelho/jsonops/internal/value"
)

// ArrayInsert inserts each assignment's value into an array before the index
// that ends its path; later elements shift up. An index past the end pads the
// array with nulls first. A null target becomes an array of the inserted
// values. Paths must end in an index step.
//
// When eachElement is true an array value contributes its elements instead of
// itself.
func ArrayInsert(doc value.Value, eachElement bool, pairs ...Assignment) (value.Value, error) {
	compiled, err := compileAssignments(pairs)
	if err != nil {
		return value.Value{}, err
	}

	type insertion struct {
		parent jsonpath.Path
		index  int
		items  []value.Value
	}
	insertions := make([]insertion, 0, len(compiled))
	for i, pair := range compiled {
		parent, last, ok := pair.path.Parent()
		if !ok || last.Kind != jsonpath.StepIndex {
			return value.Value{}, fmt.Errorf("%w: %q: array insert needs a path ending in an index", jsonpath.ErrInvalidPath, pairs[i].Path)
		}
		insertions = append(insertions, insertion{
			parent: parent,
			index:  last.Index,
			items:  itemsOf(pair.value, eachElement),
		})
	}

	for _, ins := range insertions {
		doc, err = editRoot(doc, ins.parent, func(current value.Value) (outcome, error) {
			switch current.Kind() {
			case value.KindNull:
				return replaceWith(value.Array(ins.items...)), nil
			case value.KindArray:
				return replaceWith(current.InsertAt(ins.index, ins.items...)), nil
			}
			return keep(), nil
		})
		if err != nil {
			return value.Value{}, err
		}
	}
	return doc, nil
}

// ArrayAppend adds each assignment's value at the end of the array its path
// names. A null target becomes an array of the appended values; any other
// non-array target is left unchanged.
//
// When eachElement is true an array value contributes its elements instead of
// itself.
func ArrayAppend(doc value.Value, eachElement bool, pairs ...Assignment) (value.Value, error) {
	compiled, err := compileAssignments(pairs)
	if err != nil {
		return value.Value{}, err
	}

	for _, pair := range compiled {
		items := itemsOf(pair.value, eachElement)
		doc, err = editRoot(doc, pair.path, func(current value.Value) (outcome, error) {
			switch current.Kind() {
			case value.KindNull:
				return replaceWith(value.Array(items...)), nil
			case value.KindArray:
				return replaceWith(current.Append(items...)), nil
			}
			return keep(), nil
		})
		if err != nil {
			return value.Value{}, err
		}
	}
	return doc, nil
}

func itemsOf(v value.Value, eachElement bool) []value.Value {
	if !eachElement || v.Kind() != value.KindArray {
		return []value.Value{v}
	}
	items := make([]value.Value, 0, v.Len())
	for _, e := range v.Elements() {
		items = append(items, e)
	}
	return items
}
