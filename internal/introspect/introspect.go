// Package introspect reports the shape of JSON documents: the type of the
// outermost value and the set of key paths a document contains.
package introspect

import (
	"errors"
	"fmt"
	"math"
	"slices"

	"github.com/jacoelho/jsonops/internal/jsonpath"
	"github.com/jacoelho/jsonops/internal/stack"
	"github.com/jacoelho/jsonops/internal/value"
)

var ErrInvalidArgument = errors.New("introspect: invalid argument")

// TypeOf names the outermost kind of doc: object, array, string, number,
// boolean or null. An absent document (ok false) has no type.
func TypeOf(doc value.Value, ok bool) (string, bool) {
	if !ok {
		return "", false
	}
	return doc.Kind().String(), true
}

type keysOptions struct {
	mode     jsonpath.Mode
	maxDepth int
}

type KeysOption func(*keysOptions) error

// WithMode selects how arrays are traversed. Strict stops at arrays, lax looks
// into the objects held directly by an array, lax recursive also flattens
// nested arrays.
func WithMode(m jsonpath.Mode) KeysOption {
	return func(o *keysOptions) error {
		o.mode = m
		return nil
	}
}

// WithMaxDepth limits how many levels of object nesting are listed; 1 lists
// only the top-level keys.
func WithMaxDepth(n int) KeysOption {
	return func(o *keysOptions) error {
		if n <= 0 {
			return fmt.Errorf("%w: max depth must be positive, got %d", ErrInvalidArgument, n)
		}
		o.maxDepth = n
		return nil
	}
}

type frame struct {
	node value.Value
	// prefix is the key path of node, empty for the document root.
	prefix string
	// level counts the objects entered to reach node.
	level int
	// nesting counts every container entered, for the depth guard.
	nesting int
	// unwrapped is true when node is an element of an array the walk looked
	// through.
	unwrapped bool
}

// Keys lists every distinct key path in doc, sorted. Keys that are not safe
// identifiers are written in quoted bracket form, e.g. a["b c"].d.
func Keys(doc value.Value, opts ...KeysOption) ([]string, error) {
	o := keysOptions{mode: jsonpath.Strict, maxDepth: math.MaxInt}
	for _, opt := range opts {
		if err := opt(&o); err != nil {
			return nil, err
		}
	}

	seen := make(map[string]struct{})
	pending := stack.NewWithCapacity[frame](doc.Len() + 1)
	pending.Push(frame{node: doc})

	for !pending.IsEmpty() {
		f, _ := pending.Pop()
		if err := value.CheckDepth(f.nesting); err != nil {
			return nil, err
		}

		switch f.node.Kind() {
		case value.KindObject:
			if f.level >= o.maxDepth {
				continue
			}
			for key, child := range f.node.Members() {
				path := jsonpath.AppendKey(f.prefix, key)
				seen[path] = struct{}{}
				pending.Push(frame{node: child, prefix: path, level: f.level + 1, nesting: f.nesting + 1})
			}
		case value.KindArray:
			if !descends(o.mode, f.unwrapped) {
				continue
			}
			for _, elem := range f.node.Elements() {
				pending.Push(frame{node: elem, prefix: f.prefix, level: f.level, nesting: f.nesting + 1, unwrapped: true})
			}
		}
	}

	keys := make([]string, 0, len(seen))
	for k := range seen {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	return keys, nil
}

// descends reports whether the walk looks through an array under mode m.
func descends(m jsonpath.Mode, unwrapped bool) bool {
	switch m {
	case jsonpath.Lax:
		return !unwrapped
	case jsonpath.LaxRecursive:
		return true
	}
	return false
}
