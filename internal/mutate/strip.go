package mutate

import (
	"github.com/jacoelho/jsonops/internal/value"
)

// StripOptions controls StripNulls.
type StripOptions struct {
	// IncludeArrays also drops null array elements, and empty containers held
	// by arrays when RemoveEmpty is set.
	IncludeArrays bool
	// RemoveEmpty drops objects and arrays that are empty once their own nulls
	// are gone, including containers that were empty to begin with.
	RemoveEmpty bool
}

// StripNulls removes object members whose value is null from the subtree at
// path, recursively. An empty path strips the whole document.
//
// With RemoveEmpty a subtree left empty is removed from its parent; when the
// whole document ends up empty the result is null.
func StripNulls(doc value.Value, path string, opts StripOptions) (value.Value, error) {
	if path == "" {
		path = "$"
	}
	p, err := compileLocation(path)
	if err != nil {
		return value.Value{}, err
	}

	s := stripper{opts: opts}
	return editRoot(doc, p, func(current value.Value) (outcome, error) {
		cleaned, changed, err := s.strip(current, 1)
		switch {
		case err != nil:
			return outcome{}, err
		case s.dropsEmpty(cleaned) && p.IsRoot():
			return replaceWith(value.Null()), nil
		case s.dropsEmpty(cleaned):
			return removal(), nil
		case !changed:
			return keep(), nil
		}
		return replaceWith(cleaned), nil
	})
}

type stripper struct {
	opts StripOptions
}

func (s stripper) dropsEmpty(v value.Value) bool {
	return s.opts.RemoveEmpty && v.IsContainer() && v.Len() == 0
}

// strip returns node without its nulls. changed is false when node is returned
// as is. depth is the nesting level of node when it is a container; leaves
// do not count.
func (s stripper) strip(node value.Value, depth int) (value.Value, bool, error) {
	if !node.IsContainer() {
		return node, false, nil
	}
	if err := value.CheckDepth(depth); err != nil {
		return value.Value{}, false, err
	}

	if node.Kind() == value.KindObject {
		return s.stripObject(node, depth)
	}
	return s.stripArray(node, depth)
}

func (s stripper) stripObject(node value.Value, depth int) (value.Value, bool, error) {
	members := make([]value.Member, 0, node.Len())
	changed := false
	for key, child := range node.Members() {
		if child.IsNull() {
			changed = true
			continue
		}
		cleaned, childChanged, err := s.strip(child, depth+1)
		if err != nil {
			return value.Value{}, false, err
		}
		if s.dropsEmpty(cleaned) {
			changed = true
			continue
		}
		changed = changed || childChanged
		members = append(members, value.Member{Key: key, Value: cleaned})
	}
	if !changed {
		return node, false, nil
	}
	return value.Object(members...), true, nil
}

func (s stripper) stripArray(node value.Value, depth int) (value.Value, bool, error) {
	elems := make([]value.Value, 0, node.Len())
	changed := false
	for _, child := range node.Elements() {
		if s.opts.IncludeArrays && child.IsNull() {
			changed = true
			continue
		}
		cleaned, childChanged, err := s.strip(child, depth+1)
		if err != nil {
			return value.Value{}, false, err
		}
		if s.opts.IncludeArrays && s.dropsEmpty(cleaned) {
			changed = true
			continue
		}
		changed = changed || childChanged
		elems = append(elems, cleaned)
	}
	if !changed {
		return node, false, nil
	}
	return value.Array(elems...), true, nil
}
