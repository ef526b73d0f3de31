// Package script decodes YAML operation scripts: an ordered list of steps that
// is applied to every document of a batch.
//
//	- op: set
//	  pairs:
//	    - path: $.customer.tier
//	      value: gold
//	- op: strip_nulls
//	  remove_empty: true
//	- op: extract
//	  path: lax $.items.sku
package script

import (
	"errors"
	"fmt"
	"io"
	"strconv"

	yaml "github.com/goccy/go-yaml"
	"github.com/goccy/go-yaml/ast"

	"github.com/jacoelho/jsonops/internal/value"
)

// ErrParser wraps every YAML decoding failure.
var ErrParser = errors.New("script parser error")

// Step is one operation of a script. Which fields apply depends on Op.
type Step struct {
	Op            string   `yaml:"op"`
	Path          string   `yaml:"path,omitempty"`          // strip_nulls, parse_decimal, projections
	Paths         []string `yaml:"paths,omitempty"`         // remove
	Pairs         []Pair   `yaml:"pairs,omitempty"`         // set, replace, array_insert, array_append
	EachElement   bool     `yaml:"each_element,omitempty"`  // array_insert, array_append
	IncludeArrays bool     `yaml:"include_arrays,omitempty"` // strip_nulls
	RemoveEmpty   bool     `yaml:"remove_empty,omitempty"`  // strip_nulls
	Profile       string   `yaml:"profile,omitempty"`       // parse_decimal
	Safe          bool     `yaml:"safe,omitempty"`          // parse_decimal
	Mode          string   `yaml:"mode,omitempty"`          // keys
	MaxDepth      int      `yaml:"max_depth,omitempty"`     // keys
}

// Pair is a path with the value an update writes there. The value is given
// either as YAML (Value) or as JSON text (JSON), which keeps number precision
// that YAML floats lose.
type Pair struct {
	Path  string  `yaml:"path"`
	Value Literal `yaml:"value,omitempty"`
	JSON  string  `yaml:"json,omitempty"`
}

// Literal is a JSON value written in YAML. Mappings keep their key order.
type Literal struct {
	Value value.Value
	set   bool
}

func (l *Literal) UnmarshalYAML(node ast.Node) error {
	v, err := nodeToValue(node)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrParser, err)
	}
	l.Value = v
	l.set = true
	return nil
}

// Parse decodes a YAML sequence of steps.
func Parse(r io.Reader) ([]Step, error) {
	decoder := yaml.NewDecoder(r)
	var steps []Step

	if err := decoder.Decode(&steps); err != nil {
		return nil, fmt.Errorf("%w: failed to decode YAML: %v", ErrParser, err)
	}

	return steps, nil
}

func nodeToValue(node ast.Node) (value.Value, error) {
	switch n := node.(type) {
	case nil, *ast.NullNode:
		return value.Null(), nil
	case *ast.BoolNode:
		return value.Bool(n.Value), nil
	case *ast.StringNode:
		return value.String(n.Value), nil
	case *ast.LiteralNode:
		if n.Value == nil {
			return value.String(""), nil
		}
		return value.String(n.Value.Value), nil
	case *ast.IntegerNode:
		switch i := n.Value.(type) {
		case int64:
			return value.Int(i), nil
		case uint64:
			return value.NumberFromString(strconv.FormatUint(i, 10))
		}
		return value.Value{}, fmt.Errorf("unexpected integer node value type: %T", n.Value)
	case *ast.FloatNode:
		if v, err := value.NumberFromString(n.GetToken().Value); err == nil {
			return v, nil
		}
		return value.NumberFromString(strconv.FormatFloat(n.Value, 'g', -1, 64))
	case *ast.TagNode:
		return nodeToValue(n.Value)
	case *ast.AnchorNode:
		return nodeToValue(n.Value)
	case *ast.SequenceNode:
		elems := make([]value.Value, 0, len(n.Values))
		for index, item := range n.Values {
			v, err := nodeToValue(item)
			if err != nil {
				return value.Value{}, fmt.Errorf("index %d: %w", index, err)
			}
			elems = append(elems, v)
		}
		return value.Array(elems...), nil
	case *ast.MappingNode:
		return mappingToValue(n.Values)
	case *ast.MappingValueNode:
		return mappingToValue([]*ast.MappingValueNode{n})
	default:
		return value.Value{}, fmt.Errorf("unsupported YAML node %s", node.Type())
	}
}

func mappingToValue(pairs []*ast.MappingValueNode) (value.Value, error) {
	members := make([]value.Member, 0, len(pairs))
	for _, pair := range pairs {
		keyNode, ok := pair.Key.(*ast.StringNode)
		if !ok {
			return value.Value{}, fmt.Errorf("mapping key must be string, got %s", pair.Key.Type())
		}
		v, err := nodeToValue(pair.Value)
		if err != nil {
			return value.Value{}, fmt.Errorf("key %q: %w", keyNode.Value, err)
		}
		members = append(members, value.Member{Key: keyNode.Value, Value: v})
	}
	return value.Object(members...), nil
}
