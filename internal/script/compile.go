package script

import (
	"errors"
	"fmt"
	"strings"

	"github.com/jacoelho/jsonops/internal/decimal"
	"github.com/jacoelho/jsonops/internal/introspect"
	"github.com/jacoelho/jsonops/internal/jsonpath"
	"github.com/jacoelho/jsonops/internal/mutate"
	"github.com/jacoelho/jsonops/internal/query"
	"github.com/jacoelho/jsonops/internal/value"
)

var ErrInvalidScript = errors.New("invalid script")

const (
	OpSet           = "set"
	OpReplace       = "replace"
	OpRemove        = "remove"
	OpArrayInsert   = "array_insert"
	OpArrayAppend   = "array_append"
	OpStripNulls    = "strip_nulls"
	OpParseDecimal  = "parse_decimal"
	OpExtract       = "extract"
	OpExtractScalar = "extract_scalar"
	OpTypeOf        = "type_of"
	OpKeys          = "keys"
)

// apply runs one step. ok false means the step produced no value.
type apply func(doc value.Value) (out value.Value, ok bool, err error)

type instruction struct {
	op    string
	apply apply
}

// scalar reports whether the step projects a plain scalar that hosts print
// as text rather than JSON.
func (in instruction) scalar() bool {
	return in.op == OpExtractScalar || in.op == OpTypeOf
}

// Program is a compiled script.
type Program struct {
	instructions []instruction
}

// Len returns the number of steps.
func (p Program) Len() int {
	return len(p.instructions)
}

// ScalarOutput reports whether the script ends in extract_scalar or type_of.
// Their results are meant to be rendered with value.Text.
func (p Program) ScalarOutput() bool {
	n := len(p.instructions)
	return n > 0 && p.instructions[n-1].scalar()
}

// Apply runs every step on doc in order. ok is false when a projection found
// nothing, which hosts render as NULL rather than JSON null.
func (p Program) Apply(doc value.Value) (value.Value, bool, error) {
	for i, in := range p.instructions {
		out, ok, err := in.apply(doc)
		if err != nil {
			return value.Value{}, false, fmt.Errorf("step %d (%s): %w", i+1, in.op, err)
		}
		if !ok {
			return value.Value{}, false, nil
		}
		doc = out
	}
	return doc, true, nil
}

// Compile validates steps and binds them to their operations. Projections
// (extract, extract_scalar, type_of, keys) end a script and must come last.
func Compile(steps []Step) (Program, error) {
	if len(steps) == 0 {
		return Program{}, fmt.Errorf("%w: script has no steps", ErrInvalidScript)
	}

	instructions := make([]instruction, 0, len(steps))
	for index, step := range steps {
		fn, err := compileStep(step)
		if err != nil {
			return Program{}, fmt.Errorf("%w: step %d: %w", ErrInvalidScript, index+1, err)
		}
		if isProjection(step.Op) && index != len(steps)-1 {
			return Program{}, fmt.Errorf("%w: step %d: %s must be the last step", ErrInvalidScript, index+1, step.Op)
		}
		instructions = append(instructions, instruction{op: step.Op, apply: fn})
	}

	return Program{instructions: instructions}, nil
}

func isProjection(op string) bool {
	switch op {
	case OpExtract, OpExtractScalar, OpTypeOf, OpKeys:
		return true
	}
	return false
}

func compileStep(step Step) (apply, error) {
	switch step.Op {
	case OpSet, OpReplace:
		pairs, err := compilePairs(step, false)
		if err != nil {
			return nil, err
		}
		create := step.Op == OpSet
		return func(doc value.Value) (value.Value, bool, error) {
			out, err := mutate.Set(doc, create, pairs...)
			return out, err == nil, err
		}, nil

	case OpArrayInsert, OpArrayAppend:
		pairs, err := compilePairs(step, step.Op == OpArrayInsert)
		if err != nil {
			return nil, err
		}
		update := mutate.ArrayAppend
		if step.Op == OpArrayInsert {
			update = mutate.ArrayInsert
		}
		return func(doc value.Value) (value.Value, bool, error) {
			out, err := update(doc, step.EachElement, pairs...)
			return out, err == nil, err
		}, nil

	case OpRemove:
		if len(step.Paths) == 0 {
			return nil, errors.New("remove needs at least one path")
		}
		for _, path := range step.Paths {
			p, err := compileLocation(path)
			if err != nil {
				return nil, err
			}
			if p.IsRoot() {
				return nil, fmt.Errorf("%w: cannot remove the document root", mutate.ErrDisallowedOperation)
			}
		}
		return func(doc value.Value) (value.Value, bool, error) {
			out, err := mutate.Remove(doc, step.Paths...)
			return out, err == nil, err
		}, nil

	case OpStripNulls:
		if step.Path != "" {
			if _, err := compileLocation(step.Path); err != nil {
				return nil, err
			}
		}
		opts := mutate.StripOptions{IncludeArrays: step.IncludeArrays, RemoveEmpty: step.RemoveEmpty}
		return func(doc value.Value) (value.Value, bool, error) {
			out, err := mutate.StripNulls(doc, step.Path, opts)
			return out, err == nil, err
		}, nil

	case OpParseDecimal:
		return compileParseDecimal(step)

	case OpExtract, OpExtractScalar:
		p, err := compilePath(step)
		if err != nil {
			return nil, err
		}
		extract := query.Structured
		if step.Op == OpExtractScalar {
			extract = query.Scalar
		}
		return func(doc value.Value) (value.Value, bool, error) {
			return extract(doc, p)
		}, nil

	case OpTypeOf:
		if step.Path == "" {
			return typeOf, nil
		}
		p, err := compilePath(step)
		if err != nil {
			return nil, err
		}
		return func(doc value.Value) (value.Value, bool, error) {
			target, ok, err := query.Structured(doc, p)
			if err != nil || !ok {
				return value.Value{}, false, err
			}
			return typeOf(target)
		}, nil

	case OpKeys:
		return compileKeys(step)

	case "":
		return nil, errors.New("step op cannot be empty")
	}

	return nil, fmt.Errorf("unsupported op: %s", step.Op)
}

func typeOf(doc value.Value) (value.Value, bool, error) {
	name, ok := introspect.TypeOf(doc, true)
	return value.String(name), ok, nil
}

func compilePath(step Step) (jsonpath.Path, error) {
	if strings.TrimSpace(step.Path) == "" {
		return jsonpath.Path{}, fmt.Errorf("%s needs a path", step.Op)
	}
	return jsonpath.Compile(step.Path)
}

// compileLocation checks that expr names a single location.
func compileLocation(expr string) (jsonpath.Path, error) {
	p, err := jsonpath.Compile(expr)
	if err != nil {
		return jsonpath.Path{}, err
	}
	if !p.Concrete() {
		return jsonpath.Path{}, fmt.Errorf("%w: %q: wildcards are not allowed in updates", jsonpath.ErrInvalidPath, expr)
	}
	return p, nil
}

func compilePairs(step Step, needsIndex bool) ([]mutate.Assignment, error) {
	if len(step.Pairs) == 0 {
		return nil, fmt.Errorf("%s needs at least one pair", step.Op)
	}

	pairs := make([]mutate.Assignment, 0, len(step.Pairs))
	for index, pair := range step.Pairs {
		p, err := compileLocation(pair.Path)
		if err != nil {
			return nil, fmt.Errorf("pair %d: %w", index+1, err)
		}
		if needsIndex {
			if _, last, ok := p.Parent(); !ok || last.Kind != jsonpath.StepIndex {
				return nil, fmt.Errorf("pair %d: %w: %q must end in an index", index+1, jsonpath.ErrInvalidPath, pair.Path)
			}
		}

		v, err := pairValue(pair)
		if err != nil {
			return nil, fmt.Errorf("pair %d: %w", index+1, err)
		}
		pairs = append(pairs, mutate.Assignment{Path: pair.Path, Value: v})
	}
	return pairs, nil
}

func pairValue(pair Pair) (value.Value, error) {
	if pair.JSON == "" {
		return pair.Value.Value, nil
	}
	if pair.Value.set {
		return value.Value{}, errors.New("pair cannot define both value and json")
	}
	return value.ParseString(pair.JSON)
}

// compileParseDecimal converts the text at path into a number leaf. Numbers
// are re-parsed from their text so they also get the profile's scale; any
// other kind of value, or a missing location, is left alone.
func compileParseDecimal(step Step) (apply, error) {
	p, err := compilePath(step)
	if err != nil {
		return nil, err
	}
	if !p.Concrete() {
		return nil, fmt.Errorf("%w: %q: wildcards are not allowed in updates", jsonpath.ErrInvalidPath, step.Path)
	}
	p.Mode = jsonpath.Strict

	profile := decimal.Decimal38
	if step.Profile != "" {
		if profile, err = decimal.ProfileByName(step.Profile); err != nil {
			return nil, err
		}
	}

	return func(doc value.Value) (value.Value, bool, error) {
		leaf, ok, err := query.Scalar(doc, p)
		if err != nil {
			return value.Value{}, false, err
		}
		if !ok || (leaf.Kind() != value.KindString && leaf.Kind() != value.KindNumber) {
			return doc, true, nil
		}

		text := value.Text(leaf)
		number := decimal.TryParse(text, profile)
		if !step.Safe {
			if number, err = decimal.Parse(text, profile); err != nil {
				return value.Value{}, false, err
			}
		}

		out, err := mutate.Set(doc, false, mutate.Assignment{Path: step.Path, Value: number})
		return out, err == nil, err
	}, nil
}

func compileKeys(step Step) (apply, error) {
	var opts []introspect.KeysOption

	switch step.Mode {
	case "", "strict":
	case "lax":
		opts = append(opts, introspect.WithMode(jsonpath.Lax))
	case "lax recursive":
		opts = append(opts, introspect.WithMode(jsonpath.LaxRecursive))
	default:
		return nil, fmt.Errorf("unsupported keys mode: %s", step.Mode)
	}

	if step.MaxDepth != 0 {
		opts = append(opts, introspect.WithMaxDepth(step.MaxDepth))
	}
	// option errors surface here rather than on the first row
	if _, err := introspect.Keys(value.Null(), opts...); err != nil {
		return nil, err
	}

	return func(doc value.Value) (value.Value, bool, error) {
		keys, err := introspect.Keys(doc, opts...)
		if err != nil {
			return value.Value{}, false, err
		}
		elems := make([]value.Value, len(keys))
		for i, k := range keys {
			elems[i] = value.String(k)
		}
		return value.Array(elems...), true, nil
	}, nil
}
