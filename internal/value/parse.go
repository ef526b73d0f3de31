package value

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"

	"github.com/cockroachdb/apd/v3"
)

// maxExpandedDigits bounds how many digits a positive exponent may expand a
// number to when it is rewritten in exponent-free form.
const maxExpandedDigits = 4096

// Parse decodes a single JSON document. A bare scalar is a complete document.
// Duplicate object keys keep their first occurrence.
func Parse(data []byte) (Value, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	tok, err := dec.Token()
	if errors.Is(err, io.EOF) {
		return Value{}, malformedError("empty document")
	}
	if err != nil {
		return Value{}, malformedError("%v", err)
	}

	v, err := decodeToken(dec, tok, 1)
	if err != nil {
		return Value{}, err
	}

	if _, err := dec.Token(); !errors.Is(err, io.EOF) {
		return Value{}, malformedError("trailing data after document")
	}

	return v, nil
}

// ParseString is Parse for document text held in a string.
func ParseString(s string) (Value, error) {
	return Parse([]byte(s))
}

// MustParse is like ParseString but panics on error. It is meant for tests and
// package-level fixtures.
func MustParse(s string) Value {
	v, err := ParseString(s)
	if err != nil {
		panic(err)
	}
	return v
}

// NumberFromString builds a number leaf from JSON number text. Exponents
// beyond the range apd accepts fail with ErrMalformed.
func NumberFromString(s string) (Value, error) {
	d, _, err := apd.NewFromString(s)
	if err != nil || d.Form != apd.Finite {
		return Value{}, malformedError("invalid number %q", s)
	}
	return Value{kind: KindNumber, num: canonicalize(d)}, nil
}

// canonicalize rewrites positive exponents into plain digits when the result
// stays within maxExpandedDigits, and drops the sign of zero.
func canonicalize(d *apd.Decimal) *apd.Decimal {
	if d.IsZero() {
		d.Negative = false
	}
	if d.Exponent <= 0 {
		return d
	}
	digits := d.NumDigits() + int64(d.Exponent)
	if digits > maxExpandedDigits {
		return d
	}
	out := new(apd.Decimal)
	ctx := apd.BaseContext.WithPrecision(uint32(digits))
	if _, err := ctx.Quantize(out, d, 0); err != nil {
		return d
	}
	return out
}

func decodeToken(dec *json.Decoder, tok json.Token, depth int) (Value, error) {
	switch t := tok.(type) {
	case json.Delim:
		if err := CheckDepth(depth); err != nil {
			return Value{}, err
		}
		switch t {
		case '{':
			return decodeObject(dec, depth)
		case '[':
			return decodeArray(dec, depth)
		}
		return Value{}, malformedError("unexpected delimiter %q", t)
	case string:
		return String(t), nil
	case json.Number:
		return NumberFromString(string(t))
	case bool:
		return Bool(t), nil
	case nil:
		return Null(), nil
	}
	return Value{}, malformedError("unexpected token %v", tok)
}

func decodeObject(dec *json.Decoder, depth int) (Value, error) {
	var members []Member
	seen := make(map[string]struct{})
	for {
		tok, err := dec.Token()
		if err != nil {
			return Value{}, malformedError("%v", err)
		}

		if d, ok := tok.(json.Delim); ok && d == '}' {
			return Value{kind: KindObject, members: members}, nil
		}

		key, ok := tok.(string)
		if !ok {
			return Value{}, malformedError("object key must be a string")
		}

		valueToken, err := dec.Token()
		if err != nil {
			return Value{}, malformedError("%v", err)
		}

		v, err := decodeToken(dec, valueToken, depth+1)
		if err != nil {
			return Value{}, err
		}

		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		members = append(members, Member{Key: key, Value: v})
	}
}

func decodeArray(dec *json.Decoder, depth int) (Value, error) {
	elems := make([]Value, 0)
	for {
		tok, err := dec.Token()
		if err != nil {
			return Value{}, malformedError("%v", err)
		}

		if d, ok := tok.(json.Delim); ok && d == ']' {
			return Value{kind: KindArray, elems: elems}, nil
		}

		v, err := decodeToken(dec, tok, depth+1)
		if err != nil {
			return Value{}, err
		}
		elems = append(elems, v)
	}
}
