// Package decimal converts decimal-formatted strings into fixed precision and
// scale number leaves.
//
// Accepted text is an optional sign placed before or after the digits,
// comma-grouped integer digits, an optional fraction and an optional exponent,
// surrounded by optional whitespace. Fractions longer than the profile scale
// are rounded half away from zero.
package decimal

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/cockroachdb/apd/v3"
	"github.com/jacoelho/jsonops/internal/value"
)

var (
	// ErrInvalidFormat indicates the text does not follow the decimal grammar.
	ErrInvalidFormat = errors.New("decimal: invalid format")

	// ErrOutOfRange indicates the number does not fit the target profile.
	ErrOutOfRange = errors.New("decimal: out of range")

	// ErrInvalidProfile indicates an unusable precision/scale pair.
	ErrInvalidProfile = errors.New("decimal: invalid profile")
)

// MaxPrecision is the widest supported profile.
const MaxPrecision = 76

// Profile bounds the total digits (Precision) and fractional digits (Scale)
// of a parsed number.
type Profile struct {
	Precision int
	Scale     int
}

var (
	// Decimal38 is the bounded-precision profile.
	Decimal38 = Profile{Precision: 38, Scale: 9}

	// Decimal76 is the wide profile.
	Decimal76 = Profile{Precision: 76, Scale: 38}
)

func (p Profile) String() string {
	return fmt.Sprintf("decimal(%d, %d)", p.Precision, p.Scale)
}

// ProfileByName returns the profile registered as name: "decimal38" or
// "decimal76".
func ProfileByName(name string) (Profile, error) {
	switch name {
	case "decimal38":
		return Decimal38, nil
	case "decimal76":
		return Decimal76, nil
	}
	return Profile{}, fmt.Errorf("%w: unknown profile %q", ErrInvalidProfile, name)
}

func (p Profile) validate() error {
	if p.Precision < 1 || p.Precision > MaxPrecision || p.Scale < 0 || p.Scale > p.Precision {
		return fmt.Errorf("%w: %s", ErrInvalidProfile, p)
	}
	return nil
}

// Parse converts text to a number leaf under profile p.
func Parse(text string, p Profile) (value.Value, error) {
	d, err := ParseDecimal(text, p)
	if err != nil {
		return value.Value{}, err
	}
	return value.Number(d), nil
}

// TryParse is Parse returning JSON null instead of a format or range error.
func TryParse(text string, p Profile) value.Value {
	v, err := Parse(text, p)
	if err != nil {
		return value.Null()
	}
	return v
}

// ParseDecimal converts text to a decimal rounded to p.Scale fractional digits.
func ParseDecimal(text string, p Profile) (*apd.Decimal, error) {
	if err := p.validate(); err != nil {
		return nil, err
	}

	n, err := scan(text)
	if err != nil {
		return nil, err
	}

	return n.round(text, p)
}

// number is the scanned form of the text: sign, significant digits and the
// power of ten applied to them.
type number struct {
	negative bool
	digits   string // no leading zeros; empty means zero
	exponent int64
	overflow bool // exponent did not fit int64
}

func (n number) round(text string, p Profile) (*apd.Decimal, error) {
	zero := apd.New(0, 0)
	if n.digits == "" {
		return zero, nil
	}

	intLimit := int64(p.Precision - p.Scale)
	if n.overflow {
		if n.exponent > 0 {
			return nil, rangeError(text, p)
		}
		return zero, nil
	}

	magnitude := int64(len(n.digits)) + n.exponent // digits left of the point
	if magnitude > intLimit {
		return nil, rangeError(text, p)
	}
	if magnitude < -int64(p.Scale) {
		return zero, nil // below half a unit of the last kept digit
	}

	d, _, err := apd.NewFromString(n.digits + "E" + strconv.FormatInt(n.exponent, 10))
	if err != nil {
		return nil, fmt.Errorf("%w: %q: %v", ErrInvalidFormat, text, err)
	}
	d.Negative = n.negative

	target := d.Exponent
	switch {
	case d.Exponent > 0:
		target = 0
	case d.Exponent < -int32(p.Scale):
		target = -int32(p.Scale)
	}

	if target != d.Exponent {
		ctx := apd.BaseContext.WithPrecision(uint32(p.Precision) + 1)
		ctx.Rounding = apd.RoundHalfUp
		rounded := new(apd.Decimal)
		if _, err := ctx.Quantize(rounded, d, target); err != nil {
			return nil, rangeError(text, p)
		}
		d = rounded
	}

	if d.IsZero() {
		return zero, nil
	}
	if integerDigits(d) > intLimit {
		return nil, rangeError(text, p)
	}
	return d, nil
}

func integerDigits(d *apd.Decimal) int64 {
	return max(d.NumDigits()+int64(d.Exponent), 0)
}

func rangeError(text string, p Profile) error {
	return fmt.Errorf("%w: %q does not fit %s", ErrOutOfRange, text, p)
}

func formatError(text string, reason string) error {
	return fmt.Errorf("%w: %q: %s", ErrInvalidFormat, text, reason)
}

func isDigit(c byte) bool {
	return c >= '0' && c <= '9'
}

func isSign(c byte) bool {
	return c == '+' || c == '-'
}

// scan validates text against the grammar and extracts its digits.
func scan(text string) (number, error) {
	var n number

	s := strings.TrimSpace(text)
	signs := 0
	if s != "" && isSign(s[0]) {
		n.negative = s[0] == '-'
		signs++
		s = s[1:]
	}
	if s != "" && isSign(s[len(s)-1]) {
		n.negative = s[len(s)-1] == '-'
		signs++
		s = s[:len(s)-1]
	}
	if signs > 1 {
		return number{}, formatError(text, "more than one sign")
	}
	if s == "" {
		return number{}, formatError(text, "no digits")
	}

	i := 0
	var intPart strings.Builder
	for i < len(s) && (isDigit(s[i]) || s[i] == ',') {
		if s[i] == ',' {
			if intPart.Len() == 0 {
				return number{}, formatError(text, "comma before first digit")
			}
		} else {
			intPart.WriteByte(s[i])
		}
		i++
	}

	var frac string
	if i < len(s) && s[i] == '.' {
		i++
		start := i
		for i < len(s) && isDigit(s[i]) {
			i++
		}
		frac = s[start:i]
	}

	if intPart.Len() == 0 && frac == "" {
		return number{}, formatError(text, "no digits")
	}

	var exponent int64
	if i < len(s) && (s[i] == 'e' || s[i] == 'E') {
		i++
		start := i
		if i < len(s) && isSign(s[i]) {
			i++
		}
		digitStart := i
		for i < len(s) && isDigit(s[i]) {
			i++
		}
		if i == digitStart {
			return number{}, formatError(text, "exponent without digits")
		}

		var err error
		exponent, err = strconv.ParseInt(s[start:i], 10, 64)
		if err != nil {
			n.overflow = true
			n.exponent = 1
			if s[start] == '-' {
				n.exponent = -1
			}
		}
	}

	if i < len(s) {
		return number{}, formatError(text, fmt.Sprintf("unexpected character %q", s[i]))
	}

	digits := strings.TrimLeft(intPart.String()+frac, "0")
	if digits == "" {
		return number{negative: n.negative}, nil
	}
	n.digits = digits
	if !n.overflow {
		// fraction digits shift the exponent; guard the subtraction
		if exponent < -(1<<62) {
			n.overflow = true
			n.exponent = -1
		} else {
			n.exponent = exponent - int64(len(frac))
		}
	}
	return n, nil
}
