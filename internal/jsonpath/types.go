package jsonpath

import (
	"strconv"
	"strings"
)

// Mode selects how evaluation treats arrays met by a name step.
type Mode uint8

const (
	Strict Mode = iota
	Lax
	LaxRecursive
)

func (m Mode) String() string {
	switch m {
	case Lax:
		return "lax"
	case LaxRecursive:
		return "lax recursive"
	}
	return "strict"
}

// StepKind identifies what a single path step selects.
type StepKind uint8

const (
	StepKey StepKind = iota + 1
	StepIndex
	StepWildcard
)

// Step is one element of a compiled path.
type Step struct {
	Kind  StepKind
	Key   string // object member name for StepKey
	Index int    // array position for StepIndex
}

func Key(name string) Step {
	return Step{Kind: StepKey, Key: name}
}

func Index(i int) Step {
	return Step{Kind: StepIndex, Index: i}
}

func Wildcard() Step {
	return Step{Kind: StepWildcard}
}

// Path is a compiled path expression: the traversal mode and the steps that
// follow the root marker. A path without steps addresses the root.
type Path struct {
	Mode  Mode
	Steps []Step
}

// IsRoot reports whether p addresses the whole document.
func (p Path) IsRoot() bool {
	return len(p.Steps) == 0
}

// Concrete reports whether p names at most one location, that is, it has no
// wildcard step.
func (p Path) Concrete() bool {
	for _, s := range p.Steps {
		if s.Kind == StepWildcard {
			return false
		}
	}
	return true
}

// Parent splits p into the path of its parent and its last step.
// ok is false for the root path.
func (p Path) Parent() (parent Path, last Step, ok bool) {
	if p.IsRoot() {
		return Path{}, Step{}, false
	}
	n := len(p.Steps) - 1
	return Path{Mode: p.Mode, Steps: p.Steps[:n:n]}, p.Steps[n], true
}

// String renders p in canonical form; Compile(p.String()) yields p.
func (p Path) String() string {
	var b strings.Builder
	if p.Mode != Strict {
		b.WriteString(p.Mode.String())
		b.WriteByte(' ')
	}
	b.WriteByte('$')
	for _, s := range p.Steps {
		switch s.Kind {
		case StepKey:
			writeKey(&b, s.Key, true)
		case StepIndex:
			b.WriteByte('[')
			b.WriteString(strconv.Itoa(s.Index))
			b.WriteByte(']')
		case StepWildcard:
			b.WriteString("[*]")
		}
	}
	return b.String()
}

// AppendKey extends a dotted key path with one more key. Keys that are safe
// identifiers are joined with a dot, all others use quoted bracket form:
//
//	AppendKey("", "a")      == "a"
//	AppendKey("a", "b")     == "a.b"
//	AppendKey("a", "b c")   == `a["b c"]`
func AppendKey(prefix, key string) string {
	var b strings.Builder
	b.WriteString(prefix)
	writeKey(&b, key, prefix != "")
	return b.String()
}

func writeKey(b *strings.Builder, key string, dotted bool) {
	if !IsIdentifier(key) {
		b.WriteByte('[')
		b.WriteString(QuoteKey(key))
		b.WriteByte(']')
		return
	}
	if dotted {
		b.WriteByte('.')
	}
	b.WriteString(key)
}

// IsIdentifier reports whether key matches [A-Za-z_][A-Za-z0-9_]*.
func IsIdentifier(key string) bool {
	if key == "" {
		return false
	}
	for i := 0; i < len(key); i++ {
		c := key[i]
		switch {
		case c == '_', c >= 'a' && c <= 'z', c >= 'A' && c <= 'Z':
		case c >= '0' && c <= '9' && i > 0:
		default:
			return false
		}
	}
	return true
}

// QuoteKey renders key as a double-quoted string that the path compiler reads
// back unchanged.
func QuoteKey(key string) string {
	const hex = "0123456789abcdef"

	var b strings.Builder
	b.WriteByte('"')
	for i := 0; i < len(key); i++ {
		c := key[i]
		switch {
		case c == '"' || c == '\\':
			b.WriteByte('\\')
			b.WriteByte(c)
		case c == '\n':
			b.WriteString(`\n`)
		case c == '\t':
			b.WriteString(`\t`)
		case c == '\r':
			b.WriteString(`\r`)
		case c < 0x20:
			b.WriteString(`\u00`)
			b.WriteByte(hex[c>>4])
			b.WriteByte(hex[c&0xf])
		default:
			b.WriteByte(c)
		}
	}
	b.WriteByte('"')
	return b.String()
}
