package jsonpath

import (
	"math"
	"strconv"
	"strings"
	"unicode/utf16"
	"unicode/utf8"
)

func compile(expr string) (Path, error) {
	s := strings.TrimSpace(expr)
	if s == "" {
		return Path{}, pathError("expression cannot be empty")
	}

	mode, rest, err := parseMode(s)
	if err != nil {
		return Path{}, err
	}

	if rest == "" || rest[0] != '$' {
		return Path{}, pathError("expression must start with '$' after the optional mode")
	}

	path := Path{Mode: mode}
	i := 1 // current parsing index in rest, after '$'
	for i < len(rest) {
		step, newIndex, err := parseStep(rest, i)
		if err != nil {
			return Path{}, err
		}
		path.Steps = append(path.Steps, step)
		i = newIndex
	}

	return path, nil
}

// parseMode consumes the leading mode words and returns the remaining text.
func parseMode(s string) (Mode, string, error) {
	word, rest := nextWord(s)
	switch word {
	case "":
		return Strict, s, nil
	case "strict":
		return Strict, rest, nil
	case "lax":
		next, afterNext := nextWord(rest)
		if next == "recursive" {
			return LaxRecursive, afterNext, nil
		}
		if next != "" {
			return 0, "", pathError("unknown mode 'lax %s'", next)
		}
		return Lax, rest, nil
	}
	return 0, "", pathError("unknown mode '%s'", word)
}

// nextWord splits a leading run of ASCII letters from s and trims the spaces
// that follow it.
func nextWord(s string) (string, string) {
	i := 0
	for i < len(s) && ((s[i] >= 'a' && s[i] <= 'z') || (s[i] >= 'A' && s[i] <= 'Z')) {
		i++
	}
	return s[:i], strings.TrimLeft(s[i:], " \t\r\n")
}

func parseStep(expr string, i int) (Step, int, error) {
	switch expr[i] {
	case '.':
		return parseDotStep(expr, i)
	case '[':
		return parseBracketStep(expr, i)
	}
	return Step{}, i, pathError("unexpected token '%c' at position %d, expected '.' or '['", expr[i], i)
}

func parseDotStep(expr string, i int) (Step, int, error) {
	i++ // consume '.'
	if i >= len(expr) {
		return Step{}, i, pathError("path cannot end with '.'")
	}

	switch expr[i] {
	case '.':
		return Step{}, i, pathError("descendant segment '..' is not supported")
	case '*':
		return Wildcard(), i + 1, nil
	case '"', '\'':
		name, newIndex, err := parseQuoted(expr, i)
		if err != nil {
			return Step{}, i, err
		}
		return Key(name), newIndex, nil
	}

	start := i
	for i < len(expr) && idRune(expr[i]) {
		i++
	}
	if start == i {
		return Step{}, i, pathError("name cannot be empty after '.' at position %d", start)
	}
	return Key(expr[start:i]), i, nil
}

func parseBracketStep(expr string, i int) (Step, int, error) {
	open := i
	i = skipSpaces(expr, i+1) // consume '['
	if i >= len(expr) {
		return Step{}, i, pathError("unterminated bracket at position %d, missing ']'", open)
	}

	var step Step
	switch c := expr[i]; {
	case c == '*':
		step = Wildcard()
		i++
	case c == '"' || c == '\'':
		name, newIndex, err := parseQuoted(expr, i)
		if err != nil {
			return Step{}, i, err
		}
		step = Key(name)
		i = newIndex
	case c >= '0' && c <= '9':
		start := i
		for i < len(expr) && expr[i] >= '0' && expr[i] <= '9' {
			i++
		}
		idx, err := strconv.Atoi(expr[start:i])
		if err != nil || idx > math.MaxInt32 {
			return Step{}, i, pathError("array index '%s' is out of range", expr[start:i])
		}
		step = Index(idx)
	case c == '-':
		return Step{}, i, pathError("negative array index at position %d is not supported", i)
	case c == ']':
		return Step{}, i, pathError("empty bracket selector '[]' at position %d", open)
	default:
		return Step{}, i, pathError("invalid content '%c' in bracket selector at position %d", c, i)
	}

	i = skipSpaces(expr, i)
	if i >= len(expr) || expr[i] != ']' {
		return Step{}, i, pathError("unterminated bracket at position %d, missing ']'", open)
	}
	return step, i + 1, nil
}

// parseQuoted reads a single- or double-quoted name starting at expr[i] and
// returns the unescaped name and the index after the closing quote.
func parseQuoted(expr string, i int) (string, int, error) {
	quote := expr[i]
	start := i
	var b strings.Builder

	for i++; i < len(expr); i++ {
		c := expr[i]
		if c == quote {
			return b.String(), i + 1, nil
		}
		if c != '\\' {
			b.WriteByte(c)
			continue
		}

		i++
		if i >= len(expr) {
			break
		}
		switch expr[i] {
		case '"', '\'', '\\', '/':
			b.WriteByte(expr[i])
		case 'b':
			b.WriteByte('\b')
		case 'f':
			b.WriteByte('\f')
		case 'n':
			b.WriteByte('\n')
		case 'r':
			b.WriteByte('\r')
		case 't':
			b.WriteByte('\t')
		case 'u':
			r, newIndex, err := parseUnicodeEscape(expr, i+1)
			if err != nil {
				return "", i, err
			}
			b.WriteRune(r)
			i = newIndex - 1
		default:
			return "", i, pathError("invalid escape '\\%c' at position %d", expr[i], i)
		}
	}

	return "", i, pathError("unterminated quoted name starting at position %d", start)
}

// parseUnicodeEscape reads the four hex digits of a \u escape at expr[i:],
// combining a following low surrogate escape when present.
func parseUnicodeEscape(expr string, i int) (rune, int, error) {
	r, ok := hex4(expr, i)
	if !ok {
		return 0, i, pathError("invalid unicode escape at position %d", i)
	}
	i += 4

	if utf16.IsSurrogate(r) {
		if i+6 <= len(expr) && expr[i] == '\\' && expr[i+1] == 'u' {
			if low, ok := hex4(expr, i+2); ok {
				if combined := utf16.DecodeRune(r, low); combined != utf8.RuneError {
					return combined, i + 6, nil
				}
			}
		}
		return utf8.RuneError, i, nil
	}
	return r, i, nil
}

func hex4(s string, i int) (rune, bool) {
	if i+4 > len(s) {
		return 0, false
	}
	v, err := strconv.ParseUint(s[i:i+4], 16, 32)
	if err != nil {
		return 0, false
	}
	return rune(v), true
}

func skipSpaces(expr string, i int) int {
	for i < len(expr) && (expr[i] == ' ' || expr[i] == '\t') {
		i++
	}
	return i
}

// idRune checks if a byte is valid for unquoted names after '.'.
// Bytes of multi-byte UTF-8 sequences are accepted so names may be non-ASCII.
func idRune(b byte) bool {
	return (b >= 'a' && b <= 'z') || (b >= 'A' && b <= 'Z') || (b >= '0' && b <= '9') || b == '_' || b == '-' || b >= utf8.RuneSelf
}
