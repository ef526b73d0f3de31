package value

import (
	"errors"
	"fmt"
)

// MaxDepth bounds the nesting of a document during parsing, path evaluation and
// recursive mutation.
const MaxDepth = 1000

var (
	// ErrMalformed indicates the document text is not a single valid JSON value.
	ErrMalformed = errors.New("value: malformed JSON document")

	// ErrDepthExceeded indicates a document nests deeper than MaxDepth.
	ErrDepthExceeded = errors.New("value: maximum nesting depth exceeded")
)

func malformedError(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrMalformed, fmt.Sprintf(format, args...))
}

// CheckDepth returns ErrDepthExceeded when depth is past MaxDepth.
func CheckDepth(depth int) error {
	if depth > MaxDepth {
		return fmt.Errorf("%w: depth %d > %d", ErrDepthExceeded, depth, MaxDepth)
	}
	return nil
}
