package jsonpath

import (
	"errors"
	"fmt"
)

// ErrInvalidPath indicates a path expression syntax error during compilation.
var ErrInvalidPath = errors.New("jsonpath: invalid path")

func pathError(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrInvalidPath, fmt.Sprintf(format, args...))
}
