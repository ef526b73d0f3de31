package formatter

import (
	"github.com/jacoelho/jsonops/internal/results"
)

// Formatter renders batch summaries and debug traces. Implementations decide
// where the output goes.
type Formatter interface {
	Format(summary *results.Summary) error
	// Debug writes a labelled payload, such as the input or output of a row.
	Debug(description string, data []byte) error
}
