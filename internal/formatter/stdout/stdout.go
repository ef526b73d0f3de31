package stdout

import (
	"fmt"
	"io"
	"os"

	"github.com/jacoelho/jsonops/internal/formatter"
	"github.com/jacoelho/jsonops/internal/results"
)

const (
	ruler      = "--------------------------------------------------------------------------------"
	debugRuler = "========================================"
)

// Formatter writes plain text.
type Formatter struct {
	writer io.Writer
}

// New creates a formatter that writes to stderr, keeping stdout for row
// results.
func New() formatter.Formatter {
	return &Formatter{
		writer: os.Stderr,
	}
}

// NewWithWriter creates a formatter with a custom writer.
func NewWithWriter(writer io.Writer) formatter.Formatter {
	return &Formatter{
		writer: writer,
	}
}

func (f *Formatter) Format(s *results.Summary) error {
	if s == nil {
		return nil
	}

	for _, failure := range s.Failures {
		_, err := fmt.Fprintf(f.writer, "line %d: Failed: %v (%d ms)\n",
			failure.Line, failure.Error, failure.Duration.Milliseconds())
		if err != nil {
			return err
		}
	}

	if _, err := fmt.Fprintln(f.writer, ruler); err != nil {
		return err
	}

	if _, err := fmt.Fprintf(f.writer, "Run:            %s\n", s.RunID); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(f.writer, "Executed rows:  %d (%.2f/s)\n", s.ExecutedRows, s.RowsPerSecond()); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(f.writer, "Succeeded rows: %d (%.1f%%)\n", s.SucceededRows, s.SuccessPercentage()); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(f.writer, "Failed rows:    %d (%.1f%%)\n", s.FailedRows, s.FailurePercentage()); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(f.writer, "NULL results:   %d\n", s.NullRows); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(f.writer, "Duration:       %d ms\n", s.TotalDuration.Milliseconds()); err != nil {
		return err
	}

	return nil
}

func (f *Formatter) Debug(description string, data []byte) error {
	if _, err := fmt.Fprintln(f.writer, debugRuler); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(f.writer, "%s:\n", description); err != nil {
		return err
	}
	if _, err := fmt.Fprintln(f.writer, debugRuler); err != nil {
		return err
	}

	if _, err := f.writer.Write(data); err != nil {
		return err
	}

	_, err := fmt.Fprintln(f.writer)
	return err
}
