// Package results collects the outcome of a batch run.
package results

import (
	"time"

	"github.com/google/uuid"
)

// RowResult describes one input row that failed.
type RowResult struct {
	Line     int
	Duration time.Duration
	Error    error
}

// RowResultBuilder accumulates a row outcome while the row is processed.
type RowResultBuilder struct {
	line     int
	duration time.Duration
	null     bool
	err      error
}

func NewRowResultBuilder(line int) *RowResultBuilder {
	return &RowResultBuilder{
		line: line,
	}
}

func (b *RowResultBuilder) WithDuration(duration time.Duration) *RowResultBuilder {
	b.duration = duration
	return b
}

// WithNull marks a row whose result had no value.
func (b *RowResultBuilder) WithNull() *RowResultBuilder {
	b.null = true
	return b
}

func (b *RowResultBuilder) WithError(err error) *RowResultBuilder {
	b.err = err
	return b
}

func (b *RowResultBuilder) Build() RowResult {
	return RowResult{
		Line:     b.line,
		Duration: b.duration,
		Error:    b.err,
	}
}

// Summary aggregates every row of one run. Only failed rows are kept
// individually.
type Summary struct {
	RunID         string
	Failures      []RowResult
	ExecutedRows  int
	SucceededRows int
	FailedRows    int
	NullRows      int
	TotalDuration time.Duration
}

// NewSummary starts a summary under a fresh run id.
func NewSummary() *Summary {
	return &Summary{
		RunID: uuid.NewString(),
	}
}

func (s *Summary) Add(builder *RowResultBuilder) {
	result := builder.Build()
	s.ExecutedRows++

	switch {
	case result.Error != nil:
		s.FailedRows++
		s.Failures = append(s.Failures, result)
	case builder.null:
		s.NullRows++
		s.SucceededRows++
	default:
		s.SucceededRows++
	}
}

func (s *Summary) SetTotalDuration(duration time.Duration) {
	s.TotalDuration = duration
}

func (s *Summary) RowsPerSecond() float64 {
	if s.TotalDuration == 0 {
		return 0
	}
	return float64(s.ExecutedRows) / s.TotalDuration.Seconds()
}

func (s *Summary) SuccessPercentage() float64 {
	if s.ExecutedRows == 0 {
		return 0
	}
	return (float64(s.SucceededRows) / float64(s.ExecutedRows)) * 100
}

func (s *Summary) FailurePercentage() float64 {
	if s.ExecutedRows == 0 {
		return 0
	}
	return (float64(s.FailedRows) / float64(s.ExecutedRows)) * 100
}
