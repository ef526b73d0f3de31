// Package executor runs a compiled script over a stream of newline-delimited
// JSON documents.
package executor

import (
	"bufio"
	"bytes"
	"context"
	"fmt"
	"io"
	"os"

	"github.com/jacoelho/jsonops/internal/clock"
	"github.com/jacoelho/jsonops/internal/config"
	"github.com/jacoelho/jsonops/internal/exit"
	"github.com/jacoelho/jsonops/internal/formatter"
	"github.com/jacoelho/jsonops/internal/formatter/stdout"
	"github.com/jacoelho/jsonops/internal/ratelimit"
	"github.com/jacoelho/jsonops/internal/results"
	"github.com/jacoelho/jsonops/internal/script"
	"github.com/jacoelho/jsonops/internal/value"
)

// NullResult is written for a row whose script produced no value.
const NullResult = "NULL"

type Runner struct {
	program   script.Program
	config    *config.Config
	limiter   *ratelimit.Limiter
	formatter formatter.Formatter
	output    io.Writer
	errOutput io.Writer
}

// New loads and compiles the configured script.
func New(cfg *config.Config) (*Runner, *exit.Result) {
	program, err := compileFile(cfg.ScriptFile)
	if err != nil {
		return nil, exit.Errorf("Error: %v\n", err)
	}

	return NewWithProgram(program, cfg), nil
}

// NewWithProgram creates a runner for an already compiled script.
func NewWithProgram(program script.Program, cfg *config.Config) *Runner {
	return &Runner{
		program:   program,
		config:    cfg,
		limiter:   ratelimit.New(cfg.RateLimit, cfg.Burst),
		formatter: stdout.New(),
		output:    os.Stdout,
		errOutput: os.Stderr,
	}
}

// SetOutput sets where row results are written.
func (r *Runner) SetOutput(w io.Writer) {
	r.output = w
}

// SetErrorOutput sets where diagnostics, debug traces and the summary go.
func (r *Runner) SetErrorOutput(w io.Writer) {
	r.errOutput = w
	r.formatter = stdout.NewWithWriter(r.errorWriter())
}

func (r *Runner) payloadWriter() io.Writer {
	if r.output == nil {
		return io.Discard
	}
	return r.output
}

func (r *Runner) errorWriter() io.Writer {
	if r.errOutput == nil {
		return io.Discard
	}
	return r.errOutput
}

func (r *Runner) logf(format string, args ...any) {
	_, _ = fmt.Fprintf(r.errorWriter(), format, args...)
}

// Run processes the configured input and prints the summary. The exit code
// is exit.CodeRowFailures when any row failed.
func (r *Runner) Run(ctx context.Context) int {
	in, closeInput, err := r.openInput()
	if err != nil {
		r.logf("Error: %v\n", err)
		return exit.CodeError
	}
	defer closeInput()

	summary, err := r.Process(ctx, in)
	if fmtErr := r.formatter.Format(summary); fmtErr != nil {
		r.logf("Error formatting results: %v\n", fmtErr)
	}

	switch {
	case err != nil:
		r.logf("\nError: %v\n", err)
		return exit.CodeError
	case summary.FailedRows > 0:
		return exit.CodeRowFailures
	}
	return exit.CodeSuccess
}

func (r *Runner) openInput() (io.Reader, func(), error) {
	if r.config.Input == "" || r.config.Input == config.StdinInput {
		return os.Stdin, func() {}, nil
	}

	file, err := os.Open(r.config.Input)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open input %s: %w", r.config.Input, err)
	}
	return file, func() { _ = file.Close() }, nil
}

// Process applies the script to every non-blank line of in. A row that fails
// is recorded in the summary and skipped; reading or writing errors and
// cancellation stop the run.
func (r *Runner) Process(ctx context.Context, in io.Reader) (*results.Summary, error) {
	summary := results.NewSummary()
	overallStart := clock.Now()

	out := bufio.NewWriter(r.payloadWriter())
	scanner := bufio.NewScanner(in)
	maxLineSize := r.config.MaxLineSize
	if maxLineSize <= 0 {
		maxLineSize = config.DefaultMaxLineSize
	}
	scanner.Buffer(make([]byte, 0, min(maxLineSize, 64<<10)), maxLineSize)

	finish := func(err error) (*results.Summary, error) {
		if flushErr := out.Flush(); err == nil && flushErr != nil {
			err = fmt.Errorf("write results: %w", flushErr)
		}
		summary.SetTotalDuration(clock.Since(overallStart))
		return summary, err
	}

	line := 0
	for scanner.Scan() {
		line++

		select {
		case <-ctx.Done():
			return finish(ctx.Err())
		default:
		}

		raw := bytes.TrimSpace(scanner.Bytes())
		if len(raw) == 0 {
			continue
		}

		if err := r.limiter.Wait(ctx); err != nil {
			return finish(err)
		}

		result, err := r.processRow(out, line, raw)
		summary.Add(result)
		if err != nil {
			return finish(err)
		}
	}

	if err := scanner.Err(); err != nil {
		return finish(fmt.Errorf("read input at line %d: %w", line+1, err))
	}

	return finish(nil)
}

// processRow runs the script on one row and writes its result. The returned
// error is reserved for failures that end the run.
func (r *Runner) processRow(w io.Writer, line int, raw []byte) (*results.RowResultBuilder, error) {
	builder := results.NewRowResultBuilder(line)
	start := clock.Now()
	defer func() {
		builder.WithDuration(clock.Since(start))
	}()

	r.debug(fmt.Sprintf("INPUT line %d", line), raw)

	doc, err := value.Parse(raw)
	if err != nil {
		builder.WithError(err)
		return builder, nil
	}

	out, ok, err := r.program.Apply(doc)
	if err != nil {
		builder.WithError(err)
		return builder, nil
	}

	payload := []byte(NullResult)
	switch {
	case !ok:
		builder.WithNull()
	case r.program.ScalarOutput():
		payload = []byte(value.Text(out))
	case r.config.Pretty:
		payload = value.MarshalIndent(out)
	default:
		payload = value.Marshal(out)
	}

	r.debug(fmt.Sprintf("OUTPUT line %d", line), payload)

	if err := writeResult(w, payload); err != nil {
		return builder, err
	}
	return builder, nil
}

func writeResult(w io.Writer, payload []byte) error {
	if _, err := w.Write(payload); err != nil {
		return fmt.Errorf("write results: %w", err)
	}
	if _, err := io.WriteString(w, "\n"); err != nil {
		return fmt.Errorf("write results: %w", err)
	}
	return nil
}

func (r *Runner) debug(description string, data []byte) {
	if !r.config.Debug {
		return
	}
	if err := r.formatter.Debug(description, data); err != nil {
		r.logf("Error formatting debug output: %v\n", err)
	}
}

func compileFile(filename string) (script.Program, error) {
	file, err := os.Open(filename)
	if err != nil {
		return script.Program{}, fmt.Errorf("failed to open script %s: %w", filename, err)
	}
	defer file.Close()

	steps, err := script.Parse(file)
	if err != nil {
		return script.Program{}, fmt.Errorf("failed to parse script %s: %w", filename, err)
	}

	program, err := script.Compile(steps)
	if err != nil {
		return script.Program{}, fmt.Errorf("failed to validate script %s: %w", filename, err)
	}

	return program, nil
}
