package config

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/jacoelho/jsonops/internal/exit"
)

const (
	// StdinInput selects standard input as the row source.
	StdinInput = "-"

	// DefaultMaxLineSize bounds a single input row.
	DefaultMaxLineSize = 16 << 20
)

var (
	ErrNoArguments       = errors.New("no arguments provided")
	ErrNoScript          = errors.New("no script file specified")
	ErrTooManyScripts    = errors.New("exactly one script file is accepted")
	ErrInvalidSizeFormat = errors.New("size must be a number of bytes with an optional KiB, MiB or GiB suffix")
	ErrInvalidBurst      = errors.New("burst must be at least 1")
)

// Config represents the complete configuration for the jsonops tool.
type Config struct {
	ScriptFile string
	Input      string // file of newline-delimited JSON documents, "-" for stdin
	Debug      bool

	// Output
	Pretty bool

	// Throughput
	RateLimit   float64 // rows per second (0 = unlimited)
	Burst       int
	MaxLineSize int
}

// Validate validates the configuration and returns an error if invalid.
func (c *Config) Validate() error {
	if c.ScriptFile == "" {
		return ErrNoScript
	}

	if _, err := os.Stat(c.ScriptFile); err != nil {
		return fmt.Errorf("script file %s not found: %w", c.ScriptFile, err)
	}

	if c.Input != StdinInput {
		if _, err := os.Stat(c.Input); err != nil {
			return fmt.Errorf("input file %s not found: %w", c.Input, err)
		}
	}

	if c.Burst < 1 {
		return fmt.Errorf("%w, got: %d", ErrInvalidBurst, c.Burst)
	}

	return nil
}

// byteSizeFlag implements flag.Value for sizes such as 512, 64KiB or 1MiB.
type byteSizeFlag int

var sizeUnits = []struct {
	suffix string
	factor int
}{
	{"GiB", 1 << 30},
	{"MiB", 1 << 20},
	{"KiB", 1 << 10},
	{"B", 1},
}

func (b *byteSizeFlag) String() string {
	if b == nil {
		return ""
	}
	n := int(*b)
	for _, unit := range sizeUnits {
		if n != 0 && n%unit.factor == 0 {
			return strconv.Itoa(n/unit.factor) + unit.suffix
		}
	}
	return strconv.Itoa(n)
}

func (b *byteSizeFlag) Set(value string) error {
	text := strings.TrimSpace(value)
	factor := 1
	for _, unit := range sizeUnits {
		if trimmed, ok := strings.CutSuffix(text, unit.suffix); ok {
			text, factor = strings.TrimSpace(trimmed), unit.factor
			break
		}
	}

	n, err := strconv.Atoi(text)
	if err != nil || n <= 0 || n > int(^uint32(0)>>1)/factor {
		return fmt.Errorf("%w, got: %s", ErrInvalidSizeFormat, value)
	}

	*b = byteSizeFlag(n * factor)
	return nil
}

// Parse parses command-line arguments and returns a validated Config.
// If parsing fails or help is requested, returns nil config and exit result.
func Parse(args []string) (*Config, *exit.Result) {
	if len(args) == 0 {
		return nil, exit.Errorf("Error: %v\n\n%s", ErrNoArguments, Usage())
	}

	fs := flag.NewFlagSet(args[0], flag.ContinueOnError)

	// Suppress the default usage output since we handle it ourselves
	fs.Usage = func() {}
	// Suppress error output since we handle it ourselves
	fs.SetOutput(io.Discard)

	var (
		debug       = fs.Bool("debug", false, "Print every input row and its result to stderr")
		input       = fs.String("input", StdinInput, "Newline-delimited JSON input file (- for stdin)")
		pretty      = fs.Bool("pretty", false, "Pretty-print result documents")
		rateLimit   = fs.Float64("rate-limit", 0, "Rate limit in rows per second (0 for unlimited)")
		burst       = fs.Int("burst", 1, "Rows allowed at once above the rate limit")
		maxLineSize = byteSizeFlag(DefaultMaxLineSize)
	)

	fs.Var(&maxLineSize, "max-line-size", "Largest accepted input row, e.g. 512KiB or 16MiB")

	if err := fs.Parse(args[1:]); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return nil, exit.Success(Usage())
		}
		return nil, exit.Errorf("Error: failed to parse arguments: %v\n\n%s", err, Usage())
	}

	scripts := fs.Args()
	switch {
	case len(scripts) == 0:
		return nil, exit.Errorf("Error: %v\n\n%s", ErrNoScript, Usage())
	case len(scripts) > 1:
		return nil, exit.Errorf("Error: %v, got %d\n\n%s", ErrTooManyScripts, len(scripts), Usage())
	}

	config := &Config{
		ScriptFile:  scripts[0],
		Input:       *input,
		Debug:       *debug,
		Pretty:      *pretty,
		RateLimit:   *rateLimit,
		Burst:       *burst,
		MaxLineSize: int(maxLineSize),
	}

	if err := config.Validate(); err != nil {
		return nil, exit.Errorf("Error: %v\n\n%s", err, Usage())
	}

	return config, nil
}

// Usage returns a usage string for the CLI tool.
func Usage() string {
	return `jsonops - apply JSON query and mutation scripts to newline-delimited documents

Usage: jsonops [options] <script.yaml>

Options:
  --input FILE            Newline-delimited JSON input (default: - for stdin)
  --pretty                Pretty-print result documents
  --rate-limit N          Rate limit in rows per second (0 for unlimited)
  --burst N               Rows allowed at once above the rate limit (default: 1)
  --max-line-size SIZE    Largest accepted input row (default: 16MiB)
  --debug                 Print every input row and its result to stderr
  -h, --help              Show this help message

Results are written to stdout, one per line; NULL marks a row whose script
produced no value. extract_scalar and type_of results are printed as plain
text. Rows that fail to parse or to run write nothing to stdout and are
listed by line number in the run summary on stderr. Any failed row makes the
exit code 2.

Examples:
  jsonops clean.yaml < rows.ndjson               # Read rows from stdin
  jsonops --input rows.ndjson --pretty clean.yaml
  jsonops --rate-limit 100 --burst 10 clean.yaml # Throttle to 100 rows per second`
}
