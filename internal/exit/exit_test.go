package exit

import (
	"bytes"
	"os"
	"testing"
)

func TestSuccess(t *testing.T) {
	result := Success("usage")

	if result.ExitCode != CodeSuccess {
		t.Errorf("Success() ExitCode = %d, want %d", result.ExitCode, CodeSuccess)
	}
	if result.Message != "usage" {
		t.Errorf("Success() Message = %q, want %q", result.Message, "usage")
	}
	if result.Output != os.Stdout {
		t.Error("Success() expected output to stdout")
	}
}

func TestErrorf(t *testing.T) {
	result := Errorf("Error: %s missing\n", "script")

	if result.ExitCode != CodeError {
		t.Errorf("Errorf() ExitCode = %d, want %d", result.ExitCode, CodeError)
	}
	if result.Message != "Error: script missing\n" {
		t.Errorf("Errorf() Message = %q", result.Message)
	}
	if result.Output != os.Stderr {
		t.Error("Errorf() expected output to stderr")
	}
}

func TestResult_Print(t *testing.T) {
	var buf bytes.Buffer
	result := &Result{Output: &buf, ExitCode: CodeRowFailures, Message: "2 rows failed\n"}

	result.Print()

	if buf.String() != "2 rows failed\n" {
		t.Errorf("Print() wrote %q", buf.String())
	}
}
