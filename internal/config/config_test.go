package config

import (
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"
)

func TestParse(t *testing.T) {
	tempDir := t.TempDir()
	script := filepath.Join(tempDir, "script.yaml")
	input := filepath.Join(tempDir, "rows.ndjson")

	if err := os.WriteFile(script, []byte("- op: type_of\n"), 0644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(input, []byte("{}\n"), 0644); err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name    string
		args    []string
		want    *Config
		wantErr bool
	}{
		{
			name: "defaults",
			args: []string{"jsonops", script},
			want: &Config{
				ScriptFile:  script,
				Input:       StdinInput,
				Burst:       1,
				MaxLineSize: DefaultMaxLineSize,
			},
		},
		{
			name: "all_flags",
			args: []string{"jsonops", "--input", input, "--pretty", "--debug", "--rate-limit", "2.5", "--burst", "4", "--max-line-size", "64KiB", script},
			want: &Config{
				ScriptFile:  script,
				Input:       input,
				Debug:       true,
				Pretty:      true,
				RateLimit:   2.5,
				Burst:       4,
				MaxLineSize: 64 << 10,
			},
		},
		{
			name:    "no_script",
			args:    []string{"jsonops", "--pretty"},
			wantErr: true,
		},
		{
			name:    "two_scripts",
			args:    []string{"jsonops", script, script},
			wantErr: true,
		},
		{
			name:    "missing_script",
			args:    []string{"jsonops", filepath.Join(tempDir, "nope.yaml")},
			wantErr: true,
		},
		{
			name:    "missing_input",
			args:    []string{"jsonops", "--input", filepath.Join(tempDir, "nope.ndjson"), script},
			wantErr: true,
		},
		{
			name:    "bad_burst",
			args:    []string{"jsonops", "--burst", "0", script},
			wantErr: true,
		},
		{
			name:    "bad_size",
			args:    []string{"jsonops", "--max-line-size", "lots", script},
			wantErr: true,
		},
		{
			name:    "unknown_flag",
			args:    []string{"jsonops", "--insecure", script},
			wantErr: true,
		},
		{
			name:    "no_arguments",
			args:    []string{},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, exitResult := Parse(tt.args)
			if tt.wantErr {
				if exitResult == nil {
					t.Fatalf("Parse() expected error, got config %+v", got)
				}
				if exitResult.ExitCode != 1 {
					t.Errorf("Parse() exit code = %d, want 1", exitResult.ExitCode)
				}
				return
			}

			if exitResult != nil {
				t.Fatalf("Parse() unexpected exit result: %s", exitResult.Message)
			}
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("Parse() = %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestParseHelpFlag(t *testing.T) {
	for _, arg := range []string{"-help", "--help", "-h"} {
		_, exitResult := Parse([]string{"jsonops", arg})
		if exitResult == nil {
			t.Fatalf("expected exit result for %s", arg)
		}
		if exitResult.ExitCode != 0 {
			t.Errorf("expected exit code 0 for %s, got %d", arg, exitResult.ExitCode)
		}
		if !strings.Contains(exitResult.Message, "Usage: jsonops") {
			t.Errorf("help output missing usage line: %q", exitResult.Message)
		}
	}
}

func TestByteSizeFlag(t *testing.T) {
	tests := []struct {
		value   string
		want    int
		text    string
		wantErr bool
	}{
		{value: "512", want: 512, text: "512B"},
		{value: "512B", want: 512, text: "512B"},
		{value: "64KiB", want: 64 << 10, text: "64KiB"},
		{value: " 2 MiB ", want: 2 << 20, text: "2MiB"},
		{value: "1GiB", want: 1 << 30, text: "1GiB"},
		{value: "1536KiB", want: 1536 << 10, text: "1536KiB"},
		{value: "0", wantErr: true},
		{value: "-1KiB", wantErr: true},
		{value: "4GiB", wantErr: true},
		{value: "ten", wantErr: true},
		{value: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.value, func(t *testing.T) {
			var size byteSizeFlag
			err := size.Set(tt.value)
			if tt.wantErr {
				if !errors.Is(err, ErrInvalidSizeFormat) {
					t.Errorf("Set(%q) error = %v, want %v", tt.value, err, ErrInvalidSizeFormat)
				}
				return
			}
			if err != nil {
				t.Fatalf("Set(%q) error = %v", tt.value, err)
			}
			if int(size) != tt.want {
				t.Errorf("Set(%q) = %d, want %d", tt.value, int(size), tt.want)
			}
			if size.String() != tt.text {
				t.Errorf("String() = %q, want %q", size.String(), tt.text)
			}
		})
	}
}

func TestUsage(t *testing.T) {
	usage := Usage()

	for _, flag := range []string{"--input", "--pretty", "--rate-limit", "--burst", "--max-line-size", "--debug"} {
		if !strings.Contains(usage, flag) {
			t.Errorf("Usage() missing %s", flag)
		}
	}

	if !strings.Contains(usage, "write nothing to stdout") {
		t.Error("Usage() does not say what happens to failed rows")
	}
}
