package logging

import (
	"bytes"
	"strings"
	"testing"
)

func TestNewDefaultLevel(t *testing.T) {
	var buf bytes.Buffer
	logger := New(Options{Writer: &buf})

	logger.Debug("debug suppressed")
	if got := buf.Len(); got != 0 {
		t.Fatalf("expected debug output to be suppressed, got %d bytes", got)
	}

	logger.Info("visible message")
	if out := buf.String(); !strings.Contains(out, "visible message") {
		t.Fatalf("expected info log to contain message, got %q", out)
	}
}

func TestNewVerboseEnablesDebug(t *testing.T) {
	var buf bytes.Buffer
	logger := New(Options{Verbose: true, Writer: &buf})

	logger.Debug("debug visible")
	if out := buf.String(); !strings.Contains(out, "debug visible") {
		t.Fatalf("expected debug output when verbose, got %q", out)
	}
}

func TestNewAddSourceAnnotatesCallSite(t *testing.T) {
	var buf bytes.Buffer
	logger := New(Options{AddSource: true, Writer: &buf})

	logger.Info("annotated message")
	if out := buf.String(); !strings.Contains(out, "logger_test.go") {
		t.Fatalf("expected source file annotation, got %q", out)
	}
}

func TestNewDefaultsToStderrWriter(t *testing.T) {
	logger := New(Options{})
	if logger == nil {
		t.Fatal("expected New to return a non-nil logger with a nil Writer")
	}
}
