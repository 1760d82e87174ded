package diagnostics

import (
	"bytes"
	"strings"
	"testing"

	"github.com/jactl-lang/jactl/internal/jerr"
	"github.com/jactl-lang/jactl/internal/token"
)

func TestPrintCompileErrorFormatsLocation(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf)
	p.PrintCompileError(&jerr.CompileError{Pos: token.Pos{File: "a.jactl", Line: 3, Column: 5}, Message: "unexpected token"})
	got := buf.String()
	if !strings.Contains(got, "a.jactl:3:5:") || !strings.Contains(got, "unexpected token") {
		t.Errorf("unexpected output: %q", got)
	}
}

func TestPrintCompileErrorsUnwrapsComposite(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf)
	p.PrintCompileErrors(&jerr.CompileErrors{Errors: []*jerr.CompileError{
		{Pos: token.Pos{File: "a.jactl", Line: 1, Column: 1}, Message: "first"},
		{Pos: token.Pos{File: "a.jactl", Line: 2, Column: 1}, Message: "second"},
	}})
	got := buf.String()
	if strings.Count(got, "\n") != 2 {
		t.Errorf("expected 2 lines, got %q", got)
	}
}

func TestPrintRuntimeErrorIncludesSource(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf)
	p.PrintRuntimeError(jerr.NewRuntimeError(jerr.RuntimeDivideByZero, "divide by zero", "a.jactl", 42))
	got := buf.String()
	if !strings.Contains(got, "divide by zero") || !strings.Contains(got, "a.jactl:42") {
		t.Errorf("unexpected output: %q", got)
	}
}

func TestSummaryPluralizes(t *testing.T) {
	if Summary(1) != "1 error" {
		t.Errorf("Summary(1) = %q", Summary(1))
	}
	if Summary(2) != "2 errors" {
		t.Errorf("Summary(2) = %q", Summary(2))
	}
}

func TestNoColorWhenNotATerminal(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf) // bytes.Buffer is never an *os.File
	if p.Color {
		t.Error("expected Color = false for a non-*os.File writer")
	}
}
