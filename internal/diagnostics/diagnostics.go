// Package diagnostics renders internal/jerr's CompileError and
// RuntimeError values to a terminal, with ANSI highlighting gated by a
// TTY check.
//
// Grounded on funvibe-funxy's internal/evaluator/builtins_term.go: the
// same NO_COLOR-first, github.com/mattn/go-isatty-backed color-level
// detection (IsTerminal/IsCygwinTerminal, cached via sync.Once) and
// thin ansiFg/ansiStyle wrap helpers, retargeted from script-level
// `bold()`/`red()` builtins to rendering jerr values for the CLI.
package diagnostics

import (
	"fmt"
	"io"
	"os"
	"strings"
	"sync"

	"github.com/mattn/go-isatty"

	"github.com/jactl-lang/jactl/internal/jerr"
)

var (
	colorOnce sync.Once
	colorOn   bool
)

// ColorEnabled reports whether out should receive ANSI escapes: off
// under NO_COLOR, off when out isn't a terminal, on otherwise. Cached
// per process the way the teacher's getColorLevel caches its detection.
func ColorEnabled(out *os.File) bool {
	colorOnce.Do(func() {
		if _, ok := os.LookupEnv("NO_COLOR"); ok {
			colorOn = false
			return
		}
		colorOn = isatty.IsTerminal(out.Fd()) || isatty.IsCygwinTerminal(out.Fd())
	})
	return colorOn
}

func wrap(enabled bool, code, reset, s string) string {
	if !enabled {
		return s
	}
	return code + s + reset
}

func red(enabled bool, s string) string    { return wrap(enabled, "\033[31m", "\033[39m", s) }
func yellow(enabled bool, s string) string { return wrap(enabled, "\033[33m", "\033[39m", s) }
func bold(enabled bool, s string) string   { return wrap(enabled, "\033[1m", "\033[22m", s) }

// Printer renders diagnostics to Out, detecting color support once on
// construction.
type Printer struct {
	Out     io.Writer
	Color   bool
}

// NewPrinter builds a Printer writing to out, auto-detecting color
// support when out is an *os.File (falling back to no color for any
// other writer, e.g. a test's bytes.Buffer).
func NewPrinter(out io.Writer) *Printer {
	p := &Printer{Out: out}
	if f, ok := out.(*os.File); ok {
		p.Color = ColorEnabled(f)
	}
	return p
}

// PrintCompileError renders one compile-time error as
// "file:line:col: message", the message styled bold red.
func (p *Printer) PrintCompileError(e *jerr.CompileError) {
	fmt.Fprintf(p.Out, "%s:%d:%d: %s\n", e.Pos.File, e.Pos.Line, e.Pos.Column, bold(p.Color, red(p.Color, e.Message)))
}

// PrintCompileErrors renders a list, unwrapping a *jerr.CompileErrors
// composite (§7's "multiple errors raised as a composite") into one
// line per error.
func (p *Printer) PrintCompileErrors(err error) {
	switch e := err.(type) {
	case *jerr.CompileError:
		p.PrintCompileError(e)
	case *jerr.CompileErrors:
		for _, c := range e.Errors {
			p.PrintCompileError(c)
		}
	default:
		fmt.Fprintln(p.Out, red(p.Color, err.Error()))
	}
}

// PrintRuntimeError renders a runtime fault (§7's RuntimeError/
// NullError kinds), styled bold yellow to distinguish it from a
// compile-time failure.
func (p *Printer) PrintRuntimeError(err error) {
	msg := err.Error()
	switch e := err.(type) {
	case *jerr.RuntimeError:
		if e.Source != "" {
			msg = fmt.Sprintf("%s (at %s:%d)", msg, e.Source, e.Offset)
		}
	case *jerr.NullError:
		if e.Source != "" {
			msg = fmt.Sprintf("%s (at %s:%d)", msg, e.Source, e.Offset)
		}
	}
	fmt.Fprintln(p.Out, bold(p.Color, yellow(p.Color, msg)))
}

// Summary formats a one-line "N error(s)" footer the CLI prints after
// a failed compile.
func Summary(n int) string {
	if n == 1 {
		return "1 error"
	}
	return fmt.Sprintf("%d errors", n)
}

// JoinMessages concatenates a list of diagnostics as plain text,
// without involving a terminal.
func JoinMessages(errs []*jerr.CompileError) string {
	lines := make([]string, len(errs))
	for i, e := range errs {
		lines[i] = e.Error()
	}
	return strings.Join(lines, "\n")
}
