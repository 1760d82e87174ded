// Package jerr defines the error kinds of §7: CompileError (accumulated
// during parsing/resolution), and the runtime kinds the emitted code
// raises (NullError, RuntimeError) plus the Continuation sentinel the
// async protocol uses to unwind to an await point.
//
// Grounded on funvibe-funxy's internal/typesystem/error.go: one small
// struct per error kind, a constructor, and fmt.Sprintf-built messages.
// Stdlib only — the corpus's own error types follow the same pattern
// with no third-party error library.
package jerr

import (
	"fmt"
	"strings"

	"github.com/jactl-lang/jactl/internal/token"
)

// CompileError is a parse or type error attached to a source location.
type CompileError struct {
	Pos     token.Pos
	Message string
}

func (e *CompileError) Error() string {
	return fmt.Sprintf("%s:%d:%d: %s", e.Pos.File, e.Pos.Line, e.Pos.Column, e.Message)
}

// CompileErrors is the composite raised when more than one CompileError
// was accumulated (§7: "a single error is raised as-is; multiple are
// raised as a composite").
type CompileErrors struct {
	Errors []*CompileError
}

func (e *CompileErrors) Error() string {
	lines := make([]string, len(e.Errors))
	for i, c := range e.Errors {
		lines[i] = c.Error()
	}
	return strings.Join(lines, "\n")
}

// NewCompileErrors returns errs[0] directly when there is exactly one,
// else wraps the whole list in a *CompileErrors composite.
func NewCompileErrors(errs []*CompileError) error {
	if len(errs) == 1 {
		return errs[0]
	}
	return &CompileErrors{Errors: errs}
}

// NullError is thrown at runtime when a required non-null value is null.
type NullError struct {
	Message string
	Source  string
	Offset  int
}

func (e *NullError) Error() string {
	return fmt.Sprintf("null error: %s (offset %d)", e.Message, e.Offset)
}

// RuntimeErrorKind discriminates the RuntimeError causes §7 lists.
type RuntimeErrorKind int

const (
	RuntimeDivideByZero RuntimeErrorKind = iota
	RuntimeIndexOutOfBounds
	RuntimeBadCast
	RuntimeMissingMandatoryField
	RuntimeAutoCreateDisallowed
	RuntimeAsyncInNoAsync
	RuntimeBadNamedArg
	RuntimeBadVersion
)

// RuntimeError is thrown for the runtime fault conditions of §7.
type RuntimeError struct {
	Kind    RuntimeErrorKind
	Message string
	Index   int // meaningful only for RuntimeIndexOutOfBounds
	Source  string
	Offset  int
}

func (e *RuntimeError) Error() string {
	if e.Kind == RuntimeIndexOutOfBounds {
		return fmt.Sprintf("index out of bounds: %d (%s)", e.Index, e.Message)
	}
	return e.Message
}

// NewRuntimeError builds a RuntimeError of the given kind.
func NewRuntimeError(kind RuntimeErrorKind, message, source string, offset int) *RuntimeError {
	return &RuntimeError{Kind: kind, Message: message, Source: source, Offset: offset}
}

// Continuation is not an error in the ordinary sense: it is a sentinel
// thrown by a suspending call to unwind to the nearest await point. Only
// the async protocol's generated try/catch may catch it; it must never
// be treated as a user-visible failure.
type Continuation struct {
	Parent            *Continuation
	ResumeHandle       interface{} // bound handle to this method's continuation-entry point
	ResumeLocationID   int
	Longs              []int64
	Objects            []interface{}
}

func (c *Continuation) Error() string {
	return "uncaught Continuation: a suspending call escaped its async protocol frame"
}
