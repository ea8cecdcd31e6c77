// Package compileerr defines the error kinds visible to callers of the
// compiler: syntax errors from the parser, interpreter errors from name
// resolution, and expression errors from the auxiliary evaluator. The three
// kinds are always distinguished by Go type, never by inspecting the error
// message.
package compileerr

import (
	"fmt"

	"github.com/dekarrin/ltsc/internal/diag"
)

// SyntaxError is returned by the parser when source text does not match the
// grammar at some position.
type SyntaxError struct {
	Message  string
	Location diag.Span
}

func (e *SyntaxError) Error() string {
	return fmt.Sprintf("syntax error at %s: %s", e.Location.Start, e.Message)
}

// NewSyntaxError builds a SyntaxError at the given span.
func NewSyntaxError(loc diag.Span, format string, a ...interface{}) *SyntaxError {
	return &SyntaxError{Message: fmt.Sprintf(format, a...), Location: loc}
}

// InterpreterException is returned by the interpreter for an unknown name, a
// non-productive cycle, or a duplicate definition name. The name is kept
// distinct from SyntaxError so callers can distinguish "Error: " from
// "Syntax error " prefixes without inspecting message text.
type InterpreterException struct {
	Message  string
	Name     string
	Location diag.Span
	cause    error
}

func (e *InterpreterException) Error() string {
	return e.Message
}

func (e *InterpreterException) Unwrap() error {
	return e.cause
}

// NewInterpreterError builds an InterpreterException referring to the given
// identifier.
func NewInterpreterError(loc diag.Span, name string, format string, a ...interface{}) *InterpreterException {
	return &InterpreterException{Message: fmt.Sprintf(format, a...), Name: name, Location: loc}
}

// WrapInterpreterError builds an InterpreterException that wraps a lower
// level cause.
func WrapInterpreterError(cause error, loc diag.Span, name string, format string, a ...interface{}) *InterpreterException {
	return &InterpreterException{Message: fmt.Sprintf(format, a...), Name: name, Location: loc, cause: cause}
}

// ExpressionError is returned by the auxiliary expression evaluator (see
// internal/expr) for division/modulo by zero or an unknown variable.
type ExpressionError struct {
	Message string
}

func (e *ExpressionError) Error() string {
	return e.Message
}

// NewExpressionError builds an ExpressionError.
func NewExpressionError(format string, a ...interface{}) *ExpressionError {
	return &ExpressionError{Message: fmt.Sprintf(format, a...)}
}
