// Package protoerr defines the two error kinds used throughout the parser:
// ParseError for anything wrong with the input source, and
// InvariantViolation, a panic value for states that should be unreachable
// given a correctly built ParseTable.
package protoerr

import (
	"fmt"

	"github.com/dekarrin/proto3c/lex"
)

// ParseError reports a problem with source text: a lexer error, a syntax
// error from the parser driver, or a semantic error raised by a production
// action. It carries the span of the offending text and an optional hint.
type ParseError struct {
	Span    lex.Span
	Message string
	Hint    string
	wrapped error
}

// AtSpan builds a ParseError at span with the given message.
func AtSpan(span lex.Span, msg string) *ParseError {
	return &ParseError{Span: span, Message: msg}
}

// AtSpanf builds a ParseError at span with a formatted message.
func AtSpanf(span lex.Span, format string, a ...interface{}) *ParseError {
	return &ParseError{Span: span, Message: fmt.Sprintf(format, a...)}
}

// WithHint returns a copy of e with Hint set, for chaining off AtSpan.
func (e *ParseError) WithHint(hint string) *ParseError {
	cp := *e
	cp.Hint = hint
	return &cp
}

// WithWrapped returns a copy of e wrapping the given cause.
func (e *ParseError) WithWrapped(cause error) *ParseError {
	cp := *e
	cp.wrapped = cause
	return &cp
}

func (e *ParseError) Error() string {
	msg := fmt.Sprintf("%s: %s", e.Span, e.Message)
	if e.Hint != "" {
		msg += "\n  " + e.Hint
	}
	return msg
}

func (e *ParseError) Unwrap() error {
	return e.wrapped
}

// InvariantViolation is the panic value raised when the parser driver
// observes a state that a correctly built ParseTable should never produce
// (stack underflow on reduce, a missing or wrong-kind goto entry, accept
// with an empty value stack). It is a fatal bug in the table builder or
// grammar, never a user-facing error, and is never recovered internally.
type InvariantViolation struct {
	Message string
}

func (e InvariantViolation) Error() string {
	return "invariant violation: " + e.Message
}

// Violatef panics with an InvariantViolation built from the given format
// string and arguments.
func Violatef(format string, a ...interface{}) {
	panic(InvariantViolation{Message: fmt.Sprintf(format, a...)})
}
