// Package failure implements the FailureOr[T]/FailureOrOwned[T] error
// discipline: typed binding and evaluation errors that carry a stack trace
// captured at the throw site, and helpers that collapse the C++ source's
// PROPAGATE_ON_FAILURE macro into ordinary Go early returns.
package failure

import (
	"fmt"

	"github.com/davecgh/go-spew/spew"
	"github.com/pkg/errors"
)

// ErrorCode classifies an Exception. The zero value is never produced by
// this package's constructors.
type ErrorCode int

const (
	_ ErrorCode = iota
	AttributeMissing
	AttributeExists
	AttributeCountMismatch
	TypeMismatch
	MemoryExceeded
	EvaluationError
)

func (c ErrorCode) String() string {
	switch c {
	case AttributeMissing:
		return "ATTRIBUTE_MISSING"
	case AttributeExists:
		return "ATTRIBUTE_EXISTS"
	case AttributeCountMismatch:
		return "ATTRIBUTE_COUNT_MISMATCH"
	case TypeMismatch:
		return "TYPE_MISMATCH"
	case MemoryExceeded:
		return "MEMORY_EXCEEDED"
	case EvaluationError:
		return "EVALUATION_ERROR"
	default:
		return fmt.Sprintf("UNKNOWN_ERROR_CODE(%d)", int(c))
	}
}

// Exception is the error channel's payload: a typed code, a message, and
// the stack captured where it was thrown. It implements the error
// interface so it can be handed to code that only knows about errors.
type Exception struct {
	Code ErrorCode
	Msg  string

	// cause carries the github.com/pkg/errors stack trace captured at
	// New(); it is never surfaced directly, only through StackTrace().
	cause error
}

// New creates an Exception, capturing a stack trace at the call site.
func New(code ErrorCode, msg string) *Exception {
	return &Exception{Code: code, Msg: msg, cause: errors.New(msg)}
}

// Newf is New with Printf-style formatting.
func Newf(code ErrorCode, format string, args ...any) *Exception {
	return New(code, fmt.Sprintf(format, args...))
}

func (e *Exception) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Msg)
}

// StackTrace renders the stack captured at the throw site, for inclusion in
// diagnostics. It is intentionally verbose; callers that only need the
// message use Error().
func (e *Exception) StackTrace() string {
	if tracer, ok := e.cause.(interface{ StackTrace() errors.StackTrace }); ok {
		return fmt.Sprintf("%+v", tracer.StackTrace())
	}
	return ""
}

// DebugDump renders e's full internal state with go-spew, for use in test
// failure messages where Error()'s one-line summary isn't enough to see
// what went wrong.
func (e *Exception) DebugDump() string {
	return spew.Sdump(e)
}
