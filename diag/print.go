// Package diag holds ambient diagnostics that sit outside the evaluation
// core proper: colorized rendering of exceptions and success messages.
// Structure dumps and the compressed arena snapshot live in package block
// (DumpView, DumpArena) and failure (Exception.DebugDump). None of it
// participates in binding or evaluation semantics.
package diag

import (
	"fmt"

	"github.com/fatih/color"

	"github.com/dot5enko/supersonic/failure"
)

// PrintException renders an Exception to stdout in red, mirroring the
// teacher's color.Red(...) call sites on recoverable executor errors.
func PrintException(exc *failure.Exception) {
	if exc == nil {
		return
	}
	color.Red("[%s] %s", exc.Code, exc.Msg)
	if trace := exc.StackTrace(); trace != "" {
		fmt.Println(trace)
	}
}

// PrintSuccess renders a short green confirmation, mirroring the teacher's
// color.Green(...) call sites on completed operations.
func PrintSuccess(format string, args ...any) {
	color.Green(format, args...)
}
