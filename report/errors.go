package report

import (
	"errors"
	"fmt"
	"os"
)

// TextSpan represents a range or "span" of source text. It is used to specify
// erroneous or otherwise significant text in a serialized AST file.  Text spans
// are inclusive on both sides: the starting position is the position of the
// first character in the span and the ending position is the position of the
// last character in the span.  The line and column numbers are zero-indexed.
type TextSpan struct {
	// The line and column beginning the text span.
	StartLine, StartCol int

	// The line and column ending the text span.
	EndLine, EndCol int
}

// NewSpanOver returns a new text span which spans over and between the two
// given text spans.
func NewSpanOver(start, end *TextSpan) *TextSpan {
	return &TextSpan{
		StartLine: start.StartLine,
		StartCol:  start.StartCol,
		EndLine:   end.EndLine,
		EndCol:    end.EndCol,
	}
}

// -----------------------------------------------------------------------------

// LocalCompileError is an error in the input text that occurs in a context in
// which the file is known by the error handler and thus doesn't need to be
// passed along with the error.
type LocalCompileError struct {
	// The error message.
	Message string

	// The span over which the error occurs.
	Span *TextSpan

	// Whether the input ended before the construct in error was complete.
	Incomplete bool
}

func (lce *LocalCompileError) Error() string {
	if lce.Span == nil {
		return lce.Message
	}

	return fmt.Sprintf("%d:%d: %s", lce.Span.StartLine+1, lce.Span.StartCol+1, lce.Message)
}

// Raise creates a new local compile error.
func Raise(span *TextSpan, msg string, args ...interface{}) *LocalCompileError {
	return &LocalCompileError{Message: fmt.Sprintf(msg, args...), Span: span}
}

// StructuralError is produced when an AST node does not have the shape its
// kind requires or uses a construct the compiler cannot express: a missing
// child, a child of the wrong kind, a destructuring pattern whose index is out
// of range, etc.
type StructuralError struct {
	// The kind name of the offending node.
	Node string

	// The error message.
	Message string
}

func (se *StructuralError) Error() string {
	if se.Node == "" {
		return "structural error: " + se.Message
	}

	return fmt.Sprintf("structural error in `%s` node: %s", se.Node, se.Message)
}

// InvariantError is produced when an IR tree violates an assumption the
// emitter relies upon: eg. an unlowered node reaches emission or a value is
// requested from a construct that produces none.  These always indicate a bug
// in the lowering pass.
type InvariantError struct {
	// The error message.
	Message string
}

func (ie *InvariantError) Error() string {
	return "invariant violated: " + ie.Message
}

// Structural aborts the current pass with a structural error.  The abort is
// recovered by Catch.
func Structural(node string, msg string, args ...interface{}) {
	panic(&StructuralError{Node: node, Message: fmt.Sprintf(msg, args...)})
}

// Invariant aborts the current pass with an invariant error.  The abort is
// recovered by Catch.
func Invariant(msg string, args ...interface{}) {
	panic(&InvariantError{Message: fmt.Sprintf(msg, args...)})
}

// IsStructural returns whether err is or wraps a structural error.
func IsStructural(err error) bool {
	var se *StructuralError
	return errors.As(err, &se)
}

// IsInvariant returns whether err is or wraps an invariant error.
func IsInvariant(err error) bool {
	var ie *InvariantError
	return errors.As(err, &ie)
}

// -----------------------------------------------------------------------------

// ReportICE reports an internal compiler error.  These are errors that
// specifically result for a bug or unexpected condition occurring with the
// compiler: they are not intended to ever happen.  These errors are always
// displayed regardless of log level.
func ReportICE(message string, args ...interface{}) {
	rep.m.Lock()
	defer rep.m.Unlock()

	displayICE(fmt.Sprintf(message, args...))

	os.Exit(-1)
}

// ReportFatal reports a fatal error.  These are errors that should cause all
// compilation to stop immediately.  However, they are expected errors that
// generally result from invalid configuration of some form: a missing input
// file, an unwritable output path, a malformed project file, etc.
func ReportFatal(message string, args ...interface{}) {
	if rep.logLevel > LogLevelSilent {
		rep.m.Lock()
		defer rep.m.Unlock()

		displayFatal(fmt.Sprintf(message, args...))
	}

	os.Exit(1)
}

// ReportCompileError reports an error in the compiler's input.  The path is
// the path to the erroneous file.  The span may be nil in which case no
// position information will be printed.
func ReportCompileError(path string, span *TextSpan, message string, args ...interface{}) {
	rep.m.Lock()
	defer rep.m.Unlock()

	rep.errorCount++

	if rep.logLevel > LogLevelSilent {
		displayCompileMessage("error", path, span, fmt.Sprintf(message, args...))
	}
}

// ReportCompileWarning reports a warning about the compiler's input.  The
// arguments are of the same form as those to ReportCompileError.
func ReportCompileWarning(path string, span *TextSpan, message string, args ...interface{}) {
	rep.m.Lock()
	defer rep.m.Unlock()

	rep.warningCount++

	if rep.logLevel >= LogLevelWarn {
		displayCompileMessage("warning", path, span, fmt.Sprintf(message, args...))
	}
}

// ReportStdError reports a non-fatal, standard Go error.
func ReportStdError(path string, err error) {
	rep.m.Lock()
	defer rep.m.Unlock()

	rep.errorCount++

	if rep.logLevel > LogLevelSilent {
		displayStdError(path, err)
	}
}

// ReportError reports any error produced by a compilation pass, choosing the
// display that fits its type.
func ReportError(path string, err error) {
	var lce *LocalCompileError
	if errors.As(err, &lce) {
		ReportCompileError(path, lce.Span, "%s", lce.Message)
	} else {
		ReportStdError(path, err)
	}
}

// -----------------------------------------------------------------------------

// AnyErrors returns whether or not any errors were detected.
func AnyErrors() bool {
	return rep.errorCount > 0
}

// -----------------------------------------------------------------------------

// Catch catches a structural or invariant error thrown by a `panic` during a
// compilation pass and stores it into err.  Any other panic is propagated.
// NB: This function must ALWAYS be deferred.
func Catch(err *error) {
	if x := recover(); x != nil {
		switch v := x.(type) {
		case *StructuralError:
			*err = v
		case *InvariantError:
			*err = v
		case *LocalCompileError:
			*err = v
		default:
			panic(x)
		}
	}
}
