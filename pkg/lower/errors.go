package lower

import "fmt"

// Internal panics with a message identifying an invariant violation in
// the caller driving the CodeGenerator — a bug in the visitor, not a
// problem with the program being lowered. It panics rather than returning
// an error value because these are not meant to be recovered from
// mid-compilation: the opcode log and block stack are left in a state no
// caller should try to keep using.
func Internal(format string, args ...any) {
	panic("lower: internal error: " + fmt.Sprintf(format, args...))
}

// UnresolvedLabelError reports that FindBreakTarget or FindContinueTarget
// returned 0: the requested label text matched no enclosing block, or
// there was no enclosing block of the right kind at all. This is a
// user-input error, not an invariant violation — the core itself never
// raises it; a caller that notices a zero result constructs one to
// surface a diagnosable error up its own call stack.
//
// It intentionally carries its own Error()/Kind() rather than depending on
// a shared diagnostics package: the parser/checker this package cooperates
// with live outside this module, and lower has no reason to import their
// error types just to report a label lookup failure.
type UnresolvedLabelError struct {
	LabelText string
	Continue  bool
	Line      int
	Column    int
}

func (e *UnresolvedLabelError) Error() string {
	verb := "break"
	if e.Continue {
		verb = "continue"
	}
	if e.LabelText == "" {
		return fmt.Sprintf("lower: %d:%d: no enclosing block to %s to", e.Line, e.Column, verb)
	}
	return fmt.Sprintf("lower: %d:%d: no enclosing block labelled %q to %s to", e.Line, e.Column, e.LabelText, verb)
}

func (e *UnresolvedLabelError) Kind() string { return "UnresolvedLabel" }
