package cfg

import "fmt"

// Error is the CFG builder's one error kind: an unresolved label or a
// fallthrough off the end of the program. A retsub with no caller is not
// reported as an Error; its block is simply left without successors.
type Error struct {
	File    string
	Message string
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s: %s", e.File, e.Message)
}

func newError(file, format string, args ...any) *Error {
	return &Error{File: file, Message: fmt.Sprintf(format, args...)}
}
