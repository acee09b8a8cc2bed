// Package fatal is the single sink for unrecoverable errors.
//
// Configuration mistakes and missed real-time deadlines end here. Once an
// error reaches a Sink the system is halted and stays halted until an
// external reset.
package fatal

import (
	"fmt"
	"path/filepath"
	"runtime"
)

// Code identifies the kind of fatal error.
type Code uint8

// Fatal error codes.
const (
	CodeUnknown Code = iota
	CodeQueueParam
	CodeSchedulerParam
	CodeTaskMissing
	CodeTaskPeriod
	CodePeripheralInit
	CodeHardFault
)

// CodeDeadlineBase is the first deadline overrun code, the overrun of task
// n is reported as CodeDeadlineBase+n.
const CodeDeadlineBase Code = 0x40

// DeadlineCode returns the overrun code of the task with the given 1-based id.
func DeadlineCode(taskID uint8) Code {
	return CodeDeadlineBase + Code(taskID)
}

var codeNames = map[Code]string{
	CodeUnknown:        "unknown",
	CodeQueueParam:     "queue parameter",
	CodeSchedulerParam: "scheduler parameter",
	CodeTaskMissing:    "task routine missing",
	CodeTaskPeriod:     "task period",
	CodePeripheralInit: "peripheral init",
	CodeHardFault:      "hard fault",
}

// String implements fmt.Stringer.
func (c Code) String() string {
	if c > CodeDeadlineBase {
		return fmt.Sprintf("deadline overrun task %d", uint8(c-CodeDeadlineBase))
	}
	if name, ok := codeNames[c]; ok {
		return name
	}
	return fmt.Sprintf("code 0x%02x", uint8(c))
}

// Error is the record of a fatal error: where it was raised and why.
type Error struct {
	File string
	Line int
	Code Code
}

// Error implements error.
func (e *Error) Error() string {
	return fmt.Sprintf("fatal %s (0x%02x) at %s:%d", e.Code, uint8(e.Code), e.File, e.Line)
}

// At creates an Error located at the caller.
func At(code Code) *Error {
	return at(2, code)
}

func at(skip int, code Code) *Error {
	e := &Error{Code: code, File: "???"}
	if _, file, line, ok := runtime.Caller(skip); ok {
		e.File, e.Line = filepath.Base(file), line
	}
	return e
}

// Raise aborts the current task with a fatal error. The scheduler recovers
// it and hands it to its Sink.
func Raise(code Code) {
	panic(at(2, code))
}

// Sink receives fatal errors.
type Sink interface {
	Halt(*Error)
}

// SinkFunc is func form of Sink.
type SinkFunc func(*Error)

// Halt implements Sink.
func (f SinkFunc) Halt(err *Error) {
	f(err)
}
