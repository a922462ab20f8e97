// Copyright (c) 2021 Silvano DAL ZILIO
//
// MIT License

package robdd

import (
	"fmt"
	"log"
)

// ErrorCode identifies the class of a recorded error. The taxonomy mirrors
// the errorstrings table of the BuDDy library this package is modeled after.
type ErrorCode int

// The recognized error codes. Not every one of them can currently be
// produced by this package (some describe features, such as external
// variable blocks, that are out of scope -- see SPEC_FULL.md); they are kept
// so that ErrorCode is a stable, complete enumeration for callers who match
// on it.
const (
	ErrMemory ErrorCode = iota
	ErrVar
	ErrRange
	ErrBreak
	ErrVarnumTwice
	ErrFile
	ErrFormat
	ErrOrder
	ErrUserBreak
	ErrVarsetSize
	ErrOp
	ErrVarset
	ErrVarblk
	ErrDecVnum
	ErrReplace
	ErrNodenum
	ErrIllbdd
	ErrSize
	ErrBvecSize
	ErrBvecShift
	ErrBvecDivzero
)

var errorStrings = map[ErrorCode]string{
	ErrMemory:      "out of memory",
	ErrVar:         "unknown variable",
	ErrRange:       "value out of range",
	ErrBreak:       "decrement of a node with a zero reference count",
	ErrVarnumTwice: "variable count already set",
	ErrFile:        "unknown I/O error",
	ErrFormat:      "unknown file format",
	ErrOrder:       "variables not in ascending order",
	ErrUserBreak:   "user initiated break",
	ErrVarsetSize:  "variable set has an incorrect size",
	ErrOp:          "unknown operator",
	ErrVarset:      "illegal variable set",
	ErrVarblk:      "bad variable block operation",
	ErrDecVnum:     "trying to decrease the number of variables",
	ErrReplace:     "replacing a variable already in the result",
	ErrNodenum:     "number of nodes reached the user-specified maximum",
	ErrIllbdd:      "illegal BDD",
	ErrSize:        "illegal size specification",
	ErrBvecSize:    "mismatch in bitvector size",
	ErrBvecShift:   "illegal shift-left/right parameter",
	ErrBvecDivzero: "division by zero",
}

func (c ErrorCode) String() string {
	if s, ok := errorStrings[c]; ok {
		return s
	}
	return "unknown error"
}

// bddError pairs an ErrorCode with the formatted detail so that callers can
// both pattern-match on the code and read a human message.
type bddError struct {
	code ErrorCode
	msg  string
}

func (e *bddError) Error() string {
	return fmt.Sprintf("%s: %s", e.code, e.msg)
}

// Code returns the ErrorCode of err if it was produced by this package, and
// false otherwise.
func Code(err error) (ErrorCode, bool) {
	be, ok := err.(*bddError)
	if !ok {
		return 0, false
	}
	return be.code, true
}

// ErrorHook installs a handler invoked every time seterror latches a new
// error. The default hook logs the error via the standard log package and
// never aborts the process: an aborting default would not be idiomatic for a
// library. Passing nil restores the default hook.
func (b *BDD) ErrorHook(hook func(ErrorCode, string)) {
	b.errorHook = hook
}

func defaultErrorHook(code ErrorCode, msg string) {
	log.Printf("robdd: %s: %s\n", code, msg)
}

// seterror latches a new error (chaining with any previous one, as BuDDy's
// seterror does), invokes the error hook and returns nil so call sites can
// write `return b.seterror(...)` from a Node-returning method.
func (b *BDD) seterror(code ErrorCode, format string, a ...interface{}) Node {
	b.seterrorAsError(code, format, a...)
	return nil
}

// seterrorAsError is the error-returning counterpart of seterror, used by
// methods (such as checkptr) that do not return a Node.
func (b *BDD) seterrorAsError(code ErrorCode, format string, a ...interface{}) error {
	msg := fmt.Sprintf(format, a...)
	err := &bddError{code: code, msg: msg}
	if b.error != nil {
		err.msg = msg + "; " + b.error.Error()
	}
	b.error = err
	if code == ErrMemory || code == ErrNodenum {
		// Latch the irrecoverable-allocation condition, mirroring BuDDy's
		// bdderrorcond: once set, makenode refuses to even try to free or
		// grow the table again until ClearError runs.
		b.errorCond = true
	}
	hook := b.errorHook
	if hook == nil {
		hook = defaultErrorHook
	}
	hook(code, msg)
	return err
}
