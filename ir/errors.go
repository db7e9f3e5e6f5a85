package ir

import (
	"fmt"

	"github.com/hashicorp/go-multierror"
)

// ErrorCode classifies the first failure recorded on a module.
type ErrorCode int

const (
	Success ErrorCode = iota
	ErrInvalidModule
	ErrInvalidFunctionCall
	ErrUnimplementedOpCode
	ErrAttrTranslationFailed
	ErrInvalidBuiltinSetName
	ErrRequiresVersion
	ErrRequiresExtension
)

var errorCodeNames = map[ErrorCode]string{
	Success:                  "success",
	ErrInvalidModule:         "invalid module",
	ErrInvalidFunctionCall:   "invalid function call",
	ErrUnimplementedOpCode:   "unimplemented opcode",
	ErrAttrTranslationFailed: "attribute translation failed",
	ErrInvalidBuiltinSetName: "unknown builtin instruction set",
	ErrRequiresVersion:       "requires a higher version",
	ErrRequiresExtension:     "requires an extension",
}

func (c ErrorCode) String() string {
	if s, ok := errorCodeNames[c]; ok {
		return s
	}
	return fmt.Sprintf("ErrorCode(%d)", int(c))
}

// Error is a single recorded module error.
type Error struct {
	Code ErrorCode
	Msg  string
}

func (e *Error) Error() string {
	if e.Msg == "" {
		return e.Code.String()
	}
	return e.Code.String() + ": " + e.Msg
}

// errorLog accumulates errors on a module. The first recorded code and
// message are kept for the legacy error query; every failure is also
// appended to a multierror so nothing is lost.
type errorLog struct {
	code ErrorCode
	msg  string
	all  *multierror.Error
}

// check records (code, msg) when cond is false and returns cond.
func (l *errorLog) check(cond bool, code ErrorCode, msg string) bool {
	if cond {
		return true
	}
	if l.code == Success {
		l.code = code
		l.msg = msg
	}
	l.all = multierror.Append(l.all, &Error{Code: code, Msg: msg})
	return false
}

func (l *errorLog) checkf(cond bool, code ErrorCode, format string, args ...any) bool {
	if cond {
		return true
	}
	return l.check(false, code, fmt.Sprintf(format, args...))
}

// Error reports the first recorded failure on the module, or Success.
func (m *Module) Error() (ErrorCode, string) {
	return m.errs.code, m.errs.msg
}

// Err returns every recorded failure as a single error, or nil.
func (m *Module) Err() error {
	return m.errs.all.ErrorOrNil()
}

// Valid reports whether the module has not been marked invalid by a
// recorded error.
func (m *Module) Valid() bool { return m.valid }
