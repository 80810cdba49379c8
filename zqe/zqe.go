// Package zqe attaches a Kind to errors so that callers such as the HTTP
// service can report them consistently.
package zqe

import (
	"errors"
	"fmt"
	"runtime"
	"strings"
)

// A Kind classifies an error.  The service maps each Kind to an HTTP
// status code.
type Kind int

const (
	Other Kind = iota
	Invalid
	NotFound
	Conflict
)

var kindNames = [...]string{
	Other:    "other error",
	Invalid:  "invalid operation",
	NotFound: "item does not exist",
	Conflict: "conflict with pending operation",
}

func (k Kind) String() string {
	if k < 0 || int(k) >= len(kindNames) {
		return "unknown error kind"
	}
	return kindNames[k]
}

type Error struct {
	Kind Kind
	Err  error
}

func (e *Error) Error() string {
	var parts []string
	if e.Kind != Other {
		parts = append(parts, e.Kind.String())
	}
	if e.Err != nil {
		parts = append(parts, e.Err.Error())
	}
	if len(parts) == 0 {
		return "no error"
	}
	return strings.Join(parts, ": ")
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Message is like Error but omits the Kind unless there is no underlying
// error.
func (e *Error) Message() string {
	if e.Err == nil {
		return e.Error()
	}
	return e.Err.Error()
}

// E builds an *Error from its arguments, which may be a Kind, an error, and
// finally a format string followed by its operands as for fmt.Errorf.
func E(args ...interface{}) error {
	if len(args) == 0 {
		panic("zqe.E called without arguments")
	}
	e := &Error{}
	for i := 0; i < len(args); i++ {
		switch arg := args[i].(type) {
		case Kind:
			e.Kind = arg
		case error:
			e.Err = arg
		case string:
			e.Err = fmt.Errorf(arg, args[i+1:]...)
			return e
		default:
			_, file, line, _ := runtime.Caller(1)
			return fmt.Errorf("zqe.E: unexpected %T argument %v at %s:%d", arg, arg, file, line)
		}
	}
	return e
}

// KindOf returns the Kind of the first *Error in err's chain, or Other.
func KindOf(err error) Kind {
	var zerr *Error
	if errors.As(err, &zerr) {
		return zerr.Kind
	}
	return Other
}

func IsInvalid(err error) bool {
	return KindOf(err) == Invalid
}

func IsNotFound(err error) bool {
	return KindOf(err) == NotFound
}

func IsConflict(err error) bool {
	return KindOf(err) == Conflict
}

// RecoverError converts a value returned by recover into an error.
func RecoverError(r interface{}) error {
	if err, ok := r.(error); ok {
		return E("panic: %w", err)
	}
	return E("panic: %v", r)
}
