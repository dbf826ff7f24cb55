package errors

import (
	"fmt"
	"reflect"

	"github.com/pkg/errors"
)

// Root errors. Every error leaving a handler wraps one of these, or one
// registered by an extension, so that the client receives a stable code.
var (
	// ErrUnauthorized means a required signature is missing.
	ErrUnauthorized = Register(2, "unauthorized")
	// ErrNotFound means the referenced record does not exist.
	ErrNotFound = Register(3, "not found")
	// ErrMsg means a message failed validation or has an unknown type.
	ErrMsg = Register(4, "invalid message")
	// ErrModel means a record failed validation before being stored.
	ErrModel = Register(5, "invalid model")
	// ErrDuplicate means a unique key or index is already taken.
	ErrDuplicate = Register(6, "duplicate")
	// ErrHuman marks a code path that correct code never reaches.
	ErrHuman = Register(7, "coding error")
	ErrEmpty = Register(9, "value is empty")
	// ErrState means the record exists but does not allow the operation
	// in its current state.
	ErrState = Register(10, "invalid state")
	ErrType  = Register(11, "invalid type")
	// ErrInsufficientAmount means an account cannot cover a debit.
	ErrInsufficientAmount = Register(12, "insufficient amount")
	ErrAmount             = Register(13, "invalid amount")
	ErrInput              = Register(14, "invalid input")
	ErrOverflow           = Register(16, "an operation cannot be completed due to value overflow")
	// ErrDatabase means the underlying store failed.
	ErrDatabase = Register(17, "database")
	// ErrNetwork means a remote node could not be reached.
	ErrNetwork = Register(18, "network")
	// ErrTimeout means a result did not arrive before the deadline.
	ErrTimeout = Register(19, "timeout")

	// ErrPanic is produced by Recover only. Its message is always
	// redacted for clients.
	ErrPanic = Register(111222, "panic")
)

// registry maps codes to their root error. Code 1 is the ABCI code of
// unclassified errors and cannot be registered.
var registry = map[uint32]*Error{
	internalABCICode: nil,
}

// Register declares a new root error. It panics when code is taken, so
// call it from package level variable declarations only.
func Register(code uint32, description string) *Error {
	if prev, ok := registry[code]; ok {
		what := "reserved"
		if prev != nil {
			what = prev.desc
		}
		panic(fmt.Sprintf("error code %d already registered: %q", code, what))
	}
	e := &Error{code: code, desc: description}
	registry[code] = e
	return e
}

// Error is a root error with an ABCI code.
type Error struct {
	code uint32
	desc string
}

func (e Error) Error() string    { return e.desc }
func (e Error) ABCICode() uint32 { return e.code }

// New is a shortcut for Wrap(e, description).
func (e *Error) New(description string) error {
	return Wrap(e, description)
}

// Newf is New with a format string.
func (e *Error) Newf(format string, args ...interface{}) error {
	return Wrap(e, fmt.Sprintf(format, args...))
}

// Is reports whether e appears anywhere in the chain of err. A nil
// *Error only matches a nil error.
func (e *Error) Is(err error) bool {
	if e == nil {
		return isNil(err)
	}
	found := false
	walk(err, func(cur error) bool {
		found = cur == e
		return !found
	})
	return found
}

// Wrap adds description in front of err. A stack trace is recorded the
// first time a chain is wrapped. Wrapping nil returns nil.
func Wrap(err error, description string) error {
	if err == nil {
		return nil
	}
	if stackTrace(err) == nil {
		err = errors.WithStack(err)
	}
	return &wrappedError{msg: description, parent: err}
}

// Wrapf is Wrap with a format string.
func Wrapf(err error, format string, args ...interface{}) error {
	return Wrap(err, fmt.Sprintf(format, args...))
}

// WithType wraps err with the Go type of obj.
func WithType(err error, obj interface{}) error {
	return Wrapf(err, "%T", obj)
}

// Recover turns a panic into an ErrPanic stored in err. It must be
// called with defer.
func Recover(err *error) {
	if r := recover(); r != nil {
		*err = Wrapf(ErrPanic, "%v", r)
	}
}

type wrappedError struct {
	msg    string
	parent error
}

func (w *wrappedError) Error() string { return w.msg + ": " + w.parent.Error() }
func (w *wrappedError) Cause() error  { return w.parent }

// Format prints the stack trace of the innermost wrap for %+v.
func (w *wrappedError) Format(s fmt.State, verb rune) {
	if verb == 'v' && s.Flag('+') {
		fmt.Fprintf(s, "%s\n%+v", w.msg, w.parent)
		return
	}
	fmt.Fprint(s, w.Error())
}

type causer interface {
	Cause() error
}

// walk calls fn for err and each of its causes until fn returns false.
func walk(err error, fn func(error) bool) {
	for err != nil {
		if !fn(err) {
			return
		}
		c, ok := err.(causer)
		if !ok {
			return
		}
		err = c.Cause()
	}
}

func stackTrace(err error) errors.StackTrace {
	var st errors.StackTrace
	walk(err, func(cur error) bool {
		if t, ok := cur.(interface{ StackTrace() errors.StackTrace }); ok {
			st = t.StackTrace()
			return false
		}
		return true
	})
	return st
}

func isNil(err error) bool {
	if err == nil {
		return true
	}
	v := reflect.ValueOf(err)
	return v.Kind() == reflect.Ptr && v.IsNil()
}
