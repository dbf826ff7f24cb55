package errors

import (
	stdlib "errors"
	"fmt"
)

const (
	// SuccessABCICode is the code of a successful ABCI response.
	SuccessABCICode = 0

	// Errors without a registered root share code 1 and, outside of
	// debug mode, a fixed log message.
	internalABCICode uint32 = 1
	internalABCILog         = "internal error"
)

// ABCIInfo returns the code and log to put in an ABCI response for err.
// Unregistered errors get code 1 and their message is hidden unless debug
// is set. In debug mode the log includes the stack trace.
func ABCIInfo(err error, debug bool) (uint32, string) {
	if isNil(err) {
		return SuccessABCICode, ""
	}
	code := abciCode(err)
	switch {
	case debug:
		return code, fmt.Sprintf("%+v", err)
	case code == internalABCICode:
		return code, internalABCILog
	default:
		return code, err.Error()
	}
}

func abciCode(err error) uint32 {
	code := internalABCICode
	walk(err, func(cur error) bool {
		if c, ok := cur.(interface{ ABCICode() uint32 }); ok {
			code = c.ABCICode()
			return false
		}
		return true
	})
	return code
}

// Redact hides the message of unregistered errors and panics. It returns
// err unchanged in debug mode.
func Redact(err error, debug bool) error {
	if debug || isNil(err) {
		return err
	}
	if ErrPanic.Is(err) || abciCode(err) == internalABCICode {
		return stdlib.New(internalABCILog)
	}
	return err
}

// ABCIError rebuilds an error out of an ABCI response code and log, so
// that a client can test it with Is. Unknown codes stay unclassified.
func ABCIError(code uint32, log string) error {
	if code == SuccessABCICode {
		return nil
	}
	if root := registry[code]; root != nil {
		return Wrap(root, log)
	}
	return fmt.Errorf("%s (code %d)", log, code)
}
