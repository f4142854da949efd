package errors

import (
	"errors"
	"fmt"
	"reflect"
)

const (
	// SuccessCode is reported when the processing was successful.
	SuccessCode = 0

	// All errors that do not provide a code are clubbed under an internal
	// error code and a generic message instead of detailed error string.
	internalCode uint32 = 1
	internalLog         = "internal error"
)

// Info returns the code and log message that should be reported to a
// client. Any error that does not wrap a root error is categorized as
// internal, and outside of debug mode its message is replaced.
func Info(err error, debug bool) (uint32, string) {
	if errIsNil(err) {
		return SuccessCode, ""
	}

	if code := Code(err); code != internalCode {
		if debug {
			return code, fmt.Sprintf("%+v", err)
		}
		return code, err.Error()
	}

	if debug {
		return internalCode, fmt.Sprintf("%+v", err)
	}
	return internalCode, internalLog
}

type coder interface {
	Code() uint32
}

// Code unwraps err until a root error is found and returns its code.
func Code(err error) uint32 {
	if errIsNil(err) {
		return SuccessCode
	}

	for {
		if c, ok := err.(coder); ok {
			return c.Code()
		}

		if c, ok := err.(causer); ok {
			err = c.Cause()
		} else {
			return internalCode
		}
	}
}

func errIsNil(err error) bool {
	if err == nil {
		return true
	}
	if val := reflect.ValueOf(err); val.Kind() == reflect.Ptr {
		return val.IsNil()
	}
	return false
}

// Redact replaces panics and errors that do not wrap a root error with a
// generic internal error.
//
// This is a no-op when running in debug mode.
func Redact(err error, debug bool) error {
	if debug {
		return err
	}
	if ErrPanic.Is(err) {
		return errors.New(internalLog)
	}
	if Code(err) == internalCode {
		return errors.New(internalLog)
	}
	return err
}
