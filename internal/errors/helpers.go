package errors

import (
	"errors"
)

// As is errors.As narrowed to *Error
func As(err error, target **Error) bool {
	return errors.As(err, target)
}

// Is reports whether err matches target; two *Error values match on Code
func Is(err, target error) bool {
	return errors.Is(err, target)
}

// GetCode returns the code of the outermost *Error in the chain.
// Nil is CodeOK and plain errors report CodeInternal.
func GetCode(err error) Code {
	if err == nil {
		return CodeOK
	}
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	return CodeInternal
}

// GetMeta returns the metadata of the outermost *Error
func GetMeta(err error) map[string]any {
	var e *Error
	if errors.As(err, &e) {
		return e.Meta
	}
	return nil
}

// GetMessage returns the message of the outermost *Error, or err.Error()
// for anything else.
func GetMessage(err error) string {
	if err == nil {
		return ""
	}
	var e *Error
	if errors.As(err, &e) {
		return e.Message
	}
	return err.Error()
}

// RootMessage returns the message of the innermost *Error in the chain.
// Wrapping adds context for logs; the root says what went wrong and is
// what callers are shown.
func RootMessage(err error) string {
	msg := GetMessage(err)
	var e *Error
	for errors.As(err, &e) && e.Cause != nil {
		var inner *Error
		if !errors.As(e.Cause, &inner) {
			break
		}
		msg = inner.Message
		err = e.Cause
	}
	return msg
}

func hasCode(err error, code Code) bool {
	return err != nil && GetCode(err) == code
}

// IsNotFound reports whether err carries CodeNotFound
func IsNotFound(err error) bool { return hasCode(err, CodeNotFound) }

// IsInvalidArgument reports whether err carries CodeInvalidArgument
func IsInvalidArgument(err error) bool { return hasCode(err, CodeInvalidArgument) }

// IsPermissionDenied reports whether err carries CodePermissionDenied
func IsPermissionDenied(err error) bool { return hasCode(err, CodePermissionDenied) }

// IsUnauthenticated reports whether err carries CodeUnauthenticated
func IsUnauthenticated(err error) bool { return hasCode(err, CodeUnauthenticated) }

// IsAborted reports whether err carries CodeAborted
func IsAborted(err error) bool { return hasCode(err, CodeAborted) }
