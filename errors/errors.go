package errors

import (
	"fmt"
)

// Error carries an HTTP-ish status code along with the message, so transport
// layers can map failures without inspecting message text.
type Error interface {
	error

	Code() int
	Message() string
	Cause() error
}

// DefaultCode is used when no code is given: 500, Internal Server Error.
var DefaultCode = 500

type codedError struct {
	code  int
	msg   string
	cause *codedError
}

func (err *codedError) Error() string {
	if err.cause == nil {
		return err.msg
	}
	return fmt.Sprintf("%s: %v", err.msg, err.cause)
}

func (err *codedError) Code() int { return err.code }

func (err *codedError) Message() string { return err.msg }

func (err *codedError) Cause() error {
	if err.cause == nil {
		return nil
	}
	return err.cause
}

type Enricher func(error) error

func WithCode(code int) Enricher {
	return func(err error) error {
		if err == nil {
			return nil
		}
		if err, ok := err.(*codedError); ok {
			err.code = code
			return err
		}
		return &codedError{msg: err.Error(), code: code}
	}
}

func WithCause(cause error) Enricher {
	myCause, ok := cause.(*codedError)
	if !ok {
		myCause = &codedError{msg: cause.Error(), code: DefaultCode}
	}

	return func(err error) error {
		if err == nil {
			return nil
		}
		if err, ok := err.(*codedError); ok {
			err.cause = myCause
			return err
		}
		return &codedError{msg: err.Error(), code: myCause.code, cause: myCause}
	}
}

func New(msg string, fs ...Enricher) error {
	var err error
	err = &codedError{msg: msg, code: DefaultCode}
	for _, f := range fs {
		err = f(err)
	}
	return err
}

// CodeOf extracts the status code from err, falling back to DefaultCode.
func CodeOf(err error) int {
	if err, ok := err.(Error); ok {
		return err.Code()
	}
	return DefaultCode
}
