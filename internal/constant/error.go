package constant

import (
	"errors"
	"fmt"
)

// Error carries a numeric business code alongside the message so
// handlers can build the response envelope without string matching.
type Error interface {
	error
	Code() int
	Message() string
	Data() interface{}
	WithData(data interface{}) Error
}

type codedError struct {
	code    int
	message string
	data    interface{}
}

func (e *codedError) Error() string {
	return fmt.Sprintf("code: %d, message: %s", e.code, e.message)
}

func (e *codedError) Code() int {
	return e.code
}

func (e *codedError) Message() string {
	return e.message
}

func (e *codedError) Data() interface{} {
	return e.data
}

func (e *codedError) WithData(data interface{}) Error {
	return &codedError{code: e.code, message: e.message, data: data}
}

// NewError builds an Error from a registered code.
func NewError(code int) Error {
	if msg, exists := ErrorMessages[code]; exists {
		return &codedError{code: code, message: msg}
	}
	return &codedError{code: code, message: "unknown error"}
}

// NewErrorMsg builds an Error with a custom message.
func NewErrorMsg(code int, message string) Error {
	return &codedError{code: code, message: message}
}

// CodeOf extracts the business code from err, or CodeSystemError when
// err is not a coded error.
func CodeOf(err error) int {
	var ce Error
	if errors.As(err, &ce) {
		return ce.Code()
	}
	return CodeSystemError
}

// IsCode reports whether err carries the given business code.
func IsCode(err error, code int) bool {
	return err != nil && CodeOf(err) == code
}
