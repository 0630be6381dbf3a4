package utils

import (
	"errors"
	"fmt"
)

var ErrorRecordNotFound = errors.New("record not found")

// ClientInputError marks a failure caused by the caller's input (bad ids,
// values, dates). The HTTP layer maps it to a 400; it is never retried.
type ClientInputError struct {
	Message string
}

func (e *ClientInputError) Error() string {
	return e.Message
}

func NewClientInputError(format string, args ...any) error {
	return &ClientInputError{Message: fmt.Sprintf(format, args...)}
}

func IsClientInputError(err error) bool {
	var cie *ClientInputError
	return errors.As(err, &cie)
}
