package utils

import "errors"

type ErrorType int

const (
	ErrInternal ErrorType = iota
	ErrBadInput
	ErrNotFound
)

const internalMessage = "Something went wrong handling this command."

type Failure struct {
	Type    ErrorType
	Message string
	Data    map[string]any
}

func (f Failure) Error() string {
	return f.Message
}

// FailureText is the user-facing text for err. Only ErrBadInput and
// ErrNotFound messages are shown verbatim.
func FailureText(err error) string {
	var f Failure
	if errors.As(err, &f) && f.Type != ErrInternal && f.Message != "" {
		return f.Message
	}
	return internalMessage
}
