package core

import (
	"errors"
	"fmt"
)

// Level is the severity of an Exception
type Level int

const (
	Info Level = iota
	Warning
	Error
	Fatal
)

func (l Level) String() string {
	switch l {
	case Info:
		return "info"
	case Warning:
		return "warning"
	case Error:
		return "error"
	case Fatal:
		return "fatal"
	default:
		return fmt.Sprintf("level(%d)", int(l))
	}
}

// ErrNotFound is wrapped by exceptions raised for dangling handles
var ErrNotFound = errors.New("not found")

// Exception is a severity-tagged renderer error
type Exception struct {
	Level   Level
	Message string
	Err     error
}

// NewException creates an exception with a formatted message
func NewException(level Level, format string, args ...any) *Exception {
	return &Exception{Level: level, Message: fmt.Sprintf(format, args...)}
}

// Wrap attaches a cause to the exception
func (e *Exception) Wrap(err error) *Exception {
	e.Err = err
	return e
}

func (e *Exception) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Level, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Level, e.Message)
}

func (e *Exception) Unwrap() error {
	return e.Err
}

// IsFatal reports whether err carries a Fatal exception anywhere in its chain
func IsFatal(err error) bool {
	var ex *Exception
	return errors.As(err, &ex) && ex.Level == Fatal
}
