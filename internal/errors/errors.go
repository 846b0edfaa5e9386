// Package errors wraps go-errors so every error leaving a package boundary
// carries the stack of the place it was first seen.
package errors

import (
	"fmt"

	"github.com/go-errors/errors"
)

func New(msg interface{}) error {
	if msg == nil {
		return nil
	}

	return errors.Wrap(msg, 1)
}

func Errorf(format string, a ...interface{}) error {
	return errors.Wrap(fmt.Errorf(format, a...), 1)
}

func Wrap(err error) error {
	if err == nil {
		return nil
	}

	return errors.Wrap(err, 1)
}

func Wrapf(err error, format string, a ...interface{}) error {
	if err == nil {
		return nil
	}

	return errors.WrapPrefix(err, fmt.Sprintf(format, a...), 1)
}

func Is(err, target error) bool {
	return errors.Is(err, target)
}

func As(err error, target interface{}) bool {
	return errors.As(err, target)
}

// Stack returns the stack trace recorded for err, or its message when err was
// never wrapped by this package.
func Stack(err error) string {
	if err == nil {
		return ""
	}

	var withStack *errors.Error
	if errors.As(err, &withStack) {
		return withStack.ErrorStack()
	}

	return err.Error()
}
