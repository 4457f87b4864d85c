package cli

import (
	"errors"
	"fmt"
	"strings"

	sharedApplication "github.com/habitlog/habitlog/internal/shared/application"
)

// commandError is a handler failure rendered for terminal output.
type commandError struct {
	message string
	err     error
}

func (e *commandError) Error() string { return e.message }
func (e *commandError) Unwrap() error { return e.err }

// CommandError renders a handler failure with its error code and any
// field-level validation messages.
func CommandError(action string, err error) error {
	if err == nil {
		return nil
	}
	var appErr *sharedApplication.Error
	if !errors.As(err, &appErr) {
		return fmt.Errorf("%s: %w", action, err)
	}

	var b strings.Builder
	fmt.Fprintf(&b, "%s: %s [%s]", action, appErr.Message, appErr.Code)
	for _, fe := range appErr.ValidationErrors {
		fmt.Fprintf(&b, "\n  %s: %s", fe.Field, fe.Message)
	}
	for key, value := range appErr.Details {
		fmt.Fprintf(&b, "\n  %s=%v", key, value)
	}
	return &commandError{message: b.String(), err: err}
}
