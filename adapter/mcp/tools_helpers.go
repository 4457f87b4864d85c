package mcp

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
	sharedApplication "github.com/habitlog/habitlog/internal/shared/application"
)

func parseUUID(field, value string) (uuid.UUID, error) {
	if value == "" {
		return uuid.UUID{}, fmt.Errorf("%s is required", field)
	}
	id, err := uuid.Parse(value)
	if err != nil {
		return uuid.UUID{}, fmt.Errorf("invalid %s: %w", field, err)
	}
	return id, nil
}

// toolError prefixes application failures with their error code so agents
// can branch on it. Store causes are not exposed.
func toolError(err error) error {
	var appErr *sharedApplication.Error
	if !errors.As(err, &appErr) {
		return err
	}
	msg := fmt.Sprintf("%s: %s", appErr.Code, appErr.Message)
	for _, fe := range appErr.ValidationErrors {
		msg += fmt.Sprintf("; %s %s", fe.Field, fe.Message)
	}
	return errors.New(msg)
}
