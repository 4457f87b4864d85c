package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	journalCommands "github.com/habitlog/habitlog/internal/journals/application/commands"
	journalsDomain "github.com/habitlog/habitlog/internal/journals/domain"
	sharedApplication "github.com/habitlog/habitlog/internal/shared/application"
)

const maxBodyBytes = 1 << 20

// TaskCompletionRequest is one checklist line of a submission.
type TaskCompletionRequest struct {
	TaskTemplateID string `json:"task_template_id" validate:"required,uuid"`
	IsCompleted    bool   `json:"is_completed"`
	CompletionNote string `json:"completion_note,omitempty" validate:"max=1000"`
}

// SubmitJournalRequest is the body of POST /api/v1/journals/structured.
type SubmitJournalRequest struct {
	CategoryID      string                  `json:"category_id" validate:"required,uuid"`
	Title           string                  `json:"title" validate:"required,max=200"`
	Reflection      string                  `json:"reflection" validate:"max=10000"`
	IsPublic        bool                    `json:"is_public"`
	TaskCompletions []TaskCompletionRequest `json:"task_completions" validate:"dive"`
}

// Command converts a validated request into a submit command.
func (r SubmitJournalRequest) Command(userID uuid.UUID) journalCommands.SubmitStructuredJournalCommand {
	entries := make([]journalsDomain.CompletionEntry, 0, len(r.TaskCompletions))
	for _, tc := range r.TaskCompletions {
		entries = append(entries, journalsDomain.CompletionEntry{
			TaskTemplateID: uuid.MustParse(tc.TaskTemplateID),
			IsCompleted:    tc.IsCompleted,
			Note:           tc.CompletionNote,
		})
	}
	return journalCommands.SubmitStructuredJournalCommand{
		UserID:          userID,
		CategoryID:      uuid.MustParse(r.CategoryID),
		Title:           r.Title,
		Reflection:      r.Reflection,
		IsPublic:        r.IsPublic,
		TaskCompletions: entries,
	}
}

// RequestValidator decodes and validates request bodies.
type RequestValidator struct {
	validate *validator.Validate
}

// NewRequestValidator creates a validator that reports JSON field names.
func NewRequestValidator() *RequestValidator {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(field reflect.StructField) string {
		name, _, _ := strings.Cut(field.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		return name
	})
	return &RequestValidator{validate: v}
}

// Decode reads the JSON body into dst and validates it.
func (v *RequestValidator) Decode(r *http.Request, dst any) error {
	decoder := json.NewDecoder(io.LimitReader(r.Body, maxBodyBytes))
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(dst); err != nil {
		return sharedApplication.ValidationFailed("invalid JSON body", sharedApplication.FieldError{
			Field:   "body",
			Message: err.Error(),
		})
	}
	return v.Struct(dst)
}

// Struct validates a decoded request.
func (v *RequestValidator) Struct(dst any) error {
	err := v.validate.Struct(dst)
	if err == nil {
		return nil
	}

	var validationErrs validator.ValidationErrors
	if !errors.As(err, &validationErrs) {
		return sharedApplication.ValidationFailed("invalid request", sharedApplication.FieldError{
			Field:   "body",
			Message: err.Error(),
		})
	}

	fields := make([]sharedApplication.FieldError, 0, len(validationErrs))
	for _, fe := range validationErrs {
		fields = append(fields, sharedApplication.FieldError{
			Field:   fieldPath(fe.Namespace()),
			Message: fieldMessage(fe),
		})
	}
	return sharedApplication.ValidationFailed("request validation failed", fields...)
}

// fieldPath drops the struct name from a validator namespace.
func fieldPath(namespace string) string {
	if _, rest, ok := strings.Cut(namespace, "."); ok {
		return rest
	}
	return namespace
}

func fieldMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "uuid":
		return "must be a UUID"
	case "max":
		return fmt.Sprintf("must be at most %s characters", fe.Param())
	default:
		return fmt.Sprintf("failed %s validation", fe.Tag())
	}
}
