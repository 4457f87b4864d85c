package mcp

import (
	"context"
	"errors"

	"github.com/felixgeelhaar/mcp-go"
	"github.com/habitlog/habitlog/adapter/cli"
	"github.com/habitlog/habitlog/internal/journals/application/commands"
	"github.com/habitlog/habitlog/internal/journals/domain"
)

type taskCompletionInput struct {
	TaskTemplateID string `json:"task_template_id" jsonschema:"required"`
	IsCompleted    bool   `json:"is_completed"`
	CompletionNote string `json:"completion_note,omitempty"`
}

type journalSubmitInput struct {
	CategoryID      string                `json:"category_id" jsonschema:"required"`
	Title           string                `json:"title" jsonschema:"required"`
	Reflection      string                `json:"reflection,omitempty"`
	IsPublic        bool                  `json:"is_public,omitempty"`
	TaskCompletions []taskCompletionInput `json:"task_completions,omitempty"`
}

type journalIDInput struct {
	JournalID string `json:"journal_id" jsonschema:"required"`
}

type journalDeleteOutput struct {
	Deleted   bool   `json:"deleted"`
	JournalID string `json:"journal_id"`
}

func registerJournalTools(srv *mcp.Server, deps ToolDependencies) {
	srv.Tool("journal.submit").
		Description("Submit today's structured journal for an assigned category, reporting each checklist item").
		Handler(submitJournal(deps.App))

	srv.Tool("journal.delete").
		Description("Delete one of your journals").
		Handler(deleteJournal(deps.App))
}

func submitJournal(app *cli.App) func(context.Context, journalSubmitInput) (*commands.SubmitJournalResult, error) {
	return func(ctx context.Context, input journalSubmitInput) (*commands.SubmitJournalResult, error) {
		if app == nil || app.SubmitJournalHandler == nil {
			return nil, errors.New("journal submission requires database connection")
		}
		categoryID, err := parseUUID("category_id", input.CategoryID)
		if err != nil {
			return nil, err
		}

		entries := make([]domain.CompletionEntry, 0, len(input.TaskCompletions))
		for _, tc := range input.TaskCompletions {
			templateID, err := parseUUID("task_template_id", tc.TaskTemplateID)
			if err != nil {
				return nil, err
			}
			entries = append(entries, domain.CompletionEntry{
				TaskTemplateID: templateID,
				IsCompleted:    tc.IsCompleted,
				Note:           tc.CompletionNote,
			})
		}

		result, err := app.SubmitJournalHandler.Handle(ctx, commands.SubmitStructuredJournalCommand{
			UserID:          app.CurrentUserID,
			CategoryID:      categoryID,
			Title:           input.Title,
			Reflection:      input.Reflection,
			IsPublic:        input.IsPublic,
			TaskCompletions: entries,
		})
		if err != nil {
			return nil, toolError(err)
		}
		return result, nil
	}
}

func deleteJournal(app *cli.App) func(context.Context, journalIDInput) (*journalDeleteOutput, error) {
	return func(ctx context.Context, input journalIDInput) (*journalDeleteOutput, error) {
		if app == nil || app.DeleteJournalHandler == nil {
			return nil, errors.New("journal deletion requires database connection")
		}
		journalID, err := parseUUID("journal_id", input.JournalID)
		if err != nil {
			return nil, err
		}

		if err := app.DeleteJournalHandler.Handle(ctx, commands.DeleteJournalCommand{
			UserID:    app.CurrentUserID,
			JournalID: journalID,
		}); err != nil {
			return nil, toolError(err)
		}
		return &journalDeleteOutput{Deleted: true, JournalID: journalID.String()}, nil
	}
}
