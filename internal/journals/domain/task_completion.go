package domain

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// CompletionEntry is one checklist line reported with a submission.
type CompletionEntry struct {
	TaskTemplateID uuid.UUID
	IsCompleted    bool
	Note           string
}

// TaskCompletion records whether a task template was done for a journal.
type TaskCompletion struct {
	id             uuid.UUID
	journalID      uuid.UUID
	taskTemplateID uuid.UUID
	isCompleted    bool
	note           string
	completedAt    *time.Time
}

// NewTaskCompletion creates a completion row for journalID.
func NewTaskCompletion(journalID uuid.UUID, entry CompletionEntry, at time.Time) *TaskCompletion {
	c := &TaskCompletion{
		id:             uuid.New(),
		journalID:      journalID,
		taskTemplateID: entry.TaskTemplateID,
		isCompleted:    entry.IsCompleted,
		note:           strings.TrimSpace(entry.Note),
	}
	if entry.IsCompleted {
		completedAt := at.UTC()
		c.completedAt = &completedAt
	}
	return c
}

// RehydrateTaskCompletion recreates a completion from persisted state.
func RehydrateTaskCompletion(id, journalID, taskTemplateID uuid.UUID, isCompleted bool, note string, completedAt *time.Time) *TaskCompletion {
	return &TaskCompletion{
		id:             id,
		journalID:      journalID,
		taskTemplateID: taskTemplateID,
		isCompleted:    isCompleted,
		note:           note,
		completedAt:    completedAt,
	}
}

func (c *TaskCompletion) ID() uuid.UUID             { return c.id }
func (c *TaskCompletion) JournalID() uuid.UUID      { return c.journalID }
func (c *TaskCompletion) TaskTemplateID() uuid.UUID { return c.taskTemplateID }
func (c *TaskCompletion) IsCompleted() bool         { return c.isCompleted }
func (c *TaskCompletion) Note() string              { return c.note }
func (c *TaskCompletion) CompletedAt() *time.Time   { return c.completedAt }
