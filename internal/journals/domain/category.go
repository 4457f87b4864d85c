package domain

import (
	"time"

	"github.com/google/uuid"
)

// Category groups journals and task templates. It is administered elsewhere
// and is read-only here.
type Category struct {
	ID       uuid.UUID
	Name     string
	IsActive bool
}

// Assignment enrolls a user in a category with a weekly target.
type Assignment struct {
	ID         uuid.UUID
	UserID     uuid.UUID
	CategoryID uuid.UUID
	WeeklyGoal int
	IsActive   bool
	StartDate  *time.Time
	EndDate    *time.Time
}

// NotStartedAt reports whether now falls before the assignment's start day.
func (a *Assignment) NotStartedAt(now time.Time) bool {
	if a.StartDate == nil {
		return false
	}
	return dayOf(now).Before(dayOf(*a.StartDate))
}

// EndedAt reports whether now falls after the assignment's end day.
func (a *Assignment) EndedAt(now time.Time) bool {
	if a.EndDate == nil {
		return false
	}
	return dayOf(now).After(dayOf(*a.EndDate))
}

// Target returns the weekly goal, defaulting to one submission.
func (a *Assignment) Target() int {
	if a == nil || a.WeeklyGoal <= 0 {
		return 1
	}
	return a.WeeklyGoal
}

// TaskTemplate is a checklist item that structured journals report on.
type TaskTemplate struct {
	ID         uuid.UUID
	CategoryID uuid.UUID
	Title      string
	IsRequired bool
	SortOrder  int
}

// dayOf truncates t to its UTC calendar day.
func dayOf(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
