// Package services contains the journal submission pipeline stages.
package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/habitlog/habitlog/internal/journals/domain"
	sharedApplication "github.com/habitlog/habitlog/internal/shared/application"
)

// Eligibility is the validated context a submission runs in.
type Eligibility struct {
	Category          *domain.Category
	Assignment        *domain.Assignment
	Templates         []*domain.TaskTemplate
	CompletedTasks    int
	RequiredCompleted int
	RequiredTotal     int
}

// TotalTasks returns the number of templates in the category.
func (e *Eligibility) TotalTasks() int {
	return len(e.Templates)
}

// EligibilityValidator checks that a user may submit against a category.
// It performs reads only.
type EligibilityValidator struct {
	categories  domain.CategoryRepository
	assignments domain.AssignmentRepository
	templates   domain.TaskTemplateRepository
}

// NewEligibilityValidator creates a new validator.
func NewEligibilityValidator(
	categories domain.CategoryRepository,
	assignments domain.AssignmentRepository,
	templates domain.TaskTemplateRepository,
) *EligibilityValidator {
	return &EligibilityValidator{
		categories:  categories,
		assignments: assignments,
		templates:   templates,
	}
}

// Validate runs the category, assignment, template and required-task checks
// in order and fails on the first violation.
func (v *EligibilityValidator) Validate(
	ctx context.Context,
	userID, categoryID uuid.UUID,
	entries []domain.CompletionEntry,
	now time.Time,
) (*Eligibility, error) {
	category, err := v.categories.FindByID(ctx, categoryID)
	if err != nil {
		return nil, sharedApplication.DatabaseError("failed to load category", err)
	}
	if category == nil {
		return nil, sharedApplication.NotFound("category not found").
			WithDetail("category_id", categoryID.String())
	}
	if !category.IsActive {
		return nil, sharedApplication.NotFound("category is not active").
			WithDetail("category_id", categoryID.String()).
			WithDetail("reason", "category_inactive")
	}

	assignment, err := v.assignments.FindByUserAndCategory(ctx, userID, categoryID)
	if err != nil {
		return nil, sharedApplication.DatabaseError("failed to load assignment", err)
	}
	if err := checkAssignment(assignment, now); err != nil {
		return nil, err.WithDetail("category_id", categoryID.String())
	}

	templates, err := v.templates.FindByCategory(ctx, categoryID)
	if err != nil {
		return nil, sharedApplication.DatabaseError("failed to load task templates", err)
	}

	eligibility := &Eligibility{
		Category:   category,
		Assignment: assignment,
		Templates:  templates,
	}

	byID := make(map[uuid.UUID]*domain.TaskTemplate, len(templates))
	for _, tmpl := range templates {
		byID[tmpl.ID] = tmpl
	}

	var invalid []string
	completed := make(map[uuid.UUID]bool, len(entries))
	for _, entry := range entries {
		if _, ok := byID[entry.TaskTemplateID]; !ok {
			invalid = append(invalid, entry.TaskTemplateID.String())
			continue
		}
		if entry.IsCompleted {
			completed[entry.TaskTemplateID] = true
			eligibility.CompletedTasks++
		}
	}
	if len(invalid) > 0 {
		fields := make([]sharedApplication.FieldError, 0, len(invalid))
		for _, id := range invalid {
			fields = append(fields, sharedApplication.FieldError{
				Field:   "task_completions.task_template_id",
				Message: fmt.Sprintf("task template %s does not exist in this category", id),
			})
		}
		return nil, sharedApplication.ValidationFailed("task completions reference unknown templates", fields...).
			WithDetail("invalid_template_ids", invalid)
	}

	var missing []string
	for _, tmpl := range templates {
		if !tmpl.IsRequired {
			continue
		}
		eligibility.RequiredTotal++
		if completed[tmpl.ID] {
			eligibility.RequiredCompleted++
			continue
		}
		missing = append(missing, tmpl.ID.String())
	}
	if len(missing) > 0 {
		return nil, sharedApplication.ValidationFailed(
			fmt.Sprintf("required tasks incomplete (%d/%d)", eligibility.RequiredCompleted, eligibility.RequiredTotal),
			sharedApplication.FieldError{
				Field:   "task_completions",
				Message: "required tasks not completed: " + strings.Join(missing, ", "),
			},
		).
			WithDetail("required_completed", eligibility.RequiredCompleted).
			WithDetail("required_total", eligibility.RequiredTotal).
			WithDetail("missing_template_ids", missing)
	}

	return eligibility, nil
}

func checkAssignment(a *domain.Assignment, now time.Time) *sharedApplication.Error {
	switch {
	case a == nil:
		return sharedApplication.Forbidden("no assignment for this category").WithDetail("reason", "no_assignment")
	case !a.IsActive:
		return sharedApplication.Forbidden("assignment is not active").WithDetail("reason", "assignment_inactive")
	case a.NotStartedAt(now):
		return sharedApplication.Forbidden("assignment has not started").WithDetail("reason", "assignment_not_started")
	case a.EndedAt(now):
		return sharedApplication.Forbidden("assignment has ended").WithDetail("reason", "assignment_ended")
	}
	return nil
}
