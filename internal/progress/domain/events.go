package domain

import (
	"time"

	"github.com/google/uuid"
	sharedDomain "github.com/habitlog/habitlog/internal/shared/domain"
)

const RoutingKeyProgressUpdated = "progress.tracking.updated"

// ProgressUpdated is emitted after a weekly aggregate is recomputed.
type ProgressUpdated struct {
	sharedDomain.BaseEvent
	UserID         uuid.UUID `json:"user_id"`
	CategoryID     uuid.UUID `json:"category_id"`
	WeekStartDate  time.Time `json:"week_start_date"`
	CompletedCount int       `json:"completed_count"`
	TargetCount    int       `json:"target_count"`
	CompletionRate int       `json:"completion_rate"`
	CurrentStreak  int       `json:"current_streak"`
	BestStreak     int       `json:"best_streak"`
}

// NewProgressUpdated creates a ProgressUpdated event for a stored row.
func NewProgressUpdated(p *ProgressTracking) *ProgressUpdated {
	return &ProgressUpdated{
		BaseEvent:      sharedDomain.NewBaseEvent(p.ID, "ProgressTracking", RoutingKeyProgressUpdated, p.UpdatedAt),
		UserID:         p.UserID,
		CategoryID:     p.CategoryID,
		WeekStartDate:  p.WeekStartDate,
		CompletedCount: p.CompletedCount,
		TargetCount:    p.TargetCount,
		CompletionRate: p.CompletionRate,
		CurrentStreak:  p.CurrentStreak,
		BestStreak:     p.BestStreak,
	}
}
