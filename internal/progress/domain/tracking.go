package domain

import (
	"math"
	"time"

	"github.com/google/uuid"
)

// ProgressTracking is the weekly aggregate for one user and category.
// It is always derived from journal history and can be rebuilt at any time.
type ProgressTracking struct {
	ID             uuid.UUID  `json:"id"`
	UserID         uuid.UUID  `json:"user_id"`
	CategoryID     uuid.UUID  `json:"category_id"`
	WeekStartDate  time.Time  `json:"week_start_date"`
	TargetCount    int        `json:"target_count"`
	CompletedCount int        `json:"completed_count"`
	CompletionRate int        `json:"completion_rate"`
	CurrentStreak  int        `json:"current_streak"`
	BestStreak     int        `json:"best_streak"`
	LastEntryDate  *time.Time `json:"last_entry_date,omitempty"`
	UpdatedAt      time.Time  `json:"updated_at"`
}

// Remaining returns how many submissions are still needed this week.
func (p *ProgressTracking) Remaining() int {
	if p.CompletedCount >= p.TargetCount {
		return 0
	}
	return p.TargetCount - p.CompletedCount
}

// GoalMet reports whether the week's target was reached.
func (p *ProgressTracking) GoalMet() bool {
	return p.TargetCount > 0 && p.CompletedCount >= p.TargetCount
}

// WeekEnd returns the exclusive end of the tracked week.
func (p *ProgressTracking) WeekEnd() time.Time {
	return p.WeekStartDate.AddDate(0, 0, 7)
}

// WeekStart returns Monday 00:00 UTC of the week containing t.
// Sunday belongs to the week that started six days earlier.
func WeekStart(t time.Time) time.Time {
	day := Day(t)
	offset := (int(day.Weekday()) + 6) % 7
	return day.AddDate(0, 0, -offset)
}

// Day truncates t to its UTC calendar day.
func Day(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// CompletionRate returns completed/target as a whole percentage in [0, 100].
func CompletionRate(completed, target int) int {
	if target <= 0 || completed <= 0 {
		return 0
	}
	rate := int(math.Round(float64(completed) / float64(target) * 100))
	if rate > 100 {
		return 100
	}
	return rate
}
