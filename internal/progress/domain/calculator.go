package domain

import (
	"sort"
	"time"

	"github.com/google/uuid"
)

// WeekInput is the journal history needed to compute one week's aggregate.
type WeekInput struct {
	UserID     uuid.UUID
	CategoryID uuid.UUID
	Now        time.Time
	Target     int
	// CompletedCount is the number of live journals in the week containing Now.
	CompletedCount int
	// Recent holds the newest journal timestamps, newest first, capped at
	// the streak lookback.
	Recent       []time.Time
	PreviousBest int
}

// ComputeWeek derives the aggregate for the week containing in.Now.
func ComputeWeek(in WeekInput) ProgressTracking {
	target := in.Target
	if target <= 0 {
		target = 1
	}
	streak := ComputeStreak(in.Recent, in.Now, in.PreviousBest)

	week := ProgressTracking{
		UserID:         in.UserID,
		CategoryID:     in.CategoryID,
		WeekStartDate:  WeekStart(in.Now),
		TargetCount:    target,
		CompletedCount: in.CompletedCount,
		CompletionRate: CompletionRate(in.CompletedCount, target),
		CurrentStreak:  streak.Current,
		BestStreak:     streak.Best,
		UpdatedAt:      in.Now.UTC(),
	}
	if len(in.Recent) > 0 {
		last := newest(in.Recent).UTC()
		week.LastEntryDate = &last
	}
	return week
}

// BuildHistory recomputes every weekly aggregate for a user and category from
// the full set of journal timestamps, from the first journal's week through
// the week containing now. Rows are returned oldest first. Each week is
// evaluated as of its last instant (or now, for the current week) and best
// streaks carry forward. Every week is scored against target.
func BuildHistory(userID, categoryID uuid.UUID, journals []time.Time, target, lookback int, now time.Time) []ProgressTracking {
	if len(journals) == 0 {
		return nil
	}
	if lookback <= 0 {
		lookback = DefaultStreakLookback
	}

	sorted := make([]time.Time, len(journals))
	copy(sorted, journals)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].After(sorted[j]) })

	first := WeekStart(sorted[len(sorted)-1])
	current := WeekStart(now)
	rows := make([]ProgressTracking, 0)
	best := 0

	for start := first; !start.After(current); start = start.AddDate(0, 0, 7) {
		end := start.AddDate(0, 0, 7)
		asOf := end.Add(-time.Nanosecond)
		if now.Before(asOf) {
			asOf = now
		}

		completed := 0
		var recent []time.Time
		for _, t := range sorted {
			if t.After(asOf) {
				continue
			}
			if !t.Before(start) && t.Before(end) {
				completed++
			}
			if len(recent) < lookback {
				recent = append(recent, t)
			}
		}

		week := ComputeWeek(WeekInput{
			UserID:         userID,
			CategoryID:     categoryID,
			Now:            asOf,
			Target:         target,
			CompletedCount: completed,
			Recent:         recent,
			PreviousBest:   best,
		})
		best = week.BestStreak
		rows = append(rows, week)
	}
	return rows
}

func newest(times []time.Time) time.Time {
	latest := times[0]
	for _, t := range times[1:] {
		if t.After(latest) {
			latest = t
		}
	}
	return latest
}
