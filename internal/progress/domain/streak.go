package domain

import (
	"sort"
	"time"
)

// DefaultStreakLookback is how many recent journals feed the streak engine.
const DefaultStreakLookback = 30

// Streak holds the streak figures for a user and category.
type Streak struct {
	Current int `json:"current"`
	Best    int `json:"best"`
}

// IsActive reports whether a streak is running.
func (s Streak) IsActive() bool {
	return s.Current > 0
}

// DistinctDays reduces submission times to unique UTC days, newest first.
func DistinctDays(times []time.Time) []time.Time {
	seen := make(map[time.Time]struct{}, len(times))
	days := make([]time.Time, 0, len(times))
	for _, t := range times {
		day := Day(t)
		if _, ok := seen[day]; ok {
			continue
		}
		seen[day] = struct{}{}
		days = append(days, day)
	}
	sort.Slice(days, func(i, j int) bool { return days[i].After(days[j]) })
	return days
}

// CurrentStreak counts consecutive days ending today or yesterday.
// days must be distinct and sorted newest first.
func CurrentStreak(days []time.Time, now time.Time) int {
	if len(days) == 0 {
		return 0
	}

	today := Day(now)
	yesterday := today.AddDate(0, 0, -1)
	if !days[0].Equal(today) && !days[0].Equal(yesterday) {
		return 0
	}

	current := 1
	for i := 1; i < len(days); i++ {
		if !days[i-1].AddDate(0, 0, -1).Equal(days[i]) {
			break
		}
		current++
	}
	return current
}

// LongestRun returns the longest run of consecutive days in the list,
// independent of the evaluation time. days must be distinct and sorted
// newest first.
func LongestRun(days []time.Time) int {
	if len(days) == 0 {
		return 0
	}

	longest := 1
	run := 1
	for i := 1; i < len(days); i++ {
		if days[i-1].AddDate(0, 0, -1).Equal(days[i]) {
			run++
			if run > longest {
				longest = run
			}
			continue
		}
		run = 1
	}
	return longest
}

// ComputeStreak derives streaks from recent submission times. previousBest is
// the best streak already persisted for the pair, so the result never
// decreases as old entries leave the lookback window.
func ComputeStreak(recent []time.Time, now time.Time, previousBest int) Streak {
	days := DistinctDays(recent)
	current := CurrentStreak(days, now)
	best := max(current, LongestRun(days), previousBest)
	return Streak{Current: current, Best: best}
}
