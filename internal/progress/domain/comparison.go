package domain

import "fmt"

// Comparison is the difference between the current and the previous week.
type Comparison struct {
	HasPrevious          bool   `json:"has_previous"`
	CompletionRateChange int    `json:"completion_rate_change"`
	StreakChange         int    `json:"streak_change"`
	Improvement          bool   `json:"improvement"`
	Message              string `json:"message"`
}

// CompareWeeks diffs current against previous, which may be nil.
func CompareWeeks(current ProgressTracking, previous *ProgressTracking) Comparison {
	if previous == nil {
		return Comparison{
			Message: "First tracked week. Next week's progress will be compared against this one.",
		}
	}

	rateChange := current.CompletionRate - previous.CompletionRate
	streakChange := current.CurrentStreak - previous.CurrentStreak
	comparison := Comparison{
		HasPrevious:          true,
		CompletionRateChange: rateChange,
		StreakChange:         streakChange,
		Improvement:          rateChange > 0 || (rateChange == 0 && streakChange > 0),
	}

	switch {
	case rateChange > 0:
		comparison.Message = fmt.Sprintf("Completion rate up %d points on last week.", rateChange)
	case rateChange < 0:
		comparison.Message = fmt.Sprintf("Completion rate down %d points on last week.", -rateChange)
	case streakChange > 0:
		comparison.Message = "Same completion rate as last week, with a longer streak."
	default:
		comparison.Message = "Holding steady compared to last week."
	}
	return comparison
}
