package domain

import (
	"fmt"
	"math"
	"time"
)

// Prediction estimates whether the current week's target will be reached.
type Prediction struct {
	WillComplete   bool    `json:"will_complete"`
	DaysNeeded     int     `json:"days_needed"`
	DaysRemaining  int     `json:"days_remaining"`
	DailyRate      float64 `json:"daily_rate"`
	Confidence     int     `json:"confidence"`
	Recommendation string  `json:"recommendation"`
}

// AverageDailyRate returns journals per day since the first journal. The
// denominator is clamped to one day.
func AverageDailyRate(totalJournals int, firstJournalAt *time.Time, now time.Time) float64 {
	if totalJournals <= 0 || firstJournalAt == nil {
		return 0
	}
	days := int(Day(now).Sub(Day(*firstJournalAt)).Hours() / 24)
	if days < 1 {
		days = 1
	}
	return float64(totalJournals) / float64(days)
}

// DaysRemainingInWeek counts the days left in week, including today.
func DaysRemainingInWeek(week ProgressTracking, now time.Time) int {
	days := int(week.WeekEnd().Sub(Day(now)).Hours() / 24)
	return min(max(days, 0), 7)
}

// PredictGoal projects the observed daily rate over the rest of the week.
func PredictGoal(week ProgressTracking, dailyRate float64, now time.Time, policy PredictionPolicy) Prediction {
	daysRemaining := DaysRemainingInWeek(week, now)
	remaining := week.Remaining()
	prediction := Prediction{
		DaysRemaining: daysRemaining,
		DailyRate:     round2(dailyRate),
	}

	if remaining == 0 {
		prediction.WillComplete = true
		prediction.Confidence = 100
		prediction.Recommendation = "Weekly goal reached. Keep the momentum going."
		return prediction
	}

	if dailyRate <= 0 {
		prediction.DaysNeeded = remaining
		prediction.Confidence = policy.LowConfidence
		prediction.Recommendation = fmt.Sprintf("No journaling pace yet. Submit %d more %s this week to hit your goal.", remaining, plural(remaining, "entry", "entries"))
		return prediction
	}

	prediction.DaysNeeded = int(math.Ceil(float64(remaining) / dailyRate))
	prediction.WillComplete = prediction.DaysNeeded <= daysRemaining

	projected := float64(week.CompletedCount) + dailyRate*float64(daysRemaining)
	confidence := int(math.Round(projected / float64(week.TargetCount) * 100))
	prediction.Confidence = min(max(confidence, policy.MinConfidence), policy.MaxConfidence)

	switch {
	case prediction.WillComplete:
		prediction.Recommendation = fmt.Sprintf("On track. %d more %s needed with %d %s left.", remaining, plural(remaining, "entry", "entries"), daysRemaining, plural(daysRemaining, "day", "days"))
	case daysRemaining >= remaining:
		prediction.Recommendation = fmt.Sprintf("Behind pace. Journal daily to finish the remaining %d %s.", remaining, plural(remaining, "entry", "entries"))
	default:
		prediction.Recommendation = "The weekly goal is out of reach. Focus on keeping your streak alive."
	}
	return prediction
}

func plural(n int, one, many string) string {
	if n == 1 {
		return one
	}
	return many
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
