package domain

import "math"

// ConsistencyLevel is the qualitative band of a consistency score.
type ConsistencyLevel string

const (
	ConsistencyExcellent        ConsistencyLevel = "excellent"
	ConsistencyGood             ConsistencyLevel = "good"
	ConsistencyFair             ConsistencyLevel = "fair"
	ConsistencyNeedsImprovement ConsistencyLevel = "needs_improvement"
)

// Consistency summarises how reliably weekly targets were met.
type Consistency struct {
	Score           int              `json:"score"`
	Level           ConsistencyLevel `json:"level"`
	ConsistentWeeks int              `json:"consistent_weeks"`
	TotalWeeks      int              `json:"total_weeks"`
	AverageRate     float64          `json:"average_rate"`
}

// ScoreConsistency blends the mean completion rate with the share of weeks
// that met their target. history is newest first; order does not matter.
func ScoreConsistency(history []ProgressTracking, policy ConsistencyPolicy) Consistency {
	if len(history) == 0 {
		return Consistency{Level: ConsistencyNeedsImprovement}
	}

	var rateSum float64
	consistent := 0
	for _, week := range history {
		rateSum += float64(min(max(week.CompletionRate, 0), 100))
		if week.GoalMet() {
			consistent++
		}
	}

	total := len(history)
	avgRate := rateSum / float64(total)
	onTarget := float64(consistent) / float64(total) * 100
	score := int(math.Round(policy.RateWeight*avgRate + (1-policy.RateWeight)*onTarget))
	score = min(max(score, 0), 100)

	return Consistency{
		Score:           score,
		Level:           consistencyLevel(score, policy),
		ConsistentWeeks: consistent,
		TotalWeeks:      total,
		AverageRate:     math.Round(avgRate*10) / 10,
	}
}

func consistencyLevel(score int, policy ConsistencyPolicy) ConsistencyLevel {
	switch {
	case score >= policy.Excellent:
		return ConsistencyExcellent
	case score >= policy.Good:
		return ConsistencyGood
	case score >= policy.Fair:
		return ConsistencyFair
	default:
		return ConsistencyNeedsImprovement
	}
}
