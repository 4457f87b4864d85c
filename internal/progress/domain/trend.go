package domain

import (
	"math"
	"sort"
	"time"
)

// Trend is the direction of completion rates over the analysed window.
type Trend string

const (
	TrendImproving Trend = "improving"
	TrendDeclining Trend = "declining"
	TrendStable    Trend = "stable"
)

// Volatility buckets the dispersion of weekly completion rates.
type Volatility string

const (
	VolatilityLow    Volatility = "low"
	VolatilityMedium Volatility = "medium"
	VolatilityHigh   Volatility = "high"
)

// WeekSummary identifies a single week in an analysis.
type WeekSummary struct {
	WeekStartDate  time.Time `json:"week_start_date"`
	CompletionRate int       `json:"completion_rate"`
	CompletedCount int       `json:"completed_count"`
	TargetCount    int       `json:"target_count"`
}

// MonthSummary is the mean completion rate of the weeks starting in a month.
type MonthSummary struct {
	Month       string  `json:"month"`
	AverageRate float64 `json:"average_rate"`
	Weeks       int     `json:"weeks"`
}

// SeasonalPattern groups weeks by calendar month.
type SeasonalPattern struct {
	Months     []MonthSummary `json:"months"`
	BestMonth  *MonthSummary  `json:"best_month,omitempty"`
	WorstMonth *MonthSummary  `json:"worst_month,omitempty"`
}

// TrendAnalysis is the result of analysing weekly history.
type TrendAnalysis struct {
	ImprovementTrend  Trend           `json:"improvement_trend"`
	Slope             float64         `json:"slope"`
	AverageRate       float64         `json:"average_rate"`
	BestWeek          *WeekSummary    `json:"best_week,omitempty"`
	WorstWeek         *WeekSummary    `json:"worst_week,omitempty"`
	Volatility        Volatility      `json:"volatility"`
	StandardDeviation float64         `json:"standard_deviation"`
	WeeksAnalyzed     int             `json:"weeks_analyzed"`
	SeasonalPattern   SeasonalPattern `json:"seasonal_pattern"`
}

// AnalyzeTrend inspects the newest window weeks of history, which is ordered
// newest first. A window of zero or less analyses the whole history.
func AnalyzeTrend(history []ProgressTracking, window int, policy Policy) TrendAnalysis {
	if window <= 0 || window > len(history) {
		window = len(history)
	}
	weeks := history[:window]

	analysis := TrendAnalysis{
		ImprovementTrend: TrendStable,
		Volatility:       VolatilityLow,
		WeeksAnalyzed:    len(weeks),
		SeasonalPattern:  SeasonalPattern{Months: []MonthSummary{}},
	}
	if len(weeks) == 0 {
		return analysis
	}

	rates := make([]float64, len(weeks))
	for i, week := range weeks {
		// chronological order for the regression
		rates[len(weeks)-1-i] = float64(week.CompletionRate)
	}

	mean := average(rates)
	stdDev := standardDeviation(rates, mean)
	analysis.AverageRate = round1(mean)
	analysis.StandardDeviation = round1(stdDev)
	analysis.Volatility = classifyVolatility(stdDev, policy.Volatility)

	if len(rates) >= 2 {
		slope := linearSlope(rates)
		analysis.Slope = round1(slope)
		switch {
		case slope > policy.Trend.SlopeThreshold:
			analysis.ImprovementTrend = TrendImproving
		case slope < -policy.Trend.SlopeThreshold:
			analysis.ImprovementTrend = TrendDeclining
		}
	}

	analysis.BestWeek, analysis.WorstWeek = bestWorstWeeks(weeks)
	analysis.SeasonalPattern = seasonalPattern(weeks)
	return analysis
}

// bestWorstWeeks expects newest-first input so ties resolve to the most
// recent week.
func bestWorstWeeks(weeks []ProgressTracking) (*WeekSummary, *WeekSummary) {
	best, worst := summarizeWeek(weeks[0]), summarizeWeek(weeks[0])
	for _, week := range weeks[1:] {
		if week.CompletionRate > best.CompletionRate {
			best = summarizeWeek(week)
		}
		if week.CompletionRate < worst.CompletionRate {
			worst = summarizeWeek(week)
		}
	}
	return &best, &worst
}

func summarizeWeek(p ProgressTracking) WeekSummary {
	return WeekSummary{
		WeekStartDate:  p.WeekStartDate,
		CompletionRate: p.CompletionRate,
		CompletedCount: p.CompletedCount,
		TargetCount:    p.TargetCount,
	}
}

func seasonalPattern(weeks []ProgressTracking) SeasonalPattern {
	sums := make(map[string]float64)
	counts := make(map[string]int)
	for _, week := range weeks {
		key := week.WeekStartDate.UTC().Format("2006-01")
		sums[key] += float64(week.CompletionRate)
		counts[key]++
	}

	months := make([]MonthSummary, 0, len(counts))
	for key, n := range counts {
		months = append(months, MonthSummary{
			Month:       key,
			AverageRate: round1(sums[key] / float64(n)),
			Weeks:       n,
		})
	}
	sort.Slice(months, func(i, j int) bool { return months[i].Month < months[j].Month })

	pattern := SeasonalPattern{Months: months}
	if len(months) == 0 {
		return pattern
	}

	// walk newest to oldest so ties resolve to the most recent month
	best, worst := months[len(months)-1], months[len(months)-1]
	for i := len(months) - 2; i >= 0; i-- {
		if months[i].AverageRate > best.AverageRate {
			best = months[i]
		}
		if months[i].AverageRate < worst.AverageRate {
			worst = months[i]
		}
	}
	pattern.BestMonth = &best
	pattern.WorstMonth = &worst
	return pattern
}

func classifyVolatility(stdDev float64, policy VolatilityPolicy) Volatility {
	switch {
	case stdDev < policy.Low:
		return VolatilityLow
	case stdDev < policy.Medium:
		return VolatilityMedium
	default:
		return VolatilityHigh
	}
}

// linearSlope returns the least-squares slope of values against their index.
func linearSlope(values []float64) float64 {
	n := float64(len(values))
	meanX := (n - 1) / 2
	meanY := average(values)

	var num, den float64
	for i, y := range values {
		dx := float64(i) - meanX
		num += dx * (y - meanY)
		den += dx * dx
	}
	if den == 0 {
		return 0
	}
	return num / den
}

func average(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	var sum float64
	for _, v := range values {
		sum += v
	}
	return sum / float64(len(values))
}

func standardDeviation(values []float64, mean float64) float64 {
	if len(values) == 0 {
		return 0
	}
	var sum float64
	for _, v := range values {
		sum += (v - mean) * (v - mean)
	}
	return math.Sqrt(sum / float64(len(values)))
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}
