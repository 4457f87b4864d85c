package domain

// Report is the composed answer to a progress query.
type Report struct {
	CurrentWeek   ProgressTracking   `json:"current_week"`
	History       []ProgressTracking `json:"history"`
	Analysis      TrendAnalysis      `json:"analysis"`
	Consistency   Consistency        `json:"consistency"`
	Prediction    Prediction         `json:"prediction"`
	Comparison    Comparison         `json:"comparison"`
	TotalJournals int                `json:"total_journals"`
}
