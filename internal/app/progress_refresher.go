package app

import (
	"context"

	"github.com/google/uuid"
	journalCommands "github.com/habitlog/habitlog/internal/journals/application/commands"
	progressCommands "github.com/habitlog/habitlog/internal/progress/application/commands"
	"github.com/habitlog/habitlog/pkg/observability"
)

// progressRefresher lets the journals context trigger progress updates
// without importing the progress context.
type progressRefresher struct {
	update  *progressCommands.UpdateProgressHandler
	rebuild *progressCommands.RebuildProgressHandler
	metrics observability.Metrics
}

func (r *progressRefresher) Refresh(ctx context.Context, userID, categoryID uuid.UUID) (*journalCommands.ProgressSnapshot, error) {
	week, err := r.update.Handle(ctx, progressCommands.UpdateProgressCommand{
		UserID:     userID,
		CategoryID: categoryID,
	})
	if err != nil {
		r.metrics.Counter(observability.MetricProgressFailures, 1)
		return nil, err
	}
	r.metrics.Counter(observability.MetricProgressUpserts, 1)

	return &journalCommands.ProgressSnapshot{
		Completed:      week.CompletedCount,
		Target:         week.TargetCount,
		CompletionRate: week.CompletionRate,
		Remaining:      week.Remaining(),
		CurrentStreak:  week.CurrentStreak,
		BestStreak:     week.BestStreak,
	}, nil
}

// Rebuild recomputes every stored week of the pair from live journals.
func (r *progressRefresher) Rebuild(ctx context.Context, userID, categoryID uuid.UUID) error {
	result, err := r.rebuild.Handle(ctx, progressCommands.RebuildProgressCommand{
		UserID:     &userID,
		CategoryID: &categoryID,
	})
	if err != nil {
		r.metrics.Counter(observability.MetricProgressFailures, 1)
		return err
	}
	r.metrics.Counter(observability.MetricProgressUpserts, int64(result.Rows))
	return nil
}
