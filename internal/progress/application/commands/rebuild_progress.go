package commands

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/habitlog/habitlog/internal/progress/domain"
	sharedApplication "github.com/habitlog/habitlog/internal/shared/application"
)

// RebuildProgressCommand rebuilds stored progress from journal history. With
// both ids nil every user and category with journals or stored progress is
// rebuilt.
type RebuildProgressCommand struct {
	UserID     *uuid.UUID
	CategoryID *uuid.UUID
}

// RebuildProgressResult reports what was rebuilt.
type RebuildProgressResult struct {
	Pairs int `json:"pairs"`
	Rows  int `json:"rows"`
}

// RebuildProgressHandler replaces stored progress with rows recomputed from
// journals.
type RebuildProgressHandler struct {
	history  domain.JournalHistory
	goals    domain.GoalSource
	repo     domain.Repository
	uow      sharedApplication.UnitOfWork
	cache    domain.ReportCache
	lookback int
	logger   *slog.Logger
	now      func() time.Time
}

// NewRebuildProgressHandler creates a new handler.
func NewRebuildProgressHandler(
	history domain.JournalHistory,
	goals domain.GoalSource,
	repo domain.Repository,
	uow sharedApplication.UnitOfWork,
	cache domain.ReportCache,
	lookback int,
	logger *slog.Logger,
) *RebuildProgressHandler {
	if cache == nil {
		cache = domain.NoopCache{}
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &RebuildProgressHandler{
		history:  history,
		goals:    goals,
		repo:     repo,
		uow:      uow,
		cache:    cache,
		lookback: lookback,
		logger:   logger,
		now:      time.Now,
	}
}

// WithClock replaces the handler's time source.
func (h *RebuildProgressHandler) WithClock(now func() time.Time) *RebuildProgressHandler {
	h.now = now
	return h
}

// Handle rebuilds the selected pairs. Each pair is replaced in its own unit
// of work so one failure leaves earlier pairs rebuilt.
func (h *RebuildProgressHandler) Handle(ctx context.Context, cmd RebuildProgressCommand) (*RebuildProgressResult, error) {
	pairs, err := h.selectPairs(ctx, cmd)
	if err != nil {
		return nil, err
	}

	now := h.now().UTC()
	result := &RebuildProgressResult{}
	for _, pair := range pairs {
		rows, err := h.rebuildPair(ctx, pair, now)
		if err != nil {
			return result, err
		}
		h.cache.Invalidate(ctx, pair.UserID, pair.CategoryID)
		result.Pairs++
		result.Rows += rows
	}

	h.logger.InfoContext(ctx, "progress rebuilt", "pairs", result.Pairs, "rows", result.Rows)
	return result, nil
}

func (h *RebuildProgressHandler) selectPairs(ctx context.Context, cmd RebuildProgressCommand) ([]domain.Pair, error) {
	if cmd.UserID != nil && cmd.CategoryID != nil {
		return []domain.Pair{{UserID: *cmd.UserID, CategoryID: *cmd.CategoryID}}, nil
	}

	withJournals, err := h.history.Pairs(ctx)
	if err != nil {
		return nil, sharedApplication.DatabaseError("failed to list journal owners", err)
	}
	// Pairs whose journals were all deleted only have stored rows left.
	withRows, err := h.repo.Pairs(ctx)
	if err != nil {
		return nil, sharedApplication.DatabaseError("failed to list progress owners", err)
	}

	seen := make(map[domain.Pair]bool, len(withJournals)+len(withRows))
	all := make([]domain.Pair, 0, len(withJournals)+len(withRows))
	for _, pair := range append(withJournals, withRows...) {
		if !seen[pair] {
			seen[pair] = true
			all = append(all, pair)
		}
	}

	pairs := make([]domain.Pair, 0, len(all))
	for _, pair := range all {
		if cmd.UserID != nil && pair.UserID != *cmd.UserID {
			continue
		}
		if cmd.CategoryID != nil && pair.CategoryID != *cmd.CategoryID {
			continue
		}
		pairs = append(pairs, pair)
	}
	return pairs, nil
}

func (h *RebuildProgressHandler) rebuildPair(ctx context.Context, pair domain.Pair, now time.Time) (int, error) {
	rows := 0
	err := sharedApplication.WithUnitOfWork(ctx, h.uow, func(txCtx context.Context) error {
		times, err := h.history.AllTimes(txCtx, pair.UserID, pair.CategoryID)
		if err != nil {
			return sharedApplication.DatabaseError("failed to load journals", err)
		}
		goal, err := h.goals.WeeklyGoal(txCtx, pair.UserID, pair.CategoryID)
		if err != nil {
			return sharedApplication.DatabaseError("failed to load weekly goal", err)
		}

		if err := h.repo.DeleteByUserAndCategory(txCtx, pair.UserID, pair.CategoryID); err != nil {
			return sharedApplication.DatabaseError("failed to clear progress", err)
		}

		weeks := domain.BuildHistory(pair.UserID, pair.CategoryID, times, goal, h.lookback, now)
		for i := range weeks {
			weeks[i].ID = uuid.New()
			if err := h.repo.Upsert(txCtx, &weeks[i]); err != nil {
				return sharedApplication.DatabaseError("failed to save progress", err)
			}
		}
		rows = len(weeks)
		return nil
	})
	return rows, err
}
