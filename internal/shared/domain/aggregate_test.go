package domain_test

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/habitlog/habitlog/internal/shared/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type entryAggregate struct {
	domain.BaseAggregateRoot
}

type entryRecorded struct {
	domain.BaseEvent
}

var recordedAt = time.Date(2026, 10, 19, 7, 30, 0, 0, time.UTC)

func newEntryAggregate() *entryAggregate {
	return &entryAggregate{
		BaseAggregateRoot: domain.NewBaseAggregateRoot(domain.NewBaseEntity(recordedAt)),
	}
}

func (a *entryAggregate) record() *entryRecorded {
	event := &entryRecorded{BaseEvent: domain.NewBaseEvent(a.ID(), "Entry", "entries.entry.recorded", recordedAt)}
	a.AddDomainEvent(event)
	return event
}

func TestBaseAggregateRoot(t *testing.T) {
	t.Run("starts without events", func(t *testing.T) {
		agg := newEntryAggregate()

		assert.NotEqual(t, uuid.Nil, agg.ID())
		assert.Empty(t, agg.DomainEvents())
	})

	t.Run("keeps events in order", func(t *testing.T) {
		agg := newEntryAggregate()
		first := agg.record()
		second := agg.record()

		events := agg.DomainEvents()
		require.Len(t, events, 2)
		assert.Equal(t, first.EventID(), events[0].EventID())
		assert.Equal(t, second.EventID(), events[1].EventID())
	})

	t.Run("clear drops pending events", func(t *testing.T) {
		agg := newEntryAggregate()
		agg.record()

		agg.ClearDomainEvents()

		assert.Empty(t, agg.DomainEvents())
	})

	t.Run("satisfies AggregateRoot", func(t *testing.T) {
		var root domain.AggregateRoot = newEntryAggregate()
		assert.Equal(t, recordedAt, root.CreatedAt())
	})
}
