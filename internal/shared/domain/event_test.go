package domain_test

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/habitlog/habitlog/internal/shared/domain"
	"github.com/stretchr/testify/assert"
)

func TestNewBaseEvent(t *testing.T) {
	aggregateID := uuid.New()
	occurred := time.Date(2026, 10, 19, 20, 15, 0, 0, time.FixedZone("EDT", -4*60*60))

	event := domain.NewBaseEvent(aggregateID, "Journal", "journals.journal.submitted", occurred)

	assert.NotEqual(t, uuid.Nil, event.EventID())
	assert.Equal(t, aggregateID, event.AggregateID())
	assert.Equal(t, "Journal", event.AggregateType())
	assert.Equal(t, "journals.journal.submitted", event.RoutingKey())
	assert.Equal(t, time.Date(2026, 10, 20, 0, 15, 0, 0, time.UTC), event.OccurredAt())
	assert.Equal(t, domain.EventMetadata{}, event.Metadata())
}

func TestBaseEvent_SetMetadata(t *testing.T) {
	event := domain.NewBaseEvent(uuid.New(), "Journal", "journals.journal.deleted", time.Now())
	metadata := domain.EventMetadata{
		CorrelationID: uuid.New(),
		CausationID:   uuid.New(),
		UserID:        uuid.New(),
	}

	event.SetMetadata(metadata)

	assert.Equal(t, metadata, event.Metadata())
}
