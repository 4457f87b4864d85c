package domain

import (
	"time"

	"github.com/google/uuid"
)

// Entity is anything identified by an id and carrying audit timestamps.
type Entity interface {
	ID() uuid.UUID
	CreatedAt() time.Time
	UpdatedAt() time.Time
}

// BaseEntity holds identity and timestamps. Timestamps are stored in UTC.
type BaseEntity struct {
	id        uuid.UUID
	createdAt time.Time
	updatedAt time.Time
}

// NewBaseEntity creates an entity with a fresh id created at the given time.
func NewBaseEntity(createdAt time.Time) BaseEntity {
	createdAt = createdAt.UTC()
	return BaseEntity{
		id:        uuid.New(),
		createdAt: createdAt,
		updatedAt: createdAt,
	}
}

// RehydrateBaseEntity recreates an entity from persisted state.
func RehydrateBaseEntity(id uuid.UUID, createdAt, updatedAt time.Time) BaseEntity {
	return BaseEntity{
		id:        id,
		createdAt: createdAt.UTC(),
		updatedAt: updatedAt.UTC(),
	}
}

func (e BaseEntity) ID() uuid.UUID        { return e.id }
func (e BaseEntity) CreatedAt() time.Time { return e.createdAt }
func (e BaseEntity) UpdatedAt() time.Time { return e.updatedAt }

// TouchAt records a modification at the given time.
func (e *BaseEntity) TouchAt(at time.Time) {
	e.updatedAt = at.UTC()
}
