package work

import (
	"github.com/google/uuid"
	"github.com/orgstruct/backend/internal/domain/shared"
)

// Aggregate type constant for WeeklyTask
const AggregateTypeWeeklyTask = "WeeklyTask"

// WeeklyTask domain event types
const (
	EventTypeWeeklyTaskCreated = "WeeklyTaskCreated"
	EventTypeWeeklyTaskPicked  = "WeeklyTaskPicked"
	EventTypeWeeklyTaskExpired = "WeeklyTaskExpired"
)

// WeeklyTaskCreatedEvent is published when a weekly task is created
type WeeklyTaskCreatedEvent struct {
	shared.BaseDomainEvent
	WorkID     uuid.UUID `json:"work_id"`
	SectorID   uuid.UUID `json:"sector_id"`
	Year       int       `json:"year"`
	WeekNumber int       `json:"week_number"`
}

// NewWeeklyTaskCreatedEvent creates a new WeeklyTaskCreatedEvent
func NewWeeklyTaskCreatedEvent(t *WeeklyTask) *WeeklyTaskCreatedEvent {
	return &WeeklyTaskCreatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeWeeklyTaskCreated, AggregateTypeWeeklyTask, t.ID),
		WorkID:          t.WorkID,
		SectorID:        t.SectorID,
		Year:            t.Year,
		WeekNumber:      t.WeekNumber,
	}
}

// WeeklyTaskPickedEvent is published when a user claims a weekly task
type WeeklyTaskPickedEvent struct {
	shared.BaseDomainEvent
	WorkID   uuid.UUID `json:"work_id"`
	SectorID uuid.UUID `json:"sector_id"`
	PickedBy uuid.UUID `json:"picked_by"`
}

// NewWeeklyTaskPickedEvent creates a new WeeklyTaskPickedEvent
func NewWeeklyTaskPickedEvent(t *WeeklyTask, userID uuid.UUID) *WeeklyTaskPickedEvent {
	return &WeeklyTaskPickedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeWeeklyTaskPicked, AggregateTypeWeeklyTask, t.ID),
		WorkID:          t.WorkID,
		SectorID:        t.SectorID,
		PickedBy:        userID,
	}
}

// WeeklyTaskExpiredEvent is published when an unclaimed task's week passes
type WeeklyTaskExpiredEvent struct {
	shared.BaseDomainEvent
	WorkID     uuid.UUID `json:"work_id"`
	SectorID   uuid.UUID `json:"sector_id"`
	Year       int       `json:"year"`
	WeekNumber int       `json:"week_number"`
}

// NewWeeklyTaskExpiredEvent creates a new WeeklyTaskExpiredEvent
func NewWeeklyTaskExpiredEvent(t *WeeklyTask) *WeeklyTaskExpiredEvent {
	return &WeeklyTaskExpiredEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeWeeklyTaskExpired, AggregateTypeWeeklyTask, t.ID),
		WorkID:          t.WorkID,
		SectorID:        t.SectorID,
		Year:            t.Year,
		WeekNumber:      t.WeekNumber,
	}
}
