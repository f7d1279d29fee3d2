package work

import (
	"github.com/google/uuid"
	"github.com/orgstruct/backend/internal/domain/shared"
)

// Aggregate type constant for Work
const AggregateTypeWork = "Work"

// Work domain event types
const (
	EventTypeWorkCreated           = "WorkCreated"
	EventTypeWorkAssignedToSectors = "WorkAssignedToSectors"
	EventTypeWorkStatusChanged     = "WorkStatusChanged"
	EventTypeWorkDeleted           = "WorkDeleted"
)

// WorkCreatedEvent is published when a work item is created
type WorkCreatedEvent struct {
	shared.BaseDomainEvent
	Description string    `json:"description"`
	AssignedBy  uuid.UUID `json:"assigned_by"`
	SectorID    uuid.UUID `json:"sector_id"`
}

// NewWorkCreatedEvent creates a new WorkCreatedEvent
func NewWorkCreatedEvent(w *Work) *WorkCreatedEvent {
	return &WorkCreatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeWorkCreated, AggregateTypeWork, w.ID),
		Description:     w.Description,
		AssignedBy:      w.AssignedBy,
		SectorID:        w.SectorID,
	}
}

// WorkAssignedToSectorsEvent is published when a work is attached to sectors
type WorkAssignedToSectorsEvent struct {
	shared.BaseDomainEvent
	SectorIDs []uuid.UUID `json:"sector_ids"`
}

// NewWorkAssignedToSectorsEvent creates a new WorkAssignedToSectorsEvent
func NewWorkAssignedToSectorsEvent(w *Work, sectorIDs []uuid.UUID) *WorkAssignedToSectorsEvent {
	return &WorkAssignedToSectorsEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeWorkAssignedToSectors, AggregateTypeWork, w.ID),
		SectorIDs:       sectorIDs,
	}
}

// WorkStatusChangedEvent is published when a work's status changes
type WorkStatusChangedEvent struct {
	shared.BaseDomainEvent
	OldStatus WorkStatus `json:"old_status"`
	NewStatus WorkStatus `json:"new_status"`
}

// NewWorkStatusChangedEvent creates a new WorkStatusChangedEvent
func NewWorkStatusChangedEvent(w *Work, oldStatus, newStatus WorkStatus) *WorkStatusChangedEvent {
	return &WorkStatusChangedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeWorkStatusChanged, AggregateTypeWork, w.ID),
		OldStatus:       oldStatus,
		NewStatus:       newStatus,
	}
}

// WorkDeletedEvent is published when a work and its tasks are removed
type WorkDeletedEvent struct {
	shared.BaseDomainEvent
	Description string `json:"description"`
}

// NewWorkDeletedEvent creates a new WorkDeletedEvent
func NewWorkDeletedEvent(w *Work) *WorkDeletedEvent {
	return &WorkDeletedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeWorkDeleted, AggregateTypeWork, w.ID),
		Description:     w.Description,
	}
}
