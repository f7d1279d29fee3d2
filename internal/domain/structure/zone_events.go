package structure

import (
	"github.com/orgstruct/backend/internal/domain/shared"
)

// Aggregate type constant for Zone
const AggregateTypeZone = "Zone"

// Zone domain event types
const (
	EventTypeZoneCreated = "ZoneCreated"
	EventTypeZoneUpdated = "ZoneUpdated"
)

// ZoneCreatedEvent is published when a zone is created
type ZoneCreatedEvent struct {
	shared.BaseDomainEvent
	Name string `json:"name"`
	City string `json:"city"`
}

// NewZoneCreatedEvent creates a new ZoneCreatedEvent
func NewZoneCreatedEvent(zone *Zone) *ZoneCreatedEvent {
	return &ZoneCreatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeZoneCreated, AggregateTypeZone, zone.ID),
		Name:            zone.Name,
		City:            zone.City,
	}
}

// ZoneUpdatedEvent is published when a zone is updated
type ZoneUpdatedEvent struct {
	shared.BaseDomainEvent
	Name string `json:"name"`
}

// NewZoneUpdatedEvent creates a new ZoneUpdatedEvent
func NewZoneUpdatedEvent(zone *Zone) *ZoneUpdatedEvent {
	return &ZoneUpdatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeZoneUpdated, AggregateTypeZone, zone.ID),
		Name:            zone.Name,
	}
}
