package structure

import (
	"github.com/google/uuid"
	"github.com/orgstruct/backend/internal/domain/shared"
)

// Aggregate type constant for Sector
const AggregateTypeSector = "Sector"

// Sector domain event types
const (
	EventTypeSectorCreated = "SectorCreated"
)

// SectorCreatedEvent is published when a sector is created
type SectorCreatedEvent struct {
	shared.BaseDomainEvent
	Name   string    `json:"name"`
	Code   string    `json:"code"`
	ZoneID uuid.UUID `json:"zone_id"`
}

// NewSectorCreatedEvent creates a new SectorCreatedEvent
func NewSectorCreatedEvent(sector *Sector) *SectorCreatedEvent {
	return &SectorCreatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeSectorCreated, AggregateTypeSector, sector.ID),
		Name:            sector.Name,
		Code:            sector.Code,
		ZoneID:          sector.ZoneID,
	}
}
