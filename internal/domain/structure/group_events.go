package structure

import (
	"github.com/google/uuid"
	"github.com/orgstruct/backend/internal/domain/shared"
)

// Aggregate type constant for Group
const AggregateTypeGroup = "Group"

// Group domain event types
const (
	EventTypeGroupCreated = "GroupCreated"
)

// GroupCreatedEvent is published when a group is created
type GroupCreatedEvent struct {
	shared.BaseDomainEvent
	Name   string    `json:"name"`
	ZoneID uuid.UUID `json:"zone_id"`
}

// NewGroupCreatedEvent creates a new GroupCreatedEvent
func NewGroupCreatedEvent(group *Group) *GroupCreatedEvent {
	return &GroupCreatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeGroupCreated, AggregateTypeGroup, group.ID),
		Name:            group.Name,
		ZoneID:          group.ZoneID,
	}
}
