package identity

import (
	"github.com/orgstruct/backend/internal/domain/shared"
)

// Aggregate type constant for Role
const AggregateTypeRole = "Role"

// Role domain event types
const (
	EventTypeRoleCreated           = "RoleCreated"
	EventTypeRoleUpdated           = "RoleUpdated"
	EventTypeRoleDeleted           = "RoleDeleted"
	EventTypeRoleEnabled           = "RoleEnabled"
	EventTypeRoleDisabled          = "RoleDisabled"
	EventTypeRoleCapabilityGranted = "RoleCapabilityGranted"
	EventTypeRoleCapabilityRevoked = "RoleCapabilityRevoked"
)

// RoleCreatedEvent is published when a new role is created
type RoleCreatedEvent struct {
	shared.BaseDomainEvent
	Code         string `json:"code"`
	Name         string `json:"name"`
	IsSystemRole bool   `json:"is_system_role"`
}

// NewRoleCreatedEvent creates a new RoleCreatedEvent
func NewRoleCreatedEvent(role *Role) *RoleCreatedEvent {
	return &RoleCreatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeRoleCreated, AggregateTypeRole, role.ID),
		Code:            role.Code,
		Name:            role.Name,
		IsSystemRole:    role.IsSystemRole,
	}
}

// RoleUpdatedEvent is published when a role is updated
type RoleUpdatedEvent struct {
	shared.BaseDomainEvent
	Code string `json:"code"`
	Name string `json:"name"`
}

// NewRoleUpdatedEvent creates a new RoleUpdatedEvent
func NewRoleUpdatedEvent(role *Role) *RoleUpdatedEvent {
	return &RoleUpdatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeRoleUpdated, AggregateTypeRole, role.ID),
		Code:            role.Code,
		Name:            role.Name,
	}
}

// RoleDeletedEvent is published when a role is deleted
type RoleDeletedEvent struct {
	shared.BaseDomainEvent
	Code string `json:"code"`
}

// NewRoleDeletedEvent creates a new RoleDeletedEvent
func NewRoleDeletedEvent(role *Role) *RoleDeletedEvent {
	return &RoleDeletedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeRoleDeleted, AggregateTypeRole, role.ID),
		Code:            role.Code,
	}
}

// RoleEnabledEvent is published when a role is enabled
type RoleEnabledEvent struct {
	shared.BaseDomainEvent
	Code string `json:"code"`
}

// NewRoleEnabledEvent creates a new RoleEnabledEvent
func NewRoleEnabledEvent(role *Role) *RoleEnabledEvent {
	return &RoleEnabledEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeRoleEnabled, AggregateTypeRole, role.ID),
		Code:            role.Code,
	}
}

// RoleDisabledEvent is published when a role is disabled
type RoleDisabledEvent struct {
	shared.BaseDomainEvent
	Code string `json:"code"`
}

// NewRoleDisabledEvent creates a new RoleDisabledEvent
func NewRoleDisabledEvent(role *Role) *RoleDisabledEvent {
	return &RoleDisabledEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeRoleDisabled, AggregateTypeRole, role.ID),
		Code:            role.Code,
	}
}

// RoleCapabilityGrantedEvent is published when a capability is granted to a role
type RoleCapabilityGrantedEvent struct {
	shared.BaseDomainEvent
	RoleCode   string `json:"role_code"`
	Capability string `json:"capability"`
	Resource   string `json:"resource"`
	Action     string `json:"action"`
}

// NewRoleCapabilityGrantedEvent creates a new RoleCapabilityGrantedEvent
func NewRoleCapabilityGrantedEvent(role *Role, c Capability) *RoleCapabilityGrantedEvent {
	return &RoleCapabilityGrantedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeRoleCapabilityGranted, AggregateTypeRole, role.ID),
		RoleCode:        role.Code,
		Capability:      c.String(),
		Resource:        c.Resource(),
		Action:          c.Action(),
	}
}

// RoleCapabilityRevokedEvent is published when a capability is revoked from a role
type RoleCapabilityRevokedEvent struct {
	shared.BaseDomainEvent
	RoleCode   string `json:"role_code"`
	Capability string `json:"capability"`
	Resource   string `json:"resource"`
	Action     string `json:"action"`
}

// NewRoleCapabilityRevokedEvent creates a new RoleCapabilityRevokedEvent
func NewRoleCapabilityRevokedEvent(role *Role, c Capability) *RoleCapabilityRevokedEvent {
	return &RoleCapabilityRevokedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeRoleCapabilityRevoked, AggregateTypeRole, role.ID),
		RoleCode:        role.Code,
		Capability:      c.String(),
		Resource:        c.Resource(),
		Action:          c.Action(),
	}
}
