package work

import (
	"github.com/google/uuid"
	"github.com/orgstruct/backend/internal/domain/shared"
)

// Aggregate type constant for WorkAttachment
const AggregateTypeWorkAttachment = "WorkAttachment"

// WorkAttachment domain event types
const (
	EventTypeWorkAttachmentCreated = "WorkAttachmentCreated"
	EventTypeWorkAttachmentDeleted = "WorkAttachmentDeleted"
)

// WorkAttachmentCreatedEvent is published when an attachment is created
type WorkAttachmentCreatedEvent struct {
	shared.BaseDomainEvent
	WorkID   uuid.UUID `json:"work_id"`
	FileName string    `json:"file_name"`
	FileSize int64     `json:"file_size"`
}

// NewWorkAttachmentCreatedEvent creates a new WorkAttachmentCreatedEvent
func NewWorkAttachmentCreatedEvent(a *WorkAttachment) *WorkAttachmentCreatedEvent {
	return &WorkAttachmentCreatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeWorkAttachmentCreated, AggregateTypeWorkAttachment, a.ID),
		WorkID:          a.WorkID,
		FileName:        a.FileName,
		FileSize:        a.FileSize,
	}
}

// WorkAttachmentDeletedEvent is published when an attachment is deleted
type WorkAttachmentDeletedEvent struct {
	shared.BaseDomainEvent
	WorkID     uuid.UUID `json:"work_id"`
	StorageKey string    `json:"storage_key"`
}

// NewWorkAttachmentDeletedEvent creates a new WorkAttachmentDeletedEvent
func NewWorkAttachmentDeletedEvent(a *WorkAttachment) *WorkAttachmentDeletedEvent {
	return &WorkAttachmentDeletedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeWorkAttachmentDeleted, AggregateTypeWorkAttachment, a.ID),
		WorkID:          a.WorkID,
		StorageKey:      a.StorageKey,
	}
}
