package work

import (
	"context"

	"github.com/google/uuid"
)

// WorkAttachmentRepository defines the interface for attachment persistence
type WorkAttachmentRepository interface {
	// Create creates a new attachment record
	Create(ctx context.Context, attachment *WorkAttachment) error

	// Update updates an existing attachment record
	Update(ctx context.Context, attachment *WorkAttachment) error

	// Delete removes the attachment record
	Delete(ctx context.Context, id uuid.UUID) error

	// FindByID finds an attachment by its ID
	FindByID(ctx context.Context, id uuid.UUID) (*WorkAttachment, error)

	// FindByWorkID finds all non-deleted attachments for a work
	FindByWorkID(ctx context.Context, workID uuid.UUID) ([]*WorkAttachment, error)

	// CountByWorkID counts non-deleted attachments for a work
	CountByWorkID(ctx context.Context, workID uuid.UUID) (int64, error)
}
