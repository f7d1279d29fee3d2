package work

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/orgstruct/backend/internal/domain/shared"
)

// MaxAttachmentFileSize is the maximum allowed file size (50MB)
const MaxAttachmentFileSize = 50 * 1024 * 1024

// AttachmentStatus represents the status of a work attachment
type AttachmentStatus string

const (
	AttachmentStatusPending AttachmentStatus = "pending"
	AttachmentStatusActive  AttachmentStatus = "active"
	AttachmentStatusDeleted AttachmentStatus = "deleted"
)

// IsValid checks if the attachment status is valid
func (s AttachmentStatus) IsValid() bool {
	switch s {
	case AttachmentStatusPending, AttachmentStatusActive, AttachmentStatusDeleted:
		return true
	default:
		return false
	}
}

// WorkAttachment represents a file attached to a work item (plans,
// photos, completion reports). Binary content lives in object storage;
// this row is metadata only.
type WorkAttachment struct {
	shared.BaseAggregateRoot
	WorkID      uuid.UUID        `gorm:"type:uuid;not null;index"`
	Status      AttachmentStatus `gorm:"type:varchar(20);not null;default:'pending'"`
	FileName    string           `gorm:"type:varchar(255);not null"`
	FileSize    int64            `gorm:"not null"`
	ContentType string           `gorm:"type:varchar(100);not null"`
	StorageKey  string           `gorm:"type:varchar(500);not null;uniqueIndex"`
	UploadedBy  *uuid.UUID       `gorm:"type:uuid"`
}

// TableName returns the table name for GORM
func (WorkAttachment) TableName() string {
	return "work_attachments"
}

// NewWorkAttachment creates a new work attachment in pending status
func NewWorkAttachment(workID uuid.UUID, fileName string, fileSize int64, contentType, storageKey string, uploadedBy *uuid.UUID) (*WorkAttachment, error) {
	if workID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_WORK_ID", "Work ID cannot be empty")
	}
	if err := validateFileName(fileName); err != nil {
		return nil, err
	}
	if err := validateFileSize(fileSize); err != nil {
		return nil, err
	}
	if err := validateContentType(contentType); err != nil {
		return nil, err
	}
	if err := validateStorageKey(storageKey); err != nil {
		return nil, err
	}

	attachment := &WorkAttachment{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		WorkID:            workID,
		Status:            AttachmentStatusPending,
		FileName:          fileName,
		FileSize:          fileSize,
		ContentType:       contentType,
		StorageKey:        storageKey,
		UploadedBy:        uploadedBy,
	}

	attachment.AddDomainEvent(NewWorkAttachmentCreatedEvent(attachment))

	return attachment, nil
}

// Confirm confirms the upload and activates the attachment
// This should be called after the file is successfully written to storage
func (a *WorkAttachment) Confirm() error {
	if a.Status == AttachmentStatusActive {
		return shared.NewDomainError("ALREADY_CONFIRMED", "Attachment is already confirmed")
	}
	if a.Status == AttachmentStatusDeleted {
		return shared.NewDomainError("CANNOT_CONFIRM_DELETED", "Cannot confirm a deleted attachment")
	}

	a.Status = AttachmentStatusActive
	a.UpdatedAt = time.Now()
	a.IncrementVersion()

	return nil
}

// Delete marks the attachment as deleted (soft delete)
func (a *WorkAttachment) Delete() error {
	if a.Status == AttachmentStatusDeleted {
		return shared.NewDomainError("ALREADY_DELETED", "Attachment is already deleted")
	}

	a.Status = AttachmentStatusDeleted
	a.UpdatedAt = time.Now()
	a.IncrementVersion()

	a.AddDomainEvent(NewWorkAttachmentDeletedEvent(a))

	return nil
}

// IsActive returns true if the attachment is active
func (a *WorkAttachment) IsActive() bool {
	return a.Status == AttachmentStatusActive
}

// IsDeleted returns true if the attachment is deleted
func (a *WorkAttachment) IsDeleted() bool {
	return a.Status == AttachmentStatusDeleted
}

// validation functions

func validateFileName(name string) error {
	if name == "" {
		return shared.NewDomainError("INVALID_FILE_NAME", "File name cannot be empty")
	}
	if len(name) > 255 {
		return shared.NewDomainError("INVALID_FILE_NAME", "File name cannot exceed 255 characters")
	}
	for _, r := range name {
		if r < 32 || r == 127 {
			return shared.NewDomainError("INVALID_FILE_NAME", "File name contains invalid characters")
		}
	}
	// Prevent path separators in filename
	if strings.Contains(name, "/") || strings.Contains(name, "\\") {
		return shared.NewDomainError("INVALID_FILE_NAME", "File name cannot contain path separators")
	}
	return nil
}

func validateFileSize(size int64) error {
	if size <= 0 {
		return shared.NewDomainError("INVALID_FILE_SIZE", "File size must be greater than 0")
	}
	if size > MaxAttachmentFileSize {
		return shared.NewDomainError("FILE_TOO_LARGE", "File size cannot exceed 50MB")
	}
	return nil
}

func validateContentType(contentType string) error {
	if contentType == "" {
		return shared.NewDomainError("INVALID_CONTENT_TYPE", "Content type cannot be empty")
	}
	if len(contentType) > 100 {
		return shared.NewDomainError("INVALID_CONTENT_TYPE", "Content type cannot exceed 100 characters")
	}
	// Basic MIME type format validation: must contain type/subtype
	if !strings.Contains(contentType, "/") || strings.HasPrefix(contentType, "/") || strings.HasSuffix(contentType, "/") {
		return shared.NewDomainError("INVALID_CONTENT_TYPE", "Content type must be in type/subtype format")
	}
	return nil
}

func validateStorageKey(key string) error {
	if key == "" {
		return shared.NewDomainError("INVALID_STORAGE_KEY", "Storage key cannot be empty")
	}
	if len(key) > 500 {
		return shared.NewDomainError("INVALID_STORAGE_KEY", "Storage key cannot exceed 500 characters")
	}
	// Prevent path traversal attacks
	if strings.Contains(key, "..") {
		return shared.NewDomainError("INVALID_STORAGE_KEY", "Storage key cannot contain path traversal sequences")
	}
	// Prevent absolute paths (must be relative within bucket)
	if strings.HasPrefix(key, "/") {
		return shared.NewDomainError("INVALID_STORAGE_KEY", "Storage key must be a relative path")
	}
	return nil
}
