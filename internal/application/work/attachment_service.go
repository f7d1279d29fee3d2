package work

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/orgstruct/backend/internal/domain/shared"
	"github.com/orgstruct/backend/internal/domain/work"
	"github.com/orgstruct/backend/internal/infrastructure/telemetry"
	"go.uber.org/zap"
)

// AllowedContentTypes defines the whitelist of allowed content types for uploads
// This prevents uploading potentially dangerous file types (executables, scripts, etc.)
// SECURITY: SVG files are explicitly NOT allowed due to XSS risk (can contain <script> tags
// and inline event handlers like onload, onerror, etc.)
var AllowedContentTypes = map[string]bool{
	// Images (SVG excluded - XSS risk)
	"image/jpeg": true,
	"image/png":  true,
	"image/gif":  true,
	"image/webp": true,
	"image/bmp":  true,
	"image/tiff": true,
	// Documents
	"application/pdf":    true,
	"application/msword": true,
	"application/vnd.openxmlformats-officedocument.wordprocessingml.document": true,
	"application/vnd.ms-excel": true,
	"application/vnd.openxmlformats-officedocument.spreadsheetml.sheet":         true,
	"application/vnd.ms-powerpoint":                                             true,
	"application/vnd.openxmlformats-officedocument.presentationml.presentation": true,
	// Text
	"text/plain": true,
	"text/csv":   true,
	// Archives (for bundled plans and reports)
	"application/zip": true,
}

// ObjectStorageService defines the interface for object storage operations
// This interface will be implemented by the infrastructure layer (S3, MinIO, etc.)
type ObjectStorageService interface {
	// Upload writes the given data to storage under the storage key
	Upload(ctx context.Context, storageKey string, data []byte, contentType string) error

	// GenerateDownloadURL generates a presigned URL for downloading a file
	// Returns the download URL and expiration time
	GenerateDownloadURL(ctx context.Context, storageKey string, expiresIn time.Duration) (string, time.Time, error)

	// DeleteObject deletes an object from storage
	DeleteObject(ctx context.Context, storageKey string) error

	// ObjectExists checks if an object exists in storage
	ObjectExists(ctx context.Context, storageKey string) (bool, error)
}

// AttachmentServiceConfig holds configuration for the attachment service
type AttachmentServiceConfig struct {
	// DownloadURLExpiry is the duration for which download URLs are valid
	DownloadURLExpiry time.Duration
	// MaxAttachmentsPerWork is the maximum number of attachments per work
	MaxAttachmentsPerWork int
}

// DefaultAttachmentServiceConfig returns the default configuration
func DefaultAttachmentServiceConfig() AttachmentServiceConfig {
	return AttachmentServiceConfig{
		DownloadURLExpiry:     1 * time.Hour,
		MaxAttachmentsPerWork: 20,
	}
}

// AttachmentService handles work attachment operations
type AttachmentService struct {
	attachmentRepo  work.WorkAttachmentRepository
	workRepo        work.WorkRepository
	storageService  ObjectStorageService
	eventPublisher  shared.EventPublisher
	businessMetrics *telemetry.BusinessMetrics
	config          AttachmentServiceConfig
	logger          *zap.Logger
}

// NewAttachmentService creates a new AttachmentService
func NewAttachmentService(
	attachmentRepo work.WorkAttachmentRepository,
	workRepo work.WorkRepository,
	storageService ObjectStorageService,
	logger *zap.Logger,
) *AttachmentService {
	return &AttachmentService{
		attachmentRepo: attachmentRepo,
		workRepo:       workRepo,
		storageService: storageService,
		config:         DefaultAttachmentServiceConfig(),
		logger:         logger,
	}
}

// SetConfig sets the service configuration
func (s *AttachmentService) SetConfig(config AttachmentServiceConfig) {
	s.config = config
}

// SetEventPublisher sets the event publisher for cross-context integration
func (s *AttachmentService) SetEventPublisher(publisher shared.EventPublisher) {
	s.eventPublisher = publisher
}

// SetBusinessMetrics sets the business metrics recorder
func (s *AttachmentService) SetBusinessMetrics(bm *telemetry.BusinessMetrics) {
	s.businessMetrics = bm
}

// UploadAttachmentInput contains input for uploading a file to a work
type UploadAttachmentInput struct {
	WorkID      uuid.UUID
	FileName    string
	ContentType string
	Data        []byte
	UploadedBy  *uuid.UUID
}

// AttachmentDTO represents attachment data transfer object
type AttachmentDTO struct {
	ID          uuid.UUID  `json:"id"`
	WorkID      uuid.UUID  `json:"work_id"`
	Status      string     `json:"status"`
	FileName    string     `json:"file_name"`
	FileSize    int64      `json:"file_size"`
	ContentType string     `json:"content_type"`
	StorageKey  string     `json:"storage_key"`
	UploadedBy  *uuid.UUID `json:"uploaded_by,omitempty"`
	URL         string     `json:"url,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

// AttachmentDownloadDTO represents a presigned download link
type AttachmentDownloadDTO struct {
	AttachmentID uuid.UUID `json:"attachment_id"`
	FileName     string    `json:"file_name"`
	URL          string    `json:"url"`
	ExpiresAt    time.Time `json:"expires_at"`
}

// Upload stores the uploaded file and creates the attachment record.
// The object is written to storage first; the metadata row is only
// created after the write succeeds, so a failed upload leaves no row.
func (s *AttachmentService) Upload(ctx context.Context, input UploadAttachmentInput) (*AttachmentDTO, error) {
	// Validate work exists
	if _, err := s.workRepo.FindByID(ctx, input.WorkID); err != nil {
		if err == shared.ErrNotFound {
			return nil, shared.NewDomainError("WORK_NOT_FOUND", "Work not found")
		}
		s.logger.Error("Failed to find work", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to find work")
	}

	// Check attachment limit
	count, err := s.attachmentRepo.CountByWorkID(ctx, input.WorkID)
	if err != nil {
		s.logger.Error("Failed to count attachments", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to count attachments")
	}
	if count >= int64(s.config.MaxAttachmentsPerWork) {
		return nil, shared.NewDomainError("ATTACHMENT_LIMIT_EXCEEDED",
			fmt.Sprintf("Maximum %d attachments per work allowed", s.config.MaxAttachmentsPerWork))
	}

	// Validate content type against whitelist (CRITICAL: prevents uploading dangerous files)
	if !isAllowedContentType(input.ContentType) {
		return nil, shared.NewDomainError("DISALLOWED_CONTENT_TYPE",
			fmt.Sprintf("Content type '%s' is not allowed. Allowed types: images, PDF, Office documents, and text files.", input.ContentType))
	}

	storageKey := s.generateStorageKey(input.WorkID, input.FileName)

	attachment, err := work.NewWorkAttachment(
		input.WorkID,
		input.FileName,
		int64(len(input.Data)),
		input.ContentType,
		storageKey,
		input.UploadedBy,
	)
	if err != nil {
		return nil, err
	}

	// Write the object before the row exists
	if err := s.storageService.Upload(ctx, storageKey, input.Data, input.ContentType); err != nil {
		s.logger.Error("Failed to upload attachment to storage",
			zap.String("storage_key", storageKey),
			zap.Error(err))
		return nil, shared.NewDomainError("UPLOAD_FAILED", "Failed to upload file to storage")
	}

	// The object is in storage, so the attachment is born active
	if err := attachment.Confirm(); err != nil {
		return nil, err
	}

	if err := s.attachmentRepo.Create(ctx, attachment); err != nil {
		// Clean up the orphaned object
		if delErr := s.storageService.DeleteObject(ctx, storageKey); delErr != nil {
			s.logger.Warn("Failed to clean up storage object after create failure",
				zap.String("storage_key", storageKey),
				zap.Error(delErr))
		}
		s.logger.Error("Failed to create attachment record", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to create attachment record")
	}

	s.publishEvents(ctx, attachment)

	if s.businessMetrics != nil {
		s.businessMetrics.RecordAttachmentUpload(ctx, attachment.ContentType, attachment.FileSize)
	}

	s.logger.Info("Attachment uploaded",
		zap.String("attachment_id", attachment.ID.String()),
		zap.String("work_id", input.WorkID.String()),
		zap.String("file_name", input.FileName))

	dto := toAttachmentDTO(attachment)
	s.enrichWithURL(ctx, dto, attachment)

	return dto, nil
}

// ListByWork retrieves all non-deleted attachments for a work
func (s *AttachmentService) ListByWork(ctx context.Context, workID uuid.UUID) ([]AttachmentDTO, error) {
	if _, err := s.workRepo.FindByID(ctx, workID); err != nil {
		if err == shared.ErrNotFound {
			return nil, shared.NewDomainError("WORK_NOT_FOUND", "Work not found")
		}
		s.logger.Error("Failed to find work", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to find work")
	}

	attachments, err := s.attachmentRepo.FindByWorkID(ctx, workID)
	if err != nil {
		s.logger.Error("Failed to list attachments", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to list attachments")
	}

	dtos := make([]AttachmentDTO, len(attachments))
	for i, attachment := range attachments {
		dtos[i] = *toAttachmentDTO(attachment)
		s.enrichWithURL(ctx, &dtos[i], attachment)
	}

	return dtos, nil
}

// GetDownloadURL verifies the object still exists and returns a presigned
// download link for an active attachment
func (s *AttachmentService) GetDownloadURL(ctx context.Context, attachmentID uuid.UUID) (*AttachmentDownloadDTO, error) {
	attachment, err := s.attachmentRepo.FindByID(ctx, attachmentID)
	if err != nil {
		if err == shared.ErrNotFound {
			return nil, shared.NewDomainError("ATTACHMENT_NOT_FOUND", "Attachment not found")
		}
		s.logger.Error("Failed to find attachment", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to find attachment")
	}

	if !attachment.IsActive() {
		return nil, shared.NewDomainError("ATTACHMENT_NOT_ACTIVE", "Attachment is not active")
	}

	exists, err := s.storageService.ObjectExists(ctx, attachment.StorageKey)
	if err != nil {
		s.logger.Error("Failed to check storage object",
			zap.String("storage_key", attachment.StorageKey),
			zap.Error(err))
		return nil, shared.NewDomainError("STORAGE_CHECK_FAILED", "Failed to verify stored file")
	}
	if !exists {
		return nil, shared.NewDomainError("OBJECT_NOT_FOUND", "Stored file not found")
	}

	url, expiresAt, err := s.storageService.GenerateDownloadURL(ctx, attachment.StorageKey, s.config.DownloadURLExpiry)
	if err != nil {
		s.logger.Error("Failed to generate download URL",
			zap.String("storage_key", attachment.StorageKey),
			zap.Error(err))
		return nil, shared.NewDomainError("DOWNLOAD_URL_FAILED", "Failed to generate download URL")
	}

	return &AttachmentDownloadDTO{
		AttachmentID: attachment.ID,
		FileName:     attachment.FileName,
		URL:          url,
		ExpiresAt:    expiresAt,
	}, nil
}

// Delete marks the attachment as deleted and removes the stored object
// best-effort
func (s *AttachmentService) Delete(ctx context.Context, attachmentID uuid.UUID) error {
	attachment, err := s.attachmentRepo.FindByID(ctx, attachmentID)
	if err != nil {
		if err == shared.ErrNotFound {
			return shared.NewDomainError("ATTACHMENT_NOT_FOUND", "Attachment not found")
		}
		s.logger.Error("Failed to find attachment", zap.Error(err))
		return shared.NewDomainError("INTERNAL_ERROR", "Failed to find attachment")
	}

	if err := attachment.Delete(); err != nil {
		return err
	}

	if err := s.attachmentRepo.Update(ctx, attachment); err != nil {
		s.logger.Error("Failed to update attachment record", zap.Error(err))
		return shared.NewDomainError("INTERNAL_ERROR", "Failed to delete attachment")
	}

	// The row is the source of truth; a stale object only wastes space
	if err := s.storageService.DeleteObject(ctx, attachment.StorageKey); err != nil {
		s.logger.Warn("Failed to delete attachment object from storage",
			zap.String("attachment_id", attachment.ID.String()),
			zap.String("storage_key", attachment.StorageKey),
			zap.Error(err))
	}

	s.publishEvents(ctx, attachment)

	return nil
}

// generateStorageKey generates a unique storage key for a file
func (s *AttachmentService) generateStorageKey(workID uuid.UUID, fileName string) string {
	ext := filepath.Ext(fileName)
	uniqueID := uuid.New().String()
	// Format: works/{workID}/attachments/{uniqueID}{ext}
	return fmt.Sprintf("works/%s/attachments/%s%s", workID.String(), uniqueID, ext)
}

// enrichWithURL adds a download URL to an attachment DTO
func (s *AttachmentService) enrichWithURL(ctx context.Context, dto *AttachmentDTO, attachment *work.WorkAttachment) {
	if !attachment.IsActive() {
		return
	}
	url, _, err := s.storageService.GenerateDownloadURL(ctx, attachment.StorageKey, s.config.DownloadURLExpiry)
	if err == nil {
		dto.URL = url
	}
}

// publishEvents publishes domain events from the aggregate
func (s *AttachmentService) publishEvents(ctx context.Context, attachment *work.WorkAttachment) {
	if s.eventPublisher == nil {
		return
	}
	events := attachment.GetDomainEvents()
	if len(events) == 0 {
		return
	}
	_ = s.eventPublisher.Publish(ctx, events...)
	attachment.ClearDomainEvents()
}

// isAllowedContentType checks the content type against the whitelist
func isAllowedContentType(contentType string) bool {
	// Normalize: strip parameters like "; charset=utf-8" and lowercase
	normalized := strings.ToLower(strings.TrimSpace(strings.Split(contentType, ";")[0]))
	return AllowedContentTypes[normalized]
}

// toAttachmentDTO converts domain WorkAttachment to AttachmentDTO
func toAttachmentDTO(attachment *work.WorkAttachment) *AttachmentDTO {
	return &AttachmentDTO{
		ID:          attachment.ID,
		WorkID:      attachment.WorkID,
		Status:      string(attachment.Status),
		FileName:    attachment.FileName,
		FileSize:    attachment.FileSize,
		ContentType: attachment.ContentType,
		StorageKey:  attachment.StorageKey,
		UploadedBy:  attachment.UploadedBy,
		CreatedAt:   attachment.CreatedAt,
		UpdatedAt:   attachment.UpdatedAt,
	}
}
