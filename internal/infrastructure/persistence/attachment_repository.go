package persistence

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/orgstruct/backend/internal/domain/shared"
	"github.com/orgstruct/backend/internal/domain/work"
	"gorm.io/gorm"
)

// GormWorkAttachmentRepository implements WorkAttachmentRepository using GORM
type GormWorkAttachmentRepository struct {
	db *gorm.DB
}

// NewGormWorkAttachmentRepository creates a new GormWorkAttachmentRepository
func NewGormWorkAttachmentRepository(db *gorm.DB) *GormWorkAttachmentRepository {
	return &GormWorkAttachmentRepository{db: db}
}

// Create creates a new attachment record
func (r *GormWorkAttachmentRepository) Create(ctx context.Context, attachment *work.WorkAttachment) error {
	return r.db.WithContext(ctx).Create(attachment).Error
}

// Update updates an existing attachment record
func (r *GormWorkAttachmentRepository) Update(ctx context.Context, attachment *work.WorkAttachment) error {
	result := r.db.WithContext(ctx).Save(attachment)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// Delete removes the attachment record
func (r *GormWorkAttachmentRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&work.WorkAttachment{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// FindByID finds an attachment by its ID
func (r *GormWorkAttachmentRepository) FindByID(ctx context.Context, id uuid.UUID) (*work.WorkAttachment, error) {
	var attachment work.WorkAttachment
	if err := r.db.WithContext(ctx).First(&attachment, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &attachment, nil
}

// FindByWorkID finds all non-deleted attachments for a work
func (r *GormWorkAttachmentRepository) FindByWorkID(ctx context.Context, workID uuid.UUID) ([]*work.WorkAttachment, error) {
	var attachments []*work.WorkAttachment
	if err := r.db.WithContext(ctx).
		Where("work_id = ? AND status <> ?", workID, work.AttachmentStatusDeleted).
		Order("created_at DESC").
		Find(&attachments).Error; err != nil {
		return nil, err
	}
	return attachments, nil
}

// CountByWorkID counts non-deleted attachments for a work
func (r *GormWorkAttachmentRepository) CountByWorkID(ctx context.Context, workID uuid.UUID) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&work.WorkAttachment{}).
		Where("work_id = ? AND status <> ?", workID, work.AttachmentStatusDeleted).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// Ensure GormWorkAttachmentRepository implements WorkAttachmentRepository
var _ work.WorkAttachmentRepository = (*GormWorkAttachmentRepository)(nil)
