package persistence

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/orgstruct/backend/internal/domain/shared"
	"github.com/orgstruct/backend/internal/domain/work"
	"gorm.io/gorm"
)

// GormWorkRepository implements WorkRepository using GORM
type GormWorkRepository struct {
	db *gorm.DB
}

// NewGormWorkRepository creates a new GormWorkRepository
func NewGormWorkRepository(db *gorm.DB) *GormWorkRepository {
	return &GormWorkRepository{db: db}
}

// Create creates a new work
func (r *GormWorkRepository) Create(ctx context.Context, w *work.Work) error {
	return r.db.WithContext(ctx).Create(w).Error
}

// Update updates an existing work
func (r *GormWorkRepository) Update(ctx context.Context, w *work.Work) error {
	result := r.db.WithContext(ctx).Save(w)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// Delete removes the work together with its sector links and weekly tasks
// in one transaction, so a failed delete leaves everything in place.
func (r *GormWorkRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		// Delete sector links
		if err := tx.Where("work_id = ?", id).Delete(&work.WorkSector{}).Error; err != nil {
			return err
		}

		// Delete weekly tasks derived from the work
		if err := tx.Where("work_id = ?", id).Delete(&work.WeeklyTask{}).Error; err != nil {
			return err
		}

		// Delete the work itself
		result := tx.Delete(&work.Work{}, "id = ?", id)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return shared.ErrNotFound
		}
		return nil
	})
}

// FindByID finds a work by its ID
func (r *GormWorkRepository) FindByID(ctx context.Context, id uuid.UUID) (*work.Work, error) {
	var w work.Work
	if err := r.db.WithContext(ctx).First(&w, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &w, nil
}

// FindAll finds all works matching the filter
func (r *GormWorkRepository) FindAll(ctx context.Context, filter work.WorkFilter) ([]*work.Work, int64, error) {
	var works []*work.Work
	var total int64

	query := r.db.WithContext(ctx).Model(&work.Work{})
	query = r.applyFilter(query, filter)

	// Get total count
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	// Newest first
	query = query.Order("created_at DESC")

	// Apply pagination
	query = query.Offset(filter.Offset()).Limit(filter.Limit())

	if err := query.Find(&works).Error; err != nil {
		return nil, 0, err
	}

	return works, total, nil
}

// FindByUser finds works the user created plus works where the user picked
// a weekly task
func (r *GormWorkRepository) FindByUser(ctx context.Context, userID uuid.UUID) ([]*work.Work, error) {
	pickedWorkIDs := r.db.Model(&work.WeeklyTask{}).
		Select("work_id").
		Where("picked_by = ?", userID)

	var works []*work.Work
	if err := r.db.WithContext(ctx).
		Where("assigned_by = ? OR id IN (?)", userID, pickedWorkIDs).
		Order("created_at DESC").
		Find(&works).Error; err != nil {
		return nil, err
	}
	return works, nil
}

// SaveSectors replaces the work's sector assignment rows
func (r *GormWorkRepository) SaveSectors(ctx context.Context, w *work.Work) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		// Delete existing links
		if err := tx.Where("work_id = ?", w.ID).Delete(&work.WorkSector{}).Error; err != nil {
			return err
		}

		// Insert new links
		if len(w.SectorIDs) > 0 {
			links := make([]work.WorkSector, len(w.SectorIDs))
			for i, sectorID := range w.SectorIDs {
				links[i] = work.WorkSector{
					WorkID:    w.ID,
					SectorID:  sectorID,
					CreatedAt: time.Now(),
				}
			}
			if err := tx.Create(&links).Error; err != nil {
				return err
			}
		}

		return nil
	})
}

// LoadSectors loads the work's assigned sector ids
func (r *GormWorkRepository) LoadSectors(ctx context.Context, w *work.Work) error {
	var links []work.WorkSector
	if err := r.db.WithContext(ctx).
		Where("work_id = ?", w.ID).
		Find(&links).Error; err != nil {
		return err
	}

	sectorIDs := make([]uuid.UUID, len(links))
	for i, link := range links {
		sectorIDs[i] = link.SectorID
	}
	w.SectorIDs = sectorIDs

	return nil
}

// Count counts all works
func (r *GormWorkRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&work.Work{}).Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// applyFilter applies filter options to the query
func (r *GormWorkRepository) applyFilter(query *gorm.DB, filter work.WorkFilter) *gorm.DB {
	// Apply status filter
	if filter.Status != nil {
		query = query.Where("status = ?", *filter.Status)
	}

	// Apply sector filter across both the creation target and the
	// assignment links
	if filter.SectorID != nil {
		linkedWorkIDs := r.db.Model(&work.WorkSector{}).
			Select("work_id").
			Where("sector_id = ?", *filter.SectorID)
		query = query.Where("sector_id = ? OR id IN (?)", *filter.SectorID, linkedWorkIDs)
	}

	return query
}

// Ensure GormWorkRepository implements WorkRepository
var _ work.WorkRepository = (*GormWorkRepository)(nil)
