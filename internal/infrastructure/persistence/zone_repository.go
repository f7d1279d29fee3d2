package persistence

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/orgstruct/backend/internal/domain/shared"
	"github.com/orgstruct/backend/internal/domain/structure"
	"gorm.io/gorm"
)

// GormZoneRepository implements ZoneRepository using GORM
type GormZoneRepository struct {
	db *gorm.DB
}

// NewGormZoneRepository creates a new GormZoneRepository
func NewGormZoneRepository(db *gorm.DB) *GormZoneRepository {
	return &GormZoneRepository{db: db}
}

// Create creates a new zone
func (r *GormZoneRepository) Create(ctx context.Context, zone *structure.Zone) error {
	return r.db.WithContext(ctx).Create(zone).Error
}

// Update updates an existing zone
func (r *GormZoneRepository) Update(ctx context.Context, zone *structure.Zone) error {
	result := r.db.WithContext(ctx).Save(zone)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// Delete deletes a zone by ID
func (r *GormZoneRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&structure.Zone{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// FindByID finds a zone by its ID
func (r *GormZoneRepository) FindByID(ctx context.Context, id uuid.UUID) (*structure.Zone, error) {
	var zone structure.Zone
	if err := r.db.WithContext(ctx).First(&zone, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &zone, nil
}

// FindByName finds a zone by its name
func (r *GormZoneRepository) FindByName(ctx context.Context, name string) (*structure.Zone, error) {
	var zone structure.Zone
	if err := r.db.WithContext(ctx).
		Where("LOWER(name) = ?", strings.ToLower(strings.TrimSpace(name))).
		First(&zone).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &zone, nil
}

// FindAll finds all zones matching the filter
func (r *GormZoneRepository) FindAll(ctx context.Context, filter shared.Filter) ([]structure.Zone, int64, error) {
	var zones []structure.Zone
	var total int64

	query := r.db.WithContext(ctx).Model(&structure.Zone{})
	query = r.applyFilterWithoutPagination(query, filter)

	// Get total count
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	// Apply sorting with whitelist validation to prevent SQL injection
	sortField := ValidateSortField(filter.OrderBy, ZoneSortFields, "name")
	sortOrder := ValidateSortOrder(filter.OrderDir)
	query = query.Order(fmt.Sprintf("%s %s", sortField, sortOrder))

	// Apply pagination
	if filter.Page > 0 && filter.PageSize > 0 {
		offset := (filter.Page - 1) * filter.PageSize
		query = query.Offset(offset).Limit(filter.PageSize)
	}

	if err := query.Find(&zones).Error; err != nil {
		return nil, 0, err
	}

	return zones, total, nil
}

// ExistsByName checks if a zone with the given name exists
func (r *GormZoneRepository) ExistsByName(ctx context.Context, name string) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&structure.Zone{}).
		Where("LOWER(name) = ?", strings.ToLower(strings.TrimSpace(name))).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// Count counts all zones
func (r *GormZoneRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&structure.Zone{}).Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// applyFilterWithoutPagination applies filter options without pagination
func (r *GormZoneRepository) applyFilterWithoutPagination(query *gorm.DB, filter shared.Filter) *gorm.DB {
	// Apply search
	if filter.Search != "" {
		searchPattern := "%" + filter.Search + "%"
		query = query.Where("name ILIKE ? OR city ILIKE ?", searchPattern, searchPattern)
	}

	// Apply additional filters
	for key, value := range filter.Filters {
		switch key {
		case "city":
			query = query.Where("city = ?", value)
		}
	}

	return query
}

// Ensure GormZoneRepository implements ZoneRepository
var _ structure.ZoneRepository = (*GormZoneRepository)(nil)
