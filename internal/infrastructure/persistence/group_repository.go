package persistence

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/orgstruct/backend/internal/domain/shared"
	"github.com/orgstruct/backend/internal/domain/structure"
	"gorm.io/gorm"
)

// GormGroupRepository implements GroupRepository using GORM
type GormGroupRepository struct {
	db *gorm.DB
}

// NewGormGroupRepository creates a new GormGroupRepository
func NewGormGroupRepository(db *gorm.DB) *GormGroupRepository {
	return &GormGroupRepository{db: db}
}

// Create creates a new group
func (r *GormGroupRepository) Create(ctx context.Context, group *structure.Group) error {
	return r.db.WithContext(ctx).Create(group).Error
}

// Update updates an existing group
func (r *GormGroupRepository) Update(ctx context.Context, group *structure.Group) error {
	result := r.db.WithContext(ctx).Save(group)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// FindByID finds a group by its ID
func (r *GormGroupRepository) FindByID(ctx context.Context, id uuid.UUID) (*structure.Group, error) {
	var group structure.Group
	if err := r.db.WithContext(ctx).First(&group, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &group, nil
}

// FindAll finds all groups matching the filter
func (r *GormGroupRepository) FindAll(ctx context.Context, filter shared.Filter) ([]structure.Group, int64, error) {
	var groups []structure.Group
	var total int64

	query := r.db.WithContext(ctx).Model(&structure.Group{})
	query = r.applyFilterWithoutPagination(query, filter)

	// Get total count
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	// Apply sorting with whitelist validation to prevent SQL injection
	sortField := ValidateSortField(filter.OrderBy, GroupSortFields, "name")
	sortOrder := ValidateSortOrder(filter.OrderDir)
	query = query.Order(fmt.Sprintf("%s %s", sortField, sortOrder))

	// Apply pagination
	if filter.Page > 0 && filter.PageSize > 0 {
		offset := (filter.Page - 1) * filter.PageSize
		query = query.Offset(offset).Limit(filter.PageSize)
	}

	if err := query.Find(&groups).Error; err != nil {
		return nil, 0, err
	}

	return groups, total, nil
}

// FindByZoneID finds all groups in a zone
func (r *GormGroupRepository) FindByZoneID(ctx context.Context, zoneID uuid.UUID) ([]structure.Group, error) {
	var groups []structure.Group
	if err := r.db.WithContext(ctx).
		Where("zone_id = ?", zoneID).
		Order("name ASC").
		Find(&groups).Error; err != nil {
		return nil, err
	}
	return groups, nil
}

// Count counts all groups
func (r *GormGroupRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&structure.Group{}).Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// applyFilterWithoutPagination applies filter options without pagination
func (r *GormGroupRepository) applyFilterWithoutPagination(query *gorm.DB, filter shared.Filter) *gorm.DB {
	// Apply search
	if filter.Search != "" {
		searchPattern := "%" + filter.Search + "%"
		query = query.Where("name ILIKE ? OR description ILIKE ?", searchPattern, searchPattern)
	}

	// Apply additional filters
	for key, value := range filter.Filters {
		switch key {
		case "zone_id":
			query = query.Where("zone_id = ?", value)
		}
	}

	return query
}

// Ensure GormGroupRepository implements GroupRepository
var _ structure.GroupRepository = (*GormGroupRepository)(nil)
