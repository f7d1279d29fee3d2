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

// GormSectorRepository implements SectorRepository using GORM
type GormSectorRepository struct {
	db *gorm.DB
}

// NewGormSectorRepository creates a new GormSectorRepository
func NewGormSectorRepository(db *gorm.DB) *GormSectorRepository {
	return &GormSectorRepository{db: db}
}

// Create creates a new sector
func (r *GormSectorRepository) Create(ctx context.Context, sector *structure.Sector) error {
	return r.db.WithContext(ctx).Create(sector).Error
}

// Update updates an existing sector
func (r *GormSectorRepository) Update(ctx context.Context, sector *structure.Sector) error {
	result := r.db.WithContext(ctx).Save(sector)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// FindByID finds a sector by its ID
func (r *GormSectorRepository) FindByID(ctx context.Context, id uuid.UUID) (*structure.Sector, error) {
	var sector structure.Sector
	if err := r.db.WithContext(ctx).First(&sector, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &sector, nil
}

// FindByIDs finds multiple sectors by IDs
func (r *GormSectorRepository) FindByIDs(ctx context.Context, ids []uuid.UUID) ([]structure.Sector, error) {
	if len(ids) == 0 {
		return []structure.Sector{}, nil
	}

	var sectors []structure.Sector
	if err := r.db.WithContext(ctx).
		Where("id IN ?", ids).
		Find(&sectors).Error; err != nil {
		return nil, err
	}
	return sectors, nil
}

// FindAll finds all sectors matching the filter
func (r *GormSectorRepository) FindAll(ctx context.Context, filter shared.Filter) ([]structure.Sector, int64, error) {
	var sectors []structure.Sector
	var total int64

	query := r.db.WithContext(ctx).Model(&structure.Sector{})
	query = r.applyFilterWithoutPagination(query, filter)

	// Get total count
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	// Apply sorting with whitelist validation to prevent SQL injection
	sortField := ValidateSortField(filter.OrderBy, SectorSortFields, "name")
	sortOrder := ValidateSortOrder(filter.OrderDir)
	query = query.Order(fmt.Sprintf("%s %s", sortField, sortOrder))

	// Apply pagination
	if filter.Page > 0 && filter.PageSize > 0 {
		offset := (filter.Page - 1) * filter.PageSize
		query = query.Offset(offset).Limit(filter.PageSize)
	}

	if err := query.Find(&sectors).Error; err != nil {
		return nil, 0, err
	}

	return sectors, total, nil
}

// FindByZoneID finds all sectors in a zone
func (r *GormSectorRepository) FindByZoneID(ctx context.Context, zoneID uuid.UUID) ([]structure.Sector, error) {
	var sectors []structure.Sector
	if err := r.db.WithContext(ctx).
		Where("zone_id = ?", zoneID).
		Order("code ASC").
		Find(&sectors).Error; err != nil {
		return nil, err
	}
	return sectors, nil
}

// ExistsByCode checks if a sector with the given code exists in the zone
func (r *GormSectorRepository) ExistsByCode(ctx context.Context, zoneID uuid.UUID, code string) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&structure.Sector{}).
		Where("zone_id = ? AND UPPER(code) = ?", zoneID, strings.ToUpper(code)).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// Count counts all sectors
func (r *GormSectorRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&structure.Sector{}).Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// applyFilterWithoutPagination applies filter options without pagination
func (r *GormSectorRepository) applyFilterWithoutPagination(query *gorm.DB, filter shared.Filter) *gorm.DB {
	// Apply search
	if filter.Search != "" {
		searchPattern := "%" + filter.Search + "%"
		query = query.Where("name ILIKE ? OR code ILIKE ?", searchPattern, searchPattern)
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

// Ensure GormSectorRepository implements SectorRepository
var _ structure.SectorRepository = (*GormSectorRepository)(nil)
