package persistence

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/orgstruct/backend/internal/domain/identity"
	"github.com/orgstruct/backend/internal/domain/shared"
	"gorm.io/gorm"
)

// GormRoleRepository implements RoleRepository using GORM
type GormRoleRepository struct {
	db *gorm.DB
}

// NewGormRoleRepository creates a new GormRoleRepository
func NewGormRoleRepository(db *gorm.DB) *GormRoleRepository {
	return &GormRoleRepository{db: db}
}

// Create creates a new role
func (r *GormRoleRepository) Create(ctx context.Context, role *identity.Role) error {
	return r.db.WithContext(ctx).Create(role).Error
}

// Update updates an existing role
func (r *GormRoleRepository) Update(ctx context.Context, role *identity.Role) error {
	result := r.db.WithContext(ctx).Save(role)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// Delete deletes a role by ID
func (r *GormRoleRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		// Delete capability grants
		if err := tx.Where("role_id = ?", id).Delete(&identity.RoleCapability{}).Error; err != nil {
			return err
		}

		// Delete user assignments
		if err := tx.Where("role_id = ?", id).Delete(&identity.UserRole{}).Error; err != nil {
			return err
		}

		// Delete role
		result := tx.Delete(&identity.Role{}, "id = ?", id)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return shared.ErrNotFound
		}
		return nil
	})
}

// FindByID finds a role by ID
func (r *GormRoleRepository) FindByID(ctx context.Context, id uuid.UUID) (*identity.Role, error) {
	var role identity.Role
	if err := r.db.WithContext(ctx).First(&role, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &role, nil
}

// FindByCode finds a role by code
func (r *GormRoleRepository) FindByCode(ctx context.Context, code string) (*identity.Role, error) {
	var role identity.Role
	if err := r.db.WithContext(ctx).
		Where("UPPER(code) = ?", strings.ToUpper(code)).
		First(&role).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &role, nil
}

// FindAll finds all roles with optional filtering
func (r *GormRoleRepository) FindAll(ctx context.Context, filter *identity.RoleFilter) ([]*identity.Role, error) {
	var roles []*identity.Role
	query := r.db.WithContext(ctx).Model(&identity.Role{})

	query = r.applyFilter(query, filter)

	// Default sorting
	query = query.Order("name ASC")

	// Apply pagination
	if filter != nil {
		if filter.Limit > 0 {
			query = query.Limit(filter.Limit)
		}
		if filter.Page > 0 && filter.Limit > 0 {
			offset := (filter.Page - 1) * filter.Limit
			query = query.Offset(offset)
		}
	}

	if err := query.Find(&roles).Error; err != nil {
		return nil, err
	}

	return roles, nil
}

// Count counts roles matching the filter
func (r *GormRoleRepository) Count(ctx context.Context, filter *identity.RoleFilter) (int64, error) {
	var count int64
	query := r.db.WithContext(ctx).Model(&identity.Role{})

	query = r.applyFilter(query, filter)

	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// ExistsByCode checks if a role with the given code exists
func (r *GormRoleRepository) ExistsByCode(ctx context.Context, code string) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&identity.Role{}).
		Where("UPPER(code) = ?", strings.ToUpper(code)).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// ExistsByID checks if a role with the given ID exists
func (r *GormRoleRepository) ExistsByID(ctx context.Context, id uuid.UUID) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&identity.Role{}).
		Where("id = ?", id).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// FindByIDs finds multiple roles by IDs
func (r *GormRoleRepository) FindByIDs(ctx context.Context, ids []uuid.UUID) ([]*identity.Role, error) {
	if len(ids) == 0 {
		return []*identity.Role{}, nil
	}

	var roles []*identity.Role
	if err := r.db.WithContext(ctx).
		Where("id IN ?", ids).
		Find(&roles).Error; err != nil {
		return nil, err
	}
	return roles, nil
}

// FindSystemRoles finds all system roles
func (r *GormRoleRepository) FindSystemRoles(ctx context.Context) ([]*identity.Role, error) {
	var roles []*identity.Role
	if err := r.db.WithContext(ctx).
		Where("is_system_role = ?", true).
		Order("name ASC").
		Find(&roles).Error; err != nil {
		return nil, err
	}
	return roles, nil
}

// SaveCapabilities saves all capabilities for a role (replaces existing)
func (r *GormRoleRepository) SaveCapabilities(ctx context.Context, role *identity.Role) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		// Delete existing grants
		if err := tx.Where("role_id = ?", role.ID).Delete(&identity.RoleCapability{}).Error; err != nil {
			return err
		}

		// Insert new grants
		if len(role.Capabilities) > 0 {
			grants := make([]identity.RoleCapability, len(role.Capabilities))
			for i, c := range role.Capabilities {
				grants[i] = identity.RoleCapability{
					RoleID:     role.ID,
					Capability: c,
					CreatedAt:  time.Now(),
				}
			}
			if err := tx.Create(&grants).Error; err != nil {
				return err
			}
		}

		return nil
	})
}

// LoadCapabilities loads capabilities for a role
func (r *GormRoleRepository) LoadCapabilities(ctx context.Context, role *identity.Role) error {
	var grants []identity.RoleCapability
	if err := r.db.WithContext(ctx).
		Where("role_id = ?", role.ID).
		Find(&grants).Error; err != nil {
		return err
	}

	capabilities := make([]identity.Capability, len(grants))
	for i, g := range grants {
		capabilities[i] = g.Capability
	}
	role.Capabilities = capabilities

	return nil
}

// FindUsersWithRole finds all user IDs that have this role
func (r *GormRoleRepository) FindUsersWithRole(ctx context.Context, roleID uuid.UUID) ([]uuid.UUID, error) {
	var userRoles []identity.UserRole
	if err := r.db.WithContext(ctx).
		Where("role_id = ?", roleID).
		Find(&userRoles).Error; err != nil {
		return nil, err
	}

	userIDs := make([]uuid.UUID, len(userRoles))
	for i, ur := range userRoles {
		userIDs[i] = ur.UserID
	}
	return userIDs, nil
}

// CountUsersWithRole counts how many users have this role
func (r *GormRoleRepository) CountUsersWithRole(ctx context.Context, roleID uuid.UUID) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&identity.UserRole{}).
		Where("role_id = ?", roleID).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// FindRolesWithCapability finds all roles that carry a specific capability
func (r *GormRoleRepository) FindRolesWithCapability(ctx context.Context, c identity.Capability) ([]*identity.Role, error) {
	var grants []identity.RoleCapability
	if err := r.db.WithContext(ctx).
		Where("capability = ?", c).
		Find(&grants).Error; err != nil {
		return nil, err
	}

	if len(grants) == 0 {
		return []*identity.Role{}, nil
	}

	roleIDs := make([]uuid.UUID, len(grants))
	for i, g := range grants {
		roleIDs[i] = g.RoleID
	}

	return r.FindByIDs(ctx, roleIDs)
}

// applyFilter applies filter options to the query
func (r *GormRoleRepository) applyFilter(query *gorm.DB, filter *identity.RoleFilter) *gorm.DB {
	if filter == nil {
		return query
	}

	// Apply keyword search
	if filter.Keyword != "" {
		searchPattern := "%" + filter.Keyword + "%"
		query = query.Where("code ILIKE ? OR name ILIKE ?", searchPattern, searchPattern)
	}

	// Apply enabled filter
	if filter.IsEnabled != nil {
		query = query.Where("is_enabled = ?", *filter.IsEnabled)
	}

	// Apply system role filter
	if filter.IsSystemRole != nil {
		query = query.Where("is_system_role = ?", *filter.IsSystemRole)
	}

	return query
}

// Ensure GormRoleRepository implements RoleRepository
var _ identity.RoleRepository = (*GormRoleRepository)(nil)
