package persistence

import (
	"context"
	"time"

	structureapp "github.com/orgstruct/backend/internal/application/structure"
	"github.com/orgstruct/backend/internal/domain/identity"
	"github.com/orgstruct/backend/internal/domain/structure"
	"gorm.io/gorm"
)

// GormStructureBatchRepository persists zone and group creation batches.
// Each batch is one transaction: the aggregate row, the user rows, and
// the user-role join rows commit or roll back together.
type GormStructureBatchRepository struct {
	db *gorm.DB
}

// NewGormStructureBatchRepository creates a new GormStructureBatchRepository
func NewGormStructureBatchRepository(db *gorm.DB) *GormStructureBatchRepository {
	return &GormStructureBatchRepository{db: db}
}

// CreateZoneWithAdmins creates a zone and its admin accounts atomically
func (r *GormStructureBatchRepository) CreateZoneWithAdmins(ctx context.Context, zone *structure.Zone, admins []*identity.User) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(zone).Error; err != nil {
			return err
		}
		return createUsersWithRoles(tx, admins)
	})
}

// CreateGroupWithMembers creates a group and its member accounts atomically
func (r *GormStructureBatchRepository) CreateGroupWithMembers(ctx context.Context, group *structure.Group, members []*identity.User) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(group).Error; err != nil {
			return err
		}
		return createUsersWithRoles(tx, members)
	})
}

func createUsersWithRoles(tx *gorm.DB, users []*identity.User) error {
	for _, user := range users {
		if err := tx.Create(user).Error; err != nil {
			return err
		}

		if len(user.RoleIDs) == 0 {
			continue
		}
		userRoles := make([]identity.UserRole, len(user.RoleIDs))
		for i, roleID := range user.RoleIDs {
			userRoles[i] = identity.UserRole{
				UserID:    user.ID,
				RoleID:    roleID,
				CreatedAt: time.Now(),
			}
		}
		if err := tx.Create(&userRoles).Error; err != nil {
			return err
		}
	}
	return nil
}

// Ensure GormStructureBatchRepository implements the application contract
var _ structureapp.BatchWriter = (*GormStructureBatchRepository)(nil)
