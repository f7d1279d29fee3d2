package identity

import (
	"context"

	"github.com/google/uuid"
)

// RoleFilter defines the filter criteria for role queries
type RoleFilter struct {
	Keyword      string // Search in code and name
	IsEnabled    *bool  // Filter by enabled status
	IsSystemRole *bool  // Filter by system role flag
	// Pagination
	Page  int
	Limit int
}

// RoleRepository defines the interface for role persistence operations
type RoleRepository interface {
	// Create creates a new role
	Create(ctx context.Context, role *Role) error

	// Update updates an existing role
	Update(ctx context.Context, role *Role) error

	// Delete deletes a role by ID
	Delete(ctx context.Context, id uuid.UUID) error

	// FindByID finds a role by ID
	FindByID(ctx context.Context, id uuid.UUID) (*Role, error)

	// FindByCode finds a role by code
	FindByCode(ctx context.Context, code string) (*Role, error)

	// FindAll finds all roles with optional filtering
	FindAll(ctx context.Context, filter *RoleFilter) ([]*Role, error)

	// Count counts roles matching the filter
	Count(ctx context.Context, filter *RoleFilter) (int64, error)

	// ExistsByCode checks if a role with the given code exists
	ExistsByCode(ctx context.Context, code string) (bool, error)

	// ExistsByID checks if a role with the given ID exists
	ExistsByID(ctx context.Context, id uuid.UUID) (bool, error)

	// FindByIDs finds multiple roles by IDs
	FindByIDs(ctx context.Context, ids []uuid.UUID) ([]*Role, error)

	// FindSystemRoles finds all system roles
	FindSystemRoles(ctx context.Context) ([]*Role, error)

	// SaveCapabilities saves all capabilities for a role (replaces existing)
	SaveCapabilities(ctx context.Context, role *Role) error

	// LoadCapabilities loads capabilities for a role
	LoadCapabilities(ctx context.Context, role *Role) error

	// FindUsersWithRole finds all user IDs that have this role
	FindUsersWithRole(ctx context.Context, roleID uuid.UUID) ([]uuid.UUID, error)

	// CountUsersWithRole counts how many users have this role
	CountUsersWithRole(ctx context.Context, roleID uuid.UUID) (int64, error)

	// FindRolesWithCapability finds all roles that carry a specific capability
	FindRolesWithCapability(ctx context.Context, c Capability) ([]*Role, error)
}

// RoleWithUserCount represents a role with the count of users assigned to it
type RoleWithUserCount struct {
	Role      *Role
	UserCount int64
}
