package structure

import (
	"context"

	"github.com/google/uuid"
	"github.com/orgstruct/backend/internal/domain/shared"
)

// GroupRepository defines the interface for group persistence
type GroupRepository interface {
	// Create creates a new group
	Create(ctx context.Context, group *Group) error

	// Update updates an existing group
	Update(ctx context.Context, group *Group) error

	// FindByID finds a group by its ID
	FindByID(ctx context.Context, id uuid.UUID) (*Group, error)

	// FindAll finds all groups matching the filter
	FindAll(ctx context.Context, filter shared.Filter) ([]Group, int64, error)

	// FindByZoneID finds all groups in a zone
	FindByZoneID(ctx context.Context, zoneID uuid.UUID) ([]Group, error)

	// Count counts all groups
	Count(ctx context.Context) (int64, error)
}
