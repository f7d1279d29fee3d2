package structure

import (
	"context"

	"github.com/google/uuid"
	"github.com/orgstruct/backend/internal/domain/shared"
)

// ZoneRepository defines the interface for zone persistence
type ZoneRepository interface {
	// Create creates a new zone
	Create(ctx context.Context, zone *Zone) error

	// Update updates an existing zone
	Update(ctx context.Context, zone *Zone) error

	// Delete deletes a zone by ID
	Delete(ctx context.Context, id uuid.UUID) error

	// FindByID finds a zone by its ID
	FindByID(ctx context.Context, id uuid.UUID) (*Zone, error)

	// FindByName finds a zone by its name
	FindByName(ctx context.Context, name string) (*Zone, error)

	// FindAll finds all zones matching the filter
	FindAll(ctx context.Context, filter shared.Filter) ([]Zone, int64, error)

	// ExistsByName checks if a zone with the given name exists
	ExistsByName(ctx context.Context, name string) (bool, error)

	// Count counts all zones
	Count(ctx context.Context) (int64, error)
}
