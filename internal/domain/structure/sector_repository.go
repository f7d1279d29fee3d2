package structure

import (
	"context"

	"github.com/google/uuid"
	"github.com/orgstruct/backend/internal/domain/shared"
)

// SectorRepository defines the interface for sector persistence
type SectorRepository interface {
	// Create creates a new sector
	Create(ctx context.Context, sector *Sector) error

	// Update updates an existing sector
	Update(ctx context.Context, sector *Sector) error

	// FindByID finds a sector by its ID
	FindByID(ctx context.Context, id uuid.UUID) (*Sector, error)

	// FindByIDs finds multiple sectors by IDs
	FindByIDs(ctx context.Context, ids []uuid.UUID) ([]Sector, error)

	// FindAll finds all sectors matching the filter
	FindAll(ctx context.Context, filter shared.Filter) ([]Sector, int64, error)

	// FindByZoneID finds all sectors in a zone
	FindByZoneID(ctx context.Context, zoneID uuid.UUID) ([]Sector, error)

	// ExistsByCode checks if a sector with the given code exists in the zone
	ExistsByCode(ctx context.Context, zoneID uuid.UUID, code string) (bool, error)

	// Count counts all sectors
	Count(ctx context.Context) (int64, error)
}
