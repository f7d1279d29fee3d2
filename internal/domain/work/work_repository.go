package work

import (
	"context"

	"github.com/google/uuid"
)

// WorkFilter contains filter options for querying works
type WorkFilter struct {
	Status   *WorkStatus
	SectorID *uuid.UUID

	// Pagination
	Page     int
	PageSize int
}

// NewWorkFilter creates a new WorkFilter with default values
func NewWorkFilter() WorkFilter {
	return WorkFilter{
		Page:     1,
		PageSize: 20,
	}
}

// Offset returns the offset for pagination
func (f WorkFilter) Offset() int {
	if f.Page <= 0 {
		return 0
	}
	return (f.Page - 1) * f.PageSize
}

// Limit returns the limit for pagination
func (f WorkFilter) Limit() int {
	if f.PageSize <= 0 {
		return 20
	}
	if f.PageSize > 100 {
		return 100
	}
	return f.PageSize
}

// WorkRepository defines the interface for work persistence
type WorkRepository interface {
	// Create creates a new work
	Create(ctx context.Context, w *Work) error

	// Update updates an existing work
	Update(ctx context.Context, w *Work) error

	// Delete removes the work together with its sector links and weekly
	// tasks in one transaction. Returns shared.ErrNotFound when absent.
	Delete(ctx context.Context, id uuid.UUID) error

	// FindByID finds a work by its ID
	FindByID(ctx context.Context, id uuid.UUID) (*Work, error)

	// FindAll finds all works matching the filter
	FindAll(ctx context.Context, filter WorkFilter) ([]*Work, int64, error)

	// FindByUser finds works the user created plus works where the user
	// picked a weekly task
	FindByUser(ctx context.Context, userID uuid.UUID) ([]*Work, error)

	// SaveSectors replaces the work's sector assignment rows
	SaveSectors(ctx context.Context, w *Work) error

	// LoadSectors loads the work's assigned sector ids
	LoadSectors(ctx context.Context, w *Work) error

	// Count counts all works
	Count(ctx context.Context) (int64, error)
}
