package work

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/orgstruct/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// WorkStatus represents the status of a work item
type WorkStatus string

const (
	WorkStatusUnassigned WorkStatus = "unassigned" // Created, not attached to sectors yet
	WorkStatusAssigned   WorkStatus = "assigned"   // Attached to one or more sectors
	WorkStatusInProgress WorkStatus = "in_progress"
	WorkStatusCompleted  WorkStatus = "completed"
)

// IsValid checks if the status is a valid WorkStatus
func (s WorkStatus) IsValid() bool {
	switch s {
	case WorkStatusUnassigned, WorkStatusAssigned, WorkStatusInProgress, WorkStatusCompleted:
		return true
	}
	return false
}

// String returns the string representation of WorkStatus
func (s WorkStatus) String() string {
	return string(s)
}

// CanTransitionTo checks if the status can transition to the target status
func (s WorkStatus) CanTransitionTo(target WorkStatus) bool {
	switch s {
	case WorkStatusUnassigned:
		return target == WorkStatusAssigned
	case WorkStatusAssigned:
		return target == WorkStatusInProgress
	case WorkStatusInProgress:
		return target == WorkStatusCompleted
	case WorkStatusCompleted:
		return false // Terminal state
	}
	return false
}

// Work represents a unit of planned work
// It is the aggregate root for work-related operations
type Work struct {
	shared.BaseAggregateRoot
	Description       string          `gorm:"type:text;not null"`
	AssignedBy        uuid.UUID       `gorm:"type:uuid;not null;index"` // User who created the work
	SectorID          uuid.UUID       `gorm:"type:uuid;not null;index"` // Target sector at creation
	PlannedStartDate  time.Time       `gorm:"not null"`
	PlannedEndDate    time.Time       `gorm:"not null"`
	Quality           string          `gorm:"type:varchar(100)"`
	Quantity          int             `gorm:"not null"`
	TimeRequiredHours int             `gorm:"not null;default:0"`
	Cost              decimal.Decimal `gorm:"type:decimal(18,2);not null;default:0"`
	Status            WorkStatus      `gorm:"type:varchar(20);not null;default:'unassigned';index"`
	SectorIDs         []uuid.UUID     `gorm:"-"` // Stored in work_sectors, loaded by repository
}

// TableName returns the table name for GORM
func (Work) TableName() string {
	return "works"
}

// WorkSector is the join row attaching a work to a sector.
type WorkSector struct {
	WorkID    uuid.UUID `gorm:"type:uuid;primaryKey"`
	SectorID  uuid.UUID `gorm:"type:uuid;primaryKey"`
	CreatedAt time.Time `gorm:"not null"`
}

// TableName returns the table name for GORM
func (WorkSector) TableName() string {
	return "work_sectors"
}

// NewWork creates a new work item with required fields.
// Works start unassigned until attached to sectors.
func NewWork(description string, assignedBy, sectorID uuid.UUID, plannedStart, plannedEnd time.Time, quantity int, cost decimal.Decimal) (*Work, error) {
	if err := validateWorkDescription(description); err != nil {
		return nil, err
	}
	if assignedBy == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_ASSIGNED_BY", "Assigning user ID cannot be empty")
	}
	if sectorID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_SECTOR_ID", "Sector ID cannot be empty")
	}
	if plannedStart.IsZero() || plannedEnd.IsZero() {
		return nil, shared.NewDomainError("INVALID_DATES", "Planned start and end dates are required")
	}
	if plannedEnd.Before(plannedStart) {
		return nil, shared.NewDomainError("INVALID_DATES", "Planned end date cannot be before start date")
	}
	if quantity <= 0 {
		return nil, shared.NewDomainError("INVALID_QUANTITY", "Quantity must be positive")
	}
	if cost.IsNegative() {
		return nil, shared.NewDomainError("INVALID_COST", "Cost cannot be negative")
	}

	w := &Work{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		Description:       strings.TrimSpace(description),
		AssignedBy:        assignedBy,
		SectorID:          sectorID,
		PlannedStartDate:  plannedStart,
		PlannedEndDate:    plannedEnd,
		Quantity:          quantity,
		Cost:              cost,
		Status:            WorkStatusUnassigned,
		SectorIDs:         make([]uuid.UUID, 0),
	}

	w.AddDomainEvent(NewWorkCreatedEvent(w))

	return w, nil
}

// SetQuality sets the expected quality descriptor
func (w *Work) SetQuality(quality string) error {
	if quality != "" && len(quality) > 100 {
		return shared.NewDomainError("INVALID_QUALITY", "Quality cannot exceed 100 characters")
	}

	w.Quality = strings.TrimSpace(quality)
	w.UpdatedAt = time.Now()
	w.IncrementVersion()

	return nil
}

// SetTimeRequired sets the estimated hours for the work
func (w *Work) SetTimeRequired(hours int) error {
	if hours < 0 {
		return shared.NewDomainError("INVALID_TIME_REQUIRED", "Time required cannot be negative")
	}

	w.TimeRequiredHours = hours
	w.UpdatedAt = time.Now()
	w.IncrementVersion()

	return nil
}

// AssignToSectors attaches the work to the given sectors and moves it
// out of the unassigned state. The sector list replaces any previous
// assignment.
func (w *Work) AssignToSectors(sectorIDs []uuid.UUID) error {
	if len(sectorIDs) == 0 {
		return shared.NewDomainError("INVALID_SECTOR_IDS", "At least one sector is required")
	}

	seen := make(map[uuid.UUID]bool)
	unique := make([]uuid.UUID, 0, len(sectorIDs))
	for _, sid := range sectorIDs {
		if sid == uuid.Nil {
			return shared.NewDomainError("INVALID_SECTOR_IDS", "Sector ID cannot be empty")
		}
		if !seen[sid] {
			seen[sid] = true
			unique = append(unique, sid)
		}
	}

	w.SectorIDs = unique
	if w.Status == WorkStatusUnassigned {
		w.Status = WorkStatusAssigned
	}
	w.UpdatedAt = time.Now()
	w.IncrementVersion()

	w.AddDomainEvent(NewWorkAssignedToSectorsEvent(w, unique))

	return nil
}

// StartProgress moves the work to in_progress once workers pick its tasks
func (w *Work) StartProgress() error {
	if !w.Status.CanTransitionTo(WorkStatusInProgress) {
		return shared.NewDomainError("INVALID_STATE", "Work cannot move to in_progress from "+w.Status.String())
	}

	w.Status = WorkStatusInProgress
	w.UpdatedAt = time.Now()
	w.IncrementVersion()

	w.AddDomainEvent(NewWorkStatusChangedEvent(w, WorkStatusAssigned, WorkStatusInProgress))

	return nil
}

// Complete marks the work as completed
func (w *Work) Complete() error {
	if !w.Status.CanTransitionTo(WorkStatusCompleted) {
		return shared.NewDomainError("INVALID_STATE", "Work cannot be completed from "+w.Status.String())
	}

	oldStatus := w.Status
	w.Status = WorkStatusCompleted
	w.UpdatedAt = time.Now()
	w.IncrementVersion()

	w.AddDomainEvent(NewWorkStatusChangedEvent(w, oldStatus, WorkStatusCompleted))

	return nil
}

// Update updates the work's editable fields
func (w *Work) Update(description string, plannedStart, plannedEnd time.Time, quantity int, cost decimal.Decimal) error {
	if err := validateWorkDescription(description); err != nil {
		return err
	}
	if plannedEnd.Before(plannedStart) {
		return shared.NewDomainError("INVALID_DATES", "Planned end date cannot be before start date")
	}
	if quantity <= 0 {
		return shared.NewDomainError("INVALID_QUANTITY", "Quantity must be positive")
	}
	if cost.IsNegative() {
		return shared.NewDomainError("INVALID_COST", "Cost cannot be negative")
	}

	w.Description = strings.TrimSpace(description)
	w.PlannedStartDate = plannedStart
	w.PlannedEndDate = plannedEnd
	w.Quantity = quantity
	w.Cost = cost
	w.UpdatedAt = time.Now()
	w.IncrementVersion()

	return nil
}

// IsAssigned returns true once the work has been attached to sectors
func (w *Work) IsAssigned() bool {
	return w.Status != WorkStatusUnassigned
}

func validateWorkDescription(description string) error {
	description = strings.TrimSpace(description)
	if description == "" {
		return shared.NewDomainError("INVALID_DESCRIPTION", "Work description cannot be empty")
	}
	if len(description) > 2000 {
		return shared.NewDomainError("INVALID_DESCRIPTION", "Work description cannot exceed 2000 characters")
	}
	return nil
}
