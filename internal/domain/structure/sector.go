package structure

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/orgstruct/backend/internal/domain/shared"
)

// Sector represents a work sector inside a zone. Works are assigned to
// sectors and weekly tasks are created per sector.
type Sector struct {
	shared.BaseAggregateRoot
	Name   string    `gorm:"type:varchar(200);not null"`
	Code   string    `gorm:"type:varchar(50);not null;uniqueIndex:idx_sector_zone_code,priority:2"`
	ZoneID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_sector_zone_code,priority:1"`
}

// TableName returns the table name for GORM
func (Sector) TableName() string {
	return "sectors"
}

// NewSector creates a new sector with required fields
func NewSector(name, code string, zoneID uuid.UUID) (*Sector, error) {
	if err := validateSectorName(name); err != nil {
		return nil, err
	}
	if err := validateSectorCode(code); err != nil {
		return nil, err
	}
	if zoneID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_ZONE_ID", "Zone ID cannot be empty")
	}

	sector := &Sector{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		Name:              strings.TrimSpace(name),
		Code:              strings.ToUpper(strings.TrimSpace(code)),
		ZoneID:            zoneID,
	}

	sector.AddDomainEvent(NewSectorCreatedEvent(sector))

	return sector, nil
}

// SetName sets the sector name
func (s *Sector) SetName(name string) error {
	if err := validateSectorName(name); err != nil {
		return err
	}

	s.Name = strings.TrimSpace(name)
	s.UpdatedAt = time.Now()
	s.IncrementVersion()

	return nil
}

func validateSectorName(name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return shared.NewDomainError("INVALID_SECTOR_NAME", "Sector name cannot be empty")
	}
	if len(name) > 200 {
		return shared.NewDomainError("INVALID_SECTOR_NAME", "Sector name cannot exceed 200 characters")
	}
	return nil
}

func validateSectorCode(code string) error {
	code = strings.TrimSpace(code)
	if code == "" {
		return shared.NewDomainError("INVALID_SECTOR_CODE", "Sector code cannot be empty")
	}
	if len(code) > 50 {
		return shared.NewDomainError("INVALID_SECTOR_CODE", "Sector code cannot exceed 50 characters")
	}
	for _, r := range code {
		if !((r >= 'A' && r <= 'Z') || (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') || r == '_' || r == '-') {
			return shared.NewDomainError("INVALID_SECTOR_CODE", "Sector code can only contain letters, numbers, underscores, and hyphens")
		}
	}
	return nil
}
