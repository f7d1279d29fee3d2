package structure

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/orgstruct/backend/internal/domain/shared"
)

// Group represents a working group inside a zone
// It is the aggregate root for group-related operations
type Group struct {
	shared.BaseAggregateRoot
	Name        string    `gorm:"type:varchar(200);not null;index"`
	ZoneID      uuid.UUID `gorm:"type:uuid;not null;index"`
	Description string    `gorm:"type:text"`
}

// TableName returns the table name for GORM
func (Group) TableName() string {
	return "groups"
}

// NewGroup creates a new group with required fields
func NewGroup(name string, zoneID uuid.UUID) (*Group, error) {
	if err := validateGroupName(name); err != nil {
		return nil, err
	}
	if zoneID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_ZONE_ID", "Zone ID cannot be empty")
	}

	group := &Group{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		Name:              strings.TrimSpace(name),
		ZoneID:            zoneID,
	}

	group.AddDomainEvent(NewGroupCreatedEvent(group))

	return group, nil
}

// SetDescription sets the group description
func (g *Group) SetDescription(description string) {
	g.Description = description
	g.UpdatedAt = time.Now()
	g.IncrementVersion()
}

// SetName sets the group name
func (g *Group) SetName(name string) error {
	if err := validateGroupName(name); err != nil {
		return err
	}

	g.Name = strings.TrimSpace(name)
	g.UpdatedAt = time.Now()
	g.IncrementVersion()

	return nil
}

func validateGroupName(name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return shared.NewDomainError("INVALID_GROUP_NAME", "Group name cannot be empty")
	}
	if len(name) > 200 {
		return shared.NewDomainError("INVALID_GROUP_NAME", "Group name cannot exceed 200 characters")
	}
	return nil
}
