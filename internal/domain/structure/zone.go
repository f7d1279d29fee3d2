package structure

import (
	"regexp"
	"strings"
	"time"

	"github.com/orgstruct/backend/internal/domain/shared"
)

// Zone represents a geographic or administrative zone
// It is the aggregate root for zone-related operations
type Zone struct {
	shared.BaseAggregateRoot
	Name         string `gorm:"type:varchar(200);not null;uniqueIndex"`
	City         string `gorm:"type:varchar(100)"`
	ContactEmail string `gorm:"type:varchar(200)"`
	ContactPhone string `gorm:"type:varchar(50)"`
}

// TableName returns the table name for GORM
func (Zone) TableName() string {
	return "zones"
}

// NewZone creates a new zone with required fields
func NewZone(name string) (*Zone, error) {
	if err := validateZoneName(name); err != nil {
		return nil, err
	}

	zone := &Zone{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		Name:              strings.TrimSpace(name),
	}

	zone.AddDomainEvent(NewZoneCreatedEvent(zone))

	return zone, nil
}

// SetCity sets the zone's city
func (z *Zone) SetCity(city string) error {
	if city != "" && len(city) > 100 {
		return shared.NewDomainError("INVALID_CITY", "City cannot exceed 100 characters")
	}

	z.City = strings.TrimSpace(city)
	z.UpdatedAt = time.Now()
	z.IncrementVersion()

	return nil
}

// SetContactEmail sets the zone's contact email
func (z *Zone) SetContactEmail(email string) error {
	if email != "" {
		if err := validateContactEmail(email); err != nil {
			return err
		}
		email = strings.ToLower(strings.TrimSpace(email))
	}

	z.ContactEmail = email
	z.UpdatedAt = time.Now()
	z.IncrementVersion()

	return nil
}

// SetContactPhone sets the zone's contact phone
func (z *Zone) SetContactPhone(phone string) error {
	if phone != "" && len(phone) > 50 {
		return shared.NewDomainError("INVALID_PHONE", "Phone cannot exceed 50 characters")
	}

	z.ContactPhone = strings.TrimSpace(phone)
	z.UpdatedAt = time.Now()
	z.IncrementVersion()

	return nil
}

// Update updates the zone's basic information
func (z *Zone) Update(name, city string) error {
	if err := validateZoneName(name); err != nil {
		return err
	}
	if city != "" && len(city) > 100 {
		return shared.NewDomainError("INVALID_CITY", "City cannot exceed 100 characters")
	}

	z.Name = strings.TrimSpace(name)
	z.City = strings.TrimSpace(city)
	z.UpdatedAt = time.Now()
	z.IncrementVersion()

	z.AddDomainEvent(NewZoneUpdatedEvent(z))

	return nil
}

func validateZoneName(name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return shared.NewDomainError("INVALID_ZONE_NAME", "Zone name cannot be empty")
	}
	if len(name) > 200 {
		return shared.NewDomainError("INVALID_ZONE_NAME", "Zone name cannot exceed 200 characters")
	}
	return nil
}

func validateContactEmail(email string) error {
	if len(email) > 200 {
		return shared.NewDomainError("INVALID_EMAIL", "Email cannot exceed 200 characters")
	}

	emailRegex := regexp.MustCompile(`^[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}$`)
	if !emailRegex.MatchString(email) {
		return shared.NewDomainError("INVALID_EMAIL", "Invalid email format")
	}

	return nil
}
