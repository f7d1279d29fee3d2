package identity

import (
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/orgstruct/backend/internal/domain/shared"
)

// System role codes seeded at install time. System roles cannot be deleted.
const (
	RoleCodeAdmin     = "ADMIN"
	RoleCodeZoneAdmin = "ZONE_ADMIN"
	RoleCodeGroupLead = "GROUP_LEAD"
	RoleCodeWorker    = "WORKER"
)

// Role represents a role in the capability-based authorization model.
// It is the aggregate root for role-related operations.
type Role struct {
	shared.BaseAggregateRoot
	Code         string       `gorm:"type:varchar(50);not null;uniqueIndex"`
	Name         string       `gorm:"type:varchar(100);not null"`
	Description  string       `gorm:"type:text"`
	IsSystemRole bool         `gorm:"not null;default:false"`
	IsEnabled    bool         `gorm:"not null;default:true"`
	Capabilities []Capability `gorm:"-"` // Stored in role_capabilities, loaded by repository
}

// TableName returns the table name for GORM
func (Role) TableName() string {
	return "roles"
}

// RoleCapability is the join row binding a capability to a role.
type RoleCapability struct {
	RoleID     uuid.UUID  `gorm:"type:uuid;primaryKey"`
	Capability Capability `gorm:"type:varchar(100);primaryKey"`
	CreatedAt  time.Time  `gorm:"not null"`
}

// TableName returns the table name for GORM
func (RoleCapability) TableName() string {
	return "role_capabilities"
}

// NewRole creates a new role with required fields
func NewRole(code, name string) (*Role, error) {
	if err := validateRoleCode(code); err != nil {
		return nil, err
	}
	if err := validateRoleName(name); err != nil {
		return nil, err
	}

	role := &Role{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		Code:              strings.ToUpper(strings.TrimSpace(code)),
		Name:              strings.TrimSpace(name),
		IsSystemRole:      false,
		IsEnabled:         true,
		Capabilities:      make([]Capability, 0),
	}

	role.AddDomainEvent(NewRoleCreatedEvent(role))

	return role, nil
}

// NewSystemRole creates a new system role (cannot be deleted)
func NewSystemRole(code, name string) (*Role, error) {
	role, err := NewRole(code, name)
	if err != nil {
		return nil, err
	}

	role.IsSystemRole = true
	return role, nil
}

// SetName sets the role name
func (r *Role) SetName(name string) error {
	if err := validateRoleName(name); err != nil {
		return err
	}

	r.Name = strings.TrimSpace(name)
	r.UpdatedAt = time.Now()
	r.IncrementVersion()

	return nil
}

// SetDescription sets the role description
func (r *Role) SetDescription(description string) {
	r.Description = description
	r.UpdatedAt = time.Now()
	r.IncrementVersion()
}

// Update updates the role's name and description
func (r *Role) Update(name, description string) error {
	if err := validateRoleName(name); err != nil {
		return err
	}

	r.Name = strings.TrimSpace(name)
	r.Description = description
	r.UpdatedAt = time.Now()
	r.IncrementVersion()

	r.AddDomainEvent(NewRoleUpdatedEvent(r))

	return nil
}

// Enable enables the role
func (r *Role) Enable() error {
	if r.IsEnabled {
		return shared.NewDomainError("ALREADY_ENABLED", "Role is already enabled")
	}

	r.IsEnabled = true
	r.UpdatedAt = time.Now()
	r.IncrementVersion()

	r.AddDomainEvent(NewRoleEnabledEvent(r))

	return nil
}

// Disable disables the role
func (r *Role) Disable() error {
	if !r.IsEnabled {
		return shared.NewDomainError("ALREADY_DISABLED", "Role is already disabled")
	}

	r.IsEnabled = false
	r.UpdatedAt = time.Now()
	r.IncrementVersion()

	r.AddDomainEvent(NewRoleDisabledEvent(r))

	return nil
}

// CanDelete returns true if the role can be deleted
// System roles cannot be deleted
func (r *Role) CanDelete() bool {
	return !r.IsSystemRole
}

// Grant grants a capability to the role
func (r *Role) Grant(c Capability) error {
	if !c.IsValid() {
		return shared.NewDomainError("UNKNOWN_CAPABILITY", "Cannot grant unknown capability: "+c.String())
	}

	for _, existing := range r.Capabilities {
		if existing == c {
			return shared.NewDomainError("CAPABILITY_ALREADY_GRANTED", "Role already has this capability")
		}
	}

	r.Capabilities = append(r.Capabilities, c)
	r.UpdatedAt = time.Now()
	r.IncrementVersion()

	r.AddDomainEvent(NewRoleCapabilityGrantedEvent(r, c))

	return nil
}

// Revoke revokes a capability from the role
func (r *Role) Revoke(c Capability) error {
	found := false
	remaining := make([]Capability, 0, len(r.Capabilities))
	for _, existing := range r.Capabilities {
		if existing != c {
			remaining = append(remaining, existing)
		} else {
			found = true
		}
	}

	if !found {
		return shared.NewDomainError("CAPABILITY_NOT_GRANTED", "Role does not have this capability")
	}

	r.Capabilities = remaining
	r.UpdatedAt = time.Now()
	r.IncrementVersion()

	r.AddDomainEvent(NewRoleCapabilityRevokedEvent(r, c))

	return nil
}

// SetCapabilities replaces the role's capability set.
// Unknown capabilities are rejected before any change is applied.
func (r *Role) SetCapabilities(caps []Capability) error {
	for _, c := range caps {
		if !c.IsValid() {
			return shared.NewDomainError("UNKNOWN_CAPABILITY", "Cannot grant unknown capability: "+c.String())
		}
	}

	seen := make(map[Capability]bool)
	unique := make([]Capability, 0, len(caps))
	for _, c := range caps {
		if !seen[c] {
			seen[c] = true
			unique = append(unique, c)
		}
	}

	r.Capabilities = unique
	r.UpdatedAt = time.Now()
	r.IncrementVersion()

	return nil
}

// HasCapability checks whether the role carries the given capability
func (r *Role) HasCapability(c Capability) bool {
	for _, existing := range r.Capabilities {
		if existing == c {
			return true
		}
	}
	return false
}

// CapabilityCodes returns the capability codes as strings (for claims/storage)
func (r *Role) CapabilityCodes() []string {
	codes := make([]string, len(r.Capabilities))
	for i, c := range r.Capabilities {
		codes[i] = c.String()
	}
	return codes
}

// DefaultCapabilitiesForRole returns the capability set a seeded system role
// starts with. Unknown codes return an empty set.
func DefaultCapabilitiesForRole(code string) []Capability {
	switch code {
	case RoleCodeAdmin:
		return AllCapabilities()
	case RoleCodeZoneAdmin:
		return []Capability{
			CapWorkCreate, CapWorkView, CapWorkUpdate,
			CapZoneAdminView,
			CapWeeklyTaskCreate, CapWeeklyTaskView, CapWeeklyTaskUpdate,
			CapGroupCreate, CapGroupView,
			CapSectorCreate, CapSectorView,
		}
	case RoleCodeGroupLead:
		return []Capability{
			CapWorkView,
			CapWeeklyTaskView, CapWeeklyTaskUpdate,
			CapGroupView, CapSectorView,
		}
	case RoleCodeWorker:
		return []Capability{
			CapWorkView, CapWorkUpdate,
			CapWeeklyTaskView,
		}
	default:
		return []Capability{}
	}
}

func validateRoleCode(code string) error {
	code = strings.TrimSpace(code)
	if code == "" {
		return shared.NewDomainError("INVALID_ROLE_CODE", "Role code cannot be empty")
	}
	if len(code) > 50 {
		return shared.NewDomainError("INVALID_ROLE_CODE", "Role code cannot exceed 50 characters")
	}

	codeRegex := regexp.MustCompile(`^[a-zA-Z0-9_]+$`)
	if !codeRegex.MatchString(code) {
		return shared.NewDomainError("INVALID_ROLE_CODE", "Role code can only contain letters, numbers, and underscores")
	}

	return nil
}

func validateRoleName(name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return shared.NewDomainError("INVALID_ROLE_NAME", "Role name cannot be empty")
	}
	if len(name) > 100 {
		return shared.NewDomainError("INVALID_ROLE_NAME", "Role name cannot exceed 100 characters")
	}
	return nil
}
