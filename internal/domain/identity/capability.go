package identity

import (
	"strings"

	"github.com/orgstruct/backend/internal/domain/shared"
)

// Capability is a typed authorization key in "resource:action" form.
// The set of valid capabilities is closed: values are constructed only
// from the constants below or through ParseCapability, never from free
// request strings.
type Capability string

const (
	CapWorkCreate       Capability = "work:create"
	CapWorkView         Capability = "work:view"
	CapWorkUpdate       Capability = "work:update"
	CapZoneAdminCreate  Capability = "zone_admin:create"
	CapZoneAdminView    Capability = "zone_admin:view"
	CapZoneAdminDelete  Capability = "zone_admin:delete"
	CapWeeklyTaskCreate Capability = "weekly_task:create"
	CapWeeklyTaskView   Capability = "weekly_task:view"
	CapWeeklyTaskUpdate Capability = "weekly_task:update"
	CapGroupCreate      Capability = "group:create"
	CapGroupView        Capability = "group:view"
	CapSectorCreate     Capability = "sector:create"
	CapSectorView       Capability = "sector:view"
)

// AllCapabilities returns every registered capability.
func AllCapabilities() []Capability {
	return []Capability{
		CapWorkCreate,
		CapWorkView,
		CapWorkUpdate,
		CapZoneAdminCreate,
		CapZoneAdminView,
		CapZoneAdminDelete,
		CapWeeklyTaskCreate,
		CapWeeklyTaskView,
		CapWeeklyTaskUpdate,
		CapGroupCreate,
		CapGroupView,
		CapSectorCreate,
		CapSectorView,
	}
}

var capabilityRegistry = func() map[Capability]struct{} {
	m := make(map[Capability]struct{})
	for _, c := range AllCapabilities() {
		m[c] = struct{}{}
	}
	return m
}()

// ParseCapability converts a stored or transmitted code into a Capability.
// Unknown codes are rejected so that a typo in a role row or a token can
// never grant access.
func ParseCapability(code string) (Capability, error) {
	c := Capability(strings.ToLower(strings.TrimSpace(code)))
	if _, ok := capabilityRegistry[c]; !ok {
		return "", shared.NewDomainError("UNKNOWN_CAPABILITY", "Unknown capability code: "+code)
	}
	return c, nil
}

// ParseCapabilities converts a list of codes, rejecting the first unknown one.
func ParseCapabilities(codes []string) ([]Capability, error) {
	caps := make([]Capability, 0, len(codes))
	for _, code := range codes {
		c, err := ParseCapability(code)
		if err != nil {
			return nil, err
		}
		caps = append(caps, c)
	}
	return caps, nil
}

// IsValid reports whether the capability is one of the registered values.
func (c Capability) IsValid() bool {
	_, ok := capabilityRegistry[c]
	return ok
}

// String returns the capability code.
func (c Capability) String() string {
	return string(c)
}

// Resource returns the resource part of the capability code.
func (c Capability) Resource() string {
	if i := strings.IndexByte(string(c), ':'); i >= 0 {
		return string(c)[:i]
	}
	return string(c)
}

// Action returns the action part of the capability code.
func (c Capability) Action() string {
	if i := strings.IndexByte(string(c), ':'); i >= 0 {
		return string(c)[i+1:]
	}
	return ""
}
