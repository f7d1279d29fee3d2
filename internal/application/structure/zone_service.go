package structure

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/orgstruct/backend/internal/domain/identity"
	"github.com/orgstruct/backend/internal/domain/shared"
	"github.com/orgstruct/backend/internal/domain/structure"
	"go.uber.org/zap"
)

// BatchWriter persists a structure aggregate together with its user
// accounts in a single transaction. The implementation lives in the
// persistence layer; commit and rollback cover the aggregate row, the
// user rows, and the user-role join rows as one unit.
type BatchWriter interface {
	CreateZoneWithAdmins(ctx context.Context, zone *structure.Zone, admins []*identity.User) error
	CreateGroupWithMembers(ctx context.Context, group *structure.Group, members []*identity.User) error
}

// ZoneService handles zone management operations
type ZoneService struct {
	zoneRepo       structure.ZoneRepository
	userRepo       identity.UserRepository
	roleRepo       identity.RoleRepository
	batchWriter    BatchWriter
	eventPublisher shared.EventPublisher
	logger         *zap.Logger
}

// NewZoneService creates a new zone service
func NewZoneService(
	zoneRepo structure.ZoneRepository,
	userRepo identity.UserRepository,
	roleRepo identity.RoleRepository,
	batchWriter BatchWriter,
	logger *zap.Logger,
) *ZoneService {
	return &ZoneService{
		zoneRepo:    zoneRepo,
		userRepo:    userRepo,
		roleRepo:    roleRepo,
		batchWriter: batchWriter,
		logger:      logger,
	}
}

// SetEventPublisher sets the event publisher for domain events
func (s *ZoneService) SetEventPublisher(publisher shared.EventPublisher) {
	s.eventPublisher = publisher
}

// BatchUserInput is one user account in a zone or group creation batch
type BatchUserInput struct {
	Username    string
	Password    string
	Email       string
	Phone       string
	DisplayName string
}

// CreateZoneInput contains input for creating a zone with its admins
type CreateZoneInput struct {
	Name         string
	City         string
	ContactEmail string
	ContactPhone string
	Admins       []BatchUserInput
}

// UserSummaryDTO is the compact user shape embedded in zone and group views
type UserSummaryDTO struct {
	ID          uuid.UUID `json:"id"`
	Username    string    `json:"username"`
	DisplayName string    `json:"display_name"`
	Email       string    `json:"email,omitempty"`
	Status      string    `json:"status"`
}

// ZoneDTO represents zone data transfer object
type ZoneDTO struct {
	ID           uuid.UUID        `json:"id"`
	Name         string           `json:"name"`
	City         string           `json:"city,omitempty"`
	ContactEmail string           `json:"contact_email,omitempty"`
	ContactPhone string           `json:"contact_phone,omitempty"`
	Admins       []UserSummaryDTO `json:"admins"`
	CreatedAt    time.Time        `json:"created_at"`
	UpdatedAt    time.Time        `json:"updated_at"`
}

// ZoneListResult represents paginated zone list result
type ZoneListResult struct {
	Zones      []ZoneDTO `json:"zones"`
	Total      int64     `json:"total"`
	Page       int       `json:"page"`
	PageSize   int       `json:"page_size"`
	TotalPages int       `json:"total_pages"`
}

// CreateWithAdmins creates a zone and its admin accounts in one transaction.
// Any invalid admin aborts the whole batch: a zone must never appear without
// its admins, and a rejected admin must never leave a half-created zone.
func (s *ZoneService) CreateWithAdmins(ctx context.Context, input CreateZoneInput) (*ZoneDTO, error) {
	s.logger.Info("Creating new zone",
		zap.String("name", input.Name),
		zap.Int("admin_count", len(input.Admins)))

	if len(input.Admins) == 0 {
		return nil, shared.NewDomainError("INVALID_ADMINS", "Zone creation requires at least one admin account")
	}

	exists, err := s.zoneRepo.ExistsByName(ctx, input.Name)
	if err != nil {
		s.logger.Error("Failed to check zone name existence", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to check zone name availability")
	}
	if exists {
		return nil, shared.NewDomainError("ZONE_EXISTS", "Zone name already exists")
	}

	zone, err := structure.NewZone(input.Name)
	if err != nil {
		return nil, err
	}

	if input.City != "" {
		if err := zone.SetCity(input.City); err != nil {
			return nil, err
		}
	}
	if input.ContactEmail != "" {
		if err := zone.SetContactEmail(input.ContactEmail); err != nil {
			return nil, err
		}
	}
	if input.ContactPhone != "" {
		if err := zone.SetContactPhone(input.ContactPhone); err != nil {
			return nil, err
		}
	}

	adminRole, err := s.roleRepo.FindByCode(ctx, identity.RoleCodeZoneAdmin)
	if err != nil {
		s.logger.Error("Failed to load zone admin role", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Zone admin role is not provisioned")
	}

	admins, err := s.buildAdminUsers(ctx, zone, adminRole, input.Admins)
	if err != nil {
		return nil, err
	}

	if err := s.batchWriter.CreateZoneWithAdmins(ctx, zone, admins); err != nil {
		s.logger.Error("Failed to create zone batch", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to create zone")
	}

	s.publishEvents(ctx, zone)
	for _, admin := range admins {
		s.publishEvents(ctx, admin)
	}

	s.logger.Info("Zone created",
		zap.String("zone_id", zone.ID.String()),
		zap.Int("admin_count", len(admins)))

	return toZoneDTO(zone, admins), nil
}

// buildAdminUsers validates and constructs the admin accounts of a zone
// batch. The first invalid account aborts with its field error.
func (s *ZoneService) buildAdminUsers(ctx context.Context, zone *structure.Zone, adminRole *identity.Role, inputs []BatchUserInput) ([]*identity.User, error) {
	seen := make(map[string]bool)
	admins := make([]*identity.User, 0, len(inputs))

	for _, in := range inputs {
		username := strings.ToLower(strings.TrimSpace(in.Username))
		if seen[username] {
			return nil, shared.NewDomainError("DUPLICATE_USERNAME", "Duplicate username in admin batch: "+in.Username)
		}
		seen[username] = true

		exists, err := s.userRepo.ExistsByUsername(ctx, in.Username)
		if err != nil {
			s.logger.Error("Failed to check username existence", zap.Error(err))
			return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to check username availability")
		}
		if exists {
			return nil, shared.NewDomainError("USERNAME_EXISTS", "Username already exists: "+in.Username)
		}

		user, err := identity.NewActiveUser(in.Username, in.Password)
		if err != nil {
			return nil, err
		}
		if in.Email != "" {
			if err := user.SetEmail(in.Email); err != nil {
				return nil, err
			}
		}
		if in.Phone != "" {
			if err := user.SetPhone(in.Phone); err != nil {
				return nil, err
			}
		}
		if in.DisplayName != "" {
			if err := user.SetDisplayName(in.DisplayName); err != nil {
				return nil, err
			}
		}
		if err := user.AssignToZone(&zone.ID); err != nil {
			return nil, err
		}
		if err := user.AssignRole(adminRole.ID); err != nil {
			return nil, err
		}

		admins = append(admins, user)
	}

	return admins, nil
}

// List retrieves a paginated list of zones with their admin summaries
func (s *ZoneService) List(ctx context.Context, filter shared.Filter) (*ZoneListResult, error) {
	if filter.Page <= 0 {
		filter.Page = 1
	}
	if filter.PageSize <= 0 {
		filter.PageSize = 20
	}

	zones, total, err := s.zoneRepo.FindAll(ctx, filter)
	if err != nil {
		s.logger.Error("Failed to list zones", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to list zones")
	}

	zoneDTOs := make([]ZoneDTO, len(zones))
	for i := range zones {
		admins, err := s.userRepo.FindByZoneID(ctx, zones[i].ID)
		if err != nil {
			s.logger.Error("Failed to load zone admins",
				zap.String("zone_id", zones[i].ID.String()),
				zap.Error(err))
		}
		zoneDTOs[i] = *toZoneDTO(&zones[i], admins)
	}

	totalPages := int(total) / filter.PageSize
	if int(total)%filter.PageSize > 0 {
		totalPages++
	}

	return &ZoneListResult{
		Zones:      zoneDTOs,
		Total:      total,
		Page:       filter.Page,
		PageSize:   filter.PageSize,
		TotalPages: totalPages,
	}, nil
}

// GetByAdminID resolves the zone administered by the given user.
// Absent users and users without a zone placement both read as "no zone".
func (s *ZoneService) GetByAdminID(ctx context.Context, zoneUserID uuid.UUID) (*ZoneDTO, error) {
	user, err := s.userRepo.FindByID(ctx, zoneUserID)
	if err != nil {
		if err == shared.ErrNotFound {
			return nil, shared.NewDomainError("ZONE_NOT_FOUND", "No zone is administered by this user")
		}
		s.logger.Error("Failed to find user", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to find user")
	}

	if user.ZoneID == nil {
		return nil, shared.NewDomainError("ZONE_NOT_FOUND", "No zone is administered by this user")
	}

	zone, err := s.zoneRepo.FindByID(ctx, *user.ZoneID)
	if err != nil {
		if err == shared.ErrNotFound {
			return nil, shared.NewDomainError("ZONE_NOT_FOUND", "No zone is administered by this user")
		}
		s.logger.Error("Failed to find zone", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to find zone")
	}

	admins, err := s.userRepo.FindByZoneID(ctx, zone.ID)
	if err != nil {
		s.logger.Error("Failed to load zone admins",
			zap.String("zone_id", zone.ID.String()),
			zap.Error(err))
	}

	return toZoneDTO(zone, admins), nil
}

// RemoveAdmin deletes a zone admin account. The zone itself persists;
// it may still own groups and sectors.
func (s *ZoneService) RemoveAdmin(ctx context.Context, zoneUserID uuid.UUID) error {
	user, err := s.userRepo.FindByID(ctx, zoneUserID)
	if err != nil {
		if err == shared.ErrNotFound {
			return shared.NewDomainError("ZONE_ADMIN_NOT_FOUND", "Zone admin not found")
		}
		s.logger.Error("Failed to find user", zap.Error(err))
		return shared.NewDomainError("INTERNAL_ERROR", "Failed to find user")
	}

	if user.ZoneID == nil {
		return shared.NewDomainError("ZONE_ADMIN_NOT_FOUND", "Zone admin not found")
	}

	if err := s.userRepo.Delete(ctx, user.ID); err != nil {
		s.logger.Error("Failed to delete zone admin", zap.Error(err))
		return shared.NewDomainError("INTERNAL_ERROR", "Failed to delete zone admin")
	}

	s.logger.Info("Zone admin removed",
		zap.String("user_id", user.ID.String()),
		zap.String("zone_id", user.ZoneID.String()))

	return nil
}

// Count returns the total number of zones
func (s *ZoneService) Count(ctx context.Context) (int64, error) {
	return s.zoneRepo.Count(ctx)
}

// publishEvents publishes pending domain events from an aggregate
func (s *ZoneService) publishEvents(ctx context.Context, agg shared.AggregateRoot) {
	if s.eventPublisher == nil {
		return
	}

	events := agg.GetDomainEvents()
	if len(events) == 0 {
		return
	}

	_ = s.eventPublisher.Publish(ctx, events...)
	agg.ClearDomainEvents()
}

// toZoneDTO converts domain Zone to ZoneDTO
func toZoneDTO(zone *structure.Zone, admins []*identity.User) *ZoneDTO {
	summaries := make([]UserSummaryDTO, len(admins))
	for i, admin := range admins {
		summaries[i] = toUserSummaryDTO(admin)
	}

	return &ZoneDTO{
		ID:           zone.ID,
		Name:         zone.Name,
		City:         zone.City,
		ContactEmail: zone.ContactEmail,
		ContactPhone: zone.ContactPhone,
		Admins:       summaries,
		CreatedAt:    zone.CreatedAt,
		UpdatedAt:    zone.UpdatedAt,
	}
}

// toUserSummaryDTO converts a user to the compact summary shape
func toUserSummaryDTO(user *identity.User) UserSummaryDTO {
	return UserSummaryDTO{
		ID:          user.ID,
		Username:    user.Username,
		DisplayName: user.GetDisplayNameOrUsername(),
		Email:       user.Email,
		Status:      string(user.Status),
	}
}
