package identity

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/orgstruct/backend/internal/domain/identity"
	"github.com/orgstruct/backend/internal/domain/shared"
	"go.uber.org/zap"
)

// RoleService handles role management operations
type RoleService struct {
	roleRepo identity.RoleRepository
	logger   *zap.Logger
}

// NewRoleService creates a new role service
func NewRoleService(roleRepo identity.RoleRepository, logger *zap.Logger) *RoleService {
	return &RoleService{
		roleRepo: roleRepo,
		logger:   logger,
	}
}

// CreateRoleInput contains input for creating a role
type CreateRoleInput struct {
	Code         string
	Name         string
	Description  string
	Capabilities []string // Capability codes like "work:create"
}

// RoleDTO represents role data transfer object
type RoleDTO struct {
	ID           uuid.UUID `json:"id"`
	Code         string    `json:"code"`
	Name         string    `json:"name"`
	Description  string    `json:"description,omitempty"`
	IsSystemRole bool      `json:"is_system_role"`
	IsEnabled    bool      `json:"is_enabled"`
	Capabilities []string  `json:"capabilities"`
	UserCount    int64     `json:"user_count,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// RoleListResult represents paginated role list result
type RoleListResult struct {
	Roles      []RoleDTO `json:"roles"`
	Total      int64     `json:"total"`
	Page       int       `json:"page"`
	PageSize   int       `json:"page_size"`
	TotalPages int       `json:"total_pages"`
}

// Create creates a new role
func (s *RoleService) Create(ctx context.Context, input CreateRoleInput) (*RoleDTO, error) {
	s.logger.Info("Creating new role", zap.String("code", input.Code))

	// Check if code already exists
	exists, err := s.roleRepo.ExistsByCode(ctx, input.Code)
	if err != nil {
		s.logger.Error("Failed to check role code existence", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to check role code availability")
	}
	if exists {
		return nil, shared.NewDomainError("ROLE_CODE_EXISTS", "Role code already exists")
	}

	// Create role
	role, err := identity.NewRole(input.Code, input.Name)
	if err != nil {
		return nil, err
	}

	// Set optional fields
	if input.Description != "" {
		role.SetDescription(input.Description)
	}

	// Grant capabilities; unknown codes abort before anything is persisted
	caps, err := identity.ParseCapabilities(input.Capabilities)
	if err != nil {
		return nil, err
	}
	if err := role.SetCapabilities(caps); err != nil {
		return nil, err
	}

	// Save role
	if err := s.roleRepo.Create(ctx, role); err != nil {
		s.logger.Error("Failed to create role", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to create role")
	}

	// Save capabilities
	if len(role.Capabilities) > 0 {
		if err := s.roleRepo.SaveCapabilities(ctx, role); err != nil {
			s.logger.Error("Failed to save role capabilities", zap.Error(err))
			// Delete the role if capability assignment failed
			_ = s.roleRepo.Delete(ctx, role.ID)
			return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to save role capabilities")
		}
	}

	s.logger.Info("Role created successfully",
		zap.String("role_id", role.ID.String()),
		zap.String("code", role.Code))

	return toRoleDTO(role), nil
}

// GetByID retrieves a role by ID
func (s *RoleService) GetByID(ctx context.Context, id uuid.UUID) (*RoleDTO, error) {
	role, err := s.roleRepo.FindByID(ctx, id)
	if err != nil {
		if err == shared.ErrNotFound {
			return nil, shared.NewDomainError("ROLE_NOT_FOUND", "Role not found")
		}
		s.logger.Error("Failed to find role", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to find role")
	}

	// Load capabilities
	if err := s.roleRepo.LoadCapabilities(ctx, role); err != nil {
		s.logger.Error("Failed to load role capabilities", zap.Error(err))
	}

	dto := toRoleDTO(role)

	// Get user count
	userCount, err := s.roleRepo.CountUsersWithRole(ctx, id)
	if err == nil {
		dto.UserCount = userCount
	}

	return dto, nil
}

// List retrieves a paginated list of roles
func (s *RoleService) List(ctx context.Context, filter *identity.RoleFilter) (*RoleListResult, error) {
	roles, err := s.roleRepo.FindAll(ctx, filter)
	if err != nil {
		s.logger.Error("Failed to list roles", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to list roles")
	}

	total, err := s.roleRepo.Count(ctx, filter)
	if err != nil {
		s.logger.Error("Failed to count roles", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to count roles")
	}

	// Load capabilities for each role
	for _, role := range roles {
		if err := s.roleRepo.LoadCapabilities(ctx, role); err != nil {
			s.logger.Error("Failed to load role capabilities",
				zap.String("role_id", role.ID.String()),
				zap.Error(err))
		}
	}

	// Calculate pagination
	pageSize := 20
	page := 1
	if filter != nil {
		if filter.Limit > 0 {
			pageSize = filter.Limit
		}
		if filter.Page > 0 {
			page = filter.Page
		}
	}

	totalPages := int(total) / pageSize
	if int(total)%pageSize > 0 {
		totalPages++
	}

	roleDTOs := make([]RoleDTO, len(roles))
	for i, role := range roles {
		dto := toRoleDTO(role)
		// Get user count for each role
		userCount, err := s.roleRepo.CountUsersWithRole(ctx, role.ID)
		if err == nil {
			dto.UserCount = userCount
		}
		roleDTOs[i] = *dto
	}

	return &RoleListResult{
		Roles:      roleDTOs,
		Total:      total,
		Page:       page,
		PageSize:   pageSize,
		TotalPages: totalPages,
	}, nil
}

// SetCapabilities replaces the role's capability set
func (s *RoleService) SetCapabilities(ctx context.Context, roleID uuid.UUID, capabilityCodes []string) (*RoleDTO, error) {
	role, err := s.roleRepo.FindByID(ctx, roleID)
	if err != nil {
		if err == shared.ErrNotFound {
			return nil, shared.NewDomainError("ROLE_NOT_FOUND", "Role not found")
		}
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to find role")
	}

	// Parse capability codes; unknown codes are rejected wholesale
	caps, err := identity.ParseCapabilities(capabilityCodes)
	if err != nil {
		return nil, err
	}

	// Set capabilities
	if err := role.SetCapabilities(caps); err != nil {
		return nil, err
	}

	// Save capabilities
	if err := s.roleRepo.SaveCapabilities(ctx, role); err != nil {
		s.logger.Error("Failed to save role capabilities", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to save capabilities")
	}

	// Update role version
	if err := s.roleRepo.Update(ctx, role); err != nil {
		s.logger.Error("Failed to update role", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to update role")
	}

	s.logger.Info("Role capabilities updated",
		zap.String("role_id", roleID.String()),
		zap.Int("capability_count", len(caps)))

	return toRoleDTO(role), nil
}

// Count returns the total number of roles
func (s *RoleService) Count(ctx context.Context) (int64, error) {
	return s.roleRepo.Count(ctx, nil)
}

// toRoleDTO converts domain Role to RoleDTO
func toRoleDTO(role *identity.Role) *RoleDTO {
	return &RoleDTO{
		ID:           role.ID,
		Code:         role.Code,
		Name:         role.Name,
		Description:  role.Description,
		IsSystemRole: role.IsSystemRole,
		IsEnabled:    role.IsEnabled,
		Capabilities: role.CapabilityCodes(),
		CreatedAt:    role.CreatedAt,
		UpdatedAt:    role.UpdatedAt,
	}
}
