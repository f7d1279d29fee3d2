package identity

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/orgstruct/backend/internal/domain/identity"
	"github.com/orgstruct/backend/internal/domain/shared"
	"go.uber.org/zap"
)

// UserService provides read access to user accounts. Account creation
// happens through the structure services (zone admin and group member
// batches), so this service only lists and resolves users.
type UserService struct {
	userRepo identity.UserRepository
	logger   *zap.Logger
}

// NewUserService creates a new user service
func NewUserService(userRepo identity.UserRepository, logger *zap.Logger) *UserService {
	return &UserService{
		userRepo: userRepo,
		logger:   logger,
	}
}

// ListUsersInput contains parameters for listing users
type ListUsersInput struct {
	Keyword   string
	Status    string
	RoleID    *uuid.UUID
	ZoneID    *uuid.UUID
	GroupID   *uuid.UUID
	Page      int
	PageSize  int
	SortBy    string
	SortOrder string
}

// UserDTO is the user representation returned by the service
type UserDTO struct {
	ID          uuid.UUID   `json:"id"`
	Username    string      `json:"username"`
	Email       string      `json:"email,omitempty"`
	Phone       string      `json:"phone,omitempty"`
	DisplayName string      `json:"display_name,omitempty"`
	Status      string      `json:"status"`
	ZoneID      *uuid.UUID  `json:"zone_id,omitempty"`
	GroupID     *uuid.UUID  `json:"group_id,omitempty"`
	RoleIDs     []uuid.UUID `json:"role_ids"`
	LastLoginAt *time.Time  `json:"last_login_at,omitempty"`
	CreatedAt   time.Time   `json:"created_at"`
	UpdatedAt   time.Time   `json:"updated_at"`
}

// UserListResult represents paginated user list result
type UserListResult struct {
	Users      []UserDTO `json:"users"`
	Total      int64     `json:"total"`
	Page       int       `json:"page"`
	PageSize   int       `json:"page_size"`
	TotalPages int       `json:"total_pages"`
}

// List returns users matching the filter
func (s *UserService) List(ctx context.Context, input ListUsersInput) (*UserListResult, error) {
	filter := identity.NewUserFilter()

	if input.Keyword != "" {
		filter = filter.WithKeyword(input.Keyword)
	}
	if input.Status != "" {
		filter = filter.WithStatus(identity.UserStatus(input.Status))
	}
	if input.RoleID != nil {
		filter = filter.WithRoleID(*input.RoleID)
	}
	if input.ZoneID != nil {
		filter = filter.WithZoneID(*input.ZoneID)
	}
	if input.GroupID != nil {
		filter = filter.WithGroupID(*input.GroupID)
	}
	if input.Page > 0 && input.PageSize > 0 {
		filter = filter.WithPagination(input.Page, input.PageSize)
	}
	if input.SortBy != "" {
		filter = filter.WithSorting(input.SortBy, input.SortOrder)
	}

	users, total, err := s.userRepo.FindAll(ctx, filter)
	if err != nil {
		s.logger.Error("Failed to list users", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to list users")
	}

	dtos := make([]UserDTO, len(users))
	for i, user := range users {
		if err := s.userRepo.LoadUserRoles(ctx, user); err != nil {
			s.logger.Warn("Failed to load roles for user",
				zap.String("user_id", user.ID.String()),
				zap.Error(err))
		}
		dtos[i] = toUserDTO(user)
	}

	totalPages := int(total) / filter.Limit()
	if int(total)%filter.Limit() > 0 {
		totalPages++
	}

	return &UserListResult{
		Users:      dtos,
		Total:      total,
		Page:       filter.Page,
		PageSize:   filter.Limit(),
		TotalPages: totalPages,
	}, nil
}

// GetByID returns a single user by ID
func (s *UserService) GetByID(ctx context.Context, userID uuid.UUID) (*UserDTO, error) {
	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		if err == shared.ErrNotFound {
			return nil, shared.NewDomainError("USER_NOT_FOUND", "User not found")
		}
		s.logger.Error("Failed to find user", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to find user")
	}

	if err := s.userRepo.LoadUserRoles(ctx, user); err != nil {
		s.logger.Error("Failed to load user roles", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to load user roles")
	}

	dto := toUserDTO(user)
	return &dto, nil
}

// Count returns the total number of users
func (s *UserService) Count(ctx context.Context) (int64, error) {
	return s.userRepo.Count(ctx)
}

func toUserDTO(user *identity.User) UserDTO {
	return UserDTO{
		ID:          user.ID,
		Username:    user.Username,
		Email:       user.Email,
		Phone:       user.Phone,
		DisplayName: user.DisplayName,
		Status:      string(user.Status),
		ZoneID:      user.ZoneID,
		GroupID:     user.GroupID,
		RoleIDs:     user.RoleIDs,
		LastLoginAt: user.LastLoginAt,
		CreatedAt:   user.CreatedAt,
		UpdatedAt:   user.UpdatedAt,
	}
}
