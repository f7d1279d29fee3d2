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

// GroupService handles group management operations.
// Groups are created with their members and never updated or deleted:
// member users anchor to the group row, and removing a group would need
// a re-homing policy nobody has asked for yet.
type GroupService struct {
	groupRepo      structure.GroupRepository
	zoneRepo       structure.ZoneRepository
	userRepo       identity.UserRepository
	roleRepo       identity.RoleRepository
	batchWriter    BatchWriter
	eventPublisher shared.EventPublisher
	logger         *zap.Logger
}

// NewGroupService creates a new group service
func NewGroupService(
	groupRepo structure.GroupRepository,
	zoneRepo structure.ZoneRepository,
	userRepo identity.UserRepository,
	roleRepo identity.RoleRepository,
	batchWriter BatchWriter,
	logger *zap.Logger,
) *GroupService {
	return &GroupService{
		groupRepo:   groupRepo,
		zoneRepo:    zoneRepo,
		userRepo:    userRepo,
		roleRepo:    roleRepo,
		batchWriter: batchWriter,
		logger:      logger,
	}
}

// SetEventPublisher sets the event publisher for domain events
func (s *GroupService) SetEventPublisher(publisher shared.EventPublisher) {
	s.eventPublisher = publisher
}

// CreateGroupInput contains input for creating a group with its members
type CreateGroupInput struct {
	Name        string
	ZoneID      uuid.UUID
	Description string
	Members     []BatchUserInput
}

// GroupDTO represents group data transfer object
type GroupDTO struct {
	ID          uuid.UUID        `json:"id"`
	Name        string           `json:"name"`
	ZoneID      uuid.UUID        `json:"zone_id"`
	Description string           `json:"description,omitempty"`
	Members     []UserSummaryDTO `json:"members"`
	CreatedAt   time.Time        `json:"created_at"`
	UpdatedAt   time.Time        `json:"updated_at"`
}

// GroupListResult represents paginated group list result
type GroupListResult struct {
	Groups     []GroupDTO `json:"groups"`
	Total      int64      `json:"total"`
	Page       int        `json:"page"`
	PageSize   int        `json:"page_size"`
	TotalPages int        `json:"total_pages"`
}

// CreateWithMembers creates a group and its member accounts in one
// transaction. Unlike zones, an empty member list is allowed: groups can
// be staffed after creation through the identity endpoints.
func (s *GroupService) CreateWithMembers(ctx context.Context, input CreateGroupInput) (*GroupDTO, error) {
	s.logger.Info("Creating new group",
		zap.String("name", input.Name),
		zap.String("zone_id", input.ZoneID.String()),
		zap.Int("member_count", len(input.Members)))

	if _, err := s.zoneRepo.FindByID(ctx, input.ZoneID); err != nil {
		if err == shared.ErrNotFound {
			return nil, shared.NewDomainError("ZONE_NOT_FOUND", "Zone not found")
		}
		s.logger.Error("Failed to find zone", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to find zone")
	}

	group, err := structure.NewGroup(input.Name, input.ZoneID)
	if err != nil {
		return nil, err
	}
	if input.Description != "" {
		group.SetDescription(input.Description)
	}

	var members []*identity.User
	if len(input.Members) > 0 {
		workerRole, err := s.roleRepo.FindByCode(ctx, identity.RoleCodeWorker)
		if err != nil {
			s.logger.Error("Failed to load worker role", zap.Error(err))
			return nil, shared.NewDomainError("INTERNAL_ERROR", "Worker role is not provisioned")
		}

		members, err = s.buildMemberUsers(ctx, group, workerRole, input.Members)
		if err != nil {
			return nil, err
		}
	}

	if err := s.batchWriter.CreateGroupWithMembers(ctx, group, members); err != nil {
		s.logger.Error("Failed to create group batch", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to create group")
	}

	s.publishEvents(ctx, group)
	for _, member := range members {
		s.publishEvents(ctx, member)
	}

	s.logger.Info("Group created",
		zap.String("group_id", group.ID.String()),
		zap.Int("member_count", len(members)))

	return toGroupDTO(group, members), nil
}

// buildMemberUsers validates and constructs the member accounts of a group
// batch. The first invalid account aborts with its field error.
func (s *GroupService) buildMemberUsers(ctx context.Context, group *structure.Group, workerRole *identity.Role, inputs []BatchUserInput) ([]*identity.User, error) {
	seen := make(map[string]bool)
	members := make([]*identity.User, 0, len(inputs))

	for _, in := range inputs {
		username := strings.ToLower(strings.TrimSpace(in.Username))
		if seen[username] {
			return nil, shared.NewDomainError("DUPLICATE_USERNAME", "Duplicate username in member batch: "+in.Username)
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
		if err := user.AssignToGroup(&group.ID); err != nil {
			return nil, err
		}
		if err := user.AssignRole(workerRole.ID); err != nil {
			return nil, err
		}

		members = append(members, user)
	}

	return members, nil
}

// List retrieves a paginated list of groups with their member summaries
func (s *GroupService) List(ctx context.Context, filter shared.Filter) (*GroupListResult, error) {
	if filter.Page <= 0 {
		filter.Page = 1
	}
	if filter.PageSize <= 0 {
		filter.PageSize = 20
	}

	groups, total, err := s.groupRepo.FindAll(ctx, filter)
	if err != nil {
		s.logger.Error("Failed to list groups", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to list groups")
	}

	groupDTOs := make([]GroupDTO, len(groups))
	for i := range groups {
		members, err := s.userRepo.FindByGroupID(ctx, groups[i].ID)
		if err != nil {
			s.logger.Error("Failed to load group members",
				zap.String("group_id", groups[i].ID.String()),
				zap.Error(err))
		}
		groupDTOs[i] = *toGroupDTO(&groups[i], members)
	}

	totalPages := int(total) / filter.PageSize
	if int(total)%filter.PageSize > 0 {
		totalPages++
	}

	return &GroupListResult{
		Groups:     groupDTOs,
		Total:      total,
		Page:       filter.Page,
		PageSize:   filter.PageSize,
		TotalPages: totalPages,
	}, nil
}

// GetByID retrieves a group by ID with its member summaries
func (s *GroupService) GetByID(ctx context.Context, id uuid.UUID) (*GroupDTO, error) {
	group, err := s.groupRepo.FindByID(ctx, id)
	if err != nil {
		if err == shared.ErrNotFound {
			return nil, shared.NewDomainError("GROUP_NOT_FOUND", "Group not found")
		}
		s.logger.Error("Failed to find group", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to find group")
	}

	members, err := s.userRepo.FindByGroupID(ctx, group.ID)
	if err != nil {
		s.logger.Error("Failed to load group members",
			zap.String("group_id", group.ID.String()),
			zap.Error(err))
	}

	return toGroupDTO(group, members), nil
}

// Count returns the total number of groups
func (s *GroupService) Count(ctx context.Context) (int64, error) {
	return s.groupRepo.Count(ctx)
}

// publishEvents publishes pending domain events from an aggregate
func (s *GroupService) publishEvents(ctx context.Context, agg shared.AggregateRoot) {
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

// toGroupDTO converts domain Group to GroupDTO
func toGroupDTO(group *structure.Group, members []*identity.User) *GroupDTO {
	summaries := make([]UserSummaryDTO, len(members))
	for i, member := range members {
		summaries[i] = toUserSummaryDTO(member)
	}

	return &GroupDTO{
		ID:          group.ID,
		Name:        group.Name,
		ZoneID:      group.ZoneID,
		Description: group.Description,
		Members:     summaries,
		CreatedAt:   group.CreatedAt,
		UpdatedAt:   group.UpdatedAt,
	}
}
