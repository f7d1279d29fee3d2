package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/orgstruct/backend/internal/application/identity"
)

// UserHandler handles user directory HTTP requests. Accounts are created
// through the zone and group batch endpoints, so this surface is read-only.
type UserHandler struct {
	BaseHandler
	userService *identity.UserService
}

// NewUserHandler creates a new user handler
func NewUserHandler(userService *identity.UserService) *UserHandler {
	return &UserHandler{
		userService: userService,
	}
}

// List returns a paginated user directory filtered by keyword, status,
// role, zone or group.
func (h *UserHandler) List(c *gin.Context) {
	var query UserListQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		h.BadRequest(c, "Invalid query parameters")
		return
	}

	input := identity.ListUsersInput{
		Keyword:   query.Keyword,
		Status:    query.Status,
		Page:      query.Page,
		PageSize:  query.PageSize,
		SortBy:    query.SortBy,
		SortOrder: query.SortDir,
	}
	if query.RoleID != "" {
		roleID, err := uuid.Parse(query.RoleID)
		if err != nil {
			h.BadRequest(c, "Invalid role ID")
			return
		}
		input.RoleID = &roleID
	}
	if query.ZoneID != "" {
		zoneID, err := uuid.Parse(query.ZoneID)
		if err != nil {
			h.BadRequest(c, "Invalid zone ID")
			return
		}
		input.ZoneID = &zoneID
	}
	if query.GroupID != "" {
		groupID, err := uuid.Parse(query.GroupID)
		if err != nil {
			h.BadRequest(c, "Invalid group ID")
			return
		}
		input.GroupID = &groupID
	}

	result, err := h.userService.List(c.Request.Context(), input)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, toUserListResponse(result))
}

// GetByID returns a single user.
func (h *UserHandler) GetByID(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid user ID")
		return
	}

	user, err := h.userService.GetByID(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, toUserResponse(user))
}

// Count returns the total number of users.
func (h *UserHandler) Count(c *gin.Context) {
	count, err := h.userService.Count(c.Request.Context())
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, gin.H{"count": count})
}

// Helper functions for response conversion

func toUserResponse(user *identity.UserDTO) *UserResponse {
	roleIDStrings := make([]string, len(user.RoleIDs))
	for i, rid := range user.RoleIDs {
		roleIDStrings[i] = rid.String()
	}

	return &UserResponse{
		ID:          user.ID,
		Username:    user.Username,
		Email:       user.Email,
		Phone:       user.Phone,
		DisplayName: user.DisplayName,
		Status:      user.Status,
		ZoneID:      user.ZoneID,
		GroupID:     user.GroupID,
		RoleIDs:     roleIDStrings,
		LastLoginAt: user.LastLoginAt,
		CreatedAt:   user.CreatedAt,
		UpdatedAt:   user.UpdatedAt,
	}
}

func toUserListResponse(result *identity.UserListResult) *UserListResponse {
	users := make([]UserResponse, len(result.Users))
	for i, user := range result.Users {
		users[i] = *toUserResponse(&user)
	}

	return &UserListResponse{
		Users:      users,
		Total:      result.Total,
		Page:       result.Page,
		PageSize:   result.PageSize,
		TotalPages: result.TotalPages,
	}
}
