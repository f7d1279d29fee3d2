package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/orgstruct/backend/internal/application/identity"
	domainIdentity "github.com/orgstruct/backend/internal/domain/identity"
)

// RoleHandler handles role and capability management HTTP requests
type RoleHandler struct {
	BaseHandler
	roleService *identity.RoleService
}

// NewRoleHandler creates a new role handler
func NewRoleHandler(roleService *identity.RoleService) *RoleHandler {
	return &RoleHandler{
		roleService: roleService,
	}
}

// Create creates a custom role, optionally granting an initial capability set.
func (h *RoleHandler) Create(c *gin.Context) {
	var req CreateRoleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, "Invalid request body")
		return
	}

	input := identity.CreateRoleInput{
		Code:         req.Code,
		Name:         req.Name,
		Description:  req.Description,
		Capabilities: req.Capabilities,
	}

	role, err := h.roleService.Create(c.Request.Context(), input)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, toRoleResponse(role))
}

// GetByID returns a single role with its capabilities.
func (h *RoleHandler) GetByID(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid role ID")
		return
	}

	role, err := h.roleService.GetByID(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, toRoleResponse(role))
}

// List returns a paginated list of roles.
func (h *RoleHandler) List(c *gin.Context) {
	var query RoleListQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		h.BadRequest(c, "Invalid query parameters")
		return
	}

	filter := &domainIdentity.RoleFilter{
		Keyword:      query.Keyword,
		IsEnabled:    query.IsEnabled,
		IsSystemRole: query.IsSystemRole,
		Page:         query.Page,
		Limit:        query.PageSize,
	}

	if filter.Page == 0 {
		filter.Page = 1
	}
	if filter.Limit == 0 {
		filter.Limit = 20
	}

	result, err := h.roleService.List(c.Request.Context(), filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, toRoleListResponse(result))
}

// SetCapabilities replaces a role's capability set. Unknown codes are
// rejected as a whole so a partial grant can never be applied.
func (h *RoleHandler) SetCapabilities(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid role ID")
		return
	}

	var req SetCapabilitiesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, "Invalid request body")
		return
	}

	role, err := h.roleService.SetCapabilities(c.Request.Context(), id, req.Capabilities)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, toRoleResponse(role))
}

// ListCapabilities returns every capability code a role may be granted.
func (h *RoleHandler) ListCapabilities(c *gin.Context) {
	caps := domainIdentity.AllCapabilities()
	codes := make([]string, len(caps))
	for i, capability := range caps {
		codes[i] = capability.String()
	}

	h.Success(c, CapabilityListResponse{Capabilities: codes})
}

// Count returns the total number of roles.
func (h *RoleHandler) Count(c *gin.Context) {
	count, err := h.roleService.Count(c.Request.Context())
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, gin.H{"count": count})
}

// Helper functions for response conversion

func toRoleResponse(role *identity.RoleDTO) *RoleResponse {
	return &RoleResponse{
		ID:           role.ID,
		Code:         role.Code,
		Name:         role.Name,
		Description:  role.Description,
		IsSystemRole: role.IsSystemRole,
		IsEnabled:    role.IsEnabled,
		Capabilities: role.Capabilities,
		UserCount:    role.UserCount,
		CreatedAt:    role.CreatedAt,
		UpdatedAt:    role.UpdatedAt,
	}
}

func toRoleListResponse(result *identity.RoleListResult) *RoleListResponse {
	roles := make([]RoleResponse, len(result.Roles))
	for i, role := range result.Roles {
		roles[i] = *toRoleResponse(&role)
	}

	return &RoleListResponse{
		Roles:      roles,
		Total:      result.Total,
		Page:       result.Page,
		PageSize:   result.PageSize,
		TotalPages: result.TotalPages,
	}
}
