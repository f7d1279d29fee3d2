package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	appstructure "github.com/orgstruct/backend/internal/application/structure"
	"github.com/orgstruct/backend/internal/domain/shared"
)

// GroupHandler handles group management HTTP requests. Groups are never
// deleted through the API; membership ends by removing the member accounts.
type GroupHandler struct {
	BaseHandler
	groupService *appstructure.GroupService
}

// NewGroupHandler creates a new group handler
func NewGroupHandler(groupService *appstructure.GroupService) *GroupHandler {
	return &GroupHandler{
		groupService: groupService,
	}
}

// Create creates a group together with its member accounts in one
// transaction. An empty member list is allowed.
func (h *GroupHandler) Create(c *gin.Context) {
	var req CreateGroupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, "Invalid request body")
		return
	}

	zoneID, err := uuid.Parse(req.ZoneID)
	if err != nil {
		h.BadRequest(c, "Invalid zone ID")
		return
	}

	input := appstructure.CreateGroupInput{
		Name:        req.Name,
		ZoneID:      zoneID,
		Description: req.Description,
		Members:     toBatchUserInputs(req.Members),
	}

	group, err := h.groupService.CreateWithMembers(c.Request.Context(), input)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, toGroupResponse(group))
}

// List returns a paginated list of groups with their member summaries.
func (h *GroupHandler) List(c *gin.Context) {
	var query StructureListQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		h.BadRequest(c, "Invalid query parameters")
		return
	}

	filter := shared.Filter{
		Page:     query.Page,
		PageSize: query.PageSize,
		OrderBy:  query.OrderBy,
		OrderDir: query.OrderDir,
		Search:   query.Search,
	}

	result, err := h.groupService.List(c.Request.Context(), filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, toGroupListResponse(result))
}

// GetByID returns a single group with its members.
func (h *GroupHandler) GetByID(c *gin.Context) {
	id, err := uuid.Parse(c.Param("group_id"))
	if err != nil {
		h.BadRequest(c, "Invalid group ID")
		return
	}

	group, err := h.groupService.GetByID(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, toGroupResponse(group))
}

// Count returns the total number of groups.
func (h *GroupHandler) Count(c *gin.Context) {
	count, err := h.groupService.Count(c.Request.Context())
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, gin.H{"count": count})
}

// Helper functions for response conversion

func toGroupResponse(group *appstructure.GroupDTO) *GroupResponse {
	return &GroupResponse{
		ID:          group.ID,
		Name:        group.Name,
		ZoneID:      group.ZoneID,
		Description: group.Description,
		Members:     toUserSummaryResponses(group.Members),
		CreatedAt:   group.CreatedAt,
		UpdatedAt:   group.UpdatedAt,
	}
}

func toGroupListResponse(result *appstructure.GroupListResult) *GroupListResponse {
	groups := make([]GroupResponse, len(result.Groups))
	for i, group := range result.Groups {
		groups[i] = *toGroupResponse(&group)
	}

	return &GroupListResponse{
		Groups:     groups,
		Total:      result.Total,
		Page:       result.Page,
		PageSize:   result.PageSize,
		TotalPages: result.TotalPages,
	}
}
