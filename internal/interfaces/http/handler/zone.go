package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	appstructure "github.com/orgstruct/backend/internal/application/structure"
	"github.com/orgstruct/backend/internal/domain/shared"
)

// ZoneHandler handles zone management HTTP requests
type ZoneHandler struct {
	BaseHandler
	zoneService *appstructure.ZoneService
}

// NewZoneHandler creates a new zone handler
func NewZoneHandler(zoneService *appstructure.ZoneService) *ZoneHandler {
	return &ZoneHandler{
		zoneService: zoneService,
	}
}

// Create creates a zone together with its admin accounts. The batch is
// all-or-nothing: one rejected admin rolls back the zone and every account.
func (h *ZoneHandler) Create(c *gin.Context) {
	var req CreateZoneRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, "Invalid request body")
		return
	}

	input := appstructure.CreateZoneInput{
		Name:         req.Name,
		City:         req.City,
		ContactEmail: req.ContactEmail,
		ContactPhone: req.ContactPhone,
		Admins:       toBatchUserInputs(req.Admins),
	}

	zone, err := h.zoneService.CreateWithAdmins(c.Request.Context(), input)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, toZoneResponse(zone))
}

// List returns a paginated list of zones with their admin summaries.
func (h *ZoneHandler) List(c *gin.Context) {
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

	result, err := h.zoneService.List(c.Request.Context(), filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, toZoneListResponse(result))
}

// GetByAdminID resolves the zone administered by the given user.
func (h *ZoneHandler) GetByAdminID(c *gin.Context) {
	zoneUserID, err := uuid.Parse(c.Param("zone_user_id"))
	if err != nil {
		h.BadRequest(c, "Invalid zone user ID")
		return
	}

	zone, err := h.zoneService.GetByAdminID(c.Request.Context(), zoneUserID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, toZoneResponse(zone))
}

// RemoveAdmin deletes a zone admin account. The zone itself is kept.
func (h *ZoneHandler) RemoveAdmin(c *gin.Context) {
	zoneUserID, err := uuid.Parse(c.Param("zone_user_id"))
	if err != nil {
		h.BadRequest(c, "Invalid zone user ID")
		return
	}

	if err := h.zoneService.RemoveAdmin(c.Request.Context(), zoneUserID); err != nil {
		h.HandleError(c, err)
		return
	}

	h.NoContent(c)
}

// Count returns the total number of zones.
func (h *ZoneHandler) Count(c *gin.Context) {
	count, err := h.zoneService.Count(c.Request.Context())
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, gin.H{"count": count})
}

// Helper functions for response conversion

func toBatchUserInputs(reqs []BatchUserRequest) []appstructure.BatchUserInput {
	inputs := make([]appstructure.BatchUserInput, len(reqs))
	for i, r := range reqs {
		inputs[i] = appstructure.BatchUserInput{
			Username:    r.Username,
			Password:    r.Password,
			Email:       r.Email,
			Phone:       r.Phone,
			DisplayName: r.DisplayName,
		}
	}
	return inputs
}

func toUserSummaryResponses(summaries []appstructure.UserSummaryDTO) []UserSummaryResponse {
	responses := make([]UserSummaryResponse, len(summaries))
	for i, s := range summaries {
		responses[i] = UserSummaryResponse{
			ID:          s.ID,
			Username:    s.Username,
			DisplayName: s.DisplayName,
			Email:       s.Email,
			Status:      s.Status,
		}
	}
	return responses
}

func toZoneResponse(zone *appstructure.ZoneDTO) *ZoneResponse {
	return &ZoneResponse{
		ID:           zone.ID,
		Name:         zone.Name,
		City:         zone.City,
		ContactEmail: zone.ContactEmail,
		ContactPhone: zone.ContactPhone,
		Admins:       toUserSummaryResponses(zone.Admins),
		CreatedAt:    zone.CreatedAt,
		UpdatedAt:    zone.UpdatedAt,
	}
}

func toZoneListResponse(result *appstructure.ZoneListResult) *ZoneListResponse {
	zones := make([]ZoneResponse, len(result.Zones))
	for i, zone := range result.Zones {
		zones[i] = *toZoneResponse(&zone)
	}

	return &ZoneListResponse{
		Zones:      zones,
		Total:      result.Total,
		Page:       result.Page,
		PageSize:   result.PageSize,
		TotalPages: result.TotalPages,
	}
}
