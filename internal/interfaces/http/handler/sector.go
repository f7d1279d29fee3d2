package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	appstructure "github.com/orgstruct/backend/internal/application/structure"
	"github.com/orgstruct/backend/internal/domain/shared"
)

// SectorHandler handles sector management HTTP requests
type SectorHandler struct {
	BaseHandler
	sectorService *appstructure.SectorService
}

// NewSectorHandler creates a new sector handler
func NewSectorHandler(sectorService *appstructure.SectorService) *SectorHandler {
	return &SectorHandler{
		sectorService: sectorService,
	}
}

// Create creates a sector inside a zone.
func (h *SectorHandler) Create(c *gin.Context) {
	var req CreateSectorRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, "Invalid request body")
		return
	}

	zoneID, err := uuid.Parse(req.ZoneID)
	if err != nil {
		h.BadRequest(c, "Invalid zone ID")
		return
	}

	input := appstructure.CreateSectorInput{
		Name:   req.Name,
		Code:   req.Code,
		ZoneID: zoneID,
	}

	sector, err := h.sectorService.Create(c.Request.Context(), input)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, toSectorResponse(sector))
}

// List returns a paginated list of sectors, optionally scoped to a zone.
func (h *SectorHandler) List(c *gin.Context) {
	var query SectorListQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		h.BadRequest(c, "Invalid query parameters")
		return
	}

	var zoneID *uuid.UUID
	if query.ZoneID != "" {
		id, err := uuid.Parse(query.ZoneID)
		if err != nil {
			h.BadRequest(c, "Invalid zone ID")
			return
		}
		zoneID = &id
	}

	filter := shared.Filter{
		Page:     query.Page,
		PageSize: query.PageSize,
		Search:   query.Search,
	}

	result, err := h.sectorService.List(c.Request.Context(), filter, zoneID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, toSectorListResponse(result))
}

// Count returns the total number of sectors.
func (h *SectorHandler) Count(c *gin.Context) {
	count, err := h.sectorService.Count(c.Request.Context())
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, gin.H{"count": count})
}

// Helper functions for response conversion

func toSectorResponse(sector *appstructure.SectorDTO) *SectorResponse {
	return &SectorResponse{
		ID:        sector.ID,
		Name:      sector.Name,
		Code:      sector.Code,
		ZoneID:    sector.ZoneID,
		CreatedAt: sector.CreatedAt,
		UpdatedAt: sector.UpdatedAt,
	}
}

func toSectorListResponse(result *appstructure.SectorListResult) *SectorListResponse {
	sectors := make([]SectorResponse, len(result.Sectors))
	for i, sector := range result.Sectors {
		sectors[i] = *toSectorResponse(&sector)
	}

	return &SectorListResponse{
		Sectors:    sectors,
		Total:      result.Total,
		Page:       result.Page,
		PageSize:   result.PageSize,
		TotalPages: result.TotalPages,
	}
}
