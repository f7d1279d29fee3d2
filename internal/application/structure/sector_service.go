package structure

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/orgstruct/backend/internal/domain/shared"
	"github.com/orgstruct/backend/internal/domain/structure"
	"go.uber.org/zap"
)

// SectorService handles sector management operations
type SectorService struct {
	sectorRepo     structure.SectorRepository
	zoneRepo       structure.ZoneRepository
	eventPublisher shared.EventPublisher
	logger         *zap.Logger
}

// NewSectorService creates a new sector service
func NewSectorService(
	sectorRepo structure.SectorRepository,
	zoneRepo structure.ZoneRepository,
	logger *zap.Logger,
) *SectorService {
	return &SectorService{
		sectorRepo: sectorRepo,
		zoneRepo:   zoneRepo,
		logger:     logger,
	}
}

// SetEventPublisher sets the event publisher for domain events
func (s *SectorService) SetEventPublisher(publisher shared.EventPublisher) {
	s.eventPublisher = publisher
}

// CreateSectorInput contains input for creating a sector
type CreateSectorInput struct {
	Name   string
	Code   string
	ZoneID uuid.UUID
}

// SectorDTO represents sector data transfer object
type SectorDTO struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	Code      string    `json:"code"`
	ZoneID    uuid.UUID `json:"zone_id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// SectorListResult represents paginated sector list result
type SectorListResult struct {
	Sectors    []SectorDTO `json:"sectors"`
	Total      int64       `json:"total"`
	Page       int         `json:"page"`
	PageSize   int         `json:"page_size"`
	TotalPages int         `json:"total_pages"`
}

// Create creates a new sector inside a zone
func (s *SectorService) Create(ctx context.Context, input CreateSectorInput) (*SectorDTO, error) {
	s.logger.Info("Creating new sector",
		zap.String("name", input.Name),
		zap.String("code", input.Code),
		zap.String("zone_id", input.ZoneID.String()))

	if _, err := s.zoneRepo.FindByID(ctx, input.ZoneID); err != nil {
		if err == shared.ErrNotFound {
			return nil, shared.NewDomainError("ZONE_NOT_FOUND", "Zone not found")
		}
		s.logger.Error("Failed to find zone", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to find zone")
	}

	// Codes are stored uppercased, so the uniqueness probe has to match that form.
	code := strings.ToUpper(strings.TrimSpace(input.Code))
	exists, err := s.sectorRepo.ExistsByCode(ctx, input.ZoneID, code)
	if err != nil {
		s.logger.Error("Failed to check sector code existence", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to check sector code availability")
	}
	if exists {
		return nil, shared.NewDomainError("SECTOR_CODE_EXISTS", "Sector code already exists in this zone")
	}

	sector, err := structure.NewSector(input.Name, input.Code, input.ZoneID)
	if err != nil {
		return nil, err
	}

	if err := s.sectorRepo.Create(ctx, sector); err != nil {
		s.logger.Error("Failed to create sector", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to create sector")
	}

	s.publishEvents(ctx, sector)

	s.logger.Info("Sector created",
		zap.String("sector_id", sector.ID.String()),
		zap.String("code", sector.Code))

	return toSectorDTO(sector), nil
}

// List retrieves a paginated list of sectors, optionally scoped to a zone
func (s *SectorService) List(ctx context.Context, filter shared.Filter, zoneID *uuid.UUID) (*SectorListResult, error) {
	if filter.Page <= 0 {
		filter.Page = 1
	}
	if filter.PageSize <= 0 {
		filter.PageSize = 20
	}
	if filter.Filters == nil {
		filter.Filters = make(map[string]interface{})
	}
	if zoneID != nil {
		filter.Filters["zone_id"] = *zoneID
	}

	sectors, total, err := s.sectorRepo.FindAll(ctx, filter)
	if err != nil {
		s.logger.Error("Failed to list sectors", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to list sectors")
	}

	sectorDTOs := make([]SectorDTO, len(sectors))
	for i := range sectors {
		sectorDTOs[i] = *toSectorDTO(&sectors[i])
	}

	totalPages := int(total) / filter.PageSize
	if int(total)%filter.PageSize > 0 {
		totalPages++
	}

	return &SectorListResult{
		Sectors:    sectorDTOs,
		Total:      total,
		Page:       filter.Page,
		PageSize:   filter.PageSize,
		TotalPages: totalPages,
	}, nil
}

// Count returns the total number of sectors
func (s *SectorService) Count(ctx context.Context) (int64, error) {
	return s.sectorRepo.Count(ctx)
}

// publishEvents publishes pending domain events from an aggregate
func (s *SectorService) publishEvents(ctx context.Context, agg shared.AggregateRoot) {
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

// toSectorDTO converts domain Sector to SectorDTO
func toSectorDTO(sector *structure.Sector) *SectorDTO {
	return &SectorDTO{
		ID:        sector.ID,
		Name:      sector.Name,
		Code:      sector.Code,
		ZoneID:    sector.ZoneID,
		CreatedAt: sector.CreatedAt,
		UpdatedAt: sector.UpdatedAt,
	}
}
