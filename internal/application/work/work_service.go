package work

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/orgstruct/backend/internal/domain/shared"
	"github.com/orgstruct/backend/internal/domain/structure"
	"github.com/orgstruct/backend/internal/domain/work"
	"github.com/orgstruct/backend/internal/infrastructure/telemetry"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// WorkService handles work item management operations
type WorkService struct {
	workRepo        work.WorkRepository
	sectorRepo      structure.SectorRepository
	attachmentRepo  work.WorkAttachmentRepository
	storageService  ObjectStorageService
	eventPublisher  shared.EventPublisher
	businessMetrics *telemetry.BusinessMetrics
	logger          *zap.Logger
}

// NewWorkService creates a new work service
func NewWorkService(
	workRepo work.WorkRepository,
	sectorRepo structure.SectorRepository,
	attachmentRepo work.WorkAttachmentRepository,
	storageService ObjectStorageService,
	logger *zap.Logger,
) *WorkService {
	return &WorkService{
		workRepo:       workRepo,
		sectorRepo:     sectorRepo,
		attachmentRepo: attachmentRepo,
		storageService: storageService,
		logger:         logger,
	}
}

// SetEventPublisher sets the event publisher for cross-context integration
func (s *WorkService) SetEventPublisher(publisher shared.EventPublisher) {
	s.eventPublisher = publisher
}

// SetBusinessMetrics sets the business metrics collector
func (s *WorkService) SetBusinessMetrics(bm *telemetry.BusinessMetrics) {
	s.businessMetrics = bm
}

// CreateWorkInput contains input for creating a work item
type CreateWorkInput struct {
	Description       string
	AssignedBy        uuid.UUID
	SectorID          uuid.UUID
	PlannedStartDate  time.Time
	PlannedEndDate    time.Time
	Quality           string
	Quantity          int
	TimeRequiredHours int
	Cost              decimal.Decimal
}

// AssignSectorsInput contains input for attaching a work to sectors
type AssignSectorsInput struct {
	WorkID    uuid.UUID
	SectorIDs []uuid.UUID
}

// WorkDTO represents work data transfer object
type WorkDTO struct {
	ID                uuid.UUID       `json:"id"`
	Description       string          `json:"description"`
	AssignedBy        uuid.UUID       `json:"assigned_by"`
	SectorID          uuid.UUID       `json:"sector_id"`
	PlannedStartDate  time.Time       `json:"planned_start_date"`
	PlannedEndDate    time.Time       `json:"planned_end_date"`
	Quality           string          `json:"quality,omitempty"`
	Quantity          int             `json:"quantity"`
	TimeRequiredHours int             `json:"time_required_hours"`
	Cost              decimal.Decimal `json:"cost"`
	Status            string          `json:"status"`
	SectorIDs         []uuid.UUID     `json:"sector_ids"`
	CreatedAt         time.Time       `json:"created_at"`
	UpdatedAt         time.Time       `json:"updated_at"`
}

// WorkListResult represents paginated work list result
type WorkListResult struct {
	Works      []WorkDTO `json:"works"`
	Total      int64     `json:"total"`
	Page       int       `json:"page"`
	PageSize   int       `json:"page_size"`
	TotalPages int       `json:"total_pages"`
}

// Create creates a new work item targeting a sector
func (s *WorkService) Create(ctx context.Context, input CreateWorkInput) (*WorkDTO, error) {
	s.logger.Info("Creating new work",
		zap.String("sector_id", input.SectorID.String()),
		zap.String("assigned_by", input.AssignedBy.String()))

	// Wrap in profiling labels for performance analysis
	var created *work.Work
	var operationErr error
	telemetry.WithProfilingLabels(ctx, telemetry.WorkOperationLabels(telemetry.OperationCreateWork, ""), func(c context.Context) {
		// Target sector must exist
		if _, err := s.sectorRepo.FindByID(c, input.SectorID); err != nil {
			if err == shared.ErrNotFound {
				operationErr = shared.NewDomainError("SECTOR_NOT_FOUND", "Sector not found")
				return
			}
			s.logger.Error("Failed to check sector existence", zap.Error(err))
			operationErr = shared.NewDomainError("INTERNAL_ERROR", "Failed to validate sector")
			return
		}

		w, err := work.NewWork(
			input.Description,
			input.AssignedBy,
			input.SectorID,
			input.PlannedStartDate,
			input.PlannedEndDate,
			input.Quantity,
			input.Cost,
		)
		if err != nil {
			operationErr = err
			return
		}

		if input.Quality != "" {
			if err := w.SetQuality(input.Quality); err != nil {
				operationErr = err
				return
			}
		}
		if input.TimeRequiredHours > 0 {
			if err := w.SetTimeRequired(input.TimeRequiredHours); err != nil {
				operationErr = err
				return
			}
		}

		if err := s.workRepo.Create(c, w); err != nil {
			s.logger.Error("Failed to create work", zap.Error(err))
			operationErr = shared.NewDomainError("INTERNAL_ERROR", "Failed to create work")
			return
		}

		created = w
	})
	if operationErr != nil {
		return nil, operationErr
	}

	s.publishEvents(ctx, created)

	// Record business metrics
	if s.businessMetrics != nil {
		s.businessMetrics.RecordWorkWithCost(ctx, created.Cost)
	}

	s.logger.Info("Work created successfully", zap.String("work_id", created.ID.String()))

	return toWorkDTO(created), nil
}

// AssignSectors attaches the work to the given sectors.
// The sector list replaces any previous assignment rows.
func (s *WorkService) AssignSectors(ctx context.Context, input AssignSectorsInput) (*WorkDTO, error) {
	w, err := s.workRepo.FindByID(ctx, input.WorkID)
	if err != nil {
		if err == shared.ErrNotFound {
			return nil, shared.NewDomainError("WORK_NOT_FOUND", "Work not found")
		}
		s.logger.Error("Failed to find work", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to find work")
	}

	if len(input.SectorIDs) == 0 {
		return nil, shared.NewDomainError("INVALID_SECTOR_IDS", "At least one sector is required")
	}

	// Every target sector must exist
	sectors, err := s.sectorRepo.FindByIDs(ctx, input.SectorIDs)
	if err != nil {
		s.logger.Error("Failed to load sectors", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to validate sectors")
	}
	found := make(map[uuid.UUID]bool, len(sectors))
	for _, sector := range sectors {
		found[sector.ID] = true
	}
	for _, sectorID := range input.SectorIDs {
		if !found[sectorID] {
			return nil, shared.NewDomainError("SECTOR_NOT_FOUND", "Sector not found: "+sectorID.String())
		}
	}

	if err := w.AssignToSectors(input.SectorIDs); err != nil {
		return nil, err
	}

	if err := s.workRepo.Update(ctx, w); err != nil {
		s.logger.Error("Failed to update work", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to update work")
	}
	if err := s.workRepo.SaveSectors(ctx, w); err != nil {
		s.logger.Error("Failed to save work sectors", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to save work sectors")
	}

	s.publishEvents(ctx, w)

	return toWorkDTO(w), nil
}

// GetByID retrieves a work by ID with its sector assignment
func (s *WorkService) GetByID(ctx context.Context, id uuid.UUID) (*WorkDTO, error) {
	w, err := s.workRepo.FindByID(ctx, id)
	if err != nil {
		if err == shared.ErrNotFound {
			return nil, shared.NewDomainError("WORK_NOT_FOUND", "Work not found")
		}
		s.logger.Error("Failed to find work", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to find work")
	}

	if err := s.workRepo.LoadSectors(ctx, w); err != nil {
		s.logger.Error("Failed to load work sectors",
			zap.String("work_id", w.ID.String()),
			zap.Error(err))
	}

	return toWorkDTO(w), nil
}

// List retrieves a paginated list of works
func (s *WorkService) List(ctx context.Context, filter work.WorkFilter) (*WorkListResult, error) {
	works, total, err := s.workRepo.FindAll(ctx, filter)
	if err != nil {
		s.logger.Error("Failed to list works", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to list works")
	}

	for _, w := range works {
		if err := s.workRepo.LoadSectors(ctx, w); err != nil {
			s.logger.Error("Failed to load work sectors",
				zap.String("work_id", w.ID.String()),
				zap.Error(err))
		}
	}

	// Calculate total pages
	pageSize := filter.Limit()
	totalPages := int(total) / pageSize
	if int(total)%pageSize > 0 {
		totalPages++
	}

	workDTOs := make([]WorkDTO, len(works))
	for i, w := range works {
		workDTOs[i] = *toWorkDTO(w)
	}

	return &WorkListResult{
		Works:      workDTOs,
		Total:      total,
		Page:       filter.Page,
		PageSize:   pageSize,
		TotalPages: totalPages,
	}, nil
}

// GetByUser retrieves works the user created plus works where the user
// picked a weekly task
func (s *WorkService) GetByUser(ctx context.Context, userID uuid.UUID) ([]WorkDTO, error) {
	works, err := s.workRepo.FindByUser(ctx, userID)
	if err != nil {
		s.logger.Error("Failed to find works by user",
			zap.String("user_id", userID.String()),
			zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to find works")
	}

	workDTOs := make([]WorkDTO, len(works))
	for i, w := range works {
		if err := s.workRepo.LoadSectors(ctx, w); err != nil {
			s.logger.Error("Failed to load work sectors",
				zap.String("work_id", w.ID.String()),
				zap.Error(err))
		}
		workDTOs[i] = *toWorkDTO(w)
	}

	return workDTOs, nil
}

// Delete removes a work together with its weekly tasks, sector links and
// attachments. Attachment objects in storage are removed best-effort.
func (s *WorkService) Delete(ctx context.Context, id uuid.UUID) error {
	w, err := s.workRepo.FindByID(ctx, id)
	if err != nil {
		if err == shared.ErrNotFound {
			return shared.NewDomainError("WORK_NOT_FOUND", "Work not found")
		}
		s.logger.Error("Failed to find work", zap.Error(err))
		return shared.NewDomainError("INTERNAL_ERROR", "Failed to find work")
	}

	// Clean up attachment objects before the rows disappear
	attachments, err := s.attachmentRepo.FindByWorkID(ctx, id)
	if err != nil {
		s.logger.Error("Failed to load work attachments", zap.Error(err))
		return shared.NewDomainError("INTERNAL_ERROR", "Failed to load work attachments")
	}
	for _, attachment := range attachments {
		if s.storageService != nil {
			if err := s.storageService.DeleteObject(ctx, attachment.StorageKey); err != nil {
				s.logger.Warn("Failed to delete attachment object from storage",
					zap.String("attachment_id", attachment.ID.String()),
					zap.String("storage_key", attachment.StorageKey),
					zap.Error(err))
			}
		}
		if err := s.attachmentRepo.Delete(ctx, attachment.ID); err != nil {
			s.logger.Error("Failed to delete attachment record", zap.Error(err))
			return shared.NewDomainError("INTERNAL_ERROR", "Failed to delete work attachments")
		}
	}

	if err := s.workRepo.Delete(ctx, id); err != nil {
		if err == shared.ErrNotFound {
			return shared.NewDomainError("WORK_NOT_FOUND", "Work not found")
		}
		s.logger.Error("Failed to delete work", zap.Error(err))
		return shared.NewDomainError("INTERNAL_ERROR", "Failed to delete work")
	}

	if s.eventPublisher != nil {
		_ = s.eventPublisher.Publish(ctx, work.NewWorkDeletedEvent(w))
	}

	s.logger.Info("Work deleted", zap.String("work_id", id.String()))

	return nil
}

// Count counts all works
func (s *WorkService) Count(ctx context.Context) (int64, error) {
	return s.workRepo.Count(ctx)
}

// publishEvents publishes domain events from the aggregate
func (s *WorkService) publishEvents(ctx context.Context, w *work.Work) {
	if s.eventPublisher == nil {
		return
	}
	events := w.GetDomainEvents()
	if len(events) == 0 {
		return
	}
	_ = s.eventPublisher.Publish(ctx, events...)
	w.ClearDomainEvents()
}

// toWorkDTO converts domain Work to WorkDTO
func toWorkDTO(w *work.Work) *WorkDTO {
	sectorIDs := w.SectorIDs
	if sectorIDs == nil {
		sectorIDs = []uuid.UUID{}
	}
	return &WorkDTO{
		ID:                w.ID,
		Description:       w.Description,
		AssignedBy:        w.AssignedBy,
		SectorID:          w.SectorID,
		PlannedStartDate:  w.PlannedStartDate,
		PlannedEndDate:    w.PlannedEndDate,
		Quality:           w.Quality,
		Quantity:          w.Quantity,
		TimeRequiredHours: w.TimeRequiredHours,
		Cost:              w.Cost,
		Status:            string(w.Status),
		SectorIDs:         sectorIDs,
		CreatedAt:         w.CreatedAt,
		UpdatedAt:         w.UpdatedAt,
	}
}
