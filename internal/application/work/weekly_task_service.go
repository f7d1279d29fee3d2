package work

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/orgstruct/backend/internal/domain/shared"
	"github.com/orgstruct/backend/internal/domain/structure"
	"github.com/orgstruct/backend/internal/domain/work"
	"github.com/orgstruct/backend/internal/infrastructure/telemetry"
	"go.uber.org/zap"
)

// WeeklyTaskService handles weekly task operations, including the
// concurrency-sensitive pick flow
type WeeklyTaskService struct {
	taskRepo        work.WeeklyTaskRepository
	workRepo        work.WorkRepository
	sectorRepo      structure.SectorRepository
	eventPublisher  shared.EventPublisher
	businessMetrics *telemetry.BusinessMetrics
	logger          *zap.Logger
}

// NewWeeklyTaskService creates a new weekly task service
func NewWeeklyTaskService(
	taskRepo work.WeeklyTaskRepository,
	workRepo work.WorkRepository,
	sectorRepo structure.SectorRepository,
	logger *zap.Logger,
) *WeeklyTaskService {
	return &WeeklyTaskService{
		taskRepo:   taskRepo,
		workRepo:   workRepo,
		sectorRepo: sectorRepo,
		logger:     logger,
	}
}

// SetEventPublisher sets the event publisher for cross-context integration
func (s *WeeklyTaskService) SetEventPublisher(publisher shared.EventPublisher) {
	s.eventPublisher = publisher
}

// SetBusinessMetrics sets the business metrics collector
func (s *WeeklyTaskService) SetBusinessMetrics(bm *telemetry.BusinessMetrics) {
	s.businessMetrics = bm
}

// CreateWeeklyTasksInput contains input for creating one task per sector
type CreateWeeklyTasksInput struct {
	WorkID      uuid.UUID
	SectorIDs   []uuid.UUID
	Description string
	Year        int // Zero defaults to the current ISO year
	WeekNumber  int
}

// PickWorkInput contains input for claiming a weekly task
type PickWorkInput struct {
	WeeklyTaskID uuid.UUID
	UserID       uuid.UUID
}

// UpdateWeeklyTaskInput contains input for partially updating a weekly task
type UpdateWeeklyTaskInput struct {
	ID          uuid.UUID
	Description *string
	Year        *int
	WeekNumber  *int
	Status      *string
}

// WeeklyTaskDTO represents weekly task data transfer object
type WeeklyTaskDTO struct {
	ID          uuid.UUID  `json:"id"`
	Description string     `json:"description,omitempty"`
	Status      string     `json:"status"`
	WorkID      uuid.UUID  `json:"work_id"`
	SectorID    uuid.UUID  `json:"sector_id"`
	Year        int        `json:"year"`
	WeekNumber  int        `json:"week_number"`
	PickedBy    *uuid.UUID `json:"picked_by,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

// CreateBatch creates one weekly task per sector for a work.
// All rows are written in a single transaction.
func (s *WeeklyTaskService) CreateBatch(ctx context.Context, input CreateWeeklyTasksInput) ([]WeeklyTaskDTO, error) {
	s.logger.Info("Creating weekly tasks",
		zap.String("work_id", input.WorkID.String()),
		zap.Int("sectors", len(input.SectorIDs)),
		zap.Int("week", input.WeekNumber))

	if _, err := s.workRepo.FindByID(ctx, input.WorkID); err != nil {
		if err == shared.ErrNotFound {
			return nil, shared.NewDomainError("WORK_NOT_FOUND", "Work not found")
		}
		s.logger.Error("Failed to find work", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to find work")
	}

	if len(input.SectorIDs) == 0 {
		return nil, shared.NewDomainError("INVALID_SECTOR_IDS", "At least one sector is required")
	}

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

	tasks := make([]*work.WeeklyTask, 0, len(input.SectorIDs))
	for _, sectorID := range input.SectorIDs {
		task, err := work.NewWeeklyTask(input.Description, input.WorkID, sectorID, input.Year, input.WeekNumber)
		if err != nil {
			return nil, err
		}
		tasks = append(tasks, task)
	}

	if err := s.taskRepo.CreateBatch(ctx, tasks); err != nil {
		s.logger.Error("Failed to create weekly tasks", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to create weekly tasks")
	}

	for _, task := range tasks {
		s.publishEvents(ctx, task)
	}

	dtos := make([]WeeklyTaskDTO, len(tasks))
	for i, task := range tasks {
		dtos[i] = *toWeeklyTaskDTO(task)
	}

	return dtos, nil
}

// Pick claims a weekly task for a user. The repository performs a single
// conditional update so that exactly one of any number of concurrent
// claimants wins; the rest receive TASK_ALREADY_PICKED.
func (s *WeeklyTaskService) Pick(ctx context.Context, input PickWorkInput) (*WeeklyTaskDTO, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "weekly_task", "pick")
	defer span.End()

	telemetry.SetAttributes(span,
		telemetry.SpanAttrTaskID, input.WeeklyTaskID.String(),
		telemetry.SpanAttrPickedBy, input.UserID.String(),
	)

	if input.UserID == uuid.Nil {
		err := shared.NewDomainError("INVALID_USER_ID", "User ID cannot be empty")
		telemetry.RecordError(span, err)
		return nil, err
	}

	var task *work.WeeklyTask
	var claimErr error
	telemetry.WithProfilingLabels(ctx, telemetry.WorkOperationLabels(telemetry.OperationPickTask, ""), func(c context.Context) {
		task, claimErr = s.taskRepo.Claim(c, input.WeeklyTaskID, input.UserID)
	})
	if claimErr != nil {
		if claimErr == shared.ErrNotFound {
			s.recordPick(ctx, telemetry.PickOutcomeNotFound)
			return nil, shared.NewDomainError("TASK_NOT_FOUND", "Weekly task not found")
		}
		var domainErr *shared.DomainError
		if errors.As(claimErr, &domainErr) {
			if domainErr.Code == "TASK_ALREADY_PICKED" {
				s.recordPick(ctx, telemetry.PickOutcomeConflict)
			}
			telemetry.RecordError(span, claimErr)
			return nil, claimErr
		}
		telemetry.RecordError(span, claimErr)
		s.logger.Error("Failed to claim weekly task",
			zap.String("task_id", input.WeeklyTaskID.String()),
			zap.Error(claimErr))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to claim weekly task")
	}

	s.recordPick(ctx, telemetry.PickOutcomePicked)
	telemetry.AddEvent(span, "task_claimed",
		telemetry.SpanAttrWeekNumber, task.WeekNumber,
	)

	s.logger.Info("Weekly task picked",
		zap.String("task_id", task.ID.String()),
		zap.String("picked_by", input.UserID.String()))

	if s.eventPublisher != nil {
		_ = s.eventPublisher.Publish(ctx, work.NewWeeklyTaskPickedEvent(task, input.UserID))
	}

	return toWeeklyTaskDTO(task), nil
}

func (s *WeeklyTaskService) recordPick(ctx context.Context, outcome telemetry.PickOutcome) {
	if s.businessMetrics != nil {
		s.businessMetrics.RecordTaskPick(ctx, outcome)
	}
}

// Update applies a partial update to a weekly task
func (s *WeeklyTaskService) Update(ctx context.Context, input UpdateWeeklyTaskInput) (*WeeklyTaskDTO, error) {
	task, err := s.taskRepo.FindByID(ctx, input.ID)
	if err != nil {
		if err == shared.ErrNotFound {
			return nil, shared.NewDomainError("TASK_NOT_FOUND", "Weekly task not found")
		}
		s.logger.Error("Failed to find weekly task", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to find weekly task")
	}

	if input.Description != nil {
		if err := task.SetDescription(*input.Description); err != nil {
			return nil, err
		}
	}

	if input.Year != nil || input.WeekNumber != nil {
		year := task.Year
		weekNumber := task.WeekNumber
		if input.Year != nil {
			year = *input.Year
		}
		if input.WeekNumber != nil {
			weekNumber = *input.WeekNumber
		}
		if err := task.SetWeek(year, weekNumber); err != nil {
			return nil, err
		}
	}

	if input.Status != nil {
		target := work.WeeklyTaskStatus(*input.Status)
		if err := task.TransitionTo(target); err != nil {
			return nil, err
		}
	}

	if err := s.taskRepo.Update(ctx, task); err != nil {
		s.logger.Error("Failed to update weekly task", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to update weekly task")
	}

	return toWeeklyTaskDTO(task), nil
}

// GetByID retrieves a weekly task by ID
func (s *WeeklyTaskService) GetByID(ctx context.Context, id uuid.UUID) (*WeeklyTaskDTO, error) {
	task, err := s.taskRepo.FindByID(ctx, id)
	if err != nil {
		if err == shared.ErrNotFound {
			return nil, shared.NewDomainError("TASK_NOT_FOUND", "Weekly task not found")
		}
		s.logger.Error("Failed to find weekly task", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to find weekly task")
	}

	return toWeeklyTaskDTO(task), nil
}

// ListByWork retrieves all weekly tasks for a work
func (s *WeeklyTaskService) ListByWork(ctx context.Context, workID uuid.UUID) ([]WeeklyTaskDTO, error) {
	if _, err := s.workRepo.FindByID(ctx, workID); err != nil {
		if err == shared.ErrNotFound {
			return nil, shared.NewDomainError("WORK_NOT_FOUND", "Work not found")
		}
		s.logger.Error("Failed to find work", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to find work")
	}

	tasks, err := s.taskRepo.FindByWorkID(ctx, workID)
	if err != nil {
		s.logger.Error("Failed to list weekly tasks", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to list weekly tasks")
	}

	dtos := make([]WeeklyTaskDTO, len(tasks))
	for i, task := range tasks {
		dtos[i] = *toWeeklyTaskDTO(task)
	}

	return dtos, nil
}

// publishEvents publishes domain events from the aggregate
func (s *WeeklyTaskService) publishEvents(ctx context.Context, task *work.WeeklyTask) {
	if s.eventPublisher == nil {
		return
	}
	events := task.GetDomainEvents()
	if len(events) == 0 {
		return
	}
	_ = s.eventPublisher.Publish(ctx, events...)
	task.ClearDomainEvents()
}

// toWeeklyTaskDTO converts domain WeeklyTask to WeeklyTaskDTO
func toWeeklyTaskDTO(task *work.WeeklyTask) *WeeklyTaskDTO {
	return &WeeklyTaskDTO{
		ID:          task.ID,
		Description: task.Description,
		Status:      string(task.Status),
		WorkID:      task.WorkID,
		SectorID:    task.SectorID,
		Year:        task.Year,
		WeekNumber:  task.WeekNumber,
		PickedBy:    task.PickedBy,
		CreatedAt:   task.CreatedAt,
		UpdatedAt:   task.UpdatedAt,
	}
}
