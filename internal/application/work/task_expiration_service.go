package work

import (
	"context"
	"time"

	"github.com/orgstruct/backend/internal/domain/shared"
	"github.com/orgstruct/backend/internal/domain/work"
	"github.com/orgstruct/backend/internal/infrastructure/telemetry"
	"go.uber.org/zap"
)

// TaskExpirationService expires weekly tasks whose ISO week ended without
// anyone picking them. It runs from the weekly scheduler and from the
// maintenance endpoint.
type TaskExpirationService struct {
	taskRepo        work.WeeklyTaskRepository
	eventPublisher  shared.EventPublisher
	businessMetrics *telemetry.BusinessMetrics
	logger          *zap.Logger
}

// NewTaskExpirationService creates a new task expiration service
func NewTaskExpirationService(
	taskRepo work.WeeklyTaskRepository,
	logger *zap.Logger,
) *TaskExpirationService {
	return &TaskExpirationService{
		taskRepo: taskRepo,
		logger:   logger,
	}
}

// SetEventPublisher sets the event publisher for cross-context integration
func (s *TaskExpirationService) SetEventPublisher(publisher shared.EventPublisher) {
	s.eventPublisher = publisher
}

// SetBusinessMetrics sets the business metrics collector
func (s *TaskExpirationService) SetBusinessMetrics(bm *telemetry.BusinessMetrics) {
	s.businessMetrics = bm
}

// ExpireOverdue transitions every overdue unassigned task to expired and
// returns how many tasks were expired. A failure on one task is logged
// and does not stop the sweep. The trigger names what started the sweep,
// "cron" for the scheduler or "manual" for the maintenance endpoint, and
// labels the profiling data.
func (s *TaskExpirationService) ExpireOverdue(ctx context.Context, trigger string) (int, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "weekly_task", "expire_overdue")
	defer span.End()
	telemetry.SetAttribute(span, "trigger", trigger)

	now := time.Now()

	var found, expired int
	var operationErr error
	telemetry.WithProfilingLabels(ctx, telemetry.WorkOperationLabels(telemetry.OperationExpireTasks, trigger), func(c context.Context) {
		tasks, err := s.taskRepo.FindOverdueUnassigned(c, now)
		if err != nil {
			s.logger.Error("Failed to find overdue weekly tasks", zap.Error(err))
			telemetry.RecordError(span, err)
			operationErr = err
			return
		}
		found = len(tasks)

		for _, task := range tasks {
			// The conditional write is the arbiter against concurrent
			// picks: a claim that committed after the query above leaves
			// the row unmatched and the task is skipped.
			won, err := s.taskRepo.MarkExpired(c, task.ID)
			if err != nil {
				s.logger.Error("Failed to expire weekly task",
					zap.String("task_id", task.ID.String()),
					zap.Error(err))
				continue
			}
			if !won {
				s.logger.Warn("Skipping task claimed during the sweep",
					zap.String("task_id", task.ID.String()))
				continue
			}

			// Mirror the committed transition on the snapshot so the
			// expired event carries the final state.
			_ = task.Expire()
			s.publishEvents(c, task)
			expired++
		}
	})
	if operationErr != nil {
		return 0, operationErr
	}

	if found == 0 {
		return 0, nil
	}

	if s.businessMetrics != nil {
		s.businessMetrics.RecordTasksExpired(ctx, int64(expired))
	}

	s.logger.Info("Expired overdue weekly tasks",
		zap.Int("found", found),
		zap.Int("expired", expired))

	return expired, nil
}

// publishEvents publishes domain events from the aggregate
func (s *TaskExpirationService) publishEvents(ctx context.Context, task *work.WeeklyTask) {
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
