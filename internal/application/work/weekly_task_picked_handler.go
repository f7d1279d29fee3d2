package work

import (
	"context"
	"fmt"

	"github.com/orgstruct/backend/internal/domain/shared"
	"github.com/orgstruct/backend/internal/domain/work"
	"go.uber.org/zap"
)

// WeeklyTaskPickedHandler reacts to WeeklyTaskPickedEvent by moving the
// parent work from assigned to in_progress on the first pick
type WeeklyTaskPickedHandler struct {
	workRepo work.WorkRepository
	logger   *zap.Logger
}

// NewWeeklyTaskPickedHandler creates a new handler for weekly task picked events
func NewWeeklyTaskPickedHandler(workRepo work.WorkRepository, logger *zap.Logger) *WeeklyTaskPickedHandler {
	return &WeeklyTaskPickedHandler{
		workRepo: workRepo,
		logger:   logger,
	}
}

// EventTypes returns the event types this handler is interested in
func (h *WeeklyTaskPickedHandler) EventTypes() []string {
	return []string{work.EventTypeWeeklyTaskPicked}
}

// Handle processes a WeeklyTaskPickedEvent
func (h *WeeklyTaskPickedHandler) Handle(ctx context.Context, event shared.DomainEvent) error {
	pickedEvent, ok := event.(*work.WeeklyTaskPickedEvent)
	if !ok {
		h.logger.Error("unexpected event type",
			zap.String("expected", work.EventTypeWeeklyTaskPicked),
			zap.String("actual", event.EventType()),
		)
		return fmt.Errorf("unexpected event type: expected %s, got %s",
			work.EventTypeWeeklyTaskPicked, event.EventType())
	}

	w, err := h.workRepo.FindByID(ctx, pickedEvent.WorkID)
	if err != nil {
		if err == shared.ErrNotFound {
			// The work was deleted between pick and handling; nothing to do
			h.logger.Warn("work for picked task no longer exists",
				zap.String("work_id", pickedEvent.WorkID.String()))
			return nil
		}
		return err
	}

	// Only the first pick moves the work forward; later picks see
	// in_progress and fall through
	if w.Status != work.WorkStatusAssigned {
		return nil
	}

	if err := w.StartProgress(); err != nil {
		h.logger.Warn("work could not start progress",
			zap.String("work_id", w.ID.String()),
			zap.String("status", string(w.Status)),
			zap.Error(err))
		return nil
	}

	if err := h.workRepo.Update(ctx, w); err != nil {
		h.logger.Error("failed to persist work progress transition",
			zap.String("work_id", w.ID.String()),
			zap.Error(err))
		return err
	}

	h.logger.Info("work moved to in_progress",
		zap.String("work_id", w.ID.String()),
		zap.String("picked_by", pickedEvent.PickedBy.String()))

	return nil
}

// Ensure WeeklyTaskPickedHandler implements shared.EventHandler
var _ shared.EventHandler = (*WeeklyTaskPickedHandler)(nil)
