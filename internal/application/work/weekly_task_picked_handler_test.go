package work

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/orgstruct/backend/internal/domain/shared"
	"github.com/orgstruct/backend/internal/domain/work"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newPickedEvent(workID uuid.UUID) *work.WeeklyTaskPickedEvent {
	task := createTestWeeklyTask(workID, newTestSectorID())
	return work.NewWeeklyTaskPickedEvent(task, newTestUserID())
}

func assignedTestWork() *work.Work {
	w := createTestWork()
	_ = w.AssignToSectors([]uuid.UUID{newTestSectorID()})
	w.ClearDomainEvents()
	return w
}

func TestWeeklyTaskPickedHandler_EventTypes(t *testing.T) {
	handler := NewWeeklyTaskPickedHandler(new(MockWorkRepository), zap.NewNop())

	eventTypes := handler.EventTypes()
	require.Len(t, eventTypes, 1)
	assert.Equal(t, work.EventTypeWeeklyTaskPicked, eventTypes[0])
}

func TestWeeklyTaskPickedHandler_Handle(t *testing.T) {
	logger := zap.NewNop()

	t.Run("moves assigned work to in progress on first pick", func(t *testing.T) {
		mockWorkRepo := new(MockWorkRepository)
		handler := NewWeeklyTaskPickedHandler(mockWorkRepo, logger)

		w := assignedTestWork()
		ctx := context.Background()

		mockWorkRepo.On("FindByID", ctx, w.ID).Return(w, nil)
		mockWorkRepo.On("Update", ctx, w).Return(nil)

		err := handler.Handle(ctx, newPickedEvent(w.ID))
		require.NoError(t, err)
		assert.Equal(t, work.WorkStatusInProgress, w.Status)
		mockWorkRepo.AssertExpectations(t)
	})

	t.Run("leaves work untouched on later picks", func(t *testing.T) {
		mockWorkRepo := new(MockWorkRepository)
		handler := NewWeeklyTaskPickedHandler(mockWorkRepo, logger)

		w := assignedTestWork()
		_ = w.StartProgress()
		w.ClearDomainEvents()
		ctx := context.Background()

		mockWorkRepo.On("FindByID", ctx, w.ID).Return(w, nil)

		err := handler.Handle(ctx, newPickedEvent(w.ID))
		require.NoError(t, err)
		assert.Equal(t, work.WorkStatusInProgress, w.Status)
		mockWorkRepo.AssertNotCalled(t, "Update", ctx, w)
	})

	t.Run("ignores picks for deleted work", func(t *testing.T) {
		mockWorkRepo := new(MockWorkRepository)
		handler := NewWeeklyTaskPickedHandler(mockWorkRepo, logger)

		workID := uuid.New()
		ctx := context.Background()

		mockWorkRepo.On("FindByID", ctx, workID).Return(nil, shared.ErrNotFound)

		err := handler.Handle(ctx, newPickedEvent(workID))
		require.NoError(t, err)
	})

	t.Run("propagates lookup failure", func(t *testing.T) {
		mockWorkRepo := new(MockWorkRepository)
		handler := NewWeeklyTaskPickedHandler(mockWorkRepo, logger)

		workID := uuid.New()
		ctx := context.Background()

		mockWorkRepo.On("FindByID", ctx, workID).Return(nil, assert.AnError)

		err := handler.Handle(ctx, newPickedEvent(workID))
		require.Error(t, err)
	})

	t.Run("propagates update failure", func(t *testing.T) {
		mockWorkRepo := new(MockWorkRepository)
		handler := NewWeeklyTaskPickedHandler(mockWorkRepo, logger)

		w := assignedTestWork()
		ctx := context.Background()

		mockWorkRepo.On("FindByID", ctx, w.ID).Return(w, nil)
		mockWorkRepo.On("Update", ctx, w).Return(assert.AnError)

		err := handler.Handle(ctx, newPickedEvent(w.ID))
		require.Error(t, err)
	})

	t.Run("returns error for wrong event type", func(t *testing.T) {
		handler := NewWeeklyTaskPickedHandler(new(MockWorkRepository), logger)

		event := work.NewWorkCreatedEvent(createTestWork())

		err := handler.Handle(context.Background(), event)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "unexpected event type")
	})
}
