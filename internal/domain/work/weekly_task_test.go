package work

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func createTestWeeklyTask(t *testing.T) *WeeklyTask {
	task, err := NewWeeklyTask("Prep fence posts", uuid.New(), uuid.New(), 2024, 4)
	require.NoError(t, err)
	require.NotNil(t, task)
	return task
}

func TestNewWeeklyTask(t *testing.T) {
	workID := uuid.New()
	sectorID := uuid.New()

	t.Run("creates unassigned task", func(t *testing.T) {
		task, err := NewWeeklyTask("Prep fence posts", workID, sectorID, 2024, 4)

		require.NoError(t, err)
		assert.NotEqual(t, uuid.Nil, task.ID)
		assert.Equal(t, WeeklyTaskStatusUnassigned, task.Status)
		assert.Nil(t, task.PickedBy)
		assert.Equal(t, workID, task.WorkID)
		assert.Equal(t, sectorID, task.SectorID)
		assert.Equal(t, 2024, task.Year)
		assert.Equal(t, 4, task.WeekNumber)

		events := task.GetDomainEvents()
		require.Len(t, events, 1)
		_, ok := events[0].(*WeeklyTaskCreatedEvent)
		assert.True(t, ok)
	})

	t.Run("year defaults to current", func(t *testing.T) {
		task, err := NewWeeklyTask("", workID, sectorID, 0, 4)

		require.NoError(t, err)
		currentYear, _ := time.Now().ISOWeek()
		assert.Equal(t, currentYear, task.Year)
	})

	t.Run("fails with nil work id", func(t *testing.T) {
		_, err := NewWeeklyTask("", uuid.Nil, sectorID, 2024, 4)

		require.Error(t, err)
		assert.Contains(t, err.Error(), "Work ID cannot be empty")
	})

	t.Run("fails with nil sector id", func(t *testing.T) {
		_, err := NewWeeklyTask("", workID, uuid.Nil, 2024, 4)

		require.Error(t, err)
		assert.Contains(t, err.Error(), "Sector ID cannot be empty")
	})

	t.Run("fails with week out of range", func(t *testing.T) {
		_, err := NewWeeklyTask("", workID, sectorID, 2024, 0)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "between 1 and 53")

		_, err = NewWeeklyTask("", workID, sectorID, 2024, 54)
		require.Error(t, err)
	})
}

func TestWeeklyTask_Pick(t *testing.T) {
	t.Run("first pick wins", func(t *testing.T) {
		task := createTestWeeklyTask(t)
		task.ClearDomainEvents()
		userID := uuid.New()

		err := task.Pick(userID)
		require.NoError(t, err)
		require.NotNil(t, task.PickedBy)
		assert.Equal(t, userID, *task.PickedBy)
		assert.Equal(t, WeeklyTaskStatusAssigned, task.Status)
		assert.True(t, task.IsPicked())

		events := task.GetDomainEvents()
		require.Len(t, events, 1)
		picked, ok := events[0].(*WeeklyTaskPickedEvent)
		require.True(t, ok)
		assert.Equal(t, userID, picked.PickedBy)
	})

	t.Run("second pick is rejected", func(t *testing.T) {
		task := createTestWeeklyTask(t)
		first := uuid.New()
		second := uuid.New()

		require.NoError(t, task.Pick(first))

		err := task.Pick(second)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "already been picked")
		// First claimant is untouched
		assert.Equal(t, first, *task.PickedBy)
	})

	t.Run("rejects nil user", func(t *testing.T) {
		task := createTestWeeklyTask(t)

		err := task.Pick(uuid.Nil)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "User ID cannot be empty")
		assert.Nil(t, task.PickedBy)
	})

	t.Run("cannot pick expired task", func(t *testing.T) {
		task := createTestWeeklyTask(t)
		require.NoError(t, task.Expire())

		err := task.Pick(uuid.New())
		require.Error(t, err)
	})
}

func TestWeeklyTask_TransitionTo(t *testing.T) {
	t.Run("picked task can progress and complete", func(t *testing.T) {
		task := createTestWeeklyTask(t)
		require.NoError(t, task.Pick(uuid.New()))

		require.NoError(t, task.TransitionTo(WeeklyTaskStatusInProgress))
		assert.Equal(t, WeeklyTaskStatusInProgress, task.Status)

		require.NoError(t, task.TransitionTo(WeeklyTaskStatusCompleted))
		assert.Equal(t, WeeklyTaskStatusCompleted, task.Status)
	})

	t.Run("unassigned task cannot jump to completed", func(t *testing.T) {
		task := createTestWeeklyTask(t)

		err := task.TransitionTo(WeeklyTaskStatusCompleted)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "cannot move from unassigned")
	})

	t.Run("rejects unknown status", func(t *testing.T) {
		task := createTestWeeklyTask(t)

		err := task.TransitionTo(WeeklyTaskStatus("paused"))
		require.Error(t, err)
		assert.Contains(t, err.Error(), "Unknown task status")
	})

	t.Run("completed is terminal", func(t *testing.T) {
		assert.False(t, WeeklyTaskStatusCompleted.CanTransitionTo(WeeklyTaskStatusInProgress))
		assert.False(t, WeeklyTaskStatusExpired.CanTransitionTo(WeeklyTaskStatusAssigned))
	})
}

func TestWeeklyTask_Expire(t *testing.T) {
	t.Run("expires unassigned task", func(t *testing.T) {
		task := createTestWeeklyTask(t)
		task.ClearDomainEvents()

		err := task.Expire()
		require.NoError(t, err)
		assert.Equal(t, WeeklyTaskStatusExpired, task.Status)

		events := task.GetDomainEvents()
		require.Len(t, events, 1)
		_, ok := events[0].(*WeeklyTaskExpiredEvent)
		assert.True(t, ok)
	})

	t.Run("cannot expire picked task", func(t *testing.T) {
		task := createTestWeeklyTask(t)
		require.NoError(t, task.Pick(uuid.New()))

		err := task.Expire()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "Only unassigned tasks can expire")
	})
}

func TestWeeklyTask_SetWeek(t *testing.T) {
	task := createTestWeeklyTask(t)

	require.NoError(t, task.SetWeek(2025, 10))
	assert.Equal(t, 2025, task.Year)
	assert.Equal(t, 10, task.WeekNumber)

	err := task.SetWeek(2025, 60)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "between 1 and 53")
}

func TestWeeklyTask_WeekEnd(t *testing.T) {
	// ISO week 1 of 2024 runs Mon 2024-01-01 through Sun 2024-01-07
	task, err := NewWeeklyTask("", uuid.New(), uuid.New(), 2024, 1)
	require.NoError(t, err)

	end := task.WeekEnd()
	assert.Equal(t, 2024, end.Year())
	assert.Equal(t, time.January, end.Month())
	assert.Equal(t, 7, end.Day())

	assert.False(t, task.IsOverdue(time.Date(2024, 1, 5, 12, 0, 0, 0, time.UTC)))
	assert.True(t, task.IsOverdue(time.Date(2024, 1, 8, 0, 0, 0, 1, time.UTC)))
}
