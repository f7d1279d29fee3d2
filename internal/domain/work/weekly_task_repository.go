package work

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// WeeklyTaskRepository defines the interface for weekly task persistence
type WeeklyTaskRepository interface {
	// Create creates a new weekly task
	Create(ctx context.Context, task *WeeklyTask) error

	// CreateBatch creates one task per sector in a single transaction
	CreateBatch(ctx context.Context, tasks []*WeeklyTask) error

	// Update updates an existing weekly task
	Update(ctx context.Context, task *WeeklyTask) error

	// Delete deletes a weekly task by ID
	Delete(ctx context.Context, id uuid.UUID) error

	// FindByID finds a weekly task by its ID
	FindByID(ctx context.Context, id uuid.UUID) (*WeeklyTask, error)

	// FindByWorkID finds all weekly tasks for a work
	FindByWorkID(ctx context.Context, workID uuid.UUID) ([]*WeeklyTask, error)

	// FindByPicker finds all weekly tasks claimed by a user
	FindByPicker(ctx context.Context, userID uuid.UUID) ([]*WeeklyTask, error)

	// FindOverdueUnassigned finds unassigned tasks whose ISO week ended
	// before the given time
	FindOverdueUnassigned(ctx context.Context, now time.Time) ([]*WeeklyTask, error)

	// Claim atomically assigns the task to the user with a single
	// conditional update (picked_by must still be null). It returns
	// shared.ErrNotFound when the id does not exist and a
	// TASK_ALREADY_PICKED domain error when another user won the race.
	// On success the returned task reflects the claimed state.
	Claim(ctx context.Context, taskID, userID uuid.UUID) (*WeeklyTask, error)

	// MarkExpired transitions the task to expired with a single
	// conditional update that only matches an unclaimed unassigned row.
	// It returns false when the row no longer matches, which means a
	// claim landed first and the task must be left alone.
	MarkExpired(ctx context.Context, taskID uuid.UUID) (bool, error)

	// Count counts all weekly tasks
	Count(ctx context.Context) (int64, error)
}
