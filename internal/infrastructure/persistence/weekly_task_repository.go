package persistence

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/orgstruct/backend/internal/domain/shared"
	"github.com/orgstruct/backend/internal/domain/work"
	"gorm.io/gorm"
)

// GormWeeklyTaskRepository implements WeeklyTaskRepository using GORM
type GormWeeklyTaskRepository struct {
	db *gorm.DB
}

// NewGormWeeklyTaskRepository creates a new GormWeeklyTaskRepository
func NewGormWeeklyTaskRepository(db *gorm.DB) *GormWeeklyTaskRepository {
	return &GormWeeklyTaskRepository{db: db}
}

// Create creates a new weekly task
func (r *GormWeeklyTaskRepository) Create(ctx context.Context, task *work.WeeklyTask) error {
	return r.db.WithContext(ctx).Create(task).Error
}

// CreateBatch creates one task per sector in a single transaction
func (r *GormWeeklyTaskRepository) CreateBatch(ctx context.Context, tasks []*work.WeeklyTask) error {
	if len(tasks) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return tx.Create(&tasks).Error
	})
}

// Update updates an existing weekly task
func (r *GormWeeklyTaskRepository) Update(ctx context.Context, task *work.WeeklyTask) error {
	result := r.db.WithContext(ctx).Save(task)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// Delete deletes a weekly task by ID
func (r *GormWeeklyTaskRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&work.WeeklyTask{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// FindByID finds a weekly task by its ID
func (r *GormWeeklyTaskRepository) FindByID(ctx context.Context, id uuid.UUID) (*work.WeeklyTask, error) {
	var task work.WeeklyTask
	if err := r.db.WithContext(ctx).First(&task, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &task, nil
}

// FindByWorkID finds all weekly tasks for a work
func (r *GormWeeklyTaskRepository) FindByWorkID(ctx context.Context, workID uuid.UUID) ([]*work.WeeklyTask, error) {
	var tasks []*work.WeeklyTask
	if err := r.db.WithContext(ctx).
		Where("work_id = ?", workID).
		Order("year ASC, week_number ASC").
		Find(&tasks).Error; err != nil {
		return nil, err
	}
	return tasks, nil
}

// FindByPicker finds all weekly tasks claimed by a user
func (r *GormWeeklyTaskRepository) FindByPicker(ctx context.Context, userID uuid.UUID) ([]*work.WeeklyTask, error) {
	var tasks []*work.WeeklyTask
	if err := r.db.WithContext(ctx).
		Where("picked_by = ?", userID).
		Order("year DESC, week_number DESC").
		Find(&tasks).Error; err != nil {
		return nil, err
	}
	return tasks, nil
}

// FindOverdueUnassigned finds unassigned tasks whose ISO week ended before
// the given time. Comparing (year, week) pairs is exact here: a week has
// fully passed once the current ISO week is strictly greater.
func (r *GormWeeklyTaskRepository) FindOverdueUnassigned(ctx context.Context, now time.Time) ([]*work.WeeklyTask, error) {
	isoYear, isoWeek := now.ISOWeek()

	var tasks []*work.WeeklyTask
	if err := r.db.WithContext(ctx).
		Where("status = ?", work.WeeklyTaskStatusUnassigned).
		Where("year < ? OR (year = ? AND week_number < ?)", isoYear, isoYear, isoWeek).
		Order("year ASC, week_number ASC").
		Find(&tasks).Error; err != nil {
		return nil, err
	}
	return tasks, nil
}

// Claim atomically assigns the task to the user. The conditional update is
// the race arbiter: out of any number of concurrent claimants exactly one
// matches the unclaimed row and wins. Losers get a TASK_ALREADY_PICKED
// domain error, expired tasks an INVALID_STATE error, and a missing id
// gets shared.ErrNotFound.
func (r *GormWeeklyTaskRepository) Claim(ctx context.Context, taskID, userID uuid.UUID) (*work.WeeklyTask, error) {
	result := r.db.WithContext(ctx).
		Model(&work.WeeklyTask{}).
		Where("id = ? AND picked_by IS NULL AND status = ?", taskID, work.WeeklyTaskStatusUnassigned).
		Updates(map[string]interface{}{
			"picked_by":  userID,
			"status":     work.WeeklyTaskStatusAssigned,
			"updated_at": time.Now(),
			"version":    gorm.Expr("version + 1"),
		})
	if result.Error != nil {
		return nil, result.Error
	}

	if result.RowsAffected == 0 {
		// Distinguish a missing task from a lost race or a dead task
		var task work.WeeklyTask
		if err := r.db.WithContext(ctx).First(&task, "id = ?", taskID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, shared.ErrNotFound
			}
			return nil, err
		}
		if task.PickedBy != nil {
			return nil, shared.NewDomainError("TASK_ALREADY_PICKED", "Task has already been picked")
		}
		return nil, shared.NewDomainError("INVALID_STATE", "Only unassigned tasks can be picked")
	}

	return r.FindByID(ctx, taskID)
}

// MarkExpired transitions the task to expired. The conditional update uses
// the same arbitration as Claim: only an unclaimed unassigned row matches,
// so a pick that committed after the sweep's query cannot be overwritten.
func (r *GormWeeklyTaskRepository) MarkExpired(ctx context.Context, taskID uuid.UUID) (bool, error) {
	result := r.db.WithContext(ctx).
		Model(&work.WeeklyTask{}).
		Where("id = ? AND picked_by IS NULL AND status = ?", taskID, work.WeeklyTaskStatusUnassigned).
		Updates(map[string]interface{}{
			"status":     work.WeeklyTaskStatusExpired,
			"updated_at": time.Now(),
			"version":    gorm.Expr("version + 1"),
		})
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

// Count counts all weekly tasks
func (r *GormWeeklyTaskRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&work.WeeklyTask{}).Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// Ensure GormWeeklyTaskRepository implements WeeklyTaskRepository
var _ work.WeeklyTaskRepository = (*GormWeeklyTaskRepository)(nil)
