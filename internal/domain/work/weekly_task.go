package work

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/orgstruct/backend/internal/domain/shared"
)

// WeeklyTaskStatus represents the status of a weekly task
type WeeklyTaskStatus string

const (
	WeeklyTaskStatusUnassigned WeeklyTaskStatus = "unassigned" // Created, nobody claimed it
	WeeklyTaskStatusAssigned   WeeklyTaskStatus = "assigned"   // Claimed by exactly one user
	WeeklyTaskStatusInProgress WeeklyTaskStatus = "in_progress"
	WeeklyTaskStatusCompleted  WeeklyTaskStatus = "completed"
	WeeklyTaskStatusExpired    WeeklyTaskStatus = "expired" // Week passed without a claim
)

// IsValid checks if the status is a valid WeeklyTaskStatus
func (s WeeklyTaskStatus) IsValid() bool {
	switch s {
	case WeeklyTaskStatusUnassigned, WeeklyTaskStatusAssigned, WeeklyTaskStatusInProgress, WeeklyTaskStatusCompleted, WeeklyTaskStatusExpired:
		return true
	}
	return false
}

// String returns the string representation of WeeklyTaskStatus
func (s WeeklyTaskStatus) String() string {
	return string(s)
}

// CanTransitionTo checks if the status can transition to the target status
func (s WeeklyTaskStatus) CanTransitionTo(target WeeklyTaskStatus) bool {
	switch s {
	case WeeklyTaskStatusUnassigned:
		return target == WeeklyTaskStatusAssigned || target == WeeklyTaskStatusExpired
	case WeeklyTaskStatusAssigned:
		return target == WeeklyTaskStatusInProgress || target == WeeklyTaskStatusCompleted
	case WeeklyTaskStatusInProgress:
		return target == WeeklyTaskStatusCompleted
	case WeeklyTaskStatusCompleted, WeeklyTaskStatusExpired:
		return false // Terminal states
	}
	return false
}

// WeeklyTask represents one week's slice of a work item inside a sector.
// Workers claim unassigned tasks; the claim is enforced as a conditional
// write in the repository so exactly one claimant wins.
type WeeklyTask struct {
	shared.BaseAggregateRoot
	Description string           `gorm:"type:text"`
	Status      WeeklyTaskStatus `gorm:"type:varchar(20);not null;default:'unassigned';index"`
	WorkID      uuid.UUID        `gorm:"type:uuid;not null;index"`
	SectorID    uuid.UUID        `gorm:"type:uuid;not null;index"`
	Year        int              `gorm:"not null"`
	WeekNumber  int              `gorm:"not null"`
	PickedBy    *uuid.UUID       `gorm:"type:uuid;index"` // Null until claimed
}

// TableName returns the table name for GORM
func (WeeklyTask) TableName() string {
	return "weekly_tasks"
}

// NewWeeklyTask creates a new weekly task for a work in a sector.
// Year zero defaults to the current ISO year.
func NewWeeklyTask(description string, workID, sectorID uuid.UUID, year, weekNumber int) (*WeeklyTask, error) {
	if workID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_WORK_ID", "Work ID cannot be empty")
	}
	if sectorID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_SECTOR_ID", "Sector ID cannot be empty")
	}
	if year == 0 {
		year, _ = time.Now().ISOWeek()
	}
	if err := validateWeek(year, weekNumber); err != nil {
		return nil, err
	}
	if len(description) > 2000 {
		return nil, shared.NewDomainError("INVALID_DESCRIPTION", "Task description cannot exceed 2000 characters")
	}

	task := &WeeklyTask{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		Description:       strings.TrimSpace(description),
		Status:            WeeklyTaskStatusUnassigned,
		WorkID:            workID,
		SectorID:          sectorID,
		Year:              year,
		WeekNumber:        weekNumber,
	}

	task.AddDomainEvent(NewWeeklyTaskCreatedEvent(task))

	return task, nil
}

// Pick claims the task for a user. The repository enforces the same rule
// with a conditional write; this method keeps the in-memory aggregate
// consistent and records the event after a successful claim.
func (t *WeeklyTask) Pick(userID uuid.UUID) error {
	if userID == uuid.Nil {
		return shared.NewDomainError("INVALID_USER_ID", "User ID cannot be empty")
	}
	if t.PickedBy != nil {
		return shared.NewDomainError("TASK_ALREADY_PICKED", "Task has already been picked")
	}
	if t.Status != WeeklyTaskStatusUnassigned {
		return shared.NewDomainError("INVALID_STATE", "Only unassigned tasks can be picked")
	}

	t.PickedBy = &userID
	t.Status = WeeklyTaskStatusAssigned
	t.UpdatedAt = time.Now()
	t.IncrementVersion()

	t.AddDomainEvent(NewWeeklyTaskPickedEvent(t, userID))

	return nil
}

// SetDescription sets the task description
func (t *WeeklyTask) SetDescription(description string) error {
	if len(description) > 2000 {
		return shared.NewDomainError("INVALID_DESCRIPTION", "Task description cannot exceed 2000 characters")
	}

	t.Description = strings.TrimSpace(description)
	t.UpdatedAt = time.Now()
	t.IncrementVersion()

	return nil
}

// SetWeek moves the task to a different ISO week
func (t *WeeklyTask) SetWeek(year, weekNumber int) error {
	if year == 0 {
		year, _ = time.Now().ISOWeek()
	}
	if err := validateWeek(year, weekNumber); err != nil {
		return err
	}

	t.Year = year
	t.WeekNumber = weekNumber
	t.UpdatedAt = time.Now()
	t.IncrementVersion()

	return nil
}

// TransitionTo moves the task to the target status if the transition is legal
func (t *WeeklyTask) TransitionTo(target WeeklyTaskStatus) error {
	if !target.IsValid() {
		return shared.NewDomainError("INVALID_STATUS", "Unknown task status: "+target.String())
	}
	if !t.Status.CanTransitionTo(target) {
		return shared.NewDomainError("INVALID_STATE", "Task cannot move from "+t.Status.String()+" to "+target.String())
	}

	t.Status = target
	t.UpdatedAt = time.Now()
	t.IncrementVersion()

	return nil
}

// Expire marks an unclaimed task whose week has passed
func (t *WeeklyTask) Expire() error {
	if t.Status != WeeklyTaskStatusUnassigned {
		return shared.NewDomainError("INVALID_STATE", "Only unassigned tasks can expire")
	}

	t.Status = WeeklyTaskStatusExpired
	t.UpdatedAt = time.Now()
	t.IncrementVersion()

	t.AddDomainEvent(NewWeeklyTaskExpiredEvent(t))

	return nil
}

// IsPicked returns true once a user has claimed the task
func (t *WeeklyTask) IsPicked() bool {
	return t.PickedBy != nil
}

// WeekEnd returns the last instant of the task's ISO week.
// Used to decide whether an unclaimed task is overdue.
func (t *WeeklyTask) WeekEnd() time.Time {
	// Find the Monday of ISO week 1: the week containing January 4th.
	jan4 := time.Date(t.Year, time.January, 4, 0, 0, 0, 0, time.UTC)
	weekday := int(jan4.Weekday())
	if weekday == 0 {
		weekday = 7 // Sunday
	}
	week1Monday := jan4.AddDate(0, 0, 1-weekday)
	weekMonday := week1Monday.AddDate(0, 0, (t.WeekNumber-1)*7)
	return weekMonday.AddDate(0, 0, 7).Add(-time.Nanosecond)
}

// IsOverdue returns true if the task's week has fully passed at the given time
func (t *WeeklyTask) IsOverdue(now time.Time) bool {
	return now.After(t.WeekEnd())
}

func validateWeek(year, weekNumber int) error {
	if year < 2000 || year > 2200 {
		return shared.NewDomainError("INVALID_WEEK", "Year must be between 2000 and 2200")
	}
	if weekNumber < 1 || weekNumber > 53 {
		return shared.NewDomainError("INVALID_WEEK", "Week number must be between 1 and 53")
	}
	return nil
}
