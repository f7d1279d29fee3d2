package handler

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// =====================
// Work DTOs
// =====================

// CreateWorkRequest represents the request to plan a new work item.
// The assigning user is taken from the authenticated caller.
type CreateWorkRequest struct {
	Description       string          `json:"description" binding:"required,min=1,max=2000"`
	SectorID          string          `json:"sector_id" binding:"required,uuid"`
	PlannedStartDate  time.Time       `json:"planned_start_date" binding:"required"`
	PlannedEndDate    time.Time       `json:"planned_end_date" binding:"required"`
	Quality           string          `json:"quality" binding:"omitempty,max=100"`
	Quantity          int             `json:"quantity" binding:"required,gt=0"`
	TimeRequiredHours int             `json:"time_required_hours" binding:"omitempty,min=0"`
	Cost              decimal.Decimal `json:"cost"`
}

// AssignSectorsRequest represents the request to attach a work to sectors
type AssignSectorsRequest struct {
	SectorIDs []string `json:"sector_ids" binding:"required,min=1,dive,uuid"`
}

// WorkListQuery represents query parameters for listing works
type WorkListQuery struct {
	Status   string `form:"status" binding:"omitempty,oneof=unassigned assigned in_progress completed"`
	SectorID string `form:"sector_id" binding:"omitempty,uuid"`
	Page     int    `form:"page" binding:"omitempty,min=1"`
	PageSize int    `form:"page_size" binding:"omitempty,min=1,max=100"`
}

// WorkResponse represents work data in API responses
type WorkResponse struct {
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

// WorkListResponse represents paginated work list data
type WorkListResponse struct {
	Works      []WorkResponse `json:"works"`
	Total      int64          `json:"total"`
	Page       int            `json:"page"`
	PageSize   int            `json:"page_size"`
	TotalPages int            `json:"total_pages"`
}

// =====================
// Weekly task DTOs
// =====================

// CreateWeeklyTasksRequest represents the request to open one weekly task
// per sector for a work
type CreateWeeklyTasksRequest struct {
	WorkID      string   `json:"work_id" binding:"required,uuid"`
	SectorIDs   []string `json:"sector_ids" binding:"required,min=1,dive,uuid"`
	Description string   `json:"description" binding:"omitempty,max=2000"`
	Year        int      `json:"year" binding:"omitempty,min=2000,max=2100"`
	WeekNumber  int      `json:"week_number" binding:"required,min=1,max=53"`
}

// PickWorkRequest represents the request to claim a weekly task.
// The picker defaults to the authenticated caller when user_id is omitted.
type PickWorkRequest struct {
	WeeklyTaskID string `json:"weekly_task_id" binding:"required,uuid"`
	UserID       string `json:"user_id" binding:"omitempty,uuid"`
}

// UpdateWeeklyTaskRequest represents a partial update to a weekly task
type UpdateWeeklyTaskRequest struct {
	Description *string `json:"description" binding:"omitempty,max=2000"`
	Year        *int    `json:"year" binding:"omitempty,min=2000,max=2100"`
	WeekNumber  *int    `json:"week_number" binding:"omitempty,min=1,max=53"`
	Status      *string `json:"status" binding:"omitempty,oneof=unassigned assigned in_progress completed expired"`
}

// WeeklyTaskResponse represents weekly task data in API responses
type WeeklyTaskResponse struct {
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

// =====================
// Attachment DTOs
// =====================

// AttachmentResponse represents attachment metadata in API responses.
// Storage keys stay internal; clients download through presigned URLs.
type AttachmentResponse struct {
	ID          uuid.UUID  `json:"id"`
	WorkID      uuid.UUID  `json:"work_id"`
	Status      string     `json:"status"`
	FileName    string     `json:"file_name"`
	FileSize    int64      `json:"file_size"`
	ContentType string     `json:"content_type"`
	UploadedBy  *uuid.UUID `json:"uploaded_by,omitempty"`
	URL         string     `json:"url,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

// AttachmentDownloadResponse represents a presigned download link
type AttachmentDownloadResponse struct {
	AttachmentID uuid.UUID `json:"attachment_id"`
	FileName     string    `json:"file_name"`
	URL          string    `json:"url"`
	ExpiresAt    time.Time `json:"expires_at"`
}
