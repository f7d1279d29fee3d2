package handler

import (
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	appwork "github.com/orgstruct/backend/internal/application/work"
	"github.com/orgstruct/backend/internal/domain/work"
	"github.com/orgstruct/backend/internal/interfaces/http/dto"
)

const (
	// Maximum file size for work attachments (20MB)
	maxAttachmentFileSize = 20 * 1024 * 1024
)

// WorkHandler handles work, weekly task and attachment HTTP requests
type WorkHandler struct {
	BaseHandler
	workService       *appwork.WorkService
	weeklyTaskService *appwork.WeeklyTaskService
	attachmentService *appwork.AttachmentService
}

// NewWorkHandler creates a new work handler
func NewWorkHandler(
	workService *appwork.WorkService,
	weeklyTaskService *appwork.WeeklyTaskService,
	attachmentService *appwork.AttachmentService,
) *WorkHandler {
	return &WorkHandler{
		workService:       workService,
		weeklyTaskService: weeklyTaskService,
		attachmentService: attachmentService,
	}
}

// Create plans a new work item targeting a sector. The assigning user is
// the authenticated caller.
func (h *WorkHandler) Create(c *gin.Context) {
	var req CreateWorkRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, "Invalid request body")
		return
	}

	assignedBy, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "User not authenticated")
		return
	}

	sectorID, err := uuid.Parse(req.SectorID)
	if err != nil {
		h.BadRequest(c, "Invalid sector ID")
		return
	}

	input := appwork.CreateWorkInput{
		Description:       req.Description,
		AssignedBy:        assignedBy,
		SectorID:          sectorID,
		PlannedStartDate:  req.PlannedStartDate,
		PlannedEndDate:    req.PlannedEndDate,
		Quality:           req.Quality,
		Quantity:          req.Quantity,
		TimeRequiredHours: req.TimeRequiredHours,
		Cost:              req.Cost,
	}

	created, err := h.workService.Create(c.Request.Context(), input)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, toWorkResponse(created))
}

// List returns a paginated list of works with optional status and sector
// filters.
func (h *WorkHandler) List(c *gin.Context) {
	var query WorkListQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		h.BadRequest(c, "Invalid query parameters")
		return
	}

	filter := work.NewWorkFilter()
	if query.Page > 0 {
		filter.Page = query.Page
	}
	if query.PageSize > 0 {
		filter.PageSize = query.PageSize
	}
	if query.Status != "" {
		status := work.WorkStatus(query.Status)
		if !status.IsValid() {
			h.BadRequest(c, "Invalid status filter")
			return
		}
		filter.Status = &status
	}
	if query.SectorID != "" {
		sectorID, err := uuid.Parse(query.SectorID)
		if err != nil {
			h.BadRequest(c, "Invalid sector ID")
			return
		}
		filter.SectorID = &sectorID
	}

	result, err := h.workService.List(c.Request.Context(), filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, toWorkListResponse(result))
}

// GetByID retrieves a work by its ID, including its assigned sectors.
func (h *WorkHandler) GetByID(c *gin.Context) {
	workID, err := uuid.Parse(c.Param("work_id"))
	if err != nil {
		h.BadRequest(c, "Invalid work ID")
		return
	}

	workDTO, err := h.workService.GetByID(c.Request.Context(), workID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, toWorkResponse(workDTO))
}

// GetByUser returns works the user created plus works where the user picked
// a weekly task. Defaults to the authenticated caller when the user_id query
// parameter is omitted.
func (h *WorkHandler) GetByUser(c *gin.Context) {
	var userID uuid.UUID
	if raw := c.Query("user_id"); raw != "" {
		parsed, err := uuid.Parse(raw)
		if err != nil {
			h.BadRequest(c, "Invalid user ID")
			return
		}
		userID = parsed
	} else {
		resolved, err := getUserID(c)
		if err != nil {
			h.Unauthorized(c, "User not authenticated")
			return
		}
		userID = resolved
	}

	works, err := h.workService.GetByUser(c.Request.Context(), userID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	responses := make([]WorkResponse, len(works))
	for i := range works {
		responses[i] = *toWorkResponse(&works[i])
	}

	h.Success(c, gin.H{"works": responses})
}

// AssignSectors attaches a work to one or more sectors, replacing any
// previous assignment.
func (h *WorkHandler) AssignSectors(c *gin.Context) {
	workID, err := uuid.Parse(c.Param("work_id"))
	if err != nil {
		h.BadRequest(c, "Invalid work ID")
		return
	}

	var req AssignSectorsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, "Invalid request body")
		return
	}

	sectorIDs, err := parseUUIDList(req.SectorIDs)
	if err != nil {
		h.BadRequest(c, "Invalid sector ID")
		return
	}

	workDTO, err := h.workService.AssignSectors(c.Request.Context(), appwork.AssignSectorsInput{
		WorkID:    workID,
		SectorIDs: sectorIDs,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, toWorkResponse(workDTO))
}

// Delete removes a work together with its weekly tasks, sector links and
// attachments.
func (h *WorkHandler) Delete(c *gin.Context) {
	workID, err := uuid.Parse(c.Param("work_id"))
	if err != nil {
		h.BadRequest(c, "Invalid work ID")
		return
	}

	if err := h.workService.Delete(c.Request.Context(), workID); err != nil {
		h.HandleError(c, err)
		return
	}

	h.NoContent(c)
}

// Count returns the total number of works.
func (h *WorkHandler) Count(c *gin.Context) {
	count, err := h.workService.Count(c.Request.Context())
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, gin.H{"count": count})
}

// CreateWeeklyTasks opens one weekly task per sector for a work. N sector
// ids produce exactly N unclaimed tasks.
func (h *WorkHandler) CreateWeeklyTasks(c *gin.Context) {
	var req CreateWeeklyTasksRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, "Invalid request body")
		return
	}

	workID, err := uuid.Parse(req.WorkID)
	if err != nil {
		h.BadRequest(c, "Invalid work ID")
		return
	}

	sectorIDs, err := parseUUIDList(req.SectorIDs)
	if err != nil {
		h.BadRequest(c, "Invalid sector ID")
		return
	}

	tasks, err := h.weeklyTaskService.CreateBatch(c.Request.Context(), appwork.CreateWeeklyTasksInput{
		WorkID:      workID,
		SectorIDs:   sectorIDs,
		Description: req.Description,
		Year:        req.Year,
		WeekNumber:  req.WeekNumber,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, gin.H{"weekly_tasks": toWeeklyTaskResponses(tasks)})
}

// Pick claims a weekly task. The claim is a single conditional write, so
// under concurrent picks exactly one caller wins and the rest get a 409.
// The picker defaults to the authenticated caller.
func (h *WorkHandler) Pick(c *gin.Context) {
	var req PickWorkRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, "Invalid request body")
		return
	}

	taskID, err := uuid.Parse(req.WeeklyTaskID)
	if err != nil {
		h.BadRequest(c, "Invalid weekly task ID")
		return
	}

	var userID uuid.UUID
	if req.UserID != "" {
		userID, err = uuid.Parse(req.UserID)
		if err != nil {
			h.BadRequest(c, "Invalid user ID")
			return
		}
	} else {
		userID, err = getUserID(c)
		if err != nil {
			h.Unauthorized(c, "User not authenticated")
			return
		}
	}

	task, err := h.weeklyTaskService.Pick(c.Request.Context(), appwork.PickWorkInput{
		WeeklyTaskID: taskID,
		UserID:       userID,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, toWeeklyTaskResponse(task))
}

// GetWeeklyTask retrieves a weekly task by its ID.
func (h *WorkHandler) GetWeeklyTask(c *gin.Context) {
	taskID, err := uuid.Parse(c.Param("weekly_task_id"))
	if err != nil {
		h.BadRequest(c, "Invalid weekly task ID")
		return
	}

	task, err := h.weeklyTaskService.GetByID(c.Request.Context(), taskID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, toWeeklyTaskResponse(task))
}

// ListWeeklyTasksByWork returns all weekly tasks opened for a work.
func (h *WorkHandler) ListWeeklyTasksByWork(c *gin.Context) {
	workID, err := uuid.Parse(c.Param("work_id"))
	if err != nil {
		h.BadRequest(c, "Invalid work ID")
		return
	}

	tasks, err := h.weeklyTaskService.ListByWork(c.Request.Context(), workID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, gin.H{"weekly_tasks": toWeeklyTaskResponses(tasks)})
}

// UpdateWeeklyTask applies a partial update to a weekly task. Status changes
// are validated against the task's transition rules.
func (h *WorkHandler) UpdateWeeklyTask(c *gin.Context) {
	taskID, err := uuid.Parse(c.Param("weekly_task_id"))
	if err != nil {
		h.BadRequest(c, "Invalid weekly task ID")
		return
	}

	var req UpdateWeeklyTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, "Invalid request body")
		return
	}

	task, err := h.weeklyTaskService.Update(c.Request.Context(), appwork.UpdateWeeklyTaskInput{
		ID:          taskID,
		Description: req.Description,
		Year:        req.Year,
		WeekNumber:  req.WeekNumber,
		Status:      req.Status,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, toWeeklyTaskResponse(task))
}

// UploadAttachment stores a multipart file upload against a work.
func (h *WorkHandler) UploadAttachment(c *gin.Context) {
	workID, err := uuid.Parse(c.Param("work_id"))
	if err != nil {
		h.BadRequest(c, "Invalid work ID")
		return
	}

	userID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "User not authenticated")
		return
	}

	// Get file from form
	file, header, err := c.Request.FormFile("file")
	if err != nil {
		h.BadRequest(c, "file is required")
		return
	}
	defer file.Close()

	// Check file size before reading it into memory
	if header.Size > maxAttachmentFileSize {
		h.Error(c, http.StatusRequestEntityTooLarge, dto.ErrCodeValidation, "file exceeds maximum size of 20MB")
		return
	}

	data, err := io.ReadAll(file)
	if err != nil {
		h.InternalError(c, "failed to read uploaded file")
		return
	}

	attachment, err := h.attachmentService.Upload(c.Request.Context(), appwork.UploadAttachmentInput{
		WorkID:      workID,
		FileName:    header.Filename,
		ContentType: header.Header.Get("Content-Type"),
		Data:        data,
		UploadedBy:  &userID,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, toAttachmentResponse(attachment))
}

// ListAttachments returns all active attachments for a work.
func (h *WorkHandler) ListAttachments(c *gin.Context) {
	workID, err := uuid.Parse(c.Param("work_id"))
	if err != nil {
		h.BadRequest(c, "Invalid work ID")
		return
	}

	attachments, err := h.attachmentService.ListByWork(c.Request.Context(), workID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	responses := make([]AttachmentResponse, len(attachments))
	for i := range attachments {
		responses[i] = *toAttachmentResponse(&attachments[i])
	}

	h.Success(c, gin.H{"attachments": responses})
}

// GetAttachmentURL returns a presigned download link for an attachment.
func (h *WorkHandler) GetAttachmentURL(c *gin.Context) {
	attachmentID, err := uuid.Parse(c.Param("attachment_id"))
	if err != nil {
		h.BadRequest(c, "Invalid attachment ID")
		return
	}

	download, err := h.attachmentService.GetDownloadURL(c.Request.Context(), attachmentID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, &AttachmentDownloadResponse{
		AttachmentID: download.AttachmentID,
		FileName:     download.FileName,
		URL:          download.URL,
		ExpiresAt:    download.ExpiresAt,
	})
}

// DeleteAttachment removes an attachment and its stored object.
func (h *WorkHandler) DeleteAttachment(c *gin.Context) {
	attachmentID, err := uuid.Parse(c.Param("attachment_id"))
	if err != nil {
		h.BadRequest(c, "Invalid attachment ID")
		return
	}

	if err := h.attachmentService.Delete(c.Request.Context(), attachmentID); err != nil {
		h.HandleError(c, err)
		return
	}

	h.NoContent(c)
}

// Helper functions for response conversion

func parseUUIDList(values []string) ([]uuid.UUID, error) {
	ids := make([]uuid.UUID, len(values))
	for i, v := range values {
		id, err := uuid.Parse(v)
		if err != nil {
			return nil, err
		}
		ids[i] = id
	}
	return ids, nil
}

func toWorkResponse(w *appwork.WorkDTO) *WorkResponse {
	return &WorkResponse{
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
		Status:            w.Status,
		SectorIDs:         w.SectorIDs,
		CreatedAt:         w.CreatedAt,
		UpdatedAt:         w.UpdatedAt,
	}
}

func toWorkListResponse(result *appwork.WorkListResult) *WorkListResponse {
	works := make([]WorkResponse, len(result.Works))
	for i := range result.Works {
		works[i] = *toWorkResponse(&result.Works[i])
	}

	return &WorkListResponse{
		Works:      works,
		Total:      result.Total,
		Page:       result.Page,
		PageSize:   result.PageSize,
		TotalPages: result.TotalPages,
	}
}

func toWeeklyTaskResponse(task *appwork.WeeklyTaskDTO) *WeeklyTaskResponse {
	return &WeeklyTaskResponse{
		ID:          task.ID,
		Description: task.Description,
		Status:      task.Status,
		WorkID:      task.WorkID,
		SectorID:    task.SectorID,
		Year:        task.Year,
		WeekNumber:  task.WeekNumber,
		PickedBy:    task.PickedBy,
		CreatedAt:   task.CreatedAt,
		UpdatedAt:   task.UpdatedAt,
	}
}

func toWeeklyTaskResponses(tasks []appwork.WeeklyTaskDTO) []WeeklyTaskResponse {
	responses := make([]WeeklyTaskResponse, len(tasks))
	for i := range tasks {
		responses[i] = *toWeeklyTaskResponse(&tasks[i])
	}
	return responses
}

func toAttachmentResponse(attachment *appwork.AttachmentDTO) *AttachmentResponse {
	return &AttachmentResponse{
		ID:          attachment.ID,
		WorkID:      attachment.WorkID,
		Status:      attachment.Status,
		FileName:    attachment.FileName,
		FileSize:    attachment.FileSize,
		ContentType: attachment.ContentType,
		UploadedBy:  attachment.UploadedBy,
		URL:         attachment.URL,
		CreatedAt:   attachment.CreatedAt,
		UpdatedAt:   attachment.UpdatedAt,
	}
}
