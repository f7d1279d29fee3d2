package handler

import (
	"github.com/gin-gonic/gin"
	appwork "github.com/orgstruct/backend/internal/application/work"
)

// MaintenanceHandler handles operational maintenance HTTP requests
type MaintenanceHandler struct {
	BaseHandler
	taskExpirationService *appwork.TaskExpirationService
}

// NewMaintenanceHandler creates a new maintenance handler
func NewMaintenanceHandler(taskExpirationService *appwork.TaskExpirationService) *MaintenanceHandler {
	return &MaintenanceHandler{
		taskExpirationService: taskExpirationService,
	}
}

// ExpireWeeklyTasks runs the overdue-task sweep immediately instead of
// waiting for the next scheduled run. Tasks picked between the query and
// the sweep are left untouched.
func (h *MaintenanceHandler) ExpireWeeklyTasks(c *gin.Context) {
	expired, err := h.taskExpirationService.ExpireOverdue(c.Request.Context(), "manual")
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, ExpireTasksResponse{Expired: expired})
}

// ExpireTasksResponse reports how many weekly tasks a sweep expired
type ExpireTasksResponse struct {
	Expired int `json:"expired"`
}
