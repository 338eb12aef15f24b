package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/Scorpioninfotechsolutions/lend-master/internal/interfaces/http/response"
	"github.com/Scorpioninfotechsolutions/lend-master/internal/usecases"
)

// ActivityLogHandler exposes the audit trail
type ActivityLogHandler struct {
	activityUsecase *usecases.ActivityLogUsecase
}

// NewActivityLogHandler creates a new activity log handler
func NewActivityLogHandler(activityUsecase *usecases.ActivityLogUsecase) *ActivityLogHandler {
	return &ActivityLogHandler{
		activityUsecase: activityUsecase,
	}
}

// List returns one page of recent activity, newest first
// GET /api/v1/activity-logs
func (h *ActivityLogHandler) List(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))

	logs, meta, err := h.activityUsecase.List(c.Request.Context(), page, limit)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{
		"success": true,
		"logs":    logs,
		"meta":    meta,
	})
}
