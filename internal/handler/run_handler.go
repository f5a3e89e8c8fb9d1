package handler

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/meetfair/meetpoint-backend-go/internal/service"
	"github.com/meetfair/meetpoint-backend-go/pkg/response"
)

// RunHandler handles HTTP requests for the optimization run audit log
type RunHandler struct {
	service *service.OptimizationService
}

// NewRunHandler creates a new run handler
func NewRunHandler(service *service.OptimizationService) *RunHandler {
	return &RunHandler{service: service}
}

// ListRuns handles GET /api/v1/runs
func (h *RunHandler) ListRuns(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))
	offset, _ := strconv.Atoi(c.DefaultQuery("offset", "0"))

	runs, err := h.service.ListRuns(limit, offset)
	if err != nil {
		response.InternalError(c, "Failed to list runs: "+err.Error())
		return
	}

	response.Success(c, gin.H{
		"runs":  runs,
		"count": len(runs),
	})
}

// GetRun handles GET /api/v1/runs/:id
func (h *RunHandler) GetRun(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.BadRequest(c, "Invalid run id: "+c.Param("id"))
		return
	}

	run, err := h.service.GetRun(id)
	if err != nil {
		response.NotFound(c, err.Error())
		return
	}

	response.Success(c, run)
}
