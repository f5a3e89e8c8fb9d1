package handler

import (
	"errors"

	"github.com/gin-gonic/gin"

	"github.com/meetfair/meetpoint-backend-go/internal/models"
	"github.com/meetfair/meetpoint-backend-go/internal/pipeline"
	"github.com/meetfair/meetpoint-backend-go/internal/service"
	"github.com/meetfair/meetpoint-backend-go/pkg/response"
)

// OptimizationHandler handles HTTP requests for meeting-point optimization
type OptimizationHandler struct {
	service *service.OptimizationService
}

// NewOptimizationHandler creates a new optimization handler
func NewOptimizationHandler(service *service.OptimizationService) *OptimizationHandler {
	return &OptimizationHandler{service: service}
}

// Optimize handles POST /api/v1/optimize
func (h *OptimizationHandler) Optimize(c *gin.Context) {
	var req models.OptimizeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body: "+err.Error())
		return
	}
	if err := req.Validate(); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	result, err := h.service.RunOptimization(c.Request.Context(), &req)
	if err != nil {
		switch {
		case errors.Is(err, models.ErrConfiguration), errors.Is(err, models.ErrInputValidation):
			response.BadRequest(c, err.Error())
		case errors.Is(err, pipeline.ErrNoValidCandidates):
			response.Unprocessable(c, err.Error())
		default:
			response.InternalError(c, err.Error())
		}
		return
	}

	response.Success(c, result)
}

// GenerateHypotheses handles POST /api/v1/hypotheses
func (h *OptimizationHandler) GenerateHypotheses(c *gin.Context) {
	var req models.HypothesesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body: "+err.Error())
		return
	}
	if err := req.Validate(); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	points, err := h.service.GenerateHypotheses(&req)
	if err != nil {
		if errors.Is(err, models.ErrConfiguration) {
			response.BadRequest(c, err.Error())
			return
		}
		response.InternalError(c, err.Error())
		return
	}

	response.Success(c, gin.H{
		"points": points,
		"count":  len(points),
	})
}

// Rescore handles POST /api/v1/rescore
func (h *OptimizationHandler) Rescore(c *gin.Context) {
	var req models.RescoreRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	ranked, err := h.service.Rescore(&req)
	if err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	response.Success(c, gin.H{
		"candidates": ranked,
		"goal":       req.Goal,
	})
}

// Geocode handles POST /api/v1/geocode
func (h *OptimizationHandler) Geocode(c *gin.Context) {
	var req models.GeocodeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body: "+err.Error())
		return
	}
	if err := req.Validate(); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	coord, err := h.service.Geocode(c.Request.Context(), req.Address)
	if err != nil {
		response.BadGateway(c, "Failed to geocode address: "+err.Error())
		return
	}

	response.Success(c, gin.H{
		"address":    req.Address,
		"coordinate": coord,
	})
}

// Reachability handles POST /api/v1/reachability
func (h *OptimizationHandler) Reachability(c *gin.Context) {
	var req models.ReachabilityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body: "+err.Error())
		return
	}
	if err := req.Validate(); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	polygon, err := h.service.Reachability(c.Request.Context(), &req)
	if err != nil {
		response.BadGateway(c, "Failed to compute reachability: "+err.Error())
		return
	}

	response.Success(c, polygon)
}
