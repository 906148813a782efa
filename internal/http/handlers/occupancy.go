package handlers

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/OwaisIslam/living-real/internal/http/response"
	"github.com/OwaisIslam/living-real/internal/platform/logger"
	"github.com/OwaisIslam/living-real/internal/services"
)

type OccupancyHandler struct {
	log                *logger.Logger
	occupancyService   services.OccupancyService
	consistencyService services.ConsistencyService
}

func NewOccupancyHandler(log *logger.Logger, occupancyService services.OccupancyService, consistencyService services.ConsistencyService) *OccupancyHandler {
	return &OccupancyHandler{
		log:                log.With("handler", "OccupancyHandler"),
		occupancyService:   occupancyService,
		consistencyService: consistencyService,
	}
}

type moveRequest struct {
	UserID     uuid.UUID `json:"user_id" binding:"required"`
	PropertyID uuid.UUID `json:"property_id" binding:"required"`
}

// POST /api/occupancy/move-in
func (oh *OccupancyHandler) MoveIn(c *gin.Context) {
	var req moveRequest
	if !bindJSON(c, &req) {
		return
	}
	user, err := oh.occupancyService.MoveIn(c.Request.Context(), req.UserID, req.PropertyID)
	if err != nil {
		response.RespondAPIError(c, oh.log, err)
		return
	}
	response.RespondOK(c, gin.H{"user": user})
}

// POST /api/occupancy/move-out
func (oh *OccupancyHandler) MoveOut(c *gin.Context) {
	var req moveRequest
	if !bindJSON(c, &req) {
		return
	}
	user, err := oh.occupancyService.MoveOut(c.Request.Context(), req.UserID, req.PropertyID)
	if err != nil {
		response.RespondAPIError(c, oh.log, err)
		return
	}
	response.RespondOK(c, gin.H{"user": user})
}

// GET /api/occupancy/consistency
func (oh *OccupancyHandler) Consistency(c *gin.Context) {
	report, err := oh.consistencyService.Check(c.Request.Context())
	if err != nil {
		response.RespondAPIError(c, oh.log, err)
		return
	}
	response.RespondOK(c, gin.H{"report": report, "consistent": report.Consistent()})
}
