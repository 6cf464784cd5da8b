package api

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/ridloal/blood-portal/internal/allocation/domain"
	"github.com/ridloal/blood-portal/internal/allocation/service"
	"github.com/ridloal/blood-portal/internal/platform/apiclient"
	"github.com/ridloal/blood-portal/internal/platform/logger"
	"github.com/ridloal/blood-portal/internal/platform/session"
)

type AllocationHandler struct {
	allocationService service.AllocationService
}

func NewAllocationHandler(as service.AllocationService) *AllocationHandler {
	return &AllocationHandler{allocationService: as}
}

// RegisterRoutes expects a PMI-only group.
func (h *AllocationHandler) RegisterRoutes(router *gin.RouterGroup) {
	routes := router.Group("/blood-requests/:id")
	{
		routes.GET("/pickup-sources", h.GetSources)
		routes.GET("/pickup-plan", h.PlanPickup)
		routes.GET("/allocation-summary", h.GetSummary)
		routes.POST("/pickups", h.CreatePickup)
	}
}

func (h *AllocationHandler) GetSources(c *gin.Context) {
	sources, err := h.allocationService.GetSources(c.Request.Context(), c.Param("id"))
	if err != nil {
		logger.Error("GetSources Hdl: service error", err, nil)
		apiclient.AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": sources})
}

func (h *AllocationHandler) PlanPickup(c *gin.Context) {
	plan, err := h.allocationService.PlanPickup(c.Request.Context(), c.Param("id"))
	if err != nil {
		apiclient.AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": gin.H{
		"plan":           plan,
		"total_selected": service.TotalSelected(plan),
	}})
}

func (h *AllocationHandler) GetSummary(c *gin.Context) {
	summary, err := h.allocationService.GetSummary(c.Request.Context(), session.FromContext(c).InstitutionID, c.Param("id"))
	if err != nil {
		apiclient.AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": summary})
}

func (h *AllocationHandler) CreatePickup(c *gin.Context) {
	var req domain.CreatePickupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Invalid request payload: " + err.Error()})
		return
	}

	pickup, result, err := h.allocationService.CreatePickup(c.Request.Context(), session.FromContext(c), c.Param("id"), req)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrScheduleRequired):
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": err.Error()})
		case errors.Is(err, service.ErrExceedsAvailable),
			errors.Is(err, service.ErrInvalidQuantity),
			errors.Is(err, service.ErrUnknownSource),
			errors.Is(err, service.ErrInsufficientSelection):
			c.JSON(http.StatusUnprocessableEntity, gin.H{"success": false, "message": err.Error()})
		default:
			apiclient.AbortWithError(c, err)
		}
		return
	}
	apiclient.Success(c, http.StatusCreated, result.Message, pickup)
}
