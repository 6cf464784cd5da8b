package api

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/ridloal/blood-portal/internal/bloodrequest/domain"
	"github.com/ridloal/blood-portal/internal/bloodrequest/service"
	"github.com/ridloal/blood-portal/internal/platform/apiclient"
	"github.com/ridloal/blood-portal/internal/platform/logger"
	"github.com/ridloal/blood-portal/internal/platform/session"
)

type BloodRequestHandler struct {
	bloodRequestService service.BloodRequestService
}

func NewBloodRequestHandler(bs service.BloodRequestService) *BloodRequestHandler {
	return &BloodRequestHandler{bloodRequestService: bs}
}

func (h *BloodRequestHandler) RegisterRoutes(router *gin.RouterGroup) {
	routes := router.Group("/blood-requests")
	{
		routes.GET("", h.List)
		routes.GET("/export", h.Export)
		routes.GET("/:id", h.Get)
		routes.POST("", session.RequireType(session.TypeHospital), h.Create)
		routes.PUT("/:id/cancel", h.Cancel)
		routes.PUT("/:id/approve", session.RequireType(session.TypePMI), h.Approve)
		routes.PUT("/:id/reject", session.RequireType(session.TypePMI), h.Reject)
	}
}

func parseFilter(c *gin.Context) domain.ListFilter {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "10"))
	return domain.ListFilter{
		Status:    domain.Status(c.Query("status")),
		BloodType: c.Query("blood_type"),
		Urgency:   domain.Urgency(c.Query("urgency")),
		Search:    c.Query("search"),
		Page:      page,
		Limit:     limit,
	}
}

func (h *BloodRequestHandler) List(c *gin.Context) {
	res, err := h.bloodRequestService.List(c.Request.Context(), session.FromContext(c), parseFilter(c))
	if err != nil {
		logger.Error("ListBloodRequests Hdl: service error", err, nil)
		status, msg := apiclient.StatusFor(err)
		c.JSON(status, gin.H{"data": []domain.BloodRequest{}, "message": msg})
		return
	}
	c.JSON(http.StatusOK, res)
}

func (h *BloodRequestHandler) Get(c *gin.Context) {
	r, err := h.bloodRequestService.Get(c.Request.Context(), session.FromContext(c), c.Param("id"))
	if err != nil {
		apiclient.AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": r})
}

func (h *BloodRequestHandler) Create(c *gin.Context) {
	var req domain.CreateBloodRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Invalid request payload: " + err.Error()})
		return
	}

	created, result, err := h.bloodRequestService.Create(c.Request.Context(), session.FromContext(c), req)
	if err != nil {
		writeMutationError(c, err)
		return
	}
	apiclient.Success(c, http.StatusCreated, result.Message, created)
}

func (h *BloodRequestHandler) Approve(c *gin.Context) {
	result, err := h.bloodRequestService.Approve(c.Request.Context(), session.FromContext(c), c.Param("id"))
	if err != nil {
		writeMutationError(c, err)
		return
	}
	apiclient.Success(c, http.StatusOK, result.Message, nil)
}

func (h *BloodRequestHandler) Reject(c *gin.Context) {
	var req domain.ReasonRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": service.ErrReasonRequired.Error()})
		return
	}
	result, err := h.bloodRequestService.Reject(c.Request.Context(), session.FromContext(c), c.Param("id"), req.Reason)
	if err != nil {
		writeMutationError(c, err)
		return
	}
	apiclient.Success(c, http.StatusOK, result.Message, nil)
}

func (h *BloodRequestHandler) Cancel(c *gin.Context) {
	var req domain.ReasonRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": service.ErrReasonRequired.Error()})
		return
	}
	result, err := h.bloodRequestService.Cancel(c.Request.Context(), session.FromContext(c), c.Param("id"), req.Reason)
	if err != nil {
		writeMutationError(c, err)
		return
	}
	apiclient.Success(c, http.StatusOK, result.Message, nil)
}

// Export GET /blood-requests/export
func (h *BloodRequestHandler) Export(c *gin.Context) {
	f, filename, err := h.bloodRequestService.Export(c.Request.Context(), session.FromContext(c), parseFilter(c))
	if err != nil {
		apiclient.AbortWithError(c, err)
		return
	}
	defer f.Close()

	c.Header("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	c.Header("Content-Disposition", "attachment; filename=\""+filename+"\"")
	c.Header("Content-Transfer-Encoding", "binary")

	if err := f.Write(c.Writer); err != nil {
		logger.Error("ExportBloodRequests Hdl: write excel failed", err, nil)
	}
}

func writeMutationError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrReasonRequired),
		errors.Is(err, service.ErrInvalidBloodType),
		errors.Is(err, service.ErrInvalidRhesus),
		errors.Is(err, service.ErrInvalidQuantity),
		errors.Is(err, service.ErrInvalidUrgency):
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": err.Error()})
	default:
		apiclient.AbortWithError(c, err)
	}
}
