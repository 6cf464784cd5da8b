package api

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/ridloal/blood-portal/internal/fulfillment/domain"
	"github.com/ridloal/blood-portal/internal/fulfillment/service"
	"github.com/ridloal/blood-portal/internal/platform/apiclient"
	"github.com/ridloal/blood-portal/internal/platform/logger"
	"github.com/ridloal/blood-portal/internal/platform/session"
	"github.com/ridloal/blood-portal/internal/platform/sse"
)

const streamHeartbeat = 25 * time.Second

type FulfillmentHandler struct {
	fulfillmentService service.FulfillmentService
	hub                *sse.Hub
}

func NewFulfillmentHandler(fs service.FulfillmentService, hub *sse.Hub) *FulfillmentHandler {
	return &FulfillmentHandler{fulfillmentService: fs, hub: hub}
}

// RegisterRoutes expects a PMI-only group.
func (h *FulfillmentHandler) RegisterRoutes(router *gin.RouterGroup) {
	fulfillmentRoutes := router.Group("/fulfillments")
	{
		fulfillmentRoutes.GET("/stats", h.GetStats)
		fulfillmentRoutes.GET("/:id", h.GetDetail)
		fulfillmentRoutes.GET("/:id/confirmations", h.ListConfirmations)
		fulfillmentRoutes.POST("/:id/initiate", h.Initiate)
		fulfillmentRoutes.POST("/:id/cancel", h.Cancel)
		fulfillmentRoutes.GET("/:id/stream", h.Stream)
	}
}

func (h *FulfillmentHandler) GetStats(c *gin.Context) {
	sess := session.FromContext(c)
	stats, err := h.fulfillmentService.Stats(c.Request.Context(), sess.InstitutionID)
	if err != nil {
		logger.Error("GetStats Hdl: service error", err, nil)
		apiclient.AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": stats})
}

func (h *FulfillmentHandler) GetDetail(c *gin.Context) {
	detail, err := h.fulfillmentService.GetDetail(c.Request.Context(), c.Param("id"))
	if err != nil {
		apiclient.AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": detail})
}

func (h *FulfillmentHandler) ListConfirmations(c *gin.Context) {
	confirmations, err := h.fulfillmentService.ListConfirmations(c.Request.Context(), c.Param("id"))
	if err != nil {
		logger.Error("ListConfirmations Hdl: service error", err, nil)
		// List gagal: kosong + pesan error
		status, msg := apiclient.StatusFor(err)
		c.JSON(status, gin.H{"data": []domain.DonorConfirmation{}, "message": msg})
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": confirmations})
}

func (h *FulfillmentHandler) Initiate(c *gin.Context) {
	result, err := h.fulfillmentService.Initiate(c.Request.Context(), session.FromContext(c), c.Param("id"))
	if err != nil {
		h.writeMutationError(c, err)
		return
	}
	apiclient.Success(c, http.StatusOK, result.Message, nil)
}

func (h *FulfillmentHandler) Cancel(c *gin.Context) {
	var req domain.CancelRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": service.ErrReasonRequired.Error()})
		return
	}
	result, err := h.fulfillmentService.Cancel(c.Request.Context(), session.FromContext(c), c.Param("id"), req.Reason)
	if err != nil {
		h.writeMutationError(c, err)
		return
	}
	apiclient.Success(c, http.StatusOK, result.Message, nil)
}

// Stream pushes progress snapshots while the detail view is open.
func (h *FulfillmentHandler) Stream(c *gin.Context) {
	id := c.Param("id")
	detail, err := h.fulfillmentService.Watch(c.Request.Context(), id)
	if err != nil {
		apiclient.AbortWithError(c, err)
		return
	}
	defer h.fulfillmentService.Unwatch(id)

	client := sse.NewClient(service.Topic(id))
	h.hub.Register(client)
	if ev, err := sse.NewJSONEvent(service.EventProgress, detail); err == nil {
		client.Events <- ev
	}
	h.hub.Stream(c, client, streamHeartbeat)
}

func (h *FulfillmentHandler) writeMutationError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrReasonRequired):
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": err.Error()})
	case errors.Is(err, service.ErrCannotInitiate), errors.Is(err, service.ErrAlreadyTerminal):
		c.JSON(http.StatusConflict, gin.H{"success": false, "message": err.Error()})
	default:
		apiclient.AbortWithError(c, err)
	}
}
