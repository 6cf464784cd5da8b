package api

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/ridloal/blood-portal/internal/notification/domain"
	"github.com/ridloal/blood-portal/internal/notification/service"
	"github.com/ridloal/blood-portal/internal/platform/apiclient"
	"github.com/ridloal/blood-portal/internal/platform/logger"
	"github.com/ridloal/blood-portal/internal/platform/session"
	"github.com/ridloal/blood-portal/internal/platform/sse"
)

const streamHeartbeat = 25 * time.Second

type NotificationHandler struct {
	notificationService service.NotificationService
	hub                 *sse.Hub
}

func NewNotificationHandler(ns service.NotificationService, hub *sse.Hub) *NotificationHandler {
	return &NotificationHandler{notificationService: ns, hub: hub}
}

// RegisterRoutes is shared by hospitals and PMI.
func (h *NotificationHandler) RegisterRoutes(router *gin.RouterGroup) {
	routes := router.Group("/notifications")
	{
		routes.GET("", h.List)
		routes.GET("/unread-count", h.UnreadCount)
		routes.GET("/stream", h.Stream)
		routes.PUT("/read-all", h.MarkAllAsRead)
		routes.PUT("/:id/read", h.MarkAsRead)
	}
}

func (h *NotificationHandler) List(c *gin.Context) {
	sess := session.FromContext(c)
	snap, err := h.notificationService.List(c.Request.Context(), sess.InstitutionID)
	if err != nil {
		logger.Error("ListNotifications Hdl: service error", err, nil)
		status, msg := apiclient.StatusFor(err)
		c.JSON(status, gin.H{"data": []domain.Notification{}, "unread_count": 0, "message": msg})
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": snap.Items, "unread_count": snap.UnreadCount})
}

func (h *NotificationHandler) UnreadCount(c *gin.Context) {
	sess := session.FromContext(c)
	count, err := h.notificationService.UnreadCount(c.Request.Context(), sess.InstitutionID)
	if err != nil {
		apiclient.AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": domain.UnreadCount{Count: count}})
}

func (h *NotificationHandler) MarkAsRead(c *gin.Context) {
	if err := h.notificationService.MarkAsRead(c.Request.Context(), session.FromContext(c), c.Param("id")); err != nil {
		apiclient.AbortWithError(c, err)
		return
	}
	apiclient.Success(c, http.StatusOK, "Notification marked as read", nil)
}

func (h *NotificationHandler) MarkAllAsRead(c *gin.Context) {
	if err := h.notificationService.MarkAllAsRead(c.Request.Context(), session.FromContext(c)); err != nil {
		apiclient.AbortWithError(c, err)
		return
	}
	apiclient.Success(c, http.StatusOK, "All notifications marked as read", nil)
}

// Stream keeps the institution's live feed open for as long as the tab is connected.
func (h *NotificationHandler) Stream(c *gin.Context) {
	sess := session.FromContext(c)
	snap, err := h.notificationService.Open(c.Request.Context(), sess.InstitutionID)
	if err != nil {
		apiclient.AbortWithError(c, err)
		return
	}
	defer h.notificationService.Close(sess.InstitutionID)

	client := sse.NewClient(service.Topic(sess.InstitutionID))
	h.hub.Register(client)
	if ev, err := sse.NewJSONEvent(service.EventSnapshot, snap); err == nil {
		client.Events <- ev
	}
	h.hub.Stream(c, client, streamHeartbeat)
}
