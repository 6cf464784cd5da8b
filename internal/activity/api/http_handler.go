package api

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/ridloal/blood-portal/internal/activity/domain"
	"github.com/ridloal/blood-portal/internal/activity/service"
	"github.com/ridloal/blood-portal/internal/platform/logger"
	"github.com/ridloal/blood-portal/internal/platform/session"
)

type ActivityHandler struct {
	activityService service.ActivityService
}

func NewActivityHandler(as service.ActivityService) *ActivityHandler {
	return &ActivityHandler{activityService: as}
}

func (h *ActivityHandler) RegisterRoutes(router *gin.RouterGroup) {
	router.GET("/activity", h.ListActivity)
}

// ListActivity: ?limit=20&action=pickup.created,blood_request.approved
func (h *ActivityHandler) ListActivity(c *gin.Context) {
	sess := session.FromContext(c)
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))

	var actions []domain.Action
	if raw := c.Query("action"); raw != "" {
		for _, a := range strings.Split(raw, ",") {
			if a = strings.TrimSpace(a); a != "" {
				actions = append(actions, domain.Action(a))
			}
		}
	}

	entries, err := h.activityService.List(c.Request.Context(), sess.InstitutionID, actions, limit)
	if err != nil {
		logger.Error("ListActivity Hdl: service error", err, nil)
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Failed to load activity"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": entries})
}
