package api

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/ridloal/blood-portal/internal/donor/domain"
	"github.com/ridloal/blood-portal/internal/donor/service"
	"github.com/ridloal/blood-portal/internal/platform/apiclient"
	"github.com/ridloal/blood-portal/internal/platform/session"
)

type DonorHandler struct {
	donorService service.DonorService
}

func NewDonorHandler(ds service.DonorService) *DonorHandler {
	return &DonorHandler{donorService: ds}
}

// RegisterRoutes expects a PMI-only group.
func (h *DonorHandler) RegisterRoutes(router *gin.RouterGroup) {
	routes := router.Group("/fulfillments/:id/donors")
	{
		routes.GET("", h.ListRanked)
		routes.POST("/notify", h.Notify)
	}
}

func (h *DonorHandler) ListRanked(c *gin.Context) {
	donors, err := h.donorService.ListRanked(c.Request.Context(), c.Param("id"))
	if err != nil {
		status, msg := apiclient.StatusFor(err)
		c.JSON(status, gin.H{"data": []domain.RankedDonor{}, "message": msg})
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": donors})
}

func (h *DonorHandler) Notify(c *gin.Context) {
	var req domain.NotifyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Invalid request payload: " + err.Error()})
		return
	}
	out, result, err := h.donorService.NotifySelected(c.Request.Context(), session.FromContext(c), c.Param("id"), req.DonorIDs)
	if err != nil {
		if errors.Is(err, service.ErrNoDonorsSelected) {
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": err.Error()})
			return
		}
		apiclient.AbortWithError(c, err)
		return
	}
	apiclient.Success(c, http.StatusOK, result.Message, out)
}
