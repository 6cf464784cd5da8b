package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/ridloal/blood-portal/internal/institution/domain"
	"github.com/ridloal/blood-portal/internal/institution/service"
	"github.com/ridloal/blood-portal/internal/platform/apiclient"
	"github.com/ridloal/blood-portal/internal/platform/logger"
	"github.com/ridloal/blood-portal/internal/platform/session"
)

type InstitutionHandler struct {
	institutionService service.InstitutionService
}

func NewInstitutionHandler(is service.InstitutionService) *InstitutionHandler {
	return &InstitutionHandler{institutionService: is}
}

// RegisterRoutes serves the caller's own institution only.
func (h *InstitutionHandler) RegisterRoutes(router *gin.RouterGroup) {
	routes := router.Group("/institution")
	{
		routes.GET("", h.GetProfile)
		routes.GET("/partners", h.ListPartners)
	}
}

func (h *InstitutionHandler) GetProfile(c *gin.Context) {
	sess := session.FromContext(c)
	inst, err := h.institutionService.GetProfile(c.Request.Context(), sess.InstitutionID)
	if err != nil {
		apiclient.AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": inst})
}

func (h *InstitutionHandler) ListPartners(c *gin.Context) {
	sess := session.FromContext(c)
	activeOnly := c.Query("active") == "true"
	partners, err := h.institutionService.ListPartners(c.Request.Context(), sess.InstitutionID, activeOnly)
	if err != nil {
		logger.Error("ListPartners Hdl: service error", err, nil)
		status, msg := apiclient.StatusFor(err)
		c.JSON(status, gin.H{"data": []domain.Partner{}, "message": msg})
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": partners})
}
