package api

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/ridloal/blood-portal/internal/platform/apiclient"
	"github.com/ridloal/blood-portal/internal/platform/logger"
	"github.com/ridloal/blood-portal/internal/platform/session"
	"github.com/ridloal/blood-portal/internal/stock/domain"
	"github.com/ridloal/blood-portal/internal/stock/service"
)

type StockHandler struct {
	stockService service.StockService
	now          func() time.Time
}

func NewStockHandler(ss service.StockService) *StockHandler {
	return &StockHandler{stockService: ss, now: time.Now}
}

func (h *StockHandler) RegisterRoutes(router *gin.RouterGroup) {
	routes := router.Group("/blood-stock")
	{
		routes.GET("", h.List)
		routes.GET("/summary", h.Summary)
	}
}

func (h *StockHandler) List(c *gin.Context) {
	sess := session.FromContext(c)
	stock, err := h.stockService.List(c.Request.Context(), sess.InstitutionID)
	if err != nil {
		logger.Error("ListStock Hdl: service error", err, nil)
		status, msg := apiclient.StatusFor(err)
		c.JSON(status, gin.H{"data": []domain.BloodStock{}, "message": msg})
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": stock})
}

func (h *StockHandler) Summary(c *gin.Context) {
	sess := session.FromContext(c)
	summary, err := h.stockService.Summary(c.Request.Context(), sess.InstitutionID, h.now())
	if err != nil {
		apiclient.AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": summary})
}
