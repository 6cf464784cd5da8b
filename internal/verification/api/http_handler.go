package api

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/ridloal/blood-portal/internal/platform/apiclient"
	"github.com/ridloal/blood-portal/internal/platform/session"
	"github.com/ridloal/blood-portal/internal/verification/domain"
	"github.com/ridloal/blood-portal/internal/verification/service"
)

type VerificationHandler struct {
	verificationService service.VerificationService
}

func NewVerificationHandler(vs service.VerificationService) *VerificationHandler {
	return &VerificationHandler{verificationService: vs}
}

// RegisterRoutes expects a PMI-only group.
func (h *VerificationHandler) RegisterRoutes(router *gin.RouterGroup) {
	routes := router.Group("/verification")
	{
		routes.GET("/kind", h.Kind)
		routes.POST("/donor-codes", h.VerifyDonorCode)
		routes.POST("/pickup-codes", h.VerifyPickupCode)
	}
}

// Kind lets the scan screen route a code to the right desk before submitting.
func (h *VerificationHandler) Kind(c *gin.Context) {
	code := service.Normalize(c.Query("code"))
	c.JSON(http.StatusOK, gin.H{"data": gin.H{"code": code, "kind": service.Kind(code)}})
}

func (h *VerificationHandler) VerifyDonorCode(c *gin.Context) {
	var req domain.VerifyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Invalid request payload: " + err.Error()})
		return
	}
	out, result, err := h.verificationService.VerifyDonorCode(c.Request.Context(), session.FromContext(c), req.Code)
	if err != nil {
		writeVerifyError(c, err)
		return
	}
	apiclient.Success(c, http.StatusOK, result.Message, out)
}

func (h *VerificationHandler) VerifyPickupCode(c *gin.Context) {
	var req domain.VerifyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Invalid request payload: " + err.Error()})
		return
	}
	out, result, err := h.verificationService.VerifyPickupCode(c.Request.Context(), session.FromContext(c), req.Code)
	if err != nil {
		writeVerifyError(c, err)
		return
	}
	apiclient.Success(c, http.StatusOK, result.Message, out)
}

func writeVerifyError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrInvalidDonorCode), errors.Is(err, service.ErrInvalidPickupCode):
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": err.Error()})
	case errors.Is(err, service.ErrWrongCodeKind):
		c.JSON(http.StatusUnprocessableEntity, gin.H{"success": false, "message": err.Error()})
	default:
		apiclient.AbortWithError(c, err)
	}
}
