package api

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/ridloal/blood-portal/internal/fulfillment/domain"
	"github.com/ridloal/blood-portal/internal/fulfillment/service"
	"github.com/ridloal/blood-portal/internal/fulfillment/service/mocks"
	"github.com/ridloal/blood-portal/internal/platform/apiclient"
	"github.com/ridloal/blood-portal/internal/platform/sse"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

func setupRouter(svc service.FulfillmentService) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	NewFulfillmentHandler(svc, sse.NewHub()).RegisterRoutes(r.Group("/api/v1/portal"))
	return r
}

func TestFulfillmentHandler(t *testing.T) {
	svc := new(mocks.MockFulfillmentService)
	r := setupRouter(svc)

	t.Run("Detail", func(t *testing.T) {
		detail := &domain.FulfillmentDetail{
			Fulfillment: domain.FulfillmentRequest{ID: "f1", QuantityNeeded: 2, QuantityCollected: 1},
			Progress:    domain.Progress{ProgressPercentage: 50},
		}
		svc.On("GetDetail", mock.Anything, "f1").Return(detail, nil).Once()

		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/portal/fulfillments/f1", nil))
		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), `"progress_percentage":50`)
	})

	t.Run("Backend unreachable", func(t *testing.T) {
		svc.On("GetDetail", mock.Anything, "f2").Return(nil, fmt.Errorf("%w: dial tcp", apiclient.ErrTransport)).Once()

		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/portal/fulfillments/f2", nil))
		assert.Equal(t, http.StatusBadGateway, w.Code)
		assert.Contains(t, w.Body.String(), `"success":false`)
	})

	t.Run("Confirmations degrade to empty list", func(t *testing.T) {
		svc.On("ListConfirmations", mock.Anything, "f3").Return(nil, fmt.Errorf("%w: status 500", apiclient.ErrUnexpected)).Once()

		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/portal/fulfillments/f3/confirmations", nil))
		assert.Equal(t, http.StatusInternalServerError, w.Code)
		assert.Contains(t, w.Body.String(), `"data":[]`)
	})

	t.Run("Cancel without reason", func(t *testing.T) {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/api/v1/portal/fulfillments/f1/cancel", strings.NewReader(`{}`)))
		assert.Equal(t, http.StatusBadRequest, w.Code)
		svc.AssertNotCalled(t, "Cancel", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("Cancel surfaces backend message", func(t *testing.T) {
		svc.On("Cancel", mock.Anything, mock.Anything, "f1", "No longer needed").
			Return(&apiclient.MutationResult{Success: true, Message: "Fulfillment cancelled"}, nil).Once()

		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/api/v1/portal/fulfillments/f1/cancel", strings.NewReader(`{"reason":"No longer needed"}`)))
		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), `"message":"Fulfillment cancelled"`)
	})

	t.Run("Initiate from wrong status", func(t *testing.T) {
		svc.On("Initiate", mock.Anything, mock.Anything, "f4").Return(nil, fmt.Errorf("%w: current status is fulfilled", service.ErrCannotInitiate)).Once()

		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/api/v1/portal/fulfillments/f4/initiate", nil))
		assert.Equal(t, http.StatusConflict, w.Code)
	})

	t.Run("Validation failure keeps backend status", func(t *testing.T) {
		svc.On("Initiate", mock.Anything, mock.Anything, "f5").Return(nil, &apiclient.APIError{StatusCode: 422, Message: "Blood request not approved"}).Once()

		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/api/v1/portal/fulfillments/f5/initiate", nil))
		assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
		assert.Contains(t, w.Body.String(), "Blood request not approved")
	})

	svc.AssertExpectations(t)
}
