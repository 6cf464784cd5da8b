package apiclient

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
)

// StatusFor maps a backend error onto the status the portal answers with.
func StatusFor(err error) (int, string) {
	var apiErr *APIError
	switch {
	case errors.As(err, &apiErr):
		return apiErr.StatusCode, apiErr.Message
	case errors.Is(err, ErrNotFound):
		return http.StatusNotFound, ErrNotFound.Error()
	case errors.Is(err, ErrTransport):
		return http.StatusBadGateway, "Blood service is unreachable, please try again"
	default:
		return http.StatusInternalServerError, "Something went wrong, please try again"
	}
}

// AbortWithError writes the mutation envelope for a failed call.
func AbortWithError(c *gin.Context, err error) {
	status, msg := StatusFor(err)
	c.JSON(status, gin.H{"success": false, "message": msg})
}

// Success writes the mutation envelope for a successful call.
func Success(c *gin.Context, status int, message string, data interface{}) {
	body := gin.H{"success": true, "message": message}
	if data != nil {
		body["data"] = data
	}
	c.JSON(status, body)
}
