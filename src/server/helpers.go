package server

import (
	"errors"
	"net/http"

	"seasonality-dashboard/src/controller"
	"seasonality-dashboard/src/helpers"

	"github.com/gin-gonic/gin"
)

// -----------------------------------------------------------------------------

// statusFor maps the error taxonomy onto HTTP statuses.
func statusFor(err error) int {
	switch {
	case helpers.IsValidationError(err):
		return http.StatusUnprocessableEntity
	case errors.Is(err, controller.ErrStopped):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

// -----------------------------------------------------------------------------

func (s *DashboardServer) abortWithError(c *gin.Context, action string, err error) {
	status := statusFor(err)
	if status >= http.StatusInternalServerError {
		s.Logger.Error("%s failed: %v", action, err)
	}
	c.AbortWithStatusJSON(status, gin.H{"error": err.Error()})
}

// -----------------------------------------------------------------------------

func bindJSON(c *gin.Context, dst interface{}) bool {
	if err := c.ShouldBindJSON(dst); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return false
	}
	return true
}
