// internal/interfaces/http/handlers/respond.go
package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/your-org/marketplace-backend/internal/pkg/apperror"
)

// respondError renders a service error. Categorized errors map to their
// HTTP status with a stable code; anything else becomes an opaque 500 so
// internal details never leak to clients.
func respondError(c *gin.Context, err error) {
	if appErr, ok := apperror.As(err); ok {
		c.JSON(apperror.HTTPStatus(err), gin.H{
			"error": appErr.Message,
			"code":  appErr.Code,
		})
		return
	}

	logrus.WithFields(logrus.Fields{
		"request_id": c.GetString("request_id"),
		"path":       c.FullPath(),
	}).WithError(err).Error("request failed")

	c.JSON(http.StatusInternalServerError, gin.H{
		"error": "An internal error occurred",
		"code":  apperror.CodeInternal,
	})
}

// respondBindError renders a request body or query binding failure.
func respondBindError(c *gin.Context, err error) {
	c.JSON(http.StatusBadRequest, gin.H{
		"error":   "Invalid request data",
		"code":    apperror.CodeInvalidInput,
		"details": err.Error(),
	})
}
