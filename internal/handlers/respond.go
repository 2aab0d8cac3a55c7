package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"enough/internal/apperrors"
)

// respondError maps service errors to HTTP responses. Application errors
// carry their own status; anything else is a generic 500 so storage details
// never leak to the client.
func respondError(c *gin.Context, err error) {
	var appErr *apperrors.Error
	if errors.As(err, &appErr) {
		c.JSON(appErr.HTTPStatus(), gin.H{"error": appErr.Message})
		return
	}
	c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
}
