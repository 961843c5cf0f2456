package handler

import (
	"net/http"

	"github.com/astrahq/auth-service/internal/constants"
	apperrors "github.com/astrahq/auth-service/internal/errors"
	"github.com/gin-gonic/gin"
)

// respondError writes the error body for a failed operation. Validation
// failures return the raw field map; everything else returns a message
// body with the mapped status code.
func respondError(c *gin.Context, err error) {
	if ve, ok := apperrors.AsValidation(err); ok {
		c.JSON(http.StatusBadRequest, ve.Fields)
		return
	}

	status := apperrors.ToHTTPStatus(err)
	c.JSON(status, constants.BuildErrorResponse(apperrors.GetErrorMessage(err), nil))
}

// currentUserID reads the authenticated user ID set by the auth middleware.
func currentUserID(c *gin.Context) (uint, bool) {
	value, exists := c.Get(constants.GinKeyUserID)
	if !exists {
		return 0, false
	}

	id, ok := value.(uint)
	return id, ok
}
