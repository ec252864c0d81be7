package rest

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	apierrors "github.com/feral-file/ff-social-escrow/internal/api/shared/errors"
	"github.com/feral-file/ff-social-escrow/internal/logger"
)

// respondBadRequest responds with a bad request error
func respondBadRequest(c *gin.Context, message string, details ...string) {
	respondAPIError(c, apierrors.NewBadRequestError(message, details...))
}

// respondNotFound responds with a not found error
func respondNotFound(c *gin.Context, message string, details ...string) {
	respondAPIError(c, apierrors.NewNotFoundError(message, details...))
}

// respondValidationError responds with a validation error, keeping the code of an API error
func respondValidationError(c *gin.Context, err error) {
	apiErr := apierrors.FromError(err)
	if apiErr.StatusCode() >= 500 {
		apiErr = apierrors.NewValidationError(err.Error())
	}
	respondAPIError(c, apiErr)
}

// respondError responds with the API error of err. Unexpected errors are
// logged and reported with message.
func respondError(c *gin.Context, err error, message string) {
	apiErr := apierrors.FromError(err)
	if apiErr.StatusCode() >= 500 {
		logger.ErrorCtx(c.Request.Context(), err,
			zap.String("message", message),
			zap.String("path", c.Request.URL.Path),
		)
		if apiErr.Code == apierrors.ErrCodeInternalError {
			apiErr = apierrors.NewInternalError(message)
		}
	}
	respondAPIError(c, apiErr)
}

func respondAPIError(c *gin.Context, apiErr *apierrors.APIError) {
	c.JSON(apiErr.StatusCode(), apiErr)
}
