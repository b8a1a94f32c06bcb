package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"stockbook/internal/core/apperror"
	"stockbook/pkg/logger"
)

// ErrorResponse is the JSON body returned for failed requests.
type ErrorResponse struct {
	Code    string         `json:"code"`
	Message string         `json:"message"`
	Details map[string]any `json:"details,omitempty"`
}

// ErrorHandler converts errors attached to the gin context into a uniform
// JSON error body. Handlers report failures via c.Error and abort; this
// middleware picks up the last error after the chain completes.
func ErrorHandler(log *logger.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if len(c.Errors) == 0 {
			return
		}

		err := c.Errors.Last().Err

		if appErr, ok := apperror.AsAppError(err); ok {
			if appErr.HTTPStatus >= http.StatusInternalServerError {
				log.WithContext(c.Request.Context()).Errorw("request failed",
					"code", appErr.Code,
					"error", appErr.Error(),
				)
			}
			c.JSON(appErr.HTTPStatus, ErrorResponse{
				Code:    appErr.Code,
				Message: appErr.Message,
				Details: appErr.Details,
			})
			return
		}

		log.WithContext(c.Request.Context()).Errorw("unhandled error", "error", err.Error())
		c.JSON(http.StatusInternalServerError, ErrorResponse{
			Code:    apperror.CodeInternal,
			Message: "internal server error",
		})
	}
}
