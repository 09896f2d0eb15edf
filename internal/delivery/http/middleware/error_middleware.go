package middleware

import (
	"errors"
	"math"
	"net/http"
	"strconv"

	"cv-platform-backend/internal/delivery/http/response"
	"cv-platform-backend/pkg/apperror"
	"cv-platform-backend/pkg/logger"

	"github.com/gin-gonic/gin"
)

func ErrorHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if len(c.Errors) == 0 || c.Writer.Written() {
			return
		}

		err := c.Errors.Last().Err
		var appErr *apperror.AppError
		if errors.As(err, &appErr) {
			if appErr.Code >= http.StatusInternalServerError {
				logger.Log.Error("Request failed", "path", c.FullPath(), "error", appErr.Err, "request_id", c.GetString("RequestID"))
			}
			if appErr.RetryAfter > 0 {
				c.Header("Retry-After", strconv.Itoa(int(math.Ceil(appErr.RetryAfter.Seconds()))))
			}
			response.Error(c, appErr.Code, appErr.Message, appErr.Detail)
			return
		}

		// Unknown errors are logged server-side and replaced by a generic message.
		logger.Log.Error("Internal Server Error", "path", c.FullPath(), "error", err, "request_id", c.GetString("RequestID"))
		response.Error(c, http.StatusInternalServerError, "Erreur serveur", "")
	}
}
