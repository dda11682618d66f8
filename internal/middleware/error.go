package middleware

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	apperrors "github.com/qobilovfirdavs02/ChatApp-server/pkg/errors"
	"github.com/qobilovfirdavs02/ChatApp-server/pkg/logger"
)

// ErrorHandlerMiddleware turns AppErrors attached to the context into
// JSON responses; anything else becomes a 500.
func ErrorHandlerMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if len(c.Errors) == 0 {
			return
		}

		err := c.Errors.Last().Err
		var appErr *apperrors.AppError
		if errors.As(err, &appErr) {
			c.JSON(appErr.Code, gin.H{"error": appErr.Message})
			return
		}

		logger.Error().Err(err).Str("path", c.Request.URL.Path).Msg("unhandled error")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
	}
}
