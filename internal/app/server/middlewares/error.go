package middlewares

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"paysvc/internal/app/pkg/ginx"
	"paysvc/internal/app/pkg/logger"
)

// ErrorHandler 统一错误处理中间件
// 1. 捕获 panic，返回 500
// 2. 记录 handler 通过 c.Error 挂上的错误
func ErrorHandler(log logger.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if r := recover(); r != nil {
				log.ErrorContext(c.Request.Context(), "Panic recovered",
					"path", c.Request.URL.Path,
					"panic", r,
				)
				if !c.Writer.Written() {
					ginx.InternalError(c, "Internal server error")
				}
				c.Abort()
			}
		}()

		c.Next()

		for _, err := range c.Errors {
			log.ErrorContext(c.Request.Context(), "Request failed",
				"method", c.Request.Method,
				"path", c.Request.URL.Path,
				"error", err.Err,
			)
		}

		if len(c.Errors) > 0 && !c.Writer.Written() {
			ginx.Error(c, http.StatusInternalServerError, "Internal server error")
		}
	}
}
