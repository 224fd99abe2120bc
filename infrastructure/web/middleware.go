package web

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"pair-programming-backend/shared/common/logger"
)

const requestIDKey = "request_id"

// RequestID propagates the platform tracing header, minting one when the caller sent none.
func RequestID(header string) gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(header)
		if id == "" {
			id = uuid.NewString()
		}

		c.Set(requestIDKey, id)
		c.Header(header, id)
		c.Request = c.Request.WithContext(logger.ContextWithRequestID(c.Request.Context(), id))
		c.Next()
	}
}

func RequestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		fields := []zap.Field{
			zap.String("http.request.method", c.Request.Method),
			zap.String("url.path", c.Request.URL.Path),
			zap.Int("http.response.status_code", c.Writer.Status()),
			zap.Duration("duration", time.Since(start)),
			logger.WithRequestID(c.Request.Context()),
		}
		if c.Request.URL.Path == "/health" {
			logger.Debug("Request completed", fields...)
			return
		}
		logger.Info("Request completed", fields...)
	}
}

func Recovery() gin.HandlerFunc {
	return gin.CustomRecovery(func(c *gin.Context, recovered interface{}) {
		logger.Error("Panic recovered",
			zap.Any("panic", recovered),
			zap.String("url.path", c.Request.URL.Path),
			logger.WithRequestID(c.Request.Context()))
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"detail": internalErrorDetail})
	})
}
