package handler

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/studiokit/backend/internal/metrics"
)

func MetricsMiddleware(rec metrics.Recorder) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		rec.RecordRequest(c.Request.Method, c.FullPath(), c.Writer.Status(), time.Since(start))
	}
}
