package logger

import (
	"time"

	"github.com/gin-gonic/gin"
)

// LogWithWriter logs one line per request once the handler chain returns.
func LogWithWriter() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path
		if raw := c.Request.URL.RawQuery; raw != "" {
			path = path + "?" + raw
		}

		c.Next()

		status := c.Writer.Status()
		latency := time.Since(start)
		switch {
		case status >= 500:
			Errorf(c, "%s %s %d %s %s %s", c.Request.Method, path, status, latency, c.ClientIP(), c.Errors.String())
		case status >= 400:
			Warnf(c, "%s %s %d %s %s", c.Request.Method, path, status, latency, c.ClientIP())
		default:
			Infof(c, "%s %s %d %s %s", c.Request.Method, path, status, latency, c.ClientIP())
		}
	}
}
