package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// ReportErrors forwards errors attached to server-side failures (5xx) to
// capture. Degraded 200 responses and client errors are not reported.
func ReportErrors(capture func(error)) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()
		if capture == nil || c.Writer.Status() < http.StatusInternalServerError {
			return
		}
		for _, ginErr := range c.Errors {
			capture(ginErr.Err)
		}
	}
}
