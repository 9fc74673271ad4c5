package utils

import (
	"log/slog"
	"net/http"
	"runtime/debug"

	sentrygin "github.com/getsentry/sentry-go/gin"
	"github.com/gin-gonic/gin"
)

// Fail aborts with the standard error body.
func Fail(c *gin.Context, status int, message string) {
	c.AbortWithStatusJSON(status, gin.H{"message": message})
}

// ServerError aborts with a 500 carrying the underlying error. The stack is
// only attached when withStack is set (non-production).
func ServerError(c *gin.Context, withStack bool, message string, err error) {
	slog.Error(message, "error", err, "method", c.Request.Method, "path", c.FullPath())
	if hub := sentrygin.GetHubFromContext(c); hub != nil {
		hub.CaptureException(err)
	}

	body := gin.H{"message": message, "error": err.Error()}
	if withStack {
		body["stack"] = string(debug.Stack())
	}
	c.AbortWithStatusJSON(http.StatusInternalServerError, body)
}
