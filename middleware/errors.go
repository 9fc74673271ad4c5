package middleware

import (
	"fmt"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	config "github.com/eventdekho/eventdekho-api/config"
	utils "github.com/eventdekho/eventdekho-api/utils"
)

// ErrorHandler is the catch-all for panics and for errors a handler pushed
// onto c.Errors without writing a response.
func ErrorHandler(cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if r := recover(); r != nil {
				err, ok := r.(error)
				if !ok {
					err = fmt.Errorf("%v", r)
				}
				utils.ServerError(c, !cfg.IsProduction(), "Internal server error", err)
			}
		}()

		c.Next()

		if len(c.Errors) > 0 && !c.Writer.Written() {
			utils.ServerError(c, !cfg.IsProduction(), "Internal server error", c.Errors.Last().Err)
		}
	}
}

// NotFound renders unknown routes in the standard error shape.
func NotFound() gin.HandlerFunc {
	return func(c *gin.Context) {
		slog.Debug("route not found", "method", c.Request.Method, "path", c.Request.URL.Path)
		utils.Fail(c, http.StatusNotFound, "Route not found: "+c.Request.URL.Path)
	}
}
