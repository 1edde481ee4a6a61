package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/homeward-labs/homegate-server/internal/logger"
)

// serviceUnavailable reports an infrastructure failure. The cause is logged
// server-side but never leaked to the client.
func serviceUnavailable(c *gin.Context, logger *logger.Logger, err error) {
	logger.Error("HTTP handler: infrastructure failure",
		"method", c.Request.Method,
		"path", c.Request.URL.Path,
		"error", err.Error())
	c.JSON(http.StatusServiceUnavailable, gin.H{"error": "service unavailable"})
}
