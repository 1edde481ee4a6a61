package middleware

import (
	"bytes"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"

	"github.com/homeward-labs/homegate-server/internal/logger"
)

func TestLogging_Handle(t *testing.T) {
	gin.SetMode(gin.TestMode)

	var buf bytes.Buffer
	l := &logger.Logger{Logger: slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{}))}

	engine := gin.New()
	engine.Use(NewLogging(l).Handle())
	engine.GET("/ping", func(c *gin.Context) { c.Status(http.StatusNoContent) })

	req := httptest.NewRequest(http.MethodGet, "/ping", nil)
	rec := httptest.NewRecorder()
	engine.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Contains(t, buf.String(), "method=GET")
	assert.Contains(t, buf.String(), "path=/ping")
	assert.Contains(t, buf.String(), "status=204")
}
