package logger

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func newObservedEngine(t *testing.T) (*gin.Engine, *observer.ObservedLogs) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	core, logs := observer.New(zapcore.DebugLevel)
	restore := zap.ReplaceGlobals(zap.New(core))
	t.Cleanup(restore)

	r := gin.New()
	r.Use(GinMiddleware(MiddlewareConfig{}))
	r.POST("/webhooks/gumroad", func(c *gin.Context) {
		c.Set(ContextProviderKey, "gumroad")
		c.JSON(http.StatusOK, gin.H{"ok": true})
	})
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"ok": true})
	})
	return r, logs
}

func TestGinMiddlewareGeneratesRequestID(t *testing.T) {
	r, logs := newObservedEngine(t)

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/webhooks/gumroad?token=secret", nil))

	requestID := rec.Header().Get(HeaderRequestID)
	require.NotEmpty(t, requestID)

	entries := logs.FilterMessage("http_request").All()
	require.Len(t, entries, 1)
	fields := entries[0].ContextMap()
	assert.Equal(t, requestID, fields["request_id"])
	assert.Equal(t, "gumroad", fields["provider"])
	assert.Equal(t, "/webhooks/gumroad", fields["path"])
	for _, value := range fields {
		if s, ok := value.(string); ok {
			assert.NotContains(t, s, "secret")
		}
	}
}

func TestGinMiddlewareKeepsInboundRequestID(t *testing.T) {
	r, logs := newObservedEngine(t)

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	req.Header.Set(HeaderRequestID, "req-123")
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	assert.Equal(t, "req-123", rec.Header().Get(HeaderRequestID))

	entries := logs.FilterMessage("http_request").All()
	require.Len(t, entries, 1)
	assert.Equal(t, zapcore.DebugLevel, entries[0].Level)
}
