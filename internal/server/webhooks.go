package server

import (
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/smallbiznis/gatekeeper/internal/config"
	obsmiddleware "github.com/smallbiznis/gatekeeper/internal/observability/logger"
	webhookdomain "github.com/smallbiznis/gatekeeper/internal/webhook/domain"
)

func (s *Server) HandleLemonSqueezyWebhook(c *gin.Context) {
	s.handleWebhook(c, config.ProviderLemonSqueezy)
}

func (s *Server) HandleGumroadWebhook(c *gin.Context) {
	s.handleWebhook(c, config.ProviderGumroad)
}

// handleWebhook reads the body before anything can parse it so signatures
// are checked against the exact bytes that were sent.
func (s *Server) handleWebhook(c *gin.Context, provider string) {
	c.Set(obsmiddleware.ContextProviderKey, provider)

	payload, err := io.ReadAll(c.Request.Body)
	if err != nil {
		AbortWithError(c, webhookdomain.ErrInvalidPayload)
		return
	}

	result, err := s.webhookSvc.Ingest(c.Request.Context(), provider, &webhookdomain.Request{
		Payload:     payload,
		Headers:     c.Request.Header,
		Query:       c.Request.URL.Query(),
		ContentType: c.ContentType(),
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, resultResponse(result))
}

func resultResponse(result *webhookdomain.Result) gin.H {
	if result == nil {
		return gin.H{"ok": true}
	}
	if result.Skipped != "" {
		return gin.H{"ok": true, "skipped": result.Skipped}
	}

	resp := gin.H{
		"ok":     true,
		"action": string(result.Action),
		"gh":     result.Identity.String(),
	}
	switch result.Action {
	case webhookdomain.ActionNoOp:
		resp["reason"] = result.Reason
	case webhookdomain.ActionIgnored:
		resp["eventName"] = result.Event
	}
	return resp
}
