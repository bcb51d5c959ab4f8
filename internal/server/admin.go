package server

import (
	"crypto/subtle"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/smallbiznis/gatekeeper/internal/identity"
	webhookdomain "github.com/smallbiznis/gatekeeper/internal/webhook/domain"
	"go.uber.org/zap"
)

const HeaderAdminKey = "X-Admin-Key"

type adminRequest struct {
	GitHub any `json:"github"`
}

// AdminKeyRequired checks X-Admin-Key against ADMIN_KEY.
func (s *Server) AdminKeyRequired() gin.HandlerFunc {
	return func(c *gin.Context) {
		expected, err := s.cfg.RequireAdminKey()
		if err != nil {
			AbortWithError(c, err)
			return
		}

		provided := c.GetHeader(HeaderAdminKey)
		if subtle.ConstantTimeCompare([]byte(provided), []byte(expected)) != 1 {
			AbortWithError(c, ErrUnauthorized)
			return
		}
		c.Next()
	}
}

func (s *Server) AdminGrant(c *gin.Context) {
	user, ok := bindAdminIdentity(c)
	if !ok {
		return
	}

	outcome, err := s.accessSvc.Grant(c.Request.Context(), user)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	s.log.Info("manual grant",
		zap.String("github_username", user.String()),
		zap.Bool("changed", outcome.Changed),
	)
	c.JSON(http.StatusOK, gin.H{
		"ok":     true,
		"action": string(webhookdomain.ActionGranted),
		"gh":     user.String(),
	})
}

func (s *Server) AdminRevoke(c *gin.Context) {
	user, ok := bindAdminIdentity(c)
	if !ok {
		return
	}

	if _, err := s.accessSvc.Revoke(c.Request.Context(), user); err != nil {
		AbortWithError(c, err)
		return
	}

	s.log.Info("manual revoke", zap.String("github_username", user.String()))
	c.JSON(http.StatusOK, gin.H{
		"ok":     true,
		"action": string(webhookdomain.ActionRevoked),
		"gh":     user.String(),
	})
}

func bindAdminIdentity(c *gin.Context) (identity.Identity, bool) {
	var req adminRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, ErrInvalidRequest)
		return "", false
	}

	user, ok := identity.Normalize(req.GitHub)
	if !ok {
		AbortWithError(c, ErrInvalidIdentity)
		return "", false
	}
	return user, true
}
