package server

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/smallbiznis/gatekeeper/internal/access"
	"github.com/smallbiznis/gatekeeper/internal/config"
	"github.com/smallbiznis/gatekeeper/internal/observability"
	obsmiddleware "github.com/smallbiznis/gatekeeper/internal/observability/logger"
	obsmetrics "github.com/smallbiznis/gatekeeper/internal/observability/metrics"
	obstracing "github.com/smallbiznis/gatekeeper/internal/observability/tracing"
	webhookdomain "github.com/smallbiznis/gatekeeper/internal/webhook/domain"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

var Module = fx.Module("http.server",
	fx.Provide(registerGin),
	fx.Invoke(NewServer),
	fx.Invoke(run),
)

func NewEngine(obsCfg observability.Config, httpMetrics *obsmetrics.HTTPMetrics, registry *prometheus.Registry) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(obsmiddleware.GinMiddleware(obsmiddleware.MiddlewareConfig{
		Debug:           obsCfg.Debug(),
		ErrorClassifier: classifyErrorForLog,
	}))
	r.Use(obstracing.GinMiddleware())
	r.Use(obsmetrics.GinMiddleware(httpMetrics))
	r.Use(ErrorHandlingMiddleware())

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"ok": true})
	})

	metricsHandler := promhttp.Handler()
	if registry != nil {
		metricsHandler = promhttp.HandlerFor(registry, promhttp.HandlerOpts{})
	}
	r.GET("/metrics", gin.WrapH(metricsHandler))

	return r
}

func registerGin(obsCfg observability.Config, httpMetrics *obsmetrics.HTTPMetrics, registry *prometheus.Registry) *gin.Engine {
	return NewEngine(obsCfg, httpMetrics, registry)
}

func run(lc fx.Lifecycle, cfg config.Config, r *gin.Engine, log *zap.Logger) {
	port := cfg.Port
	if port <= 0 {
		port = config.DefaultPort
	}
	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", port),
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			ln, err := net.Listen("tcp", srv.Addr)
			if err != nil {
				return err
			}
			log.Info("http server listening", zap.String("addr", srv.Addr))
			go func() {
				if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
					log.Error("http server stopped", zap.Error(err))
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			shutdownCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
			defer cancel()
			return srv.Shutdown(shutdownCtx)
		},
	})
}

type Server struct {
	engine     *gin.Engine
	cfg        config.Config
	log        *zap.Logger
	webhookSvc webhookdomain.Service
	accessSvc  *access.Service
}

type ServerParams struct {
	fx.In

	Gin        *gin.Engine
	Cfg        config.Config
	Log        *zap.Logger
	WebhookSvc webhookdomain.Service
	AccessSvc  *access.Service
}

func NewServer(p ServerParams) *Server {
	log := p.Log
	if log == nil {
		log = zap.NewNop()
	}
	svc := &Server{
		engine:     p.Gin,
		cfg:        p.Cfg,
		log:        log.Named("http.server"),
		webhookSvc: p.WebhookSvc,
		accessSvc:  p.AccessSvc,
	}

	svc.registerWebhookRoutes()
	svc.registerAdminRoutes()

	return svc
}

func (s *Server) Engine() *gin.Engine {
	return s.engine
}

func (s *Server) registerWebhookRoutes() {
	webhooks := s.engine.Group("/webhooks")

	webhooks.POST("/lemonsqueezy", s.HandleLemonSqueezyWebhook)
	webhooks.POST("/gumroad", s.HandleGumroadWebhook)
}

func (s *Server) registerAdminRoutes() {
	admin := s.engine.Group("/admin")
	admin.Use(s.AdminKeyRequired())

	admin.POST("/grant", s.AdminGrant)
	admin.POST("/revoke", s.AdminRevoke)
}
