package main

import (
	"github.com/smallbiznis/gatekeeper/internal/access"
	"github.com/smallbiznis/gatekeeper/internal/collaborator"
	"github.com/smallbiznis/gatekeeper/internal/config"
	"github.com/smallbiznis/gatekeeper/internal/observability"
	"github.com/smallbiznis/gatekeeper/internal/server"
	"github.com/smallbiznis/gatekeeper/internal/webhook"
	"go.uber.org/fx"
	"go.uber.org/fx/fxevent"
	"go.uber.org/zap"
)

func main() {
	app := fx.New(
		// Core Infrastructure
		config.Module,
		observability.Module,
		fx.WithLogger(func(log *zap.Logger) fxevent.Logger {
			return &fxevent.ZapLogger{Logger: log.Named("fx")}
		}),

		// Functional Domains
		collaborator.Module,
		access.Module,
		webhook.Module,
		server.Module,
	)
	app.Run()
}
