package webhook

import (
	"github.com/smallbiznis/gatekeeper/internal/webhook/adapters"
	"github.com/smallbiznis/gatekeeper/internal/webhook/service"
	"go.uber.org/fx"
)

var Module = fx.Module("webhook.service",
	fx.Provide(adapters.Default),
	fx.Provide(service.NewService),
)
