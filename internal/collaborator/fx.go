package collaborator

import (
	"github.com/smallbiznis/gatekeeper/internal/collaborator/github"
	"go.uber.org/fx"
)

var Module = fx.Module("collaborator",
	fx.Provide(github.NewFromConfig),
)
