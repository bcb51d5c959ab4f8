package adapters

import (
	"github.com/smallbiznis/gatekeeper/internal/webhook/adapters/gumroad"
	"github.com/smallbiznis/gatekeeper/internal/webhook/adapters/lemonsqueezy"
)

// Default returns the registry with every supported provider.
func Default() *Registry {
	return NewRegistry(
		lemonsqueezy.NewFactory(),
		gumroad.NewFactory(),
	)
}
