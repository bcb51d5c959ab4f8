package domain

import "context"

// AdapterConfig binds an adapter to a provider's shared secret.
type AdapterConfig struct {
	Provider string
	Secret   string
}

// AdapterFactory builds adapters for one provider.
type AdapterFactory interface {
	Provider() string
	NewAdapter(cfg AdapterConfig) (Adapter, error)
}

// Adapter authenticates and interprets one provider's deliveries.
// Parse must only be called after Verify succeeded.
type Adapter interface {
	Verify(ctx context.Context, req *Request) error
	Parse(ctx context.Context, req *Request) (*Delivery, error)
	Classify(delivery *Delivery) Intent
}

// Service authenticates, interprets and applies a provider delivery.
type Service interface {
	Ingest(ctx context.Context, provider string, req *Request) (*Result, error)
}
