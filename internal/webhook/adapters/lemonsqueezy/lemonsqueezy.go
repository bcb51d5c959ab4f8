package lemonsqueezy

import (
	"context"
	"encoding/json"

	"github.com/smallbiznis/gatekeeper/internal/webhook/domain"
	"github.com/smallbiznis/gatekeeper/internal/webhook/fields"
)

const (
	HeaderSignature = "X-Signature"
	HeaderEventName = "X-Event-Name"
)

const (
	EventOrderCreated                = "order_created"
	EventOrderRefunded               = "order_refunded"
	EventSubscriptionCreated         = "subscription_created"
	EventSubscriptionCancelled       = "subscription_cancelled"
	EventSubscriptionExpired         = "subscription_expired"
	EventSubscriptionPaymentRefunded = "subscription_payment_refunded"
)

var (
	eventNamePath = fields.Path{"meta", "event_name"}
	// Older checkouts stored the handle under different custom_data keys.
	handlePaths = fields.Prefixed(fields.Path{"meta", "custom_data"}, "github_username", "github", "githubUser", "github_user")
)

type Factory struct{}

func NewFactory() *Factory {
	return &Factory{}
}

func (f *Factory) Provider() string {
	return "lemonsqueezy"
}

func (f *Factory) NewAdapter(cfg domain.AdapterConfig) (domain.Adapter, error) {
	return &Adapter{signingSecret: cfg.Secret}, nil
}

type Adapter struct {
	signingSecret string
}

func (a *Adapter) Verify(ctx context.Context, req *domain.Request) error {
	if req == nil || a.signingSecret == "" {
		return domain.ErrInvalidSignature
	}
	if !VerifySignature(req.Payload, req.Headers.Get(HeaderSignature), a.signingSecret) {
		return domain.ErrInvalidSignature
	}
	return nil
}

func (a *Adapter) Parse(ctx context.Context, req *domain.Request) (*domain.Delivery, error) {
	if req == nil {
		return nil, domain.ErrInvalidPayload
	}

	var payload any
	if err := json.Unmarshal(req.Payload, &payload); err != nil {
		return nil, domain.ErrInvalidPayload
	}

	// A present header wins even when empty; the body is only a fallback.
	var event string
	if values := req.Headers.Values(HeaderEventName); len(values) > 0 {
		event = values[0]
	} else {
		event, _ = lookupString(payload, eventNamePath)
	}

	return &domain.Delivery{
		Provider:          "lemonsqueezy",
		Event:             event,
		IdentityCandidate: fields.FirstString(payload, handlePaths...),
		Item:              orderItem(payload),
	}, nil
}

func (a *Adapter) Classify(delivery *domain.Delivery) domain.Intent {
	if delivery == nil {
		return domain.IntentIgnored
	}
	switch delivery.Event {
	case EventOrderCreated, EventSubscriptionCreated:
		return domain.IntentGrant
	case EventOrderRefunded, EventSubscriptionExpired, EventSubscriptionPaymentRefunded:
		return domain.IntentRevoke
	case EventSubscriptionCancelled:
		return domain.IntentGracePeriod
	default:
		return domain.IntentIgnored
	}
}

func orderItem(payload any) *domain.OrderItem {
	item := &domain.OrderItem{
		ProductID: lookupInt(payload, fields.Path{"data", "attributes", "first_order_item", "product_id"}),
		VariantID: lookupInt(payload, fields.Path{"data", "attributes", "first_order_item", "variant_id"}),
	}
	item.ProductName, _ = lookupString(payload, fields.Path{"data", "attributes", "first_order_item", "product_name"})
	item.VariantName, _ = lookupString(payload, fields.Path{"data", "attributes", "first_order_item", "variant_name"})
	if item.ProductID == nil && item.VariantID == nil && item.ProductName == "" && item.VariantName == "" {
		return nil
	}
	return item
}

func lookupString(root any, path fields.Path) (string, bool) {
	value, ok := fields.Lookup(root, path)
	if !ok {
		return "", false
	}
	text, ok := value.(string)
	return text, ok
}

func lookupInt(root any, path fields.Path) *int64 {
	value, ok := fields.Lookup(root, path)
	if !ok {
		return nil
	}
	number, ok := value.(float64)
	if !ok {
		return nil
	}
	out := int64(number)
	return &out
}
