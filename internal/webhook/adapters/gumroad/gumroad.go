package gumroad

import (
	"context"
	"encoding/json"
	"mime"
	"net/url"
	"strings"

	"github.com/smallbiznis/gatekeeper/internal/webhook/domain"
	"github.com/smallbiznis/gatekeeper/internal/webhook/fields"
)

// QueryToken carries the shared token; Gumroad pings are not signed.
const QueryToken = "token"

const (
	EventSale   = "sale"
	EventRefund = "refund"
)

var (
	handleKeys  = []string{"github_username", "github", "githubUser", "github_user"}
	handlePaths = append(
		fields.Prefixed(fields.Path{"sale", "custom_fields"}, handleKeys...),
		fields.Prefixed(nil, handleKeys...)...,
	)
	refundedPath = fields.Path{"sale", "refunded"}
)

type Factory struct{}

func NewFactory() *Factory {
	return &Factory{}
}

func (f *Factory) Provider() string {
	return "gumroad"
}

func (f *Factory) NewAdapter(cfg domain.AdapterConfig) (domain.Adapter, error) {
	return &Adapter{token: cfg.Secret}, nil
}

type Adapter struct {
	token string
}

// Verify compares the query token with plain equality. The token is a
// low-sensitivity shared value and only travels over TLS.
func (a *Adapter) Verify(ctx context.Context, req *domain.Request) error {
	if req == nil || a.token == "" {
		return domain.ErrInvalidToken
	}
	if req.Query.Get(QueryToken) != a.token {
		return domain.ErrInvalidToken
	}
	return nil
}

func (a *Adapter) Parse(ctx context.Context, req *domain.Request) (*domain.Delivery, error) {
	if req == nil {
		return nil, domain.ErrInvalidPayload
	}

	body, err := decodeBody(req)
	if err != nil {
		return nil, err
	}

	refunded := isRefund(body)
	event := EventSale
	if refunded {
		event = EventRefund
	}

	return &domain.Delivery{
		Provider:          "gumroad",
		Event:             event,
		IdentityCandidate: fields.FirstString(body, handlePaths...),
		Refunded:          refunded,
	}, nil
}

func (a *Adapter) Classify(delivery *domain.Delivery) domain.Intent {
	if delivery == nil {
		return domain.IntentIgnored
	}
	if delivery.Refunded {
		return domain.IntentRevoke
	}
	return domain.IntentGrant
}

func decodeBody(req *domain.Request) (any, error) {
	if len(req.Payload) == 0 {
		return map[string]any{}, nil
	}

	mediaType, _, _ := mime.ParseMediaType(req.ContentType)
	if mediaType == "application/json" {
		var body any
		if err := json.Unmarshal(req.Payload, &body); err != nil {
			return nil, domain.ErrInvalidPayload
		}
		return body, nil
	}

	values, err := url.ParseQuery(string(req.Payload))
	if err != nil {
		return nil, domain.ErrInvalidPayload
	}
	return fields.FromForm(values), nil
}

// isRefund is best effort: pings do not reliably carry refund state.
// Booleans are taken as-is; strings count only when "true" (any case) or "1".
func isRefund(body any) bool {
	value, ok := fields.Lookup(body, refundedPath)
	if !ok {
		return false
	}
	switch v := value.(type) {
	case bool:
		return v
	case string:
		return strings.EqualFold(v, "true") || v == "1"
	default:
		return false
	}
}
