package domain

import (
	"net/http"
	"net/url"

	"github.com/smallbiznis/gatekeeper/internal/identity"
)

// Intent is the provider-independent meaning of a delivery.
type Intent string

const (
	IntentGrant       Intent = "grant-intent"
	IntentRevoke      Intent = "revoke-intent"
	IntentGracePeriod Intent = "grace-period"
	IntentIgnored     Intent = "ignored"
)

// Decision is what happens to the collaborator list.
type Decision string

const (
	DecisionGrant  Decision = "grant"
	DecisionRevoke Decision = "revoke"
	DecisionNoOp   Decision = "no-op"
)

// DecisionFor maps an intent to the access change it asks for.
func DecisionFor(intent Intent) Decision {
	switch intent {
	case IntentGrant:
		return DecisionGrant
	case IntentRevoke:
		return DecisionRevoke
	default:
		return DecisionNoOp
	}
}

// Action is reported back to the provider in the acknowledgement.
type Action string

const (
	ActionGranted Action = "granted"
	ActionRevoked Action = "revoked"
	ActionNoOp    Action = "no-op"
	ActionIgnored Action = "ignored"
)

const (
	ReasonGracePeriod    = "grace_period"
	SkippedMissingHandle = "missing_github_username"
)

// Request is an inbound delivery exactly as received.
// Payload holds the unparsed body bytes.
type Request struct {
	Payload     []byte
	Headers     http.Header
	Query       url.Values
	ContentType string
}

// OrderItem describes what was bought, when the provider reports it.
type OrderItem struct {
	ProductID   *int64
	VariantID   *int64
	ProductName string
	VariantName string
}

// Delivery is the canonical result of parsing a provider payload.
type Delivery struct {
	Provider          string
	Event             string
	IdentityCandidate string
	Refunded          bool
	Item              *OrderItem
}

// Result is the outcome of processing one delivery.
type Result struct {
	Provider string
	Event    string
	Intent   Intent
	Action   Action
	Reason   string
	Identity identity.Identity
	Skipped  string
	Changed  bool
}
