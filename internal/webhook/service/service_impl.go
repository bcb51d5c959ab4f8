package service

import (
	"context"
	"errors"
	"strings"

	"github.com/smallbiznis/gatekeeper/internal/access"
	"github.com/smallbiznis/gatekeeper/internal/config"
	"github.com/smallbiznis/gatekeeper/internal/identity"
	"github.com/smallbiznis/gatekeeper/internal/observability/logger"
	obsmetrics "github.com/smallbiznis/gatekeeper/internal/observability/metrics"
	"github.com/smallbiznis/gatekeeper/internal/webhook/adapters"
	"github.com/smallbiznis/gatekeeper/internal/webhook/domain"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

const intentSkipped = "skipped"

type Params struct {
	fx.In

	Cfg        config.Config
	Log        *zap.Logger
	Adapters   *adapters.Registry
	AccessSvc  *access.Service
	ObsMetrics *obsmetrics.Metrics `optional:"true"`
}

type Service struct {
	cfg        config.Config
	log        *zap.Logger
	adapters   *adapters.Registry
	accessSvc  *access.Service
	obsMetrics *obsmetrics.Metrics
}

func NewService(p Params) domain.Service {
	log := p.Log
	if log == nil {
		log = zap.NewNop()
	}
	return &Service{
		cfg:        p.Cfg,
		log:        log.Named("webhook.service"),
		adapters:   p.Adapters,
		accessSvc:  p.AccessSvc,
		obsMetrics: p.ObsMetrics,
	}
}

func (s *Service) Ingest(ctx context.Context, provider string, req *domain.Request) (*domain.Result, error) {
	provider = strings.ToLower(strings.TrimSpace(provider))
	if s.adapters == nil || !s.adapters.ProviderExists(provider) {
		return nil, domain.ErrProviderNotFound
	}
	if req == nil {
		return nil, domain.ErrInvalidPayload
	}

	secret, err := s.cfg.ProviderSecret(provider)
	if err != nil {
		return nil, err
	}

	adapter, err := s.adapters.NewAdapter(provider, domain.AdapterConfig{
		Provider: provider,
		Secret:   secret,
	})
	if err != nil {
		return nil, err
	}

	log := logger.WithContext(ctx, s.log).With(zap.String("provider", provider))

	if err := adapter.Verify(ctx, req); err != nil {
		log.Warn("webhook rejected", zap.Error(err))
		return nil, err
	}

	delivery, err := adapter.Parse(ctx, req)
	if err != nil {
		return nil, err
	}
	delivery.Provider = provider

	result := &domain.Result{
		Provider: provider,
		Event:    delivery.Event,
	}

	user, ok := identity.Normalize(delivery.IdentityCandidate)
	if !ok {
		log.Warn("webhook missing github username",
			zap.String("event", delivery.Event),
			zap.String("raw_candidate", delivery.IdentityCandidate),
		)
		s.recordEvent(ctx, provider, intentSkipped)
		result.Skipped = domain.SkippedMissingHandle
		return result, nil
	}
	result.Identity = user

	intent := adapter.Classify(delivery)
	result.Intent = intent
	s.recordEvent(ctx, provider, string(intent))

	log = log.With(
		zap.String("event", delivery.Event),
		zap.String("intent", string(intent)),
		zap.String("github_username", user.String()),
	)
	if item := delivery.Item; item != nil {
		log = log.With(
			zap.String("product_name", item.ProductName),
			zap.String("variant_name", item.VariantName),
		)
	}

	switch domain.DecisionFor(intent) {
	case domain.DecisionGrant:
		outcome, err := s.accessSvc.Grant(ctx, user)
		if err != nil {
			return nil, s.applyFailed(log, err)
		}
		result.Action = domain.ActionGranted
		result.Changed = outcome.Changed
	case domain.DecisionRevoke:
		outcome, err := s.accessSvc.Revoke(ctx, user)
		if err != nil {
			return nil, s.applyFailed(log, err)
		}
		result.Action = domain.ActionRevoked
		result.Changed = outcome.Changed
	default:
		if intent == domain.IntentGracePeriod {
			result.Action = domain.ActionNoOp
			result.Reason = domain.ReasonGracePeriod
		} else {
			result.Action = domain.ActionIgnored
		}
	}

	log.Info("webhook processed",
		zap.String("action", string(result.Action)),
		zap.Bool("changed", result.Changed),
	)
	return result, nil
}

func (s *Service) applyFailed(log *zap.Logger, err error) error {
	if errors.Is(err, config.ErrMissingConfig) {
		log.Error("repository configuration missing", zap.Error(err))
		return err
	}
	log.Error("access change failed", zap.Error(err))
	return err
}

func (s *Service) recordEvent(ctx context.Context, provider, intent string) {
	if s.obsMetrics != nil {
		s.obsMetrics.RecordWebhookEvent(ctx, provider, intent)
	}
}
