package access

import (
	"context"

	collabdomain "github.com/smallbiznis/gatekeeper/internal/collaborator/domain"
	"github.com/smallbiznis/gatekeeper/internal/config"
	"github.com/smallbiznis/gatekeeper/internal/identity"
	"github.com/smallbiznis/gatekeeper/internal/observability/logger"
	obsmetrics "github.com/smallbiznis/gatekeeper/internal/observability/metrics"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

const (
	ActionGrant  = "grant"
	ActionRevoke = "revoke"

	outcomeChanged   = "changed"
	outcomeUnchanged = "unchanged"
	outcomeFailed    = "failed"
)

type Params struct {
	fx.In

	Cfg        config.Config
	Log        *zap.Logger
	Client     collabdomain.Client
	ObsMetrics *obsmetrics.Metrics `optional:"true"`
}

// Service applies access changes to the configured repository.
type Service struct {
	cfg        config.Config
	log        *zap.Logger
	client     collabdomain.Client
	obsMetrics *obsmetrics.Metrics
}

// Outcome describes what a call did to the collaborator list.
type Outcome struct {
	Changed bool
}

func NewService(p Params) *Service {
	log := p.Log
	if log == nil {
		log = zap.NewNop()
	}
	return &Service{
		cfg:        p.Cfg,
		log:        log.Named("access.service"),
		client:     p.Client,
		obsMetrics: p.ObsMetrics,
	}
}

// Grant adds user as a collaborator unless they already are one.
func (s *Service) Grant(ctx context.Context, user identity.Identity) (Outcome, error) {
	target, err := s.cfg.Target()
	if err != nil {
		return Outcome{}, err
	}
	repo := repository(target)

	member, err := s.client.IsMember(ctx, repo, user.String())
	if err != nil {
		s.record(ctx, ActionGrant, outcomeFailed)
		return Outcome{}, err
	}
	if member {
		s.record(ctx, ActionGrant, outcomeUnchanged)
		logger.WithContext(ctx, s.log).Info("collaborator already present",
			zap.String("github_username", user.String()),
			zap.String("repository", target.Owner+"/"+target.Repo),
		)
		return Outcome{}, nil
	}

	if err := s.client.Grant(ctx, repo, user.String(), target.Permission); err != nil {
		s.record(ctx, ActionGrant, outcomeFailed)
		return Outcome{}, err
	}

	s.record(ctx, ActionGrant, outcomeChanged)
	logger.WithContext(ctx, s.log).Info("collaborator granted",
		zap.String("github_username", user.String()),
		zap.String("repository", target.Owner+"/"+target.Repo),
		zap.String("permission", target.Permission),
	)
	return Outcome{Changed: true}, nil
}

// Revoke removes user. Removing someone who is not a collaborator succeeds.
func (s *Service) Revoke(ctx context.Context, user identity.Identity) (Outcome, error) {
	target, err := s.cfg.Target()
	if err != nil {
		return Outcome{}, err
	}

	if err := s.client.Revoke(ctx, repository(target), user.String()); err != nil {
		s.record(ctx, ActionRevoke, outcomeFailed)
		return Outcome{}, err
	}

	s.record(ctx, ActionRevoke, outcomeChanged)
	logger.WithContext(ctx, s.log).Info("collaborator revoked",
		zap.String("github_username", user.String()),
		zap.String("repository", target.Owner+"/"+target.Repo),
	)
	return Outcome{Changed: true}, nil
}

func (s *Service) record(ctx context.Context, action, outcome string) {
	if s.obsMetrics != nil {
		s.obsMetrics.RecordAccessChange(ctx, action, outcome)
	}
}

func repository(target config.Target) collabdomain.Repository {
	return collabdomain.Repository{Owner: target.Owner, Name: target.Repo}
}
