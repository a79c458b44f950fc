package onboarding

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/angelmondragon/servicehub-gateway/pkg/enums"
	"github.com/angelmondragon/servicehub-gateway/pkg/logger"
)

// Status is the single onboarding view shared by the gate and the stepper UI.
type Status struct {
	Profile  Profile              `json:"profile"`
	NextStep enums.OnboardingStep `json:"nextStep,omitempty"`
	Complete bool                 `json:"complete"`
	Steps    []StepStatus         `json:"steps"`
}

func newStatus(p Profile) *Status {
	next, _ := p.NextStep()
	return &Status{
		Profile:  p,
		NextStep: next,
		Complete: p.Complete(),
		Steps:    p.Steps(),
	}
}

// Service computes onboarding status, optionally through a short-TTL cache.
type Service interface {
	Status(ctx context.Context, userID, token string) (*Status, error)
	Invalidate(ctx context.Context, userID string) error
}

// Store is the redis surface the profile cache needs.
type Store interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key string, value any, ttl time.Duration) error
	Del(ctx context.Context, keys ...string) error
	OnboardingKey(userID string) string
}

type service struct {
	fetcher Fetcher
	store   Store
	ttl     time.Duration
	logg    *logger.Logger
}

// ServiceParams bundles the dependencies required to build an onboarding service.
type ServiceParams struct {
	Fetcher  Fetcher
	Cache    Store
	CacheTTL time.Duration
	Logger   *logger.Logger
}

func NewService(params ServiceParams) (Service, error) {
	if params.Fetcher == nil {
		return nil, errors.New("onboarding fetcher is required")
	}
	svc := &service{fetcher: params.Fetcher, logg: params.Logger}
	if params.Cache != nil && params.CacheTTL > 0 {
		svc.store = params.Cache
		svc.ttl = params.CacheTTL
	}
	return svc, nil
}

func (s *service) Status(ctx context.Context, userID, token string) (*Status, error) {
	if p, ok := s.cached(ctx, userID); ok {
		return newStatus(p), nil
	}
	p, err := s.fetcher.Fetch(ctx, token)
	if err != nil {
		return nil, err
	}
	s.remember(ctx, userID, p)
	return newStatus(p), nil
}

// Invalidate drops the cached profile so the next request re-reads the backend.
func (s *service) Invalidate(ctx context.Context, userID string) error {
	if s.store == nil || userID == "" {
		return nil
	}
	return s.store.Del(ctx, s.store.OnboardingKey(userID))
}

func (s *service) cached(ctx context.Context, userID string) (Profile, bool) {
	if s.store == nil || userID == "" {
		return Profile{}, false
	}
	raw, err := s.store.Get(ctx, s.store.OnboardingKey(userID))
	if err != nil {
		return Profile{}, false
	}
	var p Profile
	if err := json.Unmarshal([]byte(raw), &p); err != nil {
		return Profile{}, false
	}
	return p, true
}

func (s *service) remember(ctx context.Context, userID string, p Profile) {
	if s.store == nil || userID == "" {
		return
	}
	payload, err := json.Marshal(p)
	if err == nil {
		err = s.store.Set(ctx, s.store.OnboardingKey(userID), string(payload), s.ttl)
	}
	if err != nil && s.logg != nil {
		s.logg.Warn(s.logg.WithField(ctx, "error", err.Error()), "onboarding.cache.write_failed")
	}
}
