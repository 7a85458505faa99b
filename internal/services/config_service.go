package services

import (
	"context"
	"sync"

	"bazarBack/internal/models"
	"bazarBack/internal/repositories"
)

// PublicConfig is the client-facing slice of the pricing document. Wallet
// addresses stay private until an order is created for a concrete chain.
type PublicConfig struct {
	Prices          models.PriceTable     `json:"prices"`
	ChainsAvailable []string              `json:"chains_available"`
	Limits          models.ConfigLimits   `json:"limits"`
	Settings        models.ConfigSettings `json:"settings"`
}

type ConfigService struct {
	Repo *repositories.PricingConfigRepository

	mu     sync.RWMutex
	cached *models.PricingConfig
}

// Current returns the pricing config, loading it from storage on first use.
// The cache is invalidated whenever an admin write goes through.
func (s *ConfigService) Current(ctx context.Context) (models.PricingConfig, error) {
	s.mu.RLock()
	if s.cached != nil {
		cfg := *s.cached
		s.mu.RUnlock()
		return cfg, nil
	}
	s.mu.RUnlock()

	cfg, err := s.Repo.GetConfig(ctx)
	if err != nil {
		return models.PricingConfig{}, err
	}

	s.mu.Lock()
	s.cached = &cfg
	s.mu.Unlock()
	return cfg, nil
}

func (s *ConfigService) PublicView(ctx context.Context) (PublicConfig, error) {
	cfg, err := s.Current(ctx)
	if err != nil {
		return PublicConfig{}, err
	}
	return PublicConfig{
		Prices:          cfg.Prices,
		ChainsAvailable: cfg.ChainsAvailable(),
		Limits:          cfg.Limits,
		Settings:        cfg.Settings,
	}, nil
}

func (s *ConfigService) ReplaceConfig(ctx context.Context, cfg models.PricingConfig) error {
	if err := cfg.Validate(); err != nil {
		return err
	}
	if err := s.Repo.SaveConfig(ctx, cfg); err != nil {
		return err
	}
	s.mu.Lock()
	s.cached = &cfg
	s.mu.Unlock()
	return nil
}

func (s *ConfigService) PatchConfig(ctx context.Context, patch models.ConfigPatch) (models.PricingConfig, error) {
	current, err := s.Current(ctx)
	if err != nil {
		return models.PricingConfig{}, err
	}
	updated, err := current.ApplyPatch(patch)
	if err != nil {
		return models.PricingConfig{}, err
	}
	if err := s.Repo.SaveConfig(ctx, updated); err != nil {
		return models.PricingConfig{}, err
	}
	s.mu.Lock()
	s.cached = &updated
	s.mu.Unlock()
	return updated, nil
}
