package provider

import (
	"fmt"

	"go.uber.org/zap"

	"taskchat/config"
	"taskchat/model"
)

// InitializeProviders creates every enabled provider in cfg. Providers that
// cannot be created (usually a missing API key) are logged and skipped so
// the rest of the application keeps working.
func InitializeProviders(cfg *config.Config, logger *zap.Logger) map[string]model.Provider {
	if logger == nil {
		logger = zap.NewNop()
	}

	providers := make(map[string]model.Provider)
	for _, pc := range cfg.Providers {
		if !pc.Enabled {
			continue
		}

		modelName := ""
		if pc.ID == cfg.Model.Provider {
			modelName = cfg.Model.Name
		}

		p, err := NewProvider(Config{
			Type:    MapProviderIDToType(pc.ID),
			BaseURL: providerBaseURL(cfg, pc),
			Model:   modelName,
			APIKey:  config.APIKey(pc.ID),
			Logger:  logger,
		})
		if err != nil {
			logger.Debug("skipping provider", zap.String("provider", pc.ID), zap.Error(err))
			continue
		}

		providers[pc.ID] = p
		logger.Debug("initialized provider", zap.String("provider", pc.ID), zap.String("model", p.GetModel()))
	}

	return providers
}

// NewFromConfig creates the provider selected by cfg.Model.
func NewFromConfig(cfg *config.Config, logger *zap.Logger) (model.Provider, error) {
	id := cfg.Model.Provider
	pc, ok := cfg.Provider(id)
	if !ok {
		pc = config.ProviderConfig{ID: id, BaseURL: config.ProviderDefaultBaseURL(id), Enabled: true}
	}
	if !pc.Enabled {
		return nil, fmt.Errorf("provider %s is disabled", id)
	}

	return NewProvider(Config{
		Type:    MapProviderIDToType(id),
		BaseURL: providerBaseURL(cfg, pc),
		Model:   cfg.Model.Name,
		APIKey:  config.APIKey(id),
		Logger:  logger,
	})
}

// providerBaseURL prefers the [model] base_url for the selected provider.
func providerBaseURL(cfg *config.Config, pc config.ProviderConfig) string {
	if pc.ID == cfg.Model.Provider && cfg.Model.BaseURL != "" {
		return cfg.Model.BaseURL
	}
	return pc.BaseURL
}
