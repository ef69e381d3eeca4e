package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/google/uuid"
	"github.com/joho/godotenv"
)

type SystemConfig struct {
	DataDirectory string `toml:"data_directory"`
}

type ModelConfig struct {
	Provider     string `toml:"provider"`
	Name         string `toml:"name"`
	BaseURL      string `toml:"base_url,omitempty"`
	SystemPrompt string `toml:"system_prompt,omitempty"`
}

type DispatchConfig struct {
	// UseModel enables the structured suggestion path. When false every
	// utterance goes straight to keyword matching.
	UseModel     bool `toml:"use_model"`
	HistoryLimit int  `toml:"history_limit"`
	ListLimit    int  `toml:"list_limit"`
}

type UserSection struct {
	ID string `toml:"id"`
}

type UserConfig struct {
	Model     ModelConfig      `toml:"model"`
	Dispatch  DispatchConfig   `toml:"dispatch"`
	User      UserSection      `toml:"user"`
	Providers []ProviderConfig `toml:"providers,omitempty"`
}

type Config struct {
	DataDirectory string
	Model         ModelConfig
	Dispatch      DispatchConfig
	UserID        string
	Providers     []ProviderConfig
	Debug         bool
}

const (
	EnvDataDir  = "TASKCHAT_DATA_DIR"
	EnvProvider = "TASKCHAT_PROVIDER"
	EnvModel    = "TASKCHAT_MODEL"
	EnvUserID   = "TASKCHAT_USER_ID"
	EnvDebug    = "TASKCHAT_DEBUG"
)

func (c *Config) DataDir() string {
	return ExpandPath(c.DataDirectory)
}

func (c *Config) applyEnvOverrides() {
	if dataDir := os.Getenv(EnvDataDir); dataDir != "" {
		c.DataDirectory = dataDir
	}
	if p := os.Getenv(EnvProvider); p != "" {
		c.Model.Provider = p
	}
	if m := os.Getenv(EnvModel); m != "" {
		c.Model.Name = m
	}
	if id := os.Getenv(EnvUserID); id != "" {
		c.UserID = id
	}
}

func CheckDebug() bool {
	debug := strings.ToLower(os.Getenv(EnvDebug))
	return debug == "true" || debug == "1"
}

// Load reads .env, the system config and the user config (creating both
// from templates on first run), then applies environment overrides.
func Load() (*Config, error) {
	// A missing .env is normal
	_ = godotenv.Load(".env")

	cfg := &Config{
		DataDirectory: DefaultSystemConfig().DataDirectory,
		Debug:         CheckDebug(),
	}

	systemCfg, err := LoadSystemConfig()
	if err != nil {
		return nil, fmt.Errorf("failed to load system config: %w", err)
	}
	cfg.DataDirectory = systemCfg.DataDirectory

	// The data dir override must apply before the user config is located
	if dataDir := os.Getenv(EnvDataDir); dataDir != "" {
		cfg.DataDirectory = dataDir
	}

	dataDir := cfg.DataDir()
	if err := os.MkdirAll(dataDir, 0700); err != nil {
		return nil, fmt.Errorf("failed to create data directory: %w", err)
	}
	if err := EnsureDataDirPermissions(dataDir); err != nil {
		return nil, fmt.Errorf("failed to set data directory permissions: %w", err)
	}

	userCfg, err := LoadUserConfig(dataDir)
	if err != nil {
		return nil, fmt.Errorf("failed to load user config: %w", err)
	}

	// First run: pin a stable local user id
	if userCfg.User.ID == "" {
		userCfg.User.ID = uuid.New().String()
		if err := SaveUserConfig(userCfg, dataDir); err != nil {
			return nil, fmt.Errorf("failed to save user id: %w", err)
		}
	}

	cfg.Model = userCfg.Model
	cfg.Dispatch = userCfg.Dispatch
	cfg.UserID = userCfg.User.ID
	cfg.Providers = userCfg.Providers
	if len(cfg.Providers) == 0 {
		cfg.Providers = DefaultProviders()
	}
	cfg.applyEnvOverrides()
	cfg.normalize()

	return cfg, nil
}

func (c *Config) normalize() {
	defaults := DefaultUserConfig()
	if c.Model.Provider == "" {
		c.Model.Provider = defaults.Model.Provider
	}
	if c.Dispatch.HistoryLimit <= 0 {
		c.Dispatch.HistoryLimit = defaults.Dispatch.HistoryLimit
	}
	if c.Dispatch.ListLimit <= 0 {
		c.Dispatch.ListLimit = defaults.Dispatch.ListLimit
	}
}
