package config

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
)

const userConfigFile = "config.toml"

// UserConfigPath is the per-data-directory config that holds the model
// choice, dispatch limits and the local user id.
func UserConfigPath(dataDir string) string {
	return filepath.Join(dataDir, userConfigFile)
}

// LoadSystemConfig reads ~/.config/taskchat/settings.toml. On first run the
// commented template is written and the defaults are returned.
func LoadSystemConfig() (*SystemConfig, error) {
	cfg := DefaultSystemConfig()
	if err := loadOrSeed(GetSettingsFilePath(), cfg, CreateDefaultSystemConfig); err != nil {
		return nil, err
	}
	return cfg, nil
}

// LoadUserConfig reads <dataDir>/config.toml, seeding it from the template
// when missing.
func LoadUserConfig(dataDir string) (*UserConfig, error) {
	cfg := DefaultUserConfig()
	seed := func() error { return CreateDefaultUserConfig(dataDir) }
	if err := loadOrSeed(UserConfigPath(dataDir), cfg, seed); err != nil {
		return nil, err
	}
	return cfg, nil
}

// loadOrSeed decodes path over the defaults already in into, or runs seed
// when the file does not exist yet.
func loadOrSeed(path string, into any, seed func() error) error {
	if !FileExists(path) {
		return seed()
	}
	if _, err := toml.DecodeFile(path, into); err != nil {
		return fmt.Errorf("failed to parse %s: %w", path, err)
	}
	return nil
}

// SaveUserConfig rewrites the user config. The file is replaced atomically
// so an interrupted save never leaves a half-written user id behind.
func SaveUserConfig(cfg *UserConfig, dataDir string) error {
	if err := os.MkdirAll(dataDir, 0700); err != nil {
		return fmt.Errorf("failed to create data directory: %w", err)
	}

	var buf bytes.Buffer
	buf.WriteString("# taskchat User Configuration\n# Written by taskchat; edit freely while it is not running.\n\n")
	if err := toml.NewEncoder(&buf).Encode(cfg); err != nil {
		return fmt.Errorf("failed to encode user config: %w", err)
	}

	// CreateTemp opens with 0600
	tmp, err := os.CreateTemp(dataDir, userConfigFile+".*")
	if err != nil {
		return fmt.Errorf("failed to create user config file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(buf.Bytes()); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to write user config: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to write user config: %w", err)
	}
	if err := os.Rename(tmp.Name(), UserConfigPath(dataDir)); err != nil {
		return fmt.Errorf("failed to replace user config: %w", err)
	}
	return nil
}

func CreateDefaultSystemConfig() error {
	if err := EnsureDir(GetConfigDir()); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	return writeTemplate(GetSettingsFilePath(), GenerateSystemConfigTemplate())
}

func CreateDefaultUserConfig(dataDir string) error {
	if err := os.MkdirAll(dataDir, 0700); err != nil {
		return fmt.Errorf("failed to create data directory: %w", err)
	}
	return writeTemplate(UserConfigPath(dataDir), GenerateUserConfigTemplate())
}

// writeTemplate never overwrites an existing file.
func writeTemplate(path, content string) error {
	if FileExists(path) {
		return nil
	}
	if err := os.WriteFile(path, []byte(content), 0600); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return nil
}
