package config

import (
	"os"
	"path/filepath"
	"testing"
)

func isolate(t *testing.T) string {
	t.Helper()
	home := t.TempDir()
	t.Setenv("HOME", home)
	t.Setenv("USERPROFILE", home)
	t.Setenv(EnvDataDir, filepath.Join(home, "data"))
	t.Setenv(EnvProvider, "")
	t.Setenv(EnvModel, "")
	t.Setenv(EnvUserID, "")
	t.Setenv(EnvDebug, "")
	return home
}

func TestLoadCreatesDefaults(t *testing.T) {
	home := isolate(t)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}

	if !FileExists(filepath.Join(home, ".config", "taskchat", "settings.toml")) {
		t.Error("system config was not created")
	}
	if !FileExists(filepath.Join(cfg.DataDir(), "config.toml")) {
		t.Error("user config was not created")
	}
	if cfg.UserID == "" {
		t.Error("expected a generated user id")
	}
	if cfg.Model.Provider != "ollama" {
		t.Errorf("provider = %q, want ollama", cfg.Model.Provider)
	}
	if cfg.Dispatch.HistoryLimit != 10 || cfg.Dispatch.ListLimit != 10 {
		t.Errorf("unexpected dispatch defaults: %+v", cfg.Dispatch)
	}
	if len(cfg.Providers) == 0 {
		t.Error("expected default providers")
	}
}

func TestLoadKeepsUserIDStable(t *testing.T) {
	isolate(t)

	first, err := Load()
	if err != nil {
		t.Fatalf("first Load() error: %v", err)
	}
	second, err := Load()
	if err != nil {
		t.Fatalf("second Load() error: %v", err)
	}

	if first.UserID != second.UserID {
		t.Errorf("user id changed between loads: %q != %q", first.UserID, second.UserID)
	}
}

func TestLoadEnvOverrides(t *testing.T) {
	isolate(t)
	t.Setenv(EnvProvider, "anthropic")
	t.Setenv(EnvModel, "claude-sonnet-4-5-20250929")
	t.Setenv(EnvUserID, "user-from-env")
	t.Setenv(EnvDebug, "1")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}

	if cfg.Model.Provider != "anthropic" {
		t.Errorf("provider = %q, want anthropic", cfg.Model.Provider)
	}
	if cfg.Model.Name != "claude-sonnet-4-5-20250929" {
		t.Errorf("model = %q", cfg.Model.Name)
	}
	if cfg.UserID != "user-from-env" {
		t.Errorf("user id = %q, want user-from-env", cfg.UserID)
	}
	if !cfg.Debug {
		t.Error("expected debug enabled")
	}
}

func TestLoadReadsUserConfig(t *testing.T) {
	isolate(t)
	dataDir := os.Getenv(EnvDataDir)
	if err := os.MkdirAll(dataDir, 0700); err != nil {
		t.Fatal(err)
	}

	content := `
[model]
provider = "openai"
name = "gpt-4o-mini"

[dispatch]
use_model = false
history_limit = 4

[user]
id = "fixed-user"
`
	if err := os.WriteFile(filepath.Join(dataDir, "config.toml"), []byte(content), 0600); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}

	if cfg.Model.Provider != "openai" || cfg.Model.Name != "gpt-4o-mini" {
		t.Errorf("unexpected model config: %+v", cfg.Model)
	}
	if cfg.Dispatch.UseModel {
		t.Error("use_model should be false")
	}
	if cfg.Dispatch.HistoryLimit != 4 {
		t.Errorf("history_limit = %d, want 4", cfg.Dispatch.HistoryLimit)
	}
	if cfg.Dispatch.ListLimit != 10 {
		t.Errorf("list_limit = %d, want default 10", cfg.Dispatch.ListLimit)
	}
	if cfg.UserID != "fixed-user" {
		t.Errorf("user id = %q, want fixed-user", cfg.UserID)
	}
}

func TestExpandPath(t *testing.T) {
	home := isolate(t)

	if got := ExpandPath("~/x/y"); got != filepath.Join(home, "x", "y") {
		t.Errorf("ExpandPath(~/x/y) = %q", got)
	}
	if got := ExpandPath(""); got != "" {
		t.Errorf("ExpandPath(\"\") = %q, want empty", got)
	}
}

func TestAPIKey(t *testing.T) {
	t.Setenv("GEMINI_API_KEY", "")
	t.Setenv("GOOGLE_API_KEY", "g-key")
	t.Setenv("OPENAI_API_KEY", "o-key")

	if got := APIKey("gemini"); got != "g-key" {
		t.Errorf("gemini key = %q, want fallback to GOOGLE_API_KEY", got)
	}
	if got := APIKey("openai"); got != "o-key" {
		t.Errorf("openai key = %q", got)
	}
	if got := APIKey("ollama"); got != "" {
		t.Errorf("ollama key = %q, want empty", got)
	}
}

func TestSaveUserConfigReplacesFile(t *testing.T) {
	dir := t.TempDir()
	if err := CreateDefaultUserConfig(dir); err != nil {
		t.Fatal(err)
	}

	cfg := DefaultUserConfig()
	cfg.User.ID = "alice"
	cfg.Dispatch.ListLimit = 25
	if err := SaveUserConfig(cfg, dir); err != nil {
		t.Fatalf("SaveUserConfig() error: %v", err)
	}

	got, err := LoadUserConfig(dir)
	if err != nil {
		t.Fatalf("LoadUserConfig() error: %v", err)
	}
	if got.User.ID != "alice" || got.Dispatch.ListLimit != 25 {
		t.Errorf("round trip lost values: %+v", got)
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 1 || entries[0].Name() != userConfigFile {
		t.Errorf("expected only %s in data dir, got %v", userConfigFile, entries)
	}

	info, err := os.Stat(UserConfigPath(dir))
	if err != nil {
		t.Fatal(err)
	}
	if perm := info.Mode().Perm(); perm != 0600 {
		t.Errorf("permissions = %o, want 600", perm)
	}
}

func TestLoadUserConfigRejectsBadTOML(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(UserConfigPath(dir), []byte("[model\nname = "), 0600); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadUserConfig(dir); err == nil {
		t.Error("expected a parse error")
	}
}
