// Package config loads and saves ccreport's TOML configuration.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
)

// Config holds all ccreport configuration.
type Config struct {
	General GeneralConfig `toml:"general"`
	Web     WebConfig     `toml:"web"`
}

// GeneralConfig holds general preferences.
type GeneralConfig struct {
	ClaudeDir        string `toml:"claude_dir,omitempty"`
	IncludeSubagents bool   `toml:"include_subagents"`
}

// WebConfig holds session ingress API settings.
type WebConfig struct {
	Token   string `toml:"token,omitempty"`
	OrgUUID string `toml:"org_uuid,omitempty"`
	BaseURL string `toml:"base_url,omitempty"`
}

// DefaultConfig returns the default configuration.
func DefaultConfig() Config {
	return Config{
		General: GeneralConfig{
			IncludeSubagents: false,
		},
	}
}

// ConfigDir returns the XDG-compliant config directory.
func ConfigDir() string {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "ccreport")
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".config", "ccreport")
}

// ConfigPath returns the full path to the config file.
func ConfigPath() string {
	return filepath.Join(ConfigDir(), "config.toml")
}

// ClaudeDir returns the configured Claude data directory, falling back to
// the conventional ~/.claude location.
func ClaudeDir(cfg Config) string {
	if cfg.General.ClaudeDir != "" {
		return cfg.General.ClaudeDir
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".claude")
}

// Load reads the config file, returning defaults if it doesn't exist.
func Load() (Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(ConfigPath())
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return cfg, fmt.Errorf("reading config: %w", err)
	}

	if err := toml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parsing config: %w", err)
	}

	return cfg, nil
}

// Save writes the config to disk.
func Save(cfg Config) error {
	dir := ConfigDir()
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating config dir: %w", err)
	}

	f, err := os.OpenFile(ConfigPath(), os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0o600)
	if err != nil {
		return fmt.Errorf("creating config file: %w", err)
	}
	defer f.Close()

	enc := toml.NewEncoder(f)
	return enc.Encode(cfg)
}

// GetToken returns the ingress token from env var or config, in that order.
func GetToken(cfg Config) string {
	if tok := os.Getenv("CCREPORT_TOKEN"); tok != "" {
		return tok
	}
	return cfg.Web.Token
}

// Exists returns true if a config file exists on disk.
func Exists() bool {
	_, err := os.Stat(ConfigPath())
	return err == nil
}
