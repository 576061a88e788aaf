// Package config provides centralized configuration management using Viper.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/mark3labs/bizdesk/internal/api"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

// DefaultModel is the Anthropic model used for copywriting when none is configured.
const DefaultModel = "claude-3-5-haiku-latest"

// Config holds all configuration values for bizdesk.
type Config struct {
	APIURL         string `mapstructure:"api_url" yaml:"api_url"`
	Token          string `mapstructure:"token" yaml:"token"`
	TenantID       string `mapstructure:"tenant_id" yaml:"tenant_id"`
	DataDir        string `mapstructure:"data_dir" yaml:"data_dir"`
	LogLevel       string `mapstructure:"log_level" yaml:"log_level"`
	LogFile        string `mapstructure:"log_file" yaml:"log_file"`
	AnthropicModel string `mapstructure:"anthropic_model" yaml:"anthropic_model"`
	RequestTimeout int    `mapstructure:"request_timeout" yaml:"request_timeout"`
	Headless       bool   `mapstructure:"headless" yaml:"headless"`
}

// envKeys maps config keys to the environment variables that override them.
var envKeys = map[string]string{
	"api_url":         "BIZDESK_API_URL",
	"token":           "BIZDESK_TOKEN",
	"tenant_id":       "BIZDESK_TENANT_ID",
	"data_dir":        "BIZDESK_DATA_DIR",
	"log_level":       "BIZDESK_LOG_LEVEL",
	"log_file":        "BIZDESK_LOG_FILE",
	"anthropic_model": "BIZDESK_ANTHROPIC_MODEL",
	"request_timeout": "BIZDESK_REQUEST_TIMEOUT",
	"headless":        "BIZDESK_HEADLESS",
}

// Load loads configuration with full precedence:
// CLI flags > ENV vars (including ./.env) > project config > XDG global config > defaults
func Load() (*Config, error) {
	// A missing .env is the common case.
	_ = godotenv.Load()

	v := viper.New()
	v.SetConfigType("yaml")
	v.SetConfigName("bizdesk")

	v.SetDefault("api_url", "")
	v.SetDefault("token", "")
	v.SetDefault("tenant_id", "")
	v.SetDefault("data_dir", ".bizdesk")
	v.SetDefault("log_level", "info")
	v.SetDefault("log_file", "")
	v.SetDefault("anthropic_model", DefaultModel)
	v.SetDefault("request_timeout", 15)
	v.SetDefault("headless", false)

	v.SetEnvPrefix("BIZDESK")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	for key, env := range envKeys {
		if err := v.BindEnv(key, env); err != nil {
			return nil, fmt.Errorf("binding %s env: %w", key, err)
		}
	}

	globalPath := GlobalPath()
	if fileExists(globalPath) {
		v.SetConfigFile(globalPath)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("reading global config: %w", err)
		}
	}

	projectPath := ProjectPath()
	if fileExists(projectPath) {
		v.SetConfigFile(projectPath)
		if err := v.MergeInConfig(); err != nil {
			return nil, fmt.Errorf("merging project config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshaling config: %w", err)
	}

	return &cfg, nil
}

// RequestContext returns the credentials every API call carries.
func (c *Config) RequestContext() api.RequestContext {
	return api.RequestContext{Token: c.Token, TenantID: c.TenantID}
}

// Timeout returns the per-request HTTP timeout.
func (c *Config) Timeout() time.Duration {
	if c.RequestTimeout <= 0 {
		return 15 * time.Second
	}
	return time.Duration(c.RequestTimeout) * time.Second
}

// DraftsPath returns the path of the local drafts database.
func (c *Config) DraftsPath() string {
	return filepath.Join(c.DataDir, "drafts.db")
}

// JournalDir returns the directory holding the embedded NATS journal.
func (c *Config) JournalDir() string {
	return filepath.Join(c.DataDir, "journal")
}

// Validate reports the first missing setting required to talk to the API.
func (c *Config) Validate() error {
	if c.APIURL == "" {
		return fmt.Errorf("api_url is not set (run `bizdesk setup` or set BIZDESK_API_URL)")
	}
	if c.Token == "" {
		return fmt.Errorf("token is not set (run `bizdesk setup` or set BIZDESK_TOKEN)")
	}
	return nil
}

// Exists returns true if any config file exists (global or project).
func Exists() bool {
	return fileExists(GlobalPath()) || fileExists(ProjectPath())
}

// GlobalPath returns the XDG global config path.
// Returns ~/.config/bizdesk/bizdesk.yml or $XDG_CONFIG_HOME/bizdesk/bizdesk.yml.
func GlobalPath() string {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "bizdesk", "bizdesk.yml")
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".config", "bizdesk", "bizdesk.yml")
}

// ProjectPath returns the project-local config path.
func ProjectPath() string {
	return "bizdesk.yml"
}

// WriteGlobal writes the config to the XDG global location.
func WriteGlobal(cfg *Config) error {
	path := GlobalPath()

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}
	return write(path, cfg)
}

// WriteProject writes the config to the project-local location.
func WriteProject(cfg *Config) error {
	return write(ProjectPath(), cfg)
}

func write(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}

	// The file holds an API token.
	if err := os.WriteFile(path, data, 0600); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}
	return nil
}

// fileExists checks if a file exists.
func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}
