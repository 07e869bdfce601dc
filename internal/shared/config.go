package shared

import (
	_ "embed"
	"fmt"
	"os"

	"github.com/BurntSushi/toml"
	"github.com/caarlos0/env/v11"
)

//go:embed config.example.toml
var exampleConf []byte

// Config represents the application configuration loaded from a TOML file.
// Environment variables (LECTERN_*) override file values.
type Config struct {
	CMS      CMSConfig      `toml:"cms"`
	Database DatabaseConfig `toml:"database"`
	Upload   UploadConfig   `toml:"upload"`
}

// CMSConfig contains connection settings and credentials for the curriculum CMS.
type CMSConfig struct {
	BaseURL      string `toml:"base_url" env:"LECTERN_CMS_BASE_URL"`
	APIToken     string `toml:"api_token" env:"LECTERN_CMS_API_TOKEN"`
	ClientID     string `toml:"client_id" env:"LECTERN_CMS_CLIENT_ID"`
	ClientSecret string `toml:"client_secret" env:"LECTERN_CMS_CLIENT_SECRET"`
	RedirectURI  string `toml:"redirect_uri" env:"LECTERN_CMS_REDIRECT_URI"`
}

// DatabaseConfig contains settings for the local upload-history database.
type DatabaseConfig struct {
	Path         string `toml:"path" env:"LECTERN_DB_PATH"`
	MaxOpenConns int    `toml:"max_open_conns"`
	MaxIdleConns int    `toml:"max_idle_conns"`
}

// UploadConfig contains upload pipeline settings.
type UploadConfig struct {
	RateLimit     float64 `toml:"rate_limit" env:"LECTERN_UPLOAD_RATE_LIMIT"` // CMS requests per second
	DefaultFolder string  `toml:"default_folder"`
	LogPath       string  `toml:"log_path"`
}

// LoadConfig reads and parses a TOML configuration file from the specified
// path, then applies any LECTERN_* environment overrides.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var config Config
	if err := toml.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	if err := env.Parse(&config); err != nil {
		return nil, fmt.Errorf("failed to apply environment overrides: %w", err)
	}

	return &config, nil
}

// DefaultConfig returns a Config with sensible defaults loaded from the
// embedded example config, with environment overrides applied.
func DefaultConfig() *Config {
	var config Config
	if err := toml.Unmarshal(exampleConf, &config); err != nil {
		panic(fmt.Sprintf("failed to parse embedded default config: %v", err))
	}
	if err := env.Parse(&config); err != nil {
		panic(fmt.Sprintf("failed to apply environment overrides: %v", err))
	}
	return &config
}

// CreateConfigFile creates a config.toml file at the specified path using the embedded example config.
func CreateConfigFile(path string) error {
	// Check if file already exists
	if _, err := os.Stat(path); err == nil {
		return fmt.Errorf("config file already exists at %s", path)
	}

	// Write the embedded example config to the file
	if err := os.WriteFile(path, exampleConf, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}
